package job

import (
	"sync/atomic"

	"github.com/akolanti/DocStoreAPI/internal/domain/jobModel"
)

type Service struct {
	JobChannel        chan jobModel.Job
	RequestCount      int64
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore
}

type ServiceConfig struct {
	JobChannel        chan jobModel.Job
	RequestCount      int64
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore
}

func InitJobService(cfg ServiceConfig) *Service {
	return &Service{
		JobChannel:        cfg.JobChannel,
		RequestCount:      cfg.RequestCount,
		DispatcherChannel: cfg.DispatcherChannel,
		JobStore:          cfg.JobStore,
	}
}

// NotifyQueued bumps the request counter and nudges the dispatcher so the
// pool can grow ahead of the queue
func (s *Service) NotifyQueued() {
	atomic.AddInt64(&s.RequestCount, 1)
	s.DispatcherChannel <- true
}
