package store

import (
	"context"
	"sync"
	"time"

	"github.com/akolanti/DocStoreAPI/internal/config"
	"github.com/akolanti/DocStoreAPI/internal/domain/jobModel"
	"github.com/akolanti/DocStoreAPI/pkg/logger_i"
)

var inMemLogger = logger_i.NewLogger("InMem Store")

type InMemoryJobStore struct {
	jobMutex *sync.RWMutex
	jobMap   map[string]jobModel.Job
}

func InitInMemoryJobStore() *InMemoryJobStore {
	s := &InMemoryJobStore{
		jobMutex: new(sync.RWMutex),
		jobMap:   make(map[string]jobModel.Job),
	}
	go s.evictFinished()
	return s
}

func (store *InMemoryJobStore) SaveJob(ctx context.Context, jobToStored jobModel.Job) error {

	store.jobMutex.Lock()
	defer store.jobMutex.Unlock()
	store.jobMap[jobToStored.Id] = jobToStored
	inMemLogger.Info(jobToStored.Id, " : Saved job to store")
	return nil
}

func (store *InMemoryJobStore) GetJob(ctx context.Context, jobId string) (jobModel.Job, bool) {
	store.jobMutex.RLock()
	defer store.jobMutex.RUnlock()
	result, found := store.jobMap[jobId]
	inMemLogger.Info(jobId, " : Is job found :", found)
	return result, found
}

func (store *InMemoryJobStore) DeleteJob(ctx context.Context, jobID string) {
	store.jobMutex.Lock()
	defer store.jobMutex.Unlock()
	delete(store.jobMap, jobID)
}

// evictFinished mirrors the redis job TTL, finished jobs would otherwise sit
// in the map for the life of the process
func (store *InMemoryJobStore) evictFinished() {
	ticker := time.NewTicker(config.JobEvictionSweepInterval)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-config.RedisJobStoreTTL)
		store.jobMutex.Lock()
		for id, job := range store.jobMap {
			if !job.EndTime.IsZero() && job.EndTime.Before(cutoff) {
				delete(store.jobMap, id)
			}
		}
		store.jobMutex.Unlock()
	}
}
