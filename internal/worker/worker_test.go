package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/akolanti/DocStoreAPI/internal/config"
	"github.com/akolanti/DocStoreAPI/internal/domain/docModel"
	"github.com/akolanti/DocStoreAPI/internal/domain/jobModel"
	"github.com/akolanti/DocStoreAPI/internal/job"
	"github.com/akolanti/DocStoreAPI/pkg/logger_i"
)

// MockDocStore tracks if jobs are executed
type MockDocStore struct {
	IngestedCount int32
	OnIngest      func(ctx context.Context, input docModel.IngestInput) docModel.IngestResult
}

func (m *MockDocStore) Ingest(ctx context.Context, input docModel.IngestInput) docModel.IngestResult {
	atomic.AddInt32(&m.IngestedCount, 1)
	if m.OnIngest != nil {
		return m.OnIngest(ctx, input)
	}
	return docModel.IngestResult{Success: true, DocumentID: "doc-1"}
}

func (m *MockDocStore) Bootstrap(ctx context.Context) error { return nil }

func (m *MockDocStore) Search(ctx context.Context, queryText string, collectionTypes []string, topK int, minScore float32) ([]docModel.SearchResult, error) {
	return nil, nil
}

func (m *MockDocStore) DeleteDocument(ctx context.Context, documentID string) (bool, error) {
	return false, nil
}

func (m *MockDocStore) ResetCollection(ctx context.Context, collectionType string) bool { return false }

func (m *MockDocStore) ResetAll(ctx context.Context) bool { return false }

func (m *MockDocStore) Status(ctx context.Context) docModel.StoreStatus {
	return docModel.StoreStatus{}
}

func (m *MockDocStore) Connected(ctx context.Context) bool { return true }

func (m *MockDocStore) IsReady(ctx context.Context) bool { return true }

func (m *MockDocStore) ActiveRetrievers() []string { return nil }

type MockJobStore struct {
	mu    sync.Mutex
	saved []jobModel.Job
}

func (m *MockJobStore) GetJob(ctx context.Context, jobId string) (jobModel.Job, bool) {
	//TODO implement me
	panic("implement me")
}

func (m *MockJobStore) DeleteJob(ctx context.Context, jobID string) {
	//TODO implement me
	panic("implement me")
}

func (m *MockJobStore) SaveJob(ctx context.Context, j jobModel.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, j)
	return nil
}

func (m *MockJobStore) lastSaved() (jobModel.Job, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.saved) == 0 {
		return jobModel.Job{}, false
	}
	return m.saved[len(m.saved)-1], true
}

func TestWorkerPool_Flow(t *testing.T) {
	// 1. Setup
	jobStore := &MockJobStore{}
	jobSvc := &job.Service{
		JobChannel:        make(chan jobModel.Job, 10),
		DispatcherChannel: make(chan bool, 10),
		JobStore:          jobStore,
	}
	mockStore := &MockDocStore{
		OnIngest: func(ctx context.Context, input docModel.IngestInput) docModel.IngestResult {
			if input.RequestID == "fail" {
				return docModel.IngestResult{Success: false, Error: "no readable content"}
			}
			return docModel.IngestResult{Success: true, DocumentID: "doc-1"}
		},
	}
	stopChan := make(chan bool)
	wg := &sync.WaitGroup{}

	InitServices(jobSvc, mockStore)
	InitWorkerPool(stopChan, wg)

	// Reset global state for test
	atomic.StoreInt64(&currentWorkerCount, 0)

	t.Run("Dispatcher creates worker on signal", func(t *testing.T) {
		// Signal dispatcher to create a worker
		jobSvc.DispatcherChannel <- true

		// Give it a millisecond to spawn
		time.Sleep(50 * time.Millisecond)

		count := atomic.LoadInt64(&currentWorkerCount)
		if count < 1 {
			t.Errorf("Expected at least 1 worker, got %d", count)
		}
	})

	t.Run("Worker processes a job", func(t *testing.T) {
		testJob := jobModel.Job{Id: "test-1", TraceId: "trace-1"}
		jobSvc.JobChannel <- testJob

		// Wait for worker to pick up and process
		time.Sleep(50 * time.Millisecond)

		processed := atomic.LoadInt32(&mockStore.IngestedCount)
		if processed != 1 {
			t.Errorf("Expected 1 job processed, got %d", processed)
		}

		final, ok := jobStore.lastSaved()
		if !ok {
			t.Fatal("Expected job states to be saved")
		}
		if final.Status != jobModel.JobStatusComplete {
			t.Errorf("Expected final status COMPLETE, got %s", final.Status)
		}
		if final.Result == nil || final.Result.DocumentID != "doc-1" {
			t.Errorf("Expected ingest result on the saved job, got %+v", final.Result)
		}
		if final.EndTime.IsZero() {
			t.Error("Expected EndTime to be set on the completed job")
		}
	})

	t.Run("Failed ingest marks the job as error", func(t *testing.T) {
		jobSvc.JobChannel <- jobModel.Job{Id: "test-2", TraceId: "trace-2", RequestId: "fail"}
		time.Sleep(50 * time.Millisecond)

		final, ok := jobStore.lastSaved()
		if !ok {
			t.Fatal("Expected job states to be saved")
		}
		if final.Status != jobModel.JobStatusError {
			t.Errorf("Expected final status Error, got %s", final.Status)
		}
		if final.Error.Message != "no readable content" {
			t.Errorf("Expected the ingest error on the job, got %q", final.Error.Message)
		}
	})

	t.Run("Stop signal retires workers", func(t *testing.T) {
		// Send stop signal
		close(stopChan)

		// Wait for workers to exit
		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			// Success
		case <-time.After(2 * time.Second):
			t.Error("Workers did not stop within timeout")
		}
	})
}

func TestWorker_IdleTimeout(t *testing.T) {
	// Temporarily override config/globals for test
	atomic.StoreInt64(&currentWorkerCount, 0)
	atomic.StoreInt64(&minWorkerCount, 0) // Let the only worker retire
	logger = logger_i.NewLogger("TestWorkerPool")
	jobSvc := &job.Service{
		JobChannel: make(chan jobModel.Job),
	}
	InitServices(jobSvc, &MockDocStore{})

	wg := &sync.WaitGroup{}
	stopChan := make(chan bool)
	workerWaitGroup = wg
	stopWorkerChannel = stopChan

	// Spawn 1 worker manually
	createWorker()
	time.Sleep(config.IdleWorkerTimeout)

	time.Sleep(100 * time.Millisecond)
	count := atomic.LoadInt64(&currentWorkerCount)
	if count != 0 {
		t.Errorf("Assertion Failed: Worker should have timed out and retired, but count is %d", count)
	}
}
