package report

import (
	"sync"
	"time"

	"github.com/okian/journal/internal/domain/model"
)

const defaultRetention = 1000

// Tracker remembers the state of recent report jobs. The oldest finished
// jobs are forgotten once more than the retention limit are held.
type Tracker struct {
	mu        sync.RWMutex
	jobs      map[string]*model.ReportStatus
	order     []string
	retention int
}

// NewTracker creates a tracker keeping up to retention jobs (0 means 1000).
func NewTracker(retention int) *Tracker {
	if retention <= 0 {
		retention = defaultRetention
	}
	return &Tracker{jobs: make(map[string]*model.ReportStatus), retention: retention}
}

// Submit records a queued job.
func (t *Tracker) Submit(j model.ReportJob) model.ReportStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	st := &model.ReportStatus{ReportJob: j, State: model.ReportQueued}
	t.jobs[j.ID] = st
	t.order = append(t.order, j.ID)
	t.evictLocked()
	return *st
}

// Forget drops a job that never reached the queue.
func (t *Tracker) Forget(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.jobs, id)
	for i, v := range t.order {
		if v == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
}

func (t *Tracker) evictLocked() {
	for len(t.order) > t.retention {
		evicted := false
		for i, id := range t.order {
			st := t.jobs[id]
			if st == nil || st.State == model.ReportSent || st.State == model.ReportFailed {
				delete(t.jobs, id)
				t.order = append(t.order[:i], t.order[i+1:]...)
				evicted = true
				break
			}
		}
		if !evicted {
			return
		}
	}
}

// Start marks a job as running.
func (t *Tracker) Start(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if st, ok := t.jobs[id]; ok {
		st.State = model.ReportRunning
	}
}

// Finish records the outcome of a job.
func (t *Tracker) Finish(id, messageID string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	st, ok := t.jobs[id]
	if !ok {
		return
	}
	now := time.Now().UTC()
	st.FinishedAt = &now
	st.MessageID = messageID
	st.State, st.Error = model.ReportSent, ""
	if err != nil {
		st.State, st.Error = model.ReportFailed, err.Error()
	}
	t.evictLocked()
}

// Get returns the status of a job.
func (t *Tracker) Get(id string) (model.ReportStatus, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	st, ok := t.jobs[id]
	if !ok {
		return model.ReportStatus{}, ErrJobNotFound
	}
	return *st, nil
}
