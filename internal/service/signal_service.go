package service

import (
	"sync"
	"time"

	"github.com/jmatosr02/tv-mt4-bridge/internal/data"
	"github.com/jmatosr02/tv-mt4-bridge/internal/metrics"
	"github.com/jmatosr02/tv-mt4-bridge/internal/model"
)

// Result classifies what a decision did to the signal
type Result string

const (
	ResultApproved        Result = "approved"
	ResultAlreadyApproved Result = "already_approved"
	ResultDenied          Result = "denied"
	ResultAlreadyTerminal Result = "already_terminal"
	ResultNotFound        Result = "not_found"
	ResultInvalid         Result = "invalid"
	ResultUnauthorized    Result = "unauthorized"
)

// Outcome is returned by Decide. Signal is the record after the transition
// (or the removed record for denials) and nil when nothing matched.
type Outcome struct {
	Result Result
	ID     string
	Signal *model.Signal
}

// Removal reasons used for metrics
const (
	reasonPop    = "pop"
	reasonDeny   = "deny"
	reasonRemove = "remove"
)

// SignalService owns the signal store and queue. Every operation that
// touches both runs under one lock so readers never see them disagree.
type SignalService struct {
	mu    sync.RWMutex
	store *data.SignalStore
	queue *data.SignalQueue
	now   func() time.Time
}

// NewSignalService creates a service whose queue holds at most capacity ids
func NewSignalService(capacity int) *SignalService {
	return &SignalService{
		store: data.NewSignalStore(),
		queue: data.NewSignalQueue(capacity),
		now:   time.Now,
	}
}

// Capacity returns the queue bound
func (s *SignalService) Capacity() int {
	return s.queue.Capacity()
}

// Submit stores and enqueues a new pending signal. Ids evicted by the
// queue bound are purged from the store before the lock is released.
func (s *SignalService) Submit(sub model.Submission) (model.Signal, int, []string) {
	s.mu.Lock()
	sig := s.store.Create(sub, s.now())
	var evicted []string
	if id, ok := s.queue.Enqueue(sig.ID); ok {
		s.store.Delete(id)
		evicted = append(evicted, id)
	}
	pending := s.queue.Len()
	s.mu.Unlock()

	metrics.SignalsIngested.WithLabelValues(string(sig.Side)).Inc()
	metrics.SignalsEvicted.Add(float64(len(evicted)))
	metrics.SignalsPending.Set(float64(pending))
	return sig, pending, evicted
}

// Next returns the head of the queue regardless of its status
func (s *SignalService) Next() *model.Signal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.queue.PeekFront()
	if !ok {
		return nil
	}
	sig, ok := s.store.Get(id)
	if !ok {
		return nil
	}
	return &sig
}

// Get looks up a signal by id
func (s *SignalService) Get(id string) (model.Signal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.store.Get(id)
}

// Pending returns the queue length
func (s *SignalService) Pending() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.queue.Len()
}

// Snapshot returns every queued signal, head first
func (s *SignalService) Snapshot() []model.Signal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.queue.IDs()
	result := make([]model.Signal, 0, len(ids))
	for _, id := range ids {
		if sig, ok := s.store.Get(id); ok {
			result = append(result, sig)
		}
	}
	return result
}

// Pop removes a signal from both queue and store. An empty id pops the head.
// It returns the removed id, or false when nothing matched.
func (s *SignalService) Pop(id string) (string, bool, int) {
	s.mu.Lock()
	removed := ""
	if id == "" {
		if head, ok := s.queue.PopFront(); ok {
			removed = head
		}
	} else if s.queue.Remove(id) {
		removed = id
	}
	if removed != "" {
		s.store.Delete(removed)
	}
	pending := s.queue.Len()
	s.mu.Unlock()

	metrics.SignalsPending.Set(float64(pending))
	if removed == "" {
		return "", false, pending
	}
	reason := reasonPop
	if id != "" {
		reason = reasonRemove
	}
	metrics.SignalsRemoved.WithLabelValues(reason).Inc()
	return removed, true, pending
}

// Decide applies an approval decision. Only pending signals transition;
// approvals keep the signal queued, denials remove it from queue and store.
func (s *SignalService) Decide(d model.Decision) Outcome {
	var out Outcome
	switch d := d.(type) {
	case model.Approve:
		out = s.approve(d.ID)
	case model.Deny:
		out = s.deny(d.ID)
	default:
		out = Outcome{Result: ResultInvalid}
	}

	metrics.ApprovalDecisions.WithLabelValues(string(out.Result)).Inc()
	if out.Result == ResultDenied {
		metrics.SignalsRemoved.WithLabelValues(reasonDeny).Inc()
		metrics.SignalsPending.Set(float64(s.Pending()))
	}
	return out
}

func (s *SignalService) approve(id string) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	sig, ok := s.store.Get(id)
	if !ok {
		return Outcome{Result: ResultNotFound, ID: id}
	}
	switch sig.Status {
	case model.StatusApproved:
		return Outcome{Result: ResultAlreadyApproved, ID: id, Signal: &sig}
	case model.StatusPending:
		s.store.SetStatus(id, model.StatusApproved)
		sig.Status = model.StatusApproved
		return Outcome{Result: ResultApproved, ID: id, Signal: &sig}
	default:
		return Outcome{Result: ResultAlreadyTerminal, ID: id, Signal: &sig}
	}
}

func (s *SignalService) deny(id string) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	sig, ok := s.store.Get(id)
	if !ok {
		return Outcome{Result: ResultNotFound, ID: id}
	}
	if sig.Status.IsTerminal() {
		return Outcome{Result: ResultAlreadyTerminal, ID: id, Signal: &sig}
	}

	s.queue.Remove(id)
	s.store.Delete(id)
	sig.Status = model.StatusDenied
	return Outcome{Result: ResultDenied, ID: id, Signal: &sig}
}
