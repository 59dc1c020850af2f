package data

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmatosr02/tv-mt4-bridge/internal/model"
)

// SignalStore maps signal ids to their records.
// It is not safe for concurrent use; the owning service serializes access.
type SignalStore struct {
	signals map[string]model.Signal
	newID   func(now time.Time) string
}

// NewSignalStore creates an empty store
func NewSignalStore() *SignalStore {
	return &SignalStore{
		signals: make(map[string]model.Signal),
		newID:   generateID,
	}
}

// generateID keeps the sig_<unix-ms> prefix consumers already parse and
// appends a random suffix so ids stay unique within one millisecond.
func generateID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("sig_%d_%s", now.UnixMilli(), suffix)
}

// Create stores a new pending signal and returns it
func (s *SignalStore) Create(sub model.Submission, now time.Time) model.Signal {
	id := s.newID(now)
	for {
		if _, taken := s.signals[id]; !taken {
			break
		}
		id = s.newID(now)
	}

	sig := model.Signal{
		ID:        id,
		CreatedAt: now.UTC(),
		Symbol:    sub.Symbol,
		Side:      sub.Side,
		OrderType: sub.OrderType,
		Timeframe: sub.Timeframe,
		Strategy:  sub.Strategy,
		Meta:      sub.Meta,
		Status:    model.StatusPending,
	}
	if sub.Price != nil {
		p := *sub.Price
		sig.Price = &p
	}

	s.signals[id] = sig
	return sig.Clone()
}

// Get returns a copy of the signal stored under id
func (s *SignalStore) Get(id string) (model.Signal, bool) {
	sig, ok := s.signals[id]
	if !ok {
		return model.Signal{}, false
	}
	return sig.Clone(), true
}

// SetStatus updates the status of id; it returns false for unknown ids
func (s *SignalStore) SetStatus(id string, status model.Status) bool {
	sig, ok := s.signals[id]
	if !ok {
		return false
	}
	sig.Status = status
	s.signals[id] = sig
	return true
}

// Delete removes id; deleting an absent id is a no-op
func (s *SignalStore) Delete(id string) {
	delete(s.signals, id)
}

// Len returns the number of stored signals
func (s *SignalStore) Len() int {
	return len(s.signals)
}
