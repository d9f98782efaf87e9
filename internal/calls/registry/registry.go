// Package registry tracks the calls this process is currently serving.
package registry

import (
	"context"
	"errors"
	"sync"
	"time"
)

type Status string

const (
	StatusActive Status = "active"
	StatusEnded  Status = "ended"
)

// Source records which system owns a call's signaling.
type Source string

const (
	SourceSIP     Source = "sip"
	SourceCarrier Source = "carrier"
)

var ErrDuplicateCall = errors.New("call already registered")

// CallRecord is the registry's view of one call.
type CallRecord struct {
	CallID       string    `json:"call_id"`
	CallerNumber string    `json:"caller_number"`
	StartedAt    time.Time `json:"started_at"`
	Status       Status    `json:"status"`
	Source       Source    `json:"source"`
}

type entry struct {
	record    CallRecord
	cancel    context.CancelFunc
	accepting bool
}

// Registry is safe for concurrent use. Critical sections only touch the map;
// cancel hooks run after the lock is released.
type Registry struct {
	mu    sync.RWMutex
	calls map[string]*entry
	now   func() time.Time
}

func New() *Registry {
	return &Registry{
		calls: make(map[string]*entry),
		now:   time.Now,
	}
}

// Add records a new active call. If the id is already present the existing
// record is returned with ErrDuplicateCall.
func (r *Registry) Add(callID, callerNumber string, source Source) (CallRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.calls[callID]; ok {
		return e.record, ErrDuplicateCall
	}
	rec := CallRecord{
		CallID:       callID,
		CallerNumber: callerNumber,
		StartedAt:    r.now().UTC(),
		Status:       StatusActive,
		Source:       source,
	}
	r.calls[callID] = &entry{record: rec}
	return rec, nil
}

// Claim marks callID as being accepted. It reports false when the call is
// unknown, already claimed, or already has a session attached, so exactly one
// delivery of a webhook goes on to answer the call.
func (r *Registry) Claim(callID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.calls[callID]
	if !ok || e.accepting || e.cancel != nil {
		return false
	}
	e.accepting = true
	return true
}

// Release drops a claim taken with Claim after the accept failed, leaving the
// record in place for a redelivered webhook.
func (r *Registry) Release(callID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.calls[callID]; ok {
		e.accepting = false
	}
}

// Attach registers the cancel func of the session serving callID and clears
// any claim. It reports false when the call is no longer registered or
// already has a session, in which case the caller owns cancellation.
func (r *Registry) Attach(callID string, cancel context.CancelFunc) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.calls[callID]
	if !ok || e.cancel != nil {
		return false
	}
	e.cancel = cancel
	e.accepting = false
	return true
}

// Attached reports whether a session has been attached to callID.
func (r *Registry) Attached(callID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.calls[callID]
	return ok && e.cancel != nil
}

// Get returns a copy of the record for callID.
func (r *Registry) Get(callID string) (CallRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.calls[callID]
	if !ok {
		return CallRecord{}, false
	}
	return e.record, true
}

// Remove deletes the record, cancels its session if one is attached and
// returns the record marked ended. Removing an unknown id is a no-op.
func (r *Registry) Remove(callID string) (CallRecord, bool) {
	r.mu.Lock()
	e, ok := r.calls[callID]
	if ok {
		delete(r.calls, callID)
	}
	r.mu.Unlock()

	if !ok {
		return CallRecord{}, false
	}
	if e.cancel != nil {
		e.cancel()
	}
	rec := e.record
	rec.Status = StatusEnded
	return rec, true
}

// Snapshot returns a copy of every active record keyed by call id.
func (r *Registry) Snapshot() map[string]CallRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]CallRecord, len(r.calls))
	for id, e := range r.calls {
		out[id] = e.record
	}
	return out
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.calls)
}

// CloseAll removes every call, cancelling attached sessions. Used on shutdown.
func (r *Registry) CloseAll() int {
	r.mu.Lock()
	entries := r.calls
	r.calls = make(map[string]*entry)
	r.mu.Unlock()

	for _, e := range entries {
		if e.cancel != nil {
			e.cancel()
		}
	}
	return len(entries)
}
