// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package session

import (
	"context"
	"sync"
)

// Tracker hands out tickets so that only the most recently issued request may
// publish its result, no matter in which order requests finish.
type Tracker struct {
	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
}

// Ticket identifies one issued request.
type Ticket struct {
	tracker    *Tracker
	generation uint64
	cancel     context.CancelFunc
}

// Begin issues a new ticket and cancels the context of the previous one.
func (t *Tracker) Begin(parent context.Context) (*Ticket, context.Context) {
	ctx, cancel := context.WithCancel(parent)

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}
	t.generation++
	t.cancel = cancel

	return &Ticket{tracker: t, generation: t.generation, cancel: cancel}, ctx
}

// Current reports whether no newer ticket has been issued.
func (k *Ticket) Current() bool {
	k.tracker.mu.Lock()
	defer k.tracker.mu.Unlock()
	return k.tracker.generation == k.generation
}

// Commit runs apply only if the ticket is still current, and reports whether it ran.
// The tracker lock is held while apply runs, so apply must not call Begin.
func (k *Ticket) Commit(apply func()) bool {
	k.tracker.mu.Lock()
	defer k.tracker.mu.Unlock()

	if k.tracker.generation != k.generation {
		return false
	}

	apply()
	return true
}

// Done releases the ticket's context.
func (k *Ticket) Done() {
	k.cancel()
}

// Cancel supersedes whatever is in flight without issuing a new ticket.
func (t *Tracker) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.generation++
}
