// Package pagestate guards page view models against late responses.
//
// A Scope lives as long as one page view. Every fetch takes a Ticket;
// its result may only be written into the view while the ticket is
// current, i.e. the page is still open and no newer fetch for the same
// scope has started.
package pagestate

import (
	"context"
	"sync/atomic"
)

// Scope is the lifetime of one page view
type Scope struct {
	ctx context.Context
	gen atomic.Uint64
}

// New creates a scope that ends when ctx is done
func New(ctx context.Context) *Scope {
	return &Scope{ctx: ctx}
}

// Context returns the context bounding the page view
func (s *Scope) Context() context.Context {
	return s.ctx
}

// Ticket marks one fetch within a scope
type Ticket struct {
	scope *Scope
	gen   uint64
}

// Begin starts a fetch and invalidates tickets of earlier ones
func (s *Scope) Begin() Ticket {
	return Ticket{scope: s, gen: s.gen.Add(1)}
}

// End invalidates every outstanding ticket
func (s *Scope) End() {
	s.gen.Add(1)
}

// Current reports whether a result for t may still be applied
func (t Ticket) Current() bool {
	if t.scope == nil || t.scope.ctx.Err() != nil {
		return false
	}
	return t.scope.gen.Load() == t.gen
}

// Apply stores v into dst only while t is current
func Apply[T any](t Ticket, dst *T, v T) bool {
	if !t.Current() {
		return false
	}
	*dst = v
	return true
}

// Err is nil while t is current. Otherwise it is the scope's context
// error, or context.Canceled when a newer fetch replaced t.
func (t Ticket) Err() error {
	if t.Current() {
		return nil
	}
	if t.scope != nil {
		if err := t.scope.ctx.Err(); err != nil {
			return err
		}
	}
	return context.Canceled
}
