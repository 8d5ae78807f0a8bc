package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/mpurwadi/tdi-main-app-employee-sub000/internal/domain"
	"github.com/mpurwadi/tdi-main-app-employee-sub000/pkg/e"
)

// PermissionQuerier asks the environment for its current authorization state.
type PermissionQuerier interface {
	QueryPermissions(ctx context.Context) (domain.Permissions, error)
}

// PermissionTracker keeps the last known camera and location authorization
// and pushes every change to its listeners, in the order the changes were
// applied. It never requests permission. Listeners must not call Apply or Set.
type PermissionTracker struct {
	// notifyMu serializes Apply so listeners never see an older state after
	// a newer one.
	notifyMu  sync.Mutex
	mu        sync.Mutex
	state     domain.Permissions
	listeners map[uint64]func(domain.Permissions)
	nextID    uint64
}

func NewPermissionTracker() *PermissionTracker {
	return &PermissionTracker{
		state:     domain.UnknownPermissions(),
		listeners: make(map[uint64]func(domain.Permissions)),
	}
}

func (t *PermissionTracker) Current() domain.Permissions {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *PermissionTracker) Set(c domain.Capability, s domain.PermissionState) error {
	p := domain.Permissions{}
	switch c {
	case domain.CapabilityCamera:
		p.Camera = s
	case domain.CapabilityLocation:
		p.Location = s
	default:
		return fmt.Errorf("unknown capability %q: %w", c, e.ErrInvalidInput)
	}
	return t.Apply(p)
}

// Apply merges p into the tracked state. Empty fields are left unchanged.
func (t *PermissionTracker) Apply(p domain.Permissions) error {
	if p.Camera != "" && !p.Camera.Valid() {
		return fmt.Errorf("camera state %q: %w", p.Camera, e.ErrInvalidInput)
	}
	if p.Location != "" && !p.Location.Valid() {
		return fmt.Errorf("location state %q: %w", p.Location, e.ErrInvalidInput)
	}

	t.notifyMu.Lock()
	defer t.notifyMu.Unlock()

	t.mu.Lock()
	next := t.state
	if p.Camera != "" {
		next.Camera = p.Camera
	}
	if p.Location != "" {
		next.Location = p.Location
	}
	if next == t.state {
		t.mu.Unlock()
		return nil
	}
	t.state = next
	fns := make([]func(domain.Permissions), 0, len(t.listeners))
	for _, fn := range t.listeners {
		fns = append(fns, fn)
	}
	t.mu.Unlock()

	for _, fn := range fns {
		fn(next)
	}
	return nil
}

func (t *PermissionTracker) Refresh(ctx context.Context, q PermissionQuerier) error {
	p, err := q.QueryPermissions(ctx)
	if err != nil {
		return err
	}
	return t.Apply(p)
}

// Subscribe registers fn for state changes. The returned func removes it.
func (t *PermissionTracker) Subscribe(fn func(domain.Permissions)) func() {
	t.mu.Lock()
	id := t.nextID
	t.nextID++
	t.listeners[id] = fn
	t.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.listeners, id)
			t.mu.Unlock()
		})
	}
}
