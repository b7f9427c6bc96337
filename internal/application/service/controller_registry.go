package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// ControllerFactory builds a fresh controller for a client seen for the first time.
type ControllerFactory func(clientID uuid.UUID) *FormController

// ControllerRegistry keeps one FormController per client and drops the ones
// that have been idle longer than the TTL.
type ControllerRegistry struct {
	factory     ControllerFactory
	controllers map[uuid.UUID]*controllerEntry
	mu          sync.Mutex
	idleTTL     time.Duration
	cleanupTick time.Duration
	now         func() time.Time
	done        chan struct{}
	closeOnce   sync.Once
}

type controllerEntry struct {
	controller *FormController
	lastSeen   time.Time
}

// NewControllerRegistry creates a registry and starts its eviction loop.
// A non-positive idleTTL disables eviction.
func NewControllerRegistry(factory ControllerFactory, idleTTL time.Duration) *ControllerRegistry {
	r := &ControllerRegistry{
		factory:     factory,
		controllers: make(map[uuid.UUID]*controllerEntry),
		idleTTL:     idleTTL,
		cleanupTick: idleTTL / 2,
		now:         time.Now,
		done:        make(chan struct{}),
	}

	if idleTTL > 0 {
		go r.cleanupLoop()
	}

	return r
}

// Get returns the controller for clientID, creating it on first use.
func (r *ControllerRegistry) Get(clientID uuid.UUID) *FormController {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.controllers[clientID]; ok {
		entry.lastSeen = r.now()
		return entry.controller
	}

	ctrl := r.factory(clientID)
	r.controllers[clientID] = &controllerEntry{controller: ctrl, lastSeen: r.now()}
	return ctrl
}

// Len returns the number of live controllers.
func (r *ControllerRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.controllers)
}

// Close stops the eviction loop.
func (r *ControllerRegistry) Close() {
	r.closeOnce.Do(func() { close(r.done) })
}

func (r *ControllerRegistry) cleanupLoop() {
	ticker := time.NewTicker(r.cleanupTick)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.evictIdle()
		case <-r.done:
			return
		}
	}
}

// evictIdle removes controllers unused for longer than the idle TTL.
func (r *ControllerRegistry) evictIdle() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-r.idleTTL)
	evicted := 0
	for id, entry := range r.controllers {
		if entry.lastSeen.Before(cutoff) {
			delete(r.controllers, id)
			evicted++
		}
	}
	return evicted
}
