package session

import (
	"context"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	apperrors "github.com/louisbranch/sadari/internal/platform/errors"
	"github.com/louisbranch/sadari/internal/platform/id"
)

type registryEntry struct {
	mu         sync.Mutex
	controller *Controller
	// lastUsed is guarded by mu.
	lastUsed time.Time
}

// Registry owns the live games of a process. Calls for the same game are
// serialized; different games proceed independently.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*registryEntry

	options       Options
	idGenerator   func() (string, error)
	newController func(id string, options Options) *Controller
	clock         func() time.Time
}

// NewRegistry creates an empty registry whose games share options.
func NewRegistry(options Options) *Registry {
	return &Registry{
		entries:       make(map[string]*registryEntry),
		options:       options,
		idGenerator:   id.NewID,
		newController: NewController,
		clock:         time.Now,
	}
}

// Create confirms a new game and stores it. A rejected setup stores nothing.
func (r *Registry) Create(players []string, penaltyText string) (State, error) {
	sessionID, err := r.idGenerator()
	if err != nil {
		return State{}, apperrors.Wrap(apperrors.CodeLadderInternal, "generate session id", err)
	}
	controller := r.newController(sessionID, r.options)
	state, err := controller.Confirm(players, penaltyText)
	if err != nil {
		return State{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[sessionID]; exists {
		return State{}, apperrors.New(apperrors.CodeLadderInternal, fmt.Sprintf("session id %s already in use", sessionID))
	}
	r.entries[sessionID] = &registryEntry{controller: controller, lastUsed: r.clock()}
	return state, nil
}

// Do runs fn with exclusive access to the game's controller.
func (r *Registry) Do(sessionID string, fn func(*Controller) error) error {
	entry, err := r.entry(sessionID)
	if err != nil {
		return err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.lastUsed = r.clock()
	return fn(entry.controller)
}

// Get returns a snapshot of the game.
func (r *Registry) Get(sessionID string) (State, error) {
	var state State
	err := r.Do(sessionID, func(c *Controller) error {
		state = c.State()
		return nil
	})
	return state, err
}

// Delete forgets the game and returns its last snapshot. A reveal still in
// flight is discarded with the game.
func (r *Registry) Delete(sessionID string) (State, error) {
	r.mu.Lock()
	entry, ok := r.entries[sessionID]
	if ok {
		delete(r.entries, sessionID)
	}
	r.mu.Unlock()
	if !ok {
		return State{}, notFound(sessionID)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.controller.State(), nil
}

// EvictIdle forgets every game untouched for longer than idle and returns
// their IDs in order. Games busy in Do are kept.
func (r *Registry) EvictIdle(idle time.Duration) []string {
	cutoff := r.clock().Add(-idle)

	r.mu.Lock()
	defer r.mu.Unlock()
	var evicted []string
	for sessionID, entry := range r.entries {
		if !entry.mu.TryLock() {
			continue
		}
		lastUsed := entry.lastUsed
		entry.mu.Unlock()
		if lastUsed.Before(cutoff) {
			delete(r.entries, sessionID)
			evicted = append(evicted, sessionID)
		}
	}
	slices.Sort(evicted)
	return evicted
}

// StartEviction evicts games idle for longer than idle until ctx ends. A
// non-positive idle keeps games until they are deleted.
func (r *Registry) StartEviction(ctx context.Context, idle time.Duration) {
	if r == nil || idle <= 0 {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	go func() {
		ticker := time.NewTicker(min(idle, time.Minute))
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if evicted := r.EvictIdle(idle); len(evicted) > 0 {
					log.Printf("evicted idle sessions count=%d live=%d", len(evicted), r.Len())
				}
			}
		}
	}()
}

// Len returns the number of live games.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

func (r *Registry) entry(sessionID string) (*registryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[sessionID]
	if !ok {
		return nil, notFound(sessionID)
	}
	return entry, nil
}

func notFound(sessionID string) error {
	return apperrors.WithMetadata(
		apperrors.CodeLadderSessionNotFound,
		fmt.Sprintf("session %s not found", sessionID),
		map[string]string{"SessionID": sessionID},
	)
}
