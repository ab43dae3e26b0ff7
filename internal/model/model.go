// Package model defines the interface to external ML inference and the
// registry/guard plumbing around it. The engine does no feature engineering
// or model loading of its own; a Client wraps whatever serving stack hosts
// the trained model.
package model

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
)

// ErrNoModels is returned when a registry holds no clients at all.
var ErrNoModels = errors.New("model: no clients registered")

// Client produces an admission probability from a pre-built feature vector.
// Implementations may be CPU-bound and synchronous; callers treat the call
// as blocking.
type Client interface {
	Name() string
	PredictProba(ctx context.Context, features []float64) (float64, error)
}

// ImportanceReporter is optionally implemented by clients that can explain
// their predictions with per-feature importances.
type ImportanceReporter interface {
	FeatureImportances() map[string]float64
}

// Registry holds named clients. Lookup of an unknown name falls back to any
// registered client rather than failing, so a stale model name in a request
// degrades instead of erroring.
type Registry struct {
	mu      sync.RWMutex
	clients map[string]Client
	order   []string
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{clients: make(map[string]Client)}
}

// Register adds a client under its own name, replacing any previous entry.
func (r *Registry) Register(c Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := c.Name()
	if _, exists := r.clients[name]; !exists {
		r.order = append(r.order, name)
	}
	r.clients[name] = c
}

// Resolve returns the client for name. When the name is unknown it warns and
// returns the earliest-registered client instead; only an empty registry
// errors.
func (r *Registry) Resolve(name string) (Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if c, ok := r.clients[name]; ok {
		return c, nil
	}
	if len(r.order) == 0 {
		return nil, ErrNoModels
	}

	fallback := r.order[0]
	log.Warn().
		Str("requested", name).
		Str("fallback", fallback).
		Msg("unknown model name, using registered fallback")
	return r.clients[fallback], nil
}

// Names lists registered client names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// StaticClient returns a fixed probability regardless of features. Useful in
// tests and as a stand-in when inference runs out of process.
type StaticClient struct {
	ClientName  string
	Probability float64
	Importances map[string]float64
}

func (s StaticClient) Name() string { return s.ClientName }

func (s StaticClient) PredictProba(_ context.Context, _ []float64) (float64, error) {
	if s.Probability < 0 || s.Probability > 1 {
		return 0, fmt.Errorf("model %s: probability %v out of range", s.ClientName, s.Probability)
	}
	return s.Probability, nil
}

// FeatureImportances returns a copy sorted deterministically on access.
func (s StaticClient) FeatureImportances() map[string]float64 {
	if s.Importances == nil {
		return nil
	}
	out := make(map[string]float64, len(s.Importances))
	keys := make([]string, 0, len(s.Importances))
	for k := range s.Importances {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out[k] = s.Importances[k]
	}
	return out
}
