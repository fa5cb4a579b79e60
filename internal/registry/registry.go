// Package registry holds the in-memory activity table and its roster operations.
package registry

import (
	"fmt"
	"sync"

	apperrors "school-activities/internal/common/errors"
	"school-activities/internal/models"
)

// Registry stores activities keyed by name. All access is serialized by mu,
// which keeps the capacity and duplicate checks atomic with the mutation.
type Registry struct {
	mu         sync.RWMutex
	activities map[string]*models.Activity
}

// New builds a registry from seed. The seed is copied; later changes to the
// caller's slice do not reach the registry.
func New(seed []models.Activity) (*Registry, error) {
	if err := ValidateSeed(seed); err != nil {
		return nil, err
	}

	r := &Registry{activities: make(map[string]*models.Activity, len(seed))}
	for _, a := range seed {
		clone := a.Clone()
		r.activities[a.Name] = &clone
	}
	return r, nil
}

// List returns every activity keyed by name. The result is a deep copy.
func (r *Registry) List() map[string]models.Activity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]models.Activity, len(r.activities))
	for name, a := range r.activities {
		out[name] = a.Clone()
	}
	return out
}

// Get returns a copy of one activity.
func (r *Registry) Get(name string) (models.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.activities[name]
	if !ok {
		return models.Activity{}, apperrors.NewActivityNotFoundError(name)
	}
	return a.Clone(), nil
}

// Signup appends email to the roster of the named activity.
func (r *Registry) Signup(name, email string) (*models.Confirmation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.activities[name]
	if !ok {
		return nil, apperrors.NewActivityNotFoundError(name)
	}
	if a.HasParticipant(email) {
		return nil, apperrors.NewAlreadyRegisteredError(name, email)
	}
	if a.IsFull() {
		return nil, apperrors.NewCapacityExceededError(name, a.MaxParticipants)
	}

	a.Participants = append(a.Participants, email)

	return &models.Confirmation{
		Message:  fmt.Sprintf("Signed up %s for %s", email, name),
		Activity: name,
		Email:    email,
	}, nil
}

// Unregister removes email from the roster of the named activity.
func (r *Registry) Unregister(name, email string) (*models.Confirmation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.activities[name]
	if !ok {
		return nil, apperrors.NewActivityNotFoundError(name)
	}
	if !a.RemoveParticipant(email) {
		return nil, apperrors.NewNotRegisteredError(name, email)
	}

	return &models.Confirmation{
		Message:  fmt.Sprintf("Unregistered %s from %s", email, name),
		Activity: name,
		Email:    email,
	}, nil
}
