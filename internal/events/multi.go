package events

import (
	"context"
	"errors"
	"fmt"

	"school-activities/internal/common/metrics"
)

// Multi fans an event out to every sink. A failing sink does not stop the
// others; the failures are joined into the returned error.
type Multi struct {
	sinks []Publisher
}

func NewMulti(sinks ...Publisher) *Multi {
	return &Multi{sinks: sinks}
}

func (m *Multi) Name() string { return "multi" }

// Len reports the number of configured sinks.
func (m *Multi) Len() int { return len(m.sinks) }

func (m *Multi) Publish(ctx context.Context, e RosterEvent) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Publish(ctx, e); err != nil {
			metrics.RosterEventsFailed.WithLabelValues(s.Name()).Inc()
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func (m *Multi) Close() error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}
