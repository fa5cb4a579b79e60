// Package enrollment is the application layer over the activity registry.
package enrollment

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	apperrors "school-activities/internal/common/errors"
	"school-activities/internal/common/logger"
	"school-activities/internal/common/metrics"
	"school-activities/internal/common/observability"
	"school-activities/internal/events"
	"school-activities/internal/models"
	"school-activities/internal/registry"
)

const (
	opList       = "list"
	opSignup     = "signup"
	opUnregister = "unregister"
)

// ServiceDependencies holds the collaborators of a Service.
type ServiceDependencies struct {
	Registry       *registry.Registry
	Publisher      events.Publisher
	Observability  *observability.Observability
	Logger         logger.Logger
	PublishTimeout time.Duration
}

type Service struct {
	registry       *registry.Registry
	publisher      events.Publisher
	obs            *observability.Observability
	logger         logger.Logger
	publishTimeout time.Duration
}

func NewService(deps ServiceDependencies) *Service {
	s := &Service{
		registry:       deps.Registry,
		publisher:      deps.Publisher,
		obs:            deps.Observability,
		logger:         deps.Logger,
		publishTimeout: deps.PublishTimeout,
	}
	if s.publisher == nil {
		s.publisher = events.Nop{}
	}
	if s.obs == nil {
		s.obs = observability.Noop()
	}
	if s.logger == nil {
		s.logger = logger.NewNoOpLogger()
	}
	if s.publishTimeout <= 0 {
		s.publishTimeout = 3 * time.Second
	}
	s.logger = s.logger.WithFields(map[string]interface{}{"component": "enrollment"})

	for name, a := range s.registry.List() {
		metrics.ActivityCapacity.WithLabelValues(name).Set(float64(a.MaxParticipants))
		metrics.ActivityRosterSize.WithLabelValues(name).Set(float64(len(a.Participants)))
	}
	return s
}

func (s *Service) ListActivities(ctx context.Context) map[string]models.Activity {
	ctx, span := s.obs.StartSpan(ctx, "registry.list")
	defer span.End()

	start := time.Now()
	all := s.registry.List()
	s.obs.RecordOperation(ctx, opList, "ok", time.Since(start))
	span.SetAttributes(attribute.Int("activities.count", len(all)))
	return all
}

func (s *Service) Signup(ctx context.Context, activity, email string) (*models.Confirmation, error) {
	return s.mutate(ctx, opSignup, events.EventSignedUp, activity, email, s.registry.Signup)
}

func (s *Service) Unregister(ctx context.Context, activity, email string) (*models.Confirmation, error) {
	return s.mutate(ctx, opUnregister, events.EventUnregistered, activity, email, s.registry.Unregister)
}

func (s *Service) mutate(
	ctx context.Context,
	op string,
	eventType events.EventType,
	activity, email string,
	apply func(activity, email string) (*models.Confirmation, error),
) (*models.Confirmation, error) {
	ctx, span := s.obs.StartSpan(ctx, "registry."+op,
		attribute.String("activity", activity),
	)
	defer span.End()

	start := time.Now()
	conf, err := apply(activity, email)
	if err != nil {
		code := string(apperrors.Normalize(err).Code)
		s.obs.RecordOperation(ctx, op, code, time.Since(start))
		span.SetStatus(codes.Error, code)
		s.logger.Info(op+" rejected", map[string]interface{}{
			"activity":  activity,
			"email":     email,
			"errorCode": code,
		})
		return nil, err
	}
	s.obs.RecordOperation(ctx, op, "ok", time.Since(start))

	// The snapshot is taken after the lock is released; a concurrent change may
	// already be reflected in it, which is fine for gauges and events.
	snapshot, err := s.registry.Get(activity)
	if err == nil {
		metrics.ActivityRosterSize.WithLabelValues(activity).Set(float64(len(snapshot.Participants)))
		s.publish(ctx, events.NewRosterEvent(eventType, snapshot, email))
	}

	s.logger.Info(conf.Message, map[string]interface{}{
		"activity":   activity,
		"email":      email,
		"rosterSize": len(snapshot.Participants),
	})
	return conf, nil
}

// publish is best effort: the roster change has already happened, so a sink
// failure is logged and counted but never returned to the caller.
func (s *Service) publish(ctx context.Context, e events.RosterEvent) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()

	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.Warn("roster event not delivered", map[string]interface{}{
			"eventId":   e.ID,
			"eventType": string(e.Type),
			"activity":  e.Activity,
			"error":     err.Error(),
		})
	}
}
