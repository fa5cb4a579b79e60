package enrollment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "school-activities/internal/common/errors"
	"school-activities/internal/common/logger"
	"school-activities/internal/common/metrics"
	"school-activities/internal/common/observability"
	"school-activities/internal/events"
	"school-activities/internal/models"
	"school-activities/internal/registry"
)

// ==========================
// Mock Publisher
// ==========================

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Name() string { return "mock" }

func (m *MockPublisher) Publish(ctx context.Context, e events.RosterEvent) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockPublisher) Close() error { return nil }

// ==========================
// Test Helpers
// ==========================

func createTestService(t *testing.T, pub events.Publisher) *Service {
	t.Helper()
	reg, err := registry.New([]models.Activity{
		{Name: "Robotics", Description: "Build robots", Schedule: "Saturdays", MaxParticipants: 2},
	})
	require.NoError(t, err)

	return NewService(ServiceDependencies{
		Registry:       reg,
		Publisher:      pub,
		Observability:  observability.Noop(),
		Logger:         logger.NewTestLogger(t),
		PublishTimeout: time.Second,
	})
}

// ==========================
// Core Functionality Tests
// ==========================

func TestService_Signup_PublishesEvent(t *testing.T) {
	pub := &MockPublisher{}
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(e events.RosterEvent) bool {
		return e.Type == events.EventSignedUp &&
			e.Activity == "Robotics" &&
			e.Email == "ada@mergington.edu" &&
			e.RosterSize == 1 &&
			e.MaxParticipants == 2 &&
			e.Schedule == "Saturdays"
	})).Return(nil).Once()

	svc := createTestService(t, pub)

	conf, err := svc.Signup(context.Background(), "Robotics", "ada@mergington.edu")
	require.NoError(t, err)
	assert.Equal(t, "Signed up ada@mergington.edu for Robotics", conf.Message)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.ActivityRosterSize.WithLabelValues("Robotics")))
	pub.AssertExpectations(t)
}

func TestService_Unregister_PublishesEvent(t *testing.T) {
	pub := &MockPublisher{}
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(e events.RosterEvent) bool {
		return e.Type == events.EventSignedUp
	})).Return(nil).Once()
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(e events.RosterEvent) bool {
		return e.Type == events.EventUnregistered && e.RosterSize == 0
	})).Return(nil).Once()

	svc := createTestService(t, pub)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "Robotics", "ada@mergington.edu")
	require.NoError(t, err)

	conf, err := svc.Unregister(ctx, "Robotics", "ada@mergington.edu")
	require.NoError(t, err)
	assert.Equal(t, "Unregistered ada@mergington.edu from Robotics", conf.Message)
	assert.Empty(t, svc.ListActivities(ctx)["Robotics"].Participants)
	pub.AssertExpectations(t)
}

func TestService_RejectedOperationsPublishNothing(t *testing.T) {
	pub := &MockPublisher{}
	svc := createTestService(t, pub)
	ctx := context.Background()

	tests := []struct {
		name   string
		call   func() error
		target error
	}{
		{
			name: "unknown activity signup",
			call: func() error {
				_, err := svc.Signup(ctx, "Nope", "a@b.com")
				return err
			},
			target: apperrors.ErrActivityNotFound,
		},
		{
			name: "unknown activity unregister",
			call: func() error {
				_, err := svc.Unregister(ctx, "Nope", "a@b.com")
				return err
			},
			target: apperrors.ErrActivityNotFound,
		},
		{
			name: "not registered",
			call: func() error {
				_, err := svc.Unregister(ctx, "Robotics", "ghost@b.com")
				return err
			},
			target: apperrors.ErrNotRegistered,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.target)
		})
	}
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

// ==========================
// Error Handling Tests
// ==========================

func TestService_PublishFailureDoesNotFailSignup(t *testing.T) {
	pub := &MockPublisher{}
	pub.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	svc := createTestService(t, pub)

	conf, err := svc.Signup(context.Background(), "Robotics", "ada@mergington.edu")
	require.NoError(t, err)
	assert.Equal(t, "Signed up ada@mergington.edu for Robotics", conf.Message)
	assert.Equal(t, []string{"ada@mergington.edu"}, svc.ListActivities(context.Background())["Robotics"].Participants)
}

func TestService_PublishGetsLiveContextAfterCancel(t *testing.T) {
	pub := &MockPublisher{}
	pub.On("Publish", mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Err() == nil
	}), mock.Anything).Return(nil).Once()

	svc := createTestService(t, pub)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Signup(ctx, "Robotics", "ada@mergington.edu")
	require.NoError(t, err)
	pub.AssertExpectations(t)
}

func TestNewService_Defaults(t *testing.T) {
	reg, err := registry.New(nil)
	require.NoError(t, err)

	svc := NewService(ServiceDependencies{Registry: reg})
	assert.Equal(t, events.Nop{}, svc.publisher)
	assert.NotNil(t, svc.obs)
	assert.NotNil(t, svc.logger)
	assert.Equal(t, 3*time.Second, svc.publishTimeout)
	assert.Empty(t, svc.ListActivities(context.Background()))
}
