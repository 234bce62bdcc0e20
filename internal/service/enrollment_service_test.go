package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Kali2114/ZenithFlowAPI/internal/model"
	"github.com/Kali2114/ZenithFlowAPI/internal/repository"
	"github.com/Kali2114/ZenithFlowAPI/internal/service"
)

func TestEnroll_RequiresSubscription(t *testing.T) {
	sessionRepo := newFakeSessionRepo()
	enrollmentRepo := newFakeEnrollmentRepo()
	subscriptionRepo := &fakeSubscriptionRepo{active: false}

	session := &model.Session{StartAt: time.Now().Add(time.Hour), Capacity: 10}
	sessionRepo.add(session)

	svc := service.NewEnrollmentService(enrollmentRepo, sessionRepo, subscriptionRepo, &fakePublisher{})

	_, err := svc.Enroll(context.Background(), session.ID, uuid.New())
	require.ErrorIs(t, err, service.ErrSubscriptionRequired)
}

func TestEnroll_SessionNotFound(t *testing.T) {
	svc := service.NewEnrollmentService(
		newFakeEnrollmentRepo(), newFakeSessionRepo(), &fakeSubscriptionRepo{active: true}, &fakePublisher{},
	)

	_, err := svc.Enroll(context.Background(), uuid.New(), uuid.New())
	require.ErrorIs(t, err, service.ErrSessionNotFound)
}

func TestEnroll_DuplicateRejected(t *testing.T) {
	sessionRepo := newFakeSessionRepo()
	enrollmentRepo := newFakeEnrollmentRepo()

	session := &model.Session{StartAt: time.Now().Add(time.Hour), Capacity: 10}
	sessionRepo.add(session)

	userID := uuid.New()
	enrollmentRepo.markEnrolled(userID, session.ID)

	svc := service.NewEnrollmentService(enrollmentRepo, sessionRepo, &fakeSubscriptionRepo{active: true}, &fakePublisher{})

	_, err := svc.Enroll(context.Background(), session.ID, userID)
	require.ErrorIs(t, err, service.ErrAlreadyEnrolled)
}

func TestEnroll_CapacityMapsToSessionFull(t *testing.T) {
	sessionRepo := newFakeSessionRepo()
	enrollmentRepo := newFakeEnrollmentRepo()
	enrollmentRepo.enrollErr = repository.ErrCapacityReached

	session := &model.Session{StartAt: time.Now().Add(time.Hour), Capacity: 1}
	sessionRepo.add(session)

	svc := service.NewEnrollmentService(enrollmentRepo, sessionRepo, &fakeSubscriptionRepo{active: true}, &fakePublisher{})

	_, err := svc.Enroll(context.Background(), session.ID, uuid.New())
	require.ErrorIs(t, err, service.ErrSessionFull)
}

func TestEnroll_Succeeds(t *testing.T) {
	sessionRepo := newFakeSessionRepo()
	enrollmentRepo := newFakeEnrollmentRepo()

	session := &model.Session{StartAt: time.Now().Add(time.Hour), Capacity: 10}
	sessionRepo.add(session)

	userID := uuid.New()
	svc := service.NewEnrollmentService(enrollmentRepo, sessionRepo, &fakeSubscriptionRepo{active: true}, &fakePublisher{})

	enrollment, err := svc.Enroll(context.Background(), session.ID, userID)
	require.NoError(t, err)
	require.Equal(t, userID, enrollment.UserID)
	require.Equal(t, session.ID, enrollment.SessionID)
}

func TestCancelEnrollment_OnlyOwner(t *testing.T) {
	sessionRepo := newFakeSessionRepo()
	enrollmentRepo := newFakeEnrollmentRepo()

	session := &model.Session{StartAt: time.Now().Add(time.Hour), Capacity: 10}
	sessionRepo.add(session)

	owner := uuid.New()
	svc := service.NewEnrollmentService(enrollmentRepo, sessionRepo, &fakeSubscriptionRepo{active: true}, &fakePublisher{})

	enrollment, err := svc.Enroll(context.Background(), session.ID, owner)
	require.NoError(t, err)

	err = svc.CancelEnrollment(context.Background(), enrollment.ID, uuid.New())
	require.ErrorIs(t, err, service.ErrEnrollmentNotFound)

	require.NoError(t, svc.CancelEnrollment(context.Background(), enrollment.ID, owner))
}
