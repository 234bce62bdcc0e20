package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Kali2114/ZenithFlowAPI/internal/events"
	"github.com/Kali2114/ZenithFlowAPI/internal/model"
	"github.com/Kali2114/ZenithFlowAPI/internal/repository"
)

var (
	ErrSubscriptionRequired = errors.New("an active subscription is required to enroll")
	ErrAlreadyEnrolled      = errors.New("user is already enrolled in this session")
	ErrSessionFull          = errors.New("session is full")
	ErrEnrollmentNotFound   = errors.New("enrollment not found")
)

type EnrollmentService interface {
	Enroll(ctx context.Context, sessionID, userID uuid.UUID) (*model.Enrollment, error)
	GetEnrollment(ctx context.Context, enrollmentID, userID uuid.UUID) (*model.Enrollment, error)
	ListUserEnrollments(ctx context.Context, userID uuid.UUID) ([]model.EnrollmentDetails, error)
	CancelEnrollment(ctx context.Context, enrollmentID, userID uuid.UUID) error
}

type enrollmentService struct {
	enrollmentRepo   repository.EnrollmentRepository
	sessionRepo      repository.SessionRepository
	subscriptionRepo repository.SubscriptionRepository
	publisher        events.EventPublisher
}

func NewEnrollmentService(
	enrollmentRepo repository.EnrollmentRepository,
	sessionRepo repository.SessionRepository,
	subscriptionRepo repository.SubscriptionRepository,
	publisher events.EventPublisher,
) EnrollmentService {
	return &enrollmentService{
		enrollmentRepo:   enrollmentRepo,
		sessionRepo:      sessionRepo,
		subscriptionRepo: subscriptionRepo,
		publisher:        publisher,
	}
}

// Enroll runs the admission checks in order: session exists, subscription
// entitles, no duplicate, seats left. The duplicate and capacity checks are
// re-validated inside the repository transaction; the application-level pass
// here only produces friendlier errors on the common paths.
func (s *enrollmentService) Enroll(ctx context.Context, sessionID, userID uuid.UUID) (*model.Enrollment, error) {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	entitled, err := s.subscriptionRepo.HasActive(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !entitled {
		return nil, ErrSubscriptionRequired
	}

	enrolled, err := s.enrollmentRepo.Exists(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if enrolled {
		return nil, ErrAlreadyEnrolled
	}

	enrollment, err := s.enrollmentRepo.Enroll(ctx, sessionID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrCapacityReached) {
			return nil, ErrSessionFull
		}
		if repository.IsUniqueViolation(err) {
			return nil, ErrAlreadyEnrolled
		}
		return nil, err
	}

	go s.publisher.PublishSessionJoined(sessionID, userID)

	return enrollment, nil
}

func (s *enrollmentService) GetEnrollment(ctx context.Context, enrollmentID, userID uuid.UUID) (*model.Enrollment, error) {
	enrollment, err := s.enrollmentRepo.FindByID(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	if enrollment == nil || enrollment.UserID != userID {
		return nil, ErrEnrollmentNotFound
	}
	return enrollment, nil
}

func (s *enrollmentService) ListUserEnrollments(ctx context.Context, userID uuid.UUID) ([]model.EnrollmentDetails, error) {
	return s.enrollmentRepo.ListByUser(ctx, userID)
}

// CancelEnrollment deletes only the caller's own admission record.
func (s *enrollmentService) CancelEnrollment(ctx context.Context, enrollmentID, userID uuid.UUID) error {
	deleted, err := s.enrollmentRepo.DeleteOwned(ctx, enrollmentID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrEnrollmentNotFound
	}
	return nil
}
