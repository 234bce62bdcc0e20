package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Kali2114/ZenithFlowAPI/internal/model"
	"github.com/Kali2114/ZenithFlowAPI/internal/repository"
)

var (
	ErrNotEnrolled            = errors.New("user must be enrolled in the session to rate it")
	ErrAlreadyRated           = errors.New("user has already rated this session")
	ErrSelfRatingForbidden    = errors.New("instructors cannot rate their own sessions")
	ErrSessionNotCompleted    = errors.New("session is not completed yet")
	ErrInvalidScore           = errors.New("score must be between 1 and 5")
	ErrNotAttended            = errors.New("user must have completed a session with this instructor")
	ErrCommentTooShort        = errors.New("comment must have at least 6 characters")
	ErrAlreadyRatedInstructor = errors.New("user has already rated this instructor")
	ErrRatingNotFound         = errors.New("rating not found")
	ErrInstructorMismatch     = errors.New("rating does not belong to this instructor")
	ErrInstructorNotFound     = errors.New("instructor not found")
	ErrNotOwner               = errors.New("you can only modify your own ratings")
)

const minInstructorComment = 6

type RatingService interface {
	RateSession(ctx context.Context, sessionID, userID uuid.UUID, score int, comment *string) (*model.Rating, error)
	RateInstructor(ctx context.Context, instructorID, userID uuid.UUID, score int, comment string) (*model.InstructorRating, error)
	UpdateInstructorRating(ctx context.Context, ratingID, instructorID, userID uuid.UUID, score int, comment string) error
	DeleteInstructorRating(ctx context.Context, ratingID, instructorID, userID uuid.UUID) error
	ListGivenInstructorRatings(ctx context.Context, userID uuid.UUID) ([]model.InstructorRating, error)
	ListInstructorRatings(ctx context.Context, instructorID uuid.UUID) ([]model.InstructorRating, error)
}

type ratingService struct {
	ratingRepo           repository.RatingRepository
	instructorRatingRepo repository.InstructorRatingRepository
	enrollmentRepo       repository.EnrollmentRepository
	sessionRepo          repository.SessionRepository
	userRepo             repository.UserRepository
}

func NewRatingService(
	ratingRepo repository.RatingRepository,
	instructorRatingRepo repository.InstructorRatingRepository,
	enrollmentRepo repository.EnrollmentRepository,
	sessionRepo repository.SessionRepository,
	userRepo repository.UserRepository,
) RatingService {
	return &ratingService{
		ratingRepo:           ratingRepo,
		instructorRatingRepo: instructorRatingRepo,
		enrollmentRepo:       enrollmentRepo,
		sessionRepo:          sessionRepo,
		userRepo:             userRepo,
	}
}

// RateSession admits a rating only from an enrolled non-instructor after the
// session completed. Each check surfaces its own error so callers can report
// the precise refusal.
func (s *ratingService) RateSession(ctx context.Context, sessionID, userID uuid.UUID, score int, comment *string) (*model.Rating, error) {
	if score < 1 || score > 5 {
		return nil, ErrInvalidScore
	}

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	enrolled, err := s.enrollmentRepo.Exists(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, ErrNotEnrolled
	}

	rated, err := s.ratingRepo.Exists(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if rated {
		return nil, ErrAlreadyRated
	}

	if session.InstructorID == userID {
		return nil, ErrSelfRatingForbidden
	}

	if !session.Completed {
		return nil, ErrSessionNotCompleted
	}

	rating := &model.Rating{
		SessionID: sessionID,
		UserID:    userID,
		Score:     score,
		Comment:   comment,
	}

	if err := s.ratingRepo.Create(ctx, rating); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrAlreadyRated
		}
		return nil, err
	}

	return rating, nil
}

func (s *ratingService) RateInstructor(ctx context.Context, instructorID, userID uuid.UUID, score int, comment string) (*model.InstructorRating, error) {
	if score < 1 || score > 5 {
		return nil, ErrInvalidScore
	}
	if len(comment) < minInstructorComment {
		return nil, ErrCommentTooShort
	}

	instructor, err := s.userRepo.FindByID(ctx, instructorID)
	if err != nil || !instructor.IsInstructor() {
		return nil, ErrInstructorNotFound
	}

	attended, err := s.enrollmentRepo.HasCompletedWithInstructor(ctx, userID, instructorID)
	if err != nil {
		return nil, err
	}
	if !attended {
		return nil, ErrNotAttended
	}

	rating := &model.InstructorRating{
		UserID:       userID,
		InstructorID: instructorID,
		Score:        score,
		Comment:      comment,
	}

	if err := s.instructorRatingRepo.Create(ctx, rating); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrAlreadyRatedInstructor
		}
		return nil, err
	}

	return rating, nil
}

func (s *ratingService) UpdateInstructorRating(ctx context.Context, ratingID, instructorID, userID uuid.UUID, score int, comment string) error {
	if score < 1 || score > 5 {
		return ErrInvalidScore
	}
	if len(comment) < minInstructorComment {
		return ErrCommentTooShort
	}

	rating, err := s.instructorRatingRepo.FindByID(ctx, ratingID)
	if err != nil {
		return err
	}
	if rating == nil {
		return ErrRatingNotFound
	}
	if rating.InstructorID != instructorID {
		return ErrInstructorMismatch
	}
	if rating.UserID != userID {
		return ErrNotOwner
	}

	return s.instructorRatingRepo.Update(ctx, ratingID, score, comment)
}

func (s *ratingService) DeleteInstructorRating(ctx context.Context, ratingID, instructorID, userID uuid.UUID) error {
	rating, err := s.instructorRatingRepo.FindByID(ctx, ratingID)
	if err != nil {
		return err
	}
	if rating == nil {
		return ErrRatingNotFound
	}
	if rating.InstructorID != instructorID {
		return ErrInstructorMismatch
	}
	if rating.UserID != userID {
		return ErrNotOwner
	}

	return s.instructorRatingRepo.Delete(ctx, ratingID)
}

func (s *ratingService) ListGivenInstructorRatings(ctx context.Context, userID uuid.UUID) ([]model.InstructorRating, error) {
	return s.instructorRatingRepo.ListByUser(ctx, userID)
}

func (s *ratingService) ListInstructorRatings(ctx context.Context, instructorID uuid.UUID) ([]model.InstructorRating, error) {
	return s.instructorRatingRepo.ListByInstructor(ctx, instructorID)
}
