package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Kali2114/ZenithFlowAPI/internal/events"
	"github.com/Kali2114/ZenithFlowAPI/internal/model"
	"github.com/Kali2114/ZenithFlowAPI/internal/repository"
)

var (
	ErrSessionNotFound     = errors.New("session not found")
	ErrNotSessionOwner     = errors.New("only the session's instructor may modify it")
	ErrInstructorOnly      = errors.New("only instructors may perform this action")
	ErrSessionNameTaken    = errors.New("a session with this name already exists")
	ErrTechniqueNotFound   = errors.New("technique not found")
	ErrInvalidCalendarSpan = errors.New("start date cannot be after end date")
)

type CreateSessionInput struct {
	BaseName     string
	Description  string
	InstructorID uuid.UUID
	DurationMin  int
	StartAt      time.Time
	Capacity     int
	TechniqueIDs []uuid.UUID
}

type SessionService interface {
	CreateSession(ctx context.Context, input CreateSessionInput) (*model.Session, error)
	GetSession(ctx context.Context, sessionID uuid.UUID) (*model.Session, error)
	ListSessions(ctx context.Context, page int, limit int) (*repository.PaginatedSessions, error)
	Calendar(ctx context.Context, filter repository.CalendarFilter) ([]model.SessionDetails, error)
	UpdateSession(ctx context.Context, sessionID, actorID uuid.UUID, update repository.SessionUpdate) error
	DeleteSession(ctx context.Context, sessionID, actorID uuid.UUID) error
	CompleteSession(ctx context.Context, sessionID, actorID uuid.UUID) error
	SessionRatings(ctx context.Context, sessionID uuid.UUID) ([]model.Rating, error)
	SessionTechniques(ctx context.Context, sessionID uuid.UUID) ([]model.Technique, error)
	RemindUpcoming(ctx context.Context, from, to time.Time) (int, error)
}

type sessionService struct {
	sessionRepo repository.SessionRepository
	profileRepo repository.ProfileRepository
	ratingRepo  repository.RatingRepository
	publisher   events.EventPublisher
}

func NewSessionService(
	sessionRepo repository.SessionRepository,
	profileRepo repository.ProfileRepository,
	ratingRepo repository.RatingRepository,
	publisher events.EventPublisher,
) SessionService {
	return &sessionService{
		sessionRepo: sessionRepo,
		profileRepo: profileRepo,
		ratingRepo:  ratingRepo,
		publisher:   publisher,
	}
}

func (s *sessionService) CreateSession(ctx context.Context, input CreateSessionInput) (*model.Session, error) {
	session := &model.Session{
		Description:  input.Description,
		InstructorID: input.InstructorID,
		DurationMin:  input.DurationMin,
		StartAt:      input.StartAt,
		Capacity:     input.Capacity,
	}

	created, err := s.sessionRepo.Create(ctx, input.BaseName, session)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrSessionNameTaken
		}
		return nil, err
	}

	if len(input.TechniqueIDs) > 0 {
		if err := s.sessionRepo.AttachTechniques(ctx, created.ID, input.TechniqueIDs); err != nil {
			return nil, err
		}
	}

	go s.publisher.PublishSessionCreated(created)

	return created, nil
}

func (s *sessionService) GetSession(ctx context.Context, sessionID uuid.UUID) (*model.Session, error) {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *sessionService) ListSessions(ctx context.Context, page int, limit int) (*repository.PaginatedSessions, error) {
	return s.sessionRepo.List(ctx, page, limit)
}

func (s *sessionService) Calendar(ctx context.Context, filter repository.CalendarFilter) ([]model.SessionDetails, error) {
	if filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.After(*filter.EndDate) {
		return nil, ErrInvalidCalendarSpan
	}
	return s.sessionRepo.Calendar(ctx, filter)
}

func (s *sessionService) UpdateSession(ctx context.Context, sessionID, actorID uuid.UUID, update repository.SessionUpdate) error {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrSessionNotFound
	}
	if session.InstructorID != actorID {
		return ErrNotSessionOwner
	}

	return s.sessionRepo.Update(ctx, sessionID, update)
}

func (s *sessionService) DeleteSession(ctx context.Context, sessionID, actorID uuid.UUID) error {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrSessionNotFound
	}
	if session.InstructorID != actorID {
		return ErrNotSessionOwner
	}

	return s.sessionRepo.Delete(ctx, sessionID)
}

// CompleteSession flips the one-way completion flag and recomputes every
// enrolled user's attendance stats. The recomputation reads from completed
// enrollments, so completing twice cannot double count.
func (s *sessionService) CompleteSession(ctx context.Context, sessionID, actorID uuid.UUID) error {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrSessionNotFound
	}
	if session.InstructorID != actorID {
		return ErrNotSessionOwner
	}

	if !session.Completed {
		if err := s.sessionRepo.MarkCompleted(ctx, sessionID); err != nil {
			return err
		}
	}

	userIDs, err := s.sessionRepo.EnrolledUserIDs(ctx, sessionID)
	if err != nil {
		return err
	}

	for _, userID := range userIDs {
		if err := s.profileRepo.RecomputeStats(ctx, userID); err != nil {
			return err
		}
	}

	go s.publisher.PublishSessionCompleted(session)

	return nil
}

func (s *sessionService) SessionRatings(ctx context.Context, sessionID uuid.UUID) ([]model.Rating, error) {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return s.ratingRepo.ListBySession(ctx, sessionID)
}

// RemindUpcoming publishes a reminder event for every enrollment in sessions
// starting inside [from, to). Publish failures are logged by the publisher
// and skipped; the scan keeps going. Returns the number of reminders sent.
func (s *sessionService) RemindUpcoming(ctx context.Context, from, to time.Time) (int, error) {
	sessions, err := s.sessionRepo.StartingBetween(ctx, from, to)
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range sessions {
		session := &sessions[i]

		userIDs, err := s.sessionRepo.EnrolledUserIDs(ctx, session.ID)
		if err != nil {
			return sent, err
		}

		for _, userID := range userIDs {
			if err := s.publisher.PublishSessionReminder(session, userID); err != nil {
				continue
			}
			sent++
		}
	}

	return sent, nil
}

func (s *sessionService) SessionTechniques(ctx context.Context, sessionID uuid.UUID) ([]model.Technique, error) {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return s.sessionRepo.TechniquesForSession(ctx, sessionID)
}
