package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Kali2114/ZenithFlowAPI/internal/repository"
)

// PanelStats is the instructor admin-panel payload.
type PanelStats struct {
	TotalUsers             int                              `json:"total_users"`
	ActiveSubscribers      int                              `json:"active_subscribers"`
	TotalSessions          int                              `json:"total_sessions"`
	InstructorSessions     int                              `json:"instructor_sessions"`
	ParticipantsPerSession []repository.SessionParticipants `json:"participants_per_session"`
}

// Report wraps the panel aggregates with generation metadata. Rendering the
// report into a document is left to the caller.
type Report struct {
	InstructorID   uuid.UUID  `json:"instructor_id"`
	InstructorName string     `json:"instructor_name"`
	GeneratedAt    time.Time  `json:"generated_at"`
	Stats          PanelStats `json:"stats"`
}

type AdminService interface {
	PanelStats(ctx context.Context, instructorID uuid.UUID) (*PanelStats, error)
	BuildReport(ctx context.Context, instructorID uuid.UUID) (*Report, error)
}

type adminService struct {
	statsRepo repository.StatsRepository
	userRepo  repository.UserRepository
}

func NewAdminService(statsRepo repository.StatsRepository, userRepo repository.UserRepository) AdminService {
	return &adminService{
		statsRepo: statsRepo,
		userRepo:  userRepo,
	}
}

func (s *adminService) PanelStats(ctx context.Context, instructorID uuid.UUID) (*PanelStats, error) {
	instructor, err := s.userRepo.FindByID(ctx, instructorID)
	if err != nil || !instructor.IsInstructor() {
		return nil, ErrInstructorNotFound
	}

	totalUsers, err := s.statsRepo.CountUsers(ctx)
	if err != nil {
		return nil, err
	}

	activeSubscribers, err := s.statsRepo.CountActiveSubscribers(ctx)
	if err != nil {
		return nil, err
	}

	totalSessions, err := s.statsRepo.CountSessions(ctx)
	if err != nil {
		return nil, err
	}

	instructorSessions, err := s.statsRepo.CountSessionsByInstructor(ctx, instructorID)
	if err != nil {
		return nil, err
	}

	participants, err := s.statsRepo.ParticipantsPerSession(ctx, instructorID)
	if err != nil {
		return nil, err
	}

	return &PanelStats{
		TotalUsers:             totalUsers,
		ActiveSubscribers:      activeSubscribers,
		TotalSessions:          totalSessions,
		InstructorSessions:     instructorSessions,
		ParticipantsPerSession: participants,
	}, nil
}

func (s *adminService) BuildReport(ctx context.Context, instructorID uuid.UUID) (*Report, error) {
	instructor, err := s.userRepo.FindByID(ctx, instructorID)
	if err != nil || !instructor.IsInstructor() {
		return nil, ErrInstructorNotFound
	}

	stats, err := s.PanelStats(ctx, instructorID)
	if err != nil {
		return nil, err
	}

	return &Report{
		InstructorID:   instructorID,
		InstructorName: instructor.Name,
		GeneratedAt:    time.Now().UTC(),
		Stats:          *stats,
	}, nil
}
