package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Kali2114/ZenithFlowAPI/internal/model"
	"github.com/Kali2114/ZenithFlowAPI/internal/repository"
)

var (
	ErrNotTechniqueOwner  = errors.New("only the technique's creator may modify it")
	ErrTechniqueNameTaken = errors.New("a technique with this name already exists")
)

type TechniqueService interface {
	CreateTechnique(ctx context.Context, name, description string, instructorID uuid.UUID) (*model.Technique, error)
	GetTechnique(ctx context.Context, techniqueID uuid.UUID) (*model.Technique, error)
	ListTechniques(ctx context.Context) ([]model.Technique, error)
	UpdateTechnique(ctx context.Context, techniqueID, actorID uuid.UUID, name, description string) error
	DeleteTechnique(ctx context.Context, techniqueID, actorID uuid.UUID) error
}

type techniqueService struct {
	techniqueRepo repository.TechniqueRepository
}

func NewTechniqueService(techniqueRepo repository.TechniqueRepository) TechniqueService {
	return &techniqueService{techniqueRepo: techniqueRepo}
}

func (s *techniqueService) CreateTechnique(ctx context.Context, name, description string, instructorID uuid.UUID) (*model.Technique, error) {
	technique := &model.Technique{
		Name:         name,
		Description:  description,
		InstructorID: instructorID,
	}

	if err := s.techniqueRepo.Create(ctx, technique); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrTechniqueNameTaken
		}
		return nil, err
	}

	return technique, nil
}

func (s *techniqueService) GetTechnique(ctx context.Context, techniqueID uuid.UUID) (*model.Technique, error) {
	technique, err := s.techniqueRepo.FindByID(ctx, techniqueID)
	if err != nil {
		return nil, err
	}
	if technique == nil {
		return nil, ErrTechniqueNotFound
	}
	return technique, nil
}

func (s *techniqueService) ListTechniques(ctx context.Context) ([]model.Technique, error) {
	return s.techniqueRepo.List(ctx)
}

func (s *techniqueService) UpdateTechnique(ctx context.Context, techniqueID, actorID uuid.UUID, name, description string) error {
	technique, err := s.techniqueRepo.FindByID(ctx, techniqueID)
	if err != nil {
		return err
	}
	if technique == nil {
		return ErrTechniqueNotFound
	}
	if technique.InstructorID != actorID {
		return ErrNotTechniqueOwner
	}

	return s.techniqueRepo.Update(ctx, techniqueID, name, description)
}

func (s *techniqueService) DeleteTechnique(ctx context.Context, techniqueID, actorID uuid.UUID) error {
	technique, err := s.techniqueRepo.FindByID(ctx, techniqueID)
	if err != nil {
		return err
	}
	if technique == nil {
		return ErrTechniqueNotFound
	}
	if technique.InstructorID != actorID {
		return ErrNotTechniqueOwner
	}

	return s.techniqueRepo.Delete(ctx, techniqueID)
}
