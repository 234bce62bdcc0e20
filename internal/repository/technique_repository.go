package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Kali2114/ZenithFlowAPI/internal/model"
)

type TechniqueRepository interface {
	Create(ctx context.Context, technique *model.Technique) error
	FindByID(ctx context.Context, techniqueID uuid.UUID) (*model.Technique, error)
	List(ctx context.Context) ([]model.Technique, error)
	Update(ctx context.Context, techniqueID uuid.UUID, name, description string) error
	Delete(ctx context.Context, techniqueID uuid.UUID) error
}

type postgresTechniqueRepository struct {
	db *sqlx.DB
}

func NewPostgresTechniqueRepository(db *sqlx.DB) TechniqueRepository {
	return &postgresTechniqueRepository{db: db}
}

func (r *postgresTechniqueRepository) Create(ctx context.Context, technique *model.Technique) error {
	query := `
		INSERT INTO techniques (name, description, instructor_id)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	row := r.db.QueryRowxContext(ctx, query, technique.Name, technique.Description, technique.InstructorID)
	return row.Scan(&technique.ID)
}

func (r *postgresTechniqueRepository) FindByID(ctx context.Context, techniqueID uuid.UUID) (*model.Technique, error) {
	var technique model.Technique
	query := `SELECT id, name, description, instructor_id FROM techniques WHERE id = $1`
	err := r.db.GetContext(ctx, &technique, query, techniqueID)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}

		return nil, err
	}

	return &technique, nil
}

func (r *postgresTechniqueRepository) List(ctx context.Context) ([]model.Technique, error) {
	var techniques []model.Technique
	query := `SELECT id, name, description, instructor_id FROM techniques ORDER BY name DESC`
	err := r.db.SelectContext(ctx, &techniques, query)

	if techniques == nil {
		techniques = []model.Technique{}
	}

	return techniques, err
}

func (r *postgresTechniqueRepository) Update(ctx context.Context, techniqueID uuid.UUID, name, description string) error {
	query := `UPDATE techniques SET name = $2, description = $3 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, techniqueID, name, description)
	return err
}

func (r *postgresTechniqueRepository) Delete(ctx context.Context, techniqueID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM techniques WHERE id = $1`, techniqueID)
	return err
}
