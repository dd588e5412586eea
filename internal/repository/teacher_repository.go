package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-kit/user-service/internal/domain"
)

// TeacherRepository defines persistence access for teacher profiles.
type TeacherRepository interface {
	Create(ctx context.Context, teacher *domain.Teacher) error
	GetByUserID(ctx context.Context, userID string) (*domain.Teacher, error)
}

type teacherRepository struct {
	pool *pgxpool.Pool
}

// NewTeacherRepository returns a Postgres-backed implementation.
func NewTeacherRepository(pool *pgxpool.Pool) TeacherRepository {
	return &teacherRepository{pool: pool}
}

func (r *teacherRepository) Create(ctx context.Context, teacher *domain.Teacher) error {
	const query = `INSERT INTO teachers (user_id) VALUES ($1)`

	_, err := r.pool.Exec(ctx, query, teacher.UserID)
	return err
}

func (r *teacherRepository) GetByUserID(ctx context.Context, userID string) (*domain.Teacher, error) {
	const query = `SELECT user_id FROM teachers WHERE user_id=$1`

	var teacher domain.Teacher
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&teacher.UserID); err != nil {
		return nil, err
	}
	return &teacher, nil
}
