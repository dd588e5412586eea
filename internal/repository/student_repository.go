package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campus-kit/user-service/internal/domain"
)

// StudentRepository defines persistence access for student profiles.
type StudentRepository interface {
	Create(ctx context.Context, student *domain.Student) error
	Update(ctx context.Context, student *domain.Student) error
	GetByUserID(ctx context.Context, userID string) (*domain.Student, error)
	IDsByEmails(ctx context.Context, emails []string) ([]string, error)
	AddPoints(ctx context.Context, userID string, points int) (*domain.Student, error)
}

type studentRepository struct {
	pool *pgxpool.Pool
}

// NewStudentRepository returns a Postgres-backed implementation.
func NewStudentRepository(pool *pgxpool.Pool) StudentRepository {
	return &studentRepository{pool: pool}
}

func (r *studentRepository) Create(ctx context.Context, student *domain.Student) error {
	const query = `
        INSERT INTO students (user_id, emotion, coin_earned, coin_available)
        VALUES ($1, $2, $3, $4)`

	if student.Emotion == "" {
		student.Emotion = domain.EmotionNeutral
	}
	_, err := r.pool.Exec(ctx, query,
		student.UserID,
		student.Emotion,
		student.CoinEarned,
		student.CoinAvailable,
	)
	return err
}

func (r *studentRepository) Update(ctx context.Context, student *domain.Student) error {
	const query = `
        UPDATE students SET emotion=$1, coin_earned=$2, coin_available=$3
        WHERE user_id=$4`

	cmd, err := r.pool.Exec(ctx, query,
		student.Emotion,
		student.CoinEarned,
		student.CoinAvailable,
		student.UserID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *studentRepository) GetByUserID(ctx context.Context, userID string) (*domain.Student, error) {
	const query = `
        SELECT user_id, emotion, coin_earned, coin_available
        FROM students WHERE user_id=$1`

	var student domain.Student
	if err := r.pool.QueryRow(ctx, query, userID).Scan(
		&student.UserID,
		&student.Emotion,
		&student.CoinEarned,
		&student.CoinAvailable,
	); err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepository) IDsByEmails(ctx context.Context, emails []string) ([]string, error) {
	const query = `
        SELECT s.user_id
        FROM students s JOIN users u ON u.id = s.user_id
        WHERE u.email = ANY($1)`

	rows, err := r.pool.Query(ctx, query, emails)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0, len(emails))
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *studentRepository) AddPoints(ctx context.Context, userID string, points int) (*domain.Student, error) {
	const query = `
        UPDATE students
        SET coin_earned = coin_earned + $1, coin_available = coin_available + $1
        WHERE user_id=$2
        RETURNING user_id, emotion, coin_earned, coin_available`

	var student domain.Student
	if err := r.pool.QueryRow(ctx, query, points, userID).Scan(
		&student.UserID,
		&student.Emotion,
		&student.CoinEarned,
		&student.CoinAvailable,
	); err != nil {
		return nil, err
	}
	return &student, nil
}
