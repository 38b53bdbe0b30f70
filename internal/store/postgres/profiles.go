package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tradebench/backend/internal/models"
	"github.com/tradebench/backend/internal/store"
)

type profileStore struct {
	db *sql.DB
}

const profileCols = `id, email, full_name, selected_year,
	COALESCE(security_question, ''), COALESCE(security_answer, ''),
	password, created_at, updated_at`

func scanProfile(row *sql.Row) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(&p.ID, &p.Email, &p.FullName, &p.SelectedYear,
		&p.SecurityQuestion, &p.SecurityAnswer, &p.Password,
		&p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan profile: %w", err)
	}
	return &p, nil
}

func (s *profileStore) Create(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf(`INSERT INTO profiles (email, full_name, selected_year, security_question, security_answer, password, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING %s`, profileCols),
		p.Email, p.FullName, p.SelectedYear, p.SecurityQuestion, p.SecurityAnswer,
		p.Password, time.Now(), time.Now(),
	)
	created, err := scanProfile(row)
	if isDuplicate(err) {
		return nil, store.ErrConflict
	}
	if err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return created, nil
}

func (s *profileStore) GetByID(ctx context.Context, id int64) (*models.Profile, error) {
	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM profiles WHERE id = $1`, profileCols), id)
	return scanProfile(row)
}

func (s *profileStore) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT %s FROM profiles WHERE email = $1`, profileCols), email)
	return scanProfile(row)
}

func (s *profileStore) Update(ctx context.Context, id int64, req models.UpdateProfileRequest) (*models.Profile, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		p.FullName = *req.FullName
	}
	if req.SelectedYear != nil {
		p.SelectedYear = *req.SelectedYear
	}
	if req.SecurityQuestion != nil {
		p.SecurityQuestion = *req.SecurityQuestion
	}
	if req.SecurityAnswer != nil {
		p.SecurityAnswer = *req.SecurityAnswer
	}

	row := s.db.QueryRowContext(ctx,
		fmt.Sprintf(`UPDATE profiles
		 SET full_name = $2, selected_year = $3, security_question = $4, security_answer = $5, updated_at = NOW()
		 WHERE id = $1
		 RETURNING %s`, profileCols),
		id, p.FullName, p.SelectedYear, p.SecurityQuestion, p.SecurityAnswer,
	)
	return scanProfile(row)
}

func (s *profileStore) SetPassword(ctx context.Context, id int64, passwordHash string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE profiles SET password = $1, updated_at = NOW() WHERE id = $2`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("set password: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *profileStore) Delete(ctx context.Context, id int64) error {
	// Progress, sessions and bookmarks go with the profile via FK cascades.
	res, err := s.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrNotFound
	}
	return nil
}
