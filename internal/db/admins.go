package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type AdminRole string

const (
	RoleMaster    AdminRole = "master"
	RoleAssistant AdminRole = "assistant"
)

type Admin struct {
	UserID   int64     `db:"user_id"`
	Username string    `db:"username"`
	Role     AdminRole `db:"role"`
	AddedAt  time.Time `db:"added_at"`
}

type AdminRepository struct {
	db *sqlx.DB
}

func NewAdminRepository(db *sqlx.DB) *AdminRepository {
	return &AdminRepository{
		db: db,
	}
}

func (r *AdminRepository) GetByUserID(ctx context.Context, userID int64) (*Admin, error) {
	var admin Admin

	err := r.db.GetContext(ctx, &admin, `
	    SELECT * FROM admins
		WHERE user_id = $1
	`, userID)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdminNotFound
		}

		return nil, fmt.Errorf("AdminRepository.GetByUserID: %w", err)
	}

	return &admin, nil
}

func (r *AdminRepository) GetAll(ctx context.Context) ([]Admin, error) {
	var admins []Admin

	err := r.db.SelectContext(ctx, &admins, `
	    SELECT * FROM admins
		ORDER BY added_at
	`)

	if err != nil {
		return nil, fmt.Errorf("AdminRepository.GetAll: %w", err)
	}

	return admins, nil
}

// Upsert вставляет или заменяет запись помощника (last write wins).
func (r *AdminRepository) Upsert(ctx context.Context, userID int64, username string, role AdminRole) error {
	_, err := r.db.ExecContext(ctx, `
	    INSERT INTO admins (user_id, username, role) VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET username = EXCLUDED.username, role = EXCLUDED.role
	`, userID, username, role)

	if err != nil {
		return fmt.Errorf("AdminRepository.Upsert: %w", err)
	}

	return nil
}

// SeedMaster создает мастер-админа при первом запуске; существующая запись не трогается.
func (r *AdminRepository) SeedMaster(ctx context.Context, userID int64, username string) error {
	_, err := r.db.ExecContext(ctx, `
	    INSERT INTO admins (user_id, username, role) VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO NOTHING
	`, userID, username, RoleMaster)

	if err != nil {
		return fmt.Errorf("AdminRepository.SeedMaster: %w", err)
	}

	return nil
}
