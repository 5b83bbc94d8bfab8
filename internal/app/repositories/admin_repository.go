package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/yigit/courseregistry/internal/app/models"
	"github.com/yigit/courseregistry/internal/db"
	"github.com/yigit/courseregistry/internal/pkg/apperrors"
	"github.com/yigit/courseregistry/internal/pkg/dberrors"
)

// IAdminRepository defines the interface for admin account lookups
type IAdminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	GetByUsername(ctx context.Context, username string) (*models.Admin, error)
}

// AdminRepository handles admin database operations
type AdminRepository struct {
	db db.DBTX
	sb squirrel.StatementBuilderType
}

// NewAdminRepository creates a new AdminRepository
func NewAdminRepository(conn db.DBTX) *AdminRepository {
	return &AdminRepository{
		db: conn,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts an admin account
func (r *AdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	sqlStr, args, err := r.sb.Insert("admins").
		Columns("username", "password_hash").
		Values(admin.Username, admin.PasswordHash).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create admin query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sqlStr, args...).Scan(&admin.ID); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "admins_username_key") {
			return apperrors.ErrResourceAlreadyExists
		}
		return fmt.Errorf("error creating admin: %w", err)
	}
	return nil
}

// GetByUsername retrieves an admin by username
func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	sqlStr, args, err := r.sb.Select("id", "username", "password_hash").
		From("admins").
		Where(squirrel.Eq{"username": username}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get admin query: %w", err)
	}

	var admin models.Admin
	if err := r.db.QueryRow(ctx, sqlStr, args...).Scan(&admin.ID, &admin.Username, &admin.PasswordHash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAdminNotFound
		}
		return nil, fmt.Errorf("error retrieving admin: %w", err)
	}
	return &admin, nil
}
