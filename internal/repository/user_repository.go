package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusboard/notice-api/internal/models"
)

const userColumns = `id, org_id, registration_number, name, email, password_hash, role, admin_level, department_id, class_id, created_at, updated_at`

// UserRepository persists users.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository constructs the repository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	const query = `INSERT INTO users (id, org_id, registration_number, name, email, password_hash, role, admin_level, department_id, class_id, created_at, updated_at)
		VALUES (:id, :org_id, :registration_number, :name, :email, :password_hash, :role, :admin_level, :department_id, :class_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// FindByLogin returns the user matching the email or registration number.
// Login happens before a tenant is resolved, so this lookup is global; both
// columns are globally unique.
func (r *UserRepository) FindByLogin(ctx context.Context, email, registrationNumber string) (*models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1 OR (registration_number IS NOT NULL AND registration_number = $2)`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, email, registrationNumber); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID returns a user scoped to the organization.
func (r *UserRepository) FindByID(ctx context.Context, orgID, id string) (*models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND org_id = $2`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, id, orgID); err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByEmail checks whether the email is already registered.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const query = `SELECT 1 FROM users WHERE email = $1 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, email); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check user email: %w", err)
	}
	return true, nil
}

// List returns users of the organization with optional role filter and
// search, newest first.
func (r *UserRepository) List(ctx context.Context, orgID string, filter models.UserFilter) ([]models.User, int, error) {
	where := []string{"org_id = $1"}
	args := []interface{}{orgID}
	if filter.Role != nil {
		where = append(where, fmt.Sprintf("role = $%d", len(args)+1))
		args = append(args, *filter.Role)
	}
	if filter.Search != "" {
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR email ILIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}
	whereClause := strings.Join(where, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT `+userColumns+` FROM users WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`, whereClause, size, offset)
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM users WHERE %s", whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	return users, total, nil
}

// ListByOrg returns the full roster of the organization. Used by the
// read-receipt statistics which partition every user of the tenant.
func (r *UserRepository) ListByOrg(ctx context.Context, orgID string) ([]models.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE org_id = $1 ORDER BY name ASC`
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query, orgID); err != nil {
		return nil, fmt.Errorf("list org users: %w", err)
	}
	return users, nil
}

// UpdateProfile updates the mutable profile fields of a user.
func (r *UserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now().UTC()
	const query = `UPDATE users SET name = :name, email = :email, role = :role, admin_level = :admin_level,
department_id = :department_id, class_id = :class_id, updated_at = :updated_at
WHERE id = :id AND org_id = :org_id`
	result, err := r.db.NamedExecContext(ctx, query, user)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check updated user rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a user scoped to the organization.
func (r *UserRepository) Delete(ctx context.Context, orgID, id string) error {
	const query = `DELETE FROM users WHERE id = $1 AND org_id = $2`
	result, err := r.db.ExecContext(ctx, query, id, orgID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check deleted user rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
