package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/federicoescribanog-oss/WebControlHoras/pkg/apperrors"
	"github.com/federicoescribanog-oss/WebControlHoras/pkg/database"
	"github.com/federicoescribanog-oss/WebControlHoras/pkg/models"
)

// UserRepository defines data access for accounts and roles.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string, markLoggedIn bool) error
	TouchLastLogin(ctx context.Context, id int64) error
	RoleIDByName(ctx context.Context, name string) (int64, error)
}

type userRepository struct{}

// NewUserRepository creates a new user repository.
func NewUserRepository() UserRepository {
	return &userRepository{}
}

const userColumns = `u.id, u.email, u.password_hash, u.role_id, r.name, u.active, u.created_at, u.last_login_at, u.created_by`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.RoleID,
		&u.Role,
		&u.Active,
		&u.CreatedAt,
		&u.LastLoginAt,
		&u.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new account. Duplicate emails are checked first so
// the caller gets a conflict instead of a constraint violation.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return fmt.Errorf("no database querier in context")
	}

	var existing int64
	err := q.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, user.Email).Scan(&existing)
	if err == nil {
		return apperrors.ErrUserExists
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("failed to check for existing user: %w", err)
	}

	query := `
		INSERT INTO users (email, password_hash, role_id, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, active, created_at`

	err = q.QueryRow(ctx, query, user.Email, user.PasswordHash, user.RoleID, user.CreatedBy).
		Scan(&user.ID, &user.Active, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by id, joined with the role name.
func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return nil, fmt.Errorf("no database querier in context")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM users u
		INNER JOIN roles r ON u.role_id = r.id
		WHERE u.id = $1`, userColumns)

	user, err := scanUser(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// GetByEmail retrieves an active user by email for authentication.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return nil, fmt.Errorf("no database querier in context")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM users u
		INNER JOIN roles r ON u.role_id = r.id
		WHERE u.email = $1 AND u.active = TRUE`, userColumns)

	user, err := scanUser(q.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// List returns all accounts, newest first.
func (r *userRepository) List(ctx context.Context) ([]*models.User, error) {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return nil, fmt.Errorf("no database querier in context")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM users u
		INNER JOIN roles r ON u.role_id = r.id
		ORDER BY u.created_at DESC`, userColumns)

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}

	return users, nil
}

// Update writes email, role and active flag. Password changes go
// through UpdatePassword.
func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return fmt.Errorf("no database querier in context")
	}

	query := `
		UPDATE users
		SET email = $2, role_id = $3, active = $4
		WHERE id = $1`

	result, err := q.Exec(ctx, query, user.ID, user.Email, user.RoleID, user.Active)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// Delete removes an account. Accounts are hard-deleted; they are not
// master data and nothing in work_records references them.
func (r *userRepository) Delete(ctx context.Context, id int64) error {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return fmt.Errorf("no database querier in context")
	}

	result, err := q.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// UpdatePassword replaces the stored hash. With markLoggedIn it also
// stamps last_login_at, completing the first-login flow.
func (r *userRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string, markLoggedIn bool) error {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return fmt.Errorf("no database querier in context")
	}

	var query string
	if markLoggedIn {
		query = `UPDATE users SET password_hash = $2, last_login_at = now() WHERE id = $1`
	} else {
		query = `UPDATE users SET password_hash = $2 WHERE id = $1`
	}

	result, err := q.Exec(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// TouchLastLogin stamps last_login_at on successful login.
func (r *userRepository) TouchLastLogin(ctx context.Context, id int64) error {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return fmt.Errorf("no database querier in context")
	}

	_, err := q.Exec(ctx, `UPDATE users SET last_login_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}

	return nil
}

// RoleIDByName resolves a role name to its id. Used by the name-based
// compatibility shim on user create/update.
func (r *userRepository) RoleIDByName(ctx context.Context, name string) (int64, error) {
	q, ok := database.GetQuerier(ctx)
	if !ok {
		return 0, fmt.Errorf("no database querier in context")
	}

	var id int64
	err := q.QueryRow(ctx, `SELECT id FROM roles WHERE name = $1`, name).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrInvalidRole
		}
		return 0, fmt.Errorf("failed to look up role: %w", err)
	}

	return id, nil
}

// Ensure userRepository implements UserRepository at compile time.
var _ UserRepository = (*userRepository)(nil)
