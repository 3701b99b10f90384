package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mr-saberi/siite/internal/models"
)

var ErrDuplicateUsername = errors.New("username already exists")

const userColumns = `id, username, password, password_scheme, is_admin`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var user models.User
	var scheme string
	if err := row.Scan(&user.ID, &user.Username, &user.Credential.Value, &scheme, &user.IsAdmin); err != nil {
		return nil, err
	}
	user.Credential.Scheme = models.CredentialScheme(scheme)
	return &user, nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (*models.User, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

// GetUserByUsername is case-sensitive.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

// CreateUser is used by seeding and the CLI; there is no registration endpoint.
func (s *Store) CreateUser(ctx context.Context, username string, cred models.Credential, isAdmin bool) (*models.User, error) {
	query := `
		INSERT INTO users (username, password, password_scheme, is_admin)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns
	row := s.DB.QueryRowContext(ctx, query, username, cred.Value, string(cred.Scheme), isAdmin)
	user, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (s *Store) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return count, nil
}

// ListPlainCredentialUsers returns users still stored with a legacy plain-text password.
func (s *Store) ListPlainCredentialUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT `+userColumns+` FROM users WHERE password_scheme = $1 ORDER BY id`, string(models.SchemePlain))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (s *Store) SetUserCredential(ctx context.Context, id int64, cred models.Credential) (bool, error) {
	res, err := s.DB.ExecContext(ctx, `UPDATE users SET password = $1, password_scheme = $2 WHERE id = $3`, cred.Value, string(cred.Scheme), id)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return affected(res)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func affected(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}
