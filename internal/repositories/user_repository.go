package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"nightcity/internal/domain/models"
)

type UserRepository struct {
	DB *sql.DB
}

const userColumns = `id, full_name, email, phone_number, country, date_of_birth, password_hash, security_level`

// Create inserts the user and returns its id. A taken email yields ErrDuplicate.
func (r UserRepository) Create(ctx context.Context, u *models.User) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO users (full_name, email, phone_number, country, date_of_birth, password_hash, security_level)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, u.FullName, u.Email, u.PhoneNumber, u.Country, u.DateOfBirth, u.PasswordHash, u.SecurityLevel)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrDuplicate
		}
		return 0, fmt.Errorf("create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}
	return id, nil
}

func (r UserRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ? LIMIT 1`, email)
	return r.scan(row, "get user by email")
}

func (r UserRepository) GetByID(ctx context.Context, id int64) (models.User, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ? LIMIT 1`, id)
	return r.scan(row, "get user")
}

// EmailExists reports whether an account already uses the address.
func (r UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE email = ?`, email).Scan(&count); err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return count > 0, nil
}

func (r UserRepository) scan(row *sql.Row, op string) (models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.FullName,
		&u.Email,
		&u.PhoneNumber,
		&u.Country,
		&u.DateOfBirth,
		&u.PasswordHash,
		&u.SecurityLevel,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}
