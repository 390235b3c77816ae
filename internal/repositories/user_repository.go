package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"buspass/internal/domain/models"
)

type UserRepository struct {
	DB *sql.DB
}

// FindByLogin looks a user up by email or username.
func (r UserRepository) FindByLogin(ctx context.Context, login string) (models.User, error) {
	var u models.User
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, username, email, phone, password_hash, role, status
		FROM users
		WHERE email = ? OR username = ?
		LIMIT 1`, login, login).Scan(
		&u.ID, &u.Name, &u.Username, &u.Email, &u.Phone, &u.PasswordHash, &u.Role, &u.Status,
	)
	if err != nil {
		return models.User{}, notFound(err, "user")
	}
	return u, nil
}

// Create inserts u with an already hashed password and sets its ID.
func (r UserRepository) Create(ctx context.Context, u *models.User) error {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO users (name, username, email, phone, password_hash, role, status)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.Name, u.Username, u.Email, u.Phone, u.PasswordHash, u.Role, u.Status,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	u.ID = id
	return nil
}
