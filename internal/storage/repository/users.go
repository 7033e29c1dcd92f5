package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/magabrotheeeer/event-ticketing/internal/models"
)

// RegisterUser сохраняет нового пользователя в базу данных и возвращает его UID.
// При занятом имени пользователя возвращает models.ErrUserAlreadyExists.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"

	var newUID string
	query := `INSERT INTO users (username, password_hash, role, is_active)
			  VALUES ($1, $2, $3, $4)
			  RETURNING uid;`
	if err := s.Pool.QueryRow(ctx, query,
		user.Username, user.PasswordHash, user.Role, user.IsActive).Scan(&newUID); err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("%s: %w", op, models.ErrUserAlreadyExists)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetUserByUsername возвращает пользователя по его username.
// Если пользователь отсутствует, возвращает models.ErrUserNotFound.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"

	query := `SELECT uid, username, password_hash, role, is_active, created_at
			  FROM users
			  WHERE username = $1`
	u := &models.User{}
	row := s.Pool.QueryRow(ctx, query, username)

	if err := row.Scan(&u.UUID, &u.Username, &u.PasswordHash,
		&u.Role, &u.IsActive, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}
