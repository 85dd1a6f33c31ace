package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/ministore/ministore/internal/models"
	"github.com/ministore/ministore/internal/store"
)

type UserRepo struct {
	store *store.Store
}

func NewUserRepo(s *store.Store) *UserRepo {
	return &UserRepo{store: s}
}

func (r *UserRepo) Create(user *models.User) error {
	_, err := r.store.DB().Exec(
		`INSERT INTO users(id, email, password_hash, name, role, created_at) VALUES(?,?,?,?,?,?)`,
		user.ID, user.Email, user.PasswordHash, user.Name, user.Role, user.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("user repo: create: %w", err)
	}
	return nil
}

// FindByEmail returns nil, nil when no user matches.
func (r *UserRepo) FindByEmail(email string) (*models.User, error) {
	return r.findOne(`SELECT id, email, password_hash, name, role, created_at FROM users WHERE email=?`, email)
}

// FindByID returns nil, nil when no user matches.
func (r *UserRepo) FindByID(id string) (*models.User, error) {
	return r.findOne(`SELECT id, email, password_hash, name, role, created_at FROM users WHERE id=?`, id)
}

func (r *UserRepo) findOne(query string, arg any) (*models.User, error) {
	var u models.User
	err := r.store.DB().QueryRow(query, arg).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("user repo: find: %w", err)
	}
	return &u, nil
}
