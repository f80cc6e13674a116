package database

import (
	"context"

	"vocab-learning/internal/apperr"
	"vocab-learning/internal/models"
)

const selectUser = `SELECT id, username, email, password, created_at FROM users`

type UserDAO struct {
	db *DB
}

func NewUserDAO(db *DB) *UserDAO {
	return &UserDAO{db: db}
}

// Create inserts u and sets u.ID. Duplicate usernames or emails are a Conflict.
func (d *UserDAO) Create(ctx context.Context, u *models.User) error {
	id, err := d.db.insertReturningID(ctx,
		`INSERT INTO users (username, email, password, created_at)
		 VALUES (:username, :email, :password, :created_at) RETURNING id`, u)
	if err != nil {
		return writeError(err, apperr.Conflict("Username or email already exists"), "failed to create user")
	}
	u.ID = id
	return nil
}

func (d *UserDAO) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	if err := d.db.get(ctx, &u, selectUser+` WHERE id = ?`, id); err != nil {
		return nil, lookupError(err, apperr.NotFound("User with id %d not found", id), "failed to get user")
	}
	return &u, nil
}

func (d *UserDAO) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := d.db.get(ctx, &u, selectUser+` WHERE username = ?`, username); err != nil {
		return nil, lookupError(err, apperr.NotFound("User %s not found", username), "failed to get user")
	}
	return &u, nil
}

func (d *UserDAO) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := d.db.get(ctx, &u, selectUser+` WHERE email = ?`, email); err != nil {
		return nil, lookupError(err, apperr.NotFound("User with email %s not found", email), "failed to get user")
	}
	return &u, nil
}

func (d *UserDAO) List(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := d.db.selectAll(ctx, &users, selectUser+` ORDER BY id`); err != nil {
		return nil, apperr.Database("failed to list users", err)
	}
	return users, nil
}

func (d *UserDAO) Update(ctx context.Context, u *models.User) error {
	n, err := d.db.exec(ctx,
		`UPDATE users SET username = ?, email = ?, password = ? WHERE id = ?`,
		u.Username, u.Email, u.Password, u.ID)
	if err != nil {
		return writeError(err, apperr.Conflict("Username or email already exists"), "failed to update user")
	}
	if n == 0 {
		return apperr.NotFound("User with id %d not found", u.ID)
	}
	return nil
}

func (d *UserDAO) Delete(ctx context.Context, id int64) error {
	n, err := d.db.exec(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return apperr.Database("failed to delete user", err)
	}
	if n == 0 {
		return apperr.NotFound("User with id %d not found", id)
	}
	return nil
}
