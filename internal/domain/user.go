package domain

import (
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"vocab-learning/internal/apperr"
	"vocab-learning/internal/models"
)

// User is an account. PasswordHash never holds plaintext.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// NewUser validates the fields and hashes the password with the given bcrypt cost.
func NewUser(username, email, password string, cost int) (*User, error) {
	u := &User{Username: username, Email: email, CreatedAt: time.Now().UTC()}
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	if err := u.SetPassword(password, cost); err != nil {
		return nil, err
	}
	return u, nil
}

// SetPassword replaces the stored hash.
func (u *User) SetPassword(password string, cost int) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	u.PasswordHash = string(hash)
	return nil
}

func (u *User) VerifyPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

func (u *User) Validate() error {
	if err := ValidateUsername(u.Username); err != nil {
		return err
	}
	if err := ValidateEmail(u.Email); err != nil {
		return err
	}
	if u.PasswordHash == "" {
		return apperr.Validation("Password is required")
	}
	if _, err := bcrypt.Cost([]byte(u.PasswordHash)); err != nil {
		return apperr.Validation("Password must be stored hashed")
	}
	return nil
}

func UserFromEntity(e *models.User) *User {
	return &User{
		ID:           e.ID,
		Username:     e.Username,
		Email:        e.Email,
		PasswordHash: e.Password,
		CreatedAt:    e.CreatedAt,
	}
}

func (u *User) ToEntity() *models.User {
	return &models.User{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Password:  u.PasswordHash,
		CreatedAt: u.CreatedAt,
	}
}
