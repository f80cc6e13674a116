package service

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"vocab-learning/internal/apperr"
	"vocab-learning/internal/domain"
)

type UserService struct {
	users      UserStore
	bcryptCost int
	log        logrus.FieldLogger
}

func NewUserService(users UserStore, bcryptCost int, log logrus.FieldLogger) *UserService {
	return &UserService{users: users, bcryptCost: bcryptCost, log: log}
}

// Register creates an account. Uniqueness of username and email is left to the
// store constraints, which surface as Conflict errors.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	u, err := domain.NewUser(strings.TrimSpace(username), strings.TrimSpace(email), password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	entity := u.ToEntity()
	if err := s.users.Create(ctx, entity); err != nil {
		return nil, err
	}
	u.ID = entity.ID

	s.log.WithFields(logrus.Fields{"user_id": u.ID, "username": u.Username}).Info("user registered")
	return u, nil
}

// Login checks the credentials. Unknown users and wrong passwords fail the same way.
func (s *UserService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	entity, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.Authentication("Invalid username or password")
		}
		return nil, err
	}

	u := domain.UserFromEntity(entity)
	if !u.VerifyPassword(password) {
		s.log.WithField("username", u.Username).Warn("login failed: wrong password")
		return nil, apperr.Authentication("Invalid username or password")
	}
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	entity, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return domain.UserFromEntity(entity), nil
}

// UpdateProfile changes username and email. Empty values keep the current ones.
func (s *UserService) UpdateProfile(ctx context.Context, id int64, username, email string) (*domain.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if username = strings.TrimSpace(username); username != "" {
		u.Username = username
	}
	if email = strings.TrimSpace(email); email != "" {
		u.Email = email
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, u.ToEntity()); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) ChangePassword(ctx context.Context, id int64, current, next string) error {
	u, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !u.VerifyPassword(current) {
		return apperr.Authentication("Current password is incorrect")
	}
	if err := domain.ValidatePassword(next); err != nil {
		return err
	}
	if err := u.SetPassword(next, s.bcryptCost); err != nil {
		return apperr.Service("Failed to change password")
	}
	if err := s.users.Update(ctx, u.ToEntity()); err != nil {
		return err
	}
	s.log.WithField("user_id", id).Info("password changed")
	return nil
}
