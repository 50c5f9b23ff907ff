package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-feed-service/internal/domain/entity"
	"github.com/oksasatya/go-feed-service/internal/domain/repository"
	"github.com/oksasatya/go-feed-service/pkg/helpers"
)

// AuthService covers registration, login and the user's presence status.
type AuthService struct {
	Users  repository.UserRepository
	JWT    *helpers.JWTManager
	Logger *logrus.Logger
}

func NewAuthService(users repository.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger) *AuthService {
	return &AuthService{Users: users, JWT: jwt, Logger: logger}
}

type LoginResult struct {
	UserID    string    `json:"userId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Register creates a new account. passwordMin is supplied by the calling
// front door (REST and GraphQL enforce different minimums). A duplicate
// email fails with ErrConflict.
func (s *AuthService) Register(ctx context.Context, name, email, password string, passwordMin int) (*entity.User, error) {
	if err := ValidateRegistration(name, email, password, passwordMin); err != nil {
		return nil, err
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{Email: email, Password: hash, Name: name}
	if err := s.Users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, fmt.Errorf("%w: email is taken", ErrConflict)
		}
		return nil, err
	}

	if s.Logger != nil {
		s.Logger.WithField("user_id", user.ID).Info("user registered")
	}
	return user, nil
}

// Login verifies credentials and issues a bearer token. Unknown email and
// wrong password fail identically so accounts cannot be enumerated.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if err := ValidateLogin(email); err != nil {
		return nil, err
	}

	user, err := s.Users.GetByEmail(ctx, email)
	if err != nil || user == nil {
		return nil, ErrUnauthenticated
	}
	if !helpers.CompareHashAndPassword(user.Password, password) {
		return nil, ErrUnauthenticated
	}

	token, exp, err := s.JWT.Generate(user.ID, user.Email)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", user.ID).Error("token generation failed")
		}
		return nil, err
	}
	return &LoginResult{UserID: user.ID, Token: token, ExpiresAt: exp}, nil
}

// GetUser returns the user with their owned post ids, most recent first.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*entity.User, []string, error) {
	user, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, forbiddenf("user %s", userID)
		}
		return nil, nil, err
	}
	postIDs, err := s.Users.PostIDs(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	return user, postIDs, nil
}

// UpdateStatus replaces the user's presence string.
func (s *AuthService) UpdateStatus(ctx context.Context, userID, status string) (*entity.User, error) {
	if err := ValidateStatus(status); err != nil {
		return nil, err
	}
	if err := s.Users.UpdateStatus(ctx, userID, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, forbiddenf("user %s", userID)
		}
		return nil, err
	}
	user, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}
