package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"booking-api/internal/auth"
	"booking-api/internal/model"
	"booking-api/internal/store"
)

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required,min=2"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session is what register and login hand back to the client.
type Session struct {
	Token string         `json:"token"`
	User  model.UserView `json:"user"`
}

type AuthService struct {
	users  Users
	signer *auth.Signer
	log    logrus.FieldLogger
}

func NewAuthService(users Users, signer *auth.Signer, log logrus.FieldLogger) *AuthService {
	return &AuthService{users: users, signer: signer, log: log}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	if err := checkStruct(in); err != nil {
		return nil, err
	}
	logCtx := s.log.WithField("email", in.Email)

	if _, err := s.users.UserByEmail(ctx, in.Email); err == nil {
		logCtx.Warn("registration rejected: email already registered")
		return nil, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		logCtx.WithError(err).Error("registration: user lookup failed")
		return nil, ErrInternal
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		logCtx.WithError(err).Error("registration: hash password")
		return nil, ErrInternal
	}

	u := &model.User{
		ID:           uuid.New().String(),
		Email:        in.Email,
		PasswordHash: hash,
		Name:         in.Name,
		Role:         model.RoleUser,
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, store.ErrDuplicate) {
			logCtx.Warn("registration rejected: email already registered")
			return nil, ErrEmailTaken
		}
		logCtx.WithError(err).Error("registration: create user")
		return nil, ErrInternal
	}

	logCtx.WithField("user_id", u.ID).Info("user registered")
	return s.session(u)
}

// Login fails with the same error whether the email is unknown or the
// password is wrong.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*Session, error) {
	if err := checkStruct(in); err != nil {
		return nil, err
	}
	logCtx := s.log.WithField("email", in.Email)

	u, err := s.users.UserByEmail(ctx, in.Email)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logCtx.WithError(err).Error("login: user lookup failed")
			return nil, ErrInternal
		}
		auth.BurnPassword(in.Password)
		logCtx.Warn("login failed")
		return nil, ErrInvalidCredentials
	}

	if !auth.CheckPassword(u.PasswordHash, in.Password) {
		logCtx.Warn("login failed")
		return nil, ErrInvalidCredentials
	}

	logCtx.WithField("user_id", u.ID).Debug("user logged in")
	return s.session(u)
}

// Verify returns the user id carried by a valid bearer token.
func (s *AuthService) Verify(raw string) (string, error) {
	if raw == "" {
		return "", ErrBadToken
	}
	c, err := s.signer.ParseToken(raw)
	if err != nil {
		s.log.WithError(err).Debug("token rejected")
		return "", ErrBadToken
	}
	return c.UserID, nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (model.UserView, error) {
	u, err := s.users.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.UserView{}, ErrUserNotFound
		}
		s.log.WithError(err).WithField("user_id", userID).Error("me: user lookup failed")
		return model.UserView{}, ErrInternal
	}
	return u.View(), nil
}

func (s *AuthService) session(u *model.User) (*Session, error) {
	tok, err := s.signer.MakeToken(u.ID)
	if err != nil {
		s.log.WithError(err).WithField("user_id", u.ID).Error("sign token")
		return nil, ErrInternal
	}
	return &Session{Token: tok, User: u.View()}, nil
}
