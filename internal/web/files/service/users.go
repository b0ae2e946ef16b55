package service

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"strings"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Laisky/laisky-files-api/internal/web/files/dao"
	"github.com/Laisky/laisky-files-api/internal/web/files/model"
	"github.com/Laisky/laisky-files-api/library/db/mongo"
	"github.com/Laisky/laisky-files-api/library/db/redis"
)

// HashPassword digests a raw password for storage and comparison.
//
// Single-round unsalted SHA1 reproduces the reference behavior on purpose
// so existing credential rows keep verifying. Known gap: replacing it
// needs a salted slow hash plus a row migration, tracked outside this
// service.
func HashPassword(password string) string {
	sum := sha1.Sum([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Register creates a new user account.
func (s *Service) Register(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, ErrMissingEmail
	}
	if password == "" {
		return nil, ErrMissingPassword
	}

	user, err := s.dao.CreateUser(ctx, email, HashPassword(password))
	if err != nil {
		if errors.Is(err, dao.ErrUserExists) {
			return nil, ErrEmailTaken
		}

		return nil, errors.Wrapf(err, "create user %q", email)
	}

	s.logger.Info("registered new user", zap.String("email", email))
	return user, nil
}

// Login verifies credentials and issues a fresh opaque session token.
func (s *Service) Login(ctx context.Context, email, password string) (token string, err error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", ErrUnauthorized
	}

	user, err := s.dao.GetUserByEmail(ctx, email)
	if err != nil {
		if mongo.NotFound(err) {
			return "", ErrUnauthorized
		}

		return "", errors.Wrapf(err, "load user %q", email)
	}

	if HashPassword(password) != user.Password {
		return "", ErrUnauthorized
	}

	token = uuid.NewString()
	session := &redis.Session{
		Token:     token,
		UserID:    user.GetID(),
		ExpiresAt: s.clock().Add(s.sessionTTL),
	}
	if err = s.sessions.SaveSession(ctx, session, s.sessionTTL); err != nil {
		return "", errors.Wrap(err, "save session")
	}

	return token, nil
}

// Logout destroys the session mapped to token.
// The delete itself is idempotent, but an unknown token still surfaces
// Unauthorized so callers cannot probe deletion outcomes.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return ErrUnauthorized
	}

	if _, err := s.sessions.GetSession(ctx, token); err != nil {
		if errors.Is(err, redis.ErrSessionNotFound) {
			return ErrUnauthorized
		}

		return errors.Wrap(err, "load session")
	}

	if err := s.sessions.DeleteSession(ctx, token); err != nil {
		return errors.Wrap(err, "delete session")
	}

	return nil
}

// Authenticate resolves a request token to its user.
func (s *Service) Authenticate(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}

	session, err := s.sessions.GetSession(ctx, token)
	if err != nil {
		if errors.Is(err, redis.ErrSessionNotFound) {
			return nil, ErrUnauthorized
		}

		return nil, errors.Wrap(err, "load session")
	}
	if session.Expired(s.clock()) {
		return nil, ErrUnauthorized
	}

	userID, err := primitive.ObjectIDFromHex(session.UserID)
	if err != nil {
		return nil, errors.Wrapf(err, "parse session user id %q", session.UserID)
	}

	user, err := s.dao.GetUserByID(ctx, userID)
	if err != nil {
		if mongo.NotFound(err) {
			// a live session pointing at a missing user row is a store
			// consistency violation, not a caller bug
			s.logger.Warn("session references missing user",
				zap.String("user_id", session.UserID))
			return nil, ErrUnauthorized
		}

		return nil, errors.Wrapf(err, "load user %q", session.UserID)
	}

	return user, nil
}
