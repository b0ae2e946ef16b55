package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Laisky/errors/v2"
	redisLib "github.com/redis/go-redis/v9"
)

// ErrSessionNotFound is returned when a token has no live session mapping.
var ErrSessionNotFound = errors.New("session not found")

// SaveSession stores the session payload under the token key with ttl.
func (db *DB) SaveSession(ctx context.Context, session *Session, ttl time.Duration) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return errors.Wrap(err, "marshal session")
	}

	if err = db.db.SetItem(ctx, keyPrefixSession+session.Token, string(payload), ttl); err != nil {
		return errors.Wrap(err, "set session item")
	}

	return nil
}

// GetSession loads the session mapped to token.
// A missing or reaped key surfaces ErrSessionNotFound.
func (db *DB) GetSession(ctx context.Context, token string) (*Session, error) {
	payload, err := db.db.GetItem(ctx, keyPrefixSession+token)
	if err != nil {
		if errors.Is(err, redisLib.Nil) {
			return nil, ErrSessionNotFound
		}

		return nil, errors.Wrap(err, "get session item")
	}
	if payload == "" {
		return nil, ErrSessionNotFound
	}

	session := new(Session)
	if err = json.Unmarshal([]byte(payload), session); err != nil {
		return nil, errors.Wrap(err, "unmarshal session")
	}

	return session, nil
}

// DeleteSession removes the token mapping, deleting an absent key is not an error.
func (db *DB) DeleteSession(ctx context.Context, token string) error {
	if err := db.db.Del(ctx, keyPrefixSession+token).Err(); err != nil {
		return errors.Wrap(err, "del session item")
	}

	return nil
}
