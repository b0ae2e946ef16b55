// Package redis wraps the redis client used for sessions and task queues.
package redis

import (
	"context"

	"github.com/Laisky/errors/v2"
	gredis "github.com/Laisky/go-redis/v2"
	redisLib "github.com/redis/go-redis/v9"
)

// DB is a wrapper for go-redis
type DB struct {
	cli *redisLib.Client
	db  *gredis.Utils
}

// NewDB creates a new DB instance
func NewDB(opt *redisLib.Options) *DB {
	rdb := redisLib.NewClient(opt)
	rutils := gredis.NewRedisUtils(rdb)

	return &DB{
		cli: rdb,
		db:  rutils,
	}
}

// Ping checks whether the redis server is reachable.
func (db *DB) Ping(ctx context.Context) error {
	if err := db.cli.Ping(ctx).Err(); err != nil {
		return errors.Wrap(err, "ping redis")
	}

	return nil
}
