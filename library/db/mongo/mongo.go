// Package mongo provides a wrapper for the MongoDB client.
package mongo

import (
	"context"
	"net/url"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	mongoLib "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/Laisky/laisky-files-api/library/log"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultHeartbeat = 10 * time.Second
	pingTimeout      = 5 * time.Second
)

// DB is the exportable handle for a MongoDB database.
type DB interface {
	Close(ctx context.Context) error
	GetCol(colName string) *mongoLib.Collection
	CurrentDB() *mongoLib.Database
	Ping(ctx context.Context) error
}

// DialInfo defines the MongoDB connection information.
type DialInfo struct {
	Addr,
	DBName,
	User,
	Pwd string
	AuthDB string
}

type db struct {
	cli      *mongoLib.Client
	dialInfo DialInfo
}

// buildMongoURI builds a MongoDB connection URI from the given dial info.
func buildMongoURI(dialInfo DialInfo) string {
	uri := &url.URL{
		Scheme: "mongodb",
		Host:   dialInfo.Addr,
		Path:   "/" + dialInfo.DBName,
	}
	if dialInfo.User != "" || dialInfo.Pwd != "" {
		uri.User = url.UserPassword(dialInfo.User, dialInfo.Pwd)
	}
	if dialInfo.AuthDB != "" {
		query := url.Values{}
		query.Set("authSource", dialInfo.AuthDB)
		uri.RawQuery = query.Encode()
	}
	return uri.String()
}

// NewDB creates ONE long-lived mongo.Client and relies on the driver for reconnects.
func NewDB(ctx context.Context, dialInfo DialInfo) (DB, error) {
	log.Logger.Info("try to connect to mongodb",
		zap.String("addr", dialInfo.Addr),
		zap.String("db", dialInfo.DBName),
	)

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(buildMongoURI(dialInfo)).
		SetConnectTimeout(defaultTimeout).
		SetServerSelectionTimeout(defaultTimeout).
		SetSocketTimeout(defaultTimeout).
		SetHeartbeatInterval(defaultHeartbeat).
		SetRetryReads(true).
		SetRetryWrites(true).
		SetMaxPoolSize(100).
		SetMaxConnecting(2).
		SetMaxConnIdleTime(300 * time.Second)

	cli, err := mongoLib.Connect(ctx, clientOpts)
	if err != nil {
		return nil, errors.Wrap(err, "connect db")
	}

	// Force a first server selection now so failures happen at startup, not later.
	if err := cli.Ping(ctx, readpref.Primary()); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, errors.Wrap(err, "ping db")
	}

	return &db{cli: cli, dialInfo: dialInfo}, nil
}

// CurrentDB returns the database based on the dial info.
func (d *db) CurrentDB() *mongoLib.Database {
	return d.cli.Database(d.dialInfo.DBName)
}

// GetCol returns a collection handle by name.
func (d *db) GetCol(colName string) *mongoLib.Collection {
	return d.CurrentDB().Collection(colName)
}

// Ping checks whether the server is reachable, bounded by a short timeout.
func (d *db) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := d.cli.Ping(ctx, readpref.Primary()); err != nil {
		return errors.Wrap(err, "ping db")
	}

	return nil
}

// Close disconnects the underlying client.
func (d *db) Close(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	closeCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := d.cli.Disconnect(closeCtx); err != nil {
		return errors.Wrap(err, "disconnect db")
	}

	return nil
}
