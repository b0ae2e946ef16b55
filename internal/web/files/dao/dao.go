// Package dao is the data access object for the files metadata store.
package dao

import (
	"context"

	"github.com/Laisky/errors/v2"
	"go.mongodb.org/mongo-driver/bson"
	mongoLib "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Laisky/laisky-files-api/library/db/mongo"
)

const (
	colUsers = "users"
	colFiles = "files"
	colJobs  = "thumbnail_jobs"
)

// Files db
type Files struct {
	db mongo.DB
}

// New create new DB
func New(db mongo.DB) *Files {
	return &Files{
		db: db,
	}
}

func (d *Files) GetUsersCol() *mongoLib.Collection {
	return d.db.GetCol(colUsers)
}
func (d *Files) GetFilesCol() *mongoLib.Collection {
	return d.db.GetCol(colFiles)
}
func (d *Files) GetJobsCol() *mongoLib.Collection {
	return d.db.GetCol(colJobs)
}

// Ping checks the underlying database connection.
func (d *Files) Ping(ctx context.Context) error {
	return d.db.Ping(ctx)
}

// SetupCols creates the indexes the collections rely on.
func (d *Files) SetupCols(ctx context.Context) error {
	// unique index for email
	if _, err := d.GetUsersCol().Indexes().CreateOne(ctx, mongoLib.IndexModel{
		Keys: bson.M{
			"email": 1,
		},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return errors.Wrap(err, "create index for email")
	}

	// owner + parent carries every list query
	if _, err := d.GetFilesCol().Indexes().CreateOne(ctx, mongoLib.IndexModel{
		Keys: bson.D{
			{Key: "owner_id", Value: 1},
			{Key: "parent_id", Value: 1},
		},
	}); err != nil {
		return errors.Wrap(err, "create index for owner and parent")
	}

	return nil
}
