package dao

import (
	"context"
	"time"

	"github.com/Laisky/errors/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoLib "go.mongodb.org/mongo-driver/mongo"

	"github.com/Laisky/laisky-files-api/internal/web/files/model"
	"github.com/Laisky/laisky-files-api/library/db/mongo"
)

// ErrUserExists is returned when the email is already registered.
var ErrUserExists = errors.New("user already exists")

// duplicateKey reports whether err is the unique-index violation raised
// when a concurrent registration won the race past the pre-insert check.
func duplicateKey(err error) bool {
	return mongoLib.IsDuplicateKeyError(err)
}

// CreateUser inserts a new user row with the hashed password.
func (d *Files) CreateUser(ctx context.Context, email, passwordHash string) (*model.User, error) {
	// check duplicate
	{
		existing := new(model.User)
		if err := d.GetUsersCol().
			FindOne(ctx, bson.M{"email": email}).
			Decode(existing); err == nil {
			return nil, ErrUserExists
		}
	}

	user := &model.User{
		ID:        primitive.NewObjectID(),
		Email:     email,
		Password:  passwordHash,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := d.GetUsersCol().InsertOne(ctx, user); err != nil {
		if duplicateKey(err) {
			return nil, ErrUserExists
		}

		return nil, errors.Wrapf(err, "insert user %q", email)
	}

	return user, nil
}

// GetUserByEmail loads a user by its unique email.
func (d *Files) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	user := new(model.User)
	if err := d.GetUsersCol().
		FindOne(ctx, bson.M{"email": email}).
		Decode(user); err != nil {
		if mongo.NotFound(err) {
			return nil, err
		}

		return nil, errors.Wrapf(err, "find user %q", email)
	}

	return user, nil
}

// GetUserByID loads a user by id.
func (d *Files) GetUserByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	user := new(model.User)
	if err := d.GetUsersCol().
		FindOne(ctx, bson.M{"_id": id}).
		Decode(user); err != nil {
		if mongo.NotFound(err) {
			return nil, err
		}

		return nil, errors.Wrapf(err, "find user %q", id.Hex())
	}

	return user, nil
}

// CountUsers returns the total number of registered users.
func (d *Files) CountUsers(ctx context.Context) (int64, error) {
	cnt, err := d.GetUsersCol().CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, errors.Wrap(err, "count users")
	}

	return cnt, nil
}
