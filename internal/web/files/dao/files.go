package dao

import (
	"context"

	"github.com/Laisky/errors/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Laisky/laisky-files-api/internal/web/files/model"
	"github.com/Laisky/laisky-files-api/library/db/mongo"
)

// PageSize is the fixed number of nodes returned per list page.
const PageSize = 20

// InsertFile inserts a new file node and returns it with its id set.
func (d *Files) InsertFile(ctx context.Context, file *model.File) (*model.File, error) {
	if file.ID.IsZero() {
		file.ID = primitive.NewObjectID()
	}

	if _, err := d.GetFilesCol().InsertOne(ctx, file); err != nil {
		return nil, errors.Wrapf(err, "insert file %q", file.Name)
	}

	return file, nil
}

// GetFileByID loads a node by id regardless of owner.
func (d *Files) GetFileByID(ctx context.Context, id primitive.ObjectID) (*model.File, error) {
	file := new(model.File)
	if err := d.GetFilesCol().
		FindOne(ctx, bson.M{"_id": id}).
		Decode(file); err != nil {
		if mongo.NotFound(err) {
			return nil, err
		}

		return nil, errors.Wrapf(err, "find file %q", id.Hex())
	}

	return file, nil
}

// GetFileOwned loads a node by id scoped to one owner.
func (d *Files) GetFileOwned(ctx context.Context, id, ownerID primitive.ObjectID) (*model.File, error) {
	file := new(model.File)
	if err := d.GetFilesCol().
		FindOne(ctx, bson.M{"_id": id, "owner_id": ownerID}).
		Decode(file); err != nil {
		if mongo.NotFound(err) {
			return nil, err
		}

		return nil, errors.Wrapf(err, "find file %q of owner %q", id.Hex(), ownerID.Hex())
	}

	return file, nil
}

// ListFiles returns one page of the owner's nodes in insertion order.
// With filterParent set, parentID nil selects root-level nodes.
// ObjectIDs are time-prefixed so sorting on _id gives a stable
// insertion order, the reference store guaranteed none.
func (d *Files) ListFiles(ctx context.Context,
	ownerID primitive.ObjectID,
	parentID *primitive.ObjectID,
	filterParent bool,
	page int64,
) (files []*model.File, err error) {
	filter := bson.M{"owner_id": ownerID}
	if filterParent {
		if parentID == nil {
			filter["parent_id"] = nil
		} else {
			filter["parent_id"] = *parentID
		}
	}

	cur, err := d.GetFilesCol().Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}),
		options.Find().SetSkip(page*PageSize),
		options.Find().SetLimit(PageSize),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "list files of owner %q", ownerID.Hex())
	}

	if err = cur.All(ctx, &files); err != nil {
		return nil, errors.Wrap(err, "load files")
	}

	return files, nil
}

// SetFilePublic flips the public flag on an owned node and returns the updated row.
func (d *Files) SetFilePublic(ctx context.Context,
	id, ownerID primitive.ObjectID,
	public bool,
) (*model.File, error) {
	file := new(model.File)
	if err := d.GetFilesCol().
		FindOneAndUpdate(ctx,
			bson.M{"_id": id, "owner_id": ownerID},
			bson.M{"$set": bson.M{"is_public": public}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).
		Decode(file); err != nil {
		if mongo.NotFound(err) {
			return nil, err
		}

		return nil, errors.Wrapf(err, "set file %q public=%v", id.Hex(), public)
	}

	return file, nil
}

// CountFiles returns the total number of file nodes.
func (d *Files) CountFiles(ctx context.Context) (int64, error) {
	cnt, err := d.GetFilesCol().CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, errors.Wrap(err, "count files")
	}

	return cnt, nil
}
