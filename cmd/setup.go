package cmd

import (
	"context"
	"os"

	"github.com/Laisky/errors/v2"
	gconfig "github.com/Laisky/go-config/v2"
	"github.com/Laisky/zap"
	redisLib "github.com/redis/go-redis/v9"
	"github.com/spf13/afero"

	"github.com/Laisky/laisky-files-api/internal/web/files/dao"
	"github.com/Laisky/laisky-files-api/internal/web/files/service"
	"github.com/Laisky/laisky-files-api/library/blob"
	"github.com/Laisky/laisky-files-api/library/db/mongo"
	"github.com/Laisky/laisky-files-api/library/db/redis"
	"github.com/Laisky/laisky-files-api/library/log"
)

const defaultStorageRoot = "/tmp/files_manager"

// deps wires the stores and services once, handles are passed by
// reference instead of being looked up through globals.
type deps struct {
	mongoDB mongo.DB
	redisDB *redis.DB
	dao     *dao.Files
	blobs   *blob.Store
	svc     *service.Service
}

func setupDeps(ctx context.Context) (*deps, error) {
	mongoDB, err := mongo.NewDB(ctx, mongo.DialInfo{
		Addr:   gconfig.Shared.GetString("settings.db.files.addr"),
		DBName: gconfig.Shared.GetString("settings.db.files.db"),
		User:   gconfig.Shared.GetString("settings.db.files.user"),
		Pwd:    gconfig.Shared.GetString("settings.db.files.pwd"),
		AuthDB: gconfig.Shared.GetString("settings.db.files.authdb"),
	})
	if err != nil {
		return nil, errors.Wrap(err, "connect to files db")
	}

	redisDB := redis.NewDB(&redisLib.Options{
		Addr:     gconfig.Shared.GetString("settings.redis.addr"),
		DB:       gconfig.Shared.GetInt("settings.redis.db"),
		Password: gconfig.Shared.GetString("settings.redis.pwd"),
	})

	blobs, err := blob.NewStore(afero.NewOsFs(), storageRoot())
	if err != nil {
		return nil, errors.Wrap(err, "create blob store")
	}

	d := dao.New(mongoDB)
	if err = d.SetupCols(ctx); err != nil {
		return nil, errors.Wrap(err, "setup collections")
	}

	svc, err := service.NewService(d, redisDB, blobs, redisDB, log.Logger.Named("files"))
	if err != nil {
		return nil, errors.Wrap(err, "new files service")
	}
	svc.SetSessionTTL(gconfig.Shared.GetDuration("settings.session.ttl"))

	log.Logger.Info("dependencies ready",
		zap.String("storage_root", blobs.Root()))

	return &deps{
		mongoDB: mongoDB,
		redisDB: redisDB,
		dao:     d,
		blobs:   blobs,
		svc:     svc,
	}, nil
}

// storageRoot resolves the blob directory, the environment keeps the
// final say for container deployments.
func storageRoot() string {
	if root := gconfig.Shared.GetString("settings.storage.root"); root != "" {
		return root
	}
	if root := os.Getenv("FOLDER_PATH"); root != "" {
		return root
	}

	return defaultStorageRoot
}
