package cmd

import (
	"context"

	gconfig "github.com/Laisky/go-config/v2"
	"github.com/Laisky/zap"
	"github.com/spf13/cobra"

	"github.com/Laisky/laisky-files-api/internal/thumbnail"
	"github.com/Laisky/laisky-files-api/internal/web"
	"github.com/Laisky/laisky-files-api/internal/web/files/controller"
	"github.com/Laisky/laisky-files-api/library/log"
)

var apiCMD = &cobra.Command{
	Use:   "api",
	Short: "api",
	Long:  `HTTP API of the files store`,
	PreRun: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		if err := initialize(ctx, cmd); err != nil {
			log.Logger.Panic("init", zap.Error(err))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		d, err := setupDeps(ctx)
		if err != nil {
			log.Logger.Panic("setup dependencies", zap.Error(err))
		}

		// workers may run embedded next to the API
		if count := gconfig.Shared.GetInt("settings.thumbnail.workers"); count > 0 {
			if err = thumbnail.StartWorkers(ctx, count,
				d.redisDB, d.dao, d.dao, d.blobs,
				log.Logger.Named("thumbnail"),
				gconfig.Shared.GetDuration("settings.thumbnail.timeout"),
			); err != nil {
				log.Logger.Panic("start thumbnail workers", zap.Error(err))
			}
		}

		web.RunServer(
			gconfig.Shared.GetString("listen"),
			controller.New(d.svc, log.Logger.Named("controller")),
		)
	},
}

func init() {
	rootCMD.AddCommand(apiCMD)
}
