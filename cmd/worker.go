package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	gconfig "github.com/Laisky/go-config/v2"
	"github.com/Laisky/zap"
	"github.com/spf13/cobra"

	"github.com/Laisky/laisky-files-api/internal/thumbnail"
	"github.com/Laisky/laisky-files-api/library/log"
)

var workerCMD = &cobra.Command{
	Use:   "worker",
	Short: "worker",
	Long:  `standalone thumbnail pipeline workers`,
	PreRun: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		if err := initialize(ctx, cmd); err != nil {
			log.Logger.Panic("init", zap.Error(err))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		d, err := setupDeps(ctx)
		if err != nil {
			log.Logger.Panic("setup dependencies", zap.Error(err))
		}

		count := gconfig.Shared.GetInt("settings.thumbnail.workers")
		if count <= 0 {
			count = 1
		}

		if err = thumbnail.StartWorkers(ctx, count,
			d.redisDB, d.dao, d.dao, d.blobs,
			log.Logger.Named("thumbnail"),
			gconfig.Shared.GetDuration("settings.thumbnail.timeout"),
		); err != nil {
			log.Logger.Panic("start thumbnail workers", zap.Error(err))
		}

		log.Logger.Info("thumbnail workers running", zap.Int("count", count))
		<-ctx.Done()
		log.Logger.Info("shutting down")
	},
}

func init() {
	rootCMD.AddCommand(workerCMD)
}
