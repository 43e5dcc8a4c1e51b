package cmd

import (
	"context"

	"github.com/grabarr/grabarr/config"
	"github.com/grabarr/grabarr/pkg/download"
	"github.com/grabarr/grabarr/pkg/engine"
	ghttp "github.com/grabarr/grabarr/pkg/http"
	"github.com/grabarr/grabarr/pkg/logger"
	"github.com/grabarr/grabarr/pkg/metadata"
	"github.com/grabarr/grabarr/pkg/search"
	"github.com/grabarr/grabarr/pkg/storage/sqlite"
	"github.com/grabarr/grabarr/server"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "start the acquisition engine and admin api",
	Long:  `start the acquisition engine and admin api`,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.Get()

		cfg, err := config.New(viper.GetViper())
		if err != nil {
			log.Fatal("failed to read configurations", zap.Error(err))
		}

		store, err := sqlite.NewWithMigrations(cfg.Storage.FilePath)
		if err != nil {
			log.Fatal("failed to open database", zap.Error(err))
		}
		defer store.Close()

		httpClient := ghttp.NewRateLimitedClient(
			ghttp.WithBaseBackoff(cfg.Jackett.BaseBackoff),
			ghttp.WithMaxRetries(cfg.Jackett.MaxRetries),
		)

		searcher := search.NewJackettClient(httpClient, cfg.Jackett.Scheme, cfg.Jackett.Host, cfg.Jackett.APIKey, cfg.Jackett.Port)
		downloader := download.NewQbittorrentClient(httpClient, cfg.Qbit.Scheme, cfg.Qbit.Host, cfg.Qbit.Username, cfg.Qbit.Password, cfg.Qbit.Port)
		meta := metadata.NewEpguidesClient(httpClient, cfg.Epguides.Scheme, cfg.Epguides.Host)

		eng := engine.New(store, searcher, downloader, meta, clockwork.NewRealClock(), engine.Config{
			MovieDir:     cfg.Library.MovieDir,
			TVDir:        cfg.Library.TVDir,
			Retention:    cfg.Engine.Retention(),
			MinSeeders:   int32(cfg.Engine.MinSeeders),
			Language:     cfg.Engine.Language,
			Interval:     cfg.Engine.Interval,
			StageTimeout: cfg.Engine.StageTimeout,
		})

		ctx, cancel := context.WithCancel(logger.WithCtx(context.Background(), log))
		defer cancel()

		go func() {
			if err := eng.Run(ctx); err != nil && ctx.Err() == nil {
				log.Error("engine stopped", zap.Error(err))
			}
		}()

		srv := server.New(log, store)
		log.Error(srv.Serve(cfg.Server.Port))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
