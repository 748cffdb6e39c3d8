package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	v1 "github.com/openshelf/openshelf/api/v1"
	"github.com/openshelf/openshelf/config"
	"github.com/openshelf/openshelf/log"
	"github.com/openshelf/openshelf/realtime"
	"github.com/openshelf/openshelf/server"
	"github.com/openshelf/openshelf/storage"
	"github.com/openshelf/openshelf/store"
	"github.com/openshelf/openshelf/store/db"
	"github.com/openshelf/openshelf/worker"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const greetingBanner = `
 ██████  ██████  ███████ ███    ██ ███████ ██   ██ ███████ ██      ███████
██    ██ ██   ██ ██      ████   ██ ██      ██   ██ ██      ██      ██
██    ██ ██████  █████   ██ ██  ██ ███████ ███████ █████   ██      █████
██    ██ ██      ██      ██  ██ ██      ██ ██   ██ ██      ██      ██
 ██████  ██      ███████ ██   ████ ███████ ██   ██ ███████ ███████ ██
`

var (
	configFile string

	rootCmd = &cobra.Command{
		Use:   "openshelf",
		Short: "OpenShelf is a library management system",
		Run: func(cmd *cobra.Command, args []string) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			database, err := db.NewDB(config.Opts.DSN)
			if err != nil {
				log.Error("Error connecting to database", zap.Error(err))
				return
			}
			defer database.Close()
			if err := database.Migrate(ctx); err != nil {
				log.Error("Error migrating database", zap.Error(err))
				return
			}
			if err := database.Seed(ctx); err != nil {
				log.Error("Error seeding database", zap.Error(err))
				return
			}

			s := store.NewStore(database.DB)
			if err := s.Ping(); err != nil {
				log.Error("Error pinging database", zap.Error(err))
				return
			}

			uploads, err := storage.NewLocal(filepath.Join(config.Opts.Data, "uploads"))
			if err != nil {
				log.Error("Error preparing upload directory", zap.Error(err))
				return
			}

			hub := realtime.NewHub()
			go hub.Run(ctx)

			imagePool := worker.NewImagePool(s, config.Opts.WorkerPoolSize)

			sweeper := worker.NewSweeper(s, hub)
			go sweeper.Run(ctx)

			handler := v1.NewHandler(s, imagePool, uploads, hub)
			srv := server.StartServer(handler, s, hub)

			fmt.Print(greetingBanner)
			log.Info("Server started",
				zap.String("host", config.Opts.Host),
				zap.Int("port", config.Opts.Port),
				zap.String("version", config.Opts.Version))

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
			<-sig

			log.Info("Shutting down")
			cancel()

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error("Error shutting down server", zap.Error(err))
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to the config file")

	cobra.OnInitialize(func() {
		if _, err := config.GetConfig(); err != nil {
			fmt.Println("Error loading default config:", err)
			os.Exit(1)
		}
		if configFile != "" {
			if _, err := config.ParseFile(configFile); err != nil {
				fmt.Println("Error parsing config file:", err)
				os.Exit(1)
			}
		}
		log.Logger = log.NewLogger()
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if log.Logger != nil {
		log.Logger.Sync()
	}
}
