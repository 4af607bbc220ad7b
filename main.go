package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	v1 "github.com/Davidnet/BookWise/internal/api/v1"
	"github.com/Davidnet/BookWise/internal/assistant"
	"github.com/Davidnet/BookWise/internal/config"
	"github.com/Davidnet/BookWise/internal/library"
	"github.com/Davidnet/BookWise/internal/log"
	"github.com/Davidnet/BookWise/internal/server"
	"github.com/Davidnet/BookWise/internal/storage"
	"github.com/Davidnet/BookWise/internal/store"
	"github.com/Davidnet/BookWise/internal/store/db"
	"github.com/Davidnet/BookWise/internal/store/mongodb"
	"github.com/Davidnet/BookWise/internal/version"
	"github.com/Davidnet/BookWise/internal/worker"
)

const (
	greetingBanner = `
██████   ██████   ██████  ██   ██ ██     ██ ██ ███████ ███████
██   ██ ██    ██ ██    ██ ██  ██  ██     ██ ██ ██      ██
██████  ██    ██ ██    ██ █████   ██  █  ██ ██ ███████ █████
██   ██ ██    ██ ██    ██ ██  ██  ██ ███ ██ ██      ██ ██
██████   ██████   ██████  ██   ██  ███ ███  ██ ███████ ███████
`
	shutdownTimeout = 10 * time.Second
)

var (
	configFile string
	host       string
	port       int
	data       string

	rootCmd = &cobra.Command{
		Use:   "bookwise",
		Short: "BookWise is a personal book tracking service",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(cmd)
			if err != nil {
				return err
			}
			log.Logger = log.NewLogger(opts)
			defer log.Logger.Sync()

			fmt.Print(greetingBanner)
			return run(opts)
		},
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version of BookWise",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version.GetCurrentVersion())
		},
	}
)

// database is a document driver that can prepare its own schema.
type database interface {
	store.Driver
	Migrate(ctx context.Context) error
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (toml, yaml or json)")
	rootCmd.Flags().StringVar(&host, "host", "", "host to listen on")
	rootCmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on")
	rootCmd.Flags().StringVarP(&data, "data", "d", "", "data directory")
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadOptions reads the config file and environment, then applies the
// command line flags on top.
func loadOptions(cmd *cobra.Command) (*config.Options, error) {
	opts, err := config.Load(configFile)
	if err != nil {
		return nil, errors.Wrap(err, "error loading config")
	}
	if cmd.Flags().Changed("host") {
		opts.Host = host
	}
	if cmd.Flags().Changed("port") {
		opts.Port = port
	}
	if cmd.Flags().Changed("data") {
		opts.Data = data
	}
	// Values derived from the data directory and address follow the flags
	// unless they were configured explicitly.
	if viper.GetString("dsn_uri") == "" {
		opts.DSN = ""
	}
	if viper.GetString("public_url") == "" {
		opts.PublicURL = ""
	}
	return config.Finalize(opts)
}

func run(opts *config.Options) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	driver, err := newDatabase(ctx, opts)
	if err != nil {
		log.Error("Error connecting to database", zap.Error(err))
		return err
	}
	if err := driver.Migrate(ctx); err != nil {
		driver.Close()
		log.Error("Error migrating database", zap.Error(err))
		return err
	}

	store := store.NewStore(driver)
	defer store.Close()
	if err := store.Ping(ctx); err != nil {
		log.Error("Error pinging database", zap.Error(err))
		return err
	}

	securitySetting, err := store.GetOrUpsetSystemSecuritySetting(ctx, opts.JWTSecret)
	if err != nil {
		log.Error("Error getting security setting", zap.Error(err))
		return err
	}

	objects := storage.NewLocalStorage(opts.Data, opts.PublicURL)

	var helper v1.Assistant
	if opts.GeminiAPIKey != "" {
		model, err := assistant.NewGeminiModel(ctx, opts)
		if err != nil {
			log.Error("Error creating Gemini client", zap.Error(err))
			return err
		}
		helper = assistant.NewGateway(model, objects, opts.MaxCoverWidth)

		pool := worker.NewEmbeddingPool(model, store, opts.EmbeddingWorkers)
		defer pool.Stop()
		store.SetNotesListener(pool)
	} else {
		log.Warn("No Gemini API key configured, AI features are disabled")
	}

	controller := library.NewController(store)
	handler := v1.NewHandler(store, controller, helper, securitySetting.JWTSecret,
		time.Duration(opts.TokenTTLHours)*time.Hour)
	httpServer := server.StartServer(opts, store, objects, handler)

	<-ctx.Done()
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down server", zap.Error(err))
		return err
	}
	log.Info("Server stopped")
	return nil
}

func newDatabase(ctx context.Context, opts *config.Options) (database, error) {
	switch opts.DBDriver {
	case "sqlite":
		return db.NewDB(opts.DSN)
	case "mongo":
		return mongodb.NewDB(ctx, opts.MongoURI, opts.MongoDatabase)
	default:
		return nil, errors.Errorf("unsupported db_driver %q", opts.DBDriver)
	}
}
