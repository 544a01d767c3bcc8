package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"fm-configurator/internal/logger"
	"fm-configurator/internal/workflow"
)

const (
	draftBackendFile  = "file"
	draftBackendRedis = "redis"
)

var (
	cfg = viper.New()
	log *zap.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "configurator",
	Short: "Turn a photo into a styled design and keep it as a draft order",
	Long: "configurator uploads a photo to the FM configurator API, saves the result as the\n" +
		"current draft order and, when run for an embedded storefront page, tells the host\n" +
		"that the design is ready.",
	SilenceUsage:      true,
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("api-url", "http://localhost:8080", "Configurator API base URL")
	rootCmd.PersistentFlags().String("draft-backend", draftBackendFile, "Where the draft order is kept (file or redis)")
	rootCmd.PersistentFlags().String("draft-dir", "", "Directory for the file draft backend (defaults to the user config dir)")
	rootCmd.PersistentFlags().String("redis-addr", "localhost:6379", "Redis address for the redis draft backend")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level")

	_ = cfg.BindPFlag("api_url", rootCmd.PersistentFlags().Lookup("api-url"))
	_ = cfg.BindPFlag("draft_backend", rootCmd.PersistentFlags().Lookup("draft-backend"))
	_ = cfg.BindPFlag("draft_dir", rootCmd.PersistentFlags().Lookup("draft-dir"))
	_ = cfg.BindPFlag("redis_addr", rootCmd.PersistentFlags().Lookup("redis-addr"))
	_ = cfg.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	cfg.SetEnvPrefix("CONFIGURATOR")
	cfg.AutomaticEnv()

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(draftCmd)
	rootCmd.AddCommand(stylesCmd)
}

func initializeApp(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	var err error
	log, err = logger.New(cfg.GetString("log_level"), "console")
	return err
}

func noopClose() error { return nil }

// openDraftStore returns the configured store and a func that releases it.
func openDraftStore(backend, dir, redisAddr string) (workflow.DraftStore, func() error, error) {
	switch backend {
	case draftBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:         redisAddr,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis ping failed: %w", err)
		}
		store := workflow.NewRedisStore(client, "fm-configurator:")
		return store, store.Close, nil
	case draftBackendFile, "":
		if dir == "" {
			var err error
			if dir, err = workflow.DefaultDraftDir(); err != nil {
				return nil, nil, fmt.Errorf("failed to locate config directory: %w", err)
			}
		}
		return workflow.NewFileStore(dir), noopClose, nil
	default:
		return nil, nil, fmt.Errorf("unknown draft backend %q (use %s or %s)", backend, draftBackendFile, draftBackendRedis)
	}
}

// newController opens the draft store and builds a controller on it. Design
// ready messages go to the host callback when one is configured, otherwise to
// out. The returned func closes the draft store.
func newController(pageURL string, out io.Writer) (*workflow.Controller, func() error, error) {
	store, closeStore, err := openDraftStore(
		cfg.GetString("draft_backend"),
		cfg.GetString("draft_dir"),
		cfg.GetString("redis_addr"),
	)
	if err != nil {
		return nil, nil, err
	}

	httpClient := &http.Client{}

	var notifier workflow.HostNotifier
	if callback := cfg.GetString("host_callback_url"); callback != "" {
		notifier = workflow.NewHTTPNotifier(callback, cfg.GetString("target_origin"), httpClient)
	} else {
		notifier = workflow.NewWriterNotifier(out)
	}

	controller, err := workflow.NewController(workflow.Options{
		API:      workflow.NewHTTPTransformAPI(cfg.GetString("api_url"), httpClient),
		Store:    store,
		Notifier: notifier,
		PageURL:  pageURL,
		Logger:   log,
	})
	if err != nil {
		_ = closeStore()
		return nil, nil, err
	}
	return controller, closeStore, nil
}
