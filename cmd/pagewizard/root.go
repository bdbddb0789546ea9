package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/pagewizard"
	"github.com/aretw0/pagewizard/internal/logging"
	"github.com/aretw0/pagewizard/pkg/adapters/file"
	"github.com/aretw0/pagewizard/pkg/adapters/memory"
	redisstore "github.com/aretw0/pagewizard/pkg/adapters/redis"
	"github.com/aretw0/pagewizard/pkg/api"
	"github.com/aretw0/pagewizard/pkg/flow"
	"github.com/aretw0/pagewizard/pkg/persistence/middleware"
	"github.com/aretw0/pagewizard/pkg/ports"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

const (
	envBackendURL     = "PAGEWIZARD_BACKEND_URL"
	envCredentialsKey = "PAGEWIZARD_CREDENTIALS_KEY"
)

var rootCmd = &cobra.Command{
	Use:           "pagewizard",
	Short:         "PageWizard builds product content pages through a guided chat",
	Long:          `PageWizard asks about your shop, analyzes a product page, collects images and generates a content page ready to publish.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("flow", "", "Flow definition file (YAML); the built-in wizard when empty")
	flags.String("backend", os.Getenv(envBackendURL), "Backend endpoint URL (env "+envBackendURL+")")
	flags.String("store", "file", "Credential store: memory, file or redis")
	flags.String("store-dir", defaultStoreDir(), "Directory of the file credential store")
	flags.String("redis", "redis://localhost:6379/0", "Redis URL of the redis credential store")
	flags.String("profile", "default", "Credential profile")
	flags.Bool("debug", false, "Enable debug logging")
	flags.String("log-format", "text", "Log format on stderr: text or json")
}

func defaultStoreDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "pagewizard", "credentials")
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	opts := logging.Options{Level: slog.LevelWarn}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		opts.Level = slog.LevelDebug
	}
	format, _ := cmd.Flags().GetString("log-format")
	opts.JSON = format == "json"
	return logging.New(opts)
}

// loadFlow reads --flow from disk, or returns the built-in flow.
func loadFlow(cmd *cobra.Command, fs afero.Fs) (*flow.Flow, error) {
	path, _ := cmd.Flags().GetString("flow")
	if path == "" {
		return flow.Default()
	}
	return flow.LoadFile(fs, path)
}

// openStore builds the credential store selected by --store, wrapped by the
// PII filter and, when a key is configured, by encryption.
func openStore(cmd *cobra.Command) (ports.CredentialStore, error) {
	kind, _ := cmd.Flags().GetString("store")

	var store ports.CredentialStore
	switch kind {
	case "memory":
		store = memory.NewStore()
	case "file":
		dir, _ := cmd.Flags().GetString("store-dir")
		store = file.New(dir)
	case "redis":
		url, _ := cmd.Flags().GetString("redis")
		opts, err := goredis.ParseURL(url)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		rs := redisstore.NewFromClient(goredis.NewClient(opts))
		if err := rs.Ping(cmd.Context()); err != nil {
			return nil, fmt.Errorf("redis unavailable: %w", err)
		}
		store = rs
	default:
		return nil, fmt.Errorf("unknown store %q (want memory, file or redis)", kind)
	}

	mws := []middleware.Middleware{middleware.NewPIIMiddleware()}
	if raw := os.Getenv(envCredentialsKey); raw != "" {
		key, err := middleware.ParseKey(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", envCredentialsKey, err)
		}
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}))
	}
	return middleware.Chain(store, mws...), nil
}

// newAccount wires the backend client to the credential store.
func newAccount(cmd *cobra.Command, logger *slog.Logger) (*api.Client, *api.Account, error) {
	url, _ := cmd.Flags().GetString("backend")
	if url == "" {
		return nil, nil, fmt.Errorf("no backend configured: use --backend or %s", envBackendURL)
	}
	store, err := openStore(cmd)
	if err != nil {
		return nil, nil, err
	}
	profile, _ := cmd.Flags().GetString("profile")

	client := api.New(url,
		api.WithTokenSource(ports.StoreTokenSource{Store: store, Profile: profile}),
		api.WithLogger(logger),
	)
	return client, api.NewAccount(client, store, profile), nil
}

// newEngine builds a wizard engine presenting to p.
func newEngine(cmd *cobra.Command, p ports.Presenter, logger *slog.Logger, opts ...pagewizard.Option) (*pagewizard.Engine, error) {
	f, err := loadFlow(cmd, afero.NewOsFs())
	if err != nil {
		return nil, err
	}
	client, account, err := newAccount(cmd, logger)
	if err != nil {
		return nil, err
	}

	opts = append([]pagewizard.Option{
		pagewizard.WithFlow(f),
		pagewizard.WithBackend(client),
		pagewizard.WithCreditCache(account),
		pagewizard.WithPresenter(p),
		pagewizard.WithLogger(logger),
	}, opts...)
	return pagewizard.New(opts...)
}
