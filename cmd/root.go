package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/AzielCF/wap-gatekeeper/config"
	coreconfig "github.com/AzielCF/wap-gatekeeper/core/config"
	domainAccess "github.com/AzielCF/wap-gatekeeper/domains/access"
	domainHealth "github.com/AzielCF/wap-gatekeeper/domains/health"
	"github.com/AzielCF/wap-gatekeeper/infrastructure/pendingstore"
	"github.com/AzielCF/wap-gatekeeper/infrastructure/storage"
	"github.com/AzielCF/wap-gatekeeper/infrastructure/valkey"
	"github.com/AzielCF/wap-gatekeeper/pkg/utils"
	"github.com/AzielCF/wap-gatekeeper/usecase"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Usecase
	accessUsecase domainAccess.IAccessUsecase
	documentStore domainAccess.IDocumentStore
	healthUsecase domainHealth.IHealthUsecase

	vkClient *valkey.Client
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gatekeeper",
	Short: "Approve and revoke who may talk to the bot",
	Long: `gatekeeper manages the bot's allow-lists: unknown senders and groups wait in a
pending queue until an operator approves them into the configuration file.`,
	SilenceUsage: true,
}

func init() {
	// Load environment variables first
	utils.LoadConfig(".")

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	initFlags()

	cobra.OnInitialize(initEnvConfig, initApp)
}

func initFlags() {
	rootCmd.PersistentFlags().StringP("config", "c", "",
		`main configuration document --config <path> | example: --config=/etc/bot/config.yaml (default: config.yaml)`)
	rootCmd.PersistentFlags().BoolP("debug", "d", false,
		"hide or displaying log with --debug <true/false> | example: --debug=true")
	rootCmd.PersistentFlags().String("log-level", "",
		"log level --log-level <level> | example: --log-level=warn")
	rootCmd.PersistentFlags().String("pending-backend", "",
		`where pending queues live --pending-backend <file|valkey> | example: --pending-backend=valkey`)

	_ = viper.BindPFlag("app_config_file", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("app_debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("app_log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("pending_backend", rootCmd.PersistentFlags().Lookup("pending-backend"))
}

// initEnvConfig builds the process configuration from the environment, then
// lets flags and .env values bound through viper override it.
func initEnvConfig() {
	cfg, err := coreconfig.LoadConfig()
	if err != nil {
		logrus.Fatalf("[CONFIG] %v", err)
	}

	if v := viper.GetString("app_config_file"); v != "" {
		cfg.Paths.ConfigFile = v
		if os.Getenv("APP_LOCK_FILE") == "" {
			cfg.Paths.LockFile = v + ".lock"
		}
	}
	if viper.GetBool("app_debug") {
		cfg.App.Debug = true
	}
	if v := viper.GetString("app_log_level"); v != "" {
		cfg.App.LogLevel = strings.ToLower(v)
	}
	if v := viper.GetString("pending_backend"); v != "" {
		cfg.Pending.Backend = strings.ToLower(v)
	}
	if v := viper.GetString("app_port"); v != "" {
		cfg.App.Port = v
	}
	if v := viper.GetString("command_prefix"); v != "" {
		cfg.Chat.CommandPrefix = v
	}

	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("[CONFIG] %v", err)
	}
}

func initApp() {
	cfg := coreconfig.Global

	if level, err := logrus.ParseLevel(cfg.App.LogLevel); err == nil {
		logrus.SetLevel(level)
	}
	if cfg.App.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.WithFields(coreconfig.Settings()).Debug("[CONFIG] Settings loaded")

	service, documents, client, err := buildAccess(cfg)
	if err != nil {
		logrus.Fatalf("[APP] %v", err)
	}
	accessUsecase = service
	documentStore = documents
	vkClient = client

	var pinger domainHealth.Pinger
	if client != nil {
		pinger = client
	}
	healthUsecase = usecase.NewHealthService(documents, service, cfg.Paths.ConfigFile, pinger)
}

// buildAccess wires the approval engine for the configured pending backend.
func buildAccess(cfg *coreconfig.Config) (domainAccess.IAccessUsecase, domainAccess.IDocumentStore, *valkey.Client, error) {
	files := storage.NewFiles(nil)
	documents := config.NewStore(files)

	opts := usecase.AccessOptions{
		ConfigPath: cfg.Paths.ConfigFile,
		LockPath:   cfg.Paths.LockFile,
		Documents:  documents,
	}

	var client *valkey.Client
	switch cfg.Pending.Backend {
	case coreconfig.PendingBackendValkey:
		var err error
		client, err = valkey.NewClient(valkey.Config{
			Address:   cfg.Valkey.Address,
			Password:  cfg.Valkey.Password,
			DB:        cfg.Valkey.DB,
			KeyPrefix: cfg.Valkey.KeyPrefix,
		})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to connect to valkey: %w", err)
		}
		opts.UserStores = pendingstore.ValkeyFactory[domainAccess.UserEntry](client)
		opts.GroupStores = pendingstore.ValkeyFactory[domainAccess.GroupEntry](client)
		logrus.Infof("[APP] Pending queues stored in valkey at %s", cfg.Valkey.Address)
	default:
		opts.UserStores = pendingstore.FileFactory[domainAccess.UserEntry](files)
		opts.GroupStores = pendingstore.FileFactory[domainAccess.GroupEntry](files)
	}

	return usecase.NewAccessService(opts), documents, client, nil
}

// loadDocument reads the configuration document named by the process config.
func loadDocument(ctx context.Context) (*config.Document, error) {
	return documentStore.Load(ctx, coreconfig.Global.Paths.ConfigFile)
}

func Execute() {
	defer StopApp()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		StopApp()
		os.Exit(1)
	}
}

// StopApp releases the connections opened by initApp.
func StopApp() {
	if vkClient != nil {
		logrus.Debug("[APP] Closing valkey client")
		vkClient.Close()
		vkClient = nil
	}
}
