package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"fotohogar/internal/app"
	"fotohogar/internal/config"
	"fotohogar/internal/encryption"
)

var (
	jsonOutput bool
	verbose    bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "Login", "ShowAlbum").
func newApp(cmd *cobra.Command, operation string) (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewApp(cmd.Context(), cfg, operation, verbose)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

var rootCmd = &cobra.Command{
	Use:          "fotohogar",
	Short:        "Family photo albums",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return app.LoadEnv()
	},
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration and encryption key",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"], rand.Text())

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
		if err != nil {
			return err
		}
		if !enc.IsConfigured() {
			if err := enc.Setup(); err != nil {
				return fmt.Errorf("generating encryption key: %w", err)
			}
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		fmt.Printf("Key:      %s\n", cfg.Encryption.IdentityPath)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Base Dir:   %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:    %s\n", cfg.LogDir)
		fmt.Printf("Latency:    %s (uploads %s)\n", cfg.Latency.Default(), cfg.Latency.Upload())
		fmt.Printf("Database:   %s %s\n", cfg.Database.Type, cfg.Database.DataDir)
		if cfg.Database.DatasetPath != "" {
			fmt.Printf("Dataset:    %s\n", cfg.Database.DatasetPath)
		}
		fmt.Printf("Storage:    %s\n", describeStorage(cfg.Storage))
		fmt.Printf("Encryption: %s %s\n", cfg.Encryption.Type, cfg.Encryption.IdentityPath)
		fmt.Printf("Session:    ttl %s\n", cfg.Session.TTL())
		fmt.Printf("Hasher:     %s\n", cfg.Auth.Hasher)
		return nil
	},
}

func describeStorage(cfg config.StorageConfig) string {
	switch cfg.Type {
	case "filesystem":
		return "filesystem " + cfg.FSRoot
	case "s3":
		return fmt.Sprintf("s3 bucket=%s prefix=%s endpoint=%s", cfg.S3Bucket, cfg.S3Prefix, cfg.S3Endpoint)
	case "valkey":
		return "valkey " + cfg.ValkeyAddress
	default:
		return cfg.Type
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print results as JSON envelopes")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log everything to stderr")

	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	rootCmd.AddCommand(configCmd)

	// session
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringP("password", "p", "", "Password (prompted when omitted)")
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)

	// user subcommands
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userHashPasswordCmd)
	rootCmd.AddCommand(userCmd)

	// album subcommands
	albumCmd.AddCommand(albumListCmd)
	albumCmd.AddCommand(albumShowCmd)
	albumCmd.AddCommand(albumCreateCmd)
	albumCmd.AddCommand(albumEditCmd)
	addAlbumFieldFlags(albumCreateCmd)
	albumCreateCmd.Flags().StringSlice("member", nil, "Additional member user IDs")
	addAlbumFieldFlags(albumEditCmd)
	rootCmd.AddCommand(albumCmd)

	// member subcommands
	memberCmd.AddCommand(memberAddCmd)
	memberCmd.AddCommand(memberRemoveCmd)
	rootCmd.AddCommand(memberCmd)

	// photo subcommands
	photoCmd.AddCommand(photoUploadCmd)
	photoUploadCmd.Flags().StringP("caption", "c", "", "Photo caption")
	photoCmd.AddCommand(photoDeleteCmd)
	rootCmd.AddCommand(photoCmd)
}

func addAlbumFieldFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("title", "t", "", "Album title")
	cmd.Flags().StringP("description", "d", "", "Album description")
	cmd.Flags().String("cover", "", "Cover image URL")
	cmd.Flags().String("start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().String("end", "", "End date (YYYY-MM-DD)")
}
