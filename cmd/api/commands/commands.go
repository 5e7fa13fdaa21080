package commands

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/practicas/core/internal/application/services"
	"github.com/practicas/core/internal/domain/entities"
	"github.com/practicas/core/internal/infrastructure/config"
	"github.com/practicas/core/internal/infrastructure/logger"
	"github.com/practicas/core/internal/infrastructure/server"
	"github.com/practicas/core/internal/infrastructure/storage"
)

// Build information, set with -ldflags at release time
var (
	Version   = "1.0.0"
	BuildDate = "unknown"
	GitCommit = "development"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the practicas API server",
		Long:  "Start the API server for students, movies, books and adventurers with all configured routes and middleware",
		Run: func(cmd *cobra.Command, args []string) {
			runServer()
		},
	}
}

// NewStoreCommand creates the store command with subcommands
func NewStoreCommand() *cobra.Command {
	storeCmd := &cobra.Command{
		Use:   "store",
		Short: "Collection file commands",
		Long:  "Create and inspect the JSON files that back each collection",
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write an empty file for every collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return InitStore(cmd.Context(), cfg.Storage, force, cmd.OutOrStdout())
		},
	}
	initCmd.Flags().Bool("force", false, "Overwrite collection files that already exist")

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Load every collection and report its size",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return CheckStore(cmd.Context(), cfg.Storage, cmd.OutOrStdout())
		},
	}

	storeCmd.AddCommand(initCmd, checkCmd)
	return storeCmd
}

// NewTokenCommand creates the token command with subcommands
func NewTokenCommand() *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Credential commands for the write-route token check",
	}

	issueCmd := &cobra.Command{
		Use:   "issue",
		Short: "Sign a JWT accepted by the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			subject, _ := cmd.Flags().GetString("subject")
			ttl, _ := cmd.Flags().GetDuration("ttl")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			token, err := services.NewAuthService(cfg.Auth, logger.NewNop()).IssueToken(subject, ttl)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	issueCmd.Flags().String("subject", "cli", "Subject stored in the token")
	issueCmd.Flags().Duration("ttl", 0, "Token lifetime (defaults to auth.jwt_expires_in)")

	hashCmd := &cobra.Command{
		Use:   "hash <token>",
		Short: "Print the bcrypt hash to use as AUTH_TOKEN_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hashed, err := services.HashToken(args[0])
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), hashed)
			return nil
		},
	}

	tokenCmd.AddCommand(issueCmd, hashCmd)
	return tokenCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the server version",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Practicas API v%s\n", Version)
			fmt.Fprintf(out, "Build Date: %s\n", BuildDate)
			fmt.Fprintf(out, "Git Commit: %s\n", GitCommit)
		},
	}
}

func runServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Close()

	dir, err := storage.Open(cfg.Storage)
	if err != nil {
		appLogger.Fatalw("Failed to open data directory", "error", err)
	}

	srv, err := server.New(cfg, dir, appLogger)
	if err != nil {
		appLogger.Fatalw("Failed to initialize server", "error", err)
	}

	appLogger.Infow("Starting practicas API server",
		"port", cfg.Server.Port,
		"environment", cfg.App.Environment,
		"data_dir", dir.Path(),
		"auth_enabled", cfg.Auth.Enabled,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(cfg.Server.GetAddr())
	}()

	select {
	case err := <-errCh:
		if err != nil {
			appLogger.Fatalw("Server failed to start", "error", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			appLogger.Errorw("Graceful shutdown failed", "error", err)
		}
	}
}

// checkTimeout bounds a store check run from the command line
const checkTimeout = 30 * time.Second

// InitStore writes an empty collection file for every collection that has none
func InitStore(ctx context.Context, cfg config.StorageConfig, force bool, out io.Writer) error {
	if _, err := storage.Open(cfg); err != nil {
		return err
	}

	for _, c := range collections(cfg) {
		if !force {
			if _, err := os.Stat(c.path); err == nil {
				fmt.Fprintf(out, "%-12s exists   %s\n", c.key, c.path)
				continue
			}
		}

		if err := c.reset(ctx); err != nil {
			return err
		}
		fmt.Fprintf(out, "%-12s created  %s\n", c.key, c.path)
	}

	return nil
}

// CheckStore loads every collection and reports its record count.
// It returns an error when any collection cannot be read.
func CheckStore(ctx context.Context, cfg config.StorageConfig, out io.Writer) error {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	failed := 0
	for _, c := range collections(cfg) {
		count, err := c.count(ctx)
		if err != nil {
			failed++
			fmt.Fprintf(out, "%-12s ERROR    %v\n", c.key, err)
			continue
		}
		fmt.Fprintf(out, "%-12s %6d   %s\n", c.key, count, c.path)
	}

	if failed > 0 {
		return fmt.Errorf("%d collection(s) could not be loaded", failed)
	}
	return nil
}

type collectionFile struct {
	key   string
	path  string
	count func(ctx context.Context) (int, error)
	reset func(ctx context.Context) error
}

func collections(cfg config.StorageConfig) []collectionFile {
	return []collectionFile{
		newCollectionFile[entities.Student](cfg, cfg.StudentsFile, entities.StudentsCollection),
		newCollectionFile[entities.Movie](cfg, cfg.MoviesFile, entities.MoviesCollection),
		newCollectionFile[entities.Book](cfg, cfg.BooksFile, entities.BooksCollection),
		newCollectionFile[entities.Adventurer](cfg, cfg.AdventurersFile, entities.AdventurersCollection),
	}
}

func newCollectionFile[T any](cfg config.StorageConfig, file, key string) collectionFile {
	store := storage.NewJSONFile[T](cfg.Path(file), key)

	return collectionFile{
		key:  store.Key(),
		path: store.Path(),
		count: func(ctx context.Context) (int, error) {
			records, err := store.Load(ctx)
			return len(records), err
		},
		reset: func(ctx context.Context) error {
			return store.Save(ctx, []T{})
		},
	}
}
