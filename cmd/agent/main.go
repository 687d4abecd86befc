package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/monbureau/coffre/internal/backup"
	"github.com/monbureau/coffre/internal/config"
	"github.com/monbureau/coffre/internal/cryptofile"
	"github.com/monbureau/coffre/internal/dbinfo"
	"github.com/monbureau/coffre/internal/keyderiv"
	"github.com/monbureau/coffre/internal/logger"
	"github.com/monbureau/coffre/internal/scheduler"
	"github.com/monbureau/coffre/internal/secretstore"
	"github.com/monbureau/coffre/internal/workers"
)

// backupPasswordEnvVar is the fallback source for the backup encryption
// password when the secret store has no entry.
const backupPasswordEnvVar = "MONBUREAU_BACKUP_PASSWORD"

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	cfg, err := config.GetStructuredConfig()
	if err != nil {
		bootLog := logger.NewLogger("monbureau-agent")
		bootLog.Fatal().Err(err).Msg("error getting configs")
	}

	log := newMainLogger(cfg)
	log.Debug().Any("config", cfg).Msg("received configs")

	keys := keyderiv.NewKeyService()
	secrets := secretstore.New(secretstore.Options{Dir: cfg.Secrets.Dir}, keys, log)

	if _, err := secretstore.EnsureDatabaseKey(secrets); err != nil {
		log.Fatal().Err(err).Msg("error provisioning database key")
	}

	backupDir := cfg.Backup.Dir
	if backupDir == "" {
		backupDir = backup.DefaultBackupDir()
	}

	var password string
	if cfg.Backup.PasswordSecret != "" {
		value, ok := secrets.GetWithFallback(cfg.Backup.PasswordSecret, backupPasswordEnvVar)
		if !ok {
			log.Fatal().Str("secret", cfg.Backup.PasswordSecret).
				Msg("backup password secret configured but not found")
		}
		password = value
	}

	version := cfg.App.Version
	if version == "" {
		version = buildVersion
	}

	codec := cryptofile.NewCodec(keys, log)
	counts := dbinfo.NewSQLiteCountProvider(cfg.App.DatabasePath, log)

	orch, err := backup.NewOrchestrator(backup.Options{
		DatabasePath: cfg.App.DatabasePath,
		BackupDir:    backupDir,
		Version:      version,
		Password:     password,
		Counts:       counts,
	}, codec, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating backup orchestrator")
	}

	args := flag.Args()
	if len(args) == 0 {
		runScheduler(cfg, backupDir, orch, log)
		return
	}

	runCommand(args, orch, log)
}

// runScheduler runs the agent as a long-lived process: the scheduled backup
// policy fires backups until the process receives SIGINT or SIGTERM.
func runScheduler(cfg *config.StructuredConfig, backupDir string, orch backup.Orchestrator, log *logger.Logger) {
	settingsPath := cfg.Backup.SettingsPath
	if settingsPath == "" {
		settingsPath = filepath.Join(backupDir, "backup_settings.json")
	}

	store := scheduler.NewFileSettingsStore(settingsPath, backupDir, log)
	policy := scheduler.NewPolicy(store, orch, log)

	workers.NewWorkers(policy).Run()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	policy.Stop()
	log.Info().Msg("agent stopped")
}

// runCommand executes a single backup operation and exits.
//
// Commands:
//
//	backup [dest]    create a backup, optionally at an explicit path
//	restore <path>   restore the database from the given archive
//	history          list known backup archives, newest first
//	info <path>      print the metadata of the given archive
func runCommand(args []string, orch backup.Orchestrator, log *logger.Logger) {
	ctx := context.Background()

	switch args[0] {
	case "backup":
		dest := ""
		if len(args) > 1 {
			dest = args[1]
		}
		exitOnResult(orch.Create(ctx, dest))

	case "restore":
		if len(args) < 2 {
			log.Fatal().Msg("restore requires an archive path")
		}
		exitOnResult(orch.Restore(ctx, args[1]))

	case "history":
		for _, path := range orch.History() {
			fmt.Println(path)
		}

	case "info":
		if len(args) < 2 {
			log.Fatal().Msg("info requires an archive path")
		}
		meta := orch.ReadMetadata(args[1])
		if meta == nil {
			fmt.Println("no readable metadata")
			os.Exit(1)
		}
		fmt.Printf("Created:  %s\n", meta.CreatedAt)
		fmt.Printf("Version:  %s\n", meta.Version)
		fmt.Printf("DB bytes: %d\n", meta.FileSizeBytes)
		if meta.ClientCount != nil {
			fmt.Printf("Clients:  %d\n", *meta.ClientCount)
		}
		if meta.CaseCount != nil {
			fmt.Printf("Cases:    %d\n", *meta.CaseCount)
		}
		if meta.ItemCount != nil {
			fmt.Printf("Items:    %d\n", *meta.ItemCount)
		}

	default:
		log.Fatal().Str("command", args[0]).Msg("unknown command")
	}
}

func exitOnResult(res backup.Result) {
	fmt.Println(res.Message)
	if res.Path != "" {
		fmt.Println(res.Path)
	}
	if !res.Success {
		os.Exit(1)
	}
}

func newMainLogger(cfg *config.StructuredConfig) *logger.Logger {
	if cfg.Log.File != "" {
		return logger.NewFileLogger("monbureau-agent", cfg.Log.File)
	}
	return logger.NewLogger("monbureau-agent")
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
