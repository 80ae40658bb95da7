package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hikmetbozkurt/LearnLink-sub000/internal/api"
	"github.com/hikmetbozkurt/LearnLink-sub000/internal/config"
	"github.com/hikmetbozkurt/LearnLink-sub000/internal/database"
	"github.com/hikmetbozkurt/LearnLink-sub000/internal/msgcrypt"
	"github.com/hikmetbozkurt/LearnLink-sub000/internal/notify"
	"github.com/hikmetbozkurt/LearnLink-sub000/internal/server"
	"github.com/hikmetbozkurt/LearnLink-sub000/internal/stats"
)

const (
	defaultSigningKey = "wT0phFUusHZIrDhL9bUKPUhwaxKhpi/SaI6PtgB+MgU="
	defaultMessageKey = "EXtlM3aib8NNjh/VMSZVUUTLt3Q6q5CR21RJzzuxpno="
)

type stringSliceFlag []string

func (s *stringSliceFlag) String() string {
	return strings.Join(*s, ",")
}

func (s *stringSliceFlag) Set(value string) error {
	*s = append(*s, strings.Split(value, ",")...)
	return nil
}

var (
	addr           string
	dsn            string
	signingKey     string
	messageKey     string
	configPath     string
	allowedOrigins stringSliceFlag
)

// mergeFile fills in values from the config file for every flag that was not
// set explicitly on the command line.
func mergeFile(fc *config.FileConfig) {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if !set["addr"] && fc.Addr != "" {
		addr = fc.Addr
	}
	if !set["dsn"] && fc.DSN != "" {
		dsn = fc.DSN
	}
	if !set["signing-key"] && fc.SigningKey != "" {
		signingKey = fc.SigningKey
	}
	if !set["message-key"] && fc.MessageKey != "" {
		messageKey = fc.MessageKey
	}
	if !set["allowed-origins"] && len(fc.AllowedOrigins) > 0 {
		allowedOrigins = fc.AllowedOrigins
	}
}

func main() {
	flag.StringVar(&addr, "addr", "localhost:8000", "server address")
	flag.StringVar(&dsn, "dsn", "host=localhost user=postgres password=postgres dbname=postgres sslmode=disable", "database connection string")
	flag.StringVar(&signingKey, "signing-key", defaultSigningKey, "base64 encoded signing key")
	flag.StringVar(&messageKey, "message-key", defaultMessageKey, "base64 encoded 32 byte key for direct message encryption")
	flag.StringVar(&configPath, "config", "", "path to a YAML config file")
	flag.Var(&allowedOrigins, "allowed-origins", "comma-separated list of allowed origins for CORS")
	flag.Parse()

	logger := log.New(os.Stderr, "[learnlink] ", log.LstdFlags)

	fc, err := config.LoadFile(configPath)
	if err != nil {
		logger.Fatal("config file:", err)
	}
	mergeFile(fc)

	cfg, err := config.NewConfig(addr, dsn, signingKey, messageKey, allowedOrigins)
	if err != nil {
		logger.Fatal("config:", err)
	}
	if fc.MigrateOnStart != nil {
		cfg.MigrateOnStart = *fc.MigrateOnStart
	}

	if cfg.MigrateOnStart {
		logger.Println("applying migrations...")
		if err := database.Migrate(cfg.DatabaseDSN); err != nil {
			logger.Fatal("migrate:", err)
		}
	}

	dbConn, err := database.NewPgLearnLinkRepository(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("db open:", err)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Println("db close:", err)
		}
	}()

	cipher, err := msgcrypt.New(cfg.MessageKey)
	if err != nil {
		logger.Fatal("message cipher:", err)
	}

	mux := http.NewServeMux()

	statsUpdater := stats.NewStatsUpdater(mux)

	chatServer := server.NewChatServer(logger, dbConn, statsUpdater)
	dispatcher := notify.NewDispatcher(logger, dbConn, chatServer, statsUpdater)

	srv := api.NewLearnLinkApp(mux, logger, chatServer, dbConn, dispatcher, cipher, cfg)

	statsUpdater.Run()
	defer statsUpdater.Stop()

	go chatServer.Run()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigs:
		logger.Printf("received signal: %s\n", sig)
	case err := <-errCh:
		logger.Println("server:", err)
	}

	shutDownCtx, cancel := context.WithTimeout(
		context.Background(),
		10*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutDownCtx); err != nil {
		logger.Println("HTTP server shutdown:", err)
	}

	logger.Println("shutting down chat server...")
	if err := chatServer.Shutdown(shutDownCtx); err != nil {
		logger.Println("chat server shutdown:", err)
	}

	logger.Println("shutdown complete")
}
