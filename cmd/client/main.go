package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/iudanet/shopclient/internal/client/api"
	"github.com/iudanet/shopclient/internal/client/cli"
	"github.com/iudanet/shopclient/internal/client/events"
	"github.com/iudanet/shopclient/internal/client/iocli"
	"github.com/iudanet/shopclient/internal/client/session"
	"github.com/iudanet/shopclient/internal/client/storage/boltdb"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Глобальные флаги
	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", "http://localhost:8000", "API server URL")
	dbPath := flag.String("db", "shopclient.db", "Path to local database")

	flag.Parse()

	// Show version and exit if requested
	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	// Получаем команду
	args := flag.Args()
	if len(args) == 0 {
		cli.PrintUsage()
		os.Exit(1)
	}

	command := args[0]

	// Создаем контекст
	ctx := context.Background()
	logger := slog.Default()

	// Открываем BoltDB storage
	boltStorage, err := boltdb.New(ctx, *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := boltStorage.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	// Hub принудительного logout: HTTP клиент публикует,
	// session store подписывается
	logoutHub := events.NewHub()

	// Создаем API клиент
	apiClient := api.NewClient(*serverURL, boltStorage, logoutHub, logger)
	if clientID, err := boltStorage.GetClientID(ctx); err != nil {
		slog.Warn("failed to get client id", "error", err)
	} else {
		apiClient.SetClientID(clientID)
	}

	// Создаем session store и подписываем его на принудительный logout
	sessionStore := session.NewService(apiClient, boltStorage, boltStorage, logger)
	unsubscribe := logoutHub.Subscribe(sessionStore.HandleForcedLogout)
	defer unsubscribe()

	// Выполняем команду
	c := cli.New(iocli.NewStdio(), sessionStore)
	if err := c.Run(ctx, command, args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("Storefront Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
