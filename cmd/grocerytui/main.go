package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dukerupert/grocerybuddy/internal/client"
	"github.com/dukerupert/grocerybuddy/internal/logging"
	"github.com/dukerupert/grocerybuddy/internal/tui"
)

func main() {
	defaultURL := os.Getenv("GROCERYBUDDY_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:5000"
	}
	serverURL := flag.String("server", defaultURL, "grocerybuddy server URL")
	logPath := flag.String("log", "grocerytui.log", "log file (the terminal belongs to the UI)")
	logLevel := flag.String("log-level", "info", "debug, info, warn or error")
	flag.Parse()

	logFile, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	logger := logging.Setup(logFile, *logLevel, false)

	api, err := client.New(*serverURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = api.Health(ctx)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "server %s is not reachable: %v\n", *serverURL, err)
		os.Exit(1)
	}

	if _, err := tea.NewProgram(tui.New(api, logger), tea.WithAltScreen()).Run(); err != nil {
		logger.Error("tui exited", "error", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
