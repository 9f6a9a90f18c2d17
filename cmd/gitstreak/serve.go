package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/riannelimje/git-streak/internal/platform/tui"
	"github.com/riannelimje/git-streak/internal/platform/web"
)

var (
	flagSSHAddr     string
	flagHTTPAddr    string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the SSH and HTTP servers",
	Long: `Start an SSH server for terminal play and an HTTP server with a JSON
API and a websocket game stream. Pass an empty address to disable either one.

Each SSH connection gets its own session with the source menu. All sessions
share one dataset database, so a GitHub year fetched once is cached for
everyone.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, uses (and creates) ~/.gitstreak/ssh_host_ed25519

HTTP endpoints:
  GET /healthz
  GET /api/sources
  GET /api/datasets
  GET /api/grid/<source>[?dataset=<name> for source "saved"]
  GET /api/play/<source>  (websocket)

Examples:
  gitstreak serve
  gitstreak serve --ssh :2222 --http ""
  gitstreak serve --host-key ./my_host_key

Users can connect with:
  ssh localhost -p 23235`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (default from config)")
	serveCmd.Flags().StringVar(&flagHTTPAddr, "http", "", "HTTP server address (default from config)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout in minutes (default from config)")
}

func runServe(cmd *cobra.Command, _ []string) {
	flags := cmd.Flags()
	if flags.Changed("ssh") {
		cfg.Server.SSHAddress = flagSSHAddr
	}
	if flags.Changed("http") {
		cfg.Server.HTTPAddress = flagHTTPAddr
	}
	if flagHostKey != "" {
		cfg.Server.HostKey = flagHostKey
	}
	if flagIdleTimeout > 0 {
		cfg.Server.IdleTimeout = minutes(flagIdleTimeout)
	}
	if cfg.Server.SSHAddress == "" && cfg.Server.HTTPAddress == "" {
		fmt.Fprintln(os.Stderr, "Error: both servers are disabled")
		os.Exit(1)
	}

	store, err := openStore(false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening dataset database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tick := cfg.Game.EffectiveTickInterval()
	errCh := make(chan error, 2)
	running := 0

	if cfg.Server.SSHAddress != "" {
		server, err := tui.NewSSHServer(cfg.Server, tick, tui.Services{
			Store:   store,
			Sources: sourceOptions(),
			Growth:  growthPolicy(),
			Logger:  logger,

			DefaultSource: cfg.Dataset.Source,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating SSH server: %v\n", err)
			os.Exit(1)
		}
		running++
		go func() { errCh <- server.ListenAndServe(ctx) }()
		fmt.Printf("SSH: ssh localhost -p %s\n", portOf(cfg.Server.SSHAddress))
	}

	if cfg.Server.HTTPAddress != "" {
		server := web.NewServer(web.Options{
			Address: cfg.Server.HTTPAddress,
			Tick:    tick,
			Growth:  growthPolicy(),
			Sources: sourceOptions(),
			Store:   store,
			Logger:  logger,
		})
		running++
		go func() { errCh <- server.ListenAndServe(ctx) }()
		fmt.Printf("HTTP: %s\n", cfg.Server.HTTPAddress)
	}
	fmt.Println("Press Ctrl+C to stop")

	var firstErr error
	for ; running > 0; running-- {
		if err := <-errCh; err != nil && firstErr == nil {
			firstErr = err
			stop()
		}
	}
	if firstErr != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", firstErr)
		store.Close()
		os.Exit(1)
	}
}
