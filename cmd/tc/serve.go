package main

import (
	"github.com/amonks/timeclock/devserver"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local task service",
	Long: `Run a local task service backed by a JSON state file.

The service implements the endpoints tc talks to. It is meant for
development and demos, not production use.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	serveAddr            string
	serveStateDir        string
	serveAllowConcurrent bool
)

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")
	serveCmd.Flags().StringVar(&serveStateDir, "state-dir", "", "State directory (default from config)")
	serveCmd.Flags().BoolVar(&serveAllowConcurrent, "allow-concurrent", false, "Allow a second clock-in while an entry is open")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	addr := serveAddr
	if addr == "" {
		addr = cfg.ServerAddr()
	}
	stateDir := serveStateDir
	if stateDir == "" {
		stateDir = cfg.ServerStateDir()
	}

	server, err := devserver.NewServer(devserver.Options{
		StateDir:               stateDir,
		AllowConcurrentClockIn: serveAllowConcurrent,
	})
	if err != nil {
		return err
	}
	return server.Serve(addr)
}
