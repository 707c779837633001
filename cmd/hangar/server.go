package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hangarhq/hangar/pkg/api"
	"github.com/hangarhq/hangar/pkg/config"
	"github.com/hangarhq/hangar/pkg/health"
	"github.com/hangarhq/hangar/pkg/log"
	"github.com/hangarhq/hangar/pkg/manager"
	"github.com/hangarhq/hangar/pkg/monitor"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the hangar deployment server",
	Long: `Run the hangar server: the REST API, the deployment registry and
the background health monitor, all in a single process backed by a
local data directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		applyServerFlags(cmd, cfg)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		log.Init(log.Config{
			Level:      log.Level(cfg.LogLevel),
			JSONOutput: cfg.LogJSON,
		})

		fmt.Println("Starting hangar server...")
		fmt.Printf("  Listen Address: %s\n", cfg.ListenAddr)
		fmt.Printf("  Data Directory: %s\n", cfg.DataDir)
		fmt.Printf("  Deploy Directory: %s\n", cfg.DeployDir)
		fmt.Printf("  Python: %s\n", cfg.PythonBin)
		fmt.Println()

		mgr, err := manager.NewManager(&manager.Config{
			DataDir:      cfg.DataDir,
			DeployDir:    cfg.DeployDir,
			PythonBin:    cfg.PythonBin,
			ProbeTimeout: cfg.ProbeTimeout,
		})
		if err != nil {
			return fmt.Errorf("failed to create manager: %v", err)
		}
		fmt.Println("✓ Manager started")

		healthCfg := health.DefaultConfig()
		healthCfg.Interval = cfg.ProbeInterval
		healthCfg.Timeout = cfg.ProbeTimeout
		mon := monitor.New(mgr, healthCfg)
		mon.Start()
		fmt.Println("✓ Health monitor started")

		collector := manager.NewMetricsCollector(mgr)
		collector.Start()
		fmt.Println("✓ Metrics collector started")

		apiServer := api.NewServer(mgr)
		errCh := make(chan error, 1)
		go func() {
			if err := apiServer.Start(cfg.ListenAddr); err != nil {
				errCh <- fmt.Errorf("API server error: %v", err)
			}
		}()

		fmt.Println()
		fmt.Println("Server is running. Press Ctrl+C to stop.")

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		select {
		case <-sigCh:
			fmt.Println("\nShutting down...")
		case err := <-errCh:
			fmt.Fprintf(os.Stderr, "\nError: %v\n", err)
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			fmt.Fprintf(os.Stderr, "API shutdown error: %v\n", err)
		}
		collector.Stop()
		mon.Stop()
		if err := mgr.Shutdown(); err != nil {
			return fmt.Errorf("failed to shutdown: %v", err)
		}

		fmt.Println("✓ Shutdown complete")
		return nil
	},
}

// applyServerFlags overlays explicitly-set flags on the loaded config
func applyServerFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("listen") {
		cfg.ListenAddr, _ = cmd.Flags().GetString("listen")
	}
	if cmd.Flags().Changed("data-dir") {
		cfg.DataDir, _ = cmd.Flags().GetString("data-dir")
	}
	if cmd.Flags().Changed("deploy-dir") {
		cfg.DeployDir, _ = cmd.Flags().GetString("deploy-dir")
	}
	if cmd.Flags().Changed("python") {
		cfg.PythonBin, _ = cmd.Flags().GetString("python")
	}
	if cmd.Flags().Changed("probe-interval") {
		cfg.ProbeInterval, _ = cmd.Flags().GetDuration("probe-interval")
	}
	if cmd.Flags().Changed("probe-timeout") {
		cfg.ProbeTimeout, _ = cmd.Flags().GetDuration("probe-timeout")
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
	}
	if cmd.Flags().Changed("log-json") {
		cfg.LogJSON, _ = cmd.Flags().GetBool("log-json")
	}
}

func init() {
	serverCmd.Flags().String("config", "", "Path to a YAML config file")
	serverCmd.Flags().String("listen", "127.0.0.1:8420", "Address for the REST API")
	serverCmd.Flags().String("data-dir", "./hangar-data", "Data directory for the registry database")
	serverCmd.Flags().String("deploy-dir", "", "Directory for published deployments (defaults to <data-dir>/deployed_models)")
	serverCmd.Flags().String("python", "python3", "Python interpreter for health-check scripts")
	serverCmd.Flags().Duration("probe-interval", 30*time.Second, "Background health probe interval")
	serverCmd.Flags().Duration("probe-timeout", 10*time.Second, "Timeout for a single health probe")
	serverCmd.Flags().String("log-level", "info", "Log level (debug, info, warn, error)")
	serverCmd.Flags().Bool("log-json", false, "Emit JSON logs instead of console output")
}
