package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/roadeye/dashcam/internal/config"
	"github.com/roadeye/dashcam/internal/logging"
	"github.com/roadeye/dashcam/internal/server"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether the daemon is serving",
	Long: `Query the health endpoint of a running dashcam daemon.

The endpoint address comes from the client section of the configuration
or from DASHCAM_CLIENT_ADDRESS.

Examples:
  # Check the daemon on the configured address
  dashcam status

  # Check a daemon on another host
  DASHCAM_CLIENT_ADDRESS=10.0.0.7:50051 dashcam status`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return err
	}

	// Console only, warnings and up. The command reports through stdout.
	registry := logging.NewRegistry(".")
	if err := registry.InitializeWith(logging.LoggerConfig{
		Name:    logging.DefaultLoggerName,
		Level:   "warn",
		Console: true,
	}); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	defer func() { _ = registry.Shutdown() }()

	log, _ := registry.Default()

	cli, err := server.NewClient(cfg.Client.Address, log,
		server.WithConnectTimeout(cfg.Client.ConnectTimeout))
	if err != nil {
		return err
	}

	if err := cli.Connect(cmd.Context()); err != nil {
		return fmt.Errorf("daemon not reachable at %s: %w", cfg.Client.Address, err)
	}
	defer func() { _ = cli.Disconnect() }()

	resp, err := healthpb.NewHealthClient(cli.Conn()).Check(cmd.Context(), &healthpb.HealthCheckRequest{})
	if err != nil {
		return fmt.Errorf("health check against %s: %w", cfg.Client.Address, err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("daemon at %s reports %s", cfg.Client.Address, resp.GetStatus())
	}

	fmt.Printf("dashcam daemon at %s: serving\n", cfg.Client.Address)
	return nil
}
