// Package cmd implements the meshctl CLI commands.
//
// meshctl runs the full meshkit permission stack (bridge, per-family
// adapter, orchestrator) against an in-process host simulation, so request
// flows, policies, and change streams can be exercised without a device.
package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-mesh/meshkit/cmd/meshctl/internal/config"
	"github.com/go-mesh/meshkit/cmd/meshctl/internal/host"
	"github.com/go-mesh/meshkit/cmd/meshctl/internal/logging"
	"github.com/go-mesh/meshkit/pkg/adapter"
	"github.com/go-mesh/meshkit/pkg/bridge"
	"github.com/go-mesh/meshkit/pkg/orchestrator"
	"github.com/go-mesh/meshkit/pkg/permission"
)

var (
	flagConfig string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "meshctl",
	Short: "meshctl - exercise the meshkit permission stack",
	Long: `meshctl drives meshkit's permission and capability negotiation
subsystem against a simulated native host. Use it to inspect platform
info, query permission statuses, run request flows under a policy, and
watch the change-event stream.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadOptional(flagConfig)
		if err != nil {
			return err
		}
		_, err = logging.Init(cfg.Logging)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", config.DefaultPath, "path to meshctl.yaml")
}

// Execute runs the CLI.
func Execute() error {
	defer logging.Sync()
	return rootCmd.Execute()
}

// stack bundles one simulated host with the adapter and orchestrator built
// over it.
type stack struct {
	host         *host.Host
	adapter      adapter.Adapter
	orchestrator *orchestrator.Orchestrator
}

func newStack() (*stack, error) {
	family, err := cfg.PlatformFamily()
	if err != nil {
		return nil, err
	}

	var codec bridge.MessageCodec
	switch cfg.Codec {
	case "", "json":
		codec = bridge.JSONCodec{}
	case "cbor":
		codec = bridge.CBORCodec{}
	default:
		return nil, fmt.Errorf("unknown codec %q", cfg.Codec)
	}

	h := host.New()
	b := bridge.NewWithCodec(h.Transport(), codec)
	h.Transport().Bind(b)

	ad, err := adapter.New(family, b)
	if err != nil {
		return nil, err
	}

	orc := orchestrator.New(ad, orchestrator.WithRationalePresenter(printRationale))
	return &stack{host: h, adapter: ad, orchestrator: orc}, nil
}

func (s *stack) close() {
	s.orchestrator.Dispose()
	s.adapter.Dispose()
}

func printRationale(_ context.Context, perm permission.Permission, text string) {
	fmt.Printf("rationale: %s - %s\n", perm.DisplayName(), text)
}

// parsePermissions maps argument names to permissions, defaulting to the
// platform's required set when no names are given.
func parsePermissions(s *stack, args []string) ([]permission.Permission, error) {
	if len(args) == 0 {
		return s.orchestrator.RequiredPermissions(), nil
	}
	var perms []permission.Permission
	for _, arg := range args {
		p := permission.Permission(strings.ToLower(arg))
		if !p.Valid() {
			return nil, fmt.Errorf("unknown permission %q", arg)
		}
		perms = append(perms, p)
	}
	return perms, nil
}
