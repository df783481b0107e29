package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"github.com/sultan-labs/sultan-go/client"
	"github.com/sultan-labs/sultan-go/config"
	"github.com/sultan-labs/sultan-go/jsonx"
	"github.com/sultan-labs/sultan-go/logx"
	"github.com/sultan-labs/sultan-go/monitoring"
)

// rootOptions holds the global flags and what PersistentPreRunE builds
// from them.
type rootOptions struct {
	configPath string
	network    string
	rpcURL     string
	verbose    bool
	metrics    bool

	cfg *config.Config

	// set on the first client() call when metrics are enabled
	registry      *prometheus.Registry
	clientMetrics *monitoring.ClientMetrics
}

// NewRootCmd builds the sultan command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "sultan",
		Short: "Sultan L1 wallet and RPC client",
		Long: `Command line client for the Sultan L1 blockchain: create and inspect wallets,
query balances and node status, and send signed transfers.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.load(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.writeMetrics(cmd.ErrOrStderr())
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (.yml, .yaml or .ini; default ~/"+config.DefaultConfigPath+")")
	cmd.PersistentFlags().StringVarP(&opts.network, "network", "n", "", "network to use: mainnet or testnet")
	cmd.PersistentFlags().StringVarP(&opts.rpcURL, "rpc-url", "u", "", "node RPC base URL, overrides --network")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log RPC requests")
	cmd.PersistentFlags().BoolVar(&opts.metrics, "metrics", false, "print client metrics to stderr when the command finishes")

	cmd.AddCommand(
		newStatusCmd(opts),
		newBalanceCmd(opts),
		newWalletCmd(),
		newTransferCmd(opts),
		newTxCmd(opts),
	)
	return cmd
}

// Execute runs the CLI and exits with status 1 on error.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		logx.Error("CMD", "Command execution failed: ", err)
		stop()
		os.Exit(1)
	}
}

// load applies file, environment and flags, in that order.
func (o *rootOptions) load(cmd *cobra.Command) error {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.Load(o.configPath)
	} else {
		cfg, err = config.LoadOrDefault(config.DefaultPath())
	}
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("network") {
		cfg.Network.Name = o.network
		cfg.Network.RPCURL = ""
	}
	if cmd.Flags().Changed("rpc-url") {
		cfg.Network.RPCURL = o.rpcURL
	}
	if o.verbose {
		cfg.Log.Level = "debug"
	}
	if o.metrics {
		cfg.Metrics.Enabled = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logx.Init(cfg.LogOptions())
	o.cfg = cfg
	return nil
}

func (o *rootOptions) client() (*client.SultanClient, error) {
	cc, err := o.cfg.ClientConfig()
	if err != nil {
		return nil, err
	}
	if o.cfg.Metrics.Enabled {
		if o.registry == nil {
			o.registry = prometheus.NewRegistry()
			o.clientMetrics = monitoring.NewClientMetrics(o.registry)
		}
		cc.Metrics = o.clientMetrics
	}
	return client.NewClient(cc)
}

// writeMetrics dumps the client metrics in the Prometheus text format.
// Commands that never built a client write nothing.
func (o *rootOptions) writeMetrics(w io.Writer) error {
	if o.registry == nil {
		return nil
	}
	families, err := o.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	b, err := jsonx.MarshalIndent(v)
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = cmd.OutOrStdout().Write(b)
	return err
}
