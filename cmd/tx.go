package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/sultan-labs/sultan-go/client"
	"github.com/sultan-labs/sultan-go/exception"
	"github.com/sultan-labs/sultan-go/types"
)

func newTxCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Look up transactions",
	}
	cmd.AddCommand(newTxGetCmd(opts), newTxWaitCmd(opts))
	return cmd
}

func newTxGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <hash>",
		Short: "Show a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			st, err := c.GetTransaction(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, st)
		},
	}
}

type txWaitOutput struct {
	Hash  string          `json:"hash"`
	Tx    *types.TxStatus `json:"tx,omitempty"`
	Error string          `json:"error,omitempty"`
}

type txWaitResult struct {
	idx int
	out txWaitOutput
	ok  bool
}

func newTxWaitCmd(opts *rootOptions) *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "wait <hash>...",
		Short: "Wait until transactions are confirmed",
		Long: `Polls the node until every given transaction is confirmed, fails or the
timeout passes. Transactions are waited on in parallel.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}

			done := make(chan txWaitResult, len(args))
			panics := make(chan error, len(args))
			for i, hash := range args {
				i, hash := i, hash
				exception.SafeGo("tx wait "+hash, func() {
					st, err := c.WaitForConfirmation(cmd.Context(), hash, timeout)
					r := txWaitResult{idx: i, out: txWaitOutput{Hash: hash, Tx: &st}, ok: err == nil}
					if err != nil {
						r.out.Error = err.Error()
						if st.Hash == "" {
							r.out.Tx = nil
						}
					}
					done <- r
				}, panics)
			}

			outputs := make([]txWaitOutput, len(args))
			failed := 0
			for n := 0; n < len(args); n++ {
				select {
				case r := <-done:
					outputs[r.idx] = r.out
					if !r.ok {
						failed++
					}
				case err := <-panics:
					return err
				}
			}

			if err := printJSON(cmd, outputs); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d transactions not confirmed", failed, len(args))
			}
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", client.DefaultConfirmationTimeout, "how long to wait for each transaction")
	return cmd
}
