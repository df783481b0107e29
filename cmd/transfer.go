package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/sultan-labs/sultan-go/client"
	sdkerrors "github.com/sultan-labs/sultan-go/errors"
	"github.com/sultan-labs/sultan-go/logx"
	"github.com/sultan-labs/sultan-go/transaction"
	"github.com/sultan-labs/sultan-go/utils"
	"github.com/sultan-labs/sultan-go/wallet"
)

type transferFlags struct {
	keyFlags
	to      string
	amount  string
	memo    string
	wait    bool
	timeout time.Duration
}

func newTransferCmd(opts *rootOptions) *cobra.Command {
	var f transferFlags
	cmd := &cobra.Command{
		Use:   "transfer [flags]",
		Short: "Transfer tokens to another address",
		Long: `Sends tokens from the account of the given private key to the recipient address.
The amount is in SLTN and may have up to 9 decimal places. The private key can be
provided either directly via --private-key or via a file using --private-key-file.`,
		Example: `  # Transfer 1000 SLTN using a private key file
  sultan transfer -t sultan1y8lrrhap2j3xzcntlp2qgm7jyudhhm2tg22l6u -a 1_000 -f /path/to/key.txt

  # Transfer 0.5 SLTN with a memo and wait for the block
  sultan transfer -t sultan1y8lrrhap2j3xzcntlp2qgm7jyudhhm2tg22l6u -a 0.5 -m rent -p <hex> --wait`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTransfer(cmd, opts, f)
		},
	}

	addKeyFlags(cmd, &f.keyFlags)
	cmd.Flags().StringVarP(&f.to, "to", "t", "", "address of recipient")
	cmd.Flags().StringVarP(&f.amount, "amount", "a", "", "amount in SLTN, e.g. 1.5 or 1_000")
	cmd.Flags().StringVarP(&f.memo, "memo", "m", "", "memo attached to the transfer")
	cmd.Flags().BoolVar(&f.wait, "wait", false, "wait until the transfer is confirmed")
	cmd.Flags().DurationVar(&f.timeout, "timeout", client.DefaultConfirmationTimeout, "how long --wait waits")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func runTransfer(cmd *cobra.Command, opts *rootOptions, f transferFlags) error {
	if err := wallet.ValidateAddress(f.to); err != nil {
		return fmt.Errorf("recipient: %w", err)
	}
	amount, err := transaction.ParseDisplayAmount(f.amount)
	if err != nil {
		return err
	}
	if amount.IsZero() {
		return fmt.Errorf("%w: amount must be positive", sdkerrors.ErrInvalidAmount)
	}

	sender, err := loadWallet(f.keyFlags)
	if err != nil {
		return fmt.Errorf("failed to load sender private key: %w", err)
	}

	c, err := opts.client()
	if err != nil {
		return err
	}

	logx.Debug("TRANSFER CLI", fmt.Sprintf("sending %s SLTN from %s (key %s) to %s via %s",
		transaction.FormatDisplayAmount(amount), sender.Address(), utils.ShortenKey(sender.PublicKeyHex()), f.to, c.BaseURL()))
	res, err := c.SendTransferAtomic(cmd.Context(), sender, f.to, amount, client.WithMemo(f.memo))
	if err != nil {
		return fmt.Errorf("failed to send transaction: %w", err)
	}

	if f.wait {
		logx.Info("TRANSFER CLI", "Waiting for transaction ", res.Hash, " to be confirmed...")
		res, err = c.WaitForConfirmation(cmd.Context(), res.Hash, f.timeout)
		if err != nil {
			return err
		}
	}
	return printJSON(cmd, res)
}
