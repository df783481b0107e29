package cmd

import (
	"github.com/spf13/cobra"
	"github.com/sultan-labs/sultan-go/transaction"
	"github.com/sultan-labs/sultan-go/wallet"
)

type balanceOutput struct {
	Address        string `json:"address"`
	Balance        string `json:"balance"`
	BalanceDisplay string `json:"balance_display"`
	Nonce          uint64 `json:"nonce"`
}

func newBalanceCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "balance <address>",
		Short:   "Show the balance and nonce of an address",
		Example: "  sultan balance sultan1y8lrrhap2j3xzcntlp2qgm7jyudhhm2tg22l6u",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := wallet.ValidateAddress(args[0]); err != nil {
				return err
			}
			c, err := opts.client()
			if err != nil {
				return err
			}
			bal, err := c.GetBalance(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, balanceOutput{
				Address:        bal.Address,
				Balance:        bal.Balance.String(),
				BalanceDisplay: transaction.FormatDisplayAmount(bal.Balance),
				Nonce:          bal.Nonce,
			})
		},
	}
}
