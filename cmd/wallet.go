package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/sultan-labs/sultan-go/wallet"
)

type keyFlags struct {
	privateKey     string
	privateKeyFile string
}

func addKeyFlags(cmd *cobra.Command, kf *keyFlags) {
	cmd.Flags().StringVarP(&kf.privateKey, "private-key", "p", "", "private key in hex")
	cmd.Flags().StringVarP(&kf.privateKeyFile, "private-key-file", "f", "", "file holding the private key in hex")
	cmd.MarkFlagsMutuallyExclusive("private-key", "private-key-file")
	cmd.MarkFlagsOneRequired("private-key", "private-key-file")
}

// loadWallet reads the key from the flag or from the key file. Key files
// end in a newline and keys are often pasted with 0x, so both are stripped
// here rather than in the wallet package.
func loadWallet(kf keyFlags) (*wallet.Wallet, error) {
	key := kf.privateKey
	if key == "" {
		b, err := os.ReadFile(kf.privateKeyFile)
		if err != nil {
			return nil, fmt.Errorf("read private key file: %w", err)
		}
		key = string(b)
	}
	key = strings.TrimSpace(key)
	key = strings.TrimPrefix(strings.TrimPrefix(key, "0x"), "0X")
	return wallet.FromPrivateKeyHex(key)
}

type walletOutput struct {
	Address    string `json:"address"`
	PublicKey  string `json:"public_key"`
	PrivateKey string `json:"private_key,omitempty"`
	KeyFile    string `json:"key_file,omitempty"`
}

func newWalletCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Create and inspect wallets",
	}
	cmd.AddCommand(newWalletNewCmd(), newWalletShowCmd())
	return cmd
}

func newWalletNewCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Generate a new wallet",
		Long: `Generates a new Ed25519 keypair and prints its address.
Without --out the private key is printed; keep it secret.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := wallet.New()
			if err != nil {
				return err
			}
			res := walletOutput{Address: w.Address(), PublicKey: w.PublicKeyHex()}
			if out == "" {
				res.PrivateKey = w.PrivateKeyHex()
				return printJSON(cmd, res)
			}
			// O_EXCL: never overwrite an existing key
			f, err := os.OpenFile(out, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
			if err != nil {
				return fmt.Errorf("create key file: %w", err)
			}
			if _, err := f.WriteString(w.PrivateKeyHex() + "\n"); err != nil {
				_ = f.Close()
				return fmt.Errorf("write key file: %w", err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("write key file: %w", err)
			}
			res.KeyFile = out
			return printJSON(cmd, res)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write the private key to this file instead of printing it")
	return cmd
}

func newWalletShowCmd() *cobra.Command {
	var kf keyFlags
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the address and public key of a private key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := loadWallet(kf)
			if err != nil {
				return err
			}
			return printJSON(cmd, walletOutput{Address: w.Address(), PublicKey: w.PublicKeyHex()})
		},
	}
	addKeyFlags(cmd, &kf)
	return cmd
}
