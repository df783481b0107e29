package client

import (
	"context"
	"time"

	"github.com/sultan-labs/sultan-go/transaction"
	"github.com/sultan-labs/sultan-go/types"
)

// RPC is the node API the SDK consumes. *SultanClient implements it.
type RPC interface {
	GetStatus(ctx context.Context) (types.Status, error)
	GetBalance(ctx context.Context, address string) (types.Balance, error)
	GetTransaction(ctx context.Context, hash string) (types.TxStatus, error)
	SubmitTransaction(ctx context.Context, env transaction.SignedEnvelope) (types.TxStatus, error)
}

// Sender builds, signs and submits transfers.
type Sender interface {
	SendTransfer(ctx context.Context, w Wallet, to string, displayAmount float64, opts ...TransferOption) (types.TxStatus, error)
	SendTransferAtomic(ctx context.Context, w Wallet, to string, amount types.Amount, opts ...TransferOption) (types.TxStatus, error)
	WaitForConfirmation(ctx context.Context, hash string, timeout time.Duration) (types.TxStatus, error)
}

// Wallet is the signing identity of a transfer. *wallet.Wallet implements it.
type Wallet interface {
	transaction.Signer
	Address() string
}

var (
	_ RPC    = (*SultanClient)(nil)
	_ Sender = (*SultanClient)(nil)
)
