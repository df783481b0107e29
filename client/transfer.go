package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	sdkerrors "github.com/sultan-labs/sultan-go/errors"
	"github.com/sultan-labs/sultan-go/logx"
	"github.com/sultan-labs/sultan-go/transaction"
	"github.com/sultan-labs/sultan-go/types"
	"github.com/sultan-labs/sultan-go/utils"
)

// DefaultConfirmationTimeout covers about 15 blocks.
const DefaultConfirmationTimeout = 30 * time.Second

var (
	ErrConfirmationTimeout = errors.New("transaction not confirmed before timeout")
	ErrTransactionFailed   = errors.New("transaction failed")

	errNotConfirmed = errors.New("transaction not confirmed yet")
)

type transferOptions struct {
	memo string
}

type TransferOption func(*transferOptions)

// WithMemo attaches a memo to the transfer. The memo is signed.
func WithMemo(memo string) TransferOption {
	return func(o *transferOptions) {
		o.memo = memo
	}
}

// SendTransfer sends displayAmount tokens from w to the address to.
func (c *SultanClient) SendTransfer(ctx context.Context, w Wallet, to string, displayAmount float64, opts ...TransferOption) (types.TxStatus, error) {
	amount, err := transaction.ToAtomic(displayAmount)
	if err != nil {
		return types.TxStatus{}, err
	}
	return c.SendTransferAtomic(ctx, w, to, amount, opts...)
}

// SendTransferAtomic sends amount atomic units from w to the address to.
// Sends from the same wallet through one client are serialized so each
// gets its own nonce.
func (c *SultanClient) SendTransferAtomic(ctx context.Context, w Wallet, to string, amount types.Amount, opts ...TransferOption) (types.TxStatus, error) {
	var o transferOptions
	for _, opt := range opts {
		opt(&o)
	}

	from := w.Address()
	lease, err := c.nonces.Acquire(ctx, from)
	if err != nil {
		return types.TxStatus{}, err
	}
	defer lease.Release()

	bal, err := c.GetBalance(ctx, from)
	if err != nil {
		return types.TxStatus{}, err
	}

	intent := transaction.TransferIntent{
		From:      from,
		To:        to,
		Amount:    amount,
		Nonce:     lease.Next(bal.Nonce),
		Timestamp: uint64(c.now().Unix()),
		Memo:      o.memo,
	}
	env, err := transaction.Sign(intent, w)
	if err != nil {
		return types.TxStatus{}, err
	}

	res, err := c.SubmitTransaction(ctx, env)
	if err != nil {
		if isNonceRejection(err) {
			// local state is ahead of a node that dropped earlier transfers
			lease.Release()
			if ferr := c.nonces.Forget(ctx, from); ferr != nil {
				logx.Warn("TRANSFER", "reset nonce state: ", ferr)
			}
		}
		return types.TxStatus{}, err
	}
	lease.Commit()

	logx.Info("TRANSFER", fmt.Sprintf("sent %s from %s to %s nonce=%d hash=%s status=%s",
		amount, utils.ShortenLog(from), utils.ShortenLog(to), intent.Nonce, res.Hash, res.Status))
	return res, nil
}

// WaitForConfirmation polls /tx/{hash} until the node reports the
// transaction confirmed. A zero timeout means DefaultConfirmationTimeout.
// A transaction the node does not know yet counts as pending.
func (c *SultanClient) WaitForConfirmation(ctx context.Context, hash string, timeout time.Duration) (types.TxStatus, error) {
	if timeout <= 0 {
		timeout = DefaultConfirmationTimeout
	}
	pollCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	var last types.TxStatus
	err := retry.Do(func() error {
		st, err := c.GetTransaction(pollCtx, hash)
		if err != nil {
			return err
		}
		last = st
		switch st.Status {
		case types.TxStatusConfirmed:
			return nil
		case types.TxStatusFailed:
			return retry.Unrecoverable(fmt.Errorf("%w: %s", ErrTransactionFailed, hash))
		default:
			return errNotConfirmed
		}
	},
		retry.Context(pollCtx),
		retry.Attempts(0),
		retry.Delay(c.pollInterval),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isPending),
	)
	if err == nil {
		c.metrics.RecordTimeToConfirm(time.Since(start))
		return last, nil
	}

	if errors.Is(err, ErrTransactionFailed) {
		return last, fmt.Errorf("%w: %s", ErrTransactionFailed, hash)
	}
	if ctx.Err() == nil && pollCtx.Err() != nil {
		return last, fmt.Errorf("%w: %s after %s", ErrConfirmationTimeout, hash, timeout)
	}
	return last, err
}

func isNonceRejection(err error) bool {
	var ne *sdkerrors.NetworkError
	if !errors.As(err, &ne) {
		return false
	}
	return ne.Code == sdkerrors.ErrCodeInvalidNonce || ne.Code == sdkerrors.ErrCodeNonceTooLow
}

func isPending(err error) bool {
	if errors.Is(err, errNotConfirmed) {
		return true
	}
	var ne *sdkerrors.NetworkError
	return errors.As(err, &ne) && ne.StatusCode == http.StatusNotFound
}
