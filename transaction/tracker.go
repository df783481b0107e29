package transaction

import (
	"context"
	"fmt"

	"github.com/sasha-s/go-deadlock"
	"github.com/sultan-labs/sultan-go/logx"
	"github.com/sultan-labs/sultan-go/utils"
)

// NonceTracker hands out transfer nonces per sender. A sender has at most
// one outstanding lease, so sends from one address inside this process are
// serialized, and the tracker remembers the last committed nonce so that a
// send issued before the node has applied the previous one does not reuse
// its nonce.
type NonceTracker struct {
	mu      deadlock.Mutex
	senders map[string]*senderNonce
}

type senderNonce struct {
	// token has capacity 1; holding its value is holding the sender.
	token chan struct{}
	// next and tracked are only touched by the token holder.
	next    uint64
	tracked bool
}

// NonceLease is the exclusive right to send the next transfer of a sender.
type NonceLease struct {
	sender string
	state  *senderNonce
	nonce  uint64
	picked bool
	done   bool
}

func NewNonceTracker() *NonceTracker {
	return &NonceTracker{senders: make(map[string]*senderNonce)}
}

func (t *NonceTracker) sender(addr string) *senderNonce {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.senders[addr]
	if !ok {
		s = &senderNonce{token: make(chan struct{}, 1)}
		t.senders[addr] = s
	}
	return s
}

// Acquire waits until no other lease for sender is outstanding. The caller
// must Commit or Release the lease.
func (t *NonceTracker) Acquire(ctx context.Context, sender string) (*NonceLease, error) {
	s := t.sender(sender)
	select {
	case s.token <- struct{}{}:
		return &NonceLease{sender: sender, state: s}, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("acquire nonce for %s: %w", utils.ShortenLog(sender), ctx.Err())
	}
}

// Forget drops what the tracker knows about sender, so the next lease uses
// the node's nonce as is. It waits for an outstanding lease.
func (t *NonceTracker) Forget(ctx context.Context, sender string) error {
	lease, err := t.Acquire(ctx, sender)
	if err != nil {
		return err
	}
	lease.state.tracked = false
	lease.state.next = 0
	lease.Release()
	return nil
}

// Next picks the nonce for this lease from the node's current nonce: the
// larger of networkNonce and one past the last committed nonce.
func (l *NonceLease) Next(networkNonce uint64) uint64 {
	n := networkNonce
	if l.state.tracked && l.state.next > n {
		logx.Debug("NONCE", fmt.Sprintf("sender %s: node nonce %d behind local %d", utils.ShortenLog(l.sender), networkNonce, l.state.next))
		n = l.state.next
	}
	l.nonce = n
	l.picked = true
	return n
}

// Commit records that the picked nonce was accepted by the node and
// releases the lease.
func (l *NonceLease) Commit() {
	if l.done {
		return
	}
	if l.picked {
		l.state.next = l.nonce + 1
		l.state.tracked = true
	}
	l.Release()
}

// Release gives the lease up without recording anything. It is safe to call
// after Commit.
func (l *NonceLease) Release() {
	if l.done {
		return
	}
	l.done = true
	<-l.state.token
}
