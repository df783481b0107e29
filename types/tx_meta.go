package types

const (
	TxStatusPending   = "pending"
	TxStatusConfirmed = "confirmed"
	TxStatusFailed    = "failed"
)

// TxStatus is returned by POST /tx and GET /tx/{hash}. BlockHeight is nil
// until the transaction is included in a block.
type TxStatus struct {
	Hash        string  `json:"hash"`
	From        string  `json:"from"`
	To          string  `json:"to"`
	Amount      Amount  `json:"amount"`
	BlockHeight *uint64 `json:"block_height,omitempty"`
	Status      string  `json:"status"`
}

func (s TxStatus) IsConfirmed() bool {
	return s.Status == TxStatusConfirmed
}
