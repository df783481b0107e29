package types

// Balance is the /balance/{address} response. Nonce is the value the next
// transfer from Address must carry.
type Balance struct {
	Address string `json:"address"`
	Balance Amount `json:"balance"`
	Nonce   uint64 `json:"nonce"`
}
