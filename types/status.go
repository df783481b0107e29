package types

// Status is the node's /status response.
type Status struct {
	NodeID        string `json:"node_id"`
	BlockHeight   uint64 `json:"block_height"`
	Validators    uint32 `json:"validators"`
	UptimeSeconds uint64 `json:"uptime_seconds"`
	Version       string `json:"version"`
	ShardCount    uint32 `json:"shard_count"`
	TPSCapacity   uint32 `json:"tps_capacity"`
}
