package utils

import "fmt"

// ShortenLog trims a hash or address to its head and tail for log lines.
func ShortenLog(hash string) string {
	index_cut := 8
	if len(hash) <= 8 {
		return hash
	} else if len(hash) <= 16 {
		index_cut = 4
	}
	return fmt.Sprintf("%s...%s", hash[:index_cut], hash[len(hash)-index_cut:])
}

// ShortenKey shows only the first 16 characters of a hex key, the way the
// CLI prints public keys.
func ShortenKey(hexKey string) string {
	if len(hexKey) <= 16 {
		return hexKey
	}
	return hexKey[:16] + "..."
}
