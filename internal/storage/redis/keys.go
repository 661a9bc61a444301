package redis

import "fmt"

// Key prefix for all pod tracker data
const keyPrefix = "pods"

// revokedTokenKey returns the Redis key marking a token id as revoked
func revokedTokenKey(tokenID string) string {
	return fmt.Sprintf("%s:revoked_token:%s", keyPrefix, tokenID)
}
