package revocation

import (
	"fmt"
	"time"

	"anonmsg/pkg/platform/sentinel"
)

// revokedTokenKeyPrefix namespaces revoked JTIs in Redis.
const revokedTokenKeyPrefix = "revoked:jti:"

func revokedTokenKey(jti string) string {
	return revokedTokenKeyPrefix + jti
}

// checkRevocation rejects entries that would never be stored. An empty jti
// is reported as skip so callers can return nil without touching the store.
func checkRevocation(jti string, ttl time.Duration) (skip bool, err error) {
	if jti == "" {
		return true, nil
	}
	if ttl <= 0 {
		return false, fmt.Errorf("revoke %s: ttl %s must be positive: %w", jti, ttl, sentinel.ErrInvalidState)
	}
	return false, nil
}
