package email

import (
	"regexp"
	"strings"
)

var pattern = regexp.MustCompile(`^[A-Z0-9a-z._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,64}$`)

// IsValid reports whether the whole of addr looks like an email address.
// The address is not trimmed first: surrounding spaces make it invalid.
func IsValid(addr string) bool {
	return pattern.MatchString(addr)
}

// Normalize lowercases and trims an address for use as a lookup key.
func Normalize(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

// LocalPart returns the part before '@', or the whole address when there is none.
func LocalPart(addr string) string {
	if at := strings.IndexByte(addr, '@'); at > 0 {
		return addr[:at]
	}
	return addr
}
