package models

import (
	"crypto/rand"
	"fmt"
	"io"

	id "anonmsg/pkg/domain"
)

const (
	// DefaultLinkBaseURL is the public host personal links point at.
	DefaultLinkBaseURL = "https://app.anonymous-message.com"

	TokenLength    = 32
	MinTokenLength = 8

	tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// PersonalLink is the shareable link other people use to send a user messages.
//
// Invariants:
//   - Token is non-empty and at least MinTokenLength characters for a valid link
//   - Generated tokens are exactly TokenLength characters from [a-zA-Z0-9]
type PersonalLink struct {
	UserID id.UserID `json:"user_id"`
	Token  string    `json:"token"`
}

// NewPersonalLink generates a link for userID using entropy from r.
func NewPersonalLink(userID id.UserID, r io.Reader) (PersonalLink, error) {
	token, err := GenerateToken(r)
	if err != nil {
		return PersonalLink{}, err
	}
	return PersonalLink{UserID: userID, Token: token}, nil
}

// GenerateToken draws TokenLength characters from tokenAlphabet using r.
// Bytes that would bias the distribution are rejected and redrawn, so a fixed
// reader gives a fixed token. A nil r uses crypto/rand.
func GenerateToken(r io.Reader) (string, error) {
	if r == nil {
		r = rand.Reader
	}
	// Largest multiple of the alphabet size that fits in a byte.
	const limit = 256 - 256%len(tokenAlphabet)

	out := make([]byte, 0, TokenLength)
	buf := make([]byte, TokenLength)
	for len(out) < TokenLength {
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", fmt.Errorf("read token entropy: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, tokenAlphabet[int(b)%len(tokenAlphabet)])
			if len(out) == TokenLength {
				break
			}
		}
	}
	return string(out), nil
}

// IsValid reports whether the token is long enough to be a real link.
func (l PersonalLink) IsValid() bool {
	return l.Token != "" && len(l.Token) >= MinTokenLength
}

// URL renders the link under base, e.g. https://host/receive/<token>.
func (l PersonalLink) URL(base string) string {
	return base + "/receive/" + l.Token
}

// DefaultURL renders the link under DefaultLinkBaseURL.
func (l PersonalLink) DefaultURL() string {
	return l.URL(DefaultLinkBaseURL)
}

// ShareableText is the multi-line text offered by share sheets.
func (l PersonalLink) ShareableText() string {
	return "Send me an anonymous message! 📝\n" + l.DefaultURL()
}

// ShortShareText is the one-line variant for space-limited targets.
func (l PersonalLink) ShortShareText() string {
	return "Anonymous message: " + l.DefaultURL()
}
