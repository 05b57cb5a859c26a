package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and adapters return these
// (wrapped with fmt.Errorf %w) when the fact is about storage, not about the
// domain rule the caller was checking:
//   - ErrNotFound: row/key does not exist
//   - ErrConflict: a uniqueness constraint rejected the write
//   - ErrExpired: session token has expired
//   - ErrInvalidState: the adapter was asked to do something it cannot (zero TTL)
//   - ErrUnavailable: backing service is unreachable
//
// Domain failure kinds (EmptyName, AlreadyAnswered...) live in each module's
// models package.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrExpired      = errors.New("expired")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
