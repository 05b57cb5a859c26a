package testutil

import (
	"context"
	"time"

	id "anonmsg/pkg/domain"
	"anonmsg/pkg/requestcontext"
)

// Context returns a background context pinned to now. A non-nil userID is
// attached as the caller, as the auth adapter would after verifying a token.
func Context(now time.Time, userID id.UserID) context.Context {
	ctx := requestcontext.WithTime(context.Background(), now)
	if !userID.IsNil() {
		ctx = requestcontext.WithUserID(ctx, userID)
	}
	return ctx
}

// WithSession attaches an empty session slot and returns it for inspection.
func WithSession(ctx context.Context) (context.Context, *requestcontext.Session) {
	slot := &requestcontext.Session{}
	return requestcontext.WithSession(ctx, slot), slot
}
