// Package e2e drives the use cases through godog feature files against an
// in-memory App.
package e2e

import (
	"context"
	"fmt"
	"strings"
	"time"

	"anonmsg/internal/app"
	contactmodels "anonmsg/internal/contact/models"
	messagemodels "anonmsg/internal/message/models"
	"anonmsg/internal/platform/config"
	usermodels "anonmsg/internal/user/models"
	id "anonmsg/pkg/domain"
	"anonmsg/pkg/requestcontext"
)

var startTime = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

// TestContext holds per-scenario state shared by the step packages.
type TestContext struct {
	app *app.App

	now      time.Time
	sessions map[string]*requestcontext.Session
	users    map[string]*usermodels.User
	emails   map[string]string
	contacts map[string]*contactmodels.Contact
	message  *messagemodels.Message
	lastErr  error
}

// Reset replaces the App with a fresh one whose backends are all in memory.
// Messages sent through a contact go to the user whose username matches the
// contact's name, falling back to the contact's owner.
func (tc *TestContext) Reset(ctx context.Context) error {
	tc.Close()
	*tc = TestContext{
		now:      startTime,
		sessions: make(map[string]*requestcontext.Session),
		users:    make(map[string]*usermodels.User),
		emails:   make(map[string]string),
		contacts: make(map[string]*contactmodels.Contact),
	}

	cfg := config.Config{
		Env: config.EnvLocal,
		Auth: config.AuthConfig{
			JWTSecret:        "e2e-signing-key-0123456789",
			TokenTTL:         24 * time.Hour,
			Issuer:           "anonmsg",
			BcryptCost:       4,
			LockoutThreshold: 5,
			LockoutWindow:    15 * time.Minute,
			LockoutDuration:  15 * time.Minute,
		},
		Links: config.LinksConfig{BaseURL: "https://anon.example.com"},
		Audit: config.AuditConfig{Store: "memory"},
	}
	a, err := app.New(ctx, cfg, app.WithReceiverResolver(tc))
	if err != nil {
		return err
	}
	tc.app = a
	return nil
}

func (tc *TestContext) Close() {
	if tc.app != nil {
		tc.app.Close()
	}
}

func (tc *TestContext) App() *app.App { return tc.app }

// Session returns name's request context at the scenario clock. The session
// slot persists across steps so tokens survive between them.
func (tc *TestContext) Session(name string) context.Context {
	slot, ok := tc.sessions[name]
	if !ok {
		slot = &requestcontext.Session{}
		tc.sessions[name] = slot
	}
	ctx := requestcontext.WithTime(context.Background(), tc.now)
	return requestcontext.WithSession(ctx, slot)
}

// Advance moves the scenario clock.
func (tc *TestContext) Advance(d time.Duration) { tc.now = tc.now.Add(d) }

func (tc *TestContext) RememberUser(name, email string, u *usermodels.User) {
	tc.users[name] = u
	tc.emails[name] = email
}

func (tc *TestContext) User(name string) (*usermodels.User, error) {
	u, ok := tc.users[name]
	if !ok {
		return nil, fmt.Errorf("unknown user %q", name)
	}
	return u, nil
}

func (tc *TestContext) Email(name string) string { return tc.emails[name] }

func (tc *TestContext) RememberContact(c *contactmodels.Contact) { tc.contacts[c.Name] = c }

func (tc *TestContext) Contact(name string) (*contactmodels.Contact, error) {
	c, ok := tc.contacts[name]
	if !ok {
		return nil, fmt.Errorf("unknown contact %q", name)
	}
	return c, nil
}

func (tc *TestContext) SetLastMessage(m *messagemodels.Message) { tc.message = m }

func (tc *TestContext) LastMessage() (*messagemodels.Message, error) {
	if tc.message == nil {
		return nil, fmt.Errorf("no message was sent")
	}
	return tc.message, nil
}

func (tc *TestContext) SetResult(err error) { tc.lastErr = err }

func (tc *TestContext) LastError() error { return tc.lastErr }

// ResolveReceiver implements the message service's receiver lookup.
func (tc *TestContext) ResolveReceiver(_ context.Context, contact *contactmodels.Contact) (id.UserID, error) {
	for name, u := range tc.users {
		if strings.EqualFold(name, contact.Name) {
			return u.ID, nil
		}
	}
	return contact.OwnerUserID, nil
}
