// Package local is the self-hosted authentication backend: bcrypt
// credentials, HS256 session tokens, a revocation list and a login lockout.
//
// The session token travels through the requestcontext.Session slot the
// caller places in the context. Login and Signup write a fresh token into
// it; every other call reads the token from it.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"anonmsg/internal/auth/models"
	"anonmsg/internal/platform/config"
	"anonmsg/internal/platform/metrics"
	usermodels "anonmsg/internal/user/models"
	id "anonmsg/pkg/domain"
	"anonmsg/pkg/email"
	"anonmsg/pkg/platform/audit"
	"anonmsg/pkg/platform/sentinel"
	"anonmsg/pkg/requestcontext"
)

// UserDirectory is the slice of the user store the authenticator needs.
type UserDirectory interface {
	CreateUser(ctx context.Context, user *usermodels.User) (*usermodels.User, error)
	FetchUser(ctx context.Context, userID id.UserID) (*usermodels.User, error)
}

type CredentialStore interface {
	Create(ctx context.Context, cred *models.Credential) error
	FindByEmail(ctx context.Context, email string) (*models.Credential, error)
}

type TokenService interface {
	IssueSessionToken(userID id.UserID, now time.Time, ttl time.Duration) (string, *models.SessionClaims, error)
	ValidateToken(token string, now time.Time) (*models.SessionClaims, error)
}

type RevocationList interface {
	RevokeToken(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type LockoutStore interface {
	RecordFailure(ctx context.Context, identifier string, window time.Duration) (int, error)
	Lock(ctx context.Context, identifier string, d time.Duration) error
	IsLocked(ctx context.Context, identifier string) (bool, error)
	Clear(ctx context.Context, identifier string) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

// Transactor runs fn so that the user row and the credential row are
// written together.
type Transactor func(ctx context.Context, fn func(ctx context.Context) error) error

// Authenticator implements the auth service's AuthRepository.
type Authenticator struct {
	users          UserDirectory
	credentials    CredentialStore
	tokens         TokenService
	revocations    RevocationList
	lockouts       LockoutStore
	cfg            config.AuthConfig
	transact       Transactor
	entropy        io.Reader
	newUserID      func() id.UserID
	logger         *slog.Logger
	metrics        *metrics.Metrics
	auditPublisher AuditPublisher
}

type Option func(*Authenticator)

func WithLogger(logger *slog.Logger) Option {
	return func(a *Authenticator) {
		a.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Authenticator) {
		a.metrics = m
	}
}

// WithAuditPublisher receives login_failed and account_locked events.
func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(a *Authenticator) {
		a.auditPublisher = publisher
	}
}

func WithTransactor(t Transactor) Option {
	return func(a *Authenticator) {
		a.transact = t
	}
}

// WithEntropy sets the source personal link tokens are drawn from.
func WithEntropy(r io.Reader) Option {
	return func(a *Authenticator) {
		a.entropy = r
	}
}

func WithUserIDGenerator(fn func() id.UserID) Option {
	return func(a *Authenticator) {
		a.newUserID = fn
	}
}

func New(
	users UserDirectory,
	credentials CredentialStore,
	tokens TokenService,
	revocations RevocationList,
	lockouts LockoutStore,
	cfg config.AuthConfig,
	opts ...Option,
) (*Authenticator, error) {
	switch {
	case users == nil:
		return nil, errors.New("user directory is required")
	case credentials == nil:
		return nil, errors.New("credential store is required")
	case tokens == nil:
		return nil, errors.New("token service is required")
	case revocations == nil:
		return nil, errors.New("revocation list is required")
	case lockouts == nil:
		return nil, errors.New("lockout store is required")
	}
	if cfg.TokenTTL <= 0 || cfg.LockoutThreshold <= 0 {
		return nil, errors.New("token ttl and lockout threshold must be positive")
	}
	a := &Authenticator{
		users:       users,
		credentials: credentials,
		tokens:      tokens,
		revocations: revocations,
		lockouts:    lockouts,
		cfg:         cfg,
		transact:    func(ctx context.Context, fn func(context.Context) error) error { return fn(ctx) },
		newUserID:   id.NewUserID,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Login checks the lockout, then the password. Unknown emails report
// ErrUserNotFound; wrong passwords count toward the lockout threshold and
// the failure that reaches it reports ErrAccountLocked.
func (a *Authenticator) Login(ctx context.Context, addr, password string) (*usermodels.User, error) {
	key := email.Normalize(addr)

	locked, err := a.lockouts.IsLocked(ctx, key)
	if err != nil {
		return nil, err
	}
	if locked {
		return nil, models.ErrAccountLocked
	}

	cred, err := a.credentials.FindByEmail(ctx, key)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword(cred.PasswordHash, []byte(password)); err != nil {
		return nil, a.recordFailure(ctx, key, cred.UserID)
	}

	if err := a.lockouts.Clear(ctx, key); err != nil {
		a.logger.WarnContext(ctx, "failed to clear login failures", "error", err)
	}

	user, err := a.users.FetchUser(ctx, cred.UserID)
	if err != nil {
		return nil, err
	}
	if err := a.startSession(ctx, user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

// Signup registers the account with a fresh personal link and signs the
// new user in.
func (a *Authenticator) Signup(ctx context.Context, username, addr, password string) (*usermodels.User, error) {
	key := email.Normalize(addr)

	_, err := a.credentials.FindByEmail(ctx, key)
	if err == nil {
		return nil, models.ErrEmailAlreadyExists
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID := a.newUserID()
	link, err := usermodels.NewPersonalLink(userID, a.entropy)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	user := &usermodels.User{
		ID:           userID,
		Username:     username,
		Email:        key,
		PersonalLink: link,
		CreatedAt:    now,
	}

	var created *usermodels.User
	err = a.transact(ctx, func(ctx context.Context) error {
		var err error
		if created, err = a.users.CreateUser(ctx, user); err != nil {
			return err
		}
		return a.credentials.Create(ctx, &models.Credential{
			UserID:       userID,
			Email:        key,
			PasswordHash: hash,
			CreatedAt:    now,
		})
	})
	if errors.Is(err, sentinel.ErrConflict) {
		return nil, models.ErrEmailAlreadyExists
	}
	if err != nil {
		return nil, err
	}

	if err := a.startSession(ctx, created.ID); err != nil {
		return nil, err
	}
	return created, nil
}

// Logout revokes the session token for the rest of its life and empties
// the session slot.
func (a *Authenticator) Logout(ctx context.Context) error {
	claims := a.session(ctx)
	if claims == nil {
		return models.ErrNotAuthenticated
	}

	if ttl := claims.ExpiresAt.Sub(requestcontext.Now(ctx)); ttl > 0 {
		if err := a.revocations.RevokeToken(ctx, claims.JTI, ttl); err != nil {
			return errors.Join(models.ErrLogoutFailed, err)
		}
	}
	requestcontext.SessionFrom(ctx).SetToken("")
	return nil
}

// CurrentUser returns nil without error when there is no valid session.
func (a *Authenticator) CurrentUser(ctx context.Context) (*usermodels.User, error) {
	claims := a.session(ctx)
	if claims == nil {
		return nil, nil
	}
	return a.users.FetchUser(ctx, claims.UserID)
}

func (a *Authenticator) IsAuthenticated(ctx context.Context) bool {
	return a.session(ctx) != nil
}

// Authenticate resolves the session and returns a context carrying the
// caller's user ID, for stores that read requestcontext.UserID.
func (a *Authenticator) Authenticate(ctx context.Context) (context.Context, error) {
	claims := a.session(ctx)
	if claims == nil {
		return ctx, models.ErrNotAuthenticated
	}
	return requestcontext.WithUserID(ctx, claims.UserID), nil
}

func (a *Authenticator) startSession(ctx context.Context, userID id.UserID) error {
	token, _, err := a.tokens.IssueSessionToken(userID, requestcontext.Now(ctx), a.cfg.TokenTTL)
	if err != nil {
		return fmt.Errorf("issue session token: %w", err)
	}
	if slot := requestcontext.SessionFrom(ctx); slot != nil {
		slot.SetToken(token)
	}
	return nil
}

// session returns the verified, unrevoked claims of the slot's token.
func (a *Authenticator) session(ctx context.Context) *models.SessionClaims {
	slot := requestcontext.SessionFrom(ctx)
	if slot == nil || slot.Token() == "" {
		return nil
	}
	claims, err := a.tokens.ValidateToken(slot.Token(), requestcontext.Now(ctx))
	if err != nil {
		return nil
	}
	revoked, err := a.revocations.IsRevoked(ctx, claims.JTI)
	if err != nil {
		a.logger.WarnContext(ctx, "revocation check failed", "error", err)
		return nil
	}
	if revoked {
		return nil
	}
	return claims
}

func (a *Authenticator) recordFailure(ctx context.Context, key string, userID id.UserID) error {
	a.metrics.IncLoginFailure()
	a.emit(ctx, audit.EventLoginFailed, userID, "invalid_password")

	count, err := a.lockouts.RecordFailure(ctx, key, a.cfg.LockoutWindow)
	if err != nil {
		return err
	}
	if count < a.cfg.LockoutThreshold {
		return models.ErrInvalidCredentials
	}

	if err := a.lockouts.Lock(ctx, key, a.cfg.LockoutDuration); err != nil {
		return err
	}
	a.metrics.IncAccountLocked()
	a.emit(ctx, audit.EventAccountLocked, userID, "too_many_failures")
	return models.ErrAccountLocked
}

func (a *Authenticator) emit(ctx context.Context, event audit.AuditEvent, userID id.UserID, reason string) {
	a.logger.InfoContext(ctx, string(event),
		"user_id", userID,
		"reason", reason,
		"log_type", "audit",
	)
	if a.auditPublisher == nil {
		return
	}
	if err := a.auditPublisher.Emit(ctx, audit.Event{
		UserID:    userID,
		Subject:   userID.String(),
		Action:    string(event),
		Reason:    reason,
		RequestID: requestcontext.RequestID(ctx),
	}); err != nil {
		a.logger.WarnContext(ctx, "failed to emit audit event", "event", event, "error", err)
	}
}
