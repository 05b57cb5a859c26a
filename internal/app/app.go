// Package app wires stores, adapters and services from configuration.
package app

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"

	"anonmsg/internal/auth/local"
	authservice "anonmsg/internal/auth/service"
	"anonmsg/internal/auth/store/credential"
	"anonmsg/internal/auth/store/lockout"
	"anonmsg/internal/auth/store/revocation"
	contactservice "anonmsg/internal/contact/service"
	contactstore "anonmsg/internal/contact/store"
	jwttoken "anonmsg/internal/jwt_token"
	messageservice "anonmsg/internal/message/service"
	messagestore "anonmsg/internal/message/store"
	"anonmsg/internal/platform/config"
	"anonmsg/internal/platform/metrics"
	"anonmsg/internal/platform/postgres"
	redisplatform "anonmsg/internal/platform/redis"
	usermodels "anonmsg/internal/user/models"
	userservice "anonmsg/internal/user/service"
	userstore "anonmsg/internal/user/store"
	audit "anonmsg/pkg/platform/audit"
	"anonmsg/pkg/platform/audit/publisher"
	auditmemory "anonmsg/pkg/platform/audit/store/memory"
	auditpostgres "anonmsg/pkg/platform/audit/store/postgres"
	txcontext "anonmsg/pkg/platform/tx"
)

// App holds the four use case services and the resources behind them.
type App struct {
	Auth          *authservice.Service
	Authenticator *local.Authenticator
	Users         *userservice.Service
	Contacts      *contactservice.Service
	Messages      *messageservice.Service
	Audit         *publisher.Publisher
	Metrics       *metrics.Metrics

	cfg    config.Config
	logger *slog.Logger
	db     *sql.DB
	redis  *goredis.Client
}

type Option func(*options)

type options struct {
	logger     *slog.Logger
	registerer prometheus.Registerer
	entropy    io.Reader
	resolver   messageservice.ReceiverResolver
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRegisterer registers metrics with reg instead of a private registry.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

// WithEntropy replaces crypto/rand as the personal link token source.
func WithEntropy(r io.Reader) Option {
	return func(o *options) {
		o.entropy = r
	}
}

// WithReceiverResolver overrides who receives messages sent via a contact.
func WithReceiverResolver(r messageservice.ReceiverResolver) Option {
	return func(o *options) {
		o.resolver = r
	}
}

// New opens the configured backends and builds the services. Postgres backs
// the stores when a DSN is set; Redis backs revocation and lockout when a
// URL is set. Everything else stays in memory.
func New(ctx context.Context, cfg config.Config, opts ...Option) (_ *App, err error) {
	o := options{
		logger:     slog.New(slog.DiscardHandler),
		registerer: prometheus.NewRegistry(),
		entropy:    rand.Reader,
	}
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{cfg: cfg, logger: o.logger}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	a.Metrics = metrics.New(o.registerer)

	var (
		users       userStore
		credentials local.CredentialStore
		contacts    contactStore
		messages    messageservice.MessageStore
		auditStore  audit.Store
		transactor  local.Transactor
	)
	if cfg.UsesPostgres() {
		a.db, err = postgres.Open(ctx, cfg.Postgres)
		if err != nil {
			return nil, err
		}
		users = userstore.NewPostgres(a.db)
		credentials = credential.NewPostgres(a.db)
		contacts = contactstore.NewPostgres(a.db)
		messages = messagestore.NewPostgres(a.db)
		transactor = func(ctx context.Context, fn func(context.Context) error) error {
			return txcontext.Run(ctx, a.db, fn)
		}
		o.logger.Info("stores backed by postgres")
	} else {
		users = userstore.NewInMemoryStore()
		credentials = credential.NewInMemoryStore()
		contacts = contactstore.NewInMemoryStore()
		messages = messagestore.NewInMemoryStore()
		o.logger.Info("stores backed by memory")
	}

	if cfg.Audit.Store == "outbox" {
		if a.db == nil {
			return nil, errors.New("audit outbox requires postgres")
		}
		auditStore = auditpostgres.New(a.db)
	} else {
		auditStore = auditmemory.NewInMemoryStore()
	}
	pubOpts := []publisher.Option{
		publisher.WithLogger(o.logger),
		publisher.WithMetrics(publisher.NewMetrics(o.registerer)),
	}
	if cfg.Audit.BufferSize > 0 {
		pubOpts = append(pubOpts, publisher.WithAsyncBuffer(cfg.Audit.BufferSize))
	}
	a.Audit = publisher.NewPublisher(auditStore, pubOpts...)

	var (
		revocations local.RevocationList
		lockouts    local.LockoutStore
	)
	client, err := redisplatform.Open(ctx, cfg.Redis)
	switch {
	case errors.Is(err, redisplatform.ErrNotConfigured):
		revocations = revocation.NewInMemoryList()
		lockouts = lockout.NewInMemoryStore()
		o.logger.Info("session state backed by memory")
	case err != nil:
		return nil, err
	default:
		a.redis = client
		revocations = revocation.NewRedisList(client)
		lockouts = lockout.NewRedis(client)
		o.logger.Info("session state backed by redis")
	}

	authOpts := []local.Option{
		local.WithLogger(o.logger),
		local.WithMetrics(a.Metrics),
		local.WithAuditPublisher(a.Audit),
		local.WithEntropy(o.entropy),
	}
	if transactor != nil {
		authOpts = append(authOpts, local.WithTransactor(transactor))
	}
	tokens := jwttoken.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	a.Authenticator, err = local.New(users, credentials, tokens, revocations, lockouts, cfg.Auth, authOpts...)
	if err != nil {
		return nil, fmt.Errorf("build authenticator: %w", err)
	}

	a.Auth, err = authservice.New(a.Authenticator,
		authservice.WithLogger(o.logger),
		authservice.WithAuditPublisher(a.Audit),
		authservice.WithMetrics(a.Metrics),
	)
	if err != nil {
		return nil, fmt.Errorf("build auth service: %w", err)
	}

	a.Users, err = userservice.New(users,
		userservice.WithLogger(o.logger),
		userservice.WithAuditPublisher(a.Audit),
		userservice.WithMetrics(a.Metrics),
	)
	if err != nil {
		return nil, fmt.Errorf("build user service: %w", err)
	}

	a.Contacts, err = contactservice.New(contacts,
		contactservice.WithLogger(o.logger),
		contactservice.WithAuditPublisher(a.Audit),
		contactservice.WithMetrics(a.Metrics),
	)
	if err != nil {
		return nil, fmt.Errorf("build contact service: %w", err)
	}

	msgOpts := []messageservice.Option{
		messageservice.WithLogger(o.logger),
		messageservice.WithAuditPublisher(a.Audit),
		messageservice.WithMetrics(a.Metrics),
	}
	if o.resolver != nil {
		msgOpts = append(msgOpts, messageservice.WithReceiverResolver(o.resolver))
	}
	a.Messages, err = messageservice.New(messages, contacts, msgOpts...)
	if err != nil {
		return nil, fmt.Errorf("build message service: %w", err)
	}

	return a, nil
}

// Authenticate resolves the session slot in ctx to a caller identity.
func (a *App) Authenticate(ctx context.Context) (context.Context, error) {
	return a.Authenticator.Authenticate(ctx)
}

// LinkURL renders a user's personal link under the configured host.
func (a *App) LinkURL(u *usermodels.User) string {
	return u.PersonalLink.URL(a.cfg.Links.BaseURL)
}

// DB returns the Postgres pool, or nil when stores are in memory.
func (a *App) DB() *sql.DB { return a.db }

// Close drains the audit buffer and releases connections.
func (a *App) Close() {
	if a.Audit != nil {
		a.Audit.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("close redis", "error", err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("close postgres", "error", err)
		}
	}
}

// userStore is what both the user service and the authenticator need.
type userStore interface {
	userservice.UserStore
	local.UserDirectory
}

// contactStore is what both the contact and message services need.
type contactStore interface {
	contactservice.ContactStore
	messageservice.ContactStore
}
