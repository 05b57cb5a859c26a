package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks UserStore,AuditPublisher

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"anonmsg/internal/platform/metrics"
	"anonmsg/internal/platform/tracing"
	"anonmsg/internal/user/models"
	"anonmsg/pkg/attrs"
	id "anonmsg/pkg/domain"
	"anonmsg/pkg/platform/audit"
	"anonmsg/pkg/platform/patch"
	"anonmsg/pkg/requestcontext"
)

// UserStore is the user collaborator.
type UserStore interface {
	FetchCurrentUser(ctx context.Context) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) (*models.User, error)
	FetchUser(ctx context.Context, userID id.UserID) (*models.User, error)
	FetchUserByPersonalLink(ctx context.Context, token string) (*models.User, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

// Service implements profile lookups and updates.
type Service struct {
	users          UserStore
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	tracer         trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

func New(users UserStore, opts ...Option) (*Service, error) {
	if users == nil {
		return nil, errors.New("user store is required")
	}
	s := &Service{
		users:  users,
		logger: slog.New(slog.DiscardHandler),
		tracer: tracing.Tracer("user"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Service) FetchCurrentUser(ctx context.Context) (_ *models.User, err error) {
	ctx, done := s.begin(ctx, "FetchCurrentUser")
	defer func() { done(err) }()

	return s.users.FetchCurrentUser(ctx)
}

func (s *Service) FetchUser(ctx context.Context, userID id.UserID) (_ *models.User, err error) {
	ctx, done := s.begin(ctx, "FetchUser")
	defer func() { done(err) }()

	return s.users.FetchUser(ctx, userID)
}

// FetchUserByPersonalLink resolves the owner of a shared link token.
func (s *Service) FetchUserByPersonalLink(ctx context.Context, token string) (_ *models.User, err error) {
	ctx, done := s.begin(ctx, "FetchUserByPersonalLink")
	defer func() { done(err) }()

	return s.users.FetchUserByPersonalLink(ctx, token)
}

// UpdateUserProfile merges p over the stored profile. The username is
// validated only when p sets it and is stored exactly as supplied.
func (s *Service) UpdateUserProfile(ctx context.Context, userID id.UserID, p models.ProfilePatch) (_ *models.User, err error) {
	ctx, done := s.begin(ctx, "UpdateUserProfile")
	defer func() { done(err) }()

	if err := p.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.users.FetchUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	merged := p.Apply(*existing)
	updated, err := s.users.UpdateUser(ctx, &merged)
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, string(audit.EventProfileUpdated),
		"user_id", userID,
		"username_changed", p.Username.IsSet(),
		"image_changed", !p.ProfileImageURL.IsAbsent(),
	)
	return updated, nil
}

// UpdateUsername changes only the username.
func (s *Service) UpdateUsername(ctx context.Context, userID id.UserID, username string) (*models.User, error) {
	return s.UpdateUserProfile(ctx, userID, models.ProfilePatch{Username: patch.Set(username)})
}

// UpdateProfileImage changes only the image reference. An empty imageURL
// removes the image.
func (s *Service) UpdateProfileImage(ctx context.Context, userID id.UserID, imageURL string) (*models.User, error) {
	field := patch.Set(imageURL)
	if imageURL == "" {
		field = patch.Clear[string]()
	}
	return s.UpdateUserProfile(ctx, userID, models.ProfilePatch{ProfileImageURL: field})
}

func (s *Service) begin(ctx context.Context, op string) (context.Context, func(error)) {
	name := "user." + op
	start := time.Now()
	ctx, end := tracing.Start(ctx, s.tracer, name)
	return ctx, func(err error) {
		end(err)
		s.metrics.ObserveUseCase(name, start, err)
	}
}

func (s *Service) logAudit(ctx context.Context, event string, attributes ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", event, "log_type", "audit")
	s.logger.InfoContext(ctx, event, args...)
	if s.auditPublisher == nil {
		return
	}
	userID, _ := id.ParseUserID(attrs.ExtractString(attributes, "user_id"))
	if err := s.auditPublisher.Emit(ctx, audit.Event{
		UserID:    userID,
		Subject:   attrs.ExtractString(attributes, "user_id"),
		Action:    event,
		RequestID: requestcontext.RequestID(ctx),
	}); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "event", event, "error", err)
	}
}
