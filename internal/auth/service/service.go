package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks AuthRepository,AuditPublisher

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"anonmsg/internal/auth/models"
	"anonmsg/internal/platform/metrics"
	"anonmsg/internal/platform/tracing"
	usermodels "anonmsg/internal/user/models"
	"anonmsg/pkg/attrs"
	id "anonmsg/pkg/domain"
	"anonmsg/pkg/platform/audit"
	"anonmsg/pkg/requestcontext"
)

// AuthRepository is the authentication collaborator. It owns credentials and
// the session; the service only validates input and reports outcomes.
type AuthRepository interface {
	Login(ctx context.Context, email, password string) (*usermodels.User, error)
	Signup(ctx context.Context, username, email, password string) (*usermodels.User, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*usermodels.User, error)
	IsAuthenticated(ctx context.Context) bool
}

type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

// Service implements login, signup, logout and the current-user lookup.
type Service struct {
	repo           AuthRepository
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

func New(repo AuthRepository, opts ...Option) (*Service, error) {
	if repo == nil {
		return nil, errors.New("auth repository is required")
	}
	s := &Service{
		repo:   repo,
		logger: slog.New(slog.DiscardHandler),
		tracer: tracing.Tracer("auth"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Login validates the form and delegates to the repository. Credential and
// lockout failures come back from the repository unchanged.
func (s *Service) Login(ctx context.Context, email, password string) (_ *usermodels.User, err error) {
	ctx, done := s.begin(ctx, "Login")
	defer func() { done(err) }()

	if err := (models.LoginInput{Email: email, Password: password}).Validate(); err != nil {
		return nil, err
	}

	user, err := s.repo.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, string(audit.EventUserLoggedIn), "user_id", user.ID)
	return user, nil
}

// Signup validates the form, confirmation included, then registers the
// account through the repository.
func (s *Service) Signup(ctx context.Context, username, email, password, passwordConfirmation string) (_ *usermodels.User, err error) {
	ctx, done := s.begin(ctx, "Signup")
	defer func() { done(err) }()

	in := models.SignupInput{
		Username:             username,
		Email:                email,
		Password:             password,
		PasswordConfirmation: passwordConfirmation,
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	user, err := s.repo.Signup(ctx, username, email, password)
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, string(audit.EventUserSignedUp), "user_id", user.ID)
	return user, nil
}

// Logout ends the caller's session. Without one it reports
// ErrNotAuthenticated and the repository is not asked to log out.
func (s *Service) Logout(ctx context.Context) (err error) {
	ctx, done := s.begin(ctx, "Logout")
	defer func() { done(err) }()

	if !s.repo.IsAuthenticated(ctx) {
		return models.ErrNotAuthenticated
	}

	var userID id.UserID
	if user, err := s.repo.CurrentUser(ctx); err == nil && user != nil {
		userID = user.ID
	}

	if err := s.repo.Logout(ctx); err != nil {
		return err
	}

	s.logAudit(ctx, string(audit.EventUserLoggedOut), "user_id", userID)
	return nil
}

// CurrentUser returns the signed-in user.
func (s *Service) CurrentUser(ctx context.Context) (_ *usermodels.User, err error) {
	ctx, done := s.begin(ctx, "CurrentUser")
	defer func() { done(err) }()

	user, err := s.repo.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.ErrNotAuthenticated
	}
	return user, nil
}

func (s *Service) IsAuthenticated(ctx context.Context) bool {
	return s.repo.IsAuthenticated(ctx)
}

func (s *Service) begin(ctx context.Context, op string) (context.Context, func(error)) {
	name := "auth." + op
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
