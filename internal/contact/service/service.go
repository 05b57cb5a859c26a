package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks ContactStore,AuditPublisher

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"go.opentelemetry.io/otel/trace"

	"anonmsg/internal/contact/models"
	"anonmsg/internal/platform/metrics"
	"anonmsg/internal/platform/tracing"
	"anonmsg/pkg/attrs"
	id "anonmsg/pkg/domain"
	"anonmsg/pkg/platform/audit"
	"anonmsg/pkg/requestcontext"
)

// ContactStore is the contact collaborator. Errors it returns reach the
// caller unchanged.
type ContactStore interface {
	FetchContacts(ctx context.Context, ownerID id.UserID) ([]*models.Contact, error)
	FetchContact(ctx context.Context, contactID id.ContactID) (*models.Contact, error)
	AddContact(ctx context.Context, contact *models.Contact) (*models.Contact, error)
	DeleteContact(ctx context.Context, contactID id.ContactID) error
	UpdateContact(ctx context.Context, contact *models.Contact) (*models.Contact, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

// Service implements the contact use cases: registration under the quota,
// lock-aware deletion, listing and partial updates.
type Service struct {
	contacts       ContactStore
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	tracer         trace.Tracer
	newID          func() id.ContactID
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

// WithIDGenerator overrides how new contact IDs are minted.
func WithIDGenerator(fn func() id.ContactID) Option {
	return func(s *Service) {
		s.newID = fn
	}
}

func New(contacts ContactStore, opts ...Option) (*Service, error) {
	if contacts == nil {
		return nil, errors.New("contact store is required")
	}
	s := &Service{
		contacts: contacts,
		logger:   slog.New(slog.DiscardHandler),
		tracer:   tracing.Tracer("contact"),
		newID:    id.NewContactID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// AddContact validates the fields, enforces the quota and name uniqueness,
// then registers a new contact stamped with the request time.
func (s *Service) AddContact(ctx context.Context, req models.AddContactRequest) (_ *models.Contact, err error) {
	ctx, done := s.begin(ctx, "AddContact")
	defer func() { done(err) }()

	if err := models.ValidateFields(req.Name, req.Relationship, req.Memo); err != nil {
		return nil, err
	}

	existing, err := s.contacts.FetchContacts(ctx, req.OwnerUserID)
	if err != nil {
		return nil, err
	}

	limit := models.ContactLimit{CurrentCount: len(existing), IsPremium: req.IsPremium}
	if err := limit.ValidateAddContact(); err != nil {
		return nil, err
	}
	if hasName(existing, req.Name, id.ContactID{}) {
		return nil, models.ErrDuplicateName
	}

	contact, err := models.NewContact(s.newID(), req.OwnerUserID, req.Name, req.Relationship, req.Memo, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	saved, err := s.contacts.AddContact(ctx, contact)
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, string(audit.EventContactAdded),
		"user_id", req.OwnerUserID,
		"contact_id", saved.ID,
	)
	return saved, nil
}

// DeleteContact removes a contact once its lock period has ended.
func (s *Service) DeleteContact(ctx context.Context, contactID id.ContactID) (err error) {
	ctx, done := s.begin(ctx, "DeleteContact")
	defer func() { done(err) }()

	contact, err := s.contacts.FetchContact(ctx, contactID)
	if err != nil {
		return err
	}

	now := requestcontext.Now(ctx)
	if !contact.IsDeletableAt(now) {
		return &models.ContactLockedError{
			RemainingDays: contact.RemainingLockDays(now),
			DeletableAt:   contact.DeletableAt(),
		}
	}

	if err := s.contacts.DeleteContact(ctx, contactID); err != nil {
		return err
	}

	s.logAudit(ctx, string(audit.EventContactDeleted),
		"user_id", contact.OwnerUserID,
		"contact_id", contactID,
	)
	return nil
}

// ForceDelete removes a contact without checking the lock period. Callers
// decide who may use it.
func (s *Service) ForceDelete(ctx context.Context, contactID id.ContactID) (err error) {
	ctx, done := s.begin(ctx, "ForceDelete")
	defer func() { done(err) }()

	if err := s.contacts.DeleteContact(ctx, contactID); err != nil {
		return err
	}

	s.logAudit(ctx, string(audit.EventContactForceDeleted),
		"user_id", requestcontext.UserID(ctx),
		"contact_id", contactID,
	)
	return nil
}

// FetchContacts returns the owner's contacts, newest registration first.
func (s *Service) FetchContacts(ctx context.Context, ownerID id.UserID) (_ []*models.Contact, err error) {
	ctx, done := s.begin(ctx, "FetchContacts")
	defer func() { done(err) }()

	return s.fetchSorted(ctx, ownerID)
}

// FetchDeletableContacts returns the contacts whose lock period has ended.
func (s *Service) FetchDeletableContacts(ctx context.Context, ownerID id.UserID) (_ []*models.Contact, err error) {
	ctx, done := s.begin(ctx, "FetchDeletableContacts")
	defer func() { done(err) }()

	contacts, err := s.fetchSorted(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	return filter(contacts, func(c *models.Contact) bool { return c.IsDeletableAt(now) }), nil
}

// FetchLockedContacts returns the contacts still inside their lock period.
func (s *Service) FetchLockedContacts(ctx context.Context, ownerID id.UserID) (_ []*models.Contact, err error) {
	ctx, done := s.begin(ctx, "FetchLockedContacts")
	defer func() { done(err) }()

	contacts, err := s.fetchSorted(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	return filter(contacts, func(c *models.Contact) bool { return !c.IsDeletableAt(now) }), nil
}

// UpdateContact merges the patch over the stored contact, re-validates it
// and checks the new name against the owner's other contacts.
func (s *Service) UpdateContact(ctx context.Context, contactID id.ContactID, p models.ContactPatch) (_ *models.Contact, err error) {
	ctx, done := s.begin(ctx, "UpdateContact")
	defer func() { done(err) }()

	current, err := s.contacts.FetchContact(ctx, contactID)
	if err != nil {
		return nil, err
	}

	merged := p.Apply(*current)
	if err := models.ValidateFields(merged.Name, merged.Relationship, merged.Memo); err != nil {
		return nil, err
	}

	if merged.Name != current.Name {
		siblings, err := s.contacts.FetchContacts(ctx, current.OwnerUserID)
		if err != nil {
			return nil, err
		}
		if hasName(siblings, merged.Name, current.ID) {
			return nil, models.ErrDuplicateName
		}
	}

	updated, err := s.contacts.UpdateContact(ctx, &merged)
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, string(audit.EventContactUpdated),
		"user_id", current.OwnerUserID,
		"contact_id", contactID,
	)
	return updated, nil
}

// ContactLimitFor reports the owner's quota usage.
func (s *Service) ContactLimitFor(ctx context.Context, ownerID id.UserID, isPremium bool) (_ models.ContactLimit, err error) {
	ctx, done := s.begin(ctx, "ContactLimitFor")
	defer func() { done(err) }()

	contacts, err := s.contacts.FetchContacts(ctx, ownerID)
	if err != nil {
		return models.ContactLimit{}, err
	}
	return models.ContactLimit{CurrentCount: len(contacts), IsPremium: isPremium}, nil
}

func (s *Service) fetchSorted(ctx context.Context, ownerID id.UserID) ([]*models.Contact, error) {
	contacts, err := s.contacts.FetchContacts(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	sorted := slices.Clone(contacts)
	slices.SortStableFunc(sorted, func(a, b *models.Contact) int {
		return b.RegisteredAt.Compare(a.RegisteredAt)
	})
	return sorted, nil
}

// hasName reports an exact name match, ignoring the contact with id except.
func hasName(contacts []*models.Contact, name string, except id.ContactID) bool {
	return slices.ContainsFunc(contacts, func(c *models.Contact) bool {
		return c.Name == name && c.ID != except
	})
}

func filter(contacts []*models.Contact, keep func(*models.Contact) bool) []*models.Contact {
	out := make([]*models.Contact, 0, len(contacts))
	for _, c := range contacts {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

func (s *Service) begin(ctx context.Context, op string) (context.Context, func(error)) {
	name := "contact." + op
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
		Subject:   attrs.ExtractString(attributes, "contact_id"),
		Action:    event,
		RequestID: requestcontext.RequestID(ctx),
	}); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "event", event, "error", err)
	}
}
