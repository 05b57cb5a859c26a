package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks MessageStore,ContactStore,ReceiverResolver,AuditPublisher

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"go.opentelemetry.io/otel/trace"

	contactmodels "anonmsg/internal/contact/models"
	"anonmsg/internal/message/models"
	"anonmsg/internal/platform/metrics"
	"anonmsg/internal/platform/tracing"
	"anonmsg/pkg/attrs"
	id "anonmsg/pkg/domain"
	"anonmsg/pkg/platform/audit"
	"anonmsg/pkg/requestcontext"
)

// MessageStore is the message collaborator. AnswerMessage must attach the
// answer only if the message has none and report ErrAlreadyAnswered
// otherwise.
type MessageStore interface {
	SendMessage(ctx context.Context, message *models.Message) (*models.Message, error)
	FetchSentMessages(ctx context.Context, userID id.UserID) ([]*models.Message, error)
	FetchReceivedMessages(ctx context.Context, userID id.UserID) ([]*models.Message, error)
	FetchMessage(ctx context.Context, messageID id.MessageID) (*models.Message, error)
	FetchMessagesForContact(ctx context.Context, contactID id.ContactID) ([]*models.Message, error)
	AnswerMessage(ctx context.Context, messageID id.MessageID, answer *models.Answer) (*models.Message, error)
}

// ContactStore is the slice of the contact collaborator SendMessage needs.
type ContactStore interface {
	FetchContact(ctx context.Context, contactID id.ContactID) (*contactmodels.Contact, error)
}

// ReceiverResolver decides who receives a message sent through a contact.
// Resolvers may return models.ErrSendToSelf or their own errors; both reach
// the caller unchanged.
type ReceiverResolver interface {
	ResolveReceiver(ctx context.Context, contact *contactmodels.Contact) (id.UserID, error)
}

// ReceiverResolverFunc adapts a function to ReceiverResolver.
type ReceiverResolverFunc func(ctx context.Context, contact *contactmodels.Contact) (id.UserID, error)

func (f ReceiverResolverFunc) ResolveReceiver(ctx context.Context, contact *contactmodels.Contact) (id.UserID, error) {
	return f(ctx, contact)
}

// ContactOwnerResolver addresses the message to the contact's owner, which
// is also the sender. Contacts carry no link to a receiving account, so this
// is the default until one is configured.
var ContactOwnerResolver = ReceiverResolverFunc(func(_ context.Context, contact *contactmodels.Contact) (id.UserID, error) {
	return contact.OwnerUserID, nil
})

type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

// Service implements sending, answering and history queries.
type Service struct {
	messages       MessageStore
	contacts       ContactStore
	receivers      ReceiverResolver
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	tracer         trace.Tracer
	newMessageID   func() id.MessageID
	newAnswerID    func() id.AnswerID
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

func WithReceiverResolver(r ReceiverResolver) Option {
	return func(s *Service) {
		s.receivers = r
	}
}

func WithIDGenerators(message func() id.MessageID, answer func() id.AnswerID) Option {
	return func(s *Service) {
		s.newMessageID = message
		s.newAnswerID = answer
	}
}

func New(messages MessageStore, contacts ContactStore, opts ...Option) (*Service, error) {
	if messages == nil {
		return nil, errors.New("message store is required")
	}
	if contacts == nil {
		return nil, errors.New("contact store is required")
	}
	s := &Service{
		messages:     messages,
		contacts:     contacts,
		receivers:    ContactOwnerResolver,
		logger:       slog.New(slog.DiscardHandler),
		tracer:       tracing.Tracer("message"),
		newMessageID: id.NewMessageID,
		newAnswerID:  id.NewAnswerID,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.receivers == nil {
		return nil, errors.New("receiver resolver is required")
	}
	return s, nil
}

// SendMessage validates the content, checks the sender owns the contact and
// stores a pending message.
func (s *Service) SendMessage(ctx context.Context, req models.SendMessageRequest) (_ *models.Message, err error) {
	ctx, done := s.begin(ctx, "SendMessage")
	defer func() { done(err) }()

	if err := models.ValidateMessageContent(req.Content); err != nil {
		return nil, err
	}

	contact, err := s.contacts.FetchContact(ctx, req.ContactID)
	if err != nil {
		return nil, err
	}
	if contact.OwnerUserID != req.SenderID {
		return nil, models.ErrUnauthorizedContact
	}

	receiverID, err := s.receivers.ResolveReceiver(ctx, contact)
	if err != nil {
		return nil, err
	}

	contactID := req.ContactID
	sent, err := s.messages.SendMessage(ctx, &models.Message{
		ID:          s.newMessageID(),
		SenderID:    req.SenderID,
		ReceiverID:  receiverID,
		ContactID:   &contactID,
		Content:     req.Content,
		IsAnonymous: req.IsAnonymous,
		SentAt:      requestcontext.Now(ctx),
	})
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, string(audit.EventMessageSent),
		"user_id", req.SenderID,
		"message_id", sent.ID,
		"anonymous", req.IsAnonymous,
	)
	return sent, nil
}

// AnswerMessage attaches the receiver's answer. The content is stored as
// given; trimming only applies to validation.
func (s *Service) AnswerMessage(ctx context.Context, messageID id.MessageID, content string, answererID id.UserID) (_ *models.Message, err error) {
	ctx, done := s.begin(ctx, "AnswerMessage")
	defer func() { done(err) }()

	if err := models.ValidateAnswerContent(content); err != nil {
		return nil, err
	}

	message, err := s.messages.FetchMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if message.ReceiverID != answererID {
		return nil, models.ErrUnauthorized
	}
	if message.IsAnswered() {
		return nil, models.ErrAlreadyAnswered
	}

	answered, err := s.messages.AnswerMessage(ctx, messageID, &models.Answer{
		ID:         s.newAnswerID(),
		MessageID:  messageID,
		Content:    content,
		AnsweredAt: requestcontext.Now(ctx),
	})
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, string(audit.EventMessageAnswered),
		"user_id", answererID,
		"message_id", messageID,
	)
	return answered, nil
}

// FetchMessageHistory returns the selected messages, newest first. For
// ForContact histories userID is not consulted.
func (s *Service) FetchMessageHistory(ctx context.Context, userID id.UserID, history models.HistoryType) (_ []*models.Message, err error) {
	ctx, done := s.begin(ctx, "FetchMessageHistory")
	defer func() { done(err) }()

	return s.history(ctx, userID, history)
}

// FetchAnsweredMessages is FetchMessageHistory restricted to answered messages.
func (s *Service) FetchAnsweredMessages(ctx context.Context, userID id.UserID, history models.HistoryType) (_ []*models.Message, err error) {
	ctx, done := s.begin(ctx, "FetchAnsweredMessages")
	defer func() { done(err) }()

	return s.filtered(ctx, userID, history, (*models.Message).IsAnswered)
}

// FetchPendingMessages is FetchMessageHistory restricted to unanswered messages.
func (s *Service) FetchPendingMessages(ctx context.Context, userID id.UserID, history models.HistoryType) (_ []*models.Message, err error) {
	ctx, done := s.begin(ctx, "FetchPendingMessages")
	defer func() { done(err) }()

	return s.filtered(ctx, userID, history, func(m *models.Message) bool { return !m.IsAnswered() })
}

// FetchMessagesBetween keeps messages sent within [start, end].
func (s *Service) FetchMessagesBetween(ctx context.Context, userID id.UserID, history models.HistoryType, start, end time.Time) (_ []*models.Message, err error) {
	ctx, done := s.begin(ctx, "FetchMessagesBetween")
	defer func() { done(err) }()

	return s.filtered(ctx, userID, history, func(m *models.Message) bool { return m.SentBetween(start, end) })
}

func (s *Service) history(ctx context.Context, userID id.UserID, history models.HistoryType) ([]*models.Message, error) {
	var (
		messages []*models.Message
		err      error
	)
	switch history.Kind {
	case models.HistorySent:
		messages, err = s.messages.FetchSentMessages(ctx, userID)
	case models.HistoryReceived:
		messages, err = s.messages.FetchReceivedMessages(ctx, userID)
	case models.HistoryForContact:
		messages, err = s.messages.FetchMessagesForContact(ctx, history.ContactID)
	default:
		return nil, errors.New("unknown history type")
	}
	if err != nil {
		return nil, err
	}

	sorted := slices.Clone(messages)
	slices.SortStableFunc(sorted, func(a, b *models.Message) int {
		return b.SentAt.Compare(a.SentAt)
	})
	return sorted, nil
}

func (s *Service) filtered(ctx context.Context, userID id.UserID, history models.HistoryType, keep func(*models.Message) bool) ([]*models.Message, error) {
	messages, err := s.history(ctx, userID, history)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(messages, func(m *models.Message) bool { return !keep(m) }), nil
}

func (s *Service) begin(ctx context.Context, op string) (context.Context, func(error)) {
	name := "message." + op
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
		Subject:   attrs.ExtractString(attributes, "message_id"),
		Action:    event,
		RequestID: requestcontext.RequestID(ctx),
	}); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "event", event, "error", err)
	}
}
