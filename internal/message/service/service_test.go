package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks MessageStore,ContactStore,ReceiverResolver,AuditPublisher

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	contactmodels "anonmsg/internal/contact/models"
	"anonmsg/internal/message/models"
	"anonmsg/internal/message/service/mocks"
	id "anonmsg/pkg/domain"
	"anonmsg/pkg/platform/audit"
	"anonmsg/pkg/requestcontext"
)

var now = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

const validContent = "Hello, this is a question."

type MessageServiceSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	mockMessages *mocks.MockMessageStore
	mockContacts *mocks.MockContactStore
	mockAudit    *mocks.MockAuditPublisher
	service      *Service
	ctx          context.Context
	sender       id.UserID
	messageID    id.MessageID
	answerID     id.AnswerID
}

func TestMessageServiceSuite(t *testing.T) {
	suite.Run(t, new(MessageServiceSuite))
}

func (s *MessageServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockMessages = mocks.NewMockMessageStore(s.ctrl)
	s.mockContacts = mocks.NewMockContactStore(s.ctrl)
	s.mockAudit = mocks.NewMockAuditPublisher(s.ctrl)
	s.sender = id.NewUserID()
	s.messageID = id.NewMessageID()
	s.answerID = id.NewAnswerID()

	var err error
	s.service, err = New(s.mockMessages, s.mockContacts,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithAuditPublisher(s.mockAudit),
		WithIDGenerators(
			func() id.MessageID { return s.messageID },
			func() id.AnswerID { return s.answerID },
		),
	)
	s.Require().NoError(err)
	s.ctx = requestcontext.WithTime(context.Background(), now)
}

func (s *MessageServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *MessageServiceSuite) ownedContact() *contactmodels.Contact {
	return &contactmodels.Contact{ID: id.NewContactID(), OwnerUserID: s.sender, Name: "Mina"}
}

func echoMessage(_ context.Context, m *models.Message) (*models.Message, error) { return m, nil }

func (s *MessageServiceSuite) TestNew() {
	s.Run("nil message store", func() {
		_, err := New(nil, s.mockContacts)
		s.Require().Error(err)
		s.Contains(err.Error(), "message store is required")
	})

	s.Run("nil contact store", func() {
		_, err := New(s.mockMessages, nil)
		s.Require().Error(err)
		s.Contains(err.Error(), "contact store is required")
	})

	s.Run("nil resolver override", func() {
		_, err := New(s.mockMessages, s.mockContacts, WithReceiverResolver(nil))
		s.Require().Error(err)
	})
}

func (s *MessageServiceSuite) TestSendMessage_Validation() {
	cases := []struct {
		name    string
		content string
		want    error
	}{
		{"blank", " \n\t ", models.ErrEmptyContent},
		{"too short after trim", "   short   ", models.ErrContentTooShort},
		{"too long", strings.Repeat("a", 1001), models.ErrContentTooLong},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			_, err := s.service.SendMessage(s.ctx, models.SendMessageRequest{
				SenderID:  s.sender,
				ContactID: id.NewContactID(),
				Content:   tc.content,
			})
			s.Require().ErrorIs(err, tc.want)
		})
	}
}

func (s *MessageServiceSuite) TestSendMessage() {
	s.Run("contact owned by someone else is rejected", func() {
		c := s.ownedContact()
		c.OwnerUserID = id.NewUserID()
		s.mockContacts.EXPECT().FetchContact(gomock.Any(), c.ID).Return(c, nil)

		_, err := s.service.SendMessage(s.ctx, models.SendMessageRequest{SenderID: s.sender, ContactID: c.ID, Content: validContent})
		s.Require().ErrorIs(err, models.ErrUnauthorizedContact)
	})

	s.Run("missing contact passes through", func() {
		contactID := id.NewContactID()
		s.mockContacts.EXPECT().FetchContact(gomock.Any(), contactID).Return(nil, contactmodels.ErrContactNotFound)

		_, err := s.service.SendMessage(s.ctx, models.SendMessageRequest{SenderID: s.sender, ContactID: contactID, Content: validContent})
		s.Require().ErrorIs(err, contactmodels.ErrContactNotFound)
	})

	s.Run("stores a pending message", func() {
		c := s.ownedContact()
		s.mockContacts.EXPECT().FetchContact(gomock.Any(), c.ID).Return(c, nil)
		s.mockMessages.EXPECT().SendMessage(gomock.Any(), &models.Message{
			ID:          s.messageID,
			SenderID:    s.sender,
			ReceiverID:  s.sender,
			ContactID:   &c.ID,
			Content:     validContent,
			IsAnonymous: true,
			SentAt:      now,
		}).DoAndReturn(echoMessage)
		s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e audit.Event) error {
			s.Equal(string(audit.EventMessageSent), e.Action)
			s.Equal(s.sender, e.UserID)
			return nil
		})

		m, err := s.service.SendMessage(s.ctx, models.SendMessageRequest{
			SenderID:    s.sender,
			ContactID:   c.ID,
			Content:     validContent,
			IsAnonymous: true,
		})

		s.Require().NoError(err)
		s.Equal(models.StatusPending, m.Status())
		s.Nil(m.Answer)
	})

	s.Run("store failure passes through unchanged", func() {
		c := s.ownedContact()
		storeErr := errors.New("insert failed")
		s.mockContacts.EXPECT().FetchContact(gomock.Any(), c.ID).Return(c, nil)
		s.mockMessages.EXPECT().SendMessage(gomock.Any(), gomock.Any()).Return(nil, storeErr)

		_, err := s.service.SendMessage(s.ctx, models.SendMessageRequest{SenderID: s.sender, ContactID: c.ID, Content: validContent})
		s.Same(storeErr, err)
	})
}

func (s *MessageServiceSuite) TestSendMessage_ReceiverResolver() {
	receiver := id.NewUserID()
	resolver := mocks.NewMockReceiverResolver(s.ctrl)
	svc, err := New(s.mockMessages, s.mockContacts, WithReceiverResolver(resolver))
	s.Require().NoError(err)

	s.Run("resolved receiver is used", func() {
		c := s.ownedContact()
		s.mockContacts.EXPECT().FetchContact(gomock.Any(), c.ID).Return(c, nil)
		resolver.EXPECT().ResolveReceiver(gomock.Any(), c).Return(receiver, nil)
		s.mockMessages.EXPECT().SendMessage(gomock.Any(), gomock.Any()).DoAndReturn(echoMessage)

		m, err := svc.SendMessage(s.ctx, models.SendMessageRequest{SenderID: s.sender, ContactID: c.ID, Content: validContent})
		s.Require().NoError(err)
		s.Equal(receiver, m.ReceiverID)
	})

	s.Run("resolver errors pass through", func() {
		c := s.ownedContact()
		s.mockContacts.EXPECT().FetchContact(gomock.Any(), c.ID).Return(c, nil)
		resolver.EXPECT().ResolveReceiver(gomock.Any(), c).Return(id.UserID{}, models.ErrSendToSelf)

		_, err := svc.SendMessage(s.ctx, models.SendMessageRequest{SenderID: s.sender, ContactID: c.ID, Content: validContent})
		s.Require().ErrorIs(err, models.ErrSendToSelf)
	})
}

func (s *MessageServiceSuite) TestAnswerMessage() {
	receiver := id.NewUserID()
	pending := func() *models.Message {
		return &models.Message{ID: s.messageID, SenderID: s.sender, ReceiverID: receiver, Content: validContent, SentAt: now.Add(-time.Hour)}
	}

	s.Run("content is validated before fetching", func() {
		_, err := s.service.AnswerMessage(s.ctx, s.messageID, "abcd", receiver)
		s.Require().ErrorIs(err, models.ErrAnswerTooShort)
	})

	s.Run("only the receiver may answer", func() {
		s.mockMessages.EXPECT().FetchMessage(gomock.Any(), s.messageID).Return(pending(), nil)

		_, err := s.service.AnswerMessage(s.ctx, s.messageID, "Thanks!", id.NewUserID())
		s.Require().ErrorIs(err, models.ErrUnauthorized)
	})

	s.Run("answered message is rejected", func() {
		m := pending()
		m.Answer = &models.Answer{ID: id.NewAnswerID(), MessageID: m.ID, Content: "first"}
		s.mockMessages.EXPECT().FetchMessage(gomock.Any(), s.messageID).Return(m, nil)

		_, err := s.service.AnswerMessage(s.ctx, s.messageID, "Thanks!", receiver)
		s.Require().ErrorIs(err, models.ErrAlreadyAnswered)
	})

	s.Run("receiver answers once", func() {
		s.mockMessages.EXPECT().FetchMessage(gomock.Any(), s.messageID).Return(pending(), nil)
		s.mockMessages.EXPECT().AnswerMessage(gomock.Any(), s.messageID, &models.Answer{
			ID:         s.answerID,
			MessageID:  s.messageID,
			Content:    "  Thanks!  ",
			AnsweredAt: now,
		}).DoAndReturn(func(_ context.Context, _ id.MessageID, a *models.Answer) (*models.Message, error) {
			m := pending()
			m.Answer = a
			return m, nil
		})
		s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		m, err := s.service.AnswerMessage(s.ctx, s.messageID, "  Thanks!  ", receiver)

		s.Require().NoError(err)
		s.Equal(models.StatusAnswered, m.Status())
		s.Equal("  Thanks!  ", m.Answer.Content)
	})

	s.Run("lost race reported by the store passes through", func() {
		s.mockMessages.EXPECT().FetchMessage(gomock.Any(), s.messageID).Return(pending(), nil)
		s.mockMessages.EXPECT().AnswerMessage(gomock.Any(), s.messageID, gomock.Any()).Return(nil, models.ErrAlreadyAnswered)

		_, err := s.service.AnswerMessage(s.ctx, s.messageID, "Thanks!", receiver)
		s.Require().ErrorIs(err, models.ErrAlreadyAnswered)
	})
}

func (s *MessageServiceSuite) TestFetchMessageHistory() {
	at := func(h int) time.Time { return now.Add(time.Duration(-h) * time.Hour) }
	m1 := &models.Message{ID: id.NewMessageID(), SentAt: at(3)}
	m2 := &models.Message{ID: id.NewMessageID(), SentAt: at(1), Answer: &models.Answer{Content: "ok!!!"}}
	m3 := &models.Message{ID: id.NewMessageID(), SentAt: at(2)}
	all := func() []*models.Message { return []*models.Message{m1, m2, m3} }

	s.Run("sent is ordered newest first", func() {
		s.mockMessages.EXPECT().FetchSentMessages(gomock.Any(), s.sender).Return(all(), nil)

		got, err := s.service.FetchMessageHistory(s.ctx, s.sender, models.Sent)
		s.Require().NoError(err)
		s.Equal([]*models.Message{m2, m3, m1}, got)
	})

	s.Run("received uses the received query", func() {
		s.mockMessages.EXPECT().FetchReceivedMessages(gomock.Any(), s.sender).Return(all(), nil)

		got, err := s.service.FetchMessageHistory(s.ctx, s.sender, models.Received)
		s.Require().NoError(err)
		s.Len(got, 3)
	})

	s.Run("contact history uses the contact query", func() {
		contactID := id.NewContactID()
		s.mockMessages.EXPECT().FetchMessagesForContact(gomock.Any(), contactID).Return([]*models.Message{m1}, nil)

		got, err := s.service.FetchMessageHistory(s.ctx, s.sender, models.ForContact(contactID))
		s.Require().NoError(err)
		s.Equal([]*models.Message{m1}, got)
	})

	s.Run("answered filter", func() {
		s.mockMessages.EXPECT().FetchSentMessages(gomock.Any(), s.sender).Return(all(), nil)

		got, err := s.service.FetchAnsweredMessages(s.ctx, s.sender, models.Sent)
		s.Require().NoError(err)
		s.Equal([]*models.Message{m2}, got)
	})

	s.Run("pending filter keeps order", func() {
		s.mockMessages.EXPECT().FetchSentMessages(gomock.Any(), s.sender).Return(all(), nil)

		got, err := s.service.FetchPendingMessages(s.ctx, s.sender, models.Sent)
		s.Require().NoError(err)
		s.Equal([]*models.Message{m3, m1}, got)
	})

	s.Run("window is inclusive", func() {
		s.mockMessages.EXPECT().FetchSentMessages(gomock.Any(), s.sender).Return(all(), nil)

		got, err := s.service.FetchMessagesBetween(s.ctx, s.sender, models.Sent, at(2), at(1))
		s.Require().NoError(err)
		s.Equal([]*models.Message{m2, m3}, got)
	})

	s.Run("store error passes through", func() {
		storeErr := errors.New("timeout")
		s.mockMessages.EXPECT().FetchSentMessages(gomock.Any(), s.sender).Return(nil, storeErr)

		_, err := s.service.FetchMessageHistory(s.ctx, s.sender, models.Sent)
		s.Same(storeErr, err)
	})
}
