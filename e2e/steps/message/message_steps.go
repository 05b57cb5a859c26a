package message

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	"anonmsg/internal/app"
	contactmodels "anonmsg/internal/contact/models"
	messagemodels "anonmsg/internal/message/models"
	usermodels "anonmsg/internal/user/models"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	App() *app.App
	Session(name string) context.Context
	User(name string) (*usermodels.User, error)
	Contact(name string) (*contactmodels.Contact, error)
	SetLastMessage(m *messagemodels.Message)
	LastMessage() (*messagemodels.Message, error)
	SetResult(err error)
}

// RegisterSteps registers messaging step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &messageSteps{tc: tc}

	ctx.Step(`^"([^"]*)" sends "([^"]*)" through the contact "([^"]*)"$`, steps.send)
	ctx.Step(`^"([^"]*)" answers the last message with "([^"]*)"$`, steps.answer)
	ctx.Step(`^"([^"]*)" has (\d+) pending received messages?$`, steps.pendingReceived)
	ctx.Step(`^"([^"]*)" has (\d+) answered sent messages?$`, steps.answeredSent)
}

type messageSteps struct {
	tc TestContext
}

func (s *messageSteps) send(_ context.Context, sender, content, contactName string) error {
	u, err := s.tc.User(sender)
	if err != nil {
		return err
	}
	c, err := s.tc.Contact(contactName)
	if err != nil {
		return err
	}
	m, err := s.tc.App().Messages.SendMessage(s.tc.Session(sender), messagemodels.SendMessageRequest{
		SenderID:    u.ID,
		ContactID:   c.ID,
		Content:     content,
		IsAnonymous: true,
	})
	s.tc.SetResult(err)
	if err == nil {
		s.tc.SetLastMessage(m)
	}
	return nil
}

func (s *messageSteps) answer(_ context.Context, name, content string) error {
	u, err := s.tc.User(name)
	if err != nil {
		return err
	}
	m, err := s.tc.LastMessage()
	if err != nil {
		return err
	}
	_, err = s.tc.App().Messages.AnswerMessage(s.tc.Session(name), m.ID, content, u.ID)
	s.tc.SetResult(err)
	return nil
}

func (s *messageSteps) pendingReceived(_ context.Context, name string, want int) error {
	u, err := s.tc.User(name)
	if err != nil {
		return err
	}
	got, err := s.tc.App().Messages.FetchPendingMessages(s.tc.Session(name), u.ID, messagemodels.Received)
	if err != nil {
		return err
	}
	if len(got) != want {
		return fmt.Errorf("expected %d pending messages, got %d", want, len(got))
	}
	return nil
}

func (s *messageSteps) answeredSent(_ context.Context, name string, want int) error {
	u, err := s.tc.User(name)
	if err != nil {
		return err
	}
	got, err := s.tc.App().Messages.FetchAnsweredMessages(s.tc.Session(name), u.ID, messagemodels.Sent)
	if err != nil {
		return err
	}
	if len(got) != want {
		return fmt.Errorf("expected %d answered messages, got %d", want, len(got))
	}
	return nil
}
