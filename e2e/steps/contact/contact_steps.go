package contact

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	"anonmsg/internal/app"
	contactmodels "anonmsg/internal/contact/models"
	usermodels "anonmsg/internal/user/models"
	id "anonmsg/pkg/domain"
	"anonmsg/pkg/platform/patch"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	App() *app.App
	Session(name string) context.Context
	User(name string) (*usermodels.User, error)
	RememberContact(c *contactmodels.Contact)
	Contact(name string) (*contactmodels.Contact, error)
	SetResult(err error)
}

// RegisterSteps registers contact step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &contactSteps{tc: tc}

	ctx.Step(`^"([^"]*)" adds a contact named "([^"]*)"$`, steps.addContact)
	ctx.Step(`^"([^"]*)" adds (\d+) contacts$`, steps.addContacts)
	ctx.Step(`^"([^"]*)" deletes the contact "([^"]*)"$`, steps.deleteContact)
	ctx.Step(`^"([^"]*)" force deletes the contact "([^"]*)"$`, steps.forceDeleteContact)
	ctx.Step(`^"([^"]*)" renames the contact "([^"]*)" to "([^"]*)"$`, steps.renameContact)
	ctx.Step(`^"([^"]*)" has (\d+) contacts?$`, steps.hasContacts)
	ctx.Step(`^"([^"]*)" has (\d+) locked contacts?$`, steps.hasLockedContacts)
	ctx.Step(`^"([^"]*)" has (\d+) deletable contacts?$`, steps.hasDeletableContacts)
}

type contactSteps struct {
	tc TestContext
}

func (s *contactSteps) addContact(_ context.Context, owner, name string) error {
	u, err := s.tc.User(owner)
	if err != nil {
		return err
	}
	c, err := s.tc.App().Contacts.AddContact(s.tc.Session(owner), contactmodels.AddContactRequest{
		OwnerUserID: u.ID,
		Name:        name,
	})
	s.tc.SetResult(err)
	if err == nil {
		s.tc.RememberContact(c)
	}
	return nil
}

func (s *contactSteps) addContacts(ctx context.Context, owner string, n int) error {
	for i := range n {
		if err := s.addContact(ctx, owner, fmt.Sprintf("contact-%d", i+1)); err != nil {
			return err
		}
	}
	return nil
}

func (s *contactSteps) deleteContact(_ context.Context, owner, name string) error {
	c, err := s.tc.Contact(name)
	if err != nil {
		return err
	}
	s.tc.SetResult(s.tc.App().Contacts.DeleteContact(s.tc.Session(owner), c.ID))
	return nil
}

func (s *contactSteps) forceDeleteContact(_ context.Context, owner, name string) error {
	c, err := s.tc.Contact(name)
	if err != nil {
		return err
	}
	s.tc.SetResult(s.tc.App().Contacts.ForceDelete(s.tc.Session(owner), c.ID))
	return nil
}

func (s *contactSteps) renameContact(_ context.Context, owner, name, newName string) error {
	c, err := s.tc.Contact(name)
	if err != nil {
		return err
	}
	updated, err := s.tc.App().Contacts.UpdateContact(s.tc.Session(owner), c.ID, contactmodels.ContactPatch{
		Name: patch.Set(newName),
	})
	s.tc.SetResult(err)
	if err == nil {
		s.tc.RememberContact(updated)
	}
	return nil
}

func (s *contactSteps) hasContacts(_ context.Context, owner string, want int) error {
	return s.count(owner, want, s.tc.App().Contacts.FetchContacts)
}

func (s *contactSteps) hasLockedContacts(_ context.Context, owner string, want int) error {
	return s.count(owner, want, s.tc.App().Contacts.FetchLockedContacts)
}

func (s *contactSteps) hasDeletableContacts(_ context.Context, owner string, want int) error {
	return s.count(owner, want, s.tc.App().Contacts.FetchDeletableContacts)
}

func (s *contactSteps) count(owner string, want int, fetch func(context.Context, id.UserID) ([]*contactmodels.Contact, error)) error {
	u, err := s.tc.User(owner)
	if err != nil {
		return err
	}
	got, err := fetch(s.tc.Session(owner), u.ID)
	if err != nil {
		return err
	}
	if len(got) != want {
		return fmt.Errorf("expected %d contacts, got %d", want, len(got))
	}
	return nil
}
