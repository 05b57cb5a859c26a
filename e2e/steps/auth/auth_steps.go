package auth

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	"anonmsg/internal/app"
	usermodels "anonmsg/internal/user/models"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	App() *app.App
	Session(name string) context.Context
	RememberUser(name, email string, u *usermodels.User)
	Email(name string) string
	SetResult(err error)
}

// RegisterSteps registers authentication-related step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &authSteps{tc: tc}

	ctx.Step(`^"([^"]*)" signs up with email "([^"]*)" and password "([^"]*)"$`, steps.signup)
	ctx.Step(`^"([^"]*)" signs up with email "([^"]*)", password "([^"]*)" and confirmation "([^"]*)"$`, steps.signupWithConfirmation)
	ctx.Step(`^a user "([^"]*)" is signed up$`, steps.givenUser)
	ctx.Step(`^"([^"]*)" logs in with password "([^"]*)"$`, steps.login)
	ctx.Step(`^"([^"]*)" fails to log in (\d+) times$`, steps.failLogins)
	ctx.Step(`^"([^"]*)" logs out$`, steps.logout)
	ctx.Step(`^"([^"]*)" is authenticated$`, steps.isAuthenticated)
	ctx.Step(`^"([^"]*)" is not authenticated$`, steps.isNotAuthenticated)
}

type authSteps struct {
	tc TestContext
}

func (s *authSteps) signup(ctx context.Context, name, email, password string) error {
	return s.signupWithConfirmation(ctx, name, email, password, password)
}

func (s *authSteps) signupWithConfirmation(_ context.Context, name, email, password, confirmation string) error {
	u, err := s.tc.App().Auth.Signup(s.tc.Session(name), name, email, password, confirmation)
	s.tc.SetResult(err)
	if err == nil {
		s.tc.RememberUser(name, email, u)
	}
	return nil
}

func (s *authSteps) givenUser(ctx context.Context, name string) error {
	email := name + "@example.com"
	u, err := s.tc.App().Auth.Signup(s.tc.Session(name), name, email, "secret12", "secret12")
	if err != nil {
		return fmt.Errorf("sign up %s: %w", name, err)
	}
	s.tc.RememberUser(name, email, u)
	return nil
}

func (s *authSteps) login(_ context.Context, name, password string) error {
	_, err := s.tc.App().Auth.Login(s.tc.Session(name), s.tc.Email(name), password)
	s.tc.SetResult(err)
	return nil
}

func (s *authSteps) failLogins(ctx context.Context, name string, times int) error {
	for range times {
		if err := s.login(ctx, name, "wrong-password1"); err != nil {
			return err
		}
	}
	return nil
}

func (s *authSteps) logout(_ context.Context, name string) error {
	s.tc.SetResult(s.tc.App().Auth.Logout(s.tc.Session(name)))
	return nil
}

func (s *authSteps) isAuthenticated(_ context.Context, name string) error {
	if !s.tc.App().Auth.IsAuthenticated(s.tc.Session(name)) {
		return fmt.Errorf("%s is not authenticated", name)
	}
	return nil
}

func (s *authSteps) isNotAuthenticated(_ context.Context, name string) error {
	if s.tc.App().Auth.IsAuthenticated(s.tc.Session(name)) {
		return fmt.Errorf("%s is still authenticated", name)
	}
	return nil
}
