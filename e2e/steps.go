package e2e

import (
	"context"
	"fmt"
	"time"

	"github.com/cucumber/godog"

	"anonmsg/e2e/steps/auth"
	"anonmsg/e2e/steps/contact"
	"anonmsg/e2e/steps/message"
	dErrors "anonmsg/pkg/domain-errors"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	registerCommonSteps(ctx, tc)

	auth.RegisterSteps(ctx, tc)
	contact.RegisterSteps(ctx, tc)
	message.RegisterSteps(ctx, tc)
}

func registerCommonSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	ctx.Step(`^(\d+) days? pass(?:es)?$`, func(days int) error {
		tc.Advance(time.Duration(days) * 24 * time.Hour)
		return nil
	})
	ctx.Step(`^the request succeeds$`, func(context.Context) error {
		if err := tc.LastError(); err != nil {
			return fmt.Errorf("expected success, got %w", err)
		}
		return nil
	})
	ctx.Step(`^the request fails with "([^"]*)"$`, func(_ context.Context, kind string) error {
		err := tc.LastError()
		if err == nil {
			return fmt.Errorf("expected %s, got success", kind)
		}
		if got := dErrors.KindOf(err); got != kind {
			return fmt.Errorf("expected %s, got %s (%v)", kind, got, err)
		}
		return nil
	})
}
