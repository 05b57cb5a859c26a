package testutil

import "testing"

// Given, When and Then run fn as a named subtest. Steps share the parent's
// state, so once one fails the rest of the flow is skipped rather than
// reporting failures that only follow from it.
func Given(t *testing.T, desc string, fn func(t *testing.T)) bool {
	t.Helper()
	return step(t, "Given", desc, fn)
}

func When(t *testing.T, desc string, fn func(t *testing.T)) bool {
	t.Helper()
	return step(t, "When", desc, fn)
}

func Then(t *testing.T, desc string, fn func(t *testing.T)) bool {
	t.Helper()
	return step(t, "Then", desc, fn)
}

func step(t *testing.T, keyword, desc string, fn func(t *testing.T)) bool {
	t.Helper()
	name := keyword + " " + desc
	if t.Failed() {
		t.Logf("skipping %q after an earlier step failed", name)
		return false
	}
	return t.Run(name, fn)
}
