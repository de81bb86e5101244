package core

import "testing"

func TestNewExecutionEnvDefaultsNoopBar(t *testing.T) {
	env := NewExecutionEnv(true, false, "", false, false, nil)
	if env.Bar == nil {
		t.Fatalf("expected a non-nil default Bar")
	}
	if !env.Dry {
		t.Fatalf("expected Dry to carry through")
	}
	if env.TStart.IsZero() {
		t.Fatalf("expected TStart to be stamped at construction")
	}
}

func TestExecutionEnvFinishStampsTEnd(t *testing.T) {
	env := NewExecutionEnv(false, true, "reports", true, true, nil)
	if !env.TEnd.IsZero() {
		t.Fatalf("expected TEnd to be zero before Finish")
	}
	env.Finish()
	if env.TEnd.IsZero() {
		t.Fatalf("expected Finish to stamp TEnd")
	}
	if env.TEnd.Before(env.TStart) {
		t.Fatalf("expected TEnd not to precede TStart")
	}
}
