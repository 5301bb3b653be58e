package scheduler

import (
	"testing"

	"github.com/olegiv/sotorko-go/internal/testutil"
)

func TestRegisterValidatesSchedule(t *testing.T) {
	s := New(testutil.TestLogger())

	if err := s.Register(Job{Name: "ok", Schedule: "*/5 * * * *", Run: func() {}}); err != nil {
		t.Errorf("valid schedule rejected: %v", err)
	}
	if err := s.Register(Job{Name: "bad", Schedule: "not a schedule", Run: func() {}}); err == nil {
		t.Error("invalid schedule accepted")
	}
}

func TestStartStop(t *testing.T) {
	s := New(testutil.TestLogger())

	if err := s.Register(Job{Name: "noop", Schedule: "* * * * *", Run: func() {}}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	s.Start()
	s.Stop()
}
