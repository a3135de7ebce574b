package session

import "testing"

func TestNewDefaults(t *testing.T) {
	s := New()
	if s.Step != StepInit {
		t.Fatalf("expected init step, got %s", s.Step)
	}
	if s.Candidate.Complete() {
		t.Fatal("new session must start with an empty profile")
	}
}

func TestResetClearsCandidacyButKeepsTurns(t *testing.T) {
	s := sampleSession()
	s.Turns = 42

	s.Reset()

	if s.Step != StepInit {
		t.Fatalf("expected init step after reset, got %s", s.Step)
	}
	if s.Candidate.Email != "" || len(s.Candidate.Experiences) != 0 {
		t.Fatalf("profile should be cleared: %+v", s.Candidate)
	}
	if s.LastMatches != nil {
		t.Fatalf("matches should be cleared: %v", s.LastMatches)
	}
	if s.Turns != 42 {
		t.Fatalf("turn counter should survive reset, got %d", s.Turns)
	}
}
