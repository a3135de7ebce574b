// Package session holds the per-identity conversational state and the
// stores that persist it between turns.
package session

import (
	"github.com/similvitoria/IC-IA-LLMChatbot/internal/candidate"
	"github.com/similvitoria/IC-IA-LLMChatbot/internal/match"
)

// Step is the current position in the intake dialogue.
type Step string

const (
	StepInit        Step = "init"
	StepEmail       Step = "email"
	StepName        Step = "name"
	StepBirthDate   Step = "birthdate"
	StepPhone       Step = "phone"
	StepExperience  Step = "experience"
	StepConfirmMore Step = "confirm_more"
	StepSelectJob   Step = "select_job"
	StepDone        Step = "done"
)

// Session is the persisted progress of one identity. A session is created
// on the first turn, mutated on every turn and never deleted; after a
// candidacy completes the same session can host a new one.
type Session struct {
	Step        Step              `json:"current_step"`
	Candidate   candidate.Profile `json:"candidate_data"`
	LastMatches []match.Result    `json:"last_matches,omitempty"`
	Turns       int               `json:"turns"`
}

// New returns the default session every unknown identity starts from.
func New() Session {
	return Session{Step: StepInit}
}

// Reset starts a fresh candidacy: the collected profile and matches are
// cleared and the step returns to the initial state. The turn counter
// survives, it counts the lifetime of the identity.
func (s *Session) Reset() {
	s.Step = StepInit
	s.Candidate = candidate.Profile{}
	s.LastMatches = nil
}

// Store persists sessions keyed by external identity.
//
// Load never fails from the caller's point of view: a missing, unreadable
// or corrupt entry yields a fresh default session. Save is an idempotent
// overwrite and must never leave a partial state observable by a
// subsequent Load.
type Store interface {
	Load(identity string) Session
	Save(identity string, s Session) error
}
