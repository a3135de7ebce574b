package candidate

import "strings"

// Experience is one professional experience entry, produced by the
// extractor (or its fallback) from a single free-text message. Entries are
// append-only: once attached to a profile they are never edited.
type Experience struct {
	Role             string   `json:"role"`
	Responsibilities string   `json:"responsibilities"`
	Skills           []string `json:"skills"`
	Results          string   `json:"results"`
}

// SearchText concatenates the experience fields into the free-text form
// used as a matching query.
func (e Experience) SearchText() string {
	parts := []string{e.Role, e.Responsibilities, strings.Join(e.Skills, " "), e.Results}
	return strings.ToLower(strings.TrimSpace(strings.Join(parts, " ")))
}

// Profile holds everything collected from a candidate during one candidacy.
type Profile struct {
	Email       string       `json:"email,omitempty"`
	FullName    string       `json:"full_name,omitempty"`
	BirthDate   string       `json:"birth_date,omitempty"`
	Phone       string       `json:"phone,omitempty"`
	Experiences []Experience `json:"experiences,omitempty"`
}

// Complete reports whether every scalar field is set and at least one
// experience has been collected.
func (p *Profile) Complete() bool {
	return p.Email != "" &&
		p.FullName != "" &&
		p.BirthDate != "" &&
		p.Phone != "" &&
		len(p.Experiences) > 0
}

// LastExperience returns the most recently appended experience, or false
// when none exists yet.
func (p *Profile) LastExperience() (Experience, bool) {
	if len(p.Experiences) == 0 {
		return Experience{}, false
	}
	return p.Experiences[len(p.Experiences)-1], true
}
