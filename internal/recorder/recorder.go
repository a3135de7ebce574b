// Package recorder persists finalized candidacies. Records are
// append-only: every completed conversation produces one new file.
package recorder

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/similvitoria/IC-IA-LLMChatbot/internal/candidate"
)

// Recorder stores a completed candidate profile together with the chosen
// job, if any, and returns a storage reference.
type Recorder interface {
	Record(profile candidate.Profile, jobID string) (string, error)
}

// Application is the persisted shape of one finalized candidacy.
type Application struct {
	ID          string            `json:"id"`
	JobID       string            `json:"job_id,omitempty"`
	Candidate   candidate.Profile `json:"candidate"`
	SubmittedAt time.Time         `json:"submitted_at"`
}

// FileRecorder writes one JSON file per application under a directory.
type FileRecorder struct {
	dir string
}

func NewFileRecorder(dir string) *FileRecorder {
	return &FileRecorder{dir: dir}
}

// Record implements Recorder. The filename combines the email local part,
// a timestamp and a unique id so records never collide.
func (r *FileRecorder) Record(profile candidate.Profile, jobID string) (string, error) {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("create applications directory: %w", err)
	}

	app := Application{
		ID:          uuid.NewString(),
		JobID:       jobID,
		Candidate:   profile,
		SubmittedAt: time.Now().UTC(),
	}

	name := fmt.Sprintf("%s_%s_%s.json",
		emailLocalPart(profile.Email),
		app.SubmittedAt.Format("20060102_150405"),
		app.ID[:8],
	)
	path := filepath.Join(r.dir, name)

	data, err := json.MarshalIndent(app, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal application: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write application file: %w", err)
	}

	return path, nil
}

func emailLocalPart(email string) string {
	local, _, found := strings.Cut(email, "@")
	if !found || local == "" {
		return "unknown"
	}
	return local
}
