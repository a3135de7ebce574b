package session

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/similvitoria/IC-IA-LLMChatbot/internal/candidate"
	"github.com/similvitoria/IC-IA-LLMChatbot/internal/match"
	"go.uber.org/zap"
)

func sampleSession() Session {
	return Session{
		Step: StepSelectJob,
		Candidate: candidate.Profile{
			Email:     "ana.silva@empresa.com",
			FullName:  "Ana Silva",
			BirthDate: "01/02/1990",
			Phone:     "(11) 91234-5678",
			Experiences: []candidate.Experience{{
				Role:             "Backend Developer",
				Responsibilities: "Built APIs",
				Skills:           []string{"go", "sql"},
				Results:          "Cut latency",
			}},
		},
		LastMatches: []match.Result{
			{JobID: "j2", Score: 0.91, Rank: 1},
			{JobID: "j1", Score: 0.44, Rank: 2},
		},
		Turns: 7,
	}
}

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "sessions.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteRoundTrip(t *testing.T) {
	store := openTestStore(t)
	want := sampleSession()

	if err := store.Save("+5511912345678", want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got := store.Load("+5511912345678")
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestSQLiteSaveOverwrites(t *testing.T) {
	store := openTestStore(t)

	first := sampleSession()
	if err := store.Save("id", first); err != nil {
		t.Fatalf("save: %v", err)
	}

	second := first
	second.Step = StepDone
	second.Turns = 8
	if err := store.Save("id", second); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	if got := store.Load("id"); got.Step != StepDone || got.Turns != 8 {
		t.Fatalf("overwrite not observed: %+v", got)
	}
}

func TestSQLiteLoadUnknownIdentity(t *testing.T) {
	store := openTestStore(t)

	got := store.Load("stranger")
	if got.Step != StepInit {
		t.Fatalf("expected fresh init session, got %+v", got)
	}
	if got.Candidate.Complete() {
		t.Fatal("fresh session should have an empty profile")
	}
}

func TestSQLiteLoadCorruptState(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.db.Exec(
		`INSERT INTO sessions (identity, state) VALUES (?, ?)`, "broken", "{not json",
	); err != nil {
		t.Fatalf("inserting corrupt row: %v", err)
	}

	if got := store.Load("broken"); got.Step != StepInit {
		t.Fatalf("corrupt state should yield a fresh session, got %+v", got)
	}
}

func TestMemoryStoreRoundTripAndIsolation(t *testing.T) {
	store := NewMemoryStore()
	want := sampleSession()

	if err := store.Save("id", want); err != nil {
		t.Fatalf("save: %v", err)
	}

	// Mutating the saved copy must not leak into the store.
	want.Candidate.Experiences[0].Role = "changed"

	got := store.Load("id")
	if got.Candidate.Experiences[0].Role != "Backend Developer" {
		t.Fatalf("store aliased caller memory: %+v", got.Candidate.Experiences[0])
	}

	if other := store.Load("other"); other.Step != StepInit {
		t.Fatalf("unknown identity should start at init, got %+v", other)
	}
}
