// Package bot implements the stateful intake dialogue: it validates
// collected fields turn by turn, hands experience text to the extractor,
// matches the finished profile against the posting corpus and records the
// resulting application.
package bot

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/similvitoria/IC-IA-LLMChatbot/internal/candidate"
	"github.com/similvitoria/IC-IA-LLMChatbot/internal/extract"
	"github.com/similvitoria/IC-IA-LLMChatbot/internal/jobs"
	"github.com/similvitoria/IC-IA-LLMChatbot/internal/match"
	"github.com/similvitoria/IC-IA-LLMChatbot/internal/recorder"
	"github.com/similvitoria/IC-IA-LLMChatbot/internal/session"
	"github.com/similvitoria/IC-IA-LLMChatbot/internal/validate"
	"go.uber.org/zap"
)

// resetKeywords restart the registration from any step, case-insensitively.
var resetKeywords = []string{"restart", "reset", "start", "begin"}

const defaultExtractTimeout = 15 * time.Second

// Reply is the outcome of one turn. ContinueFlow is false once the
// conversation reached the terminal step.
type Reply struct {
	Text         string
	ContinueFlow bool
}

// Matcher ranks the posting corpus against a free-text profile.
type Matcher interface {
	Rank(query string, topN int) []match.Result
	RankCompatible(query string, topN int, minScore float64) []match.Result
}

// Options tune the matching and extraction behavior of the bot.
type Options struct {
	// TopN bounds the match list shown to the candidate.
	TopN int
	// MinScore, when positive, only offers postings at or above the
	// threshold instead of the closest ones.
	MinScore float64
	// ExtractTimeout bounds the extractor call; on expiry the fallback
	// record is used.
	ExtractTimeout time.Duration
}

// Bot drives the intake dialogue. Turns for the same identity are
// serialized; distinct identities may run concurrently.
type Bot struct {
	store     session.Store
	extractor extract.Extractor
	matcher   Matcher
	postings  *jobs.Postings
	recorder  recorder.Recorder
	logger    *zap.Logger
	opts      Options

	mu sync.Mutex
	// locks holds one mutex per identity ever seen and is never evicted,
	// matching the session store, which also keeps a row per identity.
	locks map[string]*sync.Mutex
}

func New(store session.Store, extractor extract.Extractor, matcher Matcher, postings *jobs.Postings, rec recorder.Recorder, logger *zap.Logger, opts Options) *Bot {
	if opts.TopN <= 0 {
		opts.TopN = match.DefaultTopN
	}
	if opts.ExtractTimeout <= 0 {
		opts.ExtractTimeout = defaultExtractTimeout
	}

	return &Bot{
		store:     store,
		extractor: extractor,
		matcher:   matcher,
		postings:  postings,
		recorder:  rec,
		logger:    logger,
		opts:      opts,
		locks:     make(map[string]*sync.Mutex),
	}
}

// Turn processes one inbound message for an identity and returns exactly
// one reply. The session is loaded before and saved after every turn; a
// second turn for the same identity blocks until the first completes.
func (b *Bot) Turn(ctx context.Context, identity, text string) Reply {
	lock := b.identityLock(identity)
	lock.Lock()
	defer lock.Unlock()

	sess := b.store.Load(identity)
	sess.Turns++

	reply := b.advance(ctx, &sess, strings.TrimSpace(text))

	if err := b.store.Save(identity, sess); err != nil {
		b.logger.Error("saving session",
			zap.String("identity", identity),
			zap.Error(err),
		)
	}

	b.logger.Debug("turn processed",
		zap.String("identity", identity),
		zap.String("step", string(sess.Step)),
		zap.Int("turns", sess.Turns),
	)

	return reply
}

func (b *Bot) identityLock(identity string) *sync.Mutex {
	b.mu.Lock()
	defer b.mu.Unlock()
	lock, ok := b.locks[identity]
	if !ok {
		lock = &sync.Mutex{}
		b.locks[identity] = lock
	}
	return lock
}

// fieldStep describes one scalar-collection step of the dialogue: its
// validator, where the accepted value goes and what comes next.
type fieldStep struct {
	label      string
	prompt     string
	validate   func(string) error
	assign     func(*candidate.Profile, string)
	next       session.Step
	nextPrompt string
}

var fieldSteps = map[session.Step]fieldStep{
	session.StepEmail: {
		label:      "Email",
		prompt:     promptEmail,
		validate:   validate.Email,
		assign:     func(p *candidate.Profile, v string) { p.Email = v },
		next:       session.StepName,
		nextPrompt: promptName,
	},
	session.StepName: {
		label:      "Name",
		prompt:     promptName,
		validate:   validate.FullName,
		assign:     func(p *candidate.Profile, v string) { p.FullName = v },
		next:       session.StepBirthDate,
		nextPrompt: promptBirthDate,
	},
	session.StepBirthDate: {
		label:      "Birth date",
		prompt:     promptBirthDate,
		validate:   validate.BirthDate,
		assign:     func(p *candidate.Profile, v string) { p.BirthDate = v },
		next:       session.StepPhone,
		nextPrompt: promptPhone,
	},
	session.StepPhone: {
		label:      "Phone",
		prompt:     promptPhone,
		validate:   validate.Phone,
		assign:     func(p *candidate.Profile, v string) { p.Phone = v },
		next:       session.StepExperience,
		nextPrompt: promptExperience,
	},
}

// advance runs one transition of the state machine. Any panic resets the
// session and apologizes instead of killing the process.
func (b *Bot) advance(ctx context.Context, sess *session.Session, input string) (reply Reply) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("turn failed unexpectedly", zap.Any("panic", r))
			sess.Reset()
			sess.Step = session.StepEmail
			reply = Reply{Text: msgUnexpected, ContinueFlow: true}
		}
	}()

	if isResetKeyword(input) {
		sess.Reset()
		sess.Step = session.StepEmail
		return Reply{Text: msgRestarted, ContinueFlow: true}
	}

	switch sess.Step {
	case session.StepInit, session.StepDone:
		// First contact, or a new candidacy after a finished one.
		sess.Reset()
		sess.Step = session.StepEmail
		return Reply{Text: promptEmail, ContinueFlow: true}

	case session.StepEmail, session.StepName, session.StepBirthDate, session.StepPhone:
		return b.advanceField(sess, input)

	case session.StepExperience:
		return b.advanceExperience(ctx, sess, input)

	case session.StepConfirmMore:
		return b.advanceConfirmMore(sess, input)

	case session.StepSelectJob:
		return b.advanceSelectJob(sess, input)

	default:
		b.logger.Warn("unknown step, resetting session", zap.String("step", string(sess.Step)))
		sess.Reset()
		sess.Step = session.StepEmail
		return Reply{Text: msgUnexpected, ContinueFlow: true}
	}
}

func (b *Bot) advanceField(sess *session.Session, input string) Reply {
	step := fieldSteps[sess.Step]

	if err := step.validate(input); err != nil {
		return Reply{Text: rejectField(err.Error(), step.prompt), ContinueFlow: true}
	}

	step.assign(&sess.Candidate, input)
	sess.Step = step.next
	return Reply{Text: confirmField(step.label, input, step.nextPrompt), ContinueFlow: true}
}

func (b *Bot) advanceExperience(ctx context.Context, sess *session.Session, input string) Reply {
	ctx, cancel := context.WithTimeout(ctx, b.opts.ExtractTimeout)
	defer cancel()

	notice := ""
	exp, err := b.extractor.Extract(ctx, input)
	if err != nil {
		failure := extract.AsFailure(err)
		b.logger.Warn("extraction failed, falling back to raw text",
			zap.String("kind", string(failure.Kind)),
			zap.Error(failure.Err),
		)
		exp = extract.Fallback(input)
		notice = msgExtractionNotice + "\n\n"
	}

	sess.Candidate.Experiences = append(sess.Candidate.Experiences, exp)
	sess.Step = session.StepConfirmMore
	return Reply{Text: notice + formatExperience(exp), ContinueFlow: true}
}

func (b *Bot) advanceConfirmMore(sess *session.Session, input string) Reply {
	switch strings.ToLower(input) {
	case "yes", "y", "sim":
		sess.Step = session.StepExperience
		return Reply{Text: promptNextExperience, ContinueFlow: true}

	case "no", "n", "não", "nao":
		last, ok := sess.Candidate.LastExperience()
		if !ok {
			// Cannot happen through normal transitions.
			sess.Step = session.StepExperience
			return Reply{Text: promptExperience, ContinueFlow: true}
		}

		results := b.rank(last.SearchText())
		if len(results) == 0 {
			sess.Step = session.StepDone
			sess.LastMatches = nil
			ref, err := b.record(sess.Candidate, "")
			return Reply{Text: formatFinishedWithoutJob(ref, err), ContinueFlow: false}
		}

		sess.LastMatches = results
		sess.Step = session.StepSelectJob
		return Reply{Text: formatMatches(results, b.postings), ContinueFlow: true}

	default:
		return Reply{Text: msgYesNo, ContinueFlow: true}
	}
}

func (b *Bot) advanceSelectJob(sess *session.Session, input string) Reply {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n < 1 || n > len(sess.LastMatches) {
		return Reply{Text: msgInvalidSelection, ContinueFlow: true}
	}

	chosen := sess.LastMatches[n-1]
	title := chosen.JobID
	if posting := b.postings.FindByID(chosen.JobID); posting != nil {
		title = posting.Title
	}

	ref, recordErr := b.record(sess.Candidate, chosen.JobID)
	sess.Step = session.StepDone
	return Reply{Text: formatApplied(title, ref, recordErr), ContinueFlow: false}
}

func (b *Bot) rank(query string) []match.Result {
	if b.opts.MinScore > 0 {
		return b.matcher.RankCompatible(query, b.opts.TopN, b.opts.MinScore)
	}
	return b.matcher.Rank(query, b.opts.TopN)
}

// record wraps the recorder so its failure only ever surfaces as a reply
// caveat.
func (b *Bot) record(profile candidate.Profile, jobID string) (string, error) {
	ref, err := b.recorder.Record(profile, jobID)
	if err != nil {
		b.logger.Error("recording application",
			zap.String("job_id", jobID),
			zap.Error(err),
		)
	}
	return ref, err
}

func isResetKeyword(input string) bool {
	for _, keyword := range resetKeywords {
		if strings.EqualFold(input, keyword) {
			return true
		}
	}
	return false
}
