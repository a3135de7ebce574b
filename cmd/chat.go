package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/similvitoria/IC-IA-LLMChatbot/internal/bot"
	"github.com/similvitoria/IC-IA-LLMChatbot/internal/extract"
	"github.com/similvitoria/IC-IA-LLMChatbot/internal/extract/gemini"
	"github.com/similvitoria/IC-IA-LLMChatbot/internal/jobs"
	"github.com/similvitoria/IC-IA-LLMChatbot/internal/logger"
	"github.com/similvitoria/IC-IA-LLMChatbot/internal/match"
	"github.com/similvitoria/IC-IA-LLMChatbot/internal/recorder"
	"github.com/similvitoria/IC-IA-LLMChatbot/internal/secrets"
	"github.com/similvitoria/IC-IA-LLMChatbot/internal/session"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	defaultSessionsDB      = "sessions.db"
	defaultApplicationsDir = "applications"
	defaultExtractTimeout  = 15 * time.Second
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Run the interactive intake conversation",
	Run: func(cmd *cobra.Command, _ []string) {
		chat(cmd)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringP("identity", "i", "local", "identity the conversation belongs to (e.g. a phone number)")
	chatCmd.Flags().Bool("memory", false, "keep sessions in memory instead of the sqlite database")
	chatCmd.Flags().String("jobs-file", "", "CSV file with the job-posting corpus")

	viper.BindPFlag("jobs-file", chatCmd.Flags().Lookup("jobs-file"))
}

// chat wires every component and drives the turn-by-turn console loop.
func chat(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting recruitbot", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	if config.JobsFile == "" {
		logger.Fatal("a job-posting corpus is required under jobs-file")
	}

	postings, err := jobs.LoadCSV(config.JobsFile)
	if err != nil {
		logger.Fatal("loading job postings", zap.Error(err))
	}
	logger.Info("loaded job postings", zap.Int("count", postings.Len()))

	stopWords := match.DefaultStopWords
	opts := bot.Options{ExtractTimeout: defaultExtractTimeout}
	if config.Match != nil {
		opts.TopN = config.Match.TopN
		opts.MinScore = config.Match.MinimumScore
		if len(config.Match.StopWords) > 0 {
			stopWords = config.Match.StopWords
		}
	}

	index := match.NewIndex(postings, stopWords)

	store, closeStore, err := prepareStore(cmd, config, logger)
	if err != nil {
		logger.Fatal("opening session store", zap.Error(err))
	}
	defer closeStore()

	extractor := prepareExtractor(ctx, config, logger, &opts)

	applicationsDir := config.ApplicationsDir
	if applicationsDir == "" {
		applicationsDir = defaultApplicationsDir
	}

	b := bot.New(store, extractor, index, postings, recorder.NewFileRecorder(applicationsDir), logger, opts)

	identity := cmd.Flag("identity").Value.String()
	logger.Info("conversation ready", zap.String("identity", identity))

	prompt := promptui.Prompt{Label: identity}
	for {
		text, err := prompt.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				logger.Info("exiting", zap.String("reason", "input closed"))
				return
			}
			logger.Fatal("reading input", zap.Error(err))
		}

		if strings.TrimSpace(text) == "" {
			continue
		}

		reply := b.Turn(ctx, identity, text)
		fmt.Println(reply.Text)

		if !reply.ContinueFlow {
			logger.Info("conversation finished; the next message starts a new registration")
		}
	}
}

func prepareStore(cmd *cobra.Command, config *Config, logger *zap.Logger) (session.Store, func(), error) {
	if cmd.Flag("memory").Value.String() == "true" {
		logger.Info("using in-memory sessions", zap.String("hint", "state is lost on exit"))
		return session.NewMemoryStore(), func() {}, nil
	}

	path := config.SessionsDB
	if path == "" {
		path = defaultSessionsDB
	}

	store, err := session.OpenSQLite(path, logger)
	if err != nil {
		return nil, nil, err
	}

	logger.Info("using sqlite sessions", zap.String("path", path))
	return store, func() { store.Close() }, nil
}

// prepareExtractor builds the Gemini extractor, or the disabled one when
// AI is not configured, so the conversation always has a fallback path.
func prepareExtractor(ctx context.Context, config *Config, logger *zap.Logger, opts *bot.Options) extract.Extractor {
	if config.AI == nil || !config.AI.Enabled {
		logger.Warn("ai extraction disabled; experiences will be stored as written")
		return extract.Disabled{}
	}

	provider := strings.TrimSpace(strings.ToLower(config.AI.Provider))
	if provider != "" && provider != "gemini" {
		logger.Fatal("unsupported ai provider", zap.String("provider", config.AI.Provider))
	}

	if config.AI.Gemini == nil {
		logger.Fatal("gemini configuration is required when ai is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: config.AI.Gemini.APIKeyFile,
	})
	if err != nil {
		logger.Fatal(
			"loading gemini api key",
			zap.Error(err),
			zap.String("hint", "set GEMINI_API_KEY_FILE or the ai.gemini.api-key-file key in the configuration file"),
		)
	}

	genLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", config.AI.Gemini.Model),
	)

	generator, err := gemini.NewGenerator(ctx, apiKey, config.AI.Gemini.Model, config.AI.Gemini.MaxRetries, genLogger)
	if err != nil {
		logger.Fatal("building gemini generator", zap.Error(err))
	}

	if config.AI.Gemini.TimeoutSeconds > 0 {
		opts.ExtractTimeout = time.Duration(config.AI.Gemini.TimeoutSeconds) * time.Second
	}

	return gemini.NewExtractor(generator, genLogger, config.AI.Gemini.MaxLogLength)
}
