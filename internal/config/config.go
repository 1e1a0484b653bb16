package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv = "CONTENT_PIPELINE_CONFIG"

	notionTokenEnv      = "NOTION_TOKEN"
	notionResearchDBEnv = "NOTION_RESEARCH_DB_ID"
	notionQueueDBEnv    = "NOTION_QUEUE_DB_ID"
	openAIKeyEnv        = "OPENAI_API_KEY"
	openAIModelEnv      = "OPENAI_MODEL"

	logLevelEnv = "LOG_LEVEL"

	recencyDaysEnv = "RECENCY_DAYS"
	dedupePathEnv  = "DEDUPE_DB_PATH"

	batchLimitEnv      = "BATCH_LIMIT"
	maxInputTokensEnv  = "MAX_INPUT_TOKENS"
	maxOutputTokensEnv = "MAX_OUTPUT_TOKENS"
	minExcerptCharsEnv = "MIN_EXCERPT_CHARS"

	draftMaxInputTokensEnv  = "DRAFT_MAX_INPUT_TOKENS"
	draftMaxOutputTokensEnv = "DRAFT_MAX_OUTPUT_TOKENS"
	lookbackDaysEnv         = "LOOKBACK_DAYS"
	maxSourcesEnv           = "MAX_SOURCES"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Notion    NotionConfig    `yaml:"notion"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Ingest    IngestConfig    `yaml:"ingest"`
	Summarize SummarizeConfig `yaml:"summarize"`
	Draft     DraftConfig     `yaml:"draft"`
	Scoring   ScoringConfig   `yaml:"scoring"`
	Topics    []TopicConfig   `yaml:"topics"`
}

// LoggingConfig controls handler level and format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// NotionConfig describes the hosted document store.
type NotionConfig struct {
	BaseURL      string `yaml:"baseUrl"`
	Token        string `yaml:"token"`
	ResearchDBID string `yaml:"researchDbId"`
	QueueDBID    string `yaml:"queueDbId"`
}

// OpenAIConfig defines how to contact the text-generation service.
type OpenAIConfig struct {
	APIKey string `yaml:"apiKey"`
	Model  string `yaml:"model"`
}

// IngestConfig tunes feed polling and the dedupe gate.
type IngestConfig struct {
	Feeds             []string `yaml:"feeds"`
	RecencyDays       int      `yaml:"recencyDays"`
	KeywordFilter     bool     `yaml:"keywordFilter"`
	Keywords          []string `yaml:"keywords"`
	DedupePath        string   `yaml:"dedupePath"`
	MaxMatchTextChars int      `yaml:"maxMatchTextChars"`
}

// SummarizeConfig tunes the per-candidate summarization batch.
type SummarizeConfig struct {
	BatchLimit      int `yaml:"batchLimit"`
	MaxInputTokens  int `yaml:"maxInputTokens"`
	MaxOutputTokens int `yaml:"maxOutputTokens"`
	MinExcerptChars int `yaml:"minExcerptChars"`
}

// DraftConfig tunes the weekly package build.
type DraftConfig struct {
	LookbackDays    int `yaml:"lookbackDays"`
	MaxSources      int `yaml:"maxSources"`
	MaxInputTokens  int `yaml:"maxInputTokens"`
	MaxOutputTokens int `yaml:"maxOutputTokens"`
}

// ScoringConfig holds the use-in-draft gate thresholds and the ordered
// source-quality weight table.
type ScoringConfig struct {
	MinUsefulness float64              `yaml:"minUsefulness"`
	MinConfidence float64              `yaml:"minConfidence"`
	SourceWeights []SourceWeightConfig `yaml:"sourceWeights"`
}

// SourceWeightConfig pairs a source-name fragment with a quality multiplier.
// Entries are evaluated in list order; the first fragment found in a source
// name wins.
type SourceWeightConfig struct {
	Match  string  `yaml:"match"`
	Factor float64 `yaml:"factor"`
}

// TopicConfig is one entry of the fixed weekly rotation table.
type TopicConfig struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
	Angle    string   `yaml:"angle"`
}

// Load reads YAML configuration (if present) over the defaults and applies
// environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else if err := yaml.Unmarshal(raw, &cfg); err != nil {
			log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			cfg = defaultConfig()
		}
	}

	cfg.applyEnvOverrides()

	if len(cfg.Topics) == 0 {
		cfg.Topics = defaultConfig().Topics
	}
	if len(cfg.Ingest.Feeds) == 0 {
		cfg.Ingest.Feeds = defaultConfig().Ingest.Feeds
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	overrideString(&c.Notion.Token, notionTokenEnv)
	overrideString(&c.Notion.ResearchDBID, notionResearchDBEnv)
	overrideString(&c.Notion.QueueDBID, notionQueueDBEnv)
	overrideString(&c.OpenAI.APIKey, openAIKeyEnv)
	overrideString(&c.OpenAI.Model, openAIModelEnv)
	overrideString(&c.Logging.Level, logLevelEnv)
	overrideString(&c.Ingest.DedupePath, dedupePathEnv)

	overrideInt(&c.Ingest.RecencyDays, recencyDaysEnv)
	overrideInt(&c.Summarize.BatchLimit, batchLimitEnv)
	overrideInt(&c.Summarize.MaxInputTokens, maxInputTokensEnv)
	overrideInt(&c.Summarize.MaxOutputTokens, maxOutputTokensEnv)
	overrideInt(&c.Summarize.MinExcerptChars, minExcerptCharsEnv)
	overrideInt(&c.Draft.MaxInputTokens, draftMaxInputTokensEnv)
	overrideInt(&c.Draft.MaxOutputTokens, draftMaxOutputTokensEnv)
	overrideInt(&c.Draft.LookbackDays, lookbackDaysEnv)
	overrideInt(&c.Draft.MaxSources, maxSourcesEnv)
}

func overrideString(target *string, env string) {
	if v := os.Getenv(env); v != "" {
		*target = v
	}
}

func overrideInt(target *int, env string) {
	v := os.Getenv(env)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("config: invalid %s=%q: %v (keeping %d)", env, v, err, *target)
		return
	}
	*target = n
}

// ValidateIngest checks the values the ingest entry point cannot run without.
func (c Config) ValidateIngest() error {
	return requireAll(map[string]string{
		notionTokenEnv:      c.Notion.Token,
		notionResearchDBEnv: c.Notion.ResearchDBID,
	})
}

// ValidateSummarize checks the values the summarization entry point cannot
// run without.
func (c Config) ValidateSummarize() error {
	return requireAll(map[string]string{
		notionTokenEnv:      c.Notion.Token,
		notionResearchDBEnv: c.Notion.ResearchDBID,
		openAIKeyEnv:        c.OpenAI.APIKey,
	})
}

// ValidateDraft checks the values the weekly draft entry point cannot run
// without.
func (c Config) ValidateDraft() error {
	return requireAll(map[string]string{
		notionTokenEnv:      c.Notion.Token,
		notionResearchDBEnv: c.Notion.ResearchDBID,
		notionQueueDBEnv:    c.Notion.QueueDBID,
		openAIKeyEnv:        c.OpenAI.APIKey,
	})
}

func requireAll(values map[string]string) error {
	// Deterministic order keeps the failure message stable.
	order := []string{notionTokenEnv, notionResearchDBEnv, notionQueueDBEnv, openAIKeyEnv}
	for _, name := range order {
		v, tracked := values[name]
		if tracked && v == "" {
			return fmt.Errorf("configuration: missing required environment value %s", name)
		}
	}
	return nil
}
