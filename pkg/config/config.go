// Package config loads the YAML configuration with environment variable
// expansion and defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Feeds struct {
		URLs       []string      `yaml:"urls" json:"urls" jsonschema:"required,description=RSS/Atom feed URLs to pull candidates from"`
		Timeout    time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Per-feed fetch timeout"`
		MaxWorkers int           `yaml:"max_workers" json:"max_workers" jsonschema:"default=5,description=Concurrent feed fetches"`
		Blacklist  []string      `yaml:"blacklist" json:"blacklist" jsonschema:"description=URL substrings that exclude a candidate"`
	} `yaml:"feeds" json:"feeds" jsonschema:"description=Feed fetching configuration"`

	Relevance struct {
		Keywords          []string       `yaml:"keywords" json:"keywords" jsonschema:"required,description=Relevance vocabulary matched against title and description"`
		MinMatches        int            `yaml:"min_matches" json:"min_matches" jsonschema:"default=1,description=Keywords required to admit a candidate"`
		MinMatchesPerFeed map[string]int `yaml:"min_matches_per_feed" json:"min_matches_per_feed" jsonschema:"description=Per-feed overrides of min_matches keyed by feed URL"`
	} `yaml:"relevance" json:"relevance" jsonschema:"description=Admission relevance configuration"`

	Rotation struct {
		Window int `yaml:"window" json:"window" jsonschema:"default=4,description=How many recent publications a source must stay out of"`
	} `yaml:"rotation" json:"rotation" jsonschema:"description=Source rotation configuration"`

	RateRules []RateRule `yaml:"rate_rules" json:"rate_rules" jsonschema:"description=Per-domain minimum publication intervals"`

	Balance struct {
		Window     time.Duration `yaml:"window" json:"window" jsonschema:"default=168h,description=Rolling history window for topic shares"`
		Categories []Category    `yaml:"categories" json:"categories" jsonschema:"description=Target tag categories with desired shares"`
	} `yaml:"balance" json:"balance" jsonschema:"description=Topic balance configuration"`

	Uniqueness struct {
		TitleThreshold float64 `yaml:"title_threshold" json:"title_threshold" jsonschema:"default=0.6,description=Title similarity ratio treated as a near-duplicate"`
	} `yaml:"uniqueness" json:"uniqueness" jsonschema:"description=Uniqueness guard configuration"`

	Images struct {
		MinWidth       int      `yaml:"min_width" json:"min_width" jsonschema:"default=200,description=Minimum image width when dimensions are declared"`
		MinHeight      int      `yaml:"min_height" json:"min_height" jsonschema:"default=200,description=Minimum image height when dimensions are declared"`
		BannedPatterns []string `yaml:"banned_patterns" json:"banned_patterns" jsonschema:"description=URL/alt substrings marking branding or ads"`
		MaxPerPage     int      `yaml:"max_per_page" json:"max_per_page" jsonschema:"default=3,description=In-article images scraped per page"`
	} `yaml:"images" json:"images" jsonschema:"description=Image selection configuration"`

	LLM LLMConfig `yaml:"llm" json:"llm" jsonschema:"description=LLM rewriting configuration"`

	Telegram struct {
		Token       string        `yaml:"token" json:"token" jsonschema:"description=Bot token (use environment variable)"`
		ChatID      string        `yaml:"chat_id" json:"chat_id" jsonschema:"description=Channel chat id"`
		AdminChatID string        `yaml:"admin_chat_id" json:"admin_chat_id" jsonschema:"description=Optional chat for zero-success monitoring notifications"`
		Timeout     time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Send timeout"`
	} `yaml:"telegram" json:"telegram" jsonschema:"description=Telegram channel sink"`

	Extraction struct {
		Timeout   time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Page fetch/extract timeout"`
		UserAgent string        `yaml:"user_agent" json:"user_agent" jsonschema:"description=User agent for article page requests"`
		MaxChars  int           `yaml:"max_chars" json:"max_chars" jsonschema:"default=5000,description=Extracted text cap"`
		MinChars  int           `yaml:"min_chars" json:"min_chars" jsonschema:"default=300,description=Shorter extractions count as fetch failures"`
	} `yaml:"extraction" json:"extraction" jsonschema:"description=Content extraction configuration"`

	Site struct {
		OutputDir string `yaml:"output_dir" json:"output_dir" jsonschema:"default=public_html,description=Root of the generated static site"`
		BaseURL   string `yaml:"base_url" json:"base_url" jsonschema:"description=Public base URL for canonical links"`
	} `yaml:"site" json:"site" jsonschema:"description=Blog sink configuration"`

	Pipeline struct {
		Source      string `yaml:"source" json:"source" jsonschema:"default=repost,description=Source label stamped on posts"`
		Audience    string `yaml:"audience" json:"audience" jsonschema:"description=Audience label stamped on log records"`
		MaxAttempts int    `yaml:"max_attempts" json:"max_attempts" jsonschema:"default=40,description=Ordered candidates tried per run"`
	} `yaml:"pipeline" json:"pipeline" jsonschema:"description=Coordinator configuration"`

	State struct {
		Dir string `yaml:"dir" json:"dir" jsonschema:"default=.state,description=Directory for the JSON state files"`
	} `yaml:"state" json:"state" jsonschema:"description=State store configuration"`

	Library struct {
		PruneMinScore  int      `yaml:"prune_min_score" json:"prune_min_score" jsonschema:"description=Library entries scored below are pruned (0 disables)"`
		PruneMinImages int      `yaml:"prune_min_images" json:"prune_min_images" jsonschema:"description=Library entries with fewer images are pruned (0 disables)"`
		BlockedPhrases []string `yaml:"blocked_phrases" json:"blocked_phrases" jsonschema:"description=Titles containing any phrase are pruned"`
	} `yaml:"library" json:"library" jsonschema:"description=Library retention configuration"`
}

// RateRule is a per-domain minimum publication interval
type RateRule struct {
	Domain      string        `yaml:"domain" json:"domain" jsonschema:"required,description=Domain the rule applies to"`
	MinInterval time.Duration `yaml:"min_interval" json:"min_interval" jsonschema:"required,description=Minimum interval between posts from this domain"`
}

// Category is a target tag category for topic balancing
type Category struct {
	Name     string   `yaml:"name" json:"name" jsonschema:"required,description=Category tag name"`
	Share    float64  `yaml:"share" json:"share" jsonschema:"required,minimum=0,maximum=1,description=Target share of publications"`
	Keywords []string `yaml:"keywords" json:"keywords" jsonschema:"description=Keywords mapping content to this category"`
}

// LLMConfig holds LLM configuration for post rewriting
type LLMConfig struct {
	Endpoint      string        `yaml:"endpoint" json:"endpoint" jsonschema:"required,description=OpenAI-compatible API endpoint"`
	APIKey        string        `yaml:"api_key" json:"api_key" jsonschema:"description=API key (use environment variable)"`
	Model         string        `yaml:"model" json:"model" jsonschema:"required,description=Model name (e.g. deepseek-chat)"`
	Temperature   float64       `yaml:"temperature" json:"temperature" jsonschema:"default=0.8,description=Temperature for rewriting"`
	MaxTokens     int           `yaml:"max_tokens" json:"max_tokens" jsonschema:"default=1000,description=Maximum tokens per completion"`
	Timeout       time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=60s,description=Request timeout"`
	LongPrompt    string        `yaml:"long_prompt" json:"long_prompt" jsonschema:"description=System prompt for the blog form (optional)"`
	ShortPrompt   string        `yaml:"short_prompt" json:"short_prompt" jsonschema:"description=System prompt for the channel form (optional)"`
	ShortMaxChars int           `yaml:"short_max_chars" json:"short_max_chars" jsonschema:"default=900,description=Channel form length budget"`
	InputMaxChars int           `yaml:"input_max_chars" json:"input_max_chars" jsonschema:"default=4000,description=Source text cap passed to the model"`
}

// Load reads configuration from a YAML file with env expansion and defaults
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Feeds.Timeout == 0 {
		cfg.Feeds.Timeout = 30 * time.Second
	}
	if cfg.Feeds.MaxWorkers == 0 {
		cfg.Feeds.MaxWorkers = 5
	}
	if cfg.Relevance.MinMatches == 0 {
		cfg.Relevance.MinMatches = 1
	}
	if cfg.Rotation.Window == 0 {
		cfg.Rotation.Window = 4
	}
	if cfg.Balance.Window == 0 {
		cfg.Balance.Window = 168 * time.Hour
	}
	if cfg.Uniqueness.TitleThreshold == 0 {
		cfg.Uniqueness.TitleThreshold = 0.6
	}
	if cfg.Images.MinWidth == 0 {
		cfg.Images.MinWidth = 200
	}
	if cfg.Images.MinHeight == 0 {
		cfg.Images.MinHeight = 200
	}
	if cfg.Images.MaxPerPage == 0 {
		cfg.Images.MaxPerPage = 3
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.8
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 1000
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = 60 * time.Second
	}
	if cfg.LLM.ShortMaxChars == 0 {
		cfg.LLM.ShortMaxChars = 900
	}
	if cfg.LLM.InputMaxChars == 0 {
		cfg.LLM.InputMaxChars = 4000
	}
	if cfg.Telegram.Timeout == 0 {
		cfg.Telegram.Timeout = 30 * time.Second
	}
	if cfg.Extraction.Timeout == 0 {
		cfg.Extraction.Timeout = 30 * time.Second
	}
	if cfg.Extraction.MaxChars == 0 {
		cfg.Extraction.MaxChars = 5000
	}
	if cfg.Extraction.MinChars == 0 {
		cfg.Extraction.MinChars = 300
	}
	if cfg.Site.OutputDir == "" {
		cfg.Site.OutputDir = "public_html"
	}
	if cfg.Pipeline.Source == "" {
		cfg.Pipeline.Source = "repost"
	}
	if cfg.Pipeline.MaxAttempts == 0 {
		cfg.Pipeline.MaxAttempts = 40
	}
	if cfg.State.Dir == "" {
		cfg.State.Dir = ".state"
	}
}

// validate checks configuration for correctness; missing secrets abort the
// run before any candidate is attempted
func validate(cfg *Config) error {
	if len(cfg.Feeds.URLs) == 0 {
		return fmt.Errorf("feeds.urls is required")
	}
	if len(cfg.Relevance.Keywords) == 0 {
		return fmt.Errorf("relevance.keywords is required")
	}
	if cfg.LLM.Endpoint == "" {
		return fmt.Errorf("llm.endpoint is required")
	}
	if cfg.LLM.Model == "" {
		return fmt.Errorf("llm.model is required")
	}
	if cfg.LLM.APIKey == "" {
		return fmt.Errorf("llm.api_key is required")
	}
	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be between 0 and 2")
	}
	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram.token is required")
	}
	if cfg.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	if cfg.Uniqueness.TitleThreshold < 0 || cfg.Uniqueness.TitleThreshold > 1 {
		return fmt.Errorf("uniqueness.title_threshold must be between 0 and 1")
	}
	var totalShare float64
	for _, cat := range cfg.Balance.Categories {
		if cat.Name == "" {
			return fmt.Errorf("balance category without a name")
		}
		totalShare += cat.Share
	}
	if len(cfg.Balance.Categories) > 0 && totalShare > 1.001 {
		return fmt.Errorf("balance category shares add up to more than 1")
	}
	return nil
}

// StateFile returns the path of a named state file under the state directory
func (c *Config) StateFile(name string) string {
	return filepath.Join(c.State.Dir, name)
}

// GetLLMConfig returns LLM configuration
func (c *Config) GetLLMConfig() LLMConfig {
	return c.LLM
}
