package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/repost/pkg/blog"
	"github.com/umputun/repost/pkg/config"
	"github.com/umputun/repost/pkg/content"
	"github.com/umputun/repost/pkg/feed"
	"github.com/umputun/repost/pkg/llm"
	"github.com/umputun/repost/pkg/notify"
	"github.com/umputun/repost/pkg/pipeline"
	"github.com/umputun/repost/pkg/store"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"f" long:"config" env:"CONFIG" default:"config.yml" description:"config file"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	setupLog(opts.Debug)

	log.Printf("[INFO] starting repost version %s", revision)

	cfg, err := config.Load(opts.Config)
	if err != nil {
		log.Printf("[ERROR] configuration failed: %v", err)
		os.Exit(1)
	}
	setupLog(opts.Debug, cfg.Telegram.Token, cfg.LLM.APIKey) // keep secrets out of logs

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	err = run(ctx, cfg)
	cancel()

	if err != nil {
		log.Printf("[ERROR] run failed: %v", err)
		os.Exit(1)
	}

	log.Print("[INFO] run complete")
}

// run executes one pipeline invocation: fetch, aggregate, admit, balance and
// coordinate the publish. At most one post is committed per run.
func run(ctx context.Context, cfg *config.Config) error {
	stores, err := loadStores(cfg)
	if err != nil {
		return err
	}

	// retention pass over the uniqueness library, persisted right away so the
	// prune survives a run with no commit
	dropped := stores.Library.Prune(store.PruneOptions{
		MinScore:       cfg.Library.PruneMinScore,
		MinImages:      cfg.Library.PruneMinImages,
		BlockedPhrases: cfg.Library.BlockedPhrases,
	})
	if dropped > 0 {
		if err := stores.Library.Save(); err != nil {
			return fmt.Errorf("save pruned library: %w", err)
		}
	}

	fetcher := feed.NewFetcher(cfg.Feeds.Timeout, cfg.Extraction.UserAgent, cfg.Feeds.MaxWorkers)
	results := fetcher.FetchAll(ctx, cfg.Feeds.URLs)

	aggregator := &feed.Aggregator{Processed: stores.Processed, Blacklist: cfg.Feeds.Blacklist}
	candidates := aggregator.Aggregate(results)
	lgr.Printf("[INFO] %d candidates after aggregation from %d feeds", len(candidates), len(cfg.Feeds.URLs))

	now := time.Now()
	admission := &pipeline.Admission{
		Keywords:       cfg.Relevance.Keywords,
		MinMatches:     cfg.Relevance.MinMatches,
		PerSourceMin:   cfg.Relevance.MinMatchesPerFeed,
		RotationWindow: cfg.Rotation.Window,
		RateRules:      rateRules(cfg),
	}
	admitted := admission.Admit(candidates, stores.Log.Records(), now)
	lgr.Printf("[INFO] %d candidates admitted", len(admitted))

	balancer := &pipeline.Balancer{Categories: categories(cfg), Window: cfg.Balance.Window}
	ordered := balancer.Reorder(admitted, stores.Log.Records(), now)

	extractor := content.NewExtractor(cfg.Extraction.Timeout, cfg.Extraction.UserAgent, cfg.Extraction.MaxChars)
	finder := content.NewImageFinder(extractor, cfg.Images.MaxPerPage)
	rewriter := llm.NewRewriter(cfg.LLM)
	telegram := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID, cfg.Telegram.Timeout)

	pages, err := blog.NewPageGenerator(cfg.Site.OutputDir, cfg.Site.BaseURL)
	if err != nil {
		return fmt.Errorf("page generator: %w", err)
	}

	coordinator := pipeline.NewCoordinator(pipeline.Params{
		Extractor:  extractor,
		Images:     finder,
		Rewriter:   rewriter,
		Notifier:   telegram,
		Pages:      pages,
		Downloader: blog.NewDownloader(cfg.Site.OutputDir, cfg.Extraction.Timeout),
		Stores:     stores,
		Guard:      &pipeline.Guard{TitleThreshold: cfg.Uniqueness.TitleThreshold},
		Selector: &pipeline.ImageSelector{
			MinWidth:       cfg.Images.MinWidth,
			MinHeight:      cfg.Images.MinHeight,
			BannedPatterns: cfg.Images.BannedPatterns,
		},
		Classifier: &pipeline.KeywordClassifier{Categories: categories(cfg)},
		Source:       cfg.Pipeline.Source,
		Audience:     cfg.Pipeline.Audience,
		MaxAttempts:  cfg.Pipeline.MaxAttempts,
		MinTextChars: cfg.Extraction.MinChars,
	})

	res, err := coordinator.Run(ctx, ordered)
	if err != nil {
		return fmt.Errorf("coordinator: %w", err)
	}

	processed := 0
	if res.Committed {
		processed = 1
	}
	lgr.Printf("[INFO] processed: %d (attempts %d, partial %v)", processed, res.Attempts, res.Partial)

	if !res.Committed && cfg.Telegram.AdminChatID != "" {
		msg := fmt.Sprintf("repost: no publication after %d attempts", res.Attempts)
		if err := telegram.SendMessage(ctx, cfg.Telegram.AdminChatID, msg); err != nil {
			lgr.Printf("[WARN] monitoring notification failed: %v", err)
		}
	}
	return nil
}

// loadStores opens all persisted registries
func loadStores(cfg *config.Config) (pipeline.Stores, error) {
	stores := pipeline.Stores{
		Processed: store.NewProcessedSet(cfg.StateFile("processed.json")),
		Library:   store.NewLibrary(cfg.StateFile("content_library.json")),
		Recent:    store.NewRecentWindow(cfg.StateFile("telegram_recent.json")),
		Log:       store.NewPublicationLog(cfg.StateFile("publication_log.json")),
		Corpus:    store.NewCorpus(filepath.Join(cfg.Site.OutputDir, "blog-posts.json")),
	}

	for name, loader := range map[string]interface{ Load() error }{
		"processed set":   stores.Processed,
		"library":         stores.Library,
		"recent window":   stores.Recent,
		"publication log": stores.Log,
		"corpus":          stores.Corpus,
	} {
		if err := loader.Load(); err != nil {
			return stores, fmt.Errorf("load %s: %w", name, err)
		}
	}
	return stores, nil
}

func rateRules(cfg *config.Config) []pipeline.RateRule {
	rules := make([]pipeline.RateRule, 0, len(cfg.RateRules))
	for _, r := range cfg.RateRules {
		rules = append(rules, pipeline.RateRule{Domain: r.Domain, MinInterval: r.MinInterval})
	}
	return rules
}

func categories(cfg *config.Config) []pipeline.Category {
	cats := make([]pipeline.Category, 0, len(cfg.Balance.Categories))
	for _, c := range cfg.Balance.Categories {
		cats = append(cats, pipeline.Category{Name: c.Name, Share: c.Share, Keywords: c.Keywords})
	}
	return cats
}

func setupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
