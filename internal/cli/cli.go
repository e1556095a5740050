// Package cli implements the prepdeck command-line interface.
//
// Commands lay out course roadmaps, generate courses and explanations with
// the configured model, browse a course in the terminal, prepare for
// interviews, and serve the HTTP API. The CLI is built on cobra and logs
// with charmbracelet/log; --verbose (-v) switches to debug output.
//
// # Commands
//
//   - roadmap: lay out and render a course file or stored course
//   - generate: generate a course with the model and store it
//   - courses: list, show and delete stored courses
//   - explain: explain a module or topic in the terminal
//   - browse: interactive roadmap browser
//   - categories, questions, evaluate: interview preparation
//   - serve: run the HTTP API
//   - cache, config, completion: housekeeping
package cli

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/prepdeck/prepdeck/internal/config"
	"github.com/prepdeck/prepdeck/pkg/cache"
	errs "github.com/prepdeck/prepdeck/pkg/errors"
	"github.com/prepdeck/prepdeck/pkg/generate"
	"github.com/prepdeck/prepdeck/pkg/interview"
	"github.com/prepdeck/prepdeck/pkg/pipeline"
	"github.com/prepdeck/prepdeck/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	out        io.Writer // command output
	errOut     io.Writer // logs and spinners
	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance writing logs to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		out:    os.Stdout,
		errOut: w,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetOutput redirects command output, which defaults to stdout.
func (c *CLI) SetOutput(w io.Writer) {
	c.out = w
}

// config loads .env, the config file and the environment once.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

// =============================================================================
// Backends
// =============================================================================

// backends bundles what a command needs from the configuration.
type backends struct {
	runner  *pipeline.Runner
	service *generate.Service // nil when no API key is configured
	// genKeyer scopes generated content by model.
	genKeyer cache.Keyer
}

// Close releases the cache and the store.
func (b *backends) Close() error {
	return b.runner.Close()
}

// openOpts selects optional backends.
type openOpts struct {
	noCache       bool
	needGenerator bool
}

// open builds the runner, and the generation service when an API key is
// configured. needGenerator turns a missing key into an error.
func (c *CLI) open(ctx context.Context, opts openOpts) (*backends, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}

	ch, err := c.openCache(ctx, cfg, opts.noCache)
	if err != nil {
		return nil, err
	}
	st, err := c.openStore(ctx, cfg)
	if err != nil {
		_ = ch.Close()
		return nil, err
	}

	b := &backends{}
	runnerOpts := []pipeline.RunnerOption{pipeline.WithStore(st)}
	if cfg.Generator.APIKey != "" || opts.needGenerator {
		gen, err := c.newGenerator(ctx, cfg)
		if err != nil {
			_ = ch.Close()
			_ = st.Close()
			return nil, err
		}
		b.genKeyer = cache.NewScopedKeyer(nil, cfg.Generator.Model+":")
		b.service = generate.NewService(gen,
			generate.WithCache(ch, b.genKeyer),
			generate.WithLogger(c.Logger))
		runnerOpts = append(runnerOpts, pipeline.WithService(b.service))
	}
	b.runner = pipeline.NewRunner(ch, nil, c.Logger, runnerOpts...)
	return b, nil
}

func (c *CLI) openCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		return cache.NewRedisCacheFromURL(ctx, cfg.Cache.RedisURL, cfg.Cache.Prefix)
	default:
		dir, err := cfg.CacheDir()
		if err != nil {
			c.Logger.Warn("caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

func (c *CLI) openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		return store.NewMemoryStore(), nil
	case config.BackendMongo:
		return store.NewMongoStore(ctx, cfg.Store.MongoURI, cfg.Store.Database)
	default:
		return store.NewFileStore(cfg.Store.Dir)
	}
}

func (c *CLI) newGenerator(ctx context.Context, cfg *config.Config) (generate.Generator, error) {
	if cfg.Generator.APIKey == "" {
		return nil, errs.New(errs.ErrCodeInvalidConfig,
			"no API key: set %s or %s, or generator.api_key in the config file", config.EnvAPIKey, config.EnvGeminiAPIKey)
	}
	return generate.NewGemini(ctx, cfg.Generator.APIKey, cfg.Generator.Model)
}

// newBank builds a question bank on the configured generator, sharing the
// cache of b.
func (c *CLI) newBank(b *backends) *interview.Bank {
	return interview.NewBank(b.service.Generator(),
		interview.WithBankCache(b.runner.Cache, b.genKeyer),
		interview.WithBankLogger(c.Logger))
}

// isNotFound reports whether err means a missing course, so callers can
// suggest how to create it.
func isNotFound(err error) bool {
	return errs.IsNotFound(err) || errors.Is(err, os.ErrNotExist)
}
