// Package ladder parses ladder command flags and serves the game over MCP.
package ladder

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	platformcmd "github.com/louisbranch/sadari/internal/platform/cmd"
	"github.com/louisbranch/sadari/internal/services/mcp/domain"
	"github.com/louisbranch/sadari/internal/services/mcp/service"
	"github.com/louisbranch/sadari/internal/session"
	"github.com/louisbranch/sadari/internal/storage/sqlite"
)

// Config holds ladder command configuration.
type Config struct {
	ResultsDB      string        `env:"SADARI_RESULTS_DB"          envDefault:"data/results.db"`
	Transport      string        `env:"SADARI_MCP_TRANSPORT"       envDefault:"stdio"`
	HTTPAddr       string        `env:"SADARI_MCP_HTTP_ADDR"       envDefault:"localhost:8085"`
	AllowedHosts   []string      `env:"SADARI_MCP_ALLOWED_HOSTS"   envSeparator:","`
	Levels         int           `env:"SADARI_LADDER_LEVELS"       envDefault:"0"`
	Probability    float64       `env:"SADARI_LADDER_PROBABILITY"  envDefault:"0"`
	SessionIdleTTL time.Duration `env:"SADARI_SESSION_IDLE_TTL"    envDefault:"2h"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := platformcmd.ParseConfigFromArgs(&cfg, fs, args, bindFlags); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func bindFlags(fs *flag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.ResultsDB, "results-db", cfg.ResultsDB, "SQLite file for finished game results")
	fs.StringVar(&cfg.Transport, "transport", cfg.Transport, "Transport type: stdio or http")
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP server address (for HTTP transport)")
	fs.IntVar(&cfg.Levels, "levels", cfg.Levels, "rung levels per ladder (0 uses the generator default)")
	fs.Float64Var(&cfg.Probability, "probability", cfg.Probability, "rung placement probability (0 uses the generator default)")
	fs.DurationVar(&cfg.SessionIdleTTL, "session-idle-ttl", cfg.SessionIdleTTL, "forget games idle for this long (0 keeps them until ladder_end)")
}

// Run opens the result store and serves ladder games until ctx ends.
func Run(ctx context.Context, cfg Config) error {
	transport, err := service.ParseTransportKind(cfg.Transport)
	if err != nil {
		return err
	}
	if cfg.Levels < 0 {
		return fmt.Errorf("levels must not be negative, got %d", cfg.Levels)
	}
	if cfg.Probability < 0 || cfg.Probability > 1 {
		return fmt.Errorf("probability must be within [0, 1], got %v", cfg.Probability)
	}
	if cfg.SessionIdleTTL < 0 {
		return fmt.Errorf("session idle ttl must not be negative, got %s", cfg.SessionIdleTTL)
	}

	return platformcmd.RunWithTelemetry(ctx, platformcmd.ServiceLadder, func(ctx context.Context) error {
		store, err := openResultStore(cfg.ResultsDB)
		if err != nil {
			return err
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Printf("close result store: %v", err)
			}
		}()

		sessions := session.NewRegistry(session.Options{
			Levels:      cfg.Levels,
			Probability: cfg.Probability,
			Reporter:    domain.NewResultRecorder(store),
		})
		server, err := service.New(sessions, store)
		if err != nil {
			return err
		}
		sessions.StartEviction(ctx, cfg.SessionIdleTTL)

		log.Printf("serving ladder transport=%s results_db=%s session_idle_ttl=%s", transport, cfg.ResultsDB, cfg.SessionIdleTTL)
		return server.Serve(ctx, service.Config{
			Transport:    transport,
			HTTPAddr:     cfg.HTTPAddr,
			AllowedHosts: cfg.AllowedHosts,
		})
	})
}

func openResultStore(path string) (*sqlite.Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("results database path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create results directory: %w", err)
		}
	}
	store, err := sqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open results database: %w", err)
	}
	return store, nil
}
