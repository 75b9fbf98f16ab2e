// Package wizard provides the interactive setup wizard for phonebill.
package wizard

import (
	"encoding/json"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/amurg-ai/phonebill/internal/config"
	"github.com/amurg-ai/phonebill/pkg/cli"
)

// DefaultOutputPath is where the config is written when no path is given.
const DefaultOutputPath = "./phonebill.json"

const defaultSQLitePath = "./price_plans/data_plan.db"

// Wizard drives the interactive config setup.
type Wizard struct {
	p *cli.Prompter
}

// New creates a Wizard using the given Prompter.
func New(p *cli.Prompter) *Wizard {
	return &Wizard{p: p}
}

func (w *Wizard) println(a ...any) {
	_, _ = fmt.Fprintln(w.p.Out, a...)
}

// Run executes the interactive wizard and writes the config file.
func (w *Wizard) Run(outputPath string) error {
	w.println()
	w.println("  Phonebill — Configuration Wizard")
	w.println(strings.Repeat("─", 36))
	w.println()

	cfg := &config.Config{}
	cfg.Server.ShutdownTimeout.Duration = 30 * time.Second

	w.println("Server")
	defaultPort, _ := strconv.Atoi(config.DefaultPort)
	port := w.p.AskPort("  Listen port", defaultPort)
	cfg.Server.Addr = ":" + strconv.Itoa(port)
	cfg.Server.UIStaticDir = w.p.Ask("  Front-end build directory (empty for the built-in page)", "")
	w.println()

	w.println("Storage")
	cfg.Storage.Driver = w.p.Choose("  Database driver", []string{"sqlite", "postgres"}, 0)
	switch cfg.Storage.Driver {
	case "sqlite":
		cfg.Storage.DSN = w.p.Ask("  SQLite database path", defaultSQLitePath)
	case "postgres":
		host := w.p.Ask("  PostgreSQL host", "localhost")
		pgPort := w.p.AskPort("  PostgreSQL port", 5432)
		user := w.p.Ask("  PostgreSQL user", "phonebill")
		pass := w.p.AskSecret("  PostgreSQL password")
		db := w.p.Ask("  PostgreSQL database", "phonebill")
		cfg.Storage.DSN = postgresDSN(host, pgPort, user, pass, db)
	}
	w.println()

	w.println("Logging")
	cfg.Logging.Level = w.p.Choose("  Log level", []string{"debug", "info", "warn", "error"}, 1)
	cfg.Logging.Format = w.p.Choose("  Log format", []string{"json", "text"}, 0)
	w.println()

	w.println("Metrics")
	enabled := w.p.Confirm("  Expose Prometheus metrics at /metrics?", true)
	cfg.Metrics.Enabled = &enabled
	w.println()

	if outputPath == "" {
		outputPath = w.p.Ask("Config file output path", DefaultOutputPath)
	}
	if err := writeConfig(outputPath, cfg); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(w.p.Out, "\n  Config written to %s\n", outputPath)
	w.println()
	w.println("  Next steps:")
	_, _ = fmt.Fprintf(w.p.Out, "    phonebill run %s\n\n", outputPath)
	return nil
}

// RunDefaults generates a config non-interactively from environment
// variables. Used by container entrypoints.
func (w *Wizard) RunDefaults(outputPath string) error {
	cfg := &config.Config{}
	cfg.Server.ShutdownTimeout.Duration = 30 * time.Second

	cfg.Server.Addr = ":" + envOr("PORT", config.DefaultPort)
	cfg.Server.UIStaticDir = os.Getenv("PHONEBILL_UI_DIR")

	cfg.Storage.Driver = envOr("PHONEBILL_STORAGE_DRIVER", "sqlite")
	switch cfg.Storage.Driver {
	case "sqlite":
		cfg.Storage.DSN = envOr("PHONEBILL_STORAGE_DSN", defaultSQLitePath)
	case "postgres":
		cfg.Storage.DSN = os.Getenv("PHONEBILL_STORAGE_DSN")
		if cfg.Storage.DSN == "" {
			return fmt.Errorf("PHONEBILL_STORAGE_DSN is required when using postgres driver")
		}
	default:
		return fmt.Errorf("unsupported PHONEBILL_STORAGE_DRIVER %q", cfg.Storage.Driver)
	}

	cfg.Logging.Level = envOr("PHONEBILL_LOG_LEVEL", "info")
	cfg.Logging.Format = "json"

	if outputPath == "" {
		outputPath = DefaultOutputPath
	}
	if err := writeConfig(outputPath, cfg); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(w.p.Out, "Config generated at %s\n", outputPath)
	return nil
}

func writeConfig(path string, cfg *config.Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	// The file may hold database credentials.
	if err := os.WriteFile(path, append(data, '\n'), 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func postgresDSN(host string, port int, user, pass, db string) string {
	u := url.URL{
		Scheme:   "postgres",
		Host:     net.JoinHostPort(host, strconv.Itoa(port)),
		Path:     "/" + db,
		RawQuery: "sslmode=disable",
	}
	if pass != "" {
		u.User = url.UserPassword(user, pass)
	} else {
		u.User = url.User(user)
	}
	return u.String()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
