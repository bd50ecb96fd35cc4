package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/estatevault/vaultmeter/internal/config"
	"github.com/estatevault/vaultmeter/internal/domain"
	"github.com/estatevault/vaultmeter/internal/logging"
	"github.com/estatevault/vaultmeter/internal/progress"
	"github.com/estatevault/vaultmeter/internal/store"
	"github.com/estatevault/vaultmeter/internal/tui"
	"github.com/estatevault/vaultmeter/internal/vault"
	"golang.org/x/term"
)

// Version is set at build time via -ldflags
var Version = "dev"

// settleSlack is added to the animation duration when waiting for a headless run
const settleSlack = 2 * time.Second

// addFlags collects repeated -add values
type addFlags []string

func (a *addFlags) String() string { return strings.Join(*a, ",") }

func (a *addFlags) Set(v string) error {
	*a = append(*a, v)
	return nil
}

type cliOptions struct {
	plain       bool
	writeConfig bool
	reset       bool
	profile     string
	adds        addFlags
	set         string
}

func main() {
	var (
		showVersion bool
		opts        cliOptions
	)
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.BoolVar(&opts.plain, "plain", false, "print a single status line instead of the dashboard")
	flag.StringVar(&opts.profile, "profile", "", "vault profile (defaults to vault.profile from config)")
	flag.Var(&opts.adds, "add", "add to a category count, category[=n] (repeatable)")
	flag.StringVar(&opts.set, "set", "", "show this percentage instead of the computed completion")
	flag.BoolVar(&opts.reset, "reset", false, "delete the profile's counts and snapshots before applying -add")
	flag.BoolVar(&opts.writeConfig, "write-config", false, "write the effective configuration file and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("vaultmeter %s\n", Version)
		return
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts cliOptions) error {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger, err := logging.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = logging.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting vaultmeter", "version", Version)

	if opts.writeConfig {
		if err := config.SaveConfig(cfg); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		fmt.Println("✓ Configuration saved!")
		return nil
	}

	weights, err := vault.ParseWeights(cfg.Vault.Weights)
	if err != nil {
		return fmt.Errorf("invalid vault weights: %w", err)
	}
	targets, err := vault.ParseTargets(cfg.Vault.Targets)
	if err != nil {
		return fmt.Errorf("invalid vault targets: %w", err)
	}

	st, err := store.NewVaultStore(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("failed to open vault store: %w", err)
	}
	defer st.Close()

	svc := vault.NewService(st, weights, targets, logger)

	profile := opts.profile
	if profile == "" {
		profile = cfg.Vault.Profile
	}

	if err := applyEdits(svc, profile, opts); err != nil {
		return err
	}

	var override *float64
	if opts.set != "" {
		v := progress.ParseValue(opts.set)
		override = &v
	}

	interactive := !opts.plain && term.IsTerminal(int(os.Stdout.Fd()))
	if !interactive {
		value := float64(svc.Completion(profile))
		if override != nil {
			value = *override
		}
		return runPlain(os.Stdout, cfg, value, logger)
	}

	model := tui.NewModel(svc, tui.Options{
		Profile:   profile,
		Style:     cfg.Progress.Style,
		Duration:  cfg.Progress.Duration(),
		Radius:    cfg.Progress.Radius,
		FrameRate: cfg.Progress.FrameRate,
		Targets:   targets,
		Override:  override,
		Logger:    logger,
	})

	var programOpts []tea.ProgramOption
	if cfg.UI.AltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	p := tea.NewProgram(model, programOpts...)

	logger.Info("starting TUI", "profile", profile)

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// applyEdits runs -reset and then every -add against profile
func applyEdits(svc *vault.Service, profile string, opts cliOptions) error {
	if opts.reset {
		svc.Reset(profile)
	}
	for _, raw := range opts.adds {
		cat, n, err := parseAdd(raw)
		if err != nil {
			return err
		}
		if _, err := svc.Adjust(profile, cat, n); err != nil {
			return fmt.Errorf("failed to add %s: %w", cat, err)
		}
	}
	return nil
}

// parseAdd reads "category" or "category=n". The category name is matched
// loosely.
func parseAdd(raw string) (domain.Category, int, error) {
	name, count, hasCount := strings.Cut(raw, "=")
	n := 1
	if hasCount {
		v, err := strconv.Atoi(strings.TrimSpace(count))
		if err != nil {
			return "", 0, fmt.Errorf("invalid count in -add %q: %w", raw, err)
		}
		n = v
	}
	cat, err := vault.ResolveCategory(name)
	if err != nil {
		return "", 0, err
	}
	return cat, n, nil
}

// runPlain animates a single status line on a ticker and waits for it to settle
func runPlain(w *os.File, cfg *config.Config, value float64, logger *slog.Logger) error {
	width := 80
	if term.IsTerminal(int(w.Fd())) {
		if cols, _, err := term.GetSize(int(w.Fd())); err == nil && cols > 0 {
			width = cols
		}
	}

	host := progress.NewTickerHost(cfg.Progress.FrameRate, logger)
	defer host.Close()

	line := newStatusLine(w, width, cfg.Progress.Radius)
	slot := host.Slot()
	defer slot.Release()
	ind := progress.New(line, slot, progress.Options{
		Duration: cfg.Progress.Duration(),
		Radius:   cfg.Progress.Radius,
		Logger:   logger,
	})
	slot.Bind(ind)
	ind.SetProgress(value)

	ctx, cancel := context.WithTimeout(context.Background(), ind.Duration()+settleSlack)
	defer cancel()
	err := host.WaitIdle(ctx)
	line.Finish()
	if err != nil {
		return fmt.Errorf("animation did not settle: %w", err)
	}
	return nil
}
