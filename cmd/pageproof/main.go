package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/pageproof/pageproof"
	"github.com/pageproof/pageproof/config"
	"github.com/pageproof/pageproof/gemini"
	"github.com/pageproof/pageproof/goquery"
	"github.com/pageproof/pageproof/htmltomarkdown"
	pphttp "github.com/pageproof/pageproof/http"
	"github.com/pageproof/pageproof/proof"
	"github.com/pageproof/pageproof/readability"
	"github.com/pageproof/pageproof/rod"
	ppslog "github.com/pageproof/pageproof/slog"
	"github.com/pageproof/pageproof/sqlite"
	"github.com/pageproof/pageproof/trafilatura"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Resolved from config when left empty. Set before
	// calling Run() to override.
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	RunService pageproof.RunService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	// Create Kong parser with dependency binding
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("pageproof"),
		kong.Description("Review rendered web pages for spelling and grammar problems"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags using Kong
	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'pageproof --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	// Parse arguments first to know which command and its flags
	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	deps.Config = cfg

	logLevel := slog.LevelWarn
	if cli.Verbose || cmd == "serve" {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: logLevel}))
	deps.Logger = logger

	// Open database
	if m.DBPath == "" {
		m.DBPath = cfg.DB
	}
	if m.DBPath == "" {
		m.DBPath = defaultDBPath()
	}
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set PAGEPROOF_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	// Wire core services into dependencies
	m.RunService = sqlite.NewRunService(m.DB)
	deps.DB = m.DB
	deps.Runs = ppslog.NewLoggingRunService(m.RunService, logger)
	deps.Prober = pphttp.NewProber()

	// Wire the browser for commands that render pages
	if cmd == "check" || cmd == "report" || cmd == "serve" {
		headless := cfg.Headless
		if cmd == "check" && cli.Check.Visible {
			headless = false
		}
		manager, err := rod.NewBrowserManager(rod.WithHeadless(headless))
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		var opts []rod.Option
		if cmd == "check" && cli.Check.Stealth {
			opts = append(opts, rod.WithStealth())
		}
		browser := rod.NewBrowser(manager, opts...)
		defer browser.Close()
		deps.Browser = browser

		extractorName := cli.Check.Extractor
		if cmd == "report" {
			extractorName = cli.Report.Extractor
		}
		var extractor pageproof.Extractor = trafilatura.NewExtractor()
		if extractorName == "readability" {
			extractor = readability.NewExtractor()
		}
		deps.Reports = goquery.NewReportBuilder(extractor)

		// Wire the correction pipeline for commands that review text
		if cmd == "check" || cmd == "serve" {
			if cfg.GeminiAPIKey == "" {
				fmt.Fprintln(stderr, "GEMINI_API_KEY environment variable not set. Get an API key at https://aistudio.google.com/apikey")
				return fmt.Errorf("GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
			}

			client, err := genai.NewClient(ctx, &genai.ClientConfig{
				APIKey:  cfg.GeminiAPIKey,
				Backend: genai.BackendGeminiAPI,
			})
			if err != nil {
				fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
				return fmt.Errorf("failed to connect to Gemini API: %w", err)
			}

			model := cfg.Model
			if model == "" {
				model = gemini.DefaultModel
			}
			tokenizerModel := cfg.TokenizerModel
			if tokenizerModel == "" {
				tokenizerModel = gemini.DefaultTokenizerModel
			}
			tokenCounter, err := gemini.NewTokenCounter(tokenizerModel)
			if err != nil {
				return fmt.Errorf("failed to create token counter: %w", err)
			}

			runner := &proof.Runner{
				Browser:         browser,
				Prober:          deps.Prober,
				Corrector:       ppslog.NewLoggingCorrector(gemini.NewCorrector(client, model), logger),
				TokenCounter:    tokenCounter,
				Extractor:       extractor,
				Converter:       htmltomarkdown.NewConverter(),
				Reports:         deps.Reports,
				Runs:            deps.Runs,
				Logger:          logger,
				MaxTokens:       cfg.MaxTokens,
				Concurrency:     cfg.Concurrency,
				RetryDelays:     proof.DefaultRetryDelays(),
				DismissOverlays: true,
			}
			if cfg.Rate > 0 {
				runner.Pacer = proof.NewPacer(cfg.Rate)
			}
			deps.Runner = runner
		}
	}

	return kongCtx.Run(deps)
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "pageproof.db"
	}
	dir := filepath.Join(home, ".pageproof")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "pageproof.db")
}
