package main

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/zombor/receipt-insights/internal/classify"
	"github.com/zombor/receipt-insights/internal/insights"
	"github.com/zombor/receipt-insights/internal/receipts"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	fs := ff.NewFlagSet("receipt-insights")
	var (
		inputPath      = fs.StringLong("input", "", "Receipt export JSON file to analyze")
		promptPath     = fs.StringLong("prompt", "", "Classification prompt template file (optional, built-in template by default)")
		outputDir      = fs.StringLong("output", "analysis_output", "Directory for report artifacts")
		dbPath         = fs.StringLong("db", "receipt-insights.db", "Run history database file path")
		topN           = fs.IntLong("top-n", insights.DefaultTopN, "How many most-bought items to rank")
		batchSize      = fs.IntLong("batch-size", classify.DefaultBatchSize, "Products per classification call")
		classifierType = fs.StringLong("classifier", "gemini", "Classifier type: 'gemini', 'ollama' or 'none'")
		geminiKey      = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel    = fs.StringLong("gemini-model", "gemini-1.5-flash", "Google Gemini model name")
		ollamaURL      = fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel    = fs.StringLong("ollama-model", "llama3", "Ollama model name")
		serve          = fs.BoolLong("serve", "Serve the run history and dashboard over HTTP")
		port           = fs.IntLong("port", 8080, "HTTP server port")
		authUser       = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass       = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
		showVersion    = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("RECEIPT_INSIGHTS"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Check version flag after parsing
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	if *inputPath == "" && !*serve {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintln(os.Stderr, "error: provide --input to analyze receipts, --serve to browse past runs, or both")
		os.Exit(1)
	}

	// Initialize run history database
	slog.Info("Initializing database...")
	db, err := insights.NewBoltDB(*dbPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Initialize storage
	store, err := insights.NewLocalStorage(*outputDir)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}

	var categorizer insights.Categorizer
	if *inputPath != "" {
		// A custom prompt template is required input when requested;
		// classifier trouble only degrades the run.
		template := ""
		if *promptPath != "" {
			data, err := os.ReadFile(*promptPath)
			if err != nil {
				slog.Error("Failed to read prompt template", "path", *promptPath, "error", err)
				os.Exit(1)
			}
			template = string(data)
		}

		if classifier := buildClassifier(*classifierType, *geminiKey, *geminiModel, *ollamaURL, *ollamaModel); classifier != nil {
			defer classifier.Close()
			categorizer = classify.NewCategorizer(classifier, template, *batchSize)
		}
	}

	service := insights.NewService(db, categorizer, store, *topN)

	if *inputPath != "" {
		slog.Info("Loading receipts...", "path", *inputPath)
		rcpts, err := receipts.NewFileSource(*inputPath).Receipts()
		if err != nil {
			slog.Error("Failed to load receipts", "error", err)
			os.Exit(1)
		}

		report, other, err := service.GenerateReport(context.Background(), rcpts)
		if err != nil {
			slog.Error("Failed to generate report", "error", err)
			os.Exit(1)
		}

		printInsights(report, other, *outputDir)
	}

	if !*serve {
		return
	}

	// Initialize server
	basicAuth := insights.BasicAuth{
		Username: *authUser,
		Password: *authPass,
	}
	server := insights.NewServer(service, basicAuth)

	// Start server in goroutine
	addr := fmt.Sprintf(":%d", *port)
	go func() {
		if err := server.Start(addr); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr))
	if *authUser != "" || *authPass != "" {
		slog.Info("Basic auth enabled", "user", *authUser)
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
}

// buildClassifier constructs the selected classification provider. A broken
// or absent provider is not fatal: the run proceeds and every product
// defaults to the OTHER category.
func buildClassifier(classifierType, geminiKey, geminiModel, ollamaURL, ollamaModel string) classify.Classifier {
	switch classifierType {
	case "gemini":
		apiKey := geminiKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		slog.Info("Initializing Gemini classifier...", "model", geminiModel)
		classifier, err := classify.NewGemini(apiKey, geminiModel)
		if err != nil {
			slog.Warn("Failed to initialize Gemini, continuing without classification", "error", err)
			return nil
		}
		return classifier
	case "ollama":
		slog.Info("Initializing Ollama classifier...", "url", ollamaURL, "model", ollamaModel)
		classifier, err := classify.NewOllama(ollamaURL, ollamaModel)
		if err != nil {
			slog.Warn("Failed to initialize Ollama, continuing without classification", "error", err)
			return nil
		}
		return classifier
	case "none":
		return nil
	default:
		slog.Warn("Unknown classifier type, continuing without classification", "type", classifierType)
		return nil
	}
}

func printInsights(report *insights.Report, other []string, outputDir string) {
	fmt.Printf("\nQuick insights:\n")
	fmt.Printf("Total spending: €%.2f\n", report.TotalSpending)
	fmt.Printf("Number of transactions: %d\n", report.NumTransactions)
	fmt.Printf("Average transaction: €%.2f\n", report.AverageTransaction)
	fmt.Printf("Total bonus savings: €%.2f\n", report.TotalBonusSavings)

	fmt.Printf("\nMost bought items:\n")
	for _, item := range report.MostBoughtItems {
		fmt.Printf("- %s: %d times\n", item.Description, item.Count)
	}

	if len(other) > 0 {
		fmt.Printf("\n%d products were not categorized, see %s/%s\n", len(other), outputDir, insights.OtherFilename)
	}
	fmt.Printf("\nAnalysis complete! Check the '%s' directory for results.\n", outputDir)
}
