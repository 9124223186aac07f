package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/peepalytics/statement-extractor/internal/api"
	"github.com/peepalytics/statement-extractor/internal/config"
	"github.com/peepalytics/statement-extractor/internal/evaluate"
	"github.com/peepalytics/statement-extractor/internal/ocr"
	"github.com/peepalytics/statement-extractor/internal/pipeline"
	"github.com/peepalytics/statement-extractor/internal/store"
	"github.com/peepalytics/statement-extractor/internal/writer"
)

const version = "1.0.0"

func main() {
	outputFlag := flag.String("output", "", "Output directory for page images, redacted pages and record files")
	dpiFlag := flag.Int("dpi", 0, "Rasterization resolution in DPI (default 300)")
	thresholdFlag := flag.Float64("row-threshold", 0, "Vertical gap splitting text rows, in pixels (default 10)")
	headerFlag := flag.Bool("header", true, "Include account metadata header rows in CSV output")
	serveFlag := flag.Bool("serve", false, "Run the HTTP API instead of the batch pipeline")
	evaluateFlag := flag.Bool("evaluate", false, "Score an OCR prediction file against ground truth: <gt.json> <pred.json>")
	versionFlag := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Statement Extractor
by Peepalytics

Extracts structured transactions from scanned bank-statement PDFs and
redacts account numbers and representative names on the page images.

Usage:
  statement-extractor [flags] <input.pdf> [input2.pdf ...]
  statement-extractor --serve
  statement-extractor --evaluate <ground_truth.json> <predictions.json>

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Extract and redact a statement
  statement-extractor statement.pdf

  # Custom output directory and resolution
  statement-extractor --output=out --dpi=300 statement.pdf

  # Run the extraction API
  statement-extractor --serve

  # Score an OCR run
  statement-extractor --evaluate truth.json page_2_ocr.json
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("statement-extractor v%s\n", version)
		os.Exit(0)
	}

	cfg := config.FromEnv()
	if *outputFlag != "" {
		cfg.OutputDir = *outputFlag
	}
	if *dpiFlag > 0 {
		cfg.DPI = *dpiFlag
	}
	if *thresholdFlag > 0 {
		cfg.RowThreshold = *thresholdFlag
	}

	if *evaluateFlag {
		if flag.NArg() != 2 {
			fatalf("--evaluate needs exactly two arguments: <ground_truth.json> <predictions.json>\n")
		}
		runEvaluate(flag.Arg(0), flag.Arg(1))
		return
	}

	if *serveFlag {
		if err := serve(cfg); err != nil {
			fatalf("server error: %v\n", err)
		}
		return
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	for _, inputPath := range flag.Args() {
		if err := processFile(cfg, inputPath, *headerFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", inputPath, err)
			os.Exit(1)
		}
	}
}

func processFile(cfg config.Config, inputPath string, includeHeader bool) error {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}
	if ext := strings.ToLower(filepath.Ext(inputPath)); ext != ".pdf" {
		return fmt.Errorf("expected .pdf file, got %q", ext)
	}

	fmt.Printf("Processing: %s\n", inputPath)

	p := &pipeline.Pipeline{
		Cfg:      cfg,
		Engine:   &ocr.TesseractEngine{Binary: cfg.TesseractPath, Lang: cfg.TesseractLang},
		Progress: progressf,
	}

	rec, err := p.Run(context.Background(), inputPath)
	if err != nil {
		return err
	}

	if len(rec.Transactions) == 0 {
		fmt.Println("  Warning: No transactions found. The statement layout may not match expected patterns.")
	}

	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	jsonPath := filepath.Join(cfg.OutputDir, base+".json")
	if err := writer.WriteJSON(jsonPath, rec); err != nil {
		return fmt.Errorf("JSON write failed: %w", err)
	}

	csvPath := filepath.Join(cfg.OutputDir, base+".csv")
	w := &writer.CSVWriter{IncludeHeader: includeHeader}
	if err := w.WriteToFile(csvPath, rec); err != nil {
		return fmt.Errorf("CSV write failed: %w", err)
	}

	fmt.Printf("  Output: %s, %s\n", jsonPath, csvPath)
	if rec.MaskedAccountNumber != nil {
		fmt.Printf("  Account number: %s\n", *rec.MaskedAccountNumber)
	}
	if rec.StartDate != nil && rec.EndDate != nil {
		fmt.Printf("  Period: %s to %s\n", *rec.StartDate, *rec.EndDate)
	}

	fmt.Println("  Done.")
	return nil
}

func serve(cfg config.Config) error {
	db, err := store.NewBoltDB(cfg.StorePath)
	if err != nil {
		return err
	}
	defer db.Close()

	h := &api.Handler{
		Store: db,
		Pipeline: &pipeline.Pipeline{
			Cfg:      cfg,
			Engine:   &ocr.TesseractEngine{Binary: cfg.TesseractPath, Lang: cfg.TesseractLang},
			Progress: progressf,
		},
	}

	app := fiber.New(fiber.Config{BodyLimit: 50 * 1024 * 1024})
	h.Register(app)

	fmt.Printf("Listening on %s\n", cfg.ListenAddr)
	return app.Listen(cfg.ListenAddr)
}

func runEvaluate(gtPath, predPath string) {
	report, err := evaluate.EvaluateFiles(gtPath, predPath)
	if err != nil {
		fatalf("evaluation failed: %v\n", err)
	}

	fmt.Println("\nOCR Quality Evaluation")
	fmt.Println("----------------------------")
	fmt.Printf("Matched fields   : %d\n", report.Matched)
	fmt.Printf("Predicted fields : %d\n", report.Predicted)
	fmt.Printf("Ground truth     : %d\n", report.GroundTruth)
	fmt.Printf("Precision        : %.4f\n", report.Precision)
	fmt.Printf("Recall           : %.4f\n", report.Recall)
	fmt.Printf("F1 Score         : %.4f\n", report.F1)
}

func progressf(format string, args ...any) {
	fmt.Printf(format+"\n", args...)
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
