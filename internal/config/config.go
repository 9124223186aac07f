// Package config holds the pipeline's explicit configuration. Every stage
// receives its settings from here; nothing reads the environment or
// hard-coded paths from inside stage logic.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/peepalytics/statement-extractor/internal/parse"
	"github.com/peepalytics/statement-extractor/internal/preprocess"
)

// Config carries the settings injected into each pipeline stage at
// process start.
type Config struct {
	// OutputDir receives page images, redacted pages and record files.
	OutputDir string
	// DPI is the PDF rasterization resolution.
	DPI int
	// RowThreshold is the vertical gap that splits text rows, in pixel
	// units at the rasterization resolution.
	RowThreshold float64
	// DeskewThreshold is the minimum skew angle, in degrees, worth
	// correcting.
	DeskewThreshold float64
	// AccountPage and TransactionPage are the 0-indexed pages holding the
	// account information block and the transaction table.
	AccountPage     int
	TransactionPage int
	// TesseractPath and TesseractLang configure the OCR engine.
	TesseractPath string
	TesseractLang string
	// StorePath is the bolt database file for persisted records.
	StorePath string
	// ListenAddr is the API server's bind address.
	ListenAddr string
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		OutputDir:       "output",
		DPI:             preprocess.DefaultDPI,
		RowThreshold:    parse.DefaultRowThreshold,
		DeskewThreshold: preprocess.DefaultDeskewThreshold,
		AccountPage:     0,
		TransactionPage: 1,
		TesseractPath:   "tesseract",
		TesseractLang:   "eng",
		StorePath:       "statements.db",
		ListenAddr:      ":8080",
	}
}

// FromEnv builds a configuration from environment variables on top of the
// defaults. A .env file in the working directory is honored when present.
func FromEnv() Config {
	godotenv.Load() // absence of .env is fine

	cfg := Default()
	cfg.OutputDir = envString("EXTRACTOR_OUTPUT_DIR", cfg.OutputDir)
	cfg.DPI = envInt("EXTRACTOR_DPI", cfg.DPI)
	cfg.RowThreshold = envFloat("EXTRACTOR_ROW_THRESHOLD", cfg.RowThreshold)
	cfg.DeskewThreshold = envFloat("EXTRACTOR_DESKEW_THRESHOLD", cfg.DeskewThreshold)
	cfg.AccountPage = envInt("EXTRACTOR_ACCOUNT_PAGE", cfg.AccountPage)
	cfg.TransactionPage = envInt("EXTRACTOR_TRANSACTION_PAGE", cfg.TransactionPage)
	cfg.TesseractPath = envString("EXTRACTOR_TESSERACT_PATH", cfg.TesseractPath)
	cfg.TesseractLang = envString("EXTRACTOR_TESSERACT_LANG", cfg.TesseractLang)
	cfg.StorePath = envString("EXTRACTOR_STORE_PATH", cfg.StorePath)
	cfg.ListenAddr = envString("EXTRACTOR_LISTEN_ADDR", cfg.ListenAddr)
	return cfg
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
