package config

import (
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.DPI != 300 {
		t.Errorf("DPI: got %d, want 300", cfg.DPI)
	}
	if cfg.RowThreshold != 10 {
		t.Errorf("RowThreshold: got %f, want 10", cfg.RowThreshold)
	}
	if cfg.AccountPage != 0 || cfg.TransactionPage != 1 {
		t.Errorf("page indexes: got %d/%d, want 0/1", cfg.AccountPage, cfg.TransactionPage)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("EXTRACTOR_OUTPUT_DIR", "/tmp/pages")
	t.Setenv("EXTRACTOR_DPI", "150")
	t.Setenv("EXTRACTOR_ROW_THRESHOLD", "7.5")
	t.Setenv("EXTRACTOR_TRANSACTION_PAGE", "2")

	cfg := FromEnv()

	if cfg.OutputDir != "/tmp/pages" {
		t.Errorf("OutputDir: got %q, want /tmp/pages", cfg.OutputDir)
	}
	if cfg.DPI != 150 {
		t.Errorf("DPI: got %d, want 150", cfg.DPI)
	}
	if cfg.RowThreshold != 7.5 {
		t.Errorf("RowThreshold: got %f, want 7.5", cfg.RowThreshold)
	}
	if cfg.TransactionPage != 2 {
		t.Errorf("TransactionPage: got %d, want 2", cfg.TransactionPage)
	}

	// Unset values fall back to defaults
	if cfg.TesseractLang != "eng" {
		t.Errorf("TesseractLang: got %q, want eng", cfg.TesseractLang)
	}
}

func TestFromEnvIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("EXTRACTOR_DPI", "not-a-number")

	cfg := FromEnv()
	if cfg.DPI != 300 {
		t.Errorf("DPI: got %d, want default 300", cfg.DPI)
	}
}
