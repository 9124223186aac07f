package api

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/peepalytics/statement-extractor/internal/config"
	"github.com/peepalytics/statement-extractor/internal/models"
	"github.com/peepalytics/statement-extractor/internal/pipeline"
	"github.com/peepalytics/statement-extractor/internal/store"
)

func setupTestApp(t *testing.T) (*fiber.App, store.DB) {
	t.Helper()

	db, err := store.NewBoltDB(filepath.Join(t.TempDir(), "statements.db"))
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	h := &Handler{
		Store:    db,
		Pipeline: &pipeline.Pipeline{Cfg: config.Default()},
	}
	app := fiber.New()
	h.Register(app)
	return app, db
}

func TestHealthEndpoint(t *testing.T) {
	app, _ := setupTestApp(t)

	req := httptest.NewRequest("GET", "/api/health", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var result map[string]string
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if result["status"] != "ok" {
		t.Errorf("expected status=ok, got %q", result["status"])
	}
}

func TestListStatementsEmpty(t *testing.T) {
	app, _ := setupTestApp(t)

	req := httptest.NewRequest("GET", "/api/statements", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var recs []models.StatementRecord
	if err := json.Unmarshal(body, &recs); err != nil {
		t.Fatalf("failed to decode response %q: %v", body, err)
	}
	if len(recs) != 0 {
		t.Errorf("expected empty list, got %d records", len(recs))
	}
}

func TestGetStatement(t *testing.T) {
	app, db := setupTestApp(t)

	acct := "*******890"
	rec := &models.StatementRecord{MaskedAccountNumber: &acct}
	if err := db.SaveStatement(rec); err != nil {
		t.Fatalf("seeding record failed: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/statements/"+rec.ID, nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var got models.StatementRecord
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.MaskedAccountNumber == nil || *got.MaskedAccountNumber != acct {
		t.Errorf("masked account: got %v, want %q", got.MaskedAccountNumber, acct)
	}
}

func TestGetStatementNotFound(t *testing.T) {
	app, _ := setupTestApp(t)

	req := httptest.NewRequest("GET", "/api/statements/missing", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestExtractRequiresFile(t *testing.T) {
	app, _ := setupTestApp(t)

	req := httptest.NewRequest("POST", "/api/extract", nil)
	req.Header.Set("Content-Type", "multipart/form-data; boundary=----test")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("expected 400 for missing file, got %d", resp.StatusCode)
	}
}
