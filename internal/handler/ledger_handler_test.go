package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"go-office-ledger/internal/model"
	"go-office-ledger/internal/repository"
	"go-office-ledger/internal/service"
	"go-office-ledger/internal/ws"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestApp wires the full handler stack, minus auth middleware, over
// an in-memory store.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("raw db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&model.Item{}, &model.Movement{}, &model.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	hub := ws.NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)

	itemRepo := repository.NewItemRepo(db)
	movementRepo := repository.NewMovementRepo(db)
	ledgerService := service.NewLedgerService(itemRepo, movementRepo, db, hub)
	exportService := service.NewExportService()

	ledgerHandler := NewLedgerHandler(ledgerService, t.TempDir())
	exportHandler := NewExportHandler(ledgerService, exportService)

	app := fiber.New()
	api := app.Group("/api/v1")
	api.Get("/items", ledgerHandler.GetItems)
	api.Post("/items", ledgerHandler.RegisterItem)
	api.Get("/history", ledgerHandler.GetHistory)
	api.Get("/history/:id", ledgerHandler.GetMovement)
	api.Post("/movements", ledgerHandler.ApplyMovement)
	api.Get("/summary", ledgerHandler.GetSummary)
	api.Get("/export/items.xlsx", exportHandler.ItemsSpreadsheet)
	api.Get("/export/items.pdf", exportHandler.ItemsPDF)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) (*http.Response, []byte) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, path, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	var out bytes.Buffer
	if _, err := out.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read response body: %v", err)
	}
	resp.Body.Close()
	return resp, out.Bytes()
}

func registerItemHTTP(t *testing.T, app *fiber.App, name, unit string) uuid.UUID {
	t.Helper()
	resp, body := doJSON(t, app, "POST", "/api/v1/items", fiber.Map{"name": name, "unit": unit})
	if resp.StatusCode != 201 {
		t.Fatalf("POST /items status = %d, body = %s", resp.StatusCode, body)
	}
	var created struct {
		Data model.Item `json:"data"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	return created.Data.ID
}

func TestRegisterAndListItemsHTTP(t *testing.T) {
	app := newTestApp(t)

	id := registerItemHTTP(t, app, "Paper", "ream")
	if id == uuid.Nil {
		t.Fatal("created item has no ID")
	}

	resp, body := doJSON(t, app, "GET", "/api/v1/items", nil)
	if resp.StatusCode != 200 {
		t.Fatalf("GET /items status = %d", resp.StatusCode)
	}
	var items []model.Item
	if err := json.Unmarshal(body, &items); err != nil {
		t.Fatalf("decode items: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Paper" || items[0].Balance != 0 {
		t.Errorf("items = %+v, want one Paper with balance 0", items)
	}
}

func TestRegisterItemMissingFieldsHTTP(t *testing.T) {
	app := newTestApp(t)

	resp, _ := doJSON(t, app, "POST", "/api/v1/items", fiber.Map{"name": "Paper"})
	if resp.StatusCode != 400 {
		t.Errorf("POST /items without unit status = %d, want 400", resp.StatusCode)
	}
}

func TestApplyMovementHTTP(t *testing.T) {
	app := newTestApp(t)
	id := registerItemHTTP(t, app, "Staples", "box")

	resp, body := doJSON(t, app, "POST", "/api/v1/movements", fiber.Map{
		"item_id":   id,
		"amount":    5,
		"direction": "IN",
		"actor":     "alice",
	})
	if resp.StatusCode != 201 {
		t.Fatalf("POST /movements status = %d, body = %s", resp.StatusCode, body)
	}
	var result struct {
		Balance int `json:"balance"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("decode movement response: %v", err)
	}
	if result.Balance != 5 {
		t.Errorf("balance = %d, want 5", result.Balance)
	}
}

func TestApplyMovementErrorsHTTP(t *testing.T) {
	app := newTestApp(t)
	id := registerItemHTTP(t, app, "Markers", "pc")

	tests := []struct {
		name       string
		payload    fiber.Map
		wantStatus int
	}{
		{
			"insufficient stock",
			fiber.Map{"item_id": id, "amount": 3, "direction": "OUT", "actor": "bob"},
			409,
		},
		{
			"unknown item",
			fiber.Map{"item_id": uuid.New(), "amount": 1, "direction": "IN", "actor": "bob"},
			404,
		},
		{
			"non-positive amount",
			fiber.Map{"item_id": id, "amount": 0, "direction": "IN", "actor": "bob"},
			400,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := doJSON(t, app, "POST", "/api/v1/movements", tc.payload)
			if resp.StatusCode != tc.wantStatus {
				t.Errorf("status = %d, want %d (body: %s)", resp.StatusCode, tc.wantStatus, body)
			}
		})
	}
}

func TestHistoryHTTP(t *testing.T) {
	app := newTestApp(t)
	id := registerItemHTTP(t, app, "Paper", "ream")

	doJSON(t, app, "POST", "/api/v1/movements", fiber.Map{
		"item_id": id, "amount": 5, "direction": "IN", "actor": "alice",
	})
	doJSON(t, app, "POST", "/api/v1/movements", fiber.Map{
		"item_id": id, "amount": 2, "direction": "OUT", "actor": "bob",
	})

	resp, body := doJSON(t, app, "GET", "/api/v1/history?direction=OUT", nil)
	if resp.StatusCode != 200 {
		t.Fatalf("GET /history status = %d", resp.StatusCode)
	}
	var movements []model.Movement
	if err := json.Unmarshal(body, &movements); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(movements) != 1 || movements[0].Actor != "bob" || movements[0].Amount != 2 {
		t.Errorf("filtered history = %+v, want single OUT by bob", movements)
	}

	resp, _ = doJSON(t, app, "GET", "/api/v1/history?direction=SIDEWAYS", nil)
	if resp.StatusCode != 400 {
		t.Errorf("bogus direction filter status = %d, want 400", resp.StatusCode)
	}

	// Single movement lookup through the API.
	resp, body = doJSON(t, app, "GET", fmt.Sprintf("/api/v1/history/%s", movements[0].ID), nil)
	if resp.StatusCode != 200 {
		t.Fatalf("GET /history/:id status = %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, app, "GET", fmt.Sprintf("/api/v1/history/%s", uuid.New()), nil)
	if resp.StatusCode != 404 {
		t.Errorf("GET /history/:id for unknown id status = %d, want 404", resp.StatusCode)
	}
}

func TestExportEndpointsHTTP(t *testing.T) {
	app := newTestApp(t)
	id := registerItemHTTP(t, app, "Paper", "ream")
	doJSON(t, app, "POST", "/api/v1/movements", fiber.Map{
		"item_id": id, "amount": 5, "direction": "IN", "actor": "alice",
	})

	resp, body := doJSON(t, app, "GET", "/api/v1/export/items.xlsx", nil)
	if resp.StatusCode != 200 {
		t.Fatalf("GET /export/items.xlsx status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != xlsxContentType {
		t.Errorf("content type = %q", ct)
	}
	if len(body) == 0 {
		t.Error("empty spreadsheet body")
	}

	resp, body = doJSON(t, app, "GET", "/api/v1/export/items.pdf", nil)
	if resp.StatusCode != 200 {
		t.Fatalf("GET /export/items.pdf status = %d", resp.StatusCode)
	}
	if !bytes.HasPrefix(body, []byte("%PDF")) {
		t.Error("PDF export does not start with %PDF header")
	}
}
