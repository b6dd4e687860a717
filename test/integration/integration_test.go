// Package integration exercises the full HTTP surface against an in-process
// server, end to end.
package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fairyhunter13/sales-stock-service/internal/config"
	httpapi "github.com/fairyhunter13/sales-stock-service/internal/http"
	"github.com/fairyhunter13/sales-stock-service/internal/obs"
	"github.com/fairyhunter13/sales-stock-service/internal/sales"
	"github.com/fairyhunter13/sales-stock-service/internal/store"
)

func startServer(t *testing.T) *httptest.Server {
	t.Helper()
	obs.InitLogger("error")
	cfg := config.Load()
	catalog := store.NewMemoryCatalog()
	ledger := store.NewMemoryLedger()
	engine := sales.NewEngine(catalog, ledger)
	reports := sales.NewAggregator(ledger)
	app := httpapi.NewApp(cfg, catalog, ledger, engine, reports)
	srv := httptest.NewServer(httpapi.NewRouter(app))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, b
}

func getJSON(t *testing.T, url string, v any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	defer resp.Body.Close()
	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp
}

func TestIntegration_HealthAndDocs(t *testing.T) {
	srv := startServer(t)
	for _, path := range []string{"/healthz", "/openapi.yaml", "/docs", "/debug/metrics", "/debug/vars"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("get %s: %v", path, err)
		}
		_ = resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, resp.StatusCode)
		}
	}
}

func TestIntegration_SaleLifecycle(t *testing.T) {
	srv := startServer(t)

	resp, body := postJSON(t, srv.URL+"/products",
		`{"code":"001","name":"Caneta","unit_price":"2.50","quantity_on_hand":10}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create product: %d %s", resp.StatusCode, body)
	}

	resp, body = postJSON(t, srv.URL+"/sales",
		`{"type":"IN_STORE","items":[{"product_code":"001","quantity":4}]}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register sale: %d %s", resp.StatusCode, body)
	}
	var sale struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &sale); err != nil || sale.ID == "" {
		t.Fatalf("sale payload: %v %s", err, body)
	}

	var list []json.RawMessage
	getJSON(t, srv.URL+"/sales", &list)
	if len(list) != 1 {
		t.Fatalf("expected 1 sale listed, got %d", len(list))
	}

	resp, body = postJSON(t, srv.URL+"/products/001/stock", `{"amount":6}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("stock entry: %d %s", resp.StatusCode, body)
	}
	var product struct {
		QuantityOnHand int `json:"quantity_on_hand"`
	}
	if err := json.Unmarshal(body, &product); err != nil {
		t.Fatalf("product payload: %v", err)
	}
	if product.QuantityOnHand != 12 {
		t.Fatalf("expected 12 on hand after credit, got %d", product.QuantityOnHand)
	}
}
