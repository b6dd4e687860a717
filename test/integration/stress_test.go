package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"
)

// Fires concurrent sale registrations for a single product whose stock cannot
// satisfy everyone and asserts that exactly the stock-covered subset wins.
func TestIntegration_ConcurrentSalesNoOversell(t *testing.T) {
	srv := startServer(t)

	resp, body := postJSON(t, srv.URL+"/products",
		`{"code":"limited","name":"Produto Raro","unit_price":"10.00","quantity_on_hand":20}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create product: %d %s", resp.StatusCode, body)
	}

	concurrency := 50
	client := &http.Client{Timeout: 5 * time.Second}
	statuses := make(chan int, concurrency)
	var wg sync.WaitGroup
	wg.Add(concurrency)
	for g := 0; g < concurrency; g++ {
		go func() {
			defer wg.Done()
			payload := []byte(`{"type":"IN_STORE","items":[{"product_code":"limited","quantity":1}]}`)
			r, _ := http.NewRequest(http.MethodPost, srv.URL+"/sales", bytes.NewBuffer(payload))
			r.Header.Set("Content-Type", "application/json")
			resp, err := client.Do(r)
			if err != nil {
				statuses <- 0
				return
			}
			_ = resp.Body.Close()
			statuses <- resp.StatusCode
		}()
	}
	wg.Wait()
	close(statuses)

	created, conflict := 0, 0
	for st := range statuses {
		switch st {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			conflict++
		default:
			t.Fatalf("unexpected status %d", st)
		}
	}
	if created != 20 {
		t.Fatalf("expected exactly 20 successful sales, got %d (%d conflicts)", created, conflict)
	}

	var product struct {
		QuantityOnHand int `json:"quantity_on_hand"`
	}
	getJSON(t, srv.URL+"/products/limited", &product)
	if product.QuantityOnHand != 0 {
		t.Fatalf("expected 0 on hand, got %d", product.QuantityOnHand)
	}

	var sales []json.RawMessage
	getJSON(t, srv.URL+"/sales", &sales)
	if len(sales) != 20 {
		t.Fatalf("expected 20 recorded sales, got %d", len(sales))
	}
}

// Concurrent multi-product batches either debit every product or none.
func TestIntegration_ConcurrentBatchesAllOrNothing(t *testing.T) {
	srv := startServer(t)

	for i, qty := range []int{30, 10} {
		body := fmt.Sprintf(`{"code":"p%d","name":"Produto %d","unit_price":"1.00","quantity_on_hand":%d}`, i, i, qty)
		resp, b := postJSON(t, srv.URL+"/products", body)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("create product: %d %s", resp.StatusCode, b)
		}
	}

	concurrency := 15
	var wg sync.WaitGroup
	wg.Add(concurrency)
	for g := 0; g < concurrency; g++ {
		go func() {
			defer wg.Done()
			payload := []byte(`{"type":"IN_STORE","items":[{"product_code":"p0","quantity":2},{"product_code":"p1","quantity":1}]}`)
			resp, err := http.Post(srv.URL+"/sales", "application/json", bytes.NewBuffer(payload))
			if err == nil {
				_ = resp.Body.Close()
			}
		}()
	}
	wg.Wait()

	var p0, p1 struct {
		QuantityOnHand int `json:"quantity_on_hand"`
	}
	getJSON(t, srv.URL+"/products/p0", &p0)
	getJSON(t, srv.URL+"/products/p1", &p1)

	// p1 is the limiting product: at most 10 batches can succeed
	succeeded := 10 - p1.QuantityOnHand
	if succeeded < 0 {
		t.Fatalf("negative stock on p1: %d", p1.QuantityOnHand)
	}
	if got, want := p0.QuantityOnHand, 30-2*succeeded; got != want {
		t.Fatalf("partial debit observed: p0=%d want %d (succeeded=%d)", got, want, succeeded)
	}
}
