// Package main boots the sales stock service HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fairyhunter13/sales-stock-service/internal/config"
	httpapi "github.com/fairyhunter13/sales-stock-service/internal/http"
	"github.com/fairyhunter13/sales-stock-service/internal/model"
	"github.com/fairyhunter13/sales-stock-service/internal/obs"
	"github.com/fairyhunter13/sales-stock-service/internal/sales"
	"github.com/fairyhunter13/sales-stock-service/internal/store"
	"github.com/shopspring/decimal"
)

func main() {
	cfg := config.Load()
	obs.InitLogger(cfg.LogLevel)
	obs.Logger.Info("service_starting")

	catalog := store.NewMemoryCatalog()
	ledger := store.NewMemoryLedger()
	engine := sales.NewEngine(catalog, ledger)
	reports := sales.NewAggregator(ledger)

	if cfg.SeedDemoData {
		seedCatalog(catalog)
	}

	app := httpapi.NewApp(cfg, catalog, ledger, engine, reports)
	mux := httpapi.NewRouter(app)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		obs.Logger.Info("http_listen", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			obs.Logger.Error("http_server_error", "error", err)
			os.Exit(1)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigc
	obs.Logger.Info("shutdown_signal", "signal", s.String())

	ctxSrv, cancelSrv := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelSrv()
	if err := srv.Shutdown(ctxSrv); err != nil {
		obs.Logger.Error("http_shutdown_error", "error", err)
	}
	obs.Logger.Info("service_stopped")
}

// seedCatalog registers the demo products so the API is usable out of the box.
func seedCatalog(catalog store.ProductCatalog) {
	demo := []struct {
		code, name string
		price      string
		quantity   int
	}{
		{"001", "Caneta", "2.50", 100},
		{"002", "Caderno", "15.00", 50},
		{"003", "Borracha", "1.75", 80},
	}
	for _, d := range demo {
		price, err := decimal.NewFromString(d.price)
		if err != nil {
			obs.Logger.Error("seed_price_invalid", "code", d.code, "error", err)
			continue
		}
		p, err := model.NewProduct(d.code, d.name, price, d.quantity)
		if err != nil {
			obs.Logger.Error("seed_product_invalid", "code", d.code, "error", err)
			continue
		}
		if err := catalog.Save(p); err != nil {
			obs.Logger.Warn("seed_product_skipped", "code", d.code, "error", err)
			continue
		}
		obs.Logger.Info("seed_product", "code", p.Code, "name", p.Name, "quantity", p.QuantityOnHand)
	}
}
