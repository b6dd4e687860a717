package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/fairyhunter13/sales-stock-service/internal/config"
	httpopenapi "github.com/fairyhunter13/sales-stock-service/internal/http/openapi"
	"github.com/fairyhunter13/sales-stock-service/internal/model"
	"github.com/fairyhunter13/sales-stock-service/internal/sales"
	"github.com/fairyhunter13/sales-stock-service/internal/store"
	"github.com/shopspring/decimal"
)

// App wires the HTTP handlers to the engine and stores.
type App struct {
	Cfg     config.Config
	Catalog store.ProductCatalog
	Ledger  *store.MemoryLedger
	Engine  *sales.Engine
	Reports *sales.Aggregator
	started time.Time
}

func NewApp(cfg config.Config, catalog store.ProductCatalog, ledger *store.MemoryLedger, engine *sales.Engine, reports *sales.Aggregator) *App {
	return &App{
		Cfg:     cfg,
		Catalog: catalog,
		Ledger:  ledger,
		Engine:  engine,
		Reports: reports,
		started: time.Now(),
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		WriteJSONError(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "expected application/json")
		return false
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		WriteJSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return false
	}
	return true
}

type addressRequest struct {
	Recipient  string `json:"recipient"`
	Street     string `json:"street"`
	Number     string `json:"number"`
	District   string `json:"district"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
}

type saleRequest struct {
	Type            string                `json:"type"`
	Items           []sales.RequestedItem `json:"items"`
	DeliveryAddress *addressRequest       `json:"delivery_address,omitempty"`
}

func (a *App) salesHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		a.registerSale(w, r)
	case http.MethodGet:
		WriteJSON(w, http.StatusOK, a.Reports.ListSales())
	default:
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
	}
}

func (a *App) registerSale(w http.ResponseWriter, r *http.Request) {
	var req saleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	var addr *model.DeliveryAddress
	if req.DeliveryAddress != nil {
		built, err := model.NewDeliveryAddress(
			req.DeliveryAddress.Recipient,
			req.DeliveryAddress.Street,
			req.DeliveryAddress.Number,
			req.DeliveryAddress.District,
			req.DeliveryAddress.City,
			req.DeliveryAddress.State,
			req.DeliveryAddress.PostalCode,
		)
		if err != nil {
			WriteJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
			return
		}
		addr = &built
	}
	sale, err := a.Engine.RegisterSale(model.SaleType(req.Type), req.Items, addr)
	if err != nil {
		writeSalesError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, sale)
}

func (a *App) salesSummaryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	WriteJSON(w, http.StatusOK, a.Reports.Summarize())
}

type productRequest struct {
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	QuantityOnHand int             `json:"quantity_on_hand"`
}

func (a *App) productsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		a.registerProduct(w, r)
	case http.MethodGet:
		WriteJSON(w, http.StatusOK, a.Catalog.ListAll())
	default:
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
	}
}

func (a *App) registerProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := model.NewProduct(req.Code, req.Name, req.UnitPrice, req.QuantityOnHand)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", err.Error())
		return
	}
	if err := a.Catalog.Save(p); err != nil {
		writeSalesError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, p)
}

type stockEntryRequest struct {
	Amount int `json:"amount"`
}

// productByCodeHandler serves /products/{code} and /products/{code}/stock.
func (a *App) productByCodeHandler(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/products/")
	if rest == "" {
		WriteJSONError(w, http.StatusNotFound, "not_found", "")
		return
	}
	if code, ok := strings.CutSuffix(rest, "/stock"); ok {
		if r.Method != http.MethodPost {
			WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
			return
		}
		a.creditStock(w, r, code)
		return
	}
	if strings.Contains(rest, "/") {
		WriteJSONError(w, http.StatusNotFound, "not_found", "")
		return
	}
	if r.Method != http.MethodGet {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
		return
	}
	p, ok := a.Catalog.FindByCode(rest)
	if !ok {
		WriteJSONError(w, http.StatusNotFound, "product_not_found", "")
		return
	}
	WriteJSON(w, http.StatusOK, p)
}

func (a *App) creditStock(w http.ResponseWriter, r *http.Request, code string) {
	var req stockEntryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := a.Engine.CreditStock(code, req.Amount)
	if err != nil {
		writeSalesError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, p)
}

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) metricsHandler(w http.ResponseWriter, r *http.Request) {
	registered, rejected, itemsSold := a.Engine.Metrics()
	m := map[string]any{
		"sales_registered": registered,
		"sales_rejected":   rejected,
		"items_sold":       itemsSold,
		"sales_recorded":   a.Ledger.Count(),
		"products_tracked": len(a.Catalog.ListAll()),
		"uptime_sec":       time.Since(a.started).Seconds(),
	}
	WriteJSON(w, http.StatusOK, m)
}

func (a *App) openapiHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(httpopenapi.YAML)
}

func (a *App) docsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	html := `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui'
      });
    </script>
  </body>
</html>`
	_, _ = w.Write([]byte(html))
}
