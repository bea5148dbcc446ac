package http_test

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-ledger/internal/application/dto"
	"github.com/jhoicas/pos-ledger/internal/application/identity"
	"github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/internal/application/sales"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
	"github.com/jhoicas/pos-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/pos-ledger/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/pos-ledger/internal/interfaces/http"
	"github.com/jhoicas/pos-ledger/pkg/logger"
	"github.com/jhoicas/pos-ledger/pkg/metrics"
)

const (
	systemActorID = "00000000-0000-0000-0000-000000000000"
	cashierID     = "9b2f3c1e-0000-4000-8000-000000000001"
	categoryID    = "1a000000-0000-4000-8000-000000000001"
	supplierID    = "2b000000-0000-4000-8000-000000000001"
	stateID       = "3c000000-0000-4000-8000-000000000001"
	locationL1    = "4d000000-0000-4000-8000-000000000001"
	customerID    = "6f000000-0000-4000-8000-000000000001"
	cashMethodID  = "7a000000-0000-4000-8000-000000000001"
	unknownID     = "ffffffff-0000-4000-8000-000000000009"
)

// memIdempotency almacén de idempotencia en memoria con la misma semántica SETNX que Redis.
type memIdempotency struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemIdempotency() *memIdempotency {
	return &memIdempotency{data: map[string]string{}}
}

func (m *memIdempotency) Key(scope, id string) string { return scope + ":" + id }

func (m *memIdempotency) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memIdempotency) SetNX(_ context.Context, key, value string, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = value
	return true, nil
}

func (m *memIdempotency) Set(_ context.Context, key, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memIdempotency) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

type apiFixture struct {
	app         *fiber.App
	store       *memory.Store
	idempotency *memIdempotency
}

func newAPIFixture(t *testing.T, jwtSecret string) *apiFixture {
	t.Helper()
	store := memory.NewStore()
	store.AddReference(entity.RefCategory, categoryID, "Bebidas")
	store.AddReference(entity.RefSupplier, supplierID, "Distribuidora Andina")
	store.AddReference(entity.RefState, stateID, "Activo")
	store.AddReference(entity.RefCustomer, customerID, "Cliente C")
	store.AddReference(entity.RefPaymentMethod, cashMethodID, "Efectivo")
	store.AddLocation(locationL1, "Barra", "Calle 10 #5-20")
	store.AddActor(entity.Actor{ID: systemActorID, Name: "Sistema"})
	store.AddActor(entity.Actor{ID: cashierID, Name: "Cajera"})

	repos := store.Repos()
	actors := identity.NewActorResolver(entity.Actor{ID: systemActorID, Name: "Sistema"}, repos.Refs)
	engine := inventory.NewMovementEngine(store, repos.Refs, actors, nil, nil)
	pricing := inventory.NewPricingService(repos.Prices)
	idem := newMemIdempotency()
	reg := prometheus.NewRegistry()

	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(logger.Nop())})
	apphttp.Router(app, apphttp.RouterDeps{
		Lifecycle:     inventory.NewProductLifecycleUseCase(store, repos.Refs, repos.Products, engine, pricing, actors, nil),
		Engine:        engine,
		Queries:       inventory.NewQueryUseCase(repos, pricing),
		Replenishment: inventory.NewReplenishmentUseCase(repos.Inventory),
		Reconcile:     inventory.NewReconcileUseCase(repos.Movements),
		Sales:         sales.NewProcessSaleUseCase(store, engine, pricing, repos.Refs, repos.Sales, actors, nil, nil),
		Receipts:      sales.NewReceiptUseCase(repos.Sales, pdf.NewReceiptGenerator("Tienda Central")),
		JWTSecret:     jwtSecret,
		JWTIssuer:     testIssuer,
		Idempotency:   idem,
		HTTPMetrics:   metrics.NewHTTPMetrics(reg),
		Gatherer:      reg,
		Log:           logger.Nop(),
	})
	return &apiFixture{app: app, store: store, idempotency: idem}
}

func (f *apiFixture) do(t *testing.T, method, path string, body any, headers map[string]string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func sha256Base64(b []byte) string {
	sum := sha256.Sum256(b)
	return base64.StdEncoding.EncodeToString(sum[:])
}

func widgetRequest() dto.CreateProductRequest {
	return dto.CreateProductRequest{
		Name:             "Widget",
		CategoryID:       categoryID,
		SupplierID:       supplierID,
		StateID:          stateID,
		Price:            100,
		LocationID:       locationL1,
		InitialAvailable: 10,
		Minimum:          2,
		Maximum:          50,
	}
}

func (f *apiFixture) createWidget(t *testing.T) string {
	t.Helper()
	resp := f.do(t, http.MethodPost, "/api/products", widgetRequest(), nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	return decode[dto.IDResponse](t, resp).ID
}

func saleBody(productID string, qty int64) dto.CreateSaleRequest {
	return dto.CreateSaleRequest{
		CustomerID:      customerID,
		PaymentMethodID: cashMethodID,
		Lines:           []dto.CreateSaleLineRequest{{ProductID: productID, LocationID: locationL1, Quantity: qty}},
	}
}

func TestAPI_ProductAndMovementFlow(t *testing.T) {
	f := newAPIFixture(t, "")
	id := f.createWidget(t)

	items := decode[[]dto.InventoryItemResponse](t, f.do(t, http.MethodGet, "/api/inventory", nil, nil))
	require.Len(t, items, 1)
	assert.Equal(t, int64(10), items[0].Available)
	require.NotNil(t, items[0].Price)
	assert.Equal(t, int64(100), items[0].Price.Minor)
	assert.Equal(t, "Barra", items[0].LocationName)

	resp := f.do(t, http.MethodPost, "/api/inventory/movements", dto.RegisterMovementRequest{
		ProductID: id, LocationID: locationL1, Type: "PURCHASE", Quantity: 5,
	}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	mov := decode[dto.MovementResponse](t, resp)
	assert.Equal(t, "PURCHASE", mov.Type)
	assert.Equal(t, systemActorID, mov.ActorID)
	assert.True(t, strings.HasPrefix(mov.CorrelationKey, "PURCHASE-"))

	history := decode[[]dto.MovementResponse](t, f.do(t, http.MethodGet, "/api/inventory/products/"+id+"/movements", nil, nil))
	require.Len(t, history, 2)
	assert.Equal(t, "PURCHASE", history[0].Type)
	assert.Equal(t, "CREATION", history[1].Type)

	minimum, maximum := int64(3), int64(60)
	resp = f.do(t, http.MethodPut, "/api/products/"+id, dto.UpdateProductRequest{
		Name: "Widget XL", CategoryID: categoryID, SupplierID: supplierID, StateID: stateID,
		Price: 120, UpdatePrice: true, LocationID: locationL1, Minimum: &minimum, Maximum: &maximum,
	}, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	prices := decode[[]dto.PriceEntryResponse](t, f.do(t, http.MethodGet, "/api/products/"+id+"/prices", nil, nil))
	require.Len(t, prices, 2)
	assert.Equal(t, int64(120), prices[0].Price.Minor)

	found := decode[[]dto.ProductResponse](t, f.do(t, http.MethodGet, "/api/products?q=widget", nil, nil))
	require.Len(t, found, 1)
	assert.Equal(t, "Widget XL", found[0].Name)

	av := decode[dto.AvailabilityResponse](t, f.do(t, http.MethodGet, "/api/inventory/products/"+id+"/availability?quantity=20", nil, nil))
	assert.Equal(t, int64(15), av.Total)
	assert.False(t, av.Sufficient)

	rec := decode[dto.ReconcileResponse](t, f.do(t, http.MethodGet, "/api/inventory/reconcile", nil, nil))
	assert.True(t, rec.Consistent)
	assert.Equal(t, 1, rec.Checked)

	resp = f.do(t, http.MethodDelete, "/api/products/"+id, nil, nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	errBody := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "CONFLICT", errBody.Code)
	assert.EqualValues(t, 1, errBody.Details["inventory"])
}

func TestAPI_CreateProductErrors(t *testing.T) {
	f := newAPIFixture(t, "")

	req := widgetRequest()
	req.CategoryID = unknownID
	resp := f.do(t, http.MethodPost, "/api/products", req, nil)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "INVALID_REFERENCE", body.Code)
	assert.Equal(t, "category", body.Details["entity"])
	assert.Equal(t, unknownID, body.Details["id"])

	req = widgetRequest()
	req.Name = ""
	req.LocationID = "no-es-uuid"
	resp = f.do(t, http.MethodPost, "/api/products", req, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body = decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "INVALID_INPUT", body.Code)
	fields, ok := body.Details["fields"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "location_id")

	items := decode[[]dto.InventoryItemResponse](t, f.do(t, http.MethodGet, "/api/inventory", nil, nil))
	assert.Empty(t, items)
}

func TestAPI_SaleQuantityAboveBoundIsRejected(t *testing.T) {
	f := newAPIFixture(t, "")
	id := f.createWidget(t)

	resp := f.do(t, http.MethodPost, "/api/sales", saleBody(id, 1<<62), nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "INVALID_INPUT", body.Code)
	fields, ok := body.Details["fields"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, fields, "lines[0].quantity")

	mov := dto.RegisterMovementRequest{ProductID: id, LocationID: locationL1, Type: "PURCHASE", Quantity: 1 << 62}
	resp = f.do(t, http.MethodPost, "/api/inventory/movements", mov, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	items := decode[[]dto.InventoryItemResponse](t, f.do(t, http.MethodGet, "/api/inventory", nil, nil))
	require.Len(t, items, 1)
	assert.Equal(t, int64(10), items[0].Available)
}

func TestAPI_SaleFlow(t *testing.T) {
	f := newAPIFixture(t, "")
	id := f.createWidget(t)

	resp := f.do(t, http.MethodPost, "/api/sales", saleBody(id, 11), nil)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "INSUFFICIENT_STOCK", body.Code)
	assert.EqualValues(t, 10, body.Details["available"])
	assert.EqualValues(t, 11, body.Details["requested"])

	resp = f.do(t, http.MethodPost, "/api/sales", saleBody(id, 3), nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sale := decode[dto.SaleCreatedResponse](t, resp)
	assert.Equal(t, int64(300), sale.Total.Minor)

	lines := decode[[]dto.SaleLineResponse](t, f.do(t, http.MethodGet, "/api/sales/"+sale.ID, nil, nil))
	require.Len(t, lines, 1)
	assert.Equal(t, int64(3), lines[0].Quantity)
	assert.Equal(t, int64(100), lines[0].UnitPrice.Minor)
	assert.Equal(t, "Efectivo", lines[0].PaymentMethodName)

	resp = f.do(t, http.MethodGet, "/api/sales/"+sale.ID+"/receipt", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "venta-"+sale.ID[:8]+".pdf")
	pdfBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.True(t, bytes.HasPrefix(pdfBytes, []byte("%PDF")))

	items := decode[[]dto.InventoryItemResponse](t, f.do(t, http.MethodGet, "/api/inventory", nil, nil))
	require.Len(t, items, 1)
	assert.Equal(t, int64(7), items[0].Available)
}

func TestAPI_NotFound(t *testing.T) {
	f := newAPIFixture(t, "")

	for _, path := range []string{
		"/api/sales/" + unknownID,
		"/api/sales/" + unknownID + "/receipt",
		"/api/inventory/products/" + unknownID + "/movements",
		"/api/products/" + unknownID + "/prices",
	} {
		resp := f.do(t, http.MethodGet, path, nil, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
		assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, resp).Code, path)
	}

	resp := f.do(t, http.MethodGet, "/api/no-existe", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "HTTP_ERROR", decode[dto.ErrorResponse](t, resp).Code)
}

func TestAPI_IdempotentSale(t *testing.T) {
	f := newAPIFixture(t, "")
	id := f.createWidget(t)
	headers := map[string]string{apphttp.HeaderIdempotencyKey: "venta-001"}

	first := f.do(t, http.MethodPost, "/api/sales", saleBody(id, 2), headers)
	require.Equal(t, http.StatusCreated, first.StatusCode)
	firstSale := decode[dto.SaleCreatedResponse](t, first)

	second := f.do(t, http.MethodPost, "/api/sales", saleBody(id, 2), headers)
	require.Equal(t, http.StatusCreated, second.StatusCode)
	assert.Equal(t, "true", second.Header.Get("Idempotent-Replayed"))
	assert.Equal(t, firstSale.ID, decode[dto.SaleCreatedResponse](t, second).ID)

	items := decode[[]dto.InventoryItemResponse](t, f.do(t, http.MethodGet, "/api/inventory", nil, nil))
	assert.Equal(t, int64(8), items[0].Available, "el reintento no vuelve a descontar")

	reused := f.do(t, http.MethodPost, "/api/sales", saleBody(id, 5), headers)
	assert.Equal(t, http.StatusUnprocessableEntity, reused.StatusCode)
	assert.Equal(t, "IDEMPOTENCY_KEY_REUSED", decode[dto.ErrorResponse](t, reused).Code)
}

func TestAPI_IdempotencyInFlightDuplicate(t *testing.T) {
	f := newAPIFixture(t, "")
	id := f.createWidget(t)

	bodyRaw, err := json.Marshal(saleBody(id, 1))
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/sales", bytes.NewReader(bodyRaw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apphttp.HeaderIdempotencyKey, "venta-002")

	// Marca de petición en curso para la misma clave y el mismo body.
	key := f.idempotency.Key("|POST|/api/sales", "venta-002")
	pending, err := json.Marshal(map[string]any{"pending": true, "request_hash": sha256Base64(bodyRaw)})
	require.NoError(t, err)
	require.NoError(t, f.idempotency.Set(context.Background(), key, string(pending), time.Hour))

	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "IDEMPOTENCY_IN_PROGRESS", decode[dto.ErrorResponse](t, resp).Code)

	items := decode[[]dto.InventoryItemResponse](t, f.do(t, http.MethodGet, "/api/inventory", nil, nil))
	assert.Equal(t, int64(10), items[0].Available)
}

func TestAPI_IdempotencyReplaysClientErrors(t *testing.T) {
	f := newAPIFixture(t, "")
	id := f.createWidget(t)
	headers := map[string]string{apphttp.HeaderIdempotencyKey: "venta-003"}

	first := f.do(t, http.MethodPost, "/api/sales", saleBody(id, 50), headers)
	require.Equal(t, http.StatusConflict, first.StatusCode)
	first.Body.Close()

	replay := f.do(t, http.MethodPost, "/api/sales", saleBody(id, 50), headers)
	assert.Equal(t, http.StatusConflict, replay.StatusCode)
	assert.Equal(t, "true", replay.Header.Get("Idempotent-Replayed"))
	assert.Equal(t, "INSUFFICIENT_STOCK", decode[dto.ErrorResponse](t, replay).Code)
}

func TestAPI_AuthenticatedActor(t *testing.T) {
	f := newAPIFixture(t, testJWTSecret)
	id := f.createWidget(t)

	move := dto.RegisterMovementRequest{ProductID: id, LocationID: locationL1, Type: "INBOUND", Quantity: 1}

	resp := f.do(t, http.MethodPost, "/api/inventory/movements", move, map[string]string{
		"Authorization": bearer(t, cashierID, "Cajera", testIssuer, testExpMin),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, cashierID, decode[dto.MovementResponse](t, resp).ActorID)

	resp = f.do(t, http.MethodPost, "/api/inventory/movements", move, map[string]string{
		"Authorization": bearer(t, unknownID, "Fantasma", testIssuer, testExpMin),
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "INVALID_REFERENCE", decode[dto.ErrorResponse](t, resp).Code)

	resp = f.do(t, http.MethodPost, "/api/inventory/movements", move, map[string]string{
		"Authorization": "Bearer basura",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	history := decode[[]dto.MovementResponse](t, f.do(t, http.MethodGet, "/api/inventory/products/"+id+"/movements", nil, nil))
	require.Len(t, history, 2)
	assert.Equal(t, "Cajera", history[0].ActorName)
}

func TestAPI_MetricsEndpoint(t *testing.T) {
	f := newAPIFixture(t, "")
	resp := f.do(t, http.MethodGet, "/api/inventory", nil, nil)
	resp.Body.Close()

	resp = f.do(t, http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Contains(t, string(raw), "http_request_duration_seconds")
	assert.Contains(t, string(raw), `route="/api/inventory`)
}
