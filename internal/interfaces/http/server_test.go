package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Manufactura-api/internal/application/auth"
	"github.com/jhoicas/Manufactura-api/internal/application/dto"
	"github.com/jhoicas/Manufactura-api/internal/application/inventory"
	"github.com/jhoicas/Manufactura-api/internal/application/manufacturing"
	"github.com/jhoicas/Manufactura-api/internal/application/usecase"
	"github.com/jhoicas/Manufactura-api/internal/infrastructure/excel"
	"github.com/jhoicas/Manufactura-api/internal/infrastructure/memory"
	"github.com/jhoicas/Manufactura-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/Manufactura-api/internal/interfaces/http"
	"github.com/jhoicas/Manufactura-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Servidor completo sobre el driver en memoria
// ──────────────────────────────────────────────────────────────────────────────

func newServer(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	tx := memory.NewTxRunner(store)
	log := logger.Nop()

	movements := inventory.NewRegisterMovementUseCase(tx, store.Items(), store.Warehouses())
	app := apphttp.NewApp("manufactura-test", log)
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:           auth.NewAuthUseCase(store.Users(), store.Companies(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		CompanyUC:        usecase.NewCompanyUseCase(store.Companies()),
		ModuleService:    usecase.NewModuleService(store.Companies()),
		WarehouseUC:      usecase.NewWarehouseUseCase(store.Warehouses()),
		ItemUC:           usecase.NewItemUseCase(store.Items()),
		RegisterMovement: movements,
		StockQuery:       inventory.NewStockQueryUseCase(store.Items(), store.Stock(), store.Movements()),
		BOMUC:            manufacturing.NewBOMUseCase(store.BOM(), store.Items(), excel.NewBOMExporter()),
		RecordUC:         manufacturing.NewRecordUseCase(store.Records(), store.Items(), store.Warehouses(), store.BOM(), store.Stock()),
		CalculateUC:      manufacturing.NewCalculateUseCase(tx, movements, store.Warehouses(), nil, log),
		CostSheetUC:      manufacturing.NewCostSheetUseCase(store.Records(), store.Items(), store.Companies(), pdf.NewCostSheetGenerator()),
		JWTSecret:        testJWTSecret,
		Logger:           log,
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
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

// mustCall exige el estado y decodifica el cuerpo.
func mustCall[T any](t *testing.T, app *fiber.App, status int, method, path, token string, body any) T {
	t.Helper()
	resp := call(t, app, method, path, token, body)
	if resp.StatusCode != status {
		b, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.Equalf(t, status, resp.StatusCode, "%s %s: %s", method, path, b)
	}
	return decode[T](t, resp)
}

// signup crea empresa y usuario y devuelve el token.
func signup(t *testing.T, app *fiber.App, nit, role string, modules ...string) string {
	t.Helper()
	company := mustCall[dto.CompanyResponse](t, app, http.StatusCreated, http.MethodPost, "/api/companies", "",
		dto.CreateCompanyRequest{Name: "Panadería " + nit, NIT: nit, Modules: modules})
	email := role + "@" + nit + ".co"
	mustCall[dto.UserResponse](t, app, http.StatusCreated, http.MethodPost, "/api/auth/register", "",
		dto.RegisterRequest{Email: email, Password: "secreta123", CompanyID: company.ID, Role: role})
	login := mustCall[dto.LoginResponse](t, app, http.StatusOK, http.MethodPost, "/api/auth/login", "",
		dto.LoginRequest{Email: email, Password: "secreta123"})
	return login.Token
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ──────────────────────────────────────────────────────────────────────────────
// Flujo completo de fabricación
// ──────────────────────────────────────────────────────────────────────────────

func TestServer_FlujoFabricacionPan(t *testing.T) {
	app := newServer(t)
	tok := signup(t, app, "900100", "admin")

	raw := mustCall[dto.WarehouseResponse](t, app, 201, "POST", "/api/warehouses", tok, dto.CreateWarehouseRequest{Name: "Materia prima"})
	fin := mustCall[dto.WarehouseResponse](t, app, 201, "POST", "/api/warehouses", tok, dto.CreateWarehouseRequest{Name: "Producto terminado"})
	flour := mustCall[dto.ItemResponse](t, app, 201, "POST", "/api/items", tok, dto.CreateItemRequest{SKU: "HAR-01", Name: "Harina", Unit: "kg"})
	yeast := mustCall[dto.ItemResponse](t, app, 201, "POST", "/api/items", tok, dto.CreateItemRequest{SKU: "LEV-01", Name: "Levadura", Unit: "kg"})
	bread := mustCall[dto.ItemResponse](t, app, 201, "POST", "/api/items", tok, dto.CreateItemRequest{SKU: "PAN-01", Name: "Pan", Unit: "und"})

	mustCall[dto.BOMLineResponse](t, app, 201, "POST", "/api/items/"+bread.ID+"/bom", tok,
		dto.AddBOMLineRequest{ComponentItemID: flour.ID, QuantityPerUnit: dec("0.5")})
	mustCall[dto.BOMLineResponse](t, app, 201, "POST", "/api/items/"+bread.ID+"/bom", tok,
		dto.AddBOMLineRequest{ComponentItemID: yeast.ID, QuantityPerUnit: dec("0.02")})

	receive := func(itemID, qty, cost string) {
		c := dec(cost)
		mustCall[dto.RegisterMovementResponse](t, app, 201, "POST", "/api/inventory/movements", tok, dto.RegisterMovementRequest{
			ItemID: itemID, WarehouseID: raw.ID, Type: "IN", Quantity: dec(qty), UnitCost: &c,
		})
	}
	receive(flour.ID, "40", "2")
	receive(yeast.ID, "1", "10")

	rec := mustCall[dto.ManufacturingRecordResponse](t, app, 201, "POST", "/api/manufacturing/records", tok, dto.CreateManufacturingRecordRequest{
		ItemID: bread.ID, SourceWarehouseID: raw.ID, DestinationWarehouseID: fin.ID,
		PlannedQuantity: dec("100"), LaborCost: dec("30"), OverheadCost: dec("20"),
	})
	calcPath := "/api/manufacturing/records/" + rec.ID + "/calculate"

	// faltan 10 kg de harina y 1 kg de levadura: nada se mueve
	report := mustCall[dto.ShortageReportResponse](t, app, 400, "POST", calcPath, tok, dto.CalculateRequest{ProducedQuantity: dec("100")})
	assert.Equal(t, "INSUFFICIENT_STOCK", report.Code)
	require.Len(t, report.Shortages, 2)
	byID := map[string]dto.ShortageDTO{}
	for _, s := range report.Shortages {
		byID[s.ComponentID] = s
	}
	assert.True(t, byID[flour.ID].Shortage.Equal(dec("10")))
	assert.Equal(t, "HAR-01", byID[flour.ID].ComponentSKU)
	assert.True(t, byID[yeast.ID].Shortage.Equal(dec("1")))

	stock := mustCall[dto.ItemStockResponse](t, app, 200, "GET", "/api/inventory/stock/"+flour.ID, tok, nil)
	assert.True(t, stock.OnHand.Equal(dec("40")))

	preview := mustCall[dto.RequirementPreviewResponse](t, app, 200, "GET", "/api/manufacturing/records/"+rec.ID+"/preview", tok, nil)
	assert.False(t, preview.Feasible)

	receive(flour.ID, "20", "2")
	receive(yeast.ID, "2", "10")

	done := mustCall[dto.ManufacturingRecordResponse](t, app, 200, "POST", calcPath, tok, dto.CalculateRequest{ProducedQuantity: dec("100")})
	assert.Equal(t, "completed", done.Status)
	assert.True(t, done.TotalRawMaterialCost.Equal(dec("120")))
	assert.True(t, done.TotalManufacturingCost.Equal(dec("170")))
	assert.True(t, done.CostPerUnit.Equal(dec("1.7")))
	assert.Len(t, done.Lines, 2)

	breadStock := mustCall[dto.ItemStockResponse](t, app, 200, "GET", "/api/inventory/stock/"+bread.ID, tok, nil)
	assert.True(t, breadStock.OnHand.Equal(dec("100")))

	ledger := mustCall[[]dto.MovementResponse](t, app, 200, "GET", "/api/inventory/references/manufacturing/"+rec.ID+"/movements", tok, nil)
	assert.Len(t, ledger, 3, "una salida por componente y una entrada de producto terminado")

	again := mustCall[dto.ErrorResponse](t, app, 409, "POST", calcPath, tok, dto.CalculateRequest{ProducedQuantity: dec("100")})
	assert.Equal(t, "ALREADY_COMPLETED", again.Code)

	resp := call(t, app, "GET", "/api/manufacturing/records/"+rec.ID+"/cost-sheet", tok, nil)
	defer resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))

	xlsx := call(t, app, "GET", "/api/items/"+bread.ID+"/bom/export", tok, nil)
	defer xlsx.Body.Close()
	assert.Equal(t, 200, xlsx.StatusCode)
	assert.Contains(t, xlsx.Header.Get("Content-Disposition"), ".xlsx")
}

// Los ids tomados de la ruta se guardan en el almacén en memoria; las peticiones siguientes
// reutilizan los buffers de fasthttp y no deben alterarlos.
func TestServer_IDsDeRutaSobrevivenPeticionesSiguientes(t *testing.T) {
	app := newServer(t)
	tok := signup(t, app, "900300", "admin")

	raw := mustCall[dto.WarehouseResponse](t, app, 201, "POST", "/api/warehouses", tok, dto.CreateWarehouseRequest{Name: "Materia prima"})
	fin := mustCall[dto.WarehouseResponse](t, app, 201, "POST", "/api/warehouses", tok, dto.CreateWarehouseRequest{Name: "Producto terminado"})
	flour := mustCall[dto.ItemResponse](t, app, 201, "POST", "/api/items", tok, dto.CreateItemRequest{SKU: "HAR-01", Name: "Harina", Unit: "kg"})
	sugar := mustCall[dto.ItemResponse](t, app, 201, "POST", "/api/items", tok, dto.CreateItemRequest{SKU: "AZU-01", Name: "Azúcar", Unit: "kg"})
	bread := mustCall[dto.ItemResponse](t, app, 201, "POST", "/api/items", tok, dto.CreateItemRequest{SKU: "PAN-01", Name: "Pan", Unit: "und"})
	cake := mustCall[dto.ItemResponse](t, app, 201, "POST", "/api/items", tok, dto.CreateItemRequest{SKU: "TOR-01", Name: "Torta", Unit: "und"})

	mustCall[dto.BOMLineResponse](t, app, 201, "POST", "/api/items/"+bread.ID+"/bom", tok,
		dto.AddBOMLineRequest{ComponentItemID: flour.ID, QuantityPerUnit: dec("0.5")})

	// peticiones con otras rutas y otros ids entre medio
	for i := 0; i < 10; i++ {
		mustCall[dto.ItemResponse](t, app, 200, "GET", "/api/items/"+cake.ID, tok, nil)
		mustCall[dto.WarehouseResponse](t, app, 200, "GET", "/api/warehouses/"+fin.ID, tok, nil)
		mustCall[dto.BOMResponse](t, app, 200, "GET", "/api/items/"+cake.ID+"/bom", tok, nil)
	}
	mustCall[dto.BOMLineResponse](t, app, 201, "POST", "/api/items/"+cake.ID+"/bom", tok,
		dto.AddBOMLineRequest{ComponentItemID: sugar.ID, QuantityPerUnit: dec("0.2")})

	bom := mustCall[dto.BOMResponse](t, app, 200, "GET", "/api/items/"+bread.ID+"/bom", tok, nil)
	require.Len(t, bom.Lines, 1)
	assert.Equal(t, bread.ID, bom.Lines[0].ParentItemID)
	assert.Equal(t, flour.ID, bom.Lines[0].ComponentItemID)

	c := dec("2")
	mustCall[dto.RegisterMovementResponse](t, app, 201, "POST", "/api/inventory/movements", tok, dto.RegisterMovementRequest{
		ItemID: flour.ID, WarehouseID: raw.ID, Type: "IN", Quantity: dec("10"), UnitCost: &c,
	})
	rec := mustCall[dto.ManufacturingRecordResponse](t, app, 201, "POST", "/api/manufacturing/records", tok, dto.CreateManufacturingRecordRequest{
		ItemID: bread.ID, SourceWarehouseID: raw.ID, DestinationWarehouseID: fin.ID, PlannedQuantity: dec("10"),
	})
	done := mustCall[dto.ManufacturingRecordResponse](t, app, 200, "POST", "/api/manufacturing/records/"+rec.ID+"/calculate", tok,
		dto.CalculateRequest{ProducedQuantity: dec("10")})
	assert.Equal(t, "completed", done.Status)
	require.Len(t, done.Lines, 1)
	assert.True(t, done.Lines[0].RequiredQuantity.Equal(dec("5")))
	assert.True(t, done.TotalRawMaterialCost.Equal(dec("10")))
}

func TestServer_CalculoConBodegaDestinoEliminada(t *testing.T) {
	app := newServer(t)
	tok := signup(t, app, "900700", "admin")

	raw := mustCall[dto.WarehouseResponse](t, app, 201, "POST", "/api/warehouses", tok, dto.CreateWarehouseRequest{Name: "Materia prima"})
	fin := mustCall[dto.WarehouseResponse](t, app, 201, "POST", "/api/warehouses", tok, dto.CreateWarehouseRequest{Name: "Producto terminado"})
	flour := mustCall[dto.ItemResponse](t, app, 201, "POST", "/api/items", tok, dto.CreateItemRequest{SKU: "HAR-01", Name: "Harina", Unit: "kg"})
	bread := mustCall[dto.ItemResponse](t, app, 201, "POST", "/api/items", tok, dto.CreateItemRequest{SKU: "PAN-01", Name: "Pan", Unit: "und"})
	mustCall[dto.BOMLineResponse](t, app, 201, "POST", "/api/items/"+bread.ID+"/bom", tok,
		dto.AddBOMLineRequest{ComponentItemID: flour.ID, QuantityPerUnit: dec("1")})
	c := dec("1")
	mustCall[dto.RegisterMovementResponse](t, app, 201, "POST", "/api/inventory/movements", tok, dto.RegisterMovementRequest{
		ItemID: flour.ID, WarehouseID: raw.ID, Type: "IN", Quantity: dec("5"), UnitCost: &c,
	})
	rec := mustCall[dto.ManufacturingRecordResponse](t, app, 201, "POST", "/api/manufacturing/records", tok, dto.CreateManufacturingRecordRequest{
		ItemID: bread.ID, SourceWarehouseID: raw.ID, DestinationWarehouseID: fin.ID, PlannedQuantity: dec("5"),
	})

	resp := call(t, app, "DELETE", "/api/warehouses/"+fin.ID, tok, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	errResp := mustCall[dto.ErrorResponse](t, app, 400, "POST", "/api/manufacturing/records/"+rec.ID+"/calculate", tok,
		dto.CalculateRequest{ProducedQuantity: dec("5")})
	assert.Equal(t, "VALIDATION", errResp.Code)
	assert.Contains(t, errResp.Fields, "destination_warehouse_id")

	stock := mustCall[dto.ItemStockResponse](t, app, 200, "GET", "/api/inventory/stock/"+flour.ID, tok, nil)
	assert.True(t, stock.OnHand.Equal(dec("5")))
	breadStock := mustCall[dto.ItemStockResponse](t, app, 200, "GET", "/api/inventory/stock/"+bread.ID, tok, nil)
	assert.True(t, breadStock.OnHand.IsZero())
}

// ──────────────────────────────────────────────────────────────────────────────
// Guardas: módulos, roles, validación, aislamiento entre empresas
// ──────────────────────────────────────────────────────────────────────────────

func TestServer_ModuloFabricacionNoContratado(t *testing.T) {
	app := newServer(t)
	tok := signup(t, app, "900200", "admin", "inventory")

	resp := call(t, app, "GET", "/api/manufacturing/records", tok, nil)
	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "MODULE_DISABLED", body.Code)

	// inventario sigue disponible
	resp = call(t, app, "GET", "/api/items", tok, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_BodegueroNoPuedeCalcular(t *testing.T) {
	app := newServer(t)
	tok := signup(t, app, "900300", "bodeguero")

	resp := call(t, app, "POST", "/api/manufacturing/records/cualquiera/calculate", tok, dto.CalculateRequest{ProducedQuantity: dec("1")})
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestServer_ValidacionDeCuerpo(t *testing.T) {
	app := newServer(t)
	tok := signup(t, app, "900400", "admin")

	body := mustCall[dto.ErrorResponse](t, app, 400, "POST", "/api/items", tok, dto.CreateItemRequest{Name: "Sin SKU", Unit: "kg"})
	assert.Equal(t, "VALIDATION", body.Code)
	assert.Equal(t, "required", body.Fields["sku"])

	wh := mustCall[dto.ErrorResponse](t, app, 400, "POST", "/api/warehouses", tok,
		dto.CreateWarehouseRequest{Name: "Central", Address: strings.Repeat("x", 501)})
	assert.Equal(t, "max", wh.Fields["address"])

	resp := call(t, app, "POST", "/api/items", tok, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_AislamientoEntreEmpresas(t *testing.T) {
	app := newServer(t)
	tokA := signup(t, app, "900500", "admin")
	tokB := signup(t, app, "900600", "admin")

	item := mustCall[dto.ItemResponse](t, app, 201, "POST", "/api/items", tokA, dto.CreateItemRequest{SKU: "X-1", Name: "X", Unit: "und"})

	resp := call(t, app, "GET", "/api/items/"+item.ID, tokB, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// el mismo SKU es válido en otra empresa
	mustCall[dto.ItemResponse](t, app, 201, "POST", "/api/items", tokB, dto.CreateItemRequest{SKU: "X-1", Name: "X", Unit: "und"})
	dup := mustCall[dto.ErrorResponse](t, app, 409, "POST", "/api/items", tokA, dto.CreateItemRequest{SKU: "X-1", Name: "X", Unit: "und"})
	assert.Equal(t, "DUPLICATE", dup.Code)
}

func TestServer_LoginInvalido(t *testing.T) {
	app := newServer(t)
	signup(t, app, "900700", "admin")

	body := mustCall[dto.ErrorResponse](t, app, 401, "POST", "/api/auth/login", "",
		dto.LoginRequest{Email: "admin@900700.co", Password: "incorrecta"})
	assert.Equal(t, "UNAUTHORIZED", body.Code)
}

func TestServer_Health(t *testing.T) {
	app := newServer(t)
	resp := call(t, app, "GET", "/health", "", nil)
	body := decode[map[string]string](t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}
