package order

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

// stubRepo records calls so tests can assert the store is never touched on
// validation failures.
type stubRepo struct {
	createCalls int
	createID    int
	createErr   error

	listOrders []Order
	listErr    error

	statusCalls int
	statusRes   StatusResult
	statusErr   error
}

func (r *stubRepo) Create(ctx context.Context, info DeliveryInfo, items []LineRequest) (int, error) {
	r.createCalls++
	if r.createErr != nil {
		return 0, r.createErr
	}
	return r.createID, nil
}

func (r *stubRepo) List(ctx context.Context) ([]Order, error) {
	return r.listOrders, r.listErr
}

func (r *stubRepo) SetStatus(ctx context.Context, orderID int, status string) (StatusResult, error) {
	r.statusCalls++
	if r.statusErr != nil {
		return StatusResult{}, r.statusErr
	}
	return r.statusRes, nil
}

var _ Repository = (*stubRepo)(nil)

func setupApp(repo *stubRepo) *fiber.App {
	a := fiber.New()
	h := NewHandler(NewService(repo))
	h.RegisterPublicRoutes(a)
	h.RegisterProtectedRoutes(a)
	return a
}

type testResponse struct {
	Code int
	Body *bytes.Buffer
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) testResponse {
	t.Helper()
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	data, _ := io.ReadAll(res.Body)
	return testResponse{Code: res.StatusCode, Body: bytes.NewBuffer(data)}
}

func TestCreateOrder_Success(t *testing.T) {
	repo := &stubRepo{createID: 42}
	app := setupApp(repo)

	res := doJSON(t, app, "POST", "/api/orders", map[string]any{
		"name":            "Rahim",
		"phone":           "01711111111",
		"address":         "House 4, Road 2",
		"delivery_area":   "Dhaka",
		"delivery_charge": 60,
		"totalPrice":      1500,
		"grandTotal":      1560,
		"items": []map[string]any{
			{"productId": 1, "size": "M", "color": "Black", "quantity": 2, "price": 450},
		},
	})
	if res.Code != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", res.Code, res.Body.String())
	}

	var out struct {
		Message string `json:"message"`
		OrderID int    `json:"orderId"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.OrderID != 42 {
		t.Errorf("expected orderId 42, got %d", out.OrderID)
	}
	if repo.createCalls != 1 {
		t.Errorf("expected 1 repo call, got %d", repo.createCalls)
	}
}

func TestCreateOrder_EmptyItemsRejectedBeforeStore(t *testing.T) {
	repo := &stubRepo{}
	app := setupApp(repo)

	res := doJSON(t, app, "POST", "/api/orders", map[string]any{
		"name":  "Rahim",
		"items": []map[string]any{},
	})
	if res.Code != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
	if repo.createCalls != 0 {
		t.Errorf("store must not be touched for an empty cart, got %d calls", repo.createCalls)
	}
}

func TestCreateOrder_MalformedItemRejectedBeforeStore(t *testing.T) {
	repo := &stubRepo{}
	app := setupApp(repo)

	res := doJSON(t, app, "POST", "/api/orders", map[string]any{
		"name": "Rahim",
		"items": []map[string]any{
			{"productId": 1, "size": "", "color": "Black", "quantity": 2, "price": 450},
		},
	})
	if res.Code != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
	if repo.createCalls != 0 {
		t.Errorf("store must not be touched for a malformed item, got %d calls", repo.createCalls)
	}
}

func TestCreateOrder_UnresolvedVariantIs400(t *testing.T) {
	repo := &stubRepo{createErr: &VariantNotFoundError{ProductID: 3, Size: "XL", Color: "Navy"}}
	app := setupApp(repo)

	res := doJSON(t, app, "POST", "/api/orders", map[string]any{
		"items": []map[string]any{
			{"productId": 3, "size": "XL", "color": "Navy", "quantity": 1, "price": 700},
		},
	})
	if res.Code != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}

	var out struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	want := "no variant found for product 3 with size XL and color Navy"
	if out.Error != want {
		t.Errorf("expected %q, got %q", want, out.Error)
	}
}

func TestGetOrders_ReturnsNestedOrders(t *testing.T) {
	repo := &stubRepo{listOrders: []Order{
		{
			OrderID: 5, Status: StatusPending, CreatedAt: "2026-08-30T10:00:00Z",
			DeliveryInfo: DeliveryInfo{Name: "Rahim", DeliveryArea: "Dhaka", GrandTotal: 1560},
			Items: []Item{
				{ProductID: 1, Title: "Dropshoulder Tee", Quantity: 2, Price: 450, Color: "Black", Size: "M"},
			},
		},
	}}
	app := setupApp(repo)

	res := doJSON(t, app, "GET", "/api/orders", nil)
	if res.Code != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}

	var out []Order
	if err := json.Unmarshal(res.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].OrderID != 5 || len(out[0].Items) != 1 {
		t.Fatalf("unexpected payload: %s", res.Body.String())
	}
}

func TestUpdateOrderStatus_ShippedMessage(t *testing.T) {
	repo := &stubRepo{statusRes: StatusResult{PreviousStatus: StatusPending, InventoryAdjusted: true}}
	app := setupApp(repo)

	res := doJSON(t, app, "PUT", "/api/orders/7/status", map[string]any{"status": "Shipped"})
	if res.Code != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}

	var out struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(res.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Message != "Order status updated and inventory adjusted" {
		t.Errorf("unexpected message %q", out.Message)
	}
}

func TestUpdateOrderStatus_PlainMessageWithoutAdjustment(t *testing.T) {
	repo := &stubRepo{statusRes: StatusResult{PreviousStatus: StatusPending}}
	app := setupApp(repo)

	res := doJSON(t, app, "PUT", "/api/orders/7/status", map[string]any{"status": "Processing"})
	if res.Code != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if body := res.Body.String(); !bytes.Contains([]byte(body), []byte("Order status updated")) {
		t.Errorf("unexpected body %s", body)
	}
}

func TestUpdateOrderStatus_UnknownOrderIs404(t *testing.T) {
	repo := &stubRepo{statusErr: ErrNotFound}
	app := setupApp(repo)

	res := doJSON(t, app, "PUT", "/api/orders/9999/status", map[string]any{"status": "Shipped"})
	if res.Code != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Code)
	}
}

func TestUpdateOrderStatus_InventoryFailureIs500(t *testing.T) {
	repo := &stubRepo{statusErr: &InventoryUpdateError{OrderID: 7, Err: context.DeadlineExceeded}}
	app := setupApp(repo)

	res := doJSON(t, app, "PUT", "/api/orders/7/status", map[string]any{"status": "Shipped"})
	if res.Code != fiber.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", res.Code)
	}
	if !bytes.Contains(res.Body.Bytes(), []byte("Inventory update failed")) {
		t.Errorf("unexpected body %s", res.Body.String())
	}
}
