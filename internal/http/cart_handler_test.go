package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Tashika-Wijesooriya/GemXpert/internal/domain"
	"github.com/go-chi/chi/v5"
)

type CartMock struct {
	session *domain.CheckoutSession
	err     error

	gotProductID string
	gotQuantity  int
}

func (c *CartMock) result() (*domain.CheckoutSession, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.session, nil
}

func (c *CartMock) Load(_ context.Context, _ string) (*domain.CheckoutSession, error) {
	return c.result()
}

func (c *CartMock) AddItem(_ context.Context, _, productID string, quantity int) (*domain.CheckoutSession, error) {
	c.gotProductID, c.gotQuantity = productID, quantity
	return c.result()
}

func (c *CartMock) UpdateQuantity(_ context.Context, _, productID string, quantity int) (*domain.CheckoutSession, error) {
	c.gotProductID, c.gotQuantity = productID, quantity
	return c.result()
}

func (c *CartMock) RemoveItem(_ context.Context, _, productID string) (*domain.CheckoutSession, error) {
	c.gotProductID = productID
	return c.result()
}

func (c *CartMock) Clear(_ context.Context, _ string) (*domain.CheckoutSession, error) {
	return c.result()
}

func sessionWithItems() *domain.CheckoutSession {
	s := domain.NewCheckoutSession("u1")
	s.Cart.Items = []domain.CartItem{
		{ProductID: "ruby", Name: "Ruby ring", UnitPrice: 1355900, Quantity: 1},
		{ProductID: "pearl", Name: "Pearl pendant", UnitPrice: 314500, Quantity: 2},
	}
	return s
}

func withTestUser(r *http.Request) *http.Request {
	return r.WithContext(withUser(r.Context(), domain.User{ID: "u1", Name: "Nimali"}))
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestGetCart_Success(t *testing.T) {
	handler := NewCartHandler(&CartMock{session: sessionWithItems()}, 5*time.Second)
	recorder := httptest.NewRecorder()
	request := withTestUser(httptest.NewRequest("GET", "/", nil))

	handler.GetCart(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Errorf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}

	var response CartResponseDTO
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.TotalAmount != 1984900 {
		t.Errorf("Expected totalAmount 1984900, got %d", response.TotalAmount)
	}
	if response.ItemCount != 3 {
		t.Errorf("Expected itemCount 3, got %d", response.ItemCount)
	}
	if response.Step != domain.StepCart {
		t.Errorf("Expected step CART, got %s", response.Step)
	}
}

func TestGetCart_Unauthorized(t *testing.T) {
	handler := NewCartHandler(&CartMock{}, 5*time.Second)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("GET", "/", nil)
	// No user in context

	handler.GetCart(recorder, request)

	if recorder.Code != http.StatusUnauthorized {
		t.Errorf("Expected status code %d, got %d", http.StatusUnauthorized, recorder.Code)
	}

	var response ErrorResponse
	json.NewDecoder(recorder.Body).Decode(&response)
	if response.Code != "unauthorized" {
		t.Errorf("Expected error code 'unauthorized', got '%s'", response.Code)
	}
}

func TestAddItem_Success(t *testing.T) {
	mock := &CartMock{session: sessionWithItems()}
	handler := NewCartHandler(mock, 5*time.Second)

	body, _ := json.Marshal(AddItemRequestDTO{ProductID: " pearl ", Quantity: 2})
	recorder := httptest.NewRecorder()
	request := withTestUser(httptest.NewRequest("POST", "/items", bytes.NewReader(body)))

	handler.AddItem(recorder, request)

	if recorder.Code != http.StatusCreated {
		t.Errorf("Expected status code %d, got %d", http.StatusCreated, recorder.Code)
	}
	if mock.gotProductID != "pearl" || mock.gotQuantity != 2 {
		t.Errorf("Expected AddItem(pearl, 2), got (%s, %d)", mock.gotProductID, mock.gotQuantity)
	}
}

func TestAddItem_InvalidRequests(t *testing.T) {
	tests := []struct {
		name         string
		body         string
		expectedCode string
	}{
		{"invalid json", `{"productId":`, "invalid_request"},
		{"missing product", `{"quantity":1}`, "invalid_product_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewCartHandler(&CartMock{}, 5*time.Second)
			recorder := httptest.NewRecorder()
			request := withTestUser(httptest.NewRequest("POST", "/items", bytes.NewBufferString(tt.body)))

			handler.AddItem(recorder, request)

			if recorder.Code != http.StatusBadRequest {
				t.Errorf("Expected status code %d, got %d", http.StatusBadRequest, recorder.Code)
			}
			var response ErrorResponse
			json.NewDecoder(recorder.Body).Decode(&response)
			if response.Code != tt.expectedCode {
				t.Errorf("Expected error code '%s', got '%s'", tt.expectedCode, response.Code)
			}
		})
	}
}

func TestAddItem_ServiceErrors(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
	}{
		{"invalid quantity", domain.ErrInvalidQuantity, http.StatusBadRequest, "invalid_quantity"},
		{"unknown product", domain.ErrProductNotFound, http.StatusNotFound, "product_not_found"},
		{"out of stock", domain.ErrInsufficientStock, http.StatusConflict, "insufficient_stock"},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout, "timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewCartHandler(&CartMock{err: tt.err}, 5*time.Second)
			body, _ := json.Marshal(AddItemRequestDTO{ProductID: "ruby", Quantity: 1})
			recorder := httptest.NewRecorder()
			request := withTestUser(httptest.NewRequest("POST", "/items", bytes.NewReader(body)))

			handler.AddItem(recorder, request)

			if recorder.Code != tt.expectedStatus {
				t.Errorf("Expected status code %d, got %d", tt.expectedStatus, recorder.Code)
			}
			var response ErrorResponse
			json.NewDecoder(recorder.Body).Decode(&response)
			if response.Code != tt.expectedCode {
				t.Errorf("Expected error code '%s', got '%s'", tt.expectedCode, response.Code)
			}
		})
	}
}

func TestUpdateQuantity_UsesPathParam(t *testing.T) {
	mock := &CartMock{session: sessionWithItems()}
	handler := NewCartHandler(mock, 5*time.Second)

	recorder := httptest.NewRecorder()
	request := withTestUser(httptest.NewRequest("PUT", "/items/ruby", bytes.NewBufferString(`{"quantity":0}`)))
	request = withURLParam(request, "productId", "ruby")

	handler.UpdateQuantity(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Errorf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}
	if mock.gotProductID != "ruby" || mock.gotQuantity != 0 {
		t.Errorf("Expected UpdateQuantity(ruby, 0), got (%s, %d)", mock.gotProductID, mock.gotQuantity)
	}
}

func TestRemoveItem_NotInCartIsNoop(t *testing.T) {
	mock := &CartMock{session: sessionWithItems()}
	handler := NewCartHandler(mock, 5*time.Second)

	recorder := httptest.NewRecorder()
	request := withURLParam(withTestUser(httptest.NewRequest("DELETE", "/items/opal", nil)), "productId", "opal")

	handler.RemoveItem(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Errorf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}
	if mock.gotProductID != "opal" {
		t.Errorf("Expected RemoveItem(opal), got %s", mock.gotProductID)
	}
}

func TestClearCart_ReturnsEmptyItems(t *testing.T) {
	handler := NewCartHandler(&CartMock{session: domain.NewCheckoutSession("u1")}, 5*time.Second)

	recorder := httptest.NewRecorder()
	handler.ClearCart(recorder, withTestUser(httptest.NewRequest("DELETE", "/", nil)))

	if recorder.Code != http.StatusOK {
		t.Errorf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}
	if !bytes.Contains(recorder.Body.Bytes(), []byte(`"items":[]`)) {
		t.Errorf("Expected empty items array, got %s", recorder.Body.String())
	}
}
