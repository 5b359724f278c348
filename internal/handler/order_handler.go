package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"stock_orders/internal/domain"
	"stock_orders/internal/infra/storage"
	"stock_orders/internal/service"
)

// callerHeader identifies the customer making the request. A request
// without it is treated as coming from an operator and skips ownership
// checks.
const callerHeader = "X-Customer-ID"

// OrderHandler handles HTTP requests for order endpoints.
type OrderHandler struct {
	orders *service.OrderService
}

func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// createOrderRequest is the JSON request body for POST /orders.
type createOrderRequest struct {
	CustomerID uint            `json:"customer_id"`
	AssetName  string          `json:"asset_name"`
	Side       string          `json:"side"`
	Size       decimal.Decimal `json:"size"`
	Price      decimal.Decimal `json:"price"`
}

type orderResponse struct {
	ID         uint            `json:"id"`
	CustomerID uint            `json:"customer_id"`
	AssetName  string          `json:"asset_name"`
	Side       string          `json:"side"`
	Size       decimal.Decimal `json:"size"`
	Price      decimal.Decimal `json:"price"`
	Status     string          `json:"status"`
	CreateDate string          `json:"create_date"`
	UpdateDate string          `json:"update_date"`
}

func buildOrderResponse(o *domain.Order) orderResponse {
	return orderResponse{
		ID:         o.ID,
		CustomerID: o.CustomerID,
		AssetName:  o.AssetName,
		Side:       string(o.Side),
		Size:       o.Size,
		Price:      o.Price,
		Status:     string(o.Status),
		CreateDate: o.CreateDate.UTC().Format(time.RFC3339),
		UpdateDate: o.UpdateDate.UTC().Format(time.RFC3339),
	}
}

// Create handles POST /orders. A customer caller may only place orders for
// itself; an operator places them for any customer.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	caller, ok := parseCaller(w, r)
	if !ok {
		return
	}
	if caller != nil && *caller != req.CustomerID {
		WriteError(w, http.StatusForbidden, "unallowed_access",
			"customers may only place orders for themselves")
		return
	}
	if req.CustomerID == 0 {
		WriteError(w, http.StatusBadRequest, "validation_error", "customer_id is required")
		return
	}

	order, err := h.orders.Create(r.Context(), service.CreateOrderRequest{
		CustomerID: req.CustomerID,
		AssetName:  req.AssetName,
		Side:       domain.OrderSide(req.Side),
		Size:       req.Size,
		Price:      req.Price,
	})
	if err != nil {
		mapError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, buildOrderResponse(order))
}

// Get handles GET /orders/{order_id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseOrderID(w, r)
	if !ok {
		return
	}
	caller, ok := parseCaller(w, r)
	if !ok {
		return
	}

	order, err := h.orders.Find(r.Context(), orderID, caller)
	if err != nil {
		mapError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, buildOrderResponse(order))
}

// List handles GET /orders?customer_id=&from=&to=&status=.
// A customer caller is always scoped to its own orders.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := parseCaller(w, r)
	if !ok {
		return
	}

	filter := storage.OrderFilter{}
	if caller != nil {
		filter.CustomerID = *caller
	} else {
		id, err := strconv.ParseUint(r.URL.Query().Get("customer_id"), 10, 64)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "validation_error",
				"customer_id query parameter is required")
			return
		}
		filter.CustomerID = uint(id)
	}

	if raw := r.URL.Query().Get("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "validation_error",
				"from must be a valid RFC 3339 timestamp")
			return
		}
		filter.From = &t
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "validation_error",
				"to must be a valid RFC 3339 timestamp")
			return
		}
		filter.To = &t
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := domain.OrderStatus(raw)
		if !status.Valid() {
			WriteError(w, http.StatusBadRequest, "validation_error",
				"status must be PENDING, MATCHED or CANCELED")
			return
		}
		filter.Status = &status
	}

	orders, err := h.orders.List(r.Context(), filter)
	if err != nil {
		mapError(w, err)
		return
	}

	resp := make([]orderResponse, len(orders))
	for i := range orders {
		resp[i] = buildOrderResponse(&orders[i])
	}
	WriteJSON(w, http.StatusOK, resp)
}

// Cancel handles DELETE /orders/{order_id}.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseOrderID(w, r)
	if !ok {
		return
	}
	caller, ok := parseCaller(w, r)
	if !ok {
		return
	}

	order, err := h.orders.Cancel(r.Context(), orderID, caller)
	if err != nil {
		mapError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, buildOrderResponse(order))
}

// Match handles POST /admin/orders/{order_id}/match. Operator only; the
// route is not reachable with a customer header.
func (h *OrderHandler) Match(w http.ResponseWriter, r *http.Request) {
	orderID, ok := parseOrderID(w, r)
	if !ok {
		return
	}
	if r.Header.Get(callerHeader) != "" {
		WriteError(w, http.StatusForbidden, "unallowed_access",
			"only operators may match orders")
		return
	}

	order, err := h.orders.Match(r.Context(), orderID)
	if err != nil {
		mapError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, buildOrderResponse(order))
}

func parseOrderID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	raw := chi.URLParam(r, "order_id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		WriteError(w, http.StatusBadRequest, "validation_error", "order_id must be a positive integer")
		return 0, false
	}
	return uint(id), true
}

// parseCaller reads the customer identity header. Returns nil for operator
// requests. Writes the error response itself when the header is malformed.
func parseCaller(w http.ResponseWriter, r *http.Request) (*uint, bool) {
	raw := r.Header.Get(callerHeader)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		WriteError(w, http.StatusBadRequest, "validation_error",
			callerHeader+" must be a positive integer")
		return nil, false
	}
	cid := uint(id)
	return &cid, true
}
