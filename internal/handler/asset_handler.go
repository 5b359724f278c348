package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"stock_orders/internal/domain"
	"stock_orders/internal/service"
)

// AssetHandler handles HTTP requests for asset and cash endpoints.
type AssetHandler struct {
	assets *service.AssetService
}

func NewAssetHandler(assets *service.AssetService) *AssetHandler {
	return &AssetHandler{assets: assets}
}

type assetResponse struct {
	CustomerID uint            `json:"customer_id"`
	AssetName  string          `json:"asset_name"`
	Size       decimal.Decimal `json:"size"`
	UsableSize decimal.Decimal `json:"usable_size"`
}

func buildAssetResponse(a *domain.Asset) assetResponse {
	return assetResponse{
		CustomerID: a.CustomerID,
		AssetName:  a.AssetName,
		Size:       a.Size,
		UsableSize: a.UsableSize,
	}
}

// cashRequest is the JSON body for deposits and withdrawals.
type cashRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// List handles GET /customers/{customer_id}/assets?asset_name=.
func (h *AssetHandler) List(w http.ResponseWriter, r *http.Request) {
	customerID, ok := h.authorizedCustomer(w, r)
	if !ok {
		return
	}

	assets, err := h.assets.List(r.Context(), customerID, r.URL.Query().Get("asset_name"))
	if err != nil {
		mapError(w, err)
		return
	}

	resp := make([]assetResponse, len(assets))
	for i := range assets {
		resp[i] = buildAssetResponse(&assets[i])
	}
	WriteJSON(w, http.StatusOK, resp)
}

// Deposit handles POST /customers/{customer_id}/deposit.
func (h *AssetHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	customerID, ok := h.authorizedCustomer(w, r)
	if !ok {
		return
	}

	var req cashRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	asset, err := h.assets.Deposit(r.Context(), customerID, req.Amount)
	if err != nil {
		mapError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, buildAssetResponse(asset))
}

// Withdraw handles POST /customers/{customer_id}/withdraw.
func (h *AssetHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	customerID, ok := h.authorizedCustomer(w, r)
	if !ok {
		return
	}

	var req cashRequest
	if err := ParseJSON(r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	asset, err := h.assets.Withdraw(r.Context(), customerID, req.Amount)
	if err != nil {
		mapError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, buildAssetResponse(asset))
}

// authorizedCustomer parses the path customer id and enforces that a
// customer caller only reaches its own resources.
func (h *AssetHandler) authorizedCustomer(w http.ResponseWriter, r *http.Request) (uint, bool) {
	raw := chi.URLParam(r, "customer_id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		WriteError(w, http.StatusBadRequest, "validation_error", "customer_id must be a positive integer")
		return 0, false
	}

	caller, ok := parseCaller(w, r)
	if !ok {
		return 0, false
	}
	if caller != nil && *caller != uint(id) {
		WriteError(w, http.StatusForbidden, "unallowed_access",
			"customers may only access their own assets")
		return 0, false
	}
	return uint(id), true
}
