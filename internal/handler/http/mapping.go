package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/payslip-ledger-go/internal/domain/mapping"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type MappingHandler interface {
	// Mapping configs
	GetConfig(w http.ResponseWriter, r *http.Request)
	UpsertConfig(w http.ResponseWriter, r *http.Request)
	ResetConfig(w http.ResponseWriter, r *http.Request)

	// Integration config
	GetIntegration(w http.ResponseWriter, r *http.Request)
	UpsertIntegration(w http.ResponseWriter, r *http.Request)
}

type mappingHandlerImpl struct {
	mappingService mapping.MappingService
}

func NewMappingHandler(mappingService mapping.MappingService) MappingHandler {
	return &mappingHandlerImpl{mappingService: mappingService}
}

// ========== MAPPING CONFIGS ==========

func (h *mappingHandlerImpl) GetConfig(w http.ResponseWriter, r *http.Request) {
	kind := mapping.Kind(chi.URLParam(r, "kind"))

	result, err := h.mappingService.GetConfig(r.Context(), kind)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *mappingHandlerImpl) UpsertConfig(w http.ResponseWriter, r *http.Request) {
	var req mapping.UpsertConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.Kind = mapping.Kind(chi.URLParam(r, "kind"))

	result, err := h.mappingService.UpsertConfig(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Mapping config saved", result)
}

func (h *mappingHandlerImpl) ResetConfig(w http.ResponseWriter, r *http.Request) {
	kind := mapping.Kind(chi.URLParam(r, "kind"))

	result, err := h.mappingService.ResetToDefaults(r.Context(), kind)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Mapping config reset to defaults", result)
}

// ========== INTEGRATION CONFIG ==========

func (h *mappingHandlerImpl) GetIntegration(w http.ResponseWriter, r *http.Request) {
	result, err := h.mappingService.GetIntegration(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *mappingHandlerImpl) UpsertIntegration(w http.ResponseWriter, r *http.Request) {
	var req mapping.UpsertIntegrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.mappingService.UpsertIntegration(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Integration config saved", result)
}
