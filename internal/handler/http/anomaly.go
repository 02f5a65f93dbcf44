package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ph-hris/payroll-backend-go/internal/domain/anomaly"
	"github.com/ph-hris/payroll-backend-go/internal/handler/http/response"
)

type AnomalyHandler interface {
	ScanPeriod(w http.ResponseWriter, r *http.Request)
}

type anomalyHandlerImpl struct {
	anomalyService anomaly.AnomalyService
}

func NewAnomalyHandler(anomalyService anomaly.AnomalyService) AnomalyHandler {
	return &anomalyHandlerImpl{anomalyService: anomalyService}
}

func (h *anomalyHandlerImpl) ScanPeriod(w http.ResponseWriter, r *http.Request) {
	periodID := chi.URLParam(r, "periodID")
	if periodID == "" {
		response.BadRequest(w, "Period ID is required", nil)
		return
	}

	result, err := h.anomalyService.ScanPeriod(r.Context(), periodID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
