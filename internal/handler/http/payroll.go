package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ph-hris/payroll-backend-go/internal/domain/payroll"
	"github.com/ph-hris/payroll-backend-go/internal/handler/http/response"
)

type PayrollHandler interface {
	ProcessBatch(w http.ResponseWriter, r *http.Request)
	Recalculate(w http.ResponseWriter, r *http.Request)
	ListPeriods(w http.ResponseWriter, r *http.Request)
	GetPeriodDetail(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

func (h *payrollHandlerImpl) ProcessBatch(w http.ResponseWriter, r *http.Request) {
	var req payroll.ProcessBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.ProcessBatch(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll period calculated", result)
}

func (h *payrollHandlerImpl) Recalculate(w http.ResponseWriter, r *http.Request) {
	periodID := chi.URLParam(r, "periodID")
	if periodID == "" {
		response.BadRequest(w, "Period ID is required", nil)
		return
	}

	result, err := h.payrollService.Recalculate(r.Context(), periodID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll period recalculated", result)
}

func (h *payrollHandlerImpl) ListPeriods(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.ListPeriods(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) GetPeriodDetail(w http.ResponseWriter, r *http.Request) {
	periodID := chi.URLParam(r, "periodID")
	if periodID == "" {
		response.BadRequest(w, "Period ID is required", nil)
		return
	}

	result, err := h.payrollService.GetPeriodDetail(r.Context(), periodID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
