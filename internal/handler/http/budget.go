package http

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ph-hris/payroll-backend-go/internal/domain/budget"
	"github.com/ph-hris/payroll-backend-go/internal/handler/http/response"
	"github.com/ph-hris/payroll-backend-go/internal/pkg/jwt"
)

type BudgetHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Submit(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Reset(w http.ResponseWriter, r *http.Request)
}

type budgetHandlerImpl struct {
	budgetService budget.BudgetService
}

func NewBudgetHandler(budgetService budget.BudgetService) BudgetHandler {
	return &budgetHandlerImpl{budgetService: budgetService}
}

func (h *budgetHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	periodID := chi.URLParam(r, "periodID")
	if periodID == "" {
		response.BadRequest(w, "Period ID is required", nil)
		return
	}

	result, err := h.budgetService.CreateBudget(r.Context(), periodID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll budget created", result)
}

func (h *budgetHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	periodID := chi.URLParam(r, "periodID")
	if periodID == "" {
		response.BadRequest(w, "Period ID is required", nil)
		return
	}

	result, err := h.budgetService.Submit(r.Context(), periodID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll budget submitted for approval", result)
}

func (h *budgetHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, true)
}

func (h *budgetHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, false)
}

func (h *budgetHandlerImpl) decide(w http.ResponseWriter, r *http.Request, approve bool) {
	periodID := chi.URLParam(r, "periodID")
	if periodID == "" {
		response.BadRequest(w, "Period ID is required", nil)
		return
	}

	// Approver identity comes from the verified token and is passed
	// explicitly into the service.
	_, approver, err := jwt.ApproverFromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	var req budget.DecisionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	var result budget.BudgetResponse
	if approve {
		result, err = h.budgetService.Approve(r.Context(), periodID, approver, req.Notes)
	} else {
		result, err = h.budgetService.Reject(r.Context(), periodID, approver, req.Notes)
	}
	if err != nil {
		response.HandleError(w, err)
		return
	}

	message := "Payroll budget approved"
	if !approve {
		message = "Payroll budget rejected"
	}
	response.SuccessWithMessage(w, message, result)
}

func (h *budgetHandlerImpl) Reset(w http.ResponseWriter, r *http.Request) {
	periodID := chi.URLParam(r, "periodID")
	if periodID == "" {
		response.BadRequest(w, "Period ID is required", nil)
		return
	}

	result, err := h.budgetService.Reset(r.Context(), periodID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll budget reset to draft", result)
}
