package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/schoolms/sms-backend-go/internal/domain/salary"
	"github.com/schoolms/sms-backend-go/internal/handler/http/response"
)

type SalaryHandler interface {
	CalculateSalary(w http.ResponseWriter, r *http.Request)
	PreviewSalary(w http.ResponseWriter, r *http.Request)
	RecalculateSalary(w http.ResponseWriter, r *http.Request)
	ListCalculations(w http.ResponseWriter, r *http.Request)
	ApproveCalculation(w http.ResponseWriter, r *http.Request)
	BulkApprove(w http.ResponseWriter, r *http.Request)

	ListRules(w http.ResponseWriter, r *http.Request)
	CreateRule(w http.ResponseWriter, r *http.Request)
	UpdateRule(w http.ResponseWriter, r *http.Request)

	ListConfigs(w http.ResponseWriter, r *http.Request)
	CreateConfig(w http.ResponseWriter, r *http.Request)
	UpdateConfig(w http.ResponseWriter, r *http.Request)
}

type salaryHandlerImpl struct {
	salaryService salary.SalaryService
}

func NewSalaryHandler(salaryService salary.SalaryService) SalaryHandler {
	return &salaryHandlerImpl{
		salaryService: salaryService,
	}
}

// ========== CALCULATIONS ==========

func (h *salaryHandlerImpl) CalculateSalary(w http.ResponseWriter, r *http.Request) {
	var req salary.CalculateSalaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.salaryService.CalculateAndSave(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Salary calculated successfully", result)
}

func (h *salaryHandlerImpl) PreviewSalary(w http.ResponseWriter, r *http.Request) {
	var req salary.PreviewSalaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.salaryService.Preview(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *salaryHandlerImpl) RecalculateSalary(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.salaryService.Recalculate(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary recalculated successfully", result)
}

func (h *salaryHandlerImpl) ListCalculations(w http.ResponseWriter, r *http.Request) {
	var filter salary.CalculationFilter
	query := r.URL.Query()

	if v := query.Get("month"); v != "" {
		month, err := strconv.Atoi(v)
		if err != nil {
			response.BadRequest(w, "Invalid month", nil)
			return
		}
		filter.Month = &month
	}
	if v := query.Get("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			response.BadRequest(w, "Invalid year", nil)
			return
		}
		filter.Year = &year
	}
	if v := query.Get("teacher_id"); v != "" {
		filter.TeacherID = &v
	}
	if v := query.Get("is_approved"); v != "" {
		approved, err := strconv.ParseBool(v)
		if err != nil {
			response.BadRequest(w, "Invalid is_approved", nil)
			return
		}
		filter.IsApproved = &approved
	}

	result, err := h.salaryService.ListCalculations(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *salaryHandlerImpl) ApproveCalculation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.salaryService.Approve(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary calculation approved", result)
}

func (h *salaryHandlerImpl) BulkApprove(w http.ResponseWriter, r *http.Request) {
	var req salary.BulkApproveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.salaryService.BulkApprove(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== RULES ==========

func (h *salaryHandlerImpl) ListRules(w http.ResponseWriter, r *http.Request) {
	activeOnly := false
	if v := r.URL.Query().Get("active_only"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			response.BadRequest(w, "Invalid active_only", nil)
			return
		}
		activeOnly = parsed
	}

	result, err := h.salaryService.ListRules(r.Context(), activeOnly)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *salaryHandlerImpl) CreateRule(w http.ResponseWriter, r *http.Request) {
	var req salary.CreateRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.salaryService.CreateRule(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Deduction rule created successfully", result)
}

func (h *salaryHandlerImpl) UpdateRule(w http.ResponseWriter, r *http.Request) {
	var req salary.UpdateRuleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.salaryService.UpdateRule(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Deduction rule updated successfully", result)
}

// ========== SALARY CONFIGS ==========

func (h *salaryHandlerImpl) ListConfigs(w http.ResponseWriter, r *http.Request) {
	var teacherID *string
	if v := r.URL.Query().Get("teacher_id"); v != "" {
		teacherID = &v
	}

	result, err := h.salaryService.ListConfigs(r.Context(), teacherID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *salaryHandlerImpl) CreateConfig(w http.ResponseWriter, r *http.Request) {
	var req salary.CreateConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.salaryService.CreateConfig(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Salary configuration created successfully", result)
}

func (h *salaryHandlerImpl) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var req salary.UpdateConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.salaryService.UpdateConfig(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Salary configuration updated successfully", result)
}
