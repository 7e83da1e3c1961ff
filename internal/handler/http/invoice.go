package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/schoolms/sms-backend-go/internal/domain/invoice"
	"github.com/schoolms/sms-backend-go/internal/handler/http/response"
)

type InvoiceHandler interface {
	Generate(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Download(w http.ResponseWriter, r *http.Request)
}

type invoiceHandlerImpl struct {
	invoiceService invoice.InvoiceService
}

func NewInvoiceHandler(invoiceService invoice.InvoiceService) InvoiceHandler {
	return &invoiceHandlerImpl{
		invoiceService: invoiceService,
	}
}

func (h *invoiceHandlerImpl) Generate(w http.ResponseWriter, r *http.Request) {
	var req invoice.GenerateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.invoiceService.Generate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Invoice generated successfully", result)
}

func (h *invoiceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	var filter invoice.InvoiceFilter
	query := r.URL.Query()

	if v := query.Get("teacher_id"); v != "" {
		filter.TeacherID = &v
	}
	if v := query.Get("calculation_id"); v != "" {
		filter.CalculationID = &v
	}
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
	if v := query.Get("status"); v != "" {
		status, err := invoice.ParseStatus(v)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		filter.Status = &status
	}

	result, err := h.invoiceService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *invoiceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := h.invoiceService.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *invoiceHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req invoice.UpdateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.invoiceService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Invoice updated successfully", result)
}

func (h *invoiceHandlerImpl) Download(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	format, err := invoice.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	doc, err := h.invoiceService.Render(r.Context(), id, format)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Attachment(w, doc.FileName, doc.ContentType, doc.Body)
}
