package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/schoolms/sms-backend-go/internal/domain/biometric"
	"github.com/schoolms/sms-backend-go/internal/handler/http/response"
	"github.com/schoolms/sms-backend-go/internal/pkg/jwt"
	"github.com/schoolms/sms-backend-go/internal/pkg/validator"
)

// maxUploadSize bounds a device export held in memory while parsing.
const maxUploadSize = 10 << 20

type BiometricHandler interface {
	UploadCSV(w http.ResponseWriter, r *http.Request)
	UploadHistory(w http.ResponseWriter, r *http.Request)
	ListRecords(w http.ResponseWriter, r *http.Request)

	ListTimings(w http.ResponseWriter, r *http.Request)
	CreateTiming(w http.ResponseWriter, r *http.Request)
	UpdateTiming(w http.ResponseWriter, r *http.Request)
}

type biometricHandlerImpl struct {
	biometricService biometric.BiometricService
}

func NewBiometricHandler(biometricService biometric.BiometricService) BiometricHandler {
	return &biometricHandlerImpl{
		biometricService: biometricService,
	}
}

func (h *biometricHandlerImpl) UploadCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	// Parse multipart form (max 10MB)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			response.BadRequest(w, "Field 'file' is required", nil)
			return
		}
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}
	defer file.Close()

	req := biometric.UploadRequest{
		FileName: fileHeader.Filename,
		FileSize: fileHeader.Size,
		Content:  file,
	}
	if claims, err := jwt.ClaimsFromContext(r.Context()); err == nil {
		req.UploadedBy = &claims.UserID
	}

	result, err := h.biometricService.Upload(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "CSV processed", result)
}

func (h *biometricHandlerImpl) UploadHistory(w http.ResponseWriter, r *http.Request) {
	result, err := h.biometricService.ListUploadHistory(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *biometricHandlerImpl) ListRecords(w http.ResponseWriter, r *http.Request) {
	var filter biometric.RecordFilter
	query := r.URL.Query()

	if v := query.Get("teacher_id"); v != "" {
		filter.TeacherID = &v
	}
	if v := query.Get("date_from"); v != "" {
		from, ok := validator.IsValidDate(v)
		if !ok {
			response.BadRequest(w, "date_from must be in YYYY-MM-DD format", nil)
			return
		}
		filter.DateFrom = &from
	}
	if v := query.Get("date_to"); v != "" {
		to, ok := validator.IsValidDate(v)
		if !ok {
			response.BadRequest(w, "date_to must be in YYYY-MM-DD format", nil)
			return
		}
		filter.DateTo = &to
	}

	result, err := h.biometricService.ListRecords(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== SCHOOL TIMINGS ==========

func (h *biometricHandlerImpl) ListTimings(w http.ResponseWriter, r *http.Request) {
	result, err := h.biometricService.ListTimings(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *biometricHandlerImpl) CreateTiming(w http.ResponseWriter, r *http.Request) {
	var req biometric.CreateTimingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.biometricService.CreateTiming(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "School timing created successfully", result)
}

func (h *biometricHandlerImpl) UpdateTiming(w http.ResponseWriter, r *http.Request) {
	var req biometric.UpdateTimingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.biometricService.UpdateTiming(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "School timing updated successfully", result)
}
