package http

import (
	"context"
	"io"
	"time"

	"github.com/schoolms/sms-backend-go/internal/domain/biometric"
	"github.com/schoolms/sms-backend-go/internal/domain/invoice"
	"github.com/schoolms/sms-backend-go/internal/domain/salary"
)

type fakeSalaryService struct {
	calculateCalls int
	calculateErr   error
	lastFilter     salary.CalculationFilter
}

func (f *fakeSalaryService) Calculate(context.Context, salary.CalculateInput) (salary.CalculationResult, error) {
	return salary.CalculationResult{}, nil
}

func (f *fakeSalaryService) CalculateAndSave(_ context.Context, req salary.CalculateSalaryRequest) (salary.CalculateSalaryResponse, error) {
	f.calculateCalls++
	if f.calculateErr != nil {
		return salary.CalculateSalaryResponse{}, f.calculateErr
	}
	return salary.CalculateSalaryResponse{
		Calculations: []salary.CalculationResponse{{ID: "calc-1", TeacherID: "t1", Month: req.Month, Year: req.Year}},
	}, nil
}

func (f *fakeSalaryService) Preview(_ context.Context, req salary.PreviewSalaryRequest) (salary.CalculationResponse, error) {
	return salary.CalculationResponse{TeacherID: req.TeacherID, Month: req.Month, Year: req.Year}, nil
}

func (f *fakeSalaryService) Recalculate(_ context.Context, id string) (salary.CalculationResponse, error) {
	if id == "missing" {
		return salary.CalculationResponse{}, salary.ErrCalculationNotFound
	}
	return salary.CalculationResponse{ID: id}, nil
}

func (f *fakeSalaryService) GetCalculation(_ context.Context, id string) (salary.CalculationResponse, error) {
	return salary.CalculationResponse{ID: id}, nil
}

func (f *fakeSalaryService) ListCalculations(_ context.Context, filter salary.CalculationFilter) ([]salary.CalculationResponse, error) {
	f.lastFilter = filter
	return []salary.CalculationResponse{}, nil
}

func (f *fakeSalaryService) Approve(_ context.Context, id string) (salary.CalculationResponse, error) {
	if id == "approved" {
		return salary.CalculationResponse{}, salary.ErrCalculationAlreadyApproved
	}
	return salary.CalculationResponse{ID: id, IsApproved: true}, nil
}

func (f *fakeSalaryService) BulkApprove(_ context.Context, req salary.BulkApproveRequest) (salary.BulkApproveResponse, error) {
	return salary.BulkApproveResponse{ApprovedCount: len(req.CalculationIDs), TotalCount: len(req.CalculationIDs)}, nil
}

func (f *fakeSalaryService) ListRules(context.Context, bool) ([]salary.RuleResponse, error) {
	return []salary.RuleResponse{}, nil
}

func (f *fakeSalaryService) CreateRule(_ context.Context, req salary.CreateRuleRequest) (salary.RuleResponse, error) {
	return salary.RuleResponse{ID: "rule-1", RuleName: req.RuleName}, nil
}

func (f *fakeSalaryService) UpdateRule(_ context.Context, req salary.UpdateRuleRequest) (salary.RuleResponse, error) {
	return salary.RuleResponse{ID: req.ID}, nil
}

func (f *fakeSalaryService) ListConfigs(context.Context, *string) ([]salary.ConfigResponse, error) {
	return []salary.ConfigResponse{}, nil
}

func (f *fakeSalaryService) CreateConfig(_ context.Context, req salary.CreateConfigRequest) (salary.ConfigResponse, error) {
	return salary.ConfigResponse{ID: "cfg-1", TeacherID: req.TeacherID}, nil
}

func (f *fakeSalaryService) UpdateConfig(_ context.Context, req salary.UpdateConfigRequest) (salary.ConfigResponse, error) {
	return salary.ConfigResponse{ID: req.ID}, nil
}

type fakeBiometricService struct {
	lastUpload  biometric.UploadRequest
	lastContent string
	uploads     int
}

func (f *fakeBiometricService) Upload(_ context.Context, req biometric.UploadRequest) (biometric.UploadResponse, error) {
	f.uploads++
	f.lastUpload = req
	body, err := io.ReadAll(req.Content)
	if err != nil {
		return biometric.UploadResponse{}, err
	}
	f.lastContent = string(body)
	return biometric.UploadResponse{
		UploadID:          "up-1",
		FileName:          req.FileName,
		RecordsProcessed:  1,
		RecordsSuccessful: 1,
		UploadStatus:      biometric.UploadCompleted,
	}, nil
}

func (f *fakeBiometricService) ListUploadHistory(context.Context) ([]biometric.UploadHistoryResponse, error) {
	return []biometric.UploadHistoryResponse{}, nil
}

func (f *fakeBiometricService) ListRecords(context.Context, biometric.RecordFilter) ([]biometric.RecordResponse, error) {
	return []biometric.RecordResponse{}, nil
}

func (f *fakeBiometricService) ListTimings(context.Context) ([]biometric.TimingResponse, error) {
	return []biometric.TimingResponse{}, nil
}

func (f *fakeBiometricService) CreateTiming(_ context.Context, req biometric.CreateTimingRequest) (biometric.TimingResponse, error) {
	return biometric.TimingResponse{ID: "timing-1", TimingName: req.TimingName}, nil
}

func (f *fakeBiometricService) UpdateTiming(_ context.Context, req biometric.UpdateTimingRequest) (biometric.TimingResponse, error) {
	return biometric.TimingResponse{ID: req.ID}, nil
}

type fakeInvoiceService struct {
	generateErr error
}

func (f *fakeInvoiceService) Generate(_ context.Context, req invoice.GenerateInvoiceRequest) (invoice.InvoiceResponse, error) {
	if f.generateErr != nil {
		return invoice.InvoiceResponse{}, f.generateErr
	}
	return invoice.InvoiceResponse{ID: "inv-1", CalculationID: req.CalculationID, InvoiceNumber: "INV-2024-01-00001"}, nil
}

func (f *fakeInvoiceService) Get(_ context.Context, id string) (invoice.InvoiceResponse, error) {
	if id != "inv-1" {
		return invoice.InvoiceResponse{}, invoice.ErrInvoiceNotFound
	}
	return invoice.InvoiceResponse{ID: id}, nil
}

func (f *fakeInvoiceService) List(context.Context, invoice.InvoiceFilter) ([]invoice.InvoiceResponse, error) {
	return []invoice.InvoiceResponse{}, nil
}

func (f *fakeInvoiceService) Update(_ context.Context, req invoice.UpdateInvoiceRequest) (invoice.InvoiceResponse, error) {
	return invoice.InvoiceResponse{ID: req.ID}, nil
}

func (f *fakeInvoiceService) Render(_ context.Context, id string, format invoice.Format) (invoice.Document, error) {
	if id != "inv-1" {
		return invoice.Document{}, invoice.ErrInvoiceNotFound
	}
	if format == invoice.FormatHTML {
		return invoice.Document{FileName: "INV-2024-01-00001.html", ContentType: "text/html; charset=utf-8", Body: []byte("<html></html>")}, nil
	}
	return invoice.Document{FileName: "INV-2024-01-00001.pdf", ContentType: "application/pdf", Body: []byte("%PDF-1.3")}, nil
}

func (f *fakeInvoiceService) SweepOverdue(context.Context, time.Time) (int, error) {
	return 0, nil
}
