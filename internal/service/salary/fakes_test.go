package salary

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/schoolms/sms-backend-go/internal/domain/attendance"
	"github.com/schoolms/sms-backend-go/internal/domain/biometric"
	"github.com/schoolms/sms-backend-go/internal/domain/salary"
	"github.com/schoolms/sms-backend-go/internal/domain/teacher"
	"github.com/schoolms/sms-backend-go/internal/domain/user"
	"github.com/shopspring/decimal"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func dp(v int64) *decimal.Decimal {
	x := decimal.NewFromInt(v)
	return &x
}

func day(year, month, dom int) time.Time {
	return time.Date(year, time.Month(month), dom, 0, 0, 0, 0, time.UTC)
}

func ctxAs(userID string, role user.Role) context.Context {
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	tok, _, err := ja.Encode(map[string]interface{}{
		"user_id": userID,
		"role":    string(role),
		"type":    "access",
	})
	if err != nil {
		panic(err)
	}
	return jwtauth.NewContext(context.Background(), tok, nil)
}

// ---------- biometric ----------

type fakeBiometricRepo struct {
	records []biometric.Record
	err     error
}

func (f *fakeBiometricRepo) ListByTeacherAndRange(_ context.Context, teacherID string, from, to time.Time) ([]biometric.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []biometric.Record
	for _, r := range f.records {
		if r.TeacherID == teacherID && !r.AttendanceDate.Before(from) && r.AttendanceDate.Before(to) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeBiometricRepo) GetByTeacherAndDate(_ context.Context, teacherID string, date time.Time) (biometric.Record, error) {
	for _, r := range f.records {
		if r.TeacherID == teacherID && r.AttendanceDate.Equal(date) {
			return r, nil
		}
	}
	return biometric.Record{}, biometric.ErrRecordNotFound
}

func (f *fakeBiometricRepo) Upsert(_ context.Context, rec biometric.Record) (biometric.Record, error) {
	f.records = append(f.records, rec)
	return rec, nil
}

func (f *fakeBiometricRepo) List(_ context.Context, _ biometric.RecordFilter) ([]biometric.Record, error) {
	return f.records, nil
}

// ---------- manual attendance ----------

type fakeAttendanceRepo struct {
	records []attendance.Record
	err     error
}

func (f *fakeAttendanceRepo) ListByUserAndRange(_ context.Context, userID string, from, to time.Time) ([]attendance.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []attendance.Record
	for _, r := range f.records {
		if r.UserID == userID && !r.Date.Before(from) && r.Date.Before(to) {
			out = append(out, r)
		}
	}
	return out, nil
}

// ---------- teachers ----------

type fakeTeacherRepo struct {
	teachers []teacher.Teacher
}

func (f *fakeTeacherRepo) GetByID(_ context.Context, id string) (teacher.Teacher, error) {
	for _, t := range f.teachers {
		if t.ID == id {
			return t, nil
		}
	}
	return teacher.Teacher{}, teacher.ErrTeacherNotFound
}

func (f *fakeTeacherRepo) GetByUserID(_ context.Context, userID string) (teacher.Teacher, error) {
	for _, t := range f.teachers {
		if t.UserID == userID {
			return t, nil
		}
	}
	return teacher.Teacher{}, teacher.ErrTeacherNotFound
}

func (f *fakeTeacherRepo) GetByIDs(_ context.Context, ids []string) ([]teacher.Teacher, error) {
	var out []teacher.Teacher
	for _, id := range ids {
		for _, t := range f.teachers {
			if t.ID == id {
				out = append(out, t)
			}
		}
	}
	return out, nil
}

func (f *fakeTeacherRepo) List(_ context.Context) ([]teacher.Teacher, error) {
	return f.teachers, nil
}

// ---------- rules ----------

type fakeRuleRepo struct {
	rules []salary.DeductionRule
	err   error
}

func (f *fakeRuleRepo) ListRules(_ context.Context, activeOnly bool) ([]salary.DeductionRule, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []salary.DeductionRule
	for _, r := range f.rules {
		if activeOnly && !r.IsActive {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeRuleRepo) GetRuleByID(_ context.Context, id string) (salary.DeductionRule, error) {
	for _, r := range f.rules {
		if r.ID == id {
			return r, nil
		}
	}
	return salary.DeductionRule{}, salary.ErrRuleNotFound
}

func (f *fakeRuleRepo) CreateRule(_ context.Context, rule salary.DeductionRule) (salary.DeductionRule, error) {
	rule.ID = fmt.Sprintf("rule-%d", len(f.rules)+1)
	f.rules = append(f.rules, rule)
	return rule, nil
}

func (f *fakeRuleRepo) UpdateRule(_ context.Context, req salary.UpdateRuleRequest) error {
	for i := range f.rules {
		if f.rules[i].ID != req.ID {
			continue
		}
		if req.RuleName != nil {
			f.rules[i].RuleName = *req.RuleName
		}
		if req.DeductionValue != nil {
			f.rules[i].DeductionValue = *req.DeductionValue
		}
		if req.IsActive != nil {
			f.rules[i].IsActive = *req.IsActive
		}
		return nil
	}
	return salary.ErrRuleNotFound
}

// ---------- configs ----------

type fakeConfigRepo struct {
	configs []salary.TeacherSalaryConfig
}

func (f *fakeConfigRepo) GetActiveConfig(_ context.Context, teacherID string) (salary.TeacherSalaryConfig, error) {
	for _, c := range f.configs {
		if c.TeacherID == teacherID && c.IsActive {
			return c, nil
		}
	}
	return salary.TeacherSalaryConfig{}, salary.ErrSalaryConfigNotFound
}

func (f *fakeConfigRepo) GetConfigByID(_ context.Context, id string) (salary.TeacherSalaryConfig, error) {
	for _, c := range f.configs {
		if c.ID == id {
			return c, nil
		}
	}
	return salary.TeacherSalaryConfig{}, salary.ErrSalaryConfigNotFound
}

func (f *fakeConfigRepo) ListConfigs(_ context.Context, teacherID *string) ([]salary.TeacherSalaryConfig, error) {
	var out []salary.TeacherSalaryConfig
	for _, c := range f.configs {
		if teacherID == nil || c.TeacherID == *teacherID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeConfigRepo) CreateConfig(_ context.Context, cfg salary.TeacherSalaryConfig) (salary.TeacherSalaryConfig, error) {
	cfg.ID = fmt.Sprintf("cfg-%d", len(f.configs)+1)
	f.configs = append(f.configs, cfg)
	return cfg, nil
}

func (f *fakeConfigRepo) DeactivateConfigs(_ context.Context, teacherID string, effectiveTo time.Time) error {
	for i := range f.configs {
		if f.configs[i].TeacherID == teacherID && f.configs[i].IsActive {
			to := effectiveTo
			f.configs[i].IsActive = false
			f.configs[i].EffectiveTo = &to
		}
	}
	return nil
}

func (f *fakeConfigRepo) UpdateConfig(_ context.Context, id string, effectiveTo *time.Time, isActive *bool) error {
	for i := range f.configs {
		if f.configs[i].ID != id {
			continue
		}
		if effectiveTo != nil {
			f.configs[i].EffectiveTo = effectiveTo
		}
		if isActive != nil {
			f.configs[i].IsActive = *isActive
		}
		return nil
	}
	return salary.ErrSalaryConfigNotFound
}

// ---------- calculations ----------

type fakeCalculationRepo struct {
	calcs   map[string]salary.MonthlySalaryCalculation
	saveErr error
}

func newFakeCalculationRepo() *fakeCalculationRepo {
	return &fakeCalculationRepo{calcs: make(map[string]salary.MonthlySalaryCalculation)}
}

func (f *fakeCalculationRepo) UpsertCalculation(_ context.Context, c salary.MonthlySalaryCalculation) (salary.MonthlySalaryCalculation, error) {
	if f.saveErr != nil {
		return salary.MonthlySalaryCalculation{}, f.saveErr
	}
	for id, existing := range f.calcs {
		if existing.TeacherID == c.TeacherID && existing.Month == c.Month && existing.Year == c.Year {
			c.ID = id
			c.CreatedAt = existing.CreatedAt
			c.IsApproved = false
			c.ApprovedBy = nil
			c.ApprovedAt = nil
			f.calcs[id] = c
			return c, nil
		}
	}
	c.ID = fmt.Sprintf("calc-%d", len(f.calcs)+1)
	c.CreatedAt = time.Now()
	f.calcs[c.ID] = c
	return c, nil
}

func (f *fakeCalculationRepo) GetCalculationByID(_ context.Context, id string) (salary.MonthlySalaryCalculation, error) {
	c, ok := f.calcs[id]
	if !ok {
		return salary.MonthlySalaryCalculation{}, salary.ErrCalculationNotFound
	}
	return c, nil
}

func (f *fakeCalculationRepo) ListCalculations(_ context.Context, filter salary.CalculationFilter) ([]salary.MonthlySalaryCalculation, error) {
	var out []salary.MonthlySalaryCalculation
	for _, c := range f.calcs {
		if filter.TeacherID != nil && c.TeacherID != *filter.TeacherID {
			continue
		}
		if filter.Month != nil && c.Month != *filter.Month {
			continue
		}
		if filter.Year != nil && c.Year != *filter.Year {
			continue
		}
		if filter.IsApproved != nil && c.IsApproved != *filter.IsApproved {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeCalculationRepo) ApproveCalculation(_ context.Context, id string, approvedBy *string, approvedAt time.Time) error {
	c, ok := f.calcs[id]
	if !ok {
		return salary.ErrCalculationNotFound
	}
	if c.IsApproved {
		return salary.ErrCalculationAlreadyApproved
	}
	c.IsApproved = true
	c.ApprovedBy = approvedBy
	c.ApprovedAt = &approvedAt
	f.calcs[id] = c
	return nil
}

// ---------- transactions ----------

type fakeTransactor struct {
	calls int
}

func (f *fakeTransactor) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}
