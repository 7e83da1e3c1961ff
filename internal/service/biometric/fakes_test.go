package biometric

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/schoolms/sms-backend-go/internal/domain/biometric"
	"github.com/schoolms/sms-backend-go/internal/domain/salary"
	"github.com/schoolms/sms-backend-go/internal/domain/teacher"
	"github.com/schoolms/sms-backend-go/internal/domain/user"
)

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

func strp(s string) *string { return &s }

type fakeTimingRepo struct {
	timings   []biometric.SchoolTiming
	activeErr error
}

func (f *fakeTimingRepo) GetActiveTiming(_ context.Context) (biometric.SchoolTiming, error) {
	if f.activeErr != nil {
		return biometric.SchoolTiming{}, f.activeErr
	}
	for _, t := range f.timings {
		if t.IsActive {
			return t, nil
		}
	}
	return biometric.SchoolTiming{}, biometric.ErrTimingNotFound
}

func (f *fakeTimingRepo) GetTimingByID(_ context.Context, id string) (biometric.SchoolTiming, error) {
	for _, t := range f.timings {
		if t.ID == id {
			return t, nil
		}
	}
	return biometric.SchoolTiming{}, biometric.ErrTimingNotFound
}

func (f *fakeTimingRepo) ListTimings(_ context.Context) ([]biometric.SchoolTiming, error) {
	return f.timings, nil
}

func (f *fakeTimingRepo) CreateTiming(_ context.Context, t biometric.SchoolTiming) (biometric.SchoolTiming, error) {
	t.ID = fmt.Sprintf("timing-%d", len(f.timings)+1)
	f.timings = append(f.timings, t)
	return t, nil
}

func (f *fakeTimingRepo) UpdateTiming(_ context.Context, req biometric.UpdateTimingRequest) error {
	for i := range f.timings {
		if f.timings[i].ID != req.ID {
			continue
		}
		if req.TimingName != nil {
			f.timings[i].TimingName = *req.TimingName
		}
		if req.ArrivalTime != nil {
			f.timings[i].ArrivalTime = *req.ArrivalTime
		}
		if req.DepartureTime != nil {
			f.timings[i].DepartureTime = *req.DepartureTime
		}
		if req.GracePeriodMinutes != nil {
			f.timings[i].GracePeriodMinutes = *req.GracePeriodMinutes
		}
		if req.IsActive != nil {
			f.timings[i].IsActive = *req.IsActive
		}
		return nil
	}
	return biometric.ErrTimingNotFound
}

type fakeRecordRepo struct {
	records map[string]biometric.Record
}

func newFakeRecordRepo() *fakeRecordRepo {
	return &fakeRecordRepo{records: make(map[string]biometric.Record)}
}

func recordKey(teacherID string, date time.Time) string {
	return teacherID + "|" + date.Format("2006-01-02")
}

func (f *fakeRecordRepo) ListByTeacherAndRange(_ context.Context, teacherID string, from, to time.Time) ([]biometric.Record, error) {
	var out []biometric.Record
	for _, r := range f.records {
		if r.TeacherID == teacherID && !r.AttendanceDate.Before(from) && r.AttendanceDate.Before(to) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AttendanceDate.Before(out[j].AttendanceDate) })
	return out, nil
}

func (f *fakeRecordRepo) GetByTeacherAndDate(_ context.Context, teacherID string, date time.Time) (biometric.Record, error) {
	r, ok := f.records[recordKey(teacherID, date)]
	if !ok {
		return biometric.Record{}, biometric.ErrRecordNotFound
	}
	return r, nil
}

func (f *fakeRecordRepo) Upsert(_ context.Context, r biometric.Record) (biometric.Record, error) {
	key := recordKey(r.TeacherID, r.AttendanceDate)
	if existing, ok := f.records[key]; ok {
		r.ID = existing.ID
		if r.CheckOutTime == nil {
			r.CheckOutTime = existing.CheckOutTime
		}
	} else {
		r.ID = fmt.Sprintf("rec-%d", len(f.records)+1)
	}
	f.records[key] = r
	return r, nil
}

func (f *fakeRecordRepo) List(_ context.Context, filter biometric.RecordFilter) ([]biometric.Record, error) {
	var out []biometric.Record
	for _, r := range f.records {
		if filter.TeacherID != nil && r.TeacherID != *filter.TeacherID {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeUploadRepo struct {
	uploads   []biometric.UploadHistory
	createErr error
}

func (f *fakeUploadRepo) CreateUpload(_ context.Context, u biometric.UploadHistory) (biometric.UploadHistory, error) {
	if f.createErr != nil {
		return biometric.UploadHistory{}, f.createErr
	}
	u.ID = fmt.Sprintf("upload-%d", len(f.uploads)+1)
	f.uploads = append(f.uploads, u)
	return u, nil
}

func (f *fakeUploadRepo) FinishUpload(_ context.Context, u biometric.UploadHistory) error {
	for i := range f.uploads {
		if f.uploads[i].ID == u.ID {
			f.uploads[i] = u
			return nil
		}
	}
	return biometric.ErrUploadNotFound
}

func (f *fakeUploadRepo) ListUploads(_ context.Context) ([]biometric.UploadHistory, error) {
	return f.uploads, nil
}

type fakeRuleRepo struct {
	rules   []salary.DeductionRule
	listErr error
}

func (f *fakeRuleRepo) ListRules(_ context.Context, activeOnly bool) ([]salary.DeductionRule, error) {
	if f.listErr != nil {
		return nil, f.listErr
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
	return salary.DeductionRule{}, salary.ErrRuleNotFound
}

func (f *fakeRuleRepo) CreateRule(_ context.Context, r salary.DeductionRule) (salary.DeductionRule, error) {
	f.rules = append(f.rules, r)
	return r, nil
}

func (f *fakeRuleRepo) UpdateRule(_ context.Context, _ salary.UpdateRuleRequest) error {
	return nil
}

type fakeConfigRepo struct {
	configs map[string]salary.TeacherSalaryConfig
}

func (f *fakeConfigRepo) GetActiveConfig(_ context.Context, teacherID string) (salary.TeacherSalaryConfig, error) {
	c, ok := f.configs[teacherID]
	if !ok {
		return salary.TeacherSalaryConfig{}, salary.ErrSalaryConfigNotFound
	}
	return c, nil
}

func (f *fakeConfigRepo) GetConfigByID(_ context.Context, _ string) (salary.TeacherSalaryConfig, error) {
	return salary.TeacherSalaryConfig{}, salary.ErrSalaryConfigNotFound
}

func (f *fakeConfigRepo) ListConfigs(_ context.Context, _ *string) ([]salary.TeacherSalaryConfig, error) {
	return nil, nil
}

func (f *fakeConfigRepo) CreateConfig(_ context.Context, c salary.TeacherSalaryConfig) (salary.TeacherSalaryConfig, error) {
	return c, nil
}

func (f *fakeConfigRepo) DeactivateConfigs(_ context.Context, _ string, _ time.Time) error {
	return nil
}

func (f *fakeConfigRepo) UpdateConfig(_ context.Context, _ string, _ *time.Time, _ *bool) error {
	return nil
}

type fakeTeacherRepo struct {
	teachers  []teacher.Teacher
	listCalls int
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
		if t, err := f.GetByID(context.Background(), id); err == nil {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTeacherRepo) List(_ context.Context) ([]teacher.Teacher, error) {
	f.listCalls++
	return f.teachers, nil
}
