package biometric

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/schoolms/sms-backend-go/internal/domain/biometric"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadRows parses a device export. The header row must carry every column in
// biometric.RequiredColumns; extra columns are ignored and blank lines skipped.
func ReadRows(r io.Reader) ([]biometric.CSVRow, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", biometric.ErrInvalidCSV, err)
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, biometric.ErrEmptyCSV
	}

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, biometric.ErrEmptyCSV
		}
		return nil, fmt.Errorf("%w: %v", biometric.ErrInvalidCSV, err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}

	var missing []string
	for _, col := range biometric.RequiredColumns {
		if _, ok := index[strings.ToLower(col)]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", biometric.ErrMissingCSVColumns, strings.Join(missing, ", "))
	}

	field := func(rec []string, col string) string {
		i := index[strings.ToLower(col)]
		if i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var rows []biometric.CSVRow
	line := 1
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", biometric.ErrInvalidCSV, line, err)
		}
		if isBlank(rec) {
			continue
		}
		rows = append(rows, biometric.CSVRow{
			Line:   line,
			Name:   field(rec, "Name"),
			Time:   field(rec, "Time"),
			Date:   field(rec, "Date"),
			Status: field(rec, "Status"),
		})
	}
	return rows, nil
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ParseStamp reads the device date and time columns.
func ParseStamp(date, clock string) (time.Time, time.Time, error) {
	d, err := time.Parse(biometric.CSVDateLayout, strings.TrimSpace(date))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	c, err := time.Parse(biometric.CSVTimeLayout, strings.ToUpper(strings.TrimSpace(clock)))
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return d, c, nil
}

// minutesAfter returns how many whole minutes punch is after ref, or 0.
// Both values are clock times on the zero date.
func minutesAfter(punch, ref time.Time) int {
	if !punch.After(ref) {
		return 0
	}
	return int(punch.Sub(ref) / time.Minute)
}

// clockOf parses a stored HH:MM:SS value onto the zero date.
func clockOf(s string) (time.Time, error) {
	return time.Parse(biometric.ClockLayout, s)
}
