package biometric

import "errors"

var (
	ErrEmptyCSV           = errors.New("csv file is empty")
	ErrMissingCSVColumns  = errors.New("csv is missing required columns")
	ErrInvalidCSV         = errors.New("csv file could not be parsed")
	ErrTimingNotFound     = errors.New("school timing not found")
	ErrRecordNotFound     = errors.New("biometric record not found")
	ErrUploadNotFound     = errors.New("upload history not found")
	ErrInvalidFileType    = errors.New("only .csv files are accepted")
	ErrTeacherNotMatched  = errors.New("teacher not found")
	ErrInvalidClockFormat = errors.New("time must be in HH:MM:SS format")
)
