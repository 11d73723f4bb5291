package dto

import "errors"

var (
	errInvalidDate    = errors.New("dates must use the YYYY-MM-DD format")
	errEndBeforeStart = errors.New("end_date must not be before start_date")
	errRangeTooLong   = errors.New("availability range cannot exceed 31 days")
)
