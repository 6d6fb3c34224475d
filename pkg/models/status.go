package models

// Status is the normalized operating status of a facility.
type Status string

const (
	StatusOpen              Status = "open"
	StatusClosed            Status = "closed"
	StatusExpectedToOpen    Status = "expected_to_open"
	StatusNotExpectedToOpen Status = "not_expected_to_open"
	StatusUnknown           Status = "unknown"
)
