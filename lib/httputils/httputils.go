package httputils

import (
	"net/http"

	"boscoin.io/congress/lib/errors"
)

var (
	// ErrorsToStatus maps the error codes which are not a plain bad request;
	// any other `*errors.Error` is 400.
	ErrorsToStatus = map[uint]int{
		errors.Unauthorized.Code:              http.StatusForbidden,
		errors.NoSuchProposal.Code:            http.StatusNotFound,
		errors.NoSuchVote.Code:                http.StatusNotFound,
		errors.StorageRecordDoesNotExist.Code: http.StatusNotFound,
		errors.StorageCoreError.Code:          http.StatusInternalServerError,
		errors.InvalidConfig.Code:             http.StatusInternalServerError,
	}
)

func StatusCode(err error) int {
	e, ok := err.(*errors.Error)
	if !ok {
		return http.StatusInternalServerError
	}
	if status, found := ErrorsToStatus[e.Code]; found {
		return status
	}

	return http.StatusBadRequest
}
