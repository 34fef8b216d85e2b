package net

import (
	"net/http"

	perr "sentimeter/internal/platform/errors"
)

// Error maps an error to its HTTP status and detail body
func Error(err error) (int, any) {
	if err == nil {
		return http.StatusOK, nil
	}
	status, wire := perr.HTTP(err)
	return status, wire
}
