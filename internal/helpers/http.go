package helpers

import (
	"net/http"
	"strings"

	"github.com/isometry/slack-dispatch-bridge/internal/models"
)

// RespondHTTP writes the response to rw. Headers are applied before the status line.
// A zero status code is sent as 200.
func RespondHTTP(response models.Response, rw http.ResponseWriter) {
	for k, v := range response.Headers {
		rw.Header().Set(k, v)
	}
	statusCode := response.StatusCode
	if statusCode == 0 {
		statusCode = http.StatusOK
	}
	rw.WriteHeader(statusCode)
	_, _ = rw.Write([]byte(response.Body))
}

// NormaliseHeaders lower-cases header names, keeping the first value of each.
func NormaliseHeaders(header http.Header) map[string]string {
	headers := make(map[string]string, len(header))
	for k, v := range header {
		if len(v) == 0 {
			continue
		}
		headers[strings.ToLower(k)] = v[0]
	}
	return headers
}
