package client

import (
	"fmt"
	"net/http"

	"github.com/goccy/go-json"

	tberrors "github.com/tessro/tuneboard/internal/errors"
)

// APIError represents a Spotify API error response.
type APIError struct {
	ErrorInfo struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
		Reason  string `json:"reason,omitempty"`
	} `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Spotify API error %d: %s", e.ErrorInfo.Status, e.ErrorInfo.Message)
}

// Is maps HTTP statuses onto the shared sentinel errors.
func (e *APIError) Is(target error) bool {
	switch target {
	case tberrors.ErrNotAuthenticated:
		return e.ErrorInfo.Status == http.StatusUnauthorized
	case tberrors.ErrPremiumRequired:
		return e.ErrorInfo.Status == http.StatusForbidden && e.ErrorInfo.Reason == "PREMIUM_REQUIRED"
	case tberrors.ErrNoActiveDevice:
		return e.ErrorInfo.Status == http.StatusNotFound
	case tberrors.ErrRateLimited:
		return e.ErrorInfo.Status == http.StatusTooManyRequests
	}
	return false
}

func parseAPIError(status int, body []byte) error {
	var apiErr APIError
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.ErrorInfo.Message == "" {
		apiErr.ErrorInfo.Message = http.StatusText(status)
	}
	apiErr.ErrorInfo.Status = status
	return &apiErr
}
