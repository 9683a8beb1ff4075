package sentinel

import (
	"errors"
	"strings"

	"github.com/overtimehq/overtime-api/internal/domain/user"
	"github.com/overtimehq/overtime-api/internal/usecase"
)

// isAuthRejection separates token rejections from dependency failures so a
// flood of bad tokens cannot trip the breaker.
func isAuthRejection(err error) bool {
	return errors.Is(err, usecase.ErrUnauthorized)
}

func normalizeRole(role string) string {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case user.RoleAdmin:
		return user.RoleAdmin
	case user.RoleCapture:
		return user.RoleCapture
	default:
		return user.RoleViewer
	}
}

func buildURL(baseURL, path string) string {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	path = strings.TrimSpace(path)
	if path == "" {
		return baseURL
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return baseURL + path
}
