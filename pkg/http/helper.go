package http

import (
	"net/http"
	"strconv"
	"strings"

	"bandsite/pkg/config"
	apperrors "bandsite/pkg/errors"
)

// ExtractLimit reads the "limit" query parameter. A missing or non-positive
// value yields defaultLimit and values above maxLimit are clamped.
func ExtractLimit(r *http.Request, defaultLimit, maxLimit int) (int, error) {
	limit := 0
	if s := strings.TrimSpace(r.URL.Query().Get("limit")); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return 0, apperrors.InvalidInput("invalid limit parameter: " + apperrors.Truncate(s, apperrors.MaxDiagnosticLength))
		}
		limit = v
	}
	return config.NormalizeLimit(limit, defaultLimit, maxLimit), nil
}

// ClientIP returns the caller address, preferring the first X-Forwarded-For hop.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	host := r.RemoteAddr
	if i := strings.LastIndex(host, ":"); i != -1 {
		host = host[:i]
	}
	return strings.Trim(host, "[]")
}
