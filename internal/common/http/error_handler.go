package http

import (
	"net/http"
	"strconv"

	commonerrors "github.com/kvolkov/session-gate/internal/common/errors"
	"github.com/kvolkov/session-gate/internal/common/httpmetrics"
	"github.com/kvolkov/session-gate/internal/common/logger"
	"github.com/kvolkov/session-gate/internal/observability/metrics"
)

// HandleError maps a domain error onto the fixed error envelope and
// records it; anything else becomes a plain 500.
func HandleError(w http.ResponseWriter, r *http.Request, err error, log *logger.Logger) {
	if err == nil {
		return
	}

	ctx := r.Context()

	if domainErr, ok := commonerrors.AsDomainError(err); ok {
		status := domainErr.HTTPStatus()

		log.WithFields(ctx, logger.Fields{
			"error_code": domainErr.Code(),
			"category":   string(domainErr.Category()),
			"status":     status,
			"action":     "domain_error",
		}).Debugf("domain error: %s", domainErr.Error())

		metrics.DomainErrorsTotal.WithLabelValues(
			string(domainErr.Category()),
			domainErr.Code(),
			strconv.Itoa(status),
		).Inc()
		metrics.HTTPErrorsTotal.WithLabelValues(
			strconv.Itoa(status),
			httpmetrics.NormalizePath(r.URL.Path),
			r.Method,
		).Inc()

		WriteError(w, status, domainErr.Message())
		return
	}

	log.WithFields(ctx, logger.Fields{
		"error":  err.Error(),
		"action": "unhandled_error",
	}).Errorf("unhandled error: %v", err)

	metrics.HTTPErrorsTotal.WithLabelValues(
		strconv.Itoa(http.StatusInternalServerError),
		httpmetrics.NormalizePath(r.URL.Path),
		r.Method,
	).Inc()

	WriteError(w, http.StatusInternalServerError, "internal server error")
}
