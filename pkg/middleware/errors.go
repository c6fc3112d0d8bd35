package middleware

import (
	"net/http"

	apperrors "backstage/pkg/errors"
	httputil "backstage/pkg/http"
)

// writeError renders appErr in the same envelope the handlers use.
func writeError(w http.ResponseWriter, appErr *apperrors.AppError) {
	_ = httputil.WriteError(w, appErr)
}
