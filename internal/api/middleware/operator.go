package middleware

import (
	"context"
	"net/http"

	"github.com/routeops/routeops/internal/api/models"
)

// operatorIDKey is the context key for the operator ID.
type operatorIDKey struct{}

// OperatorHeader is the trusted header carrying the caller's operator ID.
// An upstream gateway is responsible for authenticating the caller and
// stamping this header.
const OperatorHeader = "X-Operator-Id"

// OperatorID extracts the operator ID from the trusted header and adds it to
// the request context. Requests without the header are rejected with 401.
func OperatorID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		operatorID := r.Header.Get(OperatorHeader)
		if operatorID == "" {
			problem := models.NewUnauthorized(GetRequestID(r.Context()), "missing "+OperatorHeader+" header")
			problem.Instance = r.URL.Path
			problem.Write(w)
			return
		}

		ctx := context.WithValue(r.Context(), operatorIDKey{}, operatorID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetOperatorID retrieves the operator ID from the context.
func GetOperatorID(ctx context.Context) string {
	if id, ok := ctx.Value(operatorIDKey{}).(string); ok {
		return id
	}
	return ""
}
