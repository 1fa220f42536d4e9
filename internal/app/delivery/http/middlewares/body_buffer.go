package middlewares

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"mentorship-service/internal/pkg/constvars"
	"mentorship-service/internal/pkg/exceptions"
	"mentorship-service/internal/pkg/utils"
)

// BodyBuffer keeps the raw request bytes in the context. Provider signatures are computed
// over the exact payload, so webhook handlers must not see a re-encoded body.
func (m *Middlewares) BodyBuffer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limit := int64(m.InternalConfig.App.RequestBodyLimitInMegabyte) << 20
		if limit <= 0 {
			limit = 1 << 20
		}

		bodyBytes, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
		if err != nil {
			utils.BuildErrorResponse(m.Log, w, exceptions.ErrReadBody(err))
			return
		}

		ctx := context.WithValue(r.Context(), constvars.CONTEXT_RAW_BODY, bodyBytes)
		r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RawBodyFromContext returns the bytes stored by BodyBuffer.
func RawBodyFromContext(ctx context.Context) []byte {
	body, _ := ctx.Value(constvars.CONTEXT_RAW_BODY).([]byte)
	return body
}
