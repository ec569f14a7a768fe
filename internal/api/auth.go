package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
)

// The authenticated user id is resolved by the upstream gateway; feedline
// only consumes it.
const identityHeader = "X-User-ID"

var ErrNoIdentity = errors.New("no authenticated user")

type Identity interface {
	Resolve(r *http.Request) (int64, error)
}

// HeaderIdentity trusts the gateway-set identity header.
type HeaderIdentity struct{}

func (HeaderIdentity) Resolve(r *http.Request) (int64, error) {
	raw := r.Header.Get(identityHeader)
	if raw == "" {
		return 0, ErrNoIdentity
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrNoIdentity
	}
	return id, nil
}

const viewerContextKey = contextKey("viewer")

func (h *Handlers) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := h.Identity.Resolve(r)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, detailResponse{Detail: "authentication required"})
			return
		}

		ctx := context.WithValue(r.Context(), viewerContextKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func viewerID(ctx context.Context) int64 {
	id, _ := ctx.Value(viewerContextKey).(int64)
	return id
}
