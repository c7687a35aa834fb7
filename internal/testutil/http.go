package testutil

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/rollcallhq/rollcall/internal/app/system/auth"

	"github.com/go-chi/chi/v5"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// SignedIn marks the request as coming from an authenticated console
// client, bypassing the session cookie middleware.
func SignedIn(r *http.Request) *http.Request {
	return auth.WithTestSession(r)
}

// JSONBody builds a request body reader from a JSON string.
func JSONBody(s string) io.Reader {
	return strings.NewReader(s)
}

// DecodeJSON decodes a response body into dst, failing the test on error.
func DecodeJSON(t *testing.T, body io.Reader, dst any) {
	t.Helper()
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		t.Fatalf("failed to decode response JSON: %v", err)
	}
}
