package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name         string
		err          *AppError
		wantCategory ErrorCategory
		wantStatus   int
		wantContains string
		wantBody     string
	}{
		{
			name:         "validation",
			err:          NewValidationError("Invalid import payload", "rows missing"),
			wantCategory: CategoryValidation,
			wantStatus:   http.StatusBadRequest,
			wantContains: "VALIDATION_ERROR",
			wantBody:     "invalid_argument",
		},
		{
			name:         "not found",
			err:          NewNotFoundError("supplier", "绿城园林"),
			wantCategory: CategoryNotFound,
			wantStatus:   http.StatusNotFound,
			wantContains: "NOT_FOUND",
			wantBody:     "not_found",
		},
		{
			name:         "rate limit",
			err:          NewRateLimitError("30s"),
			wantCategory: CategoryRateLimit,
			wantStatus:   http.StatusTooManyRequests,
			wantContains: "RATE_LIMIT_EXCEEDED",
			wantBody:     "resource_exhausted",
		},
		{
			name:         "internal",
			err:          NewInternalError("db write failed", fmt.Errorf("disk full")),
			wantCategory: CategoryInternal,
			wantStatus:   http.StatusInternalServerError,
			wantContains: "INTERNAL_ERROR",
			wantBody:     "internal",
		},
		{
			name:         "configuration",
			err:          NewConfigurationError("bad scoring config", nil),
			wantCategory: CategoryConfiguration,
			wantStatus:   http.StatusInternalServerError,
			wantContains: "CONFIGURATION_ERROR",
			wantBody:     "failed_precondition",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCategory, tt.err.Category)
			assert.Equal(t, tt.wantStatus, tt.err.HTTPStatus)
			assert.Contains(t, tt.err.Error(), tt.wantContains)

			// Rendering an error response marshals the builder, which reads
			// the cause unconditionally. Every constructor must set one.
			require.NotNil(t, tt.err.ErrBuilder.Cause)
			body, err := json.Marshal(tt.err)
			require.NoError(t, err)
			assert.Contains(t, string(body), tt.wantBody)
		})
	}
}

func TestToAppError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.Nil(t, ToAppError(nil))
	})

	t.Run("app errors pass through", func(t *testing.T) {
		original := NewNotFoundError("supplier", "x")
		assert.Same(t, original, ToAppError(original))
	})

	t.Run("plain errors become internal", func(t *testing.T) {
		converted := ToAppError(fmt.Errorf("boom"))
		require.NotNil(t, converted)
		assert.Equal(t, CategoryInternal, converted.Category)
		assert.Equal(t, http.StatusInternalServerError, converted.HTTPStatus)
	})

	t.Run("bare builders get a cause before rendering", func(t *testing.T) {
		bare := errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("scoring failed")

		converted := ToAppError(bare)
		require.NotNil(t, converted)
		require.NotNil(t, converted.ErrBuilder.Cause)

		_, err := json.Marshal(converted)
		assert.NoError(t, err)
	})
}

func TestErrorHandlerMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	serve := func(t *testing.T, appErr *AppError) *httptest.ResponseRecorder {
		t.Helper()

		r := gin.New()
		r.Use(ErrorHandler())
		r.GET("/boom", func(c *gin.Context) {
			c.Error(appErr)
		})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/boom", nil)
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("validation", func(t *testing.T) {
		w := serve(t, NewValidationError("bad input"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "invalid_argument")
		assert.Contains(t, w.Body.String(), "bad input")
	})

	t.Run("not found", func(t *testing.T) {
		w := serve(t, NewNotFoundError("supplier", "绿城园林"))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "not_found")
	})

	t.Run("rate limit", func(t *testing.T) {
		w := serve(t, NewRateLimitError("30s"))
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), "resource_exhausted")
	})
}

func TestWrapError(t *testing.T) {
	base := fmt.Errorf("timeout")

	wrapped := WrapError(base, "loading supplier %q", "绿城园林")
	require.Error(t, wrapped)
	assert.ErrorIs(t, wrapped, base)
	assert.Contains(t, wrapped.Error(), "绿城园林")

	assert.NoError(t, WrapError(nil, "ignored"))
}
