package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"atlasbourse/internal/entity"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondError_StatusMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{entity.ErrUnknownSymbol, http.StatusNotFound},
		{entity.ErrUserExists, http.StatusConflict},
		{entity.ErrInvalidCredentials, http.StatusUnauthorized},
		{entity.ErrUnauthorized, http.StatusUnauthorized},
		{entity.ErrInvalidQuantity, http.StatusBadRequest},
		{entity.ErrInvalidSide, http.StatusBadRequest},
		{entity.ErrInvalidAmount, http.StatusBadRequest},
		{entity.ErrInsufficientFunds, http.StatusUnprocessableEntity},
		{entity.ErrNoHolding, http.StatusUnprocessableEntity},
		{entity.ErrInsufficientHolding, http.StatusUnprocessableEntity},
		{entity.ErrPriceUnavailable, http.StatusUnprocessableEntity},
		{assert.AnError, http.StatusInternalServerError},
	}

	e := echo.New()
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			require.NoError(t, respondError(c, tt.err))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRespondError_HidesInternalDetail(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, respondError(c, assert.AnError))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
}

func TestBearerToken(t *testing.T) {
	e := echo.New()

	newCtx := func(header string) echo.Context {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set(echo.HeaderAuthorization, header)
		}
		return e.NewContext(req, httptest.NewRecorder())
	}

	assert.Equal(t, "abc123", bearerToken(newCtx("Bearer abc123")))
	assert.Empty(t, bearerToken(newCtx("")))
	assert.Empty(t, bearerToken(newCtx("Basic abc123")))
	assert.Empty(t, bearerToken(newCtx("bearer abc123")))
}
