// Copyright (c) 2026 Critiq. All rights reserved.
// Author: dev@critiq.app

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/velkore/critiq/internal/platform/ctxutil"
	"github.com/velkore/critiq/internal/platform/middleware"
	"github.com/velkore/critiq/internal/platform/sec"
)

/*
TestRequireAuth_BlocksAnonymous verifies that requests without claims in
context are rejected with 401 before reaching the handler.
*/
func TestRequireAuth_BlocksAnonymous(t *testing.T) {
	handlerReached := false
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		handlerReached = true
	})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/users/me", nil)

	middleware.RequireAuth(next).ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.False(t, handlerReached)
}

/*
TestRequireAuth_PassesAuthenticated verifies that requests carrying verified
claims proceed to the handler.
*/
func TestRequireAuth_PassesAuthenticated(t *testing.T) {
	handlerReached := false
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		handlerReached = true
	})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	ctx := ctxutil.WithAuthUser(request.Context(), &sec.AuthClaims{UserID: "user-123", Role: "user"})

	middleware.RequireAuth(next).ServeHTTP(recorder, request.WithContext(ctx))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.True(t, handlerReached)
}
