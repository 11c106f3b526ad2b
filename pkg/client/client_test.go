package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-cms/inkwell/pkg/domain/model"
)

func writeEnvelope(w http.ResponseWriter, status, code int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"code":      code,
		"message":   message,
		"data":      data,
		"timestamp": time.Now().UnixMilli(),
	})
}

func TestListUnwrapsEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/categories", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		writeEnvelope(w, http.StatusOK, 0, "ok", map[string]interface{}{
			"list": []map[string]interface{}{
				{"id": 11, "name": "Go", "slug": "go"},
				{"id": 12, "name": "Infra", "slug": "infra"},
			},
			"total":      12,
			"page":       2,
			"size":       10,
			"totalPages": 2,
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	page, err := c.Categories().List(context.Background(), url.Values{"page": {"2"}})
	require.NoError(t, err)
	require.Len(t, page.List, 2)
	assert.Equal(t, uint(11), page.List[0].ID)
	assert.Equal(t, "go", page.List[0].Slug)
	assert.Equal(t, int64(12), page.Total)
	assert.Equal(t, 2, page.TotalPages)
}

func TestBearerTokenInjection(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeEnvelope(w, http.StatusOK, 0, "ok", nil)
	}))
	defer srv.Close()

	c := New(srv.URL, WithTokenSource(StaticToken("tok-123")))
	require.NoError(t, c.Categories().Delete(context.Background(), 5))
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestNotFoundBecomesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusNotFound, 40400, "category not found", nil)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Categories().Get(context.Background(), 99)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.False(t, IsValidation(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 40400, apiErr.Code)
	assert.Equal(t, "category not found", apiErr.Message)
}

func TestInputStatusesBecomeValidationErrors(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, status, 40000, "bad input", nil)
		}))
		_, err := New(srv.URL).Categories().Create(context.Background(), model.CreateCategoryRequest{})
		srv.Close()
		require.Error(t, err)
		assert.True(t, IsValidation(err), "http %d should classify as validation", status)
	}
}

func TestNonZeroCodeUnderHTTP200IsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, 50000, "storage unavailable", nil)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Categories().Get(context.Background(), 1)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 50000, apiErr.Code)
}

func TestNonEnvelopeBodyIsAnAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Categories().Get(context.Background(), 1)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.HTTPStatus)
	assert.Equal(t, -1, apiErr.Code)
}

func TestTransportFailureIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	_, err := New(srv.URL).Categories().Get(context.Background(), 1)
	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
}

func TestCheckSlugQueryShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags/check-slug", r.URL.Path)
		assert.Equal(t, "golang", r.URL.Query().Get("slug"))
		assert.Equal(t, "7", r.URL.Query().Get("excludeId"))
		writeEnvelope(w, http.StatusOK, 0, "ok", map[string]bool{"available": true})
	}))
	defer srv.Close()

	available, err := New(srv.URL).Tags().CheckSlug(context.Background(), "golang", 7)
	require.NoError(t, err)
	assert.True(t, available)
}

func TestArticleToggleRoutes(t *testing.T) {
	var gotPath, gotMethod string
	var gotBody toggleRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.Path, r.Method
		json.NewDecoder(r.Body).Decode(&gotBody)
		writeEnvelope(w, http.StatusOK, 0, "ok", map[string]interface{}{"id": 4, "is_top": true})
	}))
	defer srv.Close()

	item, err := New(srv.URL).Articles().SetTop(context.Background(), 4, true)
	require.NoError(t, err)
	assert.Equal(t, "/api/articles/4/top", gotPath)
	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.True(t, gotBody.Value)
	assert.True(t, item.IsTop)
}

func TestSessionRefreshesNearExpiry(t *testing.T) {
	refreshes := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			writeEnvelope(w, http.StatusOK, 0, "ok", map[string]interface{}{
				"access_token":  "access-1",
				"refresh_token": "refresh-1",
				// already inside the refresh window
				"expires_at": time.Now().Add(10 * time.Second).UnixMilli(),
				"user":       map[string]interface{}{"id": 1, "username": "admin"},
			})
		case "/api/auth/refresh":
			refreshes++
			var req model.RefreshTokenRequest
			json.NewDecoder(r.Body).Decode(&req)
			assert.Equal(t, "refresh-1", req.RefreshToken)
			writeEnvelope(w, http.StatusOK, 0, "ok", map[string]interface{}{
				"access_token": "access-2",
				"expires_at":   time.Now().Add(15 * time.Minute).UnixMilli(),
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	session, err := c.Login(context.Background(), model.LoginRequest{
		Username: "admin", Password: "pw", CaptchaID: "id", CaptchaAnswer: "1234",
	})
	require.NoError(t, err)
	require.NotNil(t, session.User())
	assert.Equal(t, "admin", session.User().Username)

	assert.Equal(t, "access-2", session.AccessToken())
	assert.Equal(t, 1, refreshes)

	// The renewed token is far from expiry, so no second refresh happens.
	assert.Equal(t, "access-2", session.AccessToken())
	assert.Equal(t, 1, refreshes)
}

func TestLogoutClearsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			writeEnvelope(w, http.StatusOK, 0, "ok", map[string]interface{}{
				"access_token":  "access-1",
				"refresh_token": "refresh-1",
				"expires_at":    time.Now().Add(15 * time.Minute).UnixMilli(),
				"user":          map[string]interface{}{"id": 1, "username": "admin"},
			})
		case "/api/auth/logout":
			var req model.LogoutRequest
			json.NewDecoder(r.Body).Decode(&req)
			assert.Equal(t, "refresh-1", req.RefreshToken)
			writeEnvelope(w, http.StatusOK, 0, "ok", nil)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	session, err := c.Login(context.Background(), model.LoginRequest{
		Username: "admin", Password: "pw", CaptchaID: "id", CaptchaAnswer: "1234",
	})
	require.NoError(t, err)

	require.NoError(t, session.Logout(context.Background()))
	assert.Empty(t, session.AccessToken())
	assert.Empty(t, session.RefreshToken())
	assert.Nil(t, session.User())
}
