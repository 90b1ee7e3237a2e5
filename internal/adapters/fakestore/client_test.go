package fakestore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/northwind/storefront/internal/domain/auth"
	apperrors "github.com/northwind/storefront/internal/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)
	return client
}

func TestLoginSuccess(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var creds auth.Credentials
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "johnd", creds.Username)

		_ = json.NewEncoder(w).Encode(map[string]string{"token": "abc.def.ghi"})
	})

	res, err := client.Login(context.Background(), auth.Credentials{Username: "johnd", Password: "m38rmF$"})
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", res.Token)
	assert.Nil(t, res.User)
}

func TestLoginRejectionIsAuthError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "username or password is incorrect", http.StatusUnauthorized)
	})

	_, err := client.Login(context.Background(), auth.Credentials{Username: "johnd", Password: "wrong"})
	require.Error(t, err)
	assert.True(t, apperrors.IsAuth(err), "4xx rejection should map to auth, got %v", apperrors.CodeOf(err))
}

func TestLoginServerFailureStaysUpstream(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.Login(context.Background(), auth.Credentials{Username: "johnd", Password: "pw"})
	require.Error(t, err)
	assert.True(t, apperrors.IsUpstream(err))
}

func TestLoginMissingCredentialsIsValidation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	})

	_, err := client.Login(context.Background(), auth.Credentials{Username: "johnd"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}

func TestLoginEmptyTokenIsAuthError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{})
	})

	_, err := client.Login(context.Background(), auth.Credentials{Username: "johnd", Password: "pw"})
	require.Error(t, err)
	assert.True(t, apperrors.IsAuth(err))
}

func TestRegisterWithoutToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/users", r.URL.Path)

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "newuser", body["username"])

		// The remote API acknowledges with an id only.
		_ = json.NewEncoder(w).Encode(map[string]any{"id": 11})
	})

	res, err := client.Register(context.Background(), auth.Registration{
		Username:  "newuser",
		Email:     "new@example.com",
		Password:  "pw",
		FirstName: "New",
	})
	require.NoError(t, err)

	assert.False(t, res.TokenIssued())
	require.NotNil(t, res.User)
	assert.Equal(t, int64(11), res.User.ID)
	assert.Equal(t, "newuser", res.User.Username)
	assert.Equal(t, "new@example.com", res.User.Email)
}

func TestGetUserNormalizesProfile(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/1", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"id": 1,
			"email": "john@gmail.com",
			"username": "johnd",
			"name": {"firstname": "john", "lastname": "doe"},
			"phone": "1-570-236-7033"
		}`))
	})

	user, err := client.GetUser(context.Background(), "1")
	require.NoError(t, err)

	assert.Equal(t, auth.User{
		ID:        1,
		Username:  "johnd",
		Email:     "john@gmail.com",
		FirstName: "john",
		LastName:  "doe",
		Phone:     "1-570-236-7033",
	}, user)
}

func TestGetUserEmptyBodyIsNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// The remote API answers 200 with an empty body for unknown users.
		w.WriteHeader(http.StatusOK)
	})

	_, err := client.GetUser(context.Background(), "9999")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestBearerTokenForwarded(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[]`))
	})

	ctx := WithBearer(context.Background(), "tok-123")
	_, err := client.ListProducts(ctx)
	require.NoError(t, err)
}

func TestNoBearerHeaderWithoutToken(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := client.ListProducts(context.Background())
	require.NoError(t, err)
}

func TestListProducts(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"id": 1, "title": "Backpack", "price": 109.95, "category": "men's clothing"},
			{"id": 2, "title": "T-Shirt", "price": 22.3, "category": "men's clothing"}
		]`))
	})

	products, err := client.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Backpack", products[0].Title)
	assert.Equal(t, 109.95, products[0].Price)
}

func TestListByCategoryEscapesPath(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/category/men's clothing", r.URL.Path)
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := client.ListByCategory(context.Background(), "men's clothing")
	require.NoError(t, err)
}

func TestGetProductNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	_, err := client.GetProduct(context.Background(), 9999)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestNewClientDefaults(t *testing.T) {
	client, err := NewClient(Config{BaseURL: "  https://example.com/ "})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", client.baseURL)

	client, err = NewClient(Config{})
	require.NoError(t, err)
	assert.Equal(t, defaultBaseURL, client.baseURL)
}
