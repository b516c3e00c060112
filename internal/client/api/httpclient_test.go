package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeEnvelope(t *testing.T, w http.ResponseWriter, success bool, errMsg string, data any) {
	t.Helper()
	var raw json.RawMessage
	if data != nil {
		b, err := json.Marshal(data)
		require.NoError(t, err)
		raw = b
	}
	require.NoError(t, json.NewEncoder(w).Encode(envelope{Success: success, Error: errMsg, Data: raw}))
}

func TestHTTPClient_Login_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)
		require.NotEmpty(t, r.Header.Get("X-Request-Id"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "a@b.com", body["email"])

		writeEnvelope(t, w, true, "", LoginResult{
			AccessToken: "tok-1",
			User:        &RawUser{ID: "u1", Email: "a@b.com", Username: "ab", Subscription: &RawSubscription{Tier: "elite"}},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	res, err := c.Login(context.Background(), "a@b.com", "x")
	require.NoError(t, err)
	require.Equal(t, "tok-1", res.AccessToken)
	require.Equal(t, "elite", res.User.Subscription.Tier)
	require.False(t, res.RequiresTwoFactor)
}

func TestHTTPClient_Login_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	_, err := c.Login(context.Background(), "a@b.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestHTTPClient_Login_TwoFactorRequired(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, true, "", LoginResult{RequiresTwoFactor: true})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	res, err := c.Login(context.Background(), "a@b.com", "x")
	require.NoError(t, err)
	require.True(t, res.RequiresTwoFactor)
	require.Empty(t, res.AccessToken)
}

func TestHTTPClient_BearerTokenAttached(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeEnvelope(t, w, true, "", RawUser{ID: "u1", Email: "a@b.com", Username: "ab"})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	c.SetToken("tok-9")
	_, err := c.GetProfile(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Bearer tok-9", gotAuth)
}

func TestHTTPClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, wantErr: ErrUnauthorized},
		{name: "forbidden", status: http.StatusForbidden, wantErr: ErrUnauthorized},
		{name: "server error", status: http.StatusInternalServerError, wantErr: ErrUnavailable},
		{name: "bad gateway", status: http.StatusBadGateway, wantErr: ErrUnavailable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer srv.Close()

			c := NewHTTPClient(srv.URL)
			_, err := c.GetProfile(context.Background())
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestHTTPClient_BusinessErrorSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, false, "code already used", nil)
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	err := c.Disable2FA(context.Background(), "123456")
	require.EqualError(t, err, "code already used")
}

func TestHTTPClient_Unreachable(t *testing.T) {
	c := NewHTTPClient("http://127.0.0.1:1")
	err := c.Logout(context.Background())
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestHTTPClient_Enable2FA_Payload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/2fa/enable", r.URL.Path)
		writeEnvelope(t, w, true, "", TwoFactorEnrollment{
			QRCode:      "otpauth://totp/ChainView:a@b.com?secret=ABC",
			BackupCodes: []string{"1111-2222", "3333-4444"},
		})
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	enr, err := c.Enable2FA(context.Background())
	require.NoError(t, err)
	require.Contains(t, enr.QRCode, "otpauth://")
	require.Len(t, enr.BackupCodes, 2)
}
