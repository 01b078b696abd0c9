package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setDashboardEnv(t *testing.T, glpiURL string) {
	t.Helper()
	t.Setenv("GLPI_API_URL", glpiURL)
	t.Setenv("GLPI_URL", "")
	t.Setenv("GLPI_APP_TOKEN", "app")
	t.Setenv("GLPI_USER_TOKEN", "user")
	t.Setenv("APP_ENV", "development")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("DEFAULT_START_DATE", "")
	t.Setenv("DEFAULT_END_DATE", "")
}

func TestRun_InvalidConfigReturnsError(t *testing.T) {
	setDashboardEnv(t, "")

	err := run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load configuration")
}

func TestRun_SessionFailureReturnsError(t *testing.T) {
	var killed bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/initSession":
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`["ERROR_GLPI_LOGIN_USER_TOKEN","invalid"]`))
		case "/killSession":
			killed = true
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()
	setDashboardEnv(t, srv.URL)

	err := run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open glpi session")
	assert.False(t, killed, "no session was opened")
}
