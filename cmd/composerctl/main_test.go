package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocaleFromEnv(t *testing.T) {
	cases := []struct {
		lcAll, lang, want string
	}{
		{"", "de_DE.UTF-8", "de-DE"},
		{"en_US@euro", "de_DE.UTF-8", "en-US"},
		{"", "C", ""},
		{"", "", ""},
	}
	for _, tc := range cases {
		t.Setenv("LC_ALL", tc.lcAll)
		t.Setenv("LANG", tc.lang)
		assert.Equal(t, tc.want, localeFromEnv())
	}
}

func runCLI(t *testing.T, srv *httptest.Server, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--server", srv.URL, "--lang", "en-US"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestNotificationsPlain(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/notifications", r.URL.Path)
		assert.Equal(t, "100", r.URL.Query().Get("page_size"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"id":1,"severity":"error","location":"main.dialog","message":"broken trigger"}],"page":1,"page_size":100,"page_count":1,"total":1}`))
	}))
	defer srv.Close()

	out, err := runCLI(t, srv, "notifications", "--plain")
	require.NoError(t, err)
	assert.Contains(t, out, "broken trigger")
	assert.Contains(t, out, "page 1/1 (1 total)")

	out, err = runCLI(t, srv, "notifications", "--plain", "--page", "4")
	require.NoError(t, err)
	assert.NotContains(t, out, "broken trigger")
	assert.Contains(t, out, "page 4/1 (1 total)")
}

func TestTargetsSaveReportsFieldErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_input","message":"one or more fields are invalid","field_errors":[{"field":"name","message":"A profile with that name already exists."}]}`))
	}))
	defer srv.Close()

	_, err := runCLI(t, srv, "targets", "save", "prod", "--type", "localPublish")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "name: A profile with that name already exists."), err.Error())
}

func TestPublishNonInteractiveReturnsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":"publish_failed","message":"Could not publish to prod: down","report":{"title":"Publish failed","message":"Could not publish to prod: down"}}`))
	}))
	defer srv.Close()

	_, err := runCLI(t, srv, "publish", "prod", "-m", "release")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Could not publish to prod")
}
