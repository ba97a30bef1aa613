package common

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withURLParam(r *http.Request, name, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(name, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestGetAndValidateURLParam(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		paramValue string
		wantValue  string
		wantErrMsg string
	}{
		{name: "plain name", paramValue: "devel", wantValue: "devel"},
		{name: "dots and dashes", paramValue: "sles-10.sp1", wantValue: "sles-10.sp1"},
		{name: "url-encoded slash", paramValue: "x11%2Fdevel", wantValue: "x11/devel"},
		{name: "url-encoded plus", paramValue: "c%2B%2B", wantValue: "c++"},
		{name: "empty string", paramValue: "", wantErrMsg: "name cannot be empty"},
		{name: "url-encoded space only", paramValue: "%20", wantErrMsg: "name cannot be empty"},
		{name: "space in middle", paramValue: "base%20system", wantErrMsg: "name cannot contain whitespace"},
		{name: "tab at end", paramValue: "base%09", wantErrMsg: "name cannot contain whitespace"},
		{name: "invalid encoding", paramValue: "base%zz", wantErrMsg: "invalid URL encoding in name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "name", tt.paramValue)

			got, err := GetAndValidateURLParam(req, "name")
			if tt.wantErrMsg != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantErrMsg, err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantValue, got)
		})
	}
}

func TestGetIntURLParam(t *testing.T) {
	t.Parallel()

	for value, want := range map[string]int{"1": 1, "42": 42, "0": 0, "-3": 0, "abc": 0, "": 0} {
		req := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", value)
		got, err := GetIntURLParam(req, "id")
		if want == 0 {
			require.Error(t, err, value)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestGetBoolQueryParam(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/?enabled=true&bad=maybe", nil)

	v, err := GetBoolQueryParam(req, "enabled", false)
	require.NoError(t, err)
	assert.True(t, v)

	v, err = GetBoolQueryParam(req, "missing", true)
	require.NoError(t, err)
	assert.True(t, v)

	_, err = GetBoolQueryParam(req, "bad", false)
	require.ErrorContains(t, err, "bad must be a boolean")
}

func TestDecodeJSONBody(t *testing.T) {
	t.Parallel()

	var v struct {
		URL string `json:"url"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"url":"dir:///media"}`))
	require.NoError(t, DecodeJSONBody(httptest.NewRecorder(), req, &v))
	assert.Equal(t, "dir:///media", v.URL)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"url":"x","extra":1}`))
	require.ErrorContains(t, DecodeJSONBody(httptest.NewRecorder(), req, &v), "invalid request body")

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	require.ErrorContains(t, DecodeJSONBody(httptest.NewRecorder(), req, &v), "request body is empty")
}
