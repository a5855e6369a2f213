package mcpclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffmcp/staffmcp/internal/mcp"
	"github.com/staffmcp/staffmcp/internal/mcpclient"
)

var locationTool = mcp.ToolDescriptor{
	Name:        "get_employees_by_location",
	Description: "Get employees by location",
	Endpoint:    "/tools/get_employees_by_location",
	InputSchema: map[string]mcp.ParamType{"location": mcp.ParamString},
}

func TestListTools(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, mcp.DiscoveryPath, r.URL.Path)
		json.NewEncoder(w).Encode([]mcp.ToolDescriptor{locationTool})
	}))
	defer srv.Close()

	c := mcpclient.New(srv.URL+"/", time.Second)
	got, err := c.ListTools(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []mcp.ToolDescriptor{locationTool}, got)
}

func TestListToolsKeepsMalformedDescriptors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"name":"get_employees_by_location","description":"Get employees by location","endpoint":"/tools/get_employees_by_location","input_schema":{"location":"string"}},
			{"name":"get_salary","description":"Salary above","endpoint":"/tools/get_salary","input_schema":{"min":"float"}}
		]`))
	}))
	defer srv.Close()

	got, err := mcpclient.New(srv.URL, time.Second).ListTools(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "get_salary", got[1].Name)
	assert.Error(t, got[1].Check())
}

func TestListToolsServerDown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := mcpclient.New(url, time.Second).ListTools(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, mcp.ErrToolExecutionFailed))
}

func TestInvoke(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, locationTool.Endpoint, r.URL.Path)
		var args map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&args))
		assert.Equal(t, "Bangalore", args["location"])
		w.Write([]byte(`[{"name":"Amit Sharma","job_title":"Senior Engineer"}]`))
	}))
	defer srv.Close()

	raw, err := mcpclient.New(srv.URL, time.Second).
		Invoke(context.Background(), locationTool, map[string]any{"location": "Bangalore"})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"Amit Sharma","job_title":"Senior Engineer"}]`, string(raw))
}

func TestInvokeErrorStatus(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantMsg   string
		retryable bool
	}{
		{"bad request", http.StatusBadRequest, `{"error":"missing required argument(s): location"}`, "missing required argument(s): location", false},
		{"server error", http.StatusInternalServerError, `{"error":"database unavailable"}`, "database unavailable", true},
		{"plain body", http.StatusNotFound, `not here`, "not here", false},
		{"empty body", http.StatusBadGateway, ``, "Bad Gateway", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := mcpclient.New(srv.URL, time.Second).Invoke(context.Background(), locationTool, map[string]any{"location": "x"})
			require.Error(t, err)
			e, ok := mcp.AsError(err)
			require.True(t, ok)
			assert.Equal(t, mcp.KindToolExecutionFailed, e.Kind)
			assert.Equal(t, tt.status, e.Status)
			assert.Equal(t, tt.wantMsg, e.Message)
			assert.Equal(t, tt.retryable, e.Retryable)
		})
	}
}

func TestInvokeTimeoutIsRetryable(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := mcpclient.New(srv.URL, 50*time.Millisecond).
		Invoke(context.Background(), locationTool, map[string]any{"location": "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, mcp.ErrToolExecutionFailed))
	assert.True(t, mcp.IsRetryable(err))
}

func TestInvokeRejectsNonJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>"))
	}))
	defer srv.Close()

	_, err := mcpclient.New(srv.URL, time.Second).Invoke(context.Background(), locationTool, map[string]any{"location": "x"})
	assert.True(t, errors.Is(err, mcp.ErrToolExecutionFailed))
}
