package http_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-inject/framework/container"
	gohttp "github.com/km-arc/go-inject/framework/http"
)

type Clock interface{ Now() int64 }

type Store interface{ Get(k string) string }

type fixedClock struct{}

func (fixedClock) Now() int64 { return 42 }

type memStore map[string]string

func (m memStore) Get(k string) string { return m[k] }

func newController(t *testing.T) *gohttp.DiagnosticsController {
	t.Helper()
	r := container.New()
	container.Bind[Clock](r, func() Clock { return fixedClock{} })
	_ = container.MustGet[Clock](r)
	container.Bind[Store](r, func() Store { return memStore{} })

	return &gohttp.DiagnosticsController{
		Registry: r,
		Param: func(req *http.Request, _ string) string {
			return strings.TrimPrefix(req.URL.Path, "/bindings/")
		},
	}
}

func TestDiagnostics_Health(t *testing.T) {
	c := newController(t)
	rr := httptest.NewRecorder()
	c.Health(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"data":{"status":"ok"}}`, rr.Body.String())
}

func TestDiagnostics_Index(t *testing.T) {
	c := newController(t)
	rr := httptest.NewRecorder()
	c.Index(rr, httptest.NewRequest(http.MethodGet, "/bindings", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	data, ok := decodeJSON(t, rr)["data"].([]any)
	require.True(t, ok)
	require.Len(t, data, 2)

	first := data[0].(map[string]any)
	assert.Equal(t, "Clock", first["name"])
	assert.Equal(t, "instantiated", first["state"])
	assert.Equal(t, container.KeyOf[Clock]().String(), first["interface"])

	second := data[1].(map[string]any)
	assert.Equal(t, "Store", second["name"])
	assert.Equal(t, "bound", second["state"])
}

func TestDiagnostics_Show(t *testing.T) {
	c := newController(t)

	rr := httptest.NewRecorder()
	c.Show(rr, httptest.NewRequest(http.MethodGet, "/bindings/Store", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	data := decodeJSON(t, rr)["data"].(map[string]any)
	assert.Equal(t, "bound", data["state"])

	rr = httptest.NewRecorder()
	c.Show(rr, httptest.NewRequest(http.MethodGet, "/bindings/Metrics", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "no binding registered for [Metrics]", decodeJSON(t, rr)["message"])
}
