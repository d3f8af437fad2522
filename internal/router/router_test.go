package router

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"minibar/internal/catalog"
	"minibar/internal/handler"
	"minibar/internal/model"
	"minibar/internal/service"
	"minibar/internal/session"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-api-key"

func newTestServer(t *testing.T) (*httptest.Server, *catalog.Catalog) {
	t.Helper()
	logger := zerolog.Nop()

	c, err := catalog.New(catalog.Default())
	require.NoError(t, err)

	registry := session.NewRegistry(c.Products(), logger)
	registry.SetClock(func() time.Time { return time.Date(2025, 9, 3, 10, 7, 0, 0, time.UTC) })

	h := Handlers{
		Session:  handler.NewSessionHandler(service.NewSessionService(registry, logger), logger),
		Product:  handler.NewProductHandler(service.NewProductService(c, logger), logger),
		Order:    handler.NewOrderHandler(service.NewOrderService(registry, c, logger), logger),
		Schedule: handler.NewScheduleHandler(service.NewScheduleService(registry, logger), logger),
	}
	signedIn := func(room string) bool { return registry.Get(room) != nil }

	srv := httptest.NewServer(New(h, signedIn, testAPIKey, logger))
	t.Cleanup(srv.Close)
	return srv, c
}

func do(t *testing.T, srv *httptest.Server, method, path, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("X-API-Key", testAPIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestRouter_Health(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_RequiresAPIKey(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/products")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRouter_RoomRoutesRequireLogin(t *testing.T) {
	srv, _ := newTestServer(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/rooms/0808/orders"},
		{http.MethodGet, "/api/rooms/0808/schedule"},
		{http.MethodPost, "/api/rooms/0808/schedule/save"},
	}

	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			resp := do(t, srv, p.method, p.path, "")
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestRouter_Login(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := do(t, srv, http.MethodPost, "/api/login", `{"room":"08a8"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, srv, http.MethodPost, "/api/login", `{"room":"0808"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "0808", decode[model.LoginResponse](t, resp).Room)
}

func TestRouter_OrderFlow(t *testing.T) {
	srv, c := newTestServer(t)
	var coke model.Product
	for _, p := range c.Products() {
		if p.Name == "Coke" {
			coke = p
		}
	}

	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/api/login", `{"room":"0808"}`).StatusCode)

	add := `{"productId":"` + coke.ID.String() + `","quantity":1}`
	resp := do(t, srv, http.MethodPost, "/api/rooms/0808/orders", add)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = do(t, srv, http.MethodPost, "/api/rooms/0808/orders", add)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	line := decode[model.OrderLine](t, resp)
	assert.Equal(t, 2, line.Quantity)

	resp = do(t, srv, http.MethodPut, "/api/rooms/0808/orders/"+line.ID.String(), `{"quantity":5}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 5, decode[model.OrderLine](t, resp).Quantity)

	resp = do(t, srv, http.MethodPut, "/api/rooms/0808/orders/"+line.ID.String(), `{"quantity":21}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/api/rooms/0808/orders", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	history := decode[model.OrderHistory](t, resp)
	require.Len(t, history.Lines, 1)
	assert.Equal(t, "25", history.Total.String())

	resp = do(t, srv, http.MethodDelete, "/api/rooms/0808/orders/"+line.ID.String(), "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, srv, http.MethodGet, "/api/rooms/0808/orders", "")
	assert.Empty(t, decode[model.OrderHistory](t, resp).Lines)
}

func TestRouter_ScheduleFlow(t *testing.T) {
	srv, _ := newTestServer(t)
	require.Equal(t, http.StatusOK, do(t, srv, http.MethodPost, "/api/login", `{"room":"0808"}`).StatusCode)

	resp := do(t, srv, http.MethodGet, "/api/rooms/0808/schedule", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	state := decode[model.ScheduleState](t, resp)
	assert.Equal(t, model.ScheduleModeEditing, state.Mode)

	resp = do(t, srv, http.MethodPut, "/api/rooms/0808/schedule/draft",
		`{"start":"2025-09-03T14:00:00Z","end":"2025-09-03T14:29:00Z"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, srv, http.MethodPost, "/api/rooms/0808/schedule/save", "")
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "time slot must be at least 30 minutes", decode[model.ScheduleState](t, resp).Error)

	resp = do(t, srv, http.MethodPut, "/api/rooms/0808/schedule/draft",
		`{"start":"2025-09-03T14:00:00Z","end":"2025-09-03T16:00:00Z"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, srv, http.MethodPost, "/api/rooms/0808/schedule/save", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	state = decode[model.ScheduleState](t, resp)
	assert.Equal(t, model.ScheduleModeViewing, state.Mode)
	require.NotNil(t, state.Scheduled)
	assert.Empty(t, state.Error)

	resp = do(t, srv, http.MethodPost, "/api/rooms/0808/schedule/edit", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, model.ScheduleModeEditing, decode[model.ScheduleState](t, resp).Mode)

	resp = do(t, srv, http.MethodPost, "/api/rooms/0808/schedule/load", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, model.ScheduleModeViewing, decode[model.ScheduleState](t, resp).Mode)

	resp = do(t, srv, http.MethodDelete, "/api/rooms/0808/schedule", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	state = decode[model.ScheduleState](t, resp)
	assert.Equal(t, model.ScheduleModeEditing, state.Mode)
	assert.Nil(t, state.Scheduled)
}
