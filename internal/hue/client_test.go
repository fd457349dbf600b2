package hue

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// Helper to create a bool pointer
func boolPtr(b bool) *bool {
	return &b
}

// Helper to create a uint8 pointer
func uint8Ptr(v uint8) *uint8 {
	return &v
}

type recordedRequest struct {
	Method string
	Path   string
	Body   string
}

// fakeBridge serves canned responses keyed by "METHOD path" and records
// every request it receives.
type fakeBridge struct {
	t         *testing.T
	responses map[string]fakeResponse
	requests  []recordedRequest
}

type fakeResponse struct {
	status int
	body   string
}

func newFakeBridge(t *testing.T) (*fakeBridge, *Client) {
	t.Helper()
	fb := &fakeBridge{t: t, responses: make(map[string]fakeResponse)}
	srv := httptest.NewServer(fb)
	t.Cleanup(srv.Close)
	return fb, NewClient(srv.URL, "secret", ClientConfig{Timeout: 2 * time.Second})
}

func (f *fakeBridge) on(method, path string, status int, body string) {
	f.responses[method+" "+path] = fakeResponse{status: status, body: body}
}

func (f *fakeBridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	path := r.URL.EscapedPath()
	f.requests = append(f.requests, recordedRequest{Method: r.Method, Path: path, Body: string(body)})

	resp, ok := f.responses[r.Method+" "+path]
	if !ok {
		f.t.Errorf("unexpected request %s %s", r.Method, path)
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.status)
	_, _ = w.Write([]byte(resp.body))
}

const lightsBody = `{
	"2": {"name": "Desk", "type": "Extended color light", "modelid": "LCT015",
	      "state": {"on": true, "bri": 200, "xy": [0.3, 0.3], "colormode": "xy", "reachable": true}},
	"10": {"name": "Hall", "type": "Color temperature light", "modelid": "LTW001",
	       "state": {"on": false, "bri": 1, "ct": 366, "colormode": "ct", "reachable": false}},
	"1": {"name": "Lamp", "type": "Dimmable light", "modelid": "LWB010",
	      "state": {"on": true, "bri": 254, "reachable": true}}
}`

func TestGetLights(t *testing.T) {
	fb, client := newFakeBridge(t)
	fb.on(http.MethodGet, "/api/secret/lights", http.StatusOK, lightsBody)

	lights, err := client.GetLights(context.Background())
	require.NoError(t, err)
	require.Len(t, lights, 3)

	assert.Equal(t, []string{"1", "2", "10"}, []string{lights[0].ID, lights[1].ID, lights[2].ID})
	assert.Equal(t, "Desk", lights[1].Name)
	assert.Equal(t, "Extended color light", lights[1].Type)

	state := lights[1].CurrentState()
	assert.True(t, state.On)
	assert.Equal(t, uint8(200), state.Bri)
	assert.Equal(t, "xy", state.ColorMode)
	assert.True(t, state.Reachable)

	hall := lights[2].CurrentState()
	assert.Equal(t, uint16(366), hall.Ct)
	assert.False(t, hall.Reachable)
}

func TestGetLight(t *testing.T) {
	fb, client := newFakeBridge(t)
	fb.on(http.MethodGet, "/api/secret/lights/2", http.StatusOK,
		`{"name": "Desk", "type": "Extended color light", "state": {"on": true, "bri": 42, "reachable": true}}`)

	light, err := client.GetLight(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, "2", light.ID)
	assert.Equal(t, "Desk", light.Name)
	assert.Equal(t, uint8(42), light.CurrentState().Bri)
}

func TestGetLight_ErrorList(t *testing.T) {
	fb, client := newFakeBridge(t)
	fb.on(http.MethodGet, "/api/secret/lights/99", http.StatusOK,
		`[{"error": {"type": 3, "address": "/lights/99", "description": "resource, /lights/99, not available"}}]`)

	_, err := client.GetLight(context.Background(), "99")
	require.Error(t, err)

	var mutErr *MutationError
	require.True(t, errors.As(err, &mutErr))
	assert.Contains(t, err.Error(), "resource, /lights/99, not available")
}

func TestSetLightState(t *testing.T) {
	fb, client := newFakeBridge(t)
	fb.on(http.MethodPut, "/api/secret/lights/3/state", http.StatusOK,
		`[{"success": {"/lights/3/state/on": false}}, {"success": {"/lights/3/state/bri": 0}}]`)

	err := client.SetLightState(context.Background(), "3", StateUpdate{On: boolPtr(false), Bri: uint8Ptr(0)})
	require.NoError(t, err)

	require.Len(t, fb.requests, 1)
	assert.Equal(t, http.MethodPut, fb.requests[0].Method)
	assert.JSONEq(t, `{"on": false, "bri": 0}`, fb.requests[0].Body)
}

func TestSetLightState_OmitsUnsetFields(t *testing.T) {
	fb, client := newFakeBridge(t)
	fb.on(http.MethodPut, "/api/secret/lights/3/state", http.StatusOK, `[]`)

	err := client.SetLightState(context.Background(), "3", StateUpdate{Xy: []float32{0.64, 0.33}, On: boolPtr(true)})
	require.NoError(t, err)

	var sent map[string]any
	require.NoError(t, json.Unmarshal([]byte(fb.requests[0].Body), &sent))
	assert.Contains(t, sent, "xy")
	assert.Contains(t, sent, "on")
	assert.NotContains(t, sent, "bri")
	assert.NotContains(t, sent, "ct")
}

func TestSetLightState_PartialFailure(t *testing.T) {
	fb, client := newFakeBridge(t)
	fb.on(http.MethodPut, "/api/secret/lights/3/state", http.StatusOK, `[
		{"success": {"/lights/3/state/on": true}},
		{"error": {"type": 201, "address": "/lights/3/state/bri", "description": "parameter, bri, is not modifiable. Device is set to off."}},
		{"error": {"type": 7, "address": "/lights/3/state/xy", "description": "invalid value, xy, for parameter, xy"}}
	]`)

	err := client.SetLightState(context.Background(), "3", StateUpdate{On: boolPtr(true), Bri: uint8Ptr(10)})
	require.Error(t, err)

	var mutErr *MutationError
	require.True(t, errors.As(err, &mutErr))
	require.Len(t, mutErr.Failures, 2)
	assert.Equal(t, 201, mutErr.Failures[0].Type)
	assert.Equal(t, "/lights/3/state/xy", mutErr.Failures[1].Address)
	assert.Contains(t, err.Error(), "bri, is not modifiable")
	assert.Contains(t, err.Error(), "invalid value, xy")
}

func TestSetLightState_EscapesLightID(t *testing.T) {
	tests := []struct {
		id   string
		path string
	}{
		{id: "1?", path: "/api/secret/lights/1%3F/state"},
		{id: "1#x", path: "/api/secret/lights/1%23x/state"},
		{id: "../groups/0", path: "/api/secret/lights/..%2Fgroups%2F0/state"},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			fb, client := newFakeBridge(t)
			fb.on(http.MethodPut, tt.path, http.StatusOK, `[]`)

			require.NoError(t, client.SetLightState(context.Background(), tt.id, StateUpdate{On: boolPtr(true)}))
			require.Len(t, fb.requests, 1)
			assert.Equal(t, tt.path, fb.requests[0].Path)
		})
	}
}

func TestGetLight_EscapesLightID(t *testing.T) {
	fb, client := newFakeBridge(t)
	fb.on(http.MethodGet, "/api/secret/lights/1%3Fx", http.StatusOK, `{"name": "Odd", "state": {"on": false}}`)

	light, err := client.GetLight(context.Background(), "1?x")
	require.NoError(t, err)
	assert.Equal(t, "1?x", light.ID)
	assert.Equal(t, "/api/secret/lights/1%3Fx", fb.requests[0].Path)
}

func TestSetGroupAction(t *testing.T) {
	fb, client := newFakeBridge(t)
	fb.on(http.MethodPut, "/api/secret/groups/0/action", http.StatusOK,
		`[{"success": {"/groups/0/action/on": true}}]`)

	err := client.SetGroupAction(context.Background(), AllLightsGroup, StateUpdate{On: boolPtr(true)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"on": true}`, fb.requests[0].Body)
}

func TestSetGroupAction_PartialFailure(t *testing.T) {
	fb, client := newFakeBridge(t)
	fb.on(http.MethodPut, "/api/secret/groups/0/action", http.StatusOK,
		`[{"error": {"type": 1, "address": "/groups/0/action", "description": "unauthorized user"}}]`)

	err := client.SetGroupAction(context.Background(), AllLightsGroup, StateUpdate{On: boolPtr(true)})
	var mutErr *MutationError
	require.True(t, errors.As(err, &mutErr))
	assert.Contains(t, err.Error(), "unauthorized user")
}

func TestStatusError(t *testing.T) {
	fb, client := newFakeBridge(t)
	fb.on(http.MethodPut, "/api/secret/lights/1/state", http.StatusServiceUnavailable, `bridge busy`)

	err := client.SetLightState(context.Background(), "1", StateUpdate{On: boolPtr(true)})
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	assert.Equal(t, "bridge busy", statusErr.Body)
	assert.Contains(t, err.Error(), "failed to set light state")
}

func TestUndecodableAcknowledgement(t *testing.T) {
	fb, client := newFakeBridge(t)
	fb.on(http.MethodPut, "/api/secret/lights/1/state", http.StatusOK, `<html>not json</html>`)

	err := client.SetLightState(context.Background(), "1", StateUpdate{On: boolPtr(true)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode acknowledgements")
}

func TestConnect(t *testing.T) {
	fb, client := newFakeBridge(t)
	fb.on(http.MethodGet, "/api/secret/capabilities", http.StatusOK, `{"lights": {"available": 50}}`)
	require.NoError(t, client.Connect(context.Background()))

	fb.on(http.MethodGet, "/api/secret/capabilities", http.StatusOK,
		`[{"error": {"type": 1, "address": "/", "description": "unauthorized user"}}]`)
	err := client.Connect(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unauthorized user")
}

func TestNetworkError(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "secret", ClientConfig{Timeout: time.Second})

	_, err := client.GetLights(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get lights")
}

func TestNewClient_AddressForms(t *testing.T) {
	assert.Equal(t, "http://192.168.1.2/api/tok/lights", NewClient("192.168.1.2", "tok", ClientConfig{}).v1URL("lights"))
	assert.Equal(t, "https://bridge.local/api/tok/lights", NewClient("https://bridge.local/", "tok", ClientConfig{}).v1URL("lights"))
}

func TestNewLimiter(t *testing.T) {
	assert.Equal(t, rate.Inf, newLimiter(0).Limit())
	assert.Equal(t, rate.Inf, newLimiter(-1).Limit())

	limited := newLimiter(0.5)
	assert.Equal(t, rate.Limit(0.5), limited.Limit())
	assert.Equal(t, 1, limited.Burst())
	assert.Equal(t, 10, newLimiter(10).Burst())
}
