package daemon

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcpwr/pwrseq/pkg/config"
	"github.com/mmcpwr/pwrseq/pkg/events"
)

func setupTestDaemon(t *testing.T, devs []config.Device) *gin.Engine {
	t.Helper()

	var err error
	devices, err = buildDevices(devs)
	require.NoError(t, err)
	conf = config.NewFileFromConfig(&config.RawFileConfig{DeviceList: devs}, "")
	hub = events.NewHub()

	return setupRoutes()
}

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	router.ServeHTTP(w, req)
	return w
}

func mockDevice(name string) config.Device {
	return config.Device{
		Name:       name,
		Clock:      &config.ClockConf{Backend: "mock"},
		ResetLines: &config.LinesConf{Backend: "mock", Count: 2},
		Vref:       &config.VrefConf{Backend: "mock", Microvolts: 3300000},
	}
}

func TestPowerStateEndpoints(t *testing.T) {
	router := setupTestDaemon(t, []config.Device{mockDevice("mmc0")})

	w := doRequest(router, "GET", "/devices/mmc0/power-state", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "off", w.Body.String())

	w = doRequest(router, "PUT", "/devices/mmc0/power-state", "on")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "on", w.Body.String())

	w = doRequest(router, "GET", "/devices/mmc0/power-state", "")
	assert.Equal(t, "on", w.Body.String())

	// Unrecognized tokens are consumed successfully and change nothing.
	w = doRequest(router, "PUT", "/devices/mmc0/power-state", "standby")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "on", w.Body.String())

	w = doRequest(router, "PUT", "/devices/mmc0/power-state", "0")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "off", w.Body.String())
}

func TestPowerStateWritePublishesTransition(t *testing.T) {
	router := setupTestDaemon(t, []config.Device{mockDevice("mmc0")})

	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	doRequest(router, "PUT", "/devices/mmc0/power-state", "on")

	select {
	case ev := <-ch:
		assert.Equal(t, "power-state", ev.Name)
		assert.JSONEq(t, `{"device":"mmc0","state":"on"}`, string(ev.Data))
	default:
		t.Fatal("expected a transition event")
	}

	// A write that does not change state publishes nothing.
	doRequest(router, "PUT", "/devices/mmc0/power-state", "on")
	select {
	case ev := <-ch:
		t.Fatalf("unexpected event %q", ev.Name)
	default:
	}
}

func TestVrefEndpoints(t *testing.T) {
	router := setupTestDaemon(t, []config.Device{mockDevice("mmc0")})

	w := doRequest(router, "GET", "/devices/mmc0/vref-uv", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "3300000", w.Body.String())

	w = doRequest(router, "PUT", "/devices/mmc0/vref-uv", "3100000")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, "GET", "/devices/mmc0/vref-uv", "")
	assert.Equal(t, "3100000", w.Body.String())

	// Malformed writes are accepted but ignored.
	w = doRequest(router, "PUT", "/devices/mmc0/vref-uv", "three volts")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, "GET", "/devices/mmc0/vref-uv", "")
	assert.Equal(t, "3100000", w.Body.String())
}

func TestVrefWithoutRegulatorReportsNA(t *testing.T) {
	router := setupTestDaemon(t, []config.Device{{Name: "mmc0"}})

	w := doRequest(router, "GET", "/devices/mmc0/vref-uv", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "na", w.Body.String())

	// Still "na" regardless of prior writes.
	doRequest(router, "PUT", "/devices/mmc0/vref-uv", "3300000")
	w = doRequest(router, "GET", "/devices/mmc0/vref-uv", "")
	assert.Equal(t, "na", w.Body.String())
}

func TestUnknownDeviceIs404(t *testing.T) {
	router := setupTestDaemon(t, []config.Device{mockDevice("mmc0")})

	w := doRequest(router, "GET", "/devices/sd9/power-state", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(router, "PUT", "/devices/sd9/power-state", "on")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetDevicesIsSorted(t *testing.T) {
	router := setupTestDaemon(t, []config.Device{
		mockDevice("mmc1"),
		mockDevice("mmc0"),
	})

	w := doRequest(router, "GET", "/devices", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["mmc0", "mmc1"]`, w.Body.String())
}
