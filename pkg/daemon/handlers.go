package daemon

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mmcpwr/pwrseq/pkg/config"
	"github.com/mmcpwr/pwrseq/pkg/events"
	"github.com/mmcpwr/pwrseq/pkg/version"
)

// deviceFor resolves the :device path parameter, aborting with 404 for
// unknown names.
func deviceFor(c *gin.Context) *device {
	name := c.Param("device")
	d, ok := devices[name]
	if !ok {
		c.String(http.StatusNotFound, "unknown device %q", name)
		c.Abort()
		return nil
	}
	return d
}

func getDevices(c *gin.Context) {
	names := make([]string, 0, len(devices))
	for name := range devices {
		names = append(names, name)
	}
	sort.Strings(names)

	c.IndentedJSON(http.StatusOK, names)
}

// The power-state and vref endpoints speak raw text, mirroring the
// control-file semantics they stand in for: reads return the bare
// value, writes consume operator tokens and silently ignore anything
// unrecognized.

func getPowerState(c *gin.Context) {
	d := deviceFor(c)
	if d == nil {
		return
	}

	d.mu.Lock()
	state := d.seq.PowerState()
	d.mu.Unlock()

	c.String(http.StatusOK, state)
}

func setPowerState(c *gin.Context) {
	d := deviceFor(c)
	if d == nil {
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	d.mu.Lock()
	before := d.seq.PowerState()
	d.seq.ApplyPowerState(string(body))
	after := d.seq.PowerState()
	d.mu.Unlock()

	if after != before {
		logrus.Infof("device %s manually forced %s", d.name, after)
		hub.Publish("power-state", events.Transition{Device: d.name, State: after})
	}

	c.String(http.StatusOK, after)
}

func getVref(c *gin.Context) {
	d := deviceFor(c)
	if d == nil {
		return
	}

	d.mu.Lock()
	uv, ok := d.seq.Microvolts()
	d.mu.Unlock()

	if !ok {
		c.String(http.StatusOK, "na")
		return
	}

	c.String(http.StatusOK, strconv.Itoa(uv))
}

func setVref(c *gin.Context) {
	d := deviceFor(c)
	if d == nil {
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		_ = c.AbortWithError(http.StatusBadRequest, err)
		return
	}

	d.mu.Lock()
	d.seq.ApplyMicrovolts(string(body))
	d.mu.Unlock()

	c.String(http.StatusOK, "ok")
}

func getConfig(c *gin.Context) {
	fc, err := config.NewRawFileConfigFromConfig(conf)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	c.IndentedJSON(http.StatusOK, fc)
}

func getEvents(c *gin.Context) {
	ch := hub.Subscribe()
	defer hub.Unsubscribe(ch)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Stream(func(_ io.Writer) bool {
		select {
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(ev.Name, ev.Data)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func getVersion(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, fmt.Sprintf("%s (%s)", version.Version, version.GitCommit))
}
