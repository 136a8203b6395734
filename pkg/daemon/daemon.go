package daemon

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mmcpwr/pwrseq/pkg/config"
	"github.com/mmcpwr/pwrseq/pkg/events"
)

var (
	devices map[string]*device
	conf    config.Config
	hub     *events.Hub
)

func setupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ginLogger(logrus.StandardLogger()))
	router.GET("/devices", getDevices)
	router.GET("/devices/:device/power-state", getPowerState)
	router.PUT("/devices/:device/power-state", setPowerState)
	router.GET("/devices/:device/vref-uv", getVref)
	router.PUT("/devices/:device/vref-uv", setVref)
	router.GET("/config", getConfig)
	router.GET("/events", getEvents)
	router.GET("/version", getVersion)

	return router
}

func Run(configPath string, unixSocketPath string, allowNonRoot bool) error {
	router := setupRoutes()

	var err error
	conf, err = config.NewFile(configPath)
	if err != nil {
		logrus.Fatalf("failed to parse config during startup: %v", err)
	}
	logrus.WithFields(conf.(*config.File).LogrusFields()).Infof("config loaded")

	hub = events.NewHub()

	devices, err = buildDevices(conf.Devices())
	if err != nil {
		// A configured resource that fails to open means the device must
		// not exist at all, so the daemon refuses to start.
		return err
	}
	logrus.Infof("managing %d device(s)", len(devices))

	// Receive SIGHUP to reload config. Resource topology and delays are
	// fixed at construction; a reload only takes effect on restart, but
	// re-reading here surfaces syntax errors early.
	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGHUP)
		for range sigc {
			err := conf.Load()
			if err != nil {
				logrus.Errorf("failed to reload config: %v", err)
				continue
			}
			logrus.Infof("config reloaded; device changes apply after restart")
		}
	}()

	srv := &http.Server{
		Handler: router,
	}

	// Create the socket to listen on:
	l, err := net.Listen("unix", unixSocketPath)
	if err != nil {
		logrus.Fatal(err)
	}

	if conf.AllowNonRootAccess() || allowNonRoot {
		logrus.Infof("non-root access is allowed, changing permissions of %s to 0777", unixSocketPath)
		err = os.Chmod(unixSocketPath, 0777)
		if err != nil {
			logrus.Fatal(err)
		}
	}

	// Serve HTTP on unix socket
	go func() {
		logrus.Infof("http server listening on %s", l.Addr().String())
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatal(err)
		}
	}()

	// Handle common process-killing signals, so we can gracefully shut down:
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	// Wait for a SIGINT or SIGTERM:
	sig := <-sigc
	logrus.Infof("caught signal \"%s\": shutting down.", sig)

	logrus.Info("shutting down http server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = srv.Shutdown(ctx)
	if err != nil {
		logrus.Errorf("failed to shutdown http server: %v", err)
	}
	cancel()

	// Leave every card in a safe state: reset asserted, clock gated off.
	for _, d := range devices {
		d.mu.Lock()
		d.seq.PowerOff()
		d.mu.Unlock()
		d.handles.Close()
		logrus.Infof("powered off device %s", d.name)
	}

	logrus.Info("exiting")
	return nil
}
