package cli

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/devtoolbox/jwtinspect"
	jwtgin "github.com/devtoolbox/jwtinspect/framework/gin"
)

// ServeCmd serves the decode endpoint
type ServeCmd struct {
	KeyFlags

	Listen          string        `help:"address to listen on" default:":8080" env:"JWTINSPECT_LISTEN"`
	Verify          bool          `help:"verify every token; implied by a key"`
	StrictKeyID     bool          `name:"strict-kid" help:"require the header kid to match the key even when only one key is given"`
	ShutdownTimeout time.Duration `help:"time allowed for in-flight requests on shutdown" default:"10s"`
}

// Run the command
func (a *ServeCmd) Run(ctx *Cli) error {
	handler, err := a.Handler(ctx, prometheus.NewRegistry())
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              a.Listen,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(ctx.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		ctx.Logger().Info("listening", "address", a.Listen)
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return errors.Wrap(err, "server failed")
	case <-sigCtx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.ShutdownTimeout)
	defer cancel()
	return errors.Wrap(server.Shutdown(shutdownCtx), "shutdown failed")
}

// Handler builds the HTTP routes:
//
//	POST /decode   decode the token in a JSON request
//	GET  /inspect  decode the bearer token of the request
//	GET  /metrics  prometheus metrics
//	GET  /healthz  liveness
func (a *ServeCmd) Handler(ctx *Cli, reg *prometheus.Registry) (http.Handler, error) {
	opts := []jwtinspect.Option{
		jwtinspect.WithLogger(ctx.Logger()),
		jwtinspect.WithMetrics(jwtinspect.NewPrometheusMetrics(reg)),
		jwtinspect.WithVerify(a.Verify),
		jwtinspect.WithStrictKeyID(a.StrictKeyID),
	}

	key, err := a.KeyFlags.Load(ctx)
	if err != nil {
		return nil, err
	}
	if key != nil {
		opts = append(opts, jwtinspect.WithKey(key))
	}

	inspector, err := jwtinspect.New(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create inspector")
	}

	reg.MustRegister(collectors.NewGoCollector())

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.POST("/decode", jwtgin.DecodeHandler(inspector))
	router.GET("/inspect", jwtgin.NewGinMiddleware(inspector), func(c *gin.Context) {
		decoded, err := jwtgin.GetDecoded(c, "")
		if err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, decoded)
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))
	router.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return router, nil
}
