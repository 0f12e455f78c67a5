package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/go-pkgz/lgr"
	R "github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/umputun/go-flags"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/arcticfox1919/gio/mock"
)

var opts struct {
	Listen  string `short:"l" long:"listen" env:"LISTEN" default:"127.0.0.1:8080" description:"listen on host:port"`
	Routes  string `short:"f" long:"routes" env:"ROUTES" default:"routes.yml" description:"routes definition file"`
	MaxSize int64  `long:"max" env:"MAX_SIZE" default:"64000" description:"max request size"`
	Gzip    bool   `long:"gzip" env:"GZIP" description:"enable gz compression"`
	Metrics bool   `long:"metrics" env:"METRICS" description:"enable prometheus metrics on /metrics"`

	Throttle struct {
		Enabled bool `long:"enabled" env:"ENABLED" description:"enable request throttling"`
		Rate    int  `long:"rate" env:"RATE" default:"100" description:"requests per second"`
		Burst   int  `long:"burst" env:"BURST" default:"50" description:"burst size"`
	} `group:"throttle" namespace:"throttle" env-namespace:"THROTTLE"`

	AccessLog struct {
		Enabled    bool   `long:"enabled" env:"ENABLED" description:"enable access logging to file"`
		File       string `long:"file" env:"FILE" default:"access.log" description:"access log file"`
		MaxSize    int    `long:"max-size" env:"MAX_SIZE" default:"100" description:"max access log size, MB"`
		MaxBackups int    `long:"max-backups" env:"MAX_BACKUPS" default:"10" description:"max number of rotated files"`
	} `group:"logger" namespace:"logger" env-namespace:"LOGGER"`

	Dbg bool `long:"dbg" env:"DEBUG" description:"debug mode"`
}

var revision = "unknown"

func main() {
	fmt.Printf("gio-mock %s\n", revision)

	p := flags.NewParser(&opts, flags.PrintErrors|flags.PassDoubleDash|flags.HelpFlag)
	p.SubcommandsOptional = true
	if _, err := p.Parse(); err != nil {
		if err.(*flags.Error).Type != flags.ErrHelp {
			log.Printf("[ERROR] cli error: %v", err)
		}
		os.Exit(1)
	}

	setupLog(opts.Dbg)

	ctx, cancel := context.WithCancel(context.Background())
	go func() { // catch signal and cancel the server's context
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		log.Printf("[WARN] interrupt signal")
		cancel()
	}()

	if err := run(ctx); err != nil {
		log.Fatalf("[ERROR] gio-mock failed, %v", err)
	}
}

func run(ctx context.Context) error {
	router := mock.NewRouter()
	routes, err := loadRoutes(opts.Routes)
	if err != nil {
		return fmt.Errorf("can't load routes: %w", err)
	}
	if err = registerRoutes(router, routes); err != nil {
		return fmt.Errorf("can't register routes: %w", err)
	}
	log.Printf("[INFO] loaded %d routes from %s", len(routes), opts.Routes)

	handler := R.Wrap(rootHandler(mock.NewServer(router, log.Default()), opts.Metrics),
		R.Recoverer(log.Default()),
		R.AppInfo("gio-mock", "arcticfox1919", revision),
		R.Ping,
		stdoutLogHandler(opts.Dbg, logger.New(logger.Log(log.Default()), logger.Prefix("[INFO]")).Handler),
		accessLogHandler(),
		R.SizeLimit(opts.MaxSize),
		throttleHandler(opts.Throttle.Enabled, opts.Throttle.Rate, opts.Throttle.Burst),
		gzipHandler(opts.Gzip),
	)

	httpServer := &http.Server{
		Addr:              opts.Listen,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       30 * time.Second,
		ErrorLog:          log.ToStdLogger(log.Default(), "WARN"),
	}

	go func() {
		<-ctx.Done()
		if e := httpServer.Close(); e != nil {
			log.Printf("[ERROR] failed to close mock server, %v", e)
		}
	}()

	log.Printf("[INFO] activate mock server on %s", opts.Listen)
	if err = httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// rootHandler mounts the mock dispatcher at / and, optionally, prometheus
// metrics at /metrics.
func rootHandler(srv *mock.Server, metrics bool) http.Handler {
	if !metrics {
		return srv
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", srv)
	return mux
}

func accessLogHandler() func(next http.Handler) http.Handler {
	if !opts.AccessLog.Enabled {
		return passThroughHandler
	}
	log.Printf("[DEBUG] access log enabled for %s", opts.AccessLog.File)
	return makeAccessLogHandler(&lumberjack.Logger{
		Filename:   opts.AccessLog.File,
		MaxSize:    opts.AccessLog.MaxSize,
		MaxBackups: opts.AccessLog.MaxBackups,
		Compress:   true,
	})
}

func setupLog(dbg bool) {
	logOpts := []log.Option{log.Msec, log.LevelBraces, log.StackTraceOnError}
	if dbg {
		logOpts = []log.Option{log.Debug, log.CallerFile, log.CallerFunc, log.Msec, log.LevelBraces, log.StackTraceOnError}
	}
	log.SetupStdLogger(logOpts...)
}
