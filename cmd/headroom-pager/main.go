// Command headroom-pager shows a document in the terminal with a title bar
// that slides away while reading down and returns when scrolling up.
// Transitions are published to MQTT or NATS and exposed over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"

	"github.com/sweeney/headroom-pager/internal/config"
	"github.com/sweeney/headroom-pager/internal/gpio"
	"github.com/sweeney/headroom-pager/internal/headroom"
	"github.com/sweeney/headroom-pager/internal/logic"
	"github.com/sweeney/headroom-pager/internal/metrics"
	"github.com/sweeney/headroom-pager/internal/mqtt"
	"github.com/sweeney/headroom-pager/internal/natsbus"
	"github.com/sweeney/headroom-pager/internal/pager"
	"github.com/sweeney/headroom-pager/internal/payload"
	"github.com/sweeney/headroom-pager/internal/status"
	"github.com/sweeney/headroom-pager/internal/web"
)

// overrides holds command-line values that win over the config file.
type overrides struct {
	footer       *bool
	alwaysPinned *bool
	httpAddr     *string
	sink         *string
}

func main() {
	configPath := flag.String("config", "", "YAML config file (defaults apply when empty)")
	footer := flag.Bool("footer", false, "Treat the bar as a footer")
	alwaysPinned := flag.Bool("always-pinned", false, "Never hide the bar on downward scroll")
	httpAddr := flag.String("http", "", `HTTP status address ("off" disables)`)
	sink := flag.String("sink", "", "Event sink: mqtt, nats or none")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [file|-]\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
	var o overrides
	if set["footer"] {
		o.footer = footer
	}
	if set["always-pinned"] {
		o.alwaysPinned = alwaysPinned
	}
	if set["http"] {
		o.httpAddr = httpAddr
	}
	if set["sink"] {
		o.sink = sink
	}
	if err := applyOverrides(cfg, o); err != nil {
		log.Fatalf("fatal: %v", err)
	}

	doc := "-"
	if flag.NArg() > 0 {
		doc = flag.Arg(0)
	}

	if err := run(cfg, doc); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// applyOverrides copies set flags into cfg and validates the result.
func applyOverrides(cfg *config.Config, o overrides) error {
	if o.footer != nil {
		cfg.Headroom.Footer = *o.footer
	}
	if o.alwaysPinned != nil {
		cfg.Headroom.AlwaysPinned = *o.alwaysPinned
	}
	if o.httpAddr != nil {
		cfg.HTTP.Addr = resolveHTTPAddr(*o.httpAddr)
	}
	if o.sink != nil {
		cfg.Events.Sink = *o.sink
	}
	return cfg.Validate()
}

// resolveHTTPAddr maps "off" to the empty address, which disables the server.
func resolveHTTPAddr(addr string) string {
	if addr == "off" {
		return ""
	}
	return addr
}

func run(cfg *config.Config, doc string) error {
	logger, logFile, err := newLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer logFile.Close()
	slog.SetDefault(logger)

	lines, err := pager.ReadFile(doc)
	if err != nil {
		return err
	}

	session := uuid.NewString()
	sink, conn, err := newSink(cfg, session, logger)
	if err != nil {
		return fmt.Errorf("init %s sink: %w", cfg.Events.Sink, err)
	}
	defer sink.Close()

	// Tracker exists before STARTUP so the payload carries a full snapshot.
	tracker := status.NewTracker(time.Now(), session, status.Config{
		UpTolerance:   cfg.Headroom.UpTolerance,
		DownTolerance: cfg.Headroom.DownTolerance,
		PinStart:      cfg.Headroom.PinStart,
		AlwaysPinned:  cfg.Headroom.AlwaysPinned,
		Footer:        cfg.Headroom.Footer,
		FrameMs:       int64(cfg.Pager.FrameMs),
		Sink:          cfg.Events.Sink,
		Broker:        cfg.BrokerURL(),
		HTTPAddr:      cfg.HTTP.Addr,
		Document:      doc,
	})
	tracker.Update(logic.InitialState(cfg.Headroom.Footer), 0, logic.TransitionCounts{}, cfg.Headroom.Disable)
	m := metrics.New()
	m.SetState(logic.InitialState(cfg.Headroom.Footer))

	a := &app{sink: sink, conn: conn, tracker: tracker, metrics: m, logger: logger, now: time.Now}
	a.publishSystem("STARTUP", "")

	if cfg.HTTP.Addr != "" {
		srv := web.New(cfg.HTTP.Addr, tracker, m.Handler())
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("http server error", "error", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		logger.Info("http status server listening", "addr", cfg.HTTP.Addr)
	}

	var buttons gpio.Reader
	if cfg.GPIO.Enabled {
		r, err := gpio.NewRealReader(cfg.GPIO.Chip, cfg.GPIO.PinUp, cfg.GPIO.PinDown)
		if err != nil {
			logger.Warn("scroll buttons unavailable", "error", err)
		} else {
			defer r.Close()
			buttons = r
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()

	title := cfg.Pager.Title
	if title == "" {
		title = documentTitle(doc)
	}
	p, err := pager.New(screen, lines, headroom.Options{
		Config:       cfg.Decision(),
		Disabled:     cfg.Headroom.Disable,
		Hooks:        a.hooks(),
		OnTransition: a.onTransition,
		OnSample:     m.ObserveSample,
	}, pager.Options{
		Title:      title,
		ScrollStep: cfg.Pager.ScrollStep,
		Frame:      cfg.Frame(),
		Buttons:    buttons,
		ButtonPoll: cfg.ButtonPoll(),
		OnFrame:    a.onFrame,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	logger.Info("started",
		"session", session,
		"document", doc,
		"lines", len(lines),
		"sink", cfg.Events.Sink,
		"footer", cfg.Headroom.Footer,
		"always_pinned", cfg.Headroom.AlwaysPinned,
		"heartbeat", cfg.Heartbeat())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	reason := make(chan string, 1)
	go func() {
		select {
		case s := <-sigCh:
			logger.Info("received signal, shutting down", "signal", s)
			reason <- signalName(s)
			cancel()
		case <-ctx.Done():
		}
	}()

	if hb := cfg.Heartbeat(); hb > 0 {
		ticker := time.NewTicker(hb)
		defer ticker.Stop()
		go a.runHeartbeat(ctx, ticker.C)
	}

	runErr := p.Run(ctx)
	cancel()

	why := "QUIT"
	select {
	case r := <-reason:
		why = r
	default:
	}
	a.publishSystem("SHUTDOWN", why)

	if runErr != nil {
		return fmt.Errorf("pager: %w", runErr)
	}
	return nil
}

// newLogger opens the log file and builds the configured handler. The
// terminal belongs to the pager, so nothing is written to stdout or stderr.
func newLogger(cfg config.LoggingConfig) (*slog.Logger, io.Closer, error) {
	var out io.Writer = io.Discard
	var closer io.Closer = io.NopCloser(nil)
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out, closer = f, f
	}
	log.SetOutput(out)

	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	var h slog.Handler
	if cfg.Format == "text" {
		h = slog.NewTextHandler(out, opts)
	} else {
		h = slog.NewJSONHandler(out, opts)
	}
	return slog.New(h), closer, nil
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func documentTitle(doc string) string {
	if doc == "-" {
		return "stdin"
	}
	if i := strings.LastIndexByte(doc, '/'); i >= 0 {
		return doc[i+1:]
	}
	return doc
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	default:
		return "UNKNOWN"
	}
}

// eventSink is the method set shared by the MQTT and NATS publishers.
type eventSink interface {
	Publish(logic.Event) error
	PublishSystem(payload.SystemEvent) error
	Close() error
}

// newSink connects the configured transport. The connection status is nil
// when there is nothing to connect to.
func newSink(cfg *config.Config, session string, logger *slog.Logger) (eventSink, mqtt.ConnectionStatus, error) {
	switch cfg.Events.Sink {
	case config.SinkMQTT:
		p, err := mqtt.NewRealPublisher(cfg.Events.Broker, session)
		if err != nil {
			return nil, nil, err
		}
		return p, p, nil
	case config.SinkNATS:
		p, err := natsbus.Connect(cfg.Events.NATSURL, session, logger)
		if err != nil {
			return nil, nil, err
		}
		return p, p, nil
	default:
		return discardSink{}, nil, nil
	}
}

// discardSink drops everything; used when events.sink is none.
type discardSink struct{}

func (discardSink) Publish(logic.Event) error               { return nil }
func (discardSink) PublishSystem(payload.SystemEvent) error { return nil }
func (discardSink) Close() error                            { return nil }
