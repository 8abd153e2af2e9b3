// Command mash-session runs a simulated device session behind a
// policy-aware adapter.
//
// Commands are read from a script file, from stdin, or interactively.
// Session events can be traced to a CBOR file for later inspection with
// mash-log.
//
// Usage:
//
//	mash-session [flags]
//
// Flags:
//
//	-policy string      Policy document (YAML); default policy if empty
//	-script string      Command script; "-" reads stdin
//	-interactive        Start the interactive console (default when no script)
//	-trace string       File path for session trace events (CBOR format)
//	-log-level string   Log level: debug, info, warn, error (default "info")
//	-device string      Simulated device ID (default "0")
//	-front              Simulate a front-facing device
//	-no-flash           Simulate a device without flash unit
//	-release-delay      Simulated release duration (default 50ms)
//
// Every flag can also be set through a MASH_SESSION_* environment variable
// (MASH_SESSION_POLICY, MASH_SESSION_TRACE, MASH_SESSION_RELEASE_DELAY, ...).
//
// Examples:
//
//	# Interactive session with a vendor policy
//	mash-session -policy night.yaml
//
//	# Scripted run with tracing
//	mash-session -script demo.txt -trace session.slog
//	mash-log view session.slog
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/mash-protocol/mash-session/cmd/mash-session/interactive"
	"github.com/mash-protocol/mash-session/internal/sim"
	"github.com/mash-protocol/mash-session/pkg/adapter"
	mashlog "github.com/mash-protocol/mash-session/pkg/log"
	"github.com/mash-protocol/mash-session/pkg/policy"
	"github.com/mash-protocol/mash-session/pkg/session"
)

// Config holds the command configuration.
//
// Values are read from the environment first; flags override them.
type Config struct {
	PolicyFile   string        `env:"MASH_SESSION_POLICY"`
	ScriptFile   string        `env:"MASH_SESSION_SCRIPT"`
	Interactive  bool          `env:"MASH_SESSION_INTERACTIVE"`
	TraceFile    string        `env:"MASH_SESSION_TRACE"`
	LogLevel     string        `env:"MASH_SESSION_LOG_LEVEL"     envDefault:"info"`
	DeviceID     string        `env:"MASH_SESSION_DEVICE"        envDefault:"0"`
	FrontFacing  bool          `env:"MASH_SESSION_FRONT"`
	NoFlash      bool          `env:"MASH_SESSION_NO_FLASH"`
	ReleaseDelay time.Duration `env:"MASH_SESSION_RELEASE_DELAY" envDefault:"50ms"`
}

var config Config

func init() {
	var err error
	config, err = loadEnv()
	if err != nil {
		log.Fatalf("Invalid environment: %v", err)
	}

	flag.StringVar(&config.PolicyFile, "policy", config.PolicyFile, "Policy document (YAML); default policy if empty")
	flag.StringVar(&config.ScriptFile, "script", config.ScriptFile, `Command script; "-" reads stdin`)
	flag.BoolVar(&config.Interactive, "interactive", config.Interactive, "Start the interactive console (default when no script)")
	flag.StringVar(&config.TraceFile, "trace", config.TraceFile, "File path for session trace events (CBOR format)")
	flag.StringVar(&config.LogLevel, "log-level", config.LogLevel, "Log level: debug, info, warn, error")
	flag.StringVar(&config.DeviceID, "device", config.DeviceID, "Simulated device ID")
	flag.BoolVar(&config.FrontFacing, "front", config.FrontFacing, "Simulate a front-facing device")
	flag.BoolVar(&config.NoFlash, "no-flash", config.NoFlash, "Simulate a device without flash unit")
	flag.DurationVar(&config.ReleaseDelay, "release-delay", config.ReleaseDelay, "Simulated release duration")
}

// loadEnv reads the MASH_SESSION_* variables.
func loadEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func main() {
	flag.Parse()
	log.SetFlags(log.Ltime)

	level, err := parseLevel(config.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		flag.Usage()
		os.Exit(1)
	}

	cfg, resolver, err := loadPolicy(config.PolicyFile)
	if err != nil {
		log.Fatalf("Failed to load policy: %v", err)
	}

	// Interactive mode routes logs through the console once it exists.
	logOutput := &switchWriter{w: os.Stderr}
	logger := slog.New(slog.NewTextHandler(logOutput, &slog.HandlerOptions{Level: level}))

	var traceLogger *mashlog.FileLogger
	if config.TraceFile != "" {
		traceLogger, err = mashlog.NewFileLogger(config.TraceFile)
		if err != nil {
			log.Fatalf("Failed to create trace logger: %v", err)
		}
		defer traceLogger.Close()
		log.Printf("Trace logging to: %s", config.TraceFile)
	}
	// Only set the trace when non-nil to avoid typed-nil interface issue.
	var trace mashlog.Logger
	if traceLogger != nil {
		trace = mashlog.NewMultiLogger(traceLogger, mashlog.NewSlogAdapter(logger))
	} else if level <= slog.LevelDebug {
		trace = mashlog.NewSlogAdapter(logger)
	}

	simCfg := sim.DefaultConfig()
	simCfg.DeviceID = config.DeviceID
	simCfg.HasFlash = !config.NoFlash
	simCfg.ReleaseDelay = config.ReleaseDelay
	simCfg.Logger = logger
	simCfg.Trace = trace
	if config.FrontFacing {
		simCfg.LensFacing = session.LensFacingFront
		simCfg.SensorRotation = 270
	}

	dev, err := sim.New(simCfg)
	if err != nil {
		log.Fatalf("Failed to create device: %v", err)
	}

	s, err := adapter.Wrap(dev, cfg, adapter.Options{
		Resolver: resolver,
		Logger:   logger,
		Trace:    trace,
		TraceID:  dev.ID(),
	})
	if err != nil {
		log.Fatalf("Failed to create adapter: %v", err)
	}

	logger.Info("session ready",
		"sessionID", dev.ID(),
		"deviceID", config.DeviceID,
		"policy", cfg.ID,
		"processor", cfg.ProcessorID)

	if config.ScriptFile != "" && !config.Interactive {
		if err := runScript(interactive.New(s, dev, os.Stdout), config.ScriptFile); err != nil {
			log.Fatalf("Script failed: %v", err)
		}
		shutdown(s)
		return
	}

	console, err := interactive.NewInteractive(s, dev)
	if err != nil {
		log.Fatalf("Failed to start console: %v", err)
	}
	logOutput.Set(console.Stderr())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	console.Run(ctx, cancel)
	logOutput.Set(os.Stderr)
	shutdown(s)
}

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level: %s", level)
	}
}

func loadPolicy(path string) (policy.Config, policy.Resolver, error) {
	if path == "" {
		return policy.Default(), nil, nil
	}
	doc, err := policy.LoadFile(path)
	if err != nil {
		return policy.Config{}, nil, err
	}
	reg, err := doc.Registry()
	if err != nil {
		return policy.Config{}, nil, err
	}
	return doc.Policy, reg, nil
}

func runScript(console *interactive.Console, path string) error {
	if path == "-" {
		return console.RunScript(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return console.RunScript(f)
}

// shutdown releases the device and waits for the release to finish.
func shutdown(s *adapter.Session) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Release().Wait(ctx); err != nil {
		log.Printf("Release failed: %v", err)
	}
}

// switchWriter is an io.Writer whose target can be replaced.
type switchWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (w *switchWriter) Set(target io.Writer) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.w = target
}

func (w *switchWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.Write(p)
}
