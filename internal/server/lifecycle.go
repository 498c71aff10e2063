// Package server runs the skirmish process: the interactive console and its
// supporting services, with signal handling and ordered shutdown.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// DefaultShutdownGrace bounds how long Run waits for stopped services to
// return from Start.
const DefaultShutdownGrace = 5 * time.Second

// Service represents a long-running component that can be started and stopped.
type Service interface {
	// Start runs the service. It blocks until the service is stopped, its work
	// is complete, or an error occurs.
	Start() error
	// Stop asks the service to return from Start. It may be called more than once.
	Stop()
}

// FuncService adapts a start/stop function pair into the Service interface.
type FuncService struct {
	StartFn func() error
	StopFn  func()
}

// Start calls the underlying start function.
func (f *FuncService) Start() error { return f.StartFn() }

// Stop calls the underlying stop function.
func (f *FuncService) Stop() { f.StopFn() }

// Lifecycle runs a set of services until the first one finishes, then stops
// them all in reverse registration order.
type Lifecycle struct {
	// Grace is the wait for Start calls to return after Stop; zero means
	// DefaultShutdownGrace.
	Grace time.Duration

	mu       sync.Mutex
	logger   *zap.Logger
	services []namedService
}

type namedService struct {
	name    string
	service Service
}

type exit struct {
	name string
	err  error
}

// NewLifecycle creates a new Lifecycle manager.
//
// Precondition: logger must be non-nil.
func NewLifecycle(logger *zap.Logger) *Lifecycle {
	return &Lifecycle{logger: logger}
}

// Add registers a named service. Services start in the order they are added.
//
// Precondition: name must be non-empty; svc must be non-nil.
func (l *Lifecycle) Add(name string, svc Service) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.services = append(l.services, namedService{name: name, service: svc})
}

// Run starts all services and blocks until SIGINT or SIGTERM arrives, ctx is
// cancelled, or any service returns from Start.
//
// Postcondition: every service has been stopped, and each Start has returned
// or the grace period has elapsed. The error is the first service failure.
func (l *Lifecycle) Run(ctx context.Context) error {
	start := time.Now()

	l.mu.Lock()
	services := append([]namedService(nil), l.services...)
	l.mu.Unlock()

	exits := make(chan exit, len(services))
	for _, ns := range services {
		l.logger.Info("starting service", zap.String("service", ns.name))
		go func() {
			err := ns.service.Start()
			if err != nil {
				err = fmt.Errorf("service %s: %w", ns.name, err)
			}
			exits <- exit{name: ns.name, err: err}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var runErr error
	pending := len(services)
	select {
	case sig := <-sigCh:
		l.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case e := <-exits:
		pending--
		runErr = e.err
		l.logExit(e)
	case <-ctx.Done():
		l.logger.Info("context cancelled, shutting down")
	}

	for i := len(services) - 1; i >= 0; i-- {
		l.logger.Debug("stopping service", zap.String("service", services[i].name))
		services[i].service.Stop()
	}

	grace := l.Grace
	if grace <= 0 {
		grace = DefaultShutdownGrace
	}
	timeout := time.After(grace)
	for ; pending > 0; pending-- {
		select {
		case e := <-exits:
			if runErr == nil {
				runErr = e.err
			}
			l.logExit(e)
		case <-timeout:
			l.logger.Warn("services did not exit within grace period",
				zap.Int("pending", pending),
				zap.Duration("grace", grace),
			)
			return runErr
		}
	}

	l.logger.Info("shutdown complete", zap.Duration("uptime", time.Since(start)))
	return runErr
}

func (l *Lifecycle) logExit(e exit) {
	if e.err != nil {
		l.logger.Error("service failed", zap.String("service", e.name), zap.Error(e.err))
		return
	}
	l.logger.Info("service finished", zap.String("service", e.name))
}

// HealthLoop returns a Service that calls check every interval. A failure is
// logged at Warn with the count of consecutive failures; the first success
// after a failure is logged at Info.
//
// Precondition: interval > 0; check and logger must be non-nil.
func HealthLoop(name string, interval time.Duration, check func(context.Context) error, logger *zap.Logger) Service {
	ctx, cancel := context.WithCancel(context.Background())
	return &FuncService{
		StartFn: func() error {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			failures := 0
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
				}
				if err := check(ctx); err != nil {
					if ctx.Err() != nil {
						return nil
					}
					failures++
					logger.Warn("health check failed",
						zap.String("service", name),
						zap.Int("consecutive", failures),
						zap.Error(err),
					)
					continue
				}
				if failures > 0 {
					logger.Info("health check recovered", zap.String("service", name), zap.Int("after", failures))
				}
				failures = 0
			}
		},
		StopFn: cancel,
	}
}
