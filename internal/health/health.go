// Package health publishes store reachability over the standard gRPC
// health protocol.
package health

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// Service is the name clients pass in HealthCheckRequest.
const Service = "booking.v1.Booking"

type Pinger interface {
	Ping(ctx context.Context) error
}

// Monitor pings the store on an interval and mirrors the result into a
// gRPC health server, for both Service and the overall "" entry.
type Monitor struct {
	srv      *health.Server
	store    Pinger
	interval time.Duration
	timeout  time.Duration
	log      logrus.FieldLogger
	last     healthpb.HealthCheckResponse_ServingStatus
}

func NewMonitor(p Pinger, interval time.Duration, log logrus.FieldLogger) *Monitor {
	m := &Monitor{
		srv:      health.NewServer(),
		store:    p,
		interval: interval,
		timeout:  interval / 2,
		log:      log,
	}
	m.set(healthpb.HealthCheckResponse_NOT_SERVING)
	return m
}

// Register adds the health service and server reflection to s.
func (m *Monitor) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, m.srv)
	reflection.Register(s)
}

func (m *Monitor) Server() *health.Server { return m.srv }

// Check pings once and records the outcome.
func (m *Monitor) Check(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	next := healthpb.HealthCheckResponse_SERVING
	if err := m.store.Ping(ctx); err != nil {
		next = healthpb.HealthCheckResponse_NOT_SERVING
		if m.last != next {
			m.log.WithError(err).Error("store unreachable, reporting NOT_SERVING")
		}
	} else if m.last != next {
		m.log.Info("store reachable, reporting SERVING")
	}
	m.set(next)
}

// Run checks immediately and then every interval until ctx ends, when it
// marks everything NOT_SERVING.
func (m *Monitor) Run(ctx context.Context) {
	m.Check(ctx)
	t := time.NewTicker(m.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			m.srv.Shutdown()
			return
		case <-t.C:
			m.Check(ctx)
		}
	}
}

func (m *Monitor) set(st healthpb.HealthCheckResponse_ServingStatus) {
	m.last = st
	m.srv.SetServingStatus("", st)
	m.srv.SetServingStatus(Service, st)
}
