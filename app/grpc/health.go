package grpc

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const ServiceName = "contacts.Contacts"

const pingTimeout = 2 * time.Second

type pinger interface {
	PingContext(ctx context.Context) error
}

// HealthReporter mirrors database reachability into the gRPC health service.
type HealthReporter struct {
	db       pinger
	hs       *health.Server
	interval time.Duration
}

func NewHealthReporter(db pinger, interval time.Duration) *HealthReporter {
	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	return &HealthReporter{db: db, hs: hs, interval: interval}
}

func (r *HealthReporter) Server() *health.Server {
	return r.hs
}

func (r *HealthReporter) Refresh(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := r.db.PingContext(pingCtx); err != nil {
		logrus.WithError(err).Warn("Database ping failed, reporting not serving")
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}

	r.hs.SetServingStatus("", status)
	r.hs.SetServingStatus(ServiceName, status)
	return status
}

// Run refreshes the status until ctx ends, then marks every service as
// shutting down.
func (r *HealthReporter) Run(ctx context.Context) {
	r.Refresh(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.hs.Shutdown()
			return
		case <-ticker.C:
			r.Refresh(ctx)
		}
	}
}
