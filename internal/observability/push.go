package observability

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus/push"
)

// Pusher sends a run's metrics to a Prometheus Pushgateway. A batch job exits
// before any scrape would reach it, so the final state is pushed instead.
type Pusher struct {
	pusher *push.Pusher
}

// NewPusher targets gatewayURL under the given job name.
func NewPusher(gatewayURL, job string, m *Metrics) (*Pusher, error) {
	if gatewayURL == "" {
		return nil, errors.New("pushgateway URL is required")
	}
	if job == "" {
		return nil, errors.New("pushgateway job name is required")
	}
	return &Pusher{pusher: push.New(gatewayURL, job).Gatherer(m.Registry)}, nil
}

// Push replaces the job's metric group on the gateway.
func (p *Pusher) Push(ctx context.Context) error {
	if err := p.pusher.PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
