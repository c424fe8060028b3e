package telemetry

import "context"

// NoopClient implements a no-op telemetry client for when telemetry is disabled
type NoopClient struct{}

func NewNoopClient() *NoopClient {
	return &NoopClient{}
}

func (n *NoopClient) AddMetric(context.Context, Metric) error {
	return nil
}

func (n *NoopClient) Close() error {
	return nil
}
