package telemetry

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/miaoxn/soliditytool/internal/config"
)

// MetricsContext collects the metrics of one command run. Concurrent
// dispatches from the interactive UI add to it from several goroutines.
type MetricsContext struct {
	mu         sync.Mutex
	StartTime  time.Time         `json:"start_time"`
	Metrics    []Metric          `json:"metrics"`
	Properties map[string]string `json:"properties"`
}

type Metric struct {
	Value      float64           `json:"value"`
	Name       string            `json:"name"`
	Dimensions map[string]string `json:"dimensions"`
}

func WithMetricsContext(ctx context.Context, metrics *MetricsContext) context.Context {
	return context.WithValue(ctx, config.MetricsContextKey, metrics)
}

func MetricsFromContext(ctx context.Context) (*MetricsContext, error) {
	metrics, ok := ctx.Value(config.MetricsContextKey).(*MetricsContext)
	if !ok || metrics == nil {
		return nil, errors.New("no metrics context found")
	}
	return metrics, nil
}

func NewMetricsContext() *MetricsContext {
	return &MetricsContext{
		StartTime:  time.Now(),
		Metrics:    make([]Metric, 0),
		Properties: make(map[string]string),
	}
}

func (m *MetricsContext) AddMetric(name string, value float64) {
	m.AddMetricWithDimensions(name, value, make(map[string]string))
}

func (m *MetricsContext) AddMetricWithDimensions(name string, value float64, dimensions map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Metrics = append(m.Metrics, Metric{
		Name:       name,
		Value:      value,
		Dimensions: dimensions,
	})
}

func (m *MetricsContext) AddProperty(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Properties[key] = value
}

// Flatten returns every metric with the context properties merged into
// its dimensions. Metric dimensions win over properties of the same name.
func (m *MetricsContext) Flatten() []Metric {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Metric, len(m.Metrics))
	for i, metric := range m.Metrics {
		dims := make(map[string]string, len(metric.Dimensions)+len(m.Properties))
		for k, v := range m.Properties {
			dims[k] = v
		}
		for k, v := range metric.Dimensions {
			dims[k] = v
		}
		out[i] = Metric{Name: metric.Name, Value: metric.Value, Dimensions: dims}
	}
	return out
}

func (m *MetricsContext) Duration() time.Duration {
	return time.Since(m.StartTime)
}
