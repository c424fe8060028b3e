package telemetry

import (
	"context"
	"os"

	"github.com/posthog/posthog-go"

	"github.com/miaoxn/soliditytool/internal/config"
)

const (
	EnvTelemetryEnabled = "SOLTOOL_TELEMETRY_ENABLED"
	EnvPostHogKey       = "SOLTOOL_POSTHOG_KEY"
	EnvPostHogEndpoint  = "SOLTOOL_POSTHOG_ENDPOINT"
)

type PostHogClient struct {
	namespace  string
	client     posthog.Client
	distinctID string
	chainID    string
	enabled    bool
}

// NewPostHogClient returns nil when telemetry is disabled or no key is set.
func NewPostHogClient(cfg *config.Config, namespace string) (*PostHogClient, error) {
	if !isTelemetryEnabled(cfg) {
		return nil, nil
	}

	apiKey := getPostHogAPIKey(cfg)
	if apiKey == "" {
		return nil, nil
	}

	client, err := posthog.NewWithConfig(apiKey, posthog.Config{
		Endpoint: getPostHogEndpoint(),
	})
	if err != nil {
		return nil, err
	}

	var chainID string
	isAnonymous := cfg != nil && cfg.TelemetryAnonymous != nil && *cfg.TelemetryAnonymous
	if cfg != nil && !isAnonymous {
		if ctx, ok := cfg.Contexts[cfg.CurrentContext]; ok && ctx.ChainID != 0 {
			chainID = formatChainID(ctx.ChainID)
		}
	}

	return &PostHogClient{
		namespace:  namespace,
		client:     client,
		distinctID: getAnonymousID(),
		chainID:    chainID,
		enabled:    true,
	}, nil
}

func (c *PostHogClient) AddMetric(_ context.Context, metric Metric) error {
	if c == nil || c.client == nil || !c.enabled {
		return nil
	}

	props := make(map[string]interface{})
	props["metric_name"] = metric.Name
	props["metric_value"] = metric.Value

	if c.chainID != "" {
		props["chain_id"] = c.chainID
	}

	for k, v := range metric.Dimensions {
		props[k] = v
	}

	_ = c.client.Enqueue(posthog.Capture{
		DistinctId: c.distinctID,
		Event:      c.namespace,
		Properties: props,
	})
	return nil
}

func (c *PostHogClient) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	_ = c.client.Close()
	return nil
}

func isTelemetryEnabled(cfg *config.Config) bool {
	if envVal := os.Getenv(EnvTelemetryEnabled); envVal != "" {
		return envVal == "true" || envVal == "1"
	}

	if cfg != nil && cfg.TelemetryEnabled != nil {
		return *cfg.TelemetryEnabled
	}

	return false
}

func getPostHogAPIKey(cfg *config.Config) string {
	if key := os.Getenv(EnvPostHogKey); key != "" {
		return key
	}

	if cfg != nil && cfg.PostHogAPIKey != "" {
		return cfg.PostHogAPIKey
	}

	return embeddedTelemetryApiKey
}

func getPostHogEndpoint() string {
	if endpoint := os.Getenv(EnvPostHogEndpoint); endpoint != "" {
		return endpoint
	}
	return "https://us.i.posthog.com"
}
