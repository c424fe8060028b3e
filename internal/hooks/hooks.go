package hooks

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/miaoxn/soliditytool/internal/config"
	"github.com/miaoxn/soliditytool/internal/dispatcher"
	"github.com/miaoxn/soliditytool/internal/logger"
	"github.com/miaoxn/soliditytool/internal/telemetry"
	"github.com/miaoxn/soliditytool/internal/version"
	"github.com/miaoxn/soliditytool/internal/workbench"
)

type ActionChain struct {
	Processors []func(action cli.ActionFunc) cli.ActionFunc
}

func NewActionChain() *ActionChain {
	return &ActionChain{
		Processors: make([]func(action cli.ActionFunc) cli.ActionFunc, 0),
	}
}

func (ac *ActionChain) Use(processor func(action cli.ActionFunc) cli.ActionFunc) {
	ac.Processors = append(ac.Processors, processor)
}

// Wrap applies the processors so the first one registered runs outermost.
func (ac *ActionChain) Wrap(action cli.ActionFunc) cli.ActionFunc {
	for i := len(ac.Processors) - 1; i >= 0; i-- {
		action = ac.Processors[i](action)
	}
	return action
}

func ApplyMiddleware(commands []*cli.Command, chain *ActionChain) {
	for _, cmd := range commands {
		if cmd.Action != nil {
			cmd.Action = chain.Wrap(cmd.Action)
		}
		if len(cmd.Subcommands) > 0 {
			ApplyMiddleware(cmd.Subcommands, chain)
		}
	}
}

func getFlagValue(ctx *cli.Context, name string) interface{} {
	if !ctx.IsSet(name) {
		return nil
	}

	if ctx.Bool(name) {
		return ctx.Bool(name)
	}
	if ctx.String(name) != "" {
		return ctx.String(name)
	}
	if ctx.Int(name) != 0 {
		return ctx.Int(name)
	}
	return nil
}

// sensitiveFlags never leave the machine.
var sensitiveFlags = map[string]bool{
	"private-key": true,
	"args":        true,
	"address":     true,
}

func collectFlagValues(ctx *cli.Context) map[string]interface{} {
	flags := make(map[string]interface{})

	collect := func(fs []cli.Flag) {
		for _, flag := range fs {
			flagName := flag.Names()[0]
			if sensitiveFlags[flagName] || !ctx.IsSet(flagName) {
				continue
			}
			flags[flagName] = getFlagValue(ctx, flagName)
		}
	}
	collect(ctx.App.Flags)
	if ctx.Command != nil {
		collect(ctx.Command.Flags)
	}
	return flags
}

func setupTelemetry() telemetry.Client {
	cfg, err := config.LoadConfig()
	if err != nil {
		return telemetry.NewNoopClient()
	}

	telemetry.Init(cfg)

	client := telemetry.GetGlobalClient()
	if client == nil {
		return telemetry.NewNoopClient()
	}

	return client
}

func WithMetricEmission(action cli.ActionFunc) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		client := setupTelemetry()
		ctx.Context = telemetry.ContextWithClient(ctx.Context, client)

		err := action(ctx)

		emitTelemetryMetrics(ctx, err)

		return err
	}
}

func emitTelemetryMetrics(ctx *cli.Context, actionError error) {
	metrics, err := telemetry.MetricsFromContext(ctx.Context)
	if err != nil {
		return
	}
	if ctx.Command != nil {
		metrics.AddProperty("command", ctx.Command.HelpName)
	}
	result := "Success"
	dimensions := map[string]string{}
	if actionError != nil {
		result = "Failure"
		dimensions["error"] = actionError.Error()
	}
	metrics.AddMetricWithDimensions(result, 1, dimensions)
	metrics.AddMetric("DurationMilliseconds", float64(metrics.Duration().Milliseconds()))

	client, ok := telemetry.ClientFromContext(ctx.Context)
	if !ok {
		return
	}
	defer client.Close()

	for _, metric := range metrics.Flatten() {
		_ = client.AddMetric(ctx.Context, metric)
	}
}

func WithCommandMetricsContext(ctx *cli.Context) error {
	metrics := telemetry.NewMetricsContext()
	ctx.Context = telemetry.WithMetricsContext(ctx.Context, metrics)

	if _, err := config.LoadConfig(); err != nil {
		logger.FromContext(ctx.Context).Error(err.Error())
		return nil
	}

	metrics.AddProperty("cli_version", version.GetVersion())
	metrics.AddProperty("os", runtime.GOOS)
	metrics.AddProperty("arch", runtime.GOARCH)

	for k, v := range collectFlagValues(ctx) {
		metrics.AddProperty(k, fmt.Sprintf("%v", v))
	}

	metrics.AddMetric("Count", 1)
	return nil
}

// DispatchMetrics records every finished run into the command's metrics
// context. Runs started without one are not recorded.
func DispatchMetrics(ctx context.Context) workbench.OutcomeHook {
	return func(outcome *dispatcher.Outcome, elapsed time.Duration) {
		metrics, err := telemetry.MetricsFromContext(ctx)
		if err != nil {
			return
		}
		metrics.AddMetricWithDimensions("Dispatch", 1, map[string]string{
			"state":    outcome.State.String(),
			"function": outcome.Function,
		})
		metrics.AddMetricWithDimensions("DispatchMilliseconds", float64(elapsed.Milliseconds()), map[string]string{
			"function": outcome.Function,
		})
	}
}
