package observe_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/modscope/modscope/observe"
)

func ExampleNewObserver() {
	cfg := observe.Config{
		ServiceName: "modscope-query",
		Version:     "1.0.0",
		Tracing:     observe.TracingConfig{Enabled: true, Exporter: "none"},
		Logging:     observe.LoggingConfig{Enabled: true, Level: "info"},
	}

	ctx := context.Background()
	obs, err := observe.NewObserver(ctx, cfg)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	defer obs.Shutdown(ctx)

	fmt.Println("observer ready")
	// Output:
	// observer ready
}

func ExampleNewObserver_validation() {
	_, err := observe.NewObserver(context.Background(), observe.Config{})
	if errors.Is(err, observe.ErrMissingServiceName) {
		fmt.Println("rejected: missing service name")
	}
	// Output:
	// rejected: missing service name
}

func ExampleConfig_Validate() {
	cfg := observe.Config{
		ServiceName: "modscope-query",
		Tracing:     observe.TracingConfig{Enabled: true, Exporter: "stdout", SamplePct: 0.5},
		Metrics:     observe.MetricsConfig{Enabled: true, Exporter: "prometheus"},
		Logging:     observe.LoggingConfig{Enabled: true, Level: "info"},
	}

	fmt.Println("valid:", cfg.Validate() == nil)
	// Output:
	// valid: true
}

func ExampleOpMeta_SpanName() {
	withTarget := observe.OpMeta{
		Kind:   "list_members",
		Module: "/mod/app",
		Target: "MyApp.Widget",
	}
	bare := observe.OpMeta{Kind: "list_modules"}

	fmt.Println(withTarget.SpanName())
	fmt.Println(bare.SpanName())
	// Output:
	// query.exec.list_members
	// query.exec.list_modules
}

func ExampleNewLoggerWithWriter() {
	var buf bytes.Buffer
	logger := observe.NewLoggerWithWriter("info", &buf)

	logger.Info(context.Background(), "service started",
		observe.Field{Key: "version", Value: "1.0.0"})

	fmt.Println(bytes.Contains(buf.Bytes(), []byte("service started")))
	// Output:
	// true
}

func ExampleLogger_withOp() {
	var buf bytes.Buffer
	logger := observe.NewLoggerWithWriter("info", &buf)

	opLogger := logger.WithOp(observe.OpMeta{Kind: "get_type", Module: "/mod/app"})
	opLogger.Info(context.Background(), "resolved")

	fmt.Println(bytes.Contains(buf.Bytes(), []byte("query.op")))
	fmt.Println(bytes.Contains(buf.Bytes(), []byte("query.module")))
	// Output:
	// true
	// true
}

func ExampleMiddleware_Wrap() {
	ctx := context.Background()
	cfg := observe.Config{
		ServiceName: "modscope-query",
		Tracing:     observe.TracingConfig{Enabled: true, Exporter: "none"},
		Metrics:     observe.MetricsConfig{Enabled: true, Exporter: "none"},
	}
	obs, _ := observe.NewObserver(ctx, cfg)
	defer obs.Shutdown(ctx)

	mw, _ := observe.MiddlewareFromObserver(obs)

	// every execution through Wrap is traced, metered and logged
	exec := mw.Wrap(func(ctx context.Context, meta observe.OpMeta) ([]byte, error) {
		return []byte(`{"kind":"typeList","version":"v1"}`), nil
	})

	payload, err := exec(ctx, observe.OpMeta{Kind: "list_types", Module: "/mod/app"})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Printf("%s\n", payload)
	// Output:
	// {"kind":"typeList","version":"v1"}
}

func ExampleParseLogLevel() {
	for _, s := range []string{"debug", "warn", "unknown"} {
		fmt.Printf("%s -> %s\n", s, observe.ParseLogLevel(s))
	}
	// Output:
	// debug -> debug
	// warn -> warn
	// unknown -> info
}
