// Package observability wires OpenTelemetry tracing and metrics into
// outbound REST calls.
//
// Exporter setup is optional; without it the global no-op providers are
// used and instrumentation costs next to nothing.
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("billing"))
//	defer tp.Shutdown(ctx)
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("billing"))
//	defer mp.Shutdown(ctx)
//
// Clients then record one span and one duration sample per call:
//
//	req, span := observability.StartClientSpan(ctx, tracer, req)
//	defer observability.EndClientSpan(span, status, err)
package observability
