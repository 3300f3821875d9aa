// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package trace

import (
	"context"
	"encoding"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const (
	NoOp ExporterType = iota
	GRPC
	HTTP
)

var (
	_ encoding.TextMarshaler   = NoOp
	_ encoding.TextUnmarshaler = (*ExporterType)(nil)

	errUnknownExporterType = errors.New("unknown exporter type")
)

// ExporterType is the protocol spans are exported with.
type ExporterType byte

func ExporterTypeFromString(s string) (ExporterType, error) {
	switch strings.ToLower(s) {
	case "", "null":
		return NoOp, nil
	case "grpc":
		return GRPC, nil
	case "http":
		return HTTP, nil
	default:
		return NoOp, fmt.Errorf("%w: %q", errUnknownExporterType, s)
	}
}

func (t ExporterType) String() string {
	switch t {
	case NoOp:
		return ""
	case GRPC:
		return "grpc"
	case HTTP:
		return "http"
	default:
		return "unknown"
	}
}

func (t ExporterType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *ExporterType) UnmarshalText(text []byte) error {
	exporterType, err := ExporterTypeFromString(string(text))
	if err != nil {
		return err
	}
	*t = exporterType
	return nil
}

type ExporterConfig struct {
	Type ExporterType `json:"type"`

	// Endpoint to send spans to
	Endpoint string `json:"endpoint"`

	// Headers to send with every export
	Headers map[string]string `json:"headers"`

	// If true, don't use TLS
	Insecure bool `json:"insecure"`
}

func newExporter(config ExporterConfig) (sdktrace.SpanExporter, error) {
	var client otlptrace.Client
	switch config.Type {
	case GRPC:
		opts := []otlptracegrpc.Option{
			otlptracegrpc.WithEndpoint(config.Endpoint),
			otlptracegrpc.WithHeaders(config.Headers),
			otlptracegrpc.WithTimeout(tracerExportTimeout),
		}
		if config.Insecure {
			opts = append(opts, otlptracegrpc.WithInsecure())
		}
		client = otlptracegrpc.NewClient(opts...)
	case HTTP:
		opts := []otlptracehttp.Option{
			otlptracehttp.WithEndpoint(config.Endpoint),
			otlptracehttp.WithHeaders(config.Headers),
			otlptracehttp.WithTimeout(tracerExportTimeout),
		}
		if config.Insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		client = otlptracehttp.NewClient(opts...)
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownExporterType, config.Type)
	}
	return otlptrace.New(context.Background(), client)
}
