// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

const (
	ConfigFileKey   = "config-file"
	GenesisFileKey  = "genesis-file"
	NetworkNameKey  = "network-id"
	DataDirKey      = "data-dir"
	DBTypeKey       = "db-type"
	DBPathKey       = "db-dir"
	HTTPHostKey     = "http-host"
	HTTPPortKey     = "http-port"
	HTTPOriginsKey  = "http-allowed-origins"
	MetricsEnabled  = "metrics-enabled"
	LogsDirKey      = "log-dir"
	LogLevelKey     = "log-level"
	LogDisplayLevel = "log-display-level"
	LogFormatKey    = "log-format"

	LogMaxSizeKey  = "log-rotater-max-size"
	LogMaxFilesKey = "log-rotater-max-files"
	LogMaxAgeKey   = "log-rotater-max-age"
	LogCompressKey = "log-rotater-compress-enabled"

	TracingEnabledKey      = "tracing-enabled"
	TracingExporterTypeKey = "tracing-exporter-type"
	TracingEndpointKey     = "tracing-endpoint"
	TracingInsecureKey     = "tracing-insecure"
	TracingSampleRateKey   = "tracing-sample-rate"
	TracingHeadersKey      = "tracing-headers"

	SimulatorRoundsKey      = "simulator-rounds"
	SimulatorAmountKey      = "simulator-amount"
	SimulatorConcurrencyKey = "simulator-concurrency"
)
