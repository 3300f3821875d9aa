// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/spf13/viper"

	"github.com/ava-labs/sharedmemory/core"
	"github.com/ava-labs/sharedmemory/trace"
	"github.com/ava-labs/sharedmemory/utils/constants"
	"github.com/ava-labs/sharedmemory/utils/logging"
)

var (
	errInvalidDBType        = errors.New("invalid database type")
	errInvalidPort          = errors.New("invalid http port")
	errInvalidConcurrency   = errors.New("simulator concurrency must be positive")
	errInvalidSimulatorRuns = errors.New("simulator rounds must be positive")
	errZeroAmount           = errors.New("simulator amount must be positive")
)

type DatabaseConfig struct {
	// Either [LevelDB] or [MemDB]
	Type string `json:"type"`
	Path string `json:"path"`
}

type HTTPConfig struct {
	Host string `json:"host"`
	// 0 disables the server
	Port uint16 `json:"port"`
	// Empty allows every origin
	AllowedOrigins []string `json:"allowedOrigins"`

	MetricsEnabled bool `json:"metricsEnabled"`
}

type SimulatorConfig struct {
	Rounds      int    `json:"rounds"`
	Amount      uint64 `json:"amount"`
	Concurrency int    `json:"concurrency"`
}

// Config is the parsed configuration of the simulator.
type Config struct {
	NetworkID uint32 `json:"networkID"`
	// nil if no genesis file was provided
	Genesis *core.Genesis `json:"-"`

	DatabaseConfig  DatabaseConfig  `json:"databaseConfig"`
	HTTPConfig      HTTPConfig      `json:"httpConfig"`
	LoggingConfig   logging.Config  `json:"loggingConfig"`
	TraceConfig     trace.Config    `json:"traceConfig"`
	SimulatorConfig SimulatorConfig `json:"simulatorConfig"`
}

// GetConfig parses the values bound to [v].
func GetConfig(v *viper.Viper) (Config, error) {
	var (
		config Config
		err    error
	)

	config.NetworkID, err = constants.NetworkID(v.GetString(NetworkNameKey))
	if err != nil {
		return Config{}, err
	}

	if v.IsSet(GenesisFileKey) {
		config.Genesis, err = getGenesis(GetExpandedArg(v, GenesisFileKey))
		if err != nil {
			return Config{}, err
		}
	}

	config.DatabaseConfig, err = getDatabaseConfig(v)
	if err != nil {
		return Config{}, err
	}

	config.HTTPConfig, err = getHTTPConfig(v)
	if err != nil {
		return Config{}, err
	}

	config.LoggingConfig, err = getLoggingConfig(v)
	if err != nil {
		return Config{}, err
	}

	config.TraceConfig, err = getTraceConfig(v)
	if err != nil {
		return Config{}, err
	}

	config.SimulatorConfig, err = getSimulatorConfig(v)
	return config, err
}

func getGenesis(path string) (*core.Genesis, error) {
	genesisBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("couldn't read genesis file %q: %w", path, err)
	}
	genesis := &core.Genesis{}
	if err := json.Unmarshal(genesisBytes, genesis); err != nil {
		return nil, fmt.Errorf("couldn't parse genesis file %q: %w", path, err)
	}
	return genesis, genesis.Verify()
}

func getDatabaseConfig(v *viper.Viper) (DatabaseConfig, error) {
	config := DatabaseConfig{
		Type: v.GetString(DBTypeKey),
		Path: GetExpandedArg(v, DBPathKey),
	}
	switch config.Type {
	case LevelDB, MemDB:
		return config, nil
	default:
		return DatabaseConfig{}, fmt.Errorf("%w: %q", errInvalidDBType, config.Type)
	}
}

func getHTTPConfig(v *viper.Viper) (HTTPConfig, error) {
	port := v.GetUint(HTTPPortKey)
	if port > math.MaxUint16 {
		return HTTPConfig{}, fmt.Errorf("%w: %d", errInvalidPort, port)
	}
	return HTTPConfig{
		Host:           v.GetString(HTTPHostKey),
		Port:           uint16(port),
		AllowedOrigins: v.GetStringSlice(HTTPOriginsKey),
		MetricsEnabled: v.GetBool(MetricsEnabled),
	}, nil
}

func getLoggingConfig(v *viper.Viper) (logging.Config, error) {
	loggingConfig := logging.Config{}
	loggingConfig.Directory = GetExpandedArg(v, LogsDirKey)
	loggingConfig.MaxSize = int(v.GetUint(LogMaxSizeKey))
	loggingConfig.MaxFiles = int(v.GetUint(LogMaxFilesKey))
	loggingConfig.MaxAge = int(v.GetUint(LogMaxAgeKey))
	loggingConfig.Compress = v.GetBool(LogCompressKey)

	var err error
	loggingConfig.LogLevel, err = logging.ToLevel(v.GetString(LogLevelKey))
	if err != nil {
		return loggingConfig, err
	}

	logDisplayLevel := v.GetString(LogLevelKey)
	if v.IsSet(LogDisplayLevel) {
		logDisplayLevel = v.GetString(LogDisplayLevel)
	}
	loggingConfig.DisplayLevel, err = logging.ToLevel(logDisplayLevel)
	if err != nil {
		return loggingConfig, err
	}

	loggingConfig.LogFormat, err = logging.ToFormat(v.GetString(LogFormatKey))
	return loggingConfig, err
}

func getTraceConfig(v *viper.Viper) (trace.Config, error) {
	if !v.GetBool(TracingEnabledKey) {
		return trace.Config{}, nil
	}

	exporterType, err := trace.ExporterTypeFromString(v.GetString(TracingExporterTypeKey))
	if err != nil {
		return trace.Config{}, err
	}
	return trace.Config{
		ExporterConfig: trace.ExporterConfig{
			Type:     exporterType,
			Endpoint: v.GetString(TracingEndpointKey),
			Insecure: v.GetBool(TracingInsecureKey),
			Headers:  v.GetStringMapString(TracingHeadersKey),
		},
		Enabled:         true,
		TraceSampleRate: v.GetFloat64(TracingSampleRateKey),
		AppName:         constants.AppName,
	}, nil
}

func getSimulatorConfig(v *viper.Viper) (SimulatorConfig, error) {
	config := SimulatorConfig{
		Rounds:      int(v.GetUint(SimulatorRoundsKey)),
		Amount:      v.GetUint64(SimulatorAmountKey),
		Concurrency: int(v.GetUint(SimulatorConcurrencyKey)),
	}
	switch {
	case config.Rounds <= 0:
		return SimulatorConfig{}, errInvalidSimulatorRuns
	case config.Concurrency <= 0:
		return SimulatorConfig{}, errInvalidConcurrency
	case config.Amount == 0:
		return SimulatorConfig{}, errZeroAmount
	default:
		return config, nil
	}
}
