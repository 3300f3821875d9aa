// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ava-labs/sharedmemory/utils/constants"
	"github.com/ava-labs/sharedmemory/utils/units"
)

const (
	EnvPrefix = "sharedmemory"

	LevelDB = "leveldb"
	MemDB   = "memdb"
)

var (
	defaultDataDir = filepath.Join("$HOME", "."+constants.AppName)
	defaultDBDir   = filepath.Join("${"+DataDirKey+"}", "db")
	defaultLogDir  = filepath.Join("${"+DataDirKey+"}", "logs")
)

func addFlags(fs *pflag.FlagSet) {
	fs.String(ConfigFileKey, "", fmt.Sprintf("Specifies a JSON config file. Flags and %s_ environment variables take precedence", strings.ToUpper(EnvPrefix)))
	fs.String(GenesisFileKey, "", "Specifies a JSON genesis file applied to every simulated chain. If empty, a funded genesis is generated")
	fs.String(NetworkNameKey, constants.LocalName, "Network ID the simulated chains run on")
	fs.String(DataDirKey, defaultDataDir, "Sets the base data directory where default sub-directories will be placed")

	// Database
	fs.String(DBTypeKey, LevelDB, fmt.Sprintf("Database type to use. Should be one of {%s, %s}", LevelDB, MemDB))
	fs.String(DBPathKey, defaultDBDir, "Path to database directory")

	// HTTP
	fs.String(HTTPHostKey, "127.0.0.1", "Address of the HTTP server")
	fs.Uint(HTTPPortKey, 9650, "Port of the HTTP server. 0 disables the server")
	fs.String(HTTPOriginsKey, "*", "Origins to allow on the HTTP port. Defaults to * which allows all origins")
	fs.Bool(MetricsEnabled, true, "If true, serves prometheus metrics at /ext/metrics")

	// Logging
	fs.String(LogsDirKey, defaultLogDir, "Logging directory. If empty, logs are only displayed")
	fs.String(LogLevelKey, "info", "The log level. Should be one of {verbo, debug, trace, info, warn, error, fatal, off}")
	fs.String(LogDisplayLevel, "", "The log display level. If left blank, will inherit the value of log-level. Otherwise, should be one of {verbo, debug, trace, info, warn, error, fatal, off}")
	fs.String(LogFormatKey, "auto", "The structure of log format. Defaults to 'auto' which formats terminal-like logs, when the output is a terminal. Otherwise, should be one of {auto, plain, json}")
	fs.Uint(LogMaxSizeKey, 8, "The maximum file size in megabytes of the log file before it gets rotated.")
	fs.Uint(LogMaxFilesKey, 7, "The maximum number of old log files to retain. 0 means retain all old log files.")
	fs.Uint(LogMaxAgeKey, 0, "The maximum number of days to retain old log files based on the timestamp encoded in their filename. 0 means retain all old log files.")
	fs.Bool(LogCompressKey, false, "Enables the compression of rotated log files through gzip.")

	// Tracing
	fs.Bool(TracingEnabledKey, false, "If true, enable opentelemetry tracing")
	fs.String(TracingExporterTypeKey, "grpc", "Type of exporter to use for tracing. Options are [grpc, http]")
	fs.String(TracingEndpointKey, "localhost:4317", "The endpoint to send trace data to")
	fs.Bool(TracingInsecureKey, true, "If true, don't use TLS when sending trace data")
	fs.Float64(TracingSampleRateKey, 0.1, "The fraction of traces to sample. If >= 1, always sample. If <= 0, never sample")
	fs.StringToString(TracingHeadersKey, map[string]string{}, "The headers to provide the trace indexer")

	// Simulator
	fs.Uint(SimulatorRoundsKey, 10, "Number of export and import rounds each worker performs")
	fs.Uint64(SimulatorAmountKey, units.Avax, "Amount of nAVAX moved per round")
	fs.Uint(SimulatorConcurrencyKey, 4, "Number of concurrent workers")
}

// BuildFlagSet returns a complete set of flags for the simulator
func BuildFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet(constants.AppName, pflag.ContinueOnError)
	addFlags(fs)
	return fs
}

// BuildViper returns the viper environment from parsing config file from
// default search paths and any parsed command line flags
func BuildViper(fs *pflag.FlagSet, args []string) (*viper.Viper, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return NewViper(fs)
}

// NewViper binds the already parsed [fs] and the environment, then reads the
// config file if one was specified.
func NewViper(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.SetEnvPrefix(EnvPrefix)
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}

	if v.IsSet(ConfigFileKey) {
		filename := GetExpandedArg(v, ConfigFileKey)
		v.SetConfigFile(filename)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// GetExpandedArg gets the string in viper corresponding to [key] and expands
// any variables using the OS env. If the data-dir variable is present, it
// expands that first.
func GetExpandedArg(v *viper.Viper, key string) string {
	return GetExpandedString(v, v.GetString(key))
}

// GetExpandedString expands [s] with any variables using the OS env. If the
// data-dir variable is present, it expands that first.
func GetExpandedString(v *viper.Viper, s string) string {
	return os.Expand(
		s,
		func(strVar string) string {
			if strVar == DataDirKey {
				return os.ExpandEnv(v.GetString(DataDirKey))
			}
			return os.Getenv(strVar)
		},
	)
}
