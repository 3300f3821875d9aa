// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package logging

// RotatingWriterConfig configures the lumberjack writer backing log files.
type RotatingWriterConfig struct {
	MaxSize   int    `json:"maxSize"` // in megabytes
	MaxFiles  int    `json:"maxFiles"`
	MaxAge    int    `json:"maxAge"` // in days
	Directory string `json:"directory"`
	Compress  bool   `json:"compress"`
}

// Config defines the configuration of a logger
type Config struct {
	RotatingWriterConfig
	DisableWriterDisplaying bool   `json:"disableWriterDisplaying"`
	LogLevel                Level  `json:"logLevel"`
	DisplayLevel            Level  `json:"displayLevel"`
	LogFormat               Format `json:"logFormat"`
	MsgPrefix               string `json:"-"`
	LoggerName              string `json:"-"`
}

// DefaultConfig logs INFO to the console and DEBUG to rotated files in
// [dir]. An empty [dir] disables file output.
func DefaultConfig(dir string) Config {
	return Config{
		RotatingWriterConfig: RotatingWriterConfig{
			MaxSize:   8,
			MaxFiles:  7,
			MaxAge:    30,
			Directory: dir,
		},
		LogLevel:     Debug,
		DisplayLevel: Info,
		LogFormat:    Plain,
	}
}
