// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package logging

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
)

// Format modes available
const (
	Plain Format = iota
	JSON
)

const termTimeFormat = "[01-02|15:04:05.000]"

var (
	defaultEncoderConfig = zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		EncodeCaller:   zapcore.ShortCallerEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	jsonEncoderConfig zapcore.EncoderConfig
)

func init() {
	jsonEncoderConfig = defaultEncoderConfig
	jsonEncoderConfig.EncodeLevel = jsonLevelEncoder
	jsonEncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	jsonEncoderConfig.EncodeDuration = zapcore.NanosDurationEncoder
}

// Format modes to apply to logs
type Format int

// ToFormat converts a string to a [Format]. Not case sensitive.
func ToFormat(f string) (Format, error) {
	switch strings.ToUpper(f) {
	case "PLAIN", "AUTO", "":
		return Plain, nil
	case "JSON":
		return JSON, nil
	default:
		return Plain, fmt.Errorf("unknown log format: %q", f)
	}
}

func (f Format) MarshalJSON() ([]byte, error) {
	switch f {
	case Plain:
		return json.Marshal("plain")
	case JSON:
		return json.Marshal("json")
	default:
		return nil, fmt.Errorf("unknown log format: %d", f)
	}
}

func (f *Format) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	var err error
	*f, err = ToFormat(str)
	return err
}

// WrapPrefix adds brackets around [prefix] for console output.
func (f Format) WrapPrefix(prefix string) string {
	if prefix == "" || f == JSON {
		return prefix
	}
	return fmt.Sprintf("<%s>", prefix)
}

func (f Format) ConsoleEncoder() zapcore.Encoder {
	if f == JSON {
		return zapcore.NewJSONEncoder(jsonEncoderConfig)
	}
	c := defaultEncoderConfig
	c.EncodeLevel = levelEncoder
	c.EncodeTime = newTermTimeEncoder(termTimeFormat)
	c.ConsoleSeparator = " "
	return zapcore.NewConsoleEncoder(c)
}

func (f Format) FileEncoder() zapcore.Encoder {
	if f == JSON {
		return zapcore.NewJSONEncoder(jsonEncoderConfig)
	}
	c := defaultEncoderConfig
	c.EncodeLevel = levelEncoder
	c.EncodeTime = newTermTimeEncoder(termTimeFormat)
	c.ConsoleSeparator = " "
	return zapcore.NewConsoleEncoder(c)
}

func newTermTimeEncoder(layout string) zapcore.TimeEncoder {
	return func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.Format(layout))
	}
}
