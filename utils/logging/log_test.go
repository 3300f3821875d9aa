// Copyright (C) 2019-2026, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type bufferCloser struct {
	bytes.Buffer
}

func (*bufferCloser) Close() error {
	return nil
}

func TestLevelRoundTrip(t *testing.T) {
	require := require.New(t)

	for _, level := range []Level{Verbo, Debug, Trace, Info, Warn, Error, Fatal, Off} {
		parsed, err := ToLevel(level.String())
		require.NoError(err)
		require.Equal(level, parsed)

		b, err := json.Marshal(level)
		require.NoError(err)
		var unmarshalled Level
		require.NoError(json.Unmarshal(b, &unmarshalled))
		require.Equal(level, unmarshalled)
	}

	_, err := ToLevel("loud")
	require.Error(err)
}

func TestLevelOrdering(t *testing.T) {
	require := require.New(t)

	require.Less(Verbo, Debug)
	require.Less(Debug, Trace)
	require.Less(Trace, Info)
	require.Less(Info, Warn)
	require.Less(Warn, Error)
	require.Less(Error, Fatal)
	require.Less(Fatal, Off)
	require.Equal("WARN ", Warn.AlignedString())
}

func TestLoggerLevels(t *testing.T) {
	require := require.New(t)

	w := &bufferCloser{}
	core := NewWrappedCore(Info, w, JSON.FileEncoder())
	log := NewLogger("", core)

	log.Debug("hidden")
	require.Zero(w.Len())

	log.Info("shown", zap.Uint64("amount", 5))
	require.Contains(w.String(), `"msg":"shown"`)
	require.Contains(w.String(), `"level":"info"`)
	require.Contains(w.String(), `"amount":5`)

	w.Reset()
	log.SetLevel(Off)
	log.Fatal("dropped")
	require.Zero(w.Len())
	require.False(log.Enabled(Error))
}

func TestLoggerWith(t *testing.T) {
	require := require.New(t)

	w := &bufferCloser{}
	log := NewLogger("chain", NewWrappedCore(Verbo, w, JSON.FileEncoder()))
	log.With(zap.String("peer", "B")).Verbo("child")
	require.Contains(w.String(), `"peer":"B"`)
	require.Contains(w.String(), `"logger":"chain"`)
}

func TestFactory(t *testing.T) {
	require := require.New(t)

	config := DefaultConfig(t.TempDir())
	config.DisableWriterDisplaying = true
	f := NewFactory(config)
	defer f.Close()

	_, err := f.Make("sharedmemory")
	require.NoError(err)
	_, err = f.Make("sharedmemory")
	require.Error(err)

	require.NoError(f.SetLogLevel("sharedmemory", Warn))
	level, err := f.GetLogLevel("sharedmemory")
	require.NoError(err)
	require.Equal(Warn, level)

	require.NoError(f.SetDisplayLevel("sharedmemory", Error))
	level, err = f.GetDisplayLevel("sharedmemory")
	require.NoError(err)
	require.Equal(Error, level)

	require.Equal([]string{"sharedmemory"}, f.GetLoggerNames())
	require.Error(f.SetLogLevel("unknown", Warn))
}
