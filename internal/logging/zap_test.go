package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_LevelsAndFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapLogger(zap.New(core))
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", "1")
	log.Info(ctx, "inf", "b", "2")
	log.Warn(ctx, "wrn", "c", "3")
	log.Error(ctx, "err", "d", "4")

	entries := logs.AllUntimed()
	require.Len(t, entries, 4)

	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "dbg", entries[0].Message)
	assert.Equal(t, "1", entries[0].ContextMap()["a"])

	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
	assert.Equal(t, "4", entries[3].ContextMap()["d"])
}

func TestZapLogger_With(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := NewZapLogger(zap.New(core)).With("module", "web")

	log.Info(context.Background(), "hello", "k", "v")
	log.Debug(context.Background(), "filtered out")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "web", fields["module"])
	assert.Equal(t, "v", fields["k"])
}

func TestNew(t *testing.T) {
	tests := []struct {
		format  string
		level   string
		want    string
		wantErr bool
	}{
		{format: FormatJSON, level: "info", want: `"msg":"hello"`},
		{format: FormatText, level: "debug", want: "msg=hello"},
		{format: FormatZap, level: "info", want: `"msg":"hello"`},
		{format: "xml", level: "info", wantErr: true},
		{format: FormatJSON, level: "loud", wantErr: true},
		{format: FormatZap, level: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.format+"/"+tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			log, err := New(&buf, tt.format, tt.level)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			log.Info(context.Background(), "hello")
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}
