// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logger

import (
	"bytes"
	"errors"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromConfig(t *testing.T) {
	tests := []struct {
		level   string
		want    log.Level
		wantErr bool
	}{
		{level: "", want: log.InfoLevel},
		{level: "debug", want: log.DebugLevel},
		{level: "WARN", want: log.WarnLevel},
		{level: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			l, err := NewFromConfig(&bytes.Buffer{}, tt.level)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, l.GetLevel())
		})
	}
}

func TestHelpers(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithLevel(&buf, log.DebugLevel)

	l.FileConverted("in.md", "out.json", []string{"markdown", "ast"})
	l.ConversionError("bad.md", []string{"markdown", "ast"}, errors.New("boom"))
	l.Duplicate("language", "ast")

	out := buf.String()
	assert.Contains(t, out, "file converted")
	assert.Contains(t, out, "markdown -> ast")
	assert.Contains(t, out, "boom")
	assert.Contains(t, out, "already registered")
}

func TestDiscard(t *testing.T) {
	l := Discard()
	assert.NotPanics(t, func() { l.Info("nothing") })
}
