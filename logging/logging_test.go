package logging

import (
	"testing"

	"github.com/labstack/gommon/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want log.Lvl
	}{
		{"debug", log.DEBUG},
		{" INFO ", log.INFO},
		{"", log.INFO},
		{"warning", log.WARN},
		{"error", log.ERROR},
		{"off", log.OFF},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestSetup(t *testing.T) {
	defer log.SetLevel(log.INFO)
	require.NoError(t, Setup("warn"))
	assert.Equal(t, log.WARN, log.Level())
	assert.Error(t, Setup("nope"))
}
