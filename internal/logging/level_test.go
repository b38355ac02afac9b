package logging

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"", LevelInfo},
		{"warn", LevelWarning},
		{"warning", LevelWarning},
		{"error", LevelError},
		{"critical", LevelCritical},
		{"fatal", LevelCritical},
		{"off", LevelOff},
		{"disabled", LevelOff},
		{"WARNING", LevelWarning},
		{"  Info  ", LevelInfo},
	}

	for _, tc := range cases {
		got, err := ParseLevel(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestParseLevelUnknown(t *testing.T) {
	_, err := ParseLevel("verbose")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "verbose")
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "trace", LevelTrace.String())
	assert.Equal(t, "warning", LevelWarning.String())
	assert.Equal(t, "critical", LevelCritical.String())
	assert.Equal(t, "off", LevelOff.String())
	assert.Equal(t, "level(99)", Level(99).String())
}

func TestLevelOrdering(t *testing.T) {
	assert.True(t, LevelTrace < LevelDebug)
	assert.True(t, LevelDebug < LevelInfo)
	assert.True(t, LevelInfo < LevelWarning)
	assert.True(t, LevelWarning < LevelError)
	assert.True(t, LevelError < LevelCritical)
	assert.True(t, LevelCritical < LevelOff)
}

func TestZerologMapping(t *testing.T) {
	assert.Equal(t, zerolog.TraceLevel, LevelTrace.zerologLevel())
	assert.Equal(t, zerolog.InfoLevel, LevelInfo.zerologLevel())
	assert.Equal(t, zerolog.FatalLevel, LevelCritical.zerologLevel())
	assert.Equal(t, zerolog.Disabled, LevelOff.zerologLevel())
}
