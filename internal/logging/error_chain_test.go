package logging

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildErrorChain(t *testing.T) {
	root := errors.New("disk full")
	mid := fmt.Errorf("flush segment: %w", root)
	outer := fmt.Errorf("write frame: %w", mid)

	chain, rootMsg := buildErrorChain(outer)
	require.Equal(t, []string{
		"write frame: flush segment: disk full",
		"flush segment: disk full",
		"disk full",
	}, chain)
	assert.Equal(t, "disk full", rootMsg)
}

func TestBuildErrorChainSingle(t *testing.T) {
	err := errors.New("standalone failure")
	chain, root := buildErrorChain(err)
	assert.Equal(t, []string{"standalone failure"}, chain)
	assert.Equal(t, "standalone failure", root)
}

func TestBuildErrorChainNil(t *testing.T) {
	chain, root := buildErrorChain(nil)
	assert.Empty(t, chain)
	assert.Empty(t, root)
}

// selfErr unwraps to itself, simulating a cyclic cause chain.
type selfErr struct{}

func (e *selfErr) Error() string { return "loops forever" }
func (e *selfErr) Unwrap() error { return e }

func TestBuildErrorChainStopsOnCycle(t *testing.T) {
	chain, root := buildErrorChain(&selfErr{})
	assert.Equal(t, []string{"loops forever"}, chain)
	assert.Equal(t, "loops forever", root)
}

func TestBuildErrorChainDepthBound(t *testing.T) {
	err := errors.New("bottom")
	for i := 0; i < 80; i++ {
		err = fmt.Errorf("layer %d: %w", i, err)
	}

	chain, _ := buildErrorChain(err)
	assert.Len(t, chain, 50)
}

func TestJoinChain(t *testing.T) {
	assert.Equal(t, "", joinChain(nil))
	assert.Equal(t, "a", joinChain([]string{"a"}))
	assert.Equal(t, "a -> b -> c", joinChain([]string{"a", "b", "c"}))
}

func TestErrFieldLogsChain(t *testing.T) {
	lg, logPath := newFileLogger(t, "debug")

	root := errors.New("connection refused")
	mid := fmt.Errorf("dial control channel: %w", root)
	outer := fmt.Errorf("start upload: %w", mid)
	lg.ErrorWith().Err(outer).Msg("upload failed")

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	s := string(content)

	require.Contains(t, s, `"error":"start upload: dial control channel: connection refused"`)
	require.Contains(t, s, `"error_chain":["start upload: dial control channel: connection refused","dial control channel: connection refused","connection refused"]`)
	require.Contains(t, s, `"error_root":"connection refused"`)
	require.Contains(t, s, `"error_history":"start upload: dial control channel: connection refused -> dial control channel: connection refused -> connection refused"`)
}

func TestErrFieldNilError(t *testing.T) {
	lg, logPath := newFileLogger(t, "debug")

	lg.ErrorWith().Err(nil).Msg("no cause attached")

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	s := string(content)

	require.Contains(t, s, "no cause attached")
	assert.NotContains(t, s, "error_chain")
	assert.NotContains(t, s, "error_root")
	assert.NotContains(t, s, "error_history")
}

func TestAnErrFieldLogsNamedChain(t *testing.T) {
	lg, logPath := newFileLogger(t, "debug")

	cause := fmt.Errorf("probe stream: %w", errors.New("timeout"))
	lg.WarnWith().AnErr("probe_err", cause).Msg("probe degraded")

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)
	s := string(content)

	require.Contains(t, s, `"probe_err":"probe stream: timeout"`)
	require.Contains(t, s, `"probe_err_chain":["probe stream: timeout","timeout"]`)
	require.Contains(t, s, `"probe_err_root":"timeout"`)
	require.Contains(t, s, `"probe_err_history":"probe stream: timeout -> timeout"`)
}
