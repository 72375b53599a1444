package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRealRunner_ExitCode(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		expectCode int
	}{
		{"exit 0", []string{"-c", "exit 0"}, 0},
		{"exit 1", []string{"-c", "exit 1"}, 1},
		{"exit 42", []string{"-c", "exit 42"}, 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NewRealRunner().Run(context.Background(), "sh", tt.args, RunOpts{})
			require.NoError(t, err)
			assert.Equal(t, tt.expectCode, result.ExitCode)
		})
	}
}

func TestRealRunner_StdoutStderr(t *testing.T) {
	var out, errOut bytes.Buffer
	result, err := NewRealRunner().Run(context.Background(), "sh", []string{"-c", "echo stdout; echo stderr >&2"}, RunOpts{
		Stdout: &out,
		Stderr: &errOut,
	})
	require.NoError(t, err)

	assert.Contains(t, result.Stdout, "stdout")
	assert.Contains(t, result.Stderr, "stderr")
	assert.Equal(t, "stdout\n", out.String())
	assert.Equal(t, "stderr\n", errOut.String())
}

func TestRealRunner_DirAndEnv(t *testing.T) {
	dir := t.TempDir()
	result, err := NewRealRunner().Run(context.Background(), "sh", []string{"-c", "pwd; echo $VITEPAGES_TEST"}, RunOpts{
		Dir: dir,
		Env: map[string]string{"VITEPAGES_TEST": "hello"},
	})
	require.NoError(t, err)
	assert.Contains(t, result.Stdout, "hello")
	lines := strings.Split(strings.TrimSpace(result.Stdout), "\n")
	assert.True(t, strings.HasSuffix(lines[0], dir[strings.LastIndex(dir, "/"):]))
}

func TestRealRunner_NotFound(t *testing.T) {
	_, err := NewRealRunner().Run(context.Background(), "vitepages-definitely-missing-binary", nil, RunOpts{})
	assert.Error(t, err)
}

func TestRealRunner_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewRealRunner().Run(ctx, "sh", []string{"-c", "sleep 5"}, RunOpts{})
	assert.Error(t, err)
}

type fakeRunner struct {
	res CmdResult
	err error
}

func (f fakeRunner) Run(context.Context, string, []string, RunOpts) (CmdResult, error) {
	return f.res, f.err
}

func TestRun(t *testing.T) {
	_, err := Run(context.Background(), fakeRunner{}, "npm", []string{"install"}, RunOpts{})
	require.NoError(t, err)

	_, err = Run(context.Background(), fakeRunner{res: CmdResult{ExitCode: 3, Stderr: "warn\nnpm ERR! boom\n"}}, "npm", []string{"install"}, RunOpts{})
	var ce *CommandError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, 3, ce.ExitCode)
	assert.Equal(t, "npm install exited with code 3: npm ERR! boom", err.Error())
	assert.Equal(t, 3, ExitCode(fmt.Errorf("wrapped: %w", err), 1))

	boom := errors.New("exec: not found")
	_, err = Run(context.Background(), fakeRunner{err: boom}, "npm", nil, RunOpts{})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, ExitCode(err, 1))
}
