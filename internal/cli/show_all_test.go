package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowAllCommand(t *testing.T) {
	opts := testRootOptions(t)

	out, err := execute(t, NewShowAllCommand(opts))
	require.NoError(t, err)
	assert.Equal(t, "show-all: off\n", out)

	out, err = execute(t, NewShowAllCommand(opts), "on")
	require.NoError(t, err)
	assert.Equal(t, "show-all: on\n", out)

	out, err = execute(t, NewShowAllCommand(opts))
	require.NoError(t, err)
	assert.Equal(t, "show-all: on\n", out, "the setting persists")

	out, err = execute(t, NewShowAllCommand(opts), "false")
	require.NoError(t, err)
	assert.Equal(t, "show-all: off\n", out)
}

func TestShowAllCommand_JSON(t *testing.T) {
	opts := testRootOptions(t)
	opts.Format = "json"

	out, err := execute(t, NewShowAllCommand(opts), "yes")
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   ShowAllResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, ShowAllResult{ShowAll: true, Changed: true}, resp.Data)
}

func TestShowAllCommand_InvalidArgument(t *testing.T) {
	opts := testRootOptions(t)

	_, err := execute(t, NewShowAllCommand(opts), "maybe")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `expected on or off, got "maybe"`)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestShowAllCommand_TooManyArgs(t *testing.T) {
	opts := testRootOptions(t)

	_, err := execute(t, NewShowAllCommand(opts), "on", "off")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts at most 1 arg")
}
