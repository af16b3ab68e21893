package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScenario writes content next to a copy of the ladder game and
// returns the scenario path.
func writeScenario(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	game, err := os.ReadFile(filepath.Join("testdata", "games", "ladder.lua"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ladder.lua"), game, 0644))

	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	path := writeScenario(t, `
name: test_scenario
description: "Test scenario for validation"
game: ladder.lua
seed: 9
flow:
  - action: new_game
  - action: drag
    from: 0
    index: 1
    to: 1
    expect:
      moved: true
      score: 10
assertions:
  - type: trace_contains
    kind: append_card
    slot: 1
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "test_scenario", scenario.Name)
	assert.Equal(t, "Test scenario for validation", scenario.Description)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "ladder.lua"), scenario.Game)
	assert.Equal(t, uint64(9), scenario.Seed)
	require.Len(t, scenario.Flow, 2)
	assert.Equal(t, ActionDrag, scenario.Flow[1].Action)
	assert.Equal(t, 0, *scenario.Flow[1].From)
	assert.Equal(t, 1, *scenario.Flow[1].Index)
	assert.Equal(t, 1, *scenario.Flow[1].To)
	assert.True(t, *scenario.Flow[1].Expect.Moved)
	assert.Equal(t, 10, *scenario.Flow[1].Expect.Score)
	require.Len(t, scenario.Assertions, 1)
	assert.Equal(t, 1, *scenario.Assertions[0].Slot)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownField(t *testing.T) {
	path := writeScenario(t, `
name: typo
description: "misspelled assertions key"
game: ladder.lua
flow:
  - action: new_game
assertion:
  - type: trace_contains
    kind: new_slot
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "missing name",
			content: `
description: d
game: ladder.lua
flow: [{action: new_game}]
assertions: [{type: trace_contains, kind: new_slot}]
`,
			wantErr: "name is required",
		},
		{
			name: "missing game file",
			content: `
name: n
description: d
game: nowhere.lua
flow: [{action: new_game}]
assertions: [{type: trace_contains, kind: new_slot}]
`,
			wantErr: "game file not found",
		},
		{
			name: "empty flow",
			content: `
name: n
description: d
game: ladder.lua
flow: []
assertions: [{type: trace_contains, kind: new_slot}]
`,
			wantErr: "flow list is required",
		},
		{
			name: "click without slot",
			content: `
name: n
description: d
game: ladder.lua
flow: [{action: click}]
assertions: [{type: trace_contains, kind: new_slot}]
`,
			wantErr: "flow[0]: slot is required for click",
		},
		{
			name: "drag without target",
			content: `
name: n
description: d
game: ladder.lua
flow: [{action: drag, from: 0}]
assertions: [{type: trace_contains, kind: new_slot}]
`,
			wantErr: "from and to are required",
		},
		{
			name: "unknown action",
			content: `
name: n
description: d
game: ladder.lua
flow: [{action: shuffle}]
assertions: [{type: trace_contains, kind: new_slot}]
`,
			wantErr: `unknown action "shuffle"`,
		},
		{
			name: "unknown expected state",
			content: `
name: n
description: d
game: ladder.lua
flow: [{action: new_game, expect: {state: sleeping}}]
assertions: [{type: trace_contains, kind: new_slot}]
`,
			wantErr: `unknown game state "sleeping"`,
		},
		{
			name: "unknown notification kind",
			content: `
name: n
description: d
game: ladder.lua
flow: [{action: new_game}]
assertions: [{type: trace_count, kind: shuffled, count: 1}]
`,
			wantErr: `unknown notification kind "shuffled"`,
		},
		{
			name: "count missing",
			content: `
name: n
description: d
game: ladder.lua
flow: [{action: new_game}]
assertions: [{type: trace_count, kind: new_slot}]
`,
			wantErr: "count must be non-negative",
		},
		{
			name: "slot_cards without expectation",
			content: `
name: n
description: d
game: ladder.lua
flow: [{action: new_game}]
assertions: [{type: slot_cards, slot: 0}]
`,
			wantErr: "count or cards is required",
		},
		{
			name: "unknown assertion type",
			content: `
name: n
description: d
game: ladder.lua
flow: [{action: new_game}]
assertions: [{type: eventually}]
`,
			wantErr: `unknown assertion type "eventually"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid scenario")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenario_TestdataScenarios(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("testdata", "scenarios", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			_, err := LoadScenario(file)
			assert.NoError(t, err)
		})
	}
}
