package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario is a scripted game: a deal, a list of gestures, and the checks
// that must hold afterwards.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Game is the path of the Lua game definition, relative to the
	// scenario file.
	Game string `yaml:"game"`

	// Seed is dealt by new_game.
	Seed uint64 `yaml:"seed"`

	// GameID is the ID given to each deal. Defaults to DefaultGameID.
	GameID string `yaml:"game_id,omitempty"`

	// Width and Height are the table area in pixels. Default 800x600.
	Width  float64 `yaml:"width,omitempty"`
	Height float64 `yaml:"height,omitempty"`

	// Flow is the sequence of gestures.
	Flow []FlowStep `yaml:"flow"`

	// Assertions validate the trace and final state.
	Assertions []Assertion `yaml:"assertions"`
}

// DefaultGameID is used when a scenario does not name one.
const DefaultGameID = "scenario-game"

// Flow actions.
const (
	ActionNewGame     = "new_game"
	ActionRestart     = "restart"
	ActionClick       = "click"
	ActionDoubleClick = "double_click"
	ActionDrag        = "drag"
	ActionUndo        = "undo"
	ActionRedo        = "redo"
)

// FlowStep is one gesture.
type FlowStep struct {
	// Action is one of the Action constants.
	Action string `yaml:"action"`

	// Slot is the target of click and double_click.
	Slot *int `yaml:"slot,omitempty"`

	// From, Index and To describe a drag. Index is the position of the
	// picked card in From; the top card when omitted.
	From  *int `yaml:"from,omitempty"`
	Index *int `yaml:"index,omitempty"`
	To    *int `yaml:"to,omitempty"`

	// Expect is checked after the step. If nil, the step must not fail.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause is the expected outcome of one step. Only the fields that
// are set are checked.
type ExpectClause struct {
	// Moved is whether the step counted as a move.
	Moved *bool `yaml:"moved,omitempty"`

	// State is the game state name after the step.
	State string `yaml:"state,omitempty"`

	// Score is the score after the step.
	Score *int `yaml:"score,omitempty"`

	// Error is whether the step returns an error.
	Error bool `yaml:"error,omitempty"`
}

// Assertion validates the trace or the final state.
type Assertion struct {
	// Type is one of the Assert constants.
	Type string `yaml:"type"`

	// Kind is the notification kind (trace_contains, trace_count).
	Kind string `yaml:"kind,omitempty"`

	// Kinds is the expected order (trace_order).
	Kinds []string `yaml:"kinds,omitempty"`

	// Slot narrows trace assertions and names the slot for slot_cards.
	Slot *int `yaml:"slot,omitempty"`

	// Card matches the card of insert and append notifications, written
	// as in ir.CardData.String, e.g. "A♥(up)".
	Card string `yaml:"card,omitempty"`

	// State matches the state of state notifications.
	State string `yaml:"state,omitempty"`

	// Count is the expected number of notifications (trace_count) or
	// cards (slot_cards).
	Count *int `yaml:"count,omitempty"`

	// Cards is the expected slot contents bottom to top (slot_cards).
	Cards []string `yaml:"cards,omitempty"`

	// Expect holds the expected fields (final_state, recorded).
	Expect map[string]any `yaml:"expect,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertFinalState    = "final_state"
	AssertSlotCards     = "slot_cards"
	AssertRecorded      = "recorded"
)

// LoadScenario reads and parses a scenario YAML file. The game path is
// resolved relative to the file. Unknown fields are rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}
	if scenario.Game != "" && !filepath.IsAbs(scenario.Game) {
		scenario.Game = filepath.Join(filepath.Dir(path), scenario.Game)
	}

	if err := validateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return scenario, nil
}

// ParseScenario decodes a scenario without validating it.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Game == "" {
		return fmt.Errorf("game is required")
	}
	if _, err := os.Stat(s.Game); os.IsNotExist(err) {
		return fmt.Errorf("game file not found: %s", s.Game)
	}
	if s.Width < 0 || s.Height < 0 {
		return fmt.Errorf("table size must not be negative")
	}
	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Flow {
		if err := validateStep(i, step); err != nil {
			return err
		}
	}
	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(index int, step FlowStep) error {
	switch step.Action {
	case "":
		return fmt.Errorf("flow[%d]: action is required", index)
	case ActionNewGame, ActionRestart, ActionUndo, ActionRedo:
	case ActionClick, ActionDoubleClick:
		if step.Slot == nil {
			return fmt.Errorf("flow[%d]: slot is required for %s", index, step.Action)
		}
	case ActionDrag:
		if step.From == nil || step.To == nil {
			return fmt.Errorf("flow[%d]: from and to are required for drag", index)
		}
	default:
		return fmt.Errorf("flow[%d]: unknown action %q", index, step.Action)
	}
	if step.Expect != nil && step.Expect.State != "" {
		if _, err := parseState(step.Expect.State); err != nil {
			return fmt.Errorf("flow[%d].expect: %w", index, err)
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertTraceContains:
		if a.Kind == "" {
			return fmt.Errorf("assertions[%d]: kind is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Kinds) == 0 {
			return fmt.Errorf("assertions[%d]: kinds list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Kind == "" {
			return fmt.Errorf("assertions[%d]: kind is required for trace_count", index)
		}
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertFinalState, AssertRecorded:
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for %s", index, a.Type)
		}
	case AssertSlotCards:
		if a.Slot == nil {
			return fmt.Errorf("assertions[%d]: slot is required for slot_cards", index)
		}
		if a.Count == nil && a.Cards == nil {
			return fmt.Errorf("assertions[%d]: count or cards is required for slot_cards", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	kinds := a.Kinds
	if a.Kind != "" {
		kinds = append([]string{a.Kind}, kinds...)
	}
	for _, k := range kinds {
		if _, err := parseKind(k); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
	}
	return nil
}
