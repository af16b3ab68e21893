package harness

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/patience/internal/ir"
)

// TraceSnapshot is the golden form of a scenario run: a header line
// followed by one canonical JSON line per notification.
type TraceSnapshot struct {
	ScenarioName string
	Game         string
	Seed         uint64
	Trace        []ir.Notification
}

// Marshal renders the snapshot. Every line is canonical JSON, so equal
// runs produce equal bytes.
func (s *TraceSnapshot) Marshal() ([]byte, error) {
	var buf bytes.Buffer

	header, err := ir.MarshalCanonical(map[string]any{
		"scenario": s.ScenarioName,
		"game":     s.Game,
		"seed":     int64(s.Seed),
	})
	if err != nil {
		return nil, err
	}
	buf.Write(header)
	buf.WriteByte('\n')

	for _, n := range s.Trace {
		line, err := ir.MarshalCanonical(n.Canonical())
		if err != nil {
			return nil, err
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// RunWithGolden executes a scenario and compares the trace against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns an error if the scenario can not be run. Test failure (via
// goldie) occurs if the trace does not match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := assertGolden(t, scenario.Name, scenario, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against the golden file of
// scenario.
func AssertGolden(t *testing.T, scenario *Scenario, result *Result) error {
	t.Helper()
	return assertGolden(t, scenario.Name, scenario, result)
}

func assertGolden(t *testing.T, name string, scenario *Scenario, result *Result) error {
	t.Helper()

	snapshot := TraceSnapshot{
		ScenarioName: scenario.Name,
		Game:         scenario.Game,
		Seed:         scenario.Seed,
		Trace:        result.Trace,
	}
	data, err := snapshot.Marshal()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
	return nil
}
