package playground

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/speakeasy-api/msplit"
	"github.com/speakeasy-api/msplit/pkg/asmfmt"
	"github.com/speakeasy-api/msplit/splitexec"
)

// Analysis is the outcome of running the enumerator over a fixture.
type Analysis struct {
	Fixture     *Fixture
	Method      *msplit.Method
	Listing     *asmfmt.Listing
	SplitPoints []splitexec.SplitPoint
	// Err is the defect that stopped the enumeration, if any. SplitPoints
	// holds what was found before it.
	Err error
}

// Analyze assembles the fixture and collects its split points. Only fixture
// and configuration problems are returned as errors; a malformed method body
// ends up in Analysis.Err.
func Analyze(f *Fixture, opts ...splitexec.Options) (*Analysis, error) {
	m, listing, err := f.Method()
	if err != nil {
		return nil, err
	}

	s, err := splitexec.New(f.Owner, f.Min, f.Max, opts...)
	if err != nil {
		return nil, fmt.Errorf("fixture: %w", err)
	}

	sps, err := s.Collect(m)
	if err != nil && !errors.Is(err, splitexec.ErrDefect) {
		return nil, err
	}

	return &Analysis{
		Fixture:     f,
		Method:      m,
		Listing:     listing,
		SplitPoints: sps,
		Err:         err,
	}, nil
}

// Report is the YAML document produced by RunSplit.
type Report struct {
	Owner        string        `yaml:"owner"`
	Method       string        `yaml:"method"`
	Instructions int           `yaml:"instructions"`
	Min          int           `yaml:"min"`
	Max          int           `yaml:"max"`
	SplitPoints  []ReportEntry `yaml:"splitPoints"`
	Defect       string        `yaml:"defect,omitempty"`
}

// ReportEntry describes one split point. Stack types are descriptors.
type ReportEntry struct {
	Start         int      `yaml:"start"`
	Length        int      `yaml:"length"`
	First         string   `yaml:"first"`
	LocalsRead    []int    `yaml:"localsRead,flow"`
	LocalsWritten []int    `yaml:"localsWritten,flow"`
	StackIn       []string `yaml:"stackIn,flow"`
	StackOut      []string `yaml:"stackOut,flow"`
	Boundary      string   `yaml:"boundary"`
}

// Report converts the analysis into its serializable form.
func (a *Analysis) Report() *Report {
	r := &Report{
		Owner:        a.Fixture.Owner,
		Method:       a.Method.Name + a.Method.Desc,
		Instructions: len(a.Method.Instructions),
		Min:          a.Fixture.Min,
		Max:          a.Fixture.Max,
		SplitPoints:  make([]ReportEntry, 0, len(a.SplitPoints)),
	}
	for _, sp := range a.SplitPoints {
		r.SplitPoints = append(r.SplitPoints, ReportEntry{
			Start:         sp.Start,
			Length:        sp.Length,
			First:         firstInstruction(a.Method, sp),
			LocalsRead:    sp.LocalsRead,
			LocalsWritten: sp.LocalsWritten,
			StackIn:       descriptors(sp.NeededFromStackAtStart),
			StackOut:      descriptors(sp.PutOnStackAtEnd),
			Boundary:      SummarizeBoundary(BoundarySchema(sp)),
		})
	}
	if a.Err != nil {
		r.Defect = FormatDefect(a.Method, a.Err)
	}
	return r
}

// RunSplit parses a fixture, analyzes it and returns the YAML report.
func RunSplit(fixtureYAML string, opts ...splitexec.Options) (string, error) {
	f, err := ParseFixture(fixtureYAML)
	if err != nil {
		return "", err
	}

	a, err := Analyze(f, opts...)
	if err != nil {
		return "", err
	}

	out, err := yaml.Marshal(a.Report())
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}
	return string(out), nil
}

// FormatFixture reformats the fixture's code in canonical text assembly.
func FormatFixture(fixtureYAML string, cfg asmfmt.FormatCfg) (string, error) {
	f, err := ParseFixture(fixtureYAML)
	if err != nil {
		return "", err
	}
	m, _, err := f.Method()
	if err != nil {
		return "", err
	}
	return asmfmt.Format(m, cfg)
}

// firstInstruction returns the first real instruction of the range, skipping
// labels, line markers and frames.
func firstInstruction(m *msplit.Method, sp splitexec.SplitPoint) string {
	for i := sp.Start; i < sp.End() && i < len(m.Instructions); i++ {
		if insn := m.Instructions[i]; !insn.IsPseudo() {
			return insn.String()
		}
	}
	return ""
}

func descriptors(types []msplit.Type) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.Descriptor()
	}
	return out
}
