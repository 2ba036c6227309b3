package playground

import (
	"fmt"
	"strings"

	"github.com/speakeasy-api/msplit"
	"github.com/speakeasy-api/msplit/pkg/asmfmt"
	"gopkg.in/yaml.v3"
)

// Range bounds used when a fixture leaves them out. The maximum matches the
// JVM limit on the code length of a single method.
const (
	DefaultMinSize = 2
	DefaultMaxSize = 65535
)

// Fixture is one method body plus its analysis bounds, written as YAML:
//
//	owner: com/example/Foo
//	name: sum
//	desc: (II)I
//	access: [public, static]
//	min: 2
//	max: 50
//	code: |
//	  ILOAD 0
//	  ILOAD 1
//	  IADD
//	  IRETURN
type Fixture struct {
	Owner  string   `yaml:"owner"`
	Name   string   `yaml:"name"`
	Desc   string   `yaml:"desc"`
	Access []string `yaml:"access,omitempty,flow"`
	Min    int      `yaml:"min,omitempty"`
	Max    int      `yaml:"max,omitempty"`
	Code   string   `yaml:"code"`
}

var fixtureKeys = map[string]bool{
	"owner":  true,
	"name":   true,
	"desc":   true,
	"access": true,
	"min":    true,
	"max":    true,
	"code":   true,
}

// ParseFixture decodes and validates a fixture document. Missing bounds are
// filled with DefaultMinSize and DefaultMaxSize.
func ParseFixture(src string) (*Fixture, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(src), &doc); err != nil {
		return nil, fmt.Errorf("fixture: invalid YAML: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, fmt.Errorf("fixture: empty document")
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("fixture must be an object")
	}

	// MappingNode stores keys and values as alternating entries
	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i]
		if !fixtureKeys[key.Value] {
			return nil, fmt.Errorf("fixture: unknown key %q on line %d", key.Value, key.Line)
		}
		if key.Value == "code" && root.Content[i+1].Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("fixture: 'code' must be a string")
		}
	}

	var f Fixture
	if err := root.Decode(&f); err != nil {
		return nil, fmt.Errorf("fixture: %w", err)
	}

	f.Owner = strings.TrimSpace(f.Owner)
	f.Name = strings.TrimSpace(f.Name)
	f.Desc = strings.TrimSpace(f.Desc)
	required := []struct{ key, value string }{
		{"owner", f.Owner},
		{"name", f.Name},
		{"desc", f.Desc},
		{"code", strings.TrimSpace(f.Code)},
	}
	for _, r := range required {
		if r.value == "" {
			return nil, fmt.Errorf("fixture requires '%s'", r.key)
		}
	}

	if f.Min == 0 {
		f.Min = DefaultMinSize
	}
	if f.Max == 0 {
		f.Max = DefaultMaxSize
	}
	return &f, nil
}

// Method assembles the fixture's code. The listing is returned alongside so
// callers can map label names back to instruction indices.
func (f *Fixture) Method() (*msplit.Method, *asmfmt.Listing, error) {
	access := 0
	for _, name := range f.Access {
		flag, ok := msplit.LookupAccess(strings.TrimSpace(name))
		if !ok {
			return nil, nil, fmt.Errorf("fixture: unknown access flag %q", name)
		}
		access |= flag
	}

	listing, err := asmfmt.Parse(f.Code)
	if err != nil {
		return nil, nil, fmt.Errorf("fixture: code: %w", err)
	}
	return listing.Method(access, f.Name, f.Desc), listing, nil
}
