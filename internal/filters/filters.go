// Package filters normalizes the variable parts of a log line — addresses,
// identifiers, timestamps, sizes, durations — into fixed placeholder
// tokens before tokenization and distance computation, so two lines that
// differ only in their parameter values present an identical skeleton to
// the rest of the pipeline.
package filters

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Pattern is one normalization rule, loadable from YAML.
type Pattern struct {
	Name        string `yaml:"name"`
	Regex       string `yaml:"regex"`
	Replacement string `yaml:"replacement"`
	Description string `yaml:"description"`
}

// PatternsConfig is the top-level shape of a patterns YAML file.
type PatternsConfig struct {
	Patterns []Pattern `yaml:"patterns"`
}

// Filter is one compiled, applyable normalization rule: a pure
// string-to-string transform.
type Filter struct {
	Name        string
	Description string
	regex       *regexp.Regexp
	replacement string
}

// Apply runs the filter's replacement over line, returning the result.
func (f Filter) Apply(line string) string {
	return f.regex.ReplaceAllString(line, f.replacement)
}

func compile(p Pattern) (Filter, error) {
	re, err := regexp.Compile(p.Regex)
	if err != nil {
		return Filter{}, fmt.Errorf("compiling filter %s: %w", p.Name, err)
	}
	return Filter{Name: p.Name, Description: p.Description, regex: re, replacement: p.Replacement}, nil
}

// Array is an ordered composite of filters applied in LIFO order: the most
// recently added filter runs first. Prepending rather than appending lets
// callers layer more specific overrides (e.g. a libvirtd-specific rule) on
// top of the fixed base set without reordering it.
type Array struct {
	filters []Filter
}

// NewArray builds an Array from filters already in application order
// (index 0 runs first); later calls to Add still take precedence over all
// of them, consistent with Add's LIFO semantics.
func NewArray(filters ...Filter) *Array {
	a := &Array{}
	for i := len(filters) - 1; i >= 0; i-- {
		a.Add(filters[i])
	}
	return a
}

// Add prepends f so it is applied before every filter already in the
// array.
func (a *Array) Add(f Filter) {
	a.filters = append([]Filter{f}, a.filters...)
}

// Apply runs every filter over line in turn, most recently added first,
// and returns the fully normalized result.
func (a *Array) Apply(line string) string {
	for _, f := range a.filters {
		line = f.Apply(line)
	}
	return line
}

// Len returns the number of filters in the array.
func (a *Array) Len() int {
	return len(a.filters)
}

// LoadPatterns reads and compiles a patterns YAML file.
func LoadPatterns(path string) ([]Filter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading patterns file: %w", err)
	}
	var cfg PatternsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing patterns YAML: %w", err)
	}
	filters := make([]Filter, 0, len(cfg.Patterns))
	for _, p := range cfg.Patterns {
		f, err := compile(p)
		if err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	return filters, nil
}

// NewArrayFromFile loads patterns from path and builds an Array applying
// them in file order, so the first entry in the file runs first.
func NewArrayFromFile(path string) (*Array, error) {
	loaded, err := LoadPatterns(path)
	if err != nil {
		return nil, err
	}
	return NewArray(loaded...), nil
}
