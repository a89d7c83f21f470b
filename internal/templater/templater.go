// Package templater mines recurring message templates online: every line
// fed to it is tokenized, routed through a length -> first/last-token ->
// template hierarchy, and folded into the best-matching template, which
// generalizes the positions that differ. Positions whose observed values
// turn out to be a small, closed, pairwise enumeration (not free text) are
// split back out into separate, more specific templates.
package templater

import (
	"sort"
	"sync"

	"golang.org/x/exp/maps"

	"github.com/fidde/logtemplater/internal/tokenizer"
)

// Config controls tokenization and the merge threshold.
type Config struct {
	// SimilarityThreshold is the fraction of matching positions (see
	// templateNode.similarity) that a line must exceed to fold into an
	// existing template rather than start a new one.
	SimilarityThreshold float64
	// Variant selects the tokenizer word-boundary rule applied to every
	// incoming line.
	Variant tokenizer.Variant
}

// DefaultConfig returns sensible defaults for batch processing of syslog
// archives.
func DefaultConfig() Config {
	return Config{
		SimilarityThreshold: 0.5,
		Variant:             tokenizer.SpecialSeparators,
	}
}

// Templater mines and holds the online template set. It is safe for
// concurrent use.
type Templater struct {
	mu     sync.Mutex
	cfg    Config
	length *lengthLayer
}

// New creates an empty Templater.
func New(cfg Config) *Templater {
	return &Templater{
		cfg:    cfg,
		length: newLengthLayer(cfg.SimilarityThreshold),
	}
}

// Add tokenizes message, folds it into the best matching template (or
// starts a new one), and returns the resulting template string.
func (t *Templater) Add(message string) string {
	tokens := tokenizer.All(message, t.cfg.Variant)

	t.mu.Lock()
	defer t.mu.Unlock()

	tokenL := t.length.route(tokens)
	templL := tokenL.route(tokens)
	node := templL.addOrUpdate(tokens)
	return node.render()
}

// TemplateSummary is one mined template, its observation count, and the
// distinct values recorded per generalized position. Positions pruned for
// exceeding the parameter table bound are not listed in Params.
type TemplateSummary struct {
	Template string
	Matches  int
	Params   map[int][]string
	// ExceededPositions lists, ascending, the generalized positions whose
	// parameter table was evicted for exceeding the per-node tracking
	// bound; their values are no longer enumerated in Params.
	ExceededPositions []int
}

// Dump returns every mined template, sorted by template string for
// deterministic output.
func (t *Templater) Dump() []TemplateSummary {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out []TemplateSummary
	lengths := maps.Keys(t.length.byLength)
	sort.Ints(lengths)
	for _, ln := range lengths {
		tokenL := t.length.byLength[ln]
		for _, templL := range tokenL.allTemplLayers() {
			for _, node := range templL.nodes {
				out = append(out, TemplateSummary{
					Template:          node.render(),
					Matches:           node.matches,
					Params:            node.paramValueDump(),
					ExceededPositions: node.exceededPositionDump(),
				})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Template < out[j].Template })
	return out
}

// Count returns the number of distinct templates mined so far.
func (t *Templater) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	total := 0
	for _, tokenL := range t.length.byLength {
		for _, templL := range tokenL.allTemplLayers() {
			total += len(templL.nodes)
		}
	}
	return total
}
