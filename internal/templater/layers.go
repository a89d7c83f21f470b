package templater

import "github.com/fidde/logtemplater/internal/tokenizer"

// templLayer holds the candidate templates sharing one (length, routing
// bucket) key; a new line is matched against every candidate and folded
// into whichever clears simThreshold with the highest similarity. The
// threshold is baked into each node's similarity score (score =
// matchFraction - simThreshold), so "clears the bar" is simply score > 0.
type templLayer struct {
	nodes        []*templateNode
	simThreshold float64
}

func newTemplLayer(simThreshold float64) *templLayer {
	return &templLayer{simThreshold: simThreshold}
}

// match returns the best-scoring node for tokens and its score, or nil if
// no candidate clears simThreshold.
func (l *templLayer) match(tokens []tokenizer.Token) (*templateNode, float64) {
	var best *templateNode
	bestScore := 0.0
	for _, node := range l.nodes {
		score := node.similarity(tokens, l.simThreshold)
		if score > bestScore {
			bestScore = score
			best = node
		}
	}
	if best == nil {
		return nil, 0
	}
	return best, bestScore
}

// addOrUpdate folds tokens into the best matching node, creating one if
// none clears the threshold, and splits the node afterward if its
// parameter table reveals a bijection between two positions.
func (l *templLayer) addOrUpdate(tokens []tokenizer.Token) *templateNode {
	node, _ := l.match(tokens)
	if node == nil {
		node = newTemplateNode(tokens)
		l.nodes = append(l.nodes, node)
		return node
	}
	node.update(tokens)
	if children := node.bijectionSplit(); children != nil {
		l.replace(node, children)
		if child, _ := l.match(tokens); child != nil {
			return child
		}
	}
	return node
}

func (l *templLayer) replace(old *templateNode, children []*templateNode) {
	out := make([]*templateNode, 0, len(l.nodes)-1+len(children))
	for _, n := range l.nodes {
		if n == old {
			continue
		}
		out = append(out, n)
	}
	l.nodes = append(out, children...)
}

// tokenLayer routes a tokenized line to a templLayer by its first or last
// token, falling back to a shared wildcard bucket when both ends look
// like parameters (so routing by either end would be unreliable).
type tokenLayer struct {
	byFirstToken map[string]*templLayer
	byLastToken  map[string]*templLayer
	wildcard     *templLayer
	simThreshold float64
}

func newTokenLayer(simThreshold float64) *tokenLayer {
	return &tokenLayer{
		byFirstToken: make(map[string]*templLayer),
		byLastToken:  make(map[string]*templLayer),
		wildcard:     newTemplLayer(simThreshold),
		simThreshold: simThreshold,
	}
}

func (t *tokenLayer) route(tokens []tokenizer.Token) *templLayer {
	if len(tokens) == 0 {
		return t.wildcard
	}
	first, last := tokens[0].Word, tokens[len(tokens)-1].Word
	firstIsParam := isPossibleParam(first)
	lastIsParam := isPossibleParam(last)

	switch {
	case firstIsParam && lastIsParam:
		return t.wildcard
	case !firstIsParam:
		layer, ok := t.byFirstToken[first]
		if !ok {
			layer = newTemplLayer(t.simThreshold)
			t.byFirstToken[first] = layer
		}
		return layer
	default:
		layer, ok := t.byLastToken[last]
		if !ok {
			layer = newTemplLayer(t.simThreshold)
			t.byLastToken[last] = layer
		}
		return layer
	}
}

func (t *tokenLayer) allTemplLayers() []*templLayer {
	layers := make([]*templLayer, 0, len(t.byFirstToken)+len(t.byLastToken)+1)
	for _, l := range t.byFirstToken {
		layers = append(layers, l)
	}
	for _, l := range t.byLastToken {
		layers = append(layers, l)
	}
	return append(layers, t.wildcard)
}

// lengthLayer routes a tokenized line to a tokenLayer by its token count:
// templates of different lengths never merge.
type lengthLayer struct {
	byLength     map[int]*tokenLayer
	simThreshold float64
}

func newLengthLayer(simThreshold float64) *lengthLayer {
	return &lengthLayer{byLength: make(map[int]*tokenLayer), simThreshold: simThreshold}
}

func (l *lengthLayer) route(tokens []tokenizer.Token) *tokenLayer {
	layer, ok := l.byLength[len(tokens)]
	if !ok {
		layer = newTokenLayer(l.simThreshold)
		l.byLength[len(tokens)] = layer
	}
	return layer
}
