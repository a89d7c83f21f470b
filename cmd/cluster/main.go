// Package main is the entry point for the cluster tool: it parses a
// syslog-style archive, normalizes each message, groups structurally
// similar lines together, and writes the normalized lines, cluster
// assignments, and pairwise distances back out.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/fidde/logtemplater/internal/cache"
	"github.com/fidde/logtemplater/internal/clustering"
	"github.com/fidde/logtemplater/internal/filters"
	"github.com/fidde/logtemplater/internal/syslogline"
	"github.com/fidde/logtemplater/internal/tokenizer"
	"github.com/fidde/logtemplater/internal/wed"
)

// lineHash is the cache.HashFunc used to canonicalize a line-index pair for
// the symmetric distance cache below: WED is symmetric, so (i,j) and (j,i)
// must memoize to the same entry.
func lineHash(i int) uint64 { return uint64(i) }

// defaultLineFormat is assumed when -format is not given: a traditional
// (BSD-style) syslog line with no PID-bearing process tag required.
const defaultLineFormat = "${DATE} ${ORIGIN} ${MESSAGE}"

// fallbackSimilarityThreshold is used when the distance distribution has no
// variation to split on (fewer than two distinct pairwise distances), so
// clustering.Threshold cannot classify a cutoff.
const fallbackSimilarityThreshold = 0.25

func main() {
	formatString, patternsFile, args := extractFlags(os.Args[1:])
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: cluster [-format <fmt>] [-patterns <file>] <input-log>")
		os.Exit(1)
	}
	input := args[0]

	lineFormat, err := syslogline.NewFormat(formatString)
	if err != nil {
		log.Fatalf("compiling line format %q: %v", formatString, err)
	}

	rawLines, err := readLines(input)
	if err != nil {
		log.Fatalf("reading %s: %v", input, err)
	}

	filterArray, err := loadFilters(patternsFile)
	if err != nil {
		log.Fatalf("loading filters: %v", err)
	}

	progress := isatty.IsTerminal(os.Stdout.Fd())
	if progress {
		fmt.Printf("clustering %s lines from %s\n", humanize.Comma(int64(len(rawLines))), input)
	}

	var parsed []syslogline.Line
	var messages []string
	for i, raw := range rawLines {
		line, err := lineFormat.Parse(raw)
		if err != nil {
			log.Printf("skipping line %d: %v", i+1, err)
			continue
		}
		line.Message = filterArray.Apply(line.Message)
		parsed = append(parsed, line)
		messages = append(messages, line.Message)
	}

	n := len(parsed)
	tokens := make([][]string, n)
	for i, msg := range messages {
		tokens[i] = tokenizer.Words(tokenizer.All(msg, tokenizer.SpecialSeparators))
	}

	if err := writeFiltered(input+"-filtered", parsed); err != nil {
		log.Fatalf("writing filtered output: %v", err)
	}

	distances := cache.New[cache.SymmetricPair[int], float64]()
	var sorted []float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			key := cache.NewSymmetricPair(i, j, lineHash)
			d := distances.GetOrCompute(key, func() float64 { return wed.Default(tokens[i], tokens[j]) })
			sorted = append(sorted, d)
		}
	}

	threshold := fallbackSimilarityThreshold
	sortedDistances := append([]float64(nil), sorted...)
	sort.Float64s(sortedDistances)
	if t, err := clustering.Threshold(sortedDistances); err == nil {
		threshold = t
	}

	clusterIDs := assignClusters(n, distances, threshold)

	if err := writeClustered(input+"-clustered", messages, clusterIDs); err != nil {
		log.Fatalf("writing clustered output: %v", err)
	}
	if err := writeDistances(input+"-wed-values", n, distances); err != nil {
		log.Fatalf("writing distances: %v", err)
	}

	if progress {
		fmt.Printf("wrote %s clusters from %s parsed lines\n",
			humanize.Comma(int64(countClusters(clusterIDs))), humanize.Comma(int64(n)))
	}
}

// assignClusters computes the agglomerative clustering of n lines,
// connecting any pair whose weighted edit distance falls at or under
// threshold.
func assignClusters(n int, distances *cache.Cache[cache.SymmetricPair[int], float64], threshold float64) []int {
	connected := func(i, j int) bool {
		if i == j {
			return true
		}
		d, _ := distances.Get(cache.NewSymmetricPair(i, j, lineHash))
		return d <= threshold
	}

	clusters := clustering.Agglomerative(n, connected)
	ids := make([]int, n)
	for clusterID, cluster := range clusters {
		for line := range cluster {
			ids[line] = clusterID
		}
	}
	return ids
}

func countClusters(ids []int) int {
	seen := make(map[int]struct{})
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return len(seen)
}

func loadFilters(patternsFile string) (*filters.Array, error) {
	if patternsFile == "" {
		return filters.NewArray(filters.DefaultFilters()...), nil
	}
	return filters.NewArrayFromFile(patternsFile)
}

// extractFlags pulls the optional -format and -patterns flags out of args,
// returning the remaining positional arguments.
func extractFlags(args []string) (formatString, patternsFile string, rest []string) {
	formatString = defaultLineFormat
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-format":
			if i+1 < len(args) {
				formatString = args[i+1]
				i++
				continue
			}
		case "-patterns":
			if i+1 < len(args) {
				patternsFile = args[i+1]
				i++
				continue
			}
		default:
			rest = append(rest, args[i])
		}
	}
	return formatString, patternsFile, rest
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

// writeFiltered writes one normalized line per parsed entry, in the form
// `Process '<proc>' [with PID '<pid>' ]wrote '<message>'`.
func writeFiltered(path string, lines []syslogline.Line) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, line := range lines {
		if line.HasPID {
			if _, err := fmt.Fprintf(w, "Process '%s' with PID '%d' wrote '%s'\n", line.Process, line.PID, line.Message); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
			continue
		}
		if _, err := fmt.Fprintf(w, "Process '%s' wrote '%s'\n", line.Process, line.Message); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return w.Flush()
}

// writeClustered writes one line per message, `<clusterId> -> <message>`.
func writeClustered(path string, messages []string, clusterIDs []int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for i, msg := range messages {
		if _, err := fmt.Fprintf(w, "%d -> %s\n", clusterIDs[i], msg); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return w.Flush()
}

func writeDistances(path string, n int, distances *cache.Cache[cache.SymmetricPair[int], float64]) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d, _ := distances.Get(cache.NewSymmetricPair(i, j, lineHash))
			if _, err := fmt.Fprintf(w, "%g\n", d); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
		}
	}
	return w.Flush()
}
