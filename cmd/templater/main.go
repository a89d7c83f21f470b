// Package main is the entry point for the templater tool: it parses a
// syslog-style archive, normalizes each message, and mines recurring
// message templates online, writing the mined template set and its
// per-position parameter tables back out.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"

	chStore "github.com/fidde/logtemplater/internal/store/clickhouse"
	sqliteStore "github.com/fidde/logtemplater/internal/store/sqlite"

	"github.com/fidde/logtemplater/internal/filters"
	"github.com/fidde/logtemplater/internal/inspect"
	"github.com/fidde/logtemplater/internal/syslogline"
	"github.com/fidde/logtemplater/internal/templater"
)

const defaultLineFormat = "${DATE} ${ORIGIN} ${MESSAGE}"

// checkpointInterval is how often (in parsed lines) the templater's
// in-progress state is flushed to the checkpoint store, when one is
// configured.
const checkpointInterval = 10000

type cliFlags struct {
	format         string
	patternsFile   string
	checkpointPath string
	clickhouseAddr string
	inspectAddr    string
	args           []string
}

func main() {
	flags := parseFlags(os.Args[1:])
	if len(flags.args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: templater [-format <fmt>] [-patterns <file>] [-checkpoint <path>] [-export-clickhouse <addr>] [-inspect <addr>] <input-log> <output-templates>")
		os.Exit(1)
	}
	input, output := flags.args[0], flags.args[1]

	lineFormat, err := syslogline.NewFormat(flags.format)
	if err != nil {
		log.Fatalf("compiling line format %q: %v", flags.format, err)
	}

	filterArray, err := loadFilters(flags.patternsFile)
	if err != nil {
		log.Fatalf("loading filters: %v", err)
	}

	in, err := os.Open(input)
	if err != nil {
		log.Fatalf("opening %s: %v", input, err)
	}
	defer in.Close()

	if info, err := in.Stat(); err == nil {
		log.Printf("reading %s (%s)", input, humanize.Bytes(uint64(info.Size())))
	}

	logger := slog.Default()
	runID := uuid.NewString()
	ctx := context.Background()

	var checkpoint *sqliteStore.Store
	if flags.checkpointPath != "" {
		checkpoint, err = sqliteStore.New(sqliteStore.Config{DBPath: flags.checkpointPath})
		if err != nil {
			log.Fatalf("opening checkpoint store: %v", err)
		}
		defer checkpoint.Close()
		logger.Info("checkpointing enabled", "path", flags.checkpointPath, "run_id", runID)
	}

	var exportSink *chStore.Sink
	if flags.clickhouseAddr != "" {
		exportSink, err = chStore.New(ctx, chStore.DefaultConfig(flags.clickhouseAddr))
		if err != nil {
			log.Fatalf("connecting to ClickHouse: %v", err)
		}
		defer exportSink.Close()
		logger.Info("ClickHouse export enabled", "addr", flags.clickhouseAddr, "run_id", runID)
	}

	miner := templater.New(templater.DefaultConfig())

	var inspectServer *inspect.Server
	if flags.inspectAddr != "" {
		inspectServer = inspect.NewServer(flags.inspectAddr, miner)
		go func() {
			logger.Info("inspector listening", "addr", flags.inspectAddr)
			if err := inspectServer.Start(); err != nil {
				logger.Warn("inspector stopped", "error", err)
			}
		}()
	}

	progress := isatty.IsTerminal(os.Stdout.Fd())
	processed := 0
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		parsed, err := lineFormat.Parse(scanner.Text())
		if err != nil {
			log.Printf("skipping line %d: %v", lineNo, err)
			continue
		}
		message := filterArray.Apply(parsed.Message)
		miner.Add(message)
		processed++

		if checkpoint != nil && processed%checkpointInterval == 0 {
			if err := checkpoint.Save(ctx, runID, miner.Dump()); err != nil {
				log.Printf("checkpoint save failed at line %d: %v", lineNo, err)
			}
		}
		if progress && processed%checkpointInterval == 0 {
			fmt.Printf("processed %s lines\n", humanize.Comma(int64(processed)))
		}
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("reading %s: %v", input, err)
	}

	summaries := miner.Dump()

	if checkpoint != nil {
		if err := checkpoint.Save(ctx, runID, summaries); err != nil {
			log.Fatalf("final checkpoint save: %v", err)
		}
	}
	if exportSink != nil {
		if err := exportSink.Export(ctx, runID, summaries); err != nil {
			log.Fatalf("exporting to ClickHouse: %v", err)
		}
	}

	if err := writeTemplates(output, summaries); err != nil {
		log.Fatalf("writing %s: %v", output, err)
	}
	if err := writeParams(output+"_pars", summaries); err != nil {
		log.Fatalf("writing %s_pars: %v", output, err)
	}

	if progress {
		fmt.Printf("mined %s templates from %s lines\n",
			humanize.Comma(int64(len(summaries))), humanize.Comma(int64(processed)))
	}
}

func loadFilters(patternsFile string) (*filters.Array, error) {
	if patternsFile == "" {
		return filters.NewArray(filters.DefaultFilters()...), nil
	}
	return filters.NewArrayFromFile(patternsFile)
}

func parseFlags(args []string) cliFlags {
	flags := cliFlags{format: defaultLineFormat}
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-format":
			if i+1 < len(args) {
				flags.format = args[i+1]
				i++
			}
		case "-patterns":
			if i+1 < len(args) {
				flags.patternsFile = args[i+1]
				i++
			}
		case "-checkpoint":
			if i+1 < len(args) {
				flags.checkpointPath = args[i+1]
				i++
			}
		case "-export-clickhouse":
			if i+1 < len(args) {
				flags.clickhouseAddr = args[i+1]
				i++
			}
		case "-inspect":
			if i+1 < len(args) {
				flags.inspectAddr = args[i+1]
				i++
			}
		default:
			flags.args = append(flags.args, args[i])
		}
	}
	return flags
}

// writeTemplates writes one mined template per line.
func writeTemplates(path string, summaries []templater.TemplateSummary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, s := range summaries {
		if _, err := fmt.Fprintln(w, s.Template); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return w.Flush()
}

// writeParams writes, per template, its tracked per-position parameter
// values and any positions whose parameter table was evicted for exceeding
// the tracking bound.
func writeParams(path string, summaries []templater.TemplateSummary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, s := range summaries {
		if _, err := fmt.Fprintln(w, s.Template); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		for _, pos := range sortedKeys(s.Params) {
			if _, err := fmt.Fprintf(w, "  Params at pos %d: %s\n", pos, joinValues(s.Params[pos])); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
		}
		if len(s.ExceededPositions) > 0 {
			if _, err := fmt.Fprintf(w, "  Positions with max num of tokens exceeded: %s\n", joinInts(s.ExceededPositions)); err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
		}
	}
	return w.Flush()
}

func sortedKeys(m map[int][]string) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func joinValues(values []string) string {
	return strings.Join(values, " ")
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}
