package main

import "testing"

func TestParseFlags(t *testing.T) {
	flags := parseFlags([]string{
		"-format", "${ORIGIN}: ${MESSAGE}",
		"-checkpoint", "run.db",
		"-export-clickhouse", "localhost:9000",
		"-inspect", ":8081",
		"in.log", "out.templates",
	})
	if flags.format != "${ORIGIN}: ${MESSAGE}" {
		t.Fatalf("format = %q", flags.format)
	}
	if flags.checkpointPath != "run.db" {
		t.Fatalf("checkpointPath = %q", flags.checkpointPath)
	}
	if flags.clickhouseAddr != "localhost:9000" {
		t.Fatalf("clickhouseAddr = %q", flags.clickhouseAddr)
	}
	if flags.inspectAddr != ":8081" {
		t.Fatalf("inspectAddr = %q", flags.inspectAddr)
	}
	if len(flags.args) != 2 || flags.args[0] != "in.log" || flags.args[1] != "out.templates" {
		t.Fatalf("args = %v", flags.args)
	}
}

func TestParseFlagsDefaultFormat(t *testing.T) {
	flags := parseFlags([]string{"in.log", "out.templates"})
	if flags.format != defaultLineFormat {
		t.Fatalf("format = %q, want default", flags.format)
	}
}

func TestSortedKeys(t *testing.T) {
	got := sortedKeys(map[int][]string{2: nil, 0: nil, 1: nil})
	want := []int{0, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestJoinValuesAndInts(t *testing.T) {
	if got := joinValues([]string{"root", "admin"}); got != "root admin" {
		t.Fatalf("joinValues = %q", got)
	}
	if got := joinInts([]int{1, 3}); got != "1 3" {
		t.Fatalf("joinInts = %q", got)
	}
}
