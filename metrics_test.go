// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jchunk_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/creachadair/jchunk"
	"github.com/creachadair/jchunk/internal/testutil"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
)

var metricFamilies = []struct {
	name, kind, help string
}{
	{"jchunk_buffered_bytes", "gauge", "Bytes held by parsers, unconsumed input plus the value in progress."},
	{"jchunk_bytes_total", "counter", "Total number of input bytes fed to parsers."},
	{"jchunk_internal_faults_total", "counter", "Total number of values the decoder rejected after the parser accepted them."},
	{"jchunk_syntax_errors_total", "counter", "Total number of syntax errors reported by parsers."},
	{"jchunk_values_total", "counter", "Total number of complete values emitted by parsers."},
}

// checkMetrics compares the parser metrics in reg to want, which gives the
// values in the order of metricFamilies.
func checkMetrics(t *testing.T, reg *prometheus.Registry, want ...int) {
	t.Helper()
	var sb strings.Builder
	for i, f := range metricFamilies {
		fmt.Fprintf(&sb, "# HELP %s %s\n# TYPE %s %s\n%s %d\n", f.name, f.help, f.name, f.kind, f.name, want[i])
	}
	if err := promtest.GatherAndCompare(reg, strings.NewReader(sb.String())); err != nil {
		t.Errorf("Metrics mismatch: %v", err)
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := jchunk.NewMetrics(reg)

	r := new(testutil.Recorder)
	p := jchunk.New(r, &jchunk.Options{Metrics: m})
	if err := p.Feed([]byte(`[1] x {"a":`)); err != nil {
		t.Fatalf("Feed: unexpected error: %v", err)
	}
	// buffered, bytes, faults, errors, values
	checkMetrics(t, reg, 5, 11, 0, 1, 1)

	if err := p.Close(); err != nil {
		t.Fatalf("Close: unexpected error: %v", err)
	}
	checkMetrics(t, reg, 0, 11, 0, 2, 1)

	// A second parser shares the same metrics.
	bad := errors.New("bad decoder")
	q := jchunk.New(r, &jchunk.Options{
		Metrics: m,
		Decoder: jchunk.DecoderFunc(func([]byte) (any, error) { return nil, bad }),
	})
	if err := q.Feed([]byte(`[true]`)); !errors.Is(err, bad) {
		t.Fatalf("Feed: got %v, want %v", err, bad)
	}
	checkMetrics(t, reg, 0, 17, 1, 2, 1)
}

func TestNilMetrics(t *testing.T) {
	r, err := testutil.Feed(&jchunk.Options{Metrics: nil}, `1 2 x`)
	if err != nil {
		t.Fatalf("Feed: unexpected error: %v", err)
	}
	if len(r.Values) != 2 || len(r.Errors) != 1 {
		t.Errorf("Got %d values, %d errors; want 2, 1", len(r.Values), len(r.Errors))
	}

	// Unregistered metrics record without complaint.
	if _, err := testutil.Feed(&jchunk.Options{Metrics: jchunk.NewMetrics(nil)}, `[]`); err != nil {
		t.Errorf("Feed: unexpected error: %v", err)
	}
}
