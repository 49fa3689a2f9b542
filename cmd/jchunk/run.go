// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/creachadair/jchunk"
	"github.com/creachadair/jchunk/chunkio"
	"github.com/creachadair/jchunk/internal/config"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	jsoniter "github.com/json-iterator/go"
	"github.com/panjf2000/ants/v2"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// A result summarizes the outcome of parsing one input.
type result struct {
	values, syntax int
	err            error
}

// run parses each of the named inputs with the settings in cfg, printing
// values to stdout and logs to stderr. The input "-" denotes stdin.
func run(ctx context.Context, cfg config.Config, inputs []string, stdin io.Reader, stdout, stderr io.Writer) error {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(stderr))
	logger = level.NewFilter(logger, cfg.LevelFilter())
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)

	reg := prometheus.NewRegistry()
	metrics := jchunk.NewMetrics(reg)

	if len(inputs) == 0 {
		inputs = []string{"-"}
	}
	pool, err := ants.NewPool(cfg.Workers)
	if err != nil {
		return fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	out := &printer{w: stdout, verbatim: cfg.Verbatim}
	results := make([]result, len(inputs))
	var wg sync.WaitGroup
	for i, name := range inputs {
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			in := input{name: name, stdin: stdin, log: log.With(logger, "input", name)}
			results[i] = in.parse(ctx, cfg.ParserOptions(in.log, metrics), cfg.ChunkSize, out)
		})
		if err != nil {
			wg.Done()
			results[i].err = err
		}
	}
	wg.Wait()

	if cfg.Metrics {
		if err := logMetrics(logger, reg); err != nil {
			return err
		}
	}

	var nsyntax int
	for i, r := range results {
		if r.err != nil {
			return fmt.Errorf("%s: %w", inputs[i], r.err)
		}
		nsyntax += r.syntax
	}
	if nsyntax != 0 {
		return fmt.Errorf("found %d syntax errors", nsyntax)
	}
	return nil
}

// An input is a single stream of values to parse.
type input struct {
	name  string
	stdin io.Reader
	log   log.Logger
}

func (in input) parse(ctx context.Context, opts *jchunk.Options, size int, out *printer) (res result) {
	r := in.stdin
	if in.name != "-" {
		f, err := os.Open(in.name)
		if err != nil {
			res.err = err
			return
		}
		defer f.Close()
		r = f
	}

	p := jchunk.New(jchunk.Funcs{
		OnValue: func(v jchunk.Value) error {
			res.values++
			return out.print(v)
		},
		OnError: func(e *jchunk.SyntaxError) {
			res.syntax++
			level.Warn(in.log).Log("msg", "syntax error", "at", e.Location, "err", e.Message, "near", e.Near)
		},
	}, opts)
	n, err := chunkio.Copy(ctx, p, r, size)
	level.Debug(in.log).Log("msg", "input done", "bytes", n, "values", res.values, "errors", res.syntax)
	res.err = err
	return
}

// A printer writes values to an output, one per line. It is safe for
// concurrent use.
type printer struct {
	mu       sync.Mutex
	w        io.Writer
	verbatim bool
}

var encoder = jsoniter.ConfigCompatibleWithStandardLibrary

func (p *printer) print(v jchunk.Value) error {
	text := v.Text
	if !p.verbatim {
		var err error
		text, err = encoder.Marshal(v.Data)
		if err != nil {
			return fmt.Errorf("encode value at %s: %w", v.Location, err)
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := p.w.Write(text); err != nil {
		return err
	}
	_, err := io.WriteString(p.w, "\n")
	return err
}

// logMetrics logs the current value of each metric in reg.
func logMetrics(logger log.Logger, reg prometheus.Gatherer) error {
	mfs, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			level.Info(logger).Log("metric", mf.GetName(), "value", metricValue(m))
		}
	}
	return nil
}

func metricValue(m *dto.Metric) float64 {
	switch {
	case m.GetCounter() != nil:
		return m.GetCounter().GetValue()
	case m.GetGauge() != nil:
		return m.GetGauge().GetValue()
	default:
		return m.GetUntyped().GetValue()
	}
}
