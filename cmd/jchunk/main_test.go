// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// execute runs the command with the given environment, standard input, and
// arguments, and returns its output.
func execute(t *testing.T, env map[string]string, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := newRootCmd(func(name string) (string, bool) { v, ok := env[name]; return v, ok })
	var obuf, ebuf bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&obuf)
	cmd.SetErr(&ebuf)
	cmd.SetArgs(append([]string{}, args...)) // non-nil, so os.Args is not consulted
	err = cmd.ExecuteContext(context.Background())
	return obuf.String(), ebuf.String(), err
}

func writeFile(t *testing.T, name, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(text), 0600); err != nil {
		t.Fatalf("Write %s: %v", name, err)
	}
	return path
}

func TestOutput(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		input string
		want  string
	}{
		{"Empty", nil, "", ""},
		{"Compact", nil, `{"b": 1, "a": [true, null]} 2 "three"`, "{\"a\":[true,null],\"b\":1}\n2\n\"three\"\n"},
		{"Numbers", nil, `1.50 -0 2e+3`, "1.50\n-0\n2e+3\n"},
		{"Verbatim", []string{"--verbatim"}, `{ "b" : 1 }  [ 2 ]`, "{ \"b\" : 1 }\n[ 2 ]\n"},
		{"Chunked", []string{"--chunk-size", "1"}, `[1,{"x":"y"}]`, "[1,{\"x\":\"y\"}]\n"},
		{"Stdin", []string{"-"}, `true`, "true\n"},
		{"StdDecoder", []string{"--decoder", "std"}, `{"k": [0.5]}`, "{\"k\":[0.5]}\n"},
		{"Single", []string{"--single"}, ` [1] `, "[1]\n"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, stderr, err := execute(t, nil, test.input, test.args...)
			if err != nil {
				t.Fatalf("Execute: unexpected error: %v\nstderr:\n%s", err, stderr)
			}
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("Output (-want, +got):\n%s", diff)
			}
		})
	}
}

func TestSyntaxErrors(t *testing.T) {
	out, stderr, err := execute(t, nil, `[1,] 3`)
	if err == nil || !strings.Contains(err.Error(), "found 1 syntax errors") {
		t.Errorf("Execute: got %v, want syntax error count", err)
	}
	if out != "3\n" {
		t.Errorf("Output: got %q, want %q", out, "3\n")
	}
	if !strings.Contains(stderr, "level=warn") || !strings.Contains(stderr, `msg="syntax error"`) {
		t.Errorf("Log does not report the syntax error:\n%s", stderr)
	}

	// Trailing data is an error in single-value mode.
	out, _, err = execute(t, nil, `1 2`, "--single")
	if err == nil {
		t.Error("Execute --single: got nil, want error")
	}
	if out != "1\n" {
		t.Errorf("Output: got %q, want %q", out, "1\n")
	}

	// Quiet logs do not hide the failure.
	_, stderr, err = execute(t, nil, `}`, "--log-level", "none")
	if err == nil {
		t.Error("Execute: got nil, want error")
	}
	if strings.Contains(stderr, "level=warn") {
		t.Errorf("Log level none still logged warnings:\n%s", stderr)
	}
}

func TestFiles(t *testing.T) {
	a := writeFile(t, "a.json", `{"file": "a"} [1]`)
	b := writeFile(t, "b.json", "\"b\"\n")
	c := writeFile(t, "c.json", ``)

	for _, workers := range []string{"1", "3"} {
		out, stderr, err := execute(t, nil, "", "--workers", workers, a, b, c)
		if err != nil {
			t.Fatalf("Execute: unexpected error: %v\nstderr:\n%s", err, stderr)
		}

		// Inputs run concurrently, so only the order within each input is fixed.
		lines := strings.Split(strings.TrimSpace(out), "\n")
		if i, j := slices.Index(lines, `{"file":"a"}`), slices.Index(lines, "[1]"); i < 0 || j < i {
			t.Errorf("Output lines for a.json out of order: %q", lines)
		}
		slices.Sort(lines)
		if diff := cmp.Diff([]string{`"b"`, "[1]", `{"file":"a"}`}, lines); diff != "" {
			t.Errorf("Output (-want, +got):\n%s", diff)
		}
	}

	_, _, err := execute(t, nil, "", filepath.Join(t.TempDir(), "missing.json"))
	if err == nil || !strings.Contains(err.Error(), "missing.json") {
		t.Errorf("Execute missing file: got %v, want error naming the file", err)
	}
}

func TestSettings(t *testing.T) {
	cfgPath := writeFile(t, "config.hujson", `{
  "verbatim": true, // keep the source text
  "decoder": "std",
}`)
	const input = `{ "a" : 1 }`
	compact, verbatim := "{\"a\":1}\n", input+"\n"

	tests := []struct {
		name string
		env  map[string]string
		args []string
		want string
	}{
		{"Default", nil, nil, compact},
		{"File", nil, []string{"--config", cfgPath}, verbatim},
		{"FlagOverFile", nil, []string{"-c", cfgPath, "--verbatim=false"}, compact},
		{"Env", map[string]string{"JCHUNK_CHUNK_SIZE": "2"}, nil, compact},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, stderr, err := execute(t, test.env, input, test.args...)
			if err != nil {
				t.Fatalf("Execute: unexpected error: %v\nstderr:\n%s", err, stderr)
			}
			if got != test.want {
				t.Errorf("Output: got %q, want %q", got, test.want)
			}
		})
	}

	// Environment overrides the file, and flags override the environment.
	env := map[string]string{"JCHUNK_SINGLE": "true"}
	if _, _, err := execute(t, env, `1 2`); err == nil {
		t.Error("Execute with JCHUNK_SINGLE: got nil, want error")
	}
	if _, _, err := execute(t, env, `1 2`, "--single=false"); err != nil {
		t.Errorf("Execute with --single=false: unexpected error: %v", err)
	}

	bad := []struct {
		name string
		env  map[string]string
		args []string
	}{
		{"Decoder", nil, []string{"--decoder", "fast"}},
		{"Workers", nil, []string{"--workers", "0"}},
		{"EnvValue", map[string]string{"JCHUNK_WORKERS": "several"}, nil},
		{"ConfigFile", nil, []string{"--config", filepath.Join(t.TempDir(), "nonesuch")}},
	}
	for _, test := range bad {
		if _, _, err := execute(t, test.env, "1", test.args...); err == nil {
			t.Errorf("Execute %s: got nil, want error", test.name)
		}
	}
}

func TestMetrics(t *testing.T) {
	_, stderr, err := execute(t, nil, `[1] {"a": 2} x`, "--metrics")
	if err == nil {
		t.Fatal("Execute: got nil, want error")
	}
	for _, want := range []string{
		"metric=jchunk_values_total value=2",
		"metric=jchunk_syntax_errors_total value=1",
		"metric=jchunk_bytes_total value=14",
		"metric=jchunk_buffered_bytes value=0",
	} {
		if !strings.Contains(stderr, want) {
			t.Errorf("Log is missing %q:\n%s", want, stderr)
		}
	}
}
