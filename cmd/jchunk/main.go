// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Program jchunk parses streams of JSON values and prints each value on a
// line of its own. Malformed input is reported and skipped.
//
// Usage:
//
//	jchunk [flags] [file ...]
//
// With no files, or a file named "-", jchunk reads standard input.
package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	cobra.CheckErr(newRootCmd(os.LookupEnv).ExecuteContext(context.Background()))
}
