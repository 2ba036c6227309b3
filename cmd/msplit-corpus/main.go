// Command msplit-corpus runs the analysis over every fixture in a directory
// and prints one summary line per method.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/speakeasy-api/msplit/pkg/playground"
	"github.com/speakeasy-api/msplit/splitexec"
)

func main() {
	dir := "pkg/playground/testdata"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	sort.Strings(paths)

	opts := splitexec.DefaultOptions()
	opts.LogLevel = "error"

	failed := 0
	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			fmt.Printf("%-32s read error: %v\n", filepath.Base(path), err)
			failed++
			continue
		}
		f, err := playground.ParseFixture(string(src))
		if err != nil {
			fmt.Printf("%-32s %v\n", filepath.Base(path), err)
			failed++
			continue
		}
		a, err := playground.Analyze(f, opts)
		if err != nil {
			fmt.Printf("%-32s %v\n", filepath.Base(path), err)
			failed++
			continue
		}

		longest := 0
		for _, sp := range a.SplitPoints {
			longest = max(longest, sp.Length)
		}
		status := "ok"
		if a.Err != nil {
			status = "defect: " + a.Err.Error()
		}
		fmt.Printf("%-32s %-24s insns=%-4d points=%-4d longest=%-4d %s\n",
			filepath.Base(path), f.Name+f.Desc, len(a.Method.Instructions), len(a.SplitPoints), longest, status)
	}

	if failed > 0 {
		os.Exit(1)
	}
}
