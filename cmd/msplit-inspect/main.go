// Command msplit-inspect prints the split points of a YAML method fixture.
//
//	msplit-inspect [-min N] [-max N] [-format table|yaml|dot|asm] [-focus START] [-log LEVEL] fixture.yaml
//
// A fixture of "-" is read from standard input.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/logrusorgru/aurora"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
	"gopkg.in/yaml.v3"

	"github.com/speakeasy-api/msplit/pkg/asmfmt"
	"github.com/speakeasy-api/msplit/pkg/playground"
	"github.com/speakeasy-api/msplit/splitexec"
)

const maxFirstWidth = 36

func main() {
	minSize := flag.Int("min", 0, "minimum range size (overrides the fixture)")
	maxSize := flag.Int("max", 0, "maximum range size (overrides the fixture)")
	format := flag.String("format", "table", "output format: table, yaml, dot or asm")
	focus := flag.Int("focus", -1, "start index of the split point drawn as a cluster (dot only)")
	logLevel := flag.String("log", "warn", "log level: error, warn, info or debug")
	noColor := flag.Bool("no-color", false, "disable colored output")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: msplit-inspect [flags] fixture.yaml")
		flag.PrintDefaults()
		os.Exit(2)
	}

	src, err := readFixture(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Read error: %v\n", err)
		os.Exit(1)
	}

	f, err := playground.ParseFixture(src)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Parse error: %v\n", err)
		os.Exit(1)
	}
	if *minSize > 0 {
		f.Min = *minSize
	}
	if *maxSize > 0 {
		f.Max = *maxSize
	}

	opts := splitexec.DefaultOptions()
	opts.LogLevel = *logLevel
	opts.LogWriter = os.Stderr

	a, err := playground.Analyze(f, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Analysis error: %v\n", err)
		os.Exit(1)
	}

	color := !*noColor && (isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()))
	au := aurora.NewAurora(color)

	switch *format {
	case "table":
		printTable(os.Stdout, au, a)
	case "yaml":
		out, err := yaml.Marshal(a.Report())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Marshal error: %v\n", err)
			os.Exit(1)
		}
		os.Stdout.Write(out)
	case "dot":
		fmt.Println(playground.Graph(a.Method, a.SplitPoints, *focus))
	case "asm":
		cfg := asmfmt.DefaultFormatCfg()
		cfg.Index = true
		out, err := asmfmt.Format(a.Method, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Format error: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(out)
	default:
		fmt.Fprintf(os.Stderr, "unknown format %q\n", *format)
		os.Exit(2)
	}

	if a.Err != nil {
		fmt.Fprint(os.Stderr, au.Red(playground.FormatDefect(a.Method, a.Err)))
		os.Exit(1)
	}
}

func readFixture(path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}

// printTable writes one aligned row per split point. Widths are measured on
// the plain cells so color codes do not skew the columns.
func printTable(w io.Writer, au aurora.Aurora, a *playground.Analysis) {
	header := []string{"START", "LEN", "FIRST", "IN", "OUT", "READ", "WRITTEN"}
	rows := make([][]string, 0, len(a.SplitPoints))
	for _, e := range a.Report().SplitPoints {
		rows = append(rows, []string{
			fmt.Sprint(e.Start),
			fmt.Sprint(e.Length),
			runewidth.Truncate(e.First, maxFirstWidth, "…"),
			"[" + strings.Join(e.StackIn, " ") + "]",
			"[" + strings.Join(e.StackOut, " ") + "]",
			fmt.Sprint(e.LocalsRead),
			fmt.Sprint(e.LocalsWritten),
		})
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if cw := runewidth.StringWidth(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	fmt.Fprintf(w, "%s %s (%d instructions, min=%d max=%d)\n",
		au.Bold(a.Fixture.Owner+"."+a.Method.Name), a.Method.Desc, len(a.Method.Instructions), a.Fixture.Min, a.Fixture.Max)
	for i, h := range header {
		fmt.Fprint(w, au.Bold(runewidth.FillRight(h, widths[i])), " ")
	}
	fmt.Fprintln(w)

	for _, row := range rows {
		for i, cell := range row {
			padded := runewidth.FillRight(cell, widths[i])
			switch i {
			case 0:
				fmt.Fprint(w, au.Yellow(padded))
			case 2:
				fmt.Fprint(w, au.Green(padded))
			case 3, 4:
				fmt.Fprint(w, au.Cyan(padded))
			default:
				fmt.Fprint(w, padded)
			}
			fmt.Fprint(w, " ")
		}
		fmt.Fprintln(w)
	}

	if len(rows) == 0 {
		fmt.Fprintln(w, au.Faint("no split points"))
	}
}
