//go:build js && wasm

package main

import (
	"fmt"
	"syscall/js"

	"github.com/speakeasy-api/msplit/pkg/asmfmt"
	"github.com/speakeasy-api/msplit/pkg/playground"
	"github.com/speakeasy-api/msplit/splitexec"
)

// SplitMethod analyzes a YAML fixture and returns the YAML report.
func SplitMethod(fixtureYAML string) (string, error) {
	opts := splitexec.DefaultOptions()
	opts.LogLevel = "error"
	return playground.RunSplit(fixtureYAML, opts)
}

// FormatMethod rewrites a fixture's code in canonical text assembly,
// numbering each instruction.
func FormatMethod(fixtureYAML string) (string, error) {
	cfg := asmfmt.DefaultFormatCfg()
	cfg.Index = true

	formatted, err := playground.FormatFixture(fixtureYAML, cfg)
	if err != nil {
		return "", fmt.Errorf("failed to format method: %w", err)
	}
	return formatted, nil
}

// GraphMethod analyzes a YAML fixture and returns its DOT graph.
func GraphMethod(fixtureYAML string, focus int) (string, error) {
	f, err := playground.ParseFixture(fixtureYAML)
	if err != nil {
		return "", err
	}
	a, err := playground.Analyze(f)
	if err != nil {
		return "", err
	}
	return playground.Graph(a.Method, a.SplitPoints, focus), nil
}

// promisify wraps a Go function to return a JavaScript Promise
func promisify(fn func(args []js.Value) (string, error)) js.Func {
	return js.FuncOf(func(this js.Value, args []js.Value) any {
		handler := js.FuncOf(func(this js.Value, promiseArgs []js.Value) any {
			resolve := promiseArgs[0]
			reject := promiseArgs[1]

			go func() {
				result, err := fn(args)
				if err != nil {
					reject.Invoke(js.Global().Get("Error").New(err.Error()))
					return
				}
				resolve.Invoke(result)
			}()

			// The handler of a Promise doesn't return any value
			return nil
		})

		return js.Global().Get("Promise").New(handler)
	})
}

func main() {
	js.Global().Set("splitMethod", promisify(func(args []js.Value) (string, error) {
		if len(args) != 1 {
			return "", fmt.Errorf("splitMethod: expected 1 arg (fixtureYAML), got %v", len(args))
		}
		return SplitMethod(args[0].String())
	}))

	js.Global().Set("formatMethod", promisify(func(args []js.Value) (string, error) {
		if len(args) != 1 {
			return "", fmt.Errorf("formatMethod: expected 1 arg (fixtureYAML), got %v", len(args))
		}
		return FormatMethod(args[0].String())
	}))

	js.Global().Set("graphMethod", promisify(func(args []js.Value) (string, error) {
		if len(args) != 1 && len(args) != 2 {
			return "", fmt.Errorf("graphMethod: expected 1 or 2 args (fixtureYAML, focus), got %v", len(args))
		}
		focus := -1
		if len(args) == 2 {
			focus = args[1].Int()
		}
		return GraphMethod(args[0].String(), focus)
	}))

	// Keep the program running
	<-make(chan bool)
}
