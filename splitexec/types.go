package splitexec

import (
	"fmt"
	"io"

	"github.com/speakeasy-api/msplit"
)

// SplitPoint is a maximal instruction range [Start, Start+Length) that can
// be moved to a separate method, together with the data that crosses its
// boundary.
type SplitPoint struct {
	Start  int
	Length int

	// LocalsRead and LocalsWritten are ascending slot indices. IINC puts its
	// slot in both.
	LocalsRead    []int
	LocalsWritten []int

	// NeededFromStackAtStart are the values, bottom to top, that the range
	// consumes from the stack it starts with. PutOnStackAtEnd are the values
	// it leaves behind above that depth. Longs and doubles are one entry.
	NeededFromStackAtStart []msplit.Type
	PutOnStackAtEnd        []msplit.Type
}

// End returns the index one past the last instruction of the range.
func (sp SplitPoint) End() int { return sp.Start + sp.Length }

// Contains reports whether instruction index i is inside the range.
func (sp SplitPoint) Contains(i int) bool { return i >= sp.Start && i < sp.End() }

func (sp SplitPoint) String() string {
	return fmt.Sprintf("SplitPoint{start=%d len=%d read=%v written=%v in=%s out=%s}",
		sp.Start, sp.Length, sp.LocalsRead, sp.LocalsWritten,
		typeList(sp.NeededFromStackAtStart, 0), typeList(sp.PutOnStackAtEnd, 0))
}

// Options configures logging around the analysis. Range bounds are part of
// the Splitter itself.
type Options struct {
	// Logging configuration
	LogLevel             string    // Log level: "error", "warn", "info", "debug" (default: "warn")
	LogWriter            io.Writer // Destination for the default logger (default: os.Stderr)
	LogStackPreviewDepth int       // Max stack entries shown in debug logs (default: 3)
	LogMaxTypes          int       // Max reported types shown per list in logs (default: 5)

	// Logger overrides LogLevel/LogWriter when set.
	Logger Logger
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return Options{
		LogLevel:             "warn",
		LogStackPreviewDepth: 3,
		LogMaxTypes:          5,
	}
}

func (o Options) logger() Logger {
	if o.Logger != nil {
		return o.Logger
	}
	if o.LogLevel == "" {
		return NewNoopLogger()
	}
	return NewLogger(ParseLogLevel(o.LogLevel), o.LogWriter)
}
