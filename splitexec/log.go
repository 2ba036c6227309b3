package splitexec

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/itchyny/timefmt-go"
	"github.com/speakeasy-api/msplit"
)

// LogLevel represents the severity level for logs.
type LogLevel int

const (
	LevelError LogLevel = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

func (l LogLevel) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel parses a string into a LogLevel.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToUpper(s) {
	case "ERROR":
		return LevelError
	case "WARN", "WARNING":
		return LevelWarn
	case "INFO":
		return LevelInfo
	case "DEBUG":
		return LevelDebug
	default:
		return LevelWarn // default
	}
}

// Logger is the interface used by the analysis for logging. A Splitter
// attaches the owner; every session adds its id and the method.
type Logger interface {
	// Debugf, Infof, Warnf, Errorf log formatted messages at respective levels.
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)

	// With returns a child logger augmented with the provided fields.
	With(fields map[string]any) Logger
}

// timestampFormat is strftime syntax, always rendered in UTC.
const timestampFormat = "%Y-%m-%dT%H:%M:%SZ"

// sessionIDLength is how much of a session UUID the formatter keeps. Eight
// hex digits tell concurrent sessions apart in one log stream.
const sessionIDLength = 8

// textFormatter emits compact single-line text logs.
// Format: [LEVEL] ts msg key1=val1 key2=val2 ...
type textFormatter struct {
	includeTimestamp bool
}

func newTextFormatter() *textFormatter {
	return &textFormatter{
		includeTimestamp: true,
	}
}

func (f *textFormatter) format(ts time.Time, level LogLevel, msg string, fields map[string]any) []byte {
	var b strings.Builder
	b.Grow(128)

	b.WriteByte('[')
	b.WriteString(level.String())
	b.WriteByte(']')
	b.WriteByte(' ')

	if f.includeTimestamp {
		b.WriteString(timefmt.Format(ts.UTC(), timestampFormat))
		b.WriteByte(' ')
	}

	b.WriteString(msg)

	// Keys are sorted so two runs over the same method log identically.
	if len(fields) > 0 {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteByte(' ')
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(formatField(k, fields[k]))
		}
	}

	b.WriteByte('\n')
	return []byte(b.String())
}

// formatField renders one field value so that the line still splits on
// spaces: slot lists and type lists are joined without blanks, and any
// other value containing whitespace is quoted.
func formatField(key string, v any) string {
	switch t := v.(type) {
	case string:
		if key == "session" && len(t) > sessionIDLength {
			t = t[:sessionIDLength]
		}
		return quoteIfSpaced(t)
	case []int:
		items := make([]string, len(t))
		for i, slot := range t {
			items[i] = strconv.Itoa(slot)
		}
		return "[" + strings.Join(items, ",") + "]"
	case []msplit.Type:
		return typeList(t, 0)
	case []msplit.Value:
		return stackPreview(t, 0)
	case error:
		return quoteIfSpaced(t.Error())
	case fmt.Stringer:
		return quoteIfSpaced(t.String())
	default:
		return fmt.Sprint(v)
	}
}

func quoteIfSpaced(s string) string {
	if strings.IndexFunc(s, func(r rune) bool { return r <= ' ' }) >= 0 {
		return strconv.Quote(s)
	}
	return s
}

// defaultLogger writes through a shared writer. Children made by With share
// the parent's writer and lock and carry their own copy of the fields.
type defaultLogger struct {
	out       io.Writer
	level     LogLevel
	formatter *textFormatter

	// baseFields are attached to every line; owner, session and method in
	// practice.
	baseFields map[string]any

	// mu serializes writes to out across a logger and all its children.
	mu *sync.Mutex
}

// NewLogger creates a default logger with the given level.
// If w is nil, os.Stderr is used.
func NewLogger(level LogLevel, w io.Writer) Logger {
	if w == nil {
		w = os.Stderr
	}
	return &defaultLogger{
		out:        w,
		level:      level,
		formatter:  newTextFormatter(),
		baseFields: make(map[string]any),
		mu:         &sync.Mutex{},
	}
}

// noopLogger is a logger that discards all output.
type noopLogger struct{}

func (l *noopLogger) IsEnabled(level LogLevel) bool     { return false }
func (l *noopLogger) Debugf(format string, args ...any) {}
func (l *noopLogger) Infof(format string, args ...any)  {}
func (l *noopLogger) Warnf(format string, args ...any)  {}
func (l *noopLogger) Errorf(format string, args ...any) {}
func (l *noopLogger) With(fields map[string]any) Logger { return l }

// NewNoopLogger returns a logger that discards all output.
func NewNoopLogger() Logger {
	return &noopLogger{}
}

func (l *defaultLogger) IsEnabled(level LogLevel) bool {
	return level <= l.level
}

func (l *defaultLogger) With(fields map[string]any) Logger {
	if len(fields) == 0 {
		return l
	}
	// The parent keeps its own map; a session never leaks fields into the
	// splitter that spawned it.
	newFields := make(map[string]any, len(l.baseFields)+len(fields))
	for k, v := range l.baseFields {
		newFields[k] = v
	}
	for k, v := range fields {
		newFields[k] = v
	}
	return &defaultLogger{
		out:        l.out,
		level:      l.level,
		formatter:  l.formatter,
		baseFields: newFields,
		mu:         l.mu,
	}
}

func (l *defaultLogger) Debugf(format string, args ...any) {
	l.logf(LevelDebug, format, args...)
}

func (l *defaultLogger) Infof(format string, args ...any) {
	l.logf(LevelInfo, format, args...)
}

func (l *defaultLogger) Warnf(format string, args ...any) {
	l.logf(LevelWarn, format, args...)
}

func (l *defaultLogger) Errorf(format string, args ...any) {
	l.logf(LevelError, format, args...)
}

func (l *defaultLogger) logf(level LogLevel, format string, args ...any) {
	if !l.IsEnabled(level) {
		return
	}
	// Sprintf only runs for enabled levels; debug lines per start are the
	// bulk of the output.
	msg := fmt.Sprintf(format, args...)

	fields := make(map[string]any, len(l.baseFields))
	for k, v := range l.baseFields {
		fields[k] = v
	}

	line := l.formatter.format(time.Now(), level, msg, fields)

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.out.Write(line)
}

// levelEnabled reports whether logger would emit at level. Loggers that do
// not expose IsEnabled are assumed to want everything.
func levelEnabled(logger Logger, level LogLevel) bool {
	if le, ok := logger.(interface{ IsEnabled(LogLevel) bool }); ok {
		return le.IsEnabled(level)
	}
	return true
}

// ----------------------------------------------------------------------------
// Helpers: stack previews and type lists
// ----------------------------------------------------------------------------

// stackPreview renders the top depth entries of a symbolic stack, top last.
func stackPreview(stack []msplit.Value, depth int) string {
	if len(stack) == 0 {
		return "[]"
	}
	from := 0
	prefix := ""
	if depth > 0 && len(stack) > depth {
		from = len(stack) - depth
		prefix = fmt.Sprintf("+%d,", from)
	}
	items := make([]string, 0, len(stack)-from)
	for _, v := range stack[from:] {
		items = append(items, v.String())
	}
	return "[" + prefix + strings.Join(items, ",") + "]"
}

// typeList renders reported stack types compactly.
func typeList(types []msplit.Type, limit int) string {
	items := make([]string, len(types))
	for i, t := range types {
		items[i] = t.Descriptor()
	}
	return "[" + truncateList(items, limit) + "]"
}

// truncateList joins items with "," and appends +N if truncated.
func truncateList(items []string, max int) string {
	if max <= 0 || len(items) <= max {
		return strings.Join(items, ",")
	}
	head := items[:max]
	return strings.Join(head, ",") + fmt.Sprintf(",+%d", len(items)-max)
}
