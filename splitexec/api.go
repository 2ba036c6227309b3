package splitexec

import (
	"iter"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/speakeasy-api/msplit"
)

// Splitter finds the places where methods of one class can be cut. It is
// immutable and may be shared between goroutines; every call to Iterate
// starts an independent session.
type Splitter struct {
	owner   string
	minSize int
	maxSize int
	opts    Options
	logger  Logger
}

// New returns a Splitter for methods of the class owner (an internal name
// such as "com/example/Foo"). Every split point holds between minSize and
// maxSize instructions, pseudo-instructions included.
//
// Example:
//
//	s, err := splitexec.New("com/example/Foo", 100, 5000)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for sp, err := range s.All(method) {
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(sp)
//	}
func New(owner string, minSize, maxSize int, opts ...Options) (*Splitter, error) {
	opt := DefaultOptions()
	if len(opts) > 0 {
		opt = opts[0]
	}
	if owner == "" {
		return nil, errors.Wrap(ErrInvalidConfig, "owner must not be empty")
	}
	if minSize < 1 {
		return nil, errors.Wrapf(ErrInvalidConfig, "minSize %d must be at least 1", minSize)
	}
	if maxSize < minSize {
		return nil, errors.Wrapf(ErrInvalidConfig, "maxSize %d is below minSize %d", maxSize, minSize)
	}
	return &Splitter{
		owner:   owner,
		minSize: minSize,
		maxSize: maxSize,
		opts:    opt,
		logger:  opt.logger().With(map[string]any{"owner": owner}),
	}, nil
}

// Owner returns the internal name of the class the methods belong to.
func (s *Splitter) Owner() string { return s.owner }

// MinSize returns the smallest range length emitted.
func (s *Splitter) MinSize() int { return s.minSize }

// MaxSize returns the largest range length emitted.
func (s *Splitter) MaxSize() int { return s.maxSize }

// Iterate starts a new enumeration session over m.
func (s *Splitter) Iterate(m *msplit.Method) *Iterator {
	if m == nil {
		it := newIterator(s, &msplit.Method{}, s.logger)
		it.state = stateExhausted
		it.err = errors.WithStack(&DefectError{Method: "<nil>", Index: -1, Reason: "no method"})
		return it
	}
	logger := s.logger.With(map[string]any{
		"session": uuid.NewString(),
		"method":  m.Name + m.Desc,
	})
	return newIterator(s, m, logger)
}

// All returns the split points of m as a sequence. A defect is yielded as
// the final element, with a zero SplitPoint.
func (s *Splitter) All(m *msplit.Method) iter.Seq2[SplitPoint, error] {
	return func(yield func(SplitPoint, error) bool) {
		it := s.Iterate(m)
		for {
			sp, err := it.Next()
			if errors.Is(err, ErrExhausted) {
				return
			}
			if !yield(sp, err) || err != nil {
				return
			}
		}
	}
}

// Collect returns every split point of m.
func (s *Splitter) Collect(m *msplit.Method) ([]SplitPoint, error) {
	var out []SplitPoint
	for sp, err := range s.All(m) {
		if err != nil {
			return out, err
		}
		out = append(out, sp)
	}
	return out, nil
}

// SplitPoints is shorthand for New followed by Collect.
func SplitPoints(owner string, m *msplit.Method, minSize, maxSize int, opts ...Options) ([]SplitPoint, error) {
	s, err := New(owner, minSize, maxSize, opts...)
	if err != nil {
		return nil, err
	}
	return s.Collect(m)
}
