package splitexec

import (
	"github.com/pkg/errors"

	"github.com/speakeasy-api/msplit"
)

type iterState int

const (
	stateNotStarted iterState = iota
	statePositioned
	stateExhausted
)

// Iterator walks the split points of one method in increasing start order.
// It is forward-only and must not be used from more than one goroutine.
type Iterator struct {
	cfg    *Splitter
	method *msplit.Method
	name   string
	logger Logger

	state  iterState
	curr   int // last start examined
	peeked *SplitPoint
	err    error

	labels *labelIndex
	solver *solver
	prefix *tracker
}

func newIterator(cfg *Splitter, m *msplit.Method, logger Logger) *Iterator {
	return &Iterator{
		cfg:    cfg,
		method: m,
		name:   m.Name + m.Desc,
		logger: logger,
		curr:   -1,
	}
}

// HasNext reports whether another split point exists. It computes and
// caches the next one without consuming it.
func (it *Iterator) HasNext() bool {
	_, ok := it.Peek()
	return ok
}

// Peek returns the next split point without consuming it.
func (it *Iterator) Peek() (SplitPoint, bool) {
	if it.peeked == nil && it.state != stateExhausted {
		it.peeked = it.nextOrNil()
	}
	if it.peeked == nil {
		return SplitPoint{}, false
	}
	return *it.peeked, true
}

// Next consumes and returns the next split point. At the end of the
// sequence it returns ErrExhausted; after a defect it returns the defect.
func (it *Iterator) Next() (SplitPoint, error) {
	sp, ok := it.Peek()
	if !ok {
		if it.err != nil {
			return SplitPoint{}, it.err
		}
		return SplitPoint{}, ErrExhausted
	}
	it.peeked = nil
	return sp, nil
}

// Err returns the defect that ended the session, if any.
func (it *Iterator) Err() error {
	return it.err
}

func (it *Iterator) nextOrNil() *SplitPoint {
	sp, err := it.search()
	if err != nil {
		it.err = err
		it.state = stateExhausted
		logger := it.logger
		var d *DefectError
		if errors.As(err, &d) {
			logger = logger.With(map[string]any{"index": d.Index})
		}
		logger.Errorf("analysis stopped: %v", err)
		return nil
	}
	if sp == nil {
		it.state = stateExhausted
		it.logger.Debugf("enumeration exhausted after index %d", it.curr)
	}
	return sp
}

// search advances to the next start that yields a split point. It returns
// nil when every start has been examined.
func (it *Iterator) search() (sp *SplitPoint, err error) {
	defer recoverDefect(it.name, &err)

	if it.state == stateNotStarted {
		it.begin()
		it.state = statePositioned
	}
	limit := len(it.method.Instructions) - it.cfg.minSize
	for it.curr+1 < limit {
		it.curr++
		if sp := it.longestAt(it.curr); sp != nil {
			return sp, nil
		}
	}
	return nil, nil
}

func (it *Iterator) begin() {
	insns := it.method.Instructions
	it.labels = buildLabelIndex(insns)
	it.solver = newSolver(it.method, it.labels, it.cfg.minSize, it.cfg.maxSize)
	it.prefix = newTracker(it.cfg.owner, it.method, it.labels)
	it.logger.Infof("analyzing %d instructions, %d try/catch blocks (min=%d max=%d)",
		len(insns), len(it.method.TryCatchBlocks), it.cfg.minSize, it.cfg.maxSize)
}

// longestAt returns the split point for start, or nil when start is
// redundant or no large enough window survives.
func (it *Iterator) longestAt(start int) *SplitPoint {
	insns := it.method.Instructions
	if start > 0 && insns[start-1].Kind == msplit.InsnLineNumber {
		it.logger.Debugf("start %d: skipped after line marker", start)
		return nil
	}
	w, ok := it.solver.solve(start)
	if !ok {
		it.logger.Debugf("start %d: window [%d, %d] below minimum", start, w.start, w.end)
		return nil
	}
	sp := it.splitPointFor(w)
	if levelEnabled(it.logger, LevelDebug) {
		it.logger.With(map[string]any{
			"read":    sp.LocalsRead,
			"written": sp.LocalsWritten,
			"in":      typeList(sp.NeededFromStackAtStart, it.cfg.opts.LogMaxTypes),
			"out":     typeList(sp.PutOnStackAtEnd, it.cfg.opts.LogMaxTypes),
		}).Debugf("start %d: len=%d", start, sp.Length)
	}
	return &sp
}

func (it *Iterator) splitPointFor(w window) SplitPoint {
	it.prefix.replayPrefix(w.start)
	t := it.prefix.clone()
	facts := t.trackRange(w.start, w.end)

	if levelEnabled(it.logger, LevelDebug) {
		it.logger.Debugf("range [%d, %d]: stack in %s, lowest %d",
			w.start, w.end, stackPreview(facts.startStack, it.cfg.opts.LogStackPreviewDepth), facts.lowest)
	}

	sp := SplitPoint{
		Start:                  w.start,
		Length:                 w.size(),
		LocalsRead:             facts.localsRead,
		LocalsWritten:          facts.localsWritten,
		NeededFromStackAtStart: stackTypes(it.cfg.owner, w.start, facts.startStack[facts.lowest:]),
		PutOnStackAtEnd:        []msplit.Type{},
	}
	if facts.fallsThrough {
		sp.PutOnStackAtEnd = stackTypes(it.cfg.owner, w.end, facts.finalStack[facts.lowest:])
	}
	return sp
}
