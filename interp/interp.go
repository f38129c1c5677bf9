// Package interp implements the tree-walking evaluator: AST → runtime
// values, against a lexically-scoped Environment chain (spec.md §4.3).
package interp

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/codeassociates/langcore/ast"
	"github.com/codeassociates/langcore/value"
)

// RuntimeError is raised by every evaluation-time failure named in
// spec.md §4.3: variable miss, type mismatch, division by zero,
// out-of-range index, failed cast.
type RuntimeError struct {
	Line int
	Msg  string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// returnSignal/breakSignal/continueSignal are the non-local control
// values of spec.md §4.3, carried through ordinary Go error returns
// rather than panic/recover, mirroring the teacher's error-accumulation
// idiom instead of introducing a second control mechanism.
type returnSignal struct{ Value value.Value }

func (*returnSignal) Error() string { return "return" }

type breakSignal struct{}

func (*breakSignal) Error() string { return "break" }

type continueSignal struct{}

func (*continueSignal) Error() string { return "continue" }

// whenContext is a registered reactive block: condition, body, and the
// environment both are evaluated in (spec.md §4.3, When).
type whenContext struct {
	Cond     ast.Expression
	Body     ast.Statement
	Env      *value.Environment
	Volatile bool
}

// Option configures an Interpreter, adapting the teacher's
// preproc.Option functional-options idiom (preproc/preproc.go) to the
// evaluator's construction surface.
type Option func(*Interpreter)

// WithStdout overrides Print's destination (default os.Stdout).
func WithStdout(w io.Writer) Option {
	return func(it *Interpreter) { it.stdout = w }
}

// WithStdin overrides Input's source (default os.Stdin), read one line
// at a time through a buffered scanner. Use WithLineReader instead when
// the host already owns a line-editing reader (e.g. a raw-mode
// golang.org/x/term.Terminal).
func WithStdin(r io.Reader) Option {
	return func(it *Interpreter) { it.stdin = r }
}

// LineReader is anything that can hand Input one line at a time.
// *bufio.Scanner-backed reading and *term.Terminal (golang.org/x/term)
// both satisfy it; the latter is how cmd/langrun gives an interactive
// run its raw-mode line editing (SPEC_FULL.md §3 DOMAIN STACK).
type LineReader interface {
	ReadLine() (string, error)
}

// WithLineReader overrides Input's line source directly, bypassing the
// default bufio.Scanner built from stdin.
func WithLineReader(lr LineReader) Option {
	return func(it *Interpreter) { it.lines = lr }
}

// WithGlobal installs name as a pre-bound global, letting a host embed
// additional native functions or constants before running a program.
func WithGlobal(name string, v value.Value) Option {
	return func(it *Interpreter) { it.global.Define(name, v) }
}

// scannerLineReader adapts a bufio.Scanner to LineReader, the default
// when the host hasn't supplied its own (e.g. a raw-mode terminal).
type scannerLineReader struct {
	sc *bufio.Scanner
}

func (s *scannerLineReader) ReadLine() (string, error) {
	if !s.sc.Scan() {
		if err := s.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.sc.Text(), nil
}

// Interpreter holds the process-wide global Environment (invariant I2)
// and the registered When-block checkpoints.
type Interpreter struct {
	global *value.Environment
	stdout io.Writer
	stdin  io.Reader
	lines  LineReader
	whens  []*whenContext
	files  map[string]*os.File
}

// New constructs an Interpreter with the fixed native builtins
// (spec.md §4.3) already bound into the global Environment.
func New(opts ...Option) *Interpreter {
	it := &Interpreter{
		global: value.NewGlobal(),
		stdout: os.Stdout,
		stdin:  os.Stdin,
		files:  map[string]*os.File{},
	}
	registerBuiltins(it)
	for _, opt := range opts {
		opt(it)
	}
	if it.lines == nil {
		it.lines = &scannerLineReader{sc: bufio.NewScanner(it.stdin)}
	}
	return it
}

// Run executes every top-level statement of prog against the global
// Environment, scanning When-checkpoints after each one (spec.md §5).
func (it *Interpreter) Run(prog *ast.Program) error {
	for _, stmt := range prog.Statements {
		if err := it.execute(stmt, it.global); err != nil {
			switch err.(type) {
			case *returnSignal:
				return &RuntimeError{Msg: "return outside of a function"}
			case *breakSignal:
				return &RuntimeError{Msg: "break outside of a loop"}
			case *continueSignal:
				return &RuntimeError{Msg: "continue outside of a loop"}
			default:
				return err
			}
		}
		it.runCheckpoints()
	}
	return nil
}

// runCheckpoints implements check_when_conditions (spec.md §4.3, §5):
// scan registered contexts in registration order, fire truthy ones,
// and drop volatile contexts after their first firing.
func (it *Interpreter) runCheckpoints() {
	live := it.whens[:0]
	for _, w := range it.whens {
		cond, err := it.evaluate(w.Cond, w.Env)
		fired := false
		if err == nil && value.Truthy(cond) {
			// A when-body's own errors are not surfaced to the
			// triggering statement; they have no caller to propagate to.
			_ = it.execute(w.Body, w.Env)
			fired = true
		}
		if !(fired && w.Volatile) {
			live = append(live, w)
		}
	}
	it.whens = live
}
