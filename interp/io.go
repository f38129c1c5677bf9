package interp

import (
	"bufio"
	"fmt"
	"os"

	"github.com/codeassociates/langcore/ast"
	"github.com/codeassociates/langcore/value"
)

// evalInput implements Input as an expression: print the optional
// prompt, then read one line through the Interpreter's LineReader
// (spec.md §4.3: "InputStmt/OpenStmt delegate to host I/O"). The
// LineReader is read once per call rather than wrapped in a fresh
// bufio.Reader each time, so buffered-but-unread input from a prior
// Input isn't dropped.
func (it *Interpreter) evalInput(e *ast.Input, env *value.Environment) (value.Value, error) {
	if e.Prompt != nil {
		p, err := it.evaluate(e.Prompt, env)
		if err != nil {
			return nil, err
		}
		fmt.Fprint(it.stdout, p.String())
	}
	line, err := it.lines.ReadLine()
	if err != nil {
		return value.Null{}, nil
	}
	return value.String(line), nil
}

func (it *Interpreter) execInputStmt(s *ast.InputStmt, env *value.Environment) error {
	v, err := it.evalInput(&ast.Input{Token: s.Token, Prompt: s.Prompt}, env)
	if err != nil {
		return err
	}
	env.Define(s.Variable.Lexeme, v)
	return nil
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

// evalOpen opens filename under mode and wraps the *os.File in a
// KindFile Object; read/write access goes through its "read_line"/
// "write"/"close" method fields (SPEC_FULL.md §6).
func (it *Interpreter) evalOpen(e *ast.Open, env *value.Environment) (value.Value, error) {
	nameVal, err := it.evaluate(e.Filename, env)
	if err != nil {
		return nil, err
	}
	modeVal, err := it.evaluate(e.Mode, env)
	if err != nil {
		return nil, err
	}
	name, ok := nameVal.(value.String)
	if !ok {
		return nil, &RuntimeError{Line: e.Token.Line, Msg: "open: filename must be a string"}
	}
	modeStr, _ := modeVal.(value.String)
	return it.openFile(string(name), openModeFlag(string(modeStr)), e.Token.Line)
}

func (it *Interpreter) execOpenStmt(s *ast.OpenStmt, env *value.Environment) error {
	nameVal, err := it.evaluate(s.Filename, env)
	if err != nil {
		return err
	}
	name, ok := nameVal.(value.String)
	if !ok {
		return &RuntimeError{Line: s.Token.Line, Msg: "open: filename must be a string"}
	}
	fileObj, err := it.openFile(string(name), openModeFlagFromMode(s.Mode), s.Token.Line)
	if err != nil {
		return err
	}
	env.Define(s.Variable.Lexeme, fileObj)
	return nil
}

func openModeFlagFromMode(m ast.OpenMode) int {
	switch m {
	case ast.ModeRead:
		return os.O_RDONLY
	case ast.ModeWrite:
		return os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	case ast.ModeAppend:
		return os.O_WRONLY | os.O_CREATE | os.O_APPEND
	case ast.ModeReadWrite:
		return os.O_RDWR
	case ast.ModeWriteRead:
		return os.O_RDWR | os.O_CREATE | os.O_TRUNC
	case ast.ModeAppendRead:
		return os.O_RDWR | os.O_CREATE | os.O_APPEND
	}
	return os.O_RDONLY
}

func openModeFlag(mode string) int {
	switch mode {
	case "r":
		return os.O_RDONLY
	case "w":
		return os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	case "a":
		return os.O_WRONLY | os.O_CREATE | os.O_APPEND
	case "r+":
		return os.O_RDWR
	case "w+":
		return os.O_RDWR | os.O_CREATE | os.O_TRUNC
	case "a+":
		return os.O_RDWR | os.O_CREATE | os.O_APPEND
	}
	return os.O_RDONLY
}

// openFile is the common path behind both the Open expression and
// OpenStmt: it backs the language-level file handle with a real
// *os.File and installs read_line/write/close as native Function fields so
// the object model's "method call = field load yields a Function, then
// Call" rule (spec.md §9) applies uniformly to files too.
func (it *Interpreter) openFile(name string, flag int, line int) (value.Value, error) {
	f, err := os.OpenFile(name, flag, 0644)
	if err != nil {
		return nil, &RuntimeError{Line: line, Msg: err.Error()}
	}
	obj := &value.Object{TypeName: "file", Kind: value.KindFile, Fields: map[string]value.Value{}}
	reader := bufio.NewReader(f)

	obj.Fields["read_line"] = value.NewNative("read_line", func(args []value.Value) (value.Value, error) {
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return value.Null{}, nil
		}
		return value.String(trimNewline(line)), nil
	})
	obj.Fields["write"] = value.NewNative("write", func(args []value.Value) (value.Value, error) {
		for _, a := range args {
			if _, err := f.WriteString(a.String()); err != nil {
				return nil, &RuntimeError{Msg: err.Error()}
			}
		}
		return value.Null{}, nil
	})
	obj.Fields["close"] = value.NewNative("close", func(args []value.Value) (value.Value, error) {
		return value.Null{}, f.Close()
	})

	it.files[name] = f
	return obj, nil
}
