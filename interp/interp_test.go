package interp

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/codeassociates/langcore/lexer"
	"github.com/codeassociates/langcore/parser"
)

func run(t *testing.T, src string) string {
	t.Helper()
	toks, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatalf("lex error: %s", err)
	}
	prog, errs := parser.ParseProgram(toks)
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	var out bytes.Buffer
	it := New(WithStdout(&out))
	if err := it.Run(prog); err != nil {
		t.Fatalf("runtime error: %s", err)
	}
	return out.String()
}

func TestArithmeticPrecedence(t *testing.T) {
	out := run(t, "print(1 + 2 * 3);")
	if strings.TrimSpace(out) != "7" {
		t.Fatalf("expected 7, got %q", out)
	}
}

func TestIntDivisionTruncatesTowardZero(t *testing.T) {
	out := run(t, "print(-7 / 2);")
	if strings.TrimSpace(out) != "-3" {
		t.Fatalf("expected -3, got %q", out)
	}
}

func TestMixedIntFloatPromotes(t *testing.T) {
	out := run(t, "print(1 + 2.5);")
	if strings.TrimSpace(out) != "3.5" {
		t.Fatalf("expected 3.5, got %q", out)
	}
}

func TestStringConcatenation(t *testing.T) {
	out := run(t, `print("a" + "b");`)
	if strings.TrimSpace(out) != "ab" {
		t.Fatalf("expected ab, got %q", out)
	}
}

func TestDivisionByZeroIsRuntimeError(t *testing.T) {
	toks, _ := lexer.Tokenize("print(1 / 0);")
	prog, _ := parser.ParseProgram(toks)
	it := New(WithStdout(&bytes.Buffer{}))
	if err := it.Run(prog); err == nil {
		t.Fatalf("expected a runtime error")
	}
}

func TestClosureCapturesDefiningEnvironment(t *testing.T) {
	out := run(t, `
		int counter = 0;
		int next() { counter = counter + 1; return counter; }
		print(next());
		print(next());
		print(next());
	`)
	got := strings.Fields(out)
	want := []string{"1", "2", "3"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestWhenFiresAtCheckpoint(t *testing.T) {
	out := run(t, `
		int flag = 0;
		when (flag == 1) volatile { print("fired"); }
		flag = 1;
	`)
	if strings.TrimSpace(out) != "fired" {
		t.Fatalf("expected 'fired', got %q", out)
	}
}

func TestVolatileWhenFiresOnlyOnce(t *testing.T) {
	out := run(t, `
		int flag = 0;
		int count = 0;
		when (flag == 1) volatile { count = count + 1; print(count); }
		flag = 1;
		flag = 0;
		flag = 1;
	`)
	got := strings.Fields(out)
	if len(got) != 1 || got[0] != "1" {
		t.Fatalf("expected exactly one firing, got %v", got)
	}
}

func TestClassBuildsCustomObject(t *testing.T) {
	out := run(t, `
		class Counter {
			int value = 10;
			int get() { return value; }
		};
		Counter c = Counter;
		print(c.value);
	`)
	if strings.TrimSpace(out) != "10" {
		t.Fatalf("expected 10, got %q", out)
	}
}

func TestUndefinedVariableIsRuntimeError(t *testing.T) {
	toks, _ := lexer.Tokenize("print(nope);")
	prog, _ := parser.ParseProgram(toks)
	it := New(WithStdout(&bytes.Buffer{}))
	if err := it.Run(prog); err == nil {
		t.Fatalf("expected a runtime error for an undefined variable")
	}
}

func TestArrayIndexingAndLength(t *testing.T) {
	out := run(t, `
		[]int a = array(1, 2, 3);
		print(a[1]);
		print(length(a));
	`)
	got := strings.Fields(out)
	if len(got) != 2 || got[0] != "2" || got[1] != "3" {
		t.Fatalf("expected [2 3], got %v", got)
	}
}

// TestOperatorOverloadPrecedesBuiltin covers property P6: a bound
// operator overload is tried before the builtin arithmetic table, so a
// pairing the builtin table would otherwise reject (Object + Object)
// succeeds when an overload exists.
func TestOperatorOverloadPrecedesBuiltin(t *testing.T) {
	out := run(t, `
		class Vector { int x = 0; };
		operator(Vector, Vector)[+] { return 42; };
		Vector a = Vector;
		Vector b = Vector;
		print(a + b);
	`)
	if strings.TrimSpace(out) != "42" {
		t.Fatalf("expected 42, got %q", out)
	}
}

// fakeLineReader is a scripted LineReader standing in for a terminal or
// piped stdin.
type fakeLineReader struct {
	lines []string
	idx   int
}

func (f *fakeLineReader) ReadLine() (string, error) {
	if f.idx >= len(f.lines) {
		return "", io.EOF
	}
	line := f.lines[f.idx]
	f.idx++
	return line, nil
}

func TestInputReadsSuccessiveLinesFromLineReader(t *testing.T) {
	toks, err := lexer.Tokenize(`
		input("name?") -> a;
		input("age?") -> b;
		print(a);
		print(b);
	`)
	if err != nil {
		t.Fatalf("lex error: %s", err)
	}
	prog, errs := parser.ParseProgram(toks)
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	var out bytes.Buffer
	it := New(WithStdout(&out), WithLineReader(&fakeLineReader{lines: []string{"Ada", "36"}}))
	if err := it.Run(prog); err != nil {
		t.Fatalf("runtime error: %s", err)
	}
	got := strings.Fields(out.String())
	want := []string{"name?age?Ada", "36"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestTopLevelReturnIsRuntimeError(t *testing.T) {
	toks, _ := lexer.Tokenize("return 5;")
	prog, _ := parser.ParseProgram(toks)
	it := New(WithStdout(&bytes.Buffer{}))
	if err := it.Run(prog); err == nil {
		t.Fatalf("expected a runtime error for a top-level return")
	}
}

func TestTopLevelBreakIsRuntimeError(t *testing.T) {
	toks, _ := lexer.Tokenize("break;")
	prog, _ := parser.ParseProgram(toks)
	it := New(WithStdout(&bytes.Buffer{}))
	if err := it.Run(prog); err == nil {
		t.Fatalf("expected a runtime error for a top-level break")
	}
}

func TestForLoopBreakAndContinue(t *testing.T) {
	out := run(t, `
		for (int i = 0; i < 5; i = i + 1) {
			if (i == 1) { continue; }
			if (i == 3) { break; }
			print(i);
		}
	`)
	got := strings.Fields(out)
	want := []string{"0", "2"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
