package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/gen/lang/value"
)

func compile(t *testing.T, src string) *Program {
	t.Helper()
	prog, err := Compile(src)
	require.NoError(t, err)
	return prog
}

func TestCompileMinimalMain(t *testing.T) {
	prog := compile(t, `
		func main() {
			return 0;
		}
	`)
	assert.Greater(t, prog.Entry, 0)
	assert.Less(t, prog.Entry, len(prog.Code))
}

func TestCompileMissingMain(t *testing.T) {
	_, err := Compile(`
		func helper() {
			return 0;
		}
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "main() function is missing")
}

func TestCompileVarAndPrint(t *testing.T) {
	prog := compile(t, `
		func main() {
			var x = 3 + 4;
			print x endl;
			return 0;
		}
	`)
	assert.Contains(t, prog.Code, byte(PRINT))
	assert.Contains(t, prog.Code, byte(ADD))
}

func TestCompileVarWithoutInitializer(t *testing.T) {
	prog := compile(t, `
		func main() {
			var x;
			return 0;
		}
	`)
	found := false
	for _, c := range prog.Constants {
		if n, ok := c.(value.Number); ok && n == 0 {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCompileIfElse(t *testing.T) {
	prog := compile(t, `
		func main() {
			var x = 1;
			if (x == 1) {
				print "one" endl;
			} else {
				print "other" endl;
			}
			return 0;
		}
	`)
	assert.Contains(t, prog.Code, byte(JUMP_IF_FALSE))
	assert.Contains(t, prog.Code, byte(JUMP))
}

func TestCompileWhileBreakContinue(t *testing.T) {
	prog := compile(t, `
		func main() {
			var i = 0;
			while (i < 10) {
				i = i + 1;
				if (i == 5) {
					break;
				}
				continue;
			}
			return 0;
		}
	`)
	assert.Contains(t, prog.Code, byte(JUMP_IF_FALSE))
}

func TestCompileFunctionCall(t *testing.T) {
	prog := compile(t, `
		func add(a, b) {
			return a + b;
		}
		func main() {
			var r = add(1, 2);
			return 0;
		}
	`)
	assert.Contains(t, prog.Code, byte(CALL))
}

func TestCompileCallStatementClearsStack(t *testing.T) {
	prog := compile(t, `
		func noop() {
			return 0;
		}
		func main() {
			noop();
			return 0;
		}
	`)
	assert.Contains(t, prog.Code, byte(STACK_CLEAR))
}

func TestCompileObjectTemplate(t *testing.T) {
	prog := compile(t, `
		object Point {
			var x = 0;
			var y = 0;
		}
		func main() {
			var p = new Point;
			p.x = 5;
			print p.x endl;
			return 0;
		}
	`)
	assert.Contains(t, prog.Code, byte(OBJ_DEF))
	assert.Contains(t, prog.Code, byte(NEW_OBJ))
	assert.Contains(t, prog.Code, byte(STORE_PROP))
	assert.Contains(t, prog.Code, byte(LOAD_PROP_CONST))
}

func TestCompileEnum(t *testing.T) {
	prog := compile(t, `
		enum Color {
			RED, GREEN, BLUE
		}
		func main() {
			print Color.RED endl;
			return 0;
		}
	`)
	assert.Contains(t, prog.Code, byte(ENUM_DEF))
	assert.Contains(t, prog.Code, byte(STORE_ENUM))
	assert.Contains(t, prog.Code, byte(ENUM_END))
}

func TestCompileArrayLiteralAndIndexAssignment(t *testing.T) {
	prog := compile(t, `
		func main() {
			var a = [1, 2, 3];
			a[0] = 9;
			print a[0] endl;
			return 0;
		}
	`)
	assert.Contains(t, prog.Code, byte(ARRAY_DEF))
	assert.Contains(t, prog.Code, byte(ARRAY_SET))
	assert.Contains(t, prog.Code, byte(ARRAY_GET))
}

func TestCompileLengthOperator(t *testing.T) {
	prog := compile(t, `
		func main() {
			var s = "hello";
			print |s|;
			return 0;
		}
	`)
	assert.Contains(t, prog.Code, byte(SIZEOF))
}

func TestCompileBreakOutsideLoopIsError(t *testing.T) {
	_, err := Compile(`
		func main() {
			break;
			return 0;
		}
	`)
	require.Error(t, err)
}

func TestCompileDivisionAndFloorDivision(t *testing.T) {
	prog := compile(t, `
		func main() {
			var x = 7 / 2;
			var y = 7 // 2;
			return 0;
		}
	`)
	assert.Contains(t, prog.Code, byte(DIV))
	assert.Contains(t, prog.Code, byte(DIV_FLOOR))
}

func TestCompileLengthOperatorOnArray(t *testing.T) {
	prog := compile(t, `
		func main() {
			var a = [1, 2, 3];
			print |a| endl;
			return 0;
		}
	`)
	assert.Contains(t, prog.Code, byte(SIZEOF))
}
