package machine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mna/gen/lang/compiler"
	"github.com/mna/gen/lang/value"
)

func runTest(t *testing.T, src string) []value.Value {
	t.Helper()
	prog, err := compiler.Compile(src)
	require.NoError(t, err)
	out, err := New(prog).RunTest()
	require.NoError(t, err)
	return out
}

func runErr(t *testing.T, src string) error {
	t.Helper()
	prog, err := compiler.Compile(src)
	require.NoError(t, err)
	_, err = New(prog).RunTest()
	return err
}

func TestArithmetic(t *testing.T) {
	out := runTest(t, `
		func main() {
			print 2 + 3 * 4 endl;
			print (2 + 3) * 4 endl;
			print 7 // 2 endl;
			print 7 / 2;
			return 0;
		}
	`)
	require.Len(t, out, 4)
	assert.Equal(t, value.Number(14), out[0])
	assert.Equal(t, value.Number(20), out[1])
	assert.Equal(t, value.Number(3), out[2])
	assert.Equal(t, value.Number(3.5), out[3])
}

func TestDivisionByZero(t *testing.T) {
	err := runErr(t, `
		func main() {
			print 1 / 0;
			return 0;
		}
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Division by 0")
}

func TestFloorDivisionByZero(t *testing.T) {
	err := runErr(t, `
		func main() {
			print 1 // 0;
			return 0;
		}
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Division by 0")
}

func TestIfElse(t *testing.T) {
	out := runTest(t, `
		func main() {
			var x = 5;
			if (x > 10) {
				print "big";
			} else {
				print "small";
			}
			return 0;
		}
	`)
	require.Len(t, out, 1)
	assert.Equal(t, value.String("small"), out[0])
}

func TestWhileBreak(t *testing.T) {
	out := runTest(t, `
		func main() {
			var i = 0;
			while (i < 100) {
				if (i == 3) {
					break;
				}
				i = i + 1;
			}
			print i;
			return 0;
		}
	`)
	require.Len(t, out, 1)
	assert.Equal(t, value.Number(3), out[0])
}

func TestWhileContinue(t *testing.T) {
	out := runTest(t, `
		func main() {
			var i = 0;
			var sum = 0;
			while (i < 5) {
				i = i + 1;
				if (i == 3) {
					continue;
				}
				sum = sum + i;
			}
			print sum;
			return 0;
		}
	`)
	require.Len(t, out, 1)
	assert.Equal(t, value.Number(12), out[0])
}

func TestFunctionCallAndRecursion(t *testing.T) {
	out := runTest(t, `
		func fact(n) {
			if (n <= 1) {
				return 1;
			}
			return n * fact(n - 1);
		}
		func main() {
			print fact(5);
			return 0;
		}
	`)
	require.Len(t, out, 1)
	assert.Equal(t, value.Number(120), out[0])
}

func TestObjectTemplate(t *testing.T) {
	out := runTest(t, `
		object Point {
			var x = 1;
			var y = 2;
		}
		func main() {
			var p = new Point;
			print p.x;
			print p.y;
			p.x = 9;
			print p.x;
			return 0;
		}
	`)
	require.Len(t, out, 3)
	assert.Equal(t, value.Number(1), out[0])
	assert.Equal(t, value.Number(2), out[1])
	assert.Equal(t, value.Number(9), out[2])
}

func TestObjectReferenceSemanticsAcrossAssignment(t *testing.T) {
	out := runTest(t, `
		object Box {
			var n = 0;
		}
		func mutate(b) {
			b.n = 42;
			return 0;
		}
		func main() {
			var b = new Box;
			mutate(b);
			print b.n;
			return 0;
		}
	`)
	require.Len(t, out, 1)
	assert.Equal(t, value.Number(42), out[0])
}

func TestEnum(t *testing.T) {
	out := runTest(t, `
		enum Color {
			RED, GREEN, BLUE
		}
		func main() {
			print Color.RED;
			print Color.GREEN;
			print Color.BLUE;
			return 0;
		}
	`)
	require.Len(t, out, 3)
	assert.Equal(t, value.Number(0), out[0])
	assert.Equal(t, value.Number(1), out[1])
	assert.Equal(t, value.Number(2), out[2])
}

func TestEmptyEnumIsRuntimeError(t *testing.T) {
	err := runErr(t, `
		enum Empty {
		}
		func main() {
			return 0;
		}
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty enum")
}

func TestArrayLiteralAndIndexing(t *testing.T) {
	out := runTest(t, `
		func main() {
			var a = [10, 20, 30];
			print a[1];
			a[1] = 99;
			print a[1];
			print |a|;
			return 0;
		}
	`)
	require.Len(t, out, 3)
	assert.Equal(t, value.Number(20), out[0])
	assert.Equal(t, value.Number(99), out[1])
	assert.Equal(t, value.Number(3), out[2])
}

func TestArrayIndexOutOfRange(t *testing.T) {
	err := runErr(t, `
		func main() {
			var a = [1, 2];
			print a[5];
			return 0;
		}
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Index out of range")
}

func TestArrayAddAppendsElement(t *testing.T) {
	out := runTest(t, `
		func main() {
			var a = [1, 2];
			a = a + 3;
			print |a|;
			print a[2];
			return 0;
		}
	`)
	require.Len(t, out, 2)
	assert.Equal(t, value.Number(3), out[0])
	assert.Equal(t, value.Number(3), out[1])
}

func TestArraySubtractDropsTrailing(t *testing.T) {
	out := runTest(t, `
		func main() {
			var a = [1, 2, 3, 4];
			a = a - 2;
			print |a|;
			return 0;
		}
	`)
	require.Len(t, out, 1)
	assert.Equal(t, value.Number(2), out[0])
}

func TestLengthOperatorOnString(t *testing.T) {
	out := runTest(t, `
		func main() {
			var s = "hello";
			print s[1];
			print |s|;
			return 0;
		}
	`)
	require.Len(t, out, 2)
	assert.Equal(t, value.String("e"), out[0])
	assert.Equal(t, value.Number(5), out[1])
}

func TestLengthOperatorDrivesWhileLoopBound(t *testing.T) {
	out := runTest(t, `
		func main() {
			var xs = [1, 2, 3];
			xs = xs + 4;
			var i = 0;
			while (i < |xs|) {
				print xs[i];
				i = i + 1;
			}
			return 0;
		}
	`)
	require.Len(t, out, 4)
	assert.Equal(t, value.Number(1), out[0])
	assert.Equal(t, value.Number(2), out[1])
	assert.Equal(t, value.Number(3), out[2])
	assert.Equal(t, value.Number(4), out[3])
}

func TestStringConcatenation(t *testing.T) {
	out := runTest(t, `
		func main() {
			var s = "hello" + " world";
			print s;
			return 0;
		}
	`)
	require.Len(t, out, 1)
	assert.Equal(t, value.String("hello world"), out[0])
}

func TestLogicalOperators(t *testing.T) {
	out := runTest(t, `
		func main() {
			print true and false;
			print true or false;
			return 0;
		}
	`)
	require.Len(t, out, 2)
	assert.Equal(t, value.Boolean(false), out[0])
	assert.Equal(t, value.Boolean(true), out[1])
}

func TestCallStatementDiscardsReturnValue(t *testing.T) {
	out := runTest(t, `
		func give() {
			return 7;
		}
		func main() {
			give();
			print 1;
			return 0;
		}
	`)
	require.Len(t, out, 1)
	assert.Equal(t, value.Number(1), out[0])
}

func TestRecordedArrayIsSnapshotNotLiveReference(t *testing.T) {
	out := runTest(t, `
		func main() {
			var a = [1, 2];
			print a;
			a[0] = 999;
			return 0;
		}
	`)
	require.Len(t, out, 1)
	arr, ok := out[0].(*value.Array)
	require.True(t, ok)
	v, err := arr.Get(0)
	require.NoError(t, err)
	assert.Equal(t, value.Number(1), v, "recorded snapshot must not reflect the later mutation")
}

func TestUndefinedVariable(t *testing.T) {
	err := runErr(t, `
		func main() {
			print doesNotExist;
			return 0;
		}
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Undefined variable")
}

func TestStackOverflowFromDeepRecursion(t *testing.T) {
	err := runErr(t, `
		func recurse(n) {
			return recurse(n + 1);
		}
		func main() {
			return recurse(0);
		}
	`)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "Call stack overflow") || strings.Contains(err.Error(), "Stack overflow"))
}
