package compiler

import (
	"strings"
	"testing"
)

func TestOpcodeString(t *testing.T) {
	for op := Opcode(0); op < opcodeMax; op++ {
		if opcodeNames[op] == "" {
			t.Errorf("missing string representation of opcode %d", op)
		}
		if s := op.String(); strings.Contains(s, "illegal") {
			t.Errorf("invalid string representation of opcode %d", op)
		}
	}
}

func TestOpcodeHasArg(t *testing.T) {
	if !LOAD_CONST.HasArg() {
		t.Errorf("LOAD_CONST should have an argument")
	}
	if CALL.HasArg() {
		t.Errorf("CALL should not have an inline argument")
	}
}
