package compiler

import "github.com/mna/gen/lang/value"

// maxConstants is the largest number of pool entries a Program may hold,
// imposed by LOAD_CONST's 16-bit operand.
const maxConstants = 1<<16 - 1

// Program is the compiled form of a GEN source file: a linear bytecode
// buffer with a parallel per-instruction source-line table, a constant
// pool, and the entry point of its main() function.
type Program struct {
	Code      []byte
	Lines     []int32
	Constants []value.Value
	// Entry is the instruction offset of the first instruction of main()'s
	// body, where the machine starts its call to main() once the top-level
	// declarations (run from offset 0) have completed. It is computed by
	// scanning the emitted code for the bytecode pattern that a
	// LOAD_CONST "main" immediately followed by FUNC_DEF produces.
	Entry int
}

// addConstant appends v to the pool and returns its index. The pool is
// append-only and never deduplicates: repeating the same literal twice in
// source produces two pool entries, matching the reference interpreter's
// explicit choice not to intern constants.
func (p *Program) addConstant(v value.Value) (uint16, error) {
	if len(p.Constants) >= maxConstants {
		return 0, errTooManyConstants
	}
	idx := len(p.Constants)
	p.Constants = append(p.Constants, v)
	return uint16(idx), nil
}

// emit appends a single opcode byte tagged with line, returning its offset.
func (p *Program) emit(op Opcode, line int) int {
	off := len(p.Code)
	p.Code = append(p.Code, byte(op))
	p.Lines = append(p.Lines, int32(line))
	return off
}

// emitLoadConst emits LOAD_CONST <idx> and returns the instruction's offset.
func (p *Program) emitLoadConst(idx uint16, line int) int {
	off := p.emit(LOAD_CONST, line)
	p.Code = append(p.Code, byte(idx>>8), byte(idx))
	p.Lines = append(p.Lines, int32(line), int32(line))
	return off
}

// patchConstArg overwrites the operand of the LOAD_CONST instruction at
// off with idx. Used to back-patch forward jump targets: the compiler
// first emits a LOAD_CONST pointing at a throwaway pool slot, then once
// the real jump target is known, adds it as a constant and rewrites the
// placeholder's operand to point at it.
func (p *Program) patchConstArg(off int, idx uint16) {
	p.Code[off+1] = byte(idx >> 8)
	p.Code[off+2] = byte(idx)
}
