// Package machine implements the GEN virtual machine: a stack-based
// bytecode interpreter that runs a *compiler.Program produced by
// lang/compiler.
package machine

import (
	"fmt"
	"io"

	"github.com/mna/gen/lang/compiler"
	"github.com/mna/gen/lang/value"
)

// maxCallDepth bounds the call/object-template frame stack, guarding
// against runaway recursion. It mirrors the reference interpreter's fixed
// call-stack size.
const maxCallDepth = 256

// maxStackSize bounds the value stack for the same reason.
const maxStackSize = 256

// frame is a single call-stack entry, pushed by CALL and NEW_OBJ and
// popped by RETURN and OBJ_END respectively; both unwind the same way, so
// they share this representation.
type frame struct {
	returnIP int
	locals   *value.Table
}

// Machine executes a single compiled Program. It is not safe for
// concurrent use, nor for reuse across more than one Run/RunTest call.
type Machine struct {
	prog *compiler.Program
	ip   int

	stack  []value.Value
	frames []*frame

	globals      *value.Table
	objTemplates map[string]int
	buildingEnum *value.Enum

	out    io.Writer
	record *[]value.Value
}

// New creates a Machine ready to run prog.
func New(prog *compiler.Program) *Machine {
	return &Machine{
		prog:         prog,
		globals:      value.NewTable(),
		objTemplates: make(map[string]int),
	}
}

// Run executes the program, writing anything it prints to stdout.
func (m *Machine) Run(stdout io.Writer) error {
	m.out = stdout
	return m.run()
}

// RunTest executes the program in test-harness mode: instead of writing
// printed values to an io.Writer, it records a deep copy of each one (so
// later in-place mutation of a still-live array or object doesn't
// retroactively corrupt already-recorded output) and returns them in
// print order.
func (m *Machine) RunTest() ([]value.Value, error) {
	var recorded []value.Value
	m.record = &recorded
	err := m.run()
	return recorded, err
}

func (m *Machine) run() error {
	m.ip = 0
	for m.ip < len(m.prog.Code) {
		if err := m.step(); err != nil {
			return err
		}
	}
	if m.prog.Entry <= 0 || m.prog.Entry >= len(m.prog.Code) {
		return m.errf(0, "main() function is missing")
	}

	m.frames = append(m.frames, &frame{returnIP: -1, locals: value.NewTable()})
	m.ip = m.prog.Entry
	for len(m.frames) > 0 {
		if err := m.step(); err != nil {
			return err
		}
	}
	return nil
}

func (m *Machine) push(v value.Value) error {
	if len(m.stack) >= maxStackSize {
		return m.errf(m.curLine(), "Stack overflow")
	}
	m.stack = append(m.stack, v)
	return nil
}

func (m *Machine) pop() (value.Value, error) {
	if len(m.stack) == 0 {
		return nil, m.errf(m.curLine(), "Stack underflow")
	}
	v := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	return v, nil
}

func (m *Machine) popString(what string) (string, error) {
	v, err := m.pop()
	if err != nil {
		return "", err
	}
	s, ok := v.(value.String)
	if !ok {
		return "", m.errf(m.curLine(), "Expected %s name, got %s", what, v.Type())
	}
	return string(s), nil
}

func (m *Machine) curLine() int {
	if m.ip >= 0 && m.ip < len(m.prog.Lines) {
		return int(m.prog.Lines[m.ip])
	}
	return 0
}

// skipTo walks instructions forward from ip, honoring HasArg() so that a
// LOAD_CONST's operand bytes can never be mistaken for an opcode, until it
// passes over the instruction end and returns the offset right after it.
// Nothing is executed along the way.
func (m *Machine) skipTo(end compiler.Opcode, ip int) int {
	for {
		op := compiler.Opcode(m.prog.Code[ip])
		if op.HasArg() {
			ip += 3
		} else {
			ip++
		}
		if op == end {
			return ip
		}
	}
}

func (m *Machine) lookupVar(name string) (value.Value, bool) {
	if len(m.frames) > 0 {
		if v, ok := m.frames[len(m.frames)-1].locals.Get(name); ok {
			return v, true
		}
	}
	return m.globals.Get(name)
}

func (m *Machine) storeVar(name string, v value.Value) {
	if len(m.frames) > 0 {
		m.frames[len(m.frames)-1].locals.Set(name, v)
		return
	}
	m.globals.Set(name, v)
}

func cloneForRecord(v value.Value) value.Value {
	switch v := v.(type) {
	case *value.Array:
		return v.Clone()
	case *value.Object:
		return v.Clone()
	case *value.Enum:
		return v.Clone()
	default:
		return v
	}
}

func (m *Machine) doPrint(v value.Value) {
	if m.record != nil {
		*m.record = append(*m.record, cloneForRecord(v))
		return
	}
	fmt.Fprint(m.out, v.String())
}

func (m *Machine) doEndl() {
	if m.record != nil {
		return
	}
	fmt.Fprint(m.out, "\n")
}

func (m *Machine) step() error {
	ip0 := m.ip
	op := compiler.Opcode(m.prog.Code[ip0])
	line := int(m.prog.Lines[ip0])
	if op.HasArg() {
		m.ip = ip0 + 3
	} else {
		m.ip = ip0 + 1
	}

	switch op {
	case compiler.LOAD_CONST:
		idx := int(m.prog.Code[ip0+1])<<8 | int(m.prog.Code[ip0+2])
		if idx >= len(m.prog.Constants) {
			return m.errf(line, "Invalid constant index %d", idx)
		}
		return m.push(m.prog.Constants[idx])

	case compiler.LOAD_VAR:
		name, err := m.popString("variable")
		if err != nil {
			return err
		}
		v, ok := m.lookupVar(name)
		if !ok {
			return m.errf(line, "Undefined variable: %s", name)
		}
		return m.push(v)

	case compiler.STORE_VAR:
		name, err := m.popString("variable")
		if err != nil {
			return err
		}
		v, err := m.pop()
		if err != nil {
			return err
		}
		m.storeVar(name, v)
		return nil

	case compiler.FUNC_DEF:
		name, err := m.popString("function")
		if err != nil {
			return err
		}
		m.globals.Set(name, value.Number(m.ip))
		m.ip = m.skipTo(compiler.FUNC_END, m.ip)
		return nil

	case compiler.FUNC_END:
		return nil

	case compiler.CALL:
		return m.execCall(line)

	case compiler.RETURN:
		v, err := m.pop()
		if err != nil {
			return err
		}
		f := m.popFrame()
		m.ip = f.returnIP
		return m.push(v)

	case compiler.OBJ_DEF:
		name, err := m.popString("object")
		if err != nil {
			return err
		}
		m.objTemplates[name] = m.ip
		m.ip = m.skipTo(compiler.OBJ_END, m.ip)
		return nil

	case compiler.OBJ_END:
		f := m.popFrame()
		m.ip = f.returnIP
		return nil

	case compiler.NEW_OBJ:
		name, err := m.popString("object")
		if err != nil {
			return err
		}
		entry, ok := m.objTemplates[name]
		if !ok {
			return m.errf(line, "Undefined object template: %s", name)
		}
		if len(m.frames) >= maxCallDepth {
			return m.errf(line, "Call stack overflow")
		}
		obj := value.NewObject(name)
		if err := m.push(obj); err != nil {
			return err
		}
		m.frames = append(m.frames, &frame{returnIP: m.ip, locals: value.NewTable()})
		m.ip = entry
		return nil

	case compiler.INIT_PROP:
		return m.execInitProp(line)

	case compiler.LOAD_PROP:
		return m.execLoadProp(line, true)

	case compiler.LOAD_PROP_CONST:
		return m.execLoadProp(line, false)

	case compiler.STORE_PROP:
		return m.execStoreProp(line)

	case compiler.ENUM_DEF:
		name, err := m.popString("enum")
		if err != nil {
			return err
		}
		m.buildingEnum = value.NewEnum(name)
		return nil

	case compiler.STORE_ENUM:
		name, err := m.popString("enum member")
		if err != nil {
			return err
		}
		m.buildingEnum.Add(name)
		return nil

	case compiler.ENUM_END:
		if m.buildingEnum.Len() == 0 {
			return m.errf(line, "Cannot declare an empty enum")
		}
		m.globals.Set(m.buildingEnum.Name, m.buildingEnum)
		m.buildingEnum = nil
		return nil

	case compiler.ARRAY_DEF:
		return m.execArrayDef(line)

	case compiler.ARRAY_GET:
		return m.execArrayGet(line)

	case compiler.ARRAY_SET:
		return m.execArraySet(line)

	case compiler.SIZEOF:
		return m.execSizeof(line)

	case compiler.JUMP:
		target, err := m.popNumber(line)
		if err != nil {
			return err
		}
		m.ip = int(target)
		return nil

	case compiler.JUMP_IF_FALSE:
		target, err := m.popNumber(line)
		if err != nil {
			return err
		}
		condV, err := m.pop()
		if err != nil {
			return err
		}
		cond, ok := condV.(value.Boolean)
		if !ok {
			return m.errf(line, "Condition must be a boolean, got %s", condV.Type())
		}
		if !bool(cond) {
			m.ip = int(target)
		}
		return nil

	case compiler.ADD, compiler.SUB, compiler.MUL, compiler.DIV, compiler.DIV_FLOOR:
		return m.execBinaryArith(op, line)

	case compiler.NEG:
		v, err := m.pop()
		if err != nil {
			return err
		}
		r, err := neg(v, line, m)
		if err != nil {
			return err
		}
		return m.push(r)

	case compiler.CMP_EQ, compiler.CMP_NE, compiler.CMP_LT, compiler.CMP_LE, compiler.CMP_GT, compiler.CMP_GE:
		return m.execCompare(op, line)

	case compiler.AND:
		rhs, lhs, err := m.popTwo()
		if err != nil {
			return err
		}
		l, r, err := asBooleans(lhs, rhs, line, m, "and")
		if err != nil {
			return err
		}
		return m.push(l && r)

	case compiler.OR:
		rhs, lhs, err := m.popTwo()
		if err != nil {
			return err
		}
		l, r, err := asBooleans(lhs, rhs, line, m, "or")
		if err != nil {
			return err
		}
		return m.push(l || r)

	case compiler.PRINT:
		v, err := m.pop()
		if err != nil {
			return err
		}
		m.doPrint(v)
		return nil

	case compiler.ENDL:
		m.doEndl()
		return nil

	case compiler.STACK_CLEAR:
		n, err := m.popNumber(line)
		if err != nil {
			return err
		}
		for i := 0; i < int(n); i++ {
			if _, err := m.pop(); err != nil {
				return err
			}
		}
		return nil

	default:
		return m.errf(line, "Illegal opcode %d", op)
	}
}

func (m *Machine) popFrame() *frame {
	f := m.frames[len(m.frames)-1]
	m.frames = m.frames[:len(m.frames)-1]
	return f
}

func (m *Machine) popNumber(line int) (value.Number, error) {
	v, err := m.pop()
	if err != nil {
		return 0, err
	}
	n, ok := v.(value.Number)
	if !ok {
		return 0, m.errf(line, "Expected a number, got %s", v.Type())
	}
	return n, nil
}

// popTwo pops the two operands of a binary operator, returning them as
// (rhs, lhs): rhs was pushed last by the compiler and so is popped first.
func (m *Machine) popTwo() (rhs, lhs value.Value, err error) {
	rhs, err = m.pop()
	if err != nil {
		return nil, nil, err
	}
	lhs, err = m.pop()
	if err != nil {
		return nil, nil, err
	}
	return rhs, lhs, nil
}

func (m *Machine) execBinaryArith(op compiler.Opcode, line int) error {
	rhs, lhs, err := m.popTwo()
	if err != nil {
		return err
	}
	var result value.Value
	switch op {
	case compiler.ADD:
		result, err = add(lhs, rhs, line, m)
	case compiler.SUB:
		result, err = sub(lhs, rhs, line, m)
	case compiler.MUL:
		result, err = mul(lhs, rhs, line, m)
	case compiler.DIV:
		result, err = div(lhs, rhs, line, m)
	case compiler.DIV_FLOOR:
		result, err = divFloor(lhs, rhs, line, m)
	}
	if err != nil {
		return err
	}
	return m.push(result)
}

func (m *Machine) execCompare(op compiler.Opcode, line int) error {
	rhs, lhs, err := m.popTwo()
	if err != nil {
		return err
	}
	var result bool
	switch op {
	case compiler.CMP_EQ:
		result = cmpEq(lhs, rhs)
	case compiler.CMP_NE:
		result = !cmpEq(lhs, rhs)
	default:
		ord, err := cmpOrder(lhs, rhs, line, m, op.String())
		if err != nil {
			return err
		}
		switch op {
		case compiler.CMP_LT:
			result = ord < 0
		case compiler.CMP_LE:
			result = ord <= 0
		case compiler.CMP_GT:
			result = ord > 0
		case compiler.CMP_GE:
			result = ord >= 0
		}
	}
	return m.push(value.Boolean(result))
}

func (m *Machine) execCall(line int) error {
	argcV, err := m.popNumber(line)
	if err != nil {
		return err
	}
	argc := int(argcV)
	args := make([]value.Value, argc)
	for i := argc - 1; i >= 0; i-- {
		args[i], err = m.pop()
		if err != nil {
			return err
		}
	}
	calleeV, err := m.pop()
	if err != nil {
		return err
	}
	calleeIP, ok := calleeV.(value.Number)
	if !ok {
		return m.errf(line, "Value is not callable")
	}
	if len(m.frames) >= maxCallDepth {
		return m.errf(line, "Call stack overflow")
	}
	m.frames = append(m.frames, &frame{returnIP: m.ip, locals: value.NewTable()})
	for i := argc - 1; i >= 0; i-- {
		if err := m.push(args[i]); err != nil {
			return err
		}
	}
	m.ip = int(calleeIP)
	return nil
}

func (m *Machine) execInitProp(line int) error {
	name, err := m.popString("property")
	if err != nil {
		return err
	}
	v, err := m.pop()
	if err != nil {
		return err
	}
	objV, err := m.pop()
	if err != nil {
		return err
	}
	obj, ok := objV.(*value.Object)
	if !ok {
		return m.errf(line, "Cannot initialize a property on %s", objV.Type())
	}
	obj.Set(name, v)
	return m.push(obj)
}

func (m *Machine) execLoadProp(line int, keepReceiver bool) error {
	name, err := m.popString("property")
	if err != nil {
		return err
	}
	recv, err := m.pop()
	if err != nil {
		return err
	}
	var result value.Value
	switch r := recv.(type) {
	case *value.Object:
		result, err = r.Get(name)
	case *value.Enum:
		result, err = r.Member(name)
	default:
		return m.errf(line, "Cannot access property %q on %s", name, recv.Type())
	}
	if err != nil {
		return m.errf(line, "%s", err.Error())
	}
	if keepReceiver {
		if err := m.push(recv); err != nil {
			return err
		}
	}
	return m.push(result)
}

func (m *Machine) execStoreProp(line int) error {
	name, err := m.popString("property")
	if err != nil {
		return err
	}
	v, err := m.pop()
	if err != nil {
		return err
	}
	objV, err := m.pop()
	if err != nil {
		return err
	}
	obj, ok := objV.(*value.Object)
	if !ok {
		return m.errf(line, "Cannot set property on %s", objV.Type())
	}
	obj.Set(name, v)
	return nil
}

func (m *Machine) execArrayDef(line int) error {
	n, err := m.popNumber(line)
	if err != nil {
		return err
	}
	elems := make([]value.Value, int(n))
	for i := int(n) - 1; i >= 0; i-- {
		elems[i], err = m.pop()
		if err != nil {
			return err
		}
	}
	return m.push(value.NewArray(elems))
}

func (m *Machine) execArrayGet(line int) error {
	idxV, err := m.popNumber(line)
	if err != nil {
		return err
	}
	recv, err := m.pop()
	if err != nil {
		return err
	}
	switch r := recv.(type) {
	case *value.Array:
		v, err := r.Get(int(idxV))
		if err != nil {
			return m.errf(line, "%s", err.Error())
		}
		return m.push(v)
	case value.String:
		i := int(idxV)
		if i < 0 || i >= len(r) {
			return m.errf(line, "Index out of range: %d (length %d)", i, len(r))
		}
		return m.push(value.String(r[i]))
	default:
		return m.errf(line, "Cannot index into %s", recv.Type())
	}
}

func (m *Machine) execArraySet(line int) error {
	v, err := m.pop()
	if err != nil {
		return err
	}
	idxV, err := m.popNumber(line)
	if err != nil {
		return err
	}
	recv, err := m.pop()
	if err != nil {
		return err
	}
	arr, ok := recv.(*value.Array)
	if !ok {
		return m.errf(line, "Cannot index-assign into %s", recv.Type())
	}
	if err := arr.Set(int(idxV), v); err != nil {
		return m.errf(line, "%s", err.Error())
	}
	return nil
}

func (m *Machine) execSizeof(line int) error {
	v, err := m.pop()
	if err != nil {
		return err
	}
	switch v := v.(type) {
	case *value.Array:
		return m.push(value.Number(v.Len()))
	case value.String:
		return m.push(value.Number(len(v)))
	default:
		return m.errf(line, "sizeof is not supported for %s", v.Type())
	}
}
