package compiler

import (
	"fmt"
	"strconv"

	"github.com/mna/gen/lang/lexer"
	"github.com/mna/gen/lang/token"
	"github.com/mna/gen/lang/value"
)

// loopContext tracks the jump targets a break/continue statement needs
// while compiling the body of a while loop.
type loopContext struct {
	continueTarget int
	breakPatches   []int
}

// compState holds the single-pass compiler's mutable state: the token
// source, the one-token lookahead, the program being built, and the
// enclosing loop stack for break/continue resolution.
type compState struct {
	lex   *lexer.Lexer
	cur   lexer.Token
	prog  *Program
	loops []*loopContext
}

// Compile compiles GEN source text into a Program, ready to be handed to
// the virtual machine.
func Compile(src string) (*Program, error) {
	c := &compState{lex: lexer.New(src), prog: &Program{}}
	if err := c.advance(); err != nil {
		return nil, err
	}
	for c.cur.Type != token.EOF {
		if err := c.topLevelDecl(); err != nil {
			return nil, err
		}
	}
	entry, err := findMainEntry(c.prog)
	if err != nil {
		return nil, err
	}
	c.prog.Entry = entry
	return c.prog, nil
}

// findMainEntry scans the emitted bytecode for a LOAD_CONST of the string
// "main" immediately followed by FUNC_DEF, and returns the offset of the
// instruction right after FUNC_DEF: the body of main(). This mirrors the
// reference interpreter's own strategy for locating the program's entry
// point, rather than recording it directly while compiling the
// declaration, since it is the documented and load-bearing way this
// compiler design locates main().
func findMainEntry(p *Program) (int, error) {
	code := p.Code
	for i := 0; i+2 < len(code); i++ {
		if Opcode(code[i]) != LOAD_CONST {
			continue
		}
		idx := int(code[i+1])<<8 | int(code[i+2])
		if idx >= len(p.Constants) {
			continue
		}
		s, ok := p.Constants[idx].(value.String)
		if !ok || string(s) != "main" {
			continue
		}
		after := i + 3
		if after < len(code) && Opcode(code[after]) == FUNC_DEF {
			return after + 1, nil
		}
	}
	return 0, &Error{Line: 0, Message: "main() function is missing"}
}

func (c *compState) advance() error {
	tok, err := c.lex.Next()
	if err != nil {
		return &Error{Line: lexErrLine(err), Message: err.Error()}
	}
	c.cur = tok
	return nil
}

func lexErrLine(err error) int {
	if le, ok := err.(*lexer.Error); ok {
		return le.Line
	}
	return 0
}

func (c *compState) errf(format string, args ...any) error {
	return &Error{Line: c.cur.Line, Message: fmt.Sprintf(format, args...)}
}

func (c *compState) expect(tt token.Token) (lexer.Token, error) {
	if c.cur.Type != tt {
		return lexer.Token{}, c.errf("Expected %s but got %s", tt, c.cur.Type)
	}
	tok := c.cur
	if err := c.advance(); err != nil {
		return lexer.Token{}, err
	}
	return tok, nil
}

func (c *compState) addConst(v value.Value) (uint16, error) {
	idx, err := c.prog.addConstant(v)
	if err != nil {
		return 0, &Error{Line: c.cur.Line, Message: err.Error()}
	}
	return idx, nil
}

func (c *compState) emitName(name string, line int) error {
	idx, err := c.addConst(value.String(name))
	if err != nil {
		return err
	}
	c.prog.emitLoadConst(idx, line)
	return nil
}

func (c *compState) emitNumber(n float64, line int) error {
	idx, err := c.addConst(value.Number(n))
	if err != nil {
		return err
	}
	c.prog.emitLoadConst(idx, line)
	return nil
}

// emitJumpPlaceholder emits LOAD_CONST <dummy>; op and returns the offset
// of the LOAD_CONST instruction, to be resolved later via patchJumpTo.
func (c *compState) emitJumpPlaceholder(op Opcode, line int) (int, error) {
	idx, err := c.addConst(value.Number(0))
	if err != nil {
		return 0, err
	}
	off := c.prog.emitLoadConst(idx, line)
	c.prog.emit(op, line)
	return off, nil
}

func (c *compState) patchJumpTo(loadConstOff, target int) error {
	idx, err := c.addConst(value.Number(float64(target)))
	if err != nil {
		return err
	}
	c.prog.patchConstArg(loadConstOff, idx)
	return nil
}

// ---- top-level declarations ----

func (c *compState) topLevelDecl() error {
	switch c.cur.Type {
	case token.VAR:
		return c.varDecl()
	case token.FUNC:
		return c.funcDecl()
	case token.OBJECT:
		return c.objectDecl()
	case token.ENUM:
		return c.enumDecl()
	default:
		return c.errf("Expected a declaration but got %s", c.cur.Type)
	}
}

func (c *compState) varDecl() error {
	line := c.cur.Line
	if _, err := c.expect(token.VAR); err != nil {
		return err
	}
	nameTok, err := c.expect(token.IDENT)
	if err != nil {
		return err
	}
	if c.cur.Type == token.ASSIGN {
		if err := c.advance(); err != nil {
			return err
		}
		if err := c.expression(); err != nil {
			return err
		}
	} else if err := c.emitNumber(0, line); err != nil {
		return err
	}
	if _, err := c.expect(token.SEMI); err != nil {
		return err
	}
	if err := c.emitName(nameTok.Text, line); err != nil {
		return err
	}
	c.prog.emit(STORE_VAR, line)
	return nil
}

func (c *compState) funcDecl() error {
	line := c.cur.Line
	if _, err := c.expect(token.FUNC); err != nil {
		return err
	}
	nameTok, err := c.expect(token.IDENT)
	if err != nil {
		return err
	}
	if err := c.emitName(nameTok.Text, line); err != nil {
		return err
	}
	c.prog.emit(FUNC_DEF, line)

	if _, err := c.expect(token.LPAREN); err != nil {
		return err
	}
	var params []lexer.Token
	if c.cur.Type != token.RPAREN {
		for {
			p, err := c.expect(token.IDENT)
			if err != nil {
				return err
			}
			params = append(params, p)
			if c.cur.Type != token.COMMA {
				break
			}
			if err := c.advance(); err != nil {
				return err
			}
		}
	}
	if _, err := c.expect(token.RPAREN); err != nil {
		return err
	}
	for _, p := range params {
		if err := c.emitName(p.Text, p.Line); err != nil {
			return err
		}
		c.prog.emit(STORE_VAR, p.Line)
	}

	if _, err := c.expect(token.LBRACE); err != nil {
		return err
	}
	for c.cur.Type != token.RBRACE {
		if c.cur.Type == token.EOF {
			return c.errf("Unterminated function body")
		}
		if err := c.statement(); err != nil {
			return err
		}
	}
	endLine := c.cur.Line
	if _, err := c.expect(token.RBRACE); err != nil {
		return err
	}

	// Implicit fallthrough return, unconditionally appended: if the body
	// already returned explicitly, this is unreachable.
	if err := c.emitNumber(0, endLine); err != nil {
		return err
	}
	c.prog.emit(RETURN, endLine)
	c.prog.emit(FUNC_END, endLine)
	return nil
}

func (c *compState) objectDecl() error {
	line := c.cur.Line
	if _, err := c.expect(token.OBJECT); err != nil {
		return err
	}
	nameTok, err := c.expect(token.IDENT)
	if err != nil {
		return err
	}
	if err := c.emitName(nameTok.Text, line); err != nil {
		return err
	}
	c.prog.emit(OBJ_DEF, line)

	if _, err := c.expect(token.LBRACE); err != nil {
		return err
	}
	for c.cur.Type != token.RBRACE {
		if c.cur.Type == token.EOF {
			return c.errf("Unterminated object body")
		}
		fline := c.cur.Line
		if _, err := c.expect(token.VAR); err != nil {
			return err
		}
		fieldTok, err := c.expect(token.IDENT)
		if err != nil {
			return err
		}
		if _, err := c.expect(token.ASSIGN); err != nil {
			return err
		}
		if err := c.expression(); err != nil {
			return err
		}
		if _, err := c.expect(token.SEMI); err != nil {
			return err
		}
		if err := c.emitName(fieldTok.Text, fline); err != nil {
			return err
		}
		c.prog.emit(INIT_PROP, fline)
	}
	if _, err := c.expect(token.RBRACE); err != nil {
		return err
	}
	c.prog.emit(OBJ_END, line)
	return nil
}

func (c *compState) enumDecl() error {
	line := c.cur.Line
	if _, err := c.expect(token.ENUM); err != nil {
		return err
	}
	nameTok, err := c.expect(token.IDENT)
	if err != nil {
		return err
	}
	if err := c.emitName(nameTok.Text, line); err != nil {
		return err
	}
	c.prog.emit(ENUM_DEF, line)

	if _, err := c.expect(token.LBRACE); err != nil {
		return err
	}
	for c.cur.Type != token.RBRACE {
		memberTok, err := c.expect(token.IDENT)
		if err != nil {
			return err
		}
		if err := c.emitName(memberTok.Text, memberTok.Line); err != nil {
			return err
		}
		c.prog.emit(STORE_ENUM, memberTok.Line)
		if c.cur.Type == token.COMMA {
			if err := c.advance(); err != nil {
				return err
			}
		} else {
			break
		}
	}
	if _, err := c.expect(token.RBRACE); err != nil {
		return err
	}
	c.prog.emit(ENUM_END, line)
	return nil
}

// ---- statements ----

func (c *compState) statement() error {
	switch c.cur.Type {
	case token.VAR:
		return c.varDecl()
	case token.IF:
		return c.ifStmt()
	case token.WHILE:
		return c.whileStmt()
	case token.BREAK:
		return c.breakStmt()
	case token.CONTINUE:
		return c.continueStmt()
	case token.RETURN:
		return c.returnStmt()
	case token.PRINT:
		return c.printStmt()
	case token.IDENT:
		return c.identStmt()
	default:
		return c.errf("Expected a statement but got %s", c.cur.Type)
	}
}

func (c *compState) block() error {
	if _, err := c.expect(token.LBRACE); err != nil {
		return err
	}
	for c.cur.Type != token.RBRACE {
		if c.cur.Type == token.EOF {
			return c.errf("Unterminated block")
		}
		if err := c.statement(); err != nil {
			return err
		}
	}
	_, err := c.expect(token.RBRACE)
	return err
}

func (c *compState) ifStmt() error {
	line := c.cur.Line
	if _, err := c.expect(token.IF); err != nil {
		return err
	}
	if _, err := c.expect(token.LPAREN); err != nil {
		return err
	}
	if err := c.expression(); err != nil {
		return err
	}
	if _, err := c.expect(token.RPAREN); err != nil {
		return err
	}
	condJump, err := c.emitJumpPlaceholder(JUMP_IF_FALSE, line)
	if err != nil {
		return err
	}
	if err := c.block(); err != nil {
		return err
	}
	if c.cur.Type == token.ELSE {
		if err := c.advance(); err != nil {
			return err
		}
		elseJump, err := c.emitJumpPlaceholder(JUMP, line)
		if err != nil {
			return err
		}
		if err := c.patchJumpTo(condJump, len(c.prog.Code)); err != nil {
			return err
		}
		if c.cur.Type == token.IF {
			if err := c.ifStmt(); err != nil {
				return err
			}
		} else if err := c.block(); err != nil {
			return err
		}
		return c.patchJumpTo(elseJump, len(c.prog.Code))
	}
	return c.patchJumpTo(condJump, len(c.prog.Code))
}

func (c *compState) whileStmt() error {
	line := c.cur.Line
	if _, err := c.expect(token.WHILE); err != nil {
		return err
	}
	loopStart := len(c.prog.Code)
	if _, err := c.expect(token.LPAREN); err != nil {
		return err
	}
	if err := c.expression(); err != nil {
		return err
	}
	if _, err := c.expect(token.RPAREN); err != nil {
		return err
	}
	exitJump, err := c.emitJumpPlaceholder(JUMP_IF_FALSE, line)
	if err != nil {
		return err
	}

	ctx := &loopContext{continueTarget: loopStart}
	c.loops = append(c.loops, ctx)
	err = c.block()
	c.loops = c.loops[:len(c.loops)-1]
	if err != nil {
		return err
	}

	if err := c.emitNumber(float64(loopStart), line); err != nil {
		return err
	}
	c.prog.emit(JUMP, line)
	if err := c.patchJumpTo(exitJump, len(c.prog.Code)); err != nil {
		return err
	}
	for _, off := range ctx.breakPatches {
		if err := c.patchJumpTo(off, len(c.prog.Code)); err != nil {
			return err
		}
	}
	return nil
}

func (c *compState) breakStmt() error {
	line := c.cur.Line
	if _, err := c.expect(token.BREAK); err != nil {
		return err
	}
	if _, err := c.expect(token.SEMI); err != nil {
		return err
	}
	if len(c.loops) == 0 {
		return &Error{Line: line, Message: "break used outside of a loop"}
	}
	off, err := c.emitJumpPlaceholder(JUMP, line)
	if err != nil {
		return err
	}
	ctx := c.loops[len(c.loops)-1]
	ctx.breakPatches = append(ctx.breakPatches, off)
	return nil
}

func (c *compState) continueStmt() error {
	line := c.cur.Line
	if _, err := c.expect(token.CONTINUE); err != nil {
		return err
	}
	if _, err := c.expect(token.SEMI); err != nil {
		return err
	}
	if len(c.loops) == 0 {
		return &Error{Line: line, Message: "continue used outside of a loop"}
	}
	ctx := c.loops[len(c.loops)-1]
	if err := c.emitNumber(float64(ctx.continueTarget), line); err != nil {
		return err
	}
	c.prog.emit(JUMP, line)
	return nil
}

func (c *compState) returnStmt() error {
	line := c.cur.Line
	if _, err := c.expect(token.RETURN); err != nil {
		return err
	}
	if c.cur.Type == token.SEMI {
		if err := c.emitNumber(0, line); err != nil {
			return err
		}
	} else if err := c.expression(); err != nil {
		return err
	}
	if _, err := c.expect(token.SEMI); err != nil {
		return err
	}
	c.prog.emit(RETURN, line)
	return nil
}

func (c *compState) printStmt() error {
	line := c.cur.Line
	if _, err := c.expect(token.PRINT); err != nil {
		return err
	}
	if err := c.expression(); err != nil {
		return err
	}
	c.prog.emit(PRINT, line)
	if c.cur.Type == token.ENDL {
		if err := c.advance(); err != nil {
			return err
		}
		c.prog.emit(ENDL, line)
	}
	_, err := c.expect(token.SEMI)
	return err
}

// identStmt compiles any statement starting with a bare identifier:
// a plain assignment, a call statement, or a single-level property/array
// element assignment.
func (c *compState) identStmt() error {
	nameTok, err := c.expect(token.IDENT)
	if err != nil {
		return err
	}
	line := nameTok.Line

	switch c.cur.Type {
	case token.ASSIGN:
		if err := c.advance(); err != nil {
			return err
		}
		if err := c.expression(); err != nil {
			return err
		}
		if _, err := c.expect(token.SEMI); err != nil {
			return err
		}
		if err := c.emitName(nameTok.Text, line); err != nil {
			return err
		}
		c.prog.emit(STORE_VAR, line)
		return nil

	case token.LPAREN:
		if err := c.emitName(nameTok.Text, line); err != nil {
			return err
		}
		c.prog.emit(LOAD_VAR, line)
		argc, err := c.callArgs()
		if err != nil {
			return err
		}
		if _, err := c.expect(token.SEMI); err != nil {
			return err
		}
		if err := c.emitNumber(float64(argc), line); err != nil {
			return err
		}
		c.prog.emit(CALL, line)
		if err := c.emitNumber(1, line); err != nil {
			return err
		}
		c.prog.emit(STACK_CLEAR, line)
		return nil

	case token.DOT:
		if err := c.emitName(nameTok.Text, line); err != nil {
			return err
		}
		c.prog.emit(LOAD_VAR, line)
		if err := c.advance(); err != nil {
			return err
		}
		propTok, err := c.expect(token.IDENT)
		if err != nil {
			return err
		}
		if _, err := c.expect(token.ASSIGN); err != nil {
			return err
		}
		if err := c.expression(); err != nil {
			return err
		}
		if _, err := c.expect(token.SEMI); err != nil {
			return err
		}
		if err := c.emitName(propTok.Text, propTok.Line); err != nil {
			return err
		}
		c.prog.emit(STORE_PROP, line)
		return nil

	case token.LBRACKET:
		if err := c.emitName(nameTok.Text, line); err != nil {
			return err
		}
		c.prog.emit(LOAD_VAR, line)
		if err := c.advance(); err != nil {
			return err
		}
		if err := c.expression(); err != nil {
			return err
		}
		if _, err := c.expect(token.RBRACKET); err != nil {
			return err
		}
		if _, err := c.expect(token.ASSIGN); err != nil {
			return err
		}
		if err := c.expression(); err != nil {
			return err
		}
		if _, err := c.expect(token.SEMI); err != nil {
			return err
		}
		c.prog.emit(ARRAY_SET, line)
		return nil

	default:
		return c.errf("Expected a statement but got %s", c.cur.Type)
	}
}

// callArgs compiles a parenthesized, comma-separated argument list, with
// the opening LPAREN expected to be the current token, and returns the
// argument count.
func (c *compState) callArgs() (int, error) {
	if _, err := c.expect(token.LPAREN); err != nil {
		return 0, err
	}
	argc := 0
	if c.cur.Type != token.RPAREN {
		for {
			if err := c.expression(); err != nil {
				return 0, err
			}
			argc++
			if c.cur.Type != token.COMMA {
				break
			}
			if err := c.advance(); err != nil {
				return 0, err
			}
		}
	}
	if _, err := c.expect(token.RPAREN); err != nil {
		return 0, err
	}
	return argc, nil
}

// ---- expressions ----

func (c *compState) expression() error { return c.logicalOr() }

func (c *compState) logicalOr() error {
	if err := c.logicalAnd(); err != nil {
		return err
	}
	for c.cur.Type == token.OR {
		line := c.cur.Line
		if err := c.advance(); err != nil {
			return err
		}
		if err := c.logicalAnd(); err != nil {
			return err
		}
		c.prog.emit(OR, line)
	}
	return nil
}

func (c *compState) logicalAnd() error {
	if err := c.comparison(); err != nil {
		return err
	}
	for c.cur.Type == token.AND {
		line := c.cur.Line
		if err := c.advance(); err != nil {
			return err
		}
		if err := c.comparison(); err != nil {
			return err
		}
		c.prog.emit(AND, line)
	}
	return nil
}

var comparisonOps = map[token.Token]Opcode{
	token.EQ:  CMP_EQ,
	token.NEQ: CMP_NE,
	token.GT:  CMP_GT,
	token.GE:  CMP_GE,
	token.LT:  CMP_LT,
	token.LE:  CMP_LE,
}

// comparison compiles a single, non-chaining comparison: a op b. Chained
// comparisons like "a < b < c" are not part of the grammar.
func (c *compState) comparison() error {
	if err := c.additive(); err != nil {
		return err
	}
	if op, ok := comparisonOps[c.cur.Type]; ok {
		line := c.cur.Line
		if err := c.advance(); err != nil {
			return err
		}
		if err := c.additive(); err != nil {
			return err
		}
		c.prog.emit(op, line)
	}
	return nil
}

func (c *compState) additive() error {
	if err := c.multiplicative(); err != nil {
		return err
	}
	for c.cur.Type == token.PLUS || c.cur.Type == token.MINUS {
		op, line := ADD, c.cur.Line
		if c.cur.Type == token.MINUS {
			op = SUB
		}
		if err := c.advance(); err != nil {
			return err
		}
		if err := c.multiplicative(); err != nil {
			return err
		}
		c.prog.emit(op, line)
	}
	return nil
}

func (c *compState) multiplicative() error {
	if err := c.unary(); err != nil {
		return err
	}
	for c.cur.Type == token.STAR || c.cur.Type == token.SLASH || c.cur.Type == token.SLASHSLASH {
		var op Opcode
		line := c.cur.Line
		switch c.cur.Type {
		case token.STAR:
			op = MUL
		case token.SLASH:
			op = DIV
		case token.SLASHSLASH:
			op = DIV_FLOOR
		}
		if err := c.advance(); err != nil {
			return err
		}
		if err := c.unary(); err != nil {
			return err
		}
		c.prog.emit(op, line)
	}
	return nil
}

func (c *compState) unary() error {
	switch c.cur.Type {
	case token.BANG, token.MINUS:
		line := c.cur.Line
		if err := c.advance(); err != nil {
			return err
		}
		if err := c.unary(); err != nil {
			return err
		}
		c.prog.emit(NEG, line)
		return nil

	case token.PIPE:
		return c.lengthOf()

	default:
		return c.postfix()
	}
}

// lengthOf compiles |expr|, the length operator: evaluate the operand and
// emit SIZEOF, whose VM handler (execSizeof) resolves it to a string's or
// array's length.
func (c *compState) lengthOf() error {
	line := c.cur.Line
	if err := c.advance(); err != nil {
		return err
	}
	if err := c.expression(); err != nil {
		return err
	}
	if _, err := c.expect(token.PIPE); err != nil {
		return err
	}
	c.prog.emit(SIZEOF, line)
	return nil
}

// postfix compiles a primary expression followed by any number of
// .field, [index] or (args) accesses.
func (c *compState) postfix() error {
	if err := c.primary(); err != nil {
		return err
	}
	for {
		switch c.cur.Type {
		case token.DOT:
			line := c.cur.Line
			if err := c.advance(); err != nil {
				return err
			}
			nameTok, err := c.expect(token.IDENT)
			if err != nil {
				return err
			}
			if err := c.emitName(nameTok.Text, line); err != nil {
				return err
			}
			c.prog.emit(LOAD_PROP_CONST, line)

		case token.LBRACKET:
			line := c.cur.Line
			if err := c.advance(); err != nil {
				return err
			}
			if err := c.expression(); err != nil {
				return err
			}
			if _, err := c.expect(token.RBRACKET); err != nil {
				return err
			}
			c.prog.emit(ARRAY_GET, line)

		case token.LPAREN:
			line := c.cur.Line
			argc, err := c.callArgs()
			if err != nil {
				return err
			}
			if err := c.emitNumber(float64(argc), line); err != nil {
				return err
			}
			c.prog.emit(CALL, line)

		default:
			return nil
		}
	}
}

func (c *compState) primary() error {
	line := c.cur.Line
	switch c.cur.Type {
	case token.NUMBER:
		text := c.cur.Text
		if err := c.advance(); err != nil {
			return err
		}
		return c.emitNumber(parseNumber(text), line)

	case token.STRING:
		text := c.cur.Text
		if err := c.advance(); err != nil {
			return err
		}
		idx, err := c.addConst(value.String(text))
		if err != nil {
			return err
		}
		c.prog.emitLoadConst(idx, line)
		return nil

	case token.TRUE, token.FALSE:
		b := c.cur.Type == token.TRUE
		if err := c.advance(); err != nil {
			return err
		}
		idx, err := c.addConst(value.Boolean(b))
		if err != nil {
			return err
		}
		c.prog.emitLoadConst(idx, line)
		return nil

	case token.IDENT:
		nameTok := c.cur
		if err := c.advance(); err != nil {
			return err
		}
		return c.primaryIdent(nameTok.Text, line)

	case token.LPAREN:
		if err := c.advance(); err != nil {
			return err
		}
		if err := c.expression(); err != nil {
			return err
		}
		_, err := c.expect(token.RPAREN)
		return err

	case token.LBRACKET:
		return c.arrayLiteral()

	case token.NEW:
		if err := c.advance(); err != nil {
			return err
		}
		nameTok, err := c.expect(token.IDENT)
		if err != nil {
			return err
		}
		if err := c.emitName(nameTok.Text, line); err != nil {
			return err
		}
		c.prog.emit(NEW_OBJ, line)
		return nil

	default:
		return c.errf("Expected an expression but got %s", c.cur.Type)
	}
}

// arrayLiteral compiles [e1, e2, ...]. Elements are pushed left to right,
// so they end up on the stack with the last element on top; ARRAY_DEF
// pops the element count and then reconstructs the array in the correct
// forward order from that reversed stack order.
func (c *compState) arrayLiteral() error {
	line := c.cur.Line
	if _, err := c.expect(token.LBRACKET); err != nil {
		return err
	}
	n := 0
	if c.cur.Type != token.RBRACKET {
		for {
			if err := c.expression(); err != nil {
				return err
			}
			n++
			if c.cur.Type != token.COMMA {
				break
			}
			if err := c.advance(); err != nil {
				return err
			}
		}
	}
	if _, err := c.expect(token.RBRACKET); err != nil {
		return err
	}
	if err := c.emitNumber(float64(n), line); err != nil {
		return err
	}
	c.prog.emit(ARRAY_DEF, line)
	return nil
}

// primaryIdent compiles a bare variable read: LOAD_CONST name; LOAD_VAR.
// postfix then decides, from what follows, whether this was a plain value
// read or the callee of a CALL.
func (c *compState) primaryIdent(name string, line int) error {
	if err := c.emitName(name, line); err != nil {
		return err
	}
	c.prog.emit(LOAD_VAR, line)
	return nil
}

// parseNumber converts a lexer-validated numeric literal (digits, with an
// optional single '.' followed by more digits) into a float64. The lexer
// only ever emits text this function can parse, so an error here would
// indicate a lexer/compiler mismatch rather than bad user input.
func parseNumber(text string) float64 {
	n, _ := strconv.ParseFloat(text, 64)
	return n
}
