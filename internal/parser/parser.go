package parser

import (
	"fmt"

	"github.com/tangzhangming/lox/internal/ast"
	"github.com/tangzhangming/lox/internal/i18n"
	"github.com/tangzhangming/lox/internal/lexer"
	"github.com/tangzhangming/lox/internal/token"
)

// ============================================================================
// Parser - 递归下降语法分析器
// ============================================================================
//
// 优先级从低到高：
//   assignment → or → and → equality → comparison → term → factor → unary → call → primary
//
// 除赋值（右结合）和一元运算（前缀）外，二元运算全部左结合。
//
// 错误恢复：
//   遇到错误时记录并进入 panicMode，此后的错误被抑制；
//   回到声明层后调用 synchronize() 丢弃 token，直到分号之后
//   或下一个语句关键字之前，然后继续解析，尽可能一次报告多个错误。
//
// ============================================================================

// Parser 语法分析器
type Parser struct {
	tokens     []token.Token
	current    int
	errors     []Error
	filename   string
	panicMode  bool // 错误恢复模式标志，用于避免级联报错
	aborted    bool // 错误数超过上限后停止解析
	exprDepth  int  // 当前块内的表达式解析深度
	blockDepth int  // 当前所在块的层数
}

// maxExprDepth 单条语句内的最大表达式嵌套深度，防止栈溢出
const maxExprDepth = 200

// maxBlockDepth 最大块嵌套深度，函数体也算一层
const maxBlockDepth = 512

// maxParseErrors 最大错误数量限制，防止错误爆炸
const maxParseErrors = 50

// maxArgs 函数参数和实参的数量上限
const maxArgs = 255

// Error 语法分析错误
type Error struct {
	Pos     token.Position
	Lexeme  string // 出错位置的 token 文本
	AtEnd   bool   // 错误发生在文件末尾
	ID      string // 消息 ID，用于映射错误码
	Message string
}

// Where 返回 " at 'x'" 或 " at end"
func (e Error) Where() string {
	if e.AtEnd {
		return i18n.T(i18n.LabelAtEnd)
	}
	return i18n.T(i18n.LabelAt, e.Lexeme)
}

func (e Error) Error() string {
	return fmt.Sprintf("[line %d] %s%s: %s", e.Pos.Line, i18n.T(i18n.LabelError), e.Where(), e.Message)
}

// New 创建一个新的语法分析器
//
// tokens 必须以 EOF 结尾（lexer.ScanTokens 的结果总是如此）。
func New(tokens []token.Token, filename string) *Parser {
	if len(tokens) == 0 || tokens[len(tokens)-1].Type != token.EOF {
		tokens = append(tokens, token.Token{
			Type: token.EOF,
			Pos:  token.Position{Filename: filename, Line: 1, Column: 1},
		})
	}
	return &Parser{
		tokens:   tokens,
		filename: filename,
	}
}

// ParseSource 扫描并解析源代码
func ParseSource(source, filename string) (*ast.Program, []lexer.Error, []Error) {
	l := lexer.New(source, filename)
	tokens := l.ScanTokens()

	p := New(tokens, filename)
	prog := p.Parse()
	return prog, l.Errors(), p.Errors()
}

// Parse 解析整个程序
func (p *Parser) Parse() *ast.Program {
	prog := &ast.Program{
		Filename: p.filename,
	}

	for !p.isAtEnd() && !p.aborted {
		p.panicMode = false // 每次迭代重置 panicMode

		stmt := p.declaration()
		if p.panicMode {
			p.synchronize()
			continue
		}
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
	}

	return prog
}

// Errors 返回所有语法错误
func (p *Parser) Errors() []Error {
	return p.errors
}

// HasErrors 检查是否有错误
func (p *Parser) HasErrors() bool {
	return len(p.errors) > 0
}

// ============================================================================
// 辅助方法
// ============================================================================

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == token.EOF
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *Parser) peekNext() token.Token {
	if p.current+1 >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1] // 返回EOF
	}
	return p.tokens[p.current+1]
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.current-1]
}

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) check(t token.TokenType) bool {
	if p.isAtEnd() {
		return false
	}
	return p.peek().Type == t
}

func (p *Parser) match(types ...token.TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

// consume 期望下一个 token 为 t
//
// panicMode 下什么也不做：出错的语句剩余部分交给 synchronize 丢弃，
// 这里提前吃掉 ';' 会让 synchronize 越过下一条语句。
func (p *Parser) consume(t token.TokenType, msgID string, args ...interface{}) token.Token {
	if p.panicMode {
		return token.Token{}
	}
	if p.check(t) {
		return p.advance()
	}
	p.error(msgID, args...)
	p.panicMode = true
	return token.Token{} // 返回零值，调用方应检查 panicMode
}

func (p *Parser) error(msgID string, args ...interface{}) {
	p.errorAt(p.peek(), msgID, args...)
}

// errorAt 在指定 token 处记录错误，不改变 panicMode
func (p *Parser) errorAt(tok token.Token, msgID string, args ...interface{}) {
	// panicMode 下跳过后续错误，避免级联报错
	if p.panicMode || p.aborted {
		return
	}

	pos := tok.Pos

	// 避免在同一位置重复报错
	if len(p.errors) > 0 {
		last := p.errors[len(p.errors)-1]
		if last.Pos.Line == pos.Line && last.Pos.Column == pos.Column {
			return
		}
	}

	// 检查是否超过最大错误数量
	if len(p.errors) >= maxParseErrors {
		p.errors = append(p.errors, Error{
			Pos:     pos,
			Lexeme:  tok.Literal,
			AtEnd:   tok.Type == token.EOF,
			ID:      i18n.ErrTooManyErrors,
			Message: i18n.T(i18n.ErrTooManyErrors),
		})
		p.panicMode = true
		p.aborted = true
		return
	}

	p.errors = append(p.errors, Error{
		Pos:     pos,
		Lexeme:  tok.Literal,
		AtEnd:   tok.Type == token.EOF,
		ID:      msgID,
		Message: i18n.T(msgID, args...),
	})
}

// synchronize 丢弃 token 直到一个安全的语句边界
func (p *Parser) synchronize() {
	// 错误正好落在块的 '}' 上时保留它，由 block() 闭合
	if p.blockDepth > 0 && p.check(token.RBRACE) {
		return
	}
	p.advance()

	for !p.isAtEnd() {
		// 分号后是安全点
		if p.previous().Type == token.SEMICOLON {
			return
		}

		switch p.peek().Type {
		case token.CLASS, token.FUN, token.VAR, token.FOR, token.IF,
			token.WHILE, token.PRINT, token.RETURN:
			return
		case token.RBRACE:
			// 块内的右大括号留给 block() 闭合
			if p.blockDepth > 0 {
				return
			}
		}

		p.advance()
	}
}

// enter / leave 维护嵌套深度
func (p *Parser) enter() bool {
	p.exprDepth++
	if p.exprDepth > maxExprDepth {
		p.error(i18n.ErrNestingTooDeep)
		p.panicMode = true
		return false
	}
	return true
}

func (p *Parser) leave() {
	p.exprDepth--
}

// ============================================================================
// 声明
// ============================================================================

func (p *Parser) declaration() ast.Statement {
	switch {
	case p.match(token.CLASS):
		return p.classDeclaration()
	case p.check(token.FUN) && p.peekNext().Type != token.LPAREN:
		p.advance()
		fn := p.function("function")
		if fn == nil {
			return nil
		}
		return fn
	case p.match(token.VAR):
		return p.varDeclaration()
	}
	return p.statement()
}

func (p *Parser) classDeclaration() ast.Statement {
	name := p.consume(token.IDENT, i18n.ErrExpectClassName)
	if p.panicMode {
		return nil
	}

	stmt := &ast.ClassStmt{Name: name}

	if p.match(token.LESS) {
		super := p.consume(token.IDENT, i18n.ErrExpectSuperclassName)
		if p.panicMode {
			return nil
		}
		stmt.Superclass = &ast.Variable{Name: super}
	}

	p.consume(token.LBRACE, i18n.ErrExpectLBraceClass)
	if p.panicMode {
		return nil
	}

	for !p.check(token.RBRACE) && !p.isAtEnd() && !p.panicMode {
		method := p.function("method")
		if method != nil {
			stmt.Methods = append(stmt.Methods, method)
		}
	}
	if p.panicMode {
		return nil
	}

	p.consume(token.RBRACE, i18n.ErrExpectRBraceClass)
	return stmt
}

// function 解析具名函数或方法，kind 为 "function" 或 "method"
func (p *Parser) function(kind string) *ast.FunctionStmt {
	name := p.consume(token.IDENT, i18n.ErrExpectName, kind)
	if p.panicMode {
		return nil
	}

	p.consume(token.LPAREN, i18n.ErrExpectLParenAfter, kind+" name")
	if p.panicMode {
		return nil
	}

	params, body := p.functionRest(kind)
	if p.panicMode {
		return nil
	}

	return &ast.FunctionStmt{Name: name, Params: params, Body: body}
}

// functionRest 解析 '(' 之后的参数列表和函数体
func (p *Parser) functionRest(kind string) ([]token.Token, []ast.Statement) {
	var params []token.Token
	if !p.check(token.RPAREN) {
		for {
			if len(params) == maxArgs {
				p.error(i18n.ErrTooManyParameters, maxArgs)
			}
			param := p.consume(token.IDENT, i18n.ErrExpectParamName)
			if p.panicMode {
				return nil, nil
			}
			params = append(params, param)
			if !p.match(token.COMMA) {
				break
			}
		}
	}

	p.consume(token.RPAREN, i18n.ErrExpectRParenAfter, "parameters")
	if p.panicMode {
		return nil, nil
	}

	p.consume(token.LBRACE, i18n.ErrExpectLBraceBody, kind)
	if p.panicMode {
		return nil, nil
	}

	body := p.block()
	return params, body
}

func (p *Parser) varDeclaration() ast.Statement {
	name := p.consume(token.IDENT, i18n.ErrExpectVarName)
	if p.panicMode {
		return nil
	}

	var init ast.Expression
	if p.match(token.EQUAL) {
		init = p.expression()
		if p.panicMode {
			return nil
		}
	}

	p.consume(token.SEMICOLON, i18n.ErrExpectSemicolonAfterVar)
	return &ast.VarStmt{Name: name, Initializer: init}
}

// ============================================================================
// 语句
// ============================================================================

func (p *Parser) statement() ast.Statement {
	switch {
	case p.match(token.FOR):
		return p.forStatement()
	case p.match(token.IF):
		return p.ifStatement()
	case p.match(token.PRINT):
		return p.printStatement()
	case p.match(token.RETURN):
		return p.returnStatement()
	case p.match(token.WHILE):
		return p.whileStatement()
	case p.match(token.LBRACE):
		lbrace := p.previous()
		stmts := p.block()
		if p.panicMode {
			return nil
		}
		return &ast.BlockStmt{LBrace: lbrace, Statements: stmts}
	}
	return p.expressionStatement()
}

// block 解析 '{' 之后的语句直到 '}'
//
// 块内的错误在这里恢复，外层解析可以继续。
func (p *Parser) block() []ast.Statement {
	if p.blockDepth >= maxBlockDepth {
		p.error(i18n.ErrBlockTooDeep)
		p.panicMode = true
		return nil
	}
	p.blockDepth++
	defer func() { p.blockDepth-- }()

	// 块内的表达式重新计数，外层表达式（如作为实参的函数字面量）不占用块内的深度
	outerDepth := p.exprDepth
	p.exprDepth = 0
	defer func() { p.exprDepth = outerDepth }()

	var stmts []ast.Statement
	for !p.check(token.RBRACE) && !p.isAtEnd() && !p.aborted {
		stmt := p.declaration()
		if p.panicMode {
			p.synchronize()
			p.panicMode = p.aborted
			continue
		}
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}

	p.consume(token.RBRACE, i18n.ErrExpectRBraceBlock)
	return stmts
}

// forStatement 把 for 循环脱糖为 while：
//
//	{ init; while (cond) { body; increment; } }
func (p *Parser) forStatement() ast.Statement {
	keyword := p.previous()

	p.consume(token.LPAREN, i18n.ErrExpectLParenAfter, "'for'")
	if p.panicMode {
		return nil
	}

	var init ast.Statement
	switch {
	case p.match(token.SEMICOLON):
	case p.match(token.VAR):
		init = p.varDeclaration()
	default:
		init = p.expressionStatement()
	}
	if p.panicMode {
		return nil
	}

	var cond ast.Expression
	if !p.check(token.SEMICOLON) {
		cond = p.expression()
	}
	p.consume(token.SEMICOLON, i18n.ErrExpectSemicolonAfterCond)
	if p.panicMode {
		return nil
	}

	var incr ast.Expression
	if !p.check(token.RPAREN) {
		incr = p.expression()
	}
	p.consume(token.RPAREN, i18n.ErrExpectRParenAfter, "for clauses")
	if p.panicMode {
		return nil
	}

	body := p.statement()
	if p.panicMode {
		return nil
	}

	if incr != nil {
		body = &ast.BlockStmt{
			LBrace:     keyword,
			Statements: []ast.Statement{body, &ast.ExprStmt{Expr: incr}},
		}
	}
	if cond == nil {
		cond = &ast.Literal{Token: keyword, Value: true}
	}
	body = &ast.WhileStmt{Keyword: keyword, Condition: cond, Body: body}
	if init != nil {
		body = &ast.BlockStmt{
			LBrace:     keyword,
			Statements: []ast.Statement{init, body},
		}
	}
	return body
}

func (p *Parser) ifStatement() ast.Statement {
	keyword := p.previous()

	p.consume(token.LPAREN, i18n.ErrExpectLParenAfter, "'if'")
	if p.panicMode {
		return nil
	}
	cond := p.expression()
	p.consume(token.RPAREN, i18n.ErrExpectRParenAfter, "if condition")
	if p.panicMode {
		return nil
	}

	then := p.statement()
	if p.panicMode {
		return nil
	}

	stmt := &ast.IfStmt{Keyword: keyword, Condition: cond, Then: then}
	if p.match(token.ELSE) {
		stmt.Else = p.statement()
		if p.panicMode {
			return nil
		}
	}
	return stmt
}

func (p *Parser) printStatement() ast.Statement {
	keyword := p.previous()
	value := p.expression()
	if p.panicMode {
		return nil
	}
	p.consume(token.SEMICOLON, i18n.ErrExpectSemicolonAfterValue)
	if p.panicMode {
		return nil
	}
	return &ast.PrintStmt{Keyword: keyword, Expr: value}
}

func (p *Parser) returnStatement() ast.Statement {
	keyword := p.previous()

	var value ast.Expression
	if !p.check(token.SEMICOLON) {
		value = p.expression()
		if p.panicMode {
			return nil
		}
	}
	p.consume(token.SEMICOLON, i18n.ErrExpectSemicolonAfterRet)
	if p.panicMode {
		return nil
	}
	return &ast.ReturnStmt{Keyword: keyword, Value: value}
}

func (p *Parser) whileStatement() ast.Statement {
	keyword := p.previous()

	p.consume(token.LPAREN, i18n.ErrExpectLParenAfter, "'while'")
	if p.panicMode {
		return nil
	}
	cond := p.expression()
	p.consume(token.RPAREN, i18n.ErrExpectRParenAfter, "condition")
	if p.panicMode {
		return nil
	}

	body := p.statement()
	if p.panicMode {
		return nil
	}
	return &ast.WhileStmt{Keyword: keyword, Condition: cond, Body: body}
}

func (p *Parser) expressionStatement() ast.Statement {
	expr := p.expression()
	if p.panicMode {
		return nil
	}
	p.consume(token.SEMICOLON, i18n.ErrExpectSemicolonAfterExpr)
	if p.panicMode {
		return nil
	}
	return &ast.ExprStmt{Expr: expr}
}

// ============================================================================
// 表达式
// ============================================================================

func (p *Parser) expression() ast.Expression {
	// 检查递归深度，防止栈溢出
	if !p.enter() {
		p.leave()
		return nil
	}
	defer p.leave()

	return p.assignment()
}

func (p *Parser) assignment() ast.Expression {
	expr := p.or()
	if p.panicMode {
		return nil
	}

	if p.match(token.EQUAL) {
		equals := p.previous()
		value := p.assignment()
		if p.panicMode {
			return nil
		}

		switch target := expr.(type) {
		case *ast.Variable:
			return &ast.Assign{Name: target.Name, Value: value}
		case *ast.Get:
			return &ast.Set{Object: target.Object, Name: target.Name, Value: value}
		}

		// 报告但不进入 panicMode，解析可以照常继续
		p.errorAt(equals, i18n.ErrInvalidAssignTarget)
	}

	return expr
}

func (p *Parser) or() ast.Expression {
	expr := p.and()
	for !p.panicMode && p.match(token.OR) {
		op := p.previous()
		right := p.and()
		expr = &ast.Logical{Left: expr, Operator: op, Right: right}
	}
	return p.orNil(expr)
}

func (p *Parser) and() ast.Expression {
	expr := p.equality()
	for !p.panicMode && p.match(token.AND) {
		op := p.previous()
		right := p.equality()
		expr = &ast.Logical{Left: expr, Operator: op, Right: right}
	}
	return p.orNil(expr)
}

func (p *Parser) equality() ast.Expression {
	return p.binary(p.comparison, token.BANG_EQUAL, token.EQUAL_EQUAL)
}

func (p *Parser) comparison() ast.Expression {
	return p.binary(p.term, token.GREATER, token.GREATER_EQUAL, token.LESS, token.LESS_EQUAL)
}

func (p *Parser) term() ast.Expression {
	return p.binary(p.factor, token.MINUS, token.PLUS)
}

func (p *Parser) factor() ast.Expression {
	return p.binary(p.unary, token.SLASH, token.STAR)
}

// binary 解析一层左结合的二元运算
func (p *Parser) binary(operand func() ast.Expression, ops ...token.TokenType) ast.Expression {
	expr := operand()
	for !p.panicMode && p.match(ops...) {
		op := p.previous()
		right := operand()
		expr = &ast.Binary{Left: expr, Operator: op, Right: right}
	}
	return p.orNil(expr)
}

func (p *Parser) unary() ast.Expression {
	if p.match(token.BANG, token.MINUS) {
		op := p.previous()
		if !p.enter() {
			p.leave()
			return nil
		}
		right := p.unary()
		p.leave()
		if p.panicMode {
			return nil
		}
		return &ast.Unary{Operator: op, Right: right}
	}
	return p.call()
}

func (p *Parser) call() ast.Expression {
	expr := p.primary()

	for !p.panicMode {
		if p.match(token.LPAREN) {
			expr = p.finishCall(expr)
		} else if p.match(token.DOT) {
			name := p.consume(token.IDENT, i18n.ErrExpectPropertyName)
			expr = &ast.Get{Object: expr, Name: name}
		} else {
			break
		}
	}

	return p.orNil(expr)
}

func (p *Parser) finishCall(callee ast.Expression) ast.Expression {
	var args []ast.Expression
	if !p.check(token.RPAREN) {
		for {
			if len(args) == maxArgs {
				p.error(i18n.ErrTooManyArguments, maxArgs)
			}
			args = append(args, p.expression())
			if p.panicMode || !p.match(token.COMMA) {
				break
			}
		}
	}

	paren := p.consume(token.RPAREN, i18n.ErrExpectRParenAfter, "arguments")
	if p.panicMode {
		return nil
	}
	return &ast.Call{Callee: callee, Paren: paren, Arguments: args}
}

func (p *Parser) primary() ast.Expression {
	tok := p.peek()

	switch tok.Type {
	case token.FALSE:
		p.advance()
		return &ast.Literal{Token: tok, Value: false}
	case token.TRUE:
		p.advance()
		return &ast.Literal{Token: tok, Value: true}
	case token.NIL:
		p.advance()
		return &ast.Literal{Token: tok, Value: nil}
	case token.NUMBER, token.STRING:
		p.advance()
		return &ast.Literal{Token: tok, Value: tok.Value}

	case token.SUPER:
		p.advance()
		p.consume(token.DOT, i18n.ErrExpectDotAfterSuper)
		if p.panicMode {
			return nil
		}
		method := p.consume(token.IDENT, i18n.ErrExpectSuperMethod)
		if p.panicMode {
			return nil
		}
		return &ast.Super{Keyword: tok, Method: method}

	case token.THIS:
		p.advance()
		return &ast.This{Keyword: tok}

	case token.IDENT:
		p.advance()
		return &ast.Variable{Name: tok}

	case token.LPAREN:
		p.advance()
		inner := p.expression()
		p.consume(token.RPAREN, i18n.ErrExpectRParenAfter, "expression")
		if p.panicMode {
			return nil
		}
		return &ast.Grouping{LParen: tok, Inner: inner}

	case token.FUN:
		p.advance()
		p.consume(token.LPAREN, i18n.ErrExpectLParenAfter, "'fun'")
		if p.panicMode {
			return nil
		}
		params, body := p.functionRest("function")
		if p.panicMode {
			return nil
		}
		return &ast.FunctionLit{Keyword: tok, Params: params, Body: body}
	}

	p.error(i18n.ErrExpectExpression)
	p.panicMode = true
	return nil
}

// orNil 在 panicMode 下丢弃半成品节点
func (p *Parser) orNil(expr ast.Expression) ast.Expression {
	if p.panicMode {
		return nil
	}
	return expr
}
