// Package parser implements the recursive-descent parser of spec.md §4.5
// over the token stream produced by pkg/lexer, grounded on the structure of
// the original implementation's chumsky-combinator grammar (til_parser's
// expr.rs/struct_parse.rs) while being driven by hand like the rest of the
// original's custom, non-library grammar.
package parser

import (
	"strconv"

	"github.com/tydi-lang/tilc/pkg/ast"
	"github.com/tydi-lang/tilc/pkg/ilerrors"
	"github.com/tydi-lang/tilc/pkg/lexer"
)

// Parser walks a flat token slice, producing an *ast.File plus any
// recovered parse errors (spec.md §4.5: "(Option<Ast>, Vec<ParseError>)").
type Parser struct {
	tokens []lexer.Token
	pos    int
	errs   []*ilerrors.Error
}

// Parse scans src and parses it in one step.
func Parse(src string) (*ast.File, []*ilerrors.Error) {
	tokens, lexErrs := lexer.New(src).ScanAll()
	p := &Parser{tokens: tokens, errs: lexErrs}
	file := p.parseFile()
	return file, p.errs
}

func (p *Parser) cur() lexer.Token {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Kind: lexer.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) at(k lexer.Kind) bool { return p.cur().Kind == k }

func (p *Parser) advance() lexer.Token {
	t := p.cur()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

// expect consumes the current token if it has kind k, else records a parse
// error and leaves the position unchanged (the caller's recovery logic
// decides how to proceed).
func (p *Parser) expect(k lexer.Kind, what string) (lexer.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	p.errf("expected %s, found %q", what, p.cur().Text)
	return lexer.Token{}, false
}

func (p *Parser) errf(format string, args ...interface{}) {
	p.errs = append(p.errs, ilerrors.ParsingError(format, args...).WithSpan(p.cur().Span))
}

// recoverTo skips tokens until it has consumed one matching close (balancing
// nested open/close pairs), implementing §4.5's "skip to the matching
// delimiter" recovery rule.
func (p *Parser) recoverTo(open, close lexer.Kind) ilerrors.Span {
	start := p.cur().Span
	if p.at(open) {
		p.advance()
	}
	depth := 0
	for !p.at(lexer.EOF) {
		switch {
		case p.at(open):
			depth++
			p.advance()
		case p.at(close):
			if depth == 0 {
				end := p.advance().Span
				return joinSpan(start, end)
			}
			depth--
			p.advance()
		default:
			p.advance()
		}
	}
	return start
}

func joinSpan(start, end ilerrors.Span) ilerrors.Span {
	return ilerrors.Span{StartByte: start.StartByte, EndByte: end.EndByte, StartLine: start.StartLine, StartCol: start.StartCol}
}

// takeDoc consumes a leading DocComment token if present, returning its
// text (empty if absent).
func (p *Parser) takeDoc() string {
	if p.at(lexer.DocComment) {
		return p.advance().Text
	}
	return ""
}

func (p *Parser) parseFile() *ast.File {
	f := &ast.File{}
	for !p.at(lexer.EOF) {
		if p.at(lexer.KwNamespace) {
			f.Namespaces = append(f.Namespaces, p.parseNamespace())
			continue
		}
		p.errf("expected namespace declaration, found %q", p.cur().Text)
		p.advance()
	}
	return f
}

func (p *Parser) parseNamespace() *ast.Namespace {
	start := p.advance().Span // 'namespace'
	ns := &ast.Namespace{Path: p.parsePath()}
	if _, ok := p.expect(lexer.LBrace, "'{'"); !ok {
		ns.Span = joinSpan(start, p.cur().Span)
		return ns
	}
	for p.at(lexer.KwImport) {
		ns.Imports = append(ns.Imports, p.parseImport())
	}
	for !p.at(lexer.RBrace) && !p.at(lexer.EOF) {
		ns.Decls = append(ns.Decls, p.parseDecl())
	}
	end := p.cur().Span
	if _, ok := p.expect(lexer.RBrace, "'}'"); ok {
		end = p.tokens[p.pos-1].Span
	}
	ns.Span = joinSpan(start, end)
	return ns
}

func (p *Parser) parsePath() []string {
	var segs []string
	if tok, ok := p.expect(lexer.Identifier, "identifier"); ok {
		segs = append(segs, tok.Text)
	}
	for p.at(lexer.ColonColon) {
		p.advance()
		if tok, ok := p.expect(lexer.Identifier, "identifier"); ok {
			segs = append(segs, tok.Text)
		}
	}
	return segs
}

func (p *Parser) parseImport() *ast.Import {
	start := p.advance().Span // 'import'
	imp := &ast.Import{Path: p.parsePath()}
	switch {
	case p.at(lexer.KwAs):
		p.advance()
		if tok, ok := p.expect(lexer.Identifier, "identifier"); ok {
			imp.Alias = tok.Text
		}
	case p.at(lexer.KwPrefixed):
		p.advance()
		imp.Prefixed = p.parsePath()
	}
	imp.Span = joinSpan(start, p.lastSpan())
	return imp
}

func (p *Parser) parseDecl() ast.Decl {
	doc := p.takeDoc()
	switch p.cur().Kind {
	case lexer.KwType:
		return p.parseTypeDecl(doc)
	case lexer.KwInterface:
		return p.parseInterfaceDecl(doc)
	case lexer.KwStreamlet:
		return p.parseStreamletDecl(doc)
	case lexer.KwImpl:
		return p.parseImplDecl(doc)
	default:
		start := p.cur().Span
		p.errf("expected a declaration, found %q", p.cur().Text)
		if p.at(lexer.LBrace) {
			span := p.recoverTo(lexer.LBrace, lexer.RBrace)
			return &ast.ErrorDecl{Span: span}
		}
		p.advance()
		return &ast.ErrorDecl{Span: start}
	}
}

func (p *Parser) parseTypeDecl(doc string) ast.Decl {
	start := p.advance().Span // 'type'
	name := p.identText()
	p.expect(lexer.Assign, "'='")
	typ := p.parseTypeExpr()
	d := &ast.TypeDecl{Name: name, Doc: doc, Type: typ, Span: joinSpan(start, p.lastSpan())}
	p.optionalSemicolon()
	return d
}

func (p *Parser) identText() string {
	if tok, ok := p.expect(lexer.Identifier, "identifier"); ok {
		return tok.Text
	}
	return ""
}

func (p *Parser) lastSpan() ilerrors.Span {
	if p.pos == 0 {
		return p.cur().Span
	}
	return p.tokens[p.pos-1].Span
}

func (p *Parser) optionalSemicolon() {
	if p.at(lexer.Semicolon) {
		p.advance()
	}
}

func (p *Parser) parseTypeExpr() ast.TypeExpr {
	start := p.cur().Span
	switch p.cur().Kind {
	case lexer.KwNull:
		p.advance()
		return &ast.NullType{Span: start}
	case lexer.KwBits:
		p.advance()
		p.expect(lexer.LParen, "'('")
		width := p.parseExpr()
		end := p.cur().Span
		p.expect(lexer.RParen, "')'")
		return &ast.BitsType{Width: width, Span: joinSpan(start, end)}
	case lexer.KwGroup:
		p.advance()
		return &ast.GroupType{Fields: p.parseFieldList(), Span: joinSpan(start, p.lastSpan())}
	case lexer.KwUnion:
		p.advance()
		return &ast.UnionType{Fields: p.parseFieldList(), Span: joinSpan(start, p.lastSpan())}
	case lexer.KwStream:
		p.advance()
		return p.parseStreamType(start)
	case lexer.Identifier:
		return &ast.IdentType{Path: p.parsePath(), Span: joinSpan(start, p.lastSpan())}
	default:
		p.errf("expected a type expression, found %q", p.cur().Text)
		if p.at(lexer.LParen) {
			span := p.recoverTo(lexer.LParen, lexer.RParen)
			return &ast.ErrorType{Span: span}
		}
		p.advance()
		return &ast.ErrorType{Span: start}
	}
}

func (p *Parser) parseFieldList() []*ast.FieldDecl {
	p.expect(lexer.LParen, "'('")
	var fields []*ast.FieldDecl
	for !p.at(lexer.RParen) && !p.at(lexer.EOF) {
		doc := p.takeDoc()
		start := p.cur().Span
		name := p.identText()
		p.expect(lexer.Colon, "':'")
		typ := p.parseTypeExpr()
		fields = append(fields, &ast.FieldDecl{Name: name, Doc: doc, Type: typ, Span: joinSpan(start, p.lastSpan())})
		if p.at(lexer.Comma) {
			p.advance()
			continue
		}
		break
	}
	p.expect(lexer.RParen, "')'")
	return fields
}

// typedStreamProps lists the named Stream(...) properties that take a type
// expression rather than a value expression (spec.md §4.5).
var typedStreamProps = map[string]bool{"data": true, "user": true}

func (p *Parser) parseStreamType(start ilerrors.Span) ast.TypeExpr {
	p.expect(lexer.LParen, "'('")
	var props []*ast.PropertyAssign
	for !p.at(lexer.RParen) && !p.at(lexer.EOF) {
		pstart := p.cur().Span
		name := p.identText()
		p.expect(lexer.Colon, "':'")
		var val ast.PropertyValue
		switch {
		case typedStreamProps[name]:
			val = ast.TypeValue{Type: p.parseTypeExpr()}
		case name == "complexity":
			val = p.parseComplexityLiteral()
		default:
			val = p.parseStreamPropertyValue()
		}
		props = append(props, &ast.PropertyAssign{Name: name, Value: val, Span: joinSpan(pstart, p.lastSpan())})
		if p.at(lexer.Comma) {
			p.advance()
			continue
		}
		break
	}
	end := p.cur().Span
	p.expect(lexer.RParen, "')'")
	return &ast.StreamType{Properties: props, Span: joinSpan(start, end)}
}

// parseStreamPropertyValue handles every stream property value other than
// the type-valued ones and `complexity` (see parseComplexityLiteral):
// throughput/dimensionality (an arithmetic Expr), synchronicity/direction
// (a bare identifier-like keyword), and keep (a boolean literal).
func (p *Parser) parseStreamPropertyValue() ast.PropertyValue {
	switch p.cur().Kind {
	case lexer.KwTrue, lexer.KwFalse:
		tok := p.advance()
		return ast.BoolValue{Value: tok.Kind == lexer.KwTrue, Span: tok.Span}
	case lexer.KwSync, lexer.KwFlatten, lexer.KwDesync, lexer.KwFlatDesync,
		lexer.KwForward, lexer.KwReverse:
		tok := p.advance()
		return ast.IdentValue{Text: tok.Text, Span: tok.Span}
	default:
		return ast.ExprValue{Expr: p.parseExpr()}
	}
}

// parseComplexityLiteral handles the `complexity` stream property, whose
// value is a literal major version or a dotted major.minor.patch level
// sequence (spec.md §3.4), never an arithmetic expression — "4" and
// "4.2.1" are both complexity literals, not computations.
func (p *Parser) parseComplexityLiteral() ast.PropertyValue {
	switch p.cur().Kind {
	case lexer.IntegerLit, lexer.FloatLit, lexer.VersionLit:
		tok := p.advance()
		return ast.IdentValue{Text: tok.Text, Span: tok.Span}
	default:
		tok := p.cur()
		p.errf("expected a complexity level, found %q", tok.Text)
		p.advance()
		return ast.IdentValue{Text: "1", Span: tok.Span}
	}
}

func (p *Parser) parseInterfaceDecl(doc string) ast.Decl {
	start := p.advance().Span // 'interface'
	name := p.identText()
	p.expect(lexer.Assign, "'='")
	lit := p.parseLiteralInterface()
	d := &ast.InterfaceDecl{Name: name, Doc: doc, Domains: lit.Domains, Parameters: lit.Parameters, Ports: lit.Ports, Span: joinSpan(start, p.lastSpan())}
	p.optionalSemicolon()
	return d
}

// parseLiteralInterface parses `<domain-list>? ( port, ... )`. An entry in
// the domain-list bracket is a generic-parameter declaration rather than a
// bare domain name when it is followed by ':' (peekIsParamAssign's
// lookahead, shared with instance generic-assignment parsing):
// `name: Kind [= default] [; condition]`, grounded on the original's
// param_name/param_kind/param_integer plus with_condition
// (_examples/original_source/crates/til_parser/src/generic_param.rs).
func (p *Parser) parseLiteralInterface() ast.LiteralInterface {
	start := p.cur().Span
	var domains []string
	var params []*ast.ParamDecl
	if p.at(lexer.Lt) {
		p.advance()
		for !p.at(lexer.Gt) && !p.at(lexer.EOF) {
			if p.peekIsParamAssign() {
				params = append(params, p.parseParamDecl())
			} else {
				domains = append(domains, p.identText())
			}
			if p.at(lexer.Comma) {
				p.advance()
				continue
			}
			break
		}
		p.expect(lexer.Gt, "'>'")
	}
	p.expect(lexer.LParen, "'('")
	var ports []*ast.Port
	for !p.at(lexer.RParen) && !p.at(lexer.EOF) {
		ports = append(ports, p.parsePort())
		if p.at(lexer.Comma) {
			p.advance()
			continue
		}
		break
	}
	end := p.cur().Span
	p.expect(lexer.RParen, "')'")
	return ast.LiteralInterface{Domains: domains, Parameters: params, Ports: ports, Span: joinSpan(start, end)}
}

// parseParamDecl parses one generic-parameter declaration: a name, a kind
// keyword, an optional `= default` (omitted defaults to the kind's
// implicit default), and an optional `; condition` clause consuming the
// condition grammar of §4.5/§4.8.
func (p *Parser) parseParamDecl() *ast.ParamDecl {
	start := p.cur().Span
	name := p.identText()
	p.expect(lexer.Colon, "':'")
	kind := p.paramKindText()

	var def ast.Expr
	if p.at(lexer.Assign) {
		p.advance()
		def = p.parseExpr()
	}

	var cond ast.Condition
	if p.at(lexer.Semicolon) {
		p.advance()
		cond = p.parseCondition()
	}

	return &ast.ParamDecl{Name: name, Kind: kind, Default: def, Condition: cond, Span: joinSpan(start, p.lastSpan())}
}

// paramKindText consumes one of the generic-parameter kind keywords,
// returning its canonical name (ast.ParamDecl.Kind).
func (p *Parser) paramKindText() string {
	switch p.cur().Kind {
	case lexer.KwInteger:
		p.advance()
		return "Integer"
	case lexer.KwNatural:
		p.advance()
		return "Natural"
	case lexer.KwPositive:
		p.advance()
		return "Positive"
	case lexer.KwDimensionality:
		p.advance()
		return "Dimensionality"
	default:
		p.errf("expected a parameter kind (Integer, Natural, Positive, or Dimensionality), found %q", p.cur().Text)
		p.advance()
		return "Integer"
	}
}

func (p *Parser) parsePort() *ast.Port {
	doc := p.takeDoc()
	start := p.cur().Span
	name := p.identText()
	p.expect(lexer.Colon, "':'")
	dir := "in"
	if p.at(lexer.KwIn) {
		p.advance()
	} else if p.at(lexer.KwOut) {
		dir = "out"
		p.advance()
	} else {
		p.errf("expected 'in' or 'out', found %q", p.cur().Text)
	}
	typ := p.parseTypeExpr()
	domain := ""
	if p.at(lexer.Identifier) {
		domain = p.advance().Text
	}
	return &ast.Port{Name: name, Doc: doc, Direction: dir, Type: typ, Domain: domain, Span: joinSpan(start, p.lastSpan())}
}

// parseInterfaceExpr parses either a literal interface (leading '<' or '(')
// or an identifier reference.
func (p *Parser) parseInterfaceExpr() ast.InterfaceExpr {
	if p.at(lexer.Lt) || p.at(lexer.LParen) {
		return p.parseLiteralInterface()
	}
	start := p.cur().Span
	return ast.IdentInterface{Path: p.parsePath(), Span: joinSpan(start, p.lastSpan())}
}

func (p *Parser) parseStreamletDecl(doc string) ast.Decl {
	start := p.advance().Span // 'streamlet'
	name := p.identText()
	p.expect(lexer.Assign, "'='")
	iface := p.parseInterfaceExpr()

	var impl ast.ImplExpr
	if _, ok := p.expect(lexer.LBrace, "'{'"); ok {
		if p.at(lexer.KwImpl) {
			p.advance()
			p.expect(lexer.Colon, "':'")
			impl = p.parseImplExpr()
		} else {
			p.errf("expected 'impl:' property, found %q", p.cur().Text)
		}
		p.expect(lexer.RBrace, "'}'")
	}
	return &ast.StreamletDecl{Name: name, Doc: doc, Interface: iface, Impl: impl, Span: joinSpan(start, p.lastSpan())}
}

func (p *Parser) parseImplDecl(doc string) ast.Decl {
	start := p.advance().Span // 'impl'
	name := p.identText()
	p.expect(lexer.Assign, "'='")
	impl := p.parseImplExprWithInterface()
	d := &ast.ImplDecl{Name: name, Doc: doc, Impl: impl, Span: joinSpan(start, p.lastSpan())}
	p.optionalSemicolon()
	return d
}

// parseImplExprWithInterface parses `<interface-expr-or-ident> "<path>" | {
// <stat>* }`, the form used by a top-level ImplDecl, which names its own
// defining interface.
func (p *Parser) parseImplExprWithInterface() ast.ImplExpr {
	start := p.cur().Span
	iface := p.parseInterfaceExpr()
	switch p.cur().Kind {
	case lexer.PathFragment:
		tok := p.advance()
		return ast.LinkImpl{Interface: iface, Path: tok.Text, Span: joinSpan(start, tok.Span)}
	case lexer.LBrace:
		stats := p.parseStructBody()
		return ast.StructImpl{Interface: iface, Stats: stats, Span: joinSpan(start, p.lastSpan())}
	default:
		p.errf("expected a link path or '{', found %q", p.cur().Text)
		return ast.StructImpl{Interface: iface, Span: joinSpan(start, p.lastSpan())}
	}
}

// parseImplExpr parses the `impl:` property value inside a streamlet body:
// a bare identifier reference to a named ImplDecl, a link path, or an
// inline struct body, with the interface taken from the enclosing
// streamlet (Interface left nil).
func (p *Parser) parseImplExpr() ast.ImplExpr {
	start := p.cur().Span
	switch p.cur().Kind {
	case lexer.PathFragment:
		tok := p.advance()
		return ast.LinkImpl{Path: tok.Text, Span: tok.Span}
	case lexer.LBrace:
		stats := p.parseStructBody()
		return ast.StructImpl{Stats: stats, Span: joinSpan(start, p.lastSpan())}
	case lexer.Identifier:
		return ast.IdentImpl{Path: p.parsePath(), Span: joinSpan(start, p.lastSpan())}
	default:
		p.errf("expected an implementation, found %q", p.cur().Text)
		p.advance()
		return ast.StructImpl{Span: start}
	}
}

func (p *Parser) parseStructBody() []ast.StructStat {
	if _, ok := p.expect(lexer.LBrace, "'{'"); !ok {
		return nil
	}
	var stats []ast.StructStat
	for !p.at(lexer.RBrace) && !p.at(lexer.EOF) {
		stats = append(stats, p.parseStructStat())
	}
	p.expect(lexer.RBrace, "'}'")
	return stats
}

// parseStructStat parses one instance declaration or connection,
// recognizing which by looking for '=' after the leading identifier
// (instance) versus '.' or '--' (connection), per struct_parse.rs. A
// leading doc comment is accepted (instances and connections may be
// documented) but struct statements carry no Doc field of their own, so
// it is simply consumed.
func (p *Parser) parseStructStat() ast.StructStat {
	p.takeDoc()
	start := p.cur().Span
	if !p.at(lexer.Identifier) {
		p.errf("expected an instance or connection statement, found %q", p.cur().Text)
		span := p.recoverTo(lexer.LBrace, lexer.RBrace)
		return &ast.ErrorStat{Span: span}
	}
	first := p.advance().Text

	if p.at(lexer.Assign) {
		p.advance()
		streamlet := p.parsePath()
		var domains, params []ast.GenericAssign
		if p.at(lexer.Lt) {
			domains, params = p.parseGenericAssignments()
		}
		stat := &ast.InstanceStat{Name: first, Streamlet: streamlet, Domains: domains, Params: params, Span: joinSpan(start, p.lastSpan())}
		p.optionalSemicolonRequired()
		return stat
	}

	left := p.parseEndpointTail(first)
	p.expect(lexer.DashDash, "'--'")
	rightStart := p.identText()
	right := p.parseEndpointTail(rightStart)
	stat := &ast.ConnectionStat{Left: left, Right: right, Span: joinSpan(start, p.lastSpan())}
	p.optionalSemicolonRequired()
	return stat
}

func (p *Parser) parseEndpointTail(first string) ast.Endpoint {
	if p.at(lexer.Dot) {
		p.advance()
		return ast.Endpoint{Instance: first, Port: p.identText()}
	}
	return ast.Endpoint{Port: first}
}

func (p *Parser) optionalSemicolonRequired() {
	if _, ok := p.expect(lexer.Semicolon, "';'"); !ok {
		// best-effort: do not get stuck on a missing terminator.
	}
}

// parseGenericAssignments parses `< domain-assignment, ... , param: value, ... >`.
// A bare identifier entry (optionally `ident = ident`) is a domain
// assignment; a `name: value` entry is a parameter assignment.
func (p *Parser) parseGenericAssignments() (domains, params []ast.GenericAssign) {
	p.advance() // '<'
	for !p.at(lexer.Gt) && !p.at(lexer.EOF) {
		if p.peekIsParamAssign() {
			name := p.identText()
			p.expect(lexer.Colon, "':'")
			value := p.genericValueText()
			params = append(params, ast.GenericAssign{Name: name, Value: value})
		} else {
			left := p.identText()
			ga := ast.GenericAssign{Value: left}
			if p.at(lexer.Assign) {
				p.advance()
				ga.Name = left
				ga.Value = p.identText()
			}
			domains = append(domains, ga)
		}
		if p.at(lexer.Comma) {
			p.advance()
			continue
		}
		break
	}
	p.expect(lexer.Gt, "'>'")
	return domains, params
}

// peekIsParamAssign distinguishes a `name: ...` entry (an instance's param
// assignment, or an interface's param declaration) from a bare domain name
// or `name = name` (domain assignment) by looking past the identifier for
// a following ':'. Shared by parseGenericAssignments (assignment side) and
// parseLiteralInterface (declaration side).
func (p *Parser) peekIsParamAssign() bool {
	return p.at(lexer.Identifier) && p.pos+1 < len(p.tokens) && p.tokens[p.pos+1].Kind == lexer.Colon
}

func (p *Parser) genericValueText() string {
	if p.at(lexer.IntegerLit) {
		return p.advance().Text
	}
	return p.identText()
}

// --- Arithmetic expressions (spec.md §4.5/§4.8) ---
// Precedence, loosest to tightest: '+ -' (left-assoc), '* / %' (left-assoc),
// unary minus, then primaries (Integer, Ref, parenthesized).

func (p *Parser) parseExpr() ast.Expr {
	return p.parseAddSub()
}

func (p *Parser) parseAddSub() ast.Expr {
	left := p.parseMulDiv()
	for p.at(lexer.Plus) || p.at(lexer.Minus) {
		op := "+"
		if p.at(lexer.Minus) {
			op = "-"
		}
		p.advance()
		right := p.parseMulDiv()
		left = &ast.BinOp{Op: op, Left: left, Right: right, Span: joinSpan(left.ExprSpan(), right.ExprSpan())}
	}
	return left
}

func (p *Parser) parseMulDiv() ast.Expr {
	left := p.parseUnary()
	for p.at(lexer.Star) || p.at(lexer.Slash) || p.at(lexer.Percent) {
		op := map[lexer.Kind]string{lexer.Star: "*", lexer.Slash: "/", lexer.Percent: "%"}[p.cur().Kind]
		p.advance()
		right := p.parseUnary()
		left = &ast.BinOp{Op: op, Left: left, Right: right, Span: joinSpan(left.ExprSpan(), right.ExprSpan())}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	if p.at(lexer.Minus) {
		start := p.advance().Span
		inner := p.parseUnary()
		return &ast.Neg{Inner: inner, Span: joinSpan(start, inner.ExprSpan())}
	}
	return p.parsePrimary()
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.cur()
	switch tok.Kind {
	case lexer.IntegerLit:
		p.advance()
		return &ast.IntegerLit{Value: parseInt(tok.Text), Span: tok.Span}
	case lexer.FloatLit:
		p.advance()
		f, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			p.errf("invalid float literal %q", tok.Text)
		}
		return &ast.FloatLit{Value: f, Span: tok.Span}
	case lexer.Identifier:
		p.advance()
		return &ast.Ref{Name: tok.Text, Span: tok.Span}
	case lexer.LParen:
		p.advance()
		inner := p.parseExpr()
		p.expect(lexer.RParen, "')'")
		return inner
	default:
		p.errf("expected an expression, found %q", tok.Text)
		p.advance()
		return &ast.IntegerLit{Value: 0, Span: tok.Span}
	}
}

func parseInt(s string) int64 {
	var v int64
	for _, r := range s {
		v = v*10 + int64(r-'0')
	}
	return v
}

// --- Conditions (spec.md §4.5/§4.8) ---
// Precedence, loosest to tightest: 'and'/'or' (left-assoc, same level),
// then 'not' (prefix, binds tighter), then comparison/one_of primaries.

func (p *Parser) parseCondition() ast.Condition {
	left := p.parseConditionUnary()
	for p.at(lexer.KwAnd) || p.at(lexer.KwOr) {
		isAnd := p.at(lexer.KwAnd)
		p.advance()
		right := p.parseConditionUnary()
		if isAnd {
			left = ast.AndCond{Left: left, Right: right}
		} else {
			left = ast.OrCond{Left: left, Right: right}
		}
	}
	return left
}

func (p *Parser) parseConditionUnary() ast.Condition {
	if p.at(lexer.KwNot) {
		p.advance()
		return ast.NotCond{Inner: p.parseConditionUnary()}
	}
	return p.parseConditionAtom()
}

func (p *Parser) parseConditionAtom() ast.Condition {
	switch p.cur().Kind {
	case lexer.LParen:
		p.advance()
		inner := p.parseCondition()
		p.expect(lexer.RParen, "')'")
		return inner
	case lexer.KwOneOf:
		p.advance()
		p.expect(lexer.LParen, "'('")
		var values []int64
		for !p.at(lexer.RParen) && !p.at(lexer.EOF) {
			if p.at(lexer.IntegerLit) {
				values = append(values, parseInt(p.advance().Text))
			} else {
				p.errf("expected an integer literal, found %q", p.cur().Text)
				p.advance()
			}
			if p.at(lexer.Comma) {
				p.advance()
				continue
			}
			break
		}
		p.expect(lexer.RParen, "')'")
		return ast.OneOfCond{Values: values}
	case lexer.Gt, lexer.Lt, lexer.Ge, lexer.Le, lexer.Assign:
		op := map[lexer.Kind]string{lexer.Gt: ">", lexer.Lt: "<", lexer.Ge: ">=", lexer.Le: "<=", lexer.Assign: "="}[p.cur().Kind]
		p.advance()
		value := int64(0)
		if p.at(lexer.IntegerLit) {
			value = parseInt(p.advance().Text)
		} else {
			p.errf("expected an integer literal, found %q", p.cur().Text)
		}
		return ast.CompareCond{Op: op, Value: value}
	default:
		p.errf("expected a condition, found %q", p.cur().Text)
		p.advance()
		return ast.CompareCond{Op: "=", Value: 0}
	}
}
