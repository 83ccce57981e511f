// Package ast defines the spanned syntax tree the parser (pkg/parser)
// produces and the evaluator (pkg/eval) consumes, per spec.md §4.5/§6.1.
// Every node keeps its source Span so a failed evaluation can still point
// at source; a partial parse may contain Error nodes standing in for a
// subtree the recovery procedure gave up on.
package ast

import "github.com/tydi-lang/tilc/pkg/ilerrors"

// File is a translation unit: one or more namespace declarations (§6.1).
type File struct {
	Namespaces []*Namespace
}

// Namespace is `namespace <path> { <import>* <decl>* }`.
type Namespace struct {
	Path    []string
	Imports []*Import
	Decls   []Decl
	Span    ilerrors.Span
}

// Import is `import <path> [as <name> | prefixed <path>]`.
type Import struct {
	Path     []string
	Alias    string // empty if absent
	Prefixed []string
	Span     ilerrors.Span
}

// Decl is a top-level declaration inside a namespace: TypeDecl,
// InterfaceDecl, StreamletDecl, ImplDecl, or an ErrorDecl left by recovery.
type Decl interface {
	declNode()
	DeclSpan() ilerrors.Span
}

// ErrorDecl stands in for a declaration the parser could not make sense of
// after skipping to a recovery point (spec.md §4.5's synthetic Error node).
type ErrorDecl struct {
	Span ilerrors.Span
}

func (e *ErrorDecl) declNode()                   {}
func (e *ErrorDecl) DeclSpan() ilerrors.Span      { return e.Span }

// TypeDecl is `type <Name> = <type-expr>`.
type TypeDecl struct {
	Name string
	Doc  string
	Type TypeExpr
	Span ilerrors.Span
}

func (d *TypeDecl) declNode()              {}
func (d *TypeDecl) DeclSpan() ilerrors.Span { return d.Span }

// InterfaceDecl is `interface <Name> = <domain-list>? ( port, ... )`. The
// domain-list bracket also carries any generic-parameter declarations
// (§4.8), distinguished per entry from a bare domain name by a following
// ':'.
type InterfaceDecl struct {
	Name       string
	Doc        string
	Domains    []string
	Parameters []*ParamDecl
	Ports      []*Port
	Span       ilerrors.Span
}

func (d *InterfaceDecl) declNode()              {}
func (d *InterfaceDecl) DeclSpan() ilerrors.Span { return d.Span }

// Port is `name: in|out T ['domain]`, with an optional preceding doc
// comment.
type Port struct {
	Name      string
	Doc       string
	Direction string // "in" or "out"
	Type      TypeExpr
	Domain    string // empty if absent
	Span      ilerrors.Span
}

// StreamletDecl is `streamlet <Name> = <interface-expr> { impl: <impl-expr> }`.
type StreamletDecl struct {
	Name      string
	Doc       string
	Interface InterfaceExpr
	Impl      ImplExpr
	Span      ilerrors.Span
}

func (d *StreamletDecl) declNode()              {}
func (d *StreamletDecl) DeclSpan() ilerrors.Span { return d.Span }

// ImplDecl is `impl <Name> = <interface-expr-or-ident> "<path>" | { <stat>* }`.
type ImplDecl struct {
	Name string
	Doc  string
	Impl ImplExpr
	Span ilerrors.Span
}

func (d *ImplDecl) declNode()              {}
func (d *ImplDecl) DeclSpan() ilerrors.Span { return d.Span }

// TypeExpr is a type-level expression: an identifier resolution or one of
// Null, Bits(n), Group(...), Union(...), Stream(...).
type TypeExpr interface {
	typeExprNode()
	TypeSpan() ilerrors.Span
}

type IdentType struct {
	Path []string
	Span ilerrors.Span
}

func (*IdentType) typeExprNode()             {}
func (t *IdentType) TypeSpan() ilerrors.Span { return t.Span }

type NullType struct{ Span ilerrors.Span }

func (*NullType) typeExprNode()             {}
func (t *NullType) TypeSpan() ilerrors.Span { return t.Span }

type BitsType struct {
	Width Expr
	Span  ilerrors.Span
}

func (*BitsType) typeExprNode()             {}
func (t *BitsType) TypeSpan() ilerrors.Span { return t.Span }

// FieldDecl is one `name: T` entry of a Group or Union, with an optional
// preceding doc comment.
type FieldDecl struct {
	Name string
	Doc  string
	Type TypeExpr
	Span ilerrors.Span
}

type GroupType struct {
	Fields []*FieldDecl
	Span   ilerrors.Span
}

func (*GroupType) typeExprNode()             {}
func (t *GroupType) TypeSpan() ilerrors.Span { return t.Span }

type UnionType struct {
	Fields []*FieldDecl
	Span   ilerrors.Span
}

func (*UnionType) typeExprNode()             {}
func (t *UnionType) TypeSpan() ilerrors.Span { return t.Span }

// PropertyAssign is one `name: value` entry of a Stream(...) type
// expression.
type PropertyAssign struct {
	Name  string
	Value PropertyValue
	Span  ilerrors.Span
}

// PropertyValue is the right-hand side of a stream property: a type
// expression (for `data`/`user`), an arithmetic Expr (for `throughput` and
// `dimensionality`), an identifier-like token (a keyword for
// `synchronicity` and `direction`, a numeric or dotted literal for
// `complexity`), or a boolean literal (for `keep`).
type PropertyValue interface {
	propertyValueNode()
}

type TypeValue struct{ Type TypeExpr }
type ExprValue struct{ Expr Expr }
type IdentValue struct {
	Text string
	Span ilerrors.Span
}
type BoolValue struct {
	Value bool
	Span  ilerrors.Span
}

func (TypeValue) propertyValueNode()  {}
func (ExprValue) propertyValueNode()  {}
func (IdentValue) propertyValueNode() {}
func (BoolValue) propertyValueNode()  {}

type StreamType struct {
	Properties []*PropertyAssign
	Span       ilerrors.Span
}

func (*StreamType) typeExprNode()             {}
func (t *StreamType) TypeSpan() ilerrors.Span { return t.Span }

// ErrorType is the type-expression-position recovery node.
type ErrorType struct{ Span ilerrors.Span }

func (*ErrorType) typeExprNode()             {}
func (t *ErrorType) TypeSpan() ilerrors.Span { return t.Span }

// InterfaceExpr is either an identifier resolution or a literal interface
// body.
type InterfaceExpr interface {
	interfaceExprNode()
}

type IdentInterface struct {
	Path []string
	Span ilerrors.Span
}

type LiteralInterface struct {
	Domains    []string
	Parameters []*ParamDecl
	Ports      []*Port
	Span       ilerrors.Span
}

func (IdentInterface) interfaceExprNode()    {}
func (LiteralInterface) interfaceExprNode()  {}

// ImplExpr is the right-hand side of `impl:` / an ImplDecl: a reference to
// a named implementation, a Link to an external path, or an inline
// Struct body.
type ImplExpr interface {
	implExprNode()
}

type IdentImpl struct {
	Path []string
	Span ilerrors.Span
}

type LinkImpl struct {
	Interface InterfaceExpr // nil when taken from context
	Path      string
	Span      ilerrors.Span
}

type StructImpl struct {
	Interface InterfaceExpr // nil when taken from context
	Stats     []StructStat
	Span      ilerrors.Span
}

func (IdentImpl) implExprNode()   {}
func (LinkImpl) implExprNode()    {}
func (StructImpl) implExprNode()  {}

// StructStat is one statement of a Struct implementation body: an instance
// declaration or a connection.
type StructStat interface {
	structStatNode()
	StatSpan() ilerrors.Span
}

// GenericAssign is one `name: value` entry of an instance's domain-map or
// param-map.
type GenericAssign struct {
	Name  string
	Value string // domain name, or a decimal integer literal's text
}

type InstanceStat struct {
	Name      string
	Streamlet []string
	Domains   []GenericAssign
	Params    []GenericAssign
	Span      ilerrors.Span
}

func (*InstanceStat) structStatNode()        {}
func (s *InstanceStat) StatSpan() ilerrors.Span { return s.Span }

// Endpoint is either a bare port name (Instance == "") or `instance.port`.
type Endpoint struct {
	Instance string
	Port     string
}

type ConnectionStat struct {
	Left  Endpoint
	Right Endpoint
	Span  ilerrors.Span
}

func (*ConnectionStat) structStatNode()        {}
func (s *ConnectionStat) StatSpan() ilerrors.Span { return s.Span }

// ErrorStat is the struct-statement-position recovery node.
type ErrorStat struct{ Span ilerrors.Span }

func (*ErrorStat) structStatNode()        {}
func (s *ErrorStat) StatSpan() ilerrors.Span { return s.Span }

// Expr is the arithmetic expression tree of §4.5/§4.8: Integer(i) |
// Float(f) | Ref(n) | -e | (e) | e op e over {+, -, *, /, %}. Float(f) is
// only ever valid standing alone in a PositiveReal-valued property position
// (§3.4's throughput); it is not itself an operand of the integer-folding
// arithmetic generics.Expr lowers the rest of this tree into.
type Expr interface {
	exprNode()
	ExprSpan() ilerrors.Span
}

type IntegerLit struct {
	Value int64
	Span  ilerrors.Span
}

// FloatLit is a dotted numeric literal with exactly one dot (lexer.FloatLit;
// two or more dots lex as a VersionLit instead).
type FloatLit struct {
	Value float64
	Span  ilerrors.Span
}

type Ref struct {
	Name string
	Span ilerrors.Span
}

type Neg struct {
	Inner Expr
	Span  ilerrors.Span
}

type BinOp struct {
	Op    string // "+", "-", "*", "/", "%"
	Left  Expr
	Right Expr
	Span  ilerrors.Span
}

func (*IntegerLit) exprNode()                 {}
func (e *IntegerLit) ExprSpan() ilerrors.Span { return e.Span }
func (*FloatLit) exprNode()                   {}
func (e *FloatLit) ExprSpan() ilerrors.Span   { return e.Span }
func (*Ref) exprNode()                        {}
func (e *Ref) ExprSpan() ilerrors.Span        { return e.Span }
func (*Neg) exprNode()                        {}
func (e *Neg) ExprSpan() ilerrors.Span        { return e.Span }
func (*BinOp) exprNode()                      {}
func (e *BinOp) ExprSpan() ilerrors.Span      { return e.Span }

// Condition is the boolean constraint tree of §4.8: primitive comparisons,
// one_of(...), and not/and/or.
type Condition interface {
	conditionNode()
}

type CompareCond struct {
	Op    string // ">", "<", ">=", "<=", "="
	Value int64
}

type OneOfCond struct {
	Values []int64
}

type NotCond struct{ Inner Condition }
type AndCond struct{ Left, Right Condition }
type OrCond struct{ Left, Right Condition }

func (CompareCond) conditionNode() {}
func (OneOfCond) conditionNode()   {}
func (NotCond) conditionNode()     {}
func (AndCond) conditionNode()     {}
func (OrCond) conditionNode()      {}

// ParamDecl is a generic-parameter declaration attached to an interface or
// streamlet: `name: Kind [= default] [; condition]`.
type ParamDecl struct {
	Name      string
	Kind      string // "Integer" | "Natural" | "Positive" | "Dimensionality"
	Default   Expr
	Condition Condition // nil if absent
	Span      ilerrors.Span
}
