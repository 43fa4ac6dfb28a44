package parser

// --------------------
// Literal Expressions
// --------------------

type Value interface {
	value() interface{}
}

type NumberExpr struct {
	Value float64
}

func (n NumberExpr) value() interface{} { return n.Value }

type StringExpr struct {
	Value string
}

func (s StringExpr) value() interface{} { return s.Value }

type StringListExpr struct {
	Values []string
}

func (l StringListExpr) value() interface{} { return l.Values }

// Raw returns the Go value carried by a literal.
func Raw(v Value) interface{} {
	return v.value()
}

// ----------------------
// Identifier Expressions
// ----------------------

// Identifier is "key" or "identifier.key", like models.name.
type Identifier struct {
	Identifier string
	Key        string
}

// --------------------
// Comparison Expression
// --------------------

type OperatorKind int

const (
	Equals OperatorKind = iota
	NotEquals
	Less
	LessEquals
	Greater
	GreaterEquals
	Like
	ILike
	In
	NotIn
)

func (op OperatorKind) String() string {
	switch op {
	case Equals:
		return "="
	case NotEquals:
		return "!="
	case Less:
		return "<"
	case LessEquals:
		return "<="
	case Greater:
		return ">"
	case GreaterEquals:
		return ">="
	case Like:
		return "LIKE"
	case ILike:
		return "ILIKE"
	case In:
		return "IN"
	case NotIn:
		return "NOT IN"
	default:
		return "UNKNOWN"
	}
}

func (op OperatorKind) IsPattern() bool {
	return op == Like || op == ILike
}

func (op OperatorKind) IsSet() bool {
	return op == In || op == NotIn
}

// a operator b
type CompareExpr struct {
	Left     Identifier
	Operator OperatorKind
	Right    Value
}

// AND
type AndExpr struct {
	Exprs []*CompareExpr
}
