package filter

// Expr is a node of a parsed filter: *Leaf, *And, *Or or *Not.
type Expr interface {
	String() string
	expr()
}

// Leaf names a kind.
type Leaf struct {
	Name string
}

type And struct {
	Left, Right Expr
}

type Or struct {
	Left, Right Expr
}

type Not struct {
	Operand Expr
}

func (*Leaf) expr() {}
func (*And) expr() {}
func (*Or) expr() {}
func (*Not) expr() {}

func (e *Leaf) String() string { return e.Name }
func (e *And) String() string { return "(" + e.Left.String() + " & " + e.Right.String() + ")" }
func (e *Or) String() string { return "(" + e.Left.String() + " | " + e.Right.String() + ")" }
func (e *Not) String() string { return "!" + e.Operand.String() }

// Adapter supplies the operations an expression is evaluated with. Evaluate
// resolves a leaf name; And, Or and Not combine results and must not modify
// their arguments.
type Adapter[T any] interface {
	Evaluate(name string) T
	And(a, b T) T
	Or(a, b T) T
	Not(a T) T
}

// Eval evaluates e depth first, left operand before right.
func Eval[T any](e Expr, a Adapter[T]) T {
	switch n := e.(type) {
	case *Leaf:
		return a.Evaluate(n.Name)
	case *And:
		l := Eval(n.Left, a)
		return a.And(l, Eval(n.Right, a))
	case *Or:
		l := Eval(n.Left, a)
		return a.Or(l, Eval(n.Right, a))
	case *Not:
		return a.Not(Eval(n.Operand, a))
	}
	panic("filter: unknown expression node")
}

// Walk calls fn for e and each of its descendants in pre-order. Returning
// false from fn skips the node's children.
func Walk(e Expr, fn func(Expr) bool) {
	if e == nil || !fn(e) {
		return
	}
	switch n := e.(type) {
	case *And:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *Or:
		Walk(n.Left, fn)
		Walk(n.Right, fn)
	case *Not:
		Walk(n.Operand, fn)
	}
}

// Leaves returns the distinct leaf names of e in first-seen order.
func Leaves(e Expr) []string {
	var names []string
	seen := make(map[string]struct{})
	Walk(e, func(x Expr) bool {
		if l, ok := x.(*Leaf); ok {
			if _, dup := seen[l.Name]; !dup {
				seen[l.Name] = struct{}{}
				names = append(names, l.Name)
			}
		}
		return true
	})
	return names
}
