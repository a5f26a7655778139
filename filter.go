package sqli

import (
	"fmt"
)

/*
Renders the filter tree into the target, returning the text. Every leaf is
merged into the target in depth-first, insertion order, which makes parameter
naming reproducible. The outermost group is never parenthesized. An empty tree
renders as an empty string; callers must skip it rather than emit an empty
`where` clause.

A nil target makes the call one-shot: the leaves are merged into a throwaway
parameter set and remember it, so rendering the same tree again panics with
`ErrStaleFragment`. Pass a target to render repeatedly or to use the
parameters.

For example, this:

	var params sqli.Params
	text := sqli.Render(sqli.And(
		sqli.Cond(`a = {0}`, 1),
		sqli.Or(sqli.Cond(`b = {0}`, 2), sqli.Cond(`c = {0}`, 3)),
	), &params)

Is equivalent to:

	text := `a = @p0 AND (b = @p1 OR c = @p2)`
	params := {"@p0": 1, "@p1": 2, "@p2": 3}
*/
func Render(val Filter, target *Params) string {
	if val == nil || val.IsEmpty() {
		return ``
	}
	if target == nil {
		target = new(Params)
	}
	return bytesToMutableString(val.AppendFilter(nil, target, false))
}

// Boolean operator that joins the children of a `Group`.
type Op string

const (
	OpAnd Op = `AND`
	OpOr  Op = `OR`
)

// Implement `fmt.Stringer`. The zero value is `AND`.
func (self Op) String() string {
	if self == `` {
		return string(OpAnd)
	}
	return string(self)
}

/*
Leaf of a filter tree: one compiled predicate such as `age > @p0`. Merges its
statement into the target on the first render and remembers the resulting
text, so rendering is idempotent. Rendering into a different target afterwards
panics with `ErrStaleFragment`, because the statement's parameters were already
moved into the first target.
*/
type Leaf struct {
	stmt   Stmt
	target *Params
}

// Wraps a compiled statement into a leaf. The leaf takes ownership of it.
func LeafOf(stmt Stmt) *Leaf { return &Leaf{stmt: stmt} }

// Compiles the template and wraps it into a leaf.
func Cond(text string, args ...any) *Leaf { return LeafOf(Compile(text, args...)) }

// Compiles the template and wraps it into a leaf.
func CondTpl(src Tpl) *Leaf { return LeafOf(CompileTpl(src)) }

// Implement `Filter`.
func (self *Leaf) IsEmpty() bool { return self == nil || self.stmt.IsEmpty() }

// Implement `Filter`.
func (self *Leaf) AppendFilter(text []byte, target *Params, _ bool) []byte {
	if self == nil {
		return text
	}

	if self.target == nil {
		if target == nil {
			target = new(Params)
		}
		self.target = target
		target.Merge(&self.stmt)
	} else if target != nil && target != self.target {
		panic(ErrStaleFragment.while(`rendering filter`).because(
			fmt.Errorf(`filter %q was already merged into another parameter set`, self.stmt.Text),
		))
	}

	return append(text, self.stmt.Text...)
}

// True if the leaf's parameters were already merged into a target.
func (self *Leaf) IsMerged() bool { return self != nil && self.target != nil }

// Implement `fmt.Stringer` for debug purposes. Doesn't merge.
func (self *Leaf) String() string {
	if self == nil {
		return ``
	}
	return self.stmt.Text
}

/*
Group of filters joined by `.Op`: `AND` (default) or `OR`. Children may be
leaves or other groups, nested arbitrarily. Insertion order is preserved in the
output. Empty children are skipped. A nested group with two or more non-empty
children is wrapped in parens; a single child needs none.
*/
type Group struct {
	Op      Op
	Filters []Filter
}

// Makes an `AND` group.
func And(vals ...Filter) *Group { return &Group{OpAnd, vals} }

// Makes an `OR` group.
func Or(vals ...Filter) *Group { return &Group{OpOr, vals} }

// Appends the filters, returning the receiver for chaining. Nil filters are
// ignored.
func (self *Group) Add(vals ...Filter) *Group {
	for _, val := range vals {
		if val != nil {
			self.Filters = append(self.Filters, val)
		}
	}
	return self
}

// Implement `Filter`. True if no child renders any text.
func (self *Group) IsEmpty() bool {
	if self == nil {
		return true
	}
	for _, val := range self.Filters {
		if val != nil && !val.IsEmpty() {
			return false
		}
	}
	return true
}

// Implement `Filter`.
func (self *Group) AppendFilter(text []byte, target *Params, nested bool) []byte {
	if self == nil {
		return text
	}

	count := self.count()
	if count == 0 {
		return text
	}

	paren := nested && count > 1
	if paren {
		text = append(text, `(`...)
	}

	found := false
	for _, val := range self.Filters {
		if val == nil || val.IsEmpty() {
			continue
		}
		if found {
			text = append(text, ` `...)
			text = append(text, self.Op.String()...)
			text = append(text, ` `...)
		}
		found = true
		text = val.AppendFilter(text, target, true)
	}

	if paren {
		text = append(text, `)`...)
	}
	return text
}

func (self *Group) count() (out int) {
	for _, val := range self.Filters {
		if val != nil && !val.IsEmpty() {
			out++
		}
	}
	return
}
