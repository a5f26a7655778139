package sqli

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

/*
Ordered set of named parameters: name -> value, in insertion order. Names are
unique at all times and include the sigil exactly as it appears in SQL text,
such as "@p0". The zero value is ready to use.

Owned by whatever is building the final statement. Not safe for concurrent
mutation; merges into one set must happen in a fixed order, because renaming
depends on previous merges.
*/
type Params struct {
	names []string
	dict  map[string]any
}

// Amount of parameters.
func (self Params) Len() int { return len(self.names) }

// True if the set has a parameter with this name.
func (self Params) Has(name string) bool {
	_, ok := self.dict[name]
	return ok
}

// Returns the value of the named parameter, if any.
func (self Params) Get(name string) (any, bool) {
	val, ok := self.dict[name]
	return val, ok
}

// Returns a copy of the parameter names, in insertion order.
func (self Params) Names() []string {
	if len(self.names) == 0 {
		return nil
	}
	return append([]string(nil), self.names...)
}

// Returns the parameter values, in insertion order.
func (self Params) Values() []any {
	if len(self.names) == 0 {
		return nil
	}
	out := make([]any, len(self.names))
	for ind, name := range self.names {
		out[ind] = self.dict[name]
	}
	return out
}

// Calls the function for each parameter, in insertion order.
func (self Params) Range(fun func(string, any)) {
	if fun == nil {
		return
	}
	for _, name := range self.names {
		fun(name, self.dict[name])
	}
}

/*
Adds a parameter. Panics with `ErrDuplicateParam` if the name is already taken.
Use `(*Params).Merge` to combine parameters of independently compiled
statements.
*/
func (self *Params) Add(name string, val any) {
	if self.Has(name) {
		panic(ErrDuplicateParam.while(`adding parameter`).because(
			fmt.Errorf(`parameter %q is already defined`, name),
		))
	}
	if self.dict == nil {
		self.dict = map[string]any{}
	}
	self.names = append(self.names, name)
	self.dict[name] = val
}

// "Zeroes" the set, keeping the already-allocated capacity of the name list.
func (self *Params) Clear() {
	self.names = self.names[:0]
	self.dict = nil
}

/*
Returns the parameters as `sql.NamedArg` values suitable for `database/sql`
methods such as `(*sql.DB).QueryContext`. Names are given without the sigil, as
required by `sql.Named`: "@p0" becomes "p0". Drivers that support named
parameters, such as SQLite, bind them to the "@p0" placeholders in the text.
*/
func (self Params) Args() []any {
	if len(self.names) == 0 {
		return nil
	}
	out := make([]any, len(self.names))
	for ind, name := range self.names {
		out[ind] = sql.Named(paramBareName(name), self.dict[name])
	}
	return out
}

/*
Returns the parameters as `pgx.NamedArgs`, keyed by names without the sigil.
When passed as the only argument to pgx query methods, pgx rewrites "@p0" and
similar placeholders into Postgres ordinal parameters itself. Requires the "@"
sigil, which is the default in `ParamPrefix`.
*/
func (self Params) NamedArgs() pgx.NamedArgs {
	out := make(pgx.NamedArgs, len(self.names))
	for _, name := range self.names {
		out[paramBareName(name)] = self.dict[name]
	}
	return out
}

// Implement `fmt.Stringer` for debug purposes: "@p0='one', @p1='2'".
func (self Params) String() string {
	var buf strings.Builder
	for ind, name := range self.names {
		if ind > 0 {
			buf.WriteString(`, `)
		}
		fmt.Fprintf(&buf, `%s='%v'`, name, self.dict[name])
	}
	return buf.String()
}
