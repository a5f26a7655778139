package sqli

import (
	"sort"
	"strconv"
	"strings"
)

/*
Moves the statement's parameters into this set, renaming those whose names are
already taken, and returns the statement text with renamed parameters
replaced. Does not append the text anywhere; that's up to the caller.

Collisions are expected: every compilation numbers its parameters from zero, so
two independently compiled statements usually both have "@p0". A colliding
parameter gets the first free name with the same prefix, counting from the
current size of the set. After the first collision, the remaining numbered
parameters of the statement are renumbered the same way, so the new names
follow insertion order. For example, merging `b = @p0 or c = @p1` into a set
that already has "@p0" adds "@p1" and "@p2" and returns `b = @p1 or c = @p2`.
Parameters without a trailing number, such as "@name", are renamed only when
they collide.

Replacement matches whole parameter names only: renaming "@p1" never affects
"@p10". All renames are applied in one pass, so a name introduced by one rename
is never renamed again.

This is a consuming operation. Afterwards, the statement's `.Params` is empty
and its `.Text` is the returned text; merging it again contributes nothing.
The old parameters must not be reused, since their names may no longer match
the text.
*/
func (self *Params) Merge(stmt *Stmt) string {
	if stmt == nil {
		return ``
	}

	src := stmt.Params
	stmt.Params = Params{}
	if src.Len() == 0 {
		return stmt.Text
	}

	var renames map[string]string

	for _, name := range src.names {
		val := src.dict[name]
		prefix := paramNamePrefix(name)

		if !self.Has(name) && (renames == nil || prefix == name) {
			self.Add(name, val)
			continue
		}

		next := self.freeName(prefix)
		self.Add(next, val)

		if renames == nil {
			renames = map[string]string{}
		}
		renames[name] = next
	}

	if len(renames) > 0 {
		stmt.Text = renameParams(stmt.Text, renames)
	}
	return stmt.Text
}

/*
Shortcut for merging a statement and returning it with the new text. The input
statement is consumed, see `(*Params).Merge`.
*/
func (self *Params) MergeStmt(stmt Stmt) string { return self.Merge(&stmt) }

/*
First unused name "<prefix><N>" with N >= len. Statement parameters still
pending at this point are either renumbered later or have no trailing number,
so they can't take this name.
*/
func (self Params) freeName(prefix string) string {
	for ind := self.Len(); ; ind++ {
		name := prefix + strconv.Itoa(ind)
		if !self.Has(name) {
			return name
		}
	}
}

func renameParams(text string, renames map[string]string) string {
	sigils := renameSigils(renames)

	var buf strings.Builder
	buf.Grow(len(text) + len(renames)*2)

	last := 0
	cursor := 0

	for cursor < len(text) {
		if cursor > 0 && isIdentByte(text[cursor-1]) {
			cursor++
			continue
		}

		end := matchParamName(text, cursor, sigils)
		if end == 0 {
			cursor++
			continue
		}

		next, ok := renames[text[cursor:end]]
		if ok {
			buf.WriteString(text[last:cursor])
			buf.WriteString(next)
			last = end
		}
		cursor = end
	}

	buf.WriteString(text[last:])
	return buf.String()
}

// Distinct sigils of the renamed names, longest first.
func renameSigils(renames map[string]string) []string {
	var out []string
	seen := map[string]bool{}
	for name := range renames {
		sigil := paramSigil(name)
		if !seen[sigil] {
			seen[sigil] = true
			out = append(out, sigil)
		}
	}
	sort.Slice(out, func(one, two int) bool { return len(out[one]) > len(out[two]) })
	return out
}

/*
If a parameter name starts at the cursor, returns its end: a sigil followed by
at least one identifier character, extended to the last consecutive identifier
character. Otherwise returns 0.
*/
func matchParamName(text string, cursor int, sigils []string) int {
	rest := text[cursor:]
	for _, sigil := range sigils {
		if !strings.HasPrefix(rest, sigil) {
			continue
		}

		end := len(sigil)
		for end < len(rest) && isIdentByte(rest[end]) {
			end++
		}
		if end > len(sigil) {
			return cursor + end
		}
	}
	return 0
}
