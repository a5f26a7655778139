package sqli

import (
	"strings"

	"github.com/mitranim/sqlp"
)

// Query built from a template and a tree of filters. The filters are combined by
// `.Filters.Op` (`AND` unless changed) and substituted into the first kind of
// marker found in the text, in this order of priority:
//
//	/**where**/    -> WHERE <filters>
//	{where}        -> WHERE <filters>
//	/**filters**/  -> AND <filters>
//	{filters}      -> AND <filters>
//
// If the text has no marker, "WHERE <filters>" is appended on a new line. Markers
// inside quoted SQL strings are ignored. Without filters, markers are removed.
//
// Note that "{where}" isn't a well-formed placeholder, so it's kept as-is by the
// compiler. The escaped spelling "{{where}}" works too.
//
// For example, this:
//
//	query := sqli.NewQuery(`select * from users /**where**/ order by id`)
//	query.Where(`age > {0}`, 18)
//	query.Where(`name = '{0}'`, `Alice`)
//
//	text, args := query.Reify()
//
// Is equivalent to:
//
//	text := `select * from users WHERE age > @p0 AND name = @p1 order by id`
//	args := []any{sql.Named("p0", 18), sql.Named("p1", "Alice")}
//
// The filters are merged into `.Params` when the text is requested, after the
// parameters of the template. Rendering is idempotent.
type Query struct {
	Cmd
	Filters Group
}

// Makes a query from an initial template.
func NewQuery(text string, args ...any) *Query {
	var out Query
	out.Append(text, args...)
	return &out
}

// Same as `(*Cmd).Append`, returning the query for chaining.
func (self *Query) Append(text string, args ...any) *Query {
	self.Cmd.Append(text, args...)
	return self
}

// Same as `(*Cmd).AppendLine`, returning the query for chaining.
func (self *Query) AppendLine(text string, args ...any) *Query {
	self.Cmd.AppendLine(text, args...)
	return self
}

// Compiles the template with the query's compiler and adds it to the filters.
func (self *Query) Where(text string, args ...any) *Query {
	return self.WhereFilter(LeafOf(self.Compiler.Compile(F(text, args...))))
}

// Adds an arbitrary filter, such as a nested `Or` group.
func (self *Query) WhereFilter(val Filter) *Query {
	self.Filters.Add(val)
	return self
}

/*
Renders the filters without a leading "WHERE", merging their parameters into
`.Params`. Returns an empty string if there are no filters.
*/
func (self *Query) FiltersText() string {
	return Render(&self.Filters, &self.Params)
}

// Implement `fmt.Stringer`. Returns the final text with filters substituted.
func (self *Query) String() string {
	text := string(self.Text)
	filters := self.FiltersText()
	quoted := quotedSpans(text)

	if filters == `` {
		for _, val := range queryMarkers {
			text = replaceMarker(text, val.marker, ``, quoted)
			quoted = quotedSpans(text)
		}
		return text
	}

	for _, val := range queryMarkers {
		if len(markerIndexes(text, val.marker, quoted)) > 0 {
			return replaceMarker(text, val.marker, val.keyword+filters, quoted)
		}
	}

	// TODO: detect a trailing unmarked "where" in the template instead of
	// appending a second one.
	return bytesToMutableString(appendDelimited([]byte(text), "\n", `WHERE `+filters))
}

// Returns the final text and the parameters as `database/sql` named arguments.
func (self *Query) Reify() (string, []any) {
	text := self.String()
	return text, self.Params.Args()
}

var queryMarkers = []struct {
	marker  string
	keyword string
}{
	{`/**where**/`, `WHERE `},
	{`{where}`, `WHERE `},
	{`/**filters**/`, `AND `},
	{`{filters}`, `AND `},
}

func replaceMarker(text, marker, val string, quoted [][2]int) string {
	inds := markerIndexes(text, marker, quoted)
	if len(inds) == 0 {
		return text
	}

	var buf strings.Builder
	last := 0
	for _, ind := range inds {
		buf.WriteString(text[last:ind])
		buf.WriteString(val)
		last = ind + len(marker)
	}
	buf.WriteString(text[last:])
	return buf.String()
}

// Start offsets of non-overlapping marker occurrences outside quoted spans.
func markerIndexes(text, marker string, quoted [][2]int) (out []int) {
	for cursor := 0; cursor < len(text); {
		ind := strings.Index(text[cursor:], marker)
		if ind < 0 {
			break
		}
		ind += cursor
		if !inSpans(ind, quoted) {
			out = append(out, ind)
		}
		cursor = ind + len(marker)
	}
	return
}

func inSpans(ind int, spans [][2]int) bool {
	for _, span := range spans {
		if ind >= span[0] && ind < span[1] {
			return true
		}
	}
	return false
}

/*
Byte ranges of quoted strings and quoted identifiers, found by the SQL
tokenizer. If tokenization fails, for example because of an unterminated quote
produced by a raw argument, returns nil, and markers are matched anywhere.
*/
func quotedSpans(text string) (out [][2]int) {
	defer func() {
		if recover() != nil {
			out = nil
		}
	}()

	tok := sqlp.Tokenizer{Source: text}
	var buf []byte
	pos := 0

	for {
		node := tok.Next()
		if node == nil {
			break
		}

		buf = buf[:0]
		node.Append(&buf)
		size := len(buf)

		_, isText := node.(sqlp.NodeText)
		if !isText && size > 0 && isQuoteByte(buf[0]) {
			out = append(out, [2]int{pos, pos + size})
		}
		pos += size
	}
	return
}

func isQuoteByte(val byte) bool {
	return val == quoteSingle || val == quoteDouble || val == quoteGrave
}
