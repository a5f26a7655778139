package sqli

import (
	"strconv"
)

/*
Short for "template". SQL text with placeholders such as "{0}" or "{1:raw}"
referencing `Args` by zero-based index, in the style of composite format
strings. "{{" and "}}" stand for literal braces. Compiling a template via
`Compiler` converts every placeholder into a generated parameter name, making
the resulting statement injection-safe:

	sqli.F(`select * from users where name = {0} and age > {1}`, `Alice`, 30)

Compiles to:

	text := `select * from users where name = @p0 and age > @p1`
	params := {"@p0": "Alice", "@p1": 30}

Placeholders are resolved by index, so the same argument may be referenced
multiple times; each occurrence becomes a separate parameter.
*/
type Tpl struct {
	Text string
	Args []any
}

// Shortcut for `Tpl{text, args}`.
func F(text string, args ...any) Tpl { return Tpl{text, args} }

// Implement `fmt.Stringer` for debug purposes.
func (self Tpl) String() string { return self.Text }

/*
Converts templates into statements. The zero value is ready to use and
generates names with the global `ParamPrefix`; a non-empty `.Prefix` overrides
it. The name counter starts at zero for every compilation, so names are only
unique within one `Stmt`. Use `(*Params).Merge` to combine statements.
*/
type Compiler struct {
	Prefix string
}

// Prefix used for generated names.
func (self Compiler) ParamPrefix() string {
	if self.Prefix != `` {
		return self.Prefix
	}
	return ParamPrefix
}

/*
Compiles the template into an injection-safe statement. Text and raw tokens are
copied to the output; each parameter token becomes the next generated name, and
its value is recorded under that name. An empty template compiles to an empty
statement.

Panics with `ErrIndexOutOfRange` if a placeholder references a missing argument.
*/
func (self Compiler) Compile(src Tpl) Stmt {
	var out Stmt
	if src.Text == `` {
		return out
	}

	prefix := self.ParamPrefix()
	tok := TokenizerOf(src)
	text := make([]byte, 0, len(src.Text)+len(src.Args)*(len(prefix)+1))
	count := 0

	for {
		val := tok.Next()
		if val.IsInvalid() {
			break
		}

		switch val.Type {
		case TokenTypeParam:
			start := len(text)
			text = append(text, prefix...)
			text = strconv.AppendInt(text, int64(count), 10)
			count++
			out.Params.Add(string(text[start:]), val.Value)

		default:
			text = append(text, val.Text...)
		}
	}

	out.Text = bytesToMutableString(text)
	return out
}

// Compiles a template with the zero `Compiler`.
func Compile(text string, args ...any) Stmt { return Compiler{}.Compile(F(text, args...)) }

// Compiles a template with the zero `Compiler`.
func CompileTpl(src Tpl) Stmt { return Compiler{}.Compile(src) }

/*
Compiled statement: text with generated parameter names, and the values of
those parameters. Until merged, every name in `.Params` occurs in `.Text` and
every generated name in `.Text` has an entry in `.Params`.

Merging via `(*Params).Merge` consumes the statement: its text may be rewritten
and its parameters are moved into the target, leaving `.Params` empty.
*/
type Stmt struct {
	Text   string
	Params Params
}

// Implement `fmt.Stringer` for debug purposes.
func (self Stmt) String() string { return self.Text }

// True if the statement has neither text nor parameters.
func (self Stmt) IsEmpty() bool { return self.Text == `` && self.Params.Len() == 0 }
