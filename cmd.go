package sqli

/*
Tool for building SQL commands piece by piece. Contains the accumulated text and
the parameters of all appended fragments. Every fragment is compiled on its own,
then merged into `.Params`, renaming colliding parameters. This makes it easy to
build a statement from independent templates without caring about parameter
numbering:

	var cmd sqli.Cmd
	cmd.Append(`update users set name = {0}`, `Alice`)
	cmd.Append(`where id = {0}`, 10)

	text, args := cmd.Reify()

Is equivalent to:

	text := `update users set name = @p0 where id = @p1`
	args := []any{sql.Named("p0", "Alice"), sql.Named("p1", 10)}

The zero value is ready to use. Not safe for concurrent use.
*/
type Cmd struct {
	Text     []byte
	Params   Params
	Compiler Compiler
}

// Makes a command from an initial template.
func NewCmd(text string, args ...any) *Cmd {
	var out Cmd
	out.Append(text, args...)
	return &out
}

/*
Compiles the template and appends it, delimiting it from the preceding text with
a space if neither side of the junction is whitespace. Parameters are merged
into `.Params`, see `(*Params).Merge`.
*/
func (self *Cmd) Append(text string, args ...any) *Cmd {
	return self.AppendTpl(F(text, args...))
}

// Same as `(*Cmd).Append` but takes a `Tpl`.
func (self *Cmd) AppendTpl(src Tpl) *Cmd {
	return self.AppendStmt(self.Compiler.Compile(src))
}

// Merges and appends an already compiled statement, consuming it.
func (self *Cmd) AppendStmt(stmt Stmt) *Cmd {
	self.Text = appendDelimited(self.Text, ` `, self.Params.Merge(&stmt))
	return self
}

// Like `(*Cmd).Append`, but starts the fragment on a new line when the command
// already has text.
func (self *Cmd) AppendLine(text string, args ...any) *Cmd {
	stmt := self.Compiler.Compile(F(text, args...))
	if len(self.Text) > 0 {
		self.Text = append(self.Text, '\n')
	}
	self.Text = append(self.Text, self.Params.Merge(&stmt)...)
	return self
}

/*
Adds a parameter with an explicit name, which must include the sigil, such as
"@id". Panics with `ErrDuplicateParam` if the name is already taken. Later
fragments that happen to generate the same name are renamed on merge.
*/
func (self *Cmd) AddParam(name string, val any) *Cmd {
	self.Params.Add(name, val)
	return self
}

// Adds struct fields tagged with `db` as parameters, using the sigil of the
// command's prefix. See `(*Params).AddStruct`.
func (self *Cmd) AddStruct(val any) *Cmd {
	self.Params.addStruct(paramSigil(self.Compiler.ParamPrefix()), val)
	return self
}

// Implement `fmt.Stringer`. Returns the accumulated text.
func (self Cmd) String() string { return string(self.Text) }

/*
Returns the text and the parameters as `database/sql` named arguments. Go
database drivers tend to require `string, []any` as inputs for queries and
statements.
*/
func (self Cmd) Reify() (string, []any) { return self.String(), self.Params.Args() }

// "Zeroes" the command, keeping the compiler and the allocated text capacity.
func (self *Cmd) Clear() {
	self.Text = self.Text[:0]
	self.Params.Clear()
}
