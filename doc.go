/*
SQL Interpolation: injection-safe SQL statements from templates with embedded
values. Oriented towards text and writing PLAIN SQL. Converts placeholders into
named parameters, and merges independently built fragments into one statement
without parameter name collisions.

Key Features

• You write plain SQL with placeholders referencing arguments by index:
`F("select * from users where id = {0}", id)`. There's no DSL in Go.

• Every placeholder becomes a generated parameter such as "@p0", "@p1" and so
on. The prefix is configurable via `ParamPrefix`.

• Raw escape hatch: "{0:raw}" with a string argument inserts it verbatim. This
bypasses injection safety; use it only for trusted input such as column names.

• Forgives habitual quoting: "name = '{0}'" is treated as "name = {0}".

• Composable: each fragment numbers its parameters from zero, and merging renames
colliding parameters in the fragment's text. See `(*Params).Merge`.

• Filter trees: arbitrarily nested `And`/`Or` groups of conditions, rendered into
a "where" clause. See `Render` and `Query`.

• Structs tagged with `db` can supply named parameters via `(*Params).AddStruct`,
and column lists for the raw escape hatch via `Cols`.

• Compatible with `database/sql` named arguments via `(Params).Args`, and with
pgx via `(Params).NamedArgs`.

Errors

Malformed usage, such as a placeholder referencing a missing argument, is a bug
in the calling code. Such errors are raised as panics of type `Err`. Use `Catch`
to convert them into error values.

Examples

See `Compile`, `(*Params).Merge`, `Render`, `Query` for examples.
*/
package sqli
