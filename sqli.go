package sqli

/*
Prefix of automatically generated parameter names. The compiler appends a
zero-based counter, producing "@p0", "@p1" and so on. If your database or driver
doesn't accept "@", change it to something else. For example, ":arg" produces
":arg0", ":arg1" and so on.

Should be set once, at startup. All compilers whose outputs are merged into one
`Params` must use the same prefix, otherwise names generated by one compiler may
shadow names generated by another. A `Compiler` with a non-empty `.Prefix`
overrides this.
*/
var ParamPrefix = `@p`

/*
Format tag that disables parameterization of a string argument, inserting it
verbatim:

	sqli.Compile(`select * from {0:raw} where id = {1}`, `some_table`, 10)

DANGER: this is an escape hatch from injection safety. Never use it with
user-provided input. Non-string values tagged as raw are parameterized as usual.
*/
const TagRaw = `raw`

/*
Maximum amount of preparsed format strings kept by `Preparse`. Changing this
takes effect on the next cache miss after `ResetPrepCache`.
*/
var PrepCacheSize = 1024

/*
Node of a filter tree: a boolean predicate expression built from compiled
fragments. Implemented by `*Leaf` and `*Group`.

`AppendFilter` must merge the parameters of every underlying fragment into the
target (in depth-first, insertion order), then append the text representation.
`nested` is true when the filter is a child of another group.
*/
type Filter interface {
	AppendFilter(text []byte, target *Params, nested bool) []byte
	IsEmpty() bool
}
