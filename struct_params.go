package sqli

import (
	"fmt"
	"reflect"

	"github.com/mitranim/refut"
)

/*
Adds the struct's fields tagged with `db` as named parameters, prefixing each
column name with the sigil of `ParamPrefix`. For example, with the default
prefix "@p", this:

	var params Params
	params.AddStruct(struct {
		Id   int64  `db:"id"`
		Name string `db:"name"`
	}{10, `some_name`})

Adds "@id" = 10 and "@name" = "some_name", which can be referenced directly in
SQL text such as `update some_table set name = @name where id = @id`.

The input must be a struct or a struct pointer. A nil pointer is fine and adds
nothing. Panics with `ErrInvalidInput` on other inputs, and with
`ErrDuplicateParam` if a column name is already taken. Treats embedded structs
as part of enclosing structs.
*/
func (self *Params) AddStruct(input any) {
	self.addStruct(paramSigil(ParamPrefix), input)
}

func (self *Params) addStruct(sigil string, input any) {
	traverseStructDbFields(input, func(name string, val any) {
		self.Add(sigil+name, val)
	})
}

func traverseStructDbFields(input any, fun func(string, any)) {
	if input == nil {
		return
	}

	rval := reflect.ValueOf(input)
	rtype := refut.RtypeDeref(rval.Type())

	if rtype.Kind() != reflect.Struct {
		panic(ErrInvalidInput.while(`traversing struct for DB fields`).because(
			fmt.Errorf(`expected struct, got %q`, rtype),
		))
	}

	if refut.IsRvalNil(rval) {
		return
	}

	err := refut.TraverseStructRval(rval, func(rval reflect.Value, sfield reflect.StructField, _ []int) error {
		name := sfieldColumnName(sfield)
		if name == `` {
			return nil
		}
		fun(name, rval.Interface())
		return nil
	})
	try(err)
}

func sfieldColumnName(sfield reflect.StructField) string {
	return refut.TagIdent(sfield.Tag.Get(`db`))
}
