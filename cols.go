package sqli

import (
	"database/sql"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/mitranim/refut"
)

/*
Takes a struct and generates a list of quoted column names suitable for a
`select` clause, from fields tagged with `db`. Also accepts struct pointers,
struct slices and pointers to struct slices. Nil values are fine as long as
they carry a struct type. Panics with `ErrInvalidInput` on any other input.

The output is trusted text meant for the raw escape hatch:

	sqli.Compile(`select {0:raw} from users where id = {1}`, sqli.Cols(User{}), 10)

Tagged fields of nested struct types, other than `time.Time` and
`sql.Scanner` implementations, are expanded into their own columns with a
dotted alias:

	"id", "name", ("address")."city" as "address.city"
*/
func Cols(dest any) string {
	rtype := reflect.TypeOf(dest)
	if rtype != nil {
		rtype = refut.RtypeDeref(rtype)
		if rtype.Kind() == reflect.Slice {
			rtype = refut.RtypeDeref(rtype.Elem())
		}
	}

	if rtype == nil || rtype.Kind() != reflect.Struct {
		panic(ErrInvalidInput.while(`generating struct columns`).because(
			fmt.Errorf(`expected struct, got %v`, rtype),
		))
	}

	var buf strings.Builder
	appendCols(&buf, rtype, nil)
	return buf.String()
}

func appendCols(buf *strings.Builder, rtype reflect.Type, path []string) {
	try(refut.TraverseStructRtype(rtype, func(sfield reflect.StructField, _ []int) error {
		name := sfieldColumnName(sfield)
		if name == `` {
			return nil
		}

		field := refut.RtypeDeref(sfield.Type)
		if field.Kind() == reflect.Struct && !isScannableRtype(field) {
			appendCols(buf, field, append(path[:len(path):len(path)], name))
			return nil
		}

		if buf.Len() > 0 {
			buf.WriteString(`, `)
		}
		appendCol(buf, path, name)
		return nil
	}))
}

func appendCol(buf *strings.Builder, path []string, name string) {
	if len(path) == 0 {
		appendQuoted(buf, name)
		return
	}

	for ind, val := range path {
		if ind == 0 {
			buf.WriteString(`(`)
			appendQuoted(buf, val)
			buf.WriteString(`)`)
		} else {
			appendQuoted(buf, val)
		}
		buf.WriteString(`.`)
	}
	appendQuoted(buf, name)

	buf.WriteString(` as `)
	appendQuoted(buf, strings.Join(path, `.`)+`.`+name)
}

func appendQuoted(buf *strings.Builder, val string) {
	buf.WriteByte(quoteDouble)
	buf.WriteString(val)
	buf.WriteByte(quoteDouble)
}

var (
	timeRtype       = reflect.TypeOf(time.Time{})
	sqlScannerRtype = reflect.TypeOf((*sql.Scanner)(nil)).Elem()
)

func isScannableRtype(rtype reflect.Type) bool {
	return rtype != nil &&
		(rtype == timeRtype || reflect.PointerTo(rtype).Implements(sqlScannerRtype))
}
