package sqli

import (
	"unsafe"
)

const (
	placeholderStart = '{'
	placeholderEnd   = '}'
	tagDelim         = ':'
	quoteSingle      = '\''
	quoteDouble      = '"'
	quoteGrave       = '`'
)

var (
	charsetDigitDec   = new(charset).addStr(`0123456789`)
	charsetIdentStart = new(charset).addStr(`ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz_`)
	charsetIdent      = new(charset).addSet(charsetIdentStart).addSet(charsetDigitDec)
	charsetSpace      = new(charset).addStr(" \t\v\f")
	charsetNewline    = new(charset).addStr("\r\n")
	charsetWhitespace = new(charset).addSet(charsetSpace).addSet(charsetNewline)

	// Characters that may precede an opening quote or follow a closing quote
	// for the quote around a placeholder to be considered spurious. Covers the
	// comparison operators "=", ">", "<", ">=", "<=", "<>".
	charsetQuoteBoundary = new(charset).addSet(charsetWhitespace).addStr(`=<>`)
)

type charset [256]bool

func (self *charset) has(val byte) bool { return self[val] }

func (self *charset) addStr(vals string) *charset {
	for _, val := range vals {
		self[val] = true
	}
	return self
}

func (self *charset) addSet(vals *charset) *charset {
	for ind, val := range vals {
		if val {
			self[ind] = true
		}
	}
	return self
}

/*
Allocation-free conversion. Reinterprets a byte slice as a string. Borrowed from
the standard library. Reasonably safe. Should not be used when the underlying
byte array is volatile, for example when it's part of a scratch buffer.
*/
func bytesToMutableString(bytes []byte) string {
	return *(*string)(unsafe.Pointer(&bytes))
}

func try(err error) {
	if err != nil {
		panic(err)
	}
}

func try1[A any](val A, err error) A {
	try(err)
	return val
}

/*
Appends the string, delimiting it from the preceding text with the given
delimiter, unless either side of the junction is already whitespace or one of
the sides is empty.
*/
func appendDelimited(buf []byte, delim string, val string) []byte {
	if len(buf) > 0 && len(val) > 0 &&
		!charsetWhitespace.has(buf[len(buf)-1]) && !charsetWhitespace.has(val[0]) {
		buf = append(buf, delim...)
	}
	return append(buf, val...)
}

func isIdentByte(val byte) bool { return charsetIdent.has(val) }

// Leading part of a parameter name that precedes its identifier characters,
// such as "@" in "@p0" or ":" in ":arg1".
func paramSigil(name string) string {
	for ind := 0; ind < len(name); ind++ {
		if isIdentByte(name[ind]) {
			return name[:ind]
		}
	}
	return name
}

// Name without its sigil: "@p0" -> "p0". Drivers use this form for named args.
func paramBareName(name string) string {
	return name[len(paramSigil(name)):]
}

// Name without the trailing counter: "@p10" -> "@p".
func paramNamePrefix(name string) string {
	end := len(name)
	for end > 0 && charsetDigitDec.has(name[end-1]) {
		end--
	}
	return name[:end]
}
