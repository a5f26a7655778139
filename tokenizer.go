package sqli

import (
	"fmt"
)

/*
Tokenizer for SQL templates. Walks the literal runs and placeholders of a
preparsed format string, resolving each placeholder's argument and classifying
it as a raw value or a parameter. Used internally by `Compiler`.

Goals:

	* Resolve placeholders by their declared index, allowing an argument to be
	  referenced any amount of times, in any order.

	* Support the raw escape hatch ("{N:raw}" with a string argument).

	* Drop spurious single quotes around placeholders, as in "x = '{0}'",
	  where the caller wrote the template as if it was an SQL literal.

Non-goals:

	* Parsing or validating SQL.

	* Rejecting malformed templates.
*/
type Tokenizer struct {
	Prep   Prep
	Args   []any
	cursor int
	skip   bool
	next   Token
}

// Shortcut for making a tokenizer from a template.
func TokenizerOf(src Tpl) Tokenizer {
	return Tokenizer{Prep: Preparse(src.Text), Args: src.Args}
}

// Returns all tokens of the template. See `Tokenizer`.
func Tokenize(src Tpl) []Token {
	tok := TokenizerOf(src)
	var out []Token
	for {
		val := tok.Next()
		if val.IsInvalid() {
			return out
		}
		out = append(out, val)
	}
}

/*
Returns the next token if possible. When the tokenizer reaches the end, this
returns an empty `Token{}`. Call `Token.IsInvalid` to detect the end. Empty
literal runs are skipped.

Panics with `ErrIndexOutOfRange` if a placeholder references a missing
argument.
*/
func (self *Tokenizer) Next() Token {
	for {
		next := self.next
		if !next.IsInvalid() {
			self.next = Token{}
			return next
		}

		if self.cursor > len(self.Prep.Refs) {
			return Token{}
		}

		text := self.text()
		if self.cursor == len(self.Prep.Refs) {
			self.cursor++
			if text != `` {
				return Token{Type: TokenTypeText, Text: text}
			}
			return Token{}
		}

		ref := self.Prep.Refs[self.cursor]
		val := self.arg(ref)
		self.cursor++

		str, isStr := val.(string)
		if isStr && ref.Tag == TagRaw {
			self.setNext(Token{Type: TokenTypeRaw, Text: str, Value: val})
		} else {
			if hasQuotedStart(text) && self.hasQuotedEnd() {
				text = text[:len(text)-1]
				self.skip = true
			}
			self.setNext(Token{Type: TokenTypeParam, Value: val})
		}

		if text != `` {
			return Token{Type: TokenTypeText, Text: text}
		}
	}
}

// Current literal run, minus a leading quote dropped by the quote heuristic.
func (self *Tokenizer) text() string {
	text := self.Prep.Texts[self.cursor]
	if self.skip {
		self.skip = false
		text = text[1:]
	}
	return text
}

func (self *Tokenizer) arg(ref Ref) any {
	if ref.Index < 0 || ref.Index >= len(self.Args) {
		panic(ErrIndexOutOfRange.while(`tokenizing template ` + fmt.Sprintf(`%q`, self.Prep.Source)).because(
			fmt.Errorf(`placeholder index %v exceeds argument count %v`, ref.Index, len(self.Args)),
		))
	}
	return self.Args[ref.Index]
}

/*
The run after the current placeholder starts with a quote followed by a
boundary character, or is just a quote at the very end of the template. A run
consisting of a quote followed by another placeholder doesn't qualify.
*/
func (self *Tokenizer) hasQuotedEnd() bool {
	ind := self.cursor
	text := self.Prep.Texts[ind]
	if len(text) == 0 || text[0] != quoteSingle {
		return false
	}
	if len(text) == 1 {
		return ind == len(self.Prep.Texts)-1
	}
	return charsetQuoteBoundary.has(text[1])
}

func (self *Tokenizer) setNext(val Token) {
	if !self.next.IsInvalid() {
		panic(ErrInternal.while(`tokenizing template`).because(fmt.Errorf(
			`attempted to overwrite non-empty pending token %#v with %#v`,
			self.next, val,
		)))
	}
	self.next = val
}

// The run before a placeholder ends with a quote that starts the run or
// follows a boundary character.
func hasQuotedStart(text string) bool {
	size := len(text)
	if size == 0 || text[size-1] != quoteSingle {
		return false
	}
	return size == 1 || charsetQuoteBoundary.has(text[size-2])
}

const (
	TokenTypeInvalid TokenType = iota
	TokenTypeText
	TokenTypeRaw
	TokenTypeParam
)

// Part of `Token`.
type TokenType byte

// Implement `fmt.Stringer` for debug purposes.
func (self TokenType) String() string {
	switch self {
	case TokenTypeText:
		return `text`
	case TokenTypeRaw:
		return `raw`
	case TokenTypeParam:
		return `param`
	default:
		return `invalid`
	}
}

/*
Segment of a template produced by `Tokenizer`:

	* `TokenTypeText`: literal SQL text in `.Text`.
	* `TokenTypeRaw`: raw string argument, verbatim in `.Text`.
	* `TokenTypeParam`: argument to be parameterized, in `.Value`.
*/
type Token struct {
	Type  TokenType
	Text  string
	Value any
}

/*
True if the token's type is `TokenTypeInvalid`. This is used to detect end of
iteration when calling `(*Tokenizer).Next`.
*/
func (self Token) IsInvalid() bool {
	return self.Type == TokenTypeInvalid
}

// Implement `fmt.Stringer` for debug purposes.
func (self Token) String() string {
	if self.Type == TokenTypeParam {
		return fmt.Sprintf(`{%v}`, self.Value)
	}
	return self.Text
}
