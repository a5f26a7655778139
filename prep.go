package sqli

import (
	"strconv"
	"strings"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

/*
Short for "preparsed". Format string split into literal runs and placeholder
references. Literal runs are already unescaped: "{{" became "{" and "}}" became
"}". `Texts` always has exactly one more element than `Refs`: the run before the
first placeholder, runs between placeholders, and the trailing run, any of which
may be empty.

Obtained via `Preparse`, which caches the result for each source string. The
slices may be shared between callers and must not be mutated.
*/
type Prep struct {
	Source string
	Texts  []string
	Refs   []Ref
}

/*
Placeholder reference such as "{0}" or "{1:raw}". `Index` is a zero-based index
into the template arguments, `Tag` is the optional format tag.
*/
type Ref struct {
	Index int
	Tag   string
}

// True if the format string has at least one placeholder.
func (self Prep) HasRefs() bool { return len(self.Refs) > 0 }

// Implement `fmt.Stringer` for debug purposes.
func (self Prep) String() string { return self.Source }

/*
Returns a parsed `Prep` for the given format string. Caches the result in a
bounded LRU keyed by the source string, reusing it for future calls. Used
internally by `Tokenizer`. Safe for concurrent use.
*/
func Preparse(src string) Prep {
	cache := loadPrepCache()
	if cache == nil {
		return parsePrep(src)
	}

	val, ok := cache.Get(src)
	if ok {
		return val
	}

	val = parsePrep(src)
	cache.Add(src, val)
	return val
}

// Drops all cached `Prep` values. The next `Preparse` call reallocates the
// cache using the current `PrepCacheSize`.
func ResetPrepCache() { prepCache.Store(nil) }

var prepCache atomic.Pointer[lru.Cache[string, Prep]]

func loadPrepCache() *lru.Cache[string, Prep] {
	cache := prepCache.Load()
	if cache != nil {
		return cache
	}
	if PrepCacheSize <= 0 {
		return nil
	}

	cache = try1(lru.New[string, Prep](PrepCacheSize))
	if prepCache.CompareAndSwap(nil, cache) {
		return cache
	}
	return prepCache.Load()
}

func parsePrep(src string) Prep {
	out := Prep{Source: src}
	var buf strings.Builder
	cursor := 0

	for cursor < len(src) {
		char := src[cursor]

		switch char {
		case placeholderStart:
			if cursor+1 < len(src) && src[cursor+1] == placeholderStart {
				buf.WriteByte(placeholderStart)
				cursor += 2
				continue
			}

			ref, size := parseRef(src[cursor:])
			if size == 0 {
				buf.WriteByte(char)
				cursor++
				continue
			}

			out.Texts = append(out.Texts, buf.String())
			out.Refs = append(out.Refs, ref)
			buf.Reset()
			cursor += size

		case placeholderEnd:
			buf.WriteByte(char)
			cursor++
			if cursor < len(src) && src[cursor] == placeholderEnd {
				cursor++
			}

		default:
			buf.WriteByte(char)
			cursor++
		}
	}

	out.Texts = append(out.Texts, buf.String())
	return out
}

/*
Parses a placeholder at the start of the input, returning the reference and the
amount of bytes it occupies. Zero size means the input doesn't start with a
well-formed placeholder, in which case the brace is ordinary text.
*/
func parseRef(src string) (Ref, int) {
	cursor := 1
	for cursor < len(src) && charsetDigitDec.has(src[cursor]) {
		cursor++
	}
	if cursor == 1 || cursor >= len(src) {
		return Ref{}, 0
	}

	digits := src[1:cursor]
	tag := ``

	if src[cursor] == tagDelim {
		end := strings.IndexByte(src[cursor:], placeholderEnd)
		if end < 0 {
			return Ref{}, 0
		}
		tag = src[cursor+1 : cursor+end]
		cursor += end
	}

	if src[cursor] != placeholderEnd {
		return Ref{}, 0
	}

	index, err := strconv.Atoi(digits)
	if err != nil {
		panic(ErrIndexOutOfRange.while(`parsing placeholder ` + strconv.Quote(src[:cursor+1])).because(err))
	}
	return Ref{index, tag}, cursor + 1
}
