package sqli

import (
	"testing"
)

func TestPreparse(t *testing.T) {
	test := func(src string, texts []string, refs []Ref) {
		t.Helper()
		prep := Preparse(src)
		eq(t, src, prep.Source)
		eq(t, texts, prep.Texts)
		eq(t, refs, prep.Refs)
		eq(t, len(refs) > 0, prep.HasRefs())
	}

	t.Run(`empty`, func(t *testing.T) {
		test(``, []string{``}, nil)
	})

	t.Run(`no_placeholders`, func(t *testing.T) {
		test(`select * from some_table`, []string{`select * from some_table`}, nil)
	})

	t.Run(`placeholders`, func(t *testing.T) {
		test(
			`one = {0} and two = {1:raw}`,
			[]string{`one = `, ` and two = `, ``},
			[]Ref{{0, ``}, {1, `raw`}},
		)
	})

	t.Run(`adjacent_placeholders`, func(t *testing.T) {
		test(`{1}{0}{1}`, []string{``, ``, ``, ``}, []Ref{{1, ``}, {0, ``}, {1, ``}})
	})

	t.Run(`multi_digit_index_and_empty_tag`, func(t *testing.T) {
		test(`{12:}`, []string{``, ``}, []Ref{{12, ``}})
	})

	t.Run(`escaped_braces`, func(t *testing.T) {
		test(`{{0}} {0}}}`, []string{`{0} `, `}`}, []Ref{{0, ``}})
		test(`select '{{"one":1}}'::jsonb`, []string{`select '{"one":1}'::jsonb`}, nil)
	})

	t.Run(`malformed_braces_are_text`, func(t *testing.T) {
		test(`{where} {x} {} {0`, []string{`{where} {x} {} {0`}, nil)
		test(`} {0:raw`, []string{`} {0:raw`}, nil)
	})
}

func TestPreparse_cache(t *testing.T) {
	ResetPrepCache()
	t.Cleanup(ResetPrepCache)

	one := Preparse(`one = {0}`)
	two := Preparse(`one = {0}`)
	eq(t, one, two)

	cache := loadPrepCache()
	eq(t, true, cache.Contains(`one = {0}`))

	ResetPrepCache()
	eq(t, false, loadPrepCache().Contains(`one = {0}`))
}

func TestPreparse_cache_disabled(t *testing.T) {
	prev := PrepCacheSize
	PrepCacheSize = 0
	ResetPrepCache()
	t.Cleanup(func() {
		PrepCacheSize = prev
		ResetPrepCache()
	})

	eq(t, []Ref{{0, ``}}, Preparse(`{0}`).Refs)
	eq(t, true, loadPrepCache() == nil)
}

func BenchmarkPreparse(b *testing.B) {
	for ind := 0; ind < b.N; ind++ {
		_ = Preparse(`select * from some_table where one = {0} and two = '{1}' and three = {2:raw}`)
	}
}
