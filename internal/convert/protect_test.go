package convert

import (
	"strings"
	"testing"
)

func TestProtectionTable(t *testing.T) {
	t.Parallel()

	t.Run("tokens are unique and delimited", func(t *testing.T) {
		t.Parallel()

		table := newProtectionTable()
		a := table.protect(kindHTML, "<b>")
		b := table.protect(kindHTML, "<b>")
		if a == b {
			t.Fatalf("expected distinct tokens, got %q twice", a)
		}
		for _, tok := range []string{a, b} {
			if !strings.HasPrefix(tok, tokenOpen) || !strings.HasSuffix(tok, tokenClose) {
				t.Errorf("token %q not delimited by sentinels", tok)
			}
		}
		if table.len() != 2 {
			t.Errorf("len() = %d, want 2", table.len())
		}
	})

	t.Run("restore only the requested kinds", func(t *testing.T) {
		t.Parallel()

		table := newProtectionTable()
		h := table.protect(kindHTML, "<i>")
		e := table.protect(kindEscape, "*")
		s := h + "x" + e

		got := table.restore(s, nil, kindHTML)
		if got != "<i>x"+e {
			t.Errorf("restore(kindHTML) = %q", got)
		}
		got = table.restore(got, func(v string) string { return "[" + v + "]" }, kindEscape)
		if got != "<i>x[*]" {
			t.Errorf("restore(kindEscape) = %q", got)
		}
	})

	t.Run("restore is a single pass", func(t *testing.T) {
		t.Parallel()

		table := newProtectionTable()
		inner := table.protect(kindEscape, "*")
		outer := table.protect(kindHTML, "<a title=\""+inner+"\">")

		got := table.restore(outer, nil, kindHTML, kindEscape)
		if got != "<a title=\""+inner+"\">" {
			t.Errorf("single pass restore = %q", got)
		}
		got = table.restore(got, nil, kindEscape)
		if got != `<a title="*">` {
			t.Errorf("second pass restore = %q", got)
		}
	})

	t.Run("text without tokens is unchanged", func(t *testing.T) {
		t.Parallel()

		table := newProtectionTable()
		table.protect(kindCode, "<code>x</code>")
		if got := table.restore("plain", nil, kindCode); got != "plain" {
			t.Errorf("restore = %q, want plain", got)
		}
	})

	t.Run("leading token", func(t *testing.T) {
		t.Parallel()

		table := newProtectionTable()
		tok := table.protect(kindCode, "<pre><code>x</code></pre>")

		e, ok := table.leading("  " + tok + " trailing")
		if !ok {
			t.Fatal("expected a leading token")
		}
		if e.kind != kindCode || e.original != "<pre><code>x</code></pre>" {
			t.Errorf("leading entry = %+v", e)
		}

		if _, ok := table.leading("text " + tok); ok {
			t.Error("token after text must not count as leading")
		}
	})

	t.Run("unknown token", func(t *testing.T) {
		t.Parallel()

		table := newProtectionTable()
		if _, ok := table.lookup(tokenOpen + "H9" + tokenClose); ok {
			t.Error("lookup of unissued token succeeded")
		}
	})

	t.Run("source sentinels become tokens", func(t *testing.T) {
		t.Parallel()

		table := newProtectionTable()
		got := table.protectSentinels("a" + tokenOpen + "b" + tokenClose)
		if table.len() != 2 {
			t.Fatalf("len() = %d, want 2", table.len())
		}
		if strings.Count(got, tokenOpen) != 2 || strings.HasPrefix(got, "a"+tokenOpen+"b") {
			t.Errorf("protectSentinels = %q", got)
		}
		if code := table.codeText(got); code != "a"+tokenOpen+"b"+tokenClose {
			t.Errorf("codeText = %q", code)
		}
		if prose := table.restore(got, sentinelRefs.Replace, kindInput); prose != "a&#xE000;b&#xE001;" {
			t.Errorf("prose restore = %q", prose)
		}
	})
}
