package sanitize

import (
	"strings"
	"testing"
)

func TestHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		input       string
		contains    []string
		notContains []string
	}{
		{
			name:        "script removed with content",
			input:       "<script>alert(1)</script><p>x</p>",
			contains:    []string{"<p>x</p>"},
			notContains: []string{"script", "alert"},
		},
		{
			name:        "event handlers removed",
			input:       `<p onclick="steal()">y</p>`,
			contains:    []string{"<p>y</p>"},
			notContains: []string{"onclick"},
		},
		{
			name:        "javascript links dropped",
			input:       `<a href="javascript:alert(1)">x</a>`,
			contains:    []string{"x"},
			notContains: []string{"javascript"},
		},
		{
			name:     "http links kept",
			input:    `<a href="https://example.com">x</a>`,
			contains: []string{`href="https://example.com"`},
		},
		{
			name:        "images keep src and alt",
			input:       `<img src="https://example.com/a.png" alt="A" onerror="x()">`,
			contains:    []string{`src="https://example.com/a.png"`, `alt="A"`},
			notContains: []string{"onerror"},
		},
		{
			name:     "code language class kept",
			input:    `<pre><code class="language-js">x</code></pre>`,
			contains: []string{`<code class="language-js">`},
		},
		{
			name:        "arbitrary class on code dropped",
			input:       `<code class="evil thing">x</code>`,
			contains:    []string{"<code>x</code>"},
			notContains: []string{"evil"},
		},
		{
			name:     "task checkbox kept",
			input:    `<li class="task-list-item"><input type="checkbox" disabled checked> <label>done</label></li>`,
			contains: []string{`type="checkbox"`, "checked", "<label>done</label>", `class="task-list-item"`},
		},
		{
			name:     "bare inline tags kept",
			input:    `<p><label>l</label> <mark>m</mark> <u>u</u> <del>d</del></p>`,
			contains: []string{"<label>l</label>", "<mark>m</mark>", "<u>u</u>", "<del>d</del>"},
		},
		{
			name:        "non checkbox input type dropped",
			input:       `<input type="text" value="x">`,
			notContains: []string{"text", "value"},
		},
		{
			name:     "cell alignment style kept",
			input:    `<table><tr><td style="text-align: center">c</td></tr></table>`,
			contains: []string{"text-align", "center"},
		},
		{
			name:        "other styles dropped",
			input:       `<p style="color: red">r</p>`,
			contains:    []string{"<p>r</p>"},
			notContains: []string{"color"},
		},
		{
			name:        "iframe dropped",
			input:       `<iframe src="https://example.com"></iframe><p>k</p>`,
			contains:    []string{"<p>k</p>"},
			notContains: []string{"iframe"},
		},
		{
			name:     "surface subset survives",
			input:    "<h2>h</h2><ul><li><strong>b</strong> <em>i</em> <del>d</del> <mark>m</mark> <u>u</u></li></ul><hr><blockquote>q</blockquote>",
			contains: []string{"<h2>h</h2>", "<strong>b</strong>", "<em>i</em>", "<del>d</del>", "<mark>m</mark>", "<u>u</u>", "<hr", "<blockquote>q</blockquote>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := HTML(tt.input)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("HTML(%q) = %q, missing %q", tt.input, got, want)
				}
			}
			for _, bad := range tt.notContains {
				if strings.Contains(got, bad) {
					t.Errorf("HTML(%q) = %q, must not contain %q", tt.input, got, bad)
				}
			}
		})
	}
}

func TestPolicyIsIndependent(t *testing.T) {
	t.Parallel()

	p := Policy()
	p.AllowElements("iframe")

	if strings.Contains(HTML("<iframe></iframe>"), "iframe") {
		t.Error("modifying a new policy changed the shared one")
	}
}
