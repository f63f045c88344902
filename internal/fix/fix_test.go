package fix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCode(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     string
		ok       bool
	}{
		{
			name:     "java block",
			response: "Here is the fix:\n```java\nclass A {}\n```\nDone.",
			want:     "class A {}",
			ok:       true,
		},
		{
			name:     "untagged block",
			response: "```\nx = 1\n```",
			want:     "x = 1",
			ok:       true,
		},
		{
			name:     "javascript not split as java",
			response: "```javascript\nconst a = 1;\n```",
			want:     "const a = 1;",
			ok:       true,
		},
		{
			name:     "python",
			response: "```python\nprint(1)\n```",
			want:     "print(1)",
			ok:       true,
		},
		{
			name:     "first block wins",
			response: "```ts\nlet a = 1\n```\n```ts\nlet b = 2\n```",
			want:     "let a = 1",
			ok:       true,
		},
		{
			name:     "unlisted tag stays in body",
			response: "```go\nfunc f() {}\n```",
			want:     "go\nfunc f() {}",
			ok:       true,
		},
		{name: "no block", response: "I could not find anything to fix.", ok: false},
		{name: "unterminated", response: "```java\nclass A {}", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractCode(tt.response)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLineSpan(t *testing.T) {
	doc := "one\ntwo\nthree\nfour\n"

	sp, err := LineSpan(doc, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, "two\nthree", doc[sp.Start:sp.End])

	sp, err = LineSpan(doc, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, "one", doc[sp.Start:sp.End])

	_, err = LineSpan(doc, 0, 2)
	assert.Error(t, err)
	_, err = LineSpan(doc, 3, 2)
	assert.Error(t, err)
	_, err = LineSpan(doc, 1, 99)
	assert.Error(t, err)
}

func TestPlanTarget(t *testing.T) {
	doc := "alpha\nbeta\ngamma\n"

	whole := PlanTarget(doc, nil)
	assert.True(t, whole.Whole)
	assert.Equal(t, doc, whole.Old)

	sel := PlanTarget(doc, &Span{Start: 6, End: 10})
	assert.False(t, sel.Whole)
	assert.Equal(t, "beta", sel.Old)

	clamped := PlanTarget(doc, &Span{Start: -5, End: 500})
	assert.True(t, clamped.Whole)
	assert.Equal(t, doc, clamped.Old)
}

func TestSuspiciousSnippet(t *testing.T) {
	doc := "0123456789"
	whole := PlanTarget(doc, nil)
	assert.True(t, whole.SuspiciousSnippet("12"))
	assert.False(t, whole.SuspiciousSnippet("123"))

	sel := PlanTarget(doc, &Span{Start: 0, End: 5})
	assert.False(t, sel.SuspiciousSnippet(""), "selections are never suspicious")

	strict := whole
	strict.Ratio = 0.9
	assert.True(t, strict.SuspiciousSnippet("12345678"))
}

func TestTargetLabel(t *testing.T) {
	assert.Equal(t, "to Foo.java", PlanTarget("x", nil).Label("Foo.java"))
	assert.Equal(t, "to the selection", PlanTarget("xyz", &Span{Start: 1, End: 2}).Label("Foo.java"))
}

func TestApply(t *testing.T) {
	doc := "alpha\nbeta\ngamma\n"
	sel := PlanTarget(doc, &Span{Start: 6, End: 10})
	assert.Equal(t, "alpha\nBETA\ngamma\n", Apply(doc, sel, "BETA"))

	whole := PlanTarget(doc, nil)
	assert.Equal(t, "new", Apply(doc, whole, "new"))
}

func TestPreview(t *testing.T) {
	before := "a\nb\nc\n"
	after := "a\nB\nc\n"

	got := Preview(before, after)
	assert.Contains(t, got, " a\n")
	assert.Contains(t, got, "-b\n")
	assert.Contains(t, got, "+B\n")
	assert.Contains(t, got, " c\n")

	added, removed := Changed(before, after)
	assert.Equal(t, 1, added)
	assert.Equal(t, 1, removed)

	assert.Empty(t, Preview("", ""))
}
