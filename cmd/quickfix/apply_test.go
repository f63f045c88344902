package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const replyWhole = "Fixed the sum.\n\n```java\npackage com.example;\n\npublic class Order {\n    public int total(int base) {\n        return Math.max(base, 0);\n    }\n}\n```\n"

const replySelection = "Clamp it:\n```java\n        int sum = Math.max(base, 0);\n```"

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestApplyWholeFileWithYes(t *testing.T) {
	dir := isolate(t)
	src := writeFile(t, dir, "Order.java", orderJava)

	res := execute(t, replyWhole, "apply", "--file", src, "--yes")
	require.Equal(t, 0, res.code, res.stderr)

	assert.Contains(t, res.stdout, "Quick Fix Proposed Changes")
	assert.Contains(t, res.stdout, "+        return Math.max(base, 0);")
	assert.Contains(t, res.stdout, "-        int sum = base;")
	assert.Contains(t, res.stdout, "Applied Quick Fix to Order.java")
	assert.Contains(t, readFile(t, src), "return Math.max(base, 0);")
	assert.NotContains(t, readFile(t, src), "int sum = base;")
}

func TestApplySelection(t *testing.T) {
	dir := isolate(t)
	src := writeFile(t, dir, "Order.java", orderJava)
	reply := writeFile(t, dir, "reply.md", replySelection)

	res := execute(t, "", "apply", "--file", src, "--response", reply, "--select-start", "5", "--yes")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Applied Quick Fix to the selection")

	want := "package com.example;\n\npublic class Order {\n    public int total(int base) {\nint sum = Math.max(base, 0);\n        return sum;\n    }\n}\n"
	assert.Equal(t, want, readFile(t, src))
}

func TestApplySelectionOutOfRange(t *testing.T) {
	dir := isolate(t)
	src := writeFile(t, dir, "Order.java", orderJava)

	res := execute(t, replySelection, "apply", "--file", src, "--select-start", "50", "--yes")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "outside document")
}

func TestApplyNoCodeBlock(t *testing.T) {
	dir := isolate(t)
	src := writeFile(t, dir, "Order.java", orderJava)

	res := execute(t, "Looks fine to me.", "apply", "--file", src, "--yes")
	assert.Equal(t, 3, res.code)
	assert.Contains(t, res.stderr, "no code block found")
	assert.Equal(t, orderJava, readFile(t, src))
}

func TestApplyNeedsConfirmation(t *testing.T) {
	dir := isolate(t)
	src := writeFile(t, dir, "Order.java", orderJava)

	res := execute(t, replyWhole, "apply", "--file", src)
	assert.Equal(t, 2, res.code)
	assert.Contains(t, res.stderr, "rerun with --yes")
	assert.Equal(t, orderJava, readFile(t, src))
}

func TestApplyConfirmedOnTerminal(t *testing.T) {
	dir := isolate(t)
	src := writeFile(t, dir, "Order.java", orderJava)
	reply := writeFile(t, dir, "reply.md", replyWhole)
	asked := fakeTerminal(t, true)

	res := execute(t, "", "apply", "--file", src, "--response", reply)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, 1, *asked)
	assert.Contains(t, readFile(t, src), "Math.max")
}

func TestApplyDeclinedOnTerminal(t *testing.T) {
	dir := isolate(t)
	src := writeFile(t, dir, "Order.java", orderJava)
	reply := writeFile(t, dir, "reply.md", replyWhole)
	fakeTerminal(t, false)

	res := execute(t, "", "apply", "--file", src, "--response", reply)
	assert.Equal(t, 2, res.code)
	assert.Equal(t, orderJava, readFile(t, src))
}

func TestApplySnippetWarning(t *testing.T) {
	dir := isolate(t)
	src := writeFile(t, dir, "Order.java", orderJava)
	reply := writeFile(t, dir, "reply.md", "```java\nx();\n```")
	asked := fakeTerminal(t, true)

	res := execute(t, "", "apply", "--file", src, "--response", reply)
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stderr, "snippet rather than the full file")
	assert.Equal(t, 2, *asked, "snippet warning then apply confirmation")
	assert.Equal(t, "x();", readFile(t, src))
}

func TestApplyDryRun(t *testing.T) {
	dir := isolate(t)
	src := writeFile(t, dir, "Order.java", orderJava)

	res := execute(t, replyWhole, "apply", "--file", src, "--dry-run")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Quick Fix Proposed Changes")
	assert.NotContains(t, res.stdout, "Applied")
	assert.Equal(t, orderJava, readFile(t, src))
}

func TestApplyRecordsOutcome(t *testing.T) {
	dir := isolate(t)
	src := writeFile(t, dir, "Order.java", orderJava)

	gen := execute(t, "", "prompt", "--source", src, "--line", "5", "-i", "clamp", "-o", "json")
	require.Equal(t, 0, gen.code, gen.stderr)
	runID := jsonField(t, gen.stdout, "run_id")
	require.NotEmpty(t, runID)

	res := execute(t, replyWhole, "apply", "--file", src, "--run", runID, "--yes")
	require.Equal(t, 0, res.code, res.stderr)

	hist := execute(t, "", "history")
	require.Equal(t, 0, hist.code, hist.stderr)
	assert.Contains(t, hist.stdout, "applied")
}

func TestApplyWriteFailureLeavesRunPending(t *testing.T) {
	dir := isolate(t)
	src := writeFile(t, dir, "Order.java", orderJava)

	gen := execute(t, "", "prompt", "--source", src, "--line", "5", "-i", "clamp", "-o", "json")
	require.Equal(t, 0, gen.code, gen.stderr)
	runID := jsonField(t, gen.stdout, "run_id")

	orig := writeTarget
	t.Cleanup(func() { writeTarget = orig })
	writeTarget = func(string, []byte, os.FileMode) error { return errors.New("disk full") }

	res := execute(t, replyWhole, "apply", "--file", src, "--run", runID, "--yes")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "writing "+src+": disk full")
	assert.NotContains(t, res.stdout, "Applied")
	assert.Equal(t, orderJava, readFile(t, src))

	hist := execute(t, "", "history")
	require.Equal(t, 0, hist.code, hist.stderr)
	assert.Contains(t, hist.stdout, "pending")
	assert.NotContains(t, hist.stdout, "applied")
}

func TestApplyRequiresFile(t *testing.T) {
	isolate(t)
	res := execute(t, replyWhole, "apply")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "--file is required")
}

func TestApplyMissingFile(t *testing.T) {
	dir := isolate(t)
	res := execute(t, replyWhole, "apply", "--file", filepath.Join(dir, "Nope.java"))
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "reading target file")
}
