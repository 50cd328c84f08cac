// Package compiler implements the semantic middle-end: resolving ast.Value
// handles against a mutable CompileMeta, compiling ast.LogicLine into
// TagLines, and assembling the tagged line list into numbered MLOG text.
// The operations are free functions over lang/ast's types rather than
// methods on them, keeping lang/ast a pure data package.
package compiler

import "fmt"

// TagLine is one assembled-but-unresolved output line: a plain Line, a
// Jump carrying a symbolic target tag plus its condition text, or a
// TagDown marking that the next non-TagDown line is the target of tag id.
type TagLine interface {
	isTagLine()
}

// Line is a finished MLOG instruction with no symbolic reference of its
// own.
type Line string

func (Line) isTagLine() {}

// Jump is a conditional or unconditional jump whose target is still a
// symbolic tag id; CondStr is the raw comparator clause ("always 0 0", or
// "equal a b"), emitted verbatim after the resolved line number.
type Jump struct {
	ToTag   int
	CondStr string
}

func (Jump) isTagLine() {}

// TagDown marks that tag TagID resolves to the line number of the next
// non-TagDown entry in the list (adjacent TagDowns all resolve to the
// same following line).
type TagDown struct {
	TagID int
}

func (TagDown) isTagLine() {}

// TagCodes is the growing, then resolved, list of TagLines (component C1).
type TagCodes struct {
	lines []TagLine
}

// NewTagCodes returns an empty TagCodes.
func NewTagCodes() *TagCodes {
	return &TagCodes{}
}

// Push appends a TagLine.
func (t *TagCodes) Push(line TagLine) {
	t.lines = append(t.lines, line)
}

// Pop removes and returns the last TagLine, or false if empty.
func (t *TagCodes) Pop() (TagLine, bool) {
	if len(t.lines) == 0 {
		return nil, false
	}
	last := t.lines[len(t.lines)-1]
	t.lines = t.lines[:len(t.lines)-1]
	return last, true
}

// Len returns the total number of TagLines, TagDowns included.
func (t *TagCodes) Len() int {
	return len(t.lines)
}

// CountNoTag returns the number of TagLines excluding TagDown entries —
// i.e. the number of lines that will actually be emitted.
func (t *TagCodes) CountNoTag() int {
	n := 0
	for _, l := range t.lines {
		if _, ok := l.(TagDown); !ok {
			n++
		}
	}
	return n
}

// Clear empties the line list, keeping the allocation.
func (t *TagCodes) Clear() {
	t.lines = t.lines[:0]
}

// Lines returns the underlying TagLine slice.
func (t *TagCodes) Lines() []TagLine {
	return t.lines
}

// SplitOff removes and returns the lines from index start to the end,
// leaving the receiver holding only the prefix. Used by compileSelect to
// capture exactly the lines a sub-compile appended.
func (t *TagCodes) SplitOff(start int) []TagLine {
	tail := append([]TagLine(nil), t.lines[start:]...)
	t.lines = t.lines[:start]
	return tail
}

// buildTagDown resolves every TagDown into a mapping from tag id to the
// line number of the next non-TagDown entry. Adjacent TagDowns collapse
// onto the same following line; a TagDown with nothing after it resolves
// to CountNoTag() (one past the end, matching an implicit `end`).
func (t *TagCodes) buildTagDown() map[int]int {
	resolved := make(map[int]int)
	pending := []int(nil)
	lineNo := 0
	for _, l := range t.lines {
		switch v := l.(type) {
		case TagDown:
			pending = append(pending, v.TagID)
		default:
			for _, id := range pending {
				resolved[id] = lineNo
			}
			pending = pending[:0]
			lineNo++
		}
	}
	for _, id := range pending {
		resolved[id] = lineNo
	}
	return resolved
}

// Compile resolves every tag to a numeric line index and renders the
// final MLOG text, one instruction per element.
func (t *TagCodes) Compile() []string {
	resolved := t.buildTagDown()
	out := make([]string, 0, t.CountNoTag())
	for _, l := range t.lines {
		switch v := l.(type) {
		case TagDown:
			continue
		case Line:
			out = append(out, string(v))
		case Jump:
			out = append(out, fmt.Sprintf("jump %d %s", resolved[v.ToTag], v.CondStr))
		}
	}
	return out
}
