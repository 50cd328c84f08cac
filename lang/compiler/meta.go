package compiler

import (
	"fmt"

	"github.com/dolthub/swiss"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/mna/mindlang/lang/ast"
)

// constBinding is the value a const name resolves to, together with the
// labels its body declares — label is needed so a later const-expansion of
// this name can freshen exactly those labels (§4.5).
type constBinding struct {
	labels []ast.Var
	value  ast.Value
}

// constFrame is one lexical block's const namespace: its own bindings,
// plus the subset of names it must re-export into the enclosing frame on
// exit (const-leak).
type constFrame struct {
	leaks    []ast.Var
	bindings map[ast.Var]constBinding
}

// CompileMeta is the mutable compile context threaded through every
// Compile call (component C5): tag bookkeeping, temp-name counters, the
// const namespace stack, the DExp result-handle stack, and the
// const-expansion label-rename stack.
type CompileMeta struct {
	tagsMap  *swiss.Map[string, int]
	tagCount int
	tagCodes *TagCodes

	tmpVarCount int
	tmpTagCount int

	constVarNamespace []constFrame
	dexpResultHandles []ast.Var

	// constExpandTagNameMap is the stack of active const-expansion label
	// rename maps; innermost frame last. get_in_const_label walks it from
	// the end so a macro expanded inside another macro can still jump to a
	// label declared by the outer macro.
	constExpandTagNameMap []map[ast.Var]ast.Var

	// RecursionLimit bounds const-expansion depth (internal/config); zero
	// means the compiler's built-in default applies.
	RecursionLimit int
}

// defaultRecursionLimit bounds const-expansion nesting when no explicit
// limit is configured, guarding against runaway self-referential consts.
const defaultRecursionLimit = 1000

// NewCompileMeta returns a CompileMeta ready to compile a top-level Expand,
// with the built-in default recursion limit.
func NewCompileMeta() *CompileMeta {
	return NewCompileMetaWithLimit(defaultRecursionLimit)
}

// NewCompileMetaWithLimit is like NewCompileMeta but lets the caller (the
// CLI, wiring in internal/config) set the const-expansion recursion limit
// explicitly.
func NewCompileMetaWithLimit(recursionLimit int) *CompileMeta {
	return &CompileMeta{
		tagsMap:        swiss.NewMap[string, int](16),
		tagCodes:       NewTagCodes(),
		RecursionLimit: recursionLimit,
	}
}

// GetTag returns label's numeric id, allocating one if label is new. Tag
// and Label are used interchangeably throughout.
func (m *CompileMeta) GetTag(label string) int {
	if id, ok := m.tagsMap.Get(label); ok {
		return id
	}
	id := m.tagCount
	m.tagCount++
	m.tagsMap.Put(label, id)
	return id
}

// GetTmpTag allocates a fresh compiler-internal tag name. Per the
// project's temp-naming convention tmp tags use a three-underscore
// prefix, distinct from tmp vars, so the two counters can never collide
// even though they are otherwise independent (see DESIGN.md).
func (m *CompileMeta) GetTmpTag() ast.Var {
	id := m.tmpTagCount
	m.tmpTagCount++
	return ast.Var(fmt.Sprintf("___%d", id))
}

// GetTmpVar allocates a fresh compiler-internal variable name.
func (m *CompileMeta) GetTmpVar() ast.Var {
	id := m.tmpVarCount
	m.tmpVarCount++
	return ast.Var(fmt.Sprintf("__%d", id))
}

// Push appends a TagLine to the generated code.
func (m *CompileMeta) Push(line TagLine) { m.tagCodes.Push(line) }

// Pop removes and returns the last generated TagLine.
func (m *CompileMeta) Pop() (TagLine, bool) { return m.tagCodes.Pop() }

// TagCodeCount returns the number of generated TagLines, TagDowns included.
func (m *CompileMeta) TagCodeCount() int { return m.tagCodes.Len() }

// TagCodeCountNoTag returns the number of generated lines excluding
// TagDowns.
func (m *CompileMeta) TagCodeCountNoTag() int { return m.tagCodes.CountNoTag() }

// TagCodes returns the underlying assembler.
func (m *CompileMeta) TagCodes() *TagCodes { return m.tagCodes }

// Compile resets the assembler and compiles lines against m, then returns
// the finished TagCodes. This is the compiler's single public entry
// point (mirrors CompileMeta::compile in the design this was grounded
// on).
func (m *CompileMeta) Compile(lines ast.Expand) *TagCodes {
	m.tagCodes.Clear()
	CompileLogicLine(lines, m)
	return m.tagCodes
}

// BlockEnter pushes a fresh const namespace frame (entering a sub-block).
func (m *CompileMeta) BlockEnter() {
	m.constVarNamespace = append(m.constVarNamespace, constFrame{
		bindings: make(map[ast.Var]constBinding),
	})
}

// BlockExit pops the innermost const namespace frame, re-exporting any
// leaked names into the now-innermost enclosing frame, and returns the
// popped frame's bindings.
func (m *CompileMeta) BlockExit() map[ast.Var]constBinding {
	n := len(m.constVarNamespace)
	frame := m.constVarNamespace[n-1]
	m.constVarNamespace = m.constVarNamespace[:n-1]

	for _, name := range frame.leaks {
		binding := frame.bindings[name]
		delete(frame.bindings, name)
		if len(m.constVarNamespace) > 0 {
			m.constVarNamespace[len(m.constVarNamespace)-1].bindings[name] = binding
		}
	}
	return frame.bindings
}

// AddConstValueLeak marks name, bound in the current frame, for
// re-export into the enclosing frame when the current frame exits.
func (m *CompileMeta) AddConstValueLeak(name ast.Var) {
	n := len(m.constVarNamespace)
	m.constVarNamespace[n-1].leaks = append(m.constVarNamespace[n-1].leaks, name)
}

// GetConstValue looks up name from the innermost frame outward, returning
// the first match.
func (m *CompileMeta) GetConstValue(name ast.Var) (constBinding, bool) {
	for i := len(m.constVarNamespace) - 1; i >= 0; i-- {
		if b, ok := m.constVarNamespace[i].bindings[name]; ok {
			return b, true
		}
	}
	return constBinding{}, false
}

// AddConstValue binds name to value in the current frame (§4.5 snapshot
// semantics): if value is itself a bound const Var, the binding is
// resolved and cloned immediately so a later rebinding of that other name
// cannot retroactively change what name means; and a ReprVar right-hand
// side is demoted to a plain Var, since const substitution only ever runs
// once and a ReprVar surviving into the binding would block that single
// substitution from ever happening. Returns the previous binding, if any.
func (m *CompileMeta) AddConstValue(name ast.Var, value ast.Value, labels []ast.Var) (constBinding, bool) {
	if v, ok := ast.AsVar(value); ok {
		if b, ok := m.GetConstValue(v); ok {
			labels = append([]ast.Var(nil), b.labels...)
			value = b.value
		}
	}
	if rv, ok := ast.AsReprVar(value); ok {
		value = ast.Var(rv)
	}

	n := len(m.constVarNamespace)
	old, existed := m.constVarNamespace[n-1].bindings[name]
	m.constVarNamespace[n-1].bindings[name] = constBinding{labels: labels, value: value}
	return old, existed
}

// PushDexpHandle enters a new DExp nesting level with the given result
// handle as the current `$` binding.
func (m *CompileMeta) PushDexpHandle(handle ast.Var) {
	m.dexpResultHandles = append(m.dexpResultHandles, handle)
}

// PopDexpHandle leaves the innermost DExp nesting level.
func (m *CompileMeta) PopDexpHandle() ast.Var {
	n := len(m.dexpResultHandles)
	h := m.dexpResultHandles[n-1]
	m.dexpResultHandles = m.dexpResultHandles[:n-1]
	return h
}

// DexpHandle returns the current `$` binding, or an ErrOutOfDExp
// CompileError if called outside any DExp.
func (m *CompileMeta) DexpHandle() (ast.Var, error) {
	if len(m.dexpResultHandles) == 0 {
		return "", m.outOfDexpErr("`$`")
	}
	return m.dexpResultHandles[len(m.dexpResultHandles)-1], nil
}

// SetDexpHandle rebinds the current `$` binding (a `setres` line),
// returning the old one.
func (m *CompileMeta) SetDexpHandle(newHandle ast.Var) (ast.Var, error) {
	n := len(m.dexpResultHandles)
	if n == 0 {
		return "", m.outOfDexpErr("`setres`")
	}
	old := m.dexpResultHandles[n-1]
	m.dexpResultHandles[n-1] = newHandle
	return old, nil
}

func (m *CompileMeta) outOfDexpErr(what string) error {
	return &CompileError{
		Kind:    ErrOutOfDExp,
		Message: fmt.Sprintf("attempt to use %s outside of any DExp", what),
		Info:    m.ErrInfo(),
	}
}

// GetInConstLabel walks the const-expansion rename stack from the
// innermost frame outward, returning the renamed label for name, or name
// itself unchanged if no active expansion renamed it.
func (m *CompileMeta) GetInConstLabel(name ast.Var) ast.Var {
	for i := len(m.constExpandTagNameMap) - 1; i >= 0; i-- {
		if renamed, ok := m.constExpandTagNameMap[i][name]; ok {
			return renamed
		}
	}
	return name
}

// ConstExpandEnter begins expanding the const bound to name: every label
// its body declared is freshened to a unique name derived from a new tmp
// tag, and the resolved (possibly multi-use) value is returned. Returns
// false if name is not bound to a const.
func (m *CompileMeta) ConstExpandEnter(name ast.Var) (ast.Value, bool, error) {
	limit := m.RecursionLimit
	if limit <= 0 {
		limit = defaultRecursionLimit
	}
	if len(m.constExpandTagNameMap) >= limit {
		return nil, false, &CompileError{
			Kind:    ErrRecursionLimit,
			Message: fmt.Sprintf("const expansion exceeded depth limit %d", limit),
			Info:    m.ErrInfo(),
		}
	}
	binding, ok := m.GetConstValue(name)
	if !ok {
		return nil, false, nil
	}
	renamed := make(map[ast.Var]ast.Var, len(binding.labels))
	for _, label := range binding.labels {
		tag := m.GetTmpTag()
		renamed[label] = ast.Var(fmt.Sprintf("%s_const_%s_%s", tag, name, label))
	}
	m.constExpandTagNameMap = append(m.constExpandTagNameMap, renamed)
	return binding.value, true, nil
}

// ConstExpandExit ends the innermost const expansion, popping its label
// rename frame.
func (m *CompileMeta) ConstExpandExit() map[ast.Var]ast.Var {
	n := len(m.constExpandTagNameMap)
	frame := m.constExpandTagNameMap[n-1]
	m.constExpandTagNameMap = m.constExpandTagNameMap[:n-1]
	return frame
}

// debugTagsMap returns "id -> tag" lines sorted by tag name, for
// deterministic diagnostics (§5: no iteration-order-dependent output):
// tagsMap.Iter walks the swiss table in undefined order, so the keys are
// collected and sorted before rendering.
func (m *CompileMeta) debugTagsMap() []string {
	ids := make(map[string]int, m.tagsMap.Count())
	m.tagsMap.Iter(func(tag string, id int) bool {
		ids[tag] = id
		return false
	})
	names := maps.Keys(ids)
	slices.Sort(names)

	out := make([]string, len(names))
	for i, tag := range names {
		out[i] = fmt.Sprintf("%d \t-> %s", ids[tag], tag)
	}
	return out
}

// debugTagCodes renders each generated TagLine as text, for diagnostics.
func (m *CompileMeta) debugTagCodes() []string {
	lines := m.tagCodes.Lines()
	out := make([]string, len(lines))
	for i, l := range lines {
		switch v := l.(type) {
		case Line:
			out[i] = string(v)
		case Jump:
			out[i] = fmt.Sprintf("jump ?%d %s", v.ToTag, v.CondStr)
		case TagDown:
			out[i] = fmt.Sprintf("tag %d", v.TagID)
		}
	}
	return out
}

// ErrInfo renders a compile-state dump (tag table, generated code so
// far) used to give CompileErrors context beyond the message itself.
func (m *CompileMeta) ErrInfo() []string {
	res := []string{"tag id map:"}
	for _, l := range m.debugTagsMap() {
		res = append(res, "\t"+l)
	}
	res = append(res, "generated code so far:")
	for _, l := range m.debugTagCodes() {
		res = append(res, "\t"+l)
	}
	return res
}
