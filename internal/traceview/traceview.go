// Package traceview renders interpreter and class-file state as styled
// text for the CLI, using the same lipgloss building blocks the pack's
// terminal UI tooling styles its panels with. It is a static renderer, not
// a full TUI: no alt-screen program loop, just one-shot Render* calls.
package traceview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jmpnz/coldbrew/internal/classfile"
	"github.com/jmpnz/coldbrew/internal/interp"
	"github.com/jmpnz/coldbrew/internal/trace"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			Padding(0, 1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#666666")).
			Padding(0, 1)

	keyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#4682B4"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#CCCCCC"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

// RenderValue renders a single interpreter result value.
func RenderValue(v interp.Value) string {
	var s string
	switch v.Kind {
	case interp.KindInt:
		s = fmt.Sprintf("%d", v.Int())
	case interp.KindLong:
		s = fmt.Sprintf("%d", v.Long())
	case interp.KindFloat:
		s = fmt.Sprintf("%g", v.Float())
	case interp.KindDouble:
		s = fmt.Sprintf("%g", v.Double())
	}
	return keyStyle.Render(v.Kind.String()+": ") + valueStyle.Render(s)
}

// RenderTrace renders a harvested linear trace: its start PC, instruction
// sequence, and branch-target classification.
func RenderTrace(t trace.Trace) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("trace @ %s", t.Start)))
	b.WriteString("\n")
	for i, rec := range t.Records {
		b.WriteString(fmt.Sprintf("  %3d  %-5s  %s", i, rec.PC, rec.Inst.Op))
		if len(rec.Inst.Params) > 0 {
			b.WriteString(mutedStyle.Render(fmt.Sprintf("  %v", rec.Inst.Params)))
		}
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render(fmt.Sprintf(
		"inner branch targets: %d, outer branch targets: %d",
		len(t.InnerBranchTargets), len(t.OuterBranchTargets))))
	return boxStyle.Render(b.String())
}

// RenderClassFile renders a summary of a decoded class file's constant
// pool and method table, for `coldbrew dump`.
func RenderClassFile(cf *classfile.ClassFile) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("class file v%d.%d", cf.MajorVersion, cf.MinorVersion)))
	b.WriteString("\n")
	b.WriteString(keyStyle.Render("constant pool: ") + valueStyle.Render(fmt.Sprintf("%d entries", len(cf.ConstantPool)-1)))
	b.WriteString("\n")
	for i, m := range cf.Methods {
		name := cf.ConstantPool.Utf8(m.NameIndex)
		desc := cf.ConstantPool.Utf8(m.DescriptorIndex)
		b.WriteString(fmt.Sprintf("  method[%d]: %s%s\n", i, name, desc))
	}
	return boxStyle.Render(b.String())
}
