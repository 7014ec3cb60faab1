package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/tilewm/internal/container"
)

type styles struct {
	kind    lipgloss.Style
	name    lipgloss.Style
	muted   lipgloss.Style
	focused lipgloss.Style
}

func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{kind: plain, name: plain, muted: plain, focused: plain}
	}
	return styles{
		kind:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		name:    lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
		muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		focused: lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
	}
}

// describe renders one container on a single line.
func describe(st styles, c container.DTO) string {
	parts := []string{st.kind.Render(c.Type)}

	switch c.Type {
	case "window":
		parts = append(parts, st.muted.Render(fmt.Sprintf("0x%x", c.Handle)))
		if c.Title != "" {
			parts = append(parts, st.name.Render(fmt.Sprintf("%q", c.Title)))
		}
		if c.State != "" {
			parts = append(parts, c.State)
		}
	case "split":
		if c.TilingDirection != "" {
			parts = append(parts, c.TilingDirection)
		}
	default:
		if c.Name != "" {
			parts = append(parts, st.name.Render(c.Name))
		}
	}

	if c.Rect != nil {
		parts = append(parts, st.muted.Render(fmt.Sprintf("%d,%d %dx%d", c.Rect.X, c.Rect.Y, c.Rect.Width, c.Rect.Height)))
	}
	if c.IsDisplayed != nil && *c.IsDisplayed {
		parts = append(parts, st.muted.Render("displayed"))
	}
	if c.HasFocus {
		parts = append(parts, st.focused.Render("*focused"))
	}
	return strings.Join(parts, " ")
}

func renderTree(w io.Writer, st styles, root container.DTO) {
	fmt.Fprintln(w, describe(st, root))
	renderChildren(w, st, root.Children, "")
}

func renderChildren(w io.Writer, st styles, children []container.DTO, prefix string) {
	for i, child := range children {
		branch, indent := "├─ ", "│  "
		if i == len(children)-1 {
			branch, indent = "└─ ", "   "
		}
		fmt.Fprintln(w, prefix+st.muted.Render(branch)+describe(st, child))
		renderChildren(w, st, child.Children, prefix+st.muted.Render(indent))
	}
}

func renderList(w io.Writer, st styles, list []container.DTO) {
	if len(list) == 0 {
		fmt.Fprintln(w, st.muted.Render("(none)"))
		return
	}
	for _, c := range list {
		fmt.Fprintln(w, describe(st, c))
	}
}
