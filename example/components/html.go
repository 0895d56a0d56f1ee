package components

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// markup writes HTML for the Go-only views, keeping the first error.
type markup struct {
	ctx context.Context
	w   io.Writer
	err error
}

func newMarkup(ctx context.Context, w io.Writer) *markup {
	return &markup{ctx: ctx, w: w}
}

func (m *markup) raw(s string) {
	if m.err == nil {
		_, m.err = io.WriteString(m.w, s)
	}
}

func (m *markup) text(format string, args ...any) {
	m.raw(templ.EscapeString(fmt.Sprintf(format, args...)))
}

func (m *markup) open(tag string, attrs ...templ.Attributes) {
	m.raw("<" + tag)
	for _, a := range attrs {
		if m.err == nil {
			m.err = templ.RenderAttributes(m.ctx, m.w, a)
		}
	}
	m.raw(">")
}

func (m *markup) close(tag string) {
	m.raw("</" + tag + ">")
}

// el writes a complete element with escaped text content.
func (m *markup) el(tag, text string, attrs ...templ.Attributes) {
	m.open(tag, attrs...)
	m.text("%s", text)
	m.close(tag)
}

func (m *markup) component(c templ.Component) {
	if m.err == nil {
		m.err = c.Render(m.ctx, m.w)
	}
}
