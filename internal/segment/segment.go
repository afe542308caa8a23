// Package segment defines the status-line segment contract and the
// renderer that joins collected segments into one prompt line.
package segment

import (
	"context"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Data is the rendered output of one segment for a single prompt: a
// primary value, a secondary annotation, and auxiliary metadata for
// downstream consumers. It carries no identity beyond the render call.
type Data struct {
	Primary   string
	Secondary string
	Metadata  map[string]string
}

// Segment is one self-contained piece of status-line output. Collect
// returns nil when the segment has nothing to show this cycle; that is
// an absent segment, not an error.
type Segment interface {
	ID() string
	Collect(ctx context.Context) *Data
}

type styles struct {
	icon      lipgloss.Style
	primary   lipgloss.Style
	secondary lipgloss.Style
}

// Renderer joins segments into a single status line.
type Renderer struct {
	styles styles
}

func NewRenderer(noColor bool) *Renderer {
	if noColor {
		return &Renderer{styles: styles{
			icon:      lipgloss.NewStyle(),
			primary:   lipgloss.NewStyle().Bold(true),
			secondary: lipgloss.NewStyle(),
		}}
	}
	return &Renderer{styles: styles{
		icon:      lipgloss.NewStyle().Foreground(lipgloss.Color("81")),
		primary:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255")),
		secondary: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}}
}

// Render collects every segment and joins the non-absent results. An
// empty string means nothing rendered.
func (r *Renderer) Render(ctx context.Context, segments ...Segment) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		data := seg.Collect(ctx)
		if data == nil {
			continue
		}
		parts = append(parts, r.renderData(data))
	}
	return strings.Join(parts, "  ")
}

func (r *Renderer) renderData(data *Data) string {
	fields := make([]string, 0, 3)
	if icon := data.Metadata["dynamic_icon"]; icon != "" {
		fields = append(fields, r.styles.icon.Render(icon))
	}
	if data.Primary != "" {
		fields = append(fields, r.styles.primary.Render(data.Primary))
	}
	if data.Secondary != "" {
		fields = append(fields, r.styles.secondary.Render(data.Secondary))
	}
	return strings.Join(fields, " ")
}
