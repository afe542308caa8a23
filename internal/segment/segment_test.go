package segment

import (
	"context"
	"strings"
	"testing"
)

type fakeSegment struct {
	id   string
	data *Data
}

func (f fakeSegment) ID() string {
	return f.id
}

func (f fakeSegment) Collect(context.Context) *Data {
	return f.data
}

func TestRenderJoinsSegmentFields(t *testing.T) {
	r := NewRenderer(true)
	seg := fakeSegment{id: "usage", data: &Data{
		Primary:   "42%",
		Secondary: "· 3-14-15",
		Metadata:  map[string]string{"dynamic_icon": "◐"},
	}}

	line := r.Render(context.Background(), seg)
	if !strings.Contains(line, "◐") {
		t.Fatalf("expected icon in output, got %q", line)
	}
	if !strings.Contains(line, "42%") || !strings.Contains(line, "· 3-14-15") {
		t.Fatalf("expected primary and secondary in output, got %q", line)
	}
}

func TestRenderSkipsAbsentSegments(t *testing.T) {
	r := NewRenderer(true)
	absent := fakeSegment{id: "usage"}
	present := fakeSegment{id: "other", data: &Data{Primary: "ok"}}

	line := r.Render(context.Background(), absent, present)
	if !strings.Contains(line, "ok") || strings.Contains(line, "  ") {
		t.Fatalf("expected only the present segment, got %q", line)
	}
}

func TestRenderEmptyWhenAllAbsent(t *testing.T) {
	r := NewRenderer(true)
	if line := r.Render(context.Background(), fakeSegment{id: "usage"}); line != "" {
		t.Fatalf("expected empty line, got %q", line)
	}
}

func TestRenderOmitsEmptyFields(t *testing.T) {
	r := NewRenderer(true)
	seg := fakeSegment{id: "usage", data: &Data{Primary: "42%"}}

	line := r.Render(context.Background(), seg)
	if !strings.Contains(line, "42%") || strings.Contains(line, " ") {
		t.Fatalf("expected bare primary, got %q", line)
	}
}
