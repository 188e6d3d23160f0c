package markup

import (
	"strings"
	"testing"

	"github.com/go-fern/fern/pkg/host"
)

func memoryTree() *host.Memory {
	text := host.NewMemory("text")
	text.ApplyProps(map[string]any{"text": "hello"})

	button := host.NewMemory("button")
	button.ApplyProps(map[string]any{
		"label":   "Go",
		"onClick": func() {},
		"width":   80,
	})

	column := host.NewMemory("column")
	column.ApplyProps(map[string]any{"gap": 4})
	column.SetChildren([]host.Object{text, button})
	return column
}

func TestRender(t *testing.T) {
	got := Render(memoryTree())
	want := strings.Join([]string{
		`<column gap=4>`,
		`  <text>hello</text>`,
		`  <button label="Go" onClick width=80/>`,
		`</column>`,
		``,
	}, "\n")
	if got != want {
		t.Errorf("markup mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	first := Render(memoryTree())
	for i := 0; i < 10; i++ {
		if got := Render(memoryTree()); got != first {
			t.Fatalf("run %d differs:\n%s\nvs\n%s", i, got, first)
		}
	}
}

func TestWriteOptions(t *testing.T) {
	var b strings.Builder
	Write(&b, memoryTree(), Options{Indent: "\t", OmitProps: []string{"gap", "width"}})
	got := b.String()

	if !strings.Contains(got, "\t<text>hello</text>") {
		t.Errorf("custom indent not applied:\n%s", got)
	}
	if strings.Contains(got, "gap") || strings.Contains(got, "width") {
		t.Errorf("omitted props leaked:\n%s", got)
	}
}

func TestRenderLeafWithoutChildren(t *testing.T) {
	leaf := host.NewMemory("divider")
	if got := Render(leaf); got != "<divider/>\n" {
		t.Errorf("leaf markup = %q", got)
	}
}

func TestRenderNil(t *testing.T) {
	if got := Render(nil); got != "" {
		t.Errorf("nil markup = %q", got)
	}
}
