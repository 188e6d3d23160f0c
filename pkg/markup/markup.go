// Package markup serializes host object trees into a stable, human-readable
// text form. The output is deterministic (props in sorted order), which makes
// it the format of choice for golden snapshots and CLI output.
package markup

import (
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"

	"github.com/go-fern/fern/pkg/host"
)

// Options controls serialization.
type Options struct {
	// Indent is the per-level indentation. Defaults to two spaces.
	Indent string
	// OmitProps lists prop names excluded from the output.
	OmitProps []string
}

// Render serializes the tree rooted at object with default options.
func Render(object host.Object) string {
	var b strings.Builder
	Write(&b, object, Options{})
	return b.String()
}

// Write serializes the tree rooted at object to w.
func Write(w io.Writer, object host.Object, opts Options) {
	if opts.Indent == "" {
		opts.Indent = "  "
	}
	omit := make(map[string]bool, len(opts.OmitProps))
	for _, name := range opts.OmitProps {
		omit[name] = true
	}
	writeObject(w, object, 0, opts.Indent, omit)
}

func writeObject(w io.Writer, object host.Object, level int, indent string, omit map[string]bool) {
	if object == nil {
		return
	}
	pad := strings.Repeat(indent, level)
	tag := object.Tag()

	// Text leaves collapse onto one line.
	if tag == "text" {
		fmt.Fprintf(w, "%s<text>%s</text>\n", pad, objectText(object))
		return
	}

	attrs := formatProps(object, omit)
	children := objectChildren(object)
	if len(children) == 0 {
		fmt.Fprintf(w, "%s<%s%s/>\n", pad, tag, attrs)
		return
	}

	fmt.Fprintf(w, "%s<%s%s>\n", pad, tag, attrs)
	for _, child := range children {
		writeObject(w, child, level+1, indent, omit)
	}
	fmt.Fprintf(w, "%s</%s>\n", pad, tag)
}

// formatProps renders the prop bag as sorted attributes. Function-valued
// props serialize as a bare name, so trees with handlers still snapshot
// deterministically.
func formatProps(object host.Object, omit map[string]bool) string {
	props := objectProps(object)
	if len(props) == 0 {
		return ""
	}
	names := make([]string, 0, len(props))
	for name := range props {
		if omit[name] {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteByte(' ')
		b.WriteString(name)
		value := props[name]
		if value == nil {
			continue
		}
		if reflect.TypeOf(value).Kind() == reflect.Func {
			continue
		}
		switch v := value.(type) {
		case string:
			fmt.Fprintf(&b, "=%q", v)
		default:
			fmt.Fprintf(&b, "=%v", v)
		}
	}
	return b.String()
}

func objectProps(object host.Object) map[string]any {
	if provider, ok := object.(interface{ Props() map[string]any }); ok {
		return provider.Props()
	}
	return nil
}

func objectText(object host.Object) string {
	if provider, ok := object.(interface{ Text() string }); ok {
		return provider.Text()
	}
	return ""
}

func objectChildren(object host.Object) []host.Object {
	if provider, ok := object.(interface{ Children() []host.Object }); ok {
		return provider.Children()
	}
	return nil
}
