// Package template builds node trees from YAML documents. A template is
// parsed once and instantiated many times with different data; string values
// may reference data entries with {name} placeholders.
//
// A template document mirrors the node tree:
//
//	tag: column
//	props:
//	  gap: 4
//	children:
//	  - text: "Hello, {name}"
//	  - tag: button
//	    props:
//	      label: "{action}"
//
// A child may name a registered component instead of a primitive tag:
//
//	component: counter
//	props:
//	  label: Clicks
package template

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/go-fern/fern/pkg/core"
	"github.com/go-fern/fern/pkg/errors"
)

// nodeSpec is the YAML shape of one tree node.
type nodeSpec struct {
	Tag       string         `yaml:"tag"`
	Component string         `yaml:"component"`
	Text      *string        `yaml:"text"`
	Props     map[string]any `yaml:"props"`
	Children  []nodeSpec     `yaml:"children"`
}

// Template is a parsed document ready for instantiation.
type Template struct {
	root       nodeSpec
	components map[string]core.Component
}

// Parse parses a YAML template document.
func Parse(data []byte) (*Template, error) {
	var root nodeSpec
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &errors.FernError{
			Op:   "template.Parse",
			Kind: errors.KindTemplate,
			Err:  err,
		}
	}
	t := &Template{root: root, components: make(map[string]core.Component)}
	if err := t.validate(root, "$"); err != nil {
		return nil, err
	}
	return t, nil
}

// ParseFile parses the template document at path.
func ParseFile(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &errors.FernError{
			Op:   "template.ParseFile",
			Kind: errors.KindTemplate,
			Err:  err,
		}
	}
	return Parse(data)
}

// RegisterComponent binds a name usable in component: references.
func (t *Template) RegisterComponent(name string, component core.Component) {
	t.components[name] = component
}

// validate checks structural rules parse cannot express: every node is
// exactly one of tag, component, or text.
func (t *Template) validate(spec nodeSpec, path string) error {
	kinds := 0
	if spec.Tag != "" {
		kinds++
	}
	if spec.Component != "" {
		kinds++
	}
	if spec.Text != nil {
		kinds++
	}
	if kinds != 1 {
		return &errors.FernError{
			Op:   "template.Parse",
			Kind: errors.KindTemplate,
			Err:  fmt.Errorf("node %s: need exactly one of tag, component, or text", path),
		}
	}
	if spec.Text != nil && (len(spec.Children) > 0 || len(spec.Props) > 0) {
		return &errors.FernError{
			Op:   "template.Parse",
			Kind: errors.KindTemplate,
			Err:  fmt.Errorf("node %s: text nodes take no props or children", path),
		}
	}
	for i, child := range spec.Children {
		if err := t.validate(child, fmt.Sprintf("%s.children[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}

// Instantiate builds a node tree, substituting {name} placeholders from data.
func (t *Template) Instantiate(data map[string]any) (*core.Node, error) {
	return t.build(t.root, data)
}

func (t *Template) build(spec nodeSpec, data map[string]any) (*core.Node, error) {
	if spec.Text != nil {
		content, err := interpolate(*spec.Text, data)
		if err != nil {
			return nil, err
		}
		text, ok := content.(string)
		if !ok {
			text = fmt.Sprintf("%v", content)
		}
		return core.Text(text), nil
	}

	props := make(core.Props, len(spec.Props))
	for name, value := range spec.Props {
		if s, ok := value.(string); ok {
			resolved, err := interpolate(s, data)
			if err != nil {
				return nil, err
			}
			props[name] = resolved
			continue
		}
		props[name] = value
	}

	children := make([]*core.Node, 0, len(spec.Children))
	for _, childSpec := range spec.Children {
		child, err := t.build(childSpec, data)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}

	if spec.Tag != "" {
		return core.Host(spec.Tag, props, children...), nil
	}

	component, ok := t.components[spec.Component]
	if !ok {
		return nil, &errors.FernError{
			Op:   "template.Instantiate",
			Kind: errors.KindTemplate,
			Err:  fmt.Errorf("component %q is not registered", spec.Component),
		}
	}
	return core.New(component, props, children...), nil
}

// interpolate substitutes {name} placeholders. A string consisting of a
// single placeholder resolves to the raw data value, so non-string values
// survive the round trip. "{{" and "}}" escape literal braces.
func interpolate(s string, data map[string]any) (any, error) {
	if !strings.ContainsAny(s, "{}") {
		return s, nil
	}

	// Whole-string placeholder keeps the value's type.
	if strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}") &&
		!strings.HasPrefix(s, "{{") &&
		strings.Count(s, "{") == 1 && strings.Count(s, "}") == 1 {
		return lookup(s[1:len(s)-1], data)
	}

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			if i+1 < len(s) && s[i+1] == '{' {
				b.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(s[i:], '}')
			if end < 0 {
				return nil, &errors.FernError{
					Op:   "template.Instantiate",
					Kind: errors.KindTemplate,
					Err:  fmt.Errorf("unterminated placeholder in %q", s),
				}
			}
			value, err := lookup(s[i+1:i+end], data)
			if err != nil {
				return nil, err
			}
			fmt.Fprintf(&b, "%v", value)
			i += end
		case '}':
			if i+1 < len(s) && s[i+1] == '}' {
				b.WriteByte('}')
				i++
				continue
			}
			b.WriteByte('}')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String(), nil
}

// lookup resolves a placeholder name against data. Dotted names descend into
// nested maps: "user.name" reads data["user"]["name"].
func lookup(name string, data map[string]any) (any, error) {
	name = strings.TrimSpace(name)
	segments := strings.Split(name, ".")

	var current any = data
	for _, segment := range segments {
		scope, ok := current.(map[string]any)
		if !ok {
			return nil, &errors.FernError{
				Op:   "template.Instantiate",
				Kind: errors.KindTemplate,
				Err:  fmt.Errorf("placeholder %q does not resolve to a value", name),
			}
		}
		value, ok := scope[segment]
		if !ok {
			return nil, &errors.FernError{
				Op:   "template.Instantiate",
				Kind: errors.KindTemplate,
				Err:  fmt.Errorf("placeholder %q has no data entry", name),
			}
		}
		current = value
	}
	return current, nil
}
