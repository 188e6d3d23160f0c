package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-fern/fern/cmd/fern/internal/config"
	"github.com/go-fern/fern/pkg/core"
	"github.com/go-fern/fern/pkg/host"
	"github.com/go-fern/fern/pkg/markup"
	"github.com/go-fern/fern/pkg/raster"
	"github.com/go-fern/fern/pkg/template"
)

func init() {
	RegisterCommand(renderCmd)
}

var renderCmd = &Command{
	Name:  "render",
	Short: "Render a template as markup or a PNG image",
	Long: `Render instantiates a YAML template, mounts the resulting tree on an
in-memory host surface, and prints it as markup. With --png the committed
tree is painted to an image instead.

Template placeholders are filled from --data flags:

  fern render ui/main.yaml --data name=Ada --data count=3`,
	Usage: "fern render [template.yaml] [--data key=value ...] [--png FILE] [--width N] [--height N]",
	Run:   runRender,
}

func runRender(args []string) error {
	templatePath := ""
	pngPath := ""
	width, height := 0, 0
	data := map[string]any{}

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--data":
			if i+1 >= len(args) {
				return fmt.Errorf("--data requires key=value")
			}
			i++
			if err := addData(data, args[i]); err != nil {
				return err
			}
		case strings.HasPrefix(arg, "--data="):
			if err := addData(data, strings.TrimPrefix(arg, "--data=")); err != nil {
				return err
			}
		case arg == "--png":
			if i+1 >= len(args) {
				return fmt.Errorf("--png requires a file path")
			}
			i++
			pngPath = args[i]
		case strings.HasPrefix(arg, "--png="):
			pngPath = strings.TrimPrefix(arg, "--png=")
		case arg == "--width":
			if i+1 >= len(args) {
				return fmt.Errorf("--width requires a number")
			}
			i++
			width, _ = strconv.Atoi(args[i])
		case arg == "--height":
			if i+1 >= len(args) {
				return fmt.Errorf("--height requires a number")
			}
			i++
			height, _ = strconv.Atoi(args[i])
		case strings.HasPrefix(arg, "--"):
			return fmt.Errorf("unknown flag %q", arg)
		default:
			if templatePath != "" {
				return fmt.Errorf("only one template path allowed")
			}
			templatePath = arg
		}
	}

	// Fall back to the configured entry template.
	if templatePath == "" || width == 0 || height == 0 {
		resolved, err := resolveProject()
		if err != nil && templatePath == "" {
			return err
		}
		if resolved != nil {
			if templatePath == "" {
				templatePath = filepath.Join(resolved.Root, resolved.Entry)
			}
			if width == 0 {
				width = resolved.Width
			}
			if height == 0 {
				height = resolved.Height
			}
		}
	}
	if width == 0 {
		width = 640
	}
	if height == 0 {
		height = 480
	}

	tpl, err := template.ParseFile(templatePath)
	if err != nil {
		return err
	}
	node, err := tpl.Instantiate(data)
	if err != nil {
		return err
	}

	owner := core.NewOwner(nil)
	instance := core.MountRoot(node, owner)
	if instance == nil {
		return fmt.Errorf("template %s did not produce a mountable tree", templatePath)
	}
	owner.FlushBuild()
	owner.Pipeline().FlushCommits()

	hostRoot, err := rootObject(instance)
	if err != nil {
		return err
	}

	if pngPath == "" {
		fmt.Print(markup.Render(hostRoot))
		return nil
	}

	memory, ok := hostRoot.(*host.Memory)
	if !ok {
		return fmt.Errorf("host tree is %T, cannot paint", hostRoot)
	}
	painter := raster.NewPainter(width, height)
	file, err := os.Create(pngPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", pngPath, err)
	}
	defer file.Close()
	if err := raster.EncodePNG(file, painter.Paint(memory)); err != nil {
		return fmt.Errorf("failed to encode %s: %w", pngPath, err)
	}
	fmt.Printf("wrote %s (%dx%d)\n", pngPath, width, height)
	return nil
}

// resolveProject resolves fern.yaml from --project or the enclosing module.
func resolveProject() (*config.Resolved, error) {
	root := projectDir
	if root == "" {
		found, err := config.FindProjectRoot()
		if err != nil {
			return nil, err
		}
		root = found
	}
	return config.Resolve(root)
}

// addData parses a key=value pair, guessing bool and int values.
func addData(data map[string]any, pair string) error {
	key, value, ok := strings.Cut(pair, "=")
	if !ok || key == "" {
		return fmt.Errorf("--data %q is not of the form key=value", pair)
	}
	switch {
	case value == "true" || value == "false":
		data[key] = value == "true"
	default:
		if n, err := strconv.Atoi(value); err == nil {
			data[key] = n
		} else {
			data[key] = value
		}
	}
	return nil
}

// rootObject extracts the committed host object from the root instance.
func rootObject(instance core.Instance) (host.Object, error) {
	provider, ok := instance.(interface{ HostObject() host.Object })
	if !ok || provider.HostObject() == nil {
		return nil, fmt.Errorf("tree has no host objects")
	}
	return provider.HostObject(), nil
}
