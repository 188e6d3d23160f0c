package cmd

import (
	"fmt"
	"os"
	"path/filepath"
)

func init() {
	RegisterCommand(initCmd)
}

var initCmd = &Command{
	Name:  "init",
	Short: "Scaffold fern.yaml and a starter template",
	Long: `Init creates a fern.yaml configuration and a starter template under
ui/. Existing files are left untouched.`,
	Usage: "fern init [name]",
	Run:   runInit,
}

func runInit(args []string) error {
	root := projectDir
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		root = cwd
	}

	name := filepath.Base(root)
	if len(args) > 0 && args[0] != "" {
		name = args[0]
	}

	configBody := fmt.Sprintf(`app:
  name: %s
template:
  entry: ui/main.yaml
render:
  width: 640
  height: 480
`, name)

	templateBody := fmt.Sprintf(`# Starter template. Placeholders come from --data flags:
#   fern render --data user=Ada
tag: column
props:
  gap: 8
children:
  - text: "%s"
  - text: "Hello, {user}!"
`, name)

	created := 0
	for _, file := range []struct {
		path string
		body string
	}{
		{filepath.Join(root, "fern.yaml"), configBody},
		{filepath.Join(root, "ui", "main.yaml"), templateBody},
	} {
		if _, err := os.Stat(file.path); err == nil {
			fmt.Printf("skipping %s (already exists)\n", file.path)
			continue
		}
		if err := os.MkdirAll(filepath.Dir(file.path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(file.path, []byte(file.body), 0o644); err != nil {
			return err
		}
		fmt.Printf("created %s\n", file.path)
		created++
	}

	if created > 0 {
		fmt.Println("\nNext:")
		fmt.Println("  fern render --data user=you")
	}
	return nil
}
