// Package prompts loads judge and review prompt templates. Defaults are
// embedded; a prompts directory can override any template by filename.
package prompts

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

//go:embed templates/*.txt
var templatesFS embed.FS

// Loader resolves templates from an optional override directory, falling
// back to the embedded defaults.
type Loader struct {
	Dir string
}

// Load returns the named template, e.g. "hard_judge.txt".
func (l *Loader) Load(name string) (string, error) {
	if l.Dir != "" {
		data, err := os.ReadFile(filepath.Join(l.Dir, name))
		if err == nil {
			return string(data), nil
		}
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("read prompt %s: %w", name, err)
		}
	}
	data, err := templatesFS.ReadFile("templates/" + name)
	if err != nil {
		return "", fmt.Errorf("unknown prompt template %s: %w", name, err)
	}
	return string(data), nil
}

// Render substitutes {placeholder} fields in a template.
func Render(template string, fields map[string]string) string {
	pairs := make([]string, 0, len(fields)*2)
	for k, v := range fields {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
