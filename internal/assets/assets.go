package assets

import (
	"embed"
	"fmt"
	"io/fs"
)

// Dart source templates (embedded)

//go:embed embedded_templates
var Templates embed.FS

func GetTemplatesFS() fs.FS {
	if sub, err := fs.Sub(Templates, "embedded_templates"); err == nil {
		return sub
	}
	return Templates
}

// GetTemplate returns the template source registered under family/name.
func GetTemplate(family, name string) (string, error) {
	info, ok := Lookup(family, name)
	if !ok {
		return "", fmt.Errorf("unknown %s template %q: %w", family, name, fs.ErrNotExist)
	}
	data, err := fs.ReadFile(GetTemplatesFS(), info.Path)
	if err != nil {
		return "", fmt.Errorf("read template %s: %w", info.Path, err)
	}
	return string(data), nil
}
