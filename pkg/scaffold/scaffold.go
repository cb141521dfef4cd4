// Package scaffold renders Dart source files for pages, classes and
// providers from the embedded templates.
package scaffold

import (
	"errors"
	"fmt"
	"sort"

	"github.com/aymerick/raymond"

	embedded "github.com/fulmenhq/flutterkit/internal/assets"
	"github.com/fulmenhq/flutterkit/pkg/naming"
)

var (
	// ErrInvalidName is returned when a type name does not follow Dart conventions.
	ErrInvalidName = errors.New("invalid name")
	// ErrUnknownKind is returned for an unrecognized template or class kind.
	ErrUnknownKind = errors.New("unknown kind")
)

// File is a rendered source file not yet written.
type File struct {
	// Name is the snake_case base name without extension.
	Name    string
	Content string
}

// FileName returns Name with the .dart extension.
func (f File) FileName() string {
	return f.Name + ".dart"
}

// classKeywords maps class kinds to their Dart declaration keywords.
var classKeywords = map[string]string{
	"class":              "class",
	"sealed":             "sealed class",
	"abstract":           "abstract class",
	"interface":          "interface class",
	"abstract-interface": "abstract interface class",
}

// PageTemplates returns the available page template names.
func PageTemplates() []string {
	return embedded.Names(embedded.FamilyPage)
}

// ProviderKinds returns the available provider kinds.
func ProviderKinds() []string {
	return embedded.Names(embedded.FamilyProvider)
}

// ClassKinds returns the available class kinds, sorted.
func ClassKinds() []string {
	kinds := make([]string, 0, len(classKeywords))
	for k := range classKeywords {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Page renders a widget page named name using the given template.
func Page(name, template string) (*File, error) {
	if !naming.ValidPageName(name) {
		return nil, fmt.Errorf("%w: page name %q must start with an uppercase letter and contain only letters", ErrInvalidName, name)
	}
	fileName := naming.PascalToSnake(name)
	return render(embedded.FamilyPage, template, fileName, map[string]string{
		"pageName":    name,
		"title":       naming.CamelToTitle(name),
		"fileName":    fileName,
		"description": name + " page",
	})
}

// Class renders an empty Dart type declaration of the given kind.
func Class(name, kind string) (*File, error) {
	if !naming.ValidClassName(name) {
		return nil, fmt.Errorf("%w: class name %q must start with an uppercase letter", ErrInvalidName, name)
	}
	keyword, ok := classKeywords[kind]
	if !ok {
		return nil, fmt.Errorf("%w: class kind %q", ErrUnknownKind, kind)
	}
	return render(embedded.FamilyClass, "class", naming.PascalToSnake(name), map[string]string{
		"className": name,
		"keyword":   keyword,
	})
}

// Provider renders a riverpod provider, either a function or a class.
func Provider(name, kind string) (*File, error) {
	if !naming.ValidClassName(name) {
		return nil, fmt.Errorf("%w: provider name %q must start with an uppercase letter", ErrInvalidName, name)
	}
	fileName := naming.PascalToSnake(name)
	return render(embedded.FamilyProvider, kind, fileName, map[string]string{
		"providerName": name,
		"functionName": naming.PascalToCamel(name),
		"fileName":     fileName,
	})
}

func render(family, template, fileName string, ctx map[string]string) (*File, error) {
	if _, ok := embedded.Lookup(family, template); !ok {
		return nil, fmt.Errorf("%w: %s template %q", ErrUnknownKind, family, template)
	}
	source, err := embedded.GetTemplate(family, template)
	if err != nil {
		return nil, err
	}
	content, err := raymond.Render(source, ctx)
	if err != nil {
		return nil, fmt.Errorf("render %s/%s: %w", family, template, err)
	}
	return &File{Name: fileName, Content: content}, nil
}
