// Package model generates Dart data classes from JSON samples with quicktype.
package model

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fulmenhq/flutterkit/pkg/logger"
	"github.com/fulmenhq/flutterkit/pkg/naming"
	"github.com/fulmenhq/flutterkit/pkg/scaffold"
	"github.com/fulmenhq/flutterkit/pkg/tools"
)

var (
	// ErrInvalidSample is returned when the input is not a JSON object or array.
	ErrInvalidSample = errors.New("invalid JSON sample")
	// ErrUnknownStyle is returned for a style outside Styles().
	ErrUnknownStyle = errors.New("unknown model style")
)

// Style selects the shape of the generated class.
type Style string

const (
	StyleFreezed          Style = "freezed"
	StyleJSONSerializable Style = "json-serializable"
	StylePlain            Style = "plain"
)

var styleFlags = map[Style][]string{
	StyleFreezed:          {"--coders-in-class", "--use-freezed", "--null-safety", "--use-json-annotation"},
	StyleJSONSerializable: {"--coders-in-class", "--null-safety", "--use-json-annotation", "--copy-with"},
	StylePlain:            {"--coders-in-class", "--null-safety", "--copy-with", "--final-props"},
}

// Styles lists the supported styles.
func Styles() []string {
	return []string{string(StyleFreezed), string(StyleJSONSerializable), string(StylePlain)}
}

// ParseStyle validates s.
func ParseStyle(s string) (Style, error) {
	st := Style(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := styleFlags[st]; !ok {
		return "", fmt.Errorf("%w %q (want one of %s)", ErrUnknownStyle, s, strings.Join(Styles(), ", "))
	}
	return st, nil
}

// Generator drives quicktype through a tool executor.
type Generator struct {
	exec    tools.ToolExecutor
	binary  string
	timeout time.Duration
}

// NewGenerator creates a Generator invoking binary (usually "quicktype").
func NewGenerator(exec tools.ToolExecutor, binary string, timeout time.Duration) *Generator {
	if binary == "" {
		binary = "quicktype"
	}
	return &Generator{exec: exec, binary: binary, timeout: timeout}
}

// Args returns the quicktype arguments for a top-level type name and style.
func Args(name string, style Style) []string {
	args := []string{"--lang", "dart", "--src-lang", "json", "--top-level", name}
	return append(args, styleFlags[style]...)
}

// Generate renders a Dart class named name from a JSON sample.
func (g *Generator) Generate(ctx context.Context, name string, style Style, sample []byte) (*scaffold.File, error) {
	if !naming.ValidClassName(name) {
		return nil, fmt.Errorf("%w: class name %q must start with an uppercase letter and contain only letters and numbers", scaffold.ErrInvalidName, name)
	}
	if _, ok := styleFlags[style]; !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownStyle, style)
	}
	if err := ValidateSample(sample); err != nil {
		return nil, err
	}

	opts := tools.ExecuteOptions{
		Tool:  g.binary,
		Args:  Args(name, style),
		Stdin: bytes.NewReader(sample),
	}
	logger.Debug("generating model", logger.String("name", name), logger.String("style", string(style)))

	res, err := tools.Run(ctx, g.exec, opts, g.timeout)
	if err != nil {
		return nil, fmt.Errorf("quicktype failed: %w", err)
	}

	out := strings.TrimLeft(string(res.Stdout), "\n")
	if strings.TrimSpace(out) == "" && g.exec.Name() != "dry-run" {
		return nil, errors.New("quicktype produced no output")
	}
	if out != "" && !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return &scaffold.File{Name: naming.PascalToSnake(name), Content: out}, nil
}

// ValidateSample checks that sample is a JSON object or array.
func ValidateSample(sample []byte) error {
	trimmed := bytes.TrimSpace(sample)
	if len(trimmed) == 0 {
		return fmt.Errorf("%w: input is empty", ErrInvalidSample)
	}
	if !json.Valid(trimmed) {
		return fmt.Errorf("%w: input is not valid JSON", ErrInvalidSample)
	}
	if trimmed[0] != '{' && trimmed[0] != '[' {
		return fmt.Errorf("%w: top-level value must be an object or array", ErrInvalidSample)
	}
	return nil
}
