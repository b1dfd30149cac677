// Package render compiles plaintext email templates and binds contact data into them.
//
// Templates use the Liquid syntax ({{ name }}, {% if company %}...{% endif %}). Undefined
// variables render as empty strings.
package render

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/osteele/liquid"
)

// Template is a compiled template file, parsed once and rendered per contact
type Template struct {
	path string
	html bool
	tpl  *liquid.Template
}

func newEngine() *liquid.Engine {
	engine := liquid.NewEngine()

	// {{ name | first_name }}
	engine.RegisterFilter("first_name", func(s string) string {
		fields := strings.Fields(s)
		if len(fields) == 0 {
			return ""
		}
		return fields[0]
	})

	// {{ email | email_domain }}
	engine.RegisterFilter("email_domain", func(email string) string {
		parts := strings.Split(email, "@")
		if len(parts) == 2 {
			return parts[1]
		}
		return ""
	})

	return engine
}

// Compile reads and parses the template at path
func Compile(path string) (*Template, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, &TemplateError{Path: path, Err: err}
	}

	tpl, serr := newEngine().ParseTemplateLocation(source, path, 1)
	if serr != nil {
		return nil, &TemplateError{Path: path, Err: serr}
	}

	ext := strings.ToLower(filepath.Ext(path))
	return &Template{
		path: path,
		html: ext == ".html" || ext == ".htm",
		tpl:  tpl,
	}, nil
}

// Validate checks that the template at path compiles
func Validate(path string) error {
	_, err := Compile(path)
	return err
}

// Render compiles the template at path and renders it with bindings
func Render(path string, bindings map[string]any) (string, error) {
	t, err := Compile(path)
	if err != nil {
		return "", err
	}
	return t.Render(bindings)
}

// Name returns the template file name
func (t *Template) Name() string {
	return filepath.Base(t.path)
}

// Render binds the values into the template. HTML templates are reduced to plaintext.
func (t *Template) Render(bindings map[string]any) (string, error) {
	out, serr := t.tpl.RenderString(bindings)
	if serr != nil {
		email, _ := bindings["email"].(string)
		return "", &TemplateError{Path: t.path, Email: email, Err: serr}
	}

	if t.html {
		return PlainText(out), nil
	}
	return out, nil
}
