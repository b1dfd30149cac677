package render

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pixelvide/postcli/pkg/contacts"
)

// LinksFile is the link bundle looked up next to the contacts file
const LinksFile = "links.json"

// Links is the static bundle merged into every template context
type Links struct {
	X          string `json:"x"`
	LinkedIn   string `json:"linkedin"`
	GitHub     string `json:"github"`
	Portfolio  string `json:"portfolio"`
	Resume     string `json:"resume"`
	SenderName string `json:"sender_name"`
}

// LoadLinks reads links.json from the first directory that has one.
// An unparsable file yields empty links.
func LoadLinks(dirs ...string) Links {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, LinksFile))
		if err != nil {
			continue
		}

		var raw map[string]any
		if err := json.Unmarshal(data, &raw); err != nil {
			return Links{}
		}

		str := func(key string) string {
			v, ok := raw[key]
			if !ok || v == nil {
				return ""
			}
			if s, ok := v.(string); ok {
				return s
			}
			return fmt.Sprint(v)
		}

		return Links{
			X:          str("x"),
			LinkedIn:   str("linkedin"),
			GitHub:     str("github"),
			Portfolio:  str("portfolio"),
			Resume:     str("resume"),
			SenderName: str("sender_name"),
		}
	}

	return Links{}
}

// Bindings builds the template context. Contact fields win over link keys.
func Bindings(links Links, contact contacts.Contact) map[string]any {
	return map[string]any{
		"x":           links.X,
		"linkedin":    links.LinkedIn,
		"github":      links.GitHub,
		"portfolio":   links.Portfolio,
		"resume":      links.Resume,
		"sender_name": links.SenderName,
		"name":        contact.Name,
		"company":     contact.Company,
		"email":       contact.Email,
	}
}

// CheckLinks reports whether dir has a links.json and whether it parses as a JSON object
func CheckLinks(dir string) (path string, found bool, err error) {
	path = filepath.Join(dir, LinksFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return path, false, nil
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return path, true, err
	}
	return path, true, nil
}

// SampleBindings is the context used to dry-render a template during validation
func SampleBindings() map[string]any {
	return Bindings(Links{SenderName: "Test"}, contacts.Contact{
		Name:    "Test",
		Company: "Test Co",
		Email:   "test@example.com",
	})
}
