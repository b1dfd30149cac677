// Package importer converts JSON exports into contacts.
//
// Two shapes are understood: the YC founders format (company, founders[].name,
// companyEmails[]) and flat {name, company, email} objects. The top level may be an
// array or a single object.
package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pixelvide/postcli/pkg/contacts"
)

// ErrNoRecords is returned when no object in the input has an email
var ErrNoRecords = errors.New("no records with email found in JSON")

// Convert parses data and returns one contact per object with an email
func Convert(data []byte) ([]contacts.Contact, error) {
	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	items, ok := parsed.([]any)
	if !ok {
		items = []any{parsed}
	}

	out := make([]contacts.Contact, 0, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if c, ok := toContact(obj); ok {
			out = append(out, c)
		}
	}

	if len(out) == 0 {
		return nil, ErrNoRecords
	}
	return out, nil
}

// File converts the JSON file at src and writes the contacts to dst. It returns the
// number of contacts written.
func File(src, dst string) (int, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return 0, err
	}

	rows, err := Convert(data)
	if err != nil {
		return 0, err
	}

	if err := contacts.Write(dst, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

func toContact(obj map[string]any) (contacts.Contact, bool) {
	var email string
	if emails, ok := obj["companyEmails"].([]any); ok && len(emails) > 0 {
		email = text(emails[0])
	} else {
		email = text(obj["email"])
	}
	if email == "" {
		return contacts.Contact{}, false
	}

	name := text(obj["name"])
	if name == "" {
		if founders, ok := obj["founders"].([]any); ok && len(founders) > 0 {
			if first, ok := founders[0].(map[string]any); ok {
				name = text(first["name"])
			}
		}
	}

	return contacts.Contact{
		Name:    name,
		Company: firstText(obj, "company", "company_name", "organization"),
		Email:   email,
	}, true
}

// firstText returns the first present, non-null key; an empty string still counts as present
func firstText(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := obj[k]; ok && v != nil {
			return text(v)
		}
	}
	return ""
}

func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}
