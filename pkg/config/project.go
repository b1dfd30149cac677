package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// Role selects a template preset
type Role string

const (
	RoleFrontend  Role = "fe"
	RoleBackend   Role = "be"
	RoleFullstack Role = "fullstack"
)

// Roles lists every preset
var Roles = []Role{RoleFrontend, RoleBackend, RoleFullstack}

// RoleTemplateFiles maps a role to its file under templates/
var RoleTemplateFiles = map[Role]string{
	RoleFrontend:  "frontend.txt",
	RoleBackend:   "backend.txt",
	RoleFullstack: "fullstack.txt",
}

// RoleSubjects holds the built-in subject for each role
var RoleSubjects = map[Role]string{
	RoleFrontend:  "Frontend Engineer - React / Next.js",
	RoleBackend:   "Backend Engineer - APIs & Scalable Systems",
	RoleFullstack: "Full Stack Engineer - TypeScript / Node.js",
}

// ParseRole maps aliases onto a Role, defaulting to fullstack
func ParseRole(input string) Role {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "fe", "frontend", "front-end":
		return RoleFrontend
	case "be", "backend", "back-end":
		return RoleBackend
	default:
		return RoleFullstack
	}
}

// Role resolves the role from input, falling back to POSTCLI_ROLE
func (c *Config) Role(input string) Role {
	if strings.TrimSpace(input) == "" {
		input = c.Send.Role
	}
	return ParseRole(input)
}

// ResolvePath makes a relative path absolute against the project root
func (c *Config) ResolvePath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Home, path)
}

// ContactsPath returns the default contacts file
func (c *Config) ContactsPath() string {
	if c.Send.ContactsFile != "" {
		return c.ResolvePath(c.Send.ContactsFile)
	}
	return filepath.Join(c.Home, "contacts.csv")
}

// TemplatePath returns explicit when given, otherwise the role preset template
func (c *Config) TemplatePath(role Role, explicit string) string {
	if explicit != "" {
		return c.ResolvePath(explicit)
	}
	return filepath.Join(c.Home, "templates", RoleTemplateFiles[role])
}

// Subject returns the subject for a role, honouring EMAIL_SUBJECT_* overrides
func (c *Config) Subject(role Role) string {
	var override string
	switch role {
	case RoleFrontend:
		override = c.Send.SubjectFE
	case RoleBackend:
		override = c.Send.SubjectBE
	default:
		override = c.Send.SubjectFS
		if override == "" {
			override = c.Send.SubjectFullstack
		}
	}

	if s := strings.TrimSpace(override); s != "" {
		return s
	}
	return RoleSubjects[role]
}

// LogPath returns the send log path: explicit when given, else sent_log.csv next to contacts
func (c *Config) LogPath(contactsPath, explicit string) string {
	if explicit != "" {
		return c.ResolvePath(explicit)
	}
	return filepath.Join(filepath.Dir(c.ResolvePath(contactsPath)), "sent_log.csv")
}

// Limit parses SEND_LIMIT; unset means 0 (unlimited)
func (c *Config) Limit() (int, error) {
	n, err := ParseLimit(c.Send.Limit)
	if err != nil {
		return 0, fmt.Errorf("SEND_LIMIT: %w", err)
	}
	return n, nil
}

// ParseLimit parses a contact limit. Blank is 0 (unlimited); anything other than a
// non-negative whole number is an error, so a typo never lifts the cap.
func ParseLimit(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid limit %q: expected a whole number, 0 for all", value)
	}
	return n, nil
}
