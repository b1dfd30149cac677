package campaign

import (
	"path/filepath"
	"strings"

	"github.com/pixelvide/postcli/pkg/sendlog"
)

// DefaultRole is stored in the log when a run is not tied to a role preset
const DefaultRole = "custom"

// RunConfig is everything a single run needs. It is built once by the caller; the engine
// never consults the environment.
type RunConfig struct {
	TemplatePath  string
	ContactsPath  string
	Subject       string
	FromName      string
	Limit         int // 0 means unlimited
	SkipContacted bool
	Mutate        bool
	DryRun        bool
	Resume        bool
	LogFile       string // defaults to sent_log.csv next to the contacts file
	Role          string // free-form label, defaults to DefaultRole
}

// LogPath resolves where the send log lives for this run
func (c RunConfig) LogPath() string {
	if c.LogFile != "" {
		if abs, err := filepath.Abs(c.LogFile); err == nil {
			return abs
		}
		return c.LogFile
	}

	contactsPath := c.ContactsPath
	if abs, err := filepath.Abs(contactsPath); err == nil {
		contactsPath = abs
	}
	return filepath.Join(filepath.Dir(contactsPath), sendlog.DefaultFile)
}

// CampaignKey derives the resume key for this run
func (c RunConfig) CampaignKey() string {
	return sendlog.CampaignKey(c.ContactsPath, c.TemplatePath, c.Subject)
}

func (c RunConfig) role() string {
	if r := strings.TrimSpace(c.Role); r != "" {
		return r
	}
	return DefaultRole
}
