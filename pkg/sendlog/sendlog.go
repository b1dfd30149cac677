// Package sendlog implements the append-only CSV ledger of send outcomes.
//
// The ledger is the union of every run of every campaign; readers filter by campaign key.
// Rows are never rewritten or truncated.
package sendlog

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultFile is the ledger name used next to the contacts file
const DefaultFile = "sent_log.csv"

// NewRunID returns a millisecond timestamp with a short random suffix.
// It is advisory and not guaranteed to be unique.
func NewRunID() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
}

// CampaignKey identifies a campaign across runs: absolute contacts path, absolute template
// path and the trimmed, lower-cased subject.
func CampaignKey(contactsPath, templatePath, subject string) string {
	return strings.Join([]string{
		absolute(contactsPath),
		absolute(templatePath),
		strings.ToLower(strings.TrimSpace(subject)),
	}, "::")
}

func absolute(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

// Append writes one row, creating the file (with header) and its parent directories if needed
func Append(path string, row Row) error {
	resolved := absolute(path)
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if needsHeader(resolved) {
		if err := w.Write(Columns); err != nil {
			return err
		}
	}
	if err := w.Write(row.Record()); err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	f, err := os.OpenFile(resolved, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// needsHeader reports whether path is missing or empty. A zero-byte file left by a crashed
// create still needs its header, or the first row would be read back as one.
func needsHeader(path string) bool {
	info, err := os.Stat(path)
	return err != nil || info.Size() == 0
}

// SentEmails returns every email with at least one "sent" row for campaignKey.
// Later rows for the same email do not revoke it. A missing or unparsable log yields an empty set.
func SentEmails(path, campaignKey string) map[string]struct{} {
	sent := make(map[string]struct{})

	data, err := os.ReadFile(absolute(path))
	if err != nil {
		return sent
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return sent
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	cell := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	found := make(map[string]struct{})
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return sent
		}

		email := cell(record, "email")
		if cell(record, "status") == string(StatusSent) && cell(record, "campaign_key") == campaignKey && email != "" {
			found[email] = struct{}{}
		}
	}

	return found
}
