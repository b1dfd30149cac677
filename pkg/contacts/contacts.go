// Package contacts reads and writes the contact list and the "contacted" exclusion list.
package contacts

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ContactedFile is the exclusion list kept next to the contacts file
const ContactedFile = "contacted.csv"

var fixedColumns = []string{"name", "company", "email"}

// Contact is one recipient. Email identifies the contact within a list.
type Contact struct {
	Name    string `json:"name"`
	Company string `json:"company"`
	Email   string `json:"email"`
}

// ContactedPath returns the exclusion list path for a contacts file
func ContactedPath(contactsPath string) string {
	abs, err := filepath.Abs(contactsPath)
	if err != nil {
		abs = contactsPath
	}
	return filepath.Join(filepath.Dir(abs), ContactedFile)
}

// Load parses a contacts file. Column names are detected fuzzily; only the email column is required.
func Load(path string) ([]Contact, error) {
	resolved, err := filepath.Abs(path)
	if err != nil {
		resolved = path
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, resolved)
		}
		return nil, err
	}

	records, lines, err := readRecords(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(records) == 0 {
		return nil, ErrNoHeaders
	}

	headers := records[0]
	cols, ok := detectColumns(headers)
	if !ok {
		return nil, fmt.Errorf("%w. Expected one of: %s. Found headers: %q",
			ErrMissingEmailColumn, strings.Join(emailAliases, ", "), headers)
	}

	contacts := make([]Contact, 0, len(records)-1)
	for i, record := range records[1:] {
		contact := cols.contact(rawRow(record))
		if contact.Email == "" {
			return nil, &RowError{Row: lines[i+1]}
		}
		contacts = append(contacts, contact)
	}

	return contacts, nil
}

// LoadExclusionSet returns the emails listed in the contacted file next to contactsPath.
// A missing or unreadable file yields an empty set.
func LoadExclusionSet(contactsPath string) map[string]struct{} {
	emails := make(map[string]struct{})

	data, err := os.ReadFile(ContactedPath(contactsPath))
	if err != nil {
		return emails
	}

	records, _, err := readRecords(data)
	if err != nil || len(records) == 0 {
		return emails
	}

	emailCol := -1
	for i, header := range records[0] {
		if strings.TrimSpace(header) == "email" {
			emailCol = i
			break
		}
	}
	if emailCol < 0 {
		return emails
	}

	for _, record := range records[1:] {
		if email := rawRow(record).cell(emailCol); email != "" {
			emails[email] = struct{}{}
		}
	}

	return emails
}

// Write overwrites path with the contacts in fixed column order, creating parent directories
func Write(path string, contacts []Contact) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	body, err := encode(contacts, true)
	if err != nil {
		return err
	}

	return os.WriteFile(path, body, 0o644)
}

// AppendExclusion appends contacts to an exclusion file. The header is written only when
// the file is missing or empty.
func AppendExclusion(path string, contacts []Contact) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	info, statErr := os.Stat(path)
	header := statErr != nil || info.Size() == 0

	body, err := encode(contacts, header)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(body); err != nil {
		return err
	}
	return f.Close()
}

func encode(contacts []Contact, header bool) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if header {
		if err := w.Write(fixedColumns); err != nil {
			return nil, err
		}
	}
	for _, c := range contacts {
		if err := w.Write([]string{c.Name, c.Company, c.Email}); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

// readRecords parses CSV content, tolerating ragged rows and a leading BOM.
// lines[i] is the file line on which records[i] starts; blank lines are skipped by the reader.
func readRecords(data []byte) (records [][]string, lines []int, err error) {
	data = bytes.TrimPrefix(data, []byte("\ufeff"))

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			return records, lines, nil
		}
		if err != nil {
			return nil, nil, err
		}
		line, _ := r.FieldPos(0)
		records = append(records, record)
		lines = append(lines, line)
	}
}
