package contacts

import (
	"slices"
	"strings"
)

var (
	emailAliases   = []string{"email", "e-mail", "mail", "emailaddress", "email_address", "workemail", "work_email"}
	nameAliases    = []string{"name", "fullname", "full_name", "contactname", "contact_name", "recipient", "firstname", "first_name"}
	companyAliases = []string{"company", "companyname", "company_name", "organization", "org"}
)

// normalizeHeader lower-cases a header and drops spaces, underscores and hyphens
func normalizeHeader(header string) string {
	replacer := strings.NewReplacer(" ", "", "_", "", "-", "")
	return strings.TrimSpace(replacer.Replace(strings.ToLower(header)))
}

func matches(aliases []string, normalized string) bool {
	return slices.ContainsFunc(aliases, func(alias string) bool {
		return normalizeHeader(alias) == normalized
	})
}

// columnMap holds the column index of each known field, -1 when absent
type columnMap struct {
	email   int
	name    int
	company int
}

// detectColumns maps headers to fields. The first matching header wins per field.
func detectColumns(headers []string) (columnMap, bool) {
	cols := columnMap{email: -1, name: -1, company: -1}

	for i, header := range headers {
		normalized := normalizeHeader(header)
		switch {
		case cols.email < 0 && matches(emailAliases, normalized):
			cols.email = i
		case cols.name < 0 && matches(nameAliases, normalized):
			cols.name = i
		case cols.company < 0 && matches(companyAliases, normalized):
			cols.company = i
		}
	}

	return cols, cols.email >= 0
}

// rawRow is a CSV record before column mapping
type rawRow []string

func (r rawRow) cell(index int) string {
	if index < 0 || index >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[index])
}

// contact maps a raw record to a Contact. The email may be empty; callers validate it.
func (c columnMap) contact(row rawRow) Contact {
	return Contact{
		Name:    row.cell(c.name),
		Company: row.cell(c.company),
		Email:   row.cell(c.email),
	}
}
