package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelvide/postcli/pkg/contacts"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []contacts.Contact
	}{
		{
			name:  "flat object",
			input: `{"name":" Ada ","company":"Acme","email":" ada@acme.io "}`,
			want:  []contacts.Contact{{Name: "Ada", Company: "Acme", Email: "ada@acme.io"}},
		},
		{
			name: "yc founders format",
			input: `[{
				"company": "Rocket",
				"founders": [{"name": "Grace"}, {"name": "Linus"}],
				"companyEmails": ["hi@rocket.dev", "ops@rocket.dev"],
				"email": "ignored@rocket.dev"
			}]`,
			want: []contacts.Contact{{Name: "Grace", Company: "Rocket", Email: "hi@rocket.dev"}},
		},
		{
			name:  "company fallbacks",
			input: `[{"email":"a@x.com","company_name":"A Co"},{"email":"b@x.com","organization":"B Org"}]`,
			want: []contacts.Contact{
				{Company: "A Co", Email: "a@x.com"},
				{Company: "B Org", Email: "b@x.com"},
			},
		},
		{
			name:  "records without email are skipped",
			input: `[{"name":"No Email"},{"email":""},"junk",42,{"email":"ok@x.com","companyEmails":[]}]`,
			want:  []contacts.Contact{{Email: "ok@x.com"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convert([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConvert_Errors(t *testing.T) {
	_, err := Convert([]byte(`[{"name":"x"}]`))
	assert.ErrorIs(t, err, ErrNoRecords)

	_, err = Convert([]byte(`[]`))
	assert.ErrorIs(t, err, ErrNoRecords)

	_, err = Convert([]byte(`{not json`))
	assert.ErrorContains(t, err, "invalid JSON")
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.json")
	dst := filepath.Join(dir, "out", "contacts.csv")
	require.NoError(t, os.WriteFile(src, []byte(`[{"name":"Ada","company":"Acme, Inc","email":"ada@acme.io"}]`), 0o644))

	n, err := File(src, dst)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "name,company,email\nAda,\"Acme, Inc\",ada@acme.io\n", string(data))

	_, err = File(filepath.Join(dir, "missing.json"), dst)
	assert.Error(t, err)
}
