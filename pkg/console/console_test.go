package console

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelvide/postcli/pkg/campaign"
	"github.com/pixelvide/postcli/pkg/config"
	"github.com/pixelvide/postcli/pkg/contacts"
	"github.com/pixelvide/postcli/pkg/scaffold"
	"github.com/pixelvide/postcli/pkg/sendlog"
)

// project scaffolds a fresh project and points the environment at it
func project(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	_, err := scaffold.Init(home)
	require.NoError(t, err)

	t.Setenv("POSTCLI_HOME", home)
	t.Setenv("MAIL_MAILER", "log")
	t.Setenv("SEND_LOG_MIRROR", "none")
	t.Setenv("SCHEDULE_LOCK", "none")
	t.Setenv("LOG_LEVEL", "error")
	return home
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSendCmd_DryRun(t *testing.T) {
	home := project(t)

	out, err := execute(t, newSendCmd(), "--role", "fe", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "To: jane@example.com | Subject: Frontend Engineer - React / Next.js")
	assert.Contains(t, out, "Hi Jane")

	key := campaignKey(home, "templates/frontend.txt", "Frontend Engineer - React / Next.js")
	assert.Empty(t, sendlog.SentEmails(filepath.Join(home, sendlog.DefaultFile), key))

	// Dry runs never touch the contacts file
	rows, err := contacts.Load(filepath.Join(home, "contacts.csv"))
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestSendCmd_LiveWithLogMailer(t *testing.T) {
	home := project(t)
	t.Setenv("EMAIL_ADDRESS", "me@example.com")

	_, err := execute(t, newSendCmd(), "--template", "templates/backend.txt", "--subject", "Hello", "--mutate")
	require.NoError(t, err)

	key := campaignKey(home, "templates/backend.txt", "Hello")
	sent := sendlog.SentEmails(filepath.Join(home, sendlog.DefaultFile), key)
	assert.Contains(t, sent, "jane@example.com")

	rows, err := contacts.Load(filepath.Join(home, "contacts.csv"))
	require.NoError(t, err)
	assert.Empty(t, rows)

	excluded := contacts.LoadExclusionSet(filepath.Join(home, "contacts.csv"))
	assert.Contains(t, excluded, "jane@example.com")
}

func campaignKey(home, template, subject string) string {
	return sendlog.CampaignKey(filepath.Join(home, "contacts.csv"), filepath.Join(home, template), subject)
}

func TestSendCmd_MissingTemplate(t *testing.T) {
	project(t)

	_, err := execute(t, newSendCmd(), "--template", "nope.txt", "--dry-run")
	require.Error(t, err)
	assert.ErrorIs(t, err, campaign.ErrTemplateNotFound)
	assert.Contains(t, err.Error(), "template not found")
}

func TestSendOptions_RunConfig(t *testing.T) {
	cfg, err := config.LoadFrom(map[string]string{
		"POSTCLI_HOME":     "/srv/project",
		"EMAIL_SUBJECT_BE": "  Custom BE  ",
	})
	require.NoError(t, err)

	_, err = (&sendOptions{limit: "10x"}).runConfig(cfg)
	assert.ErrorContains(t, err, `--limit: invalid limit "10x"`)

	opts := &sendOptions{role: "backend", limit: "0", contacts: "lists/a.csv"}
	rc, err := opts.runConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "/srv/project/templates/backend.txt", rc.TemplatePath)
	assert.Equal(t, "/srv/project/lists/a.csv", rc.ContactsPath)
	assert.Equal(t, "Custom BE", rc.Subject)
	assert.Equal(t, 0, rc.Limit)
	assert.True(t, rc.Resume)
	assert.False(t, rc.Mutate)
	assert.Equal(t, "/srv/project/lists/sent_log.csv", rc.LogFile)
	assert.Equal(t, "be", rc.Role)

	rc, err = (&sendOptions{template: "t.txt", subject: "Hi", noResume: true}).runConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "/srv/project/t.txt", rc.TemplatePath)
	assert.Equal(t, "Hi", rc.Subject)
	assert.False(t, rc.Resume)
	assert.Empty(t, rc.Role)
}

func TestDefaultOptions_RunConfig(t *testing.T) {
	cfg, err := config.LoadFrom(map[string]string{
		"POSTCLI_HOME":  "/srv/project",
		"POSTCLI_ROLE":  "fe",
		"FROM_NAME":     "Ada",
		"SEND_LIMIT":    "5",
		"MUTATE":        "false",
		"SEND_LOG_FILE": "logs/sent.csv",
	})
	require.NoError(t, err)

	rc, err := (&defaultOptions{}).runConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "/srv/project/templates/frontend.txt", rc.TemplatePath)
	assert.Equal(t, config.RoleSubjects[config.RoleFrontend], rc.Subject)
	assert.Equal(t, "Ada", rc.FromName)
	assert.Equal(t, 5, rc.Limit)
	assert.True(t, rc.SkipContacted)
	assert.False(t, rc.Mutate)
	assert.True(t, rc.Resume)
	assert.Equal(t, "/srv/project/logs/sent.csv", rc.LogFile)
	assert.Equal(t, "fe", rc.Role)

	rc, err = (&defaultOptions{limit: "2", noSkipContacted: true, noResume: true, fromName: "Bo"}).runConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, rc.Limit)
	assert.False(t, rc.SkipContacted)
	assert.False(t, rc.Resume)
	assert.Equal(t, "Bo", rc.FromName)

	_, err = (&defaultOptions{limit: "5 contacts"}).runConfig(cfg)
	assert.Error(t, err)

	bad, err := config.LoadFrom(map[string]string{"POSTCLI_HOME": "/srv/project", "SEND_LIMIT": "ten"})
	require.NoError(t, err)
	_, err = (&defaultOptions{}).runConfig(bad)
	assert.ErrorContains(t, err, "SEND_LIMIT")
	rc, err = (&defaultOptions{limit: "3"}).runConfig(bad)
	require.NoError(t, err)
	assert.Equal(t, 3, rc.Limit)
}

func TestSendCmd_RejectsBadLimit(t *testing.T) {
	home := project(t)

	_, err := execute(t, newSendCmd(), "--role", "fe", "--limit", "10x")
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(home, sendlog.DefaultFile))
}

func TestImportCmd(t *testing.T) {
	home := project(t)
	src := filepath.Join(home, "founders.json")
	require.NoError(t, os.WriteFile(src, []byte(`[
		{"company": "Acme", "founders": [{"name": "Wile E"}], "companyEmails": ["wile@acme.test"]},
		{"name": "No Email"}
	]`), 0o644))

	_, err := execute(t, newImportCmd(), "founders.json", "-o", "imported.csv")
	require.NoError(t, err)

	rows, err := contacts.Load(filepath.Join(home, "imported.csv"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, contacts.Contact{Name: "Wile E", Company: "Acme", Email: "wile@acme.test"}, rows[0])

	_, err = execute(t, newImportCmd(), "missing.json")
	assert.Error(t, err)
}

func TestInitCmd(t *testing.T) {
	home := t.TempDir()
	t.Setenv("POSTCLI_HOME", home)
	t.Setenv("LOG_LEVEL", "error")

	_, err := execute(t, newInitCmd(), "--dir", "project")
	require.NoError(t, err)
	for _, rel := range scaffold.Files() {
		assert.FileExists(t, filepath.Join(home, "project", rel))
	}

	// Second run leaves existing files alone
	_, err = execute(t, newInitCmd(), "--dir", "project")
	assert.NoError(t, err)
}

func TestValidateCmd(t *testing.T) {
	home := project(t)

	out, err := execute(t, newValidateCmd(), "--template", "templates/fullstack.txt", "--contacts", "contacts.csv", "--links")
	require.NoError(t, err)
	assert.Contains(t, out, "[ok] Template OK: "+filepath.Join(home, "templates", "fullstack.txt"))
	assert.Contains(t, out, "[ok] Contacts OK: 1 row(s)")
	assert.Contains(t, out, "[ok] links.json OK")

	require.NoError(t, os.WriteFile(filepath.Join(home, "broken.txt"), []byte("{% if name %}open"), 0o644))
	out, err = execute(t, newValidateCmd(), "--template", "broken.txt")
	assert.ErrorIs(t, err, errChecksFailed)
	assert.Contains(t, out, "[err] Template error: ")

	out, err = execute(t, newValidateCmd(), "--template", "nope.txt")
	assert.ErrorIs(t, err, errChecksFailed)
	assert.Contains(t, out, "[err] Template not found: ")
}

func TestValidateCmd_AllChecks(t *testing.T) {
	project(t)
	t.Setenv("MAIL_MAILER", "smtp")
	t.Setenv("EMAIL_ADDRESS", "")
	t.Setenv("EMAIL_PASSWORD", "")

	out, err := execute(t, newValidateCmd())
	assert.ErrorIs(t, err, errChecksFailed)
	assert.Contains(t, out, "[ok] Template OK")
	assert.Contains(t, out, "[ok] Contacts OK")
	assert.Contains(t, out, "[err] SMTP error: ")
}

func TestScheduleCmd_RequiresCron(t *testing.T) {
	project(t)

	_, err := execute(t, newScheduleCmd(), "--dry-run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--cron")

	_, err = execute(t, newScheduleCmd(), "--cron", "not a schedule", "--dry-run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --cron")
}

func TestSendCmd_UnreachableRedisMirrorFailsFast(t *testing.T) {
	home := project(t)
	s := miniredis.RunT(t)
	addr := s.Addr()
	s.Close()

	t.Setenv("SEND_LOG_MIRROR", "redis")
	t.Setenv("REDIS_ADDR", addr)

	_, err := execute(t, newSendCmd(), "--role", "fe", "--dry-run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis unreachable at "+addr)
	assert.NoFileExists(t, filepath.Join(home, sendlog.DefaultFile))
}
