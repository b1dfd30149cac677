package sendlog

import "time"

// Status is the outcome recorded for one contact in one run
type Status string

const (
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
	StatusDryRun  Status = "dry_run"
)

// Reasons stored in the error column for non-delivery outcomes
const (
	ReasonAlreadyContacted = "already_in_contacted"
	ReasonAlreadySent      = "already_sent_in_campaign"
	ReasonEmptyEmail       = "empty_email"
	ReasonTemplateRender   = "template_render_error"
)

// TimestampLayout matches ISO-8601 UTC with millisecond precision
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Columns is the fixed header of the send log file
var Columns = []string{
	"timestamp",
	"run_id",
	"campaign_key",
	"email",
	"name",
	"company",
	"template",
	"role",
	"subject",
	"status",
	"error",
}

// Row is one ledger entry
type Row struct {
	Timestamp   string `json:"timestamp"`
	RunID       string `json:"run_id"`
	CampaignKey string `json:"campaign_key"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	Company     string `json:"company"`
	Template    string `json:"template"`
	Role        string `json:"role"`
	Subject     string `json:"subject"`
	Status      Status `json:"status"`
	Error       string `json:"error"`
}

// FormatTimestamp renders t in the log's timestamp layout
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Record returns the row as CSV cells in Columns order
func (r Row) Record() []string {
	return []string{
		r.Timestamp,
		r.RunID,
		r.CampaignKey,
		r.Email,
		r.Name,
		r.Company,
		r.Template,
		r.Role,
		r.Subject,
		string(r.Status),
		r.Error,
	}
}
