package output

import (
	"fmt"
	"io"

	"github.com/agentstation/keyprobe/internal/auth"
	"github.com/agentstation/keyprobe/internal/cmd/emoji"
	"github.com/agentstation/keyprobe/internal/probe"
	"github.com/agentstation/keyprobe/pkg/constants"
)

// Report is the structured form of one probe run.
type Report struct {
	KeyName    string `json:"key_name" yaml:"key_name"`
	KeyLoaded  bool   `json:"key_loaded" yaml:"key_loaded"`
	KeyPreview string `json:"key_preview,omitempty" yaml:"key_preview,omitempty"`
	KeySource  string `json:"key_source" yaml:"key_source"`
	KeyStatus  string `json:"key_status" yaml:"key_status"`
	Model      string `json:"model,omitempty" yaml:"model,omitempty"`
	Outcome    string `json:"outcome,omitempty" yaml:"outcome,omitempty"`
	Response   string `json:"response,omitempty" yaml:"response,omitempty"`
	Error      string `json:"error,omitempty" yaml:"error,omitempty"`
	Category   string `json:"category,omitempty" yaml:"category,omitempty"`
	ElapsedMS  int64  `json:"elapsed_ms" yaml:"elapsed_ms"`
	Requests   int    `json:"requests" yaml:"requests"`
	HelpURL    string `json:"help_url,omitempty" yaml:"help_url,omitempty"`
}

// Printer renders the probe report. The text format writes each line as soon
// as it is known; structured formats collect everything and write once.
type Printer struct {
	w      io.Writer
	format Format
	report Report
}

// NewPrinter creates a printer writing to w.
func NewPrinter(w io.Writer, format Format) *Printer {
	if format == "" {
		format = FormatText
	}
	return &Printer{w: w, format: format}
}

// Credential records the loaded credential and, in text mode, prints the
// masked preview or the not-found notice.
func (p *Printer) Credential(cred auth.Credential, status *auth.Status) error {
	p.report.KeyName = cred.Name
	p.report.KeyLoaded = cred.IsSet()
	p.report.KeyPreview = cred.Masked()
	p.report.KeySource = string(cred.Source)
	if status != nil {
		p.report.KeyStatus = status.State.String()
	}

	if p.format != FormatText {
		return nil
	}

	if _, err := fmt.Fprintln(p.w, CredentialLine(cred)); err != nil {
		return err
	}
	if status != nil && status.State == auth.StateInvalid {
		_, err := fmt.Fprintf(p.w, "%s  %s\n", emoji.Warning, status.Summary)
		return err
	}
	return nil
}

// Result records the probe outcome and writes the rest of the report.
func (p *Printer) Result(res probe.Result) error {
	p.report.Model = res.Model
	p.report.Outcome = res.Outcome.String()
	p.report.ElapsedMS = res.Elapsed.Milliseconds()
	p.report.Requests = res.Requests
	if res.OK() {
		p.report.Response = res.Text
	} else {
		p.report.Error = res.Error()
		p.report.Category = string(res.Category)
		p.report.HelpURL = constants.APIKeysURL
	}

	if p.format != FormatText {
		return NewFormatter(p.format).Format(p.w, p.report)
	}

	if res.OK() {
		_, err := fmt.Fprintf(p.w, "%s Success! Response: %s\n", emoji.Success, res.Text)
		return err
	}
	_, err := fmt.Fprintf(p.w, "%s Error: %s\n\nPlease check your API key at: %s\n", emoji.Error, res.Error(), constants.APIKeysURL)
	return err
}

// CredentialLine is the startup diagnostic for cred.
func CredentialLine(cred auth.Credential) string {
	if !cred.IsSet() {
		return constants.MsgNoAPIKey
	}
	return "API Key loaded: " + cred.Masked()
}
