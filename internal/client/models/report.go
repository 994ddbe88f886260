package models

import "strings"

// ReportStatus is the delivery state of a report.
type ReportStatus string

const (
	// StatusQueued is assigned at creation. Nothing moves a report past it
	// automatically: opening the deep-link gives no delivery confirmation.
	StatusQueued ReportStatus = "queued"
	StatusSent   ReportStatus = "sent"
	StatusFailed ReportStatus = "failed"
)

// Valid reports whether s is one of the known statuses.
func (s ReportStatus) Valid() bool {
	switch s {
	case StatusQueued, StatusSent, StatusFailed:
		return true
	}
	return false
}

// Report is one connectivity complaint persisted locally.
// JSON names match the records written by the web client.
type Report struct {
	// ID is unique across all reports and never reused.
	ID string `json:"id"`
	// Timestamp is the creation time in epoch milliseconds; it is immutable.
	Timestamp int64 `json:"timestamp"`

	ReporterName     string `json:"nome"`
	ReasonLabel      string `json:"motivo"`
	AlternateContact string `json:"contatoAlternativo"`
	Message          string `json:"mensagem"`

	// Content is FormatContent applied to the fields above at creation time.
	// History and the outbound message both use it verbatim.
	Content string `json:"content"`

	Status ReportStatus `json:"status"`
}

// ReportFields are the inputs of the rendered report text.
type ReportFields struct {
	Name             string
	Reason           string
	AlternateContact string
	Message          string
}

// Fields returns the rendering inputs stored on r.
func (r *Report) Fields() ReportFields {
	return ReportFields{
		Name:             r.ReporterName,
		Reason:           r.ReasonLabel,
		AlternateContact: r.AlternateContact,
		Message:          r.Message,
	}
}

// ReportForm is the raw user input of the report screen. Reason holds the
// option value (e.g. "sem_sinal"), not the label.
type ReportForm struct {
	Name             string
	Reason           string
	AlternateContact string
	Message          string
}

// Validate checks the required fields and returns a *ValidationError keyed
// by the form field names, or nil.
func (f ReportForm) Validate() error {
	v := &ValidationError{}
	if strings.TrimSpace(f.Name) == "" {
		v.Add("nome", "Nome é obrigatório")
	}
	if f.Reason == "" {
		v.Add("motivo", "Motivo é obrigatório")
	}
	if strings.TrimSpace(f.Message) == "" {
		v.Add("mensagem", "Mensagem é obrigatória")
	}
	return v.OrNil()
}

// Reason is a selectable report reason.
type Reason struct {
	Value string
	Label string
}

// Reasons lists the options offered by the report form, in display order.
var Reasons = []Reason{
	{Value: "sem_sinal", Label: "Sem sinal"},
	{Value: "sinal_fraco", Label: "Sinal fraco"},
	{Value: "queda_conexao", Label: "Queda de conexão"},
	{Value: "lentidao", Label: "Lentidão"},
	{Value: "outro", Label: "Outro"},
}

// ReasonLabel maps an option value to its label. Unknown values are
// returned unchanged.
func ReasonLabel(value string) string {
	for _, r := range Reasons {
		if r.Value == value {
			return r.Label
		}
	}
	return value
}
