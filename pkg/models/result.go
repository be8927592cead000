package models

// MaxPoints is the upper bound of every score.
const MaxPoints = 5.0

// Supported document types.
const (
	DocTypeMarksheet   = "marksheet"
	DocTypeCertificate = "certificate"
)

// ScoreResult is the outcome of scoring one document. It is flat so it can
// be emitted as a single JSON object.
type ScoreResult struct {
	// Type is the recognized document type; empty when the type was unknown.
	Type string `json:"type,omitempty"`

	// Points is always within [0, MaxPoints].
	Points float64 `json:"points"`

	// Marksheet fields
	CGPA   *float64 `json:"cgpa,omitempty"`   // resolved final grade
	SGPAs  []string `json:"sgpas,omitempty"`  // "<semester>: <sgpa>" for the most recent semesters
	Stream string   `json:"stream,omitempty"` // curve the grade was scored on

	// Certificate fields
	Category string `json:"category,omitempty"`
	CertType string `json:"cert_type,omitempty"`
	Rank     string `json:"rank,omitempty"`
	IsLead   *bool  `json:"is_lead,omitempty"`

	// Text is the normalized OCR text, echoed for auditing.
	Text string `json:"text,omitempty"`

	// Error explains why no score could be computed. Points is 0 when set.
	Error string `json:"error,omitempty"`
}

// Failed reports whether the result carries an error.
func (r *ScoreResult) Failed() bool {
	return r.Error != ""
}

// Fields flattens the result into a key/value map, omitting fields that do
// not apply to the document type.
func (r *ScoreResult) Fields() map[string]any {
	f := map[string]any{"points": r.Points}
	if r.Error != "" {
		f["error"] = r.Error
	}
	if r.Type == "" {
		return f
	}
	f["type"] = r.Type
	f["text"] = r.Text

	switch r.Type {
	case DocTypeMarksheet:
		if r.CGPA != nil {
			f["cgpa"] = *r.CGPA
		} else {
			f["cgpa"] = nil
		}
		f["sgpas"] = r.SGPAs
		f["stream"] = r.Stream
	case DocTypeCertificate:
		f["category"] = r.Category
		f["cert_type"] = r.CertType
		if r.Rank != "" {
			f["rank"] = r.Rank
		} else {
			f["rank"] = nil
		}
		f["is_lead"] = r.IsLead != nil && *r.IsLead
	}
	return f
}
