// Package scoring dispatches a document to the marksheet or certificate
// pipeline and assembles the result.
package scoring

import (
	"strings"

	"github.com/samber/lo"

	"points/internal/certificate"
	"points/internal/marksheet"
	"points/internal/normalize"
	"points/pkg/models"
)

// ErrMsgUnknownDocType is reported for document types other than marksheet
// and certificate.
const ErrMsgUnknownDocType = "Unknown document type"

// recentSemesters is how many trailing semester rows are echoed as SGPAs.
const recentSemesters = 4

// Route normalizes text once and runs exactly one scoring pipeline chosen
// by docType. It never fails; an unknown docType yields a result with Error
// set and zero points.
func Route(docType, text string, stream marksheet.Stream) models.ScoreResult {
	switch strings.ToLower(strings.TrimSpace(docType)) {
	case models.DocTypeMarksheet:
		return scoreMarksheet(normalize.Text(text), stream)
	case models.DocTypeCertificate:
		return scoreCertificate(normalize.Text(text))
	default:
		return models.ScoreResult{Error: ErrMsgUnknownDocType}
	}
}

func scoreMarksheet(text string, stream marksheet.Stream) models.ScoreResult {
	if stream == "" {
		stream = marksheet.DefaultStream
	}
	rows, explicit := marksheet.ExtractSemesterRows(text)
	grade := marksheet.FinalGrade(rows, explicit)

	return models.ScoreResult{
		Type:   models.DocTypeMarksheet,
		Points: marksheet.ScoreGrade(grade, stream),
		CGPA:   grade,
		SGPAs:  marksheet.RecentSGPAs(rows, recentSemesters),
		Stream: string(stream),
		Text:   text,
	}
}

func scoreCertificate(text string) models.ScoreResult {
	sig := certificate.Classify(text)

	return models.ScoreResult{
		Type:     models.DocTypeCertificate,
		Points:   certificate.Score(sig, strings.ToLower(text)),
		Category: string(sig.Category),
		CertType: string(sig.Type),
		Rank:     sig.Rank,
		IsLead:   lo.ToPtr(sig.IsLead),
		Text:     text,
	}
}
