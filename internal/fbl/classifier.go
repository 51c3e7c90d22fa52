// Package fbl classifies raw email messages as feedback-loop abuse reports
// and resolves the original intended recipient for automated bounce
// handling.
package fbl

import (
	"strings"

	"github.com/ksami007/bouncehandler/internal/parser"
)

// IsFBL reports whether parsed headers have the shape of a feedback-loop
// report: either the Content-type report-type parameter names
// feedback-report, or an X-loop header mentions scomp. Both checks are
// case-insensitive substring matches. Ordinary DSN bounces fail both and
// are deliberately left unclassified.
func IsFBL(headers *parser.Headers) bool {
	if headers == nil {
		return false
	}

	if ct := headers.ContentType; ct != nil {
		if reportType, ok := ct.Params["report-type"]; ok {
			if strings.Contains(strings.ToLower(reportType), "feedback-report") {
				return true
			}
		}
	}

	if headers.Has("X-loop") {
		if strings.Contains(strings.ToLower(headers.Get("X-loop")), "scomp") {
			return true
		}
	}

	return false
}
