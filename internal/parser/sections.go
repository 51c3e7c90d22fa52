package parser

import "strings"

// BodySections holds the positional parts of a multipart report body. A
// feedback-loop report carries a human-readable first part, a
// machine-readable part with the report fields, and the headers of the
// original bounced message. Any slot may be empty.
type BodySections struct {
	// First is the raw text of the first part, FirstHeaders its
	// re-parsed header fields.
	First        string
	FirstHeaders *Headers

	// Machine is the machine-readable report part.
	Machine string

	// Returned holds the headers of the original message.
	Returned string
}

// SplitSections splits a message body into its report sections using the
// boundary declared in the Content-type header. The split is a literal
// substring split on the boundary token, not full MIME dash-delimiter
// handling. A missing Content-type or boundary yields all-empty sections,
// never an error; so does a body with fewer parts than expected.
func SplitSections(headers *Headers, body string) *BodySections {
	sections := &BodySections{}

	if headers == nil || headers.ContentType == nil {
		return sections
	}
	boundary := headers.ContentType.Params["boundary"]
	if boundary == "" {
		return sections
	}

	parts := strings.Split(body, boundary)
	if len(parts) > 1 {
		sections.First = parts[1]
		sections.FirstHeaders = Parse(parts[1])
	}
	if len(parts) > 2 {
		sections.Machine = parts[2]
	}
	if len(parts) > 3 {
		sections.Returned = parts[3]
	}

	return sections
}
