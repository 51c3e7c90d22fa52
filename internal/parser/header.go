package parser

import (
	"regexp"
	"strings"
)

// fieldPattern matches a header field line: a name containing neither
// whitespace nor '.', a colon, then the value.
var fieldPattern = regexp.MustCompile(`^([^\s.]*):\s*(.*)$`)

// continuationPattern matches an RFC 822 folded-header continuation line.
var continuationPattern = regexp.MustCompile(`^\s+(.+)`)

// originalRecipientField is the one field whose canonical form keeps its
// historical mixed case.
const originalRecipientField = "X-HmXmrOriginalRecipient"

// Fields is an ordered mapping of canonical field names to plain string
// values. Field names are canonicalized to an uppercase first letter and a
// lowercase remainder, so lookups use keys like "Subject" or "X-loop".
type Fields struct {
	names  []string
	values map[string]string
}

// NewFields returns an empty field mapping.
func NewFields() *Fields {
	return &Fields{values: make(map[string]string)}
}

// Get returns the value for the canonical field name, or "" if absent.
// Safe on a nil receiver.
func (f *Fields) Get(name string) string {
	if f == nil {
		return ""
	}
	return f.values[name]
}

// Has reports whether the canonical field name is present.
func (f *Fields) Has(name string) bool {
	if f == nil {
		return false
	}
	_, ok := f.values[name]
	return ok
}

// Names returns the field names in first-seen order.
func (f *Fields) Names() []string {
	if f == nil {
		return nil
	}
	return f.names
}

// Len returns the number of fields.
func (f *Fields) Len() int {
	if f == nil {
		return 0
	}
	return len(f.values)
}

func (f *Fields) set(name, value string) {
	if _, ok := f.values[name]; !ok {
		f.names = append(f.names, name)
	}
	f.values[name] = value
}

func (f *Fields) remove(name string) {
	if _, ok := f.values[name]; !ok {
		return
	}
	delete(f.values, name)
	for i, n := range f.names {
		if n == name {
			f.names = append(f.names[:i], f.names[i+1:]...)
			break
		}
	}
}

// ContentType is the structured form of a Content-type header value.
type ContentType struct {
	// Type is the lowercased media type, e.g. "multipart/report".
	Type string

	// Params maps lowercased parameter names to their values with
	// surrounding double quotes stripped.
	Params map[string]string
}

// Headers is the parsed form of a header block. Plain fields live in
// Fields; the two fields that carry structure are promoted out of the
// plain mapping once parsed.
type Headers struct {
	*Fields

	// Received holds every distinct Received line in order of
	// appearance, or nil if the field was absent.
	Received []string

	// ContentType is the structured Content-type value, or nil if the
	// field was absent.
	ContentType *ContentType
}

// Parse parses a CRLF-delimited header block into Headers.
func Parse(block string) *Headers {
	return ParseLines(strings.Split(block, "\r\n"))
}

// ParseLines parses a pre-split sequence of header lines. A field line
// opens a field; continuation lines extend the currently open field with a
// single space and their trimmed content. The first occurrence of a field
// wins, except Received, which accumulates every distinct non-empty value.
// Lines matching neither shape are ignored.
func ParseLines(lines []string) *Headers {
	fields := NewFields()

	// Name of the field the next continuation line would extend.
	open := ""

	for _, line := range lines {
		if m := fieldPattern.FindStringSubmatch(line); m != nil {
			name := canonicalName(m[1])
			value := strings.TrimSpace(m[2])
			if !fields.Has(name) {
				fields.set(name, value)
			} else if name == "Received" && value != "" && value != fields.Get(name) {
				fields.set(name, fields.Get(name)+"|"+value)
			}
			open = name
			continue
		}
		if m := continuationPattern.FindStringSubmatch(line); m != nil && open != "" && fields.Has(open) {
			fields.set(open, fields.Get(open)+" "+strings.TrimSpace(m[1]))
		}
	}

	h := &Headers{Fields: fields}

	// Received was merged with '|' during the pass; undo the join into
	// an ordered list.
	if fields.Has("Received") {
		h.Received = strings.Split(fields.Get("Received"), "|")
		fields.remove("Received")
	}

	if fields.Has("Content-type") {
		h.ContentType = parseContentType(fields.Get("Content-type"))
		fields.remove("Content-type")
	}

	for _, name := range fields.Names() {
		if name != originalRecipientField && strings.EqualFold(name, originalRecipientField) {
			value := fields.Get(name)
			fields.remove(name)
			fields.set(originalRecipientField, value)
			break
		}
	}

	return h
}

// parseContentType splits a flat Content-type value into its media type
// and parameters.
func parseContentType(raw string) *ContentType {
	segments := strings.Split(raw, ";")

	ct := &ContentType{
		Type:   strings.ToLower(strings.TrimSpace(segments[0])),
		Params: make(map[string]string),
	}

	for _, segment := range segments[1:] {
		key, value, ok := strings.Cut(segment, "=")
		if !ok {
			continue
		}
		ct.Params[strings.ToLower(strings.TrimSpace(key))] = strings.Trim(value, `"`)
	}

	return ct
}

// canonicalName uppercases the first letter of a field name and lowercases
// the rest.
func canonicalName(name string) string {
	if name == "" {
		return name
	}
	name = strings.ToLower(name)
	return strings.ToUpper(name[:1]) + name[1:]
}
