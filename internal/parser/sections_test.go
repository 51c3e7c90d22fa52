package parser

import (
	"strings"
	"testing"
)

func reportHeaders(t *testing.T, boundary string) *Headers {
	t.Helper()
	return Parse("Content-Type: multipart/report; report-type=feedback-report; boundary=" + boundary)
}

func TestSplitSectionsAssignsByPosition(t *testing.T) {
	t.Parallel()

	body := strings.Join([]string{
		"--AAA",
		"Content-Type: text/plain",
		"",
		"A user reported abuse.",
		"--AAA",
		"Feedback-Type: abuse",
		"Original-Rcpt-To: bob@example.org",
		"--AAA",
		"From: sender@example.net",
		"To: bob@example.org",
		"--AAA--",
	}, "\r\n")

	sections := SplitSections(reportHeaders(t, "AAA"), body)

	if !strings.Contains(sections.First, "A user reported abuse.") {
		t.Errorf("First: got %q, want the human-readable part", sections.First)
	}
	if sections.FirstHeaders == nil {
		t.Fatal("FirstHeaders is nil")
	}
	if got := sections.FirstHeaders.ContentType; got == nil || got.Type != "text/plain" {
		t.Errorf("FirstHeaders Content-type: got %+v, want text/plain", got)
	}
	if !strings.Contains(sections.Machine, "Original-Rcpt-To: bob@example.org") {
		t.Errorf("Machine: got %q, want the machine-readable part", sections.Machine)
	}
	if !strings.Contains(sections.Returned, "To: bob@example.org") {
		t.Errorf("Returned: got %q, want the returned headers", sections.Returned)
	}
}

func TestSplitSectionsMissingBoundary(t *testing.T) {
	t.Parallel()

	h := Parse("Content-Type: text/plain")
	sections := SplitSections(h, "some body")

	if sections.First != "" || sections.Machine != "" || sections.Returned != "" {
		t.Errorf("sections should all be empty, got %+v", sections)
	}
	if sections.FirstHeaders != nil {
		t.Error("FirstHeaders should be nil without a boundary")
	}
}

func TestSplitSectionsNoContentType(t *testing.T) {
	t.Parallel()

	sections := SplitSections(Parse("Subject: hi"), "body")
	if sections.First != "" || sections.Machine != "" || sections.Returned != "" {
		t.Errorf("sections should all be empty, got %+v", sections)
	}
}

func TestSplitSectionsShortSegmentList(t *testing.T) {
	t.Parallel()

	body := "--AAA\r\nonly the first part\r\n--AAA--"
	sections := SplitSections(reportHeaders(t, "AAA"), body)

	if !strings.Contains(sections.First, "only the first part") {
		t.Errorf("First: got %q", sections.First)
	}
	if sections.Returned != "" {
		t.Errorf("Returned: got %q, want empty", sections.Returned)
	}
}

func TestSplitSectionsNilHeaders(t *testing.T) {
	t.Parallel()

	sections := SplitSections(nil, "body")
	if sections == nil {
		t.Fatal("SplitSections(nil, ...) should return empty sections, not nil")
	}
	if sections.First != "" {
		t.Errorf("First: got %q, want empty", sections.First)
	}
}
