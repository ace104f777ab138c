package git

import (
	"strings"
	"testing"
	"time"
)

func showOutput(fields ...string) string {
	return strings.Join(fields, showFieldSep)
}

func TestParseCommit(t *testing.T) {
	out := showOutput(
		"deadbeefdeadbeefdeadbeefdeadbeefdeadbeef",
		"deadbee",
		"Ada Lovelace",
		"ada@example.com",
		"2026-03-01T12:00:00+01:00",
		"Fix crash on startup\n\nThe map was nil.\nCloses #7.\n",
	)

	c, err := parseCommit(out)
	if err != nil {
		t.Fatalf("parseCommit() error = %v", err)
	}

	if c.SHA != "deadbeefdeadbeefdeadbeefdeadbeefdeadbeef" {
		t.Errorf("SHA = %q", c.SHA)
	}
	if c.ShortSHA != "deadbee" {
		t.Errorf("ShortSHA = %q", c.ShortSHA)
	}
	if c.Author != "Ada Lovelace" || c.Email != "ada@example.com" {
		t.Errorf("author = %q <%q>", c.Author, c.Email)
	}
	want := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("", 3600))
	if !c.Date.Equal(want) {
		t.Errorf("Date = %v, want %v", c.Date, want)
	}
	if c.Subject != "Fix crash on startup" {
		t.Errorf("Subject = %q", c.Subject)
	}
	if c.Body != "The map was nil.\nCloses #7." {
		t.Errorf("Body = %q", c.Body)
	}
}

func TestParseCommitBodyWithSeparators(t *testing.T) {
	// Only the first five separators delimit fields; the raw body may contain
	// anything else, including newlines.
	body := "Subject line\n\nbody with\nmany\nlines"
	c, err := parseCommit(showOutput("a", "b", "c", "d", "2026-01-02T03:04:05Z", body))
	if err != nil {
		t.Fatalf("parseCommit() error = %v", err)
	}
	if c.Subject != "Subject line" {
		t.Errorf("Subject = %q", c.Subject)
	}
	if c.Body != "body with\nmany\nlines" {
		t.Errorf("Body = %q", c.Body)
	}
}

func TestParseCommitErrors(t *testing.T) {
	if _, err := parseCommit("not enough fields"); err == nil {
		t.Error("parseCommit() with too few fields returned nil error")
	}
	if _, err := parseCommit(showOutput("a", "b", "c", "d", "yesterday", "msg")); err == nil {
		t.Error("parseCommit() with bad date returned nil error")
	}
}

func TestSplitMessage(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		subject string
		body    string
	}{
		{"subject only", "Fix crash", "Fix crash", ""},
		{"subject and body", "Fix crash\n\nDetails here.", "Fix crash", "Details here."},
		{"trailing newline", "Fix crash\n", "Fix crash", ""},
		{"no blank line", "Fix crash\nDetails", "Fix crash", "Details"},
		{"empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, body := splitMessage(tt.raw)
			if subject != tt.subject || body != tt.body {
				t.Errorf("splitMessage(%q) = %q, %q; want %q, %q",
					tt.raw, subject, body, tt.subject, tt.body)
			}
		})
	}
}

func TestCommitMessage(t *testing.T) {
	c := &Commit{Subject: "Fix crash", Body: "Details."}
	if got := c.Message(); got != "Fix crash\n\nDetails." {
		t.Errorf("Message() = %q", got)
	}

	c = &Commit{Subject: "Fix crash"}
	if got := c.Message(); got != "Fix crash" {
		t.Errorf("Message() = %q", got)
	}
}
