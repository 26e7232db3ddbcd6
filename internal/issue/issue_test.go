// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestValues_OrderedAndComplete(t *testing.T) {
	t.Parallel()

	values := Values()
	if len(values) != int(InvalidArchId) {
		t.Fatalf("Values() has %d issues, want %d", len(values), InvalidArchId)
	}
	for i, is := range values {
		if is.Id() != Id(i+1) {
			t.Errorf("Values()[%d].Id() = %d", i, is.Id())
		}
		if Get(is.Id()) != is {
			t.Errorf("Get(%d) mismatch", is.Id())
		}
	}
}

func TestGet_Unknown(t *testing.T) {
	t.Parallel()

	if Get(0) != nil || Get(InvalidArchId+1) != nil {
		t.Error("unknown ids must return nil")
	}
}

func TestAllIssuesHaveHeading(t *testing.T) {
	t.Parallel()

	for _, is := range Values() {
		msg := strings.TrimSpace(string(is.MarkdownMsg()))
		if !strings.HasPrefix(msg, "# ") {
			t.Errorf("issue %d does not start with a heading: %q", is.Id(), msg)
		}
	}
}

func TestIssue_LinksAreCopies(t *testing.T) {
	t.Parallel()

	is := &Issue{id: 99, mdMsg: "# x", links: []HttpLink{"https://a.invalid"}}
	links := is.Links()
	links[0] = "changed"
	if is.Links()[0] != "https://a.invalid" {
		t.Error("Links() must return a copy")
	}
	if Get(VerbNotFoundId).Links() != nil {
		t.Error("Links() should be nil when unset")
	}
}

func TestIssue_Render(t *testing.T) {
	t.Parallel()

	out, err := Get(VerbNotFoundId).Render("notty")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(out, "Unknown verb") || !strings.Contains(out, "pfxkit verb list") {
		t.Errorf("rendered output missing content:\n%s", out)
	}

	out, err = Get(ToolUnavailableId).Render("notty")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "See also") || !strings.Contains(out, "cabextract.org.uk") {
		t.Errorf("links not rendered:\n%s", out)
	}
}
