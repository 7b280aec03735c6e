package export

import (
	"strings"
	"testing"
	"time"

	"github.com/proofbound/textkeep/internal/identity"
	"github.com/proofbound/textkeep/internal/store"
)

var renderStamp = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

func contactConv() store.Conversation {
	return store.Conversation{Contact: &identity.Contact{
		ID:          "15551234567",
		DisplayName: "Alice",
		Handles: []identity.Handle{
			{ID: 1, Identifier: "+15551234567"},
			{ID: 2, Identifier: "alice@example.com"},
		},
	}}
}

func groupConv() store.Conversation {
	return store.Conversation{Group: &store.Group{
		ID:   "group_7",
		Name: "Ski Trip",
		Participants: []store.Participant{
			{HandleID: 1, Identifier: "+15551111111", DisplayName: "Alice"},
			{HandleID: 2, Identifier: "+15552222222", DisplayName: "Bob"},
		},
	}}
}

func at(day, hour, minute int) time.Time {
	return time.Date(2025, time.March, day, hour, minute, 0, 0, time.UTC)
}

func TestRenderEmptyRangeSentinel(t *testing.T) {
	doc := RenderMarkdown(contactConv(), nil, at(1, 0, 0), at(2, 0, 0), nil, renderStamp)

	if !strings.Contains(doc, emptyRangeLine) {
		t.Error("missing empty-range sentinel line")
	}
	if !strings.Contains(doc, "**Total Messages:** 0") {
		t.Error("missing zero message count")
	}
	if strings.Contains(doc, "## ") {
		t.Error("empty export must have no day headings")
	}
}

func TestRenderHeaderIndividual(t *testing.T) {
	doc := RenderMarkdown(contactConv(), nil, at(1, 0, 0), at(2, 0, 0), nil, renderStamp)

	for _, want := range []string{
		"# Messages with Alice\n",
		"**Contact:** +15551234567, alice@example.com\n",
		"**Date Range:** March 1, 2025 - March 2, 2025\n",
		"**Exported:** Jun 1, 2025, 12:00 PM\n",
		"---\n",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}
}

func TestRenderHeaderGroup(t *testing.T) {
	doc := RenderMarkdown(groupConv(), nil, at(1, 0, 0), at(2, 0, 0), nil, renderStamp)

	if !strings.Contains(doc, "# Group Chat: Ski Trip\n") {
		t.Error("missing group title")
	}
	if !strings.Contains(doc, "**Participants:** Alice (+15551111111), Bob (+15552222222)\n") {
		t.Error("missing participants line")
	}
}

func TestRenderDayHeadingsAscending(t *testing.T) {
	msgs := []store.Message{
		{Text: "morning", Timestamp: at(1, 9, 15)},
		{Text: "evening", Timestamp: at(1, 21, 0), FromMe: true},
		{Text: "next day", Timestamp: at(2, 8, 30)},
	}
	doc := RenderMarkdown(contactConv(), msgs, at(1, 0, 0), at(2, 23, 59), nil, renderStamp)

	if got := strings.Count(doc, "\n## "); got != 2 {
		t.Fatalf("got %d day headings, want 2", got)
	}
	first := strings.Index(doc, "## March 1, 2025")
	second := strings.Index(doc, "## March 2, 2025")
	if first == -1 || second == -1 || first > second {
		t.Errorf("day headings out of order: %d, %d", first, second)
	}
}

func TestRenderMessageLines(t *testing.T) {
	msgs := []store.Message{
		{Text: "hi there", Timestamp: at(1, 9, 15)},
		{Text: "line one\nline two", Timestamp: at(1, 9, 20), FromMe: true},
	}
	doc := RenderMarkdown(contactConv(), msgs, at(1, 0, 0), at(1, 23, 59), nil, renderStamp)

	for _, want := range []string{
		"9:15 AM - **Alice**\n> hi there\n",
		"9:20 AM - **Me**\n> line one\n> line two\n",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}
}

func TestRenderGroupSenderFallback(t *testing.T) {
	msgs := []store.Message{
		{Text: "from bob", Timestamp: at(1, 9, 0), SenderName: "Bob"},
		{Text: "from nobody", Timestamp: at(1, 9, 5)},
	}
	doc := RenderMarkdown(groupConv(), msgs, at(1, 0, 0), at(1, 23, 59), nil, renderStamp)

	if !strings.Contains(doc, "- **Bob**\n") {
		t.Error("missing resolved group sender")
	}
	if !strings.Contains(doc, "- **Unknown**\n") {
		t.Error("missing Unknown fallback for unresolved sender")
	}
}

func TestRenderAttachments(t *testing.T) {
	mapping := Mapping{
		"/att/my photo.jpg": {"attachments/1_my photo.jpg"},
		"/att/clip.mov":     {"attachments/2_clip.mov"},
		"/att/voice.m4a":    {"attachments/3_voice.m4a"},
		"/att/notes.pdf":    {"attachments/4_notes.pdf"},
	}
	msgs := []store.Message{{
		Timestamp: at(1, 9, 0),
		Attachments: []string{
			"/att/my photo.jpg",
			"/att/clip.mov",
			"/att/voice.m4a",
			"/att/notes.pdf",
			"/att/lost.gif",
		},
	}}
	doc := RenderMarkdown(contactConv(), msgs, at(1, 0, 0), at(1, 23, 59), mapping, renderStamp)

	for _, want := range []string{
		"![Image: my photo.jpg](attachments/1_my%20photo.jpg)\n",
		"> [Video: clip.mov](attachments/2_clip.mov)\n",
		"> [Audio: voice.m4a](attachments/3_voice.m4a)\n",
		"> [Attachment: notes.pdf](attachments/4_notes.pdf)\n",
		"> *[Attachment not found: lost.gif]*\n",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}
}

func TestRenderDeterministic(t *testing.T) {
	msgs := []store.Message{
		{Text: "one", Timestamp: at(1, 9, 0)},
		{Text: "two", Timestamp: at(2, 9, 0), FromMe: true},
	}
	a := RenderMarkdown(contactConv(), msgs, at(1, 0, 0), at(2, 23, 59), nil, renderStamp)
	b := RenderMarkdown(contactConv(), msgs, at(1, 0, 0), at(2, 23, 59), nil, renderStamp)
	if a != b {
		t.Error("identical inputs must render identical documents")
	}
}
