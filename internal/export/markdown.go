package export

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/proofbound/textkeep/internal/store"
)

// Time layouts are fixed rather than locale-dependent so two exports of the
// same range render byte-identically apart from the export stamp.
const (
	dayLayout   = "January 2, 2006"
	timeLayout  = "3:04 PM"
	stampLayout = "Jan 2, 2006, 3:04 PM"
)

const emptyRangeLine = "*No messages found in the specified date range.*"

// RenderMarkdown builds the export document. Pure: all inputs including the
// export timestamp are parameters, and no I/O happens here.
func RenderMarkdown(conv store.Conversation, msgs []store.Message, start, end time.Time, mapping Mapping, exportedAt time.Time) string {
	var b strings.Builder

	if conv.IsGroup() {
		fmt.Fprintf(&b, "# Group Chat: %s\n\n", conv.DisplayName())
		parts := make([]string, len(conv.Group.Participants))
		for i, p := range conv.Group.Participants {
			parts[i] = fmt.Sprintf("%s (%s)", p.DisplayName, p.Identifier)
		}
		fmt.Fprintf(&b, "**Participants:** %s\n", strings.Join(parts, ", "))
	} else {
		fmt.Fprintf(&b, "# Messages with %s\n\n", conv.DisplayName())
		fmt.Fprintf(&b, "**Contact:** %s\n", strings.Join(conv.Contact.Identifiers(), ", "))
	}
	fmt.Fprintf(&b, "**Date Range:** %s - %s\n", start.Format(dayLayout), end.Format(dayLayout))
	fmt.Fprintf(&b, "**Total Messages:** %d\n", len(msgs))
	fmt.Fprintf(&b, "**Exported:** %s\n\n---\n", exportedAt.Format(stampLayout))

	currentDay := ""
	for _, m := range msgs {
		day := m.Timestamp.Format(dayLayout)
		if day != currentDay {
			currentDay = day
			fmt.Fprintf(&b, "\n## %s\n\n", day)
		}

		fmt.Fprintf(&b, "%s - **%s**\n", m.Timestamp.Format(timeLayout), senderLabel(conv, m))

		if m.Text != "" {
			for _, line := range strings.Split(m.Text, "\n") {
				b.WriteString("> " + line + "\n")
			}
		}

		for _, att := range m.Attachments {
			writeAttachment(&b, att, mapping)
		}

		b.WriteString("\n")
	}

	if len(msgs) == 0 {
		b.WriteString("\n" + emptyRangeLine + "\n")
	}

	return b.String()
}

func senderLabel(conv store.Conversation, m store.Message) string {
	if m.FromMe {
		return "Me"
	}
	if conv.IsGroup() {
		if m.SenderName == "" {
			return "Unknown"
		}
		return m.SenderName
	}
	return conv.DisplayName()
}

func writeAttachment(b *strings.Builder, original string, mapping Mapping) {
	filename := filepath.Base(original)

	rel, ok := mapping.Resolve(original)
	if !ok {
		fmt.Fprintf(b, "> *[Attachment not found: %s]*\n", filename)
		return
	}
	encoded := (&url.URL{Path: rel}).EscapedPath()

	switch Classify(original) {
	case FileImage:
		fmt.Fprintf(b, "\n![Image: %s](%s)\n", filename, encoded)
	case FileVideo:
		fmt.Fprintf(b, "> [Video: %s](%s)\n", filename, encoded)
	case FileAudio:
		fmt.Fprintf(b, "> [Audio: %s](%s)\n", filename, encoded)
	default:
		fmt.Fprintf(b, "> [Attachment: %s](%s)\n", filename, encoded)
	}
}
