package tapback

import "testing"

func TestApplyReactions(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		assocType int64
		want      string
	}{
		{"loved with excerpt", "Loved ☕", 2000, "❤️ Loved: ☕"},
		{"liked with excerpt", "Liked sounds good", 2001, "\U0001F44D Liked: sounds good"},
		{"disliked no excerpt", "", 2002, "\U0001F44E Disliked this message"},
		{"laughed with excerpt", "Laughed at that photo", 2003, "\U0001F602 Laughed at: that photo"},
		{"emphasized no verb prefix", "an attachment", 2004, "‼️ Emphasized this message"},
		{"questioned no excerpt", "", 2005, "❓ Questioned this message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(tt.text, tt.assocType, 0)
			if got.Kind != Reaction {
				t.Fatalf("Kind = %v, want Reaction", got.Kind)
			}
			if got.Text != tt.want {
				t.Errorf("Text = %q, want %q", got.Text, tt.want)
			}
		})
	}
}

func TestApplyUnknownReactionCode(t *testing.T) {
	got := Apply("some text", 2042, 0)
	if got.Kind != Reaction {
		t.Fatalf("Kind = %v, want Reaction", got.Kind)
	}
	if got.Text != "some text" {
		t.Errorf("Text = %q, want passthrough", got.Text)
	}
}

func TestApplyRemovedReaction(t *testing.T) {
	for _, code := range []int64{3000, 3002, 3005} {
		got := Apply("Removed a heart", code, 0)
		if got.Kind != RemovedReaction {
			t.Errorf("Apply(type=%d).Kind = %v, want RemovedReaction", code, got.Kind)
		}
	}
	// 3006 is past the retraction range.
	if got := Apply("x", 3006, 0); got.Kind != Regular {
		t.Errorf("Apply(type=3006).Kind = %v, want Regular", got.Kind)
	}
}

func TestApplySystemAction(t *testing.T) {
	got := Apply("Alice added Bob to the group", 0, 1)
	if got.Kind != SystemAction {
		t.Fatalf("Kind = %v, want SystemAction", got.Kind)
	}
	want := "ℹ️ [System] Alice added Bob to the group"
	if got.Text != want {
		t.Errorf("Text = %q, want %q", got.Text, want)
	}
}

func TestApplyRegularPassthrough(t *testing.T) {
	got := Apply("just a normal message", 0, 0)
	if got.Kind != Regular {
		t.Fatalf("Kind = %v, want Regular", got.Kind)
	}
	if got.Text != "just a normal message" {
		t.Errorf("Text = %q, want passthrough", got.Text)
	}
}

func TestReactionTakesPrecedenceOverGroupAction(t *testing.T) {
	got := Apply("Loved x y z", 2000, 1)
	if got.Kind != Reaction {
		t.Errorf("Kind = %v, want Reaction", got.Kind)
	}
}
