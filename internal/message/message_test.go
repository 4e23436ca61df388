package message

import "testing"

func TestNew_NormalizesAndTokenizes(t *testing.T) {
	m := New("  !Google  Go   Lang\tTips ")
	if m.Raw() != "  !Google  Go   Lang\tTips " {
		t.Fatalf("raw changed: %q", m.Raw())
	}
	if m.Text() != "  !google  go   lang\ttips " {
		t.Fatalf("unexpected text: %q", m.Text())
	}
	tokens := m.Tokens()
	want := []string{"!google", "go", "lang", "tips"}
	if len(tokens) != len(want) {
		t.Fatalf("expected %d tokens, got %v", len(want), tokens)
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Fatalf("token %d: expected %q, got %q", i, want[i], tokens[i])
		}
	}
	if m.First() != "!google" {
		t.Fatalf("unexpected first token: %q", m.First())
	}
	if m.Rest() != "go lang tips" {
		t.Fatalf("unexpected rest: %q", m.Rest())
	}
}

func TestNew_EmptyInput(t *testing.T) {
	for _, raw := range []string{"", "   ", "\n\t"} {
		m := New(raw)
		if m.Len() != 0 {
			t.Fatalf("expected no tokens for %q, got %v", raw, m.Tokens())
		}
		if m.First() != "" || m.Rest() != "" {
			t.Fatalf("expected empty first/rest for %q", raw)
		}
	}
}

func TestTokens_ReturnsCopy(t *testing.T) {
	m := New("a b")
	tokens := m.Tokens()
	tokens[0] = "changed"
	if m.First() != "a" {
		t.Fatalf("message mutated through Tokens: %q", m.First())
	}
}
