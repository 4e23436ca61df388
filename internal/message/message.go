package message

import "strings"

// Message is an incoming chat message prepared for classification.
type Message struct {
	raw    string
	text   string
	tokens []string
}

// New normalizes raw: the full text is lowercased and split on whitespace.
func New(raw string) Message {
	text := strings.ToLower(raw)
	return Message{
		raw:    raw,
		text:   text,
		tokens: strings.Fields(text),
	}
}

// Raw returns the text as received.
func (m Message) Raw() string { return m.raw }

// Text returns the lowercased text.
func (m Message) Text() string { return m.text }

// Tokens returns a copy of the whitespace-delimited tokens.
func (m Message) Tokens() []string {
	out := make([]string, len(m.tokens))
	copy(out, m.tokens)
	return out
}

// Len reports the number of tokens.
func (m Message) Len() int { return len(m.tokens) }

// First returns the first token, or "" when there are none.
func (m Message) First() string {
	if len(m.tokens) == 0 {
		return ""
	}
	return m.tokens[0]
}

// Rest joins every token after the first with single spaces.
func (m Message) Rest() string {
	if len(m.tokens) < 2 {
		return ""
	}
	return strings.Join(m.tokens[1:], " ")
}
