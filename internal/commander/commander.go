package commander

// Commander is the chat platform boundary used by the bot loop.
type Commander interface {
	GetUpdates(offset int64, timeout int) ([]Update, error)
	SendMessage(chatID int64, text string) error
}

// Update represents an incoming message or an edit of an earlier one.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message,omitempty"`
	// Edited marks updates carrying the new text of an edited message.
	Edited bool `json:"-"`
}

// Message represents a source message.
type Message struct {
	MessageID int64   `json:"message_id"`
	Chat      Chat    `json:"chat"`
	Text      *string `json:"text,omitempty"`
	Date      int64   `json:"date"`
	EditDate  int64   `json:"edit_date,omitempty"`
}

// Chat identifies a conversation.
type Chat struct {
	ID int64 `json:"id"`
}
