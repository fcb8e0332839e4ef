// Package chat owns the conversation transcript and submits messages to the
// chatbot backend.
package chat

// Sender identifies who wrote a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// FailureText replaces the bot reply whenever a chat request fails.
const FailureText = "Error: Could not connect to the chatbot. Please ensure the backend server is running."

// Message is one transcript entry. Entries have no identity beyond their
// position in the transcript.
type Message struct {
	Text    string `json:"text"`
	Sender  Sender `json:"sender"`
	IsError bool   `json:"isError,omitempty"`
}

// UserMessage builds a user entry.
func UserMessage(text string) Message {
	return Message{Text: text, Sender: SenderUser}
}

// BotMessage builds a successful bot entry.
func BotMessage(text string) Message {
	return Message{Text: text, Sender: SenderBot}
}

// FailureMessage builds the bot entry shown when a request fails.
func FailureMessage() Message {
	return Message{Text: FailureText, Sender: SenderBot, IsError: true}
}
