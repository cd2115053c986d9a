package telegram

import "context"

// Update is one normalized incoming event: either a text message, a document
// upload or an inline-keyboard callback. Exactly one of Text, Document and
// Callback carries the payload.
type Update struct {
	ID     int64
	ChatID int64
	UserID int64

	Text     string
	Document *Document
	Callback *Callback
}

// Document describes an attached file. Bytes are fetched lazily through the
// Sender so oversized or wrong-typed attachments are rejected first.
type Document struct {
	FileID   string
	FileName string
	MIMEType string
}

// Callback is an inline-keyboard button press.
type Callback struct {
	ID   string
	Data string
}

// Button is one reply-keyboard button.
type Button struct {
	Label string
}

// ReplyKeyboard is a persistent keyboard shown under the input field. Rows is
// nil to leave the current keyboard untouched; Remove drops it.
type ReplyKeyboard struct {
	Rows   [][]Button
	Remove bool
}

// InlineButton is one inline-keyboard button; Data travels back in a Callback.
type InlineButton struct {
	Label string
	Data  string
}

// InlineKeyboard is a keyboard attached to a single message.
type InlineKeyboard struct {
	Rows [][]InlineButton
}

// Outgoing is one message to a chat.
type Outgoing struct {
	ChatID int64
	Text   string

	Reply  *ReplyKeyboard
	Inline *InlineKeyboard
}

// Sender delivers outgoing messages and fetches uploaded documents.
type Sender interface {
	Send(ctx context.Context, msg Outgoing) error
	// AnswerCallback acknowledges a callback so the client stops the spinner.
	AnswerCallback(ctx context.Context, callbackID string) error
	// DownloadDocument fetches the raw bytes of an uploaded file.
	DownloadDocument(ctx context.Context, fileID string) ([]byte, error)
}
