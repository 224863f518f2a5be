package telegram

// Client is the messaging channel's send primitive.
// Implementations return the channel error unchanged; callers classify it.
type Client interface {
	SendText(chatID int64, text string) error
}
