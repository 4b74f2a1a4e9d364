package bot

import "context"

// Bot is one chat transport bound to a single persona.
type Bot interface {
	Start(ctx context.Context) error
	Send(chatID int64, message string) error
}
