package commands

import (
	tele "gopkg.in/telebot.v4"
)

// Command represents a bot command with its handler, description, and metadata.
// AdminOnly restricts the command to the primary admin; StaffOnly allows the
// configured support accounts as well.
type Command struct {
	Handler     tele.HandlerFunc
	Description string
	AdminOnly   bool
	StaffOnly   bool
	Hidden      bool
	Aliases     []string
}
