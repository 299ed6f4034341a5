package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

// Command defines a bot command with its handler key and Telegram menu description.
type Command struct {
	Name        string // Command name without slash (e.g., "categories")
	Description string // Description shown in Telegram command menu
}

// botCommands defines all available bot commands.
// This is the single source of truth for command definitions.
var botCommands = []Command{
	{Name: "categories", Description: "Manage the category tree"},
	{Name: "addcat", Description: "Add a root category"},
	{Name: "import", Description: "Bulk import categories from CSV"},
	{Name: "stores", Description: "List stores"},
	{Name: "addstore", Description: "Add a store"},
	{Name: "items", Description: "List items"},
	{Name: "additem", Description: "Add an item"},
	{Name: "orders", Description: "List orders"},
	{Name: "logs", Description: "Show sync logs"},
	{Name: "martlogs", Description: "Show GrabMart logs"},
	{Name: "summary", Description: "Connector totals"},
	{Name: "login", Description: "Log in to the connector"},
	{Name: "logout", Description: "Log out"},
	{Name: "cancel", Description: "Cancel the current input"},
	{Name: "help", Description: "Show all commands"},
}

// RegisterCommands sets the bot's command menu in Telegram.
// This should be called once at startup.
func RegisterCommands(tg *tgbotapi.BotAPI) {
	commands := make([]tgbotapi.BotCommand, len(botCommands))
	for i, cmd := range botCommands {
		commands[i] = tgbotapi.BotCommand{
			Command:     cmd.Name,
			Description: cmd.Description,
		}
	}

	config := tgbotapi.NewSetMyCommands(commands...)
	if _, err := tg.Request(config); err != nil {
		log.Error().Err(err).Msg("failed to set bot commands")
	} else {
		log.Info().Int("count", len(commands)).Msg("registered bot commands")
	}
}
