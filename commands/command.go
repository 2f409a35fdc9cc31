package commands

import (
	"github.com/kolodychukcohen703-dotcom/ghost-sentinel-hub/internal/hub"
	"github.com/kolodychukcohen703-dotcom/ghost-sentinel-hub/internal/world"
)

// Definition describes a single bot command's metadata.
type Definition struct {
	Name        string
	Aliases     []string
	Usage       string
	Description string
}

// Handler executes a command against its context.
type Handler func(*Context)

// Command couples metadata with the executable handler.
type Command struct {
	Definition
	Handler Handler
}

// Context provides the runtime data available to a command handler: the bot
// hooks for the room the command was typed in, the raw line, and the tokens
// following the command name.
type Context struct {
	Bot     *hub.BotContext
	Raw     string
	Args    []string
	Command *Command
}

// Say emits a response to the whole room, attributed to the bot.
func (ctx *Context) Say(msg string) { ctx.Bot.Say(msg) }

// Whisper emits a response to the requester only. Usage errors and
// permission denials go here so they never land in shared history.
func (ctx *Context) Whisper(msg string) { ctx.Bot.Whisper(msg) }

// Room returns the chat room the command was typed in.
func (ctx *Context) Room() world.Key { return ctx.Bot.Room }

// User returns the display name of whoever typed the command.
func (ctx *Context) User() string { return ctx.Bot.User }

// Cache returns the world document cache.
func (ctx *Context) Cache() *world.Cache { return ctx.Bot.Cache() }
