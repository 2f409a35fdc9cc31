package commands

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/kolodychukcohen703-dotcom/ghost-sentinel-hub/internal/hub"
)

const (
	// batchSeparator lets quick buttons send several commands in one line,
	// like "!map • !users".
	batchSeparator = "•"
	// maxBatchSegments bounds how many commands one line may carry. The line
	// is split once and segments are never re-split.
	maxBatchSegments = 8

	unknownReply = "Unknown command. Try: !help"
	parseReply   = "I couldn't parse that. Try: !help"
)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]*Command)
	ordered    []*Command
)

// Define registers a new command using the provided definition and handler.
// It panics when metadata is incomplete or duplicates an existing command.
func Define(def Definition, handler Handler) *Command {
	if handler == nil {
		panic("commands: handler must not be nil")
	}
	if strings.TrimSpace(def.Name) == "" {
		panic("commands: command must have a name")
	}

	cmd := &Command{Definition: def, Handler: handler}

	registryMu.Lock()
	defer registryMu.Unlock()

	registerName := func(name string) {
		key := strings.ToLower(name)
		if _, exists := registry[key]; exists {
			panic(fmt.Sprintf("commands: duplicate registration for %q", name))
		}
		registry[key] = cmd
	}

	registerName(def.Name)
	for _, alias := range def.Aliases {
		if strings.TrimSpace(alias) == "" {
			continue
		}
		registerName(alias)
	}

	ordered = append(ordered, cmd)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Name < ordered[j].Name
	})

	return cmd
}

// All returns the registered commands sorted by primary name.
func All() []*Command {
	registryMu.RLock()
	defer registryMu.RUnlock()

	out := make([]*Command, len(ordered))
	copy(out, ordered)
	return out
}

// Find looks a command up by name or alias.
func Find(name string) (*Command, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	cmd, ok := registry[strings.ToLower(name)]
	return cmd, ok
}

// Dispatch routes one chat line to its command handler. Lines not starting
// with the "!" sigil and lines typed by the bot itself are ignored. A line
// containing the batch separator is split into at most maxBatchSegments
// commands, each dispatched independently.
func Dispatch(bot *hub.BotContext, raw string) {
	line := strings.TrimSpace(raw)
	if !strings.HasPrefix(line, "!") {
		return
	}
	if strings.EqualFold(strings.TrimSpace(bot.User), bot.BotName()) {
		return
	}
	if strings.Contains(line, batchSeparator) {
		segments := strings.Split(line, batchSeparator)
		if len(segments) > maxBatchSegments {
			segments = segments[:maxBatchSegments]
		}
		for _, segment := range segments {
			dispatchOne(bot, strings.TrimSpace(segment))
		}
		return
	}
	dispatchOne(bot, line)
}

func dispatchOne(bot *hub.BotContext, line string) {
	if !strings.HasPrefix(line, "!") {
		return
	}
	tokens, err := SplitArgs(line)
	if err != nil {
		bot.Say(parseReply)
		return
	}
	if len(tokens) == 0 {
		return
	}
	name := strings.ToLower(strings.TrimPrefix(tokens[0], "!"))
	if name == "" {
		return
	}

	registryMu.RLock()
	cmd, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		bot.Say(unknownReply)
		return
	}

	ctx := &Context{
		Bot:     bot,
		Raw:     line,
		Args:    tokens[1:],
		Command: cmd,
	}
	cmd.Handler(ctx)
}
