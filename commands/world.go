package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/kolodychukcohen703-dotcom/ghost-sentinel-hub/internal/world"
)

var World = Define(Definition{
	Name:        "world",
	Usage:       "!world create|list|select",
	Description: "manage the room's saved worlds",
}, worldHandler)

const worldUsage = "Usage:\n" +
	"!world create <name> [--biome <biome>] [--factions <n>]\n" +
	"!world list\n" +
	"!world select <id|name>\n" +
	"!world claim / !world owners\n" +
	"!world addhelper @name / !world delhelper @name"

func worldHandler(ctx *Context) {
	args := append([]string(nil), ctx.Args...)
	sub := ""
	if len(args) > 0 {
		sub = strings.ToLower(args[0])
		args = args[1:]
	}
	switch sub {
	case "create":
		worldCreate(ctx, args)
	case "list", "ls":
		ctx.Say("Saved Worlds\n" + worldListText(ctx))
	case "select", "use":
		worldSelect(ctx, args)
	case "claim":
		worldClaim(ctx)
	case "owners", "owner":
		worldOwners(ctx)
	case "addhelper":
		worldAddHelper(ctx, args)
	case "delhelper":
		worldDelHelper(ctx, args)
	default:
		ctx.Whisper(worldUsage)
	}
}

func worldCreate(ctx *Context, args []string) {
	args = NormalizeFlags(args)
	name := Flag(&args, "--name")
	if name == "" && len(args) > 0 {
		name = strings.Join(args, " ")
		args = nil
	}
	name = orDefault(strings.TrimSpace(name), "Unnamed World")
	biome := orDefault(Flag(&args, "--biome"), "unknown")
	factions := intFrom(Flag(&args, "--factions"), 0)

	var reply string
	ctx.Cache().Mutate(ctx.Room(), func(doc *world.Document) {
		id := doc.FreshWorldID()
		doc.Worlds[id] = &world.WorldInfo{
			Name:      name,
			Biome:     biome,
			Factions:  factions,
			CreatedAt: time.Now().UTC(),
		}
		doc.ActiveWorldID = id
		reply = fmt.Sprintf("World created: %s (biome=%s, factions=%d)", name, biome, factions)
	})
	ctx.Say(reply)
	ctx.Bot.WorldChanged()
}

func worldSelect(ctx *Context, args []string) {
	if len(args) == 0 {
		var reply string
		ctx.Cache().View(ctx.Room(), func(doc *world.Document) {
			if id, w, ok := doc.ActiveWorld(); ok {
				reply = fmt.Sprintf("Active world: %s — %s\n\n%s", id, orDefault(w.Name, id), worldListLocked(doc))
			} else {
				reply = "No active world yet. Try: !build world"
			}
		})
		ctx.Say(reply)
		return
	}
	target := strings.Trim(strings.Join(args, " "), `"`)
	var reply string
	changed := false
	ctx.Cache().Mutate(ctx.Room(), func(doc *world.Document) {
		id, ok := doc.FindWorld(target)
		if !ok {
			reply = "World not found.\n\n" + worldListLocked(doc)
			return
		}
		doc.ActiveWorldID = id
		w := doc.Worlds[id]
		reply = fmt.Sprintf("Active world set: %s — %s", id, orDefault(w.Name, id))
		changed = true
	})
	ctx.Say(reply)
	if changed {
		ctx.Bot.WorldChanged()
	}
}

func worldListText(ctx *Context) string {
	var text string
	ctx.Cache().View(ctx.Room(), func(doc *world.Document) {
		text = worldListLocked(doc)
	})
	return text
}

// worldListLocked renders the worlds directory. Callers hold the document
// lock via Mutate or View.
func worldListLocked(doc *world.Document) string {
	ids := doc.WorldIDs()
	if len(ids) == 0 {
		return "(no saved worlds yet)"
	}
	lines := make([]string, 0, len(ids))
	for _, id := range ids {
		w := doc.Worlds[id]
		marker := " "
		if id == doc.ActiveWorldID {
			marker = "*"
		}
		lines = append(lines, fmt.Sprintf("%s %s — %s (biome=%s)",
			marker, id, orDefault(w.Name, id), orDefault(w.Biome, "unknown")))
	}
	return strings.Join(lines, "\n")
}

var Worlds = Define(Definition{
	Name:        "worlds",
	Usage:       "!worlds",
	Description: "list the room's saved worlds",
}, func(ctx *Context) {
	ctx.Say("Saved Worlds\n" + worldListText(ctx))
})
