package commands

import (
	"fmt"
	"strings"

	"github.com/kolodychukcohen703-dotcom/ghost-sentinel-hub/internal/world"
)

// worldClaim assigns the caller as owner of an unclaimed room.
func worldClaim(ctx *Context) {
	user := strings.TrimSpace(ctx.User())
	var owner string
	claimed := false
	ctx.Cache().Mutate(ctx.Room(), func(doc *world.Document) {
		owner = strings.TrimSpace(doc.Roles.Owner)
		if owner != "" {
			return
		}
		doc.Roles.Owner = user
		claimed = true
	})
	if !claimed {
		ctx.Whisper(fmt.Sprintf("Owner already set: @%s.", owner))
		return
	}
	ctx.Say(fmt.Sprintf("@%s claimed %s as owner.", user, ctx.Room()))
	ctx.Bot.RolesChanged()
}

func worldOwners(ctx *Context) {
	var reply string
	ctx.Cache().View(ctx.Room(), func(doc *world.Document) {
		owner := orDefault(strings.TrimSpace(doc.Roles.Owner), "—")
		helpers := "—"
		if len(doc.Roles.Helpers) > 0 {
			tagged := make([]string, len(doc.Roles.Helpers))
			for i, h := range doc.Roles.Helpers {
				tagged[i] = "@" + h
			}
			helpers = strings.Join(tagged, ", ")
		}
		reply = fmt.Sprintf("Owner: @%s | Helpers: %s", owner, helpers)
	})
	ctx.Whisper(reply)
}

func worldAddHelper(ctx *Context, args []string) {
	target := strings.TrimPrefix(strings.TrimSpace(strings.Join(args, " ")), "@")
	if target == "" {
		ctx.Whisper("Usage: !world addhelper @name")
		return
	}
	var reply string
	added := false
	ctx.Cache().Mutate(ctx.Room(), func(doc *world.Document) {
		switch {
		case strings.TrimSpace(doc.Roles.Owner) == "":
			reply = "No owner set yet. Use !world claim first."
		case !doc.Roles.IsOwner(ctx.User()):
			reply = "Only the world owner can add helpers."
		default:
			if !doc.Roles.IsHelper(target) {
				doc.Roles.Helpers = append(doc.Roles.Helpers, target)
			}
			added = true
		}
	})
	if !added {
		ctx.Whisper(reply)
		return
	}
	ctx.Say(fmt.Sprintf("Added helper @%s.", target))
	ctx.Bot.RolesChanged()
}

func worldDelHelper(ctx *Context, args []string) {
	target := strings.TrimPrefix(strings.TrimSpace(strings.Join(args, " ")), "@")
	if target == "" {
		ctx.Whisper("Usage: !world delhelper @name")
		return
	}
	var reply string
	removed := false
	ctx.Cache().Mutate(ctx.Room(), func(doc *world.Document) {
		switch {
		case strings.TrimSpace(doc.Roles.Owner) == "":
			reply = "No owner set yet."
		case !doc.Roles.IsOwner(ctx.User()):
			reply = "Only the world owner can remove helpers."
		default:
			kept := doc.Roles.Helpers[:0]
			for _, h := range doc.Roles.Helpers {
				if !strings.EqualFold(h, target) {
					kept = append(kept, h)
				}
			}
			doc.Roles.Helpers = kept
			removed = true
		}
	})
	if !removed {
		ctx.Whisper(reply)
		return
	}
	ctx.Say(fmt.Sprintf("Removed helper @%s.", target))
	ctx.Bot.RolesChanged()
}

var Claim = Define(Definition{
	Name:        "claim",
	Usage:       "!claim",
	Description: "claim this room's world as owner",
}, worldClaim)

var Owners = Define(Definition{
	Name:        "owners",
	Aliases:     []string{"owner"},
	Usage:       "!owners",
	Description: "show the world owner and helpers",
}, worldOwners)

var AddHelper = Define(Definition{
	Name:        "addhelper",
	Usage:       "!addhelper @name",
	Description: "add a world helper (owner only)",
}, func(ctx *Context) { worldAddHelper(ctx, ctx.Args) })

var DelHelper = Define(Definition{
	Name:        "delhelper",
	Usage:       "!delhelper @name",
	Description: "remove a world helper (owner only)",
}, func(ctx *Context) { worldDelHelper(ctx, ctx.Args) })
