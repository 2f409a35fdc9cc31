package commands

import (
	"fmt"
	"strings"

	"github.com/kolodychukcohen703-dotcom/ghost-sentinel-hub/internal/world"
)

var Map = Define(Definition{
	Name:        "map",
	Usage:       "!map",
	Description: "show the room's world and home snapshot",
}, func(ctx *Context) {
	ctx.Say(mapText(ctx))
})

func mapText(ctx *Context) string {
	var lines []string
	ctx.Cache().View(ctx.Room(), func(doc *world.Document) {
		lines = append(lines, fmt.Sprintf("== %s :: Map ==", ctx.Room()))

		lines = append(lines, "== Active World ==")
		if wid, w, ok := doc.ActiveWorld(); ok {
			lines = append(lines, fmt.Sprintf("%s — %s", wid, orDefault(w.Name, wid)))
			lines = append(lines, fmt.Sprintf("biome=%s | style=%s | size=%s",
				orDefault(w.Biome, "—"), orDefault(w.Style, "—"), orDefault(w.Size, "—")))
			lines = append(lines, fmt.Sprintf("population=%s | factions=%d | health=%v/10",
				groupDigits(w.Population), w.Factions, w.PlanetHealth))
			lines = append(lines, fmt.Sprintf("home_city=%s | weather=%s | mood=%s",
				orDefault(w.HomeCity, "—"), orDefault(w.Weather, "—"), orDefault(w.Mood, "—")))
		} else {
			lines = append(lines, "(none yet)  -> Try: !build world")
		}

		lines = append(lines, "", "== Saved Worlds ==", worldListLocked(doc), "")

		lines = append(lines, "== Active Home ==")
		home, ok := doc.Homes[doc.DefaultHomeID]
		if !ok {
			lines = append(lines, "(none yet)  -> Try: !home build or !home create")
		} else {
			lines = append(lines, home.Summary())
			if wid := orDefault(home.WorldID, doc.ActiveWorldID); wid != "" {
				label := wid
				if w, found := doc.Worlds[wid]; found && strings.TrimSpace(w.Name) != "" {
					label = fmt.Sprintf("%s (%s)", wid, w.Name)
				}
				lines = append(lines, "assigned_world="+label)
			}
			if where := home.Location.String(); where != "" {
				lines = append(lines, "location="+where)
			}
			if len(home.Rooms) > 0 {
				lines = append(lines, "", "== Rooms ==")
				for i, r := range home.Rooms {
					if i >= listDisplayMax {
						lines = append(lines, fmt.Sprintf("... +%d more", len(home.Rooms)-listDisplayMax))
						break
					}
					lines = append(lines, "- "+r.Name)
				}
			}
			if len(home.Doors) > 0 {
				lines = append(lines, "", "== Doors ==")
				for i, d := range home.Doors {
					if i >= listDisplayMax {
						lines = append(lines, fmt.Sprintf("... +%d more", len(home.Doors)-listDisplayMax))
						break
					}
					lines = append(lines, fmt.Sprintf("- %s -> %s", d.From, d.To))
				}
			}
		}

		lines = append(lines, "",
			"Tips: !world list, !world select <id|name>, !home move --to_world <id|name> --city 'X' --area 'Y' --pin 'Z'")
	})
	return strings.Join(lines, "\n")
}

var Status = Define(Definition{
	Name:        "status",
	Usage:       "!status",
	Description: "show world and home counts for this room",
}, func(ctx *Context) {
	here := ctx.Bot.RoomCounts()[ctx.Room()]
	var reply string
	ctx.Cache().View(ctx.Room(), func(doc *world.Document) {
		worldLine := "World: (none yet)"
		if _, w, ok := doc.ActiveWorld(); ok {
			worldLine = fmt.Sprintf("World: %s | biome=%s | factions=%d",
				orDefault(w.Name, "—"), orDefault(w.Biome, "—"), w.Factions)
		}
		roomCount, doorCount := 0, 0
		if home, ok := doc.Homes[doc.DefaultHomeID]; ok {
			roomCount = len(home.Rooms)
			doorCount = len(home.Doors)
		}
		reply = fmt.Sprintf("Status for %s\nOnline here: %d\n%s\nHomes: %d | Worlds: %d\nHome: %d room(s), %d door link(s)\nUpdated: %s",
			ctx.Room(), here, worldLine, len(doc.Homes), len(doc.Worlds),
			roomCount, doorCount, doc.UpdatedAt.UTC().Format("2006-01-02 15:04:05 UTC"))
	})
	ctx.Say(reply)
})

// usersDisplayMax caps the presence listing in chat output.
const usersDisplayMax = 60

var Users = Define(Definition{
	Name:        "users",
	Usage:       "!users",
	Description: "list who is online",
}, func(ctx *Context) {
	users := ctx.Bot.Users()
	lines := []string{fmt.Sprintf("Online users in %s: %d", ctx.Room(), len(users))}
	for i, u := range users {
		if i >= usersDisplayMax {
			break
		}
		sid := u.SID
		if len(sid) > 6 {
			sid = sid[:6]
		}
		lines = append(lines, fmt.Sprintf("- %s (%s)", u.Name, sid))
	}
	ctx.Say(strings.Join(lines, "\n"))
})

var Reset = Define(Definition{
	Name:        "reset",
	Usage:       "!reset",
	Description: "wipe this room's world and home state",
}, func(ctx *Context) {
	ctx.Cache().Reset(ctx.Room())
	ctx.Say("Reset complete. This room's world and home state is now blank.")
	ctx.Bot.WorldChanged()
})
