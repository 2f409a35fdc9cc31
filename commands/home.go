package commands

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/kolodychukcohen703-dotcom/ghost-sentinel-hub/internal/world"
)

const homeUsage = "Usage:\n" +
	`!home create "name" --style <style> --size <size> --mood <mood>` + "\n" +
	"!home select <id>\n" +
	"!home list | !home mine | !home remove <id>\n" +
	"!home build --name ... --type ... --bedrooms N --bathrooms N\n" +
	`!home room add "Room" --style <style> --size <size>` + "\n" +
	`!home door add --from "Room A" --to "Room B"` + "\n" +
	"!home where\n" +
	`!home move --to_world <id|name> --city "X" --area "Y" --pin "Z"`

// listDisplayMax caps directory listings in chat output.
const listDisplayMax = 40

var HomeCmd = Define(Definition{
	Name:        "home",
	Usage:       "!home create|select|list|mine|remove|build|room|door|where|move",
	Description: "manage homes in the room's world",
}, func(ctx *Context) {
	args := append([]string(nil), ctx.Args...)
	sub := ""
	if len(args) > 0 {
		sub = strings.ToLower(args[0])
		args = args[1:]
	}
	switch sub {
	case "create":
		homeCreate(ctx, args)
	case "select":
		homeSelect(ctx, args)
	case "list", "ls", "dir", "directory", "all":
		ctx.Say(homesListText(ctx))
	case "mine":
		homeMine(ctx)
	case "remove", "rm":
		homeRemove(ctx, args)
	case "build":
		homeBuild(ctx, args)
	case "add":
		homeRoomAdd(ctx, args)
	case "room":
		if len(args) > 0 && strings.EqualFold(args[0], "add") {
			homeRoomAdd(ctx, args[1:])
		} else {
			ctx.Whisper(`Usage: !home room add "Room Name" [--style <style>] [--size <size>]`)
		}
	case "door":
		if len(args) > 0 && strings.EqualFold(args[0], "add") {
			homeDoorAdd(ctx, args[1:])
		} else {
			ctx.Whisper(`Usage: !home door add --from "Room A" --to "Room B"`)
		}
	case "where", "loc", "location":
		ctx.Say(homeWhereText(ctx))
	case "move":
		homeMove(ctx, args)
	default:
		ctx.Whisper(homeUsage)
	}
})

var Homes = Define(Definition{
	Name:        "homes",
	Usage:       "!homes",
	Description: "list homes in the room's world",
}, func(ctx *Context) {
	ctx.Say(homesListText(ctx))
})

func homeCreate(ctx *Context, args []string) {
	args = NormalizeFlags(args)
	style := Flag(&args, "--style")
	size := Flag(&args, "--size")
	mood := truncateRunes(strings.TrimSpace(Flag(&args, "--mood")), 8)
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		ctx.Whisper(`Usage: !home create "name/desc" --style X --size Y --mood Z`)
		return
	}

	var reply string
	ctx.Cache().Mutate(ctx.Room(), func(doc *world.Document) {
		home := &world.Home{
			ID:        doc.FreshHomeID(time.Now().UTC()),
			Name:      name,
			Desc:      name,
			Style:     style,
			Size:      size,
			Mood:      mood,
			CreatedBy: ctx.User(),
			CreatedAt: time.Now().UTC(),
			WorldID:   doc.ActiveWorldID,
			Rooms:     []world.HomeRoom{},
			Doors:     []world.Door{},
		}
		doc.AddHome(home)
		reply = "Home created & selected: " + home.Summary()
	})
	ctx.Say(reply)
	ctx.Bot.WorldChanged()
}

func homeSelect(ctx *Context, args []string) {
	id := strings.TrimPrefix(strings.TrimSpace(strings.Join(args, " ")), "#")
	var reply string
	ok := false
	ctx.Cache().Mutate(ctx.Room(), func(doc *world.Document) {
		home, found := doc.Homes[id]
		if id == "" || !found {
			return
		}
		doc.SelectHome(ctx.User(), id)
		reply = "Selected home: " + home.Summary()
		ok = true
	})
	if !ok {
		ctx.Whisper("Usage: !home select <id>  (see: !home list)")
		return
	}
	ctx.Say(reply)
}

func homesListText(ctx *Context) string {
	var lines []string
	ctx.Cache().View(ctx.Room(), func(doc *world.Document) {
		ids := doc.HomeIDs()
		if len(ids) == 0 {
			lines = []string{"Homes\n(no saved homes yet) — try !home build"}
			return
		}
		lines = append(lines, "Homes Directory")
		for i, id := range ids {
			if i >= listDisplayMax {
				lines = append(lines, fmt.Sprintf("... +%d more", len(ids)-listDisplayMax))
				break
			}
			home := doc.Homes[id]
			worldTxt := "—"
			if wid := orDefault(home.WorldID, doc.ActiveWorldID); wid != "" {
				worldTxt = wid
				if w, ok := doc.Worlds[wid]; ok && strings.TrimSpace(w.Name) != "" {
					worldTxt = fmt.Sprintf("%s (%s)", wid, w.Name)
				}
			}
			line := fmt.Sprintf("- %s: %s | owner=%s | world=%s",
				id, orDefault(home.Name, "(unnamed)"), orDefault(home.CreatedBy, "—"), worldTxt)
			if where := home.Location.String(); where != "" {
				line += " — " + where
			}
			lines = append(lines, line)
		}
	})
	return strings.Join(lines, "\n")
}

func homeMine(ctx *Context) {
	var mine []string
	ctx.Cache().View(ctx.Room(), func(doc *world.Document) {
		for _, id := range doc.HomeIDs() {
			home := doc.Homes[id]
			if strings.EqualFold(home.CreatedBy, ctx.User()) {
				mine = append(mine, home.Summary())
			}
			if len(mine) >= listDisplayMax {
				break
			}
		}
	})
	if len(mine) == 0 {
		ctx.Whisper("You haven't created any homes here yet.")
		return
	}
	ctx.Say("Your homes:\n" + strings.Join(mine, "\n"))
}

func homeRemove(ctx *Context, args []string) {
	id := strings.TrimPrefix(strings.TrimSpace(strings.Join(args, " ")), "#")
	var reply string
	denied := false
	found := false
	ctx.Cache().Mutate(ctx.Room(), func(doc *world.Document) {
		home, ok := doc.Homes[id]
		if id == "" || !ok {
			return
		}
		found = true
		if !doc.CanDeleteHome(ctx.User(), home) {
			denied = true
			return
		}
		doc.RemoveHome(id)
		reply = "Removed home #" + id + "."
	})
	switch {
	case !found:
		ctx.Whisper("Usage: !home remove <id>")
	case denied:
		ctx.Whisper("Only the home creator or a world manager can remove this home.")
	default:
		ctx.Say(reply)
		ctx.Bot.WorldChanged()
	}
}

// homeBuild generates a full home: a foyer, the requested kitchens,
// bedrooms, and bathrooms, themed fillers up to the room total, and doors
// from the foyer to every other room.
func homeBuild(ctx *Context, args []string) {
	args = NormalizeFlags(args)

	name := orDefault(Flag(&args, "--name"), "Untitled Home")
	homeType := orDefault(Flag(&args, "--type", "--kind"), "estate")
	style := orDefault(Flag(&args, "--style"), "mixed")
	mood := truncateRunes(orDefault(Flag(&args, "--mood"), "neutral"), 12)
	color := Flag(&args, "--color_sheen", "--color")

	bedrooms := intFrom(Flag(&args, "--bedrooms", "--bedroom"), 0)
	bathrooms := intFrom(Flag(&args, "--bathrooms"), 0)
	kitchens := intFrom(Flag(&args, "--kitchen", "--kitchens"), 1)
	totalRooms := intFrom(Flag(&args, "--total_rooms", "--rooms"), 0)
	if totalRooms <= 0 {
		totalRooms = 1 + maxInt(1, kitchens) + bedrooms + bathrooms + 2
	}

	foyer := "Entry Foyer"
	if strings.Contains(strings.ToLower(style), "goth") {
		foyer = "Marble Foyer"
	}

	rooms := []world.HomeRoom{{Name: foyer, Style: style, Size: "medium", Mood: mood}}
	rooms = append(rooms, numberedRooms("Kitchen", maxInt(1, kitchens), style, "medium", mood)...)
	rooms = append(rooms, numberedRooms("Bedroom", bedrooms, style, "medium", mood)...)
	rooms = append(rooms, numberedRooms("Bathroom", bathrooms, style, "small", mood)...)

	fillers := []string{
		"Library", "Lounge", "Observatory", "Workshop", "Garden Atrium",
		"Meditation Hall", "Arcade Nook", "Studio", "Sanctum", "Portal Chamber",
		"Dining Hall", "Gallery", "Bathhouse", "Sunroom", "Map Room",
	}
	rand.Shuffle(len(fillers), func(i, j int) { fillers[i], fillers[j] = fillers[j], fillers[i] })
	sizes := []string{"small", "medium", "large"}
	for len(rooms) < totalRooms {
		var roomName string
		if len(fillers) > 0 {
			roomName = fillers[0]
			fillers = fillers[1:]
		} else {
			roomName = fmt.Sprintf("Room %d", len(rooms)+1)
		}
		rooms = append(rooms, world.HomeRoom{
			Name:  roomName,
			Style: style,
			Size:  sizes[rand.Intn(len(sizes))],
			Mood:  mood,
		})
	}
	if len(rooms) > totalRooms {
		rooms = rooms[:totalRooms]
	}

	doors := make([]world.Door, 0, len(rooms))
	for _, r := range rooms[1:] {
		doors = append(doors, world.Door{From: foyer, To: r.Name, Type: "archway"})
	}

	var id string
	ctx.Cache().Mutate(ctx.Room(), func(doc *world.Document) {
		now := time.Now().UTC()
		desc := fmt.Sprintf("%s • style:%s", homeType, style)
		if strings.TrimSpace(color) != "" {
			desc += " • color:" + color
		}
		home := &world.Home{
			ID:         doc.FreshHomeID(now),
			Name:       name,
			Desc:       desc,
			Style:      style,
			Mood:       mood,
			Type:       homeType,
			Bedrooms:   bedrooms,
			Bathrooms:  bathrooms,
			Kitchens:   kitchens,
			TotalRooms: totalRooms,
			ColorSheen: color,
			CreatedBy:  orDefault(ctx.User(), "hub"),
			CreatedAt:  now,
			Rooms:      rooms,
			Doors:      doors,
		}
		if wid, w, ok := doc.ActiveWorld(); ok {
			home.WorldID = wid
			if home.Location.City == "" && strings.TrimSpace(w.HomeCity) != "" {
				home.Location.City = w.HomeCity
			}
		}
		doc.AddHome(home)
		doc.DefaultHomeID = home.ID
		id = home.ID
	})

	ctx.Say(fmt.Sprintf(
		"Built home: %s (%s) • bedrooms:%d • baths:%d • rooms:%d • style:%s • mood:%s • color:%s • id:%s",
		name, homeType, bedrooms, bathrooms, totalRooms, style, mood, color, id))
	ctx.Bot.WorldChanged()
}

func numberedRooms(base string, count int, style, size, mood string) []world.HomeRoom {
	out := make([]world.HomeRoom, 0, count)
	for i := 0; i < count; i++ {
		name := base
		if i > 0 {
			name = fmt.Sprintf("%s %d", base, i+1)
		}
		out = append(out, world.HomeRoom{Name: name, Style: style, Size: size, Mood: mood})
	}
	return out
}

func homeRoomAdd(ctx *Context, args []string) {
	args = NormalizeFlags(args)
	style := orDefault(Flag(&args, "--style"), "unknown")
	size := orDefault(Flag(&args, "--size"), "unknown")
	mood := Flag(&args, "--mood")
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		ctx.Whisper(`Usage: !home room add "Room Name" [--style <style>] [--size <size>]`)
		return
	}

	var reply string
	added := false
	ctx.Cache().Mutate(ctx.Room(), func(doc *world.Document) {
		home := doc.ActiveHome(ctx.Room(), ctx.User())
		if !home.AddRoom(world.HomeRoom{Name: name, Style: style, Size: size, Mood: mood}) {
			reply = "Room already exists: " + name
			return
		}
		reply = fmt.Sprintf("Added room: %s (style=%s, size=%s)", name, style, size)
		added = true
	})
	ctx.Say(reply)
	if added {
		ctx.Bot.WorldChanged()
	}
}

func homeDoorAdd(ctx *Context, args []string) {
	args = NormalizeFlags(args)
	from := Flag(&args, "--from")
	to := Flag(&args, "--to")
	doorType := orDefault(Flag(&args, "--type"), "archway")
	if from == "" || to == "" {
		ctx.Whisper(`Usage: !home door add --from "Room A" --to "Room B"`)
		return
	}

	var reply string
	added := false
	ctx.Cache().Mutate(ctx.Room(), func(doc *world.Document) {
		home := doc.ActiveHome(ctx.Room(), ctx.User())
		if !home.AddDoor(from, to, doorType) {
			reply = fmt.Sprintf("Door already exists: %s -> %s", from, to)
			return
		}
		reply = fmt.Sprintf("Linked: %s -> %s", from, to)
		added = true
	})
	ctx.Say(reply)
	if added {
		ctx.Bot.WorldChanged()
	}
}

func homeWhereText(ctx *Context) string {
	var lines []string
	ctx.Cache().View(ctx.Room(), func(doc *world.Document) {
		home, ok := doc.Homes[doc.DefaultHomeID]
		if !ok {
			lines = []string{"No home yet. Try: !home build"}
			return
		}
		lines = append(lines, "Home: "+orDefault(home.Name, "home"))
		wid := orDefault(home.WorldID, doc.ActiveWorldID)
		if wid != "" {
			label := wid
			if w, found := doc.Worlds[wid]; found && strings.TrimSpace(w.Name) != "" {
				label = fmt.Sprintf("%s (%s)", wid, w.Name)
			}
			lines = append(lines, "World: "+label)
		}
		where := home.Location.String()
		if where != "" {
			lines = append(lines, "Location: "+where)
		}
		if where == "" && wid == "" {
			lines = append(lines, "(not assigned yet)")
		}
	})
	return strings.Join(lines, "\n")
}

func homeMove(ctx *Context, args []string) {
	args = NormalizeFlags(args)
	toWorld := Flag(&args, "--to_world", "--world", "--to")
	city := Flag(&args, "--city")
	area := Flag(&args, "--area", "--geo", "--region")
	pin := Flag(&args, "--pin", "--pinpoint")

	var reply string
	notFound := false
	empty := false
	ctx.Cache().Mutate(ctx.Room(), func(doc *world.Document) {
		home, ok := doc.Homes[doc.DefaultHomeID]
		if !ok {
			empty = true
			return
		}
		if target := strings.TrimSpace(toWorld); target != "" {
			wid, found := doc.FindWorld(strings.Trim(target, `"`))
			if !found {
				notFound = true
				reply = "World not found.\n\n" + worldListLocked(doc)
				return
			}
			home.WorldID = wid
			doc.ActiveWorldID = wid
		} else if doc.ActiveWorldID != "" {
			home.WorldID = doc.ActiveWorldID
		}
		if city != "" {
			home.Location.City = strings.Trim(city, `"`)
		}
		if area != "" {
			home.Location.Area = strings.Trim(area, `"`)
		}
		if pin != "" {
			home.Location.Pin = strings.Trim(pin, `"`)
		}
	})
	switch {
	case empty:
		ctx.Whisper("No home yet. Try: !home build")
	case notFound:
		ctx.Say(reply)
	default:
		ctx.Say(homeWhereText(ctx))
		ctx.Bot.WorldChanged()
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
