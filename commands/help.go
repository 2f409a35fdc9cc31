package commands

import "strings"

const helpText = `Ghost Hub Bot Help
Commands start with "!". Batch several at once with "•", like: !map • !users

Core
- !help — this help
- !help world — world builder commands + examples
- !help home — home builder commands + examples
- !help <command> — usage for one command
- !status — world and home counts for this room
- !users — list who is online
- !map — show the current world + home snapshot
- !reset — wipe this room's world and home state

World (quick)
- !build world --name "World Name" --biome forest --style new-age --size large --home city "Turnpoint" --weather cosmic --mood enlightened
- !world create <name> — create a world seed
- !world list / !worlds — saved worlds
- !world select <id|name> — set the active world
- !world claim / !world owners / !world addhelper @name / !world delhelper @name

Home (quick)
- !home create "name" --style cozy --size small --mood calm
- !home build --name "title" --type bungalow --bedrooms 3 --bathrooms 2 --kitchen 1 --total rooms 8 --style alien --mood calm --color sheen "blue white"
- !home room add "Observatory" --style brass --size medium
- !home door add --from "Entry Foyer" --to "Observatory"
- !home where / !home move --to_world <id|name> --city "X" --area "Y" --pin "Z"`

const helpWorld = `World Builder — Help + Examples

Create with auto stats (population, factions, age, and planet health are
randomized; any value you pass is used as a loose anchor):
- !build world --name "Ryoko World" --biome forest-suburbs --style mixed --size large
- !build world --name "blazy suzan" --biome forest --style new-age --size large --population "30,000" --home city "turnpoint" --weather cosmic --mood enlightened --age_of_world "3.4" --health_of_planet "5.5"

Quick seed
- !world create Ryoko-Delta --biome coast

Manage
- !world list
- !world select <id|name>

Snapshot
- !map`

const helpHome = `Home Builder — Help + Examples

Create estate
- !home create "Homeforge-Mansion" --style gothic --size large --mood calm

Intricate build (auto-layout: foyer, kitchens, bedrooms, bathrooms, themed
fillers, doors from the foyer to every room)
- !home build --name "Marble Haven" --type bungalow --bedrooms 3 --bathrooms 2 --kitchen 1 --total rooms 8 --style alien --mood calm --color sheen "blue white"

Add rooms and doors
- !home room add "Atrium" --style "sunlit marble" --size large
- !home door add --from "Atrium" --to "Observatory"

Manage
- !home select <id>
- !home list / !homes / !home mine
- !home remove <id>   (creator or world manager only)
- !home where
- !home move --to_world <id|name> --city "X" --area "Y" --pin "Z"`

var Help = Define(Definition{
	Name:        "help",
	Aliases:     []string{"commands"},
	Usage:       "!help [world|home|<command>]",
	Description: "show command help",
}, func(ctx *Context) {
	args := append([]string(nil), ctx.Args...)
	sub := strings.ToLower(strings.TrimPrefix(Positional(&args), "!"))
	switch sub {
	case "world":
		ctx.Say(helpWorld)
	case "home":
		ctx.Say(helpHome)
	case "":
		ctx.Say(helpText + "\n\n" + commandIndex())
	default:
		if cmd, ok := Find(sub); ok {
			ctx.Say(cmd.Usage + " — " + cmd.Description)
			return
		}
		ctx.Say(helpText + "\n\n" + commandIndex())
	}
})

// commandIndex renders the one-line registry listing appended to the main
// help screen.
func commandIndex() string {
	cmds := All()
	names := make([]string, 0, len(cmds))
	for _, cmd := range cmds {
		names = append(names, "!"+cmd.Name)
	}
	return "Registered: " + strings.Join(names, ", ")
}
