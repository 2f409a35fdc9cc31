package commands

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/kolodychukcohen703-dotcom/ghost-sentinel-hub/internal/world"
)

var Build = Define(Definition{
	Name:        "build",
	Usage:       "!build world|home --name ...",
	Description: "generate a world or home with auto stats",
}, func(ctx *Context) {
	args := append([]string(nil), ctx.Args...)
	sub := ""
	if len(args) > 0 {
		sub = strings.ToLower(args[0])
		args = args[1:]
	}
	switch sub {
	case "world":
		buildWorld(ctx, args)
	case "home":
		homeBuild(ctx, args)
	default:
		ctx.Whisper("Usage:\n" +
			`!build world --name "Ryoko World" --biome forest-suburbs --style mixed --size large` + "\n" +
			`!build home --name "Marble Haven" --type bungalow --bedrooms 3 --bathrooms 2 --style alien`)
	}
})

// buildWorld generates a world record. Population, factions, age, and planet
// health are randomized each time; a supplied value acts as a loose anchor
// but is still jittered.
func buildWorld(ctx *Context, args []string) {
	args = NormalizeFlags(args)

	name := orDefault(Flag(&args, "--name"), "Unnamed World")
	biome := orDefault(Flag(&args, "--biome"), "unknown")
	style := orDefault(Flag(&args, "--style"), "unknown")
	size := orDefault(Flag(&args, "--size"), "medium")
	weather := orDefault(Flag(&args, "--weather"), "variable")
	mood := orDefault(Flag(&args, "--mood"), "neutral")
	homeCity := orDefault(Flag(&args, "--home_city", "--home-city"), "capital")

	popRaw := Flag(&args, "--population")
	factionsRaw := Flag(&args, "--factions")
	ageRaw := Flag(&args, "--age_of_world", "--age")
	healthRaw := Flag(&args, "--health_of_planet", "--health")

	popAnchor := intFrom(popRaw, 0)
	if popAnchor <= 0 {
		popAnchor = populationAnchor(size)
	}
	population := int(math.Max(0, math.Round(float64(popAnchor)*randFloat(0.7, 1.35))))

	facAnchor := intFrom(factionsRaw, 0)
	if facAnchor <= 0 {
		facAnchor = rand.Intn(5) + 2
	}
	factions := clampInt(facAnchor+[]int{-1, 0, 0, 1, 2}[rand.Intn(5)], 1, 12)

	ageAnchor := floatFrom(ageRaw, 0)
	if ageAnchor <= 0 {
		ageAnchor = randFloat(1.2, 8.5)
	}
	age := roundTo(clampFloat(ageAnchor*randFloat(0.75, 1.25), 0.1, 14.0), 2)

	healthAnchor := floatFrom(healthRaw, 0)
	if healthAnchor <= 0 {
		healthAnchor = randFloat(4.0, 8.0)
	}
	health := roundTo(clampFloat(healthAnchor+randFloat(-1.2, 1.2), 0, 10), 1)

	var id string
	ctx.Cache().Mutate(ctx.Room(), func(doc *world.Document) {
		id = doc.FreshWorldID()
		doc.Worlds[id] = &world.WorldInfo{
			Name:            name,
			Biome:           biome,
			Style:           style,
			Size:            size,
			Population:      population,
			HomeCity:        homeCity,
			Weather:         weather,
			Mood:            mood,
			AgeBillionYears: age,
			PlanetHealth:    health,
			Factions:        factions,
			CreatedAt:       time.Now().UTC(),
		}
		doc.ActiveWorldID = id
	})

	ctx.Say(fmt.Sprintf(
		"World built: %s\n"+
			"- biome: %s | style: %s | size: %s\n"+
			"- population: %s | factions: %d\n"+
			"- home city: %s | weather: %s | mood: %s\n"+
			"- age: %v billion years | planet health: %v/10\n\n"+
			"Use !map to view the snapshot and !users to see who's online.",
		name, biome, style, size, groupDigits(population), factions,
		homeCity, weather, mood, age, health))
	ctx.Bot.WorldChanged()
}

func populationAnchor(size string) int {
	lowered := strings.ToLower(size)
	switch {
	case strings.Contains(lowered, "small"):
		return randInt(800, 15000)
	case strings.Contains(lowered, "large"):
		return randInt(12000, 250000)
	case strings.Contains(lowered, "mega"), strings.Contains(lowered, "huge"):
		return randInt(200000, 6000000)
	default:
		return randInt(5000, 80000)
	}
}

func randInt(lo, hi int) int {
	return lo + rand.Intn(hi-lo+1)
}

func randFloat(lo, hi float64) float64 {
	return lo + rand.Float64()*(hi-lo)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
