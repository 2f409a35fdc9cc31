package main

import (
	"flag"
	"log"
	"strings"

	"github.com/kolodychukcohen703-dotcom/ghost-sentinel-hub/commands"
	"github.com/kolodychukcohen703-dotcom/ghost-sentinel-hub/internal/hub"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP address to listen on")
	dataDir := flag.String("data", "data/worlds", "Directory for per-room world documents and logs")
	nodesPath := flag.String("nodes", "data/ghost_nodes.json", "Path to the node registry file")
	botName := flag.String("bot", "", "Display name for the command bot (defaults to ghost-bot)")
	flag.Parse()

	var options []hub.Option
	if trimmed := strings.TrimSpace(*botName); trimmed != "" {
		options = append(options, hub.WithBotName(trimmed))
	}

	if err := hub.ListenAndServe(*addr, *dataDir, *nodesPath, commands.Dispatch, options...); err != nil {
		log.Fatal(err)
	}
}
