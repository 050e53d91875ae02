package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"croupier/bot"

	log "github.com/sirupsen/logrus"
)

// ConsoleHost is a minimal line-based chat host for local development.
// Each stdin line is:
//
//	<channel> <user>[:everyone|moderator|broadcaster] <command> [params...]
//
// Outbound messages are printed to stdout.
type ConsoleHost struct {
	commands chan bot.Command
}

// NewConsoleHost creates a console host and starts reading stdin
func NewConsoleHost() *ConsoleHost {
	h := &ConsoleHost{commands: make(chan bot.Command)}
	go h.readLoop()
	return h
}

func (h *ConsoleHost) Send(channel, text string) {
	fmt.Printf("[%s] %s\n", channel, text)
}

func (h *ConsoleHost) Commands() <-chan bot.Command {
	return h.commands
}

func (h *ConsoleHost) readLoop() {
	defer close(h.commands)

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 {
			continue
		}

		h.commands <- bot.Command{
			Name:    fields[2],
			Channel: fields[0],
			Sender:  parseConsoleUser(fields[1]),
			Params:  fields[3:],
		}
	}

	if err := scanner.Err(); err != nil {
		log.WithError(err).Error("Failed to read from stdin")
	}
}

func parseConsoleUser(s string) bot.User {
	name, levelName, _ := strings.Cut(s, ":")

	level := bot.PermissionEveryone
	switch levelName {
	case "moderator":
		level = bot.PermissionModerator
	case "broadcaster":
		level = bot.PermissionBroadcaster
	}

	return bot.User{Username: name, Level: level}
}
