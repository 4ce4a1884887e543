/*
 * Rock/paper/scissors game bot.
 *
 * A plain IRC client. It registers with the server password like any
 * other client and plays whoever messages it directly. It knows nothing
 * about the server's internals.
 */

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/lrstanley/girc"
)

// Bot holds the connection and the game state, keyed by nickname.
type Bot struct {
	client *girc.Client

	// Handlers may fire from girc's goroutines, so the game state is
	// guarded.
	mu         sync.Mutex
	stats      map[string]*PlayerStats
	rooms      map[string]*Room
	playerRoom map[string]string
}

func main() {
	log.SetFlags(0)

	server := flag.String("server", "127.0.0.1", "Server host.")
	port := flag.Int("port", 6667, "Server port.")
	password := flag.String("password", "", "Server password.")
	nick := flag.String("nick", "rpsbot", "Bot nickname.")

	flag.Parse()

	if len(*password) == 0 {
		fmt.Fprintf(os.Stderr, "you must provide the server password\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	bot := &Bot{
		stats:      map[string]*PlayerStats{},
		rooms:      map[string]*Room{},
		playerRoom: map[string]string{},
	}

	bot.client = girc.New(girc.Config{
		Server:     *server,
		Port:       *port,
		ServerPass: *password,
		Nick:       *nick,
		User:       *nick,
		Name:       "rock paper scissors bot",
	})

	bot.client.Handlers.Add(girc.CONNECTED,
		func(c *girc.Client, e girc.Event) {
			log.Printf("Connected to %s:%d as %s", *server, *port,
				c.GetNick())
		})

	bot.client.Handlers.Add(girc.PRIVMSG,
		func(c *girc.Client, e girc.Event) {
			bot.handlePrivmsg(c, e)
		})

	if err := bot.client.Connect(); err != nil {
		log.Printf("Connection error: %s", err)
		os.Exit(1)
	}
}

// handlePrivmsg reacts to direct messages. Channel traffic is not the
// bot's business.
func (b *Bot) handlePrivmsg(c *girc.Client, e girc.Event) {
	if e.Source == nil || len(e.Params) < 2 {
		return
	}

	// Only direct messages count.
	if e.Params[0] != c.GetNick() {
		return
	}

	sender := e.Source.Name
	message := e.Last()

	b.mu.Lock()
	replies := b.dispatch(sender, message)
	b.mu.Unlock()

	for _, reply := range replies {
		target := sender
		if idx := strings.IndexByte(reply, '\x00'); idx != -1 {
			// Replies addressed to the other player carry the target up
			// front.
			target = reply[:idx]
			reply = reply[idx+1:]
		}
		c.Cmd.Message(target, reply)
	}
}

// dispatch figures out what the player wants. Structured commands (!room,
// scoreboard, play) come first; then score/help keywords; a bare move
// token always plays solo, even for a player seated in a room.
func (b *Bot) dispatch(sender, message string) []string {
	words := strings.Fields(message)
	if len(words) > 0 {
		switch strings.ToLower(words[0]) {
		case "!room":
			return b.handleRoomCommand(sender, words)
		case "scoreboard":
			return b.roomScoreboard(sender)
		case "play":
			if len(words) < 2 {
				return []string{"Usage: play <rock|paper|cisor>"}
			}
			return b.handlePlay(sender, words[1])
		}
	}

	lower := strings.ToLower(message)

	if strings.Contains(lower, "score") {
		return scoreboard(sender, b.statsFor(sender))
	}

	if strings.Contains(lower, "help") {
		return []string{
			"Play: message me rock, paper, or cisor.",
			"score shows your scoreboard. Sets are best of " +
				fmt.Sprintf("%d", roundsPerSet) + " rounds.",
			"Multiplayer: !room create NAME, !room join NAME, " +
				"!room status, !room leave. In a room, play rounds with " +
				"play <move> and see the standings with scoreboard.",
		}
	}

	move, ok := parseMove(message)
	if !ok {
		return []string{"I didn't catch a move. Try rock, paper, or cisor " +
			"(help for more)."}
	}

	return playSoloRound(sender, b.statsFor(sender), move, chooseMove())
}

// handlePlay submits a move to the sender's room.
func (b *Bot) handlePlay(sender, token string) []string {
	roomName, exists := b.playerRoom[sender]
	if !exists {
		return []string{"Join a room first: !room create NAME or " +
			"!room join NAME"}
	}

	move, ok := parseMove(token)
	if !ok {
		return []string{"Invalid move. Use rock, paper, or cisor."}
	}

	return b.handleRoomMove(sender, roomName, move)
}

// roomScoreboard answers the scoreboard command: the sender's room as a
// ranked head-to-head table, sent to both players.
func (b *Bot) roomScoreboard(sender string) []string {
	roomName, exists := b.playerRoom[sender]
	if !exists {
		return []string{"You're not in a room. Use !room status or the " +
			"personal score."}
	}

	room := b.rooms[roomName]
	if room == nil || !room.isReady() {
		return []string{"There are not enough players in the room."}
	}

	var replies []string
	for _, line := range room.scoreboardLines() {
		replies = append(replies, to(room.Player1, line),
			to(room.Player2, line))
	}
	return replies
}

func (b *Bot) statsFor(nick string) *PlayerStats {
	p, exists := b.stats[nick]
	if !exists {
		p = &PlayerStats{}
		b.stats[nick] = p
	}
	return p
}

// to prefixes a reply line with its target. handlePrivmsg peels it off.
func to(target, line string) string {
	return target + "\x00" + line
}

func (b *Bot) handleRoomCommand(sender string, words []string) []string {
	usage := []string{
		"Room commands: !room create NAME, !room join NAME, " +
			"!room status, !room leave",
	}

	if len(words) < 2 {
		return usage
	}

	switch strings.ToLower(words[1]) {
	case "create":
		if len(words) < 3 {
			return usage
		}
		return b.createRoom(sender, words[2])
	case "join":
		if len(words) < 3 {
			return usage
		}
		return b.joinRoom(sender, words[2])
	case "status":
		return b.roomStatus(sender)
	case "leave":
		return b.leaveRoom(sender)
	}

	return usage
}

func (b *Bot) createRoom(sender, name string) []string {
	if _, exists := b.rooms[name]; exists {
		return []string{fmt.Sprintf("Room %s already exists, join it with "+
			"!room join %s", name, name)}
	}

	b.leaveCurrentRoom(sender)

	room := NewRoom(name)
	room.addPlayer(sender)
	b.rooms[name] = room
	b.playerRoom[sender] = name

	return []string{fmt.Sprintf("Room %s created. Waiting for an opponent "+
		"(!room join %s).", name, name)}
}

func (b *Bot) joinRoom(sender, name string) []string {
	room, exists := b.rooms[name]
	if !exists {
		return []string{fmt.Sprintf("No room named %s. Create it with "+
			"!room create %s", name, name)}
	}

	if room.hasPlayer(sender) {
		return []string{fmt.Sprintf("You are already in %s.", name)}
	}

	b.leaveCurrentRoom(sender)

	if !room.addPlayer(sender) {
		return []string{fmt.Sprintf("Room %s is full.", name)}
	}
	b.playerRoom[sender] = name

	replies := []string{fmt.Sprintf("Joined %s. Send your move when "+
		"ready.", name)}

	other := room.Player1
	if other == sender {
		other = room.Player2
	}
	if other != "" {
		replies = append(replies, to(other,
			fmt.Sprintf("%s joined %s. Send your move when ready.", sender,
				name)))
	}

	return replies
}

func (b *Bot) roomStatus(sender string) []string {
	name, exists := b.playerRoom[sender]
	if !exists {
		return []string{"You are not in a room."}
	}
	return []string{b.rooms[name].status()}
}

func (b *Bot) leaveRoom(sender string) []string {
	if _, exists := b.playerRoom[sender]; !exists {
		return []string{"You are not in a room."}
	}
	b.leaveCurrentRoom(sender)
	return []string{"You left the room."}
}

// leaveCurrentRoom unseats the player wherever they are, dropping the room
// once empty.
func (b *Bot) leaveCurrentRoom(nick string) {
	name, exists := b.playerRoom[nick]
	if !exists {
		return
	}

	delete(b.playerRoom, nick)

	room := b.rooms[name]
	if room == nil {
		return
	}

	room.removePlayer(nick)
	if room.isEmpty() {
		delete(b.rooms, name)
	}
}

func (b *Bot) handleRoomMove(sender, roomName, move string) []string {
	room := b.rooms[roomName]
	if room == nil {
		delete(b.playerRoom, sender)
		return []string{"Your room is gone. Create a new one with " +
			"!room create NAME"}
	}

	if !room.isReady() {
		return []string{fmt.Sprintf("Not enough players in %s yet.",
			roomName)}
	}

	room.setChoice(sender, move)

	if !room.bothChose() {
		return []string{"Move locked in. Waiting for your opponent."}
	}

	p1, p2 := room.Player1, room.Player2
	c1, c2 := room.Choice1, room.Choice2

	outcome := room.scoreRound()
	room.clearChoices()

	result := fmt.Sprintf("%s played %s, %s played %s", p1, c1, p2, c2)
	switch outcome {
	case 1:
		result += fmt.Sprintf(" -- %s wins the round", p1)
	case -1:
		result += fmt.Sprintf(" -- %s wins the round", p2)
	default:
		result += " -- tie"
	}

	replies := []string{to(p1, result), to(p2, result)}

	if room.setOver() {
		conclusion := room.concludeSet()
		replies = append(replies, to(p1, conclusion), to(p2, conclusion))
	}

	return replies
}
