package main

import (
	"strings"
	"testing"
)

func TestRoomSeating(t *testing.T) {
	r := NewRoom("lab")

	if !r.isEmpty() {
		t.Fatalf("fresh room not empty")
	}
	if r.isReady() {
		t.Fatalf("empty room ready")
	}

	if !r.addPlayer("alice") {
		t.Fatalf("first seat refused")
	}
	if r.addPlayer("alice") {
		t.Errorf("seated player seated twice")
	}
	if !r.addPlayer("bob") {
		t.Fatalf("second seat refused")
	}
	if !r.isReady() {
		t.Errorf("full room not ready")
	}

	if r.addPlayer("carol") {
		t.Errorf("third player seated in a two player room")
	}

	r.removePlayer("alice")
	if r.hasPlayer("alice") {
		t.Errorf("removed player still seated")
	}
	if r.isReady() {
		t.Errorf("half empty room still ready")
	}

	r.removePlayer("bob")
	if !r.isEmpty() {
		t.Errorf("room not empty after both left")
	}
}

func TestRoomRound(t *testing.T) {
	r := NewRoom("lab")
	r.addPlayer("alice")
	r.addPlayer("bob")

	r.setChoice("alice", "rock")
	if r.bothChose() {
		t.Fatalf("bothChose with one choice in")
	}

	r.setChoice("bob", "cisor")
	if !r.bothChose() {
		t.Fatalf("bothChose missed the second choice")
	}

	outcome := r.scoreRound()
	if outcome != 1 {
		t.Errorf("scoreRound() = %d, wanted 1 (rock beats cisor)", outcome)
	}
	if r.Player1Wins != 1 || r.RoundsPlayed != 1 {
		t.Errorf("round not recorded: %+v", r)
	}

	r.clearChoices()
	if r.bothChose() {
		t.Errorf("choices survived clearChoices")
	}
}

func TestRoomSetConclusion(t *testing.T) {
	r := NewRoom("lab")
	r.addPlayer("alice")
	r.addPlayer("bob")

	for i := 0; i < roundsPerSet; i++ {
		r.setChoice("alice", "rock")
		r.setChoice("bob", "cisor")
		r.scoreRound()
		r.clearChoices()
	}

	if !r.setOver() {
		t.Fatalf("set not over after %d rounds", roundsPerSet)
	}

	conclusion := r.concludeSet()
	if !strings.Contains(conclusion, "alice takes the set") {
		t.Errorf("conclusion = %q", conclusion)
	}
	if r.SetsWonP1 != 1 {
		t.Errorf("SetsWonP1 = %d, wanted 1", r.SetsWonP1)
	}
	if r.RoundsPlayed != 0 || r.Player1Wins != 0 {
		t.Errorf("round counters not reset: %+v", r)
	}
}

func TestBotDispatch(t *testing.T) {
	b := &Bot{
		stats:      map[string]*PlayerStats{},
		rooms:      map[string]*Room{},
		playerRoom: map[string]string{},
	}

	// Help, not a move.
	replies := b.dispatch("alice", "help")
	if len(replies) == 0 || !strings.Contains(replies[0], "rock") {
		t.Errorf("help replies = %q", replies)
	}

	// An unparseable message gets a hint.
	replies = b.dispatch("alice", "what do I do")
	if len(replies) != 1 ||
		!strings.Contains(replies[0], "didn't catch a move") {
		t.Errorf("hint replies = %q", replies)
	}

	// A solo move plays a round and records stats.
	replies = b.dispatch("alice", "rock")
	if len(replies) == 0 || !strings.Contains(replies[0], "you played rock") {
		t.Errorf("round replies = %q", replies)
	}
	if b.stats["alice"].Played != 1 {
		t.Errorf("solo round not recorded")
	}

	// Scoreboard on request.
	replies = b.dispatch("alice", "score please")
	if len(replies) != 5 {
		t.Errorf("scoreboard replies = %q", replies)
	}
}

func TestBotRoomFlow(t *testing.T) {
	b := &Bot{
		stats:      map[string]*PlayerStats{},
		rooms:      map[string]*Room{},
		playerRoom: map[string]string{},
	}

	replies := b.dispatch("alice", "!room create lab")
	if len(replies) != 1 || !strings.Contains(replies[0], "Room lab created") {
		t.Fatalf("create replies = %q", replies)
	}

	// Room moves wait for a second player.
	replies = b.dispatch("alice", "play rock")
	if len(replies) != 1 || !strings.Contains(replies[0], "Not enough") {
		t.Errorf("lone move replies = %q", replies)
	}

	replies = b.dispatch("bob", "!room join lab")
	if len(replies) != 2 {
		t.Fatalf("join replies = %q", replies)
	}
	if !strings.HasPrefix(replies[1], "alice\x00") {
		t.Errorf("opponent was not notified: %q", replies)
	}

	// A bare move still plays solo, room seat or not.
	replies = b.dispatch("alice", "rock")
	if len(replies) == 0 || !strings.Contains(replies[0], "you played rock") {
		t.Errorf("bare move replies = %q", replies)
	}
	if b.stats["alice"].Played != 1 {
		t.Errorf("bare move did not play solo: %+v", b.stats["alice"])
	}
	if b.rooms["lab"].Choice1 != "" {
		t.Errorf("bare move leaked into the room")
	}

	// Room rounds go through play: the first move locks in, the second
	// scores the round for both players.
	replies = b.dispatch("alice", "play rock")
	if len(replies) != 1 || !strings.Contains(replies[0], "locked in") {
		t.Errorf("first move replies = %q", replies)
	}

	replies = b.dispatch("bob", "play cisor")
	if len(replies) != 2 {
		t.Fatalf("round replies = %q", replies)
	}
	for _, reply := range replies {
		if !strings.Contains(reply, "alice wins the round") {
			t.Errorf("round result = %q", reply)
		}
	}

	room := b.rooms["lab"]
	if room.Player1Wins != 1 {
		t.Errorf("round not recorded: %+v", room)
	}

	// Status and leave.
	replies = b.dispatch("alice", "!room status")
	if len(replies) != 1 || !strings.Contains(replies[0], "alice vs bob") {
		t.Errorf("status replies = %q", replies)
	}

	b.dispatch("alice", "!room leave")
	b.dispatch("bob", "!room leave")
	if len(b.rooms) != 0 {
		t.Errorf("empty room not dropped")
	}

	// Outside a room, play points at the room commands.
	replies = b.dispatch("alice", "play rock")
	if len(replies) != 1 || !strings.Contains(replies[0], "Join a room") {
		t.Errorf("roomless play replies = %q", replies)
	}
}

func TestRoomScoreboardRanking(t *testing.T) {
	// Equal records rank by nickname.
	r := NewRoom("lab")
	r.addPlayer("zoe")
	r.addPlayer("adam")

	lines := r.scoreboardLines()
	if len(lines) != 6 {
		t.Fatalf("scoreboard has %d lines, wanted 6", len(lines))
	}
	if !strings.Contains(lines[3], "1") || !strings.Contains(lines[3], "adam") {
		t.Errorf("rank 1 row = %q, wanted adam", lines[3])
	}
	if !strings.Contains(lines[4], "zoe") {
		t.Errorf("rank 2 row = %q, wanted zoe", lines[4])
	}

	// Set wins outrank everything.
	r.SetsWonP1 = 1
	lines = r.scoreboardLines()
	if !strings.Contains(lines[3], "zoe") {
		t.Errorf("rank 1 row = %q, wanted zoe on set wins", lines[3])
	}

	// With sets level, round wins break the tie.
	r.SetsWonP2 = 1
	r.Player2Wins = 2
	lines = r.scoreboardLines()
	if !strings.Contains(lines[3], "adam") {
		t.Errorf("rank 1 row = %q, wanted adam on round wins", lines[3])
	}

	// W and L columns mirror each other across the seats.
	if !strings.Contains(lines[3], "|   2 |   0 |") {
		t.Errorf("rank 1 row = %q, wanted W=2 L=0", lines[3])
	}
	if !strings.Contains(lines[4], "|   0 |   2 |") {
		t.Errorf("rank 2 row = %q, wanted W=0 L=2", lines[4])
	}
}

func TestBotRoomScoreboardCommand(t *testing.T) {
	b := &Bot{
		stats:      map[string]*PlayerStats{},
		rooms:      map[string]*Room{},
		playerRoom: map[string]string{},
	}

	// Not in a room: the command is distinct from the personal score.
	replies := b.dispatch("alice", "scoreboard")
	if len(replies) != 1 || !strings.Contains(replies[0], "not in a room") {
		t.Fatalf("roomless scoreboard replies = %q", replies)
	}

	b.dispatch("alice", "!room create lab")

	// A half-empty room has no standings yet.
	replies = b.dispatch("alice", "scoreboard")
	if len(replies) != 1 || !strings.Contains(replies[0], "not enough") {
		t.Fatalf("half-empty scoreboard replies = %q", replies)
	}

	b.dispatch("bob", "!room join lab")
	b.dispatch("alice", "play rock")
	b.dispatch("bob", "play cisor")

	// The table goes to both players, line by line.
	replies = b.dispatch("alice", "scoreboard")
	if len(replies) != 12 {
		t.Fatalf("scoreboard replies = %q", replies)
	}
	for i, reply := range replies {
		target := "alice"
		if i%2 == 1 {
			target = "bob"
		}
		if !strings.HasPrefix(reply, target+"\x00") {
			t.Errorf("reply %d targets wrongly: %q", i, reply)
		}
	}

	// alice took the round, so she ranks first.
	rank1 := strings.SplitN(replies[6], "\x00", 2)[1]
	if !strings.Contains(rank1, "alice") {
		t.Errorf("rank 1 row = %q, wanted alice", rank1)
	}
}
