package main

import "fmt"

// Room is a two player match refereed by the bot. Players submit moves
// privately; once both chose, the bot scores the round.
type Room struct {
	Name string

	Player1 string
	Player2 string

	Choice1 string
	Choice2 string

	Player1Wins  int
	Player2Wins  int
	RoundTies    int
	RoundsPlayed int

	SetsWonP1 int
	SetsWonP2 int
}

func NewRoom(name string) *Room {
	return &Room{Name: name}
}

func (r *Room) isEmpty() bool {
	return r.Player1 == "" && r.Player2 == ""
}

func (r *Room) hasPlayer(nick string) bool {
	return nick != "" && (r.Player1 == nick || r.Player2 == nick)
}

// addPlayer seats a player if there is a free seat.
func (r *Room) addPlayer(nick string) bool {
	if r.hasPlayer(nick) {
		return false
	}
	if r.Player1 == "" {
		r.Player1 = nick
		return true
	}
	if r.Player2 == "" {
		r.Player2 = nick
		return true
	}
	return false
}

func (r *Room) removePlayer(nick string) {
	if r.Player1 == nick {
		r.Player1 = ""
		r.Choice1 = ""
	}
	if r.Player2 == nick {
		r.Player2 = ""
		r.Choice2 = ""
	}
}

// isReady means both seats are taken and play can proceed.
func (r *Room) isReady() bool {
	return r.Player1 != "" && r.Player2 != ""
}

func (r *Room) setChoice(nick, choice string) bool {
	if r.Player1 == nick {
		r.Choice1 = choice
		return true
	}
	if r.Player2 == nick {
		r.Choice2 = choice
		return true
	}
	return false
}

func (r *Room) bothChose() bool {
	return r.isReady() && r.Choice1 != "" && r.Choice2 != ""
}

func (r *Room) clearChoices() {
	r.Choice1 = ""
	r.Choice2 = ""
}

// scoreRound compares the stored choices. outcome follows compareMoves
// with player 1 in the player seat.
func (r *Room) scoreRound() int {
	outcome := compareMoves(r.Choice1, r.Choice2)

	switch outcome {
	case 1:
		r.Player1Wins++
	case -1:
		r.Player2Wins++
	default:
		r.RoundTies++
	}
	r.RoundsPlayed++

	return outcome
}

// setOver reports whether the current set has run its rounds.
func (r *Room) setOver() bool {
	return r.RoundsPlayed >= roundsPerSet
}

// concludeSet awards the set and resets round counters.
func (r *Room) concludeSet() string {
	winner := ""
	if r.Player1Wins > r.Player2Wins {
		r.SetsWonP1++
		winner = r.Player1
	} else if r.Player2Wins > r.Player1Wins {
		r.SetsWonP2++
		winner = r.Player2
	}

	r.Player1Wins = 0
	r.Player2Wins = 0
	r.RoundTies = 0
	r.RoundsPlayed = 0
	r.clearChoices()

	if winner == "" {
		return fmt.Sprintf("Set over in %s: a draw", r.Name)
	}
	return fmt.Sprintf("Set over in %s: %s takes the set (%d-%d overall)",
		r.Name, winner, r.SetsWonP1, r.SetsWonP2)
}

// roomSeat is one row of the head-to-head scoreboard.
type roomSeat struct {
	Nick string

	// Own round wins, opponent's round wins, shared ties.
	Wins   int
	Losses int
	Ties   int

	Games int
	Sets  int
}

// scoreboardLines renders the head-to-head table for the scoreboard
// command. Seats rank by set wins, then round wins, then ties, then
// nickname.
func (r *Room) scoreboardLines() []string {
	first := roomSeat{
		Nick:   r.Player1,
		Wins:   r.Player1Wins,
		Losses: r.Player2Wins,
		Ties:   r.RoundTies,
		Games:  r.RoundsPlayed,
		Sets:   r.SetsWonP1,
	}
	second := roomSeat{
		Nick:   r.Player2,
		Wins:   r.Player2Wins,
		Losses: r.Player1Wins,
		Ties:   r.RoundTies,
		Games:  r.RoundsPlayed,
		Sets:   r.SetsWonP2,
	}

	if second.outranks(first) {
		first, second = second, first
	}

	border := "+------+----------------------+-----+-----+-----+--------+------+"
	lines := []string{
		border,
		"| Rank | Player               |  W  |  L  |  T  | Games  | Sets |",
		border,
	}
	for rank, seat := range []roomSeat{first, second} {
		lines = append(lines, fmt.Sprintf(
			"|  %d   | %-20s | %3d | %3d | %3d | %6d | %4d |",
			rank+1, seat.Nick, seat.Wins, seat.Losses, seat.Ties,
			seat.Games, seat.Sets))
	}

	return append(lines, border)
}

// outranks compares two seats: set wins descending, then round wins
// descending, then ties descending, then nickname ascending.
func (s roomSeat) outranks(other roomSeat) bool {
	if s.Sets != other.Sets {
		return s.Sets > other.Sets
	}
	if s.Wins != other.Wins {
		return s.Wins > other.Wins
	}
	if s.Ties != other.Ties {
		return s.Ties > other.Ties
	}
	return s.Nick < other.Nick
}

// status is the one line answer to !room status.
func (r *Room) status() string {
	p1, p2 := r.Player1, r.Player2
	if p1 == "" {
		p1 = "(open)"
	}
	if p2 == "" {
		p2 = "(open)"
	}
	return fmt.Sprintf("Room %s: %s vs %s, round %d/%d, sets %d-%d",
		r.Name, p1, p2, r.RoundsPlayed+1, roundsPerSet, r.SetsWonP1,
		r.SetsWonP2)
}
