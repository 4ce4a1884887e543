package main

import "fmt"

// PlayerStats tracks one player's record against the bot. Round counters
// reset at the end of each set; set counters persist for the session.
type PlayerStats struct {
	Wins   int
	Losses int
	Ties   int
	Played int

	SetsWon    int
	BotSetsWon int
}

func (p *PlayerStats) addWin()  { p.Wins++ }
func (p *PlayerStats) addLoss() { p.Losses++ }
func (p *PlayerStats) addTie()  { p.Ties++ }

// resetSetCounters clears the per-round counters when a set concludes.
func (p *PlayerStats) resetSetCounters() {
	p.Wins = 0
	p.Losses = 0
	p.Ties = 0
	p.Played = 0
}

// scoreboard renders the player's table, one row, ASCII borders. Lines are
// sent one per PRIVMSG.
func scoreboard(nick string, p *PlayerStats) []string {
	border := "+----------------------+-----+-----+-----+------+-----+"
	return []string{
		border,
		"| Player               |  W  |  L  |  T  | Sets |BotS |",
		border,
		fmt.Sprintf("| %-20s | %3d | %3d | %3d | %4d | %3d |",
			nick, p.Wins, p.Losses, p.Ties, p.SetsWon, p.BotSetsWon),
		border,
	}
}
