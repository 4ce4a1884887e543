package main

import (
	"fmt"
	"math/rand"
	"strings"
)

// The bot speaks the house dialect: scissors are "cisor".
var moves = []string{"rock", "paper", "cisor"}

// roundsPerSet is how many rounds make a set. Whoever took more rounds
// takes the set.
const roundsPerSet = 5

func chooseMove() string {
	return moves[rand.Intn(len(moves))]
}

func isMoveToken(t string) bool {
	switch t {
	case "rock", "paper", "cisor", "scissors":
		return true
	}
	return false
}

// parseMove pulls a move token out of a message. Trailing punctuation is
// tolerated, and "scissors" normalizes to "cisor".
func parseMove(message string) (string, bool) {
	for _, word := range strings.Fields(strings.ToLower(message)) {
		word = strings.TrimRight(word, ".,!?")
		if isMoveToken(word) {
			if word == "scissors" {
				word = "cisor"
			}
			return word, true
		}
	}
	return "", false
}

// compareMoves says how the player did: 1 win, -1 loss, 0 tie.
func compareMoves(player, bot string) int {
	if player == bot {
		return 0
	}

	beats := map[string]string{
		"rock":  "cisor",
		"paper": "rock",
		"cisor": "paper",
	}

	if beats[player] == bot {
		return 1
	}
	return -1
}

// playSoloRound plays one round for the player, updates the stats, and
// returns the lines to send back. A finished set appends the scoreboard
// and resets the round counters.
func playSoloRound(nick string, p *PlayerStats, playerMove, botMove string) []string {
	outcome := compareMoves(playerMove, botMove)

	switch outcome {
	case 1:
		p.addWin()
	case -1:
		p.addLoss()
	default:
		p.addTie()
	}
	p.Played++

	result := fmt.Sprintf("I choose %s; you played %s", botMove, playerMove)
	switch outcome {
	case 1:
		result += " -- you win"
	case -1:
		result += " -- you lose"
	default:
		result += " -- tie"
	}

	lines := []string{result}

	if p.Played >= roundsPerSet {
		if p.Wins > p.Losses {
			p.SetsWon++
		} else if p.Losses > p.Wins {
			p.BotSetsWon++
		}
		lines = append(lines, scoreboard(nick, p)...)
		p.resetSetCounters()
	}

	return lines
}
