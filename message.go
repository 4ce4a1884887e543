package main

import (
	"errors"
	"strings"

	"github.com/horgh/irc"
)

// maxReplyLength is the maximum outbound line length, CRLF included.
const maxReplyLength = 512

var errEmptyMessage = errors.New("empty message")

// parseMessage parses one inbound frame into an irc.Message.
//
// This is deliberately not irc.ParseMessage. Clients of this server get
// answered with 421 if they send a lowercase command, so the command token
// must come out exactly as sent, and we accept bare-LF line endings and
// sloppy spacing where the library does not. The message structure is the
// same:
//
//	[':' prefix SPACE] command (SPACE param)* [SPACE ':' trailing]
//
// A leading prefix is tolerated and recorded but the dispatcher ignores it.
func parseMessage(line string) (irc.Message, error) {
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")

	// Per-message length cap. Anything past it is dropped on the floor.
	if len(line) > maxReplyLength-2 {
		line = line[:maxReplyLength-2]
	}

	if len(line) == 0 {
		return irc.Message{}, errEmptyMessage
	}

	m := irc.Message{}
	pos := 0

	if line[0] == ':' {
		idx := strings.IndexByte(line, ' ')
		if idx == -1 {
			// Prefix only. Nothing to dispatch.
			return irc.Message{}, errEmptyMessage
		}
		m.Prefix = line[1:idx]
		pos = idx + 1
	}

	for pos < len(line) && line[pos] == ' ' {
		pos++
	}
	if pos >= len(line) {
		return irc.Message{}, errEmptyMessage
	}

	// Command token, case preserved.
	end := strings.IndexByte(line[pos:], ' ')
	if end == -1 {
		m.Command = line[pos:]
		return m, nil
	}
	m.Command = line[pos : pos+end]
	pos += end + 1

	for pos < len(line) {
		if line[pos] == ' ' {
			pos++
			continue
		}

		if line[pos] == ':' {
			// Trailing parameter. Runs to the end of the message and may
			// contain spaces.
			m.Params = append(m.Params, line[pos+1:])
			break
		}

		end := strings.IndexByte(line[pos:], ' ')
		if end == -1 {
			m.Params = append(m.Params, line[pos:])
			break
		}
		m.Params = append(m.Params, line[pos:pos+end])
		pos += end + 1
	}

	return m, nil
}

// formatReplyLine makes a string safe to put on the wire: exactly one CRLF
// terminator and at most 512 bytes. Overlong payloads are cut at 510 bytes
// and re-terminated.
func formatReplyLine(s string) string {
	if !strings.HasSuffix(s, "\r\n") {
		s += "\r\n"
	}

	if len(s) > maxReplyLength {
		s = s[:maxReplyLength-2] + "\r\n"
	}

	return s
}
