package main

import (
	"fmt"
	"log"
	"net"
	"time"

	"github.com/horgh/irc"
)

// Client holds state about a single client connection, from accept all the
// way through registration and beyond. registered is true once PASS, NICK,
// and USER have all been accepted.
type Client struct {
	// Conn is the TCP connection to the client.
	Conn Conn

	// WriteChan is the channel to send to to write to the client. It
	// carries fully formatted lines, CRLF included.
	WriteChan chan string

	// Locally unique identifier.
	ID uint64

	Server *Server

	ConnectionStartTime time.Time

	// Track if we overflow our send queue. If we do, we'll kill the client.
	SendQueueExceeded bool

	// Registration state.
	PassAccepted bool
	NickSet      bool
	UserSet      bool
	Registered   bool

	// Whether we sent the how-to-register notice block.
	Greeted bool

	// Identity. Hostname is always the peer IP, no matter what USER said.
	Nickname string
	Username string
	Hostname string
	RealName string
}

// NewClient creates a Client.
func NewClient(s *Server, id uint64, conn net.Conn) *Client {
	c := &Client{
		Conn: NewConn(conn),
		ID:   id,

		// Buffered channel. We don't want to block sending to the client
		// from the server. The client may be stuck. Make the buffer large
		// enough that it should only max out in case of connection issues.
		WriteChan: make(chan string, s.Config.SendQueueSize),

		ConnectionStartTime: time.Now(),
		Server:              s,
	}

	c.Hostname = c.Conn.IP.String()

	return c
}

func (c *Client) String() string {
	return fmt.Sprintf("%d %s", c.ID, c.Conn.RemoteAddr())
}

func (c *Client) nickUhost() string {
	return fmt.Sprintf("%s!%s@%s", c.Nickname, c.Username, c.Hostname)
}

// displayNick is the target to use in numerics: * until a nickname exists.
func (c *Client) displayNick() string {
	if len(c.Nickname) > 0 {
		return c.Nickname
	}
	return "*"
}

// queueLine queues an already formatted line to the client. We send it to
// its write channel, which in turn leads to writing it to its TCP socket.
//
// This function won't block. If the client's queue is full, we flag it as
// having a full send queue and it gets cut off.
//
// Note: Only the server goroutine should call this (due to channel use).
func (c *Client) queueLine(line string) {
	if c.SendQueueExceeded || len(line) == 0 {
		return
	}

	select {
	case c.WriteChan <- line:
	default:
		c.SendQueueExceeded = true
	}
}

// maybeQueueMessage encodes and queues a message. Encoding truncates
// anything over the line length cap, which is what we want on output.
func (c *Client) maybeQueueMessage(m irc.Message) {
	buf, err := m.Encode()
	if err != nil && err != irc.ErrTruncated {
		log.Printf("Client %s: Unable to encode message: %s", c, err)
		return
	}

	c.queueLine(buf)
}

// messageFromServer sends an IRC message to the client that appears to come
// from the server.
//
// Note: Only the server goroutine should call this (due to channel use).
func (c *Client) messageFromServer(command string, params []string) {
	// For numeric messages, we need to prepend the nick.
	// Use * for the nick in cases where the client doesn't have one yet.
	if isNumericCommand(command) {
		newParams := []string{c.displayNick()}
		newParams = append(newParams, params...)
		params = newParams
	}

	c.maybeQueueMessage(irc.Message{
		Prefix:  c.Server.Config.ServerName,
		Command: command,
		Params:  params,
	})
}

// lineFromClient builds a wire line whose source is this client
// (:nick!user@host COMMAND ...), for broadcasting into channels or handing
// to another client.
func (c *Client) lineFromClient(command string, params []string) string {
	m := irc.Message{
		Prefix:  c.nickUhost(),
		Command: command,
		Params:  params,
	}

	buf, err := m.Encode()
	if err != nil && err != irc.ErrTruncated {
		log.Printf("Client %s: Unable to encode message: %s", c, err)
		return ""
	}

	return buf
}

// lineFromClientTrailing is lineFromClient for commands whose last
// argument is freeform text. The text always gets the : marker, even when
// it is one word or empty, the way PRIVMSG/PART/KICK/TOPIC/QUIT lines are
// expected to look.
func (c *Client) lineFromClientTrailing(command string, params []string,
	trailing string) string {
	s := ":" + c.nickUhost() + " " + command
	for _, param := range params {
		s += " " + param
	}
	s += " :" + trailing

	return formatReplyLine(s)
}

// messageClient sends an IRC message to another client, from this client.
//
// Note: Only the server goroutine should call this (due to channel use).
func (c *Client) messageClient(to *Client, command string, params []string) {
	to.queueLine(c.lineFromClient(command, params))
}

// greet sends the how-to-register notice block. New connections get it once,
// right after accept, unless they turned out to be an HTTP probe.
func (c *Client) greet() {
	if c.Greeted {
		return
	}
	c.Greeted = true

	lines := []string{
		":ircserv NOTICE * :Welcome! Please register in this exact order:",
		":ircserv NOTICE * :  PASS <server-password>",
		":ircserv NOTICE * :  NICK <nickname>",
		":ircserv NOTICE * :  USER <user> 0 * :<real name>",
		":ircserv NOTICE * :Then #JOIN channels and chat. Commands must be UPPERCASE.",
	}
	for _, line := range lines {
		c.queueLine(formatReplyLine(line))
	}
}

// httpVerbs are the request starts that mark a connection as a web browser
// poking at us rather than an IRC client.
var httpVerbs = []string{
	"GET ", "POST ", "HEAD ", "PUT ", "DELETE ", "OPTIONS ", "TRACE ",
	"CONNECT ",
}

func looksLikeHTTP(buf []byte) bool {
	for _, verb := range httpVerbs {
		if len(buf) < len(verb) {
			continue
		}
		if string(buf[:len(verb)]) == verb {
			return true
		}
	}
	return false
}

const httpProbeResponse = "HTTP/1.1 200 OK\r\n" +
	"Content-Type: text/plain\r\n" +
	"\r\n" +
	"This is an IRC server mate ;)\r\n"

// checkHTTPProbe peeks at the first bytes from the connection. If they look
// like an HTTP request we answer with a canned 200 and report true, meaning
// the connection is done. IRC bytes stay buffered for the regular reader.
func (c *Client) checkHTTPProbe() bool {
	buf, err := c.Conn.Peek(8)
	if err != nil {
		// Connection problems surface again on the first real read.
		return false
	}

	if !looksLikeHTTP(buf) {
		return false
	}

	if err := c.Conn.Write(httpProbeResponse); err != nil {
		log.Printf("Client %s: %s", c, err)
	}

	return true
}

// readLoop endlessly reads from the client's TCP connection. It parses each
// IRC protocol message and passes it to the server through the server's
// channel.
func (c *Client) readLoop() {
	defer c.Server.WG.Done()

	if c.checkHTTPProbe() {
		// The server never learned about this connection, so nothing else
		// will ever send to it. Closing the write channel tears it down.
		close(c.WriteChan)
		return
	}

	c.Server.newEvent(Event{Type: NewClientEvent, Client: c})

	for {
		if c.Server.isShuttingDown() {
			break
		}

		buf, err := c.Conn.Read()
		if err != nil {
			log.Printf("Client %s: %s", c, err)
			c.Server.newEvent(Event{Type: DeadClientEvent, Client: c})
			break
		}

		message, err := parseMessage(buf)
		if err != nil {
			// Blank frames are silently discarded.
			continue
		}

		c.Server.newEvent(Event{
			Type:    MessageFromClientEvent,
			Client:  c,
			Message: message,
		})
	}

	log.Printf("Client %s: Reader shutting down.", c)
}

// writeLoop endlessly reads from the client's channel and writes each line
// to the client's TCP connection.
//
// When the channel is closed, or if we have a write error, close the TCP
// connection. I have this here so that we try to deliver messages to the
// client before closing its socket and giving up.
func (c *Client) writeLoop() {
	defer c.Server.WG.Done()

	// Also stop if the server is shutting down (indicated by ShutdownChan
	// closing), else we could leak this goroutine when a new client's event
	// never gets seen by a server that is on its way out.
Loop:
	for {
		select {
		case line, ok := <-c.WriteChan:
			if !ok {
				break Loop
			}

			if err := c.Conn.Write(line); err != nil {
				// Peer reset mid-write is routine. Note it and let the
				// server clean us up.
				log.Printf("Client %s: %s", c, err)
				c.Server.newEvent(Event{Type: DeadClientEvent, Client: c})
				break Loop
			}
		case <-c.Server.ShutdownChan:
			break Loop
		}
	}

	if err := c.Conn.Close(); err != nil {
		log.Printf("Client %s: Problem closing connection: %s", c, err)
	}

	log.Printf("Client %s: Writer shutting down.", c)
}

// quit cleans the client out of the server: channel memberships (with QUIT
// broadcast if registered), nick index, client table, and finally the
// connection itself.
//
// Note: Only the server goroutine should call this (due to closing channel).
func (c *Client) quit(msg string) {
	// May already be cleaning up.
	if _, exists := c.Server.Clients[c.ID]; !exists {
		return
	}

	if c.Registered {
		quitLine := c.lineFromClientTrailing("QUIT", nil, msg)

		for _, channel := range c.Server.channelsWith(c) {
			channel.broadcast(quitLine, c)
			channel.removeMember(c)
			c.Server.destroyChannelIfEmpty(channel)
		}
	}

	if len(c.Nickname) > 0 {
		delete(c.Server.Nicks, canonicalizeNick(c.Nickname))
	}

	c.queueLine(formatReplyLine("ERROR :Closing link: " + msg))

	delete(c.Server.Clients, c.ID)

	close(c.WriteChan)
}
