/*
 * IRC daemon.
 *
 * A standalone RFC 1459/2812 style chat server. One goroutine owns all
 * server state and consumes events; each connection gets a reader and a
 * writer goroutine. There is no locking because there is only one
 * mutating goroutine.
 */

package main

import (
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/horgh/irc"
	"github.com/pkg/errors"
)

// Server holds the state for a server: every connection, the nickname and
// channel indices, and the immutable server metadata.
type Server struct {
	Config *Config

	// When the server started. Reported in 003.
	Created string

	// Client id to Client. Every live connection is here, registered or not.
	Clients map[uint64]*Client

	// Canonicalized nickname to Client. Only registered clients are here.
	Nicks map[string]*Client

	// Canonicalized channel name to Channel.
	Channels map[string]*Channel

	// Events tell the server goroutine what to do.
	EventChan chan Event

	// ShutdownChan closes to tell every goroutine to end.
	ShutdownChan chan struct{}

	WG sync.WaitGroup

	listener net.Listener

	nextClientID uint64

	shutdownOnce sync.Once
}

// EventType is a type of event we can tell the server about.
type EventType int

const (
	// NewClientEvent means a new client connected (and was not an HTTP
	// probe).
	NewClientEvent EventType = iota
	// DeadClientEvent means client died.
	DeadClientEvent
	// MessageFromClientEvent means a client sent a message.
	MessageFromClientEvent
)

// Event holds a message and the client it relates to.
type Event struct {
	Type    EventType
	Client  *Client
	Message irc.Message
}

func main() {
	log.SetFlags(0)

	args := getArgs()
	if args == nil {
		os.Exit(1)
	}

	cfg, err := loadConfig(args)
	if err != nil {
		log.Printf("%s", err)
		os.Exit(1)
	}

	server := newServer(cfg)

	if err := server.start(); err != nil {
		log.Printf("%s", err)
		os.Exit(1)
	}

	log.Printf("Server shutdown cleanly.")
}

func newServer(cfg *Config) *Server {
	return &Server{
		Config:       cfg,
		Created:      time.Now().Format("2006-01-02 15:04:05"),
		Clients:      map[uint64]*Client{},
		Nicks:        map[string]*Client{},
		Channels:     map[string]*Channel{},
		EventChan:    make(chan Event, 100),
		ShutdownChan: make(chan struct{}),
	}
}

// start opens the TCP port and runs the server until it shuts down.
func (s *Server) start() error {
	raiseFdLimit()

	// Writes to dead sockets surface as errors, not signals.
	signal.Ignore(syscall.SIGPIPE)

	ln, err := net.Listen("tcp4", fmt.Sprintf("%s:%s", s.Config.ListenHost,
		s.Config.ListenPort))
	if err != nil {
		return errors.Wrapf(err, "unable to listen on port %s",
			s.Config.ListenPort)
	}
	s.listener = ln

	log.Printf("ircserv started on port %s", s.Config.ListenPort)

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGQUIT)
	s.WG.Add(1)
	go func() {
		defer s.WG.Done()
		select {
		case sig := <-signalChan:
			log.Printf("Received signal: %s. Stopping server...", sig)
			s.shutdown()
		case <-s.ShutdownChan:
		}
	}()

	s.WG.Add(1)
	go s.acceptConnections()

	s.eventLoop()

	// Tell the remaining client goroutines to end, then reap them.
	for _, client := range s.Clients {
		close(client.WriteChan)
	}
	s.Clients = map[uint64]*Client{}
	s.Nicks = map[string]*Client{}
	s.Channels = map[string]*Channel{}

	s.WG.Wait()

	return nil
}

// eventLoop is the heart of the server. All state mutations happen here, in
// the order events arrive.
func (s *Server) eventLoop() {
	for {
		select {
		case evt := <-s.EventChan:
			s.handleEvent(evt)

			// Clients whose send queue overflowed get cut off.
			for _, client := range s.Clients {
				if client.SendQueueExceeded {
					client.quit("SendQ exceeded")
				}
			}
		case <-s.ShutdownChan:
			return
		}
	}
}

func (s *Server) handleEvent(evt Event) {
	switch evt.Type {
	case NewClientEvent:
		log.Printf("New client connection: %s", evt.Client)
		s.Clients[evt.Client.ID] = evt.Client
		evt.Client.greet()

	case DeadClientEvent:
		// It's possible we already cleaned it up. Dead events can arrive
		// from both the reader and the writer for the same connection.
		if _, exists := s.Clients[evt.Client.ID]; !exists {
			return
		}
		log.Printf("Client %s died.", evt.Client)
		evt.Client.quit("I/O error")

	case MessageFromClientEvent:
		// Possibly from a client that disconnected.
		if _, exists := s.Clients[evt.Client.ID]; !exists {
			log.Printf("Ignoring message from disconnected client.")
			return
		}
		s.handleMessage(evt.Client, evt.Message)
	}
}

// newEvent tells the server goroutine something happened.
func (s *Server) newEvent(evt Event) {
	select {
	case s.EventChan <- evt:
	case <-s.ShutdownChan:
	}
}

func (s *Server) isShuttingDown() bool {
	select {
	case <-s.ShutdownChan:
		return true
	default:
		return false
	}
}

// shutdown starts a graceful stop: close the shutdown channel so every
// goroutine sees it, and close the listener to break the accept loop.
func (s *Server) shutdown() {
	s.shutdownOnce.Do(func() {
		close(s.ShutdownChan)
		if s.listener != nil {
			if err := s.listener.Close(); err != nil {
				log.Printf("Problem closing listener: %s", err)
			}
		}
	})
}

// acceptConnections accepts TCP connections and starts the per-connection
// goroutines. The reader goroutine tells the main server loop about the
// client once it has cleared the HTTP probe.
func (s *Server) acceptConnections() {
	defer s.WG.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.isShuttingDown() {
				break
			}
			log.Printf("Failed to accept connection: %s", err)
			continue
		}

		client := NewClient(s, s.getClientID(), conn)

		s.WG.Add(1)
		go client.readLoop()
		s.WG.Add(1)
		go client.writeLoop()
	}

	log.Printf("Accept loop shutting down.")
}

func (s *Server) getClientID() uint64 {
	id := s.nextClientID

	// Handle rollover of uint64. Unlikely to happen (outside abuse) but.
	if id+1 == 0 {
		log.Fatalf("Unique ids rolled over!")
	}
	s.nextClientID++

	return id
}

// nickInUse checks every connection, registered or not, for a caseless
// nickname match.
func (s *Server) nickInUse(nick string, except *Client) bool {
	canon := canonicalizeNick(nick)
	for _, client := range s.Clients {
		if client == except {
			continue
		}
		if len(client.Nickname) > 0 && canonicalizeNick(client.Nickname) == canon {
			return true
		}
	}
	return false
}

// getChannel looks a channel up by whatever casing the client used.
func (s *Server) getChannel(name string) *Channel {
	return s.Channels[canonicalizeChannel(name)]
}

// getClientByNick resolves a registered nickname.
func (s *Server) getClientByNick(nick string) *Client {
	return s.Nicks[canonicalizeNick(nick)]
}

// channelsWith collects every channel the client is a member of.
func (s *Server) channelsWith(c *Client) []*Channel {
	var channels []*Channel
	for _, channel := range s.Channels {
		if channel.isMember(c) {
			channels = append(channels, channel)
		}
	}
	return channels
}

// destroyChannelIfEmpty drops a channel once its last member is gone. A
// channel with zero members must not exist.
func (s *Server) destroyChannelIfEmpty(ch *Channel) {
	if ch.memberCount() > 0 {
		return
	}
	delete(s.Channels, canonicalizeChannel(ch.Name))
	log.Printf("Channel %s deleted as it became empty", ch.Name)
}

// raiseFdLimit pushes the open file soft limit toward 10000 so we can hold
// many connections. Best effort; bounded by the hard limit.
func raiseFdLimit() {
	const wantFds = 10000

	var lim syscall.Rlimit
	if err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &lim); err != nil {
		log.Printf("Unable to read fd limit: %s", err)
		return
	}

	want := uint64(wantFds)
	if lim.Max < want {
		want = lim.Max
	}
	if lim.Cur >= want {
		return
	}

	lim.Cur = want
	if err := syscall.Setrlimit(syscall.RLIMIT_NOFILE, &lim); err != nil {
		log.Printf("Unable to raise fd limit: %s", err)
	}
}
