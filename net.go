package main

import (
	"bufio"
	"errors"
	"log"
	"net"
	"strings"
	"time"
)

var errShortWrite = errors.New("short write")

// httpProbeWait is how long we watch a fresh connection for HTTP bytes
// before greeting it as an IRC client.
const httpProbeWait = 100 * time.Millisecond

// Conn is a connection to a client.
type Conn struct {
	// conn: The connection if we are actively connected.
	conn net.Conn

	// rw: Read/write handle to the connection
	rw *bufio.ReadWriter

	IP net.IP
}

// NewConn initializes a Conn struct
func NewConn(conn net.Conn) Conn {
	tcpAddr, err := net.ResolveTCPAddr("tcp", conn.RemoteAddr().String())
	// This shouldn't happen.
	if err != nil {
		log.Fatalf("Unable to resolve TCP address: %s", err)
	}

	return Conn{
		conn: conn,
		rw:   bufio.NewReadWriter(bufio.NewReader(conn), bufio.NewWriter(conn)),
		IP:   tcpAddr.IP,
	}
}

// Close closes the underlying connection
func (c Conn) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// RemoteAddr returns the remote network address.
func (c Conn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// Read reads a line from the connection. The line includes its terminator.
func (c Conn) Read() (string, error) {
	line, err := c.rw.ReadString('\n')
	if err != nil {
		return "", err
	}

	log.Printf("Read: %s", strings.TrimRight(line, "\r\n"))

	return line, nil
}

// Peek looks at the first bytes a client sends without consuming them. If
// nothing arrives within the probe window we report what we have (usually
// nothing), and the bytes stay in the buffer for the regular reader.
func (c Conn) Peek(n int) ([]byte, error) {
	if err := c.conn.SetReadDeadline(time.Now().Add(httpProbeWait)); err != nil {
		return nil, err
	}

	buf, err := c.rw.Peek(n)

	// Clear the deadline no matter how the peek went.
	if derr := c.conn.SetReadDeadline(time.Time{}); derr != nil {
		return nil, derr
	}

	if err != nil {
		if nerr, ok := err.(net.Error); ok && nerr.Timeout() {
			return buf, nil
		}
	}

	return buf, err
}

// Write writes a string to the connection
func (c Conn) Write(s string) error {
	sz, err := c.rw.WriteString(s)
	if err != nil {
		return err
	}

	if sz != len(s) {
		return errShortWrite
	}

	if err := c.rw.Flush(); err != nil {
		return err
	}

	log.Printf("Sent: %s", strings.TrimRight(s, "\r\n"))

	return nil
}
