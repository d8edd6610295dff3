// Package osc emits single-parameter OSC control messages over UDP.
// It exists as a diagnostic for the downstream visual performance
// application and is independent of the extraction pipeline.
package osc

import (
	"encoding/binary"
	"fmt"
	"math"
	"net"
)

// Encode builds an OSC message carrying one float argument: the
// null-terminated address padded to a 4-byte boundary, the ",f" type
// tag likewise padded, then the value as a big-endian float32.
func Encode(address string, value float32) []byte {
	msg := pad([]byte(address + "\x00"))
	msg = append(msg, ',', 'f', 0, 0)

	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], math.Float32bits(value))
	return append(msg, buf[:]...)
}

func pad(b []byte) []byte {
	for len(b)%4 != 0 {
		b = append(b, 0)
	}
	return b
}

// Client sends OSC messages to a fixed UDP endpoint.
type Client struct {
	addr string
}

// NewClient creates a client for the given host and port.
func NewClient(host string, port int) *Client {
	return &Client{addr: fmt.Sprintf("%s:%d", host, port)}
}

// Send transmits one message as a single datagram.
func (c *Client) Send(address string, value float32) error {
	conn, err := net.Dial("udp", c.addr)
	if err != nil {
		return fmt.Errorf("failed to dial %s: %w", c.addr, err)
	}
	defer conn.Close()

	if _, err := conn.Write(Encode(address, value)); err != nil {
		return fmt.Errorf("failed to send OSC message: %w", err)
	}
	return nil
}
