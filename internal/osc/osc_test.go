package osc

import (
	"bytes"
	"encoding/binary"
	"math"
	"net"
	"testing"
	"time"
)

func TestEncodeLayout(t *testing.T) {
	msg := Encode("/visuals/intensity", 0.75)

	// "/visuals/intensity" is 18 bytes; with the terminator it pads to 20.
	wantAddr := append([]byte("/visuals/intensity"), 0, 0)
	if !bytes.Equal(msg[:20], wantAddr) {
		t.Fatalf("address block = %q", msg[:20])
	}
	if !bytes.Equal(msg[20:24], []byte{',', 'f', 0, 0}) {
		t.Fatalf("type tag block = %q", msg[20:24])
	}
	got := math.Float32frombits(binary.BigEndian.Uint32(msg[24:28]))
	if got != 0.75 {
		t.Errorf("float argument = %f, want 0.75", got)
	}
	if len(msg) != 28 {
		t.Errorf("message length %d, want 28", len(msg))
	}
}

func TestEncodePadding(t *testing.T) {
	// Addresses whose length+terminator already hits a 4-byte boundary
	// get no extra padding; everything else rounds up.
	for _, tc := range []struct {
		addr    string
		addrLen int
	}{
		{"/a", 4},
		{"/abc", 8},
		{"/abcd", 8},
		{"/abcdef", 8},
	} {
		msg := Encode(tc.addr, 1)
		if len(msg) != tc.addrLen+8 {
			t.Errorf("Encode(%q) length %d, want %d", tc.addr, len(msg), tc.addrLen+8)
		}
		if msg[tc.addrLen] != ',' {
			t.Errorf("Encode(%q): type tag not at offset %d", tc.addr, tc.addrLen)
		}
	}
}

func TestClientSendsSingleDatagram(t *testing.T) {
	conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatalf("failed to open listener: %v", err)
	}
	defer conn.Close()

	port := conn.LocalAddr().(*net.UDPAddr).Port
	client := NewClient("127.0.0.1", port)
	if err := client.Send("/test", 2.5); err != nil {
		t.Fatalf("send failed: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 256)
	n, _, err := conn.ReadFromUDP(buf)
	if err != nil {
		t.Fatalf("failed to receive datagram: %v", err)
	}
	if !bytes.Equal(buf[:n], Encode("/test", 2.5)) {
		t.Errorf("received %q, want the encoded message", buf[:n])
	}
}
