// Package udpsock is the daemon's single UDP transport. It supports
// broadcast sends, which the control plane's HELLO emitter requires.
// SO_BROADCAST is set via a raw-fd syscall, the standard way to reach a
// socket option the net package does not expose directly.
package udpsock

import (
	"errors"
	"fmt"
	"net"

	"golang.org/x/sys/unix"

	"github.com/lsrouted/lsrouted/internal/assert"
	"github.com/lsrouted/lsrouted/internal/config"
)

// Datagram is one received UDP packet together with its source address.
type Datagram struct {
	Src  *net.UDPAddr
	Data []byte
}

// Socket is the control plane's UDP transport seam. A fake implementation
// backs unit tests.
type Socket interface {
	// Open binds a UDP socket on 0.0.0.0:port with SO_BROADCAST enabled
	// and starts the receive loop feeding Inbound().
	Open(port int) error
	// SendTo transmits data to dst, including broadcast addresses.
	SendTo(dst *net.UDPAddr, data []byte) error
	// Inbound returns the channel of received datagrams.
	Inbound() <-chan Datagram
	// Close releases the socket. Inbound() is closed afterwards.
	Close() error
}

type udpSocket struct {
	conn    *net.UDPConn
	inbound chan Datagram
}

// New returns an unopened Socket.
func New() Socket {
	return &udpSocket{inbound: make(chan Datagram, config.ReceiveBufferBytes/64)}
}

func (s *udpSocket) Open(port int) error {
	assert.Assert(s.conn == nil, "udpsock: socket already open")

	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4zero, Port: port})
	if err != nil {
		return fmt.Errorf("udpsock: listen on port %d: %w", port, err)
	}
	s.conn = conn

	if err := enableBroadcast(conn); err != nil {
		conn.Close()
		s.conn = nil
		return fmt.Errorf("udpsock: enable SO_BROADCAST: %w", err)
	}

	go s.readLoop()

	return nil
}

func (s *udpSocket) readLoop() {
	buf := make([]byte, config.ReceiveBufferBytes)
	for {
		n, addr, err := s.conn.ReadFromUDP(buf)
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				close(s.inbound)
				return
			}
			continue
		}

		data := make([]byte, n)
		copy(data, buf[:n])
		s.inbound <- Datagram{Src: addr, Data: data}
	}
}

func (s *udpSocket) SendTo(dst *net.UDPAddr, data []byte) error {
	assert.IsNotNil(s.conn, "udpsock: SendTo called before Open")
	_, err := s.conn.WriteToUDP(data, dst)
	return err
}

func (s *udpSocket) Inbound() <-chan Datagram {
	return s.inbound
}

func (s *udpSocket) Close() error {
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

// enableBroadcast sets SO_BROADCAST on conn's underlying file descriptor,
// required for the HELLO emitter's broadcast sends.
func enableBroadcast(conn *net.UDPConn) error {
	raw, err := conn.SyscallConn()
	if err != nil {
		return err
	}

	var sockErr error
	err = raw.Control(func(fd uintptr) {
		sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_BROADCAST, 1)
	})
	if err != nil {
		return err
	}
	return sockErr
}
