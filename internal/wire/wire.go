// Package wire implements the JSON datagram codec: tagged Go variants
// (Hello | LSA) discriminated by a "type" field, with JSON kept strictly
// at the wire boundary.
package wire

import (
	"encoding/json"
	"fmt"

	"github.com/lsrouted/lsrouted/internal/config"
)

const (
	TypeHello = "HELLO"
	TypeLSA   = "LSA"
)

// Hello is the HELLO packet shape.
type Hello struct {
	Type           string            `json:"type"`
	RouterID       config.RouterID   `json:"router_id"`
	Timestamp      float64           `json:"timestamp"`
	IPAddress      string            `json:"ip_address"`
	KnownNeighbors []config.RouterID `json:"known_neighbors"`
}

// LSA is the LSA packet shape.
type LSA struct {
	Type           string                    `json:"type"`
	RouterID       config.RouterID           `json:"router_id"`
	Timestamp      float64                   `json:"timestamp"`
	SequenceNumber int64                     `json:"sequence_number"`
	Addresses      []string                  `json:"addresses"`
	Links          map[config.RouterID]int32 `json:"links"`
}

// NewHello builds a well-formed HELLO packet.
func NewHello(self config.RouterID, timestamp float64, ip string, knownNeighbors []config.RouterID) Hello {
	return Hello{
		Type:           TypeHello,
		RouterID:       self,
		Timestamp:      timestamp,
		IPAddress:      ip,
		KnownNeighbors: knownNeighbors,
	}
}

// NewLSA builds a well-formed LSA packet.
func NewLSA(self config.RouterID, timestamp float64, seqNum int64, addresses []string, links map[config.RouterID]int32) LSA {
	return LSA{
		Type:           TypeLSA,
		RouterID:       self,
		Timestamp:      timestamp,
		SequenceNumber: seqNum,
		Addresses:      addresses,
		Links:          links,
	}
}

// Encode serializes a Hello or LSA packet to its JSON wire form.
func Encode(msg any) ([]byte, error) {
	switch msg.(type) {
	case Hello, LSA:
		return json.Marshal(msg)
	default:
		return nil, fmt.Errorf("wire: unsupported message type %T", msg)
	}
}

// envelope is used only to sniff the "type" discriminator before decoding
// into the concrete struct.
type envelope struct {
	Type string `json:"type"`
}

// Decode parses a raw datagram into a Hello or LSA value. An unknown or
// missing type is a per-packet recoverable error.
func Decode(data []byte) (any, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("wire: invalid JSON: %w", err)
	}

	switch env.Type {
	case TypeHello:
		var h Hello
		if err := json.Unmarshal(data, &h); err != nil {
			return nil, fmt.Errorf("wire: invalid HELLO packet: %w", err)
		}
		return h, nil
	case TypeLSA:
		var l LSA
		if err := json.Unmarshal(data, &l); err != nil {
			return nil, fmt.Errorf("wire: invalid LSA packet: %w", err)
		}
		return l, nil
	default:
		return nil, fmt.Errorf("wire: unknown packet type %q", env.Type)
	}
}
