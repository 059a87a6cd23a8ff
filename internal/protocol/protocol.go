// Package protocol implements the fixed-width, little-endian binary wire
// codec between client and room. Every message is one transport frame; the
// first byte is always the message type.
package protocol

import (
	"encoding/binary"
	"errors"
	"math"
)

// Client → server message types.
const (
	MsgJoin  uint8 = 1
	MsgInput uint8 = 2
	MsgPing  uint8 = 3
)

// Server → client message types.
const (
	MsgWelcome  uint8 = 1
	MsgSnapshot uint8 = 2
)

// Wire size constants.
//
// INPUT's field list — u8 type, u32 seq, u8 flags, u8 weapon, f32 yaw,
// f32 pitch, f64 timestamp — sums to 23 bytes; that is the layout this
// codec uses at fixed offsets.
const (
	inputSize   = 23
	welcomeSize = 8
	snapshotHeader = 19
	playerEntry    = 40
	hitEntry       = 6

	// MaxScratchPlayers and MaxScratchHits size the pre-allocated encode
	// buffer: twice the 16-player maximum and exactly the 16-hit maximum.
	// A frame larger than that makes EncodeSnapshot grow the buffer.
	MaxScratchPlayers = 32
	MaxScratchHits     = 16
)

var (
	ErrBufferTooSmall = errors.New("protocol: buffer too small")
	ErrWrongType       = errors.New("protocol: unexpected message type")
	ErrNameTooLong     = errors.New("protocol: name exceeds 255 bytes")
)

// JoinMessage is the decoded client JOIN frame.
type JoinMessage struct {
	Name string
}

// PingMessage is the decoded client PING frame.
type PingMessage struct {
	ClientTime float64
}

// InputMessage is the decoded client INPUT frame.
type InputMessage struct {
	Seq       uint32
	Flags     uint8
	Weapon    uint8
	Yaw       float32
	Pitch     float32
	Timestamp float64
}

// PlayerEntry is one 40-byte player record inside a SNAPSHOT message.
type PlayerEntry struct {
	ID         uint16
	X, Y, Z    float32
	VX, VY, VZ float32
	Yaw, Pitch float32
	Health     uint8
	Weapon     uint8
	IsShooting bool
	IsDead     bool
	Score      uint16
}

// HitEntry is one 6-byte hit record inside a SNAPSHOT message.
type HitEntry struct {
	ShooterID uint16
	TargetID  uint16
	Damage    uint8
	Headshot  bool
}

// PeekType returns the message type byte without otherwise decoding, or
// ErrBufferTooSmall for an empty frame.
func PeekType(data []byte) (uint8, error) {
	if len(data) < 1 {
		return 0, ErrBufferTooSmall
	}
	return data[0], nil
}

// DecodeJoin decodes a JOIN frame: [u8 type][u8 nameLen][nameLen bytes].
// Names are not validated beyond fitting the declared length.
func DecodeJoin(data []byte) (JoinMessage, error) {
	if len(data) < 2 {
		return JoinMessage{}, ErrBufferTooSmall
	}
	if data[0] != MsgJoin {
		return JoinMessage{}, ErrWrongType
	}
	nameLen := int(data[1])
	if len(data) < 2+nameLen {
		return JoinMessage{}, ErrBufferTooSmall
	}
	return JoinMessage{Name: string(data[2 : 2+nameLen])}, nil
}

// DecodeInput decodes a fixed 23-byte INPUT frame.
func DecodeInput(data []byte) (InputMessage, error) {
	if len(data) < inputSize {
		return InputMessage{}, ErrBufferTooSmall
	}
	if data[0] != MsgInput {
		return InputMessage{}, ErrWrongType
	}
	return InputMessage{
		Seq:       binary.LittleEndian.Uint32(data[1:5]),
		Flags:     data[5],
		Weapon:    data[6],
		Yaw:       math.Float32frombits(binary.LittleEndian.Uint32(data[7:11])),
		Pitch:     math.Float32frombits(binary.LittleEndian.Uint32(data[11:15])),
		Timestamp: math.Float64frombits(binary.LittleEndian.Uint64(data[15:23])),
	}, nil
}

// DecodePing decodes a [u8 type][f64 clientTime] frame.
func DecodePing(data []byte) (PingMessage, error) {
	if len(data) < 9 {
		return PingMessage{}, ErrBufferTooSmall
	}
	if data[0] != MsgPing {
		return PingMessage{}, ErrWrongType
	}
	return PingMessage{ClientTime: math.Float64frombits(binary.LittleEndian.Uint64(data[1:9]))}, nil
}

// EncodePing echoes a client PING frame's timestamp back verbatim.
func EncodePing(clientTime float64) []byte {
	buf := make([]byte, 9)
	buf[0] = MsgPing
	binary.LittleEndian.PutUint64(buf[1:9], math.Float64bits(clientTime))
	return buf
}

// EncodeWelcome builds the 8-byte WELCOME frame sent once per admitted
// connection.
func EncodeWelcome(playerID uint16, tickRate uint8, mapSeed int32) []byte {
	buf := make([]byte, welcomeSize)
	buf[0] = MsgWelcome
	binary.LittleEndian.PutUint16(buf[1:3], playerID)
	buf[3] = tickRate
	binary.LittleEndian.PutUint32(buf[4:8], uint32(mapSeed))
	return buf
}

// Encoder produces SNAPSHOT frames into a pre-allocated scratch buffer so
// the hot broadcast path performs no per-tick allocation.
type Encoder struct {
	scratch []byte
}

// NewEncoder allocates the scratch buffer once, sized for MaxScratchPlayers
// players and MaxScratchHits hits.
func NewEncoder() *Encoder {
	return &Encoder{
		scratch: make([]byte, snapshotHeader+MaxScratchPlayers*playerEntry+MaxScratchHits*hitEntry),
	}
}

// EncodeSnapshot writes one SNAPSHOT frame personalised by
// lastProcessedInput; players and hits are otherwise identical across every
// recipient in the same tick. The returned slice aliases the encoder's
// scratch buffer and is only valid until the next call to EncodeSnapshot.
func (e *Encoder) EncodeSnapshot(tick uint32, serverTime float64, players []PlayerEntry, hits []HitEntry, lastProcessedInput uint32) []byte {
	playerCount := len(players)
	if playerCount > 255 {
		playerCount = 255
	}
	hitCount := len(hits)
	if hitCount > 255 {
		hitCount = 255
	}

	need := snapshotHeader + playerCount*playerEntry + hitCount*hitEntry
	if cap(e.scratch) < need {
		e.scratch = make([]byte, need)
	}
	buf := e.scratch[:need]

	buf[0] = MsgSnapshot
	binary.LittleEndian.PutUint32(buf[1:5], tick)
	binary.LittleEndian.PutUint64(buf[5:13], math.Float64bits(serverTime))
	buf[13] = uint8(playerCount)
	buf[14] = uint8(hitCount)
	binary.LittleEndian.PutUint32(buf[15:19], lastProcessedInput)

	offset := snapshotHeader
	for i := 0; i < playerCount; i++ {
		encodePlayerEntry(buf[offset:offset+playerEntry], players[i])
		offset += playerEntry
	}
	for i := 0; i < hitCount; i++ {
		encodeHitEntry(buf[offset:offset+hitEntry], hits[i])
		offset += hitEntry
	}

	return buf
}

func encodePlayerEntry(buf []byte, p PlayerEntry) {
	binary.LittleEndian.PutUint16(buf[0:2], p.ID)
	binary.LittleEndian.PutUint32(buf[2:6], math.Float32bits(p.X))
	binary.LittleEndian.PutUint32(buf[6:10], math.Float32bits(p.Y))
	binary.LittleEndian.PutUint32(buf[10:14], math.Float32bits(p.Z))
	binary.LittleEndian.PutUint32(buf[14:18], math.Float32bits(p.VX))
	binary.LittleEndian.PutUint32(buf[18:22], math.Float32bits(p.VY))
	binary.LittleEndian.PutUint32(buf[22:26], math.Float32bits(p.VZ))
	binary.LittleEndian.PutUint32(buf[26:30], math.Float32bits(p.Yaw))
	binary.LittleEndian.PutUint32(buf[30:34], math.Float32bits(p.Pitch))
	buf[34] = p.Health
	buf[35] = p.Weapon
	buf[36] = boolByte(p.IsShooting)
	buf[37] = boolByte(p.IsDead)
	binary.LittleEndian.PutUint16(buf[38:40], p.Score)
}

func encodeHitEntry(buf []byte, h HitEntry) {
	binary.LittleEndian.PutUint16(buf[0:2], h.ShooterID)
	binary.LittleEndian.PutUint16(buf[2:4], h.TargetID)
	buf[4] = h.Damage
	buf[5] = boolByte(h.Headshot)
}

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// DecodeSnapshot decodes a SNAPSHOT frame. It is exercised by round-trip
// tests; a real client, not this server, is the other consumer.
func DecodeSnapshot(data []byte) (tick uint32, serverTime float64, players []PlayerEntry, hits []HitEntry, lastProcessedInput uint32, err error) {
	if len(data) < snapshotHeader {
		return 0, 0, nil, nil, 0, ErrBufferTooSmall
	}
	if data[0] != MsgSnapshot {
		return 0, 0, nil, nil, 0, ErrWrongType
	}

	tick = binary.LittleEndian.Uint32(data[1:5])
	serverTime = math.Float64frombits(binary.LittleEndian.Uint64(data[5:13]))
	playerCount := int(data[13])
	hitCount := int(data[14])
	lastProcessedInput = binary.LittleEndian.Uint32(data[15:19])

	need := snapshotHeader + playerCount*playerEntry + hitCount*hitEntry
	if len(data) < need {
		return 0, 0, nil, nil, 0, ErrBufferTooSmall
	}

	offset := snapshotHeader
	players = make([]PlayerEntry, playerCount)
	for i := 0; i < playerCount; i++ {
		players[i] = decodePlayerEntry(data[offset : offset+playerEntry])
		offset += playerEntry
	}
	hits = make([]HitEntry, hitCount)
	for i := 0; i < hitCount; i++ {
		hits[i] = decodeHitEntry(data[offset : offset+hitEntry])
		offset += hitEntry
	}

	return tick, serverTime, players, hits, lastProcessedInput, nil
}

func decodePlayerEntry(buf []byte) PlayerEntry {
	return PlayerEntry{
		ID:         binary.LittleEndian.Uint16(buf[0:2]),
		X:          math.Float32frombits(binary.LittleEndian.Uint32(buf[2:6])),
		Y:          math.Float32frombits(binary.LittleEndian.Uint32(buf[6:10])),
		Z:          math.Float32frombits(binary.LittleEndian.Uint32(buf[10:14])),
		VX:         math.Float32frombits(binary.LittleEndian.Uint32(buf[14:18])),
		VY:         math.Float32frombits(binary.LittleEndian.Uint32(buf[18:22])),
		VZ:         math.Float32frombits(binary.LittleEndian.Uint32(buf[22:26])),
		Yaw:        math.Float32frombits(binary.LittleEndian.Uint32(buf[26:30])),
		Pitch:      math.Float32frombits(binary.LittleEndian.Uint32(buf[30:34])),
		Health:     buf[34],
		Weapon:     buf[35],
		IsShooting: buf[36] != 0,
		IsDead:     buf[37] != 0,
		Score:      binary.LittleEndian.Uint16(buf[38:40]),
	}
}

func decodeHitEntry(buf []byte) HitEntry {
	return HitEntry{
		ShooterID: binary.LittleEndian.Uint16(buf[0:2]),
		TargetID:  binary.LittleEndian.Uint16(buf[2:4]),
		Damage:    buf[4],
		Headshot:  buf[5] != 0,
	}
}

// EncodeJoin builds a JOIN frame. Used only by tests; real clients send
// this, the server only decodes it.
func EncodeJoin(name string) ([]byte, error) {
	nameBytes := []byte(name)
	if len(nameBytes) > 255 {
		return nil, ErrNameTooLong
	}
	buf := make([]byte, 2+len(nameBytes))
	buf[0] = MsgJoin
	buf[1] = uint8(len(nameBytes))
	copy(buf[2:], nameBytes)
	return buf, nil
}

// EncodeInput builds a 23-byte INPUT frame. Used only by tests.
func EncodeInput(in InputMessage) []byte {
	buf := make([]byte, inputSize)
	buf[0] = MsgInput
	binary.LittleEndian.PutUint32(buf[1:5], in.Seq)
	buf[5] = in.Flags
	buf[6] = in.Weapon
	binary.LittleEndian.PutUint32(buf[7:11], math.Float32bits(in.Yaw))
	binary.LittleEndian.PutUint32(buf[11:15], math.Float32bits(in.Pitch))
	binary.LittleEndian.PutUint64(buf[15:23], math.Float64bits(in.Timestamp))
	return buf
}

// EncodePingRequest builds a client-side PING frame. Used only by tests.
func EncodePingRequest(clientTime float64) []byte {
	return EncodePing(clientTime)
}
