// internal/protocol/wire.go
package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

//
// ---- Control protocol v1 framing (LOCKED) ----
//
// Layout (9 bytes header):
// 0-1  Magic "DC"
// 2    Version (0x01)
// 3    Kind (command or response kind)
// 4    Flags (kind-specific presence/booleans)
// 5-8  Payload length (big-endian)
// 9+   Payload (big-endian fields)
//
// Optional command fields are gated by flags bits: the daemon treats an
// omitted field differently from a present zero value.
//

const (
	magicHi byte = 0x44 // 'D'
	magicLo byte = 0x43 // 'C'

	versionV1 byte = 0x01

	headerSize = 9

	// maxPayload bounds decode allocation; the largest legitimate
	// payload is a store path.
	maxPayload = 1 << 16
)

// Acquire flags.
const (
	acqFlagEnable byte = 1 << iota
	acqFlagCookie
	acqFlagStart
)

// Store flags.
const (
	storeFlagStart byte = 1 << iota
	storeFlagBackend
)

// Forward flags.
const (
	fwdFlagEnable byte = 1 << iota
	fwdFlagForceReset
)

var (
	ErrBadMagic    = errors.New("protocol: bad frame magic")
	ErrBadVersion  = errors.New("protocol: unsupported frame version")
	ErrShortFrame  = errors.New("protocol: truncated frame payload")
	ErrFrameTooBig = errors.New("protocol: frame payload too large")
)

// EncodeCommand serializes one command into a wire frame.
func EncodeCommand(cmd ControlCommand) ([]byte, error) {
	var flags byte
	var payload []byte

	switch cmd.Kind {
	case CmdAcquire:
		a := cmd.Acquire
		if a == nil {
			return nil, errors.New("protocol: acquire command without payload")
		}
		if a.Enable {
			flags |= acqFlagEnable
		}
		if a.ExpCookie != nil {
			flags |= acqFlagCookie
			payload = appendU64(payload, *a.ExpCookie)
		}
		if a.StartSample != nil {
			flags |= acqFlagStart
			payload = appendU64(payload, *a.StartSample)
		}

	case CmdStore:
		s := cmd.Store
		if s == nil {
			return nil, errors.New("protocol: store command without payload")
		}
		if s.StartSample != nil {
			flags |= storeFlagStart
			payload = appendU64(payload, *s.StartSample)
		}
		payload = appendU64(payload, s.NSamples)
		if s.Backend != nil {
			flags |= storeFlagBackend
			payload = append(payload, byte(*s.Backend))
		}
		payload = append(payload, s.Path...)

	case CmdForward:
		f := cmd.Forward
		if f == nil {
			return nil, errors.New("protocol: forward command without payload")
		}
		if f.Enable {
			flags |= fwdFlagEnable
		}
		if f.ForceDAQReset {
			flags |= fwdFlagForceReset
		}
		payload = append(payload, byte(f.SampleType))
		payload = appendU32(payload, f.DestAddr)
		payload = appendU16(payload, f.DestPort)

	case CmdRegWrite:
		r := cmd.RegWrite
		if r == nil {
			return nil, errors.New("protocol: reg write command without payload")
		}
		payload = append(payload, byte(r.Module))
		payload = appendU16(payload, uint16(r.Reg))
		payload = appendU32(payload, r.Value)

	case CmdRegRead:
		r := cmd.RegRead
		if r == nil {
			return nil, errors.New("protocol: reg read command without payload")
		}
		payload = append(payload, byte(r.Module))
		payload = appendU16(payload, uint16(r.Reg))

	default:
		return nil, fmt.Errorf("protocol: unknown command kind %d", uint8(cmd.Kind))
	}

	return frame(byte(cmd.Kind), flags, payload), nil
}

// DecodeCommand reads one command frame. Used by daemon-side fakes and
// round-trip tests; the client itself only encodes commands.
func DecodeCommand(r io.Reader) (ControlCommand, error) {
	kind, flags, payload, err := readFrame(r)
	if err != nil {
		return ControlCommand{}, err
	}

	switch CommandKind(kind) {
	case CmdAcquire:
		a := &AcquireCmd{Enable: flags&acqFlagEnable != 0}
		if flags&acqFlagCookie != 0 {
			v, rest, err := takeU64(payload)
			if err != nil {
				return ControlCommand{}, err
			}
			a.ExpCookie, payload = &v, rest
		}
		if flags&acqFlagStart != 0 {
			v, _, err := takeU64(payload)
			if err != nil {
				return ControlCommand{}, err
			}
			a.StartSample = &v
		}
		return ControlCommand{Kind: CmdAcquire, Acquire: a}, nil

	case CmdStore:
		s := &StoreCmd{}
		if flags&storeFlagStart != 0 {
			v, rest, err := takeU64(payload)
			if err != nil {
				return ControlCommand{}, err
			}
			s.StartSample, payload = &v, rest
		}
		n, rest, err := takeU64(payload)
		if err != nil {
			return ControlCommand{}, err
		}
		s.NSamples, payload = n, rest
		if flags&storeFlagBackend != 0 {
			if len(payload) < 1 {
				return ControlCommand{}, ErrShortFrame
			}
			b := StorageBackend(payload[0])
			s.Backend, payload = &b, payload[1:]
		}
		s.Path = string(payload)
		return ControlCommand{Kind: CmdStore, Store: s}, nil

	case CmdForward:
		if len(payload) != 7 {
			return ControlCommand{}, ErrShortFrame
		}
		f := &ForwardCmd{
			SampleType:    SampleType(payload[0]),
			DestAddr:      binary.BigEndian.Uint32(payload[1:5]),
			DestPort:      binary.BigEndian.Uint16(payload[5:7]),
			Enable:        flags&fwdFlagEnable != 0,
			ForceDAQReset: flags&fwdFlagForceReset != 0,
		}
		return ControlCommand{Kind: CmdForward, Forward: f}, nil

	case CmdRegWrite:
		if len(payload) != 7 {
			return ControlCommand{}, ErrShortFrame
		}
		return RegWrite(
			RegisterModule(payload[0]),
			RegisterID(binary.BigEndian.Uint16(payload[1:3])),
			binary.BigEndian.Uint32(payload[3:7]),
		), nil

	case CmdRegRead:
		if len(payload) != 3 {
			return ControlCommand{}, ErrShortFrame
		}
		return RegRead(
			RegisterModule(payload[0]),
			RegisterID(binary.BigEndian.Uint16(payload[1:3])),
		), nil

	default:
		return ControlCommand{}, fmt.Errorf("protocol: unknown command kind %d", kind)
	}
}

// EncodeResponse serializes one response frame.
func EncodeResponse(resp ControlResponse) ([]byte, error) {
	var payload []byte

	switch resp.Kind {
	case RespSuccess:
		// empty payload

	case RespErr:
		payload = append(payload, resp.Message...)

	case RespRegIO:
		if resp.RegIO == nil {
			return nil, errors.New("protocol: reg_io response without payload")
		}
		payload = append(payload, byte(resp.RegIO.Module))
		payload = appendU16(payload, uint16(resp.RegIO.Reg))
		payload = appendU32(payload, resp.RegIO.Value)

	case RespStoreFinished:
		if resp.Store == nil {
			return nil, errors.New("protocol: store_finished response without payload")
		}
		payload = appendU64(payload, resp.Store.NSamples)
		payload = append(payload, resp.Store.Path...)

	default:
		return nil, fmt.Errorf("protocol: unknown response kind %d", uint8(resp.Kind))
	}

	return frame(byte(resp.Kind), 0, payload), nil
}

// DecodeResponse reads one response frame.
func DecodeResponse(r io.Reader) (ControlResponse, error) {
	kind, _, payload, err := readFrame(r)
	if err != nil {
		return ControlResponse{}, err
	}

	switch ResponseKind(kind) {
	case RespSuccess:
		return ControlResponse{Kind: RespSuccess}, nil

	case RespErr:
		return ControlResponse{Kind: RespErr, Message: string(payload)}, nil

	case RespRegIO:
		if len(payload) != 7 {
			return ControlResponse{}, ErrShortFrame
		}
		return ControlResponse{
			Kind: RespRegIO,
			RegIO: &RegIOCmd{
				Module: RegisterModule(payload[0]),
				Reg:    RegisterID(binary.BigEndian.Uint16(payload[1:3])),
				Value:  binary.BigEndian.Uint32(payload[3:7]),
			},
		}, nil

	case RespStoreFinished:
		n, rest, err := takeU64(payload)
		if err != nil {
			return ControlResponse{}, err
		}
		return ControlResponse{
			Kind:  RespStoreFinished,
			Store: &StoreResult{NSamples: n, Path: string(rest)},
		}, nil

	default:
		return ControlResponse{}, fmt.Errorf("protocol: unknown response kind %d", kind)
	}
}

//
// ---- helpers ----
//

func frame(kind, flags byte, payload []byte) []byte {
	buf := make([]byte, headerSize, headerSize+len(payload))
	buf[0] = magicHi
	buf[1] = magicLo
	buf[2] = versionV1
	buf[3] = kind
	buf[4] = flags
	binary.BigEndian.PutUint32(buf[5:9], uint32(len(payload)))
	return append(buf, payload...)
}

func readFrame(r io.Reader) (kind, flags byte, payload []byte, err error) {
	var hdr [headerSize]byte
	if _, err = io.ReadFull(r, hdr[:]); err != nil {
		return 0, 0, nil, err
	}
	if hdr[0] != magicHi || hdr[1] != magicLo {
		return 0, 0, nil, ErrBadMagic
	}
	if hdr[2] != versionV1 {
		return 0, 0, nil, ErrBadVersion
	}
	n := binary.BigEndian.Uint32(hdr[5:9])
	if n > maxPayload {
		return 0, 0, nil, ErrFrameTooBig
	}
	payload = make([]byte, n)
	if _, err = io.ReadFull(r, payload); err != nil {
		return 0, 0, nil, err
	}
	return hdr[3], hdr[4], payload, nil
}

func appendU16(b []byte, v uint16) []byte {
	return append(b, byte(v>>8), byte(v))
}

func appendU32(b []byte, v uint32) []byte {
	return append(b, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

func appendU64(b []byte, v uint64) []byte {
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], v)
	return append(b, tmp[:]...)
}

func takeU64(b []byte) (uint64, []byte, error) {
	if len(b) < 8 {
		return 0, nil, ErrShortFrame
	}
	return binary.BigEndian.Uint64(b[:8]), b[8:], nil
}
