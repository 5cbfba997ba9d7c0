// internal/protocol/command.go
package protocol

import "fmt"

// CommandKind discriminates ControlCommand variants.
type CommandKind uint8

const (
	CmdAcquire CommandKind = iota + 1
	CmdStore
	CmdForward
	CmdRegWrite
	CmdRegRead
)

// StorageBackend selects the daemon-side file format for STORE.
type StorageBackend uint8

const (
	StoreHDF5 StorageBackend = 0
	StoreRaw  StorageBackend = 1
)

// SampleType selects which packet stream FORWARD re-transmits.
type SampleType uint8

const (
	BoardSample SampleType = iota
	BoardSubsample
	BoardSampleRaw
	BoardSubsampleRaw
)

// ControlCommand is one wire-ready daemon command.
// Exactly one variant pointer is set, matching Kind.
// Immutable once built.
type ControlCommand struct {
	Kind CommandKind

	Acquire  *AcquireCmd
	Store    *StoreCmd
	Forward  *ForwardCmd
	RegWrite *RegIOCmd
	RegRead  *RegIOCmd
}

// AcquireCmd starts or stops acquisition.
// ExpCookie and StartSample are set only when enabling; the daemon
// distinguishes an omitted field from a zero value, so both are pointers.
type AcquireCmd struct {
	Enable      bool
	ExpCookie   *uint64
	StartSample *uint64
}

// StoreCmd copies samples to a file on the daemon computer.
// StartSample is absent for stream saves (streaming starts now).
// Backend nil means "let the daemon pick its default".
type StoreCmd struct {
	Path        string
	StartSample *uint64
	NSamples    uint64
	Backend     *StorageBackend
}

// ForwardCmd controls live re-transmission to a UDP destination.
type ForwardCmd struct {
	SampleType    SampleType
	ForceDAQReset bool
	DestAddr      uint32 // packed IPv4, network byte order
	DestPort      uint16
	Enable        bool
}

// RegIOCmd is a raw register access. Value is ignored for reads.
type RegIOCmd struct {
	Module RegisterModule
	Reg    RegisterID
	Value  uint32
}

// ResponseKind discriminates ControlResponse variants.
type ResponseKind uint8

const (
	RespSuccess ResponseKind = iota + 1
	RespErr
	RespRegIO
	RespStoreFinished
)

// ControlResponse is one daemon reply. Consumed read-only.
type ControlResponse struct {
	Kind ResponseKind

	// ERR
	Message string

	// REG_IO
	RegIO *RegIOCmd

	// STORE_FINISHED
	Store *StoreResult
}

// StoreResult reports how much a STORE actually wrote.
type StoreResult struct {
	Path     string
	NSamples uint64
}

// IsErr reports whether the response is an ERR variant.
func (r ControlResponse) IsErr() bool { return r.Kind == RespErr }

func (r ControlResponse) String() string {
	switch r.Kind {
	case RespSuccess:
		return "success"
	case RespErr:
		return "error: " + r.Message
	case RespRegIO:
		if r.RegIO == nil {
			return "reg_io: <empty>"
		}
		return fmt.Sprintf("reg_io: module=%s reg=0x%02x val=0x%08x",
			r.RegIO.Module, uint16(r.RegIO.Reg), r.RegIO.Value)
	case RespStoreFinished:
		if r.Store == nil {
			return "store_finished: <empty>"
		}
		return fmt.Sprintf("store_finished: path=%s nsamples=%d",
			r.Store.Path, r.Store.NSamples)
	default:
		return fmt.Sprintf("unknown response kind %d", uint8(r.Kind))
	}
}
