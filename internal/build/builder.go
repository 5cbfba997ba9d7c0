// internal/build/builder.go
package build

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/tamzrod/daq-acquire/internal/protocol"
)

// Geometry holds the hardware constants the builder needs.
// Passed explicitly: the builder keeps no ambient state.
type Geometry struct {
	// BSIInterval is the board sample index alignment unit.
	// Acquisition may only start on a multiple of it.
	BSIInterval uint64

	ChannelsPerChip  uint16
	ChipsPerDatanode uint16
}

// DefaultGeometry matches the shipped datanode firmware.
func DefaultGeometry() Geometry {
	return Geometry{
		BSIInterval:      1920,
		ChannelsPerChip:  32,
		ChipsPerDatanode: 32,
	}
}

// AlignStartSample rounds s up to the next multiple of BSIInterval.
// Already-aligned values are returned unchanged.
func (g Geometry) AlignStartSample(s uint64) uint64 {
	r := s % g.BSIInterval
	if r == 0 {
		return s
	}
	return s + (g.BSIInterval - r)
}

// Builder turns operator actions into ordered command sequences.
// All validation happens here, before anything reaches the daemon.
type Builder struct {
	geom   Geometry
	now    func() time.Time
	notify func(string)
}

// New creates a builder with immutable geometry.
func New(geom Geometry) (*Builder, error) {
	if geom.BSIInterval == 0 {
		return nil, errors.New("build: BSI interval must be > 0")
	}
	if geom.ChannelsPerChip == 0 || geom.ChipsPerDatanode == 0 {
		return nil, errors.New("build: chip/channel counts must be > 0")
	}
	return &Builder{geom: geom, now: time.Now}, nil
}

// SetClock overrides the experiment cookie clock.
func (b *Builder) SetClock(now func() time.Time) { b.now = now }

// SetNotify installs a sink for human-readable notices (rounding,
// subsample tables). Nil discards them.
func (b *Builder) SetNotify(fn func(string)) { b.notify = fn }

func (b *Builder) notef(format string, args ...any) {
	if b.notify != nil {
		b.notify(fmt.Sprintf(format, args...))
	}
}

// BuildAcquire starts or stops acquisition. When enabling, the experiment
// cookie is the current wall-clock time in seconds and startSample is
// aligned up to the BSI interval, with a notice when rounding occurred.
// When disabling, only the disable flag is emitted.
func (b *Builder) BuildAcquire(enable bool, startSample uint64) ([]protocol.ControlCommand, error) {
	a := &protocol.AcquireCmd{Enable: enable}
	if enable {
		cookie := uint64(b.now().Unix())
		a.ExpCookie = &cookie

		aligned := b.geom.AlignStartSample(startSample)
		if aligned != startSample {
			b.notef("Rounding start_sample up to next multiple of %d:\n\tstart_sample = %d",
				b.geom.BSIInterval, aligned)
		}
		a.StartSample = &aligned
	}
	return []protocol.ControlCommand{{Kind: protocol.CmdAcquire, Acquire: a}}, nil
}

// BuildSaveStored copies already-acquired samples from node disk to a file
// on the daemon computer. The path is made absolute; existence is the
// daemon's problem. startSample is always present (default 0); nsamples 0
// means "until the current experiment ends". A nil backend is omitted on
// the wire so the daemon applies its own default.
func (b *Builder) BuildSaveStored(path string, startSample, nsamples uint64, backend *protocol.StorageBackend) ([]protocol.ControlCommand, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: path %q: %v", protocol.ErrInvalidArgument, path, err)
	}
	start := startSample
	s := &protocol.StoreCmd{
		Path:        abs,
		StartSample: &start,
		NSamples:    nsamples,
		Backend:     backend,
	}
	return []protocol.ControlCommand{{Kind: protocol.CmdStore, Store: s}}, nil
}

// BuildSaveStream saves live streaming data. Identical to BuildSaveStored
// except no start sample is sent: streaming always starts now.
func (b *Builder) BuildSaveStream(path string, nsamples uint64, backend *protocol.StorageBackend) ([]protocol.ControlCommand, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: path %q: %v", protocol.ErrInvalidArgument, path, err)
	}
	s := &protocol.StoreCmd{
		Path:     abs,
		NSamples: nsamples,
		Backend:  backend,
	}
	return []protocol.ControlCommand{{Kind: protocol.CmdStore, Store: s}}, nil
}

// sampleTypes maps operator tokens to wire tags.
var sampleTypes = map[string]protocol.SampleType{
	"sample":        protocol.BoardSample,
	"subsample":     protocol.BoardSubsample,
	"sample_raw":    protocol.BoardSampleRaw,
	"subsample_raw": protocol.BoardSubsampleRaw,
}

// BuildForward enables or disables live stream forwarding to a UDP
// destination. All arguments are validated before any command exists.
func (b *Builder) BuildForward(sampleType string, forceReset bool, address string, port int, enable string) ([]protocol.ControlCommand, error) {
	st, ok := sampleTypes[sampleType]
	if !ok {
		return nil, fmt.Errorf("%w: invalid sample type %q", protocol.ErrInvalidArgument, sampleType)
	}

	addr, err := protocol.EncodeIPv4(address)
	if err != nil {
		return nil, err
	}

	p, err := protocol.ValidatePort(port)
	if err != nil {
		return nil, err
	}

	var on bool
	switch enable {
	case "start":
		on = true
	case "stop":
		on = false
	default:
		return nil, fmt.Errorf("%w: enable must be \"start\" or \"stop\", got %q", protocol.ErrInvalidArgument, enable)
	}

	f := &protocol.ForwardCmd{
		SampleType:    st,
		ForceDAQReset: forceReset,
		DestAddr:      addr,
		DestPort:      p,
		Enable:        on,
	}
	return []protocol.ControlCommand{{Kind: protocol.CmdForward, Forward: f}}, nil
}

// BuildDumpErrRegs reads every module error register. The caller filters
// the responses down to nonzero values.
func (b *Builder) BuildDumpErrRegs() ([]protocol.ControlCommand, error) {
	regs := protocol.ErrorRegisters()
	cmds := make([]protocol.ControlCommand, 0, len(regs))
	for _, rc := range regs {
		cmds = append(cmds, protocol.RegRead(rc.Module, rc.Reg))
	}
	return cmds, nil
}
