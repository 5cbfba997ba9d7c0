// internal/build/subsample.go
package build

import (
	"fmt"
	"strings"

	"github.com/tamzrod/daq-acquire/internal/protocol"
)

// ChipChan is one (chip, channel) pair in a subsample configuration.
type ChipChan struct {
	Chip uint16
	Chan uint16
}

// SubsamplePairs computes the ordered pair list for a subsample
// reconfiguration. Holding "chip" constant sweeps all channels of that
// chip; holding "channel" constant sweeps that channel across all chips.
// The order is deterministic: pair i always maps to selector register i.
func (b *Builder) SubsamplePairs(constant string, number uint16) ([]ChipChan, error) {
	switch constant {
	case "chip":
		pairs := make([]ChipChan, b.geom.ChannelsPerChip)
		for ch := range pairs {
			pairs[ch] = ChipChan{Chip: number, Chan: uint16(ch)}
		}
		return pairs, nil

	case "channel":
		pairs := make([]ChipChan, b.geom.ChipsPerDatanode)
		for chip := range pairs {
			pairs[chip] = ChipChan{Chip: uint16(chip), Chan: number}
		}
		return pairs, nil

	default:
		return nil, fmt.Errorf("%w: don't know how to hold constant %q", protocol.ErrInvalidArgument, constant)
	}
}

// BuildSubsamples reconfigures which channels compose the subsample
// stream: one register write per selector, pair i into selector i.
// Chip and channel are masked to 5 bits at pack time; the notice table
// shows the operator the raw values being requested.
func (b *Builder) BuildSubsamples(constant string, number uint16) ([]protocol.ControlCommand, error) {
	pairs, err := b.SubsamplePairs(constant, number)
	if err != nil {
		return nil, err
	}

	var table strings.Builder
	table.WriteString("Setting sub-sample channels as:\n\n\tindex\tchip\tchannel\n")
	for i, cc := range pairs {
		fmt.Fprintf(&table, "\t%3d\t%3d\t%3d\n", i, cc.Chip, cc.Chan)
	}
	b.notef("%s", table.String())

	cmds := make([]protocol.ControlCommand, 0, len(pairs))
	for i, cc := range pairs {
		cmds = append(cmds, protocol.RegWrite(
			protocol.ModDAQ,
			protocol.DAQSubsampChip0+protocol.RegisterID(i),
			uint32(protocol.PackChipChannel(cc.Chip, cc.Chan)),
		))
	}
	return cmds, nil
}
