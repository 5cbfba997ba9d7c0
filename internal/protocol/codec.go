// internal/protocol/codec.go
package protocol

// Register command constructors and chip/channel packing.
// Pure data, no IO.

const chipChanMask = 0x1F // chip and channel are 5-bit fields

// RegWrite builds a register write command. The value is carried
// verbatim; no masking beyond what the caller supplies.
func RegWrite(module RegisterModule, reg RegisterID, value uint32) ControlCommand {
	return ControlCommand{
		Kind:     CmdRegWrite,
		RegWrite: &RegIOCmd{Module: module, Reg: reg, Value: value},
	}
}

// RegRead builds a register read command.
func RegRead(module RegisterModule, reg RegisterID) ControlCommand {
	return ControlCommand{
		Kind:    CmdRegRead,
		RegRead: &RegIOCmd{Module: module, Reg: reg},
	}
}

// PackChipChannel packs a (chip, channel) pair into a subsample selector
// register value: chip in bits 8-12, channel in bits 0-4.
//
// Each input is masked to its low 5 bits. Out-of-range values truncate
// silently; this never fails. Callers needing strict range validation
// must check before packing.
func PackChipChannel(chip, channel uint16) uint16 {
	return (chip&chipChanMask)<<8 | channel&chipChanMask
}
