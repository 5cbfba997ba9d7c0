// internal/protocol/regs.go
package protocol

// Board register map constants.
// These values mirror the datanode firmware and MUST NOT be configurable.

// RegisterModule addresses one firmware module on a datanode.
type RegisterModule uint8

// RegisterID indexes a register inside a module.
type RegisterID uint16

// ---- MODULES ----

const (
	ModCentral RegisterModule = 1
	ModSATA    RegisterModule = 2
	ModDAQ     RegisterModule = 3
	ModUDP     RegisterModule = 4
	ModGPIO    RegisterModule = 5
)

var moduleNames = map[RegisterModule]string{
	ModCentral: "central",
	ModSATA:    "sata",
	ModDAQ:     "daq",
	ModUDP:     "udp",
	ModGPIO:    "gpio",
}

func (m RegisterModule) String() string {
	if name, ok := moduleNames[m]; ok {
		return name
	}
	return "unknown"
}

// ---- ERROR REGISTERS ----

// Every module exposes its error flags in register 0.
const RegModuleErr RegisterID = 0

// ---- DAQ MODULE ----

// DAQSubsampChip0 is the first of 32 subsample selector registers.
// Selector i lives at DAQSubsampChip0 + i.
const DAQSubsampChip0 RegisterID = 0x10

// RegCoord names one register on the board.
type RegCoord struct {
	Module RegisterModule
	Reg    RegisterID
}

// ErrorRegisters returns the registers read by an error-register dump,
// in fixed module order.
func ErrorRegisters() []RegCoord {
	return []RegCoord{
		{ModCentral, RegModuleErr},
		{ModSATA, RegModuleErr},
		{ModDAQ, RegModuleErr},
		{ModUDP, RegModuleErr},
		{ModGPIO, RegModuleErr},
	}
}
