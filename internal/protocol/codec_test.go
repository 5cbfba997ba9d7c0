// internal/protocol/codec_test.go
package protocol

import "testing"

func TestPackChipChannel_Layout(t *testing.T) {
	got := PackChipChannel(3, 17)
	want := uint16(3<<8 | 17)
	if got != want {
		t.Fatalf("PackChipChannel(3, 17) = 0x%04x, want 0x%04x", got, want)
	}
}

func TestPackChipChannel_MaskInvariance(t *testing.T) {
	for chip := uint16(0); chip < 32; chip++ {
		for _, k := range []uint16{0, 1, 2, 7} {
			base := PackChipChannel(chip, 5)
			if got := PackChipChannel(chip+32*k, 5); got != base {
				t.Fatalf("chip %d+32*%d packed to 0x%04x, want 0x%04x", chip, k, got, base)
			}
			base = PackChipChannel(9, chip)
			if got := PackChipChannel(9, chip+32*k); got != base {
				t.Fatalf("chan %d+32*%d packed to 0x%04x, want 0x%04x", chip, k, got, base)
			}
		}
	}
}

func TestRegWriteReadConstructors(t *testing.T) {
	w := RegWrite(ModDAQ, DAQSubsampChip0+4, 0x0311)
	if w.Kind != CmdRegWrite || w.RegWrite == nil {
		t.Fatalf("RegWrite built wrong variant: %+v", w)
	}
	if w.RegWrite.Module != ModDAQ || w.RegWrite.Reg != DAQSubsampChip0+4 || w.RegWrite.Value != 0x0311 {
		t.Fatalf("RegWrite payload mismatch: %+v", w.RegWrite)
	}

	r := RegRead(ModSATA, RegModuleErr)
	if r.Kind != CmdRegRead || r.RegRead == nil {
		t.Fatalf("RegRead built wrong variant: %+v", r)
	}
	if r.RegRead.Value != 0 {
		t.Fatalf("RegRead carries a value: %+v", r.RegRead)
	}
}

func TestErrorRegisters_FixedOrder(t *testing.T) {
	a := ErrorRegisters()
	b := ErrorRegisters()
	if len(a) == 0 {
		t.Fatal("no error registers defined")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("error register order not deterministic at %d: %v vs %v", i, a[i], b[i])
		}
	}
}
