// internal/build/subsample_test.go
package build

import (
	"errors"
	"testing"

	"github.com/tamzrod/daq-acquire/internal/protocol"
)

func TestBuildSubsamples_ChipConstant(t *testing.T) {
	b := newTestBuilder(t)
	cmds, err := b.BuildSubsamples("chip", 40) // masks to chip 8
	if err != nil {
		t.Fatalf("BuildSubsamples err=%v", err)
	}
	if len(cmds) != 32 {
		t.Fatalf("expected 32 writes, got %d", len(cmds))
	}
	for i, c := range cmds {
		w := c.RegWrite
		if c.Kind != protocol.CmdRegWrite || w == nil {
			t.Fatalf("command %d is not a register write: %+v", i, c)
		}
		if w.Module != protocol.ModDAQ {
			t.Fatalf("command %d targets module %v", i, w.Module)
		}
		if want := protocol.DAQSubsampChip0 + protocol.RegisterID(i); w.Reg != want {
			t.Fatalf("command %d targets reg 0x%02x, want 0x%02x", i, uint16(w.Reg), uint16(want))
		}
		chip := uint16(w.Value >> 8)
		channel := uint16(w.Value & 0xFF)
		if chip != 40%32 {
			t.Fatalf("command %d chip = %d, want %d", i, chip, 40%32)
		}
		if channel != uint16(i) {
			t.Fatalf("command %d channel = %d, want %d", i, channel, i)
		}
	}
}

func TestBuildSubsamples_ChannelConstant(t *testing.T) {
	b := newTestBuilder(t)
	cmds, err := b.BuildSubsamples("channel", 7)
	if err != nil {
		t.Fatalf("BuildSubsamples err=%v", err)
	}
	if len(cmds) != 32 {
		t.Fatalf("expected 32 writes, got %d", len(cmds))
	}
	for i, c := range cmds {
		w := c.RegWrite
		chip := uint16(w.Value >> 8)
		channel := uint16(w.Value & 0xFF)
		if chip != uint16(i) {
			t.Fatalf("command %d chip = %d, want %d", i, chip, i)
		}
		if channel != 7 {
			t.Fatalf("command %d channel = %d, want 7", i, channel)
		}
	}
}

func TestBuildSubsamples_Deterministic(t *testing.T) {
	b := newTestBuilder(t)
	first, err := b.BuildSubsamples("channel", 3)
	if err != nil {
		t.Fatalf("BuildSubsamples err=%v", err)
	}
	second, err := b.BuildSubsamples("channel", 3)
	if err != nil {
		t.Fatalf("BuildSubsamples err=%v", err)
	}
	for i := range first {
		if *first[i].RegWrite != *second[i].RegWrite {
			t.Fatalf("write %d differs between identical invocations", i)
		}
	}
}

func TestBuildSubsamples_UnknownConstant(t *testing.T) {
	b := newTestBuilder(t)
	if _, err := b.BuildSubsamples("board", 0); !errors.Is(err, protocol.ErrInvalidArgument) {
		t.Fatalf("err=%v, want ErrInvalidArgument", err)
	}
}

func TestBuildSubsamples_TableNotice(t *testing.T) {
	b := newTestBuilder(t)
	var notices []string
	b.SetNotify(func(s string) { notices = append(notices, s) })

	if _, err := b.BuildSubsamples("chip", 2); err != nil {
		t.Fatalf("BuildSubsamples err=%v", err)
	}
	if len(notices) != 1 {
		t.Fatalf("expected the index table notice, got %d notices", len(notices))
	}
}
