// cmd/acquirectl/main.go
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/tamzrod/daq-acquire/internal/build"
	"github.com/tamzrod/daq-acquire/internal/config"
	"github.com/tamzrod/daq-acquire/internal/daemon"
	"github.com/tamzrod/daq-acquire/internal/protocol"
	"github.com/tamzrod/daq-acquire/internal/triage"
)

// buildFunc turns parsed subcommand arguments into a command batch.
type buildFunc func(b *build.Builder, cfg *config.Config, args []string) ([]protocol.ControlCommand, error)

// handler is one CLI subcommand: batch construction plus response policy.
type handler struct {
	name     string
	describe string
	build    buildFunc
	filter   triage.Filter
}

// handlers is the ordered dispatch table. Order matters only for usage
// output.
var handlers = []handler{
	{
		name:     "start",
		describe: "Start acquiring to node disk and streaming live data to daemon",
		build:    buildStart,
		filter:   triage.Passthrough,
	},
	{
		name:     "save_stream",
		describe: "Save live streaming data to disk on daemon computer",
		build:    buildSaveStream,
		filter:   triage.Passthrough,
	},
	{
		name:     "stop",
		describe: "Stop acquiring to node disk, and stop streaming",
		build:    buildStop,
		filter:   triage.Passthrough,
	},
	{
		name:     "save_stored",
		describe: "Copy experiment data from node disk to file on daemon computer (after stopping acquisition)",
		build:    buildSaveStored,
		filter:   triage.Passthrough,
	},
	{
		name:     "forward",
		describe: "Control live stream data forwarding",
		build:    buildForward,
		filter:   triage.Passthrough,
	},
	{
		name:     "dump_err_regs",
		describe: "Print nonzero error registers",
		build:    buildDumpErrRegs,
		filter:   triage.ErrorsOnly,
	},
	{
		name:     "subsamples",
		describe: "Configure which channels make up the subsample",
		build:    buildSubsamples,
		filter:   triage.Passthrough,
	},
}

func lookup(name string) *handler {
	for i := range handlers {
		if handlers[i].name == name {
			return &handlers[i]
		}
	}
	return nil
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: acquirectl [-config file.yaml] command [command_args ...]\n\nCommands:\n\n")
	for _, h := range handlers {
		fmt.Fprintf(os.Stderr, "   %s: %s\n", h.name, h.describe)
	}
}

//
// ---- subcommand builders ----
//

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

func badArgs(err error) error {
	return fmt.Errorf("%w: %v", protocol.ErrInvalidArgument, err)
}

func buildStart(b *build.Builder, cfg *config.Config, args []string) ([]protocol.ControlCommand, error) {
	fs := newFlagSet("start")
	var startSample uint64
	fs.Uint64Var(&startSample, "s", 0, "board sample index (BSI) at which to start acquiring")
	fs.Uint64Var(&startSample, "start_sample", 0, "board sample index (BSI) at which to start acquiring")
	if err := fs.Parse(args); err != nil {
		return nil, badArgs(err)
	}
	if fs.NArg() != 0 {
		return nil, badArgs(fmt.Errorf("start takes no positional arguments"))
	}
	return b.BuildAcquire(true, startSample)
}

func buildStop(b *build.Builder, cfg *config.Config, args []string) ([]protocol.ControlCommand, error) {
	fs := newFlagSet("stop")
	if err := fs.Parse(args); err != nil {
		return nil, badArgs(err)
	}
	if fs.NArg() != 0 {
		return nil, badArgs(fmt.Errorf("stop takes no positional arguments"))
	}
	return b.BuildAcquire(false, 0)
}

// parseBackend maps the operator token to a wire backend; empty means
// "let the daemon decide" and stays nil.
func parseBackend(token string) (*protocol.StorageBackend, error) {
	switch token {
	case "":
		return nil, nil
	case "STORE_HDF5":
		be := protocol.StoreHDF5
		return &be, nil
	case "STORE_RAW":
		be := protocol.StoreRaw
		return &be, nil
	default:
		return nil, fmt.Errorf("%w: unknown storage backend %q", protocol.ErrInvalidArgument, token)
	}
}

func buildSaveStored(b *build.Builder, cfg *config.Config, args []string) ([]protocol.ControlCommand, error) {
	fs := newFlagSet("save_stored")
	var startSample, nsamples uint64
	var backend string
	fs.Uint64Var(&startSample, "s", 0, "start sample")
	fs.Uint64Var(&startSample, "start_sample", 0, "start sample")
	fs.Uint64Var(&nsamples, "n", 0, "number of samples (0: until the experiment ends)")
	fs.Uint64Var(&nsamples, "nsamples", 0, "number of samples (0: until the experiment ends)")
	fs.StringVar(&backend, "b", "", "storage backend (STORE_HDF5 or STORE_RAW)")
	fs.StringVar(&backend, "backend", "", "storage backend (STORE_HDF5 or STORE_RAW)")
	if err := fs.Parse(args); err != nil {
		return nil, badArgs(err)
	}
	if fs.NArg() != 1 {
		return nil, badArgs(fmt.Errorf("save_stored requires exactly one file argument"))
	}
	be, err := parseBackend(backend)
	if err != nil {
		return nil, err
	}
	return b.BuildSaveStored(fs.Arg(0), startSample, nsamples, be)
}

func buildSaveStream(b *build.Builder, cfg *config.Config, args []string) ([]protocol.ControlCommand, error) {
	fs := newFlagSet("save_stream")
	var backend string
	fs.StringVar(&backend, "b", "", "storage backend (STORE_HDF5 or STORE_RAW)")
	fs.StringVar(&backend, "backend", "", "storage backend (STORE_HDF5 or STORE_RAW)")
	if err := fs.Parse(args); err != nil {
		return nil, badArgs(err)
	}
	if fs.NArg() != 2 {
		return nil, badArgs(fmt.Errorf("save_stream requires file and nsamples arguments"))
	}
	nsamples, err := strconv.ParseUint(fs.Arg(1), 10, 64)
	if err != nil {
		return nil, badArgs(fmt.Errorf("nsamples %q is not a non-negative integer", fs.Arg(1)))
	}
	be, err := parseBackend(backend)
	if err != nil {
		return nil, err
	}
	return b.BuildSaveStream(fs.Arg(0), nsamples, be)
}

func buildForward(b *build.Builder, cfg *config.Config, args []string) ([]protocol.ControlCommand, error) {
	fwd := cfg.Acquire.Forward

	fs := newFlagSet("forward")
	var forceReset bool
	sampleType := fwd.Type
	address := fwd.Address
	port := fwd.Port
	fs.BoolVar(&forceReset, "f", false, "[DANGEROUS] force DAQ module reset")
	fs.BoolVar(&forceReset, "force-daq-reset", false, "[DANGEROUS] force DAQ module reset")
	fs.StringVar(&sampleType, "t", fwd.Type, "type of packets to forward (sample, subsample, sample_raw, subsample_raw)")
	fs.StringVar(&sampleType, "type", fwd.Type, "type of packets to forward (sample, subsample, sample_raw, subsample_raw)")
	fs.StringVar(&address, "a", fwd.Address, "address to forward packets to")
	fs.StringVar(&address, "address", fwd.Address, "address to forward packets to")
	fs.IntVar(&port, "p", fwd.Port, "port to forward packets to")
	fs.IntVar(&port, "port", fwd.Port, "port to forward packets to")
	if err := fs.Parse(args); err != nil {
		return nil, badArgs(err)
	}
	if fs.NArg() != 1 {
		return nil, badArgs(fmt.Errorf("forward requires a start|stop argument"))
	}
	return b.BuildForward(sampleType, forceReset, address, port, fs.Arg(0))
}

func buildDumpErrRegs(b *build.Builder, cfg *config.Config, args []string) ([]protocol.ControlCommand, error) {
	fs := newFlagSet("dump_err_regs")
	if err := fs.Parse(args); err != nil {
		return nil, badArgs(err)
	}
	if fs.NArg() != 0 {
		return nil, badArgs(fmt.Errorf("dump_err_regs takes no positional arguments"))
	}
	return b.BuildDumpErrRegs()
}

func buildSubsamples(b *build.Builder, cfg *config.Config, args []string) ([]protocol.ControlCommand, error) {
	fs := newFlagSet("subsamples")
	var constant string
	fs.StringVar(&constant, "constant", "", "what to hold constant (chip or channel)")
	if err := fs.Parse(args); err != nil {
		return nil, badArgs(err)
	}
	if constant == "" {
		return nil, badArgs(fmt.Errorf("subsamples requires -constant chip|channel"))
	}
	if fs.NArg() != 1 {
		return nil, badArgs(fmt.Errorf("subsamples requires the constant value as an argument"))
	}
	number, err := strconv.ParseUint(fs.Arg(0), 10, 16)
	if err != nil {
		return nil, badArgs(fmt.Errorf("number %q is not a non-negative integer", fs.Arg(0)))
	}
	return b.BuildSubsamples(constant, uint16(number))
}

//
// ---- main ----
//

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "config YAML path (default: $"+config.EnvConfig+")")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(1)
	}

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}
	config.Normalize(cfg)

	if lc := cfg.Acquire.Log; lc.File != "" {
		log.SetOutput(io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   lc.File,
			MaxSize:    lc.MaxSizeMB,
			MaxBackups: lc.MaxBackups,
		}))
	}

	// --------------------
	// Build the command batch
	// --------------------

	h := lookup(flag.Arg(0))
	if h == nil {
		usage()
		os.Exit(1)
	}

	builder, err := build.New(build.DefaultGeometry())
	if err != nil {
		log.Fatalf("builder init failed: %v", err)
	}
	builder.SetNotify(func(s string) { fmt.Println(s) })

	cmds, err := h.build(builder, cfg, flag.Args()[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// --------------------
	// One round trip to the daemon
	// --------------------

	client, err := daemon.New(daemon.Config{
		Endpoint: cfg.Acquire.Daemon.Endpoint,
		Timeout:  time.Duration(cfg.Acquire.Daemon.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		log.Fatalf("daemon connect failed: %v", err)
	}
	defer client.Close()

	resps, err := client.Submit(cmds)
	if err != nil {
		if errors.Is(err, daemon.ErrNoResponse) {
			fmt.Fprintln(os.Stderr, "Didn't get a response")
			os.Exit(1)
		}
		log.Fatalf("control submit failed: %v", err)
	}

	// All surfaced responses are printed; any ERR makes the exit
	// status non-zero without cutting the batch short.

	exit := 0
	for _, r := range h.filter(resps) {
		fmt.Println(r)
		if r.IsErr() {
			exit = 1
		}
	}
	os.Exit(exit)
}
