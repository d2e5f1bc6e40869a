// Command stackvm is a thin debug entry point for driving a Machine from
// hex-encoded inputs on the command line. It performs no validation beyond
// what vm.Machine already does and is not a subject of the interpreter
// core's invariants.
//
// Usage:
//
//	stackvm --code 0x6005600a0160005260206000f3 --gas 1000000
//	stackvm --code 0x... --calldata 0x... --storage 0x01=0x2a --gas 50000
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/stackvm/evm/core/types"
	stacklog "github.com/stackvm/evm/log"
	"github.com/stackvm/evm/vm"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run is the actual entry point, returning an exit code so it can be
// tested in isolation.
func run(args []string) int {
	fs := flag.NewFlagSet("stackvm", flag.ContinueOnError)
	codeHex := fs.String("code", "", "contract bytecode, 0x-prefixed hex")
	calldataHex := fs.String("calldata", "", "calldata, 0x-prefixed hex")
	gasLimit := fs.Uint64("gas", 1_000_000, "gas limit for the outermost frame")
	verbose := fs.Bool("v", false, "enable debug logging")
	var storageFlags storageAssignments
	fs.Var(&storageFlags, "storage", "initial storage slot as key=value hex, repeatable")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *codeHex == "" {
		fmt.Fprintln(os.Stderr, "stackvm: --code is required")
		return 2
	}

	if *verbose {
		stacklog.SetDefault(stacklog.New(slog.LevelDebug))
	}
	log := stacklog.Default().Module("cmd")

	code, err := decodeHexArg(*codeHex)
	if err != nil {
		fmt.Fprintf(os.Stderr, "stackvm: --code: %v\n", err)
		return 2
	}
	calldata, err := decodeHexArg(*calldataHex)
	if err != nil {
		fmt.Fprintf(os.Stderr, "stackvm: --calldata: %v\n", err)
		return 2
	}
	storage, err := storageFlags.toMap()
	if err != nil {
		fmt.Fprintf(os.Stderr, "stackvm: --storage: %v\n", err)
		return 2
	}

	m := vm.NewMachine(code, calldata, storage, *gasLimit)
	outcome := m.Run()

	log.Debug("run complete", "outcome", outcome.Kind.String(), "payload_len", len(outcome.Data))

	fmt.Printf("outcome: %s\n", outcome.Kind)
	if len(outcome.Data) > 0 {
		fmt.Printf("payload: 0x%s\n", hex.EncodeToString(outcome.Data))
	}

	final := m.Accounts[types.OutermostCallee]
	if final != nil && len(final.Storage) > 0 {
		fmt.Println("final storage:")
		for k, v := range final.Storage {
			k, v := k, v
			fmt.Printf("  0x%x = 0x%x\n", types.BigEndian(&k), types.BigEndian(&v))
		}
	}

	if outcome.Kind != vm.Success {
		return 1
	}
	return 0
}

// decodeHexArg decodes an optional 0x-prefixed (or bare) hex string,
// returning nil for an empty input.
func decodeHexArg(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	return hex.DecodeString(strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X"))
}

// storageAssignments collects repeated --storage key=value flags.
type storageAssignments []string

func (s *storageAssignments) String() string { return strings.Join(*s, ",") }

func (s *storageAssignments) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func (s storageAssignments) toMap() (map[types.Word]types.Word, error) {
	if len(s) == 0 {
		return nil, nil
	}
	out := make(map[types.Word]types.Word, len(s))
	for _, kv := range s {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("expected key=value, got %q", kv)
		}
		keyBytes, err := decodeHexArg(parts[0])
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", parts[0], err)
		}
		valBytes, err := decodeHexArg(parts[1])
		if err != nil {
			return nil, fmt.Errorf("value %q: %w", parts[1], err)
		}
		out[*types.WordFromBigEndian(keyBytes)] = *types.WordFromBigEndian(valBytes)
	}
	return out, nil
}
