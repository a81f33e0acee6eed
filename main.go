// Command gbabus runs a standalone driver over the memory bus: it loads a
// ROM (and optional BIOS image), wires up the bus with an in-memory save
// backend of the chosen kind, and reads the ROM header word through the
// bus. No save image is loaded and no write is issued. It exists to give
// the bus package a runnable front door the way the teacher's main.go did for its own emulator shell;
// it does not decode or execute ARM instructions (spec §1 scope).
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"gbabus/internal/bus"
	"gbabus/internal/cartridge"
	"gbabus/internal/cpu"
	"gbabus/internal/diag"
	"gbabus/internal/memory"
	"gbabus/internal/timer"
)

func main() {
	romPath := flag.String("rom", "", "path to a GBA ROM image")
	biosPath := flag.String("bios", "", "path to a GBA BIOS image (optional)")
	saveKind := flag.String("save", "sram", "cartridge save backend: none, sram, flash, eeprom")
	debug := flag.Bool("debug", false, "log bus diagnostics (illegal reads and writes) to stderr; unaligned accesses are not logged")
	flag.Parse()

	if *romPath == "" {
		log.Fatal("gbabus: -rom is required")
	}

	rom, err := os.ReadFile(*romPath)
	if err != nil {
		log.Fatalf("gbabus: reading ROM: %v", err)
	}

	var biosImage []byte
	if *biosPath != "" {
		biosImage, err = os.ReadFile(*biosPath)
		if err != nil {
			log.Fatalf("gbabus: reading BIOS: %v", err)
		}
	}

	cart := cartridge.New(rom)
	switch *saveKind {
	case "none":
	case "sram":
		cart.WithSRAM(0x8000)
	case "flash":
		cart.WithFlash(0x10000)
	case "eeprom":
		cart.WithEEPROM(0x200)
	default:
		log.Fatalf("gbabus: unknown -save kind %q", *saveKind)
	}

	mem := memory.New(rom, biosImage)
	core := cpu.NewCore()
	timers := timer.NewState()

	sink := diag.Sink(diag.Nop{})
	if *debug {
		sink = diag.NewLogrus(diag.UnalignedMemory | diag.IllegalRead | diag.IllegalWrite)
	}

	b := bus.New(mem, cart).
		WithCPU(core).
		WithTimers(timers).
		WithDiagnostics(sink)

	fmt.Printf("gbabus: loaded %d byte ROM, save=%s, bios=%v\n", len(rom), *saveKind, *biosPath != "")
	fmt.Printf("gbabus: ROM header word at 0x08000000 = %#08x\n", b.ReadWord(0x08000000))
}
