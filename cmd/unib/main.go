// Copyright 2026, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ezrec/unib/asm"
	"github.com/ezrec/unib/machine"
	"github.com/ezrec/unib/repl"
	"github.com/ezrec/unib/snapshot"
)

func main() {
	var compile string
	var image string
	var save string
	var input string
	var view string
	var monitor bool
	var color bool
	var verbose bool

	flag.StringVar(&compile, "c", "", ".asm file to assemble")
	flag.StringVar(&image, "f", "", ".toml machine image to load")
	flag.StringVar(&save, "s", "", ".toml file to save the final state to")
	flag.StringVar(&input, "i", "", "input queue hex digits (overrides the image)")
	flag.StringVar(&view, "t", "both", "trace view: full, dot, or both")
	flag.BoolVar(&monitor, "r", false, "interactive monitor")
	flag.BoolVar(&color, "color", true, "highlight trace changes in the monitor")
	flag.BoolVar(&verbose, "v", false, "verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if monitor {
		rp := repl.New(os.Stdin, os.Stdout)
		rp.Verbose = verbose
		rp.Color = color

		err := rp.Run()
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	sn := &snapshot.Snapshot{}

	if len(image) != 0 {
		var err error
		sn, err = snapshot.Load(image)
		if err != nil {
			log.Fatalf("%v: %v", image, err)
		}
	}

	// Assemble a new memory image.
	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		as := &asm.Assembler{Verbose: verbose}
		for name, value := range machine.Defines() {
			as.Predefine(name, value)
		}

		prog, err := as.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}

		sn.Memory, err = prog.Memory()
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		if prog.Registers != "" {
			sn.Registers = prog.Registers
		}
		if prog.Input != "" {
			sn.Input = prog.Input
		}
	}

	if len(input) != 0 {
		sn.Input = input
	}

	mc, err := sn.Machine()
	if err != nil {
		log.Fatal(err)
	}
	mc.Verbose = verbose

	runErr := mc.Run()

	switch view {
	case "full":
		fmt.Print(mc.Trace.FullView())
	case "dot":
		fmt.Print(mc.Trace.DotView())
	case "both":
		fmt.Print(mc.Trace.FullView())
		fmt.Println()
		fmt.Print(mc.Trace.DotView())
	default:
		log.Fatalf("unknown view %q", view)
	}

	fmt.Printf("\n%v\n", mc.Reason)
	fmt.Printf("output: %v\n", mc.Output())

	if len(save) != 0 {
		err = snapshot.FromMachine(mc).Save(save)
		if err != nil {
			log.Fatalf("%v: %v", save, err)
		}
	}

	if runErr != nil {
		os.Exit(1)
	}
}
