// Copyright 2018 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"os/signal"

	"github.com/beevik/term"
	"github.com/pgbemu/pgbdebug/device"
	"github.com/pgbemu/pgbdebug/host"
)

var (
	decoder   string
	image     string
	connect   string
	listen    string
	stepLimit int
	color     bool
)

func init() {
	flag.StringVar(&decoder, "decoder", string(device.DecoderTable), "instruction decoder (table or logical)")
	flag.StringVar(&image, "image", "", "image file loaded on reset")
	flag.StringVar(&connect, "connect", "", "debug a remote device at this address")
	flag.StringVar(&listen, "listen", "", "serve a flat memory device at this address instead of debugging")
	flag.IntVar(&stepLimit, "steplimit", 0, "max steps per continue, 0 for no limit")
	flag.BoolVar(&color, "color", true, "colorize output when writing to a terminal")
	flag.CommandLine.Usage = func() {
		fmt.Println("Usage: pgbdebug [script] ..\nOptions:")
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()

	d, err := device.ParseDecoder(decoder)
	if err != nil {
		exitOnError(err)
	}

	if listen != "" {
		serve(d)
		return
	}

	var dev device.Device
	if connect != "" {
		client, err := device.Dial(connect)
		if err != nil {
			exitOnError(err)
		}
		defer client.Close()
		dev = client
	} else {
		dev = device.NewFlat()
	}

	// Load the image. A remote device keeps its current state unless an
	// image was requested.
	if connect == "" || image != "" {
		if err := dev.Reset(d, image); err != nil {
			exitOnError(err)
		}
	}

	interactive := term.IsTerminal(int(os.Stdin.Fd()))

	h := host.New(dev)
	s := h.Settings()
	s.Decoder = string(d)
	s.Image = image
	s.StepLimit = stepLimit
	s.ShowPanels = interactive
	s.Color = color && term.IsTerminal(int(os.Stdout.Fd()))

	// Run commands contained in command-line files.
	for _, filename := range flag.Args() {
		file, err := os.Open(filename)
		if err != nil {
			exitOnError(err)
		}
		h.RunCommands(file, os.Stdout, false)
		file.Close()
	}

	// Break on Ctrl-C.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go handleInterrupt(h, c)

	// Run commands interactively.
	h.RunCommands(os.Stdin, os.Stdout, interactive)
}

func serve(d device.Decoder) {
	dev := device.NewFlat()
	if err := dev.Reset(d, image); err != nil {
		exitOnError(err)
	}

	l, err := net.Listen("tcp", listen)
	if err != nil {
		exitOnError(err)
	}
	log.Printf("device: serving on %s", l.Addr())
	exitOnError(device.Serve(l, dev))
}

func handleInterrupt(h *host.Host, c chan os.Signal) {
	for {
		<-c
		h.Break()
	}
}

func exitOnError(err error) {
	fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
	os.Exit(1)
}
