// Command search-roms enumerates every 1-Wire device ROM on a bus
// reachable through a UART adapter.
package main

import (
	"log"
	"os"

	"github.com/onewire-uart/go-onewire"
)

func main() {
	if len(os.Args) != 2 {
		log.Fatalf("usage: %s <serial-device>", os.Args[0])
	}

	transport, err := onewire.NewSerialTransport(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}
	session, err := onewire.Init(transport)
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		_ = session.Deinit()
	}()

	log.Println("Searching ROMs")
	var roms [64]onewire.ROM
	n, err := session.SearchDevices(roms[:])
	if err != nil {
		log.Fatal(err)
	}
	for i := 0; i < n; i++ {
		log.Printf("%d: %s\n", i, &roms[i])
	}
}
