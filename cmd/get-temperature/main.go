// Command get-temperature reads a single temperature sensor that is the
// only device on its bus.
package main

import (
	"log"
	"os"

	"github.com/onewire-uart/go-onewire"
	"github.com/onewire-uart/go-onewire/devices/ds18b20"
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

	// Works when only one sensor is connected.
	sensor, err := ds18b20.New(session, nil, true)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("     Device: %s", sensor.Name())
	log.Printf("        ROM: %s", sensor.ROM())
	log.Printf("  Parasitic: %t", sensor.ParasiticPower())
	log.Printf(" Resolution: %s", sensor.Precision())

	temp, err := sensor.TemperatureCelsius()
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("Temperature: %.02f\n", temp)
}
