// Command many-sensors discovers every sensor on a bus and polls all
// of them for temperature, on a loop, until interrupted.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/onewire-uart/go-onewire"
	"github.com/onewire-uart/go-onewire/devices/ds18b20"
)

var app, stop = context.WithCancel(context.Background())

func main() {
	if len(os.Args) != 2 {
		log.Fatalf("usage: %s <serial-device>", os.Args[0])
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Println("app: got signal:", sig)
		stop()
	}()

	log.Println("Opening transport")
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

	sensors := make([]*ds18b20.Sensor, 0, n)
	for i := 0; i < n; i++ {
		log.Printf("%d: %s\n", i, &roms[i])
		sensor, err := ds18b20.New(session, &roms[i], true)
		if err != nil {
			log.Fatal(err)
		}
		sensors = append(sensors, sensor)
	}

	for _, sensor := range sensors {
		log.Printf("====================================================\n")
		log.Printf("    Device: %s", sensor.Name())
		log.Printf("       ROM: %s", sensor.ROM())
		log.Printf(" Parasitic: %t", sensor.ParasiticPower())
		if err := sensor.SetResolution(ds18b20.Resolution12Bits); err != nil {
			log.Println("failed to set resolution")
		}
		log.Printf("Resolution: %s", sensor.Precision())
	}
	log.Printf("====================================================\n")

	go func() {
		measurements := make([]string, len(sensors))
		for {
			for i, sensor := range sensors {
				if tc, err := sensor.TemperatureCelsius(); err != nil {
					measurements[i] = "error"
				} else {
					measurements[i] = fmt.Sprintf("%.02f", tc)
				}
			}
			log.Println(strings.Join(measurements, "   "))
			time.Sleep(3 * time.Second)
		}
	}()
	<-app.Done()
}
