/*
DESCRIPTION
  luz is the decoy board daemon: it receives climbing problems from a
  host over BLE, TCP or MQTT and displays them on the board's LED
  strip.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package main is the decoy board daemon.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/luz/led"
	"github.com/ausocean/luz/rig"
	"github.com/ausocean/luz/rig/config"
	"github.com/ausocean/luz/transport"
	"github.com/ausocean/luz/transport/ble"
	"github.com/ausocean/luz/transport/mqtt"
	"github.com/ausocean/luz/transport/tcp"
	"github.com/ausocean/utils/logging"
)

// Current software version.
const version = "v1.1.0"

// Logging configuration.
const (
	logPath      = "/var/log/luz/luz.log"
	logMaxSize   = 100 // MB
	logMaxBackup = 5
	logMaxAge    = 28 // days
	logVerbosity = logging.Info
	logSuppress  = true
)

const pkg = "luz: "

func main() {
	showVersion := flag.Bool("version", false, "show version")
	configPath := flag.String("config", "/etc/luz/luz.yaml", "path to config file")
	flag.Parse()
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	// Create lumberjack logger to handle logging to file.
	fileLog := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}

	log := logging.New(logVerbosity, io.MultiWriter(fileLog, os.Stderr), logSuppress)
	log.Info("starting luz", "version", version)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(pkg+"could not load config", "error", err.Error())
	}
	cfg.Logger = log
	err = cfg.Validate()
	if err != nil {
		log.Fatal(pkg+"could not validate config", "error", err.Error())
	}

	strip, closeStrip, err := openStrip(cfg)
	if err != nil {
		log.Fatal(pkg+"could not open LED device", "error", err.Error())
	}
	defer closeStrip()

	r, err := rig.New(cfg, strip, transports(cfg, log)...)
	if err != nil {
		log.Fatal(pkg+"could not initialise rig", "error", err.Error())
	}

	// Reload on config file change. The reloaded config is only logged;
	// transports and the strip take new settings when luz next starts.
	w, err := config.Watch(*configPath, log, func(c config.Config) {
		log.Info("config reloaded; restart to apply transport changes")
	})
	if err != nil {
		log.Warning(pkg+"could not watch config file", "error", err.Error())
	} else {
		defer w.Close()
	}

	err = r.Start()
	if err != nil {
		log.Fatal(pkg+"could not start rig", "error", err.Error())
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	s := <-sig
	log.Info("terminating", "signal", s.String())

	err = r.Stop()
	if err != nil {
		log.Error(pkg+"could not stop rig cleanly", "error", err.Error())
	}
}

// openStrip opens the configured SPI device and returns the strip
// driving it.
func openStrip(cfg config.Config) (led.Strip, func(), error) {
	f, err := os.OpenFile(cfg.LEDDevice, os.O_WRONLY, 0)
	if err != nil {
		return nil, nil, err
	}
	return led.NewSPIStrip(f, cfg.NumLEDs), func() { f.Close() }, nil
}

// transports builds the transports enabled by the configuration.
func transports(cfg config.Config, log logging.Logger) []transport.Transport {
	var ts []transport.Transport
	if cfg.BLE {
		ts = append(ts, ble.NewPeripheral(cfg.BLEName, log))
	}
	if cfg.TCPAddr != "" {
		ts = append(ts, tcp.NewServer(cfg.TCPAddr, log))
	}
	if cfg.MQTTBroker != "" {
		ts = append(ts, mqtt.NewSubscriber(cfg.MQTTBroker, cfg.MQTTTopic, "luz-board", log))
	}
	return ts
}
