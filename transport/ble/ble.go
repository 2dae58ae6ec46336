/*
NAME
  ble.go

DESCRIPTION
  ble.go provides the board's native fragment source: a BLE GATT
  peripheral exposing one writable problem characteristic, where each
  characteristic write carries one fragment.

AUTHOR
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package ble provides the decoy board's BLE fragment transport.
package ble

import (
	"context"
	"sync"

	cble "github.com/currantlabs/ble"
	"github.com/currantlabs/ble/linux"
	"github.com/pkg/errors"

	"github.com/ausocean/luz/transport"
	"github.com/ausocean/utils/logging"
)

// UUIDs of the decoy service and its problem characteristic.
var (
	svcUUID  = cble.MustParse("8e3a10aa-7536-4d1f-9e2c-50b1c2f0d301")
	charUUID = cble.MustParse("8e3a10ab-7536-4d1f-9e2c-50b1c2f0d301")
)

// Peripheral advertises the decoy service and delivers characteristic
// writes as fragments.
type Peripheral struct {
	name string
	log  logging.Logger

	mu     sync.Mutex
	dev    *linux.Device
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewPeripheral returns a Peripheral advertising under name.
func NewPeripheral(name string, l logging.Logger) *Peripheral {
	return &Peripheral{name: name, log: l}
}

// Name implements transport.Transport.
func (p *Peripheral) Name() string { return "ble" }

// Start implements transport.Transport.
func (p *Peripheral) Start(h transport.Handler) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.dev != nil {
		return errors.New("transport already started")
	}

	dev, err := linux.NewDevice()
	if err != nil {
		return errors.Wrap(err, "could not open HCI device")
	}
	cble.SetDefaultDevice(dev)

	svc := cble.NewService(svcUUID)
	char := svc.NewCharacteristic(charUUID)
	char.HandleWrite(cble.WriteHandlerFunc(func(req cble.Request, rsp cble.ResponseWriter) {
		h(req.Data())
	}))

	err = cble.AddService(svc)
	if err != nil {
		dev.Stop()
		return errors.Wrap(err, "could not add decoy service")
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.dev = dev
	p.cancel = cancel

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.log.Info("ble transport advertising", "name", p.name)
		err := cble.AdvertiseNameAndServices(ctx, p.name, svcUUID)
		if err != nil && errors.Cause(err) != context.Canceled {
			p.log.Error("advertising terminated", "error", err.Error())
		}
	}()
	return nil
}

// Stop implements transport.Transport.
func (p *Peripheral) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.dev == nil {
		return nil
	}
	p.cancel()
	p.wg.Wait()
	err := p.dev.Stop()
	p.dev = nil
	if err != nil {
		return errors.Wrap(err, "could not stop HCI device")
	}
	return nil
}
