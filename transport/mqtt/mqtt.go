/*
NAME
  mqtt.go

DESCRIPTION
  mqtt.go provides an MQTT fragment source: a subscription on a
  problem topic where each published message carries one fragment.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2025 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package mqtt provides the decoy board's MQTT fragment transport.
package mqtt

import (
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"

	"github.com/ausocean/luz/transport"
	"github.com/ausocean/utils/logging"
)

const (
	connectTimeout      = 10 * time.Second
	disconnectQuiesceMs = 250
	qosAtLeastOnce      = 1
)

// Subscriber receives fragments published to a topic on a broker.
type Subscriber struct {
	broker   string
	topic    string
	clientID string
	log      logging.Logger
	client   paho.Client
}

// NewSubscriber returns a Subscriber for the given broker URL, e.g.
// tcp://broker.local:1883, and topic.
func NewSubscriber(broker, topic, clientID string, l logging.Logger) *Subscriber {
	return &Subscriber{broker: broker, topic: topic, clientID: clientID, log: l}
}

// Name implements transport.Transport.
func (s *Subscriber) Name() string { return "mqtt" }

// Start implements transport.Transport.
func (s *Subscriber) Start(h transport.Handler) error {
	if s.client != nil {
		return errors.New("transport already started")
	}

	opts := paho.NewClientOptions()
	opts.AddBroker(s.broker)
	opts.SetClientID(s.clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		s.log.Warning("mqtt connection lost", "error", err.Error())
	})

	client := paho.NewClient(opts)
	tok := client.Connect()
	if !tok.WaitTimeout(connectTimeout) {
		return errors.New("timed out connecting to broker")
	}
	if err := tok.Error(); err != nil {
		return errors.Wrap(err, "could not connect to broker")
	}

	tok = client.Subscribe(s.topic, qosAtLeastOnce, func(_ paho.Client, msg paho.Message) {
		h(msg.Payload())
	})
	if !tok.WaitTimeout(connectTimeout) {
		client.Disconnect(disconnectQuiesceMs)
		return errors.New("timed out subscribing")
	}
	if err := tok.Error(); err != nil {
		client.Disconnect(disconnectQuiesceMs)
		return errors.Wrap(err, "could not subscribe")
	}

	s.client = client
	s.log.Info("mqtt transport subscribed", "broker", s.broker, "topic", s.topic)
	return nil
}

// Stop implements transport.Transport.
func (s *Subscriber) Stop() error {
	if s.client == nil {
		return nil
	}
	tok := s.client.Unsubscribe(s.topic)
	tok.WaitTimeout(connectTimeout)
	s.client.Disconnect(disconnectQuiesceMs)
	s.client = nil
	return nil
}
