package pkg

import (
	"context"
	"fmt"
	"time"

	"github.com/aquamarinepk/aqm/events"
	"github.com/nats-io/nats.go"
)

// connect dials NATS with retry options suited to a board client: the push
// channel is an optimization, so the connection may come and go without
// affecting correctness. Reconnects are unbounded.
func connect(url, name string) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return conn, nil
}

type NATSPublisher struct {
	conn *nats.Conn
}

func NewNATSPublisher(url string) (*NATSPublisher, error) {
	conn, err := connect(url, "kotboard-publisher")
	if err != nil {
		return nil, err
	}
	return &NATSPublisher{conn: conn}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, topic string, msg []byte) error {
	return p.conn.Publish(topic, msg)
}

func (p *NATSPublisher) Close() error {
	p.conn.Close()
	return nil
}

type NATSSubscriber struct {
	conn *nats.Conn
}

func NewNATSSubscriber(url string) (*NATSSubscriber, error) {
	conn, err := connect(url, "kotboard-subscriber")
	if err != nil {
		return nil, err
	}
	return &NATSSubscriber{conn: conn}, nil
}

// Subscribe delivers every message on topic to handler. Handler errors are
// swallowed: a missed push event is recovered by the next poll tick.
func (s *NATSSubscriber) Subscribe(ctx context.Context, topic string, handler events.HandlerFunc) error {
	_, err := s.conn.Subscribe(topic, func(msg *nats.Msg) {
		_ = handler(ctx, msg.Data)
	})
	return err
}

func (s *NATSSubscriber) Close() error {
	s.conn.Close()
	return nil
}
