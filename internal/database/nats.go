package database

import (
	"fmt"

	"github.com/nats-io/nats.go"
)

// ConnectNATS opens a connection to the NATS server used for moderation
// events. An empty URL disables eventing and returns a nil connection.
func ConnectNATS(url, name string) (*nats.Conn, error) {
	if url == "" {
		return nil, nil
	}

	conn, err := nats.Connect(url, nats.Name(name))
	if err != nil {
		return nil, fmt.Errorf("unable to connect to nats: %w", err)
	}

	return conn, nil
}
