package kafkafeed

import (
	"time"

	"github.com/mohammed-shakir/camera-stop-engine/internal/location"
)

type Config struct {
	Enabled bool
	Brokers []string
	Topic   string
	GroupID string

	SessionTimeout   time.Duration
	Heartbeat        time.Duration
	RebalanceTimeout time.Duration
	InitialOldest    bool
	DedupeSize       int
}

func (c Config) withDefaults() Config {
	if c.Topic == "" {
		c.Topic = "device-locations"
	}
	if c.GroupID == "" {
		c.GroupID = "camera-location"
	}
	if c.SessionTimeout <= 0 {
		c.SessionTimeout = 30 * time.Second
	}
	if c.Heartbeat <= 0 {
		c.Heartbeat = 3 * time.Second
	}
	if c.RebalanceTimeout <= 0 {
		c.RebalanceTimeout = 30 * time.Second
	}
	return c
}

// Update is one message on the location topic. Seq increases per device;
// anything not newer than the last applied seq is dropped.
type Update struct {
	DeviceID string            `json:"deviceId"`
	Seq      uint64            `json:"seq"`
	Location location.Location `json:"location"`
	TS       time.Time         `json:"ts"`
}
