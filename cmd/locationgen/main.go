// Command locationgen publishes synthetic device locations to the location
// topic. Each device walks across neighbouring H3 cells.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/IBM/sarama"
	h3 "github.com/uber/h3-go/v4"

	"github.com/mohammed-shakir/camera-stop-engine/internal/location"
	"github.com/mohammed-shakir/camera-stop-engine/internal/location/kafkafeed"
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

type device struct {
	id   string
	cell h3.Cell
	seq  uint64
}

// step moves the device to a random neighbour of its current cell.
func (d *device) step(rng *rand.Rand) error {
	ring, err := h3.GridDisk(d.cell, 1)
	if err != nil {
		return fmt.Errorf("grid disk: %w", err)
	}
	next := ring[rng.IntN(len(ring))]
	d.cell = next
	d.seq++
	return nil
}

func (d *device) update(now time.Time) (kafkafeed.Update, error) {
	ll, err := h3.CellToLatLng(d.cell)
	if err != nil {
		return kafkafeed.Update{}, fmt.Errorf("cell center: %w", err)
	}
	return kafkafeed.Update{
		DeviceID: d.id,
		Seq:      d.seq,
		Location: location.Location{
			Coords:    &location.Coords{Longitude: ll.Lng, Latitude: ll.Lat},
			Timestamp: now.UnixMilli(),
		},
		TS: now,
	}, nil
}

func main() {
	brokers := flag.String("brokers", getenv("KAFKA_BROKERS", "localhost:9092"), "comma separated brokers")
	topic := flag.String("topic", getenv("KAFKA_LOCATION_TOPIC", "device-locations"), "location topic")
	devices := flag.Int("devices", 10, "number of devices")
	res := flag.Int("res", 9, "h3 resolution of the walk")
	lat := flag.Float64("lat", 59.3293, "start latitude")
	lon := flag.Float64("lon", 18.0686, "start longitude")
	interval := flag.Duration("interval", time.Second, "time between rounds")
	rounds := flag.Int("rounds", 0, "rounds to publish, 0 runs until interrupted")
	flag.Parse()

	if err := run(*brokers, *topic, *devices, *res, *lat, *lon, *interval, *rounds); err != nil {
		fmt.Fprintln(os.Stderr, "locationgen:", err)
		os.Exit(1)
	}
}

func run(brokers, topic string, n, res int, lat, lon float64, interval time.Duration, rounds int) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	start, err := h3.LatLngToCell(h3.NewLatLng(lat, lon), res)
	if err != nil {
		return fmt.Errorf("start cell: %w", err)
	}

	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.Partitioner = sarama.NewHashPartitioner
	cfg.Version = sarama.V2_5_0_0
	prod, err := sarama.NewSyncProducer(strings.Split(brokers, ","), cfg)
	if err != nil {
		return fmt.Errorf("producer create: %w", err)
	}
	defer func() { _ = prod.Close() }()

	devs := make([]*device, n)
	for i := range devs {
		devs[i] = &device{id: fmt.Sprintf("dev-%03d", i), cell: start}
	}
	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for round := 0; rounds == 0 || round < rounds; round++ {
		msgs := make([]*sarama.ProducerMessage, 0, len(devs))
		now := time.Now().UTC()
		for _, d := range devs {
			if err := d.step(rng); err != nil {
				return err
			}
			u, err := d.update(now)
			if err != nil {
				return err
			}
			b, _ := json.Marshal(u)
			msgs = append(msgs, &sarama.ProducerMessage{
				Topic: topic,
				Key:   sarama.StringEncoder(d.id),
				Value: sarama.ByteEncoder(b),
			})
		}
		if err := prod.SendMessages(msgs); err != nil {
			return fmt.Errorf("send round %d: %w", round, err)
		}
		fmt.Printf("round %d: published %d locations\n", round, len(msgs))

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
	return nil
}
