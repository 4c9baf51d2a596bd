// Package location tracks the last known position of each device and the
// view state of the user-location puck.
package location

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/uber/h3-go/v4"

	"github.com/mohammed-shakir/camera-stop-engine/internal/core/model"
	"github.com/mohammed-shakir/camera-stop-engine/internal/core/observability"
)

var ErrNoCoordinates = errors.New("location: missing coordinates")

// Coords mirrors the platform location payload. Only longitude and latitude
// are required.
type Coords struct {
	Longitude float64  `json:"longitude"`
	Latitude  float64  `json:"latitude"`
	Altitude  *float64 `json:"altitude,omitempty"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
	Heading   *float64 `json:"heading,omitempty"`
	Course    *float64 `json:"course,omitempty"`
	Speed     *float64 `json:"speed,omitempty"`
}

type Location struct {
	Coords    *Coords `json:"coords,omitempty"`
	Timestamp int64   `json:"timestamp,omitempty"`
}

// CoordinatesFrom returns [longitude, latitude], or nil when loc has no
// usable coords.
func CoordinatesFrom(loc *Location) *model.Position {
	if loc == nil || loc.Coords == nil {
		return nil
	}
	lon, lat := loc.Coords.Longitude, loc.Coords.Latitude
	if math.IsNaN(lon) || math.IsNaN(lat) || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil
	}
	return model.Pos(lon, lat)
}

// Entry is a device's last known location.
type Entry struct {
	DeviceID    string         `json:"deviceId"`
	Location    Location       `json:"location"`
	Coordinates model.Position `json:"coordinates"`
	Cell        string         `json:"cell,omitempty"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// Persister stores encoded entries outside the process. The redis session
// store satisfies it.
type Persister interface {
	SaveLocation(ctx context.Context, deviceID string, payload []byte) error
	LoadLocation(ctx context.Context, deviceID string) ([]byte, bool, error)
}

type Listener func(Entry)

type Options struct {
	CellRes   int
	Persister Persister
	Logger    *slog.Logger
	Now       func() time.Time
}

type Tracker struct {
	mu        sync.RWMutex
	last      map[string]Entry
	listeners map[uint64]Listener
	nextID    uint64

	res int
	p   Persister
	log *slog.Logger
	now func() time.Time
}

func NewTracker(opts Options) *Tracker {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Tracker{
		last:      map[string]Entry{},
		listeners: map[uint64]Listener{},
		res:       opts.CellRes,
		p:         opts.Persister,
		log:       opts.Logger,
		now:       opts.Now,
	}
}

// Update records loc for the device and notifies listeners. Persistence
// failures are logged; the in-memory entry is still updated.
func (t *Tracker) Update(ctx context.Context, deviceID string, loc Location) (Entry, error) {
	pos := CoordinatesFrom(&loc)
	if pos == nil {
		observability.IncLocationUpdate("invalid")
		return Entry{}, ErrNoCoordinates
	}
	e := Entry{
		DeviceID:    deviceID,
		Location:    loc,
		Coordinates: *pos,
		Cell:        t.cellFor(*pos),
		UpdatedAt:   t.now().UTC(),
	}

	t.mu.Lock()
	t.last[deviceID] = e
	n := len(t.last)
	ls := make([]Listener, 0, len(t.listeners))
	for _, l := range t.listeners {
		ls = append(ls, l)
	}
	t.mu.Unlock()

	observability.IncLocationUpdate("ok")
	observability.SetTrackedLocations(n)

	if t.p != nil {
		if err := t.persist(ctx, e); err != nil {
			t.log.WarnContext(ctx, "location persist failed", "device_id", deviceID, "err", err)
		}
	}
	for _, l := range ls {
		l(e)
	}
	return e, nil
}

// LastKnown looks in memory first, then in the persister.
func (t *Tracker) LastKnown(ctx context.Context, deviceID string) (Entry, bool, error) {
	t.mu.RLock()
	e, ok := t.last[deviceID]
	t.mu.RUnlock()
	if ok || t.p == nil {
		return e, ok, nil
	}

	b, ok, err := t.p.LoadLocation(ctx, deviceID)
	if err != nil || !ok {
		return Entry{}, false, err
	}
	if err := json.Unmarshal(b, &e); err != nil {
		return Entry{}, false, fmt.Errorf("decode location %q: %w", deviceID, err)
	}
	return e, true, nil
}

// Subscribe registers l for every subsequent update. The returned func
// removes it.
func (t *Tracker) Subscribe(l Listener) (unsubscribe func()) {
	t.mu.Lock()
	id := t.nextID
	t.nextID++
	t.listeners[id] = l
	t.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.listeners, id)
			t.mu.Unlock()
		})
	}
}

func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.last)
}

func (t *Tracker) persist(ctx context.Context, e Entry) error {
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode location: %w", err)
	}
	return t.p.SaveLocation(ctx, e.DeviceID, b)
}

func (t *Tracker) cellFor(p model.Position) string {
	c, err := h3.LatLngToCell(h3.NewLatLng(p.Lat(), p.Lon()), t.res)
	if err != nil {
		return ""
	}
	return c.String()
}
