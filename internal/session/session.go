// Package session persists the last applied camera state per camera id.
package session

import (
	"context"

	"github.com/mohammed-shakir/camera-stop-engine/internal/camera/controller"
)

type Store interface {
	Load(ctx context.Context, cameraID string) (controller.State, bool, error)
	Save(ctx context.Context, cameraID string, st controller.State) error
	Delete(ctx context.Context, cameraID string) error
}
