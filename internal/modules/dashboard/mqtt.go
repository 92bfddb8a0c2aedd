package dashboard

import (
	"log/slog"

	"revcam-dashboard/internal/device"
	"revcam-dashboard/internal/mqtt"
)

// SnapshotRenderer is the part of the service that takes pushed snapshots.
type SnapshotRenderer interface {
	RenderSnapshot(snap device.StatusSnapshot)
}

// SnapshotSubscriber attaches a handler for pushed status snapshots.
type SnapshotSubscriber interface {
	SetMessageHandler(handler mqtt.SnapshotHandler)
}

// RegisterMQTTHandler renders every pushed snapshot through the same slot
// formatters as the poller.
func RegisterMQTTHandler(subscriber SnapshotSubscriber, renderer SnapshotRenderer, logger *slog.Logger) {
	subscriber.SetMessageHandler(func(snap device.StatusSnapshot) error {
		logger.Debug("rendering pushed status snapshot")
		renderer.RenderSnapshot(snap)
		return nil
	})
}
