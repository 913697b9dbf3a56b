package jobs

import (
	"fmt"
	"log/slog"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	roomJanitorJob *RoomJanitorJob
}

// NewJobManager creates a job manager with all required jobs.
func NewJobManager(
	rooms TrackingRooms,
	deliveries DeliverySnapshotter,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		roomJanitorJob: NewRoomJanitorJob(rooms, deliveries, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.roomJanitorJob.Start(); err != nil {
		return fmt.Errorf("failed to start room janitor job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.roomJanitorJob.Stop()
}
