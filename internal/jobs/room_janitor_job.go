package jobs

import (
	"context"
	"errors"
	"log/slog"

	"routeplanner/internal/core/application/usecases/queries"
	"routeplanner/internal/core/domain/model/delivery"
	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

// DeliverySnapshotter reads delivery tracking snapshots. Satisfied by both
// the SQL and the in-memory query handler.
type DeliverySnapshotter interface {
	Handle(ctx context.Context, query queries.GetDeliveryQuery) (queries.GetDeliveryQueryResponse, error)
}

// TrackingRooms is the hub surface the janitor needs.
type TrackingRooms interface {
	Rooms() []string
	CloseRoom(deliveryID string)
}

// RoomJanitorJob prunes tracking rooms whose delivery is finished or gone.
// Observers of a completed delivery receive the delivery_completed
// broadcast when it happens; after that the room only ties up memory.
// Runs every minute.
type RoomJanitorJob struct {
	rooms      TrackingRooms
	deliveries DeliverySnapshotter
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewRoomJanitorJob creates a job pruning stale tracking rooms.
func NewRoomJanitorJob(
	rooms TrackingRooms,
	deliveries DeliverySnapshotter,
	logger *slog.Logger,
) *RoomJanitorJob {
	return &RoomJanitorJob{
		rooms:      rooms,
		deliveries: deliveries,
		cron:       cron.New(),
		logger:     logger.With("component", "room_janitor_job"),
	}
}

// Start begins the janitor job on a once-a-minute schedule.
func (j *RoomJanitorJob) Start() error {
	_, err := j.cron.AddFunc("* * * * *", func() {
		j.Sweep(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Room janitor job started (running every minute)")
	return nil
}

// Stop stops the janitor job.
func (j *RoomJanitorJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Room janitor job stopped")
}

// Sweep closes every room whose delivery is completed or unknown. Rooms
// with resolvable in-progress deliveries are left alone.
func (j *RoomJanitorJob) Sweep(ctx context.Context) {
	for _, roomID := range j.rooms.Rooms() {
		if j.shouldClose(ctx, roomID) {
			j.rooms.CloseRoom(roomID)
			j.logger.InfoContext(ctx, "Pruned tracking room", "deliveryId", roomID)
		}
	}
}

func (j *RoomJanitorJob) shouldClose(ctx context.Context, roomID string) bool {
	deliveryID, err := kernel.UUIDFromString(roomID)
	if err != nil {
		// Rooms are keyed by delivery id; anything else is garbage.
		return true
	}

	query, err := queries.NewGetDeliveryQuery(deliveryID)
	if err != nil {
		return true
	}

	snapshot, err := j.deliveries.Handle(ctx, query)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return true
		}
		// Transient read failure: keep the room, retry next sweep.
		j.logger.WarnContext(ctx, "Room janitor could not read delivery",
			"deliveryId", roomID, "error", err)
		return false
	}

	return snapshot.Status == delivery.Completed.String()
}
