// Package jobs provides scheduled background tasks for the tracking service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic housekeeping.
//
// # Available Jobs
//
// 1. RoomJanitorJob - Runs every minute to close tracking rooms whose
// delivery has completed or no longer exists.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(hub, getDeliveryHandler, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// The janitor treats a missing delivery as a stale room and closes it;
// transient read failures leave the room in place for the next sweep.
package jobs
