// Package jobs provides the scheduled background tasks of the service,
// implemented with github.com/robfig/cron/v3 and coordinated through a
// JobManager.
package jobs

import (
	"fmt"
	"log/slog"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	locationRetentionJob *LocationRetentionJob
	agentSimulatorJob    *AgentSimulatorJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	pruner LocationPruner,
	lister ActiveDeliveryLister,
	newPublisher PublisherFactory,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		locationRetentionJob: NewLocationRetentionJob(pruner, logger),
		agentSimulatorJob:    NewAgentSimulatorJob(lister, newPublisher, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.locationRetentionJob.Start(); err != nil {
		return fmt.Errorf("failed to start location retention job: %w", err)
	}

	if err := jm.agentSimulatorJob.Start(); err != nil {
		jm.locationRetentionJob.Stop()
		return fmt.Errorf("failed to start agent simulator job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.agentSimulatorJob.Stop()
	jm.locationRetentionJob.Stop()
}
