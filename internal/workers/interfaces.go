// Package workers provides abstractions for managing the client's
// background jobs (the identification pipeline, the periodic sync
// retry) in a unified way.
package workers

import "context"

// Worker is the interface implemented by every background job.
//
// Start launches the job's goroutine and returns immediately; the job
// runs until ctx is cancelled or Stop is called. Stop blocks until the
// job has fully exited and is safe to call on an idle job.
type Worker interface {
	Start(ctx context.Context)
	Stop()
}
