// Package workers runs the periodic maintenance jobs of the server, such as
// purging idle sessions and forgetting idle login rate limiters.
package workers

import "context"

// Worker is a background job. Run blocks until ctx is cancelled.
type Worker interface {
	Run(ctx context.Context)
}
