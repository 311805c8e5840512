package output

import "context"

type ProgressPort interface {
	ShowTaskDone(ctx context.Context, done, total int, taskID string)
	ShowTaskFailed(ctx context.Context, taskID string, err error)
}
