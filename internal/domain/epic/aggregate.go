package epic

import "github.com/ArchieBar/task-tracker-it1/internal/domain/task"

// ComputeStatus derives an epic's status from its task set in a single scan.
// The result is deterministic and order-independent:
//
//   - empty set, or no task complete: TODO
//   - every task complete (non-empty set): DONE
//   - a mix of complete and incomplete: DOING, short-circuited as soon as
//     both kinds have been seen.
//
// Callers persist the result against the epic after every task creation,
// completion-flag change or deletion.
func ComputeStatus(tasks []task.Task) Status {
	var anyComplete, anyIncomplete bool

	for i := range tasks {
		if tasks[i].Completed {
			anyComplete = true
		} else {
			anyIncomplete = true
		}
		if anyComplete && anyIncomplete {
			return StatusDoing
		}
	}

	if anyComplete {
		return StatusDone
	}
	return StatusTodo
}
