package hermes

const (
	SubjectTasksAnalyzed  = "triage.tasks.analyzed"
	SubjectTasksSuggested = "triage.tasks.suggested"

	StreamName   = "TRIAGE_EVENTS"
	StreamMaxAge = "168h" // 7 days
)

func SubjectTaskCreated(taskID string) string { return "triage.task." + taskID + ".created" }
func SubjectTaskUpdated(taskID string) string { return "triage.task." + taskID + ".updated" }
func SubjectTaskDeleted(taskID string) string { return "triage.task." + taskID + ".deleted" }
