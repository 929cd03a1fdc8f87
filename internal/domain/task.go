package domain

// DefaultTaskName is the task used when a session is started without a name.
const DefaultTaskName = "Default"

// Task is a named unit of work that time entries are recorded against.
type Task struct {
	ID   int64
	Name string
}

// NewTask creates a new Task with the given name.
func NewTask(name string) Task {
	return Task{
		Name: name,
	}
}

// IsValid checks if the task has valid data.
func (t Task) IsValid() bool {
	return t.Name != ""
}

// String returns the task name for display purposes.
func (t Task) String() string {
	return t.Name
}
