package validation

// TaskValidator provides validation for Task-related operations
type TaskValidator struct {
	validator *Validator
}

// NewTaskValidator creates a new task validator
func NewTaskValidator(v *Validator) *TaskValidator {
	return &TaskValidator{validator: v}
}

// ValidateTaskName checks a name that has already been trimmed
func (tv *TaskValidator) ValidateTaskName(name string) error {
	validationError := NewValidationError()

	if !tv.validator.IsNonEmptyString(name) {
		validationError.AddRequiredError("task_name")
		return validationError.Result()
	}

	if !tv.validator.IsValidTaskNameLength(name) {
		validationError.AddMaxLengthError("task_name", name, tv.validator.TaskNameMaxLength())
	}

	if !tv.validator.HasNoControlCharacters(name) {
		validationError.AddInvalidCharacterError("task_name", name)
	}

	return validationError.Result()
}

// ValidateTaskID validates a task ID
func (tv *TaskValidator) ValidateTaskID(id int64) error {
	validationError := NewValidationError()
	if !tv.validator.IsValidID(id) {
		validationError.AddInvalidValueError("task_id", id, "must be a positive integer")
	}
	return validationError.Result()
}
