package panel

import "github.com/GriffinCanCode/InfaPanel/internal/platform"

// Section identifies a visible panel section.
type Section int

const (
	SectionLogin Section = iota
	SectionActions
	SectionClone
	SectionRun
)

// String returns the section name for logging.
func (s Section) String() string {
	switch s {
	case SectionLogin:
		return "login"
	case SectionActions:
		return "actions"
	case SectionClone:
		return "clone"
	case SectionRun:
		return "run"
	default:
		return "unknown"
	}
}

// ToastKind classifies a transient notification.
type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
	ToastInfo    ToastKind = "info"
)

// Notifier displays transient notifications. External collaborator.
type Notifier interface {
	Toast(kind ToastKind, message string)
}

// View renders panel state. External collaborator; implementations
// must not call back into the Controller re-entrantly.
type View interface {
	ShowSection(section Section)

	SetLoginBusy(busy bool)
	ShowLoginError(message string)

	PopulateTasks(tasks []platform.Task)
	PopulateFolders(folders []platform.Folder)
	PopulateFlows(flows []platform.TaskFlow)

	SetCloneEnabled(enabled bool)
	SetCloneBusy(busy bool)
	SetRunEnabled(enabled bool)
	SetRunBusy(busy bool)
}

// Selection is the transient state consumed by mutating actions.
type Selection struct {
	Task      *platform.Task
	Folder    *platform.Folder
	Flow      *platform.TaskFlow
	CloneName string
}
