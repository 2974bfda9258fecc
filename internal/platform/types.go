package platform

// Folder is a platform project, the target container for cloned
// assets. Identified canonically by ID; the display label falls back
// across the name spellings the listing endpoint uses.
type Folder struct {
	ID          string
	Name        string
	DisplayName string
	Path        string
}

// Label returns the first non-empty of name, display name, path, id.
func (f Folder) Label() string {
	for _, candidate := range []string{f.Name, f.DisplayName, f.Path, f.ID} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

// Task is a platform task snapshot.
type Task struct {
	ID         string
	Name       string
	AtType     string // "@type" discriminator
	Type       string
	TaskType   string
	CreateTime string
	UpdateTime string
}

// IsMappingTask reports whether any of the equivalent type markers
// identifies this as a data-mapping task.
func (t Task) IsMappingTask() bool {
	return t.AtType == "mtTask" ||
		t.Type == "MTT_MAPPING" ||
		t.TaskType == "MTT_MAPPING" ||
		t.Type == "mtTask"
}

// TaskFlow is a runnable unit offered in the run-task listing. Distinct
// from Task: the listing is not guaranteed to share its shape.
type TaskFlow struct {
	ID   string
	Name string
}

// Job is a started task-flow execution.
type Job struct {
	ID string
}
