package platform

// Ordered-fallback extraction for the platform's loosely shaped
// responses. Each function documents its fallback order; nothing else
// in the codebase sniffs response fields directly.

// unwrapList accepts either a bare JSON array or a wrapper object and
// returns the contained list. Wrapper fields are tried in order:
// "objects", "tasks", "items", "data". Unrecognized shapes degrade to
// an empty list so the panel stays usable against an unexpected API
// version.
func unwrapList(data interface{}) []interface{} {
	if list, ok := data.([]interface{}); ok {
		return list
	}
	body, ok := data.(map[string]interface{})
	if !ok {
		return nil
	}
	for _, key := range []string{"objects", "tasks", "items", "data"} {
		if list, ok := body[key].([]interface{}); ok {
			return list
		}
	}
	return nil
}

// stringField returns the first non-empty string among the given keys.
func stringField(m map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if v, ok := m[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// folderFromMap decodes a folder. Label fallback order is name,
// displayName, path; id doubles as a last-resort label via
// Folder.Label.
func folderFromMap(m map[string]interface{}) Folder {
	return Folder{
		ID:          stringField(m, "id"),
		Name:        stringField(m, "name"),
		DisplayName: stringField(m, "displayName"),
		Path:        stringField(m, "path"),
	}
}

// taskFromMap decodes a task. ID falls back id → taskId, name falls
// back name → taskName.
func taskFromMap(m map[string]interface{}) Task {
	return Task{
		ID:         stringField(m, "id", "taskId"),
		Name:       stringField(m, "name", "taskName"),
		AtType:     stringField(m, "@type"),
		Type:       stringField(m, "type"),
		TaskType:   stringField(m, "taskType"),
		CreateTime: stringField(m, "createTime"),
		UpdateTime: stringField(m, "updateTime"),
	}
}

// flowFromMap decodes a task-flow entry with the same id/name
// fallbacks as taskFromMap.
func flowFromMap(m map[string]interface{}) TaskFlow {
	return TaskFlow{
		ID:   stringField(m, "id", "taskId"),
		Name: stringField(m, "name", "taskName"),
	}
}

// jobID extracts a started job's identifier, jobId → id.
func jobID(data interface{}) string {
	body, ok := data.(map[string]interface{})
	if !ok {
		return ""
	}
	return stringField(body, "jobId", "id")
}
