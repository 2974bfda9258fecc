package platform

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/InfaPanel/internal/infrastructure/logging"
	"github.com/GriffinCanCode/InfaPanel/internal/relay"
)

// ErrSessionExpired reports that a previously valid session was
// rejected mid-use. Callers must return to the unauthenticated state
// rather than surface this as an ordinary failure.
var ErrSessionExpired = errors.New("session expired")

// Identity fields stripped from a task before cloning so the platform
// regenerates them.
var cloneResetFields = []string{"id", "createTime", "updateTime", "createdBy", "updatedBy"}

// Client calls the platform's REST API through a relay port.
type Client struct {
	port   relay.Port
	pod    string
	token  relay.TokenSource
	logger *logging.Logger
}

// NewClient creates a platform client. podURL is the org's pod API
// base (e.g. https://use4.dm-us.informaticacloud.com/saas); token
// supplies the current session credential and is consulted on every
// call, never captured.
func NewClient(port relay.Port, podURL string, token relay.TokenSource, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.NewDefault()
	}
	return &Client{port: port, pod: podURL, token: token, logger: logger}
}

// ListFolders fetches the projects usable as clone targets.
func (c *Client) ListFolders(ctx context.Context) ([]Folder, error) {
	data, err := c.get(ctx, c.pod+"/public/core/v3/objects?q=type=='PROJECT'&limit=200")
	if err != nil {
		return nil, err
	}

	var folders []Folder
	for _, entry := range unwrapList(data) {
		m, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		folder := folderFromMap(m)
		if folder.ID == "" && folder.Label() == "" {
			continue
		}
		folders = append(folders, folder)
	}
	return folders, nil
}

// ListTasks fetches all tasks visible to the session.
func (c *Client) ListTasks(ctx context.Context) ([]Task, error) {
	data, err := c.get(ctx, c.pod+"/api/v2/mttask")
	if err != nil {
		return nil, err
	}

	var tasks []Task
	for _, entry := range unwrapList(data) {
		m, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		task := taskFromMap(m)
		if task.ID == "" {
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// MappingTasks fetches tasks and keeps only data-mapping tasks.
func (c *Client) MappingTasks(ctx context.Context) ([]Task, error) {
	tasks, err := c.ListTasks(ctx)
	if err != nil {
		return nil, err
	}

	var mapping []Task
	for _, task := range tasks {
		if task.IsMappingTask() {
			mapping = append(mapping, task)
		}
	}
	return mapping, nil
}

// GetTask fetches the full task document, needed verbatim for cloning.
func (c *Client) GetTask(ctx context.Context, id string) (map[string]interface{}, error) {
	data, err := c.get(ctx, c.pod+"/api/v2/mttask/"+id)
	if err != nil {
		return nil, err
	}
	detail, ok := data.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("unexpected task response shape")
	}
	return detail, nil
}

// CloneTask copies an existing task into the target folder under a new
// name: fetch the full document, strip identity fields, retarget, and
// create. Exactly one mutating call is issued.
func (c *Client) CloneTask(ctx context.Context, taskID, folderID, newName string) (Task, error) {
	detail, err := c.GetTask(ctx, taskID)
	if err != nil {
		return Task{}, err
	}

	payload := make(map[string]interface{}, len(detail))
	for k, v := range detail {
		payload[k] = v
	}
	for _, field := range cloneResetFields {
		delete(payload, field)
	}
	payload["name"] = newName
	payload["projectId"] = folderID

	data, err := c.post(ctx, c.pod+"/api/v2/mttask", payload)
	if err != nil {
		return Task{}, err
	}

	created, ok := data.(map[string]interface{})
	if !ok {
		return Task{}, fmt.Errorf("unexpected clone response shape")
	}
	task := taskFromMap(created)
	if task.ID == "" {
		return Task{}, fmt.Errorf("clone response carried no task id")
	}

	c.logger.Info("Cloned task",
		zap.String("source_id", taskID),
		zap.String("new_id", task.ID),
		zap.String("folder_id", folderID),
	)
	return task, nil
}

// ListTaskFlows fetches the runnable units for the run action.
func (c *Client) ListTaskFlows(ctx context.Context) ([]TaskFlow, error) {
	data, err := c.get(ctx, c.pod+"/api/v2/mttask/")
	if err != nil {
		return nil, err
	}

	var flows []TaskFlow
	for _, entry := range unwrapList(data) {
		m, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		flow := flowFromMap(m)
		if flow.ID == "" {
			continue
		}
		flows = append(flows, flow)
	}
	return flows, nil
}

// RunTaskFlow starts a job for the selected task flow.
func (c *Client) RunTaskFlow(ctx context.Context, flowID string) (Job, error) {
	data, err := c.post(ctx, c.pod+"/api/v2/job", map[string]interface{}{
		"@type":    "job",
		"taskId":   flowID,
		"taskType": "MTT",
		"runtime": map[string]interface{}{
			"@type": "mtTaskRuntime",
		},
	})
	if err != nil {
		return Job{}, err
	}

	job := Job{ID: jobID(data)}
	c.logger.Info("Started job", zap.String("flow_id", flowID), zap.String("job_id", job.ID))
	return job, nil
}

func (c *Client) get(ctx context.Context, url string) (interface{}, error) {
	headers, err := c.authHeaders()
	if err != nil {
		return nil, err
	}
	data, err := c.port.Do(ctx, relay.Request{URL: url, Method: "GET", Headers: headers})
	return data, c.mapErr(err)
}

func (c *Client) post(ctx context.Context, url string, body interface{}) (interface{}, error) {
	headers, err := c.authHeaders()
	if err != nil {
		return nil, err
	}
	data, err := c.port.Do(ctx, relay.Request{URL: url, Method: "POST", Headers: headers, Body: body})
	return data, c.mapErr(err)
}

// authHeaders re-derives the credential headers from the current
// session. Both header spellings are sent: v3 endpoints read
// INFA-SESSION-ID, older v2 endpoints read icSessionId.
func (c *Client) authHeaders() (map[string]string, error) {
	token, ok := c.token()
	if !ok || token == "" {
		return nil, ErrSessionExpired
	}
	return map[string]string{
		"Accept":            "application/json",
		"Content-Type":      "application/json",
		relay.SessionHeader: token,
		"icSessionId":       token,
	}, nil
}

// mapErr converts a platform rejection of the session into
// ErrSessionExpired; everything else passes through.
func (c *Client) mapErr(err error) error {
	if err == nil {
		return nil
	}
	var httpErr *relay.HTTPError
	if errors.As(err, &httpErr) &&
		(httpErr.Status == http.StatusUnauthorized || httpErr.Status == http.StatusForbidden) {
		return fmt.Errorf("%w: %s", ErrSessionExpired, httpErr.Message)
	}
	return err
}
