package panel

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/InfaPanel/internal/infrastructure/logging"
	"github.com/GriffinCanCode/InfaPanel/internal/platform"
	"github.com/GriffinCanCode/InfaPanel/internal/relay"
	"github.com/GriffinCanCode/InfaPanel/internal/session"
)

// listing identifies one refreshable selection list.
type listing int

const (
	listingTasks listing = iota
	listingFolders
	listingFlows
	listingCount
)

// Controller drives the panel. Confined to the UI goroutine; see the
// package comment for the concurrency model.
type Controller struct {
	store     *session.Store
	auth      *session.Authenticator
	validator *session.Validator
	api       *platform.Client
	view      View
	notifier  Notifier
	logger    *logging.Logger

	section   Section
	selection Selection

	cloneEnabled bool
	runEnabled   bool
	cloneBusy    bool
	runBusy      bool

	// Per-listing fetch generations; a result whose generation is no
	// longer current is dropped.
	generation [listingCount]uint64
	inFlight   [listingCount]bool
}

// NewController wires the panel controller.
func NewController(
	store *session.Store,
	auth *session.Authenticator,
	validator *session.Validator,
	api *platform.Client,
	view View,
	notifier Notifier,
	logger *logging.Logger,
) *Controller {
	if logger == nil {
		logger = logging.NewDefault()
	}
	return &Controller{
		store:     store,
		auth:      auth,
		validator: validator,
		api:       api,
		view:      view,
		notifier:  notifier,
		logger:    logger,
		section:   SectionLogin,
	}
}

// Section returns the currently visible section.
func (c *Controller) Section() Section {
	return c.section
}

// Selection returns the current transient selection state.
func (c *Controller) Selection() Selection {
	return c.selection
}

// Activate validates the persisted session and routes to the matching
// section. Must run every time the panel becomes visible, not once per
// load: tokens expire mid-session.
func (c *Controller) Activate(ctx context.Context) {
	if _, ok := c.validator.Validate(ctx); ok {
		c.setSection(SectionActions)
		return
	}
	c.setSection(SectionLogin)
}

// Login authenticates and, on success, moves to the actions section.
// A login already in flight suppresses the duplicate submission.
func (c *Controller) Login(ctx context.Context, username, password string) {
	if username == "" || password == "" {
		c.view.ShowLoginError("Please enter username and password")
		return
	}

	c.view.SetLoginBusy(true)
	defer c.view.SetLoginBusy(false)

	_, err := c.auth.Login(ctx, username, password)
	if err != nil {
		if errors.Is(err, session.ErrLoginInFlight) {
			return
		}
		var authErr *session.AuthError
		if errors.As(err, &authErr) {
			c.view.ShowLoginError(authErr.Message)
		} else {
			c.view.ShowLoginError("Connection failed. Please check your credentials and try again.")
		}
		c.notifier.Toast(ToastError, "Login failed. Please try again.")
		return
	}

	c.notifier.Toast(ToastSuccess, "Login successful")
	c.setSection(SectionActions)
}

// Logout destroys the session and returns to the login section.
func (c *Controller) Logout() {
	c.store.Clear()
	c.selection = Selection{}
	c.setCloneEnabled(false)
	c.setRunEnabled(false)
	c.setSection(SectionLogin)
	c.notifier.Toast(ToastSuccess, "Logged out successfully")
}

// OpenClone shows the clone section and refreshes its listings. The
// clone control stays disabled until both a task and a folder are
// selected.
func (c *Controller) OpenClone(ctx context.Context) {
	c.selection.Task = nil
	c.selection.Folder = nil
	c.setCloneEnabled(false)
	c.setSection(SectionClone)

	c.refreshTasks(ctx)
	c.refreshFolders(ctx)
}

// SelectTask records the task selection; nil clears it.
func (c *Controller) SelectTask(task *platform.Task) {
	c.selection.Task = task
	c.updateCloneEnabled()
}

// SelectFolder records the folder selection; nil clears it.
func (c *Controller) SelectFolder(folder *platform.Folder) {
	c.selection.Folder = folder
	c.updateCloneEnabled()
}

// SetCloneName records the name for the cloned task.
func (c *Controller) SetCloneName(name string) {
	c.selection.CloneName = name
}

// CloneTask issues exactly one create call for the current selection.
// The control is disabled for the call's duration and restored whether
// it succeeds or fails; on failure the selection stays populated for
// retry.
func (c *Controller) CloneTask(ctx context.Context) {
	if c.selection.Task == nil || c.selection.Folder == nil {
		c.notifier.Toast(ToastError, "Please select both a task and a target folder")
		return
	}
	if c.selection.CloneName == "" {
		c.notifier.Toast(ToastError, "Please enter a name for the cloned task")
		return
	}
	if c.cloneBusy {
		return
	}

	c.cloneBusy = true
	c.view.SetCloneBusy(true)
	c.setCloneEnabled(false)
	defer func() {
		c.cloneBusy = false
		c.view.SetCloneBusy(false)
		c.updateCloneEnabled()
	}()

	task, err := c.api.CloneTask(ctx, c.selection.Task.ID, c.selection.Folder.ID, c.selection.CloneName)
	if err != nil {
		c.fail("clone task", err)
		return
	}

	c.notifier.Toast(ToastSuccess, fmt.Sprintf("Task %q cloned successfully", task.Name))

	// The listings now disagree with the platform; refresh and reset
	// the consumed selection.
	c.selection = Selection{}
	c.refreshTasks(ctx)
	c.refreshFolders(ctx)
}

// OpenRun shows the run section and refreshes the task-flow listing.
func (c *Controller) OpenRun(ctx context.Context) {
	c.selection.Flow = nil
	c.setRunEnabled(false)
	c.setSection(SectionRun)

	c.refreshFlows(ctx)
}

// SelectFlow records the task-flow selection; nil clears it.
func (c *Controller) SelectFlow(flow *platform.TaskFlow) {
	c.selection.Flow = flow
	c.setRunEnabled(flow != nil)
}

// RunFlow starts a job for the selected task flow, with the same
// in-flight/disable/restore contract as CloneTask.
func (c *Controller) RunFlow(ctx context.Context) {
	if c.selection.Flow == nil {
		c.notifier.Toast(ToastError, "Please select a task to run")
		return
	}
	if c.runBusy {
		return
	}

	c.runBusy = true
	c.view.SetRunBusy(true)
	c.setRunEnabled(false)
	defer func() {
		c.runBusy = false
		c.view.SetRunBusy(false)
		c.setRunEnabled(c.selection.Flow != nil)
	}()

	job, err := c.api.RunTaskFlow(ctx, c.selection.Flow.ID)
	if err != nil {
		c.fail("start task", err)
		return
	}

	if job.ID != "" {
		c.notifier.Toast(ToastSuccess, fmt.Sprintf("Task started successfully (job %s)", job.ID))
	} else {
		c.notifier.Toast(ToastSuccess, "Task started successfully")
	}
}

func (c *Controller) refreshTasks(ctx context.Context) {
	c.refresh(ctx, listingTasks, func(ctx context.Context) (func(), error) {
		tasks, err := c.api.MappingTasks(ctx)
		return func() { c.view.PopulateTasks(tasks) }, err
	})
}

func (c *Controller) refreshFolders(ctx context.Context) {
	c.refresh(ctx, listingFolders, func(ctx context.Context) (func(), error) {
		folders, err := c.api.ListFolders(ctx)
		return func() { c.view.PopulateFolders(folders) }, err
	})
}

func (c *Controller) refreshFlows(ctx context.Context) {
	c.refresh(ctx, listingFlows, func(ctx context.Context) (func(), error) {
		flows, err := c.api.ListTaskFlows(ctx)
		return func() { c.view.PopulateFlows(flows) }, err
	})
}

// refresh runs one listing fetch with at-most-one-in-flight semantics:
// a re-trigger while a fetch is outstanding is ignored, and a result
// that was superseded before it resolved is dropped.
func (c *Controller) refresh(ctx context.Context, l listing, fetch func(context.Context) (func(), error)) {
	if c.inFlight[l] {
		return
	}
	c.inFlight[l] = true
	c.generation[l]++
	generation := c.generation[l]
	defer func() { c.inFlight[l] = false }()

	apply, err := fetch(ctx)
	if generation != c.generation[l] {
		return // superseded
	}
	if err != nil {
		c.fail("load listing", err)
		return
	}
	apply()
}

// fail converts an action failure into the right UI transition: a
// rejected session forces the login section, a closed relay channel is
// reported as retryable, everything else is a transient toast.
func (c *Controller) fail(action string, err error) {
	switch {
	case errors.Is(err, platform.ErrSessionExpired):
		c.logger.Info("Session rejected mid-use")
		c.store.Clear()
		c.selection = Selection{}
		c.setCloneEnabled(false)
		c.setRunEnabled(false)
		c.setSection(SectionLogin)
		c.notifier.Toast(ToastError, "Your session has expired. Please login again.")
	case errors.Is(err, relay.ErrChannelClosed):
		c.notifier.Toast(ToastError, "Relay disconnected. Reconnect and try again.")
	default:
		c.logger.Warn("Panel action failed", zap.String("action", action), zap.Error(err))
		c.notifier.Toast(ToastError, fmt.Sprintf("Failed to %s: %v", action, err))
	}
}

func (c *Controller) setSection(section Section) {
	c.section = section
	c.view.ShowSection(section)
}

// updateCloneEnabled recomputes clone availability. The view is only
// touched on transitions, so repeated identical selection events are
// idempotent.
func (c *Controller) updateCloneEnabled() {
	c.setCloneEnabled(c.selection.Task != nil && c.selection.Folder != nil && !c.cloneBusy)
}

func (c *Controller) setCloneEnabled(enabled bool) {
	if c.cloneEnabled == enabled {
		return
	}
	c.cloneEnabled = enabled
	c.view.SetCloneEnabled(enabled)
}

func (c *Controller) setRunEnabled(enabled bool) {
	if c.runEnabled == enabled {
		return
	}
	c.runEnabled = enabled
	c.view.SetRunEnabled(enabled)
}
