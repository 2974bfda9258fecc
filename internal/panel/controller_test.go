package panel

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/InfaPanel/internal/platform"
	"github.com/GriffinCanCode/InfaPanel/internal/relay"
	"github.com/GriffinCanCode/InfaPanel/internal/session"
	"github.com/GriffinCanCode/InfaPanel/internal/storage"
)

const (
	loginURL   = "https://dm-us.example/ma/api/v2/user/login"
	sessionURL = "https://dm-us.example/ma/api/v2/session"
	podURL     = "https://use4.example/saas"
)

// scriptedPort plays back responses by URL. Setting fail[url] makes
// that endpoint return its error instead.
type scriptedPort struct {
	responses map[string]interface{}
	fail      map[string]error
	requests  []relay.Request
}

func (p *scriptedPort) Do(ctx context.Context, req relay.Request) (interface{}, error) {
	p.requests = append(p.requests, req)
	if err, ok := p.fail[req.URL]; ok {
		return nil, err
	}
	return p.responses[req.URL], nil
}

// recordingView captures every view mutation in order.
type recordingView struct {
	sections     []Section
	loginErrors  []string
	tasks        [][]platform.Task
	folders      [][]platform.Folder
	flows        [][]platform.TaskFlow
	cloneEnabled []bool
	runEnabled   []bool
	toasts       []string
}

func (v *recordingView) ShowSection(s Section)                  { v.sections = append(v.sections, s) }
func (v *recordingView) SetLoginBusy(bool)                      {}
func (v *recordingView) ShowLoginError(msg string)              { v.loginErrors = append(v.loginErrors, msg) }
func (v *recordingView) PopulateTasks(t []platform.Task)        { v.tasks = append(v.tasks, t) }
func (v *recordingView) PopulateFolders(f []platform.Folder)    { v.folders = append(v.folders, f) }
func (v *recordingView) PopulateFlows(f []platform.TaskFlow)    { v.flows = append(v.flows, f) }
func (v *recordingView) SetCloneEnabled(e bool)                 { v.cloneEnabled = append(v.cloneEnabled, e) }
func (v *recordingView) SetCloneBusy(bool)                      {}
func (v *recordingView) SetRunEnabled(e bool)                   { v.runEnabled = append(v.runEnabled, e) }
func (v *recordingView) SetRunBusy(bool)                        {}
func (v *recordingView) Toast(kind ToastKind, message string)   { v.toasts = append(v.toasts, fmt.Sprintf("%s: %s", kind, message)) }
func (v *recordingView) lastSection() Section                   { return v.sections[len(v.sections)-1] }

func loginResponse() map[string]interface{} {
	return map[string]interface{}{
		"userInfo":  map[string]interface{}{"icSessionId": "sess-42"},
		"serverUrl": podURL,
	}
}

func listings() map[string]interface{} {
	return map[string]interface{}{
		loginURL:   loginResponse(),
		sessionURL: map[string]interface{}{"id": "user-1"},
		podURL + "/api/v2/mttask": []interface{}{
			map[string]interface{}{"id": "t1", "name": "Load A", "@type": "mtTask"},
			map[string]interface{}{"id": "t2", "name": "Flow B", "@type": "workflow"},
		},
		podURL + "/public/core/v3/objects?q=type=='PROJECT'&limit=200": map[string]interface{}{
			"objects": []interface{}{
				map[string]interface{}{"id": "f1", "name": "Marketing"},
			},
		},
		podURL + "/api/v2/mttask/": []interface{}{
			map[string]interface{}{"id": "flow-1", "name": "Nightly"},
		},
		podURL + "/api/v2/mttask/t1": map[string]interface{}{
			"@type": "mtTask", "id": "t1", "name": "Load A", "projectId": "f-old",
		},
		podURL + "/api/v2/job": map[string]interface{}{"jobId": "j-77"},
	}
}

type fixture struct {
	port       *scriptedPort
	view       *recordingView
	store      *session.Store
	controller *Controller
}

func newFixture(responses map[string]interface{}) *fixture {
	port := &scriptedPort{responses: responses, fail: map[string]error{}}
	view := &recordingView{}
	store := session.NewStore(storage.NewMemory(), nil)
	auth := session.NewAuthenticator(port, store, loginURL, nil)
	validator := session.NewValidator(port, store, sessionURL, nil)
	api := platform.NewClient(port, podURL, store.TokenSource(), nil)
	controller := NewController(store, auth, validator, api, view, view, nil)
	return &fixture{port: port, view: view, store: store, controller: controller}
}

func (f *fixture) login(t *testing.T) {
	t.Helper()
	f.controller.Login(context.Background(), "dev@example.com", "hunter2")
	require.Equal(t, SectionActions, f.view.lastSection())
}

func TestActivateWithoutSessionShowsLogin(t *testing.T) {
	f := newFixture(listings())

	f.controller.Activate(context.Background())
	assert.Equal(t, SectionLogin, f.view.lastSection())
	assert.Empty(t, f.port.requests, "no session means no network")
}

func TestActivateWithValidSessionShowsActions(t *testing.T) {
	f := newFixture(listings())
	f.store.Save(session.Session{Token: "sess-42", ServerURL: podURL})

	f.controller.Activate(context.Background())
	assert.Equal(t, SectionActions, f.view.lastSection())
}

func TestActivateWithExpiredSessionShowsLogin(t *testing.T) {
	f := newFixture(listings())
	f.store.Save(session.Session{Token: "stale", ServerURL: podURL})
	f.port.fail[sessionURL] = &relay.HTTPError{Status: 401, Message: "Invalid session"}

	f.controller.Activate(context.Background())
	assert.Equal(t, SectionLogin, f.view.lastSection())
	_, ok := f.store.Load()
	assert.False(t, ok)
}

func TestLoginEmptyCredentials(t *testing.T) {
	f := newFixture(listings())

	f.controller.Login(context.Background(), "", "")
	require.Len(t, f.view.loginErrors, 1)
	assert.Empty(t, f.port.requests)
}

func TestLoginSuccess(t *testing.T) {
	f := newFixture(listings())
	f.login(t)

	sess, ok := f.store.Load()
	require.True(t, ok)
	assert.Equal(t, "sess-42", sess.Token)
	assert.Contains(t, f.view.toasts, "success: Login successful")
}

func TestLoginRejectedShowsPlatformMessage(t *testing.T) {
	f := newFixture(listings())
	f.port.fail[loginURL] = &relay.HTTPError{Status: 401, Message: "Invalid login credentials"}

	f.controller.Login(context.Background(), "dev@example.com", "wrong")
	require.Len(t, f.view.loginErrors, 1)
	assert.Equal(t, "Invalid login credentials", f.view.loginErrors[0])
	assert.NotEqual(t, SectionActions, f.controller.Section())
}

func TestOpenClonePopulatesListings(t *testing.T) {
	f := newFixture(listings())
	f.login(t)

	f.controller.OpenClone(context.Background())
	assert.Equal(t, SectionClone, f.view.lastSection())

	require.Len(t, f.view.tasks, 1)
	require.Len(t, f.view.tasks[0], 1, "only mapping tasks are offered")
	assert.Equal(t, "t1", f.view.tasks[0][0].ID)

	require.Len(t, f.view.folders, 1)
	require.Len(t, f.view.folders[0], 1)
}

func TestCloneEnablementTransitions(t *testing.T) {
	f := newFixture(listings())
	f.login(t)
	f.controller.OpenClone(context.Background())

	task := f.view.tasks[0][0]
	folder := f.view.folders[0][0]

	before := len(f.view.cloneEnabled)
	f.controller.SelectTask(&task)
	assert.Len(t, f.view.cloneEnabled, before, "one selection is not enough")

	f.controller.SelectFolder(&folder)
	require.Len(t, f.view.cloneEnabled, before+1)
	assert.True(t, f.view.cloneEnabled[before])

	// Re-selecting does not re-fire the transition.
	f.controller.SelectTask(&task)
	f.controller.SelectFolder(&folder)
	assert.Len(t, f.view.cloneEnabled, before+1)

	f.controller.SelectTask(nil)
	require.Len(t, f.view.cloneEnabled, before+2)
	assert.False(t, f.view.cloneEnabled[before+1])
}

func TestCloneRequiresName(t *testing.T) {
	f := newFixture(listings())
	f.login(t)
	f.controller.OpenClone(context.Background())
	task := f.view.tasks[0][0]
	folder := f.view.folders[0][0]
	f.controller.SelectTask(&task)
	f.controller.SelectFolder(&folder)

	calls := len(f.port.requests)
	f.controller.CloneTask(context.Background())
	assert.Len(t, f.port.requests, calls, "no call without a name")
	assert.Contains(t, f.view.toasts, "error: Please enter a name for the cloned task")
}

func TestCloneSuccessResetsSelection(t *testing.T) {
	responses := listings()
	responses[podURL+"/api/v2/mttask"] = []interface{}{
		map[string]interface{}{"id": "t1", "name": "Load A", "@type": "mtTask"},
	}
	f := newFixture(responses)
	f.login(t)
	f.controller.OpenClone(context.Background())
	task := f.view.tasks[0][0]
	folder := f.view.folders[0][0]
	f.controller.SelectTask(&task)
	f.controller.SelectFolder(&folder)
	f.controller.SetCloneName("Load A Copy")

	// The create endpoint answers with the new task document.
	f.port.responses[podURL+"/api/v2/mttask"] = map[string]interface{}{"id": "t-new", "name": "Load A Copy"}

	f.controller.CloneTask(context.Background())

	assert.Contains(t, f.view.toasts, `success: Task "Load A Copy" cloned successfully`)
	assert.Equal(t, Selection{}, f.controller.Selection())

	var posts int
	for _, req := range f.port.requests {
		if req.Method == "POST" && req.URL == podURL+"/api/v2/mttask" {
			posts++
		}
	}
	assert.Equal(t, 1, posts, "exactly one mutating call")
}

func TestCloneFailureKeepsSelection(t *testing.T) {
	f := newFixture(listings())
	f.login(t)
	f.controller.OpenClone(context.Background())
	task := f.view.tasks[0][0]
	folder := f.view.folders[0][0]
	f.controller.SelectTask(&task)
	f.controller.SelectFolder(&folder)
	f.controller.SetCloneName("Copy")

	f.port.fail[podURL+"/api/v2/mttask/t1"] = &relay.HTTPError{Status: 500, Message: "boom"}

	f.controller.CloneTask(context.Background())

	sel := f.controller.Selection()
	require.NotNil(t, sel.Task, "selection survives a failed clone for retry")
	assert.Equal(t, "Copy", sel.CloneName)
	assert.Equal(t, SectionClone, f.controller.Section())
}

func TestSessionExpiryMidUseForcesLogin(t *testing.T) {
	f := newFixture(listings())
	f.login(t)
	f.port.fail[podURL+"/api/v2/mttask"] = &relay.HTTPError{Status: 401, Message: "Invalid session"}

	f.controller.OpenClone(context.Background())

	assert.Equal(t, SectionLogin, f.controller.Section())
	_, ok := f.store.Load()
	assert.False(t, ok)
	assert.Contains(t, f.view.toasts, "error: Your session has expired. Please login again.")
}

func TestRelayDisconnectIsRetryable(t *testing.T) {
	f := newFixture(listings())
	f.login(t)
	f.port.fail[podURL+"/api/v2/mttask/"] = relay.ErrChannelClosed

	f.controller.OpenRun(context.Background())

	assert.Contains(t, f.view.toasts, "error: Relay disconnected. Reconnect and try again.")
	assert.Equal(t, SectionRun, f.controller.Section(), "a transport blip does not end the session")
	_, ok := f.store.Load()
	assert.True(t, ok)
}

func TestRunFlow(t *testing.T) {
	f := newFixture(listings())
	f.login(t)

	f.controller.OpenRun(context.Background())
	assert.Equal(t, SectionRun, f.view.lastSection())
	require.Len(t, f.view.flows, 1)
	require.Len(t, f.view.flows[0], 1)

	flow := f.view.flows[0][0]
	f.controller.SelectFlow(&flow)
	require.NotEmpty(t, f.view.runEnabled)
	assert.True(t, f.view.runEnabled[len(f.view.runEnabled)-1])

	f.controller.RunFlow(context.Background())
	assert.Contains(t, f.view.toasts, "success: Task started successfully (job j-77)")
}

func TestRunWithoutSelection(t *testing.T) {
	f := newFixture(listings())
	f.login(t)
	f.controller.OpenRun(context.Background())

	calls := len(f.port.requests)
	f.controller.RunFlow(context.Background())
	assert.Len(t, f.port.requests, calls)
	assert.Contains(t, f.view.toasts, "error: Please select a task to run")
}

func TestLogout(t *testing.T) {
	f := newFixture(listings())
	f.login(t)

	f.controller.Logout()

	assert.Equal(t, SectionLogin, f.controller.Section())
	_, ok := f.store.Load()
	assert.False(t, ok)
}
