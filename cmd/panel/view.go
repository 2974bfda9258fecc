package main

import (
	"fmt"

	"github.com/GriffinCanCode/InfaPanel/internal/panel"
	"github.com/GriffinCanCode/InfaPanel/internal/platform"
)

// terminalView renders controller state as plain terminal output and
// keeps the last listings so commands can select entries by index.
type terminalView struct {
	tasks   []platform.Task
	folders []platform.Folder
	flows   []platform.TaskFlow
}

func newTerminalView() *terminalView {
	return &terminalView{}
}

func (v *terminalView) ShowSection(section panel.Section) {
	fmt.Printf("-- %s --\n", section)
}

func (v *terminalView) SetLoginBusy(busy bool) {
	if busy {
		fmt.Println("connecting...")
	}
}

func (v *terminalView) ShowLoginError(message string) {
	fmt.Println("login error:", message)
}

func (v *terminalView) PopulateTasks(tasks []platform.Task) {
	v.tasks = tasks
	fmt.Printf("%d mapping task(s):\n", len(tasks))
	for i, t := range tasks {
		fmt.Printf("  %d: %s\n", i, t.Name)
	}
}

func (v *terminalView) PopulateFolders(folders []platform.Folder) {
	v.folders = folders
	fmt.Printf("%d folder(s):\n", len(folders))
	for i, f := range folders {
		fmt.Printf("  %d: %s\n", i, f.Label())
	}
}

func (v *terminalView) PopulateFlows(flows []platform.TaskFlow) {
	v.flows = flows
	fmt.Printf("%d task flow(s):\n", len(flows))
	for i, f := range flows {
		fmt.Printf("  %d: %s\n", i, f.Name)
	}
}

func (v *terminalView) SetCloneEnabled(enabled bool) {
	if enabled {
		fmt.Println("clone ready: type 'go'")
	}
}

func (v *terminalView) SetCloneBusy(busy bool) {
	if busy {
		fmt.Println("cloning...")
	}
}

func (v *terminalView) SetRunEnabled(enabled bool) {
	if enabled {
		fmt.Println("run ready: type 'go'")
	}
}

func (v *terminalView) SetRunBusy(busy bool) {
	if busy {
		fmt.Println("starting...")
	}
}

func (v *terminalView) Toast(kind panel.ToastKind, message string) {
	fmt.Printf("[%s] %s\n", kind, message)
}

func (v *terminalView) taskAt(i int) *platform.Task {
	if i < 0 || i >= len(v.tasks) {
		return nil
	}
	return &v.tasks[i]
}

func (v *terminalView) folderAt(i int) *platform.Folder {
	if i < 0 || i >= len(v.folders) {
		return nil
	}
	return &v.folders[i]
}

func (v *terminalView) flowAt(i int) *platform.TaskFlow {
	if i < 0 || i >= len(v.flows) {
		return nil
	}
	return &v.flows[i]
}
