package state

import "path/filepath"

// UIState is what the terminal UI remembers between runs.
type UIState struct {
	ActivePage string `json:"active_page"`
	SortField  string `json:"sort_field"`
	SortDesc   bool   `json:"sort_desc"`
	Category   string `json:"category"`
}

// UIStore persists UIState in the .tally directory.
type UIStore struct {
	*Store[UIState]
}

// NewUIStore creates the UI preference store rooted at workDir.
func NewUIStore(workDir string) *UIStore {
	return &UIStore{
		Store: NewStore(
			filepath.Join(workDir, ".tally", "ui.json"),
			UIState{ActivePage: "products", SortField: "name"},
		),
	}
}
