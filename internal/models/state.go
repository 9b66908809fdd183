package models

import "sync"

// AppState is the whole of the application's mutable state.
type AppState struct {
	ImagePath string
	Text      string
	Busy      bool
	// LastSource is the image whose recognition produced Text; empty once the
	// user edits the text by hand.
	LastSource string
}

// StateRepository guards AppState for the UI goroutine and the extraction worker.
type StateRepository struct {
	mu    sync.RWMutex
	state AppState
}

func NewStateRepository() *StateRepository {
	return &StateRepository{}
}

// Snapshot returns a copy of the current state.
func (r *StateRepository) Snapshot() AppState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

func (r *StateRepository) SetImagePath(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.ImagePath = path
}

// SetText records a manual edit of the text area.
func (r *StateRepository) SetText(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if text == r.state.Text {
		return
	}
	r.state.Text = text
	r.state.LastSource = ""
}

// ApplyExtraction replaces the text wholesale with a recognition result.
func (r *StateRepository) ApplyExtraction(source, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Text = text
	r.state.LastSource = source
}

// TryBeginExtraction claims the single extraction slot. It returns false when
// an extraction is already in flight.
func (r *StateRepository) TryBeginExtraction() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state.Busy {
		return false
	}
	r.state.Busy = true
	return true
}

// EndExtraction releases the slot.
func (r *StateRepository) EndExtraction() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Busy = false
}

func (r *StateRepository) IsBusy() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.Busy
}
