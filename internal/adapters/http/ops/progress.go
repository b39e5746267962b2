package ops

import (
	"net/http"
)

// ProgressHandler reports how far the current run has gotten.
type ProgressHandler struct {
	provider ProgressProvider
}

// NewProgressHandler creates a new progress handler.
func NewProgressHandler(provider ProgressProvider) *ProgressHandler {
	return &ProgressHandler{provider: provider}
}

// HandleProgress handles GET /progress requests.
func (h *ProgressHandler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	if h.provider == nil {
		writeError(w, http.StatusServiceUnavailable, "no_run", ErrNoRun)
		return
	}
	writeJSON(w, http.StatusOK, h.provider.Progress(r.Context()))
}
