package http

import (
	"context"
	"net/http"

	"github.com/Christopher22722/OneMillionChallenges/internal/app"
)

// Sweeper is the minimal interface needed to trigger an expiry sweep.
type Sweeper interface {
	Sweep(ctx context.Context) (app.SweepResult, error)
}

// HandleSweep returns an HTTP handler for the caller-driven sweep trigger.
func HandleSweep(svc Sweeper) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := svc.Sweep(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, sweepResponse{
			Released:      res.Released,
			DraftsDeleted: res.DraftsDeleted,
		})
	}
}

type sweepResponse struct {
	Released      int `json:"released"`
	DraftsDeleted int `json:"drafts_deleted"`
}
