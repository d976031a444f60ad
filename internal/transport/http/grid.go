package http

import (
	"context"
	"net/http"

	"github.com/Christopher22722/OneMillionChallenges/internal/domain"
)

// GridReader is the minimal interface needed to serve the occupied grid.
type GridReader interface {
	ListOccupied(ctx context.Context) ([]domain.Overlay, error)
}

// HandleGrid returns an HTTP handler serving occupied cell ids and overlays.
func HandleGrid(svc GridReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		overlays, err := svc.ListOccupied(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		resp := gridResponse{
			OccupiedIDs: make([]int, 0, len(overlays)),
			Overlays:    make([]overlayResponse, 0, len(overlays)),
		}
		for _, ov := range overlays {
			resp.OccupiedIDs = append(resp.OccupiedIDs, ov.ID)
			resp.Overlays = append(resp.Overlays, overlayResponse{
				ID:       ov.ID,
				Color:    ov.Color,
				ImageRef: ov.ImageRef,
				Link:     ov.Link,
			})
		}

		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, http.StatusOK, resp)
	}
}

type gridResponse struct {
	OccupiedIDs []int             `json:"occupied_ids"`
	Overlays    []overlayResponse `json:"overlays"`
}

type overlayResponse struct {
	ID       int    `json:"id"`
	Color    string `json:"color,omitempty"`
	ImageRef string `json:"image_ref,omitempty"`
	Link     string `json:"link,omitempty"`
}
