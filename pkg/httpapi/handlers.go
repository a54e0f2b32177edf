package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mailworks/quadplan/pkg/errors"
	"github.com/mailworks/quadplan/pkg/geometry"
	"github.com/mailworks/quadplan/pkg/plan"
)

// =============================================================================
// Project
// =============================================================================

func (s *Server) handleGetProject(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleValidate(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Validate())
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if s.persist == nil {
		writeError(w, errors.New(errors.ErrCodeStorage, "no storage backend configured"))
		return
	}
	if err := s.store.CheckSave(); err != nil {
		writeError(w, err)
		return
	}
	if err := s.persist.Save(r.Context(), s.project, s.store.Snapshot()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"project": s.project})
}

// =============================================================================
// Levels and Walls
// =============================================================================

func (s *Server) handleAddLevel(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	level, err := s.store.AddLevel(req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, level)
}

func (s *Server) handlePatchLevel(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     *string `json:"name"`
		Expanded *bool   `json:"expanded"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	id := chi.URLParam(r, "levelID")
	if req.Name != nil {
		if err := s.store.RenameLevel(id, *req.Name); err != nil {
			writeError(w, err)
			return
		}
	}
	if req.Expanded != nil {
		if err := s.store.SetExpanded(id, *req.Expanded); err != nil {
			writeError(w, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveLevel(w http.ResponseWriter, r *http.Request) {
	if err := s.store.RemoveLevel(chi.URLParam(r, "levelID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAddWall(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	wall, err := s.store.AddWall(chi.URLParam(r, "levelID"), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, wall)
}

func (s *Server) handlePatchWall(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.RenameWall(chi.URLParam(r, "wallID"), req.Name); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveWall(w http.ResponseWriter, r *http.Request) {
	if err := s.store.RemoveWall(chi.URLParam(r, "wallID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleActivateWall(w http.ResponseWriter, r *http.Request) {
	if err := s.store.SetActiveWall(chi.URLParam(r, "wallID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Frames
// =============================================================================

func (s *Server) handleAddFrame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Model string `json:"model"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	frame, err := s.store.AddFrame(chi.URLParam(r, "wallID"), req.Model)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, frame)
}

func (s *Server) handleRemoveFrame(w http.ResponseWriter, r *http.Request) {
	if err := s.store.RemoveFrame(chi.URLParam(r, "frameID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReorderFrame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		X float64 `json:"x"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.ReorderFrame(chi.URLParam(r, "frameID"), req.X); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMoveFrame(w http.ResponseWriter, r *http.Request) {
	var req struct {
		To int `json:"to"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.MoveFrame(chi.URLParam(r, "frameID"), req.To); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Doors
// =============================================================================

func (s *Server) handleSwapDoors(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Column plan.Column `json:"column"`
		A      int         `json:"a"`
		B      int         `json:"b"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.SwapDoors(chi.URLParam(r, "frameID"), req.Column, req.A, req.B); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReplaceDoors(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Column    plan.Column `json:"column"`
		Positions []int       `json:"positions"`
		NewType   string      `json:"new_type"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	door, err := s.store.ReplaceDoors(chi.URLParam(r, "frameID"), req.Column, req.Positions, req.NewType)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, door)
}

func (s *Server) handleSubstituteDoor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Column     plan.Column `json:"column"`
		Position   int         `json:"position"`
		Substitute string      `json:"substitute"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.SubstituteDoor(chi.URLParam(r, "frameID"), req.Column, req.Position, req.Substitute); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Numbering
// =============================================================================

func (s *Server) handleSetNumbering(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TenantStart int `json:"tenant_start"`
		ParcelStart int `json:"parcel_start"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := s.store.SetNumberStart(req.TenantStart, req.ParcelStart); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRenumber(w http.ResponseWriter, _ *http.Request) {
	s.store.Renumber()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleResetNumbering(w http.ResponseWriter, _ *http.Request) {
	s.store.ResetNumbering()
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Catalog
// =============================================================================

func (s *Server) handleCatalogDoors(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Catalog().DoorTypes())
}

func (s *Server) handleCatalogFrames(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Catalog().FrameModels())
}

// =============================================================================
// Geometry
// =============================================================================

func (s *Server) handleSnap(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Rects     []geometry.Rect `json:"rects"`
		Cursor    geometry.Point  `json:"cursor"`
		Threshold float64         `json:"threshold"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Threshold <= 0 {
		req.Threshold = geometry.DefaultSnapThreshold
	}
	point, snapped := geometry.Nearest(req.Rects, req.Cursor, req.Threshold)
	if !snapped {
		point = req.Cursor
	}
	writeJSON(w, http.StatusOK, struct {
		Point   geometry.Point `json:"point"`
		Snapped bool           `json:"snapped"`
	}{point, snapped})
}

func (s *Server) handleMeasure(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Rects         []geometry.Rect  `json:"rects"`
		Clicks        []geometry.Point `json:"clicks"`
		PixelsPerInch float64          `json:"pixels_per_inch"`
		Threshold     float64          `json:"threshold"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}
	ruler := geometry.NewRuler(req.PixelsPerInch, req.Threshold)
	for _, click := range req.Clicks {
		ruler.Click(click, req.Rects)
	}
	pending, hasPending := ruler.Pending()
	resp := struct {
		Measurements []geometry.Measurement `json:"measurements"`
		Pending      *geometry.Point        `json:"pending,omitempty"`
	}{Measurements: ruler.Measurements()}
	if hasPending {
		resp.Pending = &pending
	}
	writeJSON(w, http.StatusOK, resp)
}
