package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fitz/taskflow/internal/board"
	"github.com/fitz/taskflow/internal/models"
	"github.com/fitz/taskflow/internal/priority"
	"github.com/fitz/taskflow/internal/reorder"
)

// handleListTasks returns the full board snapshot, or one list when
// ?list=current|all|completed is given.
func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tab := tabFromQuery(r)
	list := r.URL.Query().Get("list")
	if list == "" {
		writeJSON(w, http.StatusOK, s.board.Snapshot(tab))
		return
	}
	if !reorder.IsValidTarget(list) {
		writeError(w, http.StatusBadRequest, "list must be current, all or completed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": s.board.List(reorder.Target(list), tab)})
}

func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	tab := tabFromQuery(r)
	if n, err := strconv.Atoi(r.URL.Query().Get("top")); err == nil && n > 0 {
		writeJSON(w, http.StatusOK, map[string]any{"ranked": s.board.Top(tab, n)})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ranked": s.board.Rank(tab)})
}

type createRequest struct {
	// Text holds one task per line.
	Text string `json:"text"`
}

func (s *Server) handleCreateTasks(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := s.board.CreateFromText(r.Context(), req.Text)
	if err != nil {
		s.writeBoardError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleDecompose(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := s.board.Decompose(r.Context(), req.Text)
	if err != nil {
		s.writeBoardError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	t, err := s.board.Task(chi.URLParam(r, "id"))
	if err != nil {
		s.writeBoardError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var u board.Update
	if !decode(w, r, &u) {
		return
	}
	t, err := s.board.Update(r.Context(), chi.URLParam(r, "id"), u)
	if err != nil {
		s.writeBoardError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.board.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeBoardError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	t, err := s.board.Complete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeBoardError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleToggleCheck(w http.ResponseWriter, r *http.Request) {
	t, err := s.board.ToggleCheck(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeBoardError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleResplit(w http.ResponseWriter, r *http.Request) {
	res, err := s.board.Resplit(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeBoardError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type pauseRequest struct {
	// Minutes <= 0 uses the task's estimated time.
	Minutes int `json:"minutes"`
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	var req pauseRequest
	if r.ContentLength != 0 && !decode(w, r, &req) {
		return
	}
	v, err := s.board.Pause(r.Context(), chi.URLParam(r, "id"), req.Minutes)
	if err != nil {
		s.writeBoardError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (s *Server) handleListTimers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"timers": s.board.Timers()})
}

func (s *Server) handleCancelTimer(w http.ResponseWriter, r *http.Request) {
	if err := s.board.CancelTimer(r.Context(), chi.URLParam(r, "taskID")); err != nil {
		s.writeBoardError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCancelAllTimers(w http.ResponseWriter, r *http.Request) {
	if err := s.board.CancelAllTimers(r.Context()); err != nil {
		s.writeBoardError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCompleteGroup(w http.ResponseWriter, r *http.Request) {
	done, err := s.board.CompleteGroup(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeBoardError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": done})
}

func (s *Server) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	n, err := s.board.DeleteGroup(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeBoardError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"deleted": n})
}

type renameRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleRenameGroup(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if !decode(w, r, &req) {
		return
	}
	n, err := s.board.RenameGroup(r.Context(), chi.URLParam(r, "name"), req.Name)
	if err != nil {
		s.writeBoardError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"updated": n})
}

type moveRequest struct {
	Item      reorder.Item `json:"item"`
	Index     int          `json:"index"`
	ToCurrent bool         `json:"toCurrent"`
	// URL and Title describe the tab the list was rendered for.
	URL   string `json:"url"`
	Title string `json:"title"`
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if !decode(w, r, &req) {
		return
	}
	if !models.IsValidItemKind(string(req.Item.Kind)) || req.Item.Key == "" {
		writeError(w, http.StatusBadRequest, "item needs a type of task or group and an id")
		return
	}
	tab := models.NewTabContext(req.URL, req.Title)
	if err := s.board.Move(r.Context(), req.Item, req.Index, req.ToCurrent, tab); err != nil {
		s.writeBoardError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.board.Snapshot(tab))
}

type moveChildRequest struct {
	TaskID string `json:"taskId"`
	Index  int    `json:"index"`
}

func (s *Server) handleMoveChild(w http.ResponseWriter, r *http.Request) {
	var req moveChildRequest
	if !decode(w, r, &req) {
		return
	}
	if err := s.board.ReorderChild(r.Context(), req.TaskID, req.Index); err != nil {
		s.writeBoardError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type dropRequest struct {
	Item   reorder.Item   `json:"item"`
	Target reorder.Target `json:"target"`
	URL    string         `json:"url"`
	Title  string         `json:"title"`
}

func (s *Server) handleDrop(w http.ResponseWriter, r *http.Request) {
	var req dropRequest
	if !decode(w, r, &req) {
		return
	}
	if !reorder.IsValidTarget(string(req.Target)) {
		writeError(w, http.StatusBadRequest, "target must be current, all or completed")
		return
	}
	tab := models.NewTabContext(req.URL, req.Title)
	if err := s.board.Drop(r.Context(), req.Item, req.Target, tab); err != nil {
		s.writeBoardError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.board.Snapshot(tab))
}

func (s *Server) handleCompact(w http.ResponseWriter, r *http.Request) {
	if err := s.board.Compact(r.Context(), tabFromQuery(r)); err != nil {
		s.writeBoardError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetPatterns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"patterns": s.board.Patterns()})
}

type patternsRequest struct {
	Patterns []models.DomainPattern `json:"patterns"`
}

func (s *Server) handlePutPatterns(w http.ResponseWriter, r *http.Request) {
	var req patternsRequest
	if !decode(w, r, &req) {
		return
	}
	ps, err := s.board.SetPatterns(r.Context(), req.Patterns)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"patterns": ps})
}

// handlePostPattern adds one pattern, or replaces the pattern with the
// same id.
func (s *Server) handlePostPattern(w http.ResponseWriter, r *http.Request) {
	var req models.DomainPattern
	if !decode(w, r, &req) {
		return
	}
	p, err := s.board.UpsertPattern(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleResetPatterns(w http.ResponseWriter, r *http.Request) {
	ps, err := s.board.ResetPatterns(r.Context())
	if err != nil {
		s.writeBoardError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"patterns": ps})
}

type summaryResponse struct {
	board.Summary
	DoNow []priority.Scored `json:"doNow"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	tab := tabFromQuery(r)
	writeJSON(w, http.StatusOK, summaryResponse{
		Summary: s.board.Summary(),
		DoNow:   s.board.Top(tab, priority.DoNowCount),
	})
}
