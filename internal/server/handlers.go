package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/meru/pkg/buildinfo"
	merr "github.com/matzehuels/meru/pkg/errors"
	"github.com/matzehuels/meru/pkg/render"
	"github.com/matzehuels/meru/pkg/scene"
)

// =============================================================================
// Service
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Get())
}

// =============================================================================
// Scenes
// =============================================================================

func (s *Server) handleRows(w http.ResponseWriter, r *http.Request) {
	n, err := pathInt(r, "count")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	p := scene.Params{Kind: scene.KindTriangle, Rows: n}
	s.serveScene(w, r, p, formatParam(r.URL.Query()))
}

func (s *Server) handlePatterns(w http.ResponseWriter, r *http.Request) {
	n, err := pathInt(r, "length")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	p := scene.Params{Kind: scene.KindPatterns, Length: n}
	s.serveScene(w, r, p, formatParam(r.URL.Query()))
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	p, err := sceneParams(scene.KindTree, r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.serveScene(w, r, p, formatParam(r.URL.Query()))
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	kind, err := scene.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	p, err := sceneParams(kind, r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.serveScene(w, r, p, chi.URLParam(r, "format"))
}

// serveScene runs the pipeline for p and writes the single artifact.
func (s *Server) serveScene(w http.ResponseWriter, r *http.Request, p scene.Params, format string) {
	f, err := render.ParseFormat(format)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts, err := renderOptions(p, string(f), r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Logger = s.logger

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	cacheStatus := "miss"
	if res.CacheInfo.SceneHit && res.CacheInfo.RenderHit {
		cacheStatus = "hit"
	}
	w.Header().Set("Content-Type", f.ContentType())
	w.Header().Set("X-Scene-Hash", res.SceneHash)
	w.Header().Set("X-Cache", cacheStatus)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Artifacts[string(f)])
}

// =============================================================================
// Store
// =============================================================================

func (s *Server) handleStoreList(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, merr.New(merr.ErrCodeNotFound, "no scene store configured"))
		return
	}
	q := &query{v: r.URL.Query()}
	limit := q.int("limit", 50)
	if q.err != nil {
		s.writeError(w, r, q.err)
		return
	}
	items, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleStoreGet(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, r, merr.New(merr.ErrCodeNotFound, "no scene store configured"))
		return
	}
	id := chi.URLParam(r, "id")
	if err := merr.ValidateSceneID(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	rec, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func pathInt(r *http.Request, name string) (int, error) {
	s := chi.URLParam(r, name)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, merr.New(merr.ErrCodeInvalidArgument, "%s must be an integer, got %q", name, s)
	}
	return n, nil
}
