package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/archmap/archmap/pkg/buildinfo"
	"github.com/archmap/archmap/pkg/cache"
	"github.com/archmap/archmap/pkg/diagram"
	"github.com/archmap/archmap/pkg/diff"
	"github.com/archmap/archmap/pkg/document"
	"github.com/archmap/archmap/pkg/editor"
	apperrors "github.com/archmap/archmap/pkg/errors"
	"github.com/archmap/archmap/pkg/observability"
	"github.com/archmap/archmap/pkg/render"
	"github.com/archmap/archmap/pkg/route"
	"github.com/archmap/archmap/pkg/store"
)

// maxDocumentSize caps request bodies carrying documents.
const maxDocumentSize = 4 << 20

// =============================================================================
// Responses
// =============================================================================

type errorBody struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
	ItemID string `json:"item_id,omitempty"`
	Line   int    `json:"line,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError maps domain errors to HTTP status codes and a uniform
// JSON envelope.
func respondError(w http.ResponseWriter, err error) {
	var perr *document.ParseError
	if errors.As(err, &perr) {
		respondJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: errorBody{
			Code:   string(perr.Code),
			Detail: perr.Detail,
			ItemID: perr.ItemID,
			Line:   perr.Line,
		}})
		return
	}

	var merr *editor.MutationError
	if errors.As(err, &merr) {
		status := http.StatusUnprocessableEntity
		switch merr.Code {
		case editor.NotFound:
			status = http.StatusNotFound
		case editor.DuplicateID:
			status = http.StatusConflict
		}
		respondJSON(w, status, errorResponse{Error: errorBody{
			Code:   string(merr.Code),
			Detail: merr.Detail,
			ItemID: merr.ItemID,
		}})
		return
	}

	if errors.Is(err, store.ErrNotFound) {
		respondJSON(w, http.StatusNotFound, errorResponse{Error: errorBody{
			Code:   string(apperrors.ErrCodeVersionNotFound),
			Detail: err.Error(),
		}})
		return
	}

	if code := apperrors.GetCode(err); code != "" {
		status := http.StatusBadRequest
		switch code {
		case apperrors.ErrCodeNotFound, apperrors.ErrCodeItemNotFound,
			apperrors.ErrCodeVersionNotFound, apperrors.ErrCodeSessionNotFound:
			status = http.StatusNotFound
		case apperrors.ErrCodeInternal, apperrors.ErrCodeStore:
			status = http.StatusInternalServerError
		}
		respondJSON(w, status, errorResponse{Error: errorBody{
			Code:   string(code),
			Detail: apperrors.UserMessage(err),
		}})
		return
	}

	respondJSON(w, http.StatusInternalServerError, errorResponse{Error: errorBody{
		Code:   string(apperrors.ErrCodeInternal),
		Detail: err.Error(),
	}})
}

// readDocument reads a request body as a document, size-capped.
func readDocument(r *http.Request) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentSize))
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "read request body")
	}
	if len(data) == 0 {
		return "", apperrors.New(apperrors.ErrCodeInvalidInput, "request body is empty")
	}
	return string(data), nil
}

// =============================================================================
// Health
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// =============================================================================
// Documents
// =============================================================================

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	doc, err := readDocument(r)
	if err != nil {
		respondError(w, err)
		return
	}

	_, reg, err := document.Parse(doc)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"valid": true,
		"items": reg.Len(),
	})
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	doc, err := readDocument(r)
	if err != nil {
		respondError(w, err)
		return
	}
	side, err := sideParam(r.URL.Query().Get("side"))
	if err != nil {
		respondError(w, err)
		return
	}

	tree, reg, err := document.Parse(doc)
	if err != nil {
		respondError(w, err)
		return
	}

	links := 0
	tree.WalkSide(side, func(_ diagram.Side, it, _ *diagram.Item, _, _ int) bool {
		links += len(it.LinkTo)
		return true
	})
	observability.Engine().OnRouteStart(r.Context(), side.String(), links)

	start := time.Now()
	geom := route.DefaultGeometry(tree, side, route.DefaultLayoutOpts())
	paths, err := route.Route(tree, reg, side, geom, route.Options{
		SelectedID: r.URL.Query().Get("selected"),
	})
	observability.Engine().OnRouteComplete(r.Context(), side.String(), time.Since(start), err)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"side":  side.String(),
		"paths": paths,
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	doc, err := readDocument(r)
	if err != nil {
		respondError(w, err)
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "svg"
	}
	if format != "svg" && format != "dot" {
		respondError(w, apperrors.New(apperrors.ErrCodeInvalidFormat, "unsupported format %q", format))
		return
	}

	tree, reg, err := document.Parse(doc)
	if err != nil {
		respondError(w, err)
		return
	}
	detailed := r.URL.Query().Get("detailed") == "true"
	dot := render.ToDOT(tree, reg, render.Options{Detailed: detailed})

	if format == "dot" {
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		_, _ = w.Write([]byte(dot))
		return
	}

	key := s.keyer.RenderKey(cache.Hash([]byte(doc)), cache.RenderKeyOpts{Format: format})
	if data, hit, err := s.cache.Get(r.Context(), key); err == nil && hit {
		observability.Cache().OnCacheHit(r.Context(), "render")
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write(data)
		return
	}
	observability.Cache().OnCacheMiss(r.Context(), "render")

	svg, err := render.RenderSVG(r.Context(), dot)
	if err != nil {
		respondError(w, apperrors.Wrap(apperrors.ErrCodeInternal, err, "render svg"))
		return
	}
	if err := s.cache.Set(r.Context(), key, svg, s.cfg.Cache.TTL.Duration); err == nil {
		observability.Cache().OnCacheSet(r.Context(), "render", len(svg))
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

func sideParam(v string) (diagram.Side, error) {
	switch v {
	case "", diagram.SideSiteMap.String():
		return diagram.SideSiteMap, nil
	case diagram.SideObjectMap.String():
		return diagram.SideObjectMap, nil
	default:
		return 0, apperrors.New(apperrors.ErrCodeInvalidInput, "unknown side %q", v)
	}
}

// =============================================================================
// Versions
// =============================================================================

func (s *Server) handleSaveVersion(w http.ResponseWriter, r *http.Request) {
	project := chi.URLParam(r, "project")
	if err := apperrors.ValidateProjectName(project); err != nil {
		respondError(w, err)
		return
	}
	doc, err := readDocument(r)
	if err != nil {
		respondError(w, err)
		return
	}

	// Only valid documents are stored, in canonical form.
	observability.Engine().OnParseStart(r.Context(), project)
	parseStart := time.Now()
	tree, reg, err := document.Parse(doc)
	if err != nil {
		observability.Engine().OnParseComplete(r.Context(), project, 0, time.Since(parseStart), err)
		respondError(w, err)
		return
	}
	observability.Engine().OnParseComplete(r.Context(), project, reg.Len(), time.Since(parseStart), nil)
	canonical := document.Generate(tree)

	start := time.Now()
	v, err := s.store.Save(r.Context(), project, canonical)
	if err != nil {
		observability.Store().OnError(r.Context(), project, "save", err)
		respondError(w, apperrors.Wrap(apperrors.ErrCodeStore, err, "save version"))
		return
	}
	observability.Store().OnSave(r.Context(), project, v.Number, time.Since(start))

	respondJSON(w, http.StatusCreated, v)
}

func (s *Server) handleListVersions(w http.ResponseWriter, r *http.Request) {
	project := chi.URLParam(r, "project")
	vs, err := s.store.List(r.Context(), project)
	if err != nil {
		respondError(w, apperrors.Wrap(apperrors.ErrCodeStore, err, "list versions"))
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"project":  project,
		"versions": vs,
	})
}

func (s *Server) handleGetVersion(w http.ResponseWriter, r *http.Request) {
	project := chi.URLParam(r, "project")
	number, err := strconv.ParseInt(chi.URLParam(r, "number"), 10, 64)
	if err != nil {
		respondError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid version number"))
		return
	}
	if err := apperrors.ValidateVersion(number); err != nil {
		respondError(w, err)
		return
	}

	start := time.Now()
	v, err := s.store.Get(r.Context(), project, number)
	if err != nil {
		respondError(w, err)
		return
	}
	observability.Store().OnLoad(r.Context(), project, number, time.Since(start))
	respondJSON(w, http.StatusOK, v)
}

// =============================================================================
// Diff
// =============================================================================

func (s *Server) handleDiff(w http.ResponseWriter, r *http.Request) {
	project := chi.URLParam(r, "project")
	from, err := versionParam(r, "from")
	if err != nil {
		respondError(w, err)
		return
	}
	to, err := versionParam(r, "to")
	if err != nil {
		respondError(w, err)
		return
	}

	oldV, err := s.store.Get(r.Context(), project, from)
	if err != nil {
		respondError(w, err)
		return
	}
	newV, err := s.store.Get(r.Context(), project, to)
	if err != nil {
		respondError(w, err)
		return
	}

	key := s.keyer.DiffKey(cache.Hash([]byte(oldV.Document)), cache.Hash([]byte(newV.Document)))
	if data, hit, err := s.cache.Get(r.Context(), key); err == nil && hit {
		observability.Cache().OnCacheHit(r.Context(), "diff")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
		return
	}
	observability.Cache().OnCacheMiss(r.Context(), "diff")

	changes, err := s.computeDiff(r, project, oldV.Document, newV.Document)
	if err != nil {
		respondError(w, err)
		return
	}

	body, err := json.Marshal(map[string]any{
		"project": project,
		"from":    from,
		"to":      to,
		"changes": changes,
	})
	if err != nil {
		respondError(w, apperrors.Wrap(apperrors.ErrCodeInternal, err, "encode diff"))
		return
	}
	if err := s.cache.Set(r.Context(), key, body, s.cfg.Cache.TTL.Duration); err == nil {
		observability.Cache().OnCacheSet(r.Context(), "diff", len(body))
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

func (s *Server) computeDiff(r *http.Request, project, oldDoc, newDoc string) ([]diff.Change, error) {
	oldTree, _, err := document.Parse(oldDoc)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "stored document is invalid")
	}
	newTree, _, err := document.Parse(newDoc)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "stored document is invalid")
	}

	start := time.Now()
	observability.Engine().OnDiffStart(r.Context(), project)
	changes, err := diff.Diff(oldTree, newTree)
	observability.Engine().OnDiffComplete(r.Context(), project, len(changes), time.Since(start), err)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "diff versions")
	}
	return changes, nil
}

func versionParam(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, apperrors.New(apperrors.ErrCodeInvalidInput, "missing query parameter %q", name)
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, apperrors.New(apperrors.ErrCodeInvalidInput, "invalid %s version", name)
	}
	if err := apperrors.ValidateVersion(n); err != nil {
		return 0, err
	}
	return n, nil
}

// =============================================================================
// Sessions
// =============================================================================

type sessionResponse struct {
	ID       string `json:"id"`
	Document string `json:"document"`
	CanUndo  bool   `json:"can_undo"`
}

func (s *Server) handleOpenSession(w http.ResponseWriter, r *http.Request) {
	doc, err := readDocument(r)
	if err != nil {
		respondError(w, err)
		return
	}

	id, canonical, err := s.sessions.open(doc)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, sessionResponse{ID: id, Document: canonical})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var resp sessionResponse
	ok, _ := s.sessions.with(id, func(sess *editor.Session) error {
		resp = sessionResponse{ID: id, Document: sess.Document(), CanUndo: sess.CanUndo()}
		return nil
	})
	if !ok {
		respondError(w, apperrors.New(apperrors.ErrCodeSessionNotFound, "unknown session %q", id))
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// sessionOp is one mutation request against an editing session.
type sessionOp struct {
	Op string `json:"op"`

	// Item payload for insert operations.
	Item *opItem `json:"item,omitempty"`

	ID       string `json:"id,omitempty"`
	ParentID string `json:"parent_id,omitempty"`
	Side     string `json:"side,omitempty"`
	Column   int    `json:"column,omitempty"`
	Title    string `json:"title,omitempty"`
	From     string `json:"from,omitempty"`
	To       string `json:"to,omitempty"`
}

// opItem mirrors diagram.Item for JSON transport.
type opItem struct {
	ID         string   `json:"id"`
	Kind       string   `json:"kind"`
	Title      string   `json:"title,omitempty"`
	InstanceOf string   `json:"instance_of,omitempty"`
	LinkTo     []string `json:"link_to,omitempty"`
	Children   []opItem `json:"children,omitempty"`
}

func (o *opItem) toItem() *diagram.Item {
	it := &diagram.Item{
		ID:         o.ID,
		Kind:       diagram.Kind(o.Kind),
		Title:      o.Title,
		InstanceOf: o.InstanceOf,
		LinkTo:     o.LinkTo,
	}
	for i := range o.Children {
		it.Children = append(it.Children, o.Children[i].toItem())
	}
	return it
}

func (s *Server) handleSessionOp(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var op sessionOp
	if err := json.NewDecoder(io.LimitReader(r.Body, maxDocumentSize)).Decode(&op); err != nil {
		respondError(w, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "decode operation"))
		return
	}

	var resp sessionResponse
	ok, err := s.sessions.with(id, func(sess *editor.Session) error {
		if err := applyOp(sess, &op); err != nil {
			return err
		}
		resp = sessionResponse{ID: id, Document: sess.Document(), CanUndo: sess.CanUndo()}
		return nil
	})
	if !ok {
		respondError(w, apperrors.New(apperrors.ErrCodeSessionNotFound, "unknown session %q", id))
		return
	}
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// applyOp dispatches a session operation to the editor.
func applyOp(sess *editor.Session, op *sessionOp) error {
	switch op.Op {
	case "insert":
		if op.Item == nil {
			return apperrors.New(apperrors.ErrCodeInvalidInput, "insert requires an item")
		}
		return sess.Insert(op.ParentID, op.Item.toItem())
	case "insert_root":
		if op.Item == nil {
			return apperrors.New(apperrors.ErrCodeInvalidInput, "insert_root requires an item")
		}
		side, err := sideParam(op.Side)
		if err != nil {
			return err
		}
		return sess.InsertRoot(side, op.Column, op.Item.toItem())
	case "delete":
		return sess.Delete(op.ID)
	case "move":
		return sess.Move(op.ID, op.ParentID)
	case "move_to_column":
		return sess.MoveToColumn(op.ID, op.Column)
	case "set_title":
		return sess.SetTitle(op.ID, op.Title)
	case "add_link":
		return sess.AddLink(op.From, op.To)
	case "remove_link":
		return sess.RemoveLink(op.From, op.To)
	default:
		return apperrors.New(apperrors.ErrCodeInvalidInput, "unknown operation %q", op.Op)
	}
}

func (s *Server) handleSessionUndo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var resp sessionResponse
	ok, err := s.sessions.with(id, func(sess *editor.Session) error {
		if err := sess.Undo(); err != nil {
			return err
		}
		resp = sessionResponse{ID: id, Document: sess.Document(), CanUndo: sess.CanUndo()}
		return nil
	})
	if !ok {
		respondError(w, apperrors.New(apperrors.ErrCodeSessionNotFound, "unknown session %q", id))
		return
	}
	if errors.Is(err, editor.ErrNothingToUndo) {
		respondJSON(w, http.StatusConflict, errorResponse{Error: errorBody{
			Code:   string(apperrors.ErrCodeInvalidInput),
			Detail: err.Error(),
		}})
		return
	}
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.sessions.close(id) {
		respondError(w, apperrors.New(apperrors.ErrCodeSessionNotFound, "unknown session %q", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
