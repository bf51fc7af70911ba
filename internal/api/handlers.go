package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/starford/quill/internal/apperr"
	"github.com/starford/quill/internal/diary"
	"github.com/starford/quill/internal/entry"
	"github.com/starford/quill/internal/frontmatter"
	"github.com/starford/quill/internal/ident"
	"github.com/starford/quill/internal/storage"
)

// Publisher receives entry events.
type Publisher interface {
	PublishEntry(kind string, res entry.Result)
}

// Handler holds API route handlers for one journal directory.
type Handler struct {
	svc    *entry.Service
	root   string
	events Publisher
}

// NewHandler creates a new Handler. events may be nil.
func NewHandler(svc *entry.Service, root string, events Publisher) *Handler {
	return &Handler{svc: svc, root: root, events: events}
}

// CreateEntry handles POST /api/entries.
//
//	@Summary	Create a diary or note entry
//	@Tags		entries
//	@Accept		json
//	@Produce	json
//	@Param		body	body		CreateEntryRequest	false	"Entry format"
//	@Success	201		{object}	EntryResponse
//	@Failure	400		{object}	errResponse
//	@Failure	409		{object}	errResponse
//	@Router		/entries [post]
func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req CreateEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	kind, err := entry.ParseKind(req.Kind)
	if err != nil {
		writeError(w, "create entry", err)
		return
	}
	style, err := ident.ParseStyle(req.ID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	opts, err := entry.ResolveDir(h.root, entry.FlagsFor(kind, style))
	if err != nil {
		writeError(w, "create entry", err)
		return
	}
	res, err := h.svc.Create(r.Context(), opts)
	if err != nil {
		writeError(w, "create entry", err)
		return
	}
	if h.events != nil {
		h.events.PublishEntry("created", res)
	}
	writeJSON(w, http.StatusCreated, res)
}

// NextDiary handles GET /api/entries/next-diary.
//
//	@Summary	Preview the month of the next diary file
//	@Tags		entries
//	@Produce	json
//	@Success	200	{object}	NextDiaryResponse
//	@Router		/entries/next-diary [get]
func (h *Handler) NextDiary(w http.ResponseWriter, r *http.Request) {
	ym, err := h.svc.NextDiary(r.Context(), h.root)
	if err != nil {
		writeError(w, "next diary", err)
		return
	}
	writeJSON(w, http.StatusOK, NextDiaryResponse{YearMonth: ym.String(), Name: diary.Filename(ym)})
}

// GetEntry handles GET /api/entries/{name}.
//
//	@Summary	Read an entry's frontmatter and body
//	@Tags		entries
//	@Produce	json
//	@Param		name	path		string	true	"Entry file name"
//	@Success	200		{object}	EntryDetail
//	@Failure	404		{object}	errResponse
//	@Router		/entries/{name} [get]
func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	store, err := storage.NewFS(h.root)
	if err != nil {
		writeError(w, "get entry", err)
		return
	}
	data, err := store.Read(name)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidInput) {
			writeError(w, "get entry", apperr.ErrNotFound)
			return
		}
		writeError(w, "get entry", err)
		return
	}
	doc := frontmatter.Split(data)
	writeJSON(w, http.StatusOK, EntryDetail{Name: name, Frontmatter: doc.Frontmatter, Body: doc.Body})
}
