package handler

import (
	"net/http"

	"bandsite/internal/content/service"
	httputil "bandsite/pkg/http"
	"bandsite/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type ContentHandler struct {
	service      service.ContentService
	maxListLimit int
	log          *logger.Logger
}

func NewContentHandler(service service.ContentService, maxListLimit int, log *logger.Logger) *ContentHandler {
	return &ContentHandler{
		service:      service,
		maxListLimit: maxListLimit,
		log:          log,
	}
}

func (h *ContentHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/band/members", h.ListMembers)
	router.GET("/api/music/albums", h.ListAlbums)
	router.GET("/api/music/songs", h.ListSongs)
}

func (h *ContentHandler) ListMembers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, err := httputil.ExtractLimit(r, service.DefaultMembersLimit, h.maxListLimit)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	members, err := h.service.ListMembers(r.Context(), limit)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteList(w, members)
}

func (h *ContentHandler) ListAlbums(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, err := httputil.ExtractLimit(r, service.DefaultAlbumsLimit, h.maxListLimit)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	albums, err := h.service.ListAlbums(r.Context(), limit)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteList(w, albums)
}

func (h *ContentHandler) ListSongs(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, err := httputil.ExtractLimit(r, service.DefaultSongsLimit, h.maxListLimit)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	songs, err := h.service.ListSongs(r.Context(), r.URL.Query().Get("album_id"), limit)
	if err != nil {
		h.log.Debug("Song listing failed", "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteList(w, songs)
}
