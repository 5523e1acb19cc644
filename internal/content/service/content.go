package service

import (
	"context"
	"errors"

	"bandsite/pkg/config"
	apperrors "bandsite/pkg/errors"
	"bandsite/pkg/schema"
	"bandsite/pkg/store"
)

const (
	DefaultMembersLimit = 50
	DefaultAlbumsLimit  = 50
	DefaultSongsLimit   = 100
)

type ContentService interface {
	ListMembers(ctx context.Context, limit int) ([]store.Document, error)
	ListAlbums(ctx context.Context, limit int) ([]store.Document, error)
	// ListSongs filters by exact album_id when albumID is non-empty.
	ListSongs(ctx context.Context, albumID string, limit int) ([]store.Document, error)
}

type contentService struct {
	store    store.DocumentStore
	registry *schema.Registry
	cfg      *config.Config
}

func NewContentService(docs store.DocumentStore, registry *schema.Registry, cfg *config.Config) ContentService {
	return &contentService{
		store:    docs,
		registry: registry,
		cfg:      cfg,
	}
}

func (s *contentService) ListMembers(ctx context.Context, limit int) ([]store.Document, error) {
	return s.list(ctx, schema.EntityBandMember, nil, limit)
}

func (s *contentService) ListAlbums(ctx context.Context, limit int) ([]store.Document, error) {
	return s.list(ctx, schema.EntityAlbum, nil, limit)
}

func (s *contentService) ListSongs(ctx context.Context, albumID string, limit int) ([]store.Document, error) {
	var filter store.Filter
	if albumID != "" {
		filter = store.Filter{"album_id": albumID}
	}
	return s.list(ctx, schema.EntitySong, filter, limit)
}

func (s *contentService) list(ctx context.Context, entity string, filter store.Filter, limit int) ([]store.Document, error) {
	collection, err := s.registry.Collection(entity)
	if err != nil {
		return nil, apperrors.Internal("Unknown content type", err)
	}

	docs, err := s.store.GetDocuments(ctx, collection, filter, limit)
	if err != nil {
		s.cfg.Log.Error("Failed to list documents",
			"entity", entity,
			"collection", collection,
			"limit", limit,
			"error", err,
		)
		if errors.Is(err, store.ErrInvalidLimit) {
			return nil, apperrors.InvalidInput("limit must be a positive integer")
		}
		return nil, apperrors.Storage("Query", err)
	}

	for _, doc := range docs {
		store.StringifyID(doc)
	}
	return docs, nil
}
