// Package export renders archived blueprints into downloadable documents.
package export

import (
	"context"
	"log/slog"

	"github.com/yanqian/trip-blueprint/internal/domain/blueprint"
	apperrors "github.com/yanqian/trip-blueprint/pkg/errors"
)

const pdfMimeType = "application/pdf"

// Document is a rendered file ready to be served.
type Document struct {
	Filename string
	MimeType string
	Data     []byte
}

// ObjectStorage keeps rendered documents.
type ObjectStorage interface {
	Put(ctx context.Context, key string, data []byte, mimeType string) error
	Get(ctx context.Context, key string) ([]byte, bool, error)
}

// Renderer turns a blueprint into PDF bytes.
type Renderer interface {
	Render(bp blueprint.Blueprint) ([]byte, error)
}

// BlueprintSource looks up archived blueprints. blueprint.Service satisfies it.
type BlueprintSource interface {
	Get(ctx context.Context, id string) (blueprint.Blueprint, error)
}

// Service exposes blueprint exports.
type Service interface {
	PDF(ctx context.Context, id string) (Document, error)
}

type service struct {
	source   BlueprintSource
	renderer Renderer
	storage  ObjectStorage
	logger   *slog.Logger
}

// NewService wires the export domain.
func NewService(source BlueprintSource, renderer Renderer, storage ObjectStorage, logger *slog.Logger) Service {
	return &service{
		source:   source,
		renderer: renderer,
		storage:  storage,
		logger:   logger.With("component", "export.service"),
	}
}

// ObjectKey is where the PDF of a blueprint is stored.
func ObjectKey(id string) string {
	return "blueprints/" + id + ".pdf"
}

func (s *service) PDF(ctx context.Context, id string) (Document, error) {
	bp, err := s.source.Get(ctx, id)
	if err != nil {
		return Document{}, err
	}
	doc := Document{Filename: "trip-blueprint-" + bp.ID + ".pdf", MimeType: pdfMimeType}
	key := ObjectKey(bp.ID)

	data, found, err := s.storage.Get(ctx, key)
	switch {
	case err != nil:
		s.logger.Warn("stored pdf unavailable, rendering again", "key", key, "error", err)
	case found:
		doc.Data = data
		return doc, nil
	}

	data, err = s.renderer.Render(bp)
	if err != nil {
		return Document{}, apperrors.Wrap(apperrors.CodeRender, "failed to render blueprint document", err)
	}
	if err := s.storage.Put(ctx, key, data, pdfMimeType); err != nil {
		s.logger.Warn("pdf upload failed", "key", key, "error", err)
	} else {
		s.logger.Info("pdf stored", "key", key, "bytes", len(data))
	}
	doc.Data = data
	return doc, nil
}
