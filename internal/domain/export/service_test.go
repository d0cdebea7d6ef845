package export

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/trip-blueprint/internal/domain/blueprint"
	apperrors "github.com/yanqian/trip-blueprint/pkg/errors"
)

const testID = "5b0a9e3c-7c1f-4a56-9a3e-2f2f7b1e8c11"

type stubSource struct{ err error }

func (s stubSource) Get(_ context.Context, id string) (blueprint.Blueprint, error) {
	if s.err != nil {
		return blueprint.Blueprint{}, s.err
	}
	return blueprint.Blueprint{ID: id}, nil
}

type countingRenderer struct {
	calls int
	err   error
}

func (r *countingRenderer) Render(bp blueprint.Blueprint) ([]byte, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-" + bp.ID), nil
}

type mapStorage struct {
	objects map[string][]byte
	putErr  error
}

func (m *mapStorage) Put(_ context.Context, key string, data []byte, _ string) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.objects[key] = data
	return nil
}

func (m *mapStorage) Get(_ context.Context, key string) ([]byte, bool, error) {
	data, ok := m.objects[key]
	return data, ok, nil
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestPDFRendersOnceThenServesStoredCopy(t *testing.T) {
	renderer := &countingRenderer{}
	storage := &mapStorage{objects: map[string][]byte{}}
	svc := NewService(stubSource{}, renderer, storage, discard())

	doc, err := svc.PDF(context.Background(), testID)
	require.NoError(t, err)
	require.Equal(t, "application/pdf", doc.MimeType)
	require.Equal(t, "trip-blueprint-"+testID+".pdf", doc.Filename)
	require.Contains(t, storage.objects, "blueprints/"+testID+".pdf")

	again, err := svc.PDF(context.Background(), testID)
	require.NoError(t, err)
	require.Equal(t, doc.Data, again.Data)
	require.Equal(t, 1, renderer.calls)
}

func TestPDFStillServedWhenUploadFails(t *testing.T) {
	renderer := &countingRenderer{}
	storage := &mapStorage{objects: map[string][]byte{}, putErr: errors.New("bucket gone")}
	svc := NewService(stubSource{}, renderer, storage, discard())

	doc, err := svc.PDF(context.Background(), testID)
	require.NoError(t, err)
	require.NotEmpty(t, doc.Data)
}

func TestPDFPropagatesLookupAndRenderErrors(t *testing.T) {
	notFound := apperrors.Wrap(apperrors.CodeNotFound, "blueprint not found", nil)
	svc := NewService(stubSource{err: notFound}, &countingRenderer{}, &mapStorage{objects: map[string][]byte{}}, discard())
	_, err := svc.PDF(context.Background(), testID)
	require.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	svc = NewService(stubSource{}, &countingRenderer{err: errors.New("font missing")}, &mapStorage{objects: map[string][]byte{}}, discard())
	_, err = svc.PDF(context.Background(), testID)
	require.True(t, apperrors.IsCode(err, apperrors.CodeRender))
}
