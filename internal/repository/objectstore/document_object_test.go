package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"pdfvault/internal/logging"
	"pdfvault/internal/repository"
	"pdfvault/internal/repository/repotest"
	"pdfvault/internal/storage"
	storeMocks "pdfvault/internal/storage/mocks"
)

func TestDocumentObject_ContractOnFilesystem(t *testing.T) {
	repotest.Run(t, func(t *testing.T) repository.DocumentRepository {
		fs, err := storage.NewFilesystem(t.TempDir())
		require.NoError(t, err)
		return NewDocumentObject(fs, logging.Discard())
	})
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "documents/a.pdf.json", ObjectKey("a.pdf"))
	assert.Equal(t, "documents/dir%2Finner.pdf.json", ObjectKey("dir/inner.pdf"))
	assert.Equal(t, "documents/report%202024.pdf.json", ObjectKey("report 2024.pdf"))
}

func TestDocumentObject_Faults(t *testing.T) {
	ctx := context.Background()

	t.Run("put failure is a write error", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		repo := NewDocumentObject(mStore, logging.Discard())
		mStore.On("Put", ctx, "documents/a.pdf.json", mock.Anything, mock.MatchedBy(func(o storage.PutObjectOptions) bool {
			return o.ContentType == "application/json" && o.Size > 0
		})).Return(storage.ObjectInfo{}, errors.New("quota exceeded"))

		err := repo.Add(ctx, repotest.Record("a.pdf", 3))
		assert.ErrorIs(t, err, repository.ErrStorageWrite)
		mStore.AssertExpectations(t)
	})

	t.Run("failed overwrite leaves previous record", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		repo := NewDocumentObject(mStore, logging.Discard())
		var stored []byte
		mStore.On("Put", ctx, "documents/a.pdf.json", mock.Anything, mock.Anything).
			Return(func(_ context.Context, key string, r io.Reader, _ storage.PutObjectOptions) storage.ObjectInfo {
				stored, _ = io.ReadAll(r)
				return storage.ObjectInfo{Key: key, Size: int64(len(stored))}
			}, nil).Once()
		mStore.On("Put", ctx, "documents/a.pdf.json", mock.Anything, mock.Anything).
			Return(storage.ObjectInfo{}, errors.New("quota exceeded")).Once()

		first := repotest.Record("a.pdf", 10)
		require.NoError(t, repo.Add(ctx, first))
		err := repo.Add(ctx, repotest.Record("a.pdf", 20))
		assert.ErrorIs(t, err, repository.ErrStorageWrite)

		mStore.On("Get", ctx, "documents/a.pdf.json").
			Return(io.NopCloser(bytes.NewReader(stored)), storage.ObjectInfo{}, nil)
		got, found, err := repo.Get(ctx, "a.pdf")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, int64(10), got.SizeBytes)
		assert.Equal(t, first.Content, got.Content)
		mStore.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		mStore.AssertExpectations(t)
	})

	t.Run("missing object is not found", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		repo := NewDocumentObject(mStore, logging.Discard())
		mStore.On("Get", ctx, "documents/a.pdf.json").
			Return(nil, storage.ObjectInfo{}, fmt.Errorf("object: %w", storage.ErrNotFound))

		doc, found, err := repo.Get(ctx, "a.pdf")
		assert.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, doc)
	})

	t.Run("get failure is a read error", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		repo := NewDocumentObject(mStore, logging.Discard())
		mStore.On("Get", ctx, "documents/a.pdf.json").
			Return(nil, storage.ObjectInfo{}, errors.New("timeout"))

		_, _, err := repo.Get(ctx, "a.pdf")
		assert.ErrorIs(t, err, repository.ErrStorageRead)
	})

	t.Run("corrupt object is a read error", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		repo := NewDocumentObject(mStore, logging.Discard())
		mStore.On("Get", ctx, "documents/a.pdf.json").
			Return(io.NopCloser(strings.NewReader("{not json")), storage.ObjectInfo{}, nil)

		_, _, err := repo.Get(ctx, "a.pdf")
		assert.ErrorIs(t, err, repository.ErrStorageRead)
	})

	t.Run("list failure is a read error", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		repo := NewDocumentObject(mStore, logging.Discard())
		mStore.On("List", ctx, "documents/").Return(nil, errors.New("access denied"))

		_, err := repo.GetAll(ctx)
		assert.ErrorIs(t, err, repository.ErrStorageRead)
	})

	t.Run("objects vanishing during a scan are skipped", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		repo := NewDocumentObject(mStore, logging.Discard())
		mStore.On("List", ctx, "documents/").Return([]storage.ObjectInfo{
			{Key: "documents/a.pdf.json"},
			{Key: "documents/b.pdf.json"},
			{Key: "documents/notes.txt"},
		}, nil)
		mStore.On("Get", ctx, "documents/a.pdf.json").
			Return(nil, storage.ObjectInfo{}, storage.ErrNotFound)
		mStore.On("Get", ctx, "documents/b.pdf.json").
			Return(io.NopCloser(strings.NewReader(`{"name":"b.pdf","size_bytes":2000}`)), storage.ObjectInfo{}, nil)

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "b.pdf", all[0].Name)
		mStore.AssertExpectations(t)
	})

	t.Run("delete failure is a write error", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		repo := NewDocumentObject(mStore, logging.Discard())
		mStore.On("Delete", ctx, "documents/a.pdf.json").Return(errors.New("forbidden"))

		assert.ErrorIs(t, repo.Delete(ctx, "a.pdf"), repository.ErrStorageWrite)
	})
}
