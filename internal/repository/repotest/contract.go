// Package repotest holds the behavioural suite every DocumentRepository
// implementation must pass.
package repotest

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfvault/internal/datauri"
	"pdfvault/internal/model"
	"pdfvault/internal/repository"
)

// Record builds a valid PDF record of the given size.
func Record(name string, size int) *model.DocumentRecord {
	data := make([]byte, size)
	copy(data, "%PDF-1.7")
	return &model.DocumentRecord{
		Name:         name,
		MimeType:     model.PDFMimeType,
		SizeBytes:    int64(size),
		LastModified: time.UnixMilli(1700000000123).UTC(),
		Content:      datauri.Encode(model.PDFMimeType, data),
	}
}

// Run exercises newRepo with the store contract. newRepo must return an
// empty repository on every call.
func Run(t *testing.T, newRepo func(t *testing.T) repository.DocumentRepository) {
	ctx := context.Background()

	t.Run("add then get returns equal record", func(t *testing.T) {
		repo := newRepo(t)
		want := Record("a.pdf", 1000)

		require.NoError(t, repo.Add(ctx, want))

		got, found, err := repo.Get(ctx, "a.pdf")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, want.Name, got.Name)
		assert.Equal(t, want.MimeType, got.MimeType)
		assert.Equal(t, want.SizeBytes, got.SizeBytes)
		assert.True(t, want.LastModified.Equal(got.LastModified), "last modified: want %v got %v", want.LastModified, got.LastModified)
		assert.Equal(t, want.Content, got.Content)
	})

	t.Run("add overwrites same name", func(t *testing.T) {
		repo := newRepo(t)
		first := Record("same.pdf", 10)
		second := Record("same.pdf", 20)

		require.NoError(t, repo.Add(ctx, first))
		require.NoError(t, repo.Add(ctx, second))

		got, found, err := repo.Get(ctx, "same.pdf")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, int64(20), got.SizeBytes)
		assert.Equal(t, second.Content, got.Content)

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("failed add leaves previous record", func(t *testing.T) {
		repo := newRepo(t)
		first := Record("kept.pdf", 10)
		require.NoError(t, repo.Add(ctx, first))

		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		err := repo.Add(cancelled, Record("kept.pdf", 20))
		assert.ErrorIs(t, err, repository.ErrStorageWrite)

		got, found, err := repo.Get(ctx, "kept.pdf")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, int64(10), got.SizeBytes)
		assert.Equal(t, first.Content, got.Content)
	})

	t.Run("get missing is not found without error", func(t *testing.T) {
		repo := newRepo(t)

		got, found, err := repo.Get(ctx, "missing.pdf")
		assert.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, got)
	})

	t.Run("delete missing succeeds", func(t *testing.T) {
		repo := newRepo(t)

		assert.NoError(t, repo.Delete(ctx, "missing.pdf"))
		_, found, err := repo.Get(ctx, "missing.pdf")
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("delete removes from get all", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Add(ctx, Record("gone.pdf", 5)))
		require.NoError(t, repo.Delete(ctx, "gone.pdf"))

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("usage follows adds and deletes", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Add(ctx, Record("a.pdf", 1000)))
		require.NoError(t, repo.Add(ctx, Record("b.pdf", 2000)))

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)
		assert.Equal(t, int64(3000), repository.TotalSize(all))

		require.NoError(t, repo.Delete(ctx, "a.pdf"))

		all, err = repo.GetAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "b.pdf", all[0].Name)
		assert.Equal(t, int64(2000), repository.TotalSize(all))

		_, found, err := repo.Get(ctx, "a.pdf")
		assert.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("names are opaque keys", func(t *testing.T) {
		repo := newRepo(t)
		names := []string{"report 2024.pdf", "ünïcode.pdf", "../escape.pdf", "dir/inner.pdf"}
		for _, n := range names {
			require.NoError(t, repo.Add(ctx, Record(n, 1)))
		}

		all, err := repo.GetAll(ctx)
		require.NoError(t, err)
		got := make([]string, 0, len(all))
		for _, d := range all {
			got = append(got, d.Name)
		}
		sort.Strings(got)
		want := append([]string(nil), names...)
		sort.Strings(want)
		assert.Equal(t, want, got)
	})
}
