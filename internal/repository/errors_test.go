package repository

import (
	"errors"
	"testing"

	"pdfvault/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestOpError_Is(t *testing.T) {
	cause := errors.New("disk full")

	err := WriteError("add", "a.pdf", cause)
	assert.ErrorIs(t, err, ErrStorageWrite)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrStorageRead)
	assert.Equal(t, `add "a.pdf": storage write failed: disk full`, err.Error())

	err = ReadError("get all", "", cause)
	assert.ErrorIs(t, err, ErrStorageRead)
	assert.Equal(t, "get all: storage read failed: disk full", err.Error())

	err = InitError("open sqlite", cause)
	assert.ErrorIs(t, err, ErrInitialization)

	var opErr *OpError
	assert.True(t, errors.As(err, &opErr))
	assert.Equal(t, "open sqlite", opErr.Op)
}

func TestTotalSize(t *testing.T) {
	assert.Equal(t, int64(0), TotalSize(nil))

	docs := []model.DocumentRecord{
		{Name: "a.pdf", SizeBytes: 1000},
		{Name: "b.pdf", SizeBytes: 2000},
	}
	assert.Equal(t, int64(3000), TotalSize(docs))
}
