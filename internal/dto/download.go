package dto

import (
	"io"
	"time"
)

// Download is an opened stored file ready to stream.
type Download struct {
	Content          io.ReadCloser
	OriginalFilename string
	Size             int64
	ContentType      string
	ModifiedAt       time.Time
}

// ExportFile is a rendered catalog export.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}
