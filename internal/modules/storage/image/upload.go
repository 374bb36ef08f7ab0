package image

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gabriel-vasile/mimetype"
	"github.com/portal-berita/core/internal/pkg/apperr"
)

const (
	// Field is the form field and error key for article images.
	Field = "image"

	DefaultMaxBytes = 2048 * 1024
)

var allowed = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
}

// Upload is an image received from a client, fully buffered.
type Upload struct {
	Filename    string
	Data        []byte
	ContentType string
	Extension   string
	// Truncated is set when the source held more than the read limit.
	Truncated bool
}

// Size returns the number of buffered bytes.
func (u *Upload) Size() int64 { return int64(len(u.Data)) }

// FromFileHeader reads a multipart file, at most maxBytes+1 bytes so an
// oversized upload is detected without buffering all of it.
func FromFileHeader(fh *multipart.FileHeader, maxBytes int64) (*Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	return FromReader(fh.Filename, f, maxBytes)
}

// FromReader buffers r the same way as FromFileHeader.
func FromReader(name string, r io.Reader, maxBytes int64) (*Upload, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	u := &Upload{Filename: name, Data: data}
	if int64(len(data)) > maxBytes {
		u.Truncated = true
	}
	return u, nil
}

// Validate checks size and sniffed content type, filling ContentType and
// Extension on success. Failures are field-keyed under "image".
func Validate(u *Upload, maxBytes int64) *apperr.Error {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if u == nil || len(u.Data) == 0 {
		return apperr.Invalid(Field, "image is required")
	}
	fields := apperr.Fields{}
	if u.Truncated || u.Size() > maxBytes {
		fields.Add(Field, fmt.Sprintf("image may not be greater than %d kilobytes", maxBytes/1024))
	}
	mt := mimetype.Detect(u.Data)
	ext, ok := "", false
	for m := mt; m != nil; m = m.Parent() {
		if ext, ok = allowed[m.String()]; ok {
			u.ContentType = m.String()
			break
		}
	}
	if !ok {
		fields.Add(Field, "image must be a file of type: png, jpg")
	} else {
		u.Extension = ext
	}
	if len(fields) > 0 {
		return apperr.Validation(fields)
	}
	return nil
}
