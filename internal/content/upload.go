package content

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/aTrapDeer/portfolio-backend/internal/apperr"
	"github.com/aTrapDeer/portfolio-backend/internal/validation"
)

var imageTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/bmp",
	"image/webp",
	"image/svg+xml",
}

// image is an upload that passed validation.
type image struct {
	header *multipart.FileHeader
	mime   *mimetype.MIME
}

// checkImage validates an optional upload and records a field error on
// failure. It returns nil when nothing was uploaded or the upload is invalid.
func checkImage(fh *multipart.FileHeader, field string, maxBytes int64, fields map[string]string) *image {
	if fh == nil {
		return nil
	}
	label := validation.Label(field)
	if maxBytes > 0 && fh.Size > maxBytes {
		fields[field] = fmt.Sprintf("The %s field must not be greater than %d kilobytes.", label, maxBytes/1024)
		return nil
	}
	f, err := fh.Open()
	if err != nil {
		fields[field] = fmt.Sprintf("The %s failed to upload.", label)
		return nil
	}
	defer f.Close()
	m, err := mimetype.DetectReader(f)
	if err != nil || !mimetype.EqualsAny(m.String(), imageTypes...) {
		fields[field] = fmt.Sprintf("The %s field must be an image.", label)
		return nil
	}
	return &image{header: fh, mime: m}
}

// storeImage saves img under bucket with a random name and returns the
// stored path. A nil img stores nothing and returns "".
func (s *Service) storeImage(ctx context.Context, img *image, bucket string) (string, error) {
	if img == nil {
		return "", nil
	}
	f, err := img.header.Open()
	if err != nil {
		return "", apperr.Storage(err)
	}
	defer f.Close()

	path := bucket + "/" + uuid.NewString() + img.mime.Extension()
	if err := s.files.Save(ctx, path, f, img.mime.String()); err != nil {
		return "", apperr.Storage(err)
	}
	return path, nil
}
