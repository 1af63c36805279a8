package upload

import (
	"bytes"
	"errors"
	"fmt"
	"github.com/disintegration/imaging"
	"imageLocator/internal/models"
	"imageLocator/internal/objectstore"
	"io"
	"mime"
	"path"
	"strings"
)

const (
	errMissingFile     = "Empty or missing file"
	defaultContentType = "application/octet-stream"
)

// Candidate is one unit offered for upload. A nil Open means the unit is missing.
// Size is the declared content size, 0 when unknown.
type Candidate struct {
	Source      models.Source
	Name        string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
	Meta        models.GeoMeta
}

// Validator turns candidates into storage-ready descriptors.
type Validator struct {
	verifyImages bool
	maxFileBytes int64
}

// NewValidator returns a Validator. With verifyImages set, content that
// cannot be decoded as an image is rejected. Files larger than maxFileBytes
// are rejected without being read past the limit; 0 disables the limit.
func NewValidator(verifyImages bool, maxFileBytes int64) *Validator {
	return &Validator{
		verifyImages: verifyImages,
		maxFileBytes: maxFileBytes,
	}
}

// Validate reads every candidate. Each one ends up either in validated or in
// errs, identified by its position in candidates.
func (v *Validator) Validate(candidates []Candidate) (validated []models.FileDescriptor, errs []models.FileError) {
	for i, c := range candidates {
		name := c.Name
		if name == "" {
			name = fmt.Sprintf("file_%d", i)
		}

		if c.Open == nil {
			errs = append(errs, models.FileError{Index: i, Filename: name, Error: errMissingFile})
			continue
		}

		if v.tooLarge(c.Size) {
			errs = append(errs, models.FileError{Index: i, Filename: name, Error: v.tooLargeMsg()})
			continue
		}

		content, err := v.read(c.Open)
		if errors.Is(err, errTooLarge) {
			errs = append(errs, models.FileError{Index: i, Filename: name, Error: v.tooLargeMsg()})
			continue
		}
		if err != nil {
			errs = append(errs, models.FileError{Index: i, Filename: name, Error: err.Error()})
			continue
		}

		if len(content) == 0 {
			errs = append(errs, models.FileError{Index: i, Filename: name, Error: errMissingFile})
			continue
		}

		if v.verifyImages {
			if _, err = imaging.Decode(bytes.NewReader(content)); err != nil {
				errs = append(errs, models.FileError{Index: i, Filename: name, Error: "not a valid image: " + err.Error()})
				continue
			}
		}

		source := c.Source
		if source == "" {
			source = models.SourceDirect
		}

		validated = append(validated, models.FileDescriptor{
			Source:       source,
			Key:          objectstore.NewStorageKey("", name),
			OriginalName: name,
			ContentType:  contentType(c.ContentType, name),
			Index:        i,
			Content:      content,
			Meta:         c.Meta,
		})
	}

	return validated, errs
}

var errTooLarge = errors.New("file too large")

func (v *Validator) tooLarge(size int64) bool {
	return v.maxFileBytes > 0 && size > v.maxFileBytes
}

func (v *Validator) tooLargeMsg() string {
	return fmt.Sprintf("File too large, limit is %d bytes", v.maxFileBytes)
}

// read reads at most one byte past the limit, enough to tell that the
// content does not fit.
func (v *Validator) read(open func() (io.ReadCloser, error)) ([]byte, error) {
	rc, err := open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	if v.maxFileBytes <= 0 {
		return io.ReadAll(rc)
	}

	content, err := io.ReadAll(io.LimitReader(rc, v.maxFileBytes+1))
	if err != nil {
		return nil, err
	}

	if v.tooLarge(int64(len(content))) {
		return nil, errTooLarge
	}

	return content, nil
}

func contentType(claimed, name string) string {
	if claimed != "" {
		return claimed
	}

	if ct := mime.TypeByExtension(strings.ToLower(path.Ext(name))); ct != "" {
		return ct
	}

	return defaultContentType
}
