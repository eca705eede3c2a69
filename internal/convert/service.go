// Package convert orchestrates one office-document-to-PDF conversion per
// request: acquire a bearer token, upload the document to the scratch
// drive, fetch its PDF rendition, and always delete the upload on the way
// out.
package convert

import (
	"context"
	"strings"

	"pdfconvert-backend/internal/graph"
	"pdfconvert-backend/internal/shared/telemetry"
	"pdfconvert-backend/internal/shared/util"
)

// TokenSource provides bearer tokens for Graph calls. Defined at the
// consumer per the "accept interfaces, return structs" convention;
// graph.TokenProvider is the real implementation.
type TokenSource interface {
	AcquireToken(ctx context.Context) (string, error)
}

// Drive is the subset of drive operations the pipeline needs;
// graph.DriveClient is the real implementation.
type Drive interface {
	Upload(ctx context.Context, token, name string, content []byte) (*graph.DriveItem, error)
	ConvertToPDF(ctx context.Context, token, name string) ([]byte, error)
	Delete(ctx context.Context, token, name string) error
}

// Service drives the conversion pipeline.
type Service struct {
	Tokens TokenSource
	Drive  Drive
}

// SupportedFileName reports whether the filename carries a convertible
// extension. The check is case-insensitive and runs before any outbound
// call.
func SupportedFileName(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".docx") || strings.HasSuffix(lower, ".pptx")
}

// Convert runs the pipeline for one document and returns the PDF bytes.
//
// The uploaded file is transient scratch state: its deletion is registered
// before the upload is attempted and runs on every exit path from there on,
// whether upload or rendition failed. Cleanup failures are swallowed so
// they can neither mask the real error nor become a new one; they are
// logged as secondary telemetry only.
func (s *Service) Convert(ctx context.Context, fileName string, content []byte) (pdf []byte, err error) {
	name, err := util.SanitizeFileName(fileName)
	if err != nil || !SupportedFileName(name) {
		return nil, ErrUnsupportedType
	}

	token, err := s.Tokens.AcquireToken(ctx)
	if err != nil {
		// Nothing uploaded yet, so nothing to clean up.
		return nil, stageErr(ErrAuth, err)
	}

	defer func() {
		if delErr := s.Drive.Delete(ctx, token, name); delErr != nil {
			telemetry.Warn("convert.cleanup.failed", map[string]any{
				"file_name": name,
				"err":       delErr.Error(),
			})
		}
	}()

	item, err := s.Drive.Upload(ctx, token, name, content)
	if err != nil {
		return nil, stageErr(ErrUpload, err)
	}

	telemetry.Info("convert.uploaded", map[string]any{
		"file_name":  name,
		"item_id":    item.ID,
		"size_bytes": item.Size,
	})

	pdf, err = s.Drive.ConvertToPDF(ctx, token, name)
	if err != nil {
		return nil, stageErr(ErrRender, err)
	}
	return pdf, nil
}
