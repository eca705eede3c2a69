package convert

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"pdfconvert-backend/internal/graph"
)

type fakeTokens struct {
	calls *[]string
	err   error
}

func (f *fakeTokens) AcquireToken(ctx context.Context) (string, error) {
	*f.calls = append(*f.calls, "token")
	if f.err != nil {
		return "", f.err
	}
	return "tok-1", nil
}

type fakeDrive struct {
	calls      *[]string
	uploadErr  error
	convertErr error
	deleteErr  error
	pdf        []byte
}

func (f *fakeDrive) Upload(ctx context.Context, token, name string, content []byte) (*graph.DriveItem, error) {
	*f.calls = append(*f.calls, "upload:"+name)
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return &graph.DriveItem{ID: "item-1", Name: name, Size: int64(len(content))}, nil
}

func (f *fakeDrive) ConvertToPDF(ctx context.Context, token, name string) ([]byte, error) {
	*f.calls = append(*f.calls, "convert:"+name)
	if f.convertErr != nil {
		return nil, f.convertErr
	}
	return f.pdf, nil
}

func (f *fakeDrive) Delete(ctx context.Context, token, name string) error {
	*f.calls = append(*f.calls, "delete:"+name)
	return f.deleteErr
}

func newFixture(calls *[]string) (*fakeTokens, *fakeDrive, *Service) {
	tokens := &fakeTokens{calls: calls}
	drive := &fakeDrive{calls: calls, pdf: []byte("%PDF-1.7 fake")}
	return tokens, drive, &Service{Tokens: tokens, Drive: drive}
}

func TestConvertSuccessCallOrder(t *testing.T) {
	var calls []string
	_, drive, svc := newFixture(&calls)

	pdf, err := svc.Convert(context.Background(), "report.docx", []byte("X"))
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if string(pdf) != string(drive.pdf) {
		t.Fatalf("expected pdf passthrough, got %q", pdf)
	}

	want := []string{"token", "upload:report.docx", "convert:report.docx", "delete:report.docx"}
	if !reflect.DeepEqual(calls, want) {
		t.Fatalf("expected calls %v, got %v", want, calls)
	}
}

func TestConvertRejectsUnsupportedExtension(t *testing.T) {
	var calls []string
	_, _, svc := newFixture(&calls)

	for _, name := range []string{"image.png", "report.docx.txt", "notes.pdf", "noext"} {
		if _, err := svc.Convert(context.Background(), name, []byte("X")); !errors.Is(err, ErrUnsupportedType) {
			t.Fatalf("%s: expected ErrUnsupportedType, got %v", name, err)
		}
	}
	if len(calls) != 0 {
		t.Fatalf("expected zero outbound calls, got %v", calls)
	}
}

func TestConvertAcceptsCaseInsensitiveExtensions(t *testing.T) {
	var calls []string
	_, _, svc := newFixture(&calls)

	for _, name := range []string{"REPORT.DOCX", "deck.PpTx"} {
		if _, err := svc.Convert(context.Background(), name, []byte("X")); err != nil {
			t.Fatalf("%s: expected success, got %v", name, err)
		}
	}
}

func TestConvertAuthFailureSkipsDrive(t *testing.T) {
	var calls []string
	tokens, _, svc := newFixture(&calls)
	tokens.err = errors.New("exchange refused")

	_, err := svc.Convert(context.Background(), "report.docx", []byte("X"))
	if !errors.Is(err, ErrAuth) {
		t.Fatalf("expected ErrAuth, got %v", err)
	}

	want := []string{"token"}
	if !reflect.DeepEqual(calls, want) {
		t.Fatalf("expected calls %v, got %v", want, calls)
	}
}

func TestConvertUploadFailureStillDeletes(t *testing.T) {
	var calls []string
	_, drive, svc := newFixture(&calls)
	drive.uploadErr = &graph.APIError{Op: "upload", StatusCode: 409, Message: "conflict"}

	_, err := svc.Convert(context.Background(), "report.docx", []byte("X"))
	if !errors.Is(err, ErrUpload) {
		t.Fatalf("expected ErrUpload, got %v", err)
	}

	var apiErr *graph.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != 409 {
		t.Fatalf("expected wrapped APIError with status 409, got %v", err)
	}

	want := []string{"token", "upload:report.docx", "delete:report.docx"}
	if !reflect.DeepEqual(calls, want) {
		t.Fatalf("expected calls %v, got %v", want, calls)
	}
}

func TestConvertRenderFailureStillDeletes(t *testing.T) {
	var calls []string
	_, drive, svc := newFixture(&calls)
	drive.convertErr = &graph.APIError{Op: "convert", StatusCode: 500, Message: "renderer unavailable"}

	_, err := svc.Convert(context.Background(), "deck.pptx", []byte("X"))
	if !errors.Is(err, ErrRender) {
		t.Fatalf("expected ErrRender, got %v", err)
	}

	want := []string{"token", "upload:deck.pptx", "convert:deck.pptx", "delete:deck.pptx"}
	if !reflect.DeepEqual(calls, want) {
		t.Fatalf("expected calls %v, got %v", want, calls)
	}
}

func TestConvertDeleteFailureDoesNotMaskSuccess(t *testing.T) {
	var calls []string
	_, drive, svc := newFixture(&calls)
	drive.deleteErr = &graph.APIError{Op: "delete", StatusCode: 423, Message: "locked"}

	pdf, err := svc.Convert(context.Background(), "report.docx", []byte("X"))
	if err != nil {
		t.Fatalf("expected success despite delete failure, got %v", err)
	}
	if string(pdf) != string(drive.pdf) {
		t.Fatalf("expected pdf bytes, got %q", pdf)
	}
}

func TestConvertDeleteFailureDoesNotMaskRenderError(t *testing.T) {
	var calls []string
	_, drive, svc := newFixture(&calls)
	drive.convertErr = errors.New("rendition timeout")
	drive.deleteErr = errors.New("delete also broken")

	_, err := svc.Convert(context.Background(), "report.docx", []byte("X"))
	if !errors.Is(err, ErrRender) {
		t.Fatalf("expected ErrRender to win over delete failure, got %v", err)
	}
}

func TestConvertRejectsTraversalNames(t *testing.T) {
	var calls []string
	_, _, svc := newFixture(&calls)

	if _, err := svc.Convert(context.Background(), "../secrets.docx", []byte("X")); !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected rejection, got %v", err)
	}
	if len(calls) != 0 {
		t.Fatalf("expected zero outbound calls, got %v", calls)
	}
}
