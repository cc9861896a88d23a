package service_test

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"labmark/internal/config"
	"labmark/internal/domain"
	"labmark/internal/port"
	"labmark/internal/service"
	"labmark/mocks"
)

type memFile struct {
	*bytes.Reader
}

func (memFile) Close() error { return nil }

func uploadInputFor(name string, content []byte) service.FileUploadInput {
	return service.FileUploadInput{
		UploadedBy: uuid.New(),
		File:       memFile{bytes.NewReader(content)},
		Header:     &multipart.FileHeader{Filename: name, Size: int64(len(content))},
	}
}

func pdfBytes() []byte {
	return []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\n%%EOF")
}

func testS3Config() *config.S3Config {
	return &config.S3Config{
		Bucket:        "labmark-files",
		MaxFileSizeMB: 10,
		PresignExpiry: 900,
	}
}

func newFileService() (*mocks.MockFileMetaRepo, *mocks.MockObjectStorage, service.FileService) {
	fileRepo := new(mocks.MockFileMetaRepo)
	storage := new(mocks.MockObjectStorage)
	return fileRepo, storage, service.NewFileService(fileRepo, storage, testS3Config())
}

func TestFileUpload_Success(t *testing.T) {
	fileRepo, storage, svc := newFileService()
	input := uploadInputFor("bloodwork.pdf", pdfBytes())

	fileRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	storage.On("Upload", mock.Anything, mock.MatchedBy(func(in port.UploadInput) bool {
		return in.Bucket == "labmark-files" &&
			in.ContentType == "application/pdf" &&
			strings.HasSuffix(in.Key, "/bloodwork.pdf")
	})).Return(&port.UploadOutput{ETag: "abc"}, nil)
	fileRepo.On("UpdateStatus", mock.Anything, mock.Anything, domain.FileStatusUploaded).Return(nil)

	meta, err := svc.Upload(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, domain.FileTypePDF, meta.FileType)
	assert.Equal(t, "bloodwork.pdf", meta.OriginalName)
	assert.Equal(t, domain.FileStatusUploaded, meta.Status)
	assert.Equal(t, input.UploadedBy, meta.UploadedBy)
	assert.True(t, strings.HasPrefix(meta.S3Key, "users/"+input.UploadedBy.String()+"/files/"))
	fileRepo.AssertExpectations(t)
	storage.AssertExpectations(t)
}

func TestFileUpload_RejectsUnknownExtension(t *testing.T) {
	fileRepo, _, svc := newFileService()
	_, err := svc.Upload(context.Background(), uploadInputFor("report.exe", pdfBytes()))
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
	fileRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestFileUpload_RejectsOversizedFile(t *testing.T) {
	_, _, svc := newFileService()
	input := uploadInputFor("huge.pdf", pdfBytes())
	input.Header.Size = 11 * 1024 * 1024

	_, err := svc.Upload(context.Background(), input)
	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
}

func TestFileUpload_RejectsMismatchedContent(t *testing.T) {
	fileRepo, _, svc := newFileService()

	// A .pdf extension does not make plain text a PDF.
	_, err := svc.Upload(context.Background(), uploadInputFor("notes.pdf", []byte("just some notes")))
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
	fileRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestFileUpload_StorageFailureMarksFileFailed(t *testing.T) {
	fileRepo, storage, svc := newFileService()
	input := uploadInputFor("bloodwork.pdf", pdfBytes())

	fileRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	storage.On("Upload", mock.Anything, mock.Anything).Return(nil, errors.New("s3 unreachable"))
	fileRepo.On("UpdateStatus", mock.Anything, mock.Anything, domain.FileStatusFailed).Return(nil)

	_, err := svc.Upload(context.Background(), input)
	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	fileRepo.AssertCalled(t, "UpdateStatus", mock.Anything, mock.Anything, domain.FileStatusFailed)
}

func TestFileGetDownloadURL(t *testing.T) {
	fileRepo, storage, svc := newFileService()
	fileID := uuid.New()
	meta := &domain.FileMeta{ID: fileID, S3Bucket: "labmark-files", S3Key: "users/u/files/f/report.pdf"}

	fileRepo.On("GetByID", mock.Anything, fileID).Return(meta, nil)
	storage.On("GetPresignedURL", mock.Anything, meta.S3Bucket, meta.S3Key, int64(900)).
		Return("https://signed.example/report.pdf", nil)

	url, err := svc.GetDownloadURL(context.Background(), fileID)
	require.NoError(t, err)
	assert.Equal(t, "https://signed.example/report.pdf", url)
}

func TestFileDelete_RemovesObjectThenRow(t *testing.T) {
	fileRepo, storage, svc := newFileService()
	fileID := uuid.New()
	meta := &domain.FileMeta{ID: fileID, S3Bucket: "labmark-files", S3Key: "users/u/files/f/report.pdf"}

	fileRepo.On("GetByID", mock.Anything, fileID).Return(meta, nil)
	storage.On("Delete", mock.Anything, meta.S3Bucket, meta.S3Key).Return(nil)
	fileRepo.On("Delete", mock.Anything, fileID).Return(nil)

	require.NoError(t, svc.Delete(context.Background(), fileID))
	fileRepo.AssertExpectations(t)
	storage.AssertExpectations(t)
}

func TestFileDelete_StorageFailureKeepsRow(t *testing.T) {
	fileRepo, storage, svc := newFileService()
	fileID := uuid.New()
	meta := &domain.FileMeta{ID: fileID, S3Bucket: "labmark-files", S3Key: "users/u/files/f/report.pdf"}

	fileRepo.On("GetByID", mock.Anything, fileID).Return(meta, nil)
	storage.On("Delete", mock.Anything, meta.S3Bucket, meta.S3Key).Return(errors.New("s3 unreachable"))

	err := svc.Delete(context.Background(), fileID)
	assert.Error(t, err)
	fileRepo.AssertNotCalled(t, "Delete", mock.Anything, fileID)
}
