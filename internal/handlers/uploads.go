// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"inkpress/internal/middleware"
	"inkpress/internal/storage"
	"inkpress/internal/store"
)

const (
	// maxUploadSize is the maximum allowed image upload size (10 MB).
	maxUploadSize = 10 << 20
)

// allowedImageTypes defines MIME types accepted for post images.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Uploads handles multipart image uploads to S3 and records them in the
// media table so they can later be cleaned up by URL.
type Uploads struct {
	storage    *storage.Client
	mediaStore *store.MediaStore
}

// NewUploads creates a new Uploads handler group. Returns nil when no
// storage client is configured, and callers treat uploads as disabled.
func NewUploads(storageClient *storage.Client, mediaStore *store.MediaStore) *Uploads {
	if storageClient == nil {
		return nil
	}
	return &Uploads{storage: storageClient, mediaStore: mediaStore}
}

// Upload is the standalone upload endpoint: it stores the image and
// returns its public URL for the client to place wherever it wants.
func (u *Uploads) Upload(w http.ResponseWriter, r *http.Request) {
	url, err := u.store(w, r)
	if err != nil {
		return // store already wrote the error response
	}
	respondJSON(w, http.StatusCreated, map[string]string{"url": url})
}

// store reads the multipart file, validates it, uploads it to S3, and
// records it. On failure it writes the error response itself and returns
// a non-nil error so callers can unwind their own state.
func (u *Uploads) store(w http.ResponseWriter, r *http.Request) (string, error) {
	sess := middleware.SessionFromCtx(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusRequestEntityTooLarge, "File too large. Maximum size is 10 MB.")
		return "", err
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "No file provided.")
		return "", err
	}
	defer file.Close()

	if header.Size > maxUploadSize {
		respondError(w, http.StatusRequestEntityTooLarge, "File too large. Maximum size is 10 MB.")
		return "", errors.New("file too large")
	}

	// Detect content type by sniffing the first 512 bytes.
	sniffBuf := make([]byte, 512)
	n, err := file.Read(sniffBuf)
	if err != nil && err != io.EOF {
		respondError(w, http.StatusInternalServerError, "Failed to read file.")
		return "", err
	}
	contentType := http.DetectContentType(sniffBuf[:n])

	if !allowedImageTypes[contentType] {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("File type %q is not allowed.", contentType))
		return "", errors.New("disallowed content type")
	}

	// Seek back to start after sniffing.
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to process file.")
		return "", err
	}

	// Generate a unique storage key.
	now := time.Now()
	ext := filepath.Ext(header.Filename)
	if ext == "" {
		ext = extensionFromType(contentType)
	}
	s3Key := fmt.Sprintf("uploads/%d/%02d/%s%s", now.Year(), now.Month(), uuid.New().String(), ext)

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to read file.")
		return "", err
	}

	ctx := r.Context()
	if err := u.storage.Upload(ctx, s3Key, contentType, bytes.NewReader(fileBytes), int64(len(fileBytes))); err != nil {
		slog.Error("s3 upload failed", "error", err, "key", s3Key)
		respondError(w, http.StatusInternalServerError, "Failed to upload file.")
		return "", err
	}

	url := u.storage.FileURL(s3Key)

	// Record the upload; the image is already live in S3, so a failed
	// record only costs later cleanup, not the upload itself.
	if _, err := u.mediaStore.Create(ctx, &store.Media{
		S3Key:       s3Key,
		URL:         url,
		ContentType: contentType,
		SizeBytes:   int64(len(fileBytes)),
		UploaderID:  sess.UserID,
	}); err != nil {
		slog.Warn("media record insert failed", "error", err, "key", s3Key)
	}

	return url, nil
}

// cleanup deletes an uploaded object and its media record by public URL.
// Best-effort, used when a post referencing the image is deleted.
func (u *Uploads) cleanup(r *http.Request, url string) {
	ctx := r.Context()

	key, ok := u.storage.ExtractS3Key(url)
	if !ok {
		return // external image, nothing to clean
	}
	if err := u.storage.Delete(ctx, key); err != nil {
		slog.Warn("s3 delete failed", "error", err, "key", key)
	}
	if m, err := u.mediaStore.FindByURL(ctx, url); err == nil && m != nil {
		if err := u.mediaStore.Delete(ctx, m.ID); err != nil {
			slog.Warn("media record delete failed", "error", err, "id", m.ID)
		}
	}
}

// extensionFromType returns a file extension for known MIME types.
func extensionFromType(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
