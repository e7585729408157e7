package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/scenesmith/scenesmith/internal/config"
	"github.com/scenesmith/scenesmith/internal/log"
)

// TorrustUploader publishes torrents to a Torrust tracker index.
type TorrustUploader struct {
	cfg  config.Torrust
	http *http.Client
}

// NewTorrust creates an uploader for one Torrust endpoint.
func NewTorrust(cfg config.Torrust) *TorrustUploader {
	return &TorrustUploader{
		cfg:  cfg,
		http: &http.Client{Timeout: 2 * time.Minute},
	}
}

func (t *TorrustUploader) uploadURL() string {
	return strings.TrimRight(t.cfg.APIBase, "/") + "/torrent/upload"
}

func (t *TorrustUploader) category(kind ContentKind) string {
	switch kind {
	case KindTV:
		if t.cfg.TVCategory != "" {
			return t.cfg.TVCategory
		}
		return "tv"
	default:
		if t.cfg.MoviesCategory != "" {
			return t.cfg.MoviesCategory
		}
		return "movies"
	}
}

func (t *TorrustUploader) tagsJSON() string {
	if len(t.cfg.Tags) == 0 {
		return "[]"
	}
	data, err := json.Marshal(t.cfg.Tags)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// UploadTorrent sends one torrent as a multipart form. A 409 response
// reporting the infohash already exists counts as success so reruns stay
// idempotent.
func (t *TorrustUploader) UploadTorrent(ctx context.Context, req Request) error {
	logger := log.WithComponent("upload")

	torrentBytes, err := os.ReadFile(req.TorrentPath)
	if err != nil {
		return fmt.Errorf("read torrent file %s: %w", req.TorrentPath, err)
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	if err := form.WriteField("title", req.Title); err != nil {
		return fmt.Errorf("build form: %w", err)
	}
	if err := form.WriteField("description", req.DescriptionMarkdown); err != nil {
		return fmt.Errorf("build form: %w", err)
	}
	if err := form.WriteField("category", t.category(req.Kind)); err != nil {
		return fmt.Errorf("build form: %w", err)
	}
	if err := form.WriteField("tags", t.tagsJSON()); err != nil {
		return fmt.Errorf("build form: %w", err)
	}

	part, err := createTorrentPart(form, filepath.Base(req.TorrentPath))
	if err != nil {
		return fmt.Errorf("build form: %w", err)
	}
	if _, err := part.Write(torrentBytes); err != nil {
		return fmt.Errorf("build form: %w", err)
	}
	if err := form.Close(); err != nil {
		return fmt.Errorf("build form: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.uploadURL(), &body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "ApiKey "+t.cfg.APIKey)
	httpReq.Header.Set("Content-Type", form.FormDataContentType())

	logger.Info().Str("url", t.uploadURL()).Str("title", req.Title).Msg("uploading torrent to torrust")
	resp, err := t.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("torrust upload: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 16384))

	if resp.StatusCode == http.StatusConflict {
		lower := strings.ToLower(string(respBody))
		if strings.Contains(lower, "infohash") && strings.Contains(lower, "already exists") {
			logger.Info().Str("title", req.Title).Msg("torrent already on tracker, skipping")
			return nil
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("torrust upload failed: HTTP %d body=%s", resp.StatusCode, respBody)
	}
	return nil
}

func createTorrentPart(form *multipart.Writer, fileName string) (io.Writer, error) {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="torrent"; filename="%s"`, fileName))
	header.Set("Content-Type", "application/x-bittorrent")
	return form.CreatePart(header)
}
