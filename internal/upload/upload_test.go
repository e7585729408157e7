package upload

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/scenesmith/scenesmith/internal/config"
	"github.com/scenesmith/scenesmith/internal/naming"
)

type recordingUploader struct {
	requests []Request
	err      error
}

func (r *recordingUploader) UploadTorrent(ctx context.Context, req Request) error {
	r.requests = append(r.requests, req)
	return r.err
}

func TestServiceDisabledIgnoresUploads(t *testing.T) {
	s := Disabled()
	err := s.UploadMovieTorrent(context.Background(), "Dune", 2021, "", "", "Dune.2021", naming.TechnicalInfo{}, "/tmp/x.torrent")
	if err != nil {
		t.Errorf("disabled upload = %v, want nil", err)
	}
	if s.Enabled() {
		t.Error("Disabled().Enabled() = true")
	}
}

func TestServiceDryRunSkips(t *testing.T) {
	rec := &recordingUploader{}
	s := &Service{enabled: true, dryRun: true, uploaders: []TrackerUploader{rec}}

	if err := s.UploadMovieTorrent(context.Background(), "Dune", 2021, "", "", "Dune.2021", naming.TechnicalInfo{}, "x.torrent"); err != nil {
		t.Fatal(err)
	}
	if len(rec.requests) != 0 {
		t.Errorf("dry run sent %d uploads, want 0", len(rec.requests))
	}
	if s.Enabled() {
		t.Error("Enabled() = true with dry run set")
	}
}

func TestServiceFansOutAndReportsError(t *testing.T) {
	ok := &recordingUploader{}
	failing := &recordingUploader{err: errors.New("boom")}
	s := &Service{enabled: true, uploaders: []TrackerUploader{failing, ok}}

	err := s.UploadEpisodeTorrent(context.Background(), "Dark", "S01 Complete", "", "", "Dark.S01", naming.TechnicalInfo{}, "x.torrent")
	if err == nil {
		t.Error("error from failing uploader not propagated")
	}
	if len(ok.requests) != 1 {
		t.Errorf("second uploader got %d requests, want 1 (fan-out continues past failures)", len(ok.requests))
	}
	if ok.requests[0].Kind != KindTV {
		t.Errorf("Kind = %v, want KindTV", ok.requests[0].Kind)
	}
}

func TestFromConfig(t *testing.T) {
	s := FromConfig(config.Upload{})
	if s.Enabled() {
		t.Error("FromConfig(empty).Enabled() = true, want false")
	}

	s = FromConfig(config.Upload{Torrust: config.Torrust{
		Enable:  true,
		APIBase: "http://torrust:3001/v1",
		APIKey:  "k",
	}})
	if !s.Enabled() {
		t.Error("FromConfig(torrust enabled).Enabled() = false, want true")
	}
}

func TestBuildMarkdown(t *testing.T) {
	tech := naming.TechnicalInfo{
		Resolution:     "1080p",
		VideoCodec:     "x265",
		HDR:            true,
		AudioLanguages: []string{"fr", "en"},
	}
	md := BuildMarkdown("Dune", 2021, "http://img/p.jpg", "Desert planet.", "Dune.2021.1080p.WEB.x265-GRP", tech)

	for _, fragment := range []string{
		"![cover](http://img/p.jpg)",
		"# Dune (2021)",
		"Desert planet.",
		"`Dune.2021.1080p.WEB.x265-GRP`",
		"| Resolution | 1080p |",
		"| HDR | yes |",
		"| Audio languages | fr, en |",
	} {
		if !strings.Contains(md, fragment) {
			t.Errorf("markdown missing %q:\n%s", fragment, md)
		}
	}
}

func TestBuildSeriesMarkdown(t *testing.T) {
	md := BuildSeriesMarkdown("Dark", "S01 Complete", "", "", "Dark.S01.1080p.WEB.x264", naming.TechnicalInfo{})
	if !strings.Contains(md, "# Dark") || !strings.Contains(md, "## S01 Complete") {
		t.Errorf("series markdown missing headings:\n%s", md)
	}
}

func writeTorrentFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "x.torrent")
	if err := os.WriteFile(path, []byte("d8:announce0:e"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTorrustUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/torrent/upload" {
			t.Errorf("path = %q, want /v1/torrent/upload", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "ApiKey secret" {
			t.Errorf("Authorization = %q, want ApiKey secret", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("title"); got != "Dune.2021" {
			t.Errorf("title = %q, want Dune.2021", got)
		}
		if got := r.FormValue("category"); got != "films" {
			t.Errorf("category = %q, want films", got)
		}
		if got := r.FormValue("tags"); got != `["french"]` {
			t.Errorf("tags = %q, want [\"french\"]", got)
		}
		if _, header, err := r.FormFile("torrent"); err != nil {
			t.Errorf("torrent part missing: %v", err)
		} else if header.Header.Get("Content-Type") != "application/x-bittorrent" {
			t.Errorf("torrent content type = %q", header.Header.Get("Content-Type"))
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	uploader := NewTorrust(config.Torrust{
		APIBase:        srv.URL + "/v1",
		APIKey:         "secret",
		MoviesCategory: "films",
		Tags:           []string{"french"},
	})

	err := uploader.UploadTorrent(context.Background(), Request{
		Title:               "Dune.2021",
		DescriptionMarkdown: "desc",
		TorrentPath:         writeTorrentFile(t),
		Kind:                KindMovie,
	})
	if err != nil {
		t.Fatalf("UploadTorrent() = %v", err)
	}
}

func TestTorrustConflictInfohashIsSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error": "torrent infohash already exists in database"}`))
	}))
	defer srv.Close()

	uploader := NewTorrust(config.Torrust{APIBase: srv.URL, APIKey: "k"})
	err := uploader.UploadTorrent(context.Background(), Request{
		Title:       "X",
		TorrentPath: writeTorrentFile(t),
	})
	if err != nil {
		t.Errorf("409 infohash conflict = %v, want nil (idempotent)", err)
	}
}

func TestTorrustOtherConflictFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error": "title already exists"}`))
	}))
	defer srv.Close()

	uploader := NewTorrust(config.Torrust{APIBase: srv.URL, APIKey: "k"})
	err := uploader.UploadTorrent(context.Background(), Request{
		Title:       "X",
		TorrentPath: writeTorrentFile(t),
	})
	if err == nil {
		t.Error("non-infohash 409 = nil error, want error")
	}
}

func TestTorrustServerErrorFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad", http.StatusInternalServerError)
	}))
	defer srv.Close()

	uploader := NewTorrust(config.Torrust{APIBase: srv.URL, APIKey: "k"})
	err := uploader.UploadTorrent(context.Background(), Request{
		Title:       "X",
		TorrentPath: writeTorrentFile(t),
	})
	if err == nil {
		t.Error("HTTP 500 = nil error, want error")
	}
}
