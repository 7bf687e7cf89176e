// Package pages serves the HTML front-end and its static assets from an
// fs.FS (normally the embedded web.Public).
package pages

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"strings"
)

const indexPage = "index.html"

// Pages serves files out of a read-only file system.
type Pages struct {
	files fs.FS
}

// New roots Pages at dir inside files and checks that index.html exists,
// since every unknown path falls back to it.
func New(files fs.FS, dir string) (*Pages, error) {
	sub, err := fs.Sub(files, dir)
	if err != nil {
		return nil, fmt.Errorf("pages.New: %w", err)
	}
	if _, err := fs.Stat(sub, indexPage); err != nil {
		return nil, fmt.Errorf("pages.New: %s: %w", indexPage, err)
	}
	return &Pages{files: sub}, nil
}

// Page returns a handler that always serves the named page, e.g. "animals"
// serves animals.html.
func (p *Pages) Page(name string) http.HandlerFunc {
	file := name + ".html"
	return func(w http.ResponseWriter, r *http.Request) {
		p.serve(w, file)
	}
}

// Fallback serves the asset at the request path if one exists, otherwise
// the home page. Register it on "GET /" so it catches every path no other
// route claims.
func (p *Pages) Fallback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
		if name != "" && fs.ValidPath(name) {
			if info, err := fs.Stat(p.files, name); err == nil && !info.IsDir() {
				p.serve(w, name)
				return
			}
		}
		p.serve(w, indexPage)
	}
}

func (p *Pages) serve(w http.ResponseWriter, name string) {
	data, err := fs.ReadFile(p.files, name)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, fs.ErrNotExist) {
			status = http.StatusNotFound
		}
		slog.Error("error serving page", slog.String("file", name), slog.String("error", err.Error()))
		http.Error(w, http.StatusText(status), status)
		return
	}

	contentType := mime.TypeByExtension(path.Ext(name))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
