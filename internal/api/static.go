package api

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"strings"
)

//go:embed public
var embeddedUI embed.FS

// uiFS returns the front-end file tree: dir when configured, otherwise the
// page compiled into the binary.
func uiFS(dir string) (fs.FS, error) {
	if dir == "" {
		return fs.Sub(embeddedUI, "public")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("ui static dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("ui static dir %s is not a directory", dir)
	}
	return os.DirFS(dir), nil
}

// spaHandler serves files that exist in ui and answers every other path with
// index.html so client-side routes survive a reload.
func spaHandler(ui fs.FS) http.Handler {
	fileServer := http.FileServer(http.FS(ui))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
		if name != "" && name != "index.html" {
			if info, err := fs.Stat(ui, name); err == nil && !info.IsDir() {
				fileServer.ServeHTTP(w, r)
				return
			}
		}
		serveIndex(w, r, ui)
	})
}

func serveIndex(w http.ResponseWriter, r *http.Request, ui fs.FS) {
	page, err := fs.ReadFile(ui, "index.html")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(page)
	}
}
