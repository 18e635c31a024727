package middleware

import (
	"net/http"
	"os"
	"path/filepath"
)

// UploadsFileServer serves stored uploads (laporan photos, kas bulanan
// PDFs) from dir. Paths are cleaned before hitting the filesystem.
func UploadsFileServer(dir string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := filepath.Join(dir, filepath.Clean("/"+r.URL.Path))

		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Cache-Control", "public, max-age=86400")
		http.ServeFile(w, r, path)
	})
}
