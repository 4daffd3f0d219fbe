// Package web serves the embedded dashboard page.
package web

import (
	"embed"
	"net/http"
)

//go:embed static/index.html
var static embed.FS

// Dashboard serves the single-page dashboard.
func Dashboard(w http.ResponseWriter, r *http.Request) {
	page, err := static.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, "dashboard unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}
