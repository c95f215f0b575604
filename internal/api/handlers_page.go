package api

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/dgallion1/tldr/internal/render"
	"github.com/dgallion1/tldr/internal/widget"
)

// targetID is the id of the element that holds the widget on document pages.
const targetID = "tldr-content"

//go:embed templates/document.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/document.html"))

type pageData struct {
	Title        string
	TargetID     string
	Content      template.HTML
	ActiveBorder string
	SocketPath   string
}

// handleDocumentPage renders a stored document with the widget initialized
// server-side, so the page shows the default level before any script runs.
func (s *Server) handleDocumentPage(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.loadDocument(w, r)
	if !ok {
		return
	}

	opts := s.orchestrator.Options()
	page, err := render.NewDocument(targetID, doc.Markup, opts.ButtonColors.ActiveBorder)
	if err != nil {
		jsonError(w, "failed to render document: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if _, err := widget.New(page, targetID, opts, s.log.With("doc_id", doc.ID)); err != nil {
		jsonError(w, "failed to initialize widget: "+err.Error(), http.StatusInternalServerError)
		return
	}
	content, err := page.Markup(targetID)
	if err != nil {
		jsonError(w, "failed to render document: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = pageTemplate.Execute(w, pageData{
		Title:        doc.Title,
		TargetID:     targetID,
		Content:      template.HTML(content),
		ActiveBorder: opts.ButtonColors.ActiveBorder,
		SocketPath:   "/ws/documents/" + doc.ID,
	})
	if err != nil {
		s.log.Error("page template failed", "doc_id", doc.ID, "error", err)
	}
}
