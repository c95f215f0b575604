package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dgallion1/tldr/internal/config"
	"github.com/dgallion1/tldr/internal/doctree"
	"github.com/dgallion1/tldr/internal/widget"
)

type analyzeRequest struct {
	Text    string          `json:"text"`
	Options json.RawMessage `json:"options,omitempty"`
}

type analyzeResponse struct {
	Markup   string    `json:"markup"`
	Controls string    `json:"controls"`
	Raw      [3]int    `json:"raw_words"`
	Net      [3]int    `json:"net_words"`
	Total    int       `json:"total_words"`
	Reading  [3]string `json:"reading"`
	Segments [3]int    `json:"segments"`
}

// handleAnalyze parses marked-up text and returns region markup, counts and
// reading times. Options, when given, are merged over the service defaults.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	opts := s.orchestrator.Options()
	if len(req.Options) > 0 && string(req.Options) != "null" {
		var err error
		opts, err = config.MergeOptions(opts, req.Options)
		if errors.Is(err, config.ErrInvalidOptions) {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err != nil {
			jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}

	a := widget.Analyze(req.Text, opts)
	resp := analyzeResponse{
		Markup:   a.Markup,
		Controls: widget.Buttons(opts, a.Reading),
		Raw:      a.Counts.Raw,
		Net:      a.Counts.Net,
		Total:    a.Counts.Total,
		Reading:  a.Reading,
	}
	for _, l := range doctree.Levels {
		resp.Segments[l-1] = len(a.Tree.MatchesFor(l))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
