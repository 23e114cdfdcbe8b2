package httpapi

import (
	"net/http"
	"sort"

	"tourbook/internal/api"
	"tourbook/internal/workflow"
)

type statusInfo struct {
	Status       workflow.Status   `json:"status"`
	Family       string            `json:"family"`
	Next         []workflow.Status `json:"next"`
	CanEditPrice bool              `json:"canEditPrice"`
	PriceLocked  bool              `json:"priceLocked"`
	Terminal     bool              `json:"terminal"`
}

// TransitionTable serves the authoritative rule table read-only. Browser
// clients render buttons from this instead of embedding their own copy of
// the rules, so the advisory and authoritative views cannot drift. Every
// mutation is still re-validated server-side regardless of what a client
// decided to show.
func TransitionTable(w http.ResponseWriter, r *http.Request) {
	statuses := make([]statusInfo, 0, len(workflow.AllStatuses))
	for _, s := range workflow.AllStatuses {
		next := make([]workflow.Status, 0, 4)
		for t := range workflow.AllowedNext(s) {
			next = append(next, t)
		}
		sort.Slice(next, func(i, j int) bool { return next[i] < next[j] })

		statuses = append(statuses, statusInfo{
			Status:       s,
			Family:       family(s),
			Next:         next,
			CanEditPrice: workflow.CanEditPrice(s),
			PriceLocked:  workflow.IsPriceLocked(s),
			Terminal:     s.IsTerminal(),
		})
	}

	api.WriteJSON(w, http.StatusOK, map[string]any{"statuses": statuses})
}

func family(s workflow.Status) string {
	switch {
	case s.IsPrePayment():
		return "pre_payment"
	case s.IsPostPayment():
		return "post_payment"
	default:
		return "terminal"
	}
}
