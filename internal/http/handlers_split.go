package http

import (
	"net/http"

	"bilancio/internal/core"
	"bilancio/internal/split"
)

type splitPartnerRequest struct {
	Name   string `json:"name"`
	Income string `json:"income"`
}

type splitRequest struct {
	Total    string              `json:"total"`
	Partners [2]splitPartnerRequest `json:"partners"`
}

type splitShareResponse struct {
	Name  string `json:"name"`
	Owes  string `json:"owes"`
	Ratio string `json:"ratio"`
}

type splitResponse struct {
	Total  string               `json:"total"`
	Shares [2]splitShareResponse `json:"shares"`
}

func (s *Server) handleSplit(w http.ResponseWriter, r *http.Request) {
	var req splitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	total, err := core.ParseDecimalToCents(req.Total)
	if err != nil {
		writeBadRequest(w, "invalid total")
		return
	}

	partners := [2]split.Partner{}
	for i, p := range req.Partners {
		// A partner with no income is fine; the other carries the expense.
		income := int64(0)
		if p.Income != "" {
			income, err = core.ParseSignedDecimalToCents(p.Income)
			if err != nil || income < 0 {
				writeBadRequest(w, "invalid income")
				return
			}
		}
		partners[i] = split.Partner{Name: p.Name, Income: core.Money{Cents: income}}
	}

	shareA, shareB, err := split.Proportional(core.Money{Cents: total}, partners[0], partners[1])
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, splitResponse{
		Total: core.FormatCents(total),
		Shares: [2]splitShareResponse{
			{Name: shareA.Name, Owes: core.FormatCents(shareA.Owes.Cents), Ratio: shareA.Ratio.String()},
			{Name: shareB.Name, Owes: core.FormatCents(shareB.Owes.Cents), Ratio: shareB.Ratio.String()},
		},
	})
}
