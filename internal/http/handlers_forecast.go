package http

import (
	"net/http"

	"bilancio/internal/core"
	"bilancio/internal/forecast"
	"bilancio/internal/schedule"
)

type occurrenceResponse struct {
	ObligationID int64  `json:"obligationId"`
	Label        string `json:"label"`
	SubCategory  string `json:"subCategoryLabel,omitempty"`
	DueDate      string `json:"dueDate"`
	SignedAmount string `json:"signedAmount"`
	IsOverdue    bool   `json:"isOverdue"`
}

func toOccurrenceResponses(occs []schedule.Occurrence) []occurrenceResponse {
	out := make([]occurrenceResponse, 0, len(occs))
	for _, occ := range occs {
		out = append(out, occurrenceResponse{
			ObligationID: occ.ObligationID,
			Label:        occ.Label,
			SubCategory:  occ.SubCategory,
			DueDate:      occ.DueDate.ISO(),
			SignedAmount: core.FormatCents(occ.SignedCents),
			IsOverdue:    occ.IsOverdue,
		})
	}
	return out
}

type scheduleResponse struct {
	AccountID int64                `json:"accountId"`
	AsOf      string               `json:"asOf"`
	Schedule  []occurrenceResponse `json:"schedule"`
	Warnings  []schedule.Warning   `json:"warnings,omitempty"`
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	accountID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	today, err := s.queryDate(r)
	if err != nil {
		writeError(w, err)
		return
	}

	snap, err := s.store.LoadSnapshot(r.Context(), accountID, today)
	if err != nil {
		writeError(w, err)
		return
	}

	occs, warnings := schedule.Build(accountID, snap.Obligations, snap.Transactions, today, true)
	writeJSON(w, http.StatusOK, scheduleResponse{
		AccountID: accountID,
		AsOf:      today.ISO(),
		Schedule:  toOccurrenceResponses(occs),
		Warnings:  warnings,
	})
}

type forecastResponse struct {
	AccountID       int64                `json:"accountId"`
	AsOf            string               `json:"asOf"`
	Current         string               `json:"current"`
	Forecast        string               `json:"forecast"`
	LowestNextMonth string               `json:"lowestNextMonth,omitempty"`
	Schedule        []occurrenceResponse `json:"schedule"`
	Warnings        []schedule.Warning   `json:"warnings,omitempty"`
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	accountID, err := pathID(r, "id")
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	today, err := s.queryDate(r)
	if err != nil {
		writeError(w, err)
		return
	}

	res, err := s.forecastFor(r, accountID, today)
	if err != nil {
		if s.metrics != nil {
			s.metrics.ForecastComputed("error")
		}
		writeError(w, err)
		return
	}
	if s.metrics != nil {
		s.metrics.ForecastComputed("ok")
		s.metrics.ScheduleWarnings(len(res.Warnings))
	}

	out := forecastResponse{
		AccountID: accountID,
		AsOf:      today.ISO(),
		Current:   core.FormatCents(res.CurrentCents),
		Forecast:  core.FormatCents(res.ForecastCents),
		Schedule:  toOccurrenceResponses(res.Schedule),
		Warnings:  res.Warnings,
	}
	// Zero means "no warning", not a projected balance of zero.
	if res.LowestNextMonthCents < 0 {
		out.LowestNextMonth = core.FormatCents(res.LowestNextMonthCents)
	}
	writeJSON(w, http.StatusOK, out)
}

// forecastFor serves the forecast from the per-account cache when the
// cached entry was computed for the same calendar day.
func (s *Server) forecastFor(r *http.Request, accountID int64, today core.Date) (forecast.Result, error) {
	key := cacheKey(accountID)
	if cached, ok := s.forecastCache.Get(key); ok && cached.date == today.ISO() {
		if s.metrics != nil {
			s.metrics.ForecastCacheHit()
		}
		return cached.result, nil
	}
	if s.metrics != nil {
		s.metrics.ForecastCacheMiss()
	}

	snap, err := s.store.LoadSnapshot(r.Context(), accountID, today)
	if err != nil {
		return forecast.Result{}, err
	}
	res, err := forecast.Compute(snap)
	if err != nil {
		return forecast.Result{}, err
	}

	s.forecastCache.Set(key, cachedForecast{date: today.ISO(), result: res})
	return res, nil
}
