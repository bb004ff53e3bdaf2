package httpapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/mmynk/housesplit/internal/calculator"
)

const dateLayout = "2006-01-02"

func (s *Server) balances(w http.ResponseWriter, r *http.Request) {
	report, err := s.ledger.Balances(r.Context(), r.PathValue("groupID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBalancesResponse(report))
}

func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
	start, end, err := parsePeriod(r, time.Now())
	if err != nil {
		writeError(w, err)
		return
	}

	summary, err := s.ledger.Summary(r.Context(), r.PathValue("groupID"), start, end)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) monthlySummary(w http.ResponseWriter, r *http.Request) {
	loc, err := parseLocation(r)
	if err != nil {
		writeError(w, err)
		return
	}

	summaries, err := s.ledger.MonthlySummaries(r.Context(), r.PathValue("groupID"), loc)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"months": summaries})
}

// parsePeriod reads the half-open date range [from, to) from the query.
// Both dates default to the calendar month containing now.
func parsePeriod(r *http.Request, now time.Time) (start, end time.Time, err error) {
	loc, err := parseLocation(r)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start, end = calculator.MonthPeriod(now.In(loc))

	q := r.URL.Query()
	if v := q.Get("from"); v != "" {
		if start, err = time.ParseInLocation(dateLayout, v, loc); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: from %q is not a YYYY-MM-DD date", calculator.ErrInvalidPeriod, v)
		}
	}
	if v := q.Get("to"); v != "" {
		if end, err = time.ParseInLocation(dateLayout, v, loc); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: to %q is not a YYYY-MM-DD date", calculator.ErrInvalidPeriod, v)
		}
	}
	return start, end, nil
}

// parseLocation reads the optional IANA tz query parameter.
func parseLocation(r *http.Request) (*time.Location, error) {
	name := r.URL.Query().Get("tz")
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown time zone %q", errBadRequest, name)
	}
	return loc, nil
}
