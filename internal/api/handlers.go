package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"roulette/internal/jobs"
	"roulette/internal/logging"
	"roulette/internal/movies"
	"roulette/internal/services"
)

const maxBodyBytes = 1 << 16

func (s *Server) handleGenres(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.picker.Genres(r.Context()))
}

func (s *Server) handleRandom(w http.ResponseWriter, r *http.Request) {
	var filter movies.Filter
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&filter); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, http.StatusBadRequest, "invalid filter: "+err.Error())
		return
	}
	sessionID, _ := services.SessionIDFromContext(r.Context())
	result, err := s.picker.PickFor(r.Context(), sessionID, filter)
	if err != nil {
		status := services.HTTPStatus(err)
		switch status {
		case http.StatusNotFound:
			s.writeError(w, status, "no movies match the given filters")
		case http.StatusBadRequest:
			s.writeError(w, status, err.Error())
		default:
			logging.ErrorWithContext(r.Context(), s.logger, "random pick failed", "pick_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check the record store"),
			)
			s.writeError(w, status, "pick failed")
		}
		return
	}
	s.writeJSON(w, http.StatusOK, MovieResponse{Record: result.Record, Fallback: result.Fallback})
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	sessionID, _ := services.SessionIDFromContext(r.Context())
	recent := s.sessions.Recent(sessionID)
	if recent == nil {
		recent = []movies.Summary{}
	}
	s.writeJSON(w, http.StatusOK, recent)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.records.Stats(r.Context())
	if err != nil {
		logging.ErrorWithContext(r.Context(), s.logger, "stats query failed", "stats_failed", logging.Error(err))
		s.writeError(w, services.HTTPStatus(err), "stats unavailable")
		return
	}
	s.writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	count, err := s.records.Count(r.Context())
	if err != nil {
		logging.ErrorWithContext(r.Context(), s.logger, "count query failed", "status_failed", logging.Error(err))
		s.writeError(w, services.HTTPStatus(err), "status unavailable")
		return
	}
	s.writeJSON(w, http.StatusOK, StatusResponse{
		Records:    count,
		JobRunning: s.jobs.Running(),
		LastJobs:   s.jobs.Last(),
		Sessions:   s.sessions.Len(),
		Store:      s.records.Driver(),
	})
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	s.handleJob(w, r, jobs.KindImport)
}

func (s *Server) handleRefreshStale(w http.ResponseWriter, r *http.Request) {
	s.handleJob(w, r, jobs.KindRefresh)
}

func (s *Server) handleJob(w http.ResponseWriter, r *http.Request, kind jobs.Kind) {
	if wait, _ := strconv.ParseBool(r.URL.Query().Get("wait")); wait {
		var (
			result jobs.Result
			err    error
		)
		if kind == jobs.KindImport {
			result, err = s.jobs.RunImport(r.Context())
		} else {
			result, err = s.jobs.RunRefresh(r.Context())
		}
		if errors.Is(err, jobs.ErrBusy) {
			s.writeError(w, http.StatusConflict, err.Error())
			return
		}
		if err != nil {
			s.writeError(w, services.HTTPStatus(err), err.Error())
			return
		}
		total, _ := s.records.Count(r.Context())
		s.writeJSON(w, http.StatusOK, JobResponse{Result: result, Total: total})
		return
	}

	var accepted bool
	if kind == jobs.KindImport {
		accepted = s.jobs.SubmitImport()
	} else {
		accepted = s.jobs.SubmitRefresh()
	}
	s.writeJSON(w, http.StatusAccepted, AcceptedResponse{Accepted: accepted, Kind: string(kind)})
}
