package api

import (
	"fmt"
	"net/http"
	"strconv"

	"marcador/internal/models"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	historyFilename = "historial_partidos.xlsx"
)

func (h *Handler) kpis(w http.ResponseWriter, r *http.Request) {
	kpis, err := h.services.DashboardService.KPIs(r.Context())
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, kpisResponse{
		Teams:            kpis.ActiveTeams,
		Players:          kpis.ActivePlayers,
		ScheduledMatches: kpis.ScheduledMatches,
	}, h.log)
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.services.DashboardService.Dashboard(r.Context())
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, summary, h.log)
}

func (h *Handler) monthlyStats(w http.ResponseWriter, r *http.Request) {
	year := 0
	if raw := r.URL.Query().Get("anio"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, models.InvalidArgument("invalid anio %q", raw), h.log)
			return
		}
		year = parsed
	}

	stats, err := h.services.DashboardService.MonthlyStats(r.Context(), year)
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, stats, h.log)
}

func (h *Handler) exportHistory(w http.ResponseWriter, r *http.Request) {
	data, err := h.services.ReportService.ExportHistory(r.Context())
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", historyFilename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.log.Warn("failed to write history export: %v", err)
	}
}

func (h *Handler) syncHistory(w http.ResponseWriter, r *http.Request) {
	url, err := h.services.ReportService.SyncHistorySheet(r.Context())
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}
	writeJSON(w, http.StatusOK, syncResponse{URL: url}, h.log)
}
