package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"church-backend/internal/repositories"
	"church-backend/internal/services"
	"church-backend/internal/timeutil"
	"church-backend/pkg/utils"

	"github.com/gorilla/mux"
)

type ReportHandler struct {
	Reports  *services.ReportService
	Visitors *services.VisitorService
}

func NewReportHandler(reports *services.ReportService, visitors *services.VisitorService) *ReportHandler {
	return &ReportHandler{Reports: reports, Visitors: visitors}
}

// VisitorPDF streams a single-visitor report as a PDF download
func (h *ReportHandler) VisitorPDF(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	data, err := h.Reports.GetVisitorReportData(r.Context(), id)
	if err != nil {
		if errors.Is(err, repositories.ErrVisitorNotFound) {
			utils.Error(w, http.StatusNotFound, err.Error())
			return
		}
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	pdf, err := h.Reports.GenerateVisitorPDF(data)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="visitor-%d.pdf"`, id))
	w.Write(pdf)
}

// MonthlySummaryPDF streams the dashboard aggregates as a PDF download
func (h *ReportHandler) MonthlySummaryPDF(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Visitors.GetStats(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	month := timeutil.StartOfMonth(timeutil.Now())
	pdf, err := h.Reports.GenerateMonthlySummaryPDF(stats, month)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="visitors-summary-%s.pdf"`, month.Format("2006-01")))
	w.Write(pdf)
}

// VisitorsCSV streams the full visitor set as a CSV download
func (h *ReportHandler) VisitorsCSV(w http.ResponseWriter, r *http.Request) {
	data, err := h.Reports.GenerateVisitorsCSV(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="visitors-%s.csv"`, timeutil.Now().Format(timeutil.DateLayout)))
	w.Write(data)
}
