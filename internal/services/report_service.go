package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"church-backend/internal/models"
	"church-backend/internal/repositories"
	"church-backend/internal/timeutil"

	"github.com/jung-kurt/gofpdf/v2"
)

// VisitorReportData holds all data for a single-visitor report
type VisitorReportData struct {
	Visitor     *models.Visitor
	Visits      []*models.VisitRecord
	SuccessRate float64
	AtRisk      bool
	Eligible    bool
}

// ReportService generates PDF and CSV exports for the secretary dashboard
type ReportService struct {
	VisitorRepo *repositories.VisitorRepository
}

func NewReportService(visitorRepo *repositories.VisitorRepository) *ReportService {
	return &ReportService{VisitorRepo: visitorRepo}
}

// GetVisitorReportData fetches everything the single-visitor report shows
func (s *ReportService) GetVisitorReportData(ctx context.Context, visitorID int) (*VisitorReportData, error) {
	visitor, err := s.VisitorRepo.Get(ctx, visitorID)
	if err != nil {
		return nil, err
	}
	if visitor == nil {
		return nil, fmt.Errorf("visitor %d: %w", visitorID, repositories.ErrVisitorNotFound)
	}

	visits, err := s.VisitorRepo.VisitHistory(ctx, visitorID)
	if err != nil {
		return nil, err
	}

	now := timeutil.Now()
	return &VisitorReportData{
		Visitor:     visitor,
		Visits:      visits,
		SuccessRate: ContactSuccessRate(visitor),
		AtRisk:      IsAtRisk(visitor, DefaultAtRiskDays, now),
		Eligible:    IsEligibleForConversion(visitor, DefaultMinVisitsForConversion),
	}, nil
}

// GenerateVisitorPDF generates a PDF for a single visitor
func (s *ReportService) GenerateVisitorPDF(data *VisitorReportData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Visitor Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", timeutil.Now().Format(timeutil.DisplayLayout)), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	v := data.Visitor

	// Profile box
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Profile", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Name: %s", v.Name), "LB", 0, "L", false, 0, "")
	phone := "-"
	if v.Phone != nil {
		phone = *v.Phone
	}
	pdf.CellFormat(95, 7, fmt.Sprintf("Phone: %s", phone), "RB", 1, "L", false, 0, "")
	email := "-"
	if v.Email != nil {
		email = *v.Email
	}
	pdf.CellFormat(95, 7, fmt.Sprintf("Email: %s", email), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Status: %s", v.Status), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("First visit: %s", v.FirstVisitDate.Format(timeutil.DateLayout)), "LB", 0, "L", false, 0, "")
	lastVisit := "-"
	if v.LastVisitDate != nil {
		lastVisit = v.LastVisitDate.Format(timeutil.DateLayout)
	}
	pdf.CellFormat(95, 7, fmt.Sprintf("Last visit: %s", lastVisit), "RB", 1, "L", false, 0, "")
	pdf.Ln(5)

	// Follow-up summary
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Follow-up", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(63, 8, fmt.Sprintf("Visits: %d", v.TotalVisits), "1", 0, "C", false, 0, "")
	pdf.CellFormat(63, 8, fmt.Sprintf("Attempts: %d", len(v.ContactAttempts)), "1", 0, "C", false, 0, "")
	pdf.CellFormat(64, 8, fmt.Sprintf("Contact success: %.0f%%", data.SuccessRate), "1", 1, "C", false, 0, "")

	if data.Eligible {
		pdf.SetFillColor(200, 255, 200)
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(190, 9, "ELIGIBLE FOR MEMBERSHIP", "1", 1, "C", true, 0, "")
	} else if data.AtRisk {
		pdf.SetFillColor(255, 200, 200)
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(190, 9, "AT RISK - NO RECENT VISIT", "1", 1, "C", true, 0, "")
	}
	pdf.Ln(5)

	// Visit history
	if len(data.Visits) > 0 {
		pdf.SetFillColor(240, 240, 240)
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(190, 8, "Visit History", "1", 1, "L", true, 0, "")

		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(200, 200, 200)
		pdf.CellFormat(50, 7, "Date", "1", 0, "C", true, 0, "")
		pdf.CellFormat(60, 7, "Service", "1", 0, "C", true, 0, "")
		pdf.CellFormat(80, 7, "Notes", "1", 1, "C", true, 0, "")

		pdf.SetFont("Arial", "", 10)
		for _, rec := range data.Visits {
			pdf.CellFormat(50, 6, rec.VisitDate.Format(timeutil.DateLayout), "1", 0, "C", false, 0, "")
			pdf.CellFormat(60, 6, string(rec.Service), "1", 0, "C", false, 0, "")
			notes := ""
			if rec.Notes != nil {
				notes = *rec.Notes
			}
			if len(notes) > 40 {
				notes = notes[:37] + "..."
			}
			pdf.CellFormat(80, 6, notes, "1", 1, "L", false, 0, "")
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateMonthlySummaryPDF renders the dashboard aggregates as a one-page PDF
func (s *ReportService) GenerateMonthlySummaryPDF(stats *models.VisitorStats, month time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, "Visitors - Monthly Summary", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, month.Format("January 2006"), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	rows := []struct {
		label string
		value string
	}{
		{"Total visitors", strconv.Itoa(stats.TotalVisitors)},
		{"New this month", strconv.Itoa(stats.NewThisMonth)},
		{"Active", strconv.Itoa(stats.ActiveVisitors)},
		{"Converted to members", strconv.Itoa(stats.ConvertedToMembers)},
		{"Pending follow-up", strconv.Itoa(stats.PendingFollowUp)},
		{"Average visits per visitor", fmt.Sprintf("%.2f", stats.AverageVisitsPerVisitor)},
		{"Retention rate", fmt.Sprintf("%.2f%%", stats.RetentionRate)},
		{"Conversion rate", fmt.Sprintf("%.2f%%", stats.ConversionRate)},
	}

	pdf.SetFont("Arial", "", 11)
	for _, row := range rows {
		pdf.CellFormat(120, 8, row.label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(70, 8, row.value, "1", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateVisitorsCSV exports the full visitor set as CSV
func (s *ReportService) GenerateVisitorsCSV(ctx context.Context) ([]byte, error) {
	visitors, err := s.VisitorRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"id", "name", "email", "phone", "status", "follow_up_status",
		"first_visit_date", "last_visit_date", "total_visits", "is_member", "member_id", "created_at"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, v := range visitors {
		lastVisit := ""
		if v.LastVisitDate != nil {
			lastVisit = v.LastVisitDate.Format(timeutil.DateLayout)
		}
		memberID := ""
		if v.MemberID != nil {
			memberID = *v.MemberID
		}
		row := []string{
			strconv.Itoa(v.ID),
			v.Name,
			deref(v.Email),
			deref(v.Phone),
			string(v.Status),
			string(v.FollowUpStatus),
			v.FirstVisitDate.Format(timeutil.DateLayout),
			lastVisit,
			strconv.Itoa(v.TotalVisits),
			strconv.FormatBool(v.IsMember),
			memberID,
			v.CreatedAt.Format(timeutil.DateTimeLayout),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
