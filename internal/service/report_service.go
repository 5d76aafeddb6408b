package service

import (
	"context"
	"fmt"
	"time"

	"invoicing/internal/model"

	"gorm.io/gorm"
)

// --- DTOs ---

// MonthlyReportRow is the reduced field set the spreadsheet export consumes.
type MonthlyReportRow struct {
	InvoiceNo   string `json:"invoice_no"`
	InvoiceDate string `json:"invoice_date"`
	BuyerName   string `json:"buyer_name"`
	BuyerGSTIN  string `json:"buyer_gstin"`
	Subtotal    string `json:"subtotal"`
	CgstAmount  string `json:"cgst_amount"`
	SgstAmount  string `json:"sgst_amount"`
	IgstAmount  string `json:"igst_amount"`
	Discount    string `json:"discount"`
	Total       string `json:"total"`
	Status      string `json:"status"`
}

type MonthlyReport struct {
	Month string             `json:"month"`
	Count int                `json:"count"`
	Rows  []MonthlyReportRow `json:"rows"`
}

// --- Interface ---

type ReportService interface {
	GetMonthlyReport(ctx context.Context, month string) (MonthlyReport, error)
}

type reportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) ReportService {
	return &reportService{db: db}
}

// --- Implementation ---

// GetMonthlyReport returns every non-archived invoice of the given month
// (YYYY-MM), unpaginated, sorted by buyer name then date.
func (s *reportService) GetMonthlyReport(ctx context.Context, month string) (MonthlyReport, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return MonthlyReport{}, fmt.Errorf("invalid month, expected YYYY-MM: %w", err)
	}
	end := start.AddDate(0, 1, 0)

	query := `
		SELECT
			i.invoice_no,
			TO_CHAR(i.invoice_date, 'YYYY-MM-DD') AS invoice_date,
			i.buyer_name,
			i.buyer_gstin,
			i.subtotal,
			i.cgst_amount,
			i.sgst_amount,
			i.igst_amount,
			i.discount,
			i.total,
			i.status
		FROM invoices i
		WHERE i.status <> $1
		  AND i.invoice_date >= $2
		  AND i.invoice_date < $3
		ORDER BY i.buyer_name ASC, i.invoice_date ASC
	`

	type rawRow struct {
		InvoiceNo   string  `gorm:"column:invoice_no"`
		InvoiceDate string  `gorm:"column:invoice_date"`
		BuyerName   string  `gorm:"column:buyer_name"`
		BuyerGSTIN  string  `gorm:"column:buyer_gstin"`
		Subtotal    float64 `gorm:"column:subtotal"`
		CgstAmount  float64 `gorm:"column:cgst_amount"`
		SgstAmount  float64 `gorm:"column:sgst_amount"`
		IgstAmount  float64 `gorm:"column:igst_amount"`
		Discount    float64 `gorm:"column:discount"`
		Total       float64 `gorm:"column:total"`
		Status      string  `gorm:"column:status"`
	}

	var rows []rawRow
	if err := s.db.WithContext(ctx).Raw(query, model.StatusArchived, start, end).Scan(&rows).Error; err != nil {
		return MonthlyReport{}, fmt.Errorf("failed to query monthly report: %w", err)
	}

	report := MonthlyReport{
		Month: month,
		Count: len(rows),
		Rows:  make([]MonthlyReportRow, 0, len(rows)),
	}
	for _, r := range rows {
		report.Rows = append(report.Rows, MonthlyReportRow{
			InvoiceNo:   r.InvoiceNo,
			InvoiceDate: r.InvoiceDate,
			BuyerName:   r.BuyerName,
			BuyerGSTIN:  r.BuyerGSTIN,
			Subtotal:    fmt.Sprintf("%.2f", r.Subtotal),
			CgstAmount:  fmt.Sprintf("%.2f", r.CgstAmount),
			SgstAmount:  fmt.Sprintf("%.2f", r.SgstAmount),
			IgstAmount:  fmt.Sprintf("%.2f", r.IgstAmount),
			Discount:    fmt.Sprintf("%.2f", r.Discount),
			Total:       fmt.Sprintf("%.2f", r.Total),
			Status:      r.Status,
		})
	}

	return report, nil
}
