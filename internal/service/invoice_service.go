package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"invoicing/internal/config"
	"invoicing/internal/model"
	"invoicing/internal/printer"
	"invoicing/internal/repository"
	"invoicing/pkg/words"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// Publisher receives serialized status-change events for connected UI clients.
type Publisher interface {
	Publish(message []byte)
}

// StatusEvent is broadcast after a status transition commits.
type StatusEvent struct {
	InvoiceID string `json:"invoice_id"`
	InvoiceNo string `json:"invoice_no"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

// --- DTOs ---

type InvoiceItemRequest struct {
	ProductID   string `json:"product_id"` // optional reference, reporting only
	Description string `json:"description" binding:"required"`
	HSN         string `json:"hsn"`
	Quantity    string `json:"quantity" binding:"required"`
	Unit        string `json:"unit"`
	Rate        string `json:"rate" binding:"required"`
}

type CreateInvoiceRequest struct {
	InvoiceNo    string `json:"invoice_no" binding:"required"`
	InvoiceDate  string `json:"invoice_date" binding:"required"` // YYYY-MM-DD
	VehicleNo    string `json:"vehicle_no"`
	BuyerID      string `json:"buyer_id"` // optional reference, reporting only
	BuyerName    string `json:"buyer_name" binding:"required"`
	BuyerAddress string `json:"buyer_address"`
	BuyerGSTIN   string `json:"buyer_gstin"`
	CgstRate     string `json:"cgst_rate"`
	SgstRate     string `json:"sgst_rate"`
	IgstRate     string `json:"igst_rate"`
	Discount     string `json:"discount"`

	Items []InvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
}

// InvoiceFilter carries the raw query-string filters for listing.
type InvoiceFilter struct {
	BuyerID   string
	ProductID string
	Number    string // case-insensitive substring of invoice_no
	Status    string // pending, paid, archived, all; empty excludes archived
	DateFrom  string // YYYY-MM-DD, inclusive
	DateTo    string // YYYY-MM-DD, inclusive (listing is exclusive at the day after)
	Page      int
	Limit     int
}

type InvoiceItemResponse struct {
	ID          string  `json:"id"`
	ProductID   *string `json:"product_id"`
	Description string  `json:"description"`
	HSN         string  `json:"hsn"`
	Quantity    string  `json:"quantity"`
	Unit        string  `json:"unit"`
	Rate        string  `json:"rate"`
	LineTotal   string  `json:"line_total"`
	Position    int     `json:"position"`
}

type InvoiceResponse struct {
	ID            string                `json:"id"`
	InvoiceNo     string                `json:"invoice_no"`
	InvoiceDate   string                `json:"invoice_date"`
	VehicleNo     string                `json:"vehicle_no"`
	BuyerID       *string               `json:"buyer_id"`
	BuyerName     string                `json:"buyer_name"`
	BuyerAddress  string                `json:"buyer_address"`
	BuyerGSTIN    string                `json:"buyer_gstin"`
	SellerName    string                `json:"seller_name"`
	SellerAddress string                `json:"seller_address"`
	SellerGSTIN   string                `json:"seller_gstin"`
	CgstRate      string                `json:"cgst_rate"`
	SgstRate      string                `json:"sgst_rate"`
	IgstRate      string                `json:"igst_rate"`
	CgstAmount    string                `json:"cgst_amount"`
	SgstAmount    string                `json:"sgst_amount"`
	IgstAmount    string                `json:"igst_amount"`
	Discount      string                `json:"discount"`
	Subtotal      string                `json:"subtotal"`
	RoundOff      string                `json:"round_off"`
	Total         string                `json:"total"`
	TotalInWords  string                `json:"total_in_words"`
	Status        string                `json:"status"`
	Items         []InvoiceItemResponse `json:"items"`
	CreatedAt     string                `json:"created_at"`
	UpdatedAt     string                `json:"updated_at"`
}

type StatusLogResponse struct {
	ID        string `json:"id"`
	InvoiceID string `json:"invoice_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
	CreatedAt string `json:"created_at"`
}

// --- Interface ---

type InvoiceService interface {
	CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (InvoiceResponse, error)
	GetInvoice(ctx context.Context, id string) (InvoiceResponse, error)
	ListInvoices(ctx context.Context, filter InvoiceFilter) ([]InvoiceResponse, int64, error)
	UpdateStatus(ctx context.Context, id string, newStatus string) (InvoiceResponse, error)
	ArchiveInvoice(ctx context.Context, id string) (InvoiceResponse, error)
	CheckNumber(ctx context.Context, number string) (bool, error)
	ListStatusLogs(ctx context.Context, id string) ([]StatusLogResponse, error)
	GetPrintLayout(ctx context.Context, id string) ([]printer.Page, error)
	RenderPDF(ctx context.Context, id string) ([]byte, string, error)
}

type invoiceService struct {
	invoiceRepo   repository.InvoiceRepository
	buyerRepo     repository.BuyerRepository
	statusLogRepo repository.StatusLogRepository
	txManager     repository.TransactionManager
	seller        config.Seller
	events        Publisher // may be nil
}

func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	buyerRepo repository.BuyerRepository,
	statusLogRepo repository.StatusLogRepository,
	txManager repository.TransactionManager,
	seller config.Seller,
	events Publisher,
) InvoiceService {
	return &invoiceService{
		invoiceRepo:   invoiceRepo,
		buyerRepo:     buyerRepo,
		statusLogRepo: statusLogRepo,
		txManager:     txManager,
		seller:        seller,
		events:        events,
	}
}

// --- Helpers ---

func parseAmount(value, field string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %w", field, err)
	}
	return d, nil
}

func parseOptionalUUID(value, field string) (*uuid.UUID, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := uuid.Parse(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", field, err)
	}
	return &parsed, nil
}

// --- Implementation ---

func (s *invoiceService) CreateInvoice(ctx context.Context, req CreateInvoiceRequest) (InvoiceResponse, error) {
	invoiceDate, err := time.Parse(dateLayout, req.InvoiceDate)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid invoice_date, expected YYYY-MM-DD: %w", err)
	}

	cgstRate, err := parseAmount(req.CgstRate, "cgst_rate")
	if err != nil {
		return InvoiceResponse{}, err
	}
	sgstRate, err := parseAmount(req.SgstRate, "sgst_rate")
	if err != nil {
		return InvoiceResponse{}, err
	}
	igstRate, err := parseAmount(req.IgstRate, "igst_rate")
	if err != nil {
		return InvoiceResponse{}, err
	}
	discount, err := parseAmount(req.Discount, "discount")
	if err != nil {
		return InvoiceResponse{}, err
	}

	buyerID, err := parseOptionalUUID(req.BuyerID, "buyer_id")
	if err != nil {
		return InvoiceResponse{}, err
	}
	if buyerID != nil {
		if _, findErr := s.buyerRepo.FindByID(ctx, *buyerID); findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return InvoiceResponse{}, ErrBuyerNotFound
			}
			return InvoiceResponse{}, findErr
		}
	}

	lines := make([]LineAmounts, 0, len(req.Items))
	items := make([]model.InvoiceItem, 0, len(req.Items))
	for i, item := range req.Items {
		qty, parseErr := parseAmount(item.Quantity, fmt.Sprintf("items[%d].quantity", i))
		if parseErr != nil {
			return InvoiceResponse{}, parseErr
		}
		if !qty.IsPositive() {
			return InvoiceResponse{}, fmt.Errorf("items[%d].quantity must be positive", i)
		}
		rate, parseErr := parseAmount(item.Rate, fmt.Sprintf("items[%d].rate", i))
		if parseErr != nil {
			return InvoiceResponse{}, parseErr
		}
		if rate.IsNegative() {
			return InvoiceResponse{}, fmt.Errorf("items[%d].rate must not be negative", i)
		}
		productID, parseErr := parseOptionalUUID(item.ProductID, fmt.Sprintf("items[%d].product_id", i))
		if parseErr != nil {
			return InvoiceResponse{}, parseErr
		}

		lines = append(lines, LineAmounts{Quantity: qty, Rate: rate})
		items = append(items, model.InvoiceItem{
			ProductID:   productID,
			Description: item.Description,
			HSN:         item.HSN,
			Quantity:    qty,
			Unit:        item.Unit,
			Rate:        rate,
			Position:    i + 1,
		})
	}

	totals := ComputeTotals(lines, cgstRate, sgstRate, igstRate, discount)
	for i := range items {
		items[i].LineTotal = totals.LineTotals[i]
	}

	// Advisory pre-check; the unique index on invoice_no is the real guard
	// against two concurrent creations picking the same number.
	exists, err := s.invoiceRepo.NumberExists(ctx, req.InvoiceNo)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("failed to check invoice number: %w", err)
	}
	if exists {
		return InvoiceResponse{}, ErrDuplicateNumber
	}

	invoice := model.Invoice{
		InvoiceNo:     req.InvoiceNo,
		InvoiceDate:   invoiceDate,
		VehicleNo:     req.VehicleNo,
		BuyerID:       buyerID,
		BuyerName:     req.BuyerName,
		BuyerAddress:  req.BuyerAddress,
		BuyerGSTIN:    req.BuyerGSTIN,
		SellerName:    s.seller.Name,
		SellerAddress: s.seller.Address,
		SellerGSTIN:   s.seller.GSTIN,
		CgstRate:      cgstRate,
		SgstRate:      sgstRate,
		IgstRate:      igstRate,
		CgstAmount:    totals.CgstAmount,
		SgstAmount:    totals.SgstAmount,
		IgstAmount:    totals.IgstAmount,
		Discount:      discount,
		Subtotal:      totals.Subtotal,
		RoundOff:      totals.RoundOff,
		Total:         totals.Total,
		TotalInWords:  words.Rupees(totals.Total),
		Status:        model.StatusPending,
		Items:         items,
	}

	if err := s.invoiceRepo.Create(ctx, &invoice); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return InvoiceResponse{}, ErrDuplicateNumber
		}
		return InvoiceResponse{}, fmt.Errorf("failed to create invoice: %w", err)
	}

	reloaded, err := s.invoiceRepo.FindByIDWithItems(ctx, invoice.ID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("failed to reload invoice: %w", err)
	}

	return toInvoiceResponse(*reloaded), nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, id string) (InvoiceResponse, error) {
	invoice, err := s.findWithItems(ctx, id)
	if err != nil {
		return InvoiceResponse{}, err
	}
	return toInvoiceResponse(*invoice), nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, filter InvoiceFilter) ([]InvoiceResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	repoFilter := repository.InvoiceListFilter{
		NumberContains: filter.Number,
		Page:           filter.Page,
		Limit:          filter.Limit,
	}

	buyerID, err := parseOptionalUUID(filter.BuyerID, "buyer_id")
	if err != nil {
		return nil, 0, err
	}
	repoFilter.BuyerID = buyerID

	productID, err := parseOptionalUUID(filter.ProductID, "product_id")
	if err != nil {
		return nil, 0, err
	}
	repoFilter.ProductID = productID

	switch filter.Status {
	case "":
		// Archived invoices are excluded unless asked for explicitly.
		repoFilter.ExcludeArchived = true
	case "all":
	case model.StatusPending, model.StatusPaid, model.StatusArchived:
		repoFilter.Status = filter.Status
	default:
		return nil, 0, fmt.Errorf("invalid status filter: %s", filter.Status)
	}

	if filter.DateFrom != "" {
		from, parseErr := time.Parse(dateLayout, filter.DateFrom)
		if parseErr != nil {
			return nil, 0, fmt.Errorf("invalid date_from, expected YYYY-MM-DD: %w", parseErr)
		}
		repoFilter.DateFrom = &from
	}
	if filter.DateTo != "" {
		to, parseErr := time.Parse(dateLayout, filter.DateTo)
		if parseErr != nil {
			return nil, 0, fmt.Errorf("invalid date_to, expected YYYY-MM-DD: %w", parseErr)
		}
		// Inclusive end date: compare against the start of the following day.
		dayAfter := to.AddDate(0, 0, 1)
		repoFilter.DateBefore = &dayAfter
	}

	invoices, total, err := s.invoiceRepo.List(ctx, repoFilter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch invoices: %w", err)
	}

	result := make([]InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		result = append(result, toInvoiceResponse(inv))
	}
	return result, total, nil
}

func (s *invoiceService) UpdateStatus(ctx context.Context, id string, newStatus string) (InvoiceResponse, error) {
	if newStatus != model.StatusPending && newStatus != model.StatusPaid {
		return InvoiceResponse{}, fmt.Errorf("status must be %s or %s", model.StatusPending, model.StatusPaid)
	}

	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid invoice id: %w", err)
	}

	var event StatusEvent
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		invoice, findErr := s.invoiceRepo.FindByID(txCtx, invoiceID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return ErrInvoiceNotFound
			}
			return findErr
		}

		if invoice.Status == model.StatusArchived {
			return ErrAlreadyArchived
		}
		if invoice.Status == newStatus {
			return fmt.Errorf("invoice is already %s", newStatus)
		}

		oldStatus := invoice.Status
		invoice.Status = newStatus
		if updateErr := s.invoiceRepo.Update(txCtx, invoice); updateErr != nil {
			return fmt.Errorf("failed to update invoice: %w", updateErr)
		}

		entry := model.InvoiceStatusLog{
			InvoiceID: invoice.ID,
			OldStatus: oldStatus,
			NewStatus: newStatus,
		}
		if logErr := s.statusLogRepo.Append(txCtx, &entry); logErr != nil {
			return fmt.Errorf("failed to write status log: %w", logErr)
		}

		event = StatusEvent{
			InvoiceID: invoice.ID.String(),
			InvoiceNo: invoice.InvoiceNo,
			OldStatus: oldStatus,
			NewStatus: newStatus,
		}
		return nil
	})
	if err != nil {
		return InvoiceResponse{}, err
	}

	s.publish(event)

	reloaded, err := s.invoiceRepo.FindByIDWithItems(ctx, invoiceID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("failed to reload invoice: %w", err)
	}
	return toInvoiceResponse(*reloaded), nil
}

func (s *invoiceService) ArchiveInvoice(ctx context.Context, id string) (InvoiceResponse, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("invalid invoice id: %w", err)
	}

	var event StatusEvent
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		invoice, findErr := s.invoiceRepo.FindByID(txCtx, invoiceID)
		if findErr != nil {
			if errors.Is(findErr, gorm.ErrRecordNotFound) {
				return ErrInvoiceNotFound
			}
			return findErr
		}

		if invoice.Status == model.StatusArchived {
			return ErrAlreadyArchived
		}

		oldStatus := invoice.Status
		invoice.Status = model.StatusArchived
		// Rewriting the number frees it for reuse by a future invoice while
		// keeping the unique index satisfied.
		invoice.InvoiceNo = invoice.InvoiceNo + model.ArchivedNumberSeparator + invoice.ID.String()

		if updateErr := s.invoiceRepo.Update(txCtx, invoice); updateErr != nil {
			return fmt.Errorf("failed to archive invoice: %w", updateErr)
		}

		entry := model.InvoiceStatusLog{
			InvoiceID: invoice.ID,
			OldStatus: oldStatus,
			NewStatus: model.StatusArchived,
		}
		if logErr := s.statusLogRepo.Append(txCtx, &entry); logErr != nil {
			return fmt.Errorf("failed to write status log: %w", logErr)
		}

		event = StatusEvent{
			InvoiceID: invoice.ID.String(),
			InvoiceNo: invoice.InvoiceNo,
			OldStatus: oldStatus,
			NewStatus: model.StatusArchived,
		}
		return nil
	})
	if err != nil {
		return InvoiceResponse{}, err
	}

	s.publish(event)

	reloaded, err := s.invoiceRepo.FindByIDWithItems(ctx, invoiceID)
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("failed to reload invoice: %w", err)
	}
	return toInvoiceResponse(*reloaded), nil
}

func (s *invoiceService) CheckNumber(ctx context.Context, number string) (bool, error) {
	if number == "" {
		return false, fmt.Errorf("number is required")
	}
	return s.invoiceRepo.NumberExists(ctx, number)
}

func (s *invoiceService) ListStatusLogs(ctx context.Context, id string) ([]StatusLogResponse, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid invoice id: %w", err)
	}

	if _, err := s.invoiceRepo.FindByID(ctx, invoiceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}

	logs, err := s.statusLogRepo.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch status logs: %w", err)
	}

	result := make([]StatusLogResponse, 0, len(logs))
	for _, entry := range logs {
		result = append(result, StatusLogResponse{
			ID:        entry.ID.String(),
			InvoiceID: entry.InvoiceID.String(),
			OldStatus: entry.OldStatus,
			NewStatus: entry.NewStatus,
			CreatedAt: entry.CreatedAt.Format(time.RFC3339),
		})
	}
	return result, nil
}

// GetPrintLayout returns the per-page descriptors the on-screen print
// preview renders from, computed by the same deterministic layout the PDF
// uses.
func (s *invoiceService) GetPrintLayout(ctx context.Context, id string) ([]printer.Page, error) {
	invoice, err := s.findWithItems(ctx, id)
	if err != nil {
		return nil, err
	}

	descriptions := make([]string, 0, len(invoice.Items))
	for _, item := range invoice.Items {
		descriptions = append(descriptions, item.Description)
	}
	return printer.Paginate(descriptions), nil
}

// RenderPDF renders the invoice to PDF bytes and suggests a file name.
func (s *invoiceService) RenderPDF(ctx context.Context, id string) ([]byte, string, error) {
	invoice, err := s.findWithItems(ctx, id)
	if err != nil {
		return nil, "", err
	}

	pdf, err := printer.Generate(invoice)
	if err != nil {
		return nil, "", err
	}
	return pdf, "invoice-" + invoice.InvoiceNo + ".pdf", nil
}

func (s *invoiceService) findWithItems(ctx context.Context, id string) (*model.Invoice, error) {
	invoiceID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid invoice id: %w", err)
	}
	invoice, err := s.invoiceRepo.FindByIDWithItems(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	return invoice, nil
}

func (s *invoiceService) publish(event StatusEvent) {
	if s.events == nil || event.InvoiceID == "" {
		return
	}
	if payload, err := json.Marshal(event); err == nil {
		s.events.Publish(payload)
	}
}

// --- Mapping ---

func toInvoiceItemResponse(item model.InvoiceItem) InvoiceItemResponse {
	resp := InvoiceItemResponse{
		ID:          item.ID.String(),
		Description: item.Description,
		HSN:         item.HSN,
		Quantity:    item.Quantity.StringFixed(2),
		Unit:        item.Unit,
		Rate:        item.Rate.StringFixed(2),
		LineTotal:   item.LineTotal.StringFixed(2),
		Position:    item.Position,
	}
	if item.ProductID != nil {
		s := item.ProductID.String()
		resp.ProductID = &s
	}
	return resp
}

func toInvoiceResponse(inv model.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:            inv.ID.String(),
		InvoiceNo:     inv.InvoiceNo,
		InvoiceDate:   inv.InvoiceDate.Format(dateLayout),
		VehicleNo:     inv.VehicleNo,
		BuyerName:     inv.BuyerName,
		BuyerAddress:  inv.BuyerAddress,
		BuyerGSTIN:    inv.BuyerGSTIN,
		SellerName:    inv.SellerName,
		SellerAddress: inv.SellerAddress,
		SellerGSTIN:   inv.SellerGSTIN,
		CgstRate:      inv.CgstRate.StringFixed(2),
		SgstRate:      inv.SgstRate.StringFixed(2),
		IgstRate:      inv.IgstRate.StringFixed(2),
		CgstAmount:    inv.CgstAmount.StringFixed(2),
		SgstAmount:    inv.SgstAmount.StringFixed(2),
		IgstAmount:    inv.IgstAmount.StringFixed(2),
		Discount:      inv.Discount.StringFixed(2),
		Subtotal:      inv.Subtotal.StringFixed(2),
		RoundOff:      inv.RoundOff.StringFixed(2),
		Total:         inv.Total.StringFixed(2),
		TotalInWords:  inv.TotalInWords,
		Status:        inv.Status,
		Items:         make([]InvoiceItemResponse, 0, len(inv.Items)),
		CreatedAt:     inv.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     inv.UpdatedAt.Format(time.RFC3339),
	}
	if inv.BuyerID != nil {
		s := inv.BuyerID.String()
		resp.BuyerID = &s
	}
	for _, item := range inv.Items {
		resp.Items = append(resp.Items, toInvoiceItemResponse(item))
	}
	return resp
}
