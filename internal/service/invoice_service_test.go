package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"invoicing/internal/config"
	"invoicing/internal/model"
	"invoicing/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// --- Mocks ---

type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) Create(ctx context.Context, invoice *model.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByIDWithItems(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) List(ctx context.Context, filter repository.InvoiceListFilter) ([]model.Invoice, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]model.Invoice), args.Get(1).(int64), args.Error(2)
}

func (m *MockInvoiceRepository) Update(ctx context.Context, invoice *model.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) NumberExists(ctx context.Context, number string) (bool, error) {
	args := m.Called(ctx, number)
	return args.Bool(0), args.Error(1)
}

type MockBuyerRepository struct {
	mock.Mock
}

func (m *MockBuyerRepository) Create(ctx context.Context, buyer *model.Buyer) error {
	args := m.Called(ctx, buyer)
	return args.Error(0)
}

func (m *MockBuyerRepository) Update(ctx context.Context, buyer *model.Buyer) error {
	args := m.Called(ctx, buyer)
	return args.Error(0)
}

func (m *MockBuyerRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Buyer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Buyer), args.Error(1)
}

func (m *MockBuyerRepository) List(ctx context.Context, search string, page, limit int) ([]model.Buyer, int64, error) {
	args := m.Called(ctx, search, page, limit)
	return args.Get(0).([]model.Buyer), args.Get(1).(int64), args.Error(2)
}

type MockStatusLogRepository struct {
	mock.Mock
}

func (m *MockStatusLogRepository) Append(ctx context.Context, entry *model.InvoiceStatusLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockStatusLogRepository) ListByInvoice(ctx context.Context, invoiceID uuid.UUID) ([]model.InvoiceStatusLog, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.InvoiceStatusLog), args.Error(1)
}

// fakeTxManager runs the callback directly; repository calls inside the
// transaction hit the same mocks.
type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

// capturePublisher records broadcast payloads.
type capturePublisher struct {
	messages [][]byte
}

func (p *capturePublisher) Publish(message []byte) {
	p.messages = append(p.messages, message)
}

// --- Helpers ---

var testSeller = config.Seller{
	Name:    "Acme Traders",
	Address: "12 Market Road, Pune",
	GSTIN:   "27AAAAA0000A1Z5",
}

func newTestService(invoiceRepo *MockInvoiceRepository, buyerRepo *MockBuyerRepository, statusLogRepo *MockStatusLogRepository, events Publisher) InvoiceService {
	return NewInvoiceService(invoiceRepo, buyerRepo, statusLogRepo, fakeTxManager{}, testSeller, events)
}

func pendingInvoice(id uuid.UUID) *model.Invoice {
	return &model.Invoice{
		ID:          id,
		InvoiceNo:   "INV-001",
		InvoiceDate: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		BuyerName:   "Sharma Builders",
		Status:      model.StatusPending,
		Subtotal:    decimal.NewFromInt(250),
		Total:       decimal.NewFromInt(295),
	}
}

// --- CreateInvoice ---

func TestCreateInvoice(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	buyerRepo := new(MockBuyerRepository)
	statusLogRepo := new(MockStatusLogRepository)
	svc := newTestService(invoiceRepo, buyerRepo, statusLogRepo, nil)

	req := CreateInvoiceRequest{
		InvoiceNo:   "INV-001",
		InvoiceDate: "2025-04-01",
		BuyerName:   "Sharma Builders",
		CgstRate:    "9",
		SgstRate:    "9",
		Items: []InvoiceItemRequest{
			{Description: "Cement bags", Quantity: "2", Rate: "100"},
			{Description: "Delivery", Quantity: "1", Rate: "50"},
		},
	}

	generated := uuid.New()
	var created *model.Invoice
	invoiceRepo.On("NumberExists", mock.Anything, "INV-001").Return(false, nil)
	invoiceRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Invoice")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*model.Invoice)
			created.ID = generated
		}).Return(nil)
	invoiceRepo.On("FindByIDWithItems", mock.Anything, generated).
		Return(pendingInvoice(generated), nil)

	_, err := svc.CreateInvoice(context.Background(), req)
	assert.NoError(t, err)

	assert.NotNil(t, created)
	assert.Equal(t, model.StatusPending, created.Status)
	assert.Equal(t, "250.00", created.Subtotal.StringFixed(2))
	assert.Equal(t, "22.50", created.CgstAmount.StringFixed(2))
	assert.Equal(t, "22.50", created.SgstAmount.StringFixed(2))
	assert.Equal(t, "295.00", created.Total.StringFixed(2))
	assert.Equal(t, "Rupees Two Hundred Ninety Five Only", created.TotalInWords)

	// Seller snapshot comes from the configured profile.
	assert.Equal(t, testSeller.Name, created.SellerName)
	assert.Equal(t, testSeller.GSTIN, created.SellerGSTIN)

	// Line items keep their submitted order via positions.
	assert.Len(t, created.Items, 2)
	assert.Equal(t, 1, created.Items[0].Position)
	assert.Equal(t, 2, created.Items[1].Position)
	assert.Equal(t, "200.00", created.Items[0].LineTotal.StringFixed(2))

	invoiceRepo.AssertExpectations(t)
}

func TestCreateInvoiceDuplicateNumber(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	svc := newTestService(invoiceRepo, new(MockBuyerRepository), new(MockStatusLogRepository), nil)

	invoiceRepo.On("NumberExists", mock.Anything, "INV-001").Return(true, nil)

	_, err := svc.CreateInvoice(context.Background(), CreateInvoiceRequest{
		InvoiceNo:   "INV-001",
		InvoiceDate: "2025-04-01",
		BuyerName:   "Sharma Builders",
		Items:       []InvoiceItemRequest{{Description: "Cement bags", Quantity: "1", Rate: "100"}},
	})

	assert.ErrorIs(t, err, ErrDuplicateNumber)
	invoiceRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateInvoiceDuplicateKeyRace(t *testing.T) {
	// The advisory pre-check passes but a concurrent insert wins; the unique
	// index violation still maps to the duplicate-number error.
	invoiceRepo := new(MockInvoiceRepository)
	svc := newTestService(invoiceRepo, new(MockBuyerRepository), new(MockStatusLogRepository), nil)

	invoiceRepo.On("NumberExists", mock.Anything, "INV-001").Return(false, nil)
	invoiceRepo.On("Create", mock.Anything, mock.Anything).Return(gorm.ErrDuplicatedKey)

	_, err := svc.CreateInvoice(context.Background(), CreateInvoiceRequest{
		InvoiceNo:   "INV-001",
		InvoiceDate: "2025-04-01",
		BuyerName:   "Sharma Builders",
		Items:       []InvoiceItemRequest{{Description: "Cement bags", Quantity: "1", Rate: "100"}},
	})

	assert.ErrorIs(t, err, ErrDuplicateNumber)
}

func TestCreateInvoiceUnknownBuyerReference(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	buyerRepo := new(MockBuyerRepository)
	svc := newTestService(invoiceRepo, buyerRepo, new(MockStatusLogRepository), nil)

	buyerID := uuid.New()
	buyerRepo.On("FindByID", mock.Anything, buyerID).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.CreateInvoice(context.Background(), CreateInvoiceRequest{
		InvoiceNo:   "INV-001",
		InvoiceDate: "2025-04-01",
		BuyerID:     buyerID.String(),
		BuyerName:   "Sharma Builders",
		Items:       []InvoiceItemRequest{{Description: "Cement bags", Quantity: "1", Rate: "100"}},
	})

	assert.ErrorIs(t, err, ErrBuyerNotFound)
}

func TestCreateInvoiceValidation(t *testing.T) {
	svc := newTestService(new(MockInvoiceRepository), new(MockBuyerRepository), new(MockStatusLogRepository), nil)

	base := CreateInvoiceRequest{
		InvoiceNo:   "INV-001",
		InvoiceDate: "2025-04-01",
		BuyerName:   "Sharma Builders",
		Items:       []InvoiceItemRequest{{Description: "Cement bags", Quantity: "1", Rate: "100"}},
	}

	badDate := base
	badDate.InvoiceDate = "01-04-2025"
	_, err := svc.CreateInvoice(context.Background(), badDate)
	assert.ErrorContains(t, err, "invoice_date")

	zeroQty := base
	zeroQty.Items = []InvoiceItemRequest{{Description: "Cement bags", Quantity: "0", Rate: "100"}}
	_, err = svc.CreateInvoice(context.Background(), zeroQty)
	assert.ErrorContains(t, err, "quantity must be positive")

	negativeRate := base
	negativeRate.Items = []InvoiceItemRequest{{Description: "Cement bags", Quantity: "1", Rate: "-5"}}
	_, err = svc.CreateInvoice(context.Background(), negativeRate)
	assert.ErrorContains(t, err, "rate must not be negative")
}

// --- UpdateStatus ---

func TestUpdateStatusWritesOneLogRow(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	statusLogRepo := new(MockStatusLogRepository)
	events := &capturePublisher{}
	svc := newTestService(invoiceRepo, new(MockBuyerRepository), statusLogRepo, events)

	id := uuid.New()
	invoice := pendingInvoice(id)

	var logged []*model.InvoiceStatusLog
	invoiceRepo.On("FindByID", mock.Anything, id).Return(invoice, nil)
	invoiceRepo.On("Update", mock.Anything, invoice).Return(nil)
	statusLogRepo.On("Append", mock.Anything, mock.AnythingOfType("*model.InvoiceStatusLog")).
		Run(func(args mock.Arguments) {
			logged = append(logged, args.Get(1).(*model.InvoiceStatusLog))
		}).Return(nil)
	invoiceRepo.On("FindByIDWithItems", mock.Anything, id).Return(invoice, nil)

	resp, err := svc.UpdateStatus(context.Background(), id.String(), model.StatusPaid)
	assert.NoError(t, err)
	assert.Equal(t, model.StatusPaid, resp.Status)

	assert.Len(t, logged, 1)
	assert.Equal(t, id, logged[0].InvoiceID)
	assert.Equal(t, model.StatusPending, logged[0].OldStatus)
	assert.Equal(t, model.StatusPaid, logged[0].NewStatus)

	// One event goes out after the transaction commits.
	assert.Len(t, events.messages, 1)
	var event StatusEvent
	assert.NoError(t, json.Unmarshal(events.messages[0], &event))
	assert.Equal(t, id.String(), event.InvoiceID)
	assert.Equal(t, model.StatusPending, event.OldStatus)
	assert.Equal(t, model.StatusPaid, event.NewStatus)
}

func TestUpdateStatusRejectsArchiveTarget(t *testing.T) {
	svc := newTestService(new(MockInvoiceRepository), new(MockBuyerRepository), new(MockStatusLogRepository), nil)

	_, err := svc.UpdateStatus(context.Background(), uuid.NewString(), model.StatusArchived)
	assert.ErrorContains(t, err, "status must be")
}

func TestUpdateStatusOnArchivedInvoice(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	svc := newTestService(invoiceRepo, new(MockBuyerRepository), new(MockStatusLogRepository), nil)

	id := uuid.New()
	invoice := pendingInvoice(id)
	invoice.Status = model.StatusArchived
	invoiceRepo.On("FindByID", mock.Anything, id).Return(invoice, nil)

	_, err := svc.UpdateStatus(context.Background(), id.String(), model.StatusPaid)
	assert.ErrorIs(t, err, ErrAlreadyArchived)
	invoiceRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateStatusNoOpTransition(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	svc := newTestService(invoiceRepo, new(MockBuyerRepository), new(MockStatusLogRepository), nil)

	id := uuid.New()
	invoiceRepo.On("FindByID", mock.Anything, id).Return(pendingInvoice(id), nil)

	_, err := svc.UpdateStatus(context.Background(), id.String(), model.StatusPending)
	assert.ErrorContains(t, err, "already pending")
	invoiceRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

// --- ArchiveInvoice ---

func TestArchiveInvoiceRewritesNumber(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	statusLogRepo := new(MockStatusLogRepository)
	svc := newTestService(invoiceRepo, new(MockBuyerRepository), statusLogRepo, nil)

	id := uuid.New()
	invoice := pendingInvoice(id)

	invoiceRepo.On("FindByID", mock.Anything, id).Return(invoice, nil)
	invoiceRepo.On("Update", mock.Anything, invoice).Return(nil)
	statusLogRepo.On("Append", mock.Anything, mock.AnythingOfType("*model.InvoiceStatusLog")).Return(nil)
	invoiceRepo.On("FindByIDWithItems", mock.Anything, id).Return(invoice, nil)

	resp, err := svc.ArchiveInvoice(context.Background(), id.String())
	assert.NoError(t, err)

	assert.Equal(t, model.StatusArchived, resp.Status)
	assert.Equal(t, "INV-001"+model.ArchivedNumberSeparator+id.String(), invoice.InvoiceNo)
	statusLogRepo.AssertCalled(t, "Append", mock.Anything, mock.AnythingOfType("*model.InvoiceStatusLog"))
}

func TestArchiveInvoiceAlreadyArchived(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	statusLogRepo := new(MockStatusLogRepository)
	svc := newTestService(invoiceRepo, new(MockBuyerRepository), statusLogRepo, nil)

	id := uuid.New()
	invoice := pendingInvoice(id)
	invoice.Status = model.StatusArchived
	invoiceRepo.On("FindByID", mock.Anything, id).Return(invoice, nil)

	_, err := svc.ArchiveInvoice(context.Background(), id.String())
	assert.ErrorIs(t, err, ErrAlreadyArchived)
	invoiceRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	statusLogRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

// --- Lookups and listing ---

func TestGetInvoiceNotFound(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	svc := newTestService(invoiceRepo, new(MockBuyerRepository), new(MockStatusLogRepository), nil)

	id := uuid.New()
	invoiceRepo.On("FindByIDWithItems", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.GetInvoice(context.Background(), id.String())
	assert.ErrorIs(t, err, ErrInvoiceNotFound)
}

func TestGetInvoiceBadID(t *testing.T) {
	svc := newTestService(new(MockInvoiceRepository), new(MockBuyerRepository), new(MockStatusLogRepository), nil)

	_, err := svc.GetInvoice(context.Background(), "not-a-uuid")
	assert.ErrorContains(t, err, "invalid invoice id")
}

func TestListInvoicesExcludesArchivedByDefault(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	svc := newTestService(invoiceRepo, new(MockBuyerRepository), new(MockStatusLogRepository), nil)

	var captured repository.InvoiceListFilter
	invoiceRepo.On("List", mock.Anything, mock.AnythingOfType("repository.InvoiceListFilter")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(repository.InvoiceListFilter)
		}).Return([]model.Invoice{}, int64(0), nil)

	_, _, err := svc.ListInvoices(context.Background(), InvoiceFilter{})
	assert.NoError(t, err)
	assert.True(t, captured.ExcludeArchived)
	assert.Empty(t, captured.Status)
	assert.Equal(t, 1, captured.Page)
	assert.Equal(t, 20, captured.Limit)
}

func TestListInvoicesStatusAll(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	svc := newTestService(invoiceRepo, new(MockBuyerRepository), new(MockStatusLogRepository), nil)

	var captured repository.InvoiceListFilter
	invoiceRepo.On("List", mock.Anything, mock.AnythingOfType("repository.InvoiceListFilter")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(repository.InvoiceListFilter)
		}).Return([]model.Invoice{}, int64(0), nil)

	_, _, err := svc.ListInvoices(context.Background(), InvoiceFilter{Status: "all"})
	assert.NoError(t, err)
	assert.False(t, captured.ExcludeArchived)
	assert.Empty(t, captured.Status)
}

func TestListInvoicesInclusiveDateRange(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	svc := newTestService(invoiceRepo, new(MockBuyerRepository), new(MockStatusLogRepository), nil)

	var captured repository.InvoiceListFilter
	invoiceRepo.On("List", mock.Anything, mock.AnythingOfType("repository.InvoiceListFilter")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(repository.InvoiceListFilter)
		}).Return([]model.Invoice{}, int64(0), nil)

	_, _, err := svc.ListInvoices(context.Background(), InvoiceFilter{
		DateFrom: "2025-04-01",
		DateTo:   "2025-04-30",
	})
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), *captured.DateFrom)
	// date_to is inclusive: the repository gets the start of the next day.
	assert.Equal(t, time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC), *captured.DateBefore)
}

func TestListInvoicesInvalidStatus(t *testing.T) {
	svc := newTestService(new(MockInvoiceRepository), new(MockBuyerRepository), new(MockStatusLogRepository), nil)

	_, _, err := svc.ListInvoices(context.Background(), InvoiceFilter{Status: "cancelled"})
	assert.ErrorContains(t, err, "invalid status filter")
}

// --- CheckNumber ---

func TestCheckNumber(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	svc := newTestService(invoiceRepo, new(MockBuyerRepository), new(MockStatusLogRepository), nil)

	invoiceRepo.On("NumberExists", mock.Anything, "INV-001").Return(true, nil)

	exists, err := svc.CheckNumber(context.Background(), "INV-001")
	assert.NoError(t, err)
	assert.True(t, exists)

	_, err = svc.CheckNumber(context.Background(), "")
	assert.ErrorContains(t, err, "number is required")
}

// --- Status logs ---

func TestListStatusLogs(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	statusLogRepo := new(MockStatusLogRepository)
	svc := newTestService(invoiceRepo, new(MockBuyerRepository), statusLogRepo, nil)

	id := uuid.New()
	invoiceRepo.On("FindByID", mock.Anything, id).Return(pendingInvoice(id), nil)
	statusLogRepo.On("ListByInvoice", mock.Anything, id).Return([]model.InvoiceStatusLog{
		{ID: uuid.New(), InvoiceID: id, OldStatus: model.StatusPending, NewStatus: model.StatusPaid},
		{ID: uuid.New(), InvoiceID: id, OldStatus: model.StatusPaid, NewStatus: model.StatusPending},
	}, nil)

	logs, err := svc.ListStatusLogs(context.Background(), id.String())
	assert.NoError(t, err)
	assert.Len(t, logs, 2)
	assert.Equal(t, model.StatusPaid, logs[0].NewStatus)
}

func TestListStatusLogsUnknownInvoice(t *testing.T) {
	invoiceRepo := new(MockInvoiceRepository)
	svc := newTestService(invoiceRepo, new(MockBuyerRepository), new(MockStatusLogRepository), nil)

	id := uuid.New()
	invoiceRepo.On("FindByID", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.ListStatusLogs(context.Background(), id.String())
	assert.ErrorIs(t, err, ErrInvoiceNotFound)
}
