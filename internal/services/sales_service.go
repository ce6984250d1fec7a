package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"kedai_pos_backend/internal/models"
	"kedai_pos_backend/internal/repositories"
	"kedai_pos_backend/pkg/utils"
)

var ErrSaleNotFound = errors.New("sale not found")

const receiptWidth = 32

// SalesService reads the sales log and renders receipts.
type SalesService interface {
	ListSales(ctx context.Context, filters models.SaleFilters) ([]models.Sale, int, error)
	GetSale(ctx context.Context, id string) (*models.Sale, error)
	// RenderReceipt returns a plain-text receipt sized for a 58mm printer.
	RenderReceipt(ctx context.Context, id string) (string, error)
}

type salesService struct {
	store       *repositories.Store
	salesRepo   repositories.SalesLogRepository
	settingRepo repositories.SettingRepository
	loc         *time.Location
}

func NewSalesService(store *repositories.Store, sr repositories.SalesLogRepository, str repositories.SettingRepository, loc *time.Location) SalesService {
	if loc == nil {
		loc = time.Local
	}
	return &salesService{store: store, salesRepo: sr, settingRepo: str, loc: loc}
}

// ListSales returns sales newest first.
func (s *salesService) ListSales(ctx context.Context, filters models.SaleFilters) ([]models.Sale, int, error) {
	var sales []models.Sale
	var err error
	if filters.Since != nil {
		sales, err = s.salesRepo.ListSince(s.store, *filters.Since)
	} else {
		sales, err = s.salesRepo.List(s.store)
	}
	if err != nil {
		return nil, 0, err
	}
	for i, j := 0, len(sales)-1; i < j; i, j = i+1, j-1 {
		sales[i], sales[j] = sales[j], sales[i]
	}
	total := len(sales)
	sales = utils.Paginate(sales, filters.Page, filters.PageSize)
	return sales, total, nil
}

func (s *salesService) GetSale(ctx context.Context, id string) (*models.Sale, error) {
	sale, err := s.salesRepo.GetByID(s.store, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSaleNotFound, id)
		}
		return nil, err
	}
	return sale, nil
}

func (s *salesService) RenderReceipt(ctx context.Context, id string) (string, error) {
	sale, err := s.GetSale(ctx, id)
	if err != nil {
		return "", err
	}
	brand, err := s.settingRepo.GetBrandName(s.store)
	if err != nil {
		return "", err
	}
	return RenderReceipt(*sale, brand, s.loc), nil
}

func receiptRow(left, right string) string {
	gap := receiptWidth - len([]rune(left)) - len([]rune(right))
	if gap < 1 {
		indent := receiptWidth - len([]rune(right))
		if indent < 0 {
			indent = 0
		}
		return left + "\n" + strings.Repeat(" ", indent) + right + "\n"
	}
	return left + strings.Repeat(" ", gap) + right + "\n"
}

func centered(text string) string {
	pad := (receiptWidth - len([]rune(text))) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + text + "\n"
}

// RenderReceipt formats sale as fixed-width text.
func RenderReceipt(sale models.Sale, brand string, loc *time.Location) string {
	var b strings.Builder
	rule := strings.Repeat("-", receiptWidth) + "\n"

	b.WriteString(centered(brand))
	b.WriteString(centered(sale.Timestamp.In(loc).Format("02/01/2006 15:04")))
	b.WriteString(centered(sale.ID))
	b.WriteString(rule)
	for _, line := range sale.Items {
		b.WriteString(line.Name + "\n")
		b.WriteString(receiptRow(
			fmt.Sprintf("  %d x %s", line.Quantity, utils.FormatMoney(line.SellingPrice)),
			utils.FormatMoney(line.LineTotal())))
	}
	b.WriteString(rule)
	b.WriteString(receiptRow("JUMLAH", "RM"+utils.FormatMoney(sale.Total)))
	b.WriteString(receiptRow("Bayaran", sale.PaymentMethod.Label()))
	if sale.AmountReceived != nil {
		b.WriteString(receiptRow("Diterima", "RM"+utils.FormatMoney(*sale.AmountReceived)))
	}
	if sale.Change != nil {
		b.WriteString(receiptRow("Baki", "RM"+utils.FormatMoney(*sale.Change)))
	}
	b.WriteString(rule)
	b.WriteString(centered("Terima kasih!"))
	return b.String()
}
