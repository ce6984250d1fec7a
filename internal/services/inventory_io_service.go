package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"kedai_pos_backend/internal/models"
	"kedai_pos_backend/pkg/utils"

	"github.com/hashicorp/go-multierror"
)

// maxReportedRowErrors caps how many invalid rows an import error lists.
const maxReportedRowErrors = 5

var ErrNoSalesToday = errors.New("no sales recorded today")

var (
	bulkAddColumns     = []string{"name", "costPrice", "sellingPrice", "stock"}
	fullImportColumns  = []string{"id", "name", "costPrice", "sellingPrice", "stock"}
	inventoryExportRow = []string{"id", "name", "vendor", "imageUrl", "costPrice", "sellingPrice", "stock"}
	dailySalesHeader   = []string{"ID", "Masa", "Item", "Kuantiti", "Harga Seunit", "Jumlah", "Cara Bayaran"}
)

// RowError is a problem with one CSV data row. Line is the 1-based line in the file.
type RowError struct {
	Line    int
	Message string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// ImportError rejects a whole file. Rows holds at most the first five row errors.
type ImportError struct {
	TotalInvalid int
	Rows         *multierror.Error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("%d invalid row(s): %s", e.TotalInvalid, e.Rows.Error())
}

func (e *ImportError) Unwrap() error { return ErrValidation }

// Messages lists the reported row errors.
func (e *ImportError) Messages() []string {
	out := make([]string, 0, len(e.Rows.Errors))
	for _, err := range e.Rows.Errors {
		out = append(out, err.Error())
	}
	return out
}

// InventoryIOService moves inventory and sales in and out as CSV.
type InventoryIOService interface {
	// BulkAdd appends every row of a name/costPrice/sellingPrice/stock file, or none.
	BulkAdd(ctx context.Context, r io.Reader) ([]models.MenuItem, error)
	// RequestReplace parses a full inventory file and returns a pending replacement.
	RequestReplace(ctx context.Context, r io.Reader) (*models.PendingAction, error)
	ExportInventory(ctx context.Context, w io.Writer) error
	// ExportDailySales writes today's sales and returns the download file name.
	ExportDailySales(ctx context.Context, w io.Writer) (string, error)
}

type inventoryIOService struct {
	menuItems     MenuItemService
	reports       ReportService
	confirmations ConfirmationService
	loc           *time.Location
	now           func() time.Time
}

func NewInventoryIOService(
	menuItems MenuItemService,
	reports ReportService,
	confirmations ConfirmationService,
	loc *time.Location,
	now func() time.Time,
) InventoryIOService {
	if loc == nil {
		loc = time.Local
	}
	return &inventoryIOService{
		menuItems:     menuItems,
		reports:       reports,
		confirmations: confirmations,
		loc:           loc,
		now:           now,
	}
}

// csvTable is a parsed file with case-insensitive column lookup.
type csvTable struct {
	columns map[string]int
	rows    [][]string
	lines   []int
}

func (t *csvTable) value(row []string, column string) string {
	i, ok := t.columns[strings.ToLower(column)]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func readCSV(r io.Reader, required []string) (*csvTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: file is empty", ErrValidation)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: unreadable CSV: %v", ErrValidation, err)
	}

	t := &csvTable{columns: make(map[string]int, len(header))}
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		t.columns[strings.ToLower(strings.TrimSpace(h))] = i
	}
	var missing []string
	for _, col := range required {
		if _, ok := t.columns[strings.ToLower(col)]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required column(s): %s", ErrValidation, strings.Join(missing, ", "))
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: unreadable CSV: %v", ErrValidation, err)
		}
		line, _ := reader.FieldPos(0)
		t.rows = append(t.rows, row)
		t.lines = append(t.lines, line)
	}
	if len(t.rows) == 0 {
		return nil, fmt.Errorf("%w: file has no data rows", ErrValidation)
	}
	return t, nil
}

// rowCollector keeps the first maxReportedRowErrors errors and counts the rest.
type rowCollector struct {
	total int
	errs  *multierror.Error
}

func (c *rowCollector) add(line int, problems []string) {
	if len(problems) == 0 {
		return
	}
	c.total++
	if c.total <= maxReportedRowErrors {
		c.errs = multierror.Append(c.errs, &RowError{Line: line, Message: strings.Join(problems, "; ")})
	}
}

func (c *rowCollector) err() error {
	if c.total == 0 {
		return nil
	}
	c.errs.ErrorFormat = func(es []error) string {
		msgs := make([]string, len(es))
		for i, e := range es {
			msgs[i] = e.Error()
		}
		return strings.Join(msgs, "; ")
	}
	return &ImportError{TotalInvalid: c.total, Rows: c.errs}
}

// parseItemFields reads the columns shared by both import formats.
func parseItemFields(t *csvTable, row []string) (models.MenuItemInput, []string) {
	var problems []string
	in := models.MenuItemInput{
		Name:     t.value(row, "name"),
		Vendor:   utils.NewNullString(t.value(row, "vendor")),
		ImageURL: utils.NewNullString(t.value(row, "imageUrl")),
	}
	if in.Name == "" {
		problems = append(problems, "name is required")
	}
	var err error
	if in.CostPrice, err = utils.StrToDecimal(t.value(row, "costPrice")); err != nil {
		problems = append(problems, "costPrice: "+err.Error())
	} else if in.CostPrice.IsNegative() {
		problems = append(problems, "costPrice must not be negative")
	}
	if in.SellingPrice, err = utils.StrToDecimal(t.value(row, "sellingPrice")); err != nil {
		problems = append(problems, "sellingPrice: "+err.Error())
	} else if in.SellingPrice.IsNegative() {
		problems = append(problems, "sellingPrice must not be negative")
	}
	if in.Stock, err = utils.StrToInt(t.value(row, "stock")); err != nil {
		problems = append(problems, "stock: "+err.Error())
	} else if in.Stock < 0 {
		problems = append(problems, "stock must not be negative")
	}
	return in, problems
}

// ParseBulkAddCSV validates a bulk add file. Cost above selling price rejects a row.
func ParseBulkAddCSV(r io.Reader) ([]models.MenuItemInput, error) {
	t, err := readCSV(r, bulkAddColumns)
	if err != nil {
		return nil, err
	}

	var collector rowCollector
	inputs := make([]models.MenuItemInput, 0, len(t.rows))
	for i, row := range t.rows {
		in, problems := parseItemFields(t, row)
		if len(problems) == 0 && in.CostPrice.GreaterThan(in.SellingPrice) {
			problems = append(problems, "costPrice is higher than sellingPrice")
		}
		collector.add(t.lines[i], problems)
		inputs = append(inputs, in)
	}
	if err := collector.err(); err != nil {
		return nil, err
	}
	return inputs, nil
}

// ParseInventoryCSV validates a full inventory file, which also carries ids.
func ParseInventoryCSV(r io.Reader) ([]models.MenuItem, error) {
	t, err := readCSV(r, fullImportColumns)
	if err != nil {
		return nil, err
	}

	var collector rowCollector
	seen := make(map[string]int, len(t.rows))
	items := make([]models.MenuItem, 0, len(t.rows))
	for i, row := range t.rows {
		in, problems := parseItemFields(t, row)
		id := t.value(row, "id")
		if id == "" {
			problems = append(problems, "id is required")
		} else if first, dup := seen[id]; dup {
			problems = append(problems, fmt.Sprintf("id %s already used on line %d", id, first))
		} else {
			seen[id] = t.lines[i]
		}
		collector.add(t.lines[i], problems)
		items = append(items, newMenuItem(id, in))
	}
	if err := collector.err(); err != nil {
		return nil, err
	}
	return items, nil
}

// WriteInventoryCSV writes items in the format ParseInventoryCSV reads.
func WriteInventoryCSV(w io.Writer, items []models.MenuItem) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(inventoryExportRow); err != nil {
		return err
	}
	for _, item := range items {
		record := []string{
			item.ID,
			item.Name,
			utils.StringValue(item.Vendor),
			utils.StringValue(item.ImageURL),
			item.CostPrice.String(),
			item.SellingPrice.String(),
			fmt.Sprint(item.Stock),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDailySalesCSV writes one CRLF-terminated row per sale line.
func WriteDailySalesCSV(w io.Writer, sales []models.Sale, loc *time.Location) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.Write(dailySalesHeader); err != nil {
		return err
	}
	for _, sale := range sales {
		at := sale.Timestamp.In(loc).Format("02/01/2006 15:04:05")
		for _, line := range sale.Items {
			record := []string{
				sale.ID,
				at,
				line.Name,
				fmt.Sprint(line.Quantity),
				utils.FormatMoney(line.SellingPrice),
				utils.FormatMoney(line.LineTotal()),
				sale.PaymentMethod.Label(),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func (s *inventoryIOService) BulkAdd(ctx context.Context, r io.Reader) ([]models.MenuItem, error) {
	inputs, err := ParseBulkAddCSV(r)
	if err != nil {
		return nil, err
	}
	return s.menuItems.AppendItems(ctx, inputs)
}

func (s *inventoryIOService) RequestReplace(ctx context.Context, r io.Reader) (*models.PendingAction, error) {
	items, err := ParseInventoryCSV(r)
	if err != nil {
		return nil, err
	}
	action := s.confirmations.Request(models.ActionReplaceInventory,
		fmt.Sprintf("Replace the whole inventory with %d item(s) from file", len(items)),
		func(ctx context.Context) error { return s.menuItems.ReplaceInventory(ctx, items) })
	return &action, nil
}

func (s *inventoryIOService) ExportInventory(ctx context.Context, w io.Writer) error {
	items, err := s.menuItems.ListMenuItems(ctx)
	if err != nil {
		return err
	}
	return WriteInventoryCSV(w, items)
}

func (s *inventoryIOService) ExportDailySales(ctx context.Context, w io.Writer) (string, error) {
	sales, err := s.reports.TodaySales(ctx)
	if err != nil {
		return "", err
	}
	if len(sales) == 0 {
		return "", ErrNoSalesToday
	}
	var buf bytes.Buffer
	if err := WriteDailySalesCSV(&buf, sales, s.loc); err != nil {
		return "", fmt.Errorf("failed to write sales export: %w", err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return "", err
	}
	return fmt.Sprintf("laporan_jualan_%s.csv", s.now().In(s.loc).Format(dateLayout)), nil
}
