package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ruancarvalho/pedidosync-backend/internal/sheets"
	"github.com/ruancarvalho/pedidosync-backend/pkg/enums"
	"github.com/ruancarvalho/pedidosync-backend/pkg/errors"
	"github.com/ruancarvalho/pedidosync-backend/pkg/logger"
)

type sheetStore interface {
	GetOrCreateTable(ctx context.Context, title string, minRows, minCols int64) (sheets.Table, error)
	ReadAllRecords(ctx context.Context, t sheets.Table) ([]sheets.Record, error)
	AppendRows(ctx context.Context, t sheets.Table, rows [][]string) error
	RowValues(ctx context.Context, t sheets.Table, row int64) ([]string, error)
	ColumnValues(ctx context.Context, t sheets.Table, col int64) ([]string, error)
	UpdateCell(ctx context.Context, t sheets.Table, row, col int64, value string) error
	UpdateRow(ctx context.Context, t sheets.Table, row int64, values []string) error
	FormatHeader(ctx context.Context, t sheets.Table) error
}

// Repository mediates all Pedidos, Itens and Leituras sheet traffic. It is
// append-only for orders and items; status changes rewrite individual cells
// of the located row, never the whole sheet.
type Repository struct {
	store sheetStore
	logg  *logger.Logger
}

func NewRepository(store sheetStore, logg *logger.Logger) *Repository {
	return &Repository{store: store, logg: logg}
}

func normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// ensureHeader makes sure the sheet exists and its first row matches the
// canonical header. Data rows are never touched; only row 1 is rewritten
// when it drifts from the expected columns.
func (r *Repository) ensureHeader(ctx context.Context, title string, header []string) (sheets.Table, error) {
	t, err := r.store.GetOrCreateTable(ctx, title, 100, int64(len(header)))
	if err != nil {
		return sheets.Table{}, err
	}
	current, err := r.store.RowValues(ctx, t, 1)
	if err != nil {
		return sheets.Table{}, err
	}
	if headerMatches(current, header) {
		return t, nil
	}
	if err := r.store.UpdateRow(ctx, t, 1, header); err != nil {
		return sheets.Table{}, err
	}
	if err := r.store.FormatHeader(ctx, t); err != nil && r.logg != nil {
		r.logg.Warn(r.logg.WithField(ctx, "error", err.Error()), "header formatting failed for "+title)
	}
	return t, nil
}

func headerMatches(current, want []string) bool {
	if len(current) < len(want) {
		return false
	}
	for i, col := range want {
		if strings.TrimSpace(current[i]) != col {
			return false
		}
	}
	return true
}

// AppendOrder writes the order row and its single item row.
func (r *Repository) AppendOrder(ctx context.Context, o Order, it Item) error {
	orderTab, err := r.ensureHeader(ctx, TableOrders, OrderHeader())
	if err != nil {
		return err
	}
	if err := r.store.AppendRows(ctx, orderTab, [][]string{o.row()}); err != nil {
		return err
	}
	itemsTab, err := r.ensureHeader(ctx, TableItems, ItemsHeader())
	if err != nil {
		return err
	}
	return r.store.AppendRows(ctx, itemsTab, [][]string{it.row()})
}

// List returns every order row in sheet order.
func (r *Repository) List(ctx context.Context) ([]Order, error) {
	t, err := r.ensureHeader(ctx, TableOrders, OrderHeader())
	if err != nil {
		return nil, err
	}
	records, err := r.store.ReadAllRecords(ctx, t)
	if err != nil {
		return nil, err
	}
	out := make([]Order, 0, len(records))
	for _, rec := range records {
		out = append(out, orderFromRecord(rec))
	}
	return out, nil
}

// FindOrder locates an order by number. The match is normalized on both
// sides, so "req-001" finds "REQ-001". A miss returns (nil, nil).
func (r *Repository) FindOrder(ctx context.Context, number string) (*Order, error) {
	all, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	want := normalize(number)
	if want == "" {
		return nil, nil
	}
	for i := range all {
		if normalize(all[i].Number) == want {
			return &all[i], nil
		}
	}
	return nil, nil
}

// ItemsFor returns the item rows belonging to an order.
func (r *Repository) ItemsFor(ctx context.Context, number string) ([]Item, error) {
	t, err := r.ensureHeader(ctx, TableItems, ItemsHeader())
	if err != nil {
		return nil, err
	}
	records, err := r.store.ReadAllRecords(ctx, t)
	if err != nil {
		return nil, err
	}
	want := normalize(number)
	var out []Item
	for _, rec := range records {
		if normalize(rec[ColNumber]) == want {
			out = append(out, itemFromRecord(rec))
		}
	}
	return out, nil
}

// UpdateStatus moves an order to a new status, stamping the audit columns
// that stage requires. With urgentDone set the Urgente cell is overwritten
// with the fixed resolved-urgency marker so dashboards can tell closed
// urgencies apart.
func (r *Repository) UpdateStatus(ctx context.Context, number string, status enums.OrderStatus, actor string, urgentDone bool, now time.Time) error {
	t, err := r.ensureHeader(ctx, TableOrders, OrderHeader())
	if err != nil {
		return err
	}
	header, err := r.store.RowValues(ctx, t, 1)
	if err != nil {
		return err
	}
	cols, err := resolveColumns(header, urgentDone)
	if err != nil {
		return err
	}

	numbers, err := r.store.ColumnValues(ctx, t, cols[ColNumber])
	if err != nil {
		return err
	}
	want := normalize(number)
	rowIdx := int64(-1)
	for i, v := range numbers {
		if i == 0 {
			continue
		}
		if normalize(v) == want {
			rowIdx = int64(i) + 1
			break
		}
	}
	if rowIdx < 0 {
		return errors.New(errors.CodeNotFound, fmt.Sprintf("pedido %s nao encontrado", number))
	}

	stamp := now.Format(TimeFormat)
	writes := map[string]string{
		ColStatus:    string(status),
		ColUpdatedAt: stamp,
		ColUpdatedBy: actor,
	}
	switch status {
	case enums.OrderStatusSeparation:
		writes[ColSeparationBy] = actor
		writes[ColSeparationAt] = stamp
	case enums.OrderStatusCollection:
		writes[ColCollectionBy] = actor
		writes[ColCollectionAt] = stamp
	}
	if urgentDone {
		writes[ColUrgent] = string(enums.UrgencyDoneUrgent)
	}
	for col, value := range writes {
		if err := r.store.UpdateCell(ctx, t, rowIdx, cols[col], value); err != nil {
			return err
		}
	}
	return nil
}

// resolveColumns maps header names to 1-based column indexes. A header
// missing any column the update flow writes to is a hard error; guessing
// positions would corrupt unrelated cells. The Urgente column is only
// required when the update intends to write it.
func resolveColumns(header []string, needUrgent bool) (map[string]int64, error) {
	idx := make(map[string]int64, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = int64(i) + 1
	}
	required := []string{
		ColNumber, ColStatus, ColUpdatedAt, ColUpdatedBy,
		ColSeparationBy, ColSeparationAt, ColCollectionBy, ColCollectionAt,
	}
	if needUrgent {
		required = append(required, ColUrgent)
	}
	for _, name := range required {
		if _, ok := idx[name]; !ok {
			return nil, errors.New(errors.CodeDependency, fmt.Sprintf("coluna %q ausente na planilha %s", name, TableOrders))
		}
	}
	return idx, nil
}

// AppendReadLog records one scan attempt in the Leituras audit sheet.
func (r *Repository) AppendReadLog(ctx context.Context, e ReadLogEntry) error {
	t, err := r.ensureHeader(ctx, TableReadLog, ReadLogHeader())
	if err != nil {
		return err
	}
	return r.store.AppendRows(ctx, t, [][]string{e.row()})
}
