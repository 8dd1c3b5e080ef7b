package sequence

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ruancarvalho/pedidosync-backend/internal/sheets"
	"github.com/ruancarvalho/pedidosync-backend/pkg/logger"
)

const (
	defaultTableRows = 100
	defaultTableCols = 20
)

type columnReader interface {
	GetOrCreateTable(ctx context.Context, title string, minRows, minCols int64) (sheets.Table, error)
	ColumnValues(ctx context.Context, t sheets.Table, col int64) ([]string, error)
}

// Allocator mints sequential order numbers by scanning the identifier column
// of the orders sheet. There is no remote counter and no lock; concurrent
// writers can race (documented operational constraint: one operator at a time).
type Allocator struct {
	store columnReader
	table string
	logg  *logger.Logger
}

func New(store columnReader, table string, logg *logger.Logger) (*Allocator, error) {
	if store == nil {
		return nil, fmt.Errorf("sheet store required")
	}
	if table == "" {
		return nil, fmt.Errorf("table name required")
	}
	return &Allocator{store: store, table: table, logg: logg}, nil
}

// NextID returns one past the highest existing number matching
// prefix + exactly three digits. An empty or unreachable sheet yields 1;
// unreachable is deliberate (availability over consistency) and logged.
func (a *Allocator) NextID(ctx context.Context, prefix string) int {
	t, err := a.store.GetOrCreateTable(ctx, a.table, defaultTableRows, defaultTableCols)
	if err != nil {
		a.warn(ctx, err)
		return 1
	}
	values, err := a.store.ColumnValues(ctx, t, 1)
	if err != nil {
		a.warn(ctx, err)
		return 1
	}
	if len(values) <= 1 {
		return 1
	}

	pattern := regexp.MustCompile("^" + regexp.QuoteMeta(prefix) + `(\d{3})$`)
	max := 0
	for _, v := range values[1:] { // skip header
		m := pattern.FindStringSubmatch(strings.TrimSpace(v))
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max + 1
}

func (a *Allocator) warn(ctx context.Context, err error) {
	if a.logg == nil {
		return
	}
	ctx = a.logg.WithField(ctx, "error", err.Error())
	a.logg.Warn(ctx, "could not scan existing order numbers, falling back to 1")
}
