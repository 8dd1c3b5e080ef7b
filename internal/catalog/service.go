package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/ruancarvalho/pedidosync-backend/internal/sheets"
	pkgerrors "github.com/ruancarvalho/pedidosync-backend/pkg/errors"
	"github.com/ruancarvalho/pedidosync-backend/pkg/logger"
)

// TableName is the reference catalog sheet. The name is historical; the
// external catalog process overwrites the whole sheet on its own schedule.
const TableName = "paco"

// Item is one physical component from the reference catalog. Read-only for
// this system; the catalog process owns the lifecycle.
type Item struct {
	Serial       string `json:"serial"`
	Machine      string `json:"machine"`
	Station      string `json:"station"`
	Coordinate   string `json:"coordinate"`
	Model        string `json:"model"`
	WorkOrder    string `json:"work_order"`
	SemiFinished string `json:"semi_finished"`
	Pod          string `json:"pod"`
}

type sheetStore interface {
	GetOrCreateTable(ctx context.Context, title string, minRows, minCols int64) (sheets.Table, error)
	ReadAllRecords(ctx context.Context, t sheets.Table) ([]sheets.Record, error)
	OverwriteTable(ctx context.Context, t sheets.Table, rows [][]string) error
	FormatHeader(ctx context.Context, t sheets.Table) error
}

type Service struct {
	store sheetStore
	logg  *logger.Logger
}

func NewService(store sheetStore, logg *logger.Logger) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("sheet store required")
	}
	return &Service{store: store, logg: logg}, nil
}

// Normalize maps a scanned code to its lookup form: trimmed and uppercased.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Lookup resolves a scanned code to a catalog item. A miss returns (nil, nil);
// only backend failures produce an error. Every call re-reads the sheet.
func (s *Service) Lookup(ctx context.Context, code string) (*Item, error) {
	t, err := s.store.GetOrCreateTable(ctx, TableName, 100, 20)
	if err != nil {
		return nil, err
	}
	records, err := s.store.ReadAllRecords(ctx, t)
	if err != nil {
		return nil, err
	}

	norm := Normalize(code)
	if norm == "" {
		return nil, nil
	}
	for _, rec := range records {
		serial := Normalize(rec["Serial"])
		if serial != "" && serial == norm {
			return &Item{
				Serial:       strings.TrimSpace(rec["Serial"]),
				Machine:      strings.TrimSpace(rec["Maquina"]),
				Station:      strings.TrimSpace(rec["Posto"]),
				Coordinate:   strings.TrimSpace(rec["Coordenada"]),
				Model:        strings.TrimSpace(rec["Modelo"]),
				WorkOrder:    strings.TrimSpace(rec["OT"]),
				SemiFinished: strings.TrimSpace(rec["Semiacabado"]),
				Pod:          strings.TrimSpace(rec["Pagoda"]),
			}, nil
		}
	}
	return nil, nil
}

// Refresh overwrites the whole catalog sheet with the rows of a local CSV
// export. This is the only code path that clears remote content.
func (s *Service) Refresh(ctx context.Context, csvPath string) error {
	f, err := os.Open(csvPath)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("reading catalog file %q", csvPath))
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("parsing catalog file %q", csvPath))
	}
	if len(rows) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "catalog file has no rows")
	}

	t, err := s.store.GetOrCreateTable(ctx, TableName, int64(len(rows))+100, int64(len(rows[0]))+5)
	if err != nil {
		return err
	}
	if err := s.store.OverwriteTable(ctx, t, rows); err != nil {
		return err
	}
	if err := s.store.FormatHeader(ctx, t); err != nil && s.logg != nil {
		ctx = s.logg.WithField(ctx, "error", err.Error())
		s.logg.Warn(ctx, "catalog header formatting failed, content was written")
	}
	return nil
}
