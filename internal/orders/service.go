package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/ruancarvalho/pedidosync-backend/internal/catalog"
	"github.com/ruancarvalho/pedidosync-backend/pkg/enums"
	"github.com/ruancarvalho/pedidosync-backend/pkg/errors"
	"github.com/ruancarvalho/pedidosync-backend/pkg/logger"
)

type orderRepo interface {
	AppendOrder(ctx context.Context, o Order, it Item) error
	List(ctx context.Context) ([]Order, error)
	FindOrder(ctx context.Context, number string) (*Order, error)
	ItemsFor(ctx context.Context, number string) ([]Item, error)
	UpdateStatus(ctx context.Context, number string, status enums.OrderStatus, actor string, urgentDone bool, now time.Time) error
	AppendReadLog(ctx context.Context, e ReadLogEntry) error
}

type catalogLookup interface {
	Lookup(ctx context.Context, code string) (*catalog.Item, error)
}

type idAllocator interface {
	NextID(ctx context.Context, prefix string) int
}

// Result is the outcome of an order mutation, shaped for direct display:
// machine operators see Message, programs branch on OK and Code.
type Result struct {
	OK      bool
	Message string
	Code    errors.Code
}

// ScanResult is the outcome of a component scan.
type ScanResult struct {
	OK          bool
	Message     string
	OrderNumber string
	Code        errors.Code
}

// Detail is an order together with its item rows.
type Detail struct {
	Order Order  `json:"order"`
	Items []Item `json:"items"`
}

// Service implements the scan-to-order workflow on top of the repository,
// the reference catalog and the sequence allocator.
type Service struct {
	repo    orderRepo
	catalog catalogLookup
	seq     idAllocator
	prefix  string
	logg    *logger.Logger
	now     func() time.Time
}

func NewService(repo orderRepo, cat catalogLookup, seq idAllocator, prefix string, logg *logger.Logger) *Service {
	return &Service{
		repo:    repo,
		catalog: cat,
		seq:     seq,
		prefix:  prefix,
		logg:    logg,
		now:     time.Now,
	}
}

// scanNotes goes into Observacoes on every scan-created order so manual
// entries stay distinguishable on the dashboard.
const scanNotes = "Pedido gerado automaticamente via leitura de código de barras"

// Create mints the next order number and appends the order and its single
// item row. The returned order reflects exactly what was written.
func (s *Service) Create(ctx context.Context, item catalog.Item, requester string, urgent bool, notes string) (Order, error) {
	n := s.seq.NextID(ctx, s.prefix)
	number := fmt.Sprintf("%s%03d", s.prefix, n)
	stamp := s.now().Format(TimeFormat)

	urgency := enums.UrgencyNo
	if urgent {
		urgency = enums.UrgencyYes
	}
	o := Order{
		Number:       number,
		Date:         stamp,
		Serial:       item.Serial,
		Machine:      item.Machine,
		Station:      item.Station,
		Coordinate:   item.Coordinate,
		Model:        item.Model,
		WorkOrder:    item.WorkOrder,
		SemiFinished: item.SemiFinished,
		Pod:          item.Pod,
		Status:       enums.OrderStatusPending,
		Urgent:       urgency,
		UpdatedAt:    stamp,
		UpdatedBy:    requester,
		Requester:    requester,
		Notes:        notes,
	}
	it := Item{OrderNumber: number, Serial: item.Serial, Quantity: "1"}
	if err := s.repo.AppendOrder(ctx, o, it); err != nil {
		return Order{}, err
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithOrderNumber(ctx, number), "order created")
	}
	return o, nil
}

// List returns every order in sheet order.
func (s *Service) List(ctx context.Context) ([]Order, error) {
	return s.repo.List(ctx)
}

// Detail returns the order and its items, or (nil, nil) when the number is
// unknown.
func (s *Service) Detail(ctx context.Context, number string) (*Detail, error) {
	o, err := s.repo.FindOrder(ctx, number)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, nil
	}
	items, err := s.repo.ItemsFor(ctx, number)
	if err != nil {
		return nil, err
	}
	return &Detail{Order: *o, Items: items}, nil
}

// UpdateStatus moves an order forward and reports the outcome as a
// display-ready result instead of an error chain. urgentDone additionally
// closes out the urgency marker on the row.
func (s *Service) UpdateStatus(ctx context.Context, number string, status enums.OrderStatus, actor string, urgentDone bool) Result {
	if !status.Valid() {
		return Result{
			OK:      false,
			Message: fmt.Sprintf("status inválido: %s", status),
			Code:    errors.CodeValidation,
		}
	}
	if err := s.repo.UpdateStatus(ctx, number, status, actor, urgentDone, s.now()); err != nil {
		return Result{OK: false, Message: resultMessage(err), Code: resultCode(err)}
	}
	return Result{OK: true, Message: fmt.Sprintf("Pedido %s atualizado para %s", number, status)}
}

// RegisterScan is the whole scan flow: resolve the code against the
// reference catalog, create the order on a hit, and record the attempt in
// the read log either way. Read-log failures never mask the scan outcome.
// The operator goes into the read log verbatim; requester becomes the order
// Solicitante and defaults to the operator when empty.
func (s *Service) RegisterScan(ctx context.Context, code, operator, requester string) ScanResult {
	code = catalog.Normalize(code)
	if requester == "" {
		requester = operator
	}
	stamp := s.now().Format(TimeFormat)
	ctx = s.withOperator(ctx, operator)

	item, err := s.catalog.Lookup(ctx, code)
	if err != nil {
		msg := resultMessage(err)
		s.logRead(ctx, ReadLogEntry{
			Timestamp: stamp, Code: code, Operator: operator,
			Outcome: "ERRO - " + msg,
		})
		return ScanResult{OK: false, Message: msg, Code: resultCode(err)}
	}
	if item == nil {
		s.logRead(ctx, ReadLogEntry{
			Timestamp: stamp, Code: code, Operator: operator,
			Outcome: "ERRO - Item não encontrado",
		})
		return ScanResult{OK: false, Message: "Item não encontrado", Code: errors.CodeNotFound}
	}

	o, err := s.Create(ctx, *item, requester, false, scanNotes)
	if err != nil {
		msg := resultMessage(err)
		s.logRead(ctx, ReadLogEntry{
			Timestamp: stamp, Code: code, Operator: operator,
			Outcome: "ERRO - " + msg,
		})
		return ScanResult{OK: false, Message: msg, Code: resultCode(err)}
	}

	s.logRead(ctx, ReadLogEntry{
		Timestamp: stamp, Code: code, Operator: operator,
		Outcome: "SUCESSO - Pedido gerado", OrderNumber: o.Number,
	})
	return ScanResult{
		OK:          true,
		Message:     fmt.Sprintf("Pedido %s gerado", o.Number),
		OrderNumber: o.Number,
	}
}

func (s *Service) logRead(ctx context.Context, e ReadLogEntry) {
	if err := s.repo.AppendReadLog(ctx, e); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "read log append failed")
	}
}

func (s *Service) withOperator(ctx context.Context, operator string) context.Context {
	if s.logg == nil {
		return ctx
	}
	return s.logg.WithOperator(ctx, operator)
}

func resultCode(err error) errors.Code {
	if typed := errors.As(err); typed != nil {
		return typed.Code()
	}
	return errors.CodeInternal
}

// resultMessage keeps caller-caused messages verbatim (they name the order
// or field at fault) and replaces backend faults with the safe public text.
func resultMessage(err error) string {
	if typed := errors.As(err); typed != nil {
		switch typed.Code() {
		case errors.CodeNotFound, errors.CodeValidation, errors.CodeConflict:
			return typed.Message()
		}
	}
	return errors.MetadataFor(resultCode(err)).PublicMessage
}
