package orders

import (
	"github.com/ruancarvalho/pedidosync-backend/internal/sheets"
	"github.com/ruancarvalho/pedidosync-backend/pkg/enums"
)

// Sheet names inside the shared document.
const (
	TableOrders  = "Pedidos"
	TableItems   = "Itens"
	TableReadLog = "Leituras"
)

// Column names of the Pedidos sheet. Order matters: rows are written in
// exactly this sequence and the header is rewritten when it drifts.
const (
	ColNumber       = "Numero_Pedido"
	ColDate         = "Data"
	ColSerial       = "Serial"
	ColMachine      = "Maquina"
	ColStation      = "Posto"
	ColCoordinate   = "Coordenada"
	ColModel        = "Modelo"
	ColWorkOrder    = "OT"
	ColSemiFinished = "Semiacabado"
	ColPod          = "Pagoda"
	ColStatus       = "Status"
	ColUrgent       = "Urgente"
	ColUpdatedAt    = "Ultima_Atualizacao"
	ColUpdatedBy    = "Responsavel_Atualizacao"
	ColSeparationBy = "Responsavel_Separacao"
	ColSeparationAt = "Data_Separacao"
	ColCollectionBy = "Responsavel_Coleta"
	ColCollectionAt = "Data_Coleta"
	ColRequester    = "Solicitante"
	ColNotes        = "Observacoes"
)

// TimeFormat is how every timestamp cell is rendered.
const TimeFormat = "2006-01-02 15:04:05"

// OrderHeader is the canonical 20-column Pedidos header.
func OrderHeader() []string {
	return []string{
		ColNumber, ColDate, ColSerial, ColMachine, ColStation, ColCoordinate,
		ColModel, ColWorkOrder, ColSemiFinished, ColPod, ColStatus, ColUrgent,
		ColUpdatedAt, ColUpdatedBy, ColSeparationBy, ColSeparationAt,
		ColCollectionBy, ColCollectionAt, ColRequester, ColNotes,
	}
}

// ItemsHeader is the canonical Itens header.
func ItemsHeader() []string {
	return []string{ColNumber, ColSerial, "Quantidade"}
}

// ReadLogHeader is the canonical Leituras header.
func ReadLogHeader() []string {
	return []string{"Data_Leitura", "Codigo", "Operador", "Status", ColNumber}
}

// Order is one row of the Pedidos sheet. Identity fields are frozen at
// creation; only status, actor and timestamp fields mutate afterwards.
type Order struct {
	Number       string            `json:"number"`
	Date         string            `json:"date"`
	Serial       string            `json:"serial"`
	Machine      string            `json:"machine"`
	Station      string            `json:"station"`
	Coordinate   string            `json:"coordinate"`
	Model        string            `json:"model"`
	WorkOrder    string            `json:"work_order"`
	SemiFinished string            `json:"semi_finished"`
	Pod          string            `json:"pod"`
	Status       enums.OrderStatus `json:"status"`
	Urgent       enums.Urgency     `json:"urgent"`
	UpdatedAt    string            `json:"updated_at"`
	UpdatedBy    string            `json:"updated_by"`
	SeparationBy string            `json:"separation_by"`
	SeparationAt string            `json:"separation_at"`
	CollectionBy string            `json:"collection_by"`
	CollectionAt string            `json:"collection_at"`
	Requester    string            `json:"requester"`
	Notes        string            `json:"notes"`
}

func (o Order) row() []string {
	return []string{
		o.Number, o.Date, o.Serial, o.Machine, o.Station, o.Coordinate,
		o.Model, o.WorkOrder, o.SemiFinished, o.Pod, string(o.Status),
		string(o.Urgent), o.UpdatedAt, o.UpdatedBy, o.SeparationBy,
		o.SeparationAt, o.CollectionBy, o.CollectionAt, o.Requester, o.Notes,
	}
}

func orderFromRecord(rec sheets.Record) Order {
	return Order{
		Number:       rec[ColNumber],
		Date:         rec[ColDate],
		Serial:       rec[ColSerial],
		Machine:      rec[ColMachine],
		Station:      rec[ColStation],
		Coordinate:   rec[ColCoordinate],
		Model:        rec[ColModel],
		WorkOrder:    rec[ColWorkOrder],
		SemiFinished: rec[ColSemiFinished],
		Pod:          rec[ColPod],
		Status:       enums.OrderStatus(rec[ColStatus]),
		Urgent:       enums.Urgency(rec[ColUrgent]),
		UpdatedAt:    rec[ColUpdatedAt],
		UpdatedBy:    rec[ColUpdatedBy],
		SeparationBy: rec[ColSeparationBy],
		SeparationAt: rec[ColSeparationAt],
		CollectionBy: rec[ColCollectionBy],
		CollectionAt: rec[ColCollectionAt],
		Requester:    rec[ColRequester],
		Notes:        rec[ColNotes],
	}
}

// Item is one row of the Itens sheet; the scan flow always creates exactly
// one per order.
type Item struct {
	OrderNumber string `json:"order_number"`
	Serial      string `json:"serial"`
	Quantity    string `json:"quantity"`
}

func (i Item) row() []string {
	return []string{i.OrderNumber, i.Serial, i.Quantity}
}

func itemFromRecord(rec sheets.Record) Item {
	return Item{
		OrderNumber: rec[ColNumber],
		Serial:      rec[ColSerial],
		Quantity:    rec["Quantidade"],
	}
}

// ReadLogEntry is one append-only row of the Leituras audit sheet.
type ReadLogEntry struct {
	Timestamp   string
	Code        string
	Operator    string
	Outcome     string
	OrderNumber string
}

func (e ReadLogEntry) row() []string {
	return []string{e.Timestamp, e.Code, e.Operator, e.Outcome, e.OrderNumber}
}
