package enums

// OrderStatus is the lifecycle stage of an order as stored in the Pedidos
// sheet. Values are the exact strings the dashboards filter on. Transitions
// are operator-driven; the system does not enforce an ordering.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDENTE"
	OrderStatusSeparation OrderStatus = "Em Separação"
	OrderStatusCollection OrderStatus = "Em Coleta"
	OrderStatusDone       OrderStatus = "Concluído"
)

// AllOrderStatuses lists every accepted status value.
func AllOrderStatuses() []OrderStatus {
	return []OrderStatus{
		OrderStatusPending,
		OrderStatusSeparation,
		OrderStatusCollection,
		OrderStatusDone,
	}
}

// Valid reports whether s is one of the accepted status values.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusSeparation, OrderStatusCollection, OrderStatusDone:
		return true
	}
	return false
}
