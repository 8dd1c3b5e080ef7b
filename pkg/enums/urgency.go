package enums

// Urgency is the value of the Urgente column.
type Urgency string

const (
	UrgencyNo         Urgency = "Não"
	UrgencyYes        Urgency = "Sim"
	UrgencyDoneUrgent Urgency = "Concluido Urgente"
)
