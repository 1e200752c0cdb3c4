package constants

// Ключи маршрутизации
const (
	RoutingKeyImportCompleted = "catalog.import.completed"
)

// Тип обменника отчетов об импорте
const (
	ReportsExchangeType = "topic"
)
