package repository

// Tx agrupa los repositorios atados a una misma transacción de BD.
type Tx struct {
	Requests  StockOutRequestRepository
	LineItems LineItemRepository
	Approvals ApprovalRepository
	Movements MovementRepository
}
