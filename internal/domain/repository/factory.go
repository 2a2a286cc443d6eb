package repository

// Factory describes access to the domain repositories of a storage backend.
type Factory interface {
	Accruals() AccrualRepository
	Redemptions() RedemptionRepository
}
