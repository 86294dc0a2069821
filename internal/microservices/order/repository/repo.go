package repository

type Repository struct {
	OrderRepo OrderRepositoryInterface
}

// New builds the repositories over db. A nil db yields no-op repositories.
func New(db DB) *Repository {
	if db == nil {
		return &Repository{OrderRepo: NopOrderRepository{}}
	}
	return &Repository{
		OrderRepo: NewOrderRepository(db),
	}
}
