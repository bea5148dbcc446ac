package repository

// Repos agrupa los repositorios ligados a una misma unidad de trabajo.
type Repos struct {
	Products  ProductRepository
	Prices    PriceHistoryRepository
	Inventory InventoryRepository
	Movements StockMovementRepository
	Sales     SalesRepository
	Refs      ReferenceRepository
}
