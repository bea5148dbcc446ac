package catalog

// Default catálogo mínimo para ejecutar en memoria sin archivo de semilla.
// Estados y métodos de pago coinciden con la migración de datos de referencia.
func Default() *Catalog {
	return &Catalog{
		Categories: []Entry{
			{ID: "6f1c2a9e-0004-4000-8000-000000000001", Name: "General"},
		},
		States: []Entry{
			{ID: "6f1c2a9e-0002-4000-8000-000000000001", Name: "Activo"},
			{ID: "6f1c2a9e-0002-4000-8000-000000000002", Name: "Inactivo"},
		},
		Locations: []Location{
			{Entry: Entry{ID: "6f1c2a9e-0005-4000-8000-000000000001", Name: "Principal"}},
		},
		Persons: []Person{
			{Entry: Entry{ID: "6f1c2a9e-0006-4000-8000-000000000001", Name: "Proveedor General"}, Kind: KindSupplier},
			{Entry: Entry{ID: "6f1c2a9e-0006-4000-8000-000000000002", Name: "Consumidor Final"}, Document: "222222222222", Kind: KindCustomer},
		},
		PaymentMethods: []Entry{
			{ID: "6f1c2a9e-0003-4000-8000-000000000001", Name: "Efectivo"},
			{ID: "6f1c2a9e-0003-4000-8000-000000000002", Name: "Tarjeta"},
		},
	}
}
