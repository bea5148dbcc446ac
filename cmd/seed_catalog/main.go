// seed_catalog genera una migración SQL con el catálogo de referencia (categorías, estados,
// ubicaciones, proveedores, clientes y métodos de pago) a partir del XML exportado por el POS.
//
// Uso: go run ./cmd/seed_catalog [ruta/catalogo.xml]
// Por defecto busca catalogo.xml en el directorio actual.
// Escribe: pkg/migrate/migrations/<YYYYMMDDHHMMSS>_seed_catalog.sql
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jhoicas/pos-ledger/pkg/catalog"
)

func main() {
	xmlPath := "catalogo.xml"
	if len(os.Args) > 1 {
		xmlPath = os.Args[1]
	}
	f, err := os.Open(xmlPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir XML: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	c, err := catalog.Decode(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Decodificar catálogo: %v\n", err)
		os.Exit(1)
	}

	name := time.Now().UTC().Format("20060102150405") + "_seed_catalog.sql"
	outPath := filepath.Join(findModuleRoot(), "pkg", "migrate", "migrations", name)
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := c.WriteSQL(out); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generado %s: %d categorías, %d ubicaciones, %d personas (%d proveedores), %d métodos de pago\n",
		outPath, len(c.Categories), len(c.Locations), len(c.Persons), len(c.Suppliers()), len(c.PaymentMethods))
	if len(c.Users) > 0 {
		fmt.Printf("Omitidos %d usuarios: se dan de alta con contraseña, no por semilla\n", len(c.Users))
	}
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
