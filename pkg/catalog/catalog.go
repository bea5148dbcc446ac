// Package catalog lee el catálogo de referencia (categorías, estados, ubicaciones, personas,
// métodos de pago y usuarios) exportado en XML por el POS y lo convierte en SQL de semilla.
package catalog

import (
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Tipos de persona admitidos (códigos de person_categories).
const (
	KindSupplier = "SUPPLIER"
	KindCustomer = "CUSTOMER"
)

// Entry fila de catálogo con id y nombre.
type Entry struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"nombre,attr"`
}

// Location ubicación física de inventario.
type Location struct {
	Entry
	Address string `xml:"direccion,attr"`
}

// Person proveedor o cliente.
type Person struct {
	Entry
	Document string `xml:"documento,attr"`
	Kind     string `xml:"tipo,attr"`
}

// Catalog contenido completo del archivo.
type Catalog struct {
	XMLName        xml.Name   `xml:"catalogo"`
	Categories     []Entry    `xml:"categorias>categoria"`
	States         []Entry    `xml:"estados>estado"`
	Locations      []Location `xml:"ubicaciones>ubicacion"`
	Persons        []Person   `xml:"personas>persona"`
	PaymentMethods []Entry    `xml:"metodos_pago>metodo"`
	Users          []Entry    `xml:"usuarios>usuario"`
}

// Decode lee el XML. Acepta UTF-8, ISO-8859-1 y Windows-1252 según la declaración del archivo.
func Decode(r io.Reader) (*Catalog, error) {
	var c Catalog
	dec := xml.NewDecoder(r)
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		switch strings.ToLower(charset) {
		case "iso-8859-1", "iso8859-1", "latin1":
			return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
		case "windows-1252", "cp1252":
			return transform.NewReader(input, charmap.Windows1252.NewDecoder()), nil
		case "utf-8", "utf8", "":
			return input, nil
		}
		return nil, fmt.Errorf("charset no soportado %q", charset)
	}
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decodificar catálogo: %w", err)
	}
	c.normalize()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) normalize() {
	trim := func(e *Entry) {
		e.ID = strings.ToLower(strings.TrimSpace(e.ID))
		e.Name = strings.TrimSpace(e.Name)
	}
	for _, list := range [][]Entry{c.Categories, c.States, c.PaymentMethods, c.Users} {
		for i := range list {
			trim(&list[i])
		}
	}
	for i := range c.Locations {
		trim(&c.Locations[i].Entry)
		c.Locations[i].Address = strings.TrimSpace(c.Locations[i].Address)
	}
	for i := range c.Persons {
		trim(&c.Persons[i].Entry)
		c.Persons[i].Document = strings.TrimSpace(c.Persons[i].Document)
		c.Persons[i].Kind = strings.ToUpper(strings.TrimSpace(c.Persons[i].Kind))
	}
}

// Validate exige ids uuid únicos y nombres no vacíos.
func (c *Catalog) Validate() error {
	seen := map[string]string{}
	check := func(section string, e Entry) error {
		if _, err := uuid.Parse(e.ID); err != nil {
			return fmt.Errorf("catálogo: %s con id inválido %q", section, e.ID)
		}
		if e.Name == "" {
			return fmt.Errorf("catálogo: %s %s sin nombre", section, e.ID)
		}
		key := section + ":" + e.ID
		if _, dup := seen[key]; dup {
			return fmt.Errorf("catálogo: %s %s duplicado", section, e.ID)
		}
		seen[key] = e.Name
		return nil
	}
	for _, e := range c.Categories {
		if err := check("categoria", e); err != nil {
			return err
		}
	}
	for _, e := range c.States {
		if err := check("estado", e); err != nil {
			return err
		}
	}
	for _, l := range c.Locations {
		if err := check("ubicacion", l.Entry); err != nil {
			return err
		}
	}
	for _, p := range c.Persons {
		if err := check("persona", p.Entry); err != nil {
			return err
		}
		if p.Kind != KindSupplier && p.Kind != KindCustomer {
			return fmt.Errorf("catálogo: persona %s con tipo %q (SUPPLIER|CUSTOMER)", p.ID, p.Kind)
		}
	}
	for _, e := range c.PaymentMethods {
		if err := check("metodo", e); err != nil {
			return err
		}
	}
	for _, e := range c.Users {
		if err := check("usuario", e); err != nil {
			return err
		}
	}
	return nil
}

// Suppliers personas de tipo SUPPLIER.
func (c *Catalog) Suppliers() []Person {
	var out []Person
	for _, p := range c.Persons {
		if p.Kind == KindSupplier {
			out = append(out, p)
		}
	}
	return out
}

// WriteSQL escribe una migración goose (Up/Down) idempotente con el contenido del catálogo.
// Los usuarios no se incluyen: su alta requiere un hash de contraseña.
func (c *Catalog) WriteSQL(w io.Writer) error {
	var b strings.Builder
	b.WriteString("-- Generado por cmd/seed_catalog. No editar a mano.\n")
	b.WriteString("-- +goose Up\n")

	writeEntries(&b, "product_categories", "id, name", sortedEntries(c.Categories), func(e Entry) string {
		return fmt.Sprintf("('%s', '%s')", e.ID, escapeSQL(e.Name))
	}, "name = EXCLUDED.name")
	writeEntries(&b, "states", "id, name", sortedEntries(c.States), func(e Entry) string {
		return fmt.Sprintf("('%s', '%s')", e.ID, escapeSQL(e.Name))
	}, "name = EXCLUDED.name")
	writeEntries(&b, "payment_methods", "id, name", sortedEntries(c.PaymentMethods), func(e Entry) string {
		return fmt.Sprintf("('%s', '%s')", e.ID, escapeSQL(e.Name))
	}, "name = EXCLUDED.name")

	locs := append([]Location(nil), c.Locations...)
	sort.Slice(locs, func(i, j int) bool { return locs[i].ID < locs[j].ID })
	if len(locs) > 0 {
		b.WriteString("INSERT INTO locations (id, name, address) VALUES\n")
		for i, l := range locs {
			fmt.Fprintf(&b, "    ('%s', '%s', '%s')%s\n", l.ID, escapeSQL(l.Name), escapeSQL(l.Address), sep(i, len(locs)))
		}
		b.WriteString("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, address = EXCLUDED.address;\n\n")
	}

	persons := append([]Person(nil), c.Persons...)
	sort.Slice(persons, func(i, j int) bool { return persons[i].ID < persons[j].ID })
	for _, p := range persons {
		b.WriteString("INSERT INTO persons (id, name, document, person_category_id)\n")
		fmt.Fprintf(&b, "SELECT '%s', '%s', '%s', id FROM person_categories WHERE code = '%s'\n",
			p.ID, escapeSQL(p.Name), escapeSQL(p.Document), p.Kind)
		b.WriteString("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, document = EXCLUDED.document;\n")
	}

	b.WriteString("\n-- +goose Down\n")
	writeDelete(&b, "persons", idsOfPersons(persons))
	writeDelete(&b, "locations", idsOfLocations(locs))
	writeDelete(&b, "payment_methods", idsOf(c.PaymentMethods))
	writeDelete(&b, "states", idsOf(c.States))
	writeDelete(&b, "product_categories", idsOf(c.Categories))

	_, err := io.WriteString(w, b.String())
	return err
}

func writeEntries(b *strings.Builder, table, cols string, list []Entry, row func(Entry) string, update string) {
	if len(list) == 0 {
		return
	}
	fmt.Fprintf(b, "INSERT INTO %s (%s) VALUES\n", table, cols)
	for i, e := range list {
		fmt.Fprintf(b, "    %s%s\n", row(e), sep(i, len(list)))
	}
	fmt.Fprintf(b, "ON CONFLICT (id) DO UPDATE SET %s;\n\n", update)
}

func writeDelete(b *strings.Builder, table string, ids []string) {
	if len(ids) == 0 {
		return
	}
	fmt.Fprintf(b, "DELETE FROM %s WHERE id IN ('%s');\n", table, strings.Join(ids, "', '"))
}

func sortedEntries(list []Entry) []Entry {
	out := append([]Entry(nil), list...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func idsOf(list []Entry) []string {
	out := make([]string, 0, len(list))
	for _, e := range sortedEntries(list) {
		out = append(out, e.ID)
	}
	return out
}

func idsOfLocations(list []Location) []string {
	out := make([]string, 0, len(list))
	for _, l := range list {
		out = append(out, l.ID)
	}
	return out
}

func idsOfPersons(list []Person) []string {
	out := make([]string, 0, len(list))
	for _, p := range list {
		out = append(out, p.ID)
	}
	return out
}

func sep(i, n int) string {
	if i < n-1 {
		return ","
	}
	return ""
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
