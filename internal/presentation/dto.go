// Package presentation maps registry records into the flat display form
// consumed by the TUI tabs, the CLI formatter, and the exporters.
package presentation

import (
	"fmt"
	"strings"
	"time"

	"github.com/rafaelsouza280292/consulta-cnpj/internal/cnpj"
	"github.com/rafaelsouza280292/consulta-cnpj/internal/registry"
)

// NotAvailable is the placeholder for fields absent from the payload.
const NotAvailable = "N/A"

// Field is one display-label/value pair.
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Section groups fields under a tab title.
type Section struct {
	Title  string  `json:"title"`
	Fields []Field `json:"fields"`
}

// Section titles, in tab order.
const (
	SectionGeneral       = "Informações Gerais"
	SectionAddress       = "Endereço"
	SectionActivities    = "Atividades"
	SectionMembers       = "Sócios"
	SectionRegistrations = "Inscrições"
)

// FromRecord builds the display sections for a record. Absent fields
// degrade to "N/A"; the mapping never fails. code is the canonical
// 14-digit key the record was fetched with.
func FromRecord(code string, record *registry.Record) []Section {
	general := Section{Title: SectionGeneral, Fields: []Field{
		{Label: "CNPJ", Value: cnpj.Format(code)},
		{Label: "Razão Social", Value: orNA(record.Company.Name)},
		{Label: "Nome Fantasia", Value: orNA(record.Alias)},
		{Label: "Data de Abertura", Value: formatDate(record.Founded)},
		{Label: "Situação Cadastral", Value: orNA(record.Status.Text)},
		{Label: "Capital Social", Value: formatEquity(record.Company.Equity)},
	}}

	address := Section{Title: SectionAddress, Fields: []Field{
		{Label: "Logradouro", Value: orNA(record.Address.Street)},
		{Label: "Número", Value: orNA(record.Address.Number)},
		{Label: "Bairro", Value: orNA(record.Address.District)},
		{Label: "Município", Value: orNA(record.Address.City)},
		{Label: "UF", Value: orNA(record.Address.State)},
		{Label: "CEP", Value: orNA(record.Address.Zip)},
	}}

	activities := Section{Title: SectionActivities, Fields: []Field{
		{Label: "Atividade Principal", Value: formatActivity(record.MainActivity)},
		{Label: "Atividades Secundárias", Value: formatSideActivities(record.SideActivities)},
	}}

	members := Section{Title: SectionMembers}
	if len(record.Company.Members) == 0 {
		members.Fields = []Field{{Label: "Sócios", Value: NotAvailable}}
	}
	for i, member := range record.Company.Members {
		value := orNA(member.Person.Name)
		if member.Role.Text != "" {
			value = fmt.Sprintf("%s (%s)", value, member.Role.Text)
		}
		members.Fields = append(members.Fields, Field{
			Label: fmt.Sprintf("Sócio %d", i+1),
			Value: value,
		})
	}

	registrations := Section{Title: SectionRegistrations}
	if len(record.Registrations) == 0 {
		registrations.Fields = []Field{{Label: "Inscrições Estaduais", Value: NotAvailable}}
	}
	for i, reg := range record.Registrations {
		status := "inativa"
		if reg.Enabled {
			status = "ativa"
		}
		value := fmt.Sprintf("%s - %s (%s)", orNA(reg.Number), orNA(reg.State), status)
		registrations.Fields = append(registrations.Fields, Field{
			Label: fmt.Sprintf("Inscrição %d", i+1),
			Value: value,
		})
	}

	return []Section{general, address, activities, members, registrations}
}

// Flatten concatenates all section fields in display order. Exporters
// consume this instead of re-deriving anything from the canonical code.
func Flatten(sections []Section) []Field {
	var fields []Field
	for _, section := range sections {
		fields = append(fields, section.Fields...)
	}
	return fields
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return NotAvailable
	}
	return s
}

// formatDate renders the payload's YYYY-MM-DD as DD/MM/YYYY. Anything
// unparseable is shown as-is rather than dropped.
func formatDate(founded string) string {
	if founded == "" {
		return NotAvailable
	}
	t, err := time.Parse("2006-01-02", founded)
	if err != nil {
		return founded
	}
	return t.Format("02/01/2006")
}

// formatEquity renders company capital in Brazilian currency notation.
func formatEquity(equity float64) string {
	if equity <= 0 {
		return NotAvailable
	}
	// Round to total cents first so fractions near a whole unit carry
	// into the whole part instead of rendering a three-digit cents field.
	total := int64(equity*100 + 0.5)
	whole := total / 100
	cents := total % 100

	digits := fmt.Sprintf("%d", whole)
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	return fmt.Sprintf("R$ %s,%02d", strings.Join(groups, "."), cents)
}

func formatActivity(activity registry.Activity) string {
	if activity.Text == "" && activity.ID == 0 {
		return NotAvailable
	}
	if activity.ID == 0 {
		return activity.Text
	}
	return fmt.Sprintf("%d - %s", activity.ID, orNA(activity.Text))
}

func formatSideActivities(activities []registry.Activity) string {
	if len(activities) == 0 {
		return NotAvailable
	}
	parts := make([]string, len(activities))
	for i, activity := range activities {
		parts[i] = formatActivity(activity)
	}
	return strings.Join(parts, "; ")
}
