package domain

import (
	"fmt"
	"strings"
)

// TicketType describes a recognized delivery-issue category.
type TicketType struct {
	Key          string `yaml:"key"`
	DisplayName  string `yaml:"display_name"`
	Abbreviation string `yaml:"abbreviation"`
}

// DefaultTicketTypes is the built-in category set. Display names must match
// the sheet titles of the configured row store.
var DefaultTicketTypes = []TicketType{
	{Key: "retraso_entrega", DisplayName: "Retraso de entrega", Abbreviation: "RE"},
	{Key: "agilizacion_entrega", DisplayName: "Agilización de entrega", Abbreviation: "AG"},
	{Key: "visita_falso", DisplayName: "Visita en falso", Abbreviation: "VF"},
	{Key: "dnr", DisplayName: "DNR", Abbreviation: "DNR"},
	{Key: "paquete_no_deseado", DisplayName: "Paquete no deseado", Abbreviation: "PND"},
	{Key: "envio_sin_actualizacion", DisplayName: "Envío sin actualización", Abbreviation: "ESA"},
	{Key: "entrega_erronea", DisplayName: "Entrega errónea", Abbreviation: "EE"},
	{Key: "paquete_danado", DisplayName: "Paquete dañado", Abbreviation: "PD"},
	{Key: "sustraccion", DisplayName: "Sustracción", Abbreviation: "SUS"},
	{Key: "queja_operador", DisplayName: "Queja al operador", Abbreviation: "QO"},
}

// Registry is an immutable lookup of ticket types by key.
type Registry struct {
	ordered []TicketType
	byKey   map[string]TicketType
}

// NewRegistry validates the given types and builds a registry preserving their order.
func NewRegistry(types []TicketType) (*Registry, error) {
	if len(types) == 0 {
		return nil, fmt.Errorf("ticket type registry is empty")
	}
	reg := &Registry{
		ordered: make([]TicketType, 0, len(types)),
		byKey:   make(map[string]TicketType, len(types)),
	}
	names := make(map[string]struct{}, len(types))
	for i, t := range types {
		t.Key = strings.TrimSpace(t.Key)
		t.DisplayName = strings.TrimSpace(t.DisplayName)
		t.Abbreviation = strings.TrimSpace(t.Abbreviation)
		if t.Key == "" || t.DisplayName == "" || t.Abbreviation == "" {
			return nil, fmt.Errorf("ticket type #%d: key, display_name and abbreviation are required", i+1)
		}
		if _, dup := reg.byKey[t.Key]; dup {
			return nil, fmt.Errorf("ticket type %q declared twice", t.Key)
		}
		if _, dup := names[t.DisplayName]; dup {
			return nil, fmt.Errorf("display name %q used by more than one ticket type", t.DisplayName)
		}
		names[t.DisplayName] = struct{}{}
		reg.byKey[t.Key] = t
		reg.ordered = append(reg.ordered, t)
	}
	return reg, nil
}

// DefaultRegistry returns a registry over DefaultTicketTypes.
func DefaultRegistry() *Registry {
	reg, err := NewRegistry(DefaultTicketTypes)
	if err != nil {
		panic(err)
	}
	return reg
}

// Resolve looks a type up by key.
func (r *Registry) Resolve(key string) (TicketType, bool) {
	t, ok := r.byKey[key]
	return t, ok
}

// Types returns the registered types in declaration order.
func (r *Registry) Types() []TicketType {
	return append([]TicketType(nil), r.ordered...)
}

// DisplayNames returns the category names, which double as sheet titles.
func (r *Registry) DisplayNames() []string {
	names := make([]string, len(r.ordered))
	for i, t := range r.ordered {
		names[i] = t.DisplayName
	}
	return names
}
