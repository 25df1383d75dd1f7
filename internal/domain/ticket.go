package domain

import "time"

// DefaultPriority is applied when a submission carries no priority label.
const DefaultPriority = "Urgente"

// CreatedAtLayout renders creation timestamps in UTC with millisecond precision.
const CreatedAtLayout = "2006-01-02T15:04:05.000Z"

// Row column names, in the order they appear on every category sheet.
const (
	ColumnGuia         = "Guia"
	ColumnNombre       = "Nombre Contacto"
	ColumnTelefono     = "Telefono Contacto"
	ColumnCorreo       = "Correo Contacto"
	ColumnCedisDestino = "Cedis Destino"
	ColumnAgente       = "Agente Asignado"
	ColumnDescripcion  = "Descripcion"
	ColumnPrioridad    = "Prioridad"
	ColumnFecha        = "Fecha Creacion"
	ColumnTicketID     = "ID_TICKET"
)

// Columns lists the canonical header row of a category sheet.
var Columns = []string{
	ColumnGuia,
	ColumnNombre,
	ColumnTelefono,
	ColumnCorreo,
	ColumnCedisDestino,
	ColumnAgente,
	ColumnDescripcion,
	ColumnPrioridad,
	ColumnFecha,
	ColumnTicketID,
}

// Contact holds the optional customer contact details of a submission.
type Contact struct {
	Nombre   string
	Telefono string
	Correo   string
}

// TicketRequest is an inbound delivery-issue submission.
type TicketRequest struct {
	Type           string
	Guia           string
	Contact        Contact
	CedisDestino   string
	AgenteAsignado string
	Descripcion    string
	Prioridad      string
}

// TicketRecord is the normalized row appended to a category sheet.
type TicketRecord struct {
	TicketID       string
	Guia           string
	Contact        Contact
	CedisDestino   string
	AgenteAsignado string
	Descripcion    string
	Prioridad      string
	CreatedAt      time.Time
}

// NewTicketRecord flattens a request into a row stamped with id and creation time.
func NewTicketRecord(req TicketRequest, ticketID string, now time.Time) TicketRecord {
	priority := req.Prioridad
	if priority == "" {
		priority = DefaultPriority
	}
	return TicketRecord{
		TicketID:       ticketID,
		Guia:           req.Guia,
		Contact:        req.Contact,
		CedisDestino:   req.CedisDestino,
		AgenteAsignado: req.AgenteAsignado,
		Descripcion:    req.Descripcion,
		Prioridad:      priority,
		CreatedAt:      now.UTC(),
	}
}

// Fields returns the record keyed by column name.
func (r TicketRecord) Fields() map[string]string {
	return map[string]string{
		ColumnGuia:         r.Guia,
		ColumnNombre:       r.Contact.Nombre,
		ColumnTelefono:     r.Contact.Telefono,
		ColumnCorreo:       r.Contact.Correo,
		ColumnCedisDestino: r.CedisDestino,
		ColumnAgente:       r.AgenteAsignado,
		ColumnDescripcion:  r.Descripcion,
		ColumnPrioridad:    r.Prioridad,
		ColumnFecha:        r.CreatedAt.UTC().Format(CreatedAtLayout),
		ColumnTicketID:     r.TicketID,
	}
}

// Values returns the record's cells ordered by the given header row.
// Headers that do not name a known column yield an empty cell.
func (r TicketRecord) Values(headers []string) []string {
	fields := r.Fields()
	values := make([]string, len(headers))
	for i, h := range headers {
		values[i] = fields[h]
	}
	return values
}
