package dto

import "github.com/spec-kit/delivery-issue-api/internal/domain"

// ContactRequest holds optional customer contact details.
type ContactRequest struct {
	Nombre   string `json:"nombre"`
	Telefono string `json:"telefono"`
	Correo   string `json:"correo"`
}

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Type           string          `json:"type"`
	Guia           string          `json:"guia"`
	Contacto       *ContactRequest `json:"contacto"`
	CedisDestino   string          `json:"cedis_destino"`
	AgenteAsignado string          `json:"agente_asignado"`
	Descripcion    string          `json:"descripcion"`
	Prioridad      string          `json:"prioridad"`
}

// ToDomain converts the payload; an absent contacto yields empty contact fields.
func (r CreateTicketRequest) ToDomain() domain.TicketRequest {
	req := domain.TicketRequest{
		Type:           r.Type,
		Guia:           r.Guia,
		CedisDestino:   r.CedisDestino,
		AgenteAsignado: r.AgenteAsignado,
		Descripcion:    r.Descripcion,
		Prioridad:      r.Prioridad,
	}
	if r.Contacto != nil {
		req.Contact = domain.Contact{
			Nombre:   r.Contacto.Nombre,
			Telefono: r.Contacto.Telefono,
			Correo:   r.Contacto.Correo,
		}
	}
	return req
}

// CreateTicketResponse is returned for every created ticket.
type CreateTicketResponse struct {
	Message      string `json:"message"`
	Type         string `json:"type"`
	Sheet        string `json:"sheet"`
	IDTicket     string `json:"id_ticket"`
	EmailSent    bool   `json:"email_sent"`
	EmailMessage string `json:"email_message"`
}

// ErrorResponse is the body of every 4xx/5xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
