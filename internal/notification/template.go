package notification

import (
	"bytes"
	"html/template"
	"time"
)

var emailTemplate = template.Must(template.New("ticket_created").Parse(`<!DOCTYPE html>
<html lang="es">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="margin: 0; padding: 0; font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background-color: #f4f4f4;">
    <table role="presentation" style="width: 100%; border-collapse: collapse;">
        <tr>
            <td style="padding: 40px 0; text-align: center; background: linear-gradient(135deg, #667eea 0%, #764ba2 100%);">
                <h1 style="color: #ffffff; margin: 0; font-size: 28px;">📦 Ticket Creado Exitosamente</h1>
            </td>
        </tr>
        <tr>
            <td style="padding: 40px 30px; background-color: #ffffff;">
                <p style="font-size: 16px; color: #333333; margin: 0 0 20px 0;">Hola <strong>{{.Nombre}}</strong>,</p>
                <p style="font-size: 16px; color: #333333; margin: 0 0 20px 0;">Tu ticket ha sido creado exitosamente. A continuación encontrarás los detalles de tu solicitud:</p>
                <table style="width: 100%; border-collapse: collapse; margin: 20px 0; background-color: #f8f9fa; border-radius: 8px;">
                    <tr>
                        <td style="padding: 15px; border-bottom: 1px solid #e9ecef;"><strong style="color: #667eea;">🎫 ID del Ticket:</strong></td>
                        <td style="padding: 15px; border-bottom: 1px solid #e9ecef; font-size: 18px; font-weight: bold; color: #333;">{{.TicketID}}</td>
                    </tr>
                    <tr>
                        <td style="padding: 15px; border-bottom: 1px solid #e9ecef;"><strong style="color: #667eea;">📋 Tipo de Incidencia:</strong></td>
                        <td style="padding: 15px; border-bottom: 1px solid #e9ecef; color: #333;">{{.Category}}</td>
                    </tr>
                    <tr>
                        <td style="padding: 15px; border-bottom: 1px solid #e9ecef;"><strong style="color: #667eea;">📦 Número de Guía:</strong></td>
                        <td style="padding: 15px; border-bottom: 1px solid #e9ecef; color: #333;">{{.Guia}}</td>
                    </tr>
                    <tr>
                        <td style="padding: 15px; border-bottom: 1px solid #e9ecef;"><strong style="color: #667eea;">⚡ Prioridad:</strong></td>
                        <td style="padding: 15px; border-bottom: 1px solid #e9ecef;">
                            <span style="background-color: {{.PriorityColor}}; color: white; padding: 4px 12px; border-radius: 12px; font-size: 12px;">{{.Prioridad}}</span>
                        </td>
                    </tr>
                    <tr>
                        <td style="padding: 15px;" colspan="2">
                            <strong style="color: #667eea;">📝 Descripción:</strong>
                            <p style="margin: 10px 0 0 0; color: #555; line-height: 1.6;">{{.Descripcion}}</p>
                        </td>
                    </tr>
                </table>
                <p style="font-size: 14px; color: #666666; margin: 20px 0 0 0;">Nuestro equipo está trabajando en tu solicitud. Te contactaremos pronto con actualizaciones.</p>
            </td>
        </tr>
        <tr>
            <td style="padding: 30px; background-color: #333333; text-align: center;">
                <p style="color: #ffffff; margin: 0; font-size: 14px;">© {{.Year}} Grupo AMPM. Todos los derechos reservados.</p>
                <p style="color: #999999; margin: 10px 0 0 0; font-size: 12px;">Este es un correo automático, por favor no responda a este mensaje.</p>
            </td>
        </tr>
    </table>
</body>
</html>
`))

type emailView struct {
	TicketID      string
	Category      string
	Nombre        string
	Guia          string
	Prioridad     string
	PriorityColor template.CSS
	Descripcion   string
	Year          int
}

// RenderHTML renders the confirmation body. User-provided fields are escaped.
func RenderHTML(msg Message, now time.Time) (string, error) {
	view := emailView{
		TicketID:      msg.TicketID,
		Category:      msg.Category,
		Nombre:        orDefault(msg.Nombre, "Estimado Cliente"),
		Guia:          orDefault(msg.Guia, "N/A"),
		Prioridad:     orDefault(msg.Prioridad, "Normal"),
		PriorityColor: priorityColor(msg.Prioridad),
		Descripcion:   orDefault(msg.Descripcion, "Sin descripción adicional"),
		Year:          now.Year(),
	}
	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, view); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func priorityColor(p string) template.CSS {
	switch p {
	case "Urgente":
		return "#dc3545"
	case "Alta":
		return "#fd7e14"
	default:
		return "#28a745"
	}
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
