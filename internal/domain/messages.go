package domain

// Inbound es un mensaje de texto recibido por cualquier transporte.
type Inbound struct {
	SenderID string
	ChatID   string
	Text     string
}

// Outbound es una respuesta. ChatID vacío = chat por defecto del operador.
// Options, si no está vacío, es el teclado de selección única que acompaña al prompt.
type Outbound struct {
	ChatID  string
	Text    string
	Options []string
}
