// Copyright (C) 2024 the quixsi maintainers
// See root-dir/LICENSE for more information

package controller

import "github.com/quixsi/tablefinder/internal/model"

const (
	titleReady   = "Listo"
	promptCode   = "Ingresa el código de invitación."
	promptName   = "Escribe el nombre del invitado."
	titleLoading = "Buscando…"

	titleMissingCode = "Falta el código"
	textMissingCode  = "Ingresa un código de 6 caracteres."
	titleInvalidCode = "Código inválido"
	textInvalidCode  = "Debe contener exactamente 6 caracteres."
	textLoadingCode  = "Verificando código de invitación."
	titleFoundCode   = "Encontrado"
	textFoundCode    = "Mesa asignada correctamente."
	titleNotFound    = "No encontrado"
	textNotFound     = "Código no encontrado. Prueba buscar por nombre."

	titleMissingName = "Falta el nombre"
	textMissingName  = "Escribe el nombre del invitado."
	textLoadingName  = "Consultando invitados."
	titleFoundName   = "Resultados encontrados"
	textFoundName    = "Selecciona al invitado correcto."
	titleEmpty       = "Sin resultados"
	textEmpty        = "No se encontraron coincidencias."

	titleUnexpected = "Error"
	textUnexpected  = "Respuesta inesperada del sistema."
	titleNetwork    = "Error de red"
	textNetwork     = "No se pudo consultar el sistema."

	// DefaultGuestName is shown when a found code carries no name.
	DefaultGuestName = "Invitado"
)

func neutral(title, text string) model.Status {
	return model.Status{Title: title, Text: text, Tone: model.ToneNeutral}
}

func loading(text string) model.Status {
	return model.Status{Title: titleLoading, Text: text, Loading: true, Tone: model.ToneNeutral}
}

func ok(title, text string) model.Status {
	return model.Status{Title: title, Text: text, Tone: model.ToneOK}
}

func bad(title, text string) model.Status {
	return model.Status{Title: title, Text: text, Tone: model.ToneBad}
}
