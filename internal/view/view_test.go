// Copyright (C) 2024 the quixsi maintainers
// See root-dir/LICENSE for more information

package view

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quixsi/tablefinder/internal/model"
)

func TestNewPage(t *testing.T) {
	s := model.State{
		Mode:   model.SearchModeByName,
		Status: model.Status{Title: "Resultados encontrados", Tone: model.ToneOK},
		Result: model.Result{
			Kind:   model.ResultKindList,
			Guests: []model.GuestRecord{{Name: "Zoe", Table: "9"}, {Name: "Ana", Table: "1"}},
		},
		Focus: model.FieldName,
	}

	p := NewPage(s, "/map")
	assert.False(t, p.IsCode)
	assert.Equal(t, "Nombre", p.ModeLabel)
	assert.True(t, p.Result.Visible)
	assert.True(t, p.Result.IsList)
	assert.Equal(t, 2, p.Result.Count)
	assert.Equal(t, []Guest{{Name: "Zoe", Table: "9"}, {Name: "Ana", Table: "1"}}, p.Result.List)
	assert.Equal(t, "ok", p.Status.Tone)
	assert.Equal(t, "nameInput", p.Focus)
}

func TestNewPage_Empty(t *testing.T) {
	p := NewPage(model.State{Mode: model.SearchModeByCode}, "/map")
	assert.True(t, p.IsCode)
	assert.False(t, p.Result.Visible)
	assert.Nil(t, p.Result.Card)
	assert.Empty(t, p.Result.List)
}

func TestRenderer_Card(t *testing.T) {
	r := NewRenderer()
	s := model.State{
		Mode:   model.SearchModeByCode,
		Status: model.Status{Title: "Encontrado", Text: "Mesa asignada correctamente.", Tone: model.ToneOK},
		Result: model.Result{Kind: model.ResultKindGuest, Guest: &model.GuestRecord{Name: "Ana Pérez", Table: "12"}},
	}

	var buf bytes.Buffer
	require.NoError(t, r.Page(&buf, NewPage(s, "/map")))
	out := buf.String()

	assert.Contains(t, out, "Ana Pérez")
	assert.Contains(t, out, `<div class="mesa">12</div>`)
	assert.Contains(t, out, `class="pill ok"`)
	assert.Contains(t, out, `<div id="result" >`)
	assert.Contains(t, out, `id="panelName" hidden`)
	assert.Contains(t, out, `href="/map" target="_blank" rel="noopener"`)
}

func TestRenderer_EscapesGuestText(t *testing.T) {
	r := NewRenderer()
	s := model.State{
		Mode: model.SearchModeByName,
		Result: model.Result{
			Kind:   model.ResultKindList,
			Guests: []model.GuestRecord{{Name: "<b>X</b>", Table: "<i>1</i>"}},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, r.Fragment(&buf, NewPage(s, "/map")))
	out := buf.String()

	assert.NotContains(t, out, "<b>")
	assert.NotContains(t, out, "<i>")
	assert.Contains(t, out, "&lt;b&gt;X&lt;/b&gt;")
	assert.Contains(t, out, "1 resultado(s) encontrados")
}

func TestRenderer_EmptyResultHidden(t *testing.T) {
	r := NewRenderer()
	s := model.State{
		Mode:             model.SearchModeByCode,
		CodeInput:        "AB12CD",
		Status:           model.Status{Title: "No encontrado", Tone: model.ToneBad, Loading: true},
		ControlsDisabled: true,
		Focus:            model.FieldCode,
	}

	var buf bytes.Buffer
	require.NoError(t, r.Fragment(&buf, NewPage(s, "/map")))
	out := buf.String()

	assert.Contains(t, out, `<div id="result" hidden>`)
	assert.Contains(t, out, `class="status loading"`)
	assert.Contains(t, out, `class="pill bad"`)
	assert.Equal(t, 2, strings.Count(out, `Btn" disabled>`))
	assert.Contains(t, out, `value="AB12CD"`)
	assert.Contains(t, out, "autofocus")
	assert.NotContains(t, out, "<html")
}

func TestRenderer_CodeField(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRenderer().CodeField(&buf, NewPage(model.State{CodeInput: "AB12"}, "/map")))
	assert.Contains(t, buf.String(), `value="AB12"`)
	assert.Contains(t, buf.String(), `maxlength="6"`)
}

func TestRenderer_LoadingWhileRequestRuns(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRenderer().Fragment(&buf, NewPage(model.State{Mode: model.SearchModeByCode}, "/map")))
	out := buf.String()

	assert.Equal(t, 2, strings.Count(out, `hx-indicator="#status"`))
	assert.Equal(t, 2, strings.Count(out, `hx-disabled-elt="#codeBtn, #nameBtn"`))
	assert.Contains(t, out, `hx-disinherit="hx-indicator hx-disabled-elt"`)
	assert.Contains(t, out, `id="status" class="status"`)
	assert.Contains(t, out, "Buscando…")
	assert.NotContains(t, out, `Btn" disabled>`)

	// keystrokes only replace the code field
	buf.Reset()
	require.NoError(t, NewRenderer().CodeField(&buf, NewPage(model.State{}, "/map")))
	assert.Contains(t, buf.String(), `hx-target="this"`)
}

func TestStyle_IndicatorDrivesSpinner(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRenderer().Page(&buf, NewPage(model.State{Mode: model.SearchModeByCode}, "/map")))
	assert.Contains(t, buf.String(), ".status.htmx-request .spinner")
	assert.Contains(t, buf.String(), ".status.htmx-request .busy")
}
