// Copyright (C) 2024 the quixsi maintainers
// See root-dir/LICENSE for more information

// Package view maps the controller state to a view model and renders it.
// All guest supplied text goes through html/template escaping.
package view

import (
	"embed"
	"html/template"
	"io"

	"github.com/samber/lo"

	"github.com/quixsi/tablefinder/internal/model"
	"github.com/quixsi/tablefinder/internal/parser/code"
)

//go:embed templates/*.html
var templates embed.FS

type Status struct {
	Title   string
	Text    string
	Loading bool
	Tone    string
}

type Guest struct {
	Name  string
	Table string
}

type Result struct {
	Visible bool
	Card    *Guest
	List    []Guest
	IsList  bool
	Count   int
}

// Page is everything the lookup page shows.
type Page struct {
	IsCode           bool
	ModeLabel        string
	CodeInput        string
	NameInput        string
	CodeMaxLength    int
	Status           Status
	Result           Result
	ControlsDisabled bool
	Focus            string
	MapURL           string
}

// NewPage builds the view model for s. It has no side effects.
func NewPage(s model.State, mapURL string) Page {
	isCode := s.Mode != model.SearchModeByName
	p := Page{
		IsCode:           isCode,
		ModeLabel:        lo.Ternary(isCode, "Código", "Nombre"),
		CodeInput:        s.CodeInput,
		NameInput:        s.NameInput,
		CodeMaxLength:    code.Length,
		ControlsDisabled: s.ControlsDisabled,
		Focus:            string(s.Focus),
		MapURL:           mapURL,
		Status: Status{
			Title:   s.Status.Title,
			Text:    s.Status.Text,
			Loading: s.Status.Loading,
			Tone:    string(s.Status.Tone),
		},
	}

	switch s.Result.Kind {
	case model.ResultKindGuest:
		if s.Result.Guest != nil {
			p.Result = Result{Visible: true, Card: toGuest(*s.Result.Guest)}
		}
	case model.ResultKindList:
		p.Result = Result{
			Visible: true,
			IsList:  true,
			List: lo.Map(s.Result.Guests, func(g model.GuestRecord, _ int) Guest {
				return *toGuest(g)
			}),
			Count: len(s.Result.Guests),
		}
	}
	return p
}

func toGuest(g model.GuestRecord) *Guest {
	return &Guest{Name: g.Name, Table: g.Table.String()}
}

func NewRenderer() *Renderer {
	coreTemplates := []string{"templates/main.html", "templates/main.style.html", "templates/footer.html"}
	lookupTemplates := []string{"templates/lookup.html", "templates/status.html", "templates/result.html"}

	return &Renderer{
		tmplPage: template.Must(template.ParseFS(templates, append(coreTemplates, lookupTemplates...)...)),
	}
}

type Renderer struct {
	tmplPage *template.Template
}

// Page renders the complete document.
func (r *Renderer) Page(w io.Writer, p Page) error {
	return r.tmplPage.ExecuteTemplate(w, "main.html", p)
}

// Fragment renders only the lookup section, for partial updates.
func (r *Renderer) Fragment(w io.Writer, p Page) error {
	return r.tmplPage.ExecuteTemplate(w, "LOOKUP", p)
}

// CodeField renders the normalized code input.
func (r *Renderer) CodeField(w io.Writer, p Page) error {
	return r.tmplPage.ExecuteTemplate(w, "CODE_INPUT", p)
}
