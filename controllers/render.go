package controllers

import (
	"bytes"
	"html/template"
	"net/http"

	"chinaekb-forms/models"
	"chinaekb-forms/templates"
	"chinaekb-forms/utils"
)

// Версия приложения, отдаётся в /status.
const Version = "0"

// Renderer исполняет встроенные шаблоны и подмешивает BaseURL в каждую страницу.
type Renderer struct {
	tmpl    *template.Template
	baseURL string
}

func NewRenderer(baseURL string) (*Renderer, error) {
	tmpl, err := template.ParseFS(templates.FS, "*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl, baseURL: baseURL}, nil
}

func (rd *Renderer) Render(w http.ResponseWriter, status int, name string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	data["BaseURL"] = rd.baseURL

	// сначала в буфер: ошибка шаблона не должна уйти поверх полуотданной страницы
	var buf bytes.Buffer
	if err := rd.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Unknown server error"})
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// NotFound отвечает по контракту: JSON для POST, страница для навигации.
func (rd *Renderer) NotFound(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		utils.RespondWithError(w, http.StatusNotFound, models.Error{Message: "Nothing was found"})
		return
	}
	rd.Render(w, http.StatusNotFound, "404.html", nil)
}

func (rd *Renderer) ServerError(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Unknown server error"})
		return
	}
	rd.Render(w, http.StatusInternalServerError, "500.html", nil)
}

func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithError(w, http.StatusMethodNotAllowed, models.Error{Message: "Method not allowed"})
}
