package controllers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"chinaekb-forms/config"
	"chinaekb-forms/files"
)

// DocsController отдаёт статику, сгенерированные документы и загруженные
// файлы заявок.
type DocsController struct {
	Cfg   *config.Config
	Log   *logrus.Logger
	Files *files.Custodian
	R     *Renderer
}

// Docs отдаёт документ, предварительно вычистив из каталога всё устаревшее.
func (dc DocsController) Docs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dc.Files.SweepDocs(dc.Cfg.DocsTTL)
		dc.serveFromDir(w, r, dc.Cfg.DocsPath, mux.Vars(r)["path"])
	}
}

func (dc DocsController) Static() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dc.serveFromDir(w, r, "static", mux.Vars(r)["path"])
	}
}

func (dc DocsController) Favicon() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dc.serveFromDir(w, r, "static", "favicon.ico")
	}
}

func (dc DocsController) Uploads() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dc.serveFromDir(w, r, dc.Cfg.UploadPath, mux.Vars(r)["path"])
	}
}

// UploadFallback сохраняет исторические ссылки на файлы относительно корня:
// неизвестный путь сперва ищется в каталоге загрузок, затем 404.
func (dc DocsController) UploadFallback() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, dc.Cfg.BaseURL)
		name = strings.TrimPrefix(name, "/")
		if name != "" && r.Method == http.MethodGet {
			full := filepath.Join(dc.Cfg.UploadPath, filepath.FromSlash(filepath.Clean("/"+name)))
			if info, err := os.Stat(full); err == nil && !info.IsDir() {
				http.ServeFile(w, r, full)
				return
			}
		}
		dc.R.NotFound(w, r)
	})
}

// serveFromDir отдаёт файл строго внутри dir; обход пути отрезается Clean.
func (dc DocsController) serveFromDir(w http.ResponseWriter, r *http.Request, dir, name string) {
	clean := filepath.FromSlash(filepath.Clean("/" + name))
	full := filepath.Join(dir, clean)
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		dc.R.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, full)
}
