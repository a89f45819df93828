package controllers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"chinaekb-forms/auth"
	"chinaekb-forms/config"
	"chinaekb-forms/utils"
)

const sessionCookie = "session"

type AuthController struct {
	Cfg   *config.Config
	Log   *logrus.Logger
	Creds auth.CredentialStore
	R     *Renderer
}

// Login показывает форму входа и проверяет учётные данные модератора.
// Неудачный вход — та же страница с сообщением, не HTTP-ошибка.
func (ac AuthController) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			ac.R.Render(w, http.StatusOK, "login.html", nil)
			return
		}

		username := r.FormValue("username")
		password := r.FormValue("password")
		remember := r.FormValue("remember") == "on"

		if !ac.Creds.Check(username, password) {
			ac.Log.Warnf("Неудачная попытка входа: %s", username)
			ac.R.Render(w, http.StatusOK, "login.html", map[string]any{
				"Error": "Неверный логин или пароль",
			})
			return
		}

		ttl := ac.Cfg.SessionTTL
		if remember {
			ttl = ac.Cfg.RememberTTL
		}
		token, err := utils.GenerateSessionToken(ac.Cfg.Secret, username, ttl)
		if err != nil {
			ac.Log.Errorf("Не удалось выписать токен сессии: %v", err)
			ac.R.ServerError(w, r)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    token,
			Path:     "/",
			MaxAge:   int(ttl.Seconds()),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		http.Redirect(w, r, ac.Cfg.BaseURL+"/moderation", http.StatusFound)
	}
}

func (ac AuthController) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
		})
		http.Redirect(w, r, ac.Cfg.BaseURL+"/forms", http.StatusFound)
	}
}

// LoginRequired пропускает только запросы с действующей сессией модератора.
func (ac AuthController) LoginRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(sessionCookie)
		if err != nil {
			http.Redirect(w, r, ac.Cfg.BaseURL+"/login", http.StatusFound)
			return
		}
		if _, err := utils.ParseSessionToken(ac.Cfg.Secret, c.Value); err != nil {
			http.Redirect(w, r, ac.Cfg.BaseURL+"/login", http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}
