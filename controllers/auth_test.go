package controllers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"chinaekb-forms/auth"
)

func newAuth(t *testing.T, env *testEnv) AuthController {
	t.Helper()
	creds, err := auth.NewStaticCredentials([]string{"moder1:password1", "moder2:password2"})
	if err != nil {
		t.Fatalf("NewStaticCredentials: %v", err)
	}
	return AuthController{Cfg: env.cfg, Log: env.log, Creds: creds, R: env.renderer}
}

func postLogin(ac AuthController, username, password string) *httptest.ResponseRecorder {
	form := url.Values{"username": {username}, "password": {password}}
	r := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	ac.Login()(w, r)
	return w
}

func TestLoginSuccessSetsSession(t *testing.T) {
	env := newTestEnv(t)
	ac := newAuth(t, env)

	w := postLogin(ac, "moder1", "password1")
	if w.Code != http.StatusFound {
		t.Fatalf("вход вернул %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/moderation" {
		t.Errorf("редирект на %q, ожидался /moderation", loc)
	}

	var session *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == sessionCookie {
			session = c
		}
	}
	if session == nil || session.Value == "" {
		t.Fatal("кука сессии не выставлена")
	}
	if !session.HttpOnly {
		t.Error("кука сессии должна быть HttpOnly")
	}
}

func TestLoginFailureRendersInlineError(t *testing.T) {
	env := newTestEnv(t)
	ac := newAuth(t, env)

	w := postLogin(ac, "moder1", "чужой-пароль")
	if w.Code != http.StatusOK {
		t.Fatalf("неудачный вход вернул %d, ожидалась страница входа", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Неверный логин или пароль") {
		t.Error("на странице нет сообщения об ошибке")
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == sessionCookie {
			t.Error("кука сессии не должна выставляться при неудачном входе")
		}
	}
}

func TestLoginRequiredRedirectsAnonymous(t *testing.T) {
	env := newTestEnv(t)
	ac := newAuth(t, env)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	w := httptest.NewRecorder()
	ac.LoginRequired(inner).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/moderation", nil))
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/login" {
		t.Errorf("аноним: код %d, Location %q", w.Code, w.Header().Get("Location"))
	}
}

func TestLoginRequiredPassesAuthenticated(t *testing.T) {
	env := newTestEnv(t)
	ac := newAuth(t, env)

	login := postLogin(ac, "moder2", "password2")
	var session *http.Cookie
	for _, c := range login.Result().Cookies() {
		if c.Name == sessionCookie {
			session = c
		}
	}
	if session == nil {
		t.Fatal("кука сессии не выставлена")
	}

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r := httptest.NewRequest(http.MethodGet, "/moderation", nil)
	r.AddCookie(session)
	w := httptest.NewRecorder()
	ac.LoginRequired(inner).ServeHTTP(w, r)
	if w.Code != http.StatusTeapot {
		t.Errorf("авторизованный запрос не дошёл до обработчика, код %d", w.Code)
	}
}

func TestLoginRequiredRejectsForgedToken(t *testing.T) {
	env := newTestEnv(t)
	ac := newAuth(t, env)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r := httptest.NewRequest(http.MethodGet, "/moderation", nil)
	r.AddCookie(&http.Cookie{Name: sessionCookie, Value: "подделка"})
	w := httptest.NewRecorder()
	ac.LoginRequired(inner).ServeHTTP(w, r)
	if w.Code != http.StatusFound {
		t.Errorf("поддельный токен должен вести на /login, код %d", w.Code)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	env := newTestEnv(t)
	ac := newAuth(t, env)

	w := httptest.NewRecorder()
	ac.Logout()(w, httptest.NewRequest(http.MethodGet, "/logout", nil))
	if w.Code != http.StatusFound || w.Header().Get("Location") != "/forms" {
		t.Errorf("выход: код %d, Location %q", w.Code, w.Header().Get("Location"))
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == sessionCookie && c.MaxAge != -1 {
			t.Error("кука сессии должна сбрасываться")
		}
	}
}
