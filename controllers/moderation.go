package controllers

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"chinaekb-forms/bridge"
	"chinaekb-forms/config"
	"chinaekb-forms/files"
	"chinaekb-forms/models"
	"chinaekb-forms/store"
	"chinaekb-forms/utils"
)

const flashCookie = "flash"

type ModerationController struct {
	Cfg    *config.Config
	Log    *logrus.Logger
	Store  *store.SubmissionStore
	Files  *files.Custodian
	Bridge bridge.Sender
	R      *Renderer
}

// List показывает страницу заявок с фильтром по статусу и пагинацией.
func (mc ModerationController) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		tableName := q.Get("table_name")
		if tableName == "" {
			tableName = string(models.KindMinor)
		}
		kind, err := models.ParseRecordKind(tableName)
		if err != nil {
			mc.R.NotFound(w, r)
			return
		}

		status := q.Get("status")
		if status == "" {
			status = "all"
		}
		limit, err := strconv.Atoi(q.Get("limit"))
		if err != nil || limit <= 0 {
			limit = 20
		}
		page, err := strconv.Atoi(q.Get("page"))
		if err != nil || page <= 0 {
			page = 1
		}

		subs, totalPages, err := mc.Store.List(kind, status, limit, page)
		if err != nil {
			mc.Log.Errorf("Не удалось получить список заявок: %v", err)
			mc.R.ServerError(w, r)
			return
		}

		mc.R.Render(w, http.StatusOK, "moderation.html", map[string]any{
			"Submissions":    subs,
			"TableName":      tableName,
			"Status":         status,
			"Limit":          limit,
			"Page":           page,
			"PrevPage":       page - 1,
			"NextPage":       page + 1,
			"TotalPages":     totalPages,
			"SuccessMessage": popFlash(w, r),
		})
	}
}

// Detail отдаёт карточку заявки (GET) и принимает решение модератора (POST).
func (mc ModerationController) Detail() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vars := mux.Vars(r)

		kind, err := models.ParseRecordKind(vars["table_name"])
		if err != nil {
			mc.R.NotFound(w, r)
			return
		}
		id, err := strconv.Atoi(vars["student_id"])
		if err != nil {
			mc.R.NotFound(w, r)
			return
		}

		switch r.Method {
		case http.MethodGet:
			mc.detail(kind, vars["table_name"], id, w, r)
		case http.MethodPost:
			mc.decide(kind, id, w, r)
		}
	}
}

func (mc ModerationController) detail(kind models.RecordKind, tableName string, id int, w http.ResponseWriter, r *http.Request) {
	sub, rep, err := mc.Store.Get(kind, id)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "Студент не найден", http.StatusNotFound)
		return
	}
	if err != nil {
		mc.Log.Errorf("Не удалось загрузить заявку %d: %v", id, err)
		mc.R.ServerError(w, r)
		return
	}

	mc.R.Render(w, http.StatusOK, "student_details.html", map[string]any{
		"Submission":     sub,
		"Representative": rep,
		"TableName":      tableName,
		"Exam":           models.SelectExam(sub.ExamSelection),
	})
}

func (mc ModerationController) decide(kind models.RecordKind, id int, w http.ResponseWriter, r *http.Request) {
	switch r.FormValue("action") {
	case "approve":
		mc.approve(kind, id, w, r)
	case "reject":
		mc.reject(kind, id, w)
	default:
		utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Неизвестное действие"})
	}
}

// approve — трёхшаговая последовательность без общей транзакции:
// вызов 1С, смена статуса, удаление файлов. До успешного ответа 1С видимое
// состояние не меняется, поэтому неудачное одобрение можно повторить.
func (mc ModerationController) approve(kind models.RecordKind, id int, w http.ResponseWriter, r *http.Request) {
	sub, rep, err := mc.Store.Get(kind, id)
	if errors.Is(err, store.ErrNotFound) {
		mc.Log.Errorf("Студент с ID %d не найден в таблице %s", id, kind)
		utils.RespondWithError(w, http.StatusNotFound, models.Error{Message: "Студент не найден"})
		return
	}
	if err != nil {
		mc.Log.Errorf("Не удалось загрузить заявку %d: %v", id, err)
		mc.R.ServerError(w, r)
		return
	}

	// повторное одобрение — явный конфликт, дубль в 1С не отправляется
	if sub.Status != models.StatusPending {
		utils.RespondWithError(w, http.StatusConflict, models.Error{Message: "Заявка уже обработана"})
		return
	}

	if err := mc.Bridge.Submit(bridge.BuildRecord(kind, sub, rep)); err != nil {
		var se *bridge.StatusError
		if errors.As(err, &se) {
			mc.Log.Errorf("Ошибка при отправке данных в 1С: статус %d, тело: %s", se.StatusCode, se.Body)
		} else {
			mc.Log.Errorf("Ошибка при отправке данных в 1С: %v", err)
		}
		utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Ошибка при отправке данных в 1С"})
		return
	}
	mc.Log.Infof("Заявка %d одобрена и отправлена в 1С", id)

	if err := mc.Store.UpdateStatus(kind, id, models.StatusApproved); err != nil {
		// точка частичного отказа: заявка уже ушла в 1С, статус не записан;
		// повторное одобрение упрётся в идемпотентный ключ на стороне 1С
		mc.Log.Errorf("Заявка %d отправлена в 1С, но статус не обновлён: %v", id, err)
		mc.R.ServerError(w, r)
		return
	}

	mc.Files.Delete(sub.FileList())

	setFlash(w, "Заявка успешно отправлена в 1С")
	http.Redirect(w, r, mc.Cfg.BaseURL+"/moderation", http.StatusSeeOther)
}

func (mc ModerationController) reject(kind models.RecordKind, id int, w http.ResponseWriter) {
	err := mc.Store.UpdateStatus(kind, id, models.StatusRejected)
	if errors.Is(err, store.ErrNotFound) {
		utils.RespondWithError(w, http.StatusNotFound, models.Error{Message: "Студент не найден"})
		return
	}
	if err != nil {
		mc.Log.Errorf("Не удалось отклонить заявку %d: %v", id, err)
		utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Unknown server error"})
		return
	}
	mc.Log.Infof("Заявка %d отклонена", id)
	utils.ResponseJSON(w, map[string]any{"success": true, "message": "Заявка отклонена"})
}

// Флэш-сообщение живёт в короткоживущей куке до первого показа списка.
func setFlash(w http.ResponseWriter, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:  flashCookie,
		Value: url.QueryEscape(message),
		Path:  "/",
	})
}

func popFlash(w http.ResponseWriter, r *http.Request) string {
	c, err := r.Cookie(flashCookie)
	if err != nil {
		return ""
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1})
	msg, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}
	return msg
}
