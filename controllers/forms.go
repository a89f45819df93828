package controllers

import (
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"chinaekb-forms/config"
	"chinaekb-forms/files"
	"chinaekb-forms/models"
	"chinaekb-forms/store"
	"chinaekb-forms/utils"
)

// FormVariant описывает один из шести вариантов формы записи.
// Учебный план, тип документа и возрастная группа фиксированы на сервере
// и не принимаются из формы.
type FormVariant struct {
	Slug      string
	Template  string
	Title     string
	Kind      models.RecordKind
	StudyPlan string
	IDType    string
	AgeGroup  string
}

var FormVariants = []FormVariant{
	{
		Slug:      "education_adult",
		Template:  "education_adult.html",
		Title:     "Образование для взрослых",
		Kind:      models.KindAdult,
		StudyPlan: "Практический курс китайского языка для взрослых",
		IDType:    "passport",
	},
	{
		Slug:      "exam_adult",
		Template:  "exam_adult.html",
		Title:     "Экзамен для взрослых",
		Kind:      models.KindAdult,
		StudyPlan: "Экзамен для взрослых",
		IDType:    "passport",
	},
	{
		Slug:      "education_children_under14",
		Template:  "education_children_under14.html",
		Title:     "Образование для несовершеннолетних (до 14 лет)",
		Kind:      models.KindMinor,
		StudyPlan: "Практический базовый курс китайского языка для детей",
		IDType:    "birth certificate",
		AgeGroup:  "до 14 лет",
	},
	{
		Slug:      "education_children_over14",
		Template:  "education_children_over14.html",
		Title:     "Образование для несовершеннолетних (от 14 до 18 лет)",
		Kind:      models.KindMinor,
		StudyPlan: "Практический базовый курс китайского языка для детей",
		IDType:    "passport",
		AgeGroup:  "от 14 до 18 лет",
	},
	{
		Slug:      "exam_children_under14",
		Template:  "exam_children_under14.html",
		Title:     "Экзамен для несовершеннолетних (до 14 лет)",
		Kind:      models.KindMinor,
		StudyPlan: "Экзамен для детей (до 14 лет)",
		IDType:    "birth certificate",
		AgeGroup:  "до 14 лет",
	},
	{
		Slug:      "exam_children_over14",
		Template:  "exam_children_over14.html",
		Title:     "Экзамен для несовершеннолетних (от 14 до 18 лет)",
		Kind:      models.KindMinor,
		StudyPlan: "Экзамен для детей (от 14 до 18 лет)",
		IDType:    "passport",
		AgeGroup:  "от 14 до 18 лет",
	},
}

type FormController struct {
	Cfg   *config.Config
	Log   *logrus.Logger
	Store *store.SubmissionStore
	Files *files.Custodian
	R     *Renderer
}

// Index переадресует с корня на список форм.
func (fc FormController) Index() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, fc.Cfg.BaseURL+"/forms", http.StatusFound)
	}
}

func (fc FormController) FormsPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fc.R.Render(w, http.StatusOK, "forms.html", nil)
	}
}

func (fc FormController) SuccessPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fc.R.Render(w, http.StatusOK, "success.html", nil)
	}
}

// Form обслуживает GET и POST одного варианта формы.
func (fc FormController) Form(v FormVariant) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			fc.R.Render(w, http.StatusOK, v.Template, map[string]any{"FormTitle": v.Title})
		case http.MethodPost:
			fc.submit(v, w, r)
		}
	}
}

func (fc FormController) submit(v FormVariant, w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, fc.Cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(fc.Cfg.MaxUploadBytes); err != nil {
		if err != http.ErrNotMultipart {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request"})
			return
		}
		// форма без файлов может прийти и как urlencoded
		if err := r.ParseForm(); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, models.Error{Message: "Invalid request"})
			return
		}
	}

	var headers []*multipart.FileHeader
	if r.MultipartForm != nil {
		headers = r.MultipartForm.File["studentfiles"]
	}
	saved, err := fc.Files.SaveUploads(headers)
	if err != nil {
		fc.Log.Errorf("Не удалось сохранить файлы заявки: %v", err)
		utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Unknown server error"})
		return
	}

	sub := fc.buildSubmission(v, r)
	sub.Files = strings.Join(saved, ",")

	if v.Kind == models.KindMinor {
		_, err = fc.Store.InsertMinor(sub, buildRepresentative(r))
	} else {
		_, err = fc.Store.InsertAdult(sub)
	}
	if err != nil {
		fc.Log.Errorf("Не удалось сохранить заявку (%s): %v", v.Slug, err)
		utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Message: "Unknown server error"})
		return
	}

	utils.ResponseJSON(w, map[string]any{"success": true, "message": "Form submitted successfully"})
}

func (fc FormController) buildSubmission(v FormVariant, r *http.Request) *models.Submission {
	return &models.Submission{
		LastName:   utils.Capitalize(r.FormValue("studentname-lastname")),
		FirstName:  utils.Capitalize(r.FormValue("studentname-name")),
		MiddleName: utils.Capitalize(r.FormValue("studentname-surname")),
		BirthDate:  r.FormValue("studentbirth"),
		Address:    r.FormValue("studentaddress"),
		Gender:     r.FormValue("studentgender"),
		SNILS:      r.FormValue("studentsnils"),
		AgeGroup:   v.AgeGroup,

		IDType:       v.IDType,
		IDSerial:     r.FormValue("studentid-serial"),
		IDNumber:     r.FormValue("studentid-number"),
		IDIssuedBy:   r.FormValue("studentid-by"),
		IDIssuedDate: r.FormValue("studentid-issued"),

		BankDetails: r.FormValue("studentbank"),
		Phone:       r.FormValue("studentphone"),
		Email:       r.FormValue("studentemail"),

		StudyPlan:     v.StudyPlan,
		ExamSelection: r.FormValue("examselection"),
		ExamDate:      r.FormValue("examdate"),

		Status:         models.StatusPending,
		SubmissionDate: time.Now().Format("2006-01-02 15:04:05"),
	}
}

func buildRepresentative(r *http.Request) *models.Representative {
	return &models.Representative{
		LastName:   utils.Capitalize(r.FormValue("clientname-lastname")),
		FirstName:  utils.Capitalize(r.FormValue("clientname-name")),
		MiddleName: utils.Capitalize(r.FormValue("clientname-surname")),
		BirthDate:  r.FormValue("clientbirth"),
		Address:    r.FormValue("clientaddress"),
		Gender:     r.FormValue("clientgender"),
		SNILS:      r.FormValue("clientsnils"),

		IDSerial:     r.FormValue("clientid-serial"),
		IDNumber:     r.FormValue("clientid-number"),
		IDIssuedBy:   r.FormValue("clientid-by"),
		IDIssuedDate: r.FormValue("clientid-issued"),

		BankDetails: r.FormValue("clientbank"),
		Phone:       r.FormValue("clientphone"),
		Email:       r.FormValue("clientemail"),
	}
}
