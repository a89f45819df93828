// Package bridge отправляет одобренные заявки во внешний сервис 1С,
// формирующий договор.
package bridge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"chinaekb-forms/models"
)

// Sender — единственная операция моста: синхронная передача заявки.
type Sender interface {
	Submit(rec *ContractRecord) error
}

// ContractRecord — форма, которую ожидает 1С. Поля повторяют заявку,
// представитель вложен под ключом representative (null для взрослых).
type ContractRecord struct {
	Kind models.RecordKind `json:"-"`

	ID             int    `json:"id"`
	LastName       string `json:"last_name"`
	FirstName      string `json:"first_name"`
	MiddleName     string `json:"middle_name"`
	BirthDate      string `json:"birth_date"`
	Address        string `json:"address"`
	Gender         string `json:"gender"`
	SNILS          string `json:"snils"`
	AgeGroup       string `json:"age_group,omitempty"`
	IDType         string `json:"id_type"`
	IDSerial       string `json:"id_serial"`
	IDNumber       string `json:"id_number"`
	IDIssuedBy     string `json:"id_issued_by"`
	IDIssuedDate   string `json:"id_issued_date"`
	BankDetails    string `json:"bank_details"`
	Phone          string `json:"phone"`
	Email          string `json:"email"`
	StudyPlan      string `json:"study_plan"`
	ExamSelection  string `json:"exam_selection"`
	ExamDate       string `json:"exam_date"`
	Status         string `json:"status"`
	SubmissionDate string `json:"submission_date"`

	Representative *ContractRepresentative `json:"representative"`
}

type ContractRepresentative struct {
	LastName     string `json:"last_name"`
	FirstName    string `json:"first_name"`
	MiddleName   string `json:"middle_name"`
	BirthDate    string `json:"birth_date"`
	Address      string `json:"address"`
	Gender       string `json:"gender"`
	SNILS        string `json:"snils"`
	IDSerial     string `json:"id_serial"`
	IDNumber     string `json:"id_number"`
	IDIssuedBy   string `json:"id_issued_by"`
	IDIssuedDate string `json:"id_issued_date"`
	BankDetails  string `json:"bank_details"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
}

// BuildRecord собирает тело запроса из сохранённой заявки.
func BuildRecord(kind models.RecordKind, sub *models.Submission, rep *models.Representative) *ContractRecord {
	rec := &ContractRecord{
		Kind:           kind,
		ID:             sub.ID,
		LastName:       sub.LastName,
		FirstName:      sub.FirstName,
		MiddleName:     sub.MiddleName,
		BirthDate:      sub.BirthDate,
		Address:        sub.Address,
		Gender:         sub.Gender,
		SNILS:          sub.SNILS,
		IDType:         sub.IDType,
		IDSerial:       sub.IDSerial,
		IDNumber:       sub.IDNumber,
		IDIssuedBy:     sub.IDIssuedBy,
		IDIssuedDate:   sub.IDIssuedDate,
		BankDetails:    sub.BankDetails,
		Phone:          sub.Phone,
		Email:          sub.Email,
		StudyPlan:      sub.StudyPlan,
		ExamSelection:  sub.ExamSelection,
		ExamDate:       sub.ExamDate,
		Status:         sub.Status,
		SubmissionDate: sub.SubmissionDate,
	}
	if kind == models.KindMinor {
		rec.AgeGroup = sub.AgeGroup
		if rep != nil {
			rec.Representative = &ContractRepresentative{
				LastName:     rep.LastName,
				FirstName:    rep.FirstName,
				MiddleName:   rep.MiddleName,
				BirthDate:    rep.BirthDate,
				Address:      rep.Address,
				Gender:       rep.Gender,
				SNILS:        rep.SNILS,
				IDSerial:     rep.IDSerial,
				IDNumber:     rep.IDNumber,
				IDIssuedBy:   rep.IDIssuedBy,
				IDIssuedDate: rep.IDIssuedDate,
				BankDetails:  rep.BankDetails,
				Phone:        rep.Phone,
				Email:        rep.Email,
			}
		}
	}
	return rec
}

// IdempotencyKey выводится из вида и id заявки: повторная попытка
// одобрения несёт тот же ключ, и 1С может отбросить дубль.
func IdempotencyKey(kind models.RecordKind, id int) string {
	return fmt.Sprintf("submission-%s-%d", kind, id)
}

// StatusError — недвухсотый ответ моста; тело сохраняется для журнала.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("1С ответил %d: %s", e.StatusCode, e.Body)
}

// Client отправляет заявки по HTTP с базовой авторизацией.
type Client struct {
	URL      string
	Login    string
	Password string
	HTTP     *http.Client
}

func NewClient(url, login, password string) *Client {
	return &Client{
		URL:      url,
		Login:    login,
		Password: password,
		HTTP:     &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) Submit(rec *ContractRecord) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", IdempotencyKey(rec.Kind, rec.ID))
	req.SetBasicAuth(c.Login, c.Password)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return nil
}
