package models

import "strings"

// Статусы заявки. Переход только вперёд: pending -> проверено | отклонено.
const (
	StatusPending  = "pending"
	StatusApproved = "проверено"
	StatusRejected = "отклонено"
)

// Submission — заявка абитуриента. Для несовершеннолетних дополнительно
// заполняется AgeGroup и привязывается законный представитель.
type Submission struct {
	ID         int    `json:"id"`
	LastName   string `json:"last_name"`
	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name"`
	BirthDate  string `json:"birth_date"`
	Address    string `json:"address"`
	Gender     string `json:"gender"`
	SNILS      string `json:"snils"`
	AgeGroup   string `json:"age_group,omitempty"`

	IDType       string `json:"id_type"`
	IDSerial     string `json:"id_serial"`
	IDNumber     string `json:"id_number"`
	IDIssuedBy   string `json:"id_issued_by"`
	IDIssuedDate string `json:"id_issued_date"`

	BankDetails string `json:"bank_details"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`

	StudyPlan     string `json:"study_plan"`
	ExamSelection string `json:"exam_selection"`
	ExamDate      string `json:"exam_date"`

	Status         string `json:"status"`
	SubmissionDate string `json:"submission_date"`
	Files          string `json:"files"` // имена файлов через запятую
}

// FileList разбирает поле Files. Пустое поле — пустой список.
func (s *Submission) FileList() []string {
	if s.Files == "" {
		return nil
	}
	return strings.Split(s.Files, ",")
}
