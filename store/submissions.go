package store

import (
	"database/sql"
	"errors"
	"math"

	"chinaekb-forms/models"
)

// ErrNotFound — заявка с указанным id отсутствует.
var ErrNotFound = errors.New("заявка не найдена")

// SubmissionStore держит весь SQL приложения. Для каждого вида заявки
// запросы зафиксированы статически, подстановки идут только через плейсхолдеры.
type SubmissionStore struct {
	db *sql.DB
}

func NewSubmissionStore(db *sql.DB) *SubmissionStore {
	return &SubmissionStore{db: db}
}

const minorColumns = `last_name, first_name, middle_name, birth_date, address, gender, snils,
	age_group, id_type, id_serial, id_number, id_issued_by, id_issued_date,
	bank_details, phone, email, study_plan, exam_selection, exam_date, status, submission_date, files`

const adultColumns = `last_name, first_name, middle_name, birth_date, address, gender, snils,
	id_type, id_serial, id_number, id_issued_by, id_issued_date,
	bank_details, phone, email, study_plan, exam_selection, exam_date, status, submission_date, files`

const representativeColumns = `student_id, last_name, first_name, middle_name, birth_date, address,
	gender, snils, id_serial, id_number, id_issued_by, id_issued_date, bank_details, phone, email`

// InsertMinor сохраняет заявку несовершеннолетнего вместе с представителем
// в одной транзакции: представитель не может осиротеть.
func (s *SubmissionStore) InsertMinor(sub *models.Submission, rep *models.Representative) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO students (`+minorColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.LastName, sub.FirstName, sub.MiddleName, sub.BirthDate, sub.Address, sub.Gender, sub.SNILS,
		sub.AgeGroup, sub.IDType, sub.IDSerial, sub.IDNumber, sub.IDIssuedBy, sub.IDIssuedDate,
		sub.BankDetails, sub.Phone, sub.Email, sub.StudyPlan, sub.ExamSelection, sub.ExamDate,
		models.StatusPending, sub.SubmissionDate, sub.Files)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if rep != nil {
		_, err = tx.Exec(`INSERT INTO representatives (`+representativeColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, rep.LastName, rep.FirstName, rep.MiddleName, rep.BirthDate, rep.Address,
			rep.Gender, rep.SNILS, rep.IDSerial, rep.IDNumber, rep.IDIssuedBy, rep.IDIssuedDate,
			rep.BankDetails, rep.Phone, rep.Email)
		if err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return int(id), nil
}

// InsertAdult сохраняет взрослую заявку со статусом pending.
func (s *SubmissionStore) InsertAdult(sub *models.Submission) (int, error) {
	res, err := s.db.Exec(`INSERT INTO adult_students (`+adultColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sub.LastName, sub.FirstName, sub.MiddleName, sub.BirthDate, sub.Address, sub.Gender, sub.SNILS,
		sub.IDType, sub.IDSerial, sub.IDNumber, sub.IDIssuedBy, sub.IDIssuedDate,
		sub.BankDetails, sub.Phone, sub.Email, sub.StudyPlan, sub.ExamSelection, sub.ExamDate,
		models.StatusPending, sub.SubmissionDate, sub.Files)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return int(id), nil
}

// List возвращает страницу заявок и общее число страниц. Количество считается
// отдельным COUNT(*), порядок выдачи фиксирован по id, чтобы страницы были
// стабильными между запросами.
func (s *SubmissionStore) List(kind models.RecordKind, status string, limit, page int) ([]models.Submission, int, error) {
	countQuery, pageQuery := listQueries(kind)

	var args []any
	if status != "all" {
		countQuery += " WHERE status = ?"
		pageQuery += " WHERE status = ?"
		args = append(args, status)
	}
	pageQuery += " ORDER BY id LIMIT ? OFFSET ?"

	var total int
	if err := s.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}
	totalPages := int(math.Ceil(float64(total) / float64(limit)))

	offset := (page - 1) * limit
	rows, err := s.db.Query(pageQuery, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var subs []models.Submission
	for rows.Next() {
		sub, err := scanSubmission(kind, rows)
		if err != nil {
			return nil, 0, err
		}
		subs = append(subs, *sub)
	}
	return subs, totalPages, rows.Err()
}

func listQueries(kind models.RecordKind) (countQuery, pageQuery string) {
	switch kind {
	case models.KindMinor:
		return "SELECT COUNT(*) FROM students",
			"SELECT id, " + minorColumns + " FROM students"
	default:
		return "SELECT COUNT(*) FROM adult_students",
			"SELECT id, " + adultColumns + " FROM adult_students"
	}
}

// Get загружает заявку, для несовершеннолетних — вместе с представителем.
func (s *SubmissionStore) Get(kind models.RecordKind, id int) (*models.Submission, *models.Representative, error) {
	var row *sql.Row
	switch kind {
	case models.KindMinor:
		row = s.db.QueryRow("SELECT id, "+minorColumns+" FROM students WHERE id = ?", id)
	default:
		row = s.db.QueryRow("SELECT id, "+adultColumns+" FROM adult_students WHERE id = ?", id)
	}

	sub, err := scanSubmission(kind, row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	if kind != models.KindMinor {
		return sub, nil, nil
	}

	rep := &models.Representative{}
	err = s.db.QueryRow(`SELECT id, `+representativeColumns+` FROM representatives WHERE student_id = ?`, id).Scan(
		&rep.ID, &rep.StudentID, &rep.LastName, &rep.FirstName, &rep.MiddleName, &rep.BirthDate,
		&rep.Address, &rep.Gender, &rep.SNILS, &rep.IDSerial, &rep.IDNumber, &rep.IDIssuedBy,
		&rep.IDIssuedDate, &rep.BankDetails, &rep.Phone, &rep.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return sub, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return sub, rep, nil
}

// UpdateStatus переводит заявку в новый статус.
func (s *SubmissionStore) UpdateStatus(kind models.RecordKind, id int, status string) error {
	var query string
	switch kind {
	case models.KindMinor:
		query = "UPDATE students SET status = ? WHERE id = ?"
	default:
		query = "UPDATE adult_students SET status = ? WHERE id = ?"
	}
	res, err := s.db.Exec(query, status, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(kind models.RecordKind, row rowScanner) (*models.Submission, error) {
	sub := &models.Submission{}
	var err error
	if kind == models.KindMinor {
		err = row.Scan(&sub.ID, &sub.LastName, &sub.FirstName, &sub.MiddleName, &sub.BirthDate,
			&sub.Address, &sub.Gender, &sub.SNILS, &sub.AgeGroup, &sub.IDType, &sub.IDSerial,
			&sub.IDNumber, &sub.IDIssuedBy, &sub.IDIssuedDate, &sub.BankDetails, &sub.Phone,
			&sub.Email, &sub.StudyPlan, &sub.ExamSelection, &sub.ExamDate, &sub.Status,
			&sub.SubmissionDate, &sub.Files)
	} else {
		err = row.Scan(&sub.ID, &sub.LastName, &sub.FirstName, &sub.MiddleName, &sub.BirthDate,
			&sub.Address, &sub.Gender, &sub.SNILS, &sub.IDType, &sub.IDSerial,
			&sub.IDNumber, &sub.IDIssuedBy, &sub.IDIssuedDate, &sub.BankDetails, &sub.Phone,
			&sub.Email, &sub.StudyPlan, &sub.ExamSelection, &sub.ExamDate, &sub.Status,
			&sub.SubmissionDate, &sub.Files)
	}
	if err != nil {
		return nil, err
	}
	return sub, nil
}
