package store

import (
	"database/sql"
	"fmt"
	"testing"

	"chinaekb-forms/driver"
	"chinaekb-forms/models"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := driver.ConnectDB(":memory:")
	if err != nil {
		t.Fatalf("ConnectDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := driver.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return db
}

func minorSubmission(lastName string) *models.Submission {
	return &models.Submission{
		LastName:       lastName,
		FirstName:      "Иван",
		MiddleName:     "Иванович",
		BirthDate:      "2010-01-01",
		Address:        "ул. Ленина, 1",
		Gender:         "male",
		SNILS:          "123-456-789 01",
		AgeGroup:       "до 14 лет",
		IDType:         "birth certificate",
		IDSerial:       "1234",
		IDNumber:       "567890",
		StudyPlan:      "Практический базовый курс китайского языка для детей",
		ExamSelection:  "3",
		ExamDate:       "2023-10-31",
		SubmissionDate: "2023-01-01 12:00:00",
		Files:          "справка.pdf",
	}
}

func TestInsertMinorWithRepresentative(t *testing.T) {
	s := NewSubmissionStore(newTestDB(t))

	rep := &models.Representative{
		LastName:  "Сидорова",
		FirstName: "Анна",
		Phone:     "+79994445555",
	}
	id, err := s.InsertMinor(minorSubmission("Сидоров"), rep)
	if err != nil {
		t.Fatalf("InsertMinor: %v", err)
	}

	sub, gotRep, err := s.Get(models.KindMinor, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if sub.Status != models.StatusPending {
		t.Errorf("статус = %q, ожидался pending", sub.Status)
	}
	if sub.LastName != "Сидоров" || sub.AgeGroup != "до 14 лет" {
		t.Errorf("заявка прочитана неверно: %+v", sub)
	}
	if gotRep == nil {
		t.Fatal("представитель не найден")
	}
	if gotRep.StudentID != id || gotRep.LastName != "Сидорова" {
		t.Errorf("представитель прочитан неверно: %+v", gotRep)
	}
}

func TestInsertAdult(t *testing.T) {
	s := NewSubmissionStore(newTestDB(t))

	sub := minorSubmission("Иванов")
	sub.AgeGroup = ""
	sub.IDType = "passport"
	id, err := s.InsertAdult(sub)
	if err != nil {
		t.Fatalf("InsertAdult: %v", err)
	}

	got, rep, err := s.Get(models.KindAdult, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if rep != nil {
		t.Error("у взрослой заявки не может быть представителя")
	}
	if got.IDType != "passport" || got.Status != models.StatusPending {
		t.Errorf("заявка прочитана неверно: %+v", got)
	}
}

func TestGetNotFound(t *testing.T) {
	s := NewSubmissionStore(newTestDB(t))
	if _, _, err := s.Get(models.KindMinor, 42); err != ErrNotFound {
		t.Errorf("ожидался ErrNotFound, получено %v", err)
	}
}

func TestListPagination(t *testing.T) {
	s := NewSubmissionStore(newTestDB(t))
	for i := 0; i < 5; i++ {
		sub := minorSubmission(fmt.Sprintf("Фамилия%d", i))
		sub.AgeGroup = ""
		if _, err := s.InsertAdult(sub); err != nil {
			t.Fatalf("InsertAdult: %v", err)
		}
	}

	subs, totalPages, err := s.List(models.KindAdult, "all", 2, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if totalPages != 3 {
		t.Errorf("totalPages = %d, ожидалось 3", totalPages)
	}
	if len(subs) != 2 {
		t.Fatalf("на странице %d записей, ожидалось 2", len(subs))
	}
	// порядок фиксирован по id: на второй странице третья и четвёртая записи
	if subs[0].LastName != "Фамилия2" || subs[1].LastName != "Фамилия3" {
		t.Errorf("нарушен порядок: %s, %s", subs[0].LastName, subs[1].LastName)
	}
}

func TestListStatusFilter(t *testing.T) {
	s := NewSubmissionStore(newTestDB(t))
	var ids []int
	for i := 0; i < 3; i++ {
		id, err := s.InsertMinor(minorSubmission(fmt.Sprintf("Фамилия%d", i)), nil)
		if err != nil {
			t.Fatalf("InsertMinor: %v", err)
		}
		ids = append(ids, id)
	}
	if err := s.UpdateStatus(models.KindMinor, ids[1], models.StatusRejected); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	rejected, totalPages, err := s.List(models.KindMinor, models.StatusRejected, 20, 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if totalPages != 1 || len(rejected) != 1 || rejected[0].ID != ids[1] {
		t.Errorf("фильтр по статусу вернул %v (страниц %d)", rejected, totalPages)
	}
	for _, sub := range rejected {
		if sub.Status != models.StatusRejected {
			t.Errorf("в выборке чужой статус %q", sub.Status)
		}
	}

	all, _, err := s.List(models.KindMinor, "all", 20, 1)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("status=all вернул %d записей, ожидалось 3", len(all))
	}
}

func TestUpdateStatusNotFound(t *testing.T) {
	s := NewSubmissionStore(newTestDB(t))
	if err := s.UpdateStatus(models.KindAdult, 99, models.StatusApproved); err != ErrNotFound {
		t.Errorf("ожидался ErrNotFound, получено %v", err)
	}
}
