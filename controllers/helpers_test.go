package controllers

import (
	"bytes"
	"io"
	"mime/multipart"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"chinaekb-forms/config"
	"chinaekb-forms/driver"
	"chinaekb-forms/files"
	"chinaekb-forms/store"
)

type testEnv struct {
	cfg       *config.Config
	log       *logrus.Logger
	store     *store.SubmissionStore
	custodian *files.Custodian
	renderer  *Renderer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	db, err := driver.ConnectDB(":memory:")
	if err != nil {
		t.Fatalf("ConnectDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := driver.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	cfg := &config.Config{
		UploadPath:     t.TempDir(),
		DocsPath:       t.TempDir(),
		MaxUploadBytes: 20 * 1024 * 1024,
		Secret:         "test-secret",
		SessionTTL:     time.Hour,
		RememberTTL:    7 * 24 * time.Hour,
	}

	custodian, err := files.NewCustodian(cfg.UploadPath, cfg.DocsPath, log)
	if err != nil {
		t.Fatalf("NewCustodian: %v", err)
	}
	renderer, err := NewRenderer(cfg.BaseURL)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	return &testEnv{
		cfg:       cfg,
		log:       log,
		store:     store.NewSubmissionStore(db),
		custodian: custodian,
		renderer:  renderer,
	}
}

// multipartBody собирает multipart-тело формы с полями и одним файлом.
func multipartBody(t *testing.T, fields map[string]string, fileName, fileContent string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("WriteField(%s): %v", k, err)
		}
	}
	if fileName != "" {
		fw, err := mw.CreateFormFile("studentfiles", fileName)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		io.WriteString(fw, fileContent)
	}
	mw.Close()
	return &buf, mw.FormDataContentType()
}

func studentFields() map[string]string {
	return map[string]string{
		"studentname-lastname": "ИВАНОВ",
		"studentname-name":     "иван",
		"studentname-surname":  " Иванович ",
		"studentbirth":         "1990-01-01",
		"studentaddress":       "ул. Ленина, 1",
		"studentgender":        "male",
		"studentsnils":         "123-456-789 01",
		"studentid-serial":     "1234",
		"studentid-number":     "567890",
		"studentid-by":         "УФМС",
		"studentid-issued":     "2010-01-01",
		"studentbank":          "Сбербанк",
		"studentphone":         "+79991234567",
		"studentemail":         "ivan@example.com",
		"examselection":        "1",
		"examdate":             "2023-12-31",
	}
}

func clientFields() map[string]string {
	return map[string]string{
		"clientname-lastname": "сидорова",
		"clientname-name":     "АННА",
		"clientname-surname":  "Петровна",
		"clientbirth":         "1980-01-01",
		"clientaddress":       "ул. Пушкина, 3",
		"clientgender":        "female",
		"clientsnils":         "444-555-666 01",
		"clientid-serial":     "2222",
		"clientid-number":     "333333",
		"clientid-by":         "УФМС",
		"clientid-issued":     "2000-01-01",
		"clientbank":          "Альфа-Банк",
		"clientphone":         "+79994445555",
		"clientemail":         "anna@example.com",
	}
}
