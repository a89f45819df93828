// Package files отвечает за файлы на диске: загруженные подтверждающие
// документы абитуриентов, сгенерированные документы и шаблоны договоров.
package files

import (
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"chinaekb-forms/utils"
)

// Custodian хранит загруженные файлы под очищенными именами и удаляет их,
// когда заявка одобрена и передана в 1С.
type Custodian struct {
	UploadDir string
	DocsDir   string
	Log       *logrus.Logger
}

func NewCustodian(uploadDir, docsDir string, log *logrus.Logger) (*Custodian, error) {
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, err
	}
	return &Custodian{UploadDir: uploadDir, DocsDir: docsDir, Log: log}, nil
}

// SaveUploads пишет файлы формы в каталог загрузок и возвращает имена,
// под которыми они сохранены. Совпавшие имена перезаписываются:
// уникальность не гарантируется, побеждает последний.
func (c *Custodian) SaveUploads(headers []*multipart.FileHeader) ([]string, error) {
	var saved []string
	for _, fh := range headers {
		name := utils.SecureFilename(fh.Filename)
		if name == "" {
			continue
		}
		src, err := fh.Open()
		if err != nil {
			return saved, err
		}
		dst, err := os.Create(filepath.Join(c.UploadDir, name))
		if err != nil {
			src.Close()
			return saved, err
		}
		_, err = io.Copy(dst, src)
		src.Close()
		dst.Close()
		if err != nil {
			return saved, err
		}
		saved = append(saved, name)
	}
	return saved, nil
}

// Delete убирает файлы одобренной заявки. Отсутствующий файл — предупреждение
// в журнале, не ошибка: заявка уже передана в 1С.
func (c *Custodian) Delete(names []string) {
	for _, name := range names {
		if name == "" {
			continue
		}
		full := filepath.Join(c.UploadDir, filepath.Base(name))
		if _, err := os.Stat(full); err != nil {
			c.Log.Warnf("Файл %s не найден", full)
			continue
		}
		if err := os.Remove(full); err != nil {
			c.Log.Warnf("Не удалось удалить файл %s: %v", full, err)
			continue
		}
		c.Log.Infof("Файл %s удален", full)
	}
}

// SweepDocs удаляет из каталога документов всё старше ttl.
// Вызывается синхронно перед каждой отдачей документа; ttl == 0 — не чистить.
func (c *Custodian) SweepDocs(ttl time.Duration) {
	if ttl == 0 {
		return
	}
	entries, err := os.ReadDir(c.DocsDir)
	if err != nil {
		c.Log.Warnf("Не удалось прочитать каталог документов %s: %v", c.DocsDir, err)
		return
	}
	now := time.Now()
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) > ttl {
			full := filepath.Join(c.DocsDir, entry.Name())
			if err := os.Remove(full); err != nil {
				c.Log.Warnf("Не удалось удалить документ %s: %v", full, err)
			}
		}
	}
}

// SeedContracts докладывает недостающие шаблоны договоров из комплекта
// приложения в рабочий каталог. Существующие файлы не трогаются.
func SeedContracts(bundledDir, targetDir string, log *logrus.Logger) error {
	if targetDir == bundledDir {
		return nil
	}
	entries, err := os.ReadDir(bundledDir)
	if err != nil {
		// комплекта может не быть рядом с бинарником
		log.Debugf("Каталог шаблонов %s недоступен: %v", bundledDir, err)
		return nil
	}
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		dst := filepath.Join(targetDir, entry.Name())
		if _, err := os.Stat(dst); err == nil {
			continue
		}
		data, err := os.ReadFile(filepath.Join(bundledDir, entry.Name()))
		if err != nil {
			return err
		}
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			return err
		}
	}
	return nil
}
