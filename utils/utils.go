package utils

import (
	"encoding/json"
	"log"
	"net/http"
	"path"
	"strings"
	"unicode"

	"chinaekb-forms/models"
)

func RespondWithError(w http.ResponseWriter, status int, error models.Error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(error); err != nil {
		log.Printf("Ошибка при отправке JSON ошибки: %v", err)
	}
}

func ResponseJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Не удалось сформировать JSON", http.StatusInternalServerError)
	}
}

// Capitalize нормализует имя: пробелы обрезаются, всё в нижний регистр,
// первая буква заглавная. Ровно одно слово, не title-case.
func Capitalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// SecureFilename готовит имя загруженного файла к использованию как ключ
// хранения: путь отбрасывается, небезопасные символы заменяются на "_".
// Кириллица сохраняется — файлы абитуриентов названы по-русски.
func SecureFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.Is(unicode.Cyrillic, r):
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	cleaned := strings.Trim(b.String(), "._")
	return cleaned
}
