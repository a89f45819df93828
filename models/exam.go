package models

// ExamInfo — сумма, уровень и семейство экзамена для выбранного кода.
type ExamInfo struct {
	Points int
	Level  string
	Family string
}

var exams = map[string]ExamInfo{
	"1":  {2000, "1", "HSK"},
	"2":  {2000, "2", "HSK"},
	"3":  {3000, "3", "HSK"},
	"4":  {3000, "4", "HSK"},
	"5":  {4000, "5", "HSK"},
	"6":  {4000, "6", "HSK"},
	"7":  {2000, "базовый", "HSKK"},
	"8":  {3000, "средний", "HSKK"},
	"9":  {4000, "высокий", "HSKK"},
	"10": {2000, "A", "BCT"},
	"11": {3000, "B", "BCT"},
	"12": {1000, "1", "YCT"},
	"13": {1000, "2", "YCT"},
	"14": {1500, "3", "YCT"},
	"15": {1500, "4", "YCT"},
}

// SelectExam возвращает данные экзамена по коду из формы.
// Неизвестный код — нулевая заглушка, не ошибка.
func SelectExam(code string) ExamInfo {
	if info, ok := exams[code]; ok {
		return info
	}
	return ExamInfo{0, "0", "_____________"}
}
