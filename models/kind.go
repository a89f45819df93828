package models

import "fmt"

// RecordKind — закрытый перечень видов заявок. Имя таблицы никогда не
// берётся из запроса напрямую: внешний параметр сначала проходит через
// ParseRecordKind, а SQL для каждого вида зафиксирован в store.
type RecordKind string

const (
	KindMinor RecordKind = "students"
	KindAdult RecordKind = "adult_students"
)

func ParseRecordKind(name string) (RecordKind, error) {
	switch name {
	case string(KindMinor):
		return KindMinor, nil
	case string(KindAdult):
		return KindAdult, nil
	}
	return "", fmt.Errorf("неизвестная таблица %q", name)
}
