package models

// Representative — законный представитель несовершеннолетнего.
// Создаётся в одной транзакции с заявкой и ссылается на неё по StudentID.
type Representative struct {
	ID        int    `json:"id"`
	StudentID int    `json:"student_id"`

	LastName   string `json:"last_name"`
	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name"`
	BirthDate  string `json:"birth_date"`
	Address    string `json:"address"`
	Gender     string `json:"gender"`
	SNILS      string `json:"snils"`

	IDSerial     string `json:"id_serial"`
	IDNumber     string `json:"id_number"`
	IDIssuedBy   string `json:"id_issued_by"`
	IDIssuedDate string `json:"id_issued_date"`

	BankDetails string `json:"bank_details"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
}
