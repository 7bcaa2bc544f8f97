package dto

// DraftFields 表单行业务字段（创建与更新共用的载荷）
type DraftFields struct {
	KodRozdzialu         *string  `json:"kod_rozdzialu"`
	KodParagrafu         *string  `json:"kod_paragrafu"`
	KodDzialania         *string  `json:"kod_dzialania"`
	NazwaZadania         *string  `json:"nazwa_zadania"`
	Kategoria            *string  `json:"kategoria"`
	Priorytet            *string  `json:"priorytet"`
	Rok1                 *float64 `json:"rok_1"`
	Rok2                 *float64 `json:"rok_2"`
	Rok3                 *float64 `json:"rok_3"`
	Rok4                 *float64 `json:"rok_4"`
	TypWydatku           *string  `json:"typ_wydatku"`
	ZrodloFinansowania   *string  `json:"zrodlo_finansowania"`
	JednostkaRealizujaca *string  `json:"jednostka_realizujaca"`
	OpisSzczegolowy      *string  `json:"opis_szczegolowy"`
	Uzasadnienie         *string  `json:"uzasadnienie"`
	Uwagi                *string  `json:"uwagi"`
	ZalacznikiRef        *string  `json:"zalaczniki_ref"`
	OsobaOdpowiedzialna  *string  `json:"osoba_odpowiedzialna"`
	TelefonKontaktowy    *string  `json:"telefon_kontaktowy"`
	EmailKontaktowy      *string  `json:"email_kontaktowy"`
	DataRozpoczecia      *string  `json:"data_rozpoczecia"`
	DataZakonczenia      *string  `json:"data_zakonczenia"`
	WskaznikiRealizacji  *string  `json:"wskazniki_realizacji"`
}

// CreateDraftRequest 创建表单行请求
type CreateDraftRequest struct {
	TaskID       string `json:"task_id" binding:"required,uuid"`
	DepartmentID string `json:"department_id" binding:"required,uuid"`
	DraftFields
}

// UpdateDraftRequest 更新表单行请求（仅 draft 状态可更新）
type UpdateDraftRequest struct {
	DraftFields
}

// DraftListRequest 表单行列表筛选参数
type DraftListRequest struct {
	TaskID             string `form:"task_id"`
	DepartmentID       string `form:"department_id"`
	Status             string `form:"status"`
	KodRozdzialu       string `form:"kod_rozdzialu"`
	KodParagrafu       string `form:"kod_paragrafu"`
	KodDzialania       string `form:"kod_dzialania"`
	Kategoria          string `form:"kategoria"`
	Priorytet          string `form:"priorytet"`
	TypWydatku         string `form:"typ_wydatku"`
	ZrodloFinansowania string `form:"zrodlo_finansowania"`
}
