package model

import (
	"fmt"
	"time"
)

// DraftStatus 表单行状态（闭合枚举）
type DraftStatus string

const (
	DraftStatusDraft      DraftStatus = "draft"      // 可编辑
	DraftStatusSubmitted  DraftStatus = "submitted"  // 已随批次发送
	DraftStatusHistorical DraftStatus = "historical" // 任务改版后的旧版快照
	DraftStatusArchived   DraftStatus = "archived"
)

// ParseDraftStatus 解析表单行状态，非法值返回错误
func ParseDraftStatus(s string) (DraftStatus, error) {
	switch DraftStatus(s) {
	case DraftStatusDraft, DraftStatusSubmitted, DraftStatusHistorical, DraftStatusArchived:
		return DraftStatus(s), nil
	}
	return "", fmt.Errorf("非法的表单状态: %q", s)
}

// DraftLine 预算表单行 — 对应 draft_lines
// 业务字段沿用财政口径的波兰语命名（与导入模板、规则字段引用保持一致）。
// 不变量：仅 status=draft 可编辑/删除；task_version 必须等于任务当前版本才可发送
type DraftLine struct {
	LineID       string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"line_id"`
	TaskID       string      `gorm:"type:uuid;not null;index"                       json:"task_id"`
	DepartmentID string      `gorm:"type:uuid;not null;index"                       json:"department_id"`
	BatchID      *string     `gorm:"type:uuid;index"                                json:"batch_id,omitempty"`
	Status       DraftStatus `gorm:"type:varchar(12);not null;default:'draft'"      json:"status"`
	ParentLineID *string     `gorm:"type:uuid;index"                                json:"parent_line_id,omitempty"`
	TaskVersion  int         `gorm:"not null;default:1"                             json:"task_version"`

	// ── 分类与筛选字段 ──
	KodRozdzialu         string   `gorm:"type:varchar(20);index"  json:"kod_rozdzialu,omitempty"`
	KodParagrafu         string   `gorm:"type:varchar(20);index"  json:"kod_paragrafu,omitempty"`
	KodDzialania         string   `gorm:"type:varchar(20)"        json:"kod_dzialania,omitempty"`
	NazwaZadania         string   `gorm:"type:varchar(300)"       json:"nazwa_zadania,omitempty"`
	Kategoria            string   `gorm:"type:varchar(100);index" json:"kategoria,omitempty"`
	Priorytet            string   `gorm:"type:varchar(20);index"  json:"priorytet,omitempty"`
	Rok1                 *float64 `gorm:"column:rok_1;type:numeric(18,2)" json:"rok_1,omitempty"`
	Rok2                 *float64 `gorm:"column:rok_2;type:numeric(18,2)" json:"rok_2,omitempty"`
	Rok3                 *float64 `gorm:"column:rok_3;type:numeric(18,2)" json:"rok_3,omitempty"`
	Rok4                 *float64 `gorm:"column:rok_4;type:numeric(18,2)" json:"rok_4,omitempty"`
	TypWydatku           string   `gorm:"type:varchar(50)"        json:"typ_wydatku,omitempty"`
	ZrodloFinansowania   string   `gorm:"type:varchar(100)"       json:"zrodlo_finansowania,omitempty"`
	JednostkaRealizujaca string   `gorm:"type:varchar(200)"       json:"jednostka_realizujaca,omitempty"`

	// ── 补充说明字段 ──
	OpisSzczegolowy     string `gorm:"type:text"         json:"opis_szczegolowy,omitempty"`
	Uzasadnienie        string `gorm:"type:text"         json:"uzasadnienie,omitempty"`
	Uwagi               string `gorm:"type:text"         json:"uwagi,omitempty"`
	ZalacznikiRef       string `gorm:"type:text"         json:"zalaczniki_ref,omitempty"`
	OsobaOdpowiedzialna string `gorm:"type:varchar(100)" json:"osoba_odpowiedzialna,omitempty"`
	TelefonKontaktowy   string `gorm:"type:varchar(30)"  json:"telefon_kontaktowy,omitempty"`
	EmailKontaktowy     string `gorm:"type:varchar(100)" json:"email_kontaktowy,omitempty"`
	DataRozpoczecia     string `gorm:"type:varchar(20)"  json:"data_rozpoczecia,omitempty"`
	DataZakonczenia     string `gorm:"type:varchar(20)"  json:"data_zakonczenia,omitempty"`
	WskaznikiRealizacji string `gorm:"type:text"         json:"wskazniki_realizacji,omitempty"`

	CreatedAt   time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
}

// TableName 指定表名
func (DraftLine) TableName() string { return "draft_lines" }

// IsEditable 仅 draft 状态可编辑/删除
func (l *DraftLine) IsEditable() bool { return l.Status == DraftStatusDraft }

// FieldValue 按字段线上名称（JSON 命名）取值，供规则引擎动态寻址。
// 数值字段返回 *float64 解引用后的 float64 或 nil；文本字段空串视为未填写。
// 未知字段名返回 nil
func (l *DraftLine) FieldValue(name string) interface{} {
	switch name {
	case "kod_rozdzialu":
		return textOrNil(l.KodRozdzialu)
	case "kod_paragrafu":
		return textOrNil(l.KodParagrafu)
	case "kod_dzialania":
		return textOrNil(l.KodDzialania)
	case "nazwa_zadania":
		return textOrNil(l.NazwaZadania)
	case "kategoria":
		return textOrNil(l.Kategoria)
	case "priorytet":
		return textOrNil(l.Priorytet)
	case "rok_1":
		return numOrNil(l.Rok1)
	case "rok_2":
		return numOrNil(l.Rok2)
	case "rok_3":
		return numOrNil(l.Rok3)
	case "rok_4":
		return numOrNil(l.Rok4)
	case "typ_wydatku":
		return textOrNil(l.TypWydatku)
	case "zrodlo_finansowania":
		return textOrNil(l.ZrodloFinansowania)
	case "jednostka_realizujaca":
		return textOrNil(l.JednostkaRealizujaca)
	case "opis_szczegolowy":
		return textOrNil(l.OpisSzczegolowy)
	case "uzasadnienie":
		return textOrNil(l.Uzasadnienie)
	case "uwagi":
		return textOrNil(l.Uwagi)
	case "zalaczniki_ref":
		return textOrNil(l.ZalacznikiRef)
	case "osoba_odpowiedzialna":
		return textOrNil(l.OsobaOdpowiedzialna)
	case "telefon_kontaktowy":
		return textOrNil(l.TelefonKontaktowy)
	case "email_kontaktowy":
		return textOrNil(l.EmailKontaktowy)
	case "data_rozpoczecia":
		return textOrNil(l.DataRozpoczecia)
	case "data_zakonczenia":
		return textOrNil(l.DataZakonczenia)
	case "wskazniki_realizacji":
		return textOrNil(l.WskaznikiRealizacji)
	}
	return nil
}

// YearAmount 第 n 年（1-4）金额，未填写按 0 计
func (l *DraftLine) YearAmount(year int) float64 {
	var v *float64
	switch year {
	case 1:
		v = l.Rok1
	case 2:
		v = l.Rok2
	case 3:
		v = l.Rok3
	case 4:
		v = l.Rok4
	}
	if v == nil {
		return 0
	}
	return *v
}

func textOrNil(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func numOrNil(f *float64) interface{} {
	if f == nil {
		return nil
	}
	return *f
}
