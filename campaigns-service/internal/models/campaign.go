// models содержит доменные сущности campaigns-сервиса.
// Эти типы используются слоями бизнес-логики, хранилища и транспорта.
package models

import "time"

// CampaignType — тип кампании.
type CampaignType string

const (
	// TypeDonation — сбор средств.
	TypeDonation CampaignType = "donation"
	// TypePetition — петиция (подписи вместо денег).
	TypePetition CampaignType = "petition"
)

// Valid сообщает, известен ли тип кампании.
func (t CampaignType) Valid() bool {
	return t == TypeDonation || t == TypePetition
}

// Creator — автор кампании.
type Creator struct {
	Name     string
	Avatar   string
	Verified bool
}

// Amount — собранная сумма в валюте кампании.
type Amount struct {
	// Raised — собрано на текущий момент, >= 0.
	Raised float64
	// Currency — код валюты (ISO-4217).
	Currency string
}

// Campaign — доменная сущность кампании.
//
// Особенности:
//   - ID — строковый идентификатор из каталога (не генерируется сервисом);
//   - координаты опциональны и валидны только парой (Latitude+Longitude);
//   - Supporters заполняется только у петиций;
//   - CreatedAt — в UTC.
type Campaign struct {
	ID          string
	Type        CampaignType
	Title       string
	Description string
	Creator     Creator
	Image       string
	Amount      Amount
	// Percentage — прогресс сбора, 0–100.
	Percentage float64
	// Location — человекочитаемое место проведения (опционально).
	Location string
	// Latitude/Longitude — десятичные градусы; nil — координаты не заданы.
	Latitude  *float64
	Longitude *float64
	// Supporters — число подписей (только петиции); nil — неприменимо.
	Supporters *int64
	CreatedAt  time.Time
}

// HasCoordinates сообщает, задана ли полная пара координат.
func (c Campaign) HasCoordinates() bool {
	return c.Latitude != nil && c.Longitude != nil
}
