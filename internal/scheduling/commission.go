package scheduling

import "math"

// Split распределение цены сессии между платформой и экспертом
type Split struct {
	PlatformShare float64
	ExpertShare   float64
}

// CommissionEngine делит цену по ставке платформы, заданной конфигурацией
type CommissionEngine struct {
	rate float64
}

// NewCommissionEngine создает движок со ставкой rate из [0, 1)
func NewCommissionEngine(rate float64) *CommissionEngine {
	return &CommissionEngine{rate: rate}
}

// Rate текущая ставка платформы
func (e *CommissionEngine) Rate() float64 {
	return e.rate
}

// Split считает доли: platform = round(price*rate), expert = price - platform.
// Сумма долей всегда равна цене.
func (e *CommissionEngine) Split(price float64) Split {
	platform := RoundMoney(price * e.rate)
	return Split{
		PlatformShare: platform,
		ExpertShare:   RoundMoney(price - platform),
	}
}

// SessionPrice цена сессии по почасовой ставке эксперта
func SessionPrice(hourlyRate float64, durationMinutes int) float64 {
	return RoundMoney(hourlyRate * float64(durationMinutes) / 60)
}

// RoundMoney округляет сумму до центов
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
