package calculations

// DefaultCapital задает капитал по умолчанию, ARS
const DefaultCapital = 850000

// Years содержит годы, к которым относятся исторические ставки
var Years = []int{2022, 2023, 2024}

// InitialBanks возвращает банки с незаполненными ставками
func InitialBanks() []Bank {
	return []Bank{
		NewBank("provincia", "Banco Provincia", "Provincia", "/banco-provincia.svg", "#0066CC", 0, 0, 0),
		NewBank("nacion", "Banco Nación", "Nación", "/banco-nacion.svg", "#00A859", 0, 0, 0),
		NewBank("hipotecario", "Banco Hipotecario", "Hipotecario", "/banco-hipotecario.svg", "#FF6B35", 0, 0, 0),
	}
}

// ExampleBanks возвращает банки с примером исторических ставок
func ExampleBanks() []Bank {
	return []Bank{
		NewBank("provincia", "Banco Provincia", "Provincia", "/banco-provincia.svg", "#0066CC", 45.5, 52.3, 58.7),
		NewBank("nacion", "Banco Nación", "Nación", "/banco-nacion.svg", "#00A859", 48.2, 55.6, 62.1),
		NewBank("hipotecario", "Banco Hipotecario", "Hipotecario", "/banco-hipotecario.svg", "#FF6B35", 44.8, 51.2, 57.4),
	}
}
