// Package currency formatea montos para exhibición según la moneda
// configurada. La configuración declara el conjunto de monedas soportadas
// (símbolo, posición, precisión y locale por código) y la moneda por defecto
// de la región; se carga desde un archivo JSON para que las tiendas de cada
// país puedan ajustar el conjunto sin recompilar.
package currency

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Currency cómo mostrar montos de una moneda soportada.
type Currency struct {
	Code          string `mapstructure:"code"`           // ISO 4217, ej. "ZAR"
	Symbol        string `mapstructure:"symbol"`         // ej. "R"
	SymbolFirst   bool   `mapstructure:"symbol_first"`   // "R 99.99" vs "99.99 R"
	DecimalPlaces int    `mapstructure:"decimal_places"` // normalmente 2
	Locale        string `mapstructure:"locale"`         // BCP 47; define separadores
}

// Config conjunto de monedas soportadas y la moneda por defecto de la región.
type Config struct {
	Default   string     `mapstructure:"default"`
	Supported []Currency `mapstructure:"supported"`
}

// DefaultConfig rand sudafricano por defecto, con las monedas de exhibición
// habituales del catálogo.
func DefaultConfig() Config {
	return Config{
		Default: "ZAR",
		Supported: []Currency{
			{Code: "ZAR", Symbol: "R", SymbolFirst: true, DecimalPlaces: 2, Locale: "en-ZA"},
			{Code: "USD", Symbol: "$", SymbolFirst: true, DecimalPlaces: 2, Locale: "en-US"},
			{Code: "EUR", Symbol: "€", SymbolFirst: false, DecimalPlaces: 2, Locale: "de-DE"},
		},
	}
}

// Validate invariantes de la configuración: al menos una moneda soportada,
// códigos presentes y sin duplicar, precisión no negativa, y la moneda por
// defecto dentro del conjunto soportado.
func (c Config) Validate() error {
	if len(c.Supported) == 0 {
		return fmt.Errorf("configuración de moneda sin monedas soportadas")
	}
	seen := make(map[string]bool, len(c.Supported))
	for _, cur := range c.Supported {
		if cur.Code == "" {
			return fmt.Errorf("moneda soportada sin código ISO 4217")
		}
		if seen[cur.Code] {
			return fmt.Errorf("moneda %s duplicada en el conjunto soportado", cur.Code)
		}
		if cur.DecimalPlaces < 0 {
			return fmt.Errorf("moneda %s con precisión negativa", cur.Code)
		}
		seen[cur.Code] = true
	}
	if c.Default == "" {
		return fmt.Errorf("configuración de moneda sin moneda por defecto")
	}
	if !seen[c.Default] {
		return fmt.Errorf("la moneda por defecto %s no está entre las soportadas", c.Default)
	}
	return nil
}

// LoadConfig carga y valida la configuración de moneda desde un archivo JSON.
// Si path está vacío se usa la configuración por defecto.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("leer configuración de moneda: %w", err)
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsear configuración de moneda: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Formatter formatea montos decimales como texto para exhibición, por código
// de moneda soportado.
type Formatter struct {
	def      string
	byCode   map[string]Currency
	printers map[string]*message.Printer
}

// NewFormatter construye un formateador para la configuración dada (ya
// validada). Un locale inválido cae al formato neutro (en).
func NewFormatter(cfg Config) *Formatter {
	f := &Formatter{
		def:      cfg.Default,
		byCode:   make(map[string]Currency, len(cfg.Supported)),
		printers: make(map[string]*message.Printer, len(cfg.Supported)),
	}
	for _, cur := range cfg.Supported {
		tag, err := language.Parse(cur.Locale)
		if err != nil {
			tag = language.English
		}
		f.byCode[cur.Code] = cur
		f.printers[cur.Code] = message.NewPrinter(tag)
	}
	return f
}

// Format devuelve el monto con símbolo y separadores del locale de la moneda.
// Un código fuera del conjunto soportado es un error.
// Ej: 1234.5 en ZAR → "R 1,234.50" con la configuración por defecto.
func (f *Formatter) Format(amount decimal.Decimal, code string) (string, error) {
	cur, ok := f.byCode[code]
	if !ok {
		return "", fmt.Errorf("moneda no soportada: %s", code)
	}
	value := amount.Round(int32(cur.DecimalPlaces)).InexactFloat64()
	digits := f.printers[code].Sprintf("%v", number.Decimal(value,
		number.MinFractionDigits(cur.DecimalPlaces),
		number.MaxFractionDigits(cur.DecimalPlaces),
	))
	if cur.SymbolFirst {
		return cur.Symbol + " " + digits, nil
	}
	return digits + " " + cur.Symbol, nil
}

// FormatDefault formatea en la moneda por defecto de la configuración, que
// Validate garantiza presente en el conjunto soportado.
func (f *Formatter) FormatDefault(amount decimal.Decimal) string {
	s, _ := f.Format(amount, f.def)
	return s
}

// DefaultCode devuelve el código ISO 4217 de la moneda por defecto.
func (f *Formatter) DefaultCode() string { return f.def }
