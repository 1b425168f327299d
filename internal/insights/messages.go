package insights

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Catalog renders alert titles, descriptions, month names and amounts for
// one locale.
type Catalog struct {
	tag     language.Tag
	printer *message.Printer
	months  [12]string
	texts   catalogTexts
}

type catalogTexts struct {
	duplicateTitle   string
	duplicateDesc    string // invoice number, provider
	newProviderTitle string
	newProviderDesc  string // provider
	anomalyTitle     string
	anomalyDesc      string // provider, amount, percent
	missingTitle     string
	missingDesc      string // provider, month
	trendTitle       string
	trendDesc        string // concept, provider, percent
	moneyFormat      string // formatted number
}

var spanishTexts = catalogTexts{
	duplicateTitle:   "Posible Factura Duplicada",
	duplicateDesc:    "Factura #%s de %s parece duplicada.",
	newProviderTitle: "Nuevo Proveedor Detectado",
	newProviderDesc:  "Se ha recibido una factura de \"%s\".",
	anomalyTitle:     "Anomalía en Coste",
	anomalyDesc:      "Factura de %s (%s) es un %d%% superior a la media.",
	missingTitle:     "Posible Factura Faltante",
	missingDesc:      "No se ha recibido factura de %s para %s.",
	trendTitle:       "Tendencia de Costes Alcista",
	trendDesc:        "El coste de \"%s\" de %s ha subido un %d%%.",
	moneyFormat:      "%s €",
}

var englishTexts = catalogTexts{
	duplicateTitle:   "Possible Duplicate Invoice",
	duplicateDesc:    "Invoice #%s from %s looks like a duplicate.",
	newProviderTitle: "New Provider Detected",
	newProviderDesc:  "An invoice was received from \"%s\".",
	anomalyTitle:     "Cost Anomaly",
	anomalyDesc:      "Invoice from %s (%s) is %d%% above the average.",
	missingTitle:     "Possible Missing Invoice",
	missingDesc:      "No invoice was received from %s for %s.",
	trendTitle:       "Rising Cost Trend",
	trendDesc:        "The cost of \"%s\" from %s has risen %d%%.",
	moneyFormat:      "€%s",
}

var (
	spanishMonths = [12]string{"Ene", "Feb", "Mar", "Abr", "May", "Jun", "Jul", "Ago", "Sep", "Oct", "Nov", "Dic"}
	englishMonths = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}
)

// NewCatalog returns the catalog for a locale such as "es" or "en-GB".
// Unknown locales fall back to Spanish.
func NewCatalog(locale string) *Catalog {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		tag = language.Spanish
	}

	base, _ := tag.Base()
	switch base.String() {
	case "en":
		return &Catalog{tag: tag, printer: message.NewPrinter(tag), months: englishMonths, texts: englishTexts}
	default:
		return &Catalog{tag: language.Spanish, printer: message.NewPrinter(language.Spanish), months: spanishMonths, texts: spanishTexts}
	}
}

// DefaultCatalog is the Spanish catalog
func DefaultCatalog() *Catalog {
	return NewCatalog("es")
}

// Locale returns the BCP 47 tag of the catalog
func (c *Catalog) Locale() string {
	return c.tag.String()
}

// MonthShort returns the abbreviated month name
func (c *Catalog) MonthShort(m time.Month) string {
	return c.months[m-1]
}

// MonthYearLabel returns a chart label such as "Ene '24"
func (c *Catalog) MonthYearLabel(year int, m time.Month) string {
	return fmt.Sprintf("%s '%02d", c.MonthShort(m), year%100)
}

// Money formats an amount in euros for the catalog's locale
func (c *Catalog) Money(d decimal.Decimal) string {
	number := c.printer.Sprintf("%.2f", d.InexactFloat64())
	return fmt.Sprintf(c.texts.moneyFormat, number)
}

func (c *Catalog) duplicate(invoiceNumber, provider string) (string, string) {
	return c.texts.duplicateTitle, fmt.Sprintf(c.texts.duplicateDesc, invoiceNumber, provider)
}

func (c *Catalog) newProvider(provider string) (string, string) {
	return c.texts.newProviderTitle, fmt.Sprintf(c.texts.newProviderDesc, provider)
}

func (c *Catalog) anomaly(provider string, total decimal.Decimal, percent int64) (string, string) {
	return c.texts.anomalyTitle, fmt.Sprintf(c.texts.anomalyDesc, provider, c.Money(total), percent)
}

func (c *Catalog) missingInvoice(provider string, m time.Month) (string, string) {
	return c.texts.missingTitle, fmt.Sprintf(c.texts.missingDesc, provider, c.MonthShort(m))
}

func (c *Catalog) costTrend(concept, provider string, percent int64) (string, string) {
	return c.texts.trendTitle, fmt.Sprintf(c.texts.trendDesc, concept, provider, percent)
}
