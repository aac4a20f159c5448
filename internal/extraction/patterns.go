package extraction

import "regexp"

// ---------- package-level compiled regexes ----------

// Trigger-phrase rules capture the span that follows a phrase like
// "mi nombre es" or "trabajo en". Phone and email are structural and
// need no trigger phrase.
var (
	nameRE = regexp.MustCompile(`(?i)(?:mi nombre es|me llamo|mi nombre|soy)\s+([A-ZÁÉÍÓÚÜÑa-záéíóúüñ]+(?:\s+[A-ZÁÉÍÓÚÜÑa-záéíóúüñ]+)*)`)

	phoneRE = regexp.MustCompile(`(\+?\d{1,4}[-.\s]?\(?\d+\)?[-.\s]?\d+[-.\s]?\d+[-.\s]?\d+)`)

	emailRE = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

	// Company and visit-reason spans anchor on an uppercase first letter,
	// but (?i) folds the class, so lowercase starts match too. Intentional:
	// chat visitors rarely capitalize, and the four-character floor does
	// the real filtering.
	companyRE = regexp.MustCompile(`(?i)(?:trabajo en|empresa es|soy de)\s+([A-ZÁÉÍÓÚÜÑ][a-záéíóúüñ0-9\s&.,-]{3,})`)

	visitReasonRE = regexp.MustCompile(`(?i)(?:reunirme con|visitar|visita|conocer|me interesa|quiero saber)\s+([A-ZÁÉÍÓÚÜÑ][a-záéíóúüñ0-9\s&.,-]{3,})`)
)

// fieldPatterns pairs each field with its matching rule, in the order the
// extractor scans them.
var fieldPatterns = []struct {
	field   Field
	pattern *regexp.Regexp
}{
	{FieldName, nameRE},
	{FieldPhone, phoneRE},
	{FieldEmail, emailRE},
	{FieldCompany, companyRE},
	{FieldVisitReason, visitReasonRE},
}
