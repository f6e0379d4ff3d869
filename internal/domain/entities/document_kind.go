package entities

// DocumentKind identifies one of the three numbered document families
// managed by the CRM.

type DocumentKind string

const (
	DocumentKindEstimate DocumentKind = "estimate"
	DocumentKindJob      DocumentKind = "job"
	DocumentKindInvoice  DocumentKind = "invoice"
)

// ReferencePrefix returns the human-readable reference number prefix for
// the kind (EST-..., JOB-..., INV-...).
func (k DocumentKind) ReferencePrefix() string {
	switch k {
	case DocumentKindEstimate:
		return "EST"
	case DocumentKindJob:
		return "JOB"
	case DocumentKindInvoice:
		return "INV"
	default:
		return ""
	}
}

func (k DocumentKind) Valid() bool {
	switch k {
	case DocumentKindEstimate, DocumentKindJob, DocumentKindInvoice:
		return true
	}
	return false
}
