package web

// Values used when a request does not carry the optional context.
const (
	DefaultEmail         = "No Access Header Found"
	DefaultCountry       = "PH"
	DefaultCode          = "XX"
	DefaultEmailHeader   = "Cf-Access-Authenticated-User-Email"
	DefaultCountryHeader = "Cf-Ipcountry"
	DefaultAssetBaseURL  = "/assets"
)

// Defaults groups the fallbacks and the headers they stand in for.
type Defaults struct {
	// Shown when EmailHeader is absent.
	Email string

	// Shown (and linked to) when CountryHeader is absent.
	Country string

	// Used for a cached flag page requested with an empty code.
	Code string

	EmailHeader   string
	CountryHeader string
}

// StandardDefaults returns the defaults built from the Default* constants.
func StandardDefaults() Defaults {
	return Defaults{
		Email:         DefaultEmail,
		Country:       DefaultCountry,
		Code:          DefaultCode,
		EmailHeader:   DefaultEmailHeader,
		CountryHeader: DefaultCountryHeader,
	}
}

// merge fills the zero fields of d from fallback.
func (d Defaults) merge(fallback Defaults) Defaults {
	if d.Email == "" {
		d.Email = fallback.Email
	}
	if d.Country == "" {
		d.Country = fallback.Country
	}
	if d.Code == "" {
		d.Code = fallback.Code
	}
	if d.EmailHeader == "" {
		d.EmailHeader = fallback.EmailHeader
	}
	if d.CountryHeader == "" {
		d.CountryHeader = fallback.CountryHeader
	}
	return d
}
