package core

import (
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Country is one entry of the supported dialling-code list.
type Country struct {
	Code string `json:"code"` // ISO 3166-1 alpha-2
	Dial string `json:"dial"`
	Name string `json:"name"`
}

// Label renders the option text shown in the country select.
func (c Country) Label() string {
	return c.Name + " (" + c.Dial + ")"
}

var countries = []Country{
	newCountry("US", "+1"),
	newCountry("IN", "+91"),
	newCountry("GB", "+44"),
	newCountry("AU", "+61"),
}

func newCountry(code, dial string) Country {
	name := code
	if region, err := language.ParseRegion(code); err == nil {
		if n := display.English.Regions().Name(region); n != "" {
			name = n
		}
	}
	return Country{Code: code, Dial: dial, Name: name}
}

// Countries returns the supported countries in display order.
func Countries() []Country {
	out := make([]Country, len(countries))
	copy(out, countries)
	return out
}

// LookupCountry finds a supported country by its exact code.
func LookupCountry(code string) (Country, bool) {
	for _, c := range countries {
		if c.Code == code {
			return c, true
		}
	}
	return Country{}, false
}
