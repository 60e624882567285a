package truerandomnumber

import (
	"time"

	"golang.org/x/text/language"
)

// The first entry is the fallback for unknown or unparseable locales.
var dateLocales = []struct {
	tag    language.Tag
	layout string
}{
	{language.AmericanEnglish, "1/2/2006"},
	{language.BrazilianPortuguese, "02/01/2006"},
	{language.BritishEnglish, "02/01/2006"},
	{language.Spanish, "02/01/2006"},
	{language.French, "02/01/2006"},
	{language.Italian, "02/01/2006"},
	{language.German, "02.01.2006"},
	{language.Japanese, "2006/01/02"},
	{language.Chinese, "2006/01/02"},
	{language.Korean, "2006/01/02"},
}

var dateMatcher = func() language.Matcher {
	tags := make([]language.Tag, len(dateLocales))
	for i, l := range dateLocales {
		tags[i] = l.tag
	}
	return language.NewMatcher(tags)
}()

// DateLayout returns the short-date layout for a BCP 47 locale.
func DateLayout(locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		return dateLocales[0].layout
	}
	_, idx, confidence := dateMatcher.Match(tag)
	if confidence < language.High {
		return dateLocales[0].layout
	}
	return dateLocales[idx].layout
}

// FormatDate renders t's local calendar date for locale.
func FormatDate(t time.Time, locale string) string {
	return t.Format(DateLayout(locale))
}
