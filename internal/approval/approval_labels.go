package approval

import (
	"golang.org/x/text/language"
)

// Labels maps resolved states to display strings. Business logic must never
// branch on these values.
type Labels struct {
	supported []language.Tag
	matcher   language.Matcher
	table     map[language.Tag]map[string]string
}

var defaultLabelTable = map[language.Tag]map[string]string{
	language.English: {
		labelKey(StatusWaiting, CancelNone):      "Waiting for approval",
		labelKey(StatusApproved, CancelNone):     "Approved",
		labelKey(StatusApproved, CancelPending):  "Approved (cancellation requested)",
		labelKey(StatusApproved, CancelRejected): "Approved (cancellation rejected)",
		labelKey(StatusRejected, CancelNone):     "Rejected",
		labelKey(StatusCanceled, CancelApproved): "Canceled",
		labelKey(StatusWithdrawn, CancelNone):    "Withdrawn",
	},
	language.Indonesian: {
		labelKey(StatusWaiting, CancelNone):      "Menunggu persetujuan",
		labelKey(StatusApproved, CancelNone):     "Disetujui",
		labelKey(StatusApproved, CancelPending):  "Disetujui (pembatalan diajukan)",
		labelKey(StatusApproved, CancelRejected): "Disetujui (pembatalan ditolak)",
		labelKey(StatusRejected, CancelNone):     "Ditolak",
		labelKey(StatusCanceled, CancelApproved): "Dibatalkan",
		labelKey(StatusWithdrawn, CancelNone):    "Ditarik",
	},
}

func labelKey(status Status, cancel CancelState) string {
	return string(status) + "/" + string(cancel)
}

// DefaultLabels returns the built-in English and Indonesian table.
// English is the fallback language.
func DefaultLabels() *Labels {
	return NewLabels(language.English, defaultLabelTable)
}

func NewLabels(fallback language.Tag, table map[language.Tag]map[string]string) *Labels {
	supported := []language.Tag{fallback}
	for tag := range table {
		if tag != fallback {
			supported = append(supported, tag)
		}
	}
	return &Labels{
		supported: supported,
		matcher:   language.NewMatcher(supported),
		table:     table,
	}
}

// Label renders r for the best match of an Accept-Language header value.
// Unknown combinations fall back to the raw status code.
func (l *Labels) Label(r Resolution, acceptLanguage string) string {
	tags, _, _ := language.ParseAcceptLanguage(acceptLanguage)
	_, idx, _ := l.matcher.Match(tags...)

	if v, ok := l.table[l.supported[idx]][labelKey(r.Status, r.Cancel)]; ok {
		return v
	}
	if v, ok := l.table[l.supported[0]][labelKey(r.Status, r.Cancel)]; ok {
		return v
	}
	return string(r.Status)
}
