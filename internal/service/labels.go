package service

import (
	"strings"

	"github.com/atinyakov/accountstore/internal/models"
)

const (
	labelSeparator       = ";"
	labelStringSeparator = "; "
)

// ParseLabels splits s on ';', trims every segment and drops the empty ones.
// The result is never nil.
func ParseLabels(s string) []models.AccountLabel {
	labels := []models.AccountLabel{}
	for _, part := range strings.Split(s, labelSeparator) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		labels = append(labels, models.AccountLabel{Text: part})
	}
	return labels
}

// LabelsString joins the label texts of a with "; " for editing in a
// single text field.
func LabelsString(a models.Account) string {
	if len(a.Labels) == 0 {
		return ""
	}
	texts := make([]string, len(a.Labels))
	for i, l := range a.Labels {
		texts[i] = l.Text
	}
	return strings.Join(texts, labelStringSeparator)
}
