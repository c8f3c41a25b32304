// Package scoring turns raw assessment answers into the 5-dimension score
// vector and the 4-letter type code.
package scoring

import (
	"strings"

	"github.com/rcliao/wellness-profile/internal/model"
)

type axis struct {
	question string
	match    byte // letter chosen when a keyword is present
	other    byte // default letter
	keywords []string
}

var axes = [4]axis{
	{QSocialEnergy, 'E', 'I', []string{"people", "friend", "social", "group", "party", "others", "talk", "extrovert"}},
	{QInformationFocus, 'S', 'N', []string{"detail", "fact", "practical", "concrete", "present", "hands-on", "experience"}},
	{QDecisionStyle, 'T', 'F', []string{"logic", "analy", "objective", "reason", "pros and cons"}},
	{QLifeApproach, 'J', 'P', []string{"plan", "schedule", "organiz", "structure", "list", "routine"}},
}

// DeriveTypeCode returns the user's type code. A valid directly supplied
// code wins; otherwise each axis is resolved from its answer, with missing
// answers taking the default letter.
func DeriveTypeCode(answers model.Answers) model.TypeCode {
	if code, ok := ParseTypeCode(answers.Text(QPersonalityType)); ok {
		return code
	}
	var b strings.Builder
	for _, ax := range axes {
		if ContainsAny(answers.Text(ax.question), ax.keywords...) {
			b.WriteByte(ax.match)
		} else {
			b.WriteByte(ax.other)
		}
	}
	return model.TypeCode(b.String())
}

// ParseTypeCode validates a 4-letter code against the axis alphabet.
func ParseTypeCode(s string) (model.TypeCode, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != len(axes) {
		return "", false
	}
	for i, ax := range axes {
		if s[i] != ax.match && s[i] != ax.other {
			return "", false
		}
	}
	return model.TypeCode(s), true
}
