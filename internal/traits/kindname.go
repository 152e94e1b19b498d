package traits

import "strings"

var kindAliases = map[string]string{
	KindScalar:   KindScalar,
	KindInteger:  KindInteger,
	KindFlag:     KindFlag,
	KindChoice:   KindChoice,
	KindColor:    KindColor,
	"float":      KindScalar,
	"number":     KindScalar,
	"real":       KindScalar,
	"continuous": KindScalar,
	"int":        KindInteger,
	"count":      KindInteger,
	"discrete":   KindInteger,
	"bool":       KindFlag,
	"boolean":    KindFlag,
	"toggle":     KindFlag,
	"enum":       KindChoice,
	"option":     KindChoice,
	"category":   KindChoice,
	"rgb":        KindColor,
	"colour":     KindColor,
	"hex-color":  KindColor,
}

// NormalizeKind canonicalizes allele kind names and the aliases species
// files commonly use for the built-in kinds.
func NormalizeKind(name string) string {
	normalized := strings.TrimSpace(strings.ToLower(name))
	normalized = strings.ReplaceAll(normalized, "_", "-")
	normalized = strings.ReplaceAll(normalized, " ", "-")
	normalized = strings.Trim(normalized, "-")
	if normalized == "" {
		return ""
	}
	for _, candidate := range kindCandidates(normalized) {
		if canonical, ok := kindAliases[candidate]; ok {
			return canonical
		}
	}
	return normalized
}

func kindCandidates(normalized string) []string {
	candidates := []string{normalized}
	trimmed := strings.Trim(strings.TrimSuffix(normalized, "allele"), "-")
	if trimmed != "" && trimmed != normalized {
		candidates = append(candidates, trimmed)
	}
	return candidates
}
