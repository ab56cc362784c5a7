package chat

import (
	"regexp"
	"strings"

	"github.com/finwise/chatbot-backend/internal/entity"
)

// piiDetector pairs a PII category with its pattern and redaction token
type piiDetector struct {
	kind    entity.PiiKind
	pattern *regexp.Regexp
	token   string
}

// Detector registry. Order is fixed: detection runs against the original
// text, redaction is applied cumulatively in this order.
var defaultDetectors = []piiDetector{
	{
		kind:    entity.PiiKindEmail,
		pattern: regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		token:   "[EMAIL_REDACTED]",
	},
	{
		kind:    entity.PiiKindPhone,
		pattern: regexp.MustCompile(`\b(\+?1[-.]?)?\(?([0-9]{3})\)?[-.]?([0-9]{3})[-.]?([0-9]{4})\b`),
		token:   "[PHONE_REDACTED]",
	},
	{
		kind:    entity.PiiKindSSN,
		pattern: regexp.MustCompile(`\b\d{3}-?\d{2}-?\d{4}\b`),
		token:   "[SSN_REDACTED]",
	},
}

// Sanitizer scans messages for personally identifiable information
type Sanitizer struct {
	detectors []piiDetector
}

func NewSanitizer() *Sanitizer {
	return &Sanitizer{detectors: defaultDetectors}
}

// Sanitize runs every detector over the input. A detector matches against the
// original text; its redaction rewrites the working copy, so later detectors
// see text already redacted by earlier ones. Empty or all-whitespace input is
// returned as-is without running detectors.
func (s *Sanitizer) Sanitize(input string) entity.SanitizationResult {
	if strings.TrimSpace(input) == "" {
		return entity.SanitizationResult{SanitizedMessage: input}
	}

	sanitized := input
	var detected []entity.PiiKind

	for _, d := range s.detectors {
		if !d.pattern.MatchString(input) {
			continue
		}
		if !containsKind(detected, d.kind) {
			detected = append(detected, d.kind)
		}
		sanitized = d.pattern.ReplaceAllLiteralString(sanitized, d.token)
	}

	return entity.SanitizationResult{
		SanitizedMessage: sanitized,
		PiiFound:         len(detected) > 0,
		DetectedKinds:    detected,
	}
}

func containsKind(kinds []entity.PiiKind, kind entity.PiiKind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}
