package predict

// Validate annotates a candidate with an accept/reject decision. Rules are
// applied in order and the first failure wins. Conflicts flagged by the
// assembler are preserved so a reviewer can still inspect the span.
// Validation is idempotent: re-validating an annotated candidate yields the
// same decision.
func Validate(c *Candidate, opts Options) {
	if c.Reason == ReasonConflict {
		c.Valid = false
		return
	}

	switch {
	case c.Length() < opts.MinLength:
		c.Valid = false
		c.Reason = ReasonTooShort
	case c.Length() > opts.MaxLength:
		c.Valid = false
		c.Reason = ReasonTooLong
	case c.StartSupport == 0 && c.EndSupport == 0:
		// Both ends synthesized. The assembler never produces this, but a
		// candidate built elsewhere could.
		c.Valid = false
		c.Reason = ReasonNoDirectEvidence
	default:
		c.Valid = true
		c.Reason = ReasonNone
	}
}

// ValidateAll validates every candidate in place.
func ValidateAll(candidates []*Candidate, opts Options) {
	for _, c := range candidates {
		Validate(c, opts)
	}
}
