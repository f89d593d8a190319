// SPDX-License-Identifier: MIT
//
// Package requirement parses and evaluates connectivity requirement
// expressions:
//
//	term := number ( "log10" | "mcd" | "k" )?
//	expr := term ( "+" term )*
//
// Each named coefficient (log10, mcd, k) may appear at most once;
// unnamed numbers accumulate into the constant term c. A parsed
// Requirement evaluates to the threshold a cluster's minimum cut must
// strictly exceed for the cluster to be accepted.
package requirement

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrParse indicates the threshold expression did not match the
// grammar; the wrapped error names the offending fragment.
var ErrParse = errors.New("requirement: parse error")

// ErrInvalid indicates a syntactically valid requirement fails the
// sanity rule: at least one of (alpha, beta, gamma, c) must be
// positive, and gamma must be zero unless the information-theoretic
// (IKC) clusterer is in use.
var ErrInvalid = errors.New("requirement: invalid")

// Requirement is R = alpha*log10 + beta*mcd + gamma*k + c.
type Requirement struct {
	Alpha float64
	Beta  float64
	Gamma float64
	C     float64
}

// MostStringent is the (0,0,0,2) requirement: a cluster is accepted
// only when every mincut is strictly greater than 2.
func MostStringent() Requirement {
	return Requirement{C: 2}
}

// Parse parses a threshold expression per the package grammar.
// Whitespace is ignored; terms are evaluated left-to-right separated
// by "+"; a bare number accumulates into C.
func Parse(expr string) (Requirement, error) {
	trimmed := strings.ReplaceAll(expr, " ", "")
	if trimmed == "" {
		return Requirement{}, fmt.Errorf("%w: empty expression", ErrParse)
	}

	var r Requirement
	seenAlpha, seenBeta, seenGamma := false, false, false
	for _, term := range strings.Split(trimmed, "+") {
		if term == "" {
			return Requirement{}, fmt.Errorf("%w: empty term in %q", ErrParse, expr)
		}
		num, suffix := splitNumberSuffix(term)
		val, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return Requirement{}, fmt.Errorf("%w: %q: %v", ErrParse, term, err)
		}
		switch suffix {
		case "log10":
			if seenAlpha {
				return Requirement{}, fmt.Errorf("%w: duplicate log10 term in %q", ErrParse, expr)
			}
			r.Alpha = val
			seenAlpha = true
		case "mcd":
			if seenBeta {
				return Requirement{}, fmt.Errorf("%w: duplicate mcd term in %q", ErrParse, expr)
			}
			r.Beta = val
			seenBeta = true
		case "k":
			if seenGamma {
				return Requirement{}, fmt.Errorf("%w: duplicate k term in %q", ErrParse, expr)
			}
			r.Gamma = val
			seenGamma = true
		case "":
			r.C += val
		default:
			return Requirement{}, fmt.Errorf("%w: unknown suffix %q in %q", ErrParse, suffix, term)
		}
	}

	return r, nil
}

// splitNumberSuffix splits a term like "2mcd" into ("2", "mcd") or
// "42" into ("42", "").
func splitNumberSuffix(term string) (number, suffix string) {
	for _, s := range []string{"log10", "mcd", "k"} {
		if strings.HasSuffix(term, s) {
			return term[:len(term)-len(s)], s
		}
	}

	return term, ""
}

// String renders the canonical form, which Parse round-trips: named
// terms first (log10, mcd, k order), then the constant, joined by
// "+". Zero-valued named terms are omitted unless the whole
// requirement is the zero value.
func (r Requirement) String() string {
	var parts []string
	if r.Alpha != 0 {
		parts = append(parts, formatTerm(r.Alpha, "log10"))
	}
	if r.Beta != 0 {
		parts = append(parts, formatTerm(r.Beta, "mcd"))
	}
	if r.Gamma != 0 {
		parts = append(parts, formatTerm(r.Gamma, "k"))
	}
	if r.C != 0 || len(parts) == 0 {
		parts = append(parts, formatNumber(r.C))
	}

	return strings.Join(parts, "+")
}

func formatTerm(v float64, suffix string) string {
	return formatNumber(v) + suffix
}

func formatNumber(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatInt(int64(v), 10)
	}

	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ClustererGammaCapable reports whether the in-use clusterer gives a
// non-zero gamma (k) term a meaning: only the information-theoretic
// (IKC) clusterer does.
type ClustererGammaCapable interface {
	SupportsK() bool
}

// Validate enforces the sanity rule: at least one of (alpha, beta,
// gamma, c) must be positive, and gamma must be zero unless the given
// clusterer supports k.
func (r Requirement) Validate(c ClustererGammaCapable) error {
	if r.Alpha <= 0 && r.Beta <= 0 && r.Gamma <= 0 && r.C <= 0 {
		return fmt.Errorf("%w: none of alpha/beta/gamma/c is positive", ErrInvalid)
	}
	if r.Gamma != 0 && (c == nil || !c.SupportsK()) {
		return fmt.Errorf("%w: gamma must be zero unless the IKC clusterer is in use", ErrInvalid)
	}

	return nil
}

// Threshold evaluates alpha*log10(n) + beta*(mcdOverride if set,
// else mcd) + gamma*(k if gammaApplicable else 0) + c. Pass
// mcdOverride < 0 to use mcd unmodified; the pruner passes the
// current pop priority instead.
func (r Requirement) Threshold(n, mcd int, gammaApplicable bool, k int, mcdOverride int) float64 {
	effectiveMcd := mcd
	if mcdOverride >= 0 {
		effectiveMcd = mcdOverride
	}

	t := r.Beta*float64(effectiveMcd) + r.C
	if n > 0 {
		t += r.Alpha * math.Log10(float64(n))
	}
	if gammaApplicable {
		t += r.Gamma * float64(k)
	}

	return t
}
