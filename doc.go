/*
Package ens normalizes and validates human-typed domain-name labels
(ENS-style names) against a Unicode security specification.

Description

Given an arbitrary UTF-8 string, the package either produces a canonical
normalized form plus a beautified display form, or rejects the input
with a precise, classified error. Two byte strings are treated as “the
same name” only when the specification says they are; strings that could
be used for visual-spoofing (homograph) attacks are rejected.

Processing is a fixed pipeline. A tokenizer walks the input left to
right, greedily matching emoji sequences and otherwise classifying
single code-points as valid, mapped, ignored or disallowed, splitting
labels on the full stop. A validator then applies structural rules,
determines the single script group every label must belong to, and runs
the security checks: combining-mark placement, non-spacing-mark limits,
fenced-character placement and whole-script-confusable detection.
A formatter finally joins the validated labels back into the normalized
and beautified output strings.

  p, err := ens.Process("VITALIK.ETH")
  if err != nil { … }
  p.Normalize()   // "vitalik.eth"

Validation errors carry structured context: an error kind, the offending
code-points, their position, and (for curable placement violations) a
suggested replacement. See the LabelError type.

Character classifications, script groups, emoji sequences and
whole-script-confusable tables are decoded once from a compact binary
artifact embedded with the package; the resulting specification model is
immutable and safe to share between any number of concurrent calls.

License

This project is provided under the terms of the UNLICENSE or
the 3-Clause BSD license denoted by the following SPDX identifier:

SPDX-License-Identifier: 'Unlicense' OR 'BSD-3-Clause'

You may use the project under the terms of either license.

Licenses are reproduced in the license file in the root folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package ens

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to ens .
func tracer() tracing.Trace {
	return tracing.Select("ens")
}
