/*
Package nf implements Unicode canonical normalization (NFC and NFD)
for sequences of code-points.

The normalizer is used by the name tokenizer to detect and collapse
text runs that are not canonically composed, and is exposed as a public
utility in its own right. It operates on rune slices rather than on
strings, as all pipeline stages of this module do.

Decomposition data, combining-class ranks and the composition exclusion
set are decoded from a compact binary artifact embedded with the
package. The Hangul syllable block is handled arithmetically and is not
part of the artifact.

Attention

Before using the normalizer, clients will have to initialize the
decomposition tables.

  nf.Setup()

Calling NFC or NFD takes care of the setup behind the scenes.

License

This project is provided under the terms of the UNLICENSE or
the 3-Clause BSD license denoted by the following SPDX identifier:

SPDX-License-Identifier: 'Unlicense' OR 'BSD-3-Clause'

You may use the project under the terms of either license.

Licenses are reproduced in the license file in the root folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>
*/
package nf

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to ens.nf .
func tracer() tracing.Trace {
	return tracing.Select("ens.nf")
}
