// Copyright 2020 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

/*
The linewidth package estimates how thick the lines on a scanned page
are. It is useful for comparing scans and renderings of documents, for
example to pick binarisation settings suited to a book's type, or to
find pages printed noticeably heavier or lighter than the rest.

How it works

A page is rasterised (PDFs are rendered with poppler's pdftoppm) and
converted to grayscale, optionally binarising it too. It is then
repeatedly simplified with a morphological close: dilated n times with
a small square structuring element, which removes dark strokes thinner
than the element from the edges inwards, and then eroded n times,
which restores the dark areas that survived. The darkness of the
result, 255 minus its mean intensity, is measured for n = 1, 2, 3...,
each time starting again from the original page, until it falls to a
threshold. Pages of thin lines need few iterations to reach the
threshold, and pages of thick ones need more.

The iteration at which darkness falls most sharply, the breakpoint,
is where the bulk of the linework collapses, and is reported too.

The search is bounded by a maximum number of iterations, as a page with
large solid areas of ink may never get light enough to reach the
threshold; in that case an error matching ErrNotConverged is returned.

Tools

The linewidth command runs the whole analysis for a document, saving
the darkness series as a tab separated file, a graph of it, and
optionally a PDF report and the simplified images. Results can also be
stored in a local directory or an S3 bucket, and downloaded again with
the getresults command. The darknessgraph command redraws the graph of
a saved series.

All of the tools give information on what they do and how they work
with the '-h' flag, so for example:
  linewidth -h
*/
package linewidth
