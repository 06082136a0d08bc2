// Package export renders stored lessons as downloadable documents.
//
// Two formats are supported: a printable PDF built with fpdf and a Markdown
// file suitable for editing or pasting into other tools. Both renderings walk
// the same ordered outline of the lesson plan, so the two formats always list
// the same sections in the same order.
package export
