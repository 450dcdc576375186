// Package langdetect guesses the language of indented code blocks so the
// HTML renderer can label them. TeX and LaTeX are recognized by their
// control sequences; everything else goes through go-enry.
package langdetect

import (
	"bytes"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

// Unknown is returned when no language can be determined.
const Unknown = ""

// Language identifiers returned by Detect that are not plain lowercased
// go-enry names.
const (
	LangTeX   = "tex"
	LangLaTeX = "latex"
	LangBash  = "bash"
)

// classifierCandidates narrows the go-enry classifier to languages that show
// up in documentation next to math.
//
//nolint:gochecknoglobals // Read-only candidate list.
var classifierCandidates = []string{
	"TeX", "Python", "Julia", "R", "MATLAB", "Mathematica",
	"Go", "Shell", "JavaScript", "C", "C++", "Haskell", "JSON", "YAML",
}

// latexMarkers only appear in LaTeX documents, not in bare TeX math.
//
//nolint:gochecknoglobals // Read-only marker list.
var latexMarkers = []string{
	`\documentclass`, `\usepackage`, `\begin{document}`, `\section{`,
}

// texMarkers are control sequences that are almost never valid in other
// languages.
//
//nolint:gochecknoglobals // Read-only marker list.
var texMarkers = []string{
	`\begin{`, `\end{`, `\frac{`, `\sqrt{`, `\sum_`, `\int_`, `\prod_`,
	`\mathbb{`, `\mathrm{`, `\left(`, `\right)`, `\alpha`, `\beta`, `\cdot`,
}

// Detect returns the language of code, or Unknown when detection is not
// confident.
func Detect(code []byte) string {
	if len(bytes.TrimSpace(code)) == 0 {
		return Unknown
	}

	if lang, safe := enry.GetLanguageByShebang(code); safe {
		return normalize(lang)
	}

	if lang := detectTeX(code); lang != Unknown {
		return lang
	}

	if lang, safe := enry.GetLanguageByClassifier(code, classifierCandidates); safe && lang != "" {
		return normalize(lang)
	}

	return Unknown
}

// detectTeX reports LaTeX when a document-level command is present, TeX when
// at least two math control sequences are.
func detectTeX(code []byte) string {
	text := string(code)
	for _, marker := range latexMarkers {
		if strings.Contains(text, marker) {
			return LangLaTeX
		}
	}

	hits := 0
	for _, marker := range texMarkers {
		if strings.Contains(text, marker) {
			hits++
		}
	}
	if hits >= 2 {
		return LangTeX
	}
	return Unknown
}

// normalize converts go-enry language names to class suffixes.
func normalize(lang string) string {
	if lang == "Shell" {
		return LangBash
	}
	return strings.ToLower(strings.ReplaceAll(lang, " ", "-"))
}
