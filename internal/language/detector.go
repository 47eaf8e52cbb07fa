// Package language guesses whether a snippet is C or Python.
package language

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/src-d/enry/v2"

	"coderefine/internal/models"
)

// cue is one lexical signal and the weight it adds when a line matches.
type cue struct {
	name   string
	weight int
	match  func(line string) bool
}

func containsAny(subs ...string) func(string) bool {
	return func(line string) bool {
		for _, s := range subs {
			if strings.Contains(line, s) {
				return true
			}
		}
		return false
	}
}

var (
	pyBlockHeader = regexp.MustCompile(`^(if|for|while|def|class|elif|else|try|except|with)\b`)
	pyLiteral     = regexp.MustCompile(`\b(True|False|None)\b`)
)

var pythonCues = []cue{
	{"import", 8, regexp.MustCompile(`^import\s+\w+|^from\s+\w+\s+import`).MatchString},
	{"def/class header", 5, regexp.MustCompile(`^(def|class)\s+\w+`).MatchString},
	{"elif/except/finally", 5, func(line string) bool {
		return strings.HasPrefix(line, "elif ") || strings.HasPrefix(line, "except ") || strings.HasPrefix(line, "finally:")
	}},
	{"self.", 4, containsAny("self.")},
	{"block opener", 2, func(line string) bool {
		return strings.HasSuffix(line, ":") && pyBlockHeader.MatchString(line)
	}},
	{"True/False/None", 1, pyLiteral.MatchString},
	{"range/len/input", 2, containsAny("range(", "len(", "input(")},
	{"print", 3, func(line string) bool {
		return strings.Contains(line, "print(") && !strings.Contains(line, "printf(")
	}},
}

var cCues = []cue{
	{"#include", 10, regexp.MustCompile(`^#include\s*[<"]`).MatchString},
	{"main", 8, containsAny("int main(", "void main(")},
	{"typed function header", 5, regexp.MustCompile(`^(int|void|char|float|double|long|unsigned|signed|short)\s+\w+\s*\(`).MatchString},
	{"struct/typedef/enum", 4, regexp.MustCompile(`^(struct|typedef|enum)\s`).MatchString},
	{"libc call", 3, containsAny("printf(", "scanf(", "malloc(", "free(")},
	{"arrow", 2, containsAny("->")},
	{"statement terminator", 1, func(line string) bool {
		return strings.HasSuffix(line, ";") && !strings.HasPrefix(line, "#")
	}},
}

// Scores holds the accumulated cue weights of a snippet.
type Scores struct {
	Python int
	C      int
}

// Score accumulates both language scores line by line.
func Score(source string) Scores {
	var s Scores
	for _, raw := range strings.Split(strings.TrimSpace(source), "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		for _, c := range pythonCues {
			if c.match(line) {
				s.Python += c.weight
			}
		}
		for _, c := range cCues {
			if c.match(line) {
				s.C += c.weight
			}
		}
	}
	return s
}

// Detect returns python when its score is strictly greater, c otherwise.
// Empty input is c.
func Detect(source string) models.Language {
	s := Score(source)
	if s.Python > s.C {
		return models.LanguagePython
	}
	return models.LanguageC
}

// FromFilename maps a file name to a language using its extension. ok is
// false when the extension says nothing about C or Python.
func FromFilename(name string) (models.Language, bool) {
	lang, _ := enry.GetLanguageByExtension(filepath.Base(name))
	switch lang {
	case "Python":
		return models.LanguagePython, true
	case "C":
		return models.LanguageC, true
	}
	return "", false
}

// Resolve returns the language for a snippet: an explicit tag wins, then the
// file name, then the lexical detector. "auto" and "" request detection.
func Resolve(tag, filename, source string) (models.Language, error) {
	if t := strings.ToLower(strings.TrimSpace(tag)); t != "" && t != "auto" {
		return models.ParseLanguage(t)
	}
	if filename != "" {
		if lang, ok := FromFilename(filename); ok {
			return lang, nil
		}
	}
	return Detect(source), nil
}
