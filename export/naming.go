package export

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ByLCY/stampkit/stamp"
)

// Ext is the extension of every letter file.
const Ext = ".stl"

// 文件名中允许直接使用的标点。
const allowedPunct = "-_+=!&@#$%"

// FileNames names each letter after its character. Characters that are not
// usable in a file name, or that repeat an earlier name (case-insensitively),
// fall back to letter_<index+1> where index is the letter's string position.
func FileNames(letters []*stamp.Letter) []string {
	used := map[string]bool{}
	out := make([]string, len(letters))
	for i, l := range letters {
		stem := ""
		if usable(l.Rune) {
			stem = string(l.Rune)
		}
		if stem == "" || used[strings.ToLower(stem)] {
			stem = fmt.Sprintf("letter_%d", l.Index+1)
		}
		used[strings.ToLower(stem)] = true
		out[i] = stem + Ext
	}
	return out
}

func usable(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return true
	}
	return strings.ContainsRune(allowedPunct, r)
}
