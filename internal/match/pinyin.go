package match

import (
	"strings"

	gopinyin "github.com/mozillazg/go-pinyin"
)

// Romanized forms of common Chinese surnames, used to decide which side of a
// transliterated name is the family name.
var commonSurnames = map[string]struct{}{
	"wang": {}, "zhang": {}, "li": {}, "liu": {}, "chen": {}, "yang": {},
	"zhao": {}, "huang": {}, "zhou": {}, "wu": {}, "xu": {}, "sun": {},
	"hu": {}, "zhu": {}, "gao": {}, "lin": {}, "guo": {}, "deng": {},
	"he": {}, "shi": {}, "tian": {}, "ma": {}, "luo": {}, "liang": {},
	"song": {}, "zheng": {}, "xie": {}, "han": {}, "tang": {}, "feng": {},
	"yu": {}, "dong": {}, "xiao": {}, "cheng": {}, "cao": {}, "yuan": {},
	"fu": {}, "shen": {}, "zeng": {}, "peng": {}, "lv": {}, "su": {},
	"lu": {}, "jiang": {}, "cai": {}, "jia": {}, "ding": {}, "wei": {},
	"xue": {}, "ye": {}, "yan": {}, "pan": {}, "ji": {},
}

// ToPinyin transliterates a CJK name to spaced pinyin syllables, then
// regroups them as "Surname Givenname" using the surname table. When neither
// end looks like a surname, consecutive duplicate syllables are collapsed.
func ToPinyin(name string) string {
	if name == "" {
		return name
	}

	args := gopinyin.NewArgs()
	args.Fallback = func(r rune, _ gopinyin.Args) []string {
		return []string{string(r)}
	}
	syllables := gopinyin.LazyPinyin(name, args)
	if len(syllables) == 0 {
		return name
	}

	words := make([]string, 0, len(syllables))
	for _, s := range syllables {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		words = append(words, capitalize(s))
	}
	if len(words) < 2 {
		return strings.Join(words, " ")
	}

	if _, ok := commonSurnames[strings.ToLower(words[0])]; ok {
		return words[0] + " " + strings.Join(words[1:], "")
	}
	if _, ok := commonSurnames[strings.ToLower(words[len(words)-1])]; ok {
		return words[len(words)-1] + " " + strings.Join(words[:len(words)-1], "")
	}

	merged := words[:1]
	for i := 1; i < len(words); i++ {
		if strings.EqualFold(words[i], words[i-1]) {
			continue
		}
		merged = append(merged, words[i])
	}
	return strings.Join(merged, " ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func containsCJK(s string) bool {
	for _, r := range s {
		if r >= 0x4e00 && r <= 0x9fff {
			return true
		}
	}
	return false
}
