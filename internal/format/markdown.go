package format

import (
	"regexp"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ParseResult contains plain text and message entities.
type ParseResult struct {
	Text     string
	Entities []tgbotapi.MessageEntity
}

// UTF16Len calculates the UTF-16 length of a string. Telegram entity
// offsets and lengths count UTF-16 code units.
func UTF16Len(s string) int {
	length := 0
	for _, b := range []byte(s) {
		if (b & 0xc0) != 0x80 {
			if b >= 0xf0 {
				length += 2 // surrogate pair
			} else {
				length++
			}
		}
	}
	return length
}

var (
	boldRe = regexp.MustCompile(`\*\*(.+?)\*\*`)
	codeRe = regexp.MustCompile("`([^`]+?)`")
)

// ParseMarkdown converts **bold** and `code` markers (the only ones the
// assistant script uses) into Telegram message entities.
func ParseMarkdown(text string) ParseResult {
	result := text
	var entities []tgbotapi.MessageEntity

	strip := func(re *regexp.Regexp, entityType string) {
		for {
			loc := re.FindStringSubmatchIndex(result)
			if loc == nil {
				return
			}
			inner := result[loc[2]:loc[3]]
			entities = append(entities, tgbotapi.MessageEntity{
				Type:   entityType,
				Offset: UTF16Len(result[:loc[0]]),
				Length: UTF16Len(inner),
			})
			result = result[:loc[0]] + inner + result[loc[1]:]
		}
	}
	strip(boldRe, "bold")
	strip(codeRe, "code")

	return ParseResult{Text: result, Entities: entities}
}
