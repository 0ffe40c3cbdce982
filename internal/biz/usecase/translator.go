package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/peximo/slack-llm-translate/internal/biz/repo"
)

// supportedLangs are the language codes a bare directive token may use.
// A token like "ja" is only treated as a directive when it is in this set,
// so ordinary short words at the start of a prompt are never swallowed.
var supportedLangs = map[string]string{
	"en": "English", "es": "Spanish", "fr": "French", "de": "German",
	"it": "Italian", "pt": "Portuguese", "ru": "Russian", "ja": "Japanese",
	"ko": "Korean", "zh": "Chinese", "nl": "Dutch", "pl": "Polish",
	"sv": "Swedish", "tr": "Turkish", "ar": "Arabic", "hi": "Hindi",
	"vi": "Vietnamese", "th": "Thai", "id": "Indonesian",
}

// TranslateDirective is a parsed translation request: target language,
// tone, and the text to translate.
type TranslateDirective struct {
	Lang string
	Tone string
	Text string
}

// ParseDirective splits an optional "<lang>[:<tone>]" prefix off the
// command text. "ja:formal see you tomorrow" targets Japanese with a
// formal tone; with no recognized prefix the whole text is translated
// using the defaults.
func ParseDirective(text, defaultLang, defaultTone string) TranslateDirective {
	d := TranslateDirective{Lang: defaultLang, Tone: defaultTone, Text: strings.TrimSpace(text)}

	fields := strings.Fields(d.Text)
	if len(fields) < 2 {
		return d
	}

	head := strings.ToLower(fields[0])
	lang, tone := head, ""
	if idx := strings.IndexByte(head, ':'); idx >= 0 {
		lang, tone = head[:idx], head[idx+1:]
	}

	if _, ok := supportedLangs[lang]; !ok {
		return d
	}

	d.Lang = lang
	if tone != "" {
		d.Tone = tone
	}
	d.Text = strings.TrimSpace(strings.TrimPrefix(d.Text, fields[0]))
	return d
}

// TranslatorUsecase handles translation with tone adaptation.
type TranslatorUsecase struct {
	llmRepo     repo.LLMRepo
	defaultLang string
	defaultTone string
}

// NewTranslatorUsecase creates a new translator usecase
func NewTranslatorUsecase(llmRepo repo.LLMRepo, defaultLang, defaultTone string) *TranslatorUsecase {
	if defaultLang == "" {
		defaultLang = "en"
	}
	if defaultTone == "" {
		defaultTone = "neutral"
	}
	return &TranslatorUsecase{llmRepo: llmRepo, defaultLang: defaultLang, defaultTone: defaultTone}
}

// Translate parses the directive and sends the text to the model.
func (uc *TranslatorUsecase) Translate(ctx context.Context, text string) (string, error) {
	d := ParseDirective(text, uc.defaultLang, uc.defaultTone)
	if d.Text == "" {
		return "", fmt.Errorf("nothing to translate")
	}

	langName := supportedLangs[d.Lang]
	if langName == "" {
		langName = d.Lang
	}

	systemPrompt := fmt.Sprintf(`You are a professional translator. Translate the user's message into %s.

Requirements:
1. Adapt the register to a %s tone: adjust formality, phrasing and politeness to match, don't translate word-for-word
2. Preserve meaning, names, numbers, and any code or URLs verbatim
3. Output only the translation, no explanations and no quotes`, langName, d.Tone)

	reply, err := uc.llmRepo.Chat(ctx, systemPrompt, d.Text)
	if err != nil {
		return "", fmt.Errorf("translate: %w", err)
	}
	return strings.TrimSpace(reply), nil
}
