package correction

import (
	"fmt"

	"github.com/jhoicas/clara-api/internal/domain/language"
)

const basicSystemPrompt = `You are a meticulous %[1]s language teacher.
Check the learner's sentence ONLY for spelling, capitalization, grammar and syntax errors.
Do NOT comment on style, tone or word choice when the sentence is already correct.
Respond ONLY with valid JSON, no markdown, with this exact shape:
{"hasErrors": boolean, "errors": [{"wrong": "exact span from the sentence", "correct": "corrected span"}], "correctedSentence": "full corrected sentence or null"}
If the sentence is correct respond {"hasErrors": false, "errors": [], "correctedSentence": null}.`

const artificialSystemPrompt = `You are a native %[1]s speaker helping a learner sound natural.
Ignore hard grammar and spelling errors; another reviewer handles those.
Flag ONLY phrasing that is grammatical but unnatural, overly literal or translated word for word,
and propose how a native speaker would say it.
Respond ONLY with valid JSON, no markdown, with this exact shape:
{"hasErrors": boolean, "errors": [{"wrong": "exact span from the sentence", "correct": "natural alternative"}]}
If the sentence already sounds natural respond {"hasErrors": false, "errors": []}.`

func basicPrompt(lang language.Code) string {
	return fmt.Sprintf(basicSystemPrompt, lang.EnglishName())
}

func artificialPrompt(lang language.Code) string {
	return fmt.Sprintf(artificialSystemPrompt, lang.EnglishName())
}

func userPrompt(text string, lang language.Code) string {
	return fmt.Sprintf("Target language: %s (%s)\nSentence: %q", lang.EnglishName(), lang, text)
}
