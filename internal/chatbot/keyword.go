package chatbot

import (
	"context"
	"strings"
)

// rule pairs trigger phrases with a canned reply. Single-word triggers match
// whole words only, so "hi" does not fire inside "this".
type rule struct {
	triggers []string
	reply    string
}

// KeywordResponder answers from an ordered rule table. The first matching
// rule wins, which keeps replies deterministic. Safety-relevant rules sit
// above informational ones.
type KeywordResponder struct {
	rules    []rule
	fallback string
}

func NewKeywordResponder() *KeywordResponder {
	return &KeywordResponder{
		rules: []rule{
			{
				triggers: []string{"hello", "hi", "hey", "good morning", "good afternoon"},
				reply:    "Hello! I can answer general questions about this screening tool and about early signs of autism. What would you like to know?",
			},
			{
				triggers: []string{"doctor", "diagnosis", "diagnose", "pediatrician", "specialist", "professional help"},
				reply:    "A formal evaluation can only be made by a qualified professional, such as a developmental pediatrician or a child psychologist. Your family doctor can refer you, and it is worth bringing your screening result along to that conversation.",
			},
			{
				triggers: []string{"result", "results", "score", "risk level", "percentage", "high risk", "low risk"},
				reply:    "Results show a risk percentage and an overall level of Low, Medium, or High. A higher level means more of your answers matched patterns associated with autism. The result is a screening signal to discuss with a professional, not a diagnosis.",
			},
			{
				triggers: []string{"screening", "questionnaire", "questions", "how does this work", "how long"},
				reply:    "The screening asks ten questions about everyday behaviour, each answered Never, Rarely, Sometimes, Often, or Always. The answers are combined with your child's age and gender to estimate a risk level. It takes about five minutes.",
			},
			{
				triggers: []string{"autism", "asd", "spectrum", "signs", "symptoms"},
				reply:    "Autism spectrum disorder (ASD) is a developmental condition that affects how a person communicates, interacts, and experiences the world. Signs often appear in early childhood and vary widely from child to child, which is why early screening can be helpful.",
			},
			{
				triggers: []string{"thanks", "thank you"},
				reply:    "You're welcome. Feel free to ask anything else about the screening.",
			},
		},
		fallback: "I can help with questions about autism, how the screening works, and what the results mean. Could you rephrase your question?",
	}
}

// Reply never fails; unmatched messages get the fallback reply.
func (k *KeywordResponder) Reply(_ context.Context, message string) (string, error) {
	normalized := strings.ToLower(message)
	words := fieldWords(normalized)

	for _, r := range k.rules {
		for _, trigger := range r.triggers {
			if strings.Contains(trigger, " ") {
				if strings.Contains(normalized, trigger) {
					return r.reply, nil
				}
			} else if words[trigger] {
				return r.reply, nil
			}
		}
	}
	return k.fallback, nil
}

// fieldWords splits a normalized message into a word set, trimming the
// punctuation that would otherwise hide matches like "autism?".
func fieldWords(s string) map[string]bool {
	words := make(map[string]bool)
	for _, f := range strings.Fields(s) {
		if w := strings.Trim(f, ".,!?;:'\"()"); w != "" {
			words[w] = true
		}
	}
	return words
}
