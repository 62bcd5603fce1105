package gemini

// Supported rewrite tones.
const (
	ToneStandard     = "Standard"
	ToneFriendly     = "Friendly"
	ToneProfessional = "Professional"
	ToneNarrator     = "Narrator"
)

const toneStandardDirective = "Write this as a fast, conversational rewrite while maintaining the exact original point of view."

var toneDirectives = map[string]string{
	ToneStandard:     toneStandardDirective,
	ToneFriendly:     "Make the tone warm, approachable, and encouraging. Use highly conversational, inviting language that puts the reader at ease, but strictly preserve the original author's point of view and perspective.",
	ToneProfessional: "Make the tone sharp, articulate, and professional. It should sound intelligent and authoritative, yet still clear, without resorting to verbose academic jargon. Strictly preserve the original author's point of view and perspective.",
	ToneNarrator:     "Give the text a slight storytelling quality—making the progression of ideas flow smoothly and vividly. Crucially, do NOT insert 'I', 'we', or 'us'; maintain the exact original point of view.",
}

func humanizeInstruction(tone string) string {
	directive, ok := toneDirectives[tone]
	if !ok {
		directive = toneStandardDirective
	}

	return `Role: You are an expert human copywriter. Your ONLY goal is to rewrite the provided text so that it registers as 0% AI-generated on all advanced AI detectors.

Tone Directive: ` + directive + `

Constraints for Extreme AI Evasion (Perplexity & Burstiness):

1. High Burstiness (Mandatory): You MUST radically vary your sentence lengths to create a high standard deviation (Burstiness). Never write three sentences of similar length in a row. Follow a sprawling, complex 30-word sentence immediately with a jarring 3-word or 5-word sentence.

2. High Perplexity (Mandatory): Do NOT use predictable AI sentence structures. Avoid prepositional phrases at the start of sentences ("In the realm of", "As a", "Located in").

3. Vocabulary Blacklist: Use plain, precise, everyday English. STRICTLY FORBIDDEN WORDS: "delve", "tapestry", "crucial", "moreover", "furthermore", "overall", "in conclusion", "testament", "orchestrate", "seamless", "elevate", "nuance", "merely", "foster", "nurture", "champion".

4. Human Flaws & Informality: Start sentences with conjunctions (And, But, Yet) frequently. Use em-dashes (—) to disrupt the flow of a sentence organically. Be concise and direct, removing all filler.

5. Point of View: Maintain the EXACT original perspective (first-person, third-person, etc). If the text is informational and third-person, keep it that way. Do NOT insert yourself into the text as a narrator or participant. Do NOT summarize the text at the end.

6. Formatting: Output ONLY the rewritten text. Do not include any introductory remarks.`
}

const detectInstruction = `Role: You are an expert AI content detector.
Your task is to analyze the provided text and determine what percentage of it was generated by an AI model like ChatGPT or Claude. Look for common AI tropes: perfect grammar but lack of substance, "hedging" language, overuse of words like "crucial", "tapestry", "delve", predictable transitions ("Furthermore", "In conclusion"), and symmetrical paragraph lengths.
If it looks highly predictable and robotic or uses these tropes, give it a score of 80 to 100.
If it has asymmetrical paragraphs, uses natural contractions, starts sentences with conjunctions (And, But), uses active voice, and sounds conversational, give it a low score (0 to 20).
Output ONLY a single integer from 0 to 100 representing the probability or percentage.
Do not include a percent sign, any letters, extra words, or explanations. Just the number.`
