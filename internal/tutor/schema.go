package tutor

import "github.com/abhisek/englishbuddy/internal/llm"

var vocabularyItem = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"word": map[string]any{"type": "string"},
		"ipa": map[string]any{
			"type":        "string",
			"description": "IPA transcription, e.g. /ˈkɒfi/",
		},
		"englishDefinition": map[string]any{
			"type":        "string",
			"description": "Simple definition in English",
		},
		"meaning": map[string]any{
			"type":        "string",
			"description": "Meaning in Vietnamese",
		},
		"type": map[string]any{
			"type":        "string",
			"description": "Part of speech, e.g. noun, verb, adjective",
		},
	},
	"required":             []any{"word", "ipa", "englishDefinition", "meaning", "type"},
	"additionalProperties": false,
}

// AnalysisSchema is the lesson produced from submitted material.
var AnalysisSchema = &llm.Schema{
	Name:        "lesson-analysis",
	Description: "A study lesson: exact transcription, Vietnamese summary and key vocabulary",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "Short title for the lesson",
			},
			"fullText": map[string]any{
				"type":        "string",
				"description": "The complete text, transcribed exactly",
			},
			"summary": map[string]any{
				"type":        "string",
				"description": "Short summary in Vietnamese",
			},
			"vocabulary": map[string]any{
				"type":  "array",
				"items": vocabularyItem,
			},
		},
		"required":             []any{"title", "fullText", "summary", "vocabulary"},
		"additionalProperties": false,
	},
}

// DefinitionSchema is a single word looked up in context.
var DefinitionSchema = &llm.Schema{
	Name:        "word-definition",
	Description: "English definition and Vietnamese meaning of one word",
	Definition:  vocabularyItem,
}

// QuizSchema is a generated quiz. The model may answer matching questions
// with a list, so correctAnswer accepts a string or an array of strings.
var QuizSchema = &llm.Schema{
	Name:        "lesson-quiz",
	Description: "Comprehension quiz over a reading passage",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id": map[string]any{"type": "string"},
						"type": map[string]any{
							"type": "string",
							"enum": []any{"multiple_choice", "true_false", "fill_blank", "drag_drop", "matching"},
						},
						"question": map[string]any{"type": "string"},
						"options": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
						"correctAnswer": map[string]any{
							"anyOf": []any{
								map[string]any{"type": "string"},
								map[string]any{
									"type":  "array",
									"items": map[string]any{"type": "string"},
								},
							},
						},
						"explanation": map[string]any{"type": "string"},
					},
					"required":             []any{"id", "type", "question", "options", "correctAnswer", "explanation"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}
