package llm

import "context"

// Purpose labels why a call was made. It is stored with every logged
// event and is what `llm list --purpose` filters on.
type Purpose string

const (
	PurposeAnalyze Purpose = "analyze"
	PurposeQuiz    Purpose = "quiz"
	PurposeDefine  Purpose = "define"
	PurposeSpeech  Purpose = "speech"
	PurposeUnknown Purpose = "unknown"
)

// Purposes lists the labels the tutor uses, in menu order.
var Purposes = []Purpose{PurposeAnalyze, PurposeDefine, PurposeQuiz, PurposeSpeech}

type purposeKey struct{}

// WithPurpose tags ctx so the logging middleware can label the call.
func WithPurpose(ctx context.Context, p Purpose) context.Context {
	return context.WithValue(ctx, purposeKey{}, p)
}

// PurposeFrom returns the label set by WithPurpose, or PurposeUnknown.
func PurposeFrom(ctx context.Context) Purpose {
	if p, ok := ctx.Value(purposeKey{}).(Purpose); ok && p != "" {
		return p
	}
	return PurposeUnknown
}
