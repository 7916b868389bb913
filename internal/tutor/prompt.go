package tutor

import (
	"fmt"
	"strings"
)

const analysisSystemPrompt = `You are an expert English teacher and transcriber.
Your primary goal is to convert the input (text, image, or PDF) into a study lesson.

STRICT INSTRUCTION FOR IMAGES/PDFs (OCR):
1. TRANSCRIPTION: Transcribe ALL visible English text from the image/file EXACTLY as it appears.
   - Do NOT summarize.
   - Do NOT skip paragraphs.
   - Preserve line breaks where appropriate.
   - This exact text must go into the 'fullText' field.
2. VOCABULARY: Identify 8-15 key vocabulary words (B1-C2 level) from that text.
   - For each word, provide a clear ENGLISH definition AND the VIETNAMESE meaning.
3. SUMMARY: Provide a short Vietnamese summary.

If the image contains no text, return "No text found in image" for fullText.`

const analysisInstruction = "Transcribe this image/file exactly into text and analyze for learning. Provide English definitions AND Vietnamese meanings for vocabulary."

const quizSystemPrompt = `You are an exam creator for English learners. Create a quiz based on the provided text.
Include a mix of:
- Multiple Choice (4 options)
- True / False / Doesn't Say
- Fill in the blank (extracted from the text, use "_______" for the blank)
- Drag and Drop (fill in the blank with a provided word bank of 3-4 options)
Output strictly valid JSON.`

// speechInstruction precedes the text sent for synthesis.
const speechInstruction = "Read the following text aloud:"

func buildAnalysisMessage(in Input) string {
	if in.Text == "" {
		return analysisInstruction
	}
	var b strings.Builder
	b.WriteString(in.Text)
	b.WriteString("\n\n")
	b.WriteString(analysisInstruction)
	return b.String()
}

func buildQuizMessage(text string) string {
	return fmt.Sprintf("Create a quiz for this text: %s", text)
}

func buildDefineMessage(word, passage string) string {
	return fmt.Sprintf("Define the word %q based on this context: %q. Return a simple English definition AND Vietnamese meaning.", word, passage)
}
