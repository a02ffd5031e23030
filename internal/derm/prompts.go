package derm

import (
	"fmt"
	"strings"
)

// AnalysisPrompt accompanies the uploaded image. The labels are the ones
// parse.Analysis extracts.
const AnalysisPrompt = "Analyze this skin condition image and provide details in the following format: " +
	"Disease Name: [Disease Name], Medications: [Medications], Severity: [Severity], Quick Remedies: [Quick Remedies]."

// FoodsPrompt asks for the two food lists split by parse.Recommendations.
func FoodsPrompt(disease string) string {
	return fmt.Sprintf(`Based on the disease %q, provide a list of:
1. Best foods to eat to help manage or improve the condition.
2. Foods to avoid that may worsen the condition.
Provide the response in the format:
Best Foods:
- [Food Name]
Foods to Avoid:
- [Food Name]`, disease)
}

// QuestionsPrompt asks for clarifying questions, one per line.
func QuestionsPrompt(disease string) string {
	return "Generate a list of specific, insightful, and relevant questions to help identify potential causes for the following skin condition:\n" +
		"Disease: " + disease + "\n" +
		"Ensure the questions are detailed and cover aspects such as lifestyle, environmental factors, medical history, and symptoms."
}

// Answer pairs a clarifying question with the user's reply.
type Answer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// CausesPrompt asks for a cause summary from the disease and the answers.
func CausesPrompt(disease string, answers []Answer) string {
	var sb strings.Builder
	sb.WriteString("Disease: " + disease + "\n")
	for i, a := range answers {
		if q := strings.TrimSpace(a.Question); q != "" {
			fmt.Fprintf(&sb, "Question %d: %s\nAnswer %d: %s\n", i+1, q, i+1, strings.TrimSpace(a.Answer))
			continue
		}
		fmt.Fprintf(&sb, "Question %d: %s\n", i+1, strings.TrimSpace(a.Answer))
	}
	sb.WriteString("Based on the above information, provide a concise summary of the potential causes for the disease.")
	return sb.String()
}
