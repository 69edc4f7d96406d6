package research

import "fmt"

func decomposePrompt(topic string) string {
	return fmt.Sprintf("Break down the topic '%s' into 3 major subtopics for deep web-based research. Return the result as a list.", topic)
}

func synthesisPrompt(merged string) string {
	return fmt.Sprintf("Based on the following summaries, generate a coherent explanation in a structured and readable format:\n\n%s", merged)
}

func answerPrompt(topic, finalSummary string) string {
	return fmt.Sprintf("User Query: %s\nUsing the following information gathered from various sources, give a detailed and coherent explanation that directly answers the query above:\n%s\n", topic, finalSummary)
}
