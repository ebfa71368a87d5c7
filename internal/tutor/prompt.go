package tutor

import (
	"fmt"

	"github.com/AiSchool-Admin/AiSchool-Backend/internal/models"
	"github.com/AiSchool-Admin/AiSchool-Backend/internal/skill"
)

// Prompts are keyed by tier, not by user: the same tier must always yield
// the same prompt so request-time fills and warmer fills are interchangeable
// cache entries. The tier's midpoint score stands in for the learner.

func tierDescriptor(t skill.Tier) string {
	switch t {
	case skill.TierHigh:
		return "an advanced student who has mostly mastered this topic"
	case skill.TierMedium:
		return "a student with partial understanding of this topic"
	default:
		return "a beginner encountering this topic for the first time"
	}
}

func LessonPrompt(lesson *models.Lesson, tier skill.Tier) string {
	return fmt.Sprintf(
		"You are a tutor explaining the lesson %q (unit: %s) to %s (mastery ~%.1f).\n"+
			"Lesson summary: %s\n\n"+
			"Write a clear explanation adapted to that level.\n"+
			"End your answer with a single line of the exact form:\n"+
			"KEYWORDS: keyword1, keyword2, keyword3",
		lesson.Title, lesson.Unit, tierDescriptor(tier), tier.MidpointScore(), lesson.Summary,
	)
}

func QuizPrompt(lesson *models.Lesson, tier skill.Tier, numQuestions int) string {
	return fmt.Sprintf(
		"You are a tutor writing a quiz on the lesson %q (unit: %s) for %s (mastery ~%.1f).\n"+
			"Lesson summary: %s\n\n"+
			"Return ONLY a JSON array of exactly %d objects, each with the keys "+
			`"question" (string), "options" (array of 4 strings) and "answer" (one of the options). `+
			"No prose before or after the JSON.",
		lesson.Title, lesson.Unit, tierDescriptor(tier), tier.MidpointScore(), lesson.Summary, numQuestions,
	)
}

func HomeworkPrompt(note string) string {
	p := "You are a tutor. Solve the homework problem shown in the attached image. " +
		"Explain each step, then state the final answer."
	if note != "" {
		p += "\nStudent note: " + note
	}
	return p
}
