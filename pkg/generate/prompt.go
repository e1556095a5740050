package generate

import (
	"fmt"
	"strings"

	"github.com/prepdeck/prepdeck/pkg/course"
)

// Sampling settings per prompt kind.
var (
	CourseSettings      = Request{Temperature: 1, MaxOutputTokens: 2048}
	ExplanationSettings = Request{Temperature: 0.7, MaxOutputTokens: 2048}
	QuestionSettings    = Request{Temperature: 0.4, TopK: 32, TopP: 0.95, MaxOutputTokens: 8192}
	EvaluationSettings  = Request{MaxOutputTokens: 500}
	InterviewSettings   = Request{MaxOutputTokens: 500}
)

func withPrompt(settings Request, prompt string) Request {
	settings.Prompt = prompt
	return settings
}

// CoursePrompt asks for a complete course roadmap as a single-entry JSON
// envelope keyed by the course name.
func CoursePrompt(name string) Request {
	return withPrompt(CourseSettings, fmt.Sprintf(`Generate a comprehensive, structured roadmap for a course on %[1]s.
The output should be in JSON format matching this structure:
{
  "%[1]s": {
    "title": "[Full Course Title]",
    "description": "[Brief course description - one sentence]",
    "modules": [
      {
        "id": 1,
        "title": "[Module Title]",
        "description": "[Brief module description]",
        "topics": ["[Topic 1]", "[Topic 2]", "[Topic 3]", ...],
        "duration": "[X weeks]",
        "difficulty": "[Beginner/Intermediate/Advanced]",
        "prerequisites": [array of module IDs that must be completed first]
      }
    ]
  }
}
Create an appropriate number of logical modules that form a complete learning path from beginner to advanced. The modules should follow a natural progression with proper prerequisites. Each module should include relevant topics, a duration and a difficulty level.
For prerequisites, use the IDs of modules that must be completed before taking this module. Modules without prerequisites should not include this field.
The structure must match the format exactly because it is parsed programmatically.
Return only the JSON with no explanations before or after.`, name))
}

// ModulePrompt asks for a structured markdown overview of a module.
func ModulePrompt(c course.Course, m course.Module) Request {
	return withPrompt(ExplanationSettings, fmt.Sprintf(`I need detailed information about the %q module in our %s course.

This module covers: %s.
It is a %s level module that takes %s to complete.

Provide a detailed and structured explanation of the module. Include the following:

1. **Overview**: Explain the subject clearly with examples where useful.
2. **Key Concepts**: List and briefly explain 5-7 core ideas or principles.
3. **Practical Applications**: How the subject is used in real-world scenarios or industries.
4. **Skills Acquired**: The specific skills or knowledge gained.
5. **Learning Resources**: Top books, courses or tutorials to explore further.
6. **Challenges & Solutions**: Common difficulties learners face and how to tackle them.
7. **Career Relevance**: Roles or fields that benefit from it.

Format the response in markdown using clear headings and bullet points.`,
		m.Title, c.Title, strings.Join(m.Topics, ", "), orUnknown(string(m.Difficulty)), orUnknown(m.Duration)))
}

// TopicPrompt asks for a concise markdown explanation of one topic within a
// module.
func TopicPrompt(c course.Course, m course.Module, topic string) Request {
	return withPrompt(ExplanationSettings, fmt.Sprintf(`I need detailed information about the %[1]q topic within the %[2]q module in our %[3]s course.

This is part of a module that covers: %[4]s.
The module is a %[5]s level module that takes %[6]s to complete.

Please provide:
1. A clear explanation of %[1]s
2. Key concepts and fundamentals of %[1]s
3. Practical applications of %[1]s in real-world scenarios
4. Common challenges when learning %[1]s and how to overcome them
5. Resources specifically for learning %[1]s (books, courses, tutorials)
6. Best practices when working with %[1]s
7. Keep it short and concise.
8. Use bullet points for clarity.

Format the response in markdown with clear headings.`,
		topic, m.Title, c.Title, strings.Join(m.Topics, ", "), orUnknown(string(m.Difficulty)), orUnknown(m.Duration)))
}

// QuestionPrompt asks for one programming interview question on topic as a
// JSON object.
func QuestionPrompt(topic string) Request {
	return withPrompt(QuestionSettings, fmt.Sprintf(`Act as an expert programmer. Generate a programming interview question about the topic %q.
Return ONLY a VALID JSON object with this exact format, properly escaped:
{
  "title": "Write a clear, specific question title",
  "description": "Provide a detailed problem description with examples",
  "difficulty": "easy|medium|hard",
  "timeEstimate": "30 mins",
  "companies": ["Google", "Amazon"],
  "solution": "// Detailed solution with complete code and explanation\n\nfunction solution() {\n  // Your code here\n}"
}`, topic))
}

// EvaluationPrompt asks the model to grade an answer out of 10.
func EvaluationPrompt(question, answer string) Request {
	return withPrompt(EvaluationSettings, fmt.Sprintf(`Evaluate the following answer to an interview question:

Question: %s
Answer: %s

Provide a JSON response like:
{
    "score": 7,
    "feedback": "Good structure but missed key concepts.",
    "correct_answer": "Ideal explanation of the concept should include ..."
}`, question, answer))
}

// InterviewPrompt asks for the next question of a mock interview. previous
// may be empty for the first question.
func InterviewPrompt(intro string, number, total int, difficulty, previous string) Request {
	var history string
	if previous != "" {
		history = "\nPrevious Q&A:\n" + previous + "\nUse this context to adjust the difficulty.\n"
	}
	return withPrompt(InterviewSettings, fmt.Sprintf(`You are an interviewer conducting a technical interview.

Candidate introduction: %q
Question number: %d out of %d
Difficulty: %s
%s
Ask a single clear technical or behavioral interview question based on their introduction. Do not include answers or explanations.`,
		intro, number, total, difficulty, history))
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "unspecified"
	}
	return s
}
