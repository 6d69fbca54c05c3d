package constant

const (
	ChatMessageRoleUser   = "user"
	ChatMessageRoleModel  = "model"
	ChatMessageRoleSystem = "system"

	// Prompt context is kept deliberately small: long resumes and job
	// descriptions are truncated and only the most recent questions are
	// replayed to the model.
	PromptContextMaxChars  = 500
	PromptHistoryQuestions = 2

	InterviewerSystemPrompt = `You are an experienced technical interviewer. You ask one clear, relevant interview question at a time, tailored to the candidate's resume and the target role. Never answer the question yourself and never ask more than one question.`

	// %s: job role, %s: job description, %s: resume, %s: previous questions block
	InterviewerQuestionPrompt = `You are interviewing a candidate for the role of %s.

Job description:
%s

Candidate resume:
%s
%s
Ask the next interview question. Respond with the question only, no preamble.`

	ScorerSystemPrompt = `You are a strict interview evaluator. You rate candidate answers on a scale from 0 to 1 and respond with the number only.`

	// %s: job role, %s: job description, %s: question, %s: response
	ScorerPrompt = `Evaluate the following answer from a candidate interviewing for a %s position.

Job description:
%s

Question: %s

Answer: %s

Weigh technical accuracy at 40%%, clarity at 30%%, and practical understanding at 30%%.
Respond with a single number between 0 and 1 and nothing else.`

	FeedbackSystemPrompt = `You are a supportive interview coach. You give candidates short, concrete feedback on their answers.`

	// %s: job role, %s: question, %s: response, %s: score
	FeedbackPrompt = `The candidate interviewing for a %s position was asked:

%s

They answered:

%s

The answer scored %s.

Give feedback in at most 100 words. Name one strength, one area to improve, and one actionable suggestion.`
)
