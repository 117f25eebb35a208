package scoring

// Question is one item of the fixed screening questionnaire.
type Question struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// The ten behavioral-indicator questions, in presentation order. Each is
// answered with one of the five frequency categories; the order here defines
// the order of Input.Responses and of the result breakdown.
var questions = [QuestionCount]Question{
	{1, "Does your child avoid eye contact during interactions?"},
	{2, "Does your child fail to respond when their name is called?"},
	{3, "Does your child prefer to play alone rather than with other children?"},
	{4, "Does your child have difficulty understanding how other people feel?"},
	{5, "Does your child get unusually upset by small changes in routine?"},
	{6, "Does your child repeat words or phrases over and over?"},
	{7, "Does your child make repetitive movements such as hand-flapping, rocking, or spinning?"},
	{8, "Does your child focus intensely on specific topics or objects?"},
	{9, "Does your child have difficulty starting or keeping up a conversation for their age?"},
	{10, "Does your child react strongly to certain sounds, textures, or lights?"},
}

// Questions returns the fixed question catalogue in presentation order.
func Questions() []Question {
	out := make([]Question, QuestionCount)
	copy(out, questions[:])
	return out
}

// Categories returns the five response categories in ascending score order.
func Categories() []ResponseValue {
	return []ResponseValue{
		ResponseNever,
		ResponseRarely,
		ResponseSometimes,
		ResponseOften,
		ResponseAlways,
	}
}
