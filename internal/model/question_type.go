package model

import "sort"

type QuestionType string

const (
	ReadAloud           QuestionType = "read_aloud"
	RepeatSentence      QuestionType = "repeat_sentence"
	DescribeImage       QuestionType = "describe_image"
	RetellLecture       QuestionType = "retell_lecture"
	AnswerShortQuestion QuestionType = "answer_short_question"

	SummarizeWrittenText QuestionType = "summarize_written_text"
	Essay                QuestionType = "essay"

	ReadingMultipleChoiceSingle   QuestionType = "reading_multiple_choice_single"
	ReadingMultipleChoiceMultiple QuestionType = "reading_multiple_choice_multiple"
	ReorderParagraphs             QuestionType = "reorder_paragraphs"
	ReadingFillBlanks             QuestionType = "reading_fill_blanks"

	SummarizeSpokenText             QuestionType = "summarize_spoken_text"
	ListeningMultipleChoiceSingle   QuestionType = "listening_multiple_choice_single"
	ListeningMultipleChoiceMultiple QuestionType = "listening_multiple_choice_multiple"
	HighlightCorrectSummary         QuestionType = "highlight_correct_summary"
	SelectMissingWord               QuestionType = "select_missing_word"
	WriteFromDictation              QuestionType = "write_from_dictation"
)

type Category string

const (
	CategorySpeaking  Category = "speaking"
	CategoryWriting   Category = "writing"
	CategoryReading   Category = "reading"
	CategoryListening Category = "listening"
)

type SubmissionKind string

const (
	SubmissionAudio  SubmissionKind = "audio"
	SubmissionText   SubmissionKind = "text"
	SubmissionChoice SubmissionKind = "choice"
)

type Component string

const (
	ComponentContent       Component = "content"
	ComponentFluency       Component = "fluency"
	ComponentPronunciation Component = "pronunciation"
	ComponentGrammar       Component = "grammar"
	ComponentVocabulary    Component = "vocabulary"
	ComponentSpelling      Component = "spelling"
	ComponentStructure     Component = "structure"
	ComponentAccuracy      Component = "accuracy"
)

// MaxScore is the upper bound of every component and of the overall score.
const MaxScore = 90.0

type questionTypeInfo struct {
	category   Category
	kind       SubmissionKind
	components []Component
}

var speakingComponents = []Component{ComponentContent, ComponentFluency, ComponentPronunciation}

var questionTypes = map[QuestionType]questionTypeInfo{
	ReadAloud:           {CategorySpeaking, SubmissionAudio, speakingComponents},
	RepeatSentence:      {CategorySpeaking, SubmissionAudio, speakingComponents},
	DescribeImage:       {CategorySpeaking, SubmissionAudio, speakingComponents},
	RetellLecture:       {CategorySpeaking, SubmissionAudio, speakingComponents},
	AnswerShortQuestion: {CategorySpeaking, SubmissionAudio, []Component{ComponentAccuracy}},

	SummarizeWrittenText: {CategoryWriting, SubmissionText, []Component{ComponentContent, ComponentGrammar, ComponentVocabulary}},
	Essay: {CategoryWriting, SubmissionText, []Component{
		ComponentContent, ComponentGrammar, ComponentVocabulary, ComponentSpelling, ComponentStructure,
	}},

	ReadingMultipleChoiceSingle:   {CategoryReading, SubmissionChoice, nil},
	ReadingMultipleChoiceMultiple: {CategoryReading, SubmissionChoice, nil},
	ReorderParagraphs:             {CategoryReading, SubmissionChoice, nil},
	ReadingFillBlanks:             {CategoryReading, SubmissionChoice, nil},

	SummarizeSpokenText:             {CategoryListening, SubmissionText, []Component{ComponentContent, ComponentGrammar, ComponentVocabulary, ComponentSpelling}},
	ListeningMultipleChoiceSingle:   {CategoryListening, SubmissionChoice, nil},
	ListeningMultipleChoiceMultiple: {CategoryListening, SubmissionChoice, nil},
	HighlightCorrectSummary:         {CategoryListening, SubmissionChoice, nil},
	SelectMissingWord:               {CategoryListening, SubmissionChoice, nil},
	WriteFromDictation:              {CategoryListening, SubmissionText, []Component{ComponentAccuracy}},
}

func (t QuestionType) Valid() bool {
	_, ok := questionTypes[t]
	return ok
}

func (t QuestionType) Category() Category {
	return questionTypes[t].category
}

func (t QuestionType) SubmissionKind() SubmissionKind {
	return questionTypes[t].kind
}

// Components returns the rubric components scored for this type. Choice types have none.
func (t QuestionType) Components() []Component {
	src := questionTypes[t].components
	out := make([]Component, len(src))
	copy(out, src)
	return out
}

// IsSpoken reports whether the candidate's response is audio.
func (t QuestionType) IsSpoken() bool {
	return t.SubmissionKind() == SubmissionAudio
}

func AllQuestionTypes() []QuestionType {
	out := make([]QuestionType, 0, len(questionTypes))
	for t := range questionTypes {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
