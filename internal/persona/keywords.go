package persona

// Phrase sets backing the keyword rules. Containment checks run against the
// normalized transcript, so every entry is lower case.

// dontKnowPhrases are the canonical "I don't know" forms. The full set feeds
// the fingerprint similarity check and the interviewer's mercy path; only the
// pronoun forms in strongDontKnowPhrases match by plain containment, so an
// answer that merely mentions being "not sure" about one detail is not
// swallowed whole.
var dontKnowPhrases = []string{
	"i don't know",
	"i dont know",
	"don't know",
	"dont know",
	"i'm not sure",
	"im not sure",
	"not sure",
}

var strongDontKnowPhrases = []string{
	"i don't know",
	"i dont know",
	"i'm not sure",
	"im not sure",
}

// repeatPhrases catch answers that quote the question back or ask for it
// again instead of answering.
var repeatPhrases = []string{
	"tell me",
	"describe",
	"explain",
	"how would you",
	"what is",
	"can you",
	"could you",
	"repeat the question",
	"ask again",
	"say that again",
	"can you repeat",
	"another question",
	"different question",
	"repeat",
}

// discussionPhrases catch attempts to open a discussion instead of answering.
var discussionPhrases = []string{
	"can we discuss",
	"let's talk about",
	"rather than",
	"instead of",
	"going over",
	"talk about",
	"discuss this",
	"what do you think about",
	"let's discuss this topic instead",
}

// topicChangePhrases catch requests to skip to a different topic.
var topicChangePhrases = []string{
	"move to next",
	"next topic",
	"change topic",
	"different topic",
	"skip this",
	"let's move on",
	"can we move on",
	"let's discuss something else",
	"can we talk about something else",
}

// hedgingIndicators mark an answer as not directly addressing the question.
var hedgingIndicators = []string{
	"uhh",
	"umm",
	"i think",
	"maybe",
	"i guess",
	"not sure",
	"confused",
	"unclear",
	"i'm lost",
	"don't understand",
	"i don't know",
	"i am lost",
	"cannot understand",
}

// fillerIndicators measure filler-word density for the rambling check.
var fillerIndicators = []string{
	"well",
	"you know",
	"like",
	"um",
	"uh",
	"er",
	"ah",
	"actually",
	"basically",
	"literally",
	"totally",
	"honestly",
	"frankly",
	"to be honest",
	"in my opinion",
	"i mean",
	"kind of",
	"sort of",
}

// structuredIndicators mark clear, organized language.
var structuredIndicators = []string{
	"specifically",
	"exactly",
	"directly",
	"clearly",
	"precisely",
	"effectively",
	"efficiently",
	"first",
	"second",
	"third",
	"finally",
	"in summary",
	"to conclude",
	"therefore",
	"consequently",
	"as a result",
	"thus",
	"hence",
}

// structuredPhrases alone are enough to call an answer structured.
var structuredPhrases = []string{
	"in summary",
	"to conclude",
	"first",
	"second",
	"therefore",
	"consequently",
}

// clearShortAnswers qualify a very short answer as direct.
var clearShortAnswers = []string{
	"yes",
	"no",
	"definitely",
	"certainly",
	"absolutely",
	"specifically",
	"exactly",
	"indeed",
	"correct",
	"true",
	"false",
}
