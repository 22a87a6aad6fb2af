// Package content implements the ContentProducer abstraction: given a
// normalized view of an inbound request, produce the complete response
// artifact string that the pipeline will then tokenize and stream.
package content

import (
	"math"
	"math/rand"
	"strconv"
	"strings"
)

// Message is the minimal role/content view a ContentProducer needs; both the
// chat-completions and responses wire shapes project down to a slice of
// these before content generation runs.
type Message struct {
	Role    string
	Content string
}

// Request is the producer-facing view of an inbound request.
type Request struct {
	Model    string
	Messages []Message
}

// Producer generates a complete response string for a request.
type Producer interface {
	Generate(req Request) string
	Name() string
}

// loremWords is the ~60-word Latin vocabulary used by the lorem producer.
var loremWords = []string{
	"lorem", "ipsum", "dolor", "sit", "amet", "consectetur", "adipiscing", "elit",
	"sed", "do", "eiusmod", "tempor", "incididunt", "ut", "labore", "et",
	"dolore", "magna", "aliqua", "enim", "ad", "minim", "veniam", "quis",
	"nostrud", "exercitation", "ullamco", "laboris", "nisi", "aliquip", "ex", "ea",
	"commodo", "consequat", "duis", "aute", "irure", "in", "reprehenderit", "voluptate",
	"velit", "esse", "cillum", "fugiat", "nulla", "pariatur", "excepteur", "sint",
	"occaecat", "cupidatat", "non", "proident", "sunt", "culpa", "qui", "officia",
	"deserunt", "mollit", "anim", "id", "est", "laborum",
}

// commonWords is the ~100-word English stopword vocabulary used by the
// random producer.
var commonWords = []string{
	"the", "be", "to", "of", "and", "a", "in", "that", "have", "I", "it", "for", "not", "on",
	"with", "he", "as", "you", "do", "at", "this", "but", "his", "by", "from", "they", "we",
	"say", "her", "she", "or", "an", "will", "my", "one", "all", "would", "there", "their",
	"what", "so", "up", "out", "if", "about", "who", "get", "which", "go", "me", "when",
	"make", "can", "like", "time", "no", "just", "him", "know", "take", "people", "into",
	"year", "your", "good", "some", "could", "them", "see", "other", "than", "then", "now",
	"look", "only", "come", "its", "over", "think", "also", "back", "after", "use", "two",
	"how", "our", "work", "first", "well", "way", "even", "new", "want", "because", "any",
	"these", "give", "day", "most", "us",
}

func capitalize(word string) string {
	if word == "" {
		return word
	}

	return strings.ToUpper(word[:1]) + word[1:]
}

func joinWithPunctuation(words []string, period func(i int) bool) string {
	var sb strings.Builder

	for i, word := range words {
		if i == 0 {
			sb.WriteString(capitalize(word))
		} else {
			sb.WriteByte(' ')
			sb.WriteString(word)
		}

		if period(i) && i < len(words)-1 {
			sb.WriteByte('.')
		}
	}

	sb.WriteByte('.')

	return sb.String()
}

// Lorem produces round(target_tokens * 0.75) words drawn uniformly from a
// fixed Latin vocabulary, with a period every 10 words.
type Lorem struct {
	TargetTokens int
}

func (l Lorem) Generate(_ Request) string {
	wordCount := int(math.Round(float64(l.TargetTokens) * 0.75))
	if wordCount < 1 {
		wordCount = 1
	}

	words := make([]string, wordCount)
	for i := range words {
		words[i] = loremWords[rand.Intn(len(loremWords))]
	}

	return joinWithPunctuation(words, func(i int) bool { return (i+1)%10 == 0 })
}

func (l Lorem) Name() string { return "lorem" }

// Echo scans the request's messages in reverse and echoes the last
// user-role message.
type Echo struct{}

func (Echo) Generate(req Request) string {
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if strings.EqualFold(req.Messages[i].Role, "user") {
			return "Echo: " + req.Messages[i].Content
		}
	}

	return "Echo: (no user message found)"
}

func (Echo) Name() string { return "echo" }

// Fixed returns a compile/config-time string verbatim.
type Fixed struct {
	Response string
}

func (f Fixed) Generate(_ Request) string { return f.Response }
func (f Fixed) Name() string              { return "fixed" }

// Random is like Lorem but draws from an English stopword vocabulary and
// randomizes the punctuation cadence in [8,15).
type Random struct {
	TargetTokens int
}

func (r Random) Generate(_ Request) string {
	wordCount := int(math.Round(float64(r.TargetTokens) * 0.75))
	if wordCount < 1 {
		wordCount = 1
	}

	words := make([]string, wordCount)
	for i := range words {
		words[i] = commonWords[rand.Intn(len(commonWords))]
	}

	cadence := rand.Intn(7) + 8 // [8, 15)

	return joinWithPunctuation(words, func(i int) bool { return (i+1)%cadence == 0 })
}

func (r Random) Name() string { return "random_word" }

// Sequence returns "1 2 3 … N" where N = max(1, target_tokens).
type Sequence struct {
	TargetTokens int
}

func (s Sequence) Generate(_ Request) string {
	n := s.TargetTokens
	if n < 1 {
		n = 1
	}

	parts := make([]string, n)
	for i := 0; i < n; i++ {
		parts[i] = strconv.Itoa(i + 1)
	}

	return strings.Join(parts, " ")
}

func (s Sequence) Name() string { return "sequence" }

const fixedPrefix = "fixed:"

// New is the generator factory: it maps a configured name to the concrete
// Producer. Any unrecognized name falls back to lorem with targetTokens;
// "fixed:<string>" is recognized by prefix regardless of case.
func New(name string, targetTokens int) Producer {
	lower := strings.ToLower(name)

	switch {
	case lower == "lorem":
		return Lorem{TargetTokens: targetTokens}
	case lower == "echo":
		return Echo{}
	case lower == "random", lower == "random_word":
		return Random{TargetTokens: targetTokens}
	case lower == "sequence":
		return Sequence{TargetTokens: targetTokens}
	case strings.HasPrefix(lower, fixedPrefix):
		return Fixed{Response: name[len(fixedPrefix):]}
	default:
		return Lorem{TargetTokens: targetTokens}
	}
}
