package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleRequest() Request {
	return Request{
		Model: "gpt-4",
		Messages: []Message{
			{Role: "system", Content: "You are a helpful assistant."},
			{Role: "user", Content: "Hello, how are you?"},
		},
	}
}

func TestLorem(t *testing.T) {
	out := Lorem{TargetTokens: 50}.Generate(sampleRequest())
	assert.NotEmpty(t, out)
	assert.True(t, strings.HasSuffix(out, "."))
}

func TestEcho(t *testing.T) {
	out := Echo{}.Generate(sampleRequest())
	assert.Equal(t, "Echo: Hello, how are you?", out)
}

func TestEcho_NoUserMessage(t *testing.T) {
	out := Echo{}.Generate(Request{Messages: []Message{{Role: "system", Content: "hi"}}})
	assert.Equal(t, "Echo: (no user message found)", out)
}

func TestFixed(t *testing.T) {
	out := Fixed{Response: "This is a fixed response."}.Generate(sampleRequest())
	assert.Equal(t, "This is a fixed response.", out)
}

func TestSequence(t *testing.T) {
	out := Sequence{TargetTokens: 10}.Generate(sampleRequest())
	assert.Equal(t, "1 2 3 4 5 6 7 8 9 10", out)
}

func TestNew_Factory(t *testing.T) {
	assert.Equal(t, "lorem", New("lorem", 100).Name())
	assert.Equal(t, "echo", New("echo", 100).Name())
	assert.Equal(t, "random_word", New("random", 100).Name())
	assert.Equal(t, "sequence", New("sequence", 100).Name())
	assert.Equal(t, "fixed", New("fixed:Hi.", 100).Name())
	assert.Equal(t, "Hi.", New("fixed:Hi.", 100).Generate(sampleRequest()))
	assert.Equal(t, "lorem", New("unknown-generator", 100).Name())
}
