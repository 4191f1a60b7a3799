package anthropic

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageResponse_Text(t *testing.T) {
	resp := &MessageResponse{
		Content: []ContentBlock{
			{Type: "text", Text: "first"},
			{Type: "text", Text: ""},
			{Type: "text", Text: "second"},
		},
	}
	assert.Equal(t, "first\nsecond", resp.Text())
}

func TestMessageResponse_TextEmpty(t *testing.T) {
	resp := &MessageResponse{}
	assert.Empty(t, resp.Text())
}

func TestToSDKMessages_Roles(t *testing.T) {
	out := toSDKMessages([]Message{
		{Role: "user", Content: "question"},
		{Role: "assistant", Content: "answer"},
	})
	assert.Len(t, out, 2)
	assert.Equal(t, "user", string(out[0].Role))
	assert.Equal(t, "assistant", string(out[1].Role))
}
