package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/itsatony/go-promptgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type stubModels struct {
	resp     *genai.GenerateContentResponse
	err      error
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

func (m *stubModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	m.model = model
	m.contents = contents
	m.config = config
	return m.resp, m.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: genai.NewContentFromText(text, genai.RoleModel)}},
	}
}

func TestNew_Validation(t *testing.T) {
	t.Setenv(EnvAPIKey, "")

	_, err := New(context.Background(), "", "gemini-2.0-flash")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgMissingKey)

	_, err = New(context.Background(), "key", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgMissingModel)

	t.Setenv(EnvAPIKey, "from-env")
	_, err = New(context.Background(), "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgMissingModel)
}

func TestService_Complete(t *testing.T) {
	models := &stubModels{resp: textResponse("Sacramento")}
	svc := newService(models, "gemini-2.0-flash")
	conv := promptgen.NewConversation().
		AddSystem("be brief").
		AddUser("capital of California?").
		AddAssistant("Sacramento").
		AddSystem("answer in English").
		AddUser("and Texas?")

	out, err := svc.Complete(context.Background(), conv, promptgen.Settings{MaxTokens: 50, Temperature: 0.25, TopP: 0.5})
	require.NoError(t, err)
	assert.Equal(t, "Sacramento", out)

	assert.Equal(t, "gemini-2.0-flash", models.model)
	require.Len(t, models.contents, 3)
	assert.Equal(t, string(genai.RoleUser), models.contents[0].Role)
	assert.Equal(t, string(genai.RoleModel), models.contents[1].Role)
	assert.Equal(t, "and Texas?", models.contents[2].Parts[0].Text)

	cfg := models.config
	assert.Equal(t, int32(50), cfg.MaxOutputTokens)
	assert.Equal(t, float32(0.25), *cfg.Temperature)
	assert.Equal(t, float32(0.5), *cfg.TopP)
	require.NotNil(t, cfg.SystemInstruction)
	assert.Equal(t, "be brief\nanswer in English", cfg.SystemInstruction.Parts[0].Text)
}

func TestService_CompleteWithoutSystem(t *testing.T) {
	models := &stubModels{resp: textResponse("ok")}
	_, err := newService(models, "m").Complete(context.Background(), promptgen.NewConversation().AddUser("hi"), promptgen.Settings{})
	require.NoError(t, err)
	assert.Nil(t, models.config.SystemInstruction)
}

func TestService_CompleteErrors(t *testing.T) {
	conv := promptgen.NewConversation().AddUser("hi")
	cause := errors.New("quota exceeded")

	_, err := newService(&stubModels{err: cause}, "m").Complete(context.Background(), conv, promptgen.Settings{})
	assert.ErrorIs(t, err, cause)

	_, err = newService(&stubModels{resp: &genai.GenerateContentResponse{}}, "m").Complete(context.Background(), conv, promptgen.Settings{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgNoContent)
}
