// ABOUTME: Tests for the translation orchestrator
// ABOUTME: Verifies call order, English chaining, and all-or-nothing failure

package translate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedRewriter records every call and answers from a script keyed by a
// substring of the instruction.
type scriptedRewriter struct {
	calls []rewriteCall
	fail  string // instruction substring that triggers an error
}

type rewriteCall struct {
	instruction string
	input       string
}

func (s *scriptedRewriter) Rewrite(ctx context.Context, instruction, input string) (string, error) {
	s.calls = append(s.calls, rewriteCall{instruction, input})
	if s.fail != "" && strings.Contains(instruction, s.fail) {
		return "", errors.New("provider error")
	}
	if strings.Contains(instruction, "into English") {
		return "EN(" + input + ")", nil
	}
	return fmt.Sprintf("%s(%s)", instructionTarget(instruction), input), nil
}

func instructionTarget(instruction string) string {
	rest := instruction[strings.Index(instruction, "into ")+len("into "):]
	return rest[:strings.Index(rest, ".")]
}

func TestTranslate_EnglishFirstThenTargetsInOrder(t *testing.T) {
	rw := &scriptedRewriter{}
	o := New(rw, nil)

	renderings, err := o.Translate(context.Background(), "hello", []string{"日文", "韓文"})
	require.NoError(t, err)

	require.Len(t, renderings, 3)
	assert.Equal(t, "English", renderings[0].Label)
	assert.Equal(t, "日文", renderings[1].Label)
	assert.Equal(t, "韓文", renderings[2].Label)

	// Targets chain off the English intermediate, not the original text.
	assert.Equal(t, "EN(hello)", renderings[0].Text)
	assert.Equal(t, "Japanese(EN(hello))", renderings[1].Text)
	assert.Equal(t, "Korean(EN(hello))", renderings[2].Text)

	require.Len(t, rw.calls, 3)
	assert.Equal(t, "hello", rw.calls[0].input)
	assert.Equal(t, "EN(hello)", rw.calls[1].input)
	assert.Equal(t, "EN(hello)", rw.calls[2].input)
}

func TestTranslate_AllEnglishTargetsCollapse(t *testing.T) {
	rw := &scriptedRewriter{}
	o := New(rw, nil)

	renderings, err := o.Translate(context.Background(), "hola", []string{"English"})
	require.NoError(t, err)
	require.Len(t, renderings, 1)
	assert.Equal(t, "English", renderings[0].Label)
	assert.Len(t, rw.calls, 1)
}

func TestTranslate_EnglishSkipIsCaseInsensitive(t *testing.T) {
	rw := &scriptedRewriter{}
	o := New(rw, nil)

	renderings, err := o.Translate(context.Background(), "hola", []string{"english", "日文", "ENGLISH"})
	require.NoError(t, err)
	require.Len(t, renderings, 2)
	assert.Equal(t, []string{"English", "日文"}, []string{renderings[0].Label, renderings[1].Label})
}

func TestTranslate_EnglishStageIsUnconditional(t *testing.T) {
	rw := &scriptedRewriter{}
	o := New(rw, nil)

	renderings, err := o.Translate(context.Background(), "hola", []string{"日文"})
	require.NoError(t, err)
	assert.Equal(t, "English", renderings[0].Label)
	assert.Contains(t, rw.calls[0].instruction, "into English")
}

func TestTranslate_EnglishFailureAbortsEverything(t *testing.T) {
	rw := &scriptedRewriter{fail: "into English"}
	o := New(rw, nil)

	renderings, err := o.Translate(context.Background(), "hola", []string{"日文"})
	assert.ErrorIs(t, err, ErrTranslationFailed)
	assert.Nil(t, renderings, "no partial mapping on failure")
	assert.Len(t, rw.calls, 1, "no target calls after the English stage fails")
}

func TestTranslate_TargetFailureYieldsNoPartialResult(t *testing.T) {
	rw := &scriptedRewriter{fail: "into Korean"}
	o := New(rw, nil)

	renderings, err := o.Translate(context.Background(), "hola", []string{"日文", "韓文", "泰文"})
	assert.ErrorIs(t, err, ErrTranslationFailed)
	assert.Nil(t, renderings)
	// Not retried, and later targets are never attempted.
	assert.Len(t, rw.calls, 3)
}

func TestTranslate_InstructionUsesCanonicalLanguageName(t *testing.T) {
	rw := &scriptedRewriter{}
	o := New(rw, nil)

	_, err := o.Translate(context.Background(), "hi", []string{"日文"})
	require.NoError(t, err)
	assert.Contains(t, rw.calls[1].instruction, "into Japanese")
	assert.Contains(t, rw.calls[1].instruction, "no additional explanations")
}
