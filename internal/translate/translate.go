// ABOUTME: Translation orchestrator: English first, then fan-out to each target
// ABOUTME: Every target rewrites the English intermediate, not the original text

package translate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hibiscus-labs/lingo-relay/internal/profile"
)

// ErrTranslationFailed is returned when any rewrite call of the pipeline
// errors or returns nothing usable. No partial result is returned.
var ErrTranslationFailed = errors.New("translation failed")

// EnglishLabel is the key of the mandatory first rendering.
const EnglishLabel = "English"

// Rewriter is the text-rewrite collaborator boundary: one instruction, one
// input, one output blob. Timeout and retry policy live behind it.
type Rewriter interface {
	Rewrite(ctx context.Context, instruction, input string) (string, error)
}

// Rendering is one translated entry. A slice of renderings is the ordered
// mapping from language label to text.
type Rendering struct {
	Label string
	Text  string
}

// Orchestrator chains rewrite calls into the fixed pipeline.
type Orchestrator struct {
	rewriter Rewriter
	logger   *slog.Logger
}

// New creates an orchestrator over the given rewriter.
func New(rewriter Rewriter, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		rewriter: rewriter,
		logger:   logger.With("component", "translate"),
	}
}

// Translate renders text into English and then into each target language,
// in caller order. The English stage is unconditional; targets equal to
// "English" (case-insensitive) are skipped since the mandatory stage
// already covers them. Each target stage rewrites the English intermediate
// so terminology stays consistent across targets. Calls are sequential and
// never retried; the first failure aborts the whole operation.
func (o *Orchestrator) Translate(ctx context.Context, text string, targets []string) ([]Rendering, error) {
	english, err := o.rewriter.Rewrite(ctx, englishInstruction, text)
	if err != nil {
		return nil, fmt.Errorf("%w: rendering English: %v", ErrTranslationFailed, err)
	}

	renderings := []Rendering{{Label: EnglishLabel, Text: english}}
	for _, target := range targets {
		if strings.EqualFold(strings.TrimSpace(target), EnglishLabel) {
			continue
		}
		out, err := o.rewriter.Rewrite(ctx, targetInstruction(target), english)
		if err != nil {
			return nil, fmt.Errorf("%w: rendering %s: %v", ErrTranslationFailed, target, err)
		}
		renderings = append(renderings, Rendering{Label: target, Text: out})
	}

	o.logger.Debug("translation complete", "targets", len(renderings))
	return renderings, nil
}

const englishInstruction = "You are a professional translator. " +
	"Translate the input text into English. " +
	"Output the translation only, with no additional explanations."

func targetInstruction(target string) string {
	return fmt.Sprintf("You are a professional translator. "+
		"Translate the input text into %s. "+
		"Output the translation only, with no additional explanations.",
		profile.CanonicalLanguage(target))
}
