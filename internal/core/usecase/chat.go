package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/indexcol-web/document-chat/internal/core/domain"
	"github.com/indexcol-web/document-chat/internal/core/ports"
)

// ChatUseCase orchestrates one document-grounded chat turn: resolve the
// scope, assemble the context, build the prompt, call the completion backend
// and return its reply untransformed.
type ChatUseCase struct {
	assembler       *ContextAssembler
	completer       ports.ChatCompleter
	defaultModelID  string
	completeTimeout time.Duration
}

func NewChatUseCase(
	assembler *ContextAssembler,
	completer ports.ChatCompleter,
	defaultModelID string,
	completeTimeout time.Duration,
) *ChatUseCase {
	if completeTimeout <= 0 {
		completeTimeout = 60 * time.Second
	}
	return &ChatUseCase{
		assembler:       assembler,
		completer:       completer,
		defaultModelID:  defaultModelID,
		completeTimeout: completeTimeout,
	}
}

func (uc *ChatUseCase) HandleTurn(
	ctx context.Context,
	messages []domain.Message,
	scope domain.Scope,
	modelID string,
) (domain.ChatTurn, error) {
	if len(messages) == 0 {
		return domain.ChatTurn{}, domain.WrapError(domain.ErrInvalidInput, "chat turn", errors.New("messages are required"))
	}

	contextBlock, manifest, err := uc.assembler.Assemble(ctx, scope)
	if err != nil {
		// Storage unreachable: abort instead of answering without grounding.
		return domain.ChatTurn{}, err
	}

	final := BuildMessages(manifest, contextBlock, messages)

	model := strings.TrimSpace(modelID)
	if model == "" {
		model = uc.defaultModelID
	}

	completeCtx, cancel := context.WithTimeout(ctx, uc.completeTimeout)
	defer cancel()

	reply, err := uc.completer.Complete(completeCtx, model, final)
	if err != nil {
		if domain.IsKind(err, domain.ErrUpstream) {
			return domain.ChatTurn{}, err
		}
		return domain.ChatTurn{}, domain.WrapError(domain.ErrUpstream, "complete chat", err)
	}
	return domain.ChatTurn{Reply: reply, Manifest: manifest}, nil
}
