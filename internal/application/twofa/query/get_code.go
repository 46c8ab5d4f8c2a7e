package query

import (
	"context"

	"gitlab.com/nestpass/twofa-backend/internal/domain/twofa"
	"gitlab.com/nestpass/twofa-backend/pkg/errorx"
)

type VerificationGetter interface {
	Get(ctx context.Context, userID string) (*twofa.Record, error)
}

type GetCodeHandler struct {
	store VerificationGetter
}

func NewGetCodeHandler(store VerificationGetter) *GetCodeHandler {
	return &GetCodeHandler{
		store: store,
	}
}

func (h *GetCodeHandler) Handle(ctx context.Context, userID string) (string, error) {
	const op = "query.GetCodeHandler.Handle"
	rec, err := h.store.Get(ctx, userID)
	if err != nil {
		return "", errorx.Wrap(err, op)
	}

	return rec.Code(), nil
}
