package ledger

import (
	"context"
	"io"
)

type LedgerService interface {
	GetLedger(ctx context.Context, req LedgerRequest) (LedgerResponse, error)
	ExportLedger(ctx context.Context, req LedgerRequest, w io.Writer) (filename string, err error)
}
