package payslip

import (
	"context"
	"io"
)

type PayslipService interface {
	Import(ctx context.Context, req ImportRequest) (ImportResponse, error)
	List(ctx context.Context, filter DocumentFilter) (ListDocumentsResponse, error)
	GetClassified(ctx context.Context, id string) (ClassifiedResponse, error)
	RenderPDF(ctx context.Context, id string, w io.Writer) (filename string, err error)
	Delete(ctx context.Context, id string) error
}
